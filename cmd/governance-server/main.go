// Package main provides the governance server entry point. It hosts the
// portfolio baseline governance API used by the case-management platform.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang/glog"

	"github.com/verdica/case-governance/internal/db"
	"github.com/verdica/case-governance/pkg/audit"
	"github.com/verdica/case-governance/pkg/authz"
	"github.com/verdica/case-governance/pkg/baseline"
	"github.com/verdica/case-governance/pkg/cache"
	"github.com/verdica/case-governance/pkg/ha"
	"github.com/verdica/case-governance/pkg/tenancy"
)

func main() {
	var (
		listenAddr   string
		configPath   string
		databaseType string
		databaseDSN  string
		tenancyMode  string
	)

	flag.StringVar(&listenAddr, "listen", ":8080", "Address to listen on")
	flag.StringVar(&configPath, "config", "/config/governance.yaml", "Path to governance config")
	flag.StringVar(&databaseType, "db-type", "postgres", "Database type (sqlite, mysql, or postgres)")
	flag.StringVar(&databaseDSN, "db-dsn", "", "Database connection string")
	flag.StringVar(&tenancyMode, "tenancy-mode", "", "Tenancy mode (single or company)")
	flag.Parse()

	if databaseDSN == "" {
		databaseDSN = os.Getenv("DATABASE_DSN")
	}
	if tenancyMode == "" {
		tenancyMode = os.Getenv("GOVERNANCE_TENANCY_MODE")
	}
	if tenancyMode == "" {
		tenancyMode = string(tenancy.ModeSingle)
	}

	// Initialize glog for backwards compatibility
	_ = flag.Set("logtostderr", "true")

	// Set up structured logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting governance server",
		"listen", listenAddr,
		"config", configPath,
		"tenancyMode", tenancyMode,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := baseline.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := db.Connect(databaseType, databaseDSN)
	if err != nil {
		glog.Fatalf("Failed to connect to database: %v", err)
	}

	portfolios := baseline.NewPortfolioStore(gormDB)
	versions := baseline.NewVersionStore(gormDB)
	auditStore := baseline.NewAuditStore(gormDB)
	guards := baseline.NewGuards(portfolios, versions, cfg.AdminRoles)

	// Run migrations under a lock so concurrent replicas do not race.
	locker := ha.NewMigrationLocker(gormDB)
	if err := locker.WithLock(ctx, portfolios.AutoMigrate); err != nil {
		glog.Fatalf("Failed to run migrations: %v", err)
	}

	caches := cache.NewGuardCacheManager(
		cfg.Cache.Enabled,
		cfg.Cache.MaxSize,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		baseline.APIPrefix,
	)

	// Identity: JWT when configured, X-Remote-User headers otherwise.
	identityMW := authz.IdentityMiddleware()
	if os.Getenv("GOVERNANCE_AUTH_MODE") == "jwt" {
		jwtCfg := authz.JWTIdentityConfig{
			RoleClaim:     envOrDefault("GOVERNANCE_JWT_ROLE_CLAIM", "role"),
			SubjectClaim:  envOrDefault("GOVERNANCE_JWT_SUBJECT_CLAIM", "sub"),
			PublicKeyPath: os.Getenv("GOVERNANCE_JWT_PUBLIC_KEY_PATH"),
			Issuer:        os.Getenv("GOVERNANCE_JWT_ISSUER"),
			Audience:      os.Getenv("GOVERNANCE_JWT_AUDIENCE"),
			Logger:        logger,
		}
		identityMW, err = authz.NewJWTIdentityMiddleware(jwtCfg)
		if err != nil {
			glog.Fatalf("Failed to configure JWT auth: %v", err)
		}
		logger.Info("using JWT auth",
			"roleClaim", jwtCfg.RoleClaim,
			"hasPublicKey", jwtCfg.PublicKeyPath != "")
	}

	auditCfg := audit.AuditConfigFromEnv()
	if cfg.AuditRetention.Days > 0 {
		auditCfg.RetentionDays = cfg.AuditRetention.Days
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", tenancy.CompanyHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(tenancy.NewMiddleware(tenancy.TenancyMode(tenancyMode)))
	router.Use(identityMW)
	router.Use(audit.Middleware(auditStore, auditCfg, logger))
	router.Mount(baseline.APIPrefix, baseline.NewRouterFull(portfolios, versions, guards, auditStore, caches))
	router.Mount("/", baseline.HealthRouter(func() error {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}))

	retention := audit.NewRetentionWorker(auditStore, auditCfg.RetentionDays, logger)
	go retention.Run(ctx)

	logger.Info("governance server ready", "listen", listenAddr)

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("governance server stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
