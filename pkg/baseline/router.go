package baseline

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdica/case-governance/pkg/cache"
)

// APIPrefix is the path the governance router is mounted under.
const APIPrefix = "/api/governance/v1alpha1"

// NewRouter creates a chi router with the baseline governance API routes.
func NewRouter(portfolios *PortfolioStore, versions *VersionStore, guards *Guards, audit *AuditStore) chi.Router {
	return NewRouterFull(portfolios, versions, guards, audit, nil)
}

// NewRouterFull creates a chi router with all governance routes, with
// guard-check response caching when caches is non-nil.
func NewRouterFull(
	portfolios *PortfolioStore,
	versions *VersionStore,
	guards *Guards,
	audit *AuditStore,
	caches *cache.GuardCacheManager,
) chi.Router {
	r := chi.NewRouter()

	cached := caches.Middleware()

	r.Route("/portfolios", func(r chi.Router) {
		r.Post("/", CreatePortfolioHandler(portfolios))
		r.Get("/", ListPortfoliosHandler(portfolios))

		r.Route("/{portfolioID}", func(r chi.Router) {
			r.Get("/", GetPortfolioHandler(portfolios))
			r.Post("/baselines", CreateDraftHandler(versions, guards, audit, caches))
			r.Get("/baselines", ListVersionsHandler(versions, guards))
			r.With(cached).Get("/origination-check", OriginationCheckHandler(guards))
			r.Get("/audit", AuditTrailHandler(audit, guards))
		})
	})

	r.Route("/baselines/{versionID}", func(r chi.Router) {
		r.Get("/", GetVersionHandler(versions, guards))
		r.Put("/modules/{moduleType}", UpdateModuleHandler(versions, guards, audit))
		r.Post("/modules/{moduleType}:validate", ValidateModuleHandler())
		r.With(cached).Get("/publish-check", PublishCheckHandler(versions, guards))
		r.Post("/actions/{action}", LifecycleActionHandler(versions, guards, audit, caches))
	})

	return r
}

// HealthRouter returns liveness and readiness endpoints. ready reports
// whether the database connection is usable.
func HealthRouter(ready func() error) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil {
			if err := ready(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	return r
}
