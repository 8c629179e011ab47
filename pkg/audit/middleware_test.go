package audit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/verdica/case-governance/pkg/authz"
	"github.com/verdica/case-governance/pkg/baseline"
	"github.com/verdica/case-governance/pkg/tenancy"
)

func setupAuditStore(t *testing.T) (*baseline.AuditStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, baseline.NewPortfolioStore(db).AutoMigrate())
	return baseline.NewAuditStore(db), db
}

func auditRequest(method, path string, status int) (*http.Request, http.Handler) {
	req := httptest.NewRequest(method, path, nil)
	ctx := tenancy.WithTenant(req.Context(), tenancy.TenantContext{CompanyID: "acme"})
	ctx = authz.WithIdentity(ctx, authz.Identity{User: "alice", Role: "OWNER"})
	backend := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})
	return req.WithContext(ctx), backend
}

func listEvents(t *testing.T, db *gorm.DB) []baseline.GovernanceAuditRecord {
	t.Helper()
	var records []baseline.GovernanceAuditRecord
	require.NoError(t, db.Find(&records).Error)
	return records
}

func TestMiddlewareRecordsMutatingRequest(t *testing.T) {
	store, db := setupAuditStore(t)
	mw := Middleware(store, DefaultAuditConfig(), nil)

	req, backend := auditRequest(http.MethodPost, "/baselines/v1/actions/publish", http.StatusOK)
	req.Header.Set("X-Request-Id", "req-123")
	mw(backend).ServeHTTP(httptest.NewRecorder(), req)

	records := listEvents(t, db)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "governance.http.request", rec.EventType)
	assert.Equal(t, "acme", rec.CompanyID)
	assert.Equal(t, "alice", rec.Actor)
	assert.Equal(t, "req-123", rec.CorrelationID)
	assert.Equal(t, "v1", rec.VersionID)
	assert.Equal(t, "publish", rec.Action)
	assert.Equal(t, "success", rec.Outcome)
}

func TestMiddlewareSkipsReads(t *testing.T) {
	store, db := setupAuditStore(t)
	mw := Middleware(store, DefaultAuditConfig(), nil)

	req, backend := auditRequest(http.MethodGet, "/portfolios/p1/origination-check", http.StatusOK)
	mw(backend).ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, listEvents(t, db))
}

func TestMiddlewareDropsDenialsWhenConfigured(t *testing.T) {
	store, db := setupAuditStore(t)
	cfg := DefaultAuditConfig()
	cfg.LogDenied = false
	mw := Middleware(store, cfg, nil)

	req, backend := auditRequest(http.MethodPost, "/portfolios/p1/baselines", http.StatusForbidden)
	mw(backend).ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, listEvents(t, db))

	// Conflicts are still recorded as rejected.
	req, backend = auditRequest(http.MethodPost, "/portfolios/p1/baselines", http.StatusConflict)
	mw(backend).ServeHTTP(httptest.NewRecorder(), req)
	records := listEvents(t, db)
	require.Len(t, records, 1)
	assert.Equal(t, "rejected", records[0].Outcome)
}

func TestMiddlewareDisabled(t *testing.T) {
	store, db := setupAuditStore(t)
	cfg := DefaultAuditConfig()
	cfg.Enabled = false
	mw := Middleware(store, cfg, nil)

	req, backend := auditRequest(http.MethodPost, "/portfolios", http.StatusCreated)
	mw(backend).ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, listEvents(t, db))
}
