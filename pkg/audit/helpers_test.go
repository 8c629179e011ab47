package audit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMutatingEndpoint(t *testing.T) {
	assert.True(t, isMutatingEndpoint(http.MethodPost, "/portfolios"))
	assert.True(t, isMutatingEndpoint(http.MethodPut, "/baselines/v1/modules/MANDATES"))
	assert.True(t, isMutatingEndpoint(http.MethodPost, "/baselines/v1/actions/publish"))

	assert.False(t, isMutatingEndpoint(http.MethodGet, "/portfolios"))
	assert.False(t, isMutatingEndpoint(http.MethodGet, "/baselines/v1/publish-check"))
	assert.False(t, isMutatingEndpoint(http.MethodPost, "/healthz"))
}

func TestExtractResource(t *testing.T) {
	portfolioID, versionID := extractResource("/portfolios/p1/baselines")
	assert.Equal(t, "p1", portfolioID)
	assert.Empty(t, versionID)

	portfolioID, versionID = extractResource("/baselines/v1/actions/submit")
	assert.Empty(t, portfolioID)
	assert.Equal(t, "v1", versionID)

	portfolioID, versionID = extractResource("/portfolios")
	assert.Empty(t, portfolioID)
	assert.Empty(t, versionID)

	portfolioID, versionID = extractResource("/other/x")
	assert.Empty(t, portfolioID)
	assert.Empty(t, versionID)
}

func TestExtractAction(t *testing.T) {
	assert.Equal(t, "publish", extractAction("/baselines/v1/actions/publish"))
	assert.Equal(t, "reject", extractAction("/baselines/v1/actions/reject"))
	assert.Empty(t, extractAction("/baselines/v1/modules/MANDATES"))
	assert.Empty(t, extractAction("/baselines/v1/actions"))
}

func TestOutcomeFromStatus(t *testing.T) {
	assert.Equal(t, "success", outcomeFromStatus(http.StatusOK))
	assert.Equal(t, "success", outcomeFromStatus(http.StatusCreated))
	assert.Equal(t, "denied", outcomeFromStatus(http.StatusForbidden))
	assert.Equal(t, "denied", outcomeFromStatus(http.StatusUnauthorized))
	assert.Equal(t, "rejected", outcomeFromStatus(http.StatusConflict))
	assert.Equal(t, "rejected", outcomeFromStatus(http.StatusBadRequest))
	assert.Equal(t, "error", outcomeFromStatus(http.StatusInternalServerError))
}

func TestAuditConfigFromEnv(t *testing.T) {
	cfg := AuditConfigFromEnv()
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.LogDenied)
	assert.Equal(t, 365, cfg.RetentionDays)

	t.Setenv("GOVERNANCE_AUDIT_ENABLED", "false")
	t.Setenv("GOVERNANCE_AUDIT_LOG_DENIED", "0")
	t.Setenv("GOVERNANCE_AUDIT_RETENTION_DAYS", "30")

	cfg = AuditConfigFromEnv()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogDenied)
	assert.Equal(t, 30, cfg.RetentionDays)

	// Garbage retention values keep the default.
	t.Setenv("GOVERNANCE_AUDIT_RETENTION_DAYS", "-5")
	cfg = AuditConfigFromEnv()
	assert.Equal(t, 365, cfg.RetentionDays)
}
