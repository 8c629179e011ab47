package audit

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/verdica/case-governance/pkg/authz"
	"github.com/verdica/case-governance/pkg/baseline"
	"github.com/verdica/case-governance/pkg/tenancy"
)

// responseCapture wraps http.ResponseWriter to capture the status code.
type responseCapture struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rc *responseCapture) WriteHeader(code int) {
	if !rc.written {
		rc.statusCode = code
		rc.written = true
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if !rc.written {
		rc.statusCode = http.StatusOK
		rc.written = true
	}
	return rc.ResponseWriter.Write(b)
}

// Middleware creates middleware that captures audit events for mutating
// governance requests. It wraps the ResponseWriter to capture the status
// code, then records a GovernanceAuditRecord after the handler completes.
func Middleware(store *baseline.AuditStore, cfg *AuditConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg == nil || !cfg.Enabled || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			if !isMutatingEndpoint(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			capture := &responseCapture{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(capture, r)

			outcome := outcomeFromStatus(capture.statusCode)
			if outcome == "denied" && !cfg.LogDenied {
				return
			}

			ctx := r.Context()
			companyID := tenancy.CompanyFromContext(ctx)
			if companyID == "" {
				companyID = "default"
			}
			actor := "anonymous"
			if id, ok := authz.IdentityFromContext(ctx); ok && id.User != "" {
				actor = id.User
			}

			portfolioID, versionID := extractResource(r.URL.Path)
			event := &baseline.GovernanceAuditRecord{
				ID:            uuid.New().String(),
				CompanyID:     companyID,
				CorrelationID: r.Header.Get("X-Request-Id"),
				EventType:     "governance.http.request",
				Actor:         actor,
				PortfolioID:   portfolioID,
				VersionID:     versionID,
				Action:        extractAction(r.URL.Path),
				Outcome:       outcome,
				Reason:        r.Method + " " + r.URL.Path,
			}

			if err := store.Append(event); err != nil {
				// Audit capture must never fail the request.
				logger.Error("failed to record audit event",
					"path", r.URL.Path,
					"error", err)
			}
		})
	}
}
