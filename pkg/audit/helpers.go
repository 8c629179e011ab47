package audit

import (
	"net/http"
	"strings"
)

// isMutatingEndpoint reports whether a request should be audit-captured.
// Only state-changing calls against portfolio or baseline resources qualify;
// reads and health probes are skipped.
func isMutatingEndpoint(method, path string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return false
	}
	return strings.HasPrefix(path, "/portfolios") || strings.HasPrefix(path, "/baselines")
}

// extractResource pulls the primary resource id from a request path.
// Patterns:
//
//	/portfolios/{id}/baselines
//	/baselines/{id}/modules/{type}
//	/baselines/{id}/actions/{action}
func extractResource(path string) (portfolioID, versionID string) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 2 {
		return "", ""
	}
	switch parts[0] {
	case "portfolios":
		return parts[1], ""
	case "baselines":
		return "", parts[1]
	}
	return "", ""
}

// extractAction pulls the lifecycle action name from an actions path, or ""
// for other mutating requests.
func extractAction(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, p := range parts {
		if p == "actions" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// outcomeFromStatus maps an HTTP status code to an audit outcome.
func outcomeFromStatus(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "success"
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return "denied"
	case status >= 400 && status < 500:
		return "rejected"
	default:
		return "error"
	}
}
