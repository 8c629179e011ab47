package tenancy

import (
	"encoding/json"
	"net/http"
)

// Middleware resolves the tenant for every request and stores it in the
// request context. Requests the resolver rejects are answered with a 400
// before any handler runs.
func Middleware(resolver TenantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, err := resolver.Resolve(r)
			if err != nil {
				writeResolveError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tc)))
		})
	}
}

// NewMiddleware builds Middleware with the resolver matching mode. Unknown
// modes fall back to single-tenant resolution.
func NewMiddleware(mode TenancyMode) func(http.Handler) http.Handler {
	if mode == ModeCompany {
		return Middleware(CompanyTenantResolver{})
	}
	return Middleware(SingleTenantResolver{})
}

func writeResolveError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "bad_request",
		"message": err.Error(),
	})
}
