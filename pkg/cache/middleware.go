package cache

import (
	"bytes"
	"net/http"

	"github.com/verdica/case-governance/pkg/tenancy"
)

// cacheResponseWriter wraps http.ResponseWriter to capture the response body
// and status code so they can be stored in the cache.
type cacheResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
	written    bool
}

func (w *cacheResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.statusCode = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.statusCode = http.StatusOK
		w.written = true
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// requestKey builds the cache key for a request. The resolved company is part
// of the key so one tenant's cached response is never served to another.
func requestKey(r *http.Request) string {
	company := tenancy.CompanyFromContext(r.Context())
	if company == "" {
		company = "default"
	}
	return company + ":" + r.URL.Path
}

// CacheMiddleware returns HTTP middleware that caches GET responses in the
// provided LRUCache, keyed by company and request path.
//
// Behavior:
//   - Only GET requests are cached; all other methods pass through.
//   - On cache hit: the cached body is written with a JSON Content-Type and
//     a 200 status. An X-Cache: HIT header is added.
//   - On cache miss: the handler is called; if it returns 200, the response
//     body is stored in the cache. An X-Cache: MISS header is added.
//   - Non-200 responses are never cached, so guard denials always reflect
//     current state.
func CacheMiddleware(c *LRUCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := requestKey(r)

			if cached, ok := c.Get(key); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(cached)
				return
			}

			crw := &cacheResponseWriter{
				ResponseWriter: w,
			}
			crw.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(crw, r)

			// Only cache 200 responses.
			if crw.statusCode == http.StatusOK {
				c.Set(key, crw.body.Bytes())
			}
		})
	}
}
