package cache

import (
	"fmt"
	"net/http"
	"time"
)

// GuardCacheManager holds the cache for guard-check endpoints and provides
// targeted invalidation so lifecycle actions only clear the affected
// portfolio's entries.
type GuardCacheManager struct {
	checks *LRUCache
	prefix string
}

// NewGuardCacheManager creates a GuardCacheManager. prefix is the path the
// governance router is mounted under; it is needed to reconstruct the cache
// keys the middleware builds from the full request path. Returns nil when
// disabled; all methods are nil-safe.
func NewGuardCacheManager(enabled bool, maxSize int, ttl time.Duration, prefix string) *GuardCacheManager {
	if !enabled {
		return nil
	}
	return &GuardCacheManager{checks: NewLRUCache(maxSize, ttl), prefix: prefix}
}

// Middleware returns the caching middleware for guard-check GET endpoints.
// When the manager is nil, it returns a pass-through.
func (m *GuardCacheManager) Middleware() func(http.Handler) http.Handler {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return CacheMiddleware(m.checks)
}

// InvalidatePortfolio clears the cached origination check for one portfolio
// after a lifecycle action changes its state, plus the publish-check entries
// for the given version ids.
func (m *GuardCacheManager) InvalidatePortfolio(companyID, portfolioID string, versionIDs ...string) {
	if m == nil {
		return
	}
	if companyID == "" {
		companyID = "default"
	}
	m.checks.Invalidate(fmt.Sprintf("%s:%s/portfolios/%s/origination-check", companyID, m.prefix, portfolioID))
	for _, id := range versionIDs {
		m.checks.Invalidate(fmt.Sprintf("%s:%s/baselines/%s/publish-check", companyID, m.prefix, id))
	}
}

// InvalidateAll clears every cached guard check.
func (m *GuardCacheManager) InvalidateAll() {
	if m == nil {
		return
	}
	m.checks.InvalidateAll()
}
