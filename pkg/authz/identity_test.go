package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMiddlewareExtractsHeaders(t *testing.T) {
	var captured Identity
	handler := IdentityMiddleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured, _ = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Remote-User", "alice")
	req.Header.Set("X-Remote-Role", "OWNER")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "alice", captured.User)
	assert.Equal(t, "OWNER", captured.Role)
}

func TestIdentityMiddlewareDefaultsToAnonymous(t *testing.T) {
	var captured Identity
	var found bool
	handler := IdentityMiddleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured, found = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Remote-User", "   ")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, found)
	assert.Equal(t, "anonymous", captured.User)
	assert.Empty(t, captured.Role)
}

func TestIdentityFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFromContext(req.Context())
	assert.False(t, ok)
}

func TestRoleMapperDefaults(t *testing.T) {
	m := NewRoleMapper(nil)
	assert.True(t, m.IsAdmin(RoleOwner))
	assert.True(t, m.IsAdmin(RoleOrgAdmin))
	assert.False(t, m.IsAdmin(RoleMember))
	assert.False(t, m.IsAdmin(""))
}

func TestRoleMapperCustomList(t *testing.T) {
	m := NewRoleMapper([]string{"COMPLIANCE_LEAD"})
	assert.True(t, m.IsAdmin("COMPLIANCE_LEAD"))
	assert.False(t, m.IsAdmin(RoleOwner))
}
