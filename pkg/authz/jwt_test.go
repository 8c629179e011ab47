package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsignedToken builds a token the trusted-proxy parser accepts without a key.
func unsignedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func runJWTMiddleware(t *testing.T, cfg JWTIdentityConfig, authorization string) Identity {
	t.Helper()
	mw, err := NewJWTIdentityMiddleware(cfg)
	require.NoError(t, err)

	var captured Identity
	handler := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured, _ = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return captured
}

func TestJWTMiddlewareExtractsSubjectAndRole(t *testing.T) {
	token := unsignedToken(t, jwt.MapClaims{"sub": "alice", "role": "OWNER"})
	id := runJWTMiddleware(t, JWTIdentityConfig{}, "Bearer "+token)
	assert.Equal(t, "alice", id.User)
	assert.Equal(t, "OWNER", id.Role)
}

func TestJWTMiddlewareNestedRoleClaim(t *testing.T) {
	token := unsignedToken(t, jwt.MapClaims{
		"sub": "bob",
		"realm_access": map[string]any{
			"roles": []any{"ORG_ADMIN", "MEMBER"},
		},
	})
	id := runJWTMiddleware(t, JWTIdentityConfig{RoleClaim: "realm_access.roles"}, "Bearer "+token)
	assert.Equal(t, "bob", id.User)
	assert.Equal(t, "ORG_ADMIN", id.Role)
}

func TestJWTMiddlewareMissingTokenIsAnonymous(t *testing.T) {
	id := runJWTMiddleware(t, JWTIdentityConfig{}, "")
	assert.Equal(t, "anonymous", id.User)
	assert.Empty(t, id.Role)
}

func TestJWTMiddlewareMalformedTokenIsAnonymous(t *testing.T) {
	id := runJWTMiddleware(t, JWTIdentityConfig{}, "Bearer not-a-jwt")
	assert.Equal(t, "anonymous", id.User)
	assert.Empty(t, id.Role)
}

func TestJWTMiddlewareMissingPublicKeyFile(t *testing.T) {
	_, err := NewJWTIdentityMiddleware(JWTIdentityConfig{PublicKeyPath: "/no/such/key.pem"})
	require.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, extractBearerToken(req))

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, extractBearerToken(req))

	req.Header.Set("Authorization", "bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", extractBearerToken(req))
}

func TestExtractClaimString(t *testing.T) {
	claims := jwt.MapClaims{
		"role": "OWNER",
		"nested": map[string]any{
			"deep": map[string]any{"value": "MEMBER"},
		},
		"list":  []any{"", "FIRST"},
		"count": float64(3),
	}

	assert.Equal(t, "OWNER", extractClaimString(claims, "role"))
	assert.Equal(t, "MEMBER", extractClaimString(claims, "nested.deep.value"))
	assert.Equal(t, "FIRST", extractClaimString(claims, "list"))
	assert.Empty(t, extractClaimString(claims, "count"))
	assert.Empty(t, extractClaimString(claims, "missing"))
	assert.Empty(t, extractClaimString(claims, "role.deeper"))
}
