package authz

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWTIdentityConfig configures JWT-based identity extraction.
type JWTIdentityConfig struct {
	// RoleClaim is the JWT claim path containing the user's role.
	// Supports dot-notation for nested claims (e.g., "realm_access.roles").
	// Default: "role"
	RoleClaim string

	// SubjectClaim is the claim carrying the user principal. Default: "sub".
	SubjectClaim string

	// PublicKeyPath is the path to the PEM-encoded RSA public key for RS256
	// verification. If empty, tokens are parsed but NOT verified (suitable
	// for dev/testing behind trusted proxies).
	PublicKeyPath string

	// Issuer is the expected token issuer (iss claim). If empty, issuer is
	// not validated.
	Issuer string

	// Audience is the expected token audience (aud claim). If empty,
	// audience is not validated.
	Audience string

	// Logger for debugging. If nil, uses slog.Default().
	Logger *slog.Logger
}

// NewJWTIdentityMiddleware returns middleware that reads identity from a JWT
// Bearer token. Missing or invalid tokens yield the anonymous identity with
// no role, which the admin allow-list denies by default.
func NewJWTIdentityMiddleware(cfg JWTIdentityConfig) (func(http.Handler) http.Handler, error) {
	if cfg.RoleClaim == "" {
		cfg.RoleClaim = "role"
	}
	if cfg.SubjectClaim == "" {
		cfg.SubjectClaim = "sub"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var publicKey *rsa.PublicKey
	if cfg.PublicKeyPath != "" {
		keyData, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read JWT public key from %s: %w", cfg.PublicKeyPath, err)
		}
		block, _ := pem.Decode(keyData)
		if block == nil {
			return nil, fmt.Errorf("decode PEM block from %s", cfg.PublicKeyPath)
		}
		parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		rsaKey, ok := parsedKey.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("public key is not RSA (got %T)", parsedKey)
		}
		publicKey = rsaKey
		cfg.Logger.Info("JWT identity: using RS256 verification", "keyPath", cfg.PublicKeyPath)
	} else {
		cfg.Logger.Warn("JWT identity: no public key configured, tokens parsed without verification (trusted proxy mode)")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := Identity{User: "anonymous"}

			if token := extractBearerToken(r); token != "" {
				claims, err := parseJWTClaims(token, publicKey, cfg)
				if err != nil {
					cfg.Logger.Debug("JWT parse failed, using anonymous identity", "error", err)
				} else {
					if sub, ok := claims[cfg.SubjectClaim].(string); ok && sub != "" {
						id.User = sub
					}
					id.Role = extractClaimString(claims, cfg.RoleClaim)
				}
			}

			ctx := WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parseJWTClaims parses and optionally verifies a JWT token.
func parseJWTClaims(tokenString string, publicKey *rsa.PublicKey, cfg JWTIdentityConfig) (jwt.MapClaims, error) {
	parserOpts := []jwt.ParserOption{}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(cfg.Audience))
	}

	var token *jwt.Token
	var err error

	if publicKey != nil {
		token, err = jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return publicKey, nil
		}, parserOpts...)
	} else {
		// Trusted proxy mode: parse without verification.
		parser := jwt.NewParser(parserOpts...)
		token, _, err = parser.ParseUnverified(tokenString, jwt.MapClaims{})
	}

	if err != nil {
		return nil, fmt.Errorf("JWT parse error: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}

	return claims, nil
}

// extractClaimString extracts a string claim, supporting dot-notation for
// nested claims. Array claims yield their first string element.
func extractClaimString(claims jwt.MapClaims, claimPath string) string {
	parts := strings.Split(claimPath, ".")
	var current interface{} = map[string]interface{}(claims)

	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current, ok = m[part]
		if !ok {
			return ""
		}
	}

	if strVal, ok := current.(string); ok {
		return strVal
	}
	if arrVal, ok := current.([]interface{}); ok {
		for _, v := range arrVal {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
