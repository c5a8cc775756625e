package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/payvault-io/payvault-backend/pkg/config"
	"github.com/payvault-io/payvault-backend/pkg/enums"
)

var (
	errEmptyToken     = errors.New("token is empty")
	errMissingSubject = errors.New("token subject is required")
)

// AccessClaims are the claims the identity provider places on access tokens.
// The subject is the stable principal this service keys profiles on.
type AccessClaims struct {
	Email string     `json:"email,omitempty"`
	Role  enums.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Principal returns the token subject.
func (c AccessClaims) Principal() string {
	return c.Subject
}

// ParseAccessToken validates the bearer token signature and issuer and
// returns its claims.
func ParseAccessToken(cfg config.JWTConfig, token string) (*AccessClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errEmptyToken
	}

	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parsing access token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid access token")
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}
	if claims.Role == "" {
		claims.Role = enums.RoleUser
	}
	return claims, nil
}

// IssueAccessToken mints a signed token for the given principal. Used by
// local tooling and tests; production tokens come from the identity provider.
func IssueAccessToken(cfg config.JWTConfig, principal, email string, role enums.Role, ttl time.Duration) (string, error) {
	if principal == "" {
		return "", errMissingSubject
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	claims := AccessClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}
