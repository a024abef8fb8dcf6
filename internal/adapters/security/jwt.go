package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

// JWTVerifier validates HS256 bearer tokens and extracts the subject
// account. Verification is held at adapter level so the application
// layer stays crypto-library agnostic.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

func (v *JWTVerifier) VerifyToken(_ context.Context, raw string) (string, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

// Mint issues a token for the subject. Used by the dev profile and tests.
func (v *JWTVerifier) Mint(subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(v.secret)
}

// StaticVerifier treats the bearer token itself as the subject account.
// Local profile only; it performs no cryptographic checks.
type StaticVerifier struct{}

func (StaticVerifier) VerifyToken(_ context.Context, raw string) (string, error) {
	subject := strings.TrimSpace(raw)
	if subject == "" {
		return "", domain.ErrUnauthorized
	}
	return subject, nil
}
