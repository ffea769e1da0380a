// Package auth verifies caller identity before any paid or stateful work.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is the single failure every verification problem
// collapses into. Expired, malformed, and bad-signature tokens are not
// distinguished to the caller, so failures cannot be used as an oracle.
var ErrUnauthenticated = errors.New("invalid or missing credentials")

// TokenVerifier resolves a bearer token to a stable user identifier.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWTVerifier validates HMAC-signed JWTs and extracts the sub claim.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", ErrUnauthenticated
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrUnauthenticated
	}
	return sub, nil
}
