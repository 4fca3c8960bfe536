package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry decodes the token as a JWT without verifying its signature and
// returns the exp claim. Returns nil for opaque tokens or tokens without
// an expiry; the server stays the authority on whether a token is live.
func Expiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

// Claims returns the raw JWT payload for local introspection (whoami).
// Opaque tokens yield an error; they cannot be inspected client-side.
func Claims(token string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
