package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryBuffer is the safety margin applied ahead of the exp claim so
// a refresh can complete before the backend itself starts rejecting the token.
const DefaultExpiryBuffer = 5 * time.Minute

// ErrNoExpiry is returned when a token decodes cleanly but carries no exp claim.
var ErrNoExpiry = errors.New("token has no exp claim")

var parser = jwt.NewParser()

// ExpiresAt decodes the token's claims segment and returns its exp claim.
// The signature is not verified; a malformed token or a missing claim is an
// error, never a silently-valid token.
func ExpiresAt(raw string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// Expired reports whether raw should be treated as expired at now, applying
// buffer ahead of the actual exp claim. Tokens that cannot be decoded fail
// closed: they are always reported expired.
func Expired(raw string, now time.Time, buffer time.Duration) bool {
	if buffer < 0 {
		buffer = 0
	}
	exp, err := ExpiresAt(raw)
	if err != nil {
		return true
	}
	return !exp.After(now.Add(buffer))
}
