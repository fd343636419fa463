package tokenstore

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned by TokenExpiry for tokens without an exp claim.
var ErrNoExpiry = errors.New("token has no expiry claim")

var unverifiedParser = jwt.NewParser(jwt.WithoutClaimsValidation())

// TokenExpiry decodes the exp claim of a JWT without verifying its
// signature. Malformed tokens and tokens without an exp claim return an
// error.
func TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := unverifiedParser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// TokenExpired reports whether token's exp claim lies within skew of now.
// Malformed tokens count as expired so callers fall into the refresh path;
// tokens without an exp claim never expire locally.
func TokenExpired(token string, skew time.Duration) bool {
	expiry, err := TokenExpiry(token)
	if err != nil {
		return !errors.Is(err, ErrNoExpiry)
	}
	return time.Now().Add(skew).After(expiry)
}
