package tokenstore

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/api"
)

// Cookie names shared with the server side. GetCookie serves the token pair
// under these names on every store.
const (
	// AccessTokenCookie is an exported constant or variable used by the session manager.
	AccessTokenCookie = "access_token"
	// RefreshTokenCookie is an exported constant or variable used by the session manager.
	RefreshTokenCookie = "refresh_token"
	// SessionIDCookie is an exported constant or variable used by the session manager.
	SessionIDCookie = "session_id"
	// CSRFTokenCookie is an exported constant or variable used by the session manager.
	CSRFTokenCookie = "csrf_token"
)

// ErrNoTokens is returned by GetAuthTokens when no pair is persisted.
var ErrNoTokens = errors.New("no stored tokens")

// ErrCookieNotFound is returned by GetCookie for names the store cannot serve.
var ErrCookieNotFound = errors.New("cookie not found")

// Store is the token store bridge contract the session manager is built
// against. StoreAuthTokens replaces the persisted pair atomically;
// ClearAuthTokens is idempotent.
//
//	Docs: docs/tokenstore.md
type Store interface {
	StoreAuthTokens(ctx context.Context, pair *api.TokenPair) error
	GetAuthTokens(ctx context.Context) (*api.TokenPair, error)
	ClearAuthTokens(ctx context.Context) error
	HasAuthTokens(ctx context.Context) (bool, error)
	IsTokenExpired(token string) bool
	GetCookie(ctx context.Context, name string) (string, error)
}

func cookieFromPair(pair *api.TokenPair, name string) (string, error) {
	if pair == nil {
		return "", ErrCookieNotFound
	}
	switch name {
	case AccessTokenCookie:
		if pair.AccessToken != "" {
			return pair.AccessToken, nil
		}
	case RefreshTokenCookie:
		if pair.RefreshToken != "" {
			return pair.RefreshToken, nil
		}
	}
	return "", ErrCookieNotFound
}

func clonePair(pair *api.TokenPair) *api.TokenPair {
	if pair == nil {
		return nil
	}
	clone := *pair
	return &clone
}
