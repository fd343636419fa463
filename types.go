package goSession

import (
	"context"
	"time"

	"github.com/MrEthical07/goSession/api"
)

// State represents the lifecycle state of the session manager.
//
//	Docs: docs/state.md
type State uint8

const (
	// StateUninitialized is an exported constant or variable used by the session manager.
	StateUninitialized State = iota
	// StateInitializing is an exported constant or variable used by the session manager.
	StateInitializing
	// StateAuthenticated is an exported constant or variable used by the session manager.
	StateAuthenticated
	// StateUnauthenticated is an exported constant or variable used by the session manager.
	StateUnauthenticated
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// User is the account record returned by the auth API.
//
//	Docs: docs/api.md
type User = api.User

// TokenPair carries the access and refresh tokens for one session.
//
//	Docs: docs/tokens.md
type TokenPair = api.TokenPair

// Credentials is the login input.
type Credentials = api.Credentials

// RegisterRequest is the account-creation input.
type RegisterRequest = api.RegisterRequest

// TwoFactorSetup holds the TOTP secret, QR code URL, and backup codes
// returned when two-factor enrollment starts.
type TwoFactorSetup = api.TwoFactorSetup

// APIError is a structured error returned by the auth API envelope.
type APIError = api.APIError

// SessionInfo is the metadata record for the current session. It is
// created lazily on the first update after authentication and archived
// into the session history when a new session begins.
type SessionInfo struct {
	LoginTime    time.Time `json:"login_time"`
	LastActivity time.Time `json:"last_activity"`
	Device       string    `json:"device,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	Location     string    `json:"location,omitempty"`
}

// SessionPatch is the input for [Manager.UpdateSession]. Empty fields
// leave the current value unchanged.
type SessionPatch struct {
	Device    string
	IPAddress string
	Location  string
}

// UserPatch is the input for [Manager.UpdateUser]. Nil fields leave the
// current value unchanged; Metadata entries are merged key by key.
type UserPatch struct {
	FullName       *string
	Name           *string
	ProfilePicture *string
	EmailVerified  *bool
	Metadata       map[string]string
}

// AuthError records one failed operation: the wire error code, the
// human-readable message, and when it happened.
//
//	Docs: docs/errors.md
type AuthError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// LoginResult is returned by [Manager.Login], [Manager.Register], and
// [Manager.VerifyTwoFactor]. It includes tokens and the user when
// authentication completes, or challenge metadata when a second factor
// is required.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *User

	TwoFactorRequired bool
	TempToken         string
}

// Navigator receives the single navigation side effect the manager
// produces: redirect to the login entry point after logout or forced
// de-authentication.
type Navigator interface {
	NavigateToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to the [Navigator] interface.
type NavigatorFunc func(ctx context.Context)

// NavigateToLogin describes the navigatetologin operation and its observable behavior.
//
// NavigateToLogin may return an error when input validation, dependency calls, or security checks fail.
// NavigateToLogin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f NavigatorFunc) NavigateToLogin(ctx context.Context) {
	if f == nil {
		return
	}
	f(ctx)
}
