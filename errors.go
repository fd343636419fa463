package goSession

import "errors"

var (
	// ErrManagerNotReady is an exported constant or variable used by the session manager.
	ErrManagerNotReady = errors.New("goSession: manager not ready")

	// ErrNilAPIClient is an exported constant or variable used by the session manager.
	ErrNilAPIClient = errors.New("goSession: api client required")

	// ErrNilTokenStore is an exported constant or variable used by the session manager.
	ErrNilTokenStore = errors.New("goSession: token store required")

	// ErrInvalidCredentials is an exported constant or variable used by the session manager.
	ErrInvalidCredentials = errors.New("goSession: invalid credentials")

	// ErrLoginFailed is an exported constant or variable used by the session manager.
	ErrLoginFailed = errors.New("goSession: login failed")

	// ErrTwoFactorRequired is an exported constant or variable used by the session manager.
	ErrTwoFactorRequired = errors.New("goSession: two-factor code required")

	// ErrTwoFactorInvalid is an exported constant or variable used by the session manager.
	ErrTwoFactorInvalid = errors.New("goSession: two-factor code invalid")

	// ErrTwoFactorUnavailable is an exported constant or variable used by the session manager.
	ErrTwoFactorUnavailable = errors.New("goSession: two-factor service unavailable")

	// ErrNoTempToken is an exported constant or variable used by the session manager.
	ErrNoTempToken = errors.New("goSession: no pending two-factor challenge")

	// ErrNotAuthenticated is an exported constant or variable used by the session manager.
	ErrNotAuthenticated = errors.New("goSession: not authenticated")

	// ErrRefreshFailed is an exported constant or variable used by the session manager.
	ErrRefreshFailed = errors.New("goSession: token refresh failed")

	// ErrSessionExpired is an exported constant or variable used by the session manager.
	ErrSessionExpired = errors.New("goSession: session expired")

	// ErrRegistrationFailed is an exported constant or variable used by the session manager.
	ErrRegistrationFailed = errors.New("goSession: registration failed")

	// ErrEmailExists is an exported constant or variable used by the session manager.
	ErrEmailExists = errors.New("goSession: email already registered")

	// ErrEmailNotVerified is an exported constant or variable used by the session manager.
	ErrEmailNotVerified = errors.New("goSession: email not verified")

	// ErrVerificationFailed is an exported constant or variable used by the session manager.
	ErrVerificationFailed = errors.New("goSession: email verification failed")

	// ErrNoEmail is an exported constant or variable used by the session manager.
	ErrNoEmail = errors.New("goSession: no email available for current user")

	// ErrPasswordChangeFailed is an exported constant or variable used by the session manager.
	ErrPasswordChangeFailed = errors.New("goSession: password change failed")

	// ErrPasswordResetFailed is an exported constant or variable used by the session manager.
	ErrPasswordResetFailed = errors.New("goSession: password reset failed")

	// ErrAccountLocked is an exported constant or variable used by the session manager.
	ErrAccountLocked = errors.New("goSession: account locked")

	// ErrRateLimited is an exported constant or variable used by the session manager.
	ErrRateLimited = errors.New("goSession: rate limited")

	// ErrPermissionDenied is an exported constant or variable used by the session manager.
	ErrPermissionDenied = errors.New("goSession: permission denied")

	// ErrValidation is an exported constant or variable used by the session manager.
	ErrValidation = errors.New("goSession: validation failed")

	// ErrAPIUnavailable is an exported constant or variable used by the session manager.
	ErrAPIUnavailable = errors.New("goSession: auth API unavailable")

	// ErrStaleResult is an exported constant or variable used by the session manager.
	ErrStaleResult = errors.New("goSession: result superseded by newer auth state")

	// ErrManagerClosed is an exported constant or variable used by the session manager.
	ErrManagerClosed = errors.New("goSession: manager closed")
)
