package api

// Wire error codes emitted by the backend, plus the client-local codes the
// session manager synthesizes when no envelope reached it. Server-supplied
// codes outside this list pass through [APIError.Code] untouched.
const (
	// CodeNetworkError is an exported constant or variable used by the session manager.
	CodeNetworkError = "NETWORK_ERROR"
	// CodeTimeoutError is an exported constant or variable used by the session manager.
	CodeTimeoutError = "TIMEOUT_ERROR"
	// CodeLoginError is an exported constant or variable used by the session manager.
	CodeLoginError = "LOGIN_ERROR"
	// CodeRegistrationError is an exported constant or variable used by the session manager.
	CodeRegistrationError = "REGISTRATION_ERROR"
	// CodeNoEmail is an exported constant or variable used by the session manager.
	CodeNoEmail = "NO_EMAIL"

	// CodeInvalidCredentials is an exported constant or variable used by the session manager.
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	// CodeUserNotFound is an exported constant or variable used by the session manager.
	CodeUserNotFound = "USER_NOT_FOUND"
	// CodeEmailExists is an exported constant or variable used by the session manager.
	CodeEmailExists = "EMAIL_EXISTS"
	// CodeEmailAlreadyExists is an exported constant or variable used by the session manager.
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	// CodeAccountLocked is an exported constant or variable used by the session manager.
	CodeAccountLocked = "ACCOUNT_LOCKED"
	// CodeEmailNotVerified is an exported constant or variable used by the session manager.
	CodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	// CodeTwoFactorRequired is an exported constant or variable used by the session manager.
	CodeTwoFactorRequired = "TWO_FACTOR_REQUIRED"
	// CodeInvalidTwoFactorCode is an exported constant or variable used by the session manager.
	CodeInvalidTwoFactorCode = "INVALID_TWO_FACTOR_CODE"
	// CodeTokenExpired is an exported constant or variable used by the session manager.
	CodeTokenExpired = "TOKEN_EXPIRED"
	// CodeInvalidToken is an exported constant or variable used by the session manager.
	CodeInvalidToken = "INVALID_TOKEN"
	// CodePermissionDenied is an exported constant or variable used by the session manager.
	CodePermissionDenied = "PERMISSION_DENIED"
	// CodeValidationError is an exported constant or variable used by the session manager.
	CodeValidationError = "VALIDATION_ERROR"
	// CodeRateLimitExceeded is an exported constant or variable used by the session manager.
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	// CodeServerError is an exported constant or variable used by the session manager.
	CodeServerError = "SERVER_ERROR"
)
