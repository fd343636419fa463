package api

import (
	"encoding/json"
	"errors"
	"time"
)

// User is the backend's user representation mirrored into client state.
// It is replaced wholesale on login and refresh; the session manager patches
// it in place on profile updates.
type User struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	FullName         string            `json:"full_name,omitempty"`
	Name             string            `json:"name,omitempty"`
	ProfilePicture   string            `json:"profile_picture,omitempty"`
	EmailVerified    bool              `json:"email_verified"`
	TwoFactorEnabled bool              `json:"two_factor_enabled"`
	IsActive         bool              `json:"is_active"`
	Roles            []string          `json:"roles,omitempty"`
	Permissions      []string          `json:"permissions,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	LastLoginAt      *time.Time        `json:"last_login_at,omitempty"`
}

// TokenPair bundles the access and refresh tokens issued by the backend.
// Exactly one live pair exists per session; it is superseded atomically on
// refresh and cleared on logout.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Credentials carries a login request.
type Credentials struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

// RegisterRequest carries an account registration request.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
	AgreeToTerms    bool   `json:"agree_to_terms"`
}

// LoginData is the payload of successful login, register, and two-factor
// verification responses. Token fields are flattened at the top level of the
// envelope's data object. When the account has a second factor enabled the
// backend sets Requires2FA and returns only TempToken; the token pair and
// user arrive after verification.
type LoginData struct {
	TokenPair

	User        *User  `json:"user,omitempty"`
	Requires2FA bool   `json:"requires_2fa,omitempty"`
	TempToken   string `json:"temp_token,omitempty"`
}

// TokenData is the payload of a refresh response. RefreshToken is set only
// when the backend rotated it; callers keep the previous refresh token
// otherwise.
type TokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TwoFactorSetup is the payload returned when enrolling a second factor.
type TwoFactorSetup struct {
	Secret      string   `json:"secret"`
	QRCode      string   `json:"qr_code,omitempty"`
	BackupCodes []string `json:"backup_codes,omitempty"`
}

// Envelope is the uniform response wrapper used by every backend endpoint.
// Data stays raw until the caller knows the payload shape.
type Envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    *APIError       `json:"error,omitempty"`
	Metadata *Metadata       `json:"metadata,omitempty"`
}

// Metadata is the envelope's optional bookkeeping block.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Version   string    `json:"version,omitempty"`
}

// APIError is a failed envelope's error block. It implements error so wire
// failures can travel through ordinary error returns.
type APIError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// ErrorCode extracts the wire code from err when it is (or wraps) an
// [*APIError]; otherwise it returns the empty string.
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
