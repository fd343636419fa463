package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds each request end to end when Config.Timeout is zero.
	DefaultTimeout = 15 * time.Second

	defaultUserAgent = "goSession/1"
	authPrefix       = "/api/v1/auth"

	maxResponseBytes = 1 << 20
)

// Config controls the [HTTPClient].
type Config struct {
	// BaseURL is the backend origin, e.g. "https://auth.example.com".
	// The versioned auth prefix is appended per request.
	BaseURL string

	// Timeout bounds each request end to end. Zero selects [DefaultTimeout].
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// HTTPClient overrides the underlying client. Timeout is not applied to
	// an override.
	HTTPClient *http.Client
}

// Validate reports the first configuration problem, if any.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base url required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("base url must be absolute")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// HTTPClient is the default [Client] implementation over net/http.
//
// Each request carries a fresh X-Request-ID and, when a [TokenSource] is
// attached and yields a token, a bearer Authorization header. The client
// never retries; superseded or failed calls surface immediately.
//
//	Docs: docs/api.md
type HTTPClient struct {
	baseURL   string
	userAgent string
	http      *http.Client

	mu     sync.RWMutex
	source TokenSource
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates cfg and returns a ready client.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: userAgent,
		http:      httpClient,
	}, nil
}

// SetTokenSource attaches the bearer-token supplier. Pass nil to send all
// requests unauthenticated. Safe for concurrent use.
func (c *HTTPClient) SetTokenSource(source TokenSource) {
	c.mu.Lock()
	c.source = source
	c.mu.Unlock()
}

func (c *HTTPClient) tokenSource() TokenSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

// Login exchanges credentials for a token pair, or a two-factor challenge
// when the account requires a second step.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*LoginData, error) {
	var data LoginData
	if err := c.do(ctx, http.MethodPost, "/login", creds, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Register creates an account. Backends configured for immediate sessions
// return tokens; others return only the user pending email verification.
func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*LoginData, error) {
	var data LoginData
	if err := c.do(ctx, http.MethodPost, "/register", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Logout invalidates the server-side session for the attached bearer token.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken trades a refresh token for a new access token. The backend
// may rotate the refresh token; callers keep the old one when RefreshToken
// comes back empty.
func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (*TokenData, error) {
	var data TokenData
	if err := c.do(ctx, http.MethodPost, "/refresh", refreshRequest{RefreshToken: refreshToken}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetCurrentUser fetches the profile behind the attached bearer token.
func (c *HTTPClient) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserPermissions fetches the caller's effective permission strings.
func (c *HTTPClient) GetUserPermissions(ctx context.Context) ([]string, error) {
	var permissions []string
	if err := c.do(ctx, http.MethodGet, "/permissions", nil, &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}

// GetUserRoles fetches the caller's role names.
func (c *HTTPClient) GetUserRoles(ctx context.Context) ([]string, error) {
	var roles []string
	if err := c.do(ctx, http.MethodGet, "/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// VerifyEmail confirms an email verification token.
func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/verify-email/"+url.PathEscape(token), nil, nil)
}

type emailRequest struct {
	Email string `json:"email"`
}

// ResendVerification asks the backend to send a fresh verification email.
func (c *HTTPClient) ResendVerification(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/resend-verification", emailRequest{Email: email}, nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword rotates the password of the authenticated account.
func (c *HTTPClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/change-password", changePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, nil)
}

// RequestPasswordReset starts the forgot-password flow for email.
func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/forgot-password", emailRequest{Email: email}, nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ConfirmPasswordReset completes the forgot-password flow.
func (c *HTTPClient) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/reset-password", resetPasswordRequest{
		Token:       token,
		NewPassword: newPassword,
	}, nil)
}

// SetupTwoFactor begins second-factor enrollment for the authenticated account.
func (c *HTTPClient) SetupTwoFactor(ctx context.Context) (*TwoFactorSetup, error) {
	var setup TwoFactorSetup
	if err := c.do(ctx, http.MethodPost, "/2fa/setup", nil, &setup); err != nil {
		return nil, err
	}
	return &setup, nil
}

type verifyTwoFactorRequest struct {
	Code      string `json:"code"`
	TempToken string `json:"temp_token,omitempty"`
}

// VerifyTwoFactor completes a pending two-factor challenge. During login the
// temp token from the challenge response authorizes the call; during
// enrollment it is empty and the bearer token applies.
func (c *HTTPClient) VerifyTwoFactor(ctx context.Context, code, tempToken string) (*LoginData, error) {
	var data LoginData
	if err := c.do(ctx, http.MethodPost, "/2fa/verify", verifyTwoFactorRequest{
		Code:      code,
		TempToken: tempToken,
	}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

type disableTwoFactorRequest struct {
	Code string `json:"code"`
}

// DisableTwoFactor turns the second factor off for the authenticated account.
func (c *HTTPClient) DisableTwoFactor(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/2fa/disable", disableTwoFactorRequest{Code: code}, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+authPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if source := c.tokenSource(); source != nil {
		if token := source.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}

func transportError(err error) *APIError {
	code := CodeNetworkError
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		code = CodeTimeoutError
	} else if errors.Is(err, context.DeadlineExceeded) {
		code = CodeTimeoutError
	}
	return &APIError{Code: code, Message: err.Error()}
}

func decodeEnvelope(resp *http.Response, out any) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &APIError{Code: CodeNetworkError, Message: err.Error()}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Code: CodeServerError, Message: http.StatusText(resp.StatusCode)}
		}
		return &APIError{Code: CodeServerError, Message: "malformed response envelope"}
	}

	if !env.Success {
		if env.Error != nil {
			return env.Error
		}
		return &APIError{Code: CodeServerError, Message: fmt.Sprintf("request failed with status %d", resp.StatusCode)}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Code: CodeServerError, Message: "malformed response payload"}
	}
	return nil
}
