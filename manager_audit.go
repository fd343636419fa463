package goSession

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goSession/api"
)

const (
	auditEventInitialized            = "initialized"
	auditEventLoginSuccess           = "login_success"
	auditEventLoginFailure           = "login_failure"
	auditEventLoginTwoFactorRequired = "login_two_factor_required"
	auditEventTwoFactorSuccess       = "two_factor_success"
	auditEventTwoFactorFailure       = "two_factor_failure"
	auditEventTwoFactorSetup         = "two_factor_setup"
	auditEventTwoFactorDisabled      = "two_factor_disabled"
	auditEventRegisterSuccess        = "register_success"
	auditEventRegisterFailure        = "register_failure"
	auditEventLogout                 = "logout"
	auditEventRefreshSuccess         = "refresh_success"
	auditEventRefreshFailure         = "refresh_failure"
	auditEventSessionExtended        = "session_extended"
	auditEventSessionExpired         = "session_expired"
	auditEventPasswordChange         = "password_change"
	auditEventPasswordResetRequest   = "password_reset_request"
	auditEventPasswordResetConfirm   = "password_reset_confirm"
	auditEventEmailVerification      = "email_verification"
	auditEventAuthInjected           = "auth_injected"
	auditEventTokenStoreFailure      = "token_store_failure"
	auditEventUserDataRefreshed      = "user_data_refreshed"
)

func (m *Manager) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if m == nil || m.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		SessionID: sessionID,
		Device:    deviceFromContext(ctx),
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = errorCode(err)
		if event.Error == "" {
			event.Error = err.Error()
		}
	}

	m.audit.Emit(ctx, event)
}

// errorCode extracts the wire error code carried by err, or "" when err
// is nil or carries none.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	if code := api.ErrorCode(err); code != "" {
		return code
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return api.CodeInvalidCredentials
	case errors.Is(err, ErrTwoFactorRequired):
		return api.CodeTwoFactorRequired
	case errors.Is(err, ErrTwoFactorInvalid):
		return api.CodeInvalidTwoFactorCode
	case errors.Is(err, ErrEmailExists):
		return api.CodeEmailExists
	case errors.Is(err, ErrEmailNotVerified):
		return api.CodeEmailNotVerified
	case errors.Is(err, ErrSessionExpired):
		return api.CodeTokenExpired
	case errors.Is(err, ErrNoEmail):
		return api.CodeNoEmail
	case errors.Is(err, ErrValidation):
		return api.CodeValidationError
	case errors.Is(err, ErrPermissionDenied):
		return api.CodePermissionDenied
	case errors.Is(err, ErrRateLimited):
		return api.CodeRateLimitExceeded
	case errors.Is(err, ErrAccountLocked):
		return api.CodeAccountLocked
	case errors.Is(err, ErrAPIUnavailable):
		return api.CodeNetworkError
	case errors.Is(err, context.DeadlineExceeded):
		return api.CodeTimeoutError
	}
	return ""
}

// authErrorParts splits err into the code/message pair recorded in the
// error history. Server-supplied envelope errors keep their own code
// and message; anything else falls back to the flow's generic code.
func authErrorParts(err error, fallbackCode string) (string, string) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return apiErr.Code, apiErr.Message
	}
	if code := errorCode(err); code != "" {
		return code, err.Error()
	}
	return fallbackCode, err.Error()
}
