package goSession

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/api"
)

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if req.Email == "" || req.Password == "" {
		m.setErrorLocked(api.CodeValidationError, "email and password are required")
		m.mu.Unlock()
		return nil, ErrValidation
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		m.setErrorLocked(api.CodeValidationError, "passwords do not match")
		m.mu.Unlock()
		return nil, ErrValidation
	}
	epoch := m.epoch
	m.loading = true
	m.mu.Unlock()

	data, err := m.client.Register(ctx, req)
	if err != nil {
		m.recordAuthFailure(ctx, epoch, err, auditEventRegisterFailure, MetricRegisterFailure, api.CodeRegistrationError)
		return nil, errors.Join(registerSentinel(err), err)
	}

	// Registration may or may not auto-authenticate: the server returns
	// a token pair only when email verification is not required first.
	if data.AccessToken == "" {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()

		m.metricInc(MetricRegisterSuccess)
		m.emitAudit(ctx, auditEventRegisterSuccess, true, userIDOf(data.User), "", nil, nil)
		return &LoginResult{User: cloneUser(data.User)}, nil
	}

	pair := &TokenPair{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		TokenType:    data.TokenType,
		ExpiresIn:    data.ExpiresIn,
	}

	result, sessionID, err := m.completeLogin(ctx, epoch, data.User, pair)
	if err != nil {
		return nil, err
	}

	m.metricInc(MetricRegisterSuccess)
	m.metricInc(MetricLoginSuccess)
	m.emitAudit(ctx, auditEventRegisterSuccess, true, userIDOf(data.User), sessionID, nil, nil)
	return result, nil
}

// VerifyEmail describes the verifyemail operation and its observable behavior.
//
// VerifyEmail may return an error when input validation, dependency calls, or security checks fail.
// VerifyEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) VerifyEmail(ctx context.Context, token string) error {
	if m == nil {
		return ErrManagerNotReady
	}
	if token == "" {
		m.SetError(api.CodeValidationError, "verification token is required")
		return ErrValidation
	}

	if err := m.client.VerifyEmail(ctx, token); err != nil {
		code, message := authErrorParts(err, api.CodeInvalidToken)
		m.SetError(code, message)
		m.metricInc(MetricEmailVerificationFailure)
		m.emitAudit(ctx, auditEventEmailVerification, false, "", "", err, nil)
		return errors.Join(ErrVerificationFailed, err)
	}

	m.mu.Lock()
	if m.user != nil {
		m.user.EmailVerified = true
	}
	m.mu.Unlock()

	m.metricInc(MetricEmailVerificationSuccess)
	m.emitAudit(ctx, auditEventEmailVerification, true, "", "", nil, nil)
	return nil
}

// ResendVerification sends a fresh verification mail. With an empty
// email argument the current user's email is used; when neither is
// available the call fails with ErrNoEmail before touching the API.
//
// ResendVerification may return an error when input validation, dependency calls, or security checks fail.
// ResendVerification does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) ResendVerification(ctx context.Context, email string) error {
	if m == nil {
		return ErrManagerNotReady
	}

	if email == "" {
		m.mu.Lock()
		if m.user != nil {
			email = m.user.Email
		}
		m.mu.Unlock()
	}
	if email == "" {
		m.SetError(api.CodeNoEmail, "no email available for verification")
		return ErrNoEmail
	}

	if err := m.client.ResendVerification(ctx, email); err != nil {
		code, message := authErrorParts(err, api.CodeServerError)
		m.SetError(code, message)
		m.emitAudit(ctx, auditEventEmailVerification, false, "", "", err, nil)
		return errors.Join(ErrVerificationFailed, err)
	}

	m.emitAudit(ctx, auditEventEmailVerification, true, "", "", nil, nil)
	return nil
}

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
// ChangePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if m == nil {
		return ErrManagerNotReady
	}
	if currentPassword == "" || newPassword == "" {
		m.SetError(api.CodeValidationError, "current and new password are required")
		return ErrValidation
	}
	if !m.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	userID, sessionID := m.auditIDs()
	if err := m.client.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		code, message := authErrorParts(err, api.CodeServerError)
		m.SetError(code, message)
		m.metricInc(MetricPasswordChangeFailure)
		m.emitAudit(ctx, auditEventPasswordChange, false, userID, sessionID, err, nil)
		return errors.Join(ErrPasswordChangeFailed, err)
	}

	// The session survives a password change; only new logins need the
	// new password.
	m.metricInc(MetricPasswordChangeSuccess)
	m.emitAudit(ctx, auditEventPasswordChange, true, userID, sessionID, nil, nil)
	return nil
}

// RequestPasswordReset describes the requestpasswordreset operation and its observable behavior.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// RequestPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	if m == nil {
		return ErrManagerNotReady
	}
	if email == "" {
		m.SetError(api.CodeNoEmail, "email is required for password reset")
		return ErrNoEmail
	}

	if err := m.client.RequestPasswordReset(ctx, email); err != nil {
		code, message := authErrorParts(err, api.CodeServerError)
		m.SetError(code, message)
		m.emitAudit(ctx, auditEventPasswordResetRequest, false, "", "", err, nil)
		return errors.Join(ErrPasswordResetFailed, err)
	}

	m.metricInc(MetricPasswordResetRequest)
	m.emitAudit(ctx, auditEventPasswordResetRequest, true, "", "", nil, nil)
	return nil
}

// ConfirmPasswordReset describes the confirmpasswordreset operation and its observable behavior.
//
// ConfirmPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// ConfirmPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if m == nil {
		return ErrManagerNotReady
	}
	if token == "" || newPassword == "" {
		m.SetError(api.CodeValidationError, "reset token and new password are required")
		return ErrValidation
	}

	if err := m.client.ConfirmPasswordReset(ctx, token, newPassword); err != nil {
		code, message := authErrorParts(err, api.CodeInvalidToken)
		m.SetError(code, message)
		m.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", "", err, nil)
		return errors.Join(ErrPasswordResetFailed, err)
	}

	m.metricInc(MetricPasswordResetConfirm)
	m.emitAudit(ctx, auditEventPasswordResetConfirm, true, "", "", nil, nil)
	return nil
}

// SetupTwoFactor starts two-factor enrollment for the authenticated
// user and returns the secret, QR code, and backup codes to present.
//
// SetupTwoFactor may return an error when input validation, dependency calls, or security checks fail.
// SetupTwoFactor does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) SetupTwoFactor(ctx context.Context) (*TwoFactorSetup, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}
	if !m.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	userID, sessionID := m.auditIDs()
	setup, err := m.client.SetupTwoFactor(ctx)
	if err != nil {
		code, message := authErrorParts(err, api.CodeServerError)
		m.SetError(code, message)
		m.emitAudit(ctx, auditEventTwoFactorSetup, false, userID, sessionID, err, nil)
		return nil, errors.Join(ErrTwoFactorUnavailable, err)
	}

	m.emitAudit(ctx, auditEventTwoFactorSetup, true, userID, sessionID, nil, nil)
	return setup, nil
}

// ConfirmTwoFactorSetup verifies the first code from the enrolled
// authenticator and turns two-factor on for the current user.
//
// ConfirmTwoFactorSetup may return an error when input validation, dependency calls, or security checks fail.
// ConfirmTwoFactorSetup does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) ConfirmTwoFactorSetup(ctx context.Context, code string) error {
	if m == nil {
		return ErrManagerNotReady
	}
	if code == "" {
		m.SetError(api.CodeValidationError, "two-factor code is required")
		return ErrValidation
	}
	if !m.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	userID, sessionID := m.auditIDs()
	if _, err := m.client.VerifyTwoFactor(ctx, code, ""); err != nil {
		errCode, message := authErrorParts(err, api.CodeInvalidTwoFactorCode)
		m.SetError(errCode, message)
		m.metricInc(MetricTwoFactorFailure)
		m.emitAudit(ctx, auditEventTwoFactorFailure, false, userID, sessionID, err, nil)
		return errors.Join(ErrTwoFactorInvalid, err)
	}

	m.mu.Lock()
	if m.user != nil {
		m.user.TwoFactorEnabled = true
	}
	m.mu.Unlock()

	m.metricInc(MetricTwoFactorSuccess)
	m.emitAudit(ctx, auditEventTwoFactorSuccess, true, userID, sessionID, nil, nil)
	return nil
}

// DisableTwoFactor describes the disabletwofactor operation and its observable behavior.
//
// DisableTwoFactor may return an error when input validation, dependency calls, or security checks fail.
// DisableTwoFactor does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) DisableTwoFactor(ctx context.Context, code string) error {
	if m == nil {
		return ErrManagerNotReady
	}
	if code == "" {
		m.SetError(api.CodeValidationError, "two-factor code is required")
		return ErrValidation
	}
	if !m.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	userID, sessionID := m.auditIDs()
	if err := m.client.DisableTwoFactor(ctx, code); err != nil {
		errCode, message := authErrorParts(err, api.CodeInvalidTwoFactorCode)
		m.SetError(errCode, message)
		m.emitAudit(ctx, auditEventTwoFactorDisabled, false, userID, sessionID, err, nil)
		return errors.Join(ErrTwoFactorInvalid, err)
	}

	m.mu.Lock()
	if m.user != nil {
		m.user.TwoFactorEnabled = false
	}
	m.mu.Unlock()

	m.emitAudit(ctx, auditEventTwoFactorDisabled, true, userID, sessionID, nil, nil)
	return nil
}

// FetchUserData re-pulls the current user, permission list, and role
// list from the API without touching tokens or the session record.
//
// FetchUserData may return an error when input validation, dependency calls, or security checks fail.
// FetchUserData does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) FetchUserData(ctx context.Context) error {
	if m == nil {
		return ErrManagerNotReady
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	epoch := m.epoch
	m.mu.Unlock()

	user, perms, roles, err := m.fetchIdentity(ctx)
	if err != nil {
		code, message := authErrorParts(err, api.CodeServerError)
		m.SetError(code, message)
		return err
	}

	m.mu.Lock()
	if m.closed || m.epoch != epoch {
		m.mu.Unlock()
		m.metricInc(MetricStaleResultDiscarded)
		return ErrStaleResult
	}
	m.user = cloneUser(user)
	m.permissions = cloneStrings(perms)
	m.roles = cloneStrings(roles)
	m.mu.Unlock()

	userID, sessionID := m.auditIDs()
	m.emitAudit(ctx, auditEventUserDataRefreshed, true, userID, sessionID, nil, nil)
	return nil
}

func registerSentinel(err error) error {
	switch api.ErrorCode(err) {
	case api.CodeEmailExists, api.CodeEmailAlreadyExists:
		return ErrEmailExists
	case api.CodeValidationError:
		return ErrValidation
	case api.CodeRateLimitExceeded:
		return ErrRateLimited
	case api.CodeNetworkError, api.CodeTimeoutError:
		return ErrAPIUnavailable
	}
	return ErrRegistrationFailed
}
