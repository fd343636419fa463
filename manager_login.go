package goSession

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/api"
	"github.com/google/uuid"
)

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if creds.Email == "" || creds.Password == "" {
		m.setErrorLocked(api.CodeValidationError, "email and password are required")
		m.mu.Unlock()
		return nil, ErrValidation
	}
	epoch := m.epoch
	m.loading = true
	m.mu.Unlock()

	start := m.now()
	data, err := m.client.Login(ctx, creds)
	m.metricObserve(MetricLoginLatency, m.now().Sub(start))

	if err != nil {
		m.recordAuthFailure(ctx, epoch, err, auditEventLoginFailure, MetricLoginFailure, api.CodeLoginError)
		return nil, errors.Join(loginSentinel(err), err)
	}

	if data.Requires2FA {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()

		m.metricInc(MetricLoginTwoFactorRequired)
		m.emitAudit(ctx, auditEventLoginTwoFactorRequired, true, userIDOf(data.User), "", nil, nil)
		return &LoginResult{
			User:              cloneUser(data.User),
			TwoFactorRequired: true,
			TempToken:         data.TempToken,
		}, nil
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

	m.metricInc(MetricLoginSuccess)
	m.emitAudit(ctx, auditEventLoginSuccess, true, userIDOf(data.User), sessionID, nil, nil)
	return result, nil
}

// VerifyTwoFactor completes a provisional login that returned
// TwoFactorRequired. On success the manager transitions to
// StateAuthenticated exactly as a plain successful Login does.
//
// VerifyTwoFactor may return an error when input validation, dependency calls, or security checks fail.
// VerifyTwoFactor does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) VerifyTwoFactor(ctx context.Context, code, tempToken string) (*LoginResult, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}
	if tempToken == "" {
		return nil, ErrNoTempToken
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if code == "" {
		m.setErrorLocked(api.CodeValidationError, "two-factor code is required")
		m.mu.Unlock()
		return nil, ErrValidation
	}
	epoch := m.epoch
	m.loading = true
	m.mu.Unlock()

	data, err := m.client.VerifyTwoFactor(ctx, code, tempToken)
	if err != nil {
		m.recordAuthFailure(ctx, epoch, err, auditEventTwoFactorFailure, MetricTwoFactorFailure, api.CodeInvalidTwoFactorCode)
		return nil, errors.Join(ErrTwoFactorInvalid, err)
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

	m.metricInc(MetricTwoFactorSuccess)
	m.metricInc(MetricLoginSuccess)
	m.emitAudit(ctx, auditEventTwoFactorSuccess, true, userIDOf(data.User), sessionID, nil, nil)
	return result, nil
}

// SetAuth injects a user and token pair directly, writing through the
// token store. Host applications use it to hydrate a session obtained
// outside the login flow.
//
// SetAuth may return an error when input validation, dependency calls, or security checks fail.
// SetAuth does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) SetAuth(ctx context.Context, user *User, pair *TokenPair) error {
	if m == nil {
		return ErrManagerNotReady
	}
	if pair == nil || pair.AccessToken == "" {
		return ErrValidation
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	epoch := m.epoch
	m.applyAuthLocked(ctx, user, pair)
	sessionID := m.sessionID
	m.mu.Unlock()

	if err := m.tokens.StoreAuthTokens(ctx, pair); err != nil {
		m.revertAuth(ctx, epoch+1, sessionID, err)
		return errors.Join(ErrLoginFailed, err)
	}

	m.emitAudit(ctx, auditEventAuthInjected, true, userIDOf(user), sessionID, nil, nil)
	return nil
}

// completeLogin applies a successful credential exchange: state, token
// store write-through, refresh timer, session record, and the follow-up
// permission/role fetch.
func (m *Manager) completeLogin(ctx context.Context, epoch uint64, user *User, pair *TokenPair) (*LoginResult, string, error) {
	m.mu.Lock()
	if m.closed || m.epoch != epoch {
		m.loading = false
		m.mu.Unlock()
		m.metricInc(MetricStaleResultDiscarded)
		return nil, "", ErrStaleResult
	}
	m.applyAuthLocked(ctx, user, pair)
	m.loading = false
	newEpoch := m.epoch
	sessionID := m.sessionID
	m.mu.Unlock()

	if err := m.tokens.StoreAuthTokens(ctx, pair); err != nil {
		m.revertAuth(ctx, newEpoch, sessionID, err)
		return nil, "", errors.Join(ErrLoginFailed, err)
	}

	m.fetchAccessLists(ctx, newEpoch)

	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         cloneUser(user),
	}, sessionID, nil
}

// applyAuthLocked installs user and pair as the authenticated state,
// archives the previous session record, begins a new one from ctx
// metadata, and arms the refresh timer. Callers must hold m.mu.
func (m *Manager) applyAuthLocked(ctx context.Context, user *User, pair *TokenPair) {
	now := m.now().UTC()

	m.user = cloneUser(user)
	m.pair = clonePair(pair)
	m.permissions = nil
	m.roles = nil
	if user != nil {
		m.permissions = cloneStrings(user.Permissions)
		m.roles = cloneStrings(user.Roles)
	}

	m.archiveSessionLocked()
	m.session = &SessionInfo{
		LoginTime:    now,
		LastActivity: now,
		Device:       deviceFromContext(ctx),
		IPAddress:    clientIPFromContext(ctx),
		Location:     locationFromContext(ctx),
	}
	m.sessionID = uuid.NewString()

	m.currentErr = nil
	m.state = StateAuthenticated
	m.initialized = true
	m.epoch++

	m.scheduleRefreshLocked(pair)
}

// revertAuth rolls back an applyAuthLocked whose token store
// write-through failed, unless a newer transition already replaced the
// state.
func (m *Manager) revertAuth(ctx context.Context, epoch uint64, sessionID string, cause error) {
	code, message := authErrorParts(cause, api.CodeLoginError)

	m.mu.Lock()
	if m.closed || m.epoch != epoch {
		m.mu.Unlock()
		m.metricInc(MetricStaleResultDiscarded)
		return
	}
	m.clearAuthLocked()
	m.setErrorLocked(code, message)
	m.mu.Unlock()

	m.metricInc(MetricLoginFailure)
	m.emitAudit(ctx, auditEventTokenStoreFailure, false, "", sessionID, cause, nil)
}

// recordAuthFailure records a failed credential exchange without
// touching the existing (unauthenticated) state.
func (m *Manager) recordAuthFailure(ctx context.Context, epoch uint64, cause error, eventType string, metric MetricID, fallbackCode string) {
	code, message := authErrorParts(cause, fallbackCode)
	// Transport failures record the flow's generic code; the audit
	// event keeps the underlying cause.
	if code == api.CodeNetworkError || code == api.CodeTimeoutError {
		m.noteTransportMetric(code)
		code = fallbackCode
	}

	m.mu.Lock()
	m.loading = false
	if m.closed || m.epoch != epoch {
		m.mu.Unlock()
		m.metricInc(MetricStaleResultDiscarded)
		return
	}
	m.setErrorLocked(code, message)
	m.mu.Unlock()

	m.metricInc(metric)
	m.emitAudit(ctx, eventType, false, "", "", cause, nil)
}

func (m *Manager) noteTransportMetric(code string) {
	switch code {
	case api.CodeNetworkError:
		m.metricInc(MetricAPINetworkError)
	case api.CodeTimeoutError:
		m.metricInc(MetricAPITimeout)
	}
}

// fetchAccessLists pulls the permission and role lists for the
// just-authenticated user. Failures are tolerated: the lists from the
// login payload remain in place.
func (m *Manager) fetchAccessLists(ctx context.Context, epoch uint64) {
	perms, permErr := m.client.GetUserPermissions(ctx)
	roles, roleErr := m.client.GetUserRoles(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.epoch != epoch {
		return
	}
	if permErr == nil {
		m.permissions = cloneStrings(perms)
	}
	if roleErr == nil {
		m.roles = cloneStrings(roles)
	}
}

func loginSentinel(err error) error {
	switch api.ErrorCode(err) {
	case api.CodeInvalidCredentials:
		return ErrInvalidCredentials
	case api.CodeAccountLocked:
		return ErrAccountLocked
	case api.CodeEmailNotVerified:
		return ErrEmailNotVerified
	case api.CodeRateLimitExceeded:
		return ErrRateLimited
	case api.CodeTwoFactorRequired:
		return ErrTwoFactorRequired
	case api.CodeNetworkError, api.CodeTimeoutError:
		return ErrAPIUnavailable
	}
	return ErrLoginFailed
}

func userIDOf(u *User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
