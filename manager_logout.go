package goSession

import "context"

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Logout(ctx context.Context) error {
	if m == nil {
		return ErrManagerNotReady
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	userID := m.userIDLocked()
	sessionID := m.sessionID
	hadTokens := m.pair != nil
	m.mu.Unlock()

	// Remote logout is best-effort: a failure is audited and otherwise
	// ignored, local clearing happens regardless.
	if hadTokens {
		if err := m.client.Logout(ctx); err != nil {
			m.emitAudit(ctx, auditEventLogout, false, userID, sessionID, err, nil)
		}
	}

	m.mu.Lock()
	m.clearAuthLocked()
	m.mu.Unlock()

	if err := m.tokens.ClearAuthTokens(ctx); err != nil {
		m.emitAudit(ctx, auditEventTokenStoreFailure, false, userID, sessionID, err, nil)
	}

	m.metricInc(MetricLogout)
	m.emitAudit(ctx, auditEventLogout, true, userID, sessionID, nil, nil)

	if m.navigator != nil {
		m.navigator.NavigateToLogin(ctx)
	}

	return nil
}
