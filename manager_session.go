package goSession

import "context"

// CheckSession verifies the cached access token is still usable,
// refreshing it when the local expiry check says it is stale. It
// returns false only when the manager is not authenticated.
//
// CheckSession may return an error when input validation, dependency calls, or security checks fail.
// CheckSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) CheckSession(ctx context.Context) bool {
	m.metricInc(MetricSessionChecked)
	return m.touchSession(ctx)
}

// ExtendSession is the activity-driven variant of [Manager.CheckSession]:
// same liveness check and conditional refresh, recorded as an explicit
// session extension.
//
// ExtendSession may return an error when input validation, dependency calls, or security checks fail.
// ExtendSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) ExtendSession(ctx context.Context) bool {
	ok := m.touchSession(ctx)
	if ok {
		m.metricInc(MetricSessionExtended)
		userID, sessionID := m.auditIDs()
		m.emitAudit(ctx, auditEventSessionExtended, true, userID, sessionID, nil, nil)
	}
	return ok
}

func (m *Manager) touchSession(ctx context.Context) bool {
	if m == nil {
		return false
	}

	m.mu.Lock()
	if m.closed || m.state != StateAuthenticated || m.pair == nil {
		m.mu.Unlock()
		return false
	}
	m.touchActivityLocked()
	accessToken := m.pair.AccessToken
	m.mu.Unlock()

	if !m.tokens.IsTokenExpired(accessToken) {
		return true
	}

	ok, _ := m.RefreshToken(ctx)
	return ok
}

func (m *Manager) touchActivityLocked() {
	now := m.now().UTC()
	if m.session == nil {
		m.session = &SessionInfo{LoginTime: now}
	}
	m.session.LastActivity = now
}

// UpdateSession merges patch into the current session record, creating
// one with LoginTime set to now when absent. LastActivity is always
// stamped.
//
// UpdateSession may return an error when input validation, dependency calls, or security checks fail.
// UpdateSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) UpdateSession(patch SessionPatch) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.touchActivityLocked()
	if patch.Device != "" {
		m.session.Device = patch.Device
	}
	if patch.IPAddress != "" {
		m.session.IPAddress = patch.IPAddress
	}
	if patch.Location != "" {
		m.session.Location = patch.Location
	}
}

// UpdateUser patches the current user in place. Nil patch fields leave
// the existing values; metadata entries are merged key by key. Without
// a current user the call is a no-op.
//
// UpdateUser may return an error when input validation, dependency calls, or security checks fail.
// UpdateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) UpdateUser(patch UserPatch) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return
	}
	if patch.FullName != nil {
		m.user.FullName = *patch.FullName
	}
	if patch.Name != nil {
		m.user.Name = *patch.Name
	}
	if patch.ProfilePicture != nil {
		m.user.ProfilePicture = *patch.ProfilePicture
	}
	if patch.EmailVerified != nil {
		m.user.EmailVerified = *patch.EmailVerified
	}
	if len(patch.Metadata) > 0 {
		if m.user.Metadata == nil {
			m.user.Metadata = make(map[string]string, len(patch.Metadata))
		}
		for k, v := range patch.Metadata {
			m.user.Metadata[k] = v
		}
	}
}

// SetError replaces the single current-error slot and appends the entry
// to the bounded error history.
//
// SetError may return an error when input validation, dependency calls, or security checks fail.
// SetError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) SetError(code, message string) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErrorLocked(code, message)
}

// ClearError nulls the current-error slot. History entries stay.
//
// ClearError may return an error when input validation, dependency calls, or security checks fail.
// ClearError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) ClearError() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentErr = nil
}
