package goSession

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/api"
	"github.com/MrEthical07/goSession/tokenstore"
)

// Initialize describes the initialize operation and its observable behavior.
//
// Initialize may return an error when input validation, dependency calls, or security checks fail.
// Initialize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Initialize(ctx context.Context) error {
	if m == nil {
		return ErrManagerNotReady
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.state = StateInitializing
	m.loading = true
	epoch := m.epoch
	m.mu.Unlock()

	err := m.restoreSession(ctx, epoch)
	m.finishInitialize()

	if err != nil {
		m.metricInc(MetricInitializeFailure)
	} else {
		m.metricInc(MetricInitializeSuccess)
	}
	userID, sessionID := m.auditIDs()
	m.emitAudit(ctx, auditEventInitialized, err == nil, userID, sessionID, err, nil)
	return err
}

// restoreSession resolves persisted tokens into a live session: absent
// tokens resolve unauthenticated, a fresh pair is validated by fetching
// the identity, and an expired pair gets exactly one refresh attempt.
func (m *Manager) restoreSession(ctx context.Context, epoch uint64) error {
	pair, err := m.tokens.GetAuthTokens(ctx)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNoTokens) {
			return nil
		}
		m.recordInitError(epoch, err)
		return err
	}

	// Hydrate the pair first so the API client's token source can serve
	// the bearer header during the identity fetch.
	m.mu.Lock()
	if m.closed || m.epoch != epoch {
		m.mu.Unlock()
		return nil
	}
	m.pair = clonePair(pair)
	m.mu.Unlock()

	if m.tokens.IsTokenExpired(pair.AccessToken) {
		ok, rerr := m.RefreshToken(ctx)
		if rerr != nil {
			return rerr
		}
		if !ok {
			// No refresh token to attempt with: the stored pair is dead.
			m.mu.Lock()
			if !m.closed && m.epoch == epoch {
				m.clearAuthLocked()
			}
			m.mu.Unlock()
			if cerr := m.tokens.ClearAuthTokens(ctx); cerr != nil {
				m.emitAudit(ctx, auditEventTokenStoreFailure, false, "", "", cerr, nil)
			}
			return nil
		}
		m.mu.Lock()
		pair = clonePair(m.pair)
		m.mu.Unlock()
		if pair == nil {
			return nil
		}
	}

	user, perms, roles, err := m.fetchIdentity(ctx)
	if err != nil {
		m.mu.Lock()
		if !m.closed && m.epoch == epoch {
			m.clearAuthLocked()
			code, message := authErrorParts(err, api.CodeServerError)
			m.setErrorLocked(code, message)
		}
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	if m.closed || m.epoch != epoch {
		m.mu.Unlock()
		return nil
	}
	m.applyAuthLocked(ctx, user, pair)
	m.permissions = cloneStrings(perms)
	m.roles = cloneStrings(roles)
	m.mu.Unlock()

	return nil
}

// fetchIdentity pulls the current user plus permission and role lists.
// List failures fall back to the lists embedded in the user payload.
func (m *Manager) fetchIdentity(ctx context.Context) (*User, []string, []string, error) {
	user, err := m.client.GetCurrentUser(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	perms, permErr := m.client.GetUserPermissions(ctx)
	if permErr != nil {
		perms = cloneStrings(user.Permissions)
	}
	roles, roleErr := m.client.GetUserRoles(ctx)
	if roleErr != nil {
		roles = cloneStrings(user.Roles)
	}
	return user, perms, roles, nil
}

// finishInitialize guarantees the manager never stays uninitialized:
// whatever happened during restore, it lands in a resolved state with
// the loading flag cleared.
func (m *Manager) finishInitialize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	m.initialized = true
	if m.state == StateUninitialized || m.state == StateInitializing {
		m.state = StateUnauthenticated
	}
	if m.state != StateAuthenticated {
		m.pair = nil
		m.stopRefreshTimerLocked()
	}
}

func (m *Manager) recordInitError(epoch uint64, cause error) {
	code, message := authErrorParts(cause, api.CodeServerError)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.epoch != epoch {
		return
	}
	m.setErrorLocked(code, message)
}

func (m *Manager) auditIDs() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userIDLocked(), m.sessionID
}
