package goSession

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goSession/api"
	"github.com/MrEthical07/goSession/tokenstore"
)

// refreshTimer is the armed one-shot timer behind the proactive refresh
// schedule. Production code uses [time.AfterFunc]; tests substitute a
// recording implementation.
type refreshTimer interface {
	Stop() bool
}

func stdAfterFunc(d time.Duration, fn func()) refreshTimer {
	return time.AfterFunc(d, fn)
}

// RefreshToken describes the refreshtoken operation and its observable behavior.
//
// RefreshToken may return an error when input validation, dependency calls, or security checks fail.
// RefreshToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) RefreshToken(ctx context.Context) (bool, error) {
	if m == nil {
		return false, ErrManagerNotReady
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, ErrManagerClosed
	}
	if m.pair == nil || m.pair.RefreshToken == "" {
		m.mu.Unlock()
		m.metricInc(MetricRefreshSkippedNoToken)
		return false, nil
	}
	epoch := m.epoch
	refreshToken := m.pair.RefreshToken
	tokenType := m.pair.TokenType
	userID := m.userIDLocked()
	sessionID := m.sessionID
	m.mu.Unlock()

	start := m.now()
	data, err := m.client.RefreshToken(ctx, refreshToken)
	m.metricObserve(MetricRefreshLatency, m.now().Sub(start))

	if err != nil {
		m.failRefresh(ctx, epoch, userID, sessionID, err)
		return false, errors.Join(ErrRefreshFailed, err)
	}

	next := &TokenPair{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		TokenType:    data.TokenType,
		ExpiresIn:    data.ExpiresIn,
	}
	// Rotation is optional: keep the old refresh token when the server
	// does not return a new one.
	if next.RefreshToken == "" {
		next.RefreshToken = refreshToken
	}
	if next.TokenType == "" {
		next.TokenType = tokenType
	}

	m.mu.Lock()
	if m.closed || m.epoch != epoch {
		m.mu.Unlock()
		m.metricInc(MetricStaleResultDiscarded)
		return false, ErrStaleResult
	}
	m.pair = clonePair(next)
	m.state = StateAuthenticated
	m.initialized = true
	m.scheduleRefreshLocked(next)
	m.mu.Unlock()

	if storeErr := m.tokens.StoreAuthTokens(ctx, next); storeErr != nil {
		m.failRefresh(ctx, epoch, userID, sessionID, storeErr)
		return false, errors.Join(ErrRefreshFailed, storeErr)
	}

	m.metricInc(MetricRefreshSuccess)
	m.emitAudit(ctx, auditEventRefreshSuccess, true, userID, sessionID, nil, nil)
	return true, nil
}

// failRefresh clears all auth data after a failed refresh, leaving the
// manager exactly as a logout without the remote call would. The epoch
// check keeps it from wiping state some newer transition already owns.
func (m *Manager) failRefresh(ctx context.Context, epoch uint64, userID, sessionID string, cause error) {
	code, message := authErrorParts(cause, api.CodeTokenExpired)

	m.mu.Lock()
	if m.closed || m.epoch != epoch {
		m.mu.Unlock()
		m.metricInc(MetricStaleResultDiscarded)
		return
	}
	m.clearAuthLocked()
	m.setErrorLocked(code, message)
	m.mu.Unlock()

	if err := m.tokens.ClearAuthTokens(ctx); err != nil {
		m.emitAudit(ctx, auditEventTokenStoreFailure, false, userID, sessionID, err, nil)
	}

	m.metricInc(MetricRefreshFailure)
	m.metricInc(MetricSessionExpired)
	m.emitAudit(ctx, auditEventRefreshFailure, false, userID, sessionID, cause, nil)

	if m.navigator != nil {
		m.navigator.NavigateToLogin(ctx)
	}
}

/*
====================================
SCHEDULING
====================================
*/

// scheduleRefreshLocked arms the one-shot proactive refresh for pair.
// The previous timer is always stopped first, so at most one timer is
// pending. Callers must hold m.mu.
func (m *Manager) scheduleRefreshLocked(pair *TokenPair) {
	m.stopRefreshTimerLocked()

	if m.config.Refresh.DisableAutoRefresh {
		return
	}
	if pair == nil || pair.RefreshToken == "" {
		return
	}

	delay := m.refreshDelay(pair)
	m.timer = m.afterFunc(delay, func() {
		_, _ = m.RefreshToken(context.Background())
	})
	m.metricInc(MetricRefreshScheduled)
}

func (m *Manager) stopRefreshTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// refreshDelay computes how long to wait before refreshing: the token's
// remaining lifetime minus the configured lead, floored at MinDelay.
// The exp claim is preferred because a restored pair may already have
// burned part of its ExpiresIn window.
func (m *Manager) refreshDelay(pair *TokenPair) time.Duration {
	remaining := time.Duration(pair.ExpiresIn) * time.Second
	if exp, err := tokenstore.TokenExpiry(pair.AccessToken); err == nil {
		remaining = exp.Sub(m.now())
	}

	delay := remaining - m.config.Refresh.Lead
	if delay < m.config.Refresh.MinDelay {
		delay = m.config.Refresh.MinDelay
	}
	return delay
}

func (m *Manager) userIDLocked() string {
	if m.user == nil {
		return ""
	}
	return m.user.ID
}
