package goSession

import (
	"sync"
	"time"

	"github.com/MrEthical07/goSession/api"
	"github.com/MrEthical07/goSession/tokenstore"
)

// Manager defines a public type used by goSession APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config    Config
	client    api.Client
	tokens    tokenstore.Store
	navigator Navigator
	audit     *auditDispatcher
	metrics   *Metrics

	mu sync.Mutex

	state       State
	initialized bool
	loading     bool
	closed      bool

	// epoch increments on every transition that replaces or clears auth
	// state. Async completions capture it before their I/O and discard
	// the result when it moved underneath them.
	epoch uint64

	user        *User
	pair        *TokenPair
	permissions []string
	roles       []string

	session     *SessionInfo
	sessionID   string
	currentErr  *AuthError
	errHistory  []AuthError
	sessHistory []SessionInfo

	timer refreshTimer

	now       func() time.Time
	afterFunc func(d time.Duration, fn func()) refreshTimer
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Close() {
	if m == nil {
		return
	}

	m.mu.Lock()
	m.closed = true
	m.stopRefreshTimerLocked()
	m.mu.Unlock()

	if m.audit != nil {
		m.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

func (m *Manager) metricObserve(id MetricID, d time.Duration) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Observe(id, d)
}

/*
====================================
GETTERS
====================================
*/

// State describes the state operation and its observable behavior.
//
// State may return an error when input validation, dependency calls, or security checks fail.
// State does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) State() State {
	if m == nil {
		return StateUninitialized
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated describes the isauthenticated operation and its observable behavior.
//
// IsAuthenticated may return an error when input validation, dependency calls, or security checks fail.
// IsAuthenticated does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) IsAuthenticated() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateAuthenticated
}

// IsInitialized describes the isinitialized operation and its observable behavior.
//
// IsInitialized may return an error when input validation, dependency calls, or security checks fail.
// IsInitialized does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) IsInitialized() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// IsLoading describes the isloading operation and its observable behavior.
//
// IsLoading may return an error when input validation, dependency calls, or security checks fail.
// IsLoading does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) IsLoading() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// User describes the user operation and its observable behavior.
//
// User may return an error when input validation, dependency calls, or security checks fail.
// User does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) User() *User {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneUser(m.user)
}

// Tokens describes the tokens operation and its observable behavior.
//
// Tokens may return an error when input validation, dependency calls, or security checks fail.
// Tokens does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Tokens() *TokenPair {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return clonePair(m.pair)
}

// AccessToken returns the current access token or the empty string. It
// satisfies [api.TokenSource], so a Manager can back the bearer header
// of its own API client.
func (m *Manager) AccessToken() string {
	if m == nil {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pair == nil {
		return ""
	}
	return m.pair.AccessToken
}

// Permissions describes the permissions operation and its observable behavior.
//
// Permissions may return an error when input validation, dependency calls, or security checks fail.
// Permissions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Permissions() []string {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneStrings(m.permissions)
}

// Roles describes the roles operation and its observable behavior.
//
// Roles may return an error when input validation, dependency calls, or security checks fail.
// Roles does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Roles() []string {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneStrings(m.roles)
}

// CurrentError describes the currenterror operation and its observable behavior.
//
// CurrentError may return an error when input validation, dependency calls, or security checks fail.
// CurrentError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) CurrentError() *AuthError {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentErr == nil {
		return nil
	}
	out := *m.currentErr
	return &out
}

// AuthErrors describes the autherrors operation and its observable behavior.
//
// AuthErrors may return an error when input validation, dependency calls, or security checks fail.
// AuthErrors does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) AuthErrors() []AuthError {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AuthError, len(m.errHistory))
	copy(out, m.errHistory)
	return out
}

// Session describes the session operation and its observable behavior.
//
// Session may return an error when input validation, dependency calls, or security checks fail.
// Session does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Session() *SessionInfo {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	out := *m.session
	return &out
}

// SessionHistory describes the sessionhistory operation and its observable behavior.
//
// SessionHistory may return an error when input validation, dependency calls, or security checks fail.
// SessionHistory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) SessionHistory() []SessionInfo {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SessionInfo, len(m.sessHistory))
	copy(out, m.sessHistory)
	return out
}

/*
====================================
INTERNAL STATE HELPERS
====================================
*/

func (m *Manager) setErrorLocked(code, message string) {
	entry := AuthError{
		Code:      code,
		Message:   message,
		Timestamp: m.now().UTC(),
	}
	m.currentErr = &entry
	m.errHistory = append(m.errHistory, entry)
	if limit := m.config.History.ErrorCapacity; len(m.errHistory) > limit {
		m.errHistory = m.errHistory[len(m.errHistory)-limit:]
	}
}

func (m *Manager) archiveSessionLocked() {
	if m.session == nil {
		return
	}
	m.sessHistory = append(m.sessHistory, *m.session)
	if limit := m.config.History.SessionCapacity; len(m.sessHistory) > limit {
		m.sessHistory = m.sessHistory[len(m.sessHistory)-limit:]
	}
	m.session = nil
}

// clearAuthLocked drops user, tokens, permissions, roles, and the armed
// refresh timer, archives the current session record, and moves the
// manager to StateUnauthenticated. It bumps the epoch so in-flight
// completions for the old state are discarded.
func (m *Manager) clearAuthLocked() {
	m.stopRefreshTimerLocked()
	m.user = nil
	m.pair = nil
	m.permissions = nil
	m.roles = nil
	m.archiveSessionLocked()
	m.sessionID = ""
	m.currentErr = nil
	m.state = StateUnauthenticated
	m.initialized = true
	m.epoch++
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	out := *u
	out.Roles = cloneStrings(u.Roles)
	out.Permissions = cloneStrings(u.Permissions)
	if u.Metadata != nil {
		out.Metadata = make(map[string]string, len(u.Metadata))
		for k, v := range u.Metadata {
			out.Metadata[k] = v
		}
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	return &out
}

func clonePair(p *TokenPair) *TokenPair {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
