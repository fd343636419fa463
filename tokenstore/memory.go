package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/goSession/api"
)

// Memory is an in-process [Store]. The zero value is not usable; construct
// with [NewMemory].
type Memory struct {
	skew time.Duration

	mu      sync.RWMutex
	pair    *api.TokenPair
	cookies map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store. skew widens the local expiry
// check; zero is valid.
func NewMemory(skew time.Duration) *Memory {
	return &Memory{
		skew:    skew,
		cookies: make(map[string]string),
	}
}

// StoreAuthTokens replaces the held pair with a copy of pair.
func (m *Memory) StoreAuthTokens(_ context.Context, pair *api.TokenPair) error {
	m.mu.Lock()
	m.pair = clonePair(pair)
	m.mu.Unlock()
	return nil
}

// GetAuthTokens returns a copy of the held pair, or [ErrNoTokens].
func (m *Memory) GetAuthTokens(_ context.Context) (*api.TokenPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.pair == nil {
		return nil, ErrNoTokens
	}
	return clonePair(m.pair), nil
}

// ClearAuthTokens drops the pair and all extra cookies. Idempotent.
func (m *Memory) ClearAuthTokens(_ context.Context) error {
	m.mu.Lock()
	m.pair = nil
	m.cookies = make(map[string]string)
	m.mu.Unlock()
	return nil
}

// HasAuthTokens reports whether a pair is held.
func (m *Memory) HasAuthTokens(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pair != nil, nil
}

// IsTokenExpired decodes the token's exp claim; see [TokenExpired].
func (m *Memory) IsTokenExpired(token string) bool {
	return TokenExpired(token, m.skew)
}

// GetCookie serves the token pair under the shared cookie names and any
// value previously seeded with [Memory.SetCookie].
func (m *Memory) GetCookie(_ context.Context, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if value, ok := m.cookies[name]; ok {
		return value, nil
	}
	return cookieFromPair(m.pair, name)
}

// SetCookie seeds an extra named value, e.g. a CSRF token handed over by the
// host application.
func (m *Memory) SetCookie(name, value string) {
	m.mu.Lock()
	m.cookies[name] = value
	m.mu.Unlock()
}
