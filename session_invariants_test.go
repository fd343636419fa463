package goSession

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MrEthical07/goSession/api"
)

// assertSessionCoherent checks the guarantees every caller relies on:
// the authenticated state, the token pair, and the access token getter
// never disagree with each other.
func assertSessionCoherent(t *testing.T, m *Manager) {
	t.Helper()

	authed := m.IsAuthenticated()
	pair := m.Tokens()
	access := m.AccessToken()

	if authed && pair == nil {
		t.Fatal("authenticated without tokens")
	}
	if !authed && pair != nil {
		t.Fatal("tokens present while unauthenticated")
	}
	if authed && (access == "" || access != pair.AccessToken) {
		t.Fatalf("access token getter disagrees: %q vs %+v", access, pair)
	}
	if !authed && access != "" {
		t.Fatalf("access token %q leaked past logout", access)
	}
}

func TestSessionInvariantAuthAlwaysPairedWithTokens(t *testing.T) {
	client := &mockClient{
		loginData:   loginPayload(testUser(), testPair()),
		refreshData: &api.TokenData{AccessToken: "access-2", ExpiresIn: 3600},
		permissions: []string{"user:read"},
		roles:       []string{"member"},
	}
	store := &mockStore{}
	m, _ := newTestManager(t, client, store)
	ctx := context.Background()

	assertSessionCoherent(t, m)

	if err := m.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	assertSessionCoherent(t, m)

	if _, err := m.Login(ctx, Credentials{Email: "alice@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	assertSessionCoherent(t, m)

	if ok := m.CheckSession(ctx); !ok {
		t.Fatal("expected live session")
	}
	assertSessionCoherent(t, m)

	if _, err := m.RefreshToken(ctx); err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	assertSessionCoherent(t, m)

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	assertSessionCoherent(t, m)

	if _, err := m.Login(ctx, Credentials{Email: "alice@example.com", Password: "pw"}); err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	assertSessionCoherent(t, m)
}

func TestSessionInvariantLogoutDuringLoginDiscardsCompletion(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	client := &mockClient{
		loginData: loginPayload(testUser(), testPair()),
		loginHook: func() {
			close(entered)
			<-release
		},
	}
	store := &mockStore{}
	m, _ := newTestManager(t, client, store)

	loginErr := make(chan error, 1)
	go func() {
		_, err := m.Login(context.Background(), Credentials{Email: "alice@example.com", Password: "pw"})
		loginErr <- err
	}()

	<-entered
	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	close(release)

	if err := <-loginErr; !errors.Is(err, ErrStaleResult) {
		t.Fatalf("expected ErrStaleResult, got %v", err)
	}

	// The in-flight login must never resurrect a session the user ended.
	if m.IsAuthenticated() {
		t.Fatal("expected unauthenticated after logout")
	}
	assertSessionCoherent(t, m)
	if store.storeCalls != 0 {
		t.Fatalf("expected no store write from the stale login, got %d", store.storeCalls)
	}
	if metricValue(m, MetricStaleResultDiscarded) != 1 {
		t.Fatal("expected stale result metric")
	}
}

func TestSessionInvariantRefreshFailureLeavesNoPartialState(t *testing.T) {
	m, client, store, _ := newAuthedManager(t)
	client.mu.Lock()
	client.refreshErr = &api.APIError{Code: api.CodeTokenExpired, Message: "refresh token expired"}
	client.mu.Unlock()

	if _, err := m.RefreshToken(context.Background()); !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("expected ErrRefreshFailed, got %v", err)
	}

	assertSessionCoherent(t, m)
	if m.User() != nil {
		t.Fatal("expected user cleared")
	}
	if len(m.Permissions()) != 0 || len(m.Roles()) != 0 {
		t.Fatal("expected access lists cleared")
	}
	if m.Session() != nil {
		t.Fatal("expected live session cleared")
	}
	if m.HasPermission("user:read") {
		t.Fatal("expected permission checks to deny")
	}
	if m.State() != StateUnauthenticated {
		t.Fatalf("expected unauthenticated state, got %v", m.State())
	}
	if len(m.SessionHistory()) != 1 {
		t.Fatalf("expected archived session, got %d", len(m.SessionHistory()))
	}
	if store.clearCalls != 1 {
		t.Fatalf("expected store clear, got %d", store.clearCalls)
	}
}

func TestSessionInvariantConcurrentOperationsKeepCoherence(t *testing.T) {
	m, client, _, _ := newAuthedManager(t)
	client.mu.Lock()
	client.refreshData = &api.TokenData{AccessToken: "access-2", ExpiresIn: 3600}
	client.mu.Unlock()

	const iterations = 50
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				m.CheckSession(context.Background())
				m.HasPermission("user:read")
				_ = m.User()
				_ = m.Tokens()
				_ = m.SessionHistory()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < iterations; j++ {
			m.UpdateSession(SessionPatch{Location: "office"})
			_ = m.Session()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 5; j++ {
			if _, err := m.RefreshToken(context.Background()); err != nil {
				t.Errorf("refresh failed: %v", err)
				return
			}
		}
	}()

	wg.Wait()

	assertSessionCoherent(t, m)
	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated after concurrent reads")
	}

	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	assertSessionCoherent(t, m)
}

func TestSessionInvariantCloseStopsScheduledRefresh(t *testing.T) {
	m, client, _, rec := newAuthedManager(t)

	m.Close()

	if !rec.timer(0).stopped() {
		t.Fatal("expected refresh timer stopped on close")
	}

	// A timer callback racing Close must not reach the API.
	rec.fire(0)
	if client.refreshCalls != 0 {
		t.Fatalf("expected no refresh after close, got %d", client.refreshCalls)
	}

	if _, err := m.RefreshToken(context.Background()); !errors.Is(err, ErrManagerClosed) {
		t.Fatalf("expected ErrManagerClosed, got %v", err)
	}

	m.Close() // second close is a no-op
}
