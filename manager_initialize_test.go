package goSession

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goSession/api"
)

func TestInitializeWithoutStoredTokens(t *testing.T) {
	client := &mockClient{}
	store := &mockStore{}
	m, _ := newTestManager(t, client, store)

	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if m.State() != StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", m.State())
	}
	if !m.IsInitialized() || m.IsLoading() {
		t.Fatal("expected initialized, not loading")
	}
	if store.getCalls != 1 {
		t.Fatalf("expected one store read, got %d", store.getCalls)
	}
	if client.userCalls != 0 {
		t.Fatal("expected no identity fetch without tokens")
	}
	if metricValue(m, MetricInitializeSuccess) != 1 {
		t.Fatal("expected initialize success metric")
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	store := &mockStore{}
	m, _ := newTestManager(t, &mockClient{}, store)

	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
	if store.getCalls != 1 {
		t.Fatalf("expected second call to short-circuit, got %d reads", store.getCalls)
	}
}

func TestInitializeRestoresValidSession(t *testing.T) {
	client := &mockClient{
		user:        testUser(),
		permissions: []string{"user:read", "admin:*"},
		roles:       []string{"admin"},
	}
	store := &mockStore{pair: testPair()}
	m, rec := newTestManager(t, client, store)

	ctx := WithDevice(context.Background(), "workstation")
	if err := m.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if !m.IsAuthenticated() {
		t.Fatalf("expected restored session, state %v", m.State())
	}
	if client.userCalls != 1 {
		t.Fatalf("expected identity fetch, got %d", client.userCalls)
	}
	if m.AccessToken() != "access-1" {
		t.Fatalf("expected restored token, got %q", m.AccessToken())
	}
	if perms := m.Permissions(); len(perms) != 2 {
		t.Fatalf("expected fetched permission list, got %v", perms)
	}
	if session := m.Session(); session == nil || session.Device != "workstation" {
		t.Fatalf("expected session metadata from context, got %+v", session)
	}
	if rec.armed() == 0 {
		t.Fatal("expected refresh timer armed after restore")
	}
	if metricValue(m, MetricInitializeSuccess) != 1 {
		t.Fatal("expected initialize success metric")
	}
}

func TestInitializeRefreshesExpiredToken(t *testing.T) {
	client := &mockClient{
		refreshData: &api.TokenData{AccessToken: "access-2", ExpiresIn: 3600},
		user:        testUser(),
		permissions: []string{"user:read"},
		roles:       []string{"member"},
	}
	store := &mockStore{pair: testPair(), expired: true}
	m, _ := newTestManager(t, client, store)

	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated after refresh")
	}
	if client.refreshCalls != 1 {
		t.Fatalf("expected one refresh, got %d", client.refreshCalls)
	}
	if m.AccessToken() != "access-2" {
		t.Fatalf("expected refreshed token, got %q", m.AccessToken())
	}
	if store.storeCalls != 1 {
		t.Fatalf("expected refresh write-through, got %d", store.storeCalls)
	}
}

func TestInitializeExpiredWithoutRefreshToken(t *testing.T) {
	client := &mockClient{}
	store := &mockStore{
		pair:    &api.TokenPair{AccessToken: "access-1", ExpiresIn: 3600},
		expired: true,
	}
	m, _ := newTestManager(t, client, store)

	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if m.State() != StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", m.State())
	}
	if m.Tokens() != nil {
		t.Fatal("expected dead pair dropped")
	}
	if client.refreshCalls != 0 {
		t.Fatal("expected no refresh attempt without a refresh token")
	}
	if store.clearCalls != 1 {
		t.Fatalf("expected store cleared, got %d", store.clearCalls)
	}
	if metricValue(m, MetricRefreshSkippedNoToken) != 1 {
		t.Fatal("expected skipped metric")
	}
}

func TestInitializeRefreshFailure(t *testing.T) {
	client := &mockClient{
		refreshErr: &api.APIError{Code: api.CodeInvalidToken, Message: "revoked"},
	}
	store := &mockStore{pair: testPair(), expired: true}
	m, _ := newTestManager(t, client, store)

	err := m.Initialize(context.Background())
	if !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("expected ErrRefreshFailed, got %v", err)
	}

	if m.State() != StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", m.State())
	}
	if !m.IsInitialized() {
		t.Fatal("expected initialized despite failure")
	}
	if metricValue(m, MetricInitializeFailure) != 1 {
		t.Fatal("expected initialize failure metric")
	}
}

func TestInitializeIdentityFailure(t *testing.T) {
	client := &mockClient{
		userErr: &api.APIError{Code: api.CodeServerError, Message: "upstream down"},
	}
	store := &mockStore{pair: testPair()}
	m, _ := newTestManager(t, client, store)

	err := m.Initialize(context.Background())
	if err == nil {
		t.Fatal("expected identity failure")
	}

	if m.State() != StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", m.State())
	}
	if m.Tokens() != nil {
		t.Fatal("expected pair dropped after identity failure")
	}
	if cur := m.CurrentError(); cur == nil || cur.Code != api.CodeServerError {
		t.Fatalf("expected recorded server error, got %+v", cur)
	}
	if metricValue(m, MetricInitializeFailure) != 1 {
		t.Fatal("expected initialize failure metric")
	}
}

func TestInitializeListFetchFallsBackToUserPayload(t *testing.T) {
	user := testUser()
	client := &mockClient{
		user:     user,
		permsErr: errors.New("permissions endpoint down"),
		rolesErr: errors.New("roles endpoint down"),
	}
	store := &mockStore{pair: testPair()}
	m, _ := newTestManager(t, client, store)

	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if perms := m.Permissions(); len(perms) != 1 || perms[0] != "user:read" {
		t.Fatalf("expected payload permissions, got %v", perms)
	}
	if roles := m.Roles(); len(roles) != 1 || roles[0] != "member" {
		t.Fatalf("expected payload roles, got %v", roles)
	}
}

func TestInitializeStoreReadFailure(t *testing.T) {
	store := &mockStore{getErr: errors.New("corrupt keychain")}
	m, _ := newTestManager(t, &mockClient{}, store)

	err := m.Initialize(context.Background())
	if err == nil {
		t.Fatal("expected store read failure")
	}

	if m.State() != StateUnauthenticated {
		t.Fatalf("expected resolved state, got %v", m.State())
	}
	if cur := m.CurrentError(); cur == nil || cur.Code != api.CodeServerError {
		t.Fatalf("expected fallback server error code, got %+v", cur)
	}
	if metricValue(m, MetricInitializeFailure) != 1 {
		t.Fatal("expected initialize failure metric")
	}
}

func TestInitializeAfterCloseFails(t *testing.T) {
	m, _ := newTestManager(t, &mockClient{}, &mockStore{})
	m.Close()

	if err := m.Initialize(context.Background()); !errors.Is(err, ErrManagerClosed) {
		t.Fatalf("expected ErrManagerClosed, got %v", err)
	}
}
