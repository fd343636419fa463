package goSession

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/api"
	"github.com/MrEthical07/goSession/tokenstore"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

/*
====================================
API CLIENT MOCK
====================================
*/

type mockClient struct {
	mu sync.Mutex

	loginData *api.LoginData
	loginErr  error
	// loginHook runs inside Login after the call is recorded, outside any
	// manager lock. Tests use it to hold a login in flight.
	loginHook func()

	registerData *api.LoginData
	registerErr  error

	logoutErr error

	refreshData *api.TokenData
	refreshErr  error

	user    *api.User
	userErr error

	permissions []string
	permsErr    error
	roles       []string
	rolesErr    error

	verifyEmailErr    error
	resendErr         error
	changePasswordErr error
	resetRequestErr   error
	resetConfirmErr   error

	setup         *api.TwoFactorSetup
	setupErr      error
	verify2FAData *api.LoginData
	verify2FAErr  error
	disable2FAErr error

	lastRefreshToken string
	lastEmail        string
	lastCode         string
	lastTempToken    string

	loginCalls          int
	registerCalls       int
	logoutCalls         int
	refreshCalls        int
	userCalls           int
	permsCalls          int
	rolesCalls          int
	verifyEmailCalls    int
	resendCalls         int
	changePasswordCalls int
	resetRequestCalls   int
	resetConfirmCalls   int
	setupCalls          int
	verify2FACalls      int
	disable2FACalls     int
}

func (c *mockClient) Login(ctx context.Context, creds api.Credentials) (*api.LoginData, error) {
	c.mu.Lock()
	c.loginCalls++
	data, err, hook := c.loginData, c.loginErr, c.loginHook
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, &api.APIError{Code: api.CodeServerError, Message: "login not configured"}
	}
	return data, nil
}

func (c *mockClient) Register(ctx context.Context, req api.RegisterRequest) (*api.LoginData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registerCalls++
	if c.registerErr != nil {
		return nil, c.registerErr
	}
	if c.registerData == nil {
		return nil, &api.APIError{Code: api.CodeServerError, Message: "register not configured"}
	}
	return c.registerData, nil
}

func (c *mockClient) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logoutCalls++
	return c.logoutErr
}

func (c *mockClient) RefreshToken(ctx context.Context, refreshToken string) (*api.TokenData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshCalls++
	c.lastRefreshToken = refreshToken
	if c.refreshErr != nil {
		return nil, c.refreshErr
	}
	if c.refreshData == nil {
		return nil, &api.APIError{Code: api.CodeServerError, Message: "refresh not configured"}
	}
	data := *c.refreshData
	return &data, nil
}

func (c *mockClient) GetCurrentUser(ctx context.Context) (*api.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userCalls++
	if c.userErr != nil {
		return nil, c.userErr
	}
	if c.user == nil {
		return nil, &api.APIError{Code: api.CodeUserNotFound, Message: "user not configured"}
	}
	return cloneUser(c.user), nil
}

func (c *mockClient) GetUserPermissions(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.permsCalls++
	if c.permsErr != nil {
		return nil, c.permsErr
	}
	return cloneStrings(c.permissions), nil
}

func (c *mockClient) GetUserRoles(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolesCalls++
	if c.rolesErr != nil {
		return nil, c.rolesErr
	}
	return cloneStrings(c.roles), nil
}

func (c *mockClient) VerifyEmail(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verifyEmailCalls++
	return c.verifyEmailErr
}

func (c *mockClient) ResendVerification(ctx context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resendCalls++
	c.lastEmail = email
	return c.resendErr
}

func (c *mockClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changePasswordCalls++
	return c.changePasswordErr
}

func (c *mockClient) RequestPasswordReset(ctx context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetRequestCalls++
	c.lastEmail = email
	return c.resetRequestErr
}

func (c *mockClient) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetConfirmCalls++
	return c.resetConfirmErr
}

func (c *mockClient) SetupTwoFactor(ctx context.Context) (*api.TwoFactorSetup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setupCalls++
	if c.setupErr != nil {
		return nil, c.setupErr
	}
	if c.setup == nil {
		return nil, &api.APIError{Code: api.CodeServerError, Message: "setup not configured"}
	}
	return c.setup, nil
}

func (c *mockClient) VerifyTwoFactor(ctx context.Context, code, tempToken string) (*api.LoginData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verify2FACalls++
	c.lastCode = code
	c.lastTempToken = tempToken
	if c.verify2FAErr != nil {
		return nil, c.verify2FAErr
	}
	if c.verify2FAData == nil {
		return nil, &api.APIError{Code: api.CodeServerError, Message: "verify not configured"}
	}
	return c.verify2FAData, nil
}

func (c *mockClient) DisableTwoFactor(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disable2FACalls++
	c.lastCode = code
	return c.disable2FAErr
}

/*
====================================
TOKEN STORE MOCK
====================================
*/

type mockStore struct {
	mu   sync.Mutex
	pair *api.TokenPair

	expired bool

	storeErr error
	getErr   error
	clearErr error

	storeCalls   int
	getCalls     int
	clearCalls   int
	hasCalls     int
	expiredCalls int
}

func (s *mockStore) StoreAuthTokens(ctx context.Context, pair *api.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeCalls++
	if s.storeErr != nil {
		return s.storeErr
	}
	s.pair = clonePair(pair)
	return nil
}

func (s *mockStore) GetAuthTokens(ctx context.Context) (*api.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.pair == nil {
		return nil, tokenstore.ErrNoTokens
	}
	return clonePair(s.pair), nil
}

func (s *mockStore) ClearAuthTokens(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.pair = nil
	return nil
}

func (s *mockStore) HasAuthTokens(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasCalls++
	return s.pair != nil, nil
}

func (s *mockStore) IsTokenExpired(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiredCalls++
	return s.expired
}

func (s *mockStore) GetCookie(ctx context.Context, name string) (string, error) {
	return "", tokenstore.ErrCookieNotFound
}

func (s *mockStore) storedPair() *api.TokenPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePair(s.pair)
}

func (s *mockStore) setExpired(expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = expired
}

/*
====================================
TIMER AND NAVIGATOR FAKES
====================================
*/

type fakeTimer struct {
	mu    sync.Mutex
	stops int
}

func (ft *fakeTimer) Stop() bool {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.stops++
	return ft.stops == 1
}

func (ft *fakeTimer) stopped() bool {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.stops > 0
}

// timerRecorder captures refresh timers instead of arming real ones.
// Tests fire the captured callbacks to simulate timer expiry.
type timerRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
	timers []*fakeTimer
}

func (r *timerRecorder) afterFunc(d time.Duration, fn func()) refreshTimer {
	r.mu.Lock()
	defer r.mu.Unlock()
	ft := &fakeTimer{}
	r.delays = append(r.delays, d)
	r.fns = append(r.fns, fn)
	r.timers = append(r.timers, ft)
	return ft
}

func (r *timerRecorder) armed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

func (r *timerRecorder) delay(i int) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delays[i]
}

func (r *timerRecorder) fire(i int) {
	r.mu.Lock()
	fn := r.fns[i]
	r.mu.Unlock()
	fn()
}

func (r *timerRecorder) timer(i int) *fakeTimer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timers[i]
}

type navRecorder struct {
	mu    sync.Mutex
	calls int
}

func (n *navRecorder) NavigateToLogin(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
}

func (n *navRecorder) navigations() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

/*
====================================
FIXTURES
====================================
*/

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func testUser() *api.User {
	return &api.User{
		ID:            "u1",
		Email:         "alice@example.com",
		FullName:      "Alice Doe",
		EmailVerified: true,
		IsActive:      true,
		Roles:         []string{"member"},
		Permissions:   []string{"user:read"},
	}
}

func testPair() *api.TokenPair {
	return &api.TokenPair{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
	}
}

func loginPayload(user *api.User, pair *api.TokenPair) *api.LoginData {
	data := &api.LoginData{User: user}
	if pair != nil {
		data.TokenPair = *pair
	}
	return data
}

func newTestManager(t *testing.T, client *mockClient, store *mockStore) (*Manager, *timerRecorder) {
	t.Helper()
	return newTestManagerWithConfig(t, testConfig(), client, store)
}

func newTestManagerWithConfig(t *testing.T, cfg Config, client *mockClient, store *mockStore) (*Manager, *timerRecorder) {
	t.Helper()

	m, err := New().
		WithConfig(cfg).
		WithAPIClient(client).
		WithTokenStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(m.Close)

	rec := &timerRecorder{}
	m.now = func() time.Time { return testNow }
	m.afterFunc = rec.afterFunc
	return m, rec
}

// newAuthedManager builds a manager and walks it through a successful
// login so tests can start from an authenticated state.
func newAuthedManager(t *testing.T) (*Manager, *mockClient, *mockStore, *timerRecorder) {
	t.Helper()

	client := &mockClient{
		loginData:   loginPayload(testUser(), testPair()),
		permissions: []string{"user:read", "admin:*"},
		roles:       []string{"admin", "member"},
	}
	store := &mockStore{}
	m, rec := newTestManager(t, client, store)

	ctx := WithDevice(WithClientIP(context.Background(), "198.51.100.7"), "laptop")
	if _, err := m.Login(ctx, Credentials{Email: "alice@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated manager")
	}
	return m, client, store, rec
}

func metricValue(m *Manager, id MetricID) uint64 {
	return m.metrics.Value(id)
}
