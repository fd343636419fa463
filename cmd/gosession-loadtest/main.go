package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/api"
	"github.com/MrEthical07/goSession/tokenstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type sessionState struct {
	manager *goSession.Manager
	mu      sync.Mutex
}

func main() {
	var (
		sessions    = flag.Int("sessions", 1000, "number of client sessions to seed")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 20000, "operations per phase (check + refresh)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gs", "token store key prefix")
	)
	flag.Parse()

	if *sessions <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	backend := newLoadBackend()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen: %v\n", err)
		os.Exit(1)
	}
	server := &http.Server{Handler: backend.routes()}
	go func() { _ = server.Serve(listener) }()
	defer server.Close()
	baseURL := "http://" + listener.Addr().String()
	fmt.Printf("stub backend at %s\n", baseURL)

	states := make([]sessionState, *sessions)
	fmt.Printf("seeding %d sessions...\n", *sessions)
	startSeed := time.Now()
	for i := 0; i < *sessions; i++ {
		manager, err := buildManager(baseURL, client, fmt.Sprintf("%s:%d", *prefix, i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "manager build failed: %v\n", err)
			os.Exit(1)
		}
		email := fmt.Sprintf("load-%d@test", i)
		if _, err := manager.Login(ctx, goSession.Credentials{Email: email, Password: "load"}); err != nil {
			fmt.Fprintf(os.Stderr, "seed login failed: %v\n", err)
			os.Exit(1)
		}
		states[i].manager = manager
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))
	defer func() {
		for i := range states {
			states[i].manager.Close()
		}
	}()

	checkStats := runCheckPhase(ctx, states, *ops, *concurrency)
	refreshStats := runRefreshPhase(ctx, states, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("check", checkStats)
	printStats("refresh", refreshStats)
}

func buildManager(baseURL string, client redis.UniversalClient, prefix string) (*goSession.Manager, error) {
	store, err := tokenstore.NewRedis(tokenstore.RedisConfig{
		Client:    client,
		KeyPrefix: prefix,
		TTL:       24 * time.Hour,
	})
	if err != nil {
		return nil, err
	}

	cfg := goSession.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.Refresh.DisableAutoRefresh = true

	return goSession.New().
		WithConfig(cfg).
		WithTokenStore(store).
		Build()
}

func runCheckPhase(ctx context.Context, states []sessionState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				t0 := time.Now()
				ok := states[idx].manager.CheckSession(ctx)
				d := time.Since(t0)
				if !ok {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runRefreshPhase(ctx context.Context, states []sessionState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				state := &states[idx]

				state.mu.Lock()
				t0 := time.Now()
				ok, err := state.manager.RefreshToken(ctx)
				d := time.Since(t0)
				state.mu.Unlock()
				if err != nil || !ok {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

// ---------------------------------------------------------------------------
// Stub backend — accepts any credentials with password "load".
// ---------------------------------------------------------------------------

type loadBackend struct {
	mu       sync.Mutex
	sessions map[string]string // refresh token -> email
	secret   []byte
}

func newLoadBackend() *loadBackend {
	return &loadBackend{
		sessions: make(map[string]string),
		secret:   []byte("loadtest-signing-secret"),
	}
}

func (b *loadBackend) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", b.login)
	mux.HandleFunc("POST /api/v1/auth/refresh", b.refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", b.ack)
	mux.HandleFunc("GET /api/v1/auth/permissions", b.permissions)
	mux.HandleFunc("GET /api/v1/auth/roles", b.roles)
	return mux
}

func (b *loadBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "load" {
		writeError(w, http.StatusUnauthorized, api.CodeInvalidCredentials, "invalid credentials")
		return
	}

	pair := b.issuePair(creds.Email)
	data, _ := json.Marshal(api.LoginData{
		TokenPair: pair,
		User:      &api.User{ID: creds.Email, Email: creds.Email, IsActive: true},
	})
	writeJSON(w, http.StatusOK, api.Envelope{Success: true, Data: data})
}

func (b *loadBackend) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, api.CodeValidationError, "refresh token required")
		return
	}

	b.mu.Lock()
	email, ok := b.sessions[body.RefreshToken]
	if ok {
		delete(b.sessions, body.RefreshToken)
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, api.CodeTokenExpired, "refresh token expired or revoked")
		return
	}

	pair := b.issuePair(email)
	data, _ := json.Marshal(api.TokenData{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	})
	writeJSON(w, http.StatusOK, api.Envelope{Success: true, Data: data})
}

func (b *loadBackend) ack(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.Envelope{Success: true})
}

func (b *loadBackend) permissions(w http.ResponseWriter, _ *http.Request) {
	data, _ := json.Marshal([]string{"user:read", "user:write"})
	writeJSON(w, http.StatusOK, api.Envelope{Success: true, Data: data})
}

func (b *loadBackend) roles(w http.ResponseWriter, _ *http.Request) {
	data, _ := json.Marshal([]string{"member"})
	writeJSON(w, http.StatusOK, api.Envelope{Success: true, Data: data})
}

func (b *loadBackend) issuePair(email string) api.TokenPair {
	const lifetime = time.Hour

	claims := jwt.MapClaims{
		"sub": email,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(lifetime).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(err)
	}

	refresh := uuid.NewString()
	b.mu.Lock()
	b.sessions[refresh] = email
	b.mu.Unlock()

	return api.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(lifetime.Seconds()),
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.Envelope{
		Success: false,
		Error:   &api.APIError{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
