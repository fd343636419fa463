package goSession

import (
	"errors"
	"time"

	"github.com/MrEthical07/goSession/api"
	"github.com/MrEthical07/goSession/tokenstore"
)

// Builder defines a public type used by goSession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	client    api.Client
	tokens    tokenstore.Store
	navigator Navigator
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithAPIClient describes the withapiclient operation and its observable behavior.
//
// WithAPIClient may return an error when input validation, dependency calls, or security checks fail.
// WithAPIClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAPIClient(client api.Client) *Builder {
	b.client = client
	return b
}

// WithTokenStore describes the withtokenstore operation and its observable behavior.
//
// WithTokenStore may return an error when input validation, dependency calls, or security checks fail.
// WithTokenStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTokenStore(store tokenstore.Store) *Builder {
	b.tokens = store
	return b
}

// WithNavigator describes the withnavigator operation and its observable behavior.
//
// WithNavigator may return an error when input validation, dependency calls, or security checks fail.
// WithNavigator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.tokens == nil {
		return nil, ErrNilTokenStore
	}

	m := &Manager{
		config:    cfg,
		tokens:    b.tokens,
		navigator: b.navigator,
		state:     StateUninitialized,
		now:       time.Now,
		afterFunc: stdAfterFunc,
	}

	client := b.client
	if client == nil {
		if cfg.API.BaseURL == "" {
			return nil, ErrNilAPIClient
		}
		httpClient, err := api.NewHTTPClient(cfg.API)
		if err != nil {
			return nil, err
		}
		// The manager backs its own client's bearer header.
		httpClient.SetTokenSource(m)
		client = httpClient
	}
	m.client = client

	m.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	m.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return m, nil
}
