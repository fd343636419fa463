package goSession

import (
	"errors"
	"time"

	"github.com/MrEthical07/goSession/api"
)

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     api.Config
	Refresh RefreshConfig
	Token   TokenConfig
	History HistoryConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig defines a public type used by goSession APIs.
//
// RefreshConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshConfig struct {
	// Lead is subtracted from the access token lifetime when scheduling
	// the background refresh, so the refresh lands before expiry.
	Lead time.Duration

	// MinDelay is the floor for the scheduled refresh delay. Tokens
	// whose remaining lifetime is shorter than Lead still wait MinDelay
	// before refreshing.
	MinDelay time.Duration

	// DisableAutoRefresh turns the background refresh timer off.
	// RefreshToken remains available for manual calls.
	DisableAutoRefresh bool
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by goSession APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	// ExpirySkew widens the local expiry check: a token is treated as
	// expired ExpirySkew before its exp claim.
	ExpirySkew time.Duration
}

/*
====================================
HISTORY CONFIG
====================================
*/

// HistoryConfig defines a public type used by goSession APIs.
//
// HistoryConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistoryConfig struct {
	ErrorCapacity   int
	SessionCapacity int
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goSession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goSession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration: hour-scale token
// lifetimes refreshed five minutes early, ten-entry histories, and audit
// and metrics collection off.
//
//	Docs: docs/config.md
func DefaultConfig() Config {
	return Config{
		API: api.Config{
			Timeout: api.DefaultTimeout,
		},
		Refresh: RefreshConfig{
			Lead:     5 * time.Minute,
			MinDelay: 10 * time.Second,
		},
		Token: TokenConfig{
			ExpirySkew: 30 * time.Second,
		},
		History: HistoryConfig{
			ErrorCapacity:   10,
			SessionCapacity: 10,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Refresh
	if c.Refresh.Lead <= 0 {
		return errors.New("Refresh Lead must be > 0")
	}
	if c.Refresh.MinDelay <= 0 {
		return errors.New("Refresh MinDelay must be > 0")
	}
	if c.Refresh.MinDelay > c.Refresh.Lead {
		return errors.New("Refresh MinDelay must be <= Refresh Lead")
	}

	// Token
	if c.Token.ExpirySkew < 0 {
		return errors.New("Token ExpirySkew must be >= 0")
	}

	// History
	if c.History.ErrorCapacity <= 0 {
		return errors.New("History ErrorCapacity must be > 0")
	}
	if c.History.SessionCapacity <= 0 {
		return errors.New("History SessionCapacity must be > 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}
