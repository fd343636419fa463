package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSession/api"
)

const (
	defaultRedisPrefix = "gosession"
	defaultRedisTTL    = 30 * 24 * time.Hour
)

// ErrRedisUnavailable wraps round-trip failures against the Redis backend.
var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisConfig controls a [Redis] store.
type RedisConfig struct {
	// Client is the shared go-redis client. Required.
	Client redis.UniversalClient

	// KeyPrefix namespaces the store; one prefix holds one session. Daemons
	// for different accounts pass distinct prefixes.
	KeyPrefix string

	// TTL bounds how long an untouched record survives. It should cover the
	// backend's refresh-token lifetime; zero selects 30 days.
	TTL time.Duration

	// ExpirySkew widens the local expiry check. Zero is valid.
	ExpirySkew time.Duration
}

// Redis persists the token pair in Redis so a fleet of processes can share
// one session. Records ride the versioned binary codec.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	skew   time.Duration
}

var _ Store = (*Redis)(nil)

// NewRedis validates cfg and returns the store.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client required")
	}
	if cfg.TTL < 0 {
		return nil, errors.New("ttl must not be negative")
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultRedisTTL
	}

	return &Redis{
		client: cfg.Client,
		key:    prefix + ":tokens",
		ttl:    ttl,
		skew:   cfg.ExpirySkew,
	}, nil
}

// StoreAuthTokens encodes and replaces the persisted pair, resetting the TTL.
func (r *Redis) StoreAuthTokens(ctx context.Context, pair *api.TokenPair) error {
	record, err := Encode(pair, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, record, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// GetAuthTokens decodes the persisted pair, or returns [ErrNoTokens].
func (r *Redis) GetAuthTokens(ctx context.Context) (*api.TokenPair, error) {
	record, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoTokens
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	pair, _, err := Decode(record)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// ClearAuthTokens deletes the record. Idempotent.
func (r *Redis) ClearAuthTokens(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// HasAuthTokens reports whether a record exists.
func (r *Redis) HasAuthTokens(ctx context.Context) (bool, error) {
	n, err := r.client.Exists(ctx, r.key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// IsTokenExpired decodes the token's exp claim; see [TokenExpired].
func (r *Redis) IsTokenExpired(token string) bool {
	return TokenExpired(token, r.skew)
}

// GetCookie serves the persisted pair under the shared cookie names.
func (r *Redis) GetCookie(ctx context.Context, name string) (string, error) {
	pair, err := r.GetAuthTokens(ctx)
	if err != nil {
		if errors.Is(err, ErrNoTokens) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookieFromPair(pair, name)
}
