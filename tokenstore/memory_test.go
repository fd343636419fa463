package tokenstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/api"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(0)

	if _, err := store.GetAuthTokens(ctx); !errors.Is(err, ErrNoTokens) {
		t.Fatalf("expected ErrNoTokens, got %v", err)
	}
	if has, _ := store.HasAuthTokens(ctx); has {
		t.Fatal("expected no tokens")
	}

	pair := &api.TokenPair{AccessToken: "AT", RefreshToken: "RT", TokenType: "bearer", ExpiresIn: 3600}
	if err := store.StoreAuthTokens(ctx, pair); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := store.GetAuthTokens(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *pair {
		t.Fatalf("expected %+v, got %+v", pair, got)
	}

	// Mutating the returned copy must not leak into the store.
	got.AccessToken = "mutated"
	again, _ := store.GetAuthTokens(ctx)
	if again.AccessToken != "AT" {
		t.Fatal("store returned a shared pointer")
	}

	if err := store.ClearAuthTokens(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if has, _ := store.HasAuthTokens(ctx); has {
		t.Fatal("expected cleared store")
	}
	if err := store.ClearAuthTokens(ctx); err != nil {
		t.Fatalf("second clear must stay nil, got %v", err)
	}
}

func TestMemoryCookies(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(0)

	if _, err := store.GetCookie(ctx, AccessTokenCookie); !errors.Is(err, ErrCookieNotFound) {
		t.Fatalf("expected ErrCookieNotFound, got %v", err)
	}

	pair := &api.TokenPair{AccessToken: "AT", RefreshToken: "RT"}
	if err := store.StoreAuthTokens(ctx, pair); err != nil {
		t.Fatalf("store: %v", err)
	}

	if got, err := store.GetCookie(ctx, AccessTokenCookie); err != nil || got != "AT" {
		t.Fatalf("access cookie: %q, %v", got, err)
	}
	if got, err := store.GetCookie(ctx, RefreshTokenCookie); err != nil || got != "RT" {
		t.Fatalf("refresh cookie: %q, %v", got, err)
	}

	store.SetCookie(CSRFTokenCookie, "csrf-1")
	if got, err := store.GetCookie(ctx, CSRFTokenCookie); err != nil || got != "csrf-1" {
		t.Fatalf("csrf cookie: %q, %v", got, err)
	}

	if err := store.ClearAuthTokens(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.GetCookie(ctx, CSRFTokenCookie); !errors.Is(err, ErrCookieNotFound) {
		t.Fatal("clear must drop seeded cookies")
	}
}

func TestMemoryExpiryUsesSkew(t *testing.T) {
	store := NewMemory(10 * time.Minute)

	token := expiringToken(t, time.Now().Add(5*time.Minute))
	if !store.IsTokenExpired(token) {
		t.Fatal("token within skew must count as expired")
	}

	noSkew := NewMemory(0)
	if noSkew.IsTokenExpired(token) {
		t.Fatal("token should still be fresh without skew")
	}
}
