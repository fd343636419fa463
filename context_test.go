package goSession

import (
	"context"
	"testing"
)

func TestContextValueRoundTrips(t *testing.T) {
	ctx := context.Background()
	ctx = WithClientIP(ctx, "203.0.113.9")
	ctx = WithDevice(ctx, "phone")
	ctx = WithLocation(ctx, "berlin")

	if got := clientIPFromContext(ctx); got != "203.0.113.9" {
		t.Fatalf("expected IP, got %q", got)
	}
	if got := deviceFromContext(ctx); got != "phone" {
		t.Fatalf("expected device, got %q", got)
	}
	if got := locationFromContext(ctx); got != "berlin" {
		t.Fatalf("expected location, got %q", got)
	}
}

func TestContextValuesAbsent(t *testing.T) {
	ctx := context.Background()

	if got := clientIPFromContext(ctx); got != "" {
		t.Fatalf("expected empty IP, got %q", got)
	}
	if got := deviceFromContext(ctx); got != "" {
		t.Fatalf("expected empty device, got %q", got)
	}
	if got := locationFromContext(ctx); got != "" {
		t.Fatalf("expected empty location, got %q", got)
	}
}

func TestContextNilSafe(t *testing.T) {
	if got := clientIPFromContext(nil); got != "" {
		t.Fatalf("expected empty IP from nil context, got %q", got)
	}
	if got := deviceFromContext(nil); got != "" {
		t.Fatalf("expected empty device from nil context, got %q", got)
	}
	if got := locationFromContext(nil); got != "" {
		t.Fatalf("expected empty location from nil context, got %q", got)
	}
}
