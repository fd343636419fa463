package compliance

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newConsentManager(t *testing.T, storage Storage) *ConsentManager {
	t.Helper()

	mgr := NewConsentManager(storage)
	mgr.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return mgr
}

func TestConsentInitializeEmptyWhenMissing(t *testing.T) {
	mgr := newConsentManager(t, NewMemoryStorage())

	if got := mgr.All(); len(got) != 0 {
		t.Fatalf("expected no records, got %v", got)
	}
	if _, ok := mgr.Consent(ConsentAnalytics); ok {
		t.Fatal("expected no analytics record")
	}
}

func TestConsentUpdateWritesThrough(t *testing.T) {
	storage := NewMemoryStorage()
	mgr := newConsentManager(t, storage)

	if err := mgr.UpdateConsent(context.Background(), ConsentAnalytics, true); err != nil {
		t.Fatalf("update consent: %v", err)
	}
	if err := mgr.UpdateConsent(context.Background(), ConsentMarketing, false); err != nil {
		t.Fatalf("update consent: %v", err)
	}

	rec, ok := mgr.Consent(ConsentAnalytics)
	if !ok || !rec.Granted {
		t.Fatalf("expected granted analytics record, got %+v ok=%v", rec, ok)
	}
	if rec.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt stamp")
	}

	// A fresh keeper over the same storage sees the persisted set.
	reloaded := newConsentManager(t, storage)
	all := reloaded.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 reloaded records, got %v", all)
	}
	if all[0].Type != ConsentAnalytics || all[1].Type != ConsentMarketing {
		t.Fatalf("expected sorted types, got %v", all)
	}
}

func TestConsentCorruptRecordResetsEmpty(t *testing.T) {
	storage := NewMemoryStorage()
	if err := storage.Write(context.Background(), consentStorageKey, []byte("{not json")); err != nil {
		t.Fatalf("seed storage: %v", err)
	}

	mgr := newConsentManager(t, storage)
	if got := mgr.All(); len(got) != 0 {
		t.Fatalf("expected empty set after corrupt load, got %v", got)
	}
}

func TestConsentUnknownTypesDroppedOnLoad(t *testing.T) {
	storage := NewMemoryStorage()
	seed := []byte(`[{"type":"analytics","granted":true},{"type":"ai_training","granted":true}]`)
	if err := storage.Write(context.Background(), consentStorageKey, seed); err != nil {
		t.Fatalf("seed storage: %v", err)
	}

	mgr := newConsentManager(t, storage)
	all := mgr.All()
	if len(all) != 1 || all[0].Type != ConsentAnalytics {
		t.Fatalf("expected only the known type, got %v", all)
	}
}

func TestConsentRequiresInitialize(t *testing.T) {
	mgr := NewConsentManager(NewMemoryStorage())

	if err := mgr.UpdateConsent(context.Background(), ConsentAnalytics, true); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := mgr.ClearAll(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestConsentClearAll(t *testing.T) {
	storage := NewMemoryStorage()
	mgr := newConsentManager(t, storage)

	if err := mgr.UpdateConsent(context.Background(), ConsentFunctional, true); err != nil {
		t.Fatalf("update consent: %v", err)
	}
	if err := mgr.ClearAll(context.Background()); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if got := mgr.All(); len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
	if _, err := storage.Read(context.Background(), consentStorageKey); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected storage record removed, got %v", err)
	}
}
