package compliance

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"
)

const consentStorageKey = "consents"

// ConsentManager keeps per-category consent grants.
//
//	Docs: docs/compliance.md
type ConsentManager struct {
	storage Storage

	mu      sync.Mutex
	loaded  bool
	records map[ConsentType]ConsentRecord

	now func() time.Time
}

// NewConsentManager creates a consent keeper over the given storage.
func NewConsentManager(storage Storage) *ConsentManager {
	return &ConsentManager{
		storage: storage,
		records: make(map[ConsentType]ConsentRecord),
		now:     time.Now,
	}
}

// Initialize loads the persisted consents. A missing or unparseable record
// set starts empty; records whose type decoded to [ConsentUnknown] are
// dropped. Idempotent.
func (c *ConsentManager) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	data, err := c.storage.Read(ctx, consentStorageKey)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			c.loaded = true
			return nil
		}
		return err
	}

	var persisted []ConsentRecord
	if err := json.Unmarshal(data, &persisted); err != nil {
		// Corrupt record sets reset to empty rather than blocking startup.
		c.loaded = true
		return nil
	}
	for _, rec := range persisted {
		if rec.Type == ConsentUnknown || rec.Type == "" {
			continue
		}
		c.records[rec.Type] = rec
	}
	c.loaded = true
	return nil
}

// Consent returns the recorded grant for a consent type.
func (c *ConsentManager) Consent(consentType ConsentType) (ConsentRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[consentType]
	return rec, ok
}

// UpdateConsent records a grant decision and writes the record set through.
//
// UpdateConsent may return an error when input validation, dependency calls, or security checks fail.
// UpdateConsent does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *ConsentManager) UpdateConsent(ctx context.Context, consentType ConsentType, granted bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return ErrNotInitialized
	}
	if consentType == "" || consentType == ConsentUnknown {
		return errors.New("consent type required")
	}

	rec := ConsentRecord{
		Type:      consentType,
		Granted:   granted,
		Version:   c.records[consentType].Version,
		UpdatedAt: c.now().UTC(),
	}
	c.records[consentType] = rec
	return c.persistLocked(ctx)
}

// All returns the recorded consents sorted by type.
func (c *ConsentManager) All() []ConsentRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allLocked()
}

// ClearAll removes every consent record, in memory and in storage.
//
// ClearAll may return an error when input validation, dependency calls, or security checks fail.
// ClearAll does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *ConsentManager) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return ErrNotInitialized
	}

	c.records = make(map[ConsentType]ConsentRecord)
	return c.storage.Delete(ctx, consentStorageKey)
}

func (c *ConsentManager) allLocked() []ConsentRecord {
	out := make([]ConsentRecord, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func (c *ConsentManager) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(c.allLocked())
	if err != nil {
		return err
	}
	return c.storage.Write(ctx, consentStorageKey, data)
}
