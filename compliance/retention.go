package compliance

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"
)

const retentionStorageKey = "retention"

type retentionState struct {
	Policies  []RetentionPolicy `json:"policies"`
	Deletions []DeletionRequest `json:"deletions"`
}

// RetentionManager keeps retention policies and scheduled deletion requests.
//
//	Docs: docs/compliance.md
type RetentionManager struct {
	storage Storage

	mu        sync.Mutex
	loaded    bool
	policies  map[RetentionCategory]RetentionPolicy
	deletions []DeletionRequest

	now func() time.Time
}

// NewRetentionManager creates a retention keeper over the given storage.
func NewRetentionManager(storage Storage) *RetentionManager {
	return &RetentionManager{
		storage:  storage,
		policies: make(map[RetentionCategory]RetentionPolicy),
		now:      time.Now,
	}
}

// Initialize loads the persisted policies and deletion requests. A missing or
// unparseable record set starts empty; entries whose category decoded to
// [RetentionUnknown] are dropped. Idempotent.
func (r *RetentionManager) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}

	data, err := r.storage.Read(ctx, retentionStorageKey)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			r.loaded = true
			return nil
		}
		return err
	}

	var persisted retentionState
	if err := json.Unmarshal(data, &persisted); err != nil {
		r.loaded = true
		return nil
	}
	for _, policy := range persisted.Policies {
		if policy.Category == RetentionUnknown || policy.Category == "" {
			continue
		}
		r.policies[policy.Category] = policy
	}
	for _, del := range persisted.Deletions {
		if del.Category == RetentionUnknown || del.Category == "" {
			continue
		}
		r.deletions = append(r.deletions, del)
	}
	r.loaded = true
	return nil
}

// Policy returns the recorded policy for a category.
func (r *RetentionManager) Policy(category RetentionCategory) (RetentionPolicy, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	policy, ok := r.policies[category]
	return policy, ok
}

// UpdatePolicy records a retention policy and writes the record set through.
//
// UpdatePolicy may return an error when input validation, dependency calls, or security checks fail.
// UpdatePolicy does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *RetentionManager) UpdatePolicy(ctx context.Context, policy RetentionPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return ErrNotInitialized
	}
	if policy.Category == "" || policy.Category == RetentionUnknown {
		return errors.New("retention category required")
	}
	if policy.Days <= 0 {
		return errors.New("retention days must be > 0")
	}

	policy.UpdatedAt = r.now().UTC()
	r.policies[policy.Category] = policy
	return r.persistLocked(ctx)
}

// ScheduleDeletion records a deletion request for a category.
//
// ScheduleDeletion may return an error when input validation, dependency calls, or security checks fail.
// ScheduleDeletion does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *RetentionManager) ScheduleDeletion(ctx context.Context, category RetentionCategory, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return ErrNotInitialized
	}
	if category == "" || category == RetentionUnknown {
		return errors.New("retention category required")
	}

	r.deletions = append(r.deletions, DeletionRequest{
		Category:     category,
		RequestedAt:  r.now().UTC(),
		ScheduledFor: at.UTC(),
	})
	return r.persistLocked(ctx)
}

// Pending returns the recorded deletion requests in request order.
func (r *RetentionManager) Pending() []DeletionRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]DeletionRequest, len(r.deletions))
	copy(out, r.deletions)
	return out
}

func (r *RetentionManager) persistLocked(ctx context.Context) error {
	state := retentionState{
		Policies:  make([]RetentionPolicy, 0, len(r.policies)),
		Deletions: r.deletions,
	}
	for _, policy := range r.policies {
		state.Policies = append(state.Policies, policy)
	}
	sort.Slice(state.Policies, func(i, j int) bool { return state.Policies[i].Category < state.Policies[j].Category })

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.storage.Write(ctx, retentionStorageKey, data)
}
