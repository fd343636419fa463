package compliance

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const exportStorageKey = "exports"

// ExportManager keeps user data export requests.
//
//	Docs: docs/compliance.md
type ExportManager struct {
	storage Storage

	mu       sync.Mutex
	loaded   bool
	requests []ExportRequest

	now func() time.Time
}

// NewExportManager creates an export keeper over the given storage.
func NewExportManager(storage Storage) *ExportManager {
	return &ExportManager{
		storage: storage,
		now:     time.Now,
	}
}

// Initialize loads the persisted export requests. A missing or unparseable
// record set starts empty. Requests whose status decoded to [ExportUnknown]
// are kept as-is; the status enum carries the fallback. Idempotent.
func (e *ExportManager) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return nil
	}

	data, err := e.storage.Read(ctx, exportStorageKey)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			e.loaded = true
			return nil
		}
		return err
	}

	var persisted []ExportRequest
	if err := json.Unmarshal(data, &persisted); err != nil {
		e.loaded = true
		return nil
	}
	e.requests = persisted
	e.loaded = true
	return nil
}

// RequestExport records a new pending export request for a user and returns it.
//
// RequestExport may return an error when input validation, dependency calls, or security checks fail.
// RequestExport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *ExportManager) RequestExport(ctx context.Context, userID string) (ExportRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ExportRequest{}, ErrNotInitialized
	}
	if userID == "" {
		return ExportRequest{}, errors.New("user id required")
	}

	req := ExportRequest{
		ID:          uuid.NewString(),
		UserID:      userID,
		Status:      ExportPending,
		RequestedAt: e.now().UTC(),
	}
	e.requests = append(e.requests, req)
	if err := e.persistLocked(ctx); err != nil {
		return ExportRequest{}, err
	}
	return req, nil
}

// Status returns the recorded status of an export request.
func (e *ExportManager) Status(id string) (ExportStatus, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.requests {
		if e.requests[i].ID == id {
			return e.requests[i].Status, true
		}
	}
	return "", false
}

// UpdateStatus records a status transition reported by the backend. A ready or
// failed transition stamps CompletedAt; a non-empty downloadURL is stored.
//
// UpdateStatus may return an error when input validation, dependency calls, or security checks fail.
// UpdateStatus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *ExportManager) UpdateStatus(ctx context.Context, id string, status ExportStatus, downloadURL string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotInitialized
	}
	if status == "" || status == ExportUnknown {
		return errors.New("export status required")
	}

	for i := range e.requests {
		if e.requests[i].ID != id {
			continue
		}
		e.requests[i].Status = status
		if downloadURL != "" {
			e.requests[i].DownloadURL = downloadURL
		}
		if status == ExportReady || status == ExportFailed {
			completed := e.now().UTC()
			e.requests[i].CompletedAt = &completed
		}
		return e.persistLocked(ctx)
	}
	return ErrRecordNotFound
}

// List returns the recorded export requests in request order.
func (e *ExportManager) List() []ExportRequest {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]ExportRequest, len(e.requests))
	copy(out, e.requests)
	return out
}

// Clear removes every export request, in memory and in storage.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *ExportManager) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotInitialized
	}

	e.requests = nil
	return e.storage.Delete(ctx, exportStorageKey)
}

func (e *ExportManager) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(e.requests)
	if err != nil {
		return err
	}
	return e.storage.Write(ctx, exportStorageKey, data)
}
