package compliance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MrEthical07/goSession/internal"
)

// ErrRecordNotFound is an exported constant or variable used by the session manager.
var ErrRecordNotFound = errors.New("compliance record not found")

// ErrNotInitialized is an exported constant or variable used by the session manager.
var ErrNotInitialized = errors.New("compliance manager not initialized")

// Storage persists one opaque record set per key. Keepers own the keys; a
// storage implementation never interprets the payload.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

/*
====================================
MEMORY STORAGE
====================================
*/

// MemoryStorage is an in-process [Storage] for tests and ephemeral apps.
type MemoryStorage struct {
	mu      sync.Mutex
	records map[string][]byte
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string][]byte)}
}

// Read returns the stored record for key, or [ErrRecordNotFound].
func (m *MemoryStorage) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write stores a copy of data under key.
func (m *MemoryStorage) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := make([]byte, len(data))
	copy(record, data)
	m.records[key] = record
	return nil
}

// Delete removes the record for key. Idempotent.
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	return nil
}

/*
====================================
FILE STORAGE
====================================
*/

const (
	storageFileMode = 0o600
	storageSaltSize = 16

	storageKeyPurpose = "compliance/file"
)

// FileStorage keeps each record set encrypted at rest in its own file under
// a directory. Writes go through a temporary file and rename so readers never
// observe a torn record.
type FileStorage struct {
	dir    string
	secret []byte

	mu sync.Mutex
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage validates the directory and secret and returns the storage.
// Record files are created on first Write.
func NewFileStorage(dir string, secret []byte) (*FileStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory required")
	}
	if len(secret) == 0 {
		return nil, errors.New("storage secret required")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &FileStorage{dir: dir, secret: key}, nil
}

// Read decrypts and returns the record set for key, or [ErrRecordNotFound]
// when no file exists.
func (f *FileStorage) Read(_ context.Context, key string) ([]byte, error) {
	path, err := f.recordPath(key)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	blob, err := os.ReadFile(path)
	f.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if len(blob) <= storageSaltSize {
		return nil, fmt.Errorf("record %s truncated", key)
	}
	derived, err := internal.DeriveKey(f.secret, blob[:storageSaltSize], storageKeyPurpose)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	record, err := internal.Open(derived, blob[storageSaltSize:])
	if err != nil {
		return nil, fmt.Errorf("open record %s: %w", key, err)
	}
	return record, nil
}

// Write encrypts data and atomically replaces the record file for key.
func (f *FileStorage) Write(_ context.Context, key string, data []byte) error {
	path, err := f.recordPath(key)
	if err != nil {
		return err
	}

	salt, err := internal.NewSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	derived, err := internal.DeriveKey(f.secret, salt[:], storageKeyPurpose)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	sealed, err := internal.Seal(derived, data)
	if err != nil {
		return fmt.Errorf("seal record %s: %w", key, err)
	}

	blob := append(salt[:], sealed...)

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".compliance-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(storageFileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Delete removes the record file for key. Idempotent.
func (f *FileStorage) Delete(_ context.Context, key string) error {
	path, err := f.recordPath(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileStorage) recordPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\.`) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(f.dir, key+".rec"), nil
}
