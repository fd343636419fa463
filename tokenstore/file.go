package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MrEthical07/goSession/api"
	"github.com/MrEthical07/goSession/internal"
)

const (
	fileMode     = 0o600
	fileSaltSize = 16

	fileKeyPurpose = "tokenstore/file"
)

// FileConfig controls a [File] store.
type FileConfig struct {
	// Path is the location of the encrypted token file.
	Path string

	// Secret is the caller-supplied encryption secret. It is stretched with
	// a per-write salt; losing it abandons the persisted session.
	Secret []byte

	// ExpirySkew widens the local expiry check. Zero is valid.
	ExpirySkew time.Duration
}

// File persists the token pair encrypted at rest. Writes go through a
// temporary file and rename so readers never observe a torn record.
type File struct {
	path   string
	secret []byte
	skew   time.Duration

	mu sync.Mutex
}

var _ Store = (*File)(nil)

// NewFile validates cfg and returns the store. The file itself is created on
// the first StoreAuthTokens call.
func NewFile(cfg FileConfig) (*File, error) {
	if cfg.Path == "" {
		return nil, errors.New("file path required")
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("file secret required")
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &File{
		path:   cfg.Path,
		secret: secret,
		skew:   cfg.ExpirySkew,
	}, nil
}

// StoreAuthTokens encrypts and atomically replaces the persisted pair.
func (f *File) StoreAuthTokens(_ context.Context, pair *api.TokenPair) error {
	record, err := Encode(pair, time.Now().UTC())
	if err != nil {
		return err
	}

	salt, err := internal.NewSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	key, err := internal.DeriveKey(f.secret, salt[:], fileKeyPurpose)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	sealed, err := internal.Seal(key, record)
	if err != nil {
		return fmt.Errorf("seal record: %w", err)
	}

	blob := append(salt[:], sealed...)

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".tokens-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// GetAuthTokens decrypts and returns the persisted pair, or [ErrNoTokens]
// when the file does not exist.
func (f *File) GetAuthTokens(_ context.Context) (*api.TokenPair, error) {
	f.mu.Lock()
	blob, err := os.ReadFile(f.path)
	f.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoTokens
		}
		return nil, err
	}

	if len(blob) <= fileSaltSize {
		return nil, ErrRecordCorrupt
	}
	key, err := internal.DeriveKey(f.secret, blob[:fileSaltSize], fileKeyPurpose)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	record, err := internal.Open(key, blob[fileSaltSize:])
	if err != nil {
		return nil, fmt.Errorf("open record: %w", err)
	}

	pair, _, err := Decode(record)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// ClearAuthTokens removes the token file. Idempotent.
func (f *File) ClearAuthTokens(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// HasAuthTokens reports whether a token file exists. It does not decrypt;
// corrupt files surface on GetAuthTokens.
func (f *File) HasAuthTokens(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsTokenExpired decodes the token's exp claim; see [TokenExpired].
func (f *File) IsTokenExpired(token string) bool {
	return TokenExpired(token, f.skew)
}

// GetCookie serves the persisted pair under the shared cookie names.
func (f *File) GetCookie(ctx context.Context, name string) (string, error) {
	pair, err := f.GetAuthTokens(ctx)
	if err != nil {
		if errors.Is(err, ErrNoTokens) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookieFromPair(pair, name)
}
