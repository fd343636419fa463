package internal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize  = 32
	saltSize = 16
)

var (
	ErrKeySize        = errors.New("derived key must be 32 bytes")
	ErrCiphertextSize = errors.New("ciphertext shorter than nonce")
)

// NewSalt returns a fresh random salt for key derivation.
func NewSalt() ([saltSize]byte, error) {
	var salt [saltSize]byte
	_, err := rand.Read(salt[:])
	return salt, err
}

// DeriveKey stretches a caller-supplied secret into a 32-byte AES key bound
// to the given salt and purpose label.
func DeriveKey(secret, salt []byte, purpose string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty secret")
	}

	h := hkdf.New(sha256.New, secret, salt, []byte(purpose))
	key := make([]byte, keySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Seal encrypts plaintext with AES-GCM under key. The nonce is prepended to
// the returned blob.
func Seal(key, plaintext []byte) ([]byte, error) {
	if len(key) != keySize {
		return nil, ErrKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return append(nonce, gcm.Seal(nil, nonce, plaintext, nil)...), nil
}

// Open reverses Seal. It fails on truncated blobs and on any authentication
// mismatch.
func Open(key, blob []byte) ([]byte, error) {
	if len(key) != keySize {
		return nil, ErrKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	ns := gcm.NonceSize()
	if len(blob) < ns {
		return nil, ErrCiphertextSize
	}
	return gcm.Open(nil, blob[:ns], blob[ns:], nil)
}
