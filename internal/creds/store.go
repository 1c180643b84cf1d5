// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package creds

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/veritas-tui/internal/util"
)

// Storage layout constants.
const (
	// TokenKey is the fixed storage key for the auth token. The stored
	// value is the JSON-encoded token string, matching what the backend's
	// web client writes.
	TokenKey = "auth-token"

	// deviceKeyFile holds the per-device secret the storage key is
	// derived from.
	deviceKeyFile = "device.key"

	// secretSize is the random device secret length.
	secretSize = 32

	// saltSize is the derivation salt length.
	saltSize = 16

	// kdfIterations is the PBKDF2-SHA-256 iteration count.
	kdfIterations = 600000
)

// Error variables for credential storage.
var (
	// ErrNoToken indicates no token is stored.
	ErrNoToken = errors.New("no stored credentials")

	// ErrCorrupted indicates the stored token failed authentication,
	// meaning tampering or a key change. The caller should clear and
	// re-login.
	ErrCorrupted = errors.New("stored credentials are corrupted")
)

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// Store persists the auth token encrypted at rest under the config
// directory. The encryption key is derived from a random per-device
// secret, so tokens cannot be lifted by copying the token file alone.
type Store struct {
	dir string
}

// NewStore creates a credential store rooted at dir (normally ~/.veritas).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// SaveToken encrypts and stores the token under the fixed storage key.
func (s *Store) SaveToken(token string) error {
	if token == "" {
		return errors.New("empty token")
	}

	key, err := s.loadOrCreateKey()
	if err != nil {
		return err
	}
	defer zero(key)

	plaintext, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, plaintext, nil)

	if err := util.AtomicWriteFileWithDir(s.tokenPath(), sealed, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Token returns the stored token, or ErrNoToken when none exists.
func (s *Store) Token() (string, error) {
	sealed, err := os.ReadFile(s.tokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	key, err := s.loadOrCreateKey()
	if err != nil {
		return "", err
	}
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return "", ErrCorrupted
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrCorrupted
	}

	var token string
	if err := json.Unmarshal(plaintext, &token); err != nil {
		return "", ErrCorrupted
	}
	return token, nil
}

// HasToken reports whether a token file exists without decrypting it.
func (s *Store) HasToken() bool {
	_, err := os.Stat(s.tokenPath())
	return err == nil
}

// Clear removes the stored token. Missing files are not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.tokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.dir, TokenKey)
}

// =============================================================================
// KEY MANAGEMENT
// =============================================================================

// loadOrCreateKey derives the storage key from the device secret,
// generating the secret on first use.
func (s *Store) loadOrCreateKey() ([]byte, error) {
	path := filepath.Join(s.dir, deviceKeyFile)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw = make([]byte, secretSize+saltSize)
		if _, err := io.ReadFull(rand.Reader, raw); err != nil {
			return nil, fmt.Errorf("failed to generate device secret: %w", err)
		}
		if err := util.AtomicWriteFileWithDir(path, raw, 0600, 0700); err != nil {
			return nil, fmt.Errorf("failed to store device secret: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read device secret: %w", err)
	}

	if len(raw) != secretSize+saltSize {
		return nil, ErrCorrupted
	}
	secret, salt := raw[:secretSize], raw[secretSize:]
	return pbkdf2.Key(secret, salt, kdfIterations, chacha20poly1305.KeySize, sha256.New), nil
}

// zero wipes key material.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
