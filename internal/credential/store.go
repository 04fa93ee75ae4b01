// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/morganforge/docchat-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// tokenFileName is the sealed token file under the config directory.
	tokenFileName = "credentials"

	// keyFileName is the machine-local master key file.
	keyFileName = "master.key"

	// sealedPrefix marks a sealed value (format: ENC:base64(salt|nonce|ciphertext)).
	sealedPrefix = "ENC:"
)

// ErrSealFailed indicates the token could not be sealed or unsealed.
var ErrSealFailed = errors.New("credential seal/unseal failed")

// =============================================================================
// STORE
// =============================================================================

// Store holds the access token: an in-memory snapshot guarded by a mutex,
// backed by a sealed file that survives restarts.
//
// Set is visible to every reader in the process immediately; persistence is
// best-effort on top of that. Get never errors - a credential that cannot be
// read or unsealed is simply absent.
type Store struct {
	mu        sync.Mutex
	token     string
	hasToken  bool
	tokenPath string
	keyPath   string
}

// NewStore creates a store rooted at the default config directory
// (~/.docchat). Any existing sealed token is loaded eagerly so the first
// Get reflects the persisted state.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	return NewStoreWithDir(filepath.Join(home, ".docchat"))
}

// NewStoreWithDir creates a store rooted at a custom directory.
func NewStoreWithDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}

	s := &Store{
		tokenPath: filepath.Join(dir, tokenFileName),
		keyPath:   filepath.Join(dir, keyFileName),
	}
	s.loadFromDisk()
	return s, nil
}

// Set persists the token. The in-memory snapshot is updated before the disk
// write so concurrent readers observe the new value immediately.
func (s *Store) Set(token string) error {
	s.mu.Lock()
	s.token = token
	s.hasToken = true
	s.mu.Unlock()

	sealed, err := s.seal(token)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(s.tokenPath, []byte(sealed), 0600); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	return nil
}

// Get returns the stored token. It never errors; absence is the second
// return value.
func (s *Store) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasToken {
		return "", false
	}
	return s.token, true
}

// Clear removes the token. Idempotent: clearing an empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.hasToken = false
	s.mu.Unlock()

	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}

// =============================================================================
// DISK STATE
// =============================================================================

// loadFromDisk restores the sealed token, if any. Unreadable or corrupted
// state is treated as an absent credential, never as a fatal error.
func (s *Store) loadFromDisk() {
	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return
	}

	token, err := s.unseal(strings.TrimSpace(string(data)))
	if err != nil {
		// Corrupted or sealed with a lost key: drop it.
		os.Remove(s.tokenPath)
		return
	}

	s.mu.Lock()
	s.token = token
	s.hasToken = true
	s.mu.Unlock()
}

// seal encrypts the token with the master key.
func (s *Store) seal(token string) (string, error) {
	key, err := s.masterKey(true)
	if err != nil {
		return "", err
	}
	defer zeroBytes(key)

	sealed, err := sealValue(key, []byte(token))
	if err != nil {
		return "", err
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// unseal decrypts a sealed token string.
func (s *Store) unseal(sealed string) (string, error) {
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return "", ErrSealFailed
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSealFailed, err)
	}

	key, err := s.masterKey(false)
	if err != nil {
		return "", err
	}
	defer zeroBytes(key)

	plain, err := unsealValue(key, raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
