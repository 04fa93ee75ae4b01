// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/pbkdf2"

	"github.com/morganforge/docchat-tui/internal/util"
)

// =============================================================================
// SEALING PRIMITIVES
// =============================================================================

const (
	// keySize is the AES-256 key size (32 bytes).
	keySize = 32

	// nonceSize is the AES-GCM nonce size (12 bytes / 96 bits).
	nonceSize = 12

	// saltSize is the per-value salt for key derivation.
	saltSize = 16

	// pbkdf2Iterations follows OWASP guidance for PBKDF2-SHA-256.
	pbkdf2Iterations = 600000
)

// sealValue encrypts plaintext with a key derived from the master key.
// Output layout: salt | nonce | ciphertext+tag.
func sealValue(masterKey, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSealFailed, err)
	}

	aead, err := newAEAD(masterKey, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSealFailed, err)
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// unsealValue reverses sealValue.
func unsealValue(masterKey, sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize+nonceSize {
		return nil, ErrSealFailed
	}

	salt := sealed[:saltSize]
	nonce := sealed[saltSize : saltSize+nonceSize]
	ciphertext := sealed[saltSize+nonceSize:]

	aead, err := newAEAD(masterKey, salt)
	if err != nil {
		return nil, err
	}

	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Wrong key or tampered data: authentication tag mismatch.
		return nil, ErrSealFailed
	}
	return plain, nil
}

// newAEAD derives an AES-256-GCM cipher from the master key and salt.
func newAEAD(masterKey, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(masterKey, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSealFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSealFailed, err)
	}
	return aead, nil
}

// =============================================================================
// MASTER KEY
// =============================================================================

// masterKey reads the machine-local master key, generating one on first use
// when create is set.
func (s *Store) masterKey(create bool) ([]byte, error) {
	key, err := os.ReadFile(s.keyPath)
	if err == nil {
		if len(key) != keySize {
			return nil, fmt.Errorf("%w: master key has wrong size", ErrSealFailed)
		}
		return key, nil
	}
	if !os.IsNotExist(err) || !create {
		return nil, fmt.Errorf("%w: %s", ErrSealFailed, err)
	}

	key = make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSealFailed, err)
	}
	if err := util.AtomicWriteFile(s.keyPath, key, 0600); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSealFailed, err)
	}
	return key, nil
}

// zeroBytes scrubs key material to limit exposure in crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
