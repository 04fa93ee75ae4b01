// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credential stores the docchat access token.
//
// The token is the only durable piece of session state: it survives a
// restart, is scoped to one machine, and is read for network use in exactly
// one place (the API client's request interceptor).
//
// At rest the token is sealed with AES-256-GCM using a key derived via
// PBKDF2-SHA-256 from a machine-local master key file. Both files live under
// the docchat config directory with 0600 permissions and are written
// atomically.
//
// # Usage
//
//	store, err := credential.NewStore()
//	store.Set(token)        // visible to all readers immediately
//	tok, ok := store.Get()  // never errors
//	store.Clear()           // idempotent
package credential
