// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "github.com/morganforge/docchat-tui/internal/api"

// =============================================================================
// STATE TYPE
// =============================================================================

// State is the resolved authentication status of the current session.
type State int

const (
	// StateAnonymous means no trusted credential is held.
	StateAnonymous State = iota
	// StateResolving means a credential exists and the identity lookup is
	// still in flight. Route decisions are deferred in this state.
	StateResolving
	// StateAuthenticated means the identity lookup succeeded.
	// A snapshot in this state always carries a non-nil Identity.
	StateAuthenticated
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a consistent view of the session at one point in time.
// Components read snapshots instead of the underlying storage so that one
// render pass sees one answer.
type Snapshot struct {
	State    State
	Identity *api.Identity
	Epoch    uint64
}

// Authenticated reports whether the snapshot carries a trusted identity.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}

// OwnerID returns the current user's ID, or "" when not authenticated.
func (s Snapshot) OwnerID() string {
	if !s.Authenticated() {
		return ""
	}
	return s.Identity.ID
}
