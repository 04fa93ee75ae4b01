// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"

	"github.com/morganforge/docchat-tui/internal/api"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// CredentialStore is the durable token storage the resolver owns the
// lifecycle of. Satisfied by credential.Store.
type CredentialStore interface {
	Set(token string) error
	Get() (string, bool)
	Clear() error
}

// IdentityClient is the slice of the backend client the resolver needs.
type IdentityClient interface {
	Me(ctx context.Context) (*api.Identity, error)
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver owns the session state machine. It is safe for concurrent use;
// all transitions happen under one mutex and subscribers are notified
// outside it.
type Resolver struct {
	mu          sync.Mutex
	state       State
	identity    *api.Identity
	epoch       uint64
	creds       CredentialStore
	client      IdentityClient
	subscribers []func(Snapshot)
}

// NewResolver creates a resolver over the given credential store and
// identity client. Initial state is resolving when a credential is already
// stored, anonymous otherwise.
func NewResolver(creds CredentialStore, client IdentityClient) *Resolver {
	r := &Resolver{
		state:  StateAnonymous,
		creds:  creds,
		client: client,
	}
	if _, ok := creds.Get(); ok {
		r.state = StateResolving
	}
	return r
}

// Snapshot returns the current session view.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{State: r.state, Identity: r.identity, Epoch: r.epoch}
}

// Subscribe registers a callback invoked after every state transition.
// Callbacks run outside the resolver lock and must not block for long.
func (r *Resolver) Subscribe(fn func(Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// notify delivers the snapshot to all subscribers. Callers must not hold
// the lock.
func (r *Resolver) notify(snap Snapshot) {
	r.mu.Lock()
	subs := make([]func(Snapshot), len(r.subscribers))
	copy(subs, r.subscribers)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve runs one identity lookup for the currently stored credential and
// applies the outcome. A lookup whose epoch is superseded before it
// completes is discarded, so the newest credential change always wins.
//
// Failure is never fatal: a rejected or undecodable lookup clears the
// credential and settles into anonymous.
func (r *Resolver) Resolve(ctx context.Context) Snapshot {
	r.mu.Lock()
	if _, ok := r.creds.Get(); !ok {
		// Nothing to resolve; make sure we are not stuck in resolving.
		snap := r.applyLocked(StateAnonymous, nil)
		r.mu.Unlock()
		r.notify(snap)
		return snap
	}
	r.state = StateResolving
	started := r.epoch
	r.mu.Unlock()

	identity, err := r.client.Me(ctx)

	r.mu.Lock()
	if r.epoch != started {
		// A newer credential change superseded this lookup.
		snap := Snapshot{State: r.state, Identity: r.identity, Epoch: r.epoch}
		r.mu.Unlock()
		return snap
	}

	var snap Snapshot
	if err != nil || identity == nil {
		// Transient "invalid": clear the credential, settle to anonymous.
		r.creds.Clear()
		r.epoch++
		snap = r.applyLocked(StateAnonymous, nil)
	} else {
		snap = r.applyLocked(StateAuthenticated, identity)
	}
	r.mu.Unlock()

	r.notify(snap)
	return snap
}

// =============================================================================
// EXPLICIT TRANSITIONS
// =============================================================================

// BeginLogin stores a freshly issued credential and moves to resolving.
// It returns the epoch tag the caller must hand to CompleteLogin.
func (r *Resolver) BeginLogin(token string) (uint64, error) {
	r.mu.Lock()
	if err := r.creds.Set(token); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	r.epoch++
	epoch := r.epoch
	snap := r.applyLocked(StateResolving, nil)
	r.mu.Unlock()

	r.notify(snap)
	return epoch, nil
}

// CompleteLogin applies a resolved identity for the login started at the
// given epoch. A completion that arrives after a newer credential change is
// discarded, and the stale identity is never applied.
func (r *Resolver) CompleteLogin(epoch uint64, identity *api.Identity) bool {
	r.mu.Lock()
	if r.epoch != epoch || identity == nil {
		r.mu.Unlock()
		return false
	}
	snap := r.applyLocked(StateAuthenticated, identity)
	r.mu.Unlock()

	r.notify(snap)
	return true
}

// Logout clears the credential synchronously, then drops the identity and
// settles into anonymous. Idempotent: a second logout is a no-op that
// leaves identical state.
func (r *Resolver) Logout() {
	r.mu.Lock()
	r.creds.Clear()
	r.epoch++
	snap := r.applyLocked(StateAnonymous, nil)
	r.mu.Unlock()

	r.notify(snap)
}

// AccountDeleted behaves like Logout; the server-side account is already
// gone so the credential is dead either way.
func (r *Resolver) AccountDeleted() {
	r.Logout()
}

// =============================================================================
// INTERNALS
// =============================================================================

// applyLocked sets the state while enforcing the core invariant:
// authenticated if and only if a non-nil identity is held.
func (r *Resolver) applyLocked(state State, identity *api.Identity) Snapshot {
	if state != StateAuthenticated {
		identity = nil
	}
	r.state = state
	r.identity = identity
	return Snapshot{State: r.state, Identity: r.identity, Epoch: r.epoch}
}
