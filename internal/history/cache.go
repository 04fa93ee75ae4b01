// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"errors"
	"sync"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/session"
)

// ErrNotAuthenticated is returned when the chat list is requested
// without an authenticated session.
var ErrNotAuthenticated = errors.New("history: not authenticated")

// Backend is the slice of the API client the cache needs.
type Backend interface {
	UserHistory(ctx context.Context, userID string) ([]api.ChatSummary, error)
	DeleteChat(ctx context.Context, chatID string) error
}

// Sessions provides the current session snapshot. Satisfied by
// *session.Resolver.
type Sessions interface {
	Snapshot() session.Snapshot
}

// =============================================================================
// CACHE
// =============================================================================

// Cache holds the chat list for the current session. Safe for
// concurrent use; concurrent loads for the same session coalesce into
// one backend fetch.
type Cache struct {
	mu       sync.Mutex
	items    []api.ChatSummary
	loaded   bool
	epoch    uint64
	inflight chan struct{}

	backend  Backend
	sessions Sessions
}

// NewCache builds an empty cache over the given backend and session
// source.
func NewCache(backend Backend, sessions Sessions) *Cache {
	return &Cache{backend: backend, sessions: sessions}
}

// Load returns the chat list for the authenticated user, fetching it
// from the backend on first use. Subsequent calls return the cached
// copy until the session changes or Invalidate is called.
func (c *Cache) Load(ctx context.Context) ([]api.ChatSummary, error) {
	for {
		snap := c.sessions.Snapshot()
		if !snap.Authenticated() {
			return nil, ErrNotAuthenticated
		}

		c.mu.Lock()
		if c.loaded && c.epoch == snap.Epoch {
			items := copyItems(c.items)
			c.mu.Unlock()
			return items, nil
		}
		if c.inflight != nil {
			wait := c.inflight
			c.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		done := make(chan struct{})
		c.inflight = done
		c.mu.Unlock()

		items, err := c.backend.UserHistory(ctx, snap.OwnerID())

		c.mu.Lock()
		c.inflight = nil
		close(done)
		if err != nil {
			c.mu.Unlock()
			return nil, err
		}
		// Discard results that raced a session change. The caller sees
		// ErrNotAuthenticated (or the next session's data) on retry.
		if cur := c.sessions.Snapshot(); cur.Epoch != snap.Epoch {
			c.mu.Unlock()
			continue
		}
		c.items = items
		c.loaded = true
		c.epoch = snap.Epoch
		out := copyItems(c.items)
		c.mu.Unlock()
		return out, nil
	}
}

// Delete removes the chat from the cache immediately, then deletes it
// on the backend. The cache entry is not restored on backend failure.
func (c *Cache) Delete(ctx context.Context, chatID string) error {
	c.mu.Lock()
	if c.loaded {
		kept := c.items[:0]
		for _, it := range c.items {
			if it.ID != chatID {
				kept = append(kept, it)
			}
		}
		c.items = kept
	}
	c.mu.Unlock()

	return c.backend.DeleteChat(ctx, chatID)
}

// Invalidate drops everything. The next Load refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.loaded = false
	c.epoch = 0
	c.mu.Unlock()
}

// Cached returns the current cache contents without touching the
// backend, and whether they are valid for the given session epoch.
func (c *Cache) Cached(epoch uint64) ([]api.ChatSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded || c.epoch != epoch {
		return nil, false
	}
	return copyItems(c.items), true
}

// BindTo invalidates the cache whenever the session leaves the epoch
// the cache was filled under.
func (c *Cache) BindTo(r *session.Resolver) {
	r.Subscribe(func(snap session.Snapshot) {
		c.mu.Lock()
		stale := c.loaded && c.epoch != snap.Epoch
		c.mu.Unlock()
		if stale || !snap.Authenticated() {
			c.Invalidate()
		}
	})
}

func copyItems(items []api.ChatSummary) []api.ChatSummary {
	out := make([]api.ChatSummary, len(items))
	copy(out, items)
	return out
}
