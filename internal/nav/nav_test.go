// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"testing"

	"github.com/morganforge/docchat-tui/internal/route"
	"github.com/morganforge/docchat-tui/internal/session"
)

type fakeCache struct {
	invalidated int
}

func (f *fakeCache) Invalidate() { f.invalidated++ }

func TestGo_AuthPageRedirectsWhenAuthenticated(t *testing.T) {
	c := NewController()
	got := c.Go(session.StateAuthenticated, route.Login)
	if got != route.Home {
		t.Errorf("Go(authenticated, login) = %v, want home", got)
	}
	if c.Current() != route.Home {
		t.Errorf("Current() = %v, want home", c.Current())
	}
}

func TestGo_ProtectedRedirectsWhenAnonymous(t *testing.T) {
	c := NewController()
	got := c.Go(session.StateAnonymous, route.Home)
	if got != route.Login {
		t.Errorf("Go(anonymous, home) = %v, want login", got)
	}
}

func TestGo_DefersWhileResolving(t *testing.T) {
	c := NewController()
	got := c.Go(session.StateResolving, route.ChatHistory)
	if got != route.Landing {
		t.Errorf("deferred Go should stay on current route, got %v", got)
	}
	pending, ok := c.Pending()
	if !ok || pending != route.ChatHistory {
		t.Errorf("Pending() = %v, %v; want chat-history, true", pending, ok)
	}
}

func TestSessionSettled_ReplaysPendingForAuthenticated(t *testing.T) {
	c := NewController()
	c.Go(session.StateResolving, route.ChatHistory)

	got := c.SessionSettled(session.StateAuthenticated)
	if got != route.ChatHistory {
		t.Errorf("SessionSettled replay = %v, want chat-history", got)
	}
	if _, ok := c.Pending(); ok {
		t.Error("pending should be cleared after replay")
	}
}

func TestSessionSettled_ReplaysPendingForAnonymous(t *testing.T) {
	c := NewController()
	c.Go(session.StateResolving, route.ChatHistory)

	got := c.SessionSettled(session.StateAnonymous)
	if got != route.Login {
		t.Errorf("SessionSettled replay = %v, want login", got)
	}
}

func TestSessionSettled_EvictsFromGuardedRoute(t *testing.T) {
	c := NewController()
	c.Go(session.StateAuthenticated, route.Home)

	got := c.SessionSettled(session.StateAnonymous)
	if got != route.Login {
		t.Errorf("expected eviction to login, got %v", got)
	}
}

func TestSessionSettled_NoPendingNoEviction(t *testing.T) {
	c := NewController()
	got := c.SessionSettled(session.StateAnonymous)
	if got != route.Landing {
		t.Errorf("SessionSettled = %v, want landing (unchanged)", got)
	}
}

func TestLoggedOut_ClearsCachesBeforeRedirect(t *testing.T) {
	cache := &fakeCache{}
	c := NewController(cache)
	c.Go(session.StateAuthenticated, route.Home)

	var cachedAtNavigate int
	c.OnNavigate(func(r route.Route) {
		cachedAtNavigate = cache.invalidated
	})

	got := c.LoggedOut()
	if got != route.Landing {
		t.Errorf("LoggedOut() = %v, want landing", got)
	}
	if cache.invalidated != 1 {
		t.Errorf("cache invalidated %d times, want 1", cache.invalidated)
	}
	if cachedAtNavigate != 1 {
		t.Error("cache must be cleared before the navigate callback fires")
	}
}

func TestAccountDeleted_ClearsAndLandsOnLanding(t *testing.T) {
	cache := &fakeCache{}
	c := NewController(cache)
	c.Go(session.StateAuthenticated, route.Profile)

	got := c.AccountDeleted()
	if got != route.Landing {
		t.Errorf("AccountDeleted() = %v, want landing", got)
	}
	if c.Current() != route.Landing {
		t.Errorf("Current() = %v, want landing", c.Current())
	}
	if cache.invalidated != 1 {
		t.Errorf("cache invalidated %d times, want 1", cache.invalidated)
	}
}

func TestSessionExpired_ClearsAndSendsToLogin(t *testing.T) {
	cache := &fakeCache{}
	c := NewController(cache)
	c.Go(session.StateAuthenticated, route.Chat)

	got := c.SessionExpired()
	if got != route.Login {
		t.Errorf("SessionExpired() = %v, want login", got)
	}
	if cache.invalidated != 1 {
		t.Errorf("cache invalidated %d times, want 1", cache.invalidated)
	}
}

func TestLoginSucceeded_GoesHome(t *testing.T) {
	c := NewController()
	c.Go(session.StateAnonymous, route.Login)

	if got := c.LoginSucceeded(); got != route.Home {
		t.Errorf("LoginSucceeded() = %v, want home", got)
	}
}

func TestOnNavigate_FiresOnEveryCommit(t *testing.T) {
	c := NewController()
	var seen []route.Route
	c.OnNavigate(func(r route.Route) { seen = append(seen, r) })

	c.Go(session.StateAnonymous, route.About)
	c.Go(session.StateAnonymous, route.Home) // redirects to login
	c.Go(session.StateResolving, route.Chat) // deferred, no commit

	want := []route.Route{route.About, route.Login}
	if len(seen) != len(want) {
		t.Fatalf("saw %d navigations, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("navigation %d = %v, want %v", i, seen[i], want[i])
		}
	}
}
