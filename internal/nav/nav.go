// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"github.com/morganforge/docchat-tui/internal/route"
	"github.com/morganforge/docchat-tui/internal/session"
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Clearer is any per-session cache that must be emptied before the user
// leaves an authenticated area. Clearing happens before the redirect so a
// stale view never renders the previous account's data.
type Clearer interface {
	Invalidate()
}

// Controller owns the current route and applies guard policy to every
// transition request. While the session is resolving, requests for
// guarded routes are parked and replayed once the session settles.
type Controller struct {
	current route.Route
	pending route.Route
	hasPend bool
	caches  []Clearer

	onNavigate func(route.Route)
}

// NewController starts at the landing route.
func NewController(caches ...Clearer) *Controller {
	return &Controller{
		current: route.Landing,
		caches:  caches,
	}
}

// OnNavigate registers a callback invoked after every committed route
// change. Only one callback is supported; later calls replace it.
func (c *Controller) OnNavigate(fn func(route.Route)) {
	c.onNavigate = fn
}

// Current returns the route the user is on right now.
func (c *Controller) Current() route.Route {
	return c.current
}

// Pending reports the route parked while the session resolves, if any.
func (c *Controller) Pending() (route.Route, bool) {
	return c.pending, c.hasPend
}

// Go requests a transition to r under the given session state. The guard
// decides the outcome: the route is entered, parked until resolution
// completes, or replaced by the policy's redirect target. Returns the
// route actually committed, or the current route when the request was
// parked.
func (c *Controller) Go(state session.State, r route.Route) route.Route {
	d := route.Decide(state, r)
	switch {
	case d.Defer:
		c.pending = r
		c.hasPend = true
		return c.current
	case d.Redirects():
		return c.commit(d.RedirectTo)
	default:
		return c.commit(r)
	}
}

// SessionSettled replays any parked navigation once resolution finishes,
// and re-checks the current route against the settled state so a user
// sitting on a guarded view when their session expires is moved off it.
func (c *Controller) SessionSettled(state session.State) route.Route {
	if c.hasPend {
		target := c.pending
		c.hasPend = false
		c.pending = 0
		return c.Go(state, target)
	}
	d := route.Decide(state, c.current)
	if d.Redirects() {
		return c.commit(d.RedirectTo)
	}
	return c.current
}

// LoginSucceeded moves the user into the app after authentication.
func (c *Controller) LoginSucceeded() route.Route {
	return c.commit(route.Home)
}

// LoggedOut clears per-session caches and returns the user to the
// landing route. Clearing precedes the transition.
func (c *Controller) LoggedOut() route.Route {
	c.clearCaches()
	return c.commit(route.Landing)
}

// AccountDeleted behaves like logout: caches are cleared first, then the
// user lands on the public landing route.
func (c *Controller) AccountDeleted() route.Route {
	c.clearCaches()
	return c.commit(route.Landing)
}

// SessionExpired handles a mid-session auth failure: caches are cleared
// and the user is sent to login to re-authenticate.
func (c *Controller) SessionExpired() route.Route {
	c.clearCaches()
	return c.commit(route.Login)
}

func (c *Controller) commit(r route.Route) route.Route {
	c.current = r
	c.hasPend = false
	c.pending = 0
	if c.onNavigate != nil {
		c.onNavigate(r)
	}
	return r
}

func (c *Controller) clearCaches() {
	for _, cache := range c.caches {
		cache.Invalidate()
	}
}
