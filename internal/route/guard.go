// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package route

import "github.com/morganforge/docchat-tui/internal/session"

// =============================================================================
// GUARD DECISION
// =============================================================================

// Decision is the guard's answer for one (state, route) pair.
//
// Exactly one of these shapes comes back:
//   - Allow: render the requested route
//   - Defer: session still resolving; render the neutral loading view
//   - redirect: Allow is false and RedirectTo names the replacement route
type Decision struct {
	Allow      bool
	Defer      bool
	RedirectTo Route
}

// Redirects reports whether the decision is a redirect.
func (d Decision) Redirects() bool {
	return !d.Allow && !d.Defer
}

// Decide maps a session state and requested route to a decision. It is a
// pure function and total over every state and route class.
func Decide(state session.State, r Route) Decision {
	// Unknown paths go to the landing view in every state; the target is
	// public, so there is no flicker to defer for.
	if ClassOf(r) == ClassUnknown {
		return Decision{RedirectTo: Landing}
	}

	// While resolving, no redirect decision is made at all. Redirecting
	// here is what causes the redirect-then-undo flicker on reload.
	if state == session.StateResolving {
		return Decision{Defer: true}
	}

	switch ClassOf(r) {
	case ClassPublic:
		return Decision{Allow: true}

	case ClassAuthPage:
		if state == session.StateAuthenticated {
			return Decision{RedirectTo: Home}
		}
		return Decision{Allow: true}

	case ClassProtected:
		if state == session.StateAuthenticated {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: Login}

	default:
		return Decision{RedirectTo: Landing}
	}
}
