// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package route

import (
	"testing"

	"github.com/morganforge/docchat-tui/internal/session"
)

// =============================================================================
// POLICY TABLE TESTS
// =============================================================================

func TestDecide_Anonymous(t *testing.T) {
	tests := []struct {
		route    Route
		allow    bool
		redirect Route
	}{
		{Landing, true, 0},
		{About, true, 0},
		{HowToUse, true, 0},
		{Login, true, 0},
		{Signup, true, 0},
		{Home, false, Login},
		{PDF, false, Login},
		{Image, false, Login},
		{Website, false, Login},
		{Chat, false, Login},
		{Profile, false, Login},
		{ChatHistory, false, Login},
	}

	for _, tt := range tests {
		t.Run(tt.route.String(), func(t *testing.T) {
			d := Decide(session.StateAnonymous, tt.route)
			if d.Allow != tt.allow {
				t.Errorf("Allow = %v, want %v", d.Allow, tt.allow)
			}
			if !tt.allow && d.RedirectTo != tt.redirect {
				t.Errorf("RedirectTo = %v, want %v", d.RedirectTo, tt.redirect)
			}
			if d.Defer {
				t.Error("anonymous decisions never defer")
			}
		})
	}
}

func TestDecide_Authenticated(t *testing.T) {
	tests := []struct {
		route    Route
		allow    bool
		redirect Route
	}{
		{Landing, true, 0},
		{Login, false, Home},
		{Signup, false, Home},
		{Home, true, 0},
		{Chat, true, 0},
		{Profile, true, 0},
		{ChatHistory, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.route.String(), func(t *testing.T) {
			d := Decide(session.StateAuthenticated, tt.route)
			if d.Allow != tt.allow {
				t.Errorf("Allow = %v, want %v", d.Allow, tt.allow)
			}
			if !tt.allow && d.RedirectTo != tt.redirect {
				t.Errorf("RedirectTo = %v, want %v", d.RedirectTo, tt.redirect)
			}
		})
	}
}

func TestDecide_ResolvingDefersEverythingKnown(t *testing.T) {
	for _, r := range All() {
		if ClassOf(r) == ClassUnknown {
			continue
		}
		d := Decide(session.StateResolving, r)
		if !d.Defer {
			t.Errorf("Decide(resolving, %v) should defer, got %+v", r, d)
		}
		if d.Allow {
			t.Errorf("Decide(resolving, %v) must not allow yet", r)
		}
	}
}

func TestDecide_UnknownAlwaysLanding(t *testing.T) {
	for _, state := range []session.State{session.StateAnonymous, session.StateResolving, session.StateAuthenticated} {
		d := Decide(state, Unknown)
		if !d.Redirects() || d.RedirectTo != Landing {
			t.Errorf("Decide(%v, unknown) = %+v, want redirect to landing", state, d)
		}
	}
}

// TestDecide_Total verifies the table has no undefined cell: every (state,
// route) pair yields exactly one of allow, defer, or redirect.
func TestDecide_Total(t *testing.T) {
	states := []session.State{session.StateAnonymous, session.StateResolving, session.StateAuthenticated}
	for _, state := range states {
		for _, r := range All() {
			d := Decide(state, r)
			shapes := 0
			if d.Allow {
				shapes++
			}
			if d.Defer {
				shapes++
			}
			if d.Redirects() {
				shapes++
			}
			if shapes != 1 {
				t.Errorf("Decide(%v, %v) = %+v: want exactly one decision shape", state, r, d)
			}
		}
	}
}

// =============================================================================
// PATH PARSING TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{"/", Landing},
		{"", Landing},
		{"/home", Home},
		{"/home/", Home},
		{"/about-us", About},
		{"/how-to-use", HowToUse},
		{"/login", Login},
		{"/signup", Signup},
		{"/pdf", PDF},
		{"/image", Image},
		{"/website", Website},
		{"/chat", Chat},
		{"/profile", Profile},
		{"/chat-history/abc123", ChatHistory},
		{"/nope", Unknown},
		{"/admin/secret", Unknown},
	}

	for _, tt := range tests {
		if got := Parse(tt.path); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestClassOf_Total(t *testing.T) {
	for _, r := range All() {
		c := ClassOf(r)
		if c < ClassPublic || c > ClassUnknown {
			t.Errorf("ClassOf(%v) = %v: out of range", r, c)
		}
	}
}
