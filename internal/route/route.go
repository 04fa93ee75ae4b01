// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package route

import "strings"

// =============================================================================
// ROUTE TYPE
// =============================================================================

// Route identifies one navigable view of the application.
type Route int

const (
	// Landing is the public landing view ("/").
	Landing Route = iota
	// About is the public about view.
	About
	// HowToUse is the public usage guide.
	HowToUse
	// Login is the sign-in form.
	Login
	// Signup is the registration form.
	Signup
	// Home is the protected entry view after login.
	Home
	// PDF is the protected PDF upload view.
	PDF
	// Image is the protected image upload view.
	Image
	// Website is the protected website ingestion view.
	Website
	// Chat is the protected chat view.
	Chat
	// Profile is the protected profile settings view.
	Profile
	// ChatHistory is the protected stored-transcript view.
	ChatHistory
	// Unknown is any unrecognized path.
	Unknown
)

// String returns the path of the route.
func (r Route) String() string {
	switch r {
	case Landing:
		return "/"
	case About:
		return "/about-us"
	case HowToUse:
		return "/how-to-use"
	case Login:
		return "/login"
	case Signup:
		return "/signup"
	case Home:
		return "/home"
	case PDF:
		return "/pdf"
	case Image:
		return "/image"
	case Website:
		return "/website"
	case Chat:
		return "/chat"
	case Profile:
		return "/profile"
	case ChatHistory:
		return "/chat-history"
	default:
		return "/unknown"
	}
}

// All lists every defined route, Unknown included. Used by totality tests
// and by the navigation layer to enumerate views.
func All() []Route {
	return []Route{
		Landing, About, HowToUse, Login, Signup,
		Home, PDF, Image, Website, Chat, Profile, ChatHistory,
		Unknown,
	}
}

// Parse maps a path to a route. Unrecognized paths map to Unknown; the
// guard sends those to the landing view.
func Parse(path string) Route {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return Landing
	}
	switch path {
	case "/about-us":
		return About
	case "/how-to-use":
		return HowToUse
	case "/login":
		return Login
	case "/signup":
		return Signup
	case "/home":
		return Home
	case "/pdf":
		return PDF
	case "/image":
		return Image
	case "/website":
		return Website
	case "/chat":
		return Chat
	case "/profile":
		return Profile
	}
	if strings.HasPrefix(path, "/chat-history/") || path == "/chat-history" {
		return ChatHistory
	}
	return Unknown
}

// =============================================================================
// ROUTE CLASSES
// =============================================================================

// Class buckets routes by access policy.
type Class int

const (
	// ClassPublic routes are reachable without a session.
	ClassPublic Class = iota
	// ClassAuthPage routes are the login/signup forms; pointless once
	// authenticated.
	ClassAuthPage
	// ClassProtected routes require an authenticated session.
	ClassProtected
	// ClassUnknown is any unrecognized path.
	ClassUnknown
)

// String returns the human-readable name of the class.
func (c Class) String() string {
	switch c {
	case ClassPublic:
		return "public"
	case ClassAuthPage:
		return "auth-page"
	case ClassProtected:
		return "protected"
	default:
		return "unknown"
	}
}

// ClassOf returns the access class of a route.
func ClassOf(r Route) Class {
	switch r {
	case Landing, About, HowToUse:
		return ClassPublic
	case Login, Signup:
		return ClassAuthPage
	case Home, PDF, Image, Website, Chat, Profile, ChatHistory:
		return ClassProtected
	default:
		return ClassUnknown
	}
}
