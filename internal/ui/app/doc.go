// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app implements the docchat terminal application.
//
// The Model is a standard Bubble Tea model. Screens map one-to-one to
// routes; every screen change goes through the navigation controller,
// which applies guard policy, so no view ever has to check the session
// state itself. While the stored credential is being resolved the app
// shows a loading screen instead of guessing which screen the user
// will end up on.
package app
