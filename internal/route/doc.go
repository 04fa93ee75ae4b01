// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package route decides which views are reachable in which session state.
//
// The guard is a pure decision table over (session state, route class):
//
//	resolving     any            defer (neutral loading view, no redirect)
//	anonymous     public         allow
//	anonymous     protected      redirect to login
//	authenticated login/signup   redirect to home
//	authenticated protected      allow
//	any           unknown        redirect to landing
//
// Deferring during resolution is what prevents the classic redirect-then-
// undo flicker: an authenticated reload briefly reads as "no identity yet",
// and redirecting on that reading would bounce the user to login and back.
package route
