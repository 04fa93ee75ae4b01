// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav centralizes route transitions. All navigation flows through
// a single Controller so that guard policy, deferred navigation during
// session resolution, and state clearing on logout happen in one place
// instead of being scattered across views.
//
// The controller is driven from the program's event loop and is not
// safe for concurrent use.
package nav
