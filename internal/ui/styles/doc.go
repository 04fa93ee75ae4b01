// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for docchat TUI.
//
// Colors adapt to light and dark terminal backgrounds via Lip Gloss
// AdaptiveColor, and the Theme type bundles every style the views use
// so appearance decisions live in one place.
package styles
