// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history caches the authenticated user's saved chat list.
//
// Entries are fetched once per session and reused until the session
// changes or the cache is invalidated. Every cached snapshot is tagged
// with the session epoch it was fetched under; a fetch that completes
// after the session has moved on is discarded rather than stored, so a
// logout mid-fetch can never leave the next account looking at the
// previous account's chats.
//
// Deletes are optimistic: the entry disappears from the cache
// immediately and the backend call follows. A failed delete reports the
// error but does not restore the entry; the next full reload reconciles.
package history
