// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session resolves "who is the current user".
//
// The resolver is a small state machine over the stored credential:
//
//	anonymous    no trusted credential
//	resolving    a credential exists but the identity lookup is in flight
//	authenticated identity lookup succeeded; Identity() is non-nil
//
// A failed lookup is a transient "invalid" signal, not a resting state: the
// resolver clears the credential store and settles into anonymous, so other
// components only ever observe the three states above.
//
// Every credential change bumps an epoch counter. In-flight resolutions are
// tagged with the epoch they started under and discarded if it moved on, so
// a stale identity can never overwrite a newer login or logout.
//
// All components read the resolver's snapshot instead of re-reading storage;
// one render pass therefore sees one consistent answer to "am I logged in?".
package session
