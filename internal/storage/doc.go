// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local transcript persistence for docchat.
//
// This package handles saving and loading chat transcripts to/from disk,
// with support for search, listing, and export.
//
// # Key Types
//
//   - TranscriptStore: Main storage interface for transcripts
//   - Transcript: Serializable chat with metadata
//   - TranscriptMeta: Lightweight metadata for listing
//
// # Usage
//
// Create a store and save a transcript:
//
//	store, err := storage.NewTranscriptStore()
//	id, err := store.Save(transcript)
//
// List and load transcripts:
//
//	metas, err := store.List()
//	t, err := store.Load(metas[0].ID)
//
// Search transcripts:
//
//	results, err := store.Search("query text")
//
// # Storage Location
//
// Transcripts are stored in ~/.docchat/transcripts/ as JSON files.
package storage
