// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/morganforge/docchat-tui/internal/api"
)

func newTestStore(t *testing.T) *TranscriptStore {
	t.Helper()
	store, err := NewTranscriptStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewTranscriptStoreWithDir: %v", err)
	}
	return store
}

func sampleTranscript() *Transcript {
	return &Transcript{
		Document: "report.pdf",
		Messages: []TranscriptMessage{
			{Sender: api.SenderUser, Text: "What does section 3 say about refunds?"},
			{Sender: api.SenderBot, Text: "Section 3 allows refunds within 30 days."},
		},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(sampleTranscript())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned empty ID")
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Document != "report.pdf" {
		t.Errorf("Document = %q", loaded.Document)
	}
	if len(loaded.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(loaded.Messages))
	}
	if loaded.Messages[0].Sender != api.SenderUser {
		t.Errorf("first sender = %q", loaded.Messages[0].Sender)
	}
	if loaded.CreatedAt.IsZero() || loaded.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on save")
	}
}

func TestSave_GeneratesSummaryFromFirstQuestion(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(sampleTranscript())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasPrefix(loaded.Summary, "What does section 3") {
		t.Errorf("Summary = %q, want first question", loaded.Summary)
	}
}

func TestLoad_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("missing")
	if !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("err = %v, want ErrTranscriptNotFound", err)
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	store := newTestStore(t)

	first := sampleTranscript()
	first.CreatedAt = time.Now().Add(-2 * time.Hour)
	firstID, err := store.Save(first)
	if err != nil {
		t.Fatalf("Save first: %v", err)
	}

	// Ensure distinct UpdatedAt values.
	time.Sleep(10 * time.Millisecond)

	second := sampleTranscript()
	second.Document = "contract.pdf"
	secondID, err := store.Save(second)
	if err != nil {
		t.Fatalf("Save second: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d transcripts, want 2", len(metas))
	}
	if metas[0].ID != secondID || metas[1].ID != firstID {
		t.Errorf("order = [%s, %s], want most recent first", metas[0].ID, metas[1].ID)
	}
	if metas[0].MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", metas[0].MessageCount)
	}
}

func TestLoadByIndex(t *testing.T) {
	store := newTestStore(t)
	id, err := store.Save(sampleTranscript())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.LoadByIndex(0)
	if err != nil {
		t.Fatalf("LoadByIndex: %v", err)
	}
	if loaded.ID != id {
		t.Errorf("ID = %q, want %q", loaded.ID, id)
	}

	if _, err := store.LoadByIndex(5); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("out-of-range index: err = %v, want ErrTranscriptNotFound", err)
	}
}

func TestSearch_MatchesDocumentAndPreview(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(sampleTranscript()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	other := sampleTranscript()
	other.Document = "invoice.pdf"
	other.Messages[0].Text = "Total owed on the March invoice?"
	if _, err := store.Save(other); err != nil {
		t.Fatalf("Save: %v", err)
	}

	results, err := store.Search("invoice")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Document != "invoice.pdf" {
		t.Errorf("Search results = %+v", results)
	}

	results, err = store.Search("refunds")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Document != "report.pdf" {
		t.Errorf("Search by question = %+v", results)
	}
}

func TestSearchMessages_MatchesAnswerText(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(sampleTranscript()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	results, err := store.SearchMessages("30 days")
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}

	results, err = store.SearchMessages("no such phrase")
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	id, err := store.Save(sampleTranscript())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(id); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("Load after delete: err = %v", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("second Delete: err = %v", err)
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 3; i++ {
		if _, err := store.Save(sampleTranscript()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("got %d transcripts after Clear, want 0", len(metas))
	}
}

func TestEnforceLimit_DropsOldest(t *testing.T) {
	store := newTestStore(t)
	store.MaxTranscripts = 2

	var ids []string
	for i := 0; i < 3; i++ {
		tr := sampleTranscript()
		id, err := store.Save(tr)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, id)
		time.Sleep(10 * time.Millisecond)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d transcripts, want 2", len(metas))
	}
	if _, err := store.Load(ids[0]); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("oldest transcript should have been evicted, Load err = %v", err)
	}
}

func TestFromChatRecord(t *testing.T) {
	rec := &api.ChatRecord{
		ID:    "abc123",
		Title: "manual.pdf",
		Messages: []api.ChatMessage{
			api.NewUserMessage("How do I reset it?"),
			api.NewBotMessage("Hold the power button for ten seconds."),
		},
	}

	tr := FromChatRecord(rec)
	if tr.ID != "abc123" || tr.Document != "manual.pdf" {
		t.Errorf("transcript = %+v", tr)
	}
	if len(tr.Messages) != 2 || tr.Messages[1].Sender != api.SenderBot {
		t.Errorf("messages = %+v", tr.Messages)
	}
}

func TestExportMarkdown(t *testing.T) {
	tr := sampleTranscript()
	tr.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	md := tr.ExportMarkdown()
	if !strings.Contains(md, "# Chat with report.pdf") {
		t.Errorf("missing title header in:\n%s", md)
	}
	if !strings.Contains(md, "**You**") || !strings.Contains(md, "**Assistant**") {
		t.Errorf("missing role labels in:\n%s", md)
	}
	if !strings.Contains(md, "Section 3 allows refunds") {
		t.Error("missing answer text")
	}
}

func TestFormatTranscriptList(t *testing.T) {
	empty := FormatTranscriptList(nil)
	if empty != "No transcripts found." {
		t.Errorf("empty list = %q", empty)
	}

	metas := []TranscriptMeta{{
		ID:           "0123456789ab",
		Document:     "report.pdf",
		UpdatedAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		MessageCount: 4,
		Preview:      "What does section 3 say?",
	}}
	out := FormatTranscriptList(metas)
	if !strings.Contains(out, "01234567") {
		t.Error("missing truncated ID")
	}
	if !strings.Contains(out, "report.pdf") {
		t.Error("missing document name")
	}
}
