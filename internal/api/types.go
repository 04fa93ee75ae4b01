// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"strings"
	"time"
)

// =============================================================================
// IDENTITY TYPES
// =============================================================================

// Identity is the backend's view of the current user. It is replaced
// wholesale on every successful resolution and never partially mutated.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt Timestamp `json:"created_at,omitempty"`
}

// Token is the response of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// SignupRequest carries the multipart signup form. Avatar is optional; when
// AvatarName is empty no file part is sent.
type SignupRequest struct {
	Name       string
	Email      string
	Password   string
	AvatarName string
	Avatar     []byte
}

// ProfileUpdate carries the multipart profile-update form. Zero-value fields
// are omitted; the caller must re-resolve the session afterwards.
type ProfileUpdate struct {
	Name       string
	AvatarName string
	Avatar     []byte
}

// =============================================================================
// HISTORY TYPES
// =============================================================================

// ChatSummary is one row of a user's chat history list.
type ChatSummary struct {
	ID        string    `json:"_id"`
	OwnerID   string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Title     string    `json:"pdf_name,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// ChatRecord is a full stored chat, messages included.
type ChatRecord struct {
	ID        string        `json:"_id"`
	OwnerID   string        `json:"user_id"`
	Email     string        `json:"email,omitempty"`
	Title     string        `json:"pdf_name,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt Timestamp     `json:"created_at"`
}

// Sender values accepted by the backend.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// ChatMessage is a single turn of a chat. Sender is "user" or "bot".
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// NewUserMessage creates a user-authored chat message.
func NewUserMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderUser, Text: text}
}

// NewBotMessage creates a backend-authored chat message.
func NewBotMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderBot, Text: text}
}

// =============================================================================
// QUERY TYPES
// =============================================================================

// QueryRequest asks a question about the user's uploaded documents.
type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// QueryResponse carries the backend's answer.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// SaveChatRequest persists a finished chat server-side.
type SaveChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// apiError is the backend's error envelope ({"detail": "..."} per FastAPI).
type apiError struct {
	Detail string `json:"detail"`
}

// =============================================================================
// TIMESTAMP
// =============================================================================

// Timestamp decodes the backend's timestamps, which arrive either as RFC 3339
// or as a naive ISO 8601 string without a zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	// An unparseable timestamp is not worth failing the whole decode for.
	t.Time = time.Time{}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
