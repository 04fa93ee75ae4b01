// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/history"
	"github.com/morganforge/docchat-tui/internal/session"
	"github.com/morganforge/docchat-tui/internal/storage"
)

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

const commandTimeout = 30 * time.Second

// historyLoadedMsg carries the user's chat list.
type historyLoadedMsg struct {
	Chats []api.ChatSummary
}

// historyFailedMsg reports a failed chat list fetch.
type historyFailedMsg struct {
	Err error
}

// chatDeletedMsg reports the backend outcome of a delete. The cache
// entry is already gone either way.
type chatDeletedMsg struct {
	ID  string
	Err error
}

// answerMsg carries the backend's answer to a question.
type answerMsg struct {
	Question string
	Answer   string
}

// answerFailedMsg reports a failed query.
type answerFailedMsg struct {
	Question string
	Err      error
}

// chatSavedMsg reports the outcome of persisting the chat server-side.
type chatSavedMsg struct {
	Err error
}

// chatExportedMsg reports a chat exported to the local transcript store.
type chatExportedMsg struct {
	TranscriptID string
	Err          error
}

// accountDeletedMsg reports the outcome of deleting the account. On
// success the session is already anonymous.
type accountDeletedMsg struct {
	Err error
}

func loadHistoryCmd(cache *history.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		chats, err := cache.Load(ctx)
		if err != nil {
			return historyFailedMsg{Err: err}
		}
		return historyLoadedMsg{Chats: chats}
	}
}

func deleteChatCmd(cache *history.Cache, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		err := cache.Delete(ctx, id)
		return chatDeletedMsg{ID: id, Err: err}
	}
}

func askCmd(client *api.Client, question string, topK int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		answer, err := client.Query(ctx, question, topK)
		if err != nil {
			return answerFailedMsg{Question: question, Err: err}
		}
		return answerMsg{Question: question, Answer: answer}
	}
}

// exportChatCmd fetches the full chat and saves it as a local transcript.
func exportChatCmd(client *api.Client, store *storage.TranscriptStore, chatID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		rec, err := client.Chat(ctx, chatID)
		if err != nil {
			return chatExportedMsg{Err: err}
		}
		id, err := store.Save(storage.FromChatRecord(rec))
		if err != nil {
			return chatExportedMsg{Err: err}
		}
		return chatExportedMsg{TranscriptID: id}
	}
}

// deleteAccountCmd deletes the account and settles the session into
// anonymous before the message is emitted, so the redirect that follows
// can never observe the dead credential.
func deleteAccountCmd(client *api.Client, resolver *session.Resolver) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := client.DeleteAccount(ctx); err != nil {
			return accountDeletedMsg{Err: err}
		}
		resolver.AccountDeleted()
		return accountDeletedMsg{}
	}
}

func saveChatCmd(client *api.Client, entries []chatEntry) tea.Cmd {
	msgs := make([]api.ChatMessage, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, api.ChatMessage{Sender: e.Sender, Text: e.Text})
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		err := client.SaveChat(ctx, msgs)
		return chatSavedMsg{Err: err}
	}
}
