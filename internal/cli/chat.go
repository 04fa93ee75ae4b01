// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain question/answer REPL against the backend, for terminals
// where the full TUI is unwanted (ssh sessions, scripts with a pty).
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/config"
	"github.com/morganforge/docchat-tui/internal/storage"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI wraps liner with persistent input history.
// USABILITY: Arrow keys navigate history; ctrl+c aborts the prompt.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads prior input history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line with history support.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *ChatCLI) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// HandleChat runs the question/answer loop until EOF, ctrl+c or /quit.
func HandleChat(deps *Deps, args Args) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	identity, err := requireIdentity(ctx, deps)
	cancel()
	if err != nil {
		return err
	}

	topK := deps.Cfg.Chat.TopK
	if args.TopK > 0 {
		topK = args.TopK
	}

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(deps.Cfg.UI.GlamourStyle),
		glamour.WithWordWrap(80),
	)

	input := NewChatCLI()
	defer input.Close()

	if !args.Quiet {
		fmt.Printf("Chatting as %s. Ask about your uploaded documents.\n", identity.Email)
		fmt.Println(dimStyle.Render("Commands: /save  /quit  (ctrl+c or ctrl+d also exit)"))
		fmt.Println()
	}

	var messages []api.ChatMessage

	for {
		question, err := input.ReadInput("? ")
		if err != nil {
			// ctrl+c on the prompt or EOF ends the session.
			break
		}
		question = strings.TrimSpace(question)
		if question == "" {
			continue
		}

		switch question {
		case "/quit", "/exit":
			goto done
		case "/save":
			if err := saveChatSession(deps, messages, args.Quiet); err != nil {
				DisplayError(err, false)
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		answer, err := deps.Client.Query(ctx, question, topK)
		cancel()
		if err != nil {
			if api.IsAuthFailure(err) {
				deps.Creds.Clear()
				return ErrNotLoggedIn
			}
			DisplayError(err, false)
			continue
		}

		messages = append(messages, api.NewUserMessage(question), api.NewBotMessage(answer))

		if renderer != nil {
			if out, rerr := renderer.Render(answer); rerr == nil {
				fmt.Print(out)
				continue
			}
		}
		fmt.Println(answer)
	}

done:
	if len(messages) > 0 && deps.Cfg.Chat.SaveOnExit && !args.NoSave {
		if err := saveChatSession(deps, messages, args.Quiet); err != nil {
			DisplayError(err, false)
		}
	}
	return nil
}

// saveChatSession persists the session server-side and as a local transcript.
func saveChatSession(deps *Deps, messages []api.ChatMessage, quiet bool) error {
	if len(messages) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := deps.Client.SaveChat(ctx, messages); err != nil {
		return fmt.Errorf("saving chat: %w", err)
	}

	if store, err := storage.NewTranscriptStore(); err == nil {
		t := &storage.Transcript{}
		for _, m := range messages {
			t.Messages = append(t.Messages, storage.TranscriptMessage{
				Sender: m.Sender,
				Text:   m.Text,
			})
		}
		store.Save(t)
	}

	if !quiet {
		fmt.Println(successStyle.Render("Chat saved."))
	}
	return nil
}
