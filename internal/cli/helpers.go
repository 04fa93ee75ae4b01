// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared wiring and output helpers for CLI commands.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/config"
	"github.com/morganforge/docchat-tui/internal/credential"
	"github.com/morganforge/docchat-tui/internal/session"
	"github.com/morganforge/docchat-tui/internal/ui/styles"
)

// Shared styles for command output.
var (
	errorStyle   = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

// commandTimeout bounds every one-shot backend call made from the CLI.
const commandTimeout = 30 * time.Second

// Deps holds everything a CLI command needs to talk to the backend.
type Deps struct {
	Cfg      *config.Config
	Creds    *credential.Store
	Client   *api.Client
	Resolver *session.Resolver
}

// BuildDeps loads configuration, opens the credential store and constructs
// the backend client. Shared by main and every command handler.
func BuildDeps() (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.SetGlobal(cfg)

	creds, err := credential.NewStore()
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	client := api.NewClientWithConfig(creds, &api.ClientConfig{
		BaseURL:           cfg.Backend.URL,
		Timeout:           time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
	})

	return &Deps{
		Cfg:      cfg,
		Creds:    creds,
		Client:   client,
		Resolver: session.NewResolver(creds, client),
	}, nil
}

// outputJSON writes data as indented JSON to stdout.
func outputJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// promptInput reads one trimmed line from stdin after printing prompt.
func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// promptPassword reads a password without echoing it.
// SECURITY: Uses term.ReadPassword so the password never appears on screen.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// confirmPrompt asks a yes/no question and returns true on "y"/"yes".
func confirmPrompt(question string) bool {
	answer := strings.ToLower(promptInput(question + " [y/N] "))
	return answer == "y" || answer == "yes"
}

// formatTimestamp renders a backend timestamp for table output.
func formatTimestamp(ts api.Timestamp) string {
	t := ts.Time
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// shortID shortens a chat id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
