// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"testing"

	"github.com/morganforge/docchat-tui/internal/api"
)

func TestParseArgs_NoCommandIsTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("ParseArgs(nil) = %v, want CmdTUI", cmd)
	}
}

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"login"}, CmdLogin},
		{[]string{"logout"}, CmdLogout},
		{[]string{"signup"}, CmdSignup},
		{[]string{"whoami"}, CmdWhoami},
		{[]string{"profile"}, CmdProfile},
		{[]string{"chat"}, CmdChat},
		{[]string{"history"}, CmdHistory},
		{[]string{"config"}, CmdConfig},
		{[]string{"status"}, CmdStatus},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"-h"}, CmdHelp},
		{[]string{"bogus"}, CmdUnknown},
	}

	for _, tt := range tests {
		cmd, _ := ParseArgs(tt.argv)
		if cmd != tt.want {
			t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--json", "history", "-q", "list"})
	if cmd != CmdHistory {
		t.Fatalf("cmd = %v, want CmdHistory", cmd)
	}
	if !args.JSON {
		t.Error("JSON flag not parsed")
	}
	if !args.Quiet {
		t.Error("Quiet flag not parsed")
	}
	if args.Subcommand != "list" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "list")
	}
}

func TestParseArgs_LoginEmail(t *testing.T) {
	_, args := ParseArgs([]string{"login", "--email", "a@example.com"})
	if args.Email != "a@example.com" {
		t.Errorf("Email = %q, want %q", args.Email, "a@example.com")
	}
}

func TestParseArgs_ChatFlags(t *testing.T) {
	_, args := ParseArgs([]string{"chat", "--top-k", "3", "--no-save"})
	if args.TopK != 3 {
		t.Errorf("TopK = %d, want 3", args.TopK)
	}
	if !args.NoSave {
		t.Error("NoSave flag not parsed")
	}
}

func TestParseArgs_ChatTopKDefaultsUnset(t *testing.T) {
	_, args := ParseArgs([]string{"chat"})
	if args.TopK != -1 {
		t.Errorf("TopK = %d, want -1 (unset)", args.TopK)
	}
}

func TestParseArgs_HistoryDefaultsToList(t *testing.T) {
	_, args := ParseArgs([]string{"history"})
	if args.Subcommand != "list" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "list")
	}
}

func TestParseArgs_HistoryShowID(t *testing.T) {
	_, args := ParseArgs([]string{"history", "show", "abc123"})
	if args.Subcommand != "show" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "show")
	}
	if args.ChatID != "abc123" {
		t.Errorf("ChatID = %q, want %q", args.ChatID, "abc123")
	}
}

func TestParseArgs_HistoryDeleteConfirm(t *testing.T) {
	_, args := ParseArgs([]string{"history", "delete", "abc123", "--confirm"})
	if !args.Confirm {
		t.Error("Confirm flag not parsed")
	}
	if args.ChatID != "abc123" {
		t.Errorf("ChatID = %q, want %q", args.ChatID, "abc123")
	}
}

func TestParseArgs_HistoryExportOutput(t *testing.T) {
	_, args := ParseArgs([]string{"history", "export", "abc123", "--output", "chat.md"})
	if args.Output != "chat.md" {
		t.Errorf("Output = %q, want %q", args.Output, "chat.md")
	}
}

func TestParseArgs_ProfileDefaultsToShow(t *testing.T) {
	_, args := ParseArgs([]string{"profile"})
	if args.Subcommand != "show" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "show")
	}
}

func TestParseArgs_ProfileUpdateFlags(t *testing.T) {
	_, args := ParseArgs([]string{"profile", "update", "--name", "Ana B", "--avatar", "me.png"})
	if args.Subcommand != "update" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "update")
	}
	if args.Name != "Ana B" {
		t.Errorf("Name = %q, want %q", args.Name, "Ana B")
	}
	if args.Avatar != "me.png" {
		t.Errorf("Avatar = %q, want %q", args.Avatar, "me.png")
	}
}

func TestParseArgs_ProfileDeleteConfirm(t *testing.T) {
	_, args := ParseArgs([]string{"profile", "delete", "--confirm"})
	if args.Subcommand != "delete" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "delete")
	}
	if !args.Confirm {
		t.Error("Confirm flag not parsed")
	}
}

func TestParseArgs_ConfigSet(t *testing.T) {
	_, args := ParseArgs([]string{"config", "set", "ui.theme", "light"})
	if args.Subcommand != "set" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "set")
	}
	if args.ConfigKey != "ui.theme" {
		t.Errorf("ConfigKey = %q, want %q", args.ConfigKey, "ui.theme")
	}
	if args.ConfigVal != "light" {
		t.Errorf("ConfigVal = %q, want %q", args.ConfigVal, "light")
	}
}

func TestParseArgs_ConfigDefaultsToShow(t *testing.T) {
	_, args := ParseArgs([]string{"config"})
	if args.Subcommand != "show" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "show")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneralError},
		{"usage", NewUsageError("history", "bad", ""), ExitUsageError},
		{"not logged in", ErrNotLoggedIn, ExitAuthError},
		{"auth", api.ErrUnauthorized, ExitAuthError},
		{"not found", api.ErrNotFound, ExitNotFoundError},
		{"timeout", api.ErrTimeout, ExitTimeoutError},
		{"unreachable", api.ErrUnreachable, ExitNetworkError},
	}

	for _, tt := range tests {
		if got := GetExitCode(tt.err); got != tt.want {
			t.Errorf("%s: GetExitCode() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestUsageError_Message(t *testing.T) {
	err := NewUsageError("history", "show requires a chat id", "docchat history show <id>")
	msg := err.Error()
	if msg == "" {
		t.Fatal("empty error message")
	}
	if want := "history: show requires a chat id\nUsage: docchat history show <id>"; msg != want {
		t.Errorf("Error() = %q, want %q", msg, want)
	}
}

func TestPadCell_Width(t *testing.T) {
	if got := padCell("ab", 5); got != "ab   " {
		t.Errorf("padCell(%q, 5) = %q", "ab", got)
	}
	if got := padCell("abcdef", 5); got != "abcdef" {
		t.Errorf("padCell over width = %q, want unchanged", got)
	}
}
