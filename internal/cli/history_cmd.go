// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - list, show, delete and export saved chats.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/storage"
	"github.com/morganforge/docchat-tui/internal/util"
)

// HandleHistory dispatches the history subcommands.
func HandleHistory(deps *Deps, args Args) error {
	switch args.Subcommand {
	case "list", "":
		return historyList(deps, args)
	case "show":
		return historyShow(deps, args)
	case "delete":
		return historyDelete(deps, args)
	case "export":
		return historyExport(deps, args)
	default:
		return NewUsageError("history", fmt.Sprintf("unknown subcommand %q", args.Subcommand),
			"docchat history [list|show|delete|export]")
	}
}

// requireIdentity resolves the stored token to an identity or fails.
func requireIdentity(ctx context.Context, deps *Deps) (*api.Identity, error) {
	if _, ok := deps.Creds.Get(); !ok {
		return nil, ErrNotLoggedIn
	}
	identity, err := deps.Client.Me(ctx)
	if err != nil {
		if api.IsAuthFailure(err) {
			deps.Creds.Clear()
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	return identity, nil
}

func historyList(deps *Deps, args Args) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	identity, err := requireIdentity(ctx, deps)
	if err != nil {
		return err
	}

	chats, err := deps.Client.UserHistory(ctx, identity.ID)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	if args.JSON {
		return outputJSON(chats)
	}

	if len(chats) == 0 {
		fmt.Println("No saved chats.")
		return nil
	}

	fmt.Println(headerStyle.Render("Saved chats"))
	fmt.Printf("  %s  %s  %s\n",
		padCell("ID", 10), padCell("CREATED", 17), "DOCUMENT")
	for _, c := range chats {
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %s  %s  %s\n",
			padCell(shortID(c.ID), 10),
			padCell(formatTimestamp(c.CreatedAt), 17),
			util.TruncateRunes(title, 50))
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("  %d chat(s). Use the full or short id with show/delete/export.", len(chats))))
	return nil
}

func historyShow(deps *Deps, args Args) error {
	if args.ChatID == "" {
		return NewUsageError("history", "show requires a chat id", "docchat history show <id>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	identity, err := requireIdentity(ctx, deps)
	if err != nil {
		return err
	}

	rec, err := resolveChat(ctx, deps, identity.ID, args.ChatID)
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(rec)
	}

	title := rec.Title
	if title == "" {
		title = rec.ID
	}
	fmt.Println(headerStyle.Render("Chat with " + title))
	fmt.Println(dimStyle.Render("  " + formatTimestamp(rec.CreatedAt)))
	fmt.Println()

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(deps.Cfg.UI.GlamourStyle),
		glamour.WithWordWrap(80),
	)
	for _, msg := range rec.Messages {
		switch msg.Sender {
		case api.SenderUser:
			fmt.Printf("%s %s\n", headerStyle.Render("You:"), msg.Text)
		default:
			if renderer != nil {
				if out, err := renderer.Render(msg.Text); err == nil {
					fmt.Print(out)
					continue
				}
			}
			fmt.Println(msg.Text)
		}
	}
	return nil
}

func historyDelete(deps *Deps, args Args) error {
	if args.ChatID == "" {
		return NewUsageError("history", "delete requires a chat id", "docchat history delete <id>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	identity, err := requireIdentity(ctx, deps)
	if err != nil {
		return err
	}

	rec, err := resolveChat(ctx, deps, identity.ID, args.ChatID)
	if err != nil {
		return err
	}

	if !args.Confirm {
		title := rec.Title
		if title == "" {
			title = shortID(rec.ID)
		}
		if !confirmPrompt(fmt.Sprintf("Delete chat %q?", title)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := deps.Client.DeleteChat(ctx, rec.ID); err != nil {
		// A chat deleted between list and delete is already gone.
		if !api.IsNotFound(err) {
			return fmt.Errorf("deleting chat: %w", err)
		}
	}

	if args.JSON {
		return outputJSON(map[string]interface{}{"success": true, "deleted": rec.ID})
	}
	if !args.Quiet {
		fmt.Println(successStyle.Render("Deleted."))
	}
	return nil
}

func historyExport(deps *Deps, args Args) error {
	if args.ChatID == "" {
		return NewUsageError("history", "export requires a chat id", "docchat history export <id>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	identity, err := requireIdentity(ctx, deps)
	if err != nil {
		return err
	}

	rec, err := resolveChat(ctx, deps, identity.ID, args.ChatID)
	if err != nil {
		return err
	}

	markdown := storage.FromChatRecord(rec).ExportMarkdown()

	if args.Output == "" {
		fmt.Print(markdown)
		return nil
	}

	if err := os.WriteFile(args.Output, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", args.Output, err)
	}
	if !args.Quiet {
		fmt.Printf("%s %s\n", successStyle.Render("Exported to"), args.Output)
	}
	return nil
}

// resolveChat fetches a chat by id, accepting the short id prefix shown in
// list output. Prefix matches against the user's history when the direct
// lookup misses.
func resolveChat(ctx context.Context, deps *Deps, ownerID, id string) (*api.ChatRecord, error) {
	rec, err := deps.Client.Chat(ctx, id)
	if err == nil {
		return rec, nil
	}
	if !api.IsNotFound(err) {
		return nil, err
	}

	chats, listErr := deps.Client.UserHistory(ctx, ownerID)
	if listErr != nil {
		return nil, err
	}
	for _, c := range chats {
		if strings.HasPrefix(c.ID, id) {
			return deps.Client.Chat(ctx, c.ID)
		}
	}
	return nil, err
}

// padCell pads a table cell by display width so CJK titles line up.
func padCell(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
