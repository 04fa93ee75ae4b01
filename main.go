// docchat TUI - chat with your documents from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/docchat-tui/internal/cli"
	"github.com/morganforge/docchat-tui/internal/config"
	"github.com/morganforge/docchat-tui/internal/history"
	"github.com/morganforge/docchat-tui/internal/storage"
	"github.com/morganforge/docchat-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Commands that need no backend wiring.
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdUnknown:
		fmt.Fprintf(os.Stderr, "docchat: unknown command %q\n\n", args.Subcommand)
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	}

	deps, err := cli.BuildDeps()
	if err != nil {
		cli.DisplayError(err, args.JSON)
		os.Exit(cli.ExitConfigError)
	}

	switch cmd {
	case cli.CmdLogin:
		exitOn(cli.HandleLogin(deps, args), args)
	case cli.CmdLogout:
		exitOn(cli.HandleLogout(deps, args), args)
	case cli.CmdSignup:
		exitOn(cli.HandleSignup(deps, args), args)
	case cli.CmdWhoami:
		exitOn(cli.HandleWhoami(deps, args), args)
	case cli.CmdProfile:
		exitOn(cli.HandleProfile(deps, args), args)
	case cli.CmdChat:
		exitOn(cli.HandleChat(deps, args), args)
	case cli.CmdHistory:
		exitOn(cli.HandleHistory(deps, args), args)
	case cli.CmdConfig:
		exitOn(cli.HandleConfig(deps, args), args)
	case cli.CmdStatus:
		exitOn(cli.HandleStatus(deps, args), args)
	case cli.CmdTUI:
		runTUI(deps)
	}
}

// exitOn displays err and exits with its mapped code. Nil is a no-op.
func exitOn(err error, args cli.Args) {
	if err == nil {
		return
	}
	cli.DisplayError(err, args.JSON)
	os.Exit(cli.GetExitCode(err))
}

// runTUI wires the remaining screen dependencies and runs the program.
func runTUI(deps *cli.Deps) {
	cache := history.NewCache(deps.Client, deps.Resolver)
	cache.BindTo(deps.Resolver)

	// Live-reload config edits made while the TUI is running.
	if w, err := config.Watch(config.SetGlobal); err == nil {
		defer w.Close()
	}

	store, err := storage.NewTranscriptStore()
	if err != nil {
		cli.DisplayError(fmt.Errorf("opening transcript store: %w", err), false)
		os.Exit(cli.ExitGeneralError)
	}

	model := app.New(app.Deps{
		Config:   deps.Cfg,
		Client:   deps.Client,
		Resolver: deps.Resolver,
		Cache:    cache,
		Store:    store,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "docchat: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}
}
