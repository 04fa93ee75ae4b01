// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses command-line arguments and runs the non-interactive
// docchat commands. The default invocation (no command) starts the TUI;
// everything here is the scriptable surface around it.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information, set by main at startup from build-time variables.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMAND TYPES
// =============================================================================

// Command represents the parsed CLI command.
type Command int

const (
	// CmdTUI launches the interactive terminal UI (default)
	CmdTUI Command = iota
	// CmdLogin authenticates against the backend and stores the token
	CmdLogin
	// CmdLogout clears the stored credential
	CmdLogout
	// CmdSignup creates a new account
	CmdSignup
	// CmdWhoami shows the identity behind the stored credential
	CmdWhoami
	// CmdProfile shows, updates or deletes the account
	CmdProfile
	// CmdHistory lists, shows, deletes or exports saved chats
	CmdHistory
	// CmdChat runs a question/answer REPL without the TUI
	CmdChat
	// CmdConfig shows or edits configuration
	CmdConfig
	// CmdStatus checks backend reachability and session state
	CmdStatus
	// CmdVersion shows version information
	CmdVersion
	// CmdHelp shows usage information
	CmdHelp
	// CmdUnknown indicates an unrecognized command
	CmdUnknown
)

// Args holds parsed command arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Positional remainder after the command name
	Subcommand string
	Positional []string

	// login / signup / profile
	Email  string
	Name   string
	Avatar string

	// chat
	TopK   int
	NoSave bool

	// history
	ChatID  string
	Output  string
	Confirm bool

	// config
	ConfigKey string
	ConfigVal string
}

// =============================================================================
// USAGE
// =============================================================================

const usageText = `docchat - chat with your documents from the terminal

USAGE:
    docchat [command] [flags]

Running docchat with no command starts the interactive TUI.

COMMANDS:
    login                     Authenticate and store the session token
                                --email <addr>  skip the email prompt
    logout                    Clear the stored session token
    signup                    Create a new account
    whoami                    Show the identity for the stored token
    profile show              Show the account profile
    profile update            Update the profile
                                --name <name>   new display name
                                --avatar <path> new avatar image
    profile delete            Delete the account (--confirm to skip prompt)
    chat                      Ask questions in a plain REPL (no TUI)
                                --top-k <n>     passages per answer
                                --no-save       do not save the chat on exit
    history list              List saved chats
    history show <id>         Print one chat transcript
    history delete <id>       Delete a chat (--confirm to skip prompt)
    history export <id>       Export a chat as markdown
                                --output <path> write to file instead of stdout
    config show               Show the active configuration
    config get <key>          Print one configuration value
    config set <key> <value>  Set a configuration value
    config path               Print the configuration file path
    status                    Check backend reachability and session state
    version                   Show version information
    help                      Show this help

GLOBAL FLAGS:
    --quiet, -q               Suppress non-essential output
    --verbose, -v             Show additional detail
    --json                    Machine-readable JSON output

EXAMPLES:
    docchat                           # start the TUI
    docchat login --email a@b.c       # log in, prompt for password only
    docchat chat --top-k 3            # quick Q&A session
    docchat history list --json       # scriptable history listing
    docchat config set ui.theme light

Version: %s
`

// PrintUsage prints the usage text to stdout.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("docchat %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args and returns the command and its arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list. Split out from Parse for tests.
func ParseArgs(argv []string) (Command, Args) {
	args := Args{TopK: -1}

	rest := parseGlobalFlags(argv, &args)
	if len(rest) == 0 {
		return CmdTUI, args
	}

	cmd := rest[0]
	rest = rest[1:]

	switch cmd {
	case "login":
		return CmdLogin, parseLoginArgs(rest, args)
	case "logout":
		return CmdLogout, args
	case "signup":
		return CmdSignup, parseSignupArgs(rest, args)
	case "whoami":
		return CmdWhoami, args
	case "profile":
		return CmdProfile, parseProfileArgs(rest, args)
	case "chat":
		return CmdChat, parseChatArgs(rest, args)
	case "history":
		return CmdHistory, parseHistoryArgs(rest, args)
	case "config":
		return CmdConfig, parseConfigArgs(rest, args)
	case "status":
		return CmdStatus, args
	case "version", "--version", "-V":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		args.Subcommand = cmd
		return CmdUnknown, args
	}
}

// parseGlobalFlags strips global flags from argv and returns the remainder.
func parseGlobalFlags(argv []string, args *Args) []string {
	var rest []string
	for _, a := range argv {
		switch a {
		case "--quiet", "-q":
			args.Quiet = true
		case "--verbose", "-v":
			args.Verbose = true
		case "--json":
			args.JSON = true
		default:
			rest = append(rest, a)
		}
	}
	return rest
}

func parseLoginArgs(rest []string, args Args) Args {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--email":
			if i+1 < len(rest) {
				args.Email = rest[i+1]
				i++
			}
		default:
			args.Positional = append(args.Positional, rest[i])
		}
	}
	return args
}

func parseSignupArgs(rest []string, args Args) Args {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--email":
			if i+1 < len(rest) {
				args.Email = rest[i+1]
				i++
			}
		case "--name":
			if i+1 < len(rest) {
				args.Name = rest[i+1]
				i++
			}
		default:
			args.Positional = append(args.Positional, rest[i])
		}
	}
	return args
}

func parseProfileArgs(rest []string, args Args) Args {
	if len(rest) == 0 {
		args.Subcommand = "show"
		return args
	}
	args.Subcommand = rest[0]
	rest = rest[1:]

	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--name":
			if i+1 < len(rest) {
				args.Name = rest[i+1]
				i++
			}
		case "--avatar":
			if i+1 < len(rest) {
				args.Avatar = rest[i+1]
				i++
			}
		case "--confirm", "-y":
			args.Confirm = true
		default:
			args.Positional = append(args.Positional, rest[i])
		}
	}
	return args
}

func parseChatArgs(rest []string, args Args) Args {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--top-k":
			if i+1 < len(rest) {
				if n, err := strconv.Atoi(rest[i+1]); err == nil {
					args.TopK = n
				}
				i++
			}
		case "--no-save":
			args.NoSave = true
		default:
			args.Positional = append(args.Positional, rest[i])
		}
	}
	return args
}

func parseHistoryArgs(rest []string, args Args) Args {
	if len(rest) == 0 {
		args.Subcommand = "list"
		return args
	}
	args.Subcommand = rest[0]
	rest = rest[1:]

	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--confirm", "-y":
			args.Confirm = true
		case "--output", "-o":
			if i+1 < len(rest) {
				args.Output = rest[i+1]
				i++
			}
		default:
			if args.ChatID == "" && !strings.HasPrefix(rest[i], "-") {
				args.ChatID = rest[i]
			} else {
				args.Positional = append(args.Positional, rest[i])
			}
		}
	}
	return args
}

func parseConfigArgs(rest []string, args Args) Args {
	if len(rest) == 0 {
		args.Subcommand = "show"
		return args
	}
	args.Subcommand = rest[0]
	if len(rest) > 1 {
		args.ConfigKey = rest[1]
	}
	if len(rest) > 2 {
		args.ConfigVal = strings.Join(rest[2:], " ")
	}
	return args
}
