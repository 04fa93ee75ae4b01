// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for CLI commands.
//
// STANDARDIZED PATTERN:
//   - Handlers ALWAYS return errors (never print and return nil)
//   - main decides how to display and which exit code to use
//
// ERROR HANDLING: Errors must not be silently ignored
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/morganforge/docchat-tui/internal/api"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates authentication failure or a missing session
	ExitAuthError = 4
	// ExitNetworkError indicates the backend was unreachable
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError represents invalid command usage or arguments.
type UsageError struct {
	Command string // Command that was misused (e.g., "history")
	Reason  string // What was wrong
	Hint    string // Example of correct usage (optional)
}

func (e *UsageError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Command, e.Reason)
	if e.Hint != "" {
		msg += fmt.Sprintf("\nUsage: %s", e.Hint)
	}
	return msg
}

// NewUsageError creates a usage error with a hint line.
func NewUsageError(command, reason, hint string) error {
	return &UsageError{Command: command, Reason: reason, Hint: hint}
}

// ErrNotLoggedIn is returned by commands that need a stored session token.
var ErrNotLoggedIn = errors.New("not logged in (run 'docchat login')")

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError prints an error in a consistent format. In JSON mode the
// error is emitted as a structured object on stdout.
func DisplayError(err error, jsonMode bool) {
	if err == nil {
		return
	}

	if jsonMode {
		out := map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		}
		var usageErr *UsageError
		switch {
		case errors.As(err, &usageErr):
			out["error_type"] = "usage_error"
			out["command"] = usageErr.Command
		case errors.Is(err, ErrNotLoggedIn) || api.IsAuthFailure(err):
			out["error_type"] = "auth_error"
		case api.IsNotFound(err):
			out["error_type"] = "not_found"
		case api.IsTimeout(err):
			out["error_type"] = "timeout"
		default:
			out["error_type"] = "error"
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("[ERROR]"), err.Error())
}

// GetExitCode maps an error to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	switch {
	case errors.Is(err, ErrNotLoggedIn), api.IsAuthFailure(err):
		return ExitAuthError
	case api.IsNotFound(err):
		return ExitNotFoundError
	case api.IsTimeout(err):
		return ExitTimeoutError
	}

	var clientErr *api.ClientError
	if errors.As(err, &clientErr) && clientErr.Type == api.ErrTypeUnreachable {
		return ExitNetworkError
	}

	return ExitGeneralError
}
