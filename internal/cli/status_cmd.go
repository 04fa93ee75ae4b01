// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status_cmd.go - backend reachability and session state check.
package cli

import (
	"context"
	"fmt"

	"github.com/morganforge/docchat-tui/internal/session"
)

// HandleStatus reports backend reachability and the resolved session state.
func HandleStatus(deps *Deps, args Args) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	pingErr := deps.Client.Ping(ctx)
	snap := deps.Resolver.Resolve(ctx)

	if args.JSON {
		out := map[string]interface{}{
			"backend":   deps.Client.BaseURL(),
			"reachable": pingErr == nil,
			"state":     snap.State.String(),
		}
		if pingErr != nil {
			out["backend_error"] = pingErr.Error()
		}
		if snap.Identity != nil {
			out["email"] = snap.Identity.Email
		}
		return outputJSON(out)
	}

	fmt.Println(headerStyle.Render("docchat status"))
	fmt.Printf("  Backend:  %s\n", deps.Client.BaseURL())
	if pingErr == nil {
		fmt.Printf("  Reach:    %s\n", successStyle.Render("reachable"))
	} else {
		fmt.Printf("  Reach:    %s (%v)\n", errorStyle.Render("unreachable"), pingErr)
	}
	switch {
	case snap.State == session.StateAuthenticated && snap.Identity != nil:
		fmt.Printf("  Session:  logged in as %s\n", snap.Identity.Email)
	default:
		fmt.Println("  Session:  anonymous")
	}
	return nil
}
