// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// profile_cmd.go - show, update and delete the account profile.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/morganforge/docchat-tui/internal/api"
)

// HandleProfile dispatches the profile subcommands.
func HandleProfile(deps *Deps, args Args) error {
	switch args.Subcommand {
	case "show", "":
		return HandleWhoami(deps, args)
	case "update":
		return profileUpdate(deps, args)
	case "delete":
		return profileDelete(deps, args)
	default:
		return NewUsageError("profile", fmt.Sprintf("unknown subcommand %q", args.Subcommand),
			"docchat profile [show|update|delete]")
	}
}

func profileUpdate(deps *Deps, args Args) error {
	if args.Name == "" && args.Avatar == "" {
		return NewUsageError("profile", "update needs --name and/or --avatar",
			"docchat profile update --name \"Ana B\"")
	}

	update := api.ProfileUpdate{Name: args.Name}
	if args.Avatar != "" {
		data, err := os.ReadFile(args.Avatar)
		if err != nil {
			return fmt.Errorf("reading avatar: %w", err)
		}
		update.Avatar = data
		update.AvatarName = filepath.Base(args.Avatar)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := requireIdentity(ctx, deps); err != nil {
		return err
	}

	if _, err := deps.Client.UpdateProfile(ctx, update); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	// The update response may be partial; re-resolve so the session holds
	// the identity the backend will serve from now on.
	snap := deps.Resolver.Resolve(ctx)
	if !snap.Authenticated() {
		return fmt.Errorf("profile updated but the session could not be re-resolved")
	}

	if args.JSON {
		return outputJSON(map[string]interface{}{
			"success":  true,
			"identity": snap.Identity,
		})
	}
	if !args.Quiet {
		fmt.Printf("%s Now %s <%s>.\n", successStyle.Render("Profile updated."),
			snap.Identity.Name, snap.Identity.Email)
	}
	return nil
}

func profileDelete(deps *Deps, args Args) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	identity, err := requireIdentity(ctx, deps)
	if err != nil {
		return err
	}

	if !args.Confirm {
		if !confirmPrompt(fmt.Sprintf("Permanently delete the account for %s?", identity.Email)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := deps.Client.DeleteAccount(ctx); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	// The account is gone; the credential must not outlive it.
	deps.Resolver.AccountDeleted()

	if args.JSON {
		return outputJSON(map[string]interface{}{"success": true, "deleted": identity.ID})
	}
	if !args.Quiet {
		fmt.Println(successStyle.Render("Account deleted."))
	}
	return nil
}
