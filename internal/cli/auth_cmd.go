// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, logout, signup and whoami commands.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/morganforge/docchat-tui/internal/api"
)

// HandleLogin authenticates against the backend and stores the token.
func HandleLogin(deps *Deps, args Args) error {
	email := strings.TrimSpace(args.Email)
	if email == "" {
		email = promptInput("Email: ")
	}
	if email == "" {
		return NewUsageError("login", "email is required", "docchat login --email you@example.com")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return NewUsageError("login", "password is required", "docchat login")
	}

	return completeLogin(deps, email, password, args)
}

// completeLogin exchanges credentials for a token, stores it and resolves
// the identity. Split from HandleLogin so the sequence is testable without
// terminal prompts.
func completeLogin(deps *Deps, email, password string, args Args) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	token, err := deps.Client.Login(ctx, email, password)
	if err != nil {
		if api.IsAuthFailure(err) {
			return fmt.Errorf("invalid email or password")
		}
		return err
	}

	if err := deps.Creds.Set(token.AccessToken); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	identity, err := deps.Client.Me(ctx)
	if err != nil {
		if api.IsAuthFailure(err) {
			// The backend rejected the token it just issued. Keeping it
			// would make every later command fail the same way.
			deps.Creds.Clear()
			return fmt.Errorf("login token rejected: %w", err)
		}
		// Transient failure: the token stays and the next command will
		// resolve it again.
		if !args.Quiet {
			fmt.Println(successStyle.Render("Logged in") + " (identity lookup failed: " + err.Error() + ")")
		}
		return nil
	}

	if args.JSON {
		return outputJSON(map[string]interface{}{
			"success":  true,
			"identity": identity,
		})
	}
	if !args.Quiet {
		fmt.Printf("%s as %s <%s>\n", successStyle.Render("Logged in"), identity.Name, identity.Email)
	}
	return nil
}

// HandleLogout clears the stored credential.
func HandleLogout(deps *Deps, args Args) error {
	if _, ok := deps.Creds.Get(); !ok {
		if !args.Quiet {
			fmt.Println("Not logged in.")
		}
		return nil
	}

	if err := deps.Creds.Clear(); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}

	if args.JSON {
		return outputJSON(map[string]interface{}{"success": true})
	}
	if !args.Quiet {
		fmt.Println(successStyle.Render("Logged out."))
	}
	return nil
}

// HandleSignup creates a new account and logs the user in.
func HandleSignup(deps *Deps, args Args) error {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		name = promptInput("Name: ")
	}
	email := strings.TrimSpace(args.Email)
	if email == "" {
		email = promptInput("Email: ")
	}
	if name == "" || email == "" {
		return NewUsageError("signup", "name and email are required",
			"docchat signup --name Ana --email a@example.com")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password == "" || password != confirm {
		return NewUsageError("signup", "passwords are empty or do not match", "docchat signup")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	identity, err := deps.Client.Signup(ctx, api.SignupRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	// The backend does not return a token on signup. Log in to get one.
	token, err := deps.Client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("account created but login failed: %w", err)
	}
	if err := deps.Creds.Set(token.AccessToken); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	if args.JSON {
		return outputJSON(map[string]interface{}{
			"success":  true,
			"identity": identity,
		})
	}
	if !args.Quiet {
		fmt.Printf("%s Welcome, %s.\n", successStyle.Render("Account created."), identity.Name)
	}
	return nil
}

// HandleWhoami shows the identity behind the stored token.
func HandleWhoami(deps *Deps, args Args) error {
	if _, ok := deps.Creds.Get(); !ok {
		return ErrNotLoggedIn
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	identity, err := deps.Client.Me(ctx)
	if err != nil {
		if api.IsAuthFailure(err) {
			// Stored token was rejected. Drop it so the next command starts clean.
			deps.Creds.Clear()
			return ErrNotLoggedIn
		}
		return err
	}

	if args.JSON {
		return outputJSON(identity)
	}

	fmt.Println(headerStyle.Render("Logged in as"))
	fmt.Printf("  Name:   %s\n", identity.Name)
	fmt.Printf("  Email:  %s\n", identity.Email)
	fmt.Printf("  ID:     %s\n", identity.ID)
	if !identity.CreatedAt.IsZero() {
		fmt.Printf("  Joined: %s\n", formatTimestamp(identity.CreatedAt))
	}
	return nil
}
