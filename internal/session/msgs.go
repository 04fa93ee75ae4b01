// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/docchat-tui/internal/api"
)

// ErrLoginSuperseded is returned when another credential change beats a
// login attempt to completion; the attempt's result is discarded.
var ErrLoginSuperseded = errors.New("login superseded by a newer session change")

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// resolveTimeout bounds the identity lookup so the UI never hangs in the
// loading view on a dead backend.
const resolveTimeout = 15 * time.Second

// ResolvedMsg reports the outcome of a resolution attempt. The snapshot is
// already applied; the UI only needs to re-evaluate routing.
type ResolvedMsg struct {
	Snapshot Snapshot
}

// LoginSucceededMsg reports a completed login: the identity is resolved and
// the session is authenticated.
type LoginSucceededMsg struct {
	Snapshot Snapshot
}

// LoginFailedMsg reports a rejected or failed login attempt.
type LoginFailedMsg struct {
	Err error
}

// SignupFailedMsg reports a rejected or failed signup attempt. Signup ends
// in the same login sequence as LoginCmd, so there is no separate success
// message.
type SignupFailedMsg struct {
	Err error
}

// LoggedOutMsg reports that the session settled into anonymous.
type LoggedOutMsg struct {
	Snapshot Snapshot
}

// AuthClient is the slice of the backend client the login and signup
// commands need.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*api.Token, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.Identity, error)
	Me(ctx context.Context) (*api.Identity, error)
}

// ResolveCmd returns a command that resolves the stored credential and
// reports the resulting snapshot.
func ResolveCmd(r *Resolver) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()
		return ResolvedMsg{Snapshot: r.Resolve(ctx)}
	}
}

// LoginCmd returns a command that performs the full login sequence: exchange
// credentials for a token, store it, resolve the identity, and only then
// mark the session authenticated. The success message therefore always
// carries a non-nil identity.
func LoginCmd(r *Resolver, client AuthClient, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()

		token, err := client.Login(ctx, email, password)
		if err != nil {
			return LoginFailedMsg{Err: err}
		}

		epoch, err := r.BeginLogin(token.AccessToken)
		if err != nil {
			return LoginFailedMsg{Err: err}
		}

		identity, err := client.Me(ctx)
		if err != nil {
			// Token stored but identity unresolvable: invalid credential.
			r.Logout()
			return LoginFailedMsg{Err: err}
		}

		if !r.CompleteLogin(epoch, identity) {
			// Credentials changed while Me was in flight; this attempt
			// lost the race and must not report success.
			return LoginFailedMsg{Err: ErrLoginSuperseded}
		}
		return LoginSucceededMsg{Snapshot: r.Snapshot()}
	}
}

// SignupCmd returns a command that registers an account and then runs the
// same login sequence as LoginCmd.
func SignupCmd(r *Resolver, client AuthClient, req api.SignupRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()

		if _, err := client.Signup(ctx, req); err != nil {
			return SignupFailedMsg{Err: err}
		}

		// The backend issues tokens only through /auth/login.
		token, err := client.Login(ctx, req.Email, req.Password)
		if err != nil {
			return SignupFailedMsg{Err: err}
		}
		epoch, err := r.BeginLogin(token.AccessToken)
		if err != nil {
			return SignupFailedMsg{Err: err}
		}
		identity, err := client.Me(ctx)
		if err != nil {
			r.Logout()
			return SignupFailedMsg{Err: err}
		}
		if !r.CompleteLogin(epoch, identity) {
			return SignupFailedMsg{Err: ErrLoginSuperseded}
		}
		return LoginSucceededMsg{Snapshot: r.Snapshot()}
	}
}

// LogoutCmd returns a command that logs out and reports the settled state.
// State is cleared before the message is emitted, so a guard re-evaluation
// triggered by the redirect can never observe a stale authenticated state.
func LogoutCmd(r *Resolver) tea.Cmd {
	return func() tea.Msg {
		r.Logout()
		return LoggedOutMsg{Snapshot: r.Snapshot()}
	}
}
