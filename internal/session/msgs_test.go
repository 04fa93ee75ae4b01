// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/morganforge/docchat-tui/internal/api"
)

// fakeAuthClient scripts the full login surface. The onMe hook runs before
// Me returns, so tests can change the session mid-flight.
type fakeAuthClient struct {
	loginErr  error
	signupErr error
	identity  *api.Identity
	onMe      func()
}

func (f *fakeAuthClient) Login(ctx context.Context, email, password string) (*api.Token, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &api.Token{AccessToken: "tok-" + email}, nil
}

func (f *fakeAuthClient) Signup(ctx context.Context, req api.SignupRequest) (*api.Identity, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return f.identity, nil
}

func (f *fakeAuthClient) Me(ctx context.Context) (*api.Identity, error) {
	if f.onMe != nil {
		f.onMe()
	}
	return f.identity, nil
}

func TestLoginCmd_Success(t *testing.T) {
	r := NewResolver(&memStore{}, &fakeIdentityClient{identity: ann()})
	client := &fakeAuthClient{identity: ann()}

	msg := LoginCmd(r, client, "ann@example.com", "pw")()

	succeeded, ok := msg.(LoginSucceededMsg)
	if !ok {
		t.Fatalf("msg = %T, want LoginSucceededMsg", msg)
	}
	if !succeeded.Snapshot.Authenticated() {
		t.Error("success snapshot must be authenticated")
	}
}

func TestLoginCmd_RejectedCredentials(t *testing.T) {
	r := NewResolver(&memStore{}, &fakeIdentityClient{})
	client := &fakeAuthClient{loginErr: api.ErrUnauthorized}

	msg := LoginCmd(r, client, "ann@example.com", "wrong")()

	if _, ok := msg.(LoginFailedMsg); !ok {
		t.Fatalf("msg = %T, want LoginFailedMsg", msg)
	}
	if r.Snapshot().State != StateAnonymous {
		t.Errorf("state = %v, want anonymous", r.Snapshot().State)
	}
}

func TestLoginCmd_SupersededCompletionFails(t *testing.T) {
	store := &memStore{}
	r := NewResolver(store, &fakeIdentityClient{identity: ann()})
	client := &fakeAuthClient{identity: ann()}
	// A logout lands between BeginLogin and CompleteLogin.
	client.onMe = func() { r.Logout() }

	msg := LoginCmd(r, client, "ann@example.com", "pw")()

	failed, ok := msg.(LoginFailedMsg)
	if !ok {
		t.Fatalf("msg = %T, want LoginFailedMsg", msg)
	}
	if !errors.Is(failed.Err, ErrLoginSuperseded) {
		t.Errorf("err = %v, want ErrLoginSuperseded", failed.Err)
	}
	if r.Snapshot().State != StateAnonymous {
		t.Errorf("state = %v, want anonymous after superseded login", r.Snapshot().State)
	}
	if _, ok := store.Get(); ok {
		t.Error("credential must not survive a superseded login")
	}
}

func TestSignupCmd_SupersededCompletionFails(t *testing.T) {
	r := NewResolver(&memStore{}, &fakeIdentityClient{identity: ann()})
	client := &fakeAuthClient{identity: ann()}
	client.onMe = func() { r.Logout() }

	msg := SignupCmd(r, client, api.SignupRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "pw",
	})()

	failed, ok := msg.(SignupFailedMsg)
	if !ok {
		t.Fatalf("msg = %T, want SignupFailedMsg", msg)
	}
	if !errors.Is(failed.Err, ErrLoginSuperseded) {
		t.Errorf("err = %v, want ErrLoginSuperseded", failed.Err)
	}
}

func TestLogoutCmd_EmitsAnonymousSnapshot(t *testing.T) {
	store := &memStore{}
	store.Set("tok")
	r := NewResolver(store, &fakeIdentityClient{identity: ann()})
	r.Resolve(context.Background())

	msg := LogoutCmd(r)()

	logged, ok := msg.(LoggedOutMsg)
	if !ok {
		t.Fatalf("msg = %T, want LoggedOutMsg", msg)
	}
	if logged.Snapshot.State != StateAnonymous {
		t.Errorf("state = %v, want anonymous", logged.Snapshot.State)
	}
}
