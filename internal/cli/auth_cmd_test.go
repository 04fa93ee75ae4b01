// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/config"
	"github.com/morganforge/docchat-tui/internal/credential"
	"github.com/morganforge/docchat-tui/internal/session"
)

// newTestDeps wires Deps against an httptest backend.
func newTestDeps(t *testing.T, handler http.Handler) *Deps {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds, err := credential.NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("credential store: %v", err)
	}

	client := api.NewClientWithConfig(creds, &api.ClientConfig{
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		Burst:             1000,
	})

	return &Deps{
		Cfg:      config.Default(),
		Creds:    creds,
		Client:   client,
		Resolver: session.NewResolver(creds, client),
	}
}

func TestCompleteLogin_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Token{AccessToken: "tok-1"})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Identity{ID: "u1", Name: "Ana", Email: "ana@example.com"})
	})
	deps := newTestDeps(t, mux)

	if err := completeLogin(deps, "ana@example.com", "pw", Args{Quiet: true}); err != nil {
		t.Fatalf("completeLogin failed: %v", err)
	}
	if tok, ok := deps.Creds.Get(); !ok || tok != "tok-1" {
		t.Errorf("stored token = %q, %v; want tok-1, true", tok, ok)
	}
}

func TestCompleteLogin_RejectedTokenIsCleared(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Token{AccessToken: "tok-bad"})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	})
	deps := newTestDeps(t, mux)

	err := completeLogin(deps, "ana@example.com", "pw", Args{Quiet: true})
	if err == nil {
		t.Fatal("completeLogin should fail when the issued token is rejected")
	}
	if _, ok := deps.Creds.Get(); ok {
		t.Error("rejected token must not stay in the store")
	}
}

func TestCompleteLogin_TransientMeFailureKeepsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Token{AccessToken: "tok-2"})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	deps := newTestDeps(t, mux)

	if err := completeLogin(deps, "ana@example.com", "pw", Args{Quiet: true}); err != nil {
		t.Fatalf("transient Me failure should not fail the login: %v", err)
	}
	if tok, ok := deps.Creds.Get(); !ok || tok != "tok-2" {
		t.Errorf("stored token = %q, %v; want tok-2, true", tok, ok)
	}
}
