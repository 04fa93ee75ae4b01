// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/session"
)

func TestProfileDelete_ClearsCredential(t *testing.T) {
	var deleted bool
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = true
			json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
			return
		}
		json.NewEncoder(w).Encode(api.Identity{ID: "u1", Name: "Ana", Email: "ana@example.com"})
	})
	deps := newTestDeps(t, mux)
	deps.Creds.Set("tok-1")

	if err := profileDelete(deps, Args{Confirm: true, Quiet: true}); err != nil {
		t.Fatalf("profileDelete failed: %v", err)
	}
	if !deleted {
		t.Error("backend DELETE /auth/me was never called")
	}
	if _, ok := deps.Creds.Get(); ok {
		t.Error("credential must not outlive the account")
	}
	if deps.Resolver.Snapshot().State != session.StateAnonymous {
		t.Errorf("state = %v, want anonymous", deps.Resolver.Snapshot().State)
	}
}

func TestProfileUpdate_NeedsAField(t *testing.T) {
	deps := newTestDeps(t, http.NewServeMux())

	err := profileUpdate(deps, Args{Quiet: true})
	if err == nil {
		t.Fatal("update with no fields should fail")
	}
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("exit code = %d, want usage error", GetExitCode(err))
	}
}
