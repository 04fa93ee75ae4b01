// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate cleanly: %v", err)
	}
}

func TestSetDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Backend.URL != "http://127.0.0.1:5000" {
		t.Errorf("Backend.URL = %q, want default", cfg.Backend.URL)
	}
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("Backend.TimeoutSecs = %d, want 30", cfg.Backend.TimeoutSecs)
	}
	if cfg.Chat.TopK != 5 {
		t.Errorf("Chat.TopK = %d, want 5", cfg.Chat.TopK)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("UI.Theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestSetDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Backend.URL = "https://docs.example.com"
	cfg.Chat.TopK = 12
	cfg.SetDefaults()

	if cfg.Backend.URL != "https://docs.example.com" {
		t.Errorf("Backend.URL = %q, explicit value clobbered", cfg.Backend.URL)
	}
	if cfg.Chat.TopK != 12 {
		t.Errorf("Chat.TopK = %d, explicit value clobbered", cfg.Chat.TopK)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.Backend.URL = "not a url" }},
		{"bad scheme", func(c *Config) { c.Backend.URL = "ftp://x.example.com" }},
		{"negative timeout", func(c *Config) { c.Backend.TimeoutSecs = -1 }},
		{"bad theme", func(c *Config) { c.UI.Theme = "sepia" }},
		{"topk too small", func(c *Config) { c.Chat.TopK = 0 }},
		{"topk too large", func(c *Config) { c.Chat.TopK = 51 }},
		{"page size zero", func(c *Config) { c.History.PageSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should have rejected this config")
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DOCCHAT_BACKEND_URL", "http://staging.example.com:8080")
	t.Setenv("DOCCHAT_TOP_K", "7")
	t.Setenv("DOCCHAT_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.URL != "http://staging.example.com:8080" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Chat.TopK != 7 {
		t.Errorf("Chat.TopK = %d, want 7", cfg.Chat.TopK)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q, want light", cfg.UI.Theme)
	}
}

func TestApplyEnvOverrides_IgnoresGarbage(t *testing.T) {
	t.Setenv("DOCCHAT_TOP_K", "lots")
	t.Setenv("DOCCHAT_TIMEOUT_SECS", "-5")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Chat.TopK != 5 {
		t.Errorf("Chat.TopK = %d, garbage override applied", cfg.Chat.TopK)
	}
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("Backend.TimeoutSecs = %d, garbage override applied", cfg.Backend.TimeoutSecs)
	}
}

func TestGetSet_DotNotation(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("backend.url", "https://api.example.com"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := cfg.Get("backend.url")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "https://api.example.com" {
		t.Errorf("Get = %v, want the set value", got)
	}

	if err := cfg.Set("chat.top_k", "9"); err != nil {
		t.Fatalf("Set top_k: %v", err)
	}
	if cfg.Chat.TopK != 9 {
		t.Errorf("Chat.TopK = %d, want 9", cfg.Chat.TopK)
	}

	if err := cfg.Set("ui.compact_mode", "true"); err != nil {
		t.Fatalf("Set compact_mode: %v", err)
	}
	if !cfg.UI.CompactMode {
		t.Error("UI.CompactMode should be true")
	}
}

func TestGetSet_UnknownKey(t *testing.T) {
	cfg := Default()
	if _, err := cfg.Get("backend.password"); err == nil {
		t.Error("Get of unknown key should fail")
	}
	if err := cfg.Set("nope.nope", "x"); err == nil {
		t.Error("Set of unknown key should fail")
	}
}

func TestGetAllKeys_AllResolvable(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q): %v", key, err)
		}
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Backend.URL = "http://box.example.com:9000"
	cfg.Chat.TopK = 3
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file perms = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Backend.URL != cfg.Backend.URL {
		t.Errorf("URL = %q, want %q", loaded.Backend.URL, cfg.Backend.URL)
	}
	if loaded.Chat.TopK != 3 {
		t.Errorf("TopK = %d, want 3", loaded.Chat.TopK)
	}
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.UI.Theme = "light"
	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", loaded.UI.Theme)
	}
}

func TestLoadFromPath_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	partial := "[backend]\nurl = \"http://partial.example.com\"\n"
	if err := os.WriteFile(path, []byte(partial), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Backend.URL != "http://partial.example.com" {
		t.Errorf("URL = %q", cfg.Backend.URL)
	}
	if cfg.Chat.TopK != 5 {
		t.Errorf("TopK = %d, want default 5", cfg.Chat.TopK)
	}
}

func TestWatchDir_ReloadsOnWrite(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgDir := filepath.Join(home, ".docchat")
	if err := os.MkdirAll(cfgDir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	changes := make(chan *Config, 1)
	w, err := WatchDir(cfgDir, func(c *Config) {
		select {
		case changes <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("WatchDir: %v", err)
	}
	defer w.Close()

	cfg := Default()
	cfg.Chat.TopK = 11
	if err := SaveTOML(cfg, filepath.Join(cfgDir, "config.toml")); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	select {
	case got := <-changes:
		if got.Chat.TopK != 11 {
			t.Errorf("reloaded TopK = %d, want 11", got.Chat.TopK)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire")
	}
}
