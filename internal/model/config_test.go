package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Server.URL != "http://localhost:8000" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	if cfg.Server.TimeoutSec != 15 {
		t.Errorf("Server.TimeoutSec = %d", cfg.Server.TimeoutSec)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  url: https://tasks.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Server.URL != "https://tasks.example.com" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	// Unset keys fall back to defaults.
	if cfg.Server.TimeoutSec != 15 {
		t.Errorf("Server.TimeoutSec = %d, want default 15", cfg.Server.TimeoutSec)
	}
}

func TestLoadConfigInvalidTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  url: http://localhost:8000\n  timeout_sec: -5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Server.TimeoutSec != 15 {
		t.Errorf("Server.TimeoutSec = %d, want 15", cfg.Server.TimeoutSec)
	}
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &AppConfig{
		Server: ServerConfig{
			URL:        "http://backend:9000",
			TimeoutSec: 30,
		},
		Display: DisplayConfig{Theme: "dark"},
	}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got.Server.URL != want.Server.URL {
		t.Errorf("Server.URL = %q, want %q", got.Server.URL, want.Server.URL)
	}
	if got.Server.TimeoutSec != want.Server.TimeoutSec {
		t.Errorf("Server.TimeoutSec = %d, want %d",
			got.Server.TimeoutSec, want.Server.TimeoutSec)
	}
	if got.Display.Theme != want.Display.Theme {
		t.Errorf("Display.Theme = %q, want %q",
			got.Display.Theme, want.Display.Theme)
	}
}
