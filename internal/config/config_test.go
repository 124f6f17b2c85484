package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.MaxPages != 9999 || cfg.Concurrency != 10 || cfg.PerHostRPS != 2 || cfg.RespectRobots {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestBuilderOverlayOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data, _ := json.Marshal(map[string]any{"max_pages": 50, "concurrency": 4})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := WithDefault().
		WithConfigFile(path).
		WithMaxPages(25).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.MaxPages != 25 {
		t.Errorf("expected CLI flag (25) to win over config file (50), got %d", cfg.MaxPages)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("expected config file value 4 to persist, got %d", cfg.Concurrency)
	}
}

func TestMissingConfigFileIsNotAnError(t *testing.T) {
	cfg, err := WithDefault().WithConfigFile(filepath.Join(t.TempDir(), "missing.json")).Build()
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.MaxPages != 9999 {
		t.Errorf("expected defaults to survive a missing config file, got %+v", cfg)
	}
}

func TestMalformedConfigFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	if _, err := WithDefault().WithConfigFile(path).Build(); err == nil {
		t.Error("expected malformed config file to surface an error from Build")
	}
}

func TestBuildRejectsInvalidMaxPages(t *testing.T) {
	if _, err := WithDefault().WithMaxPages(0).Build(); err != nil {
		t.Fatalf("WithMaxPages(0) should be ignored, leaving the default valid: %v", err)
	}

	b := WithDefault()
	b.cfg.MaxPages = 0
	if _, err := b.Build(); err == nil {
		t.Error("expected Build to reject max_pages < 1")
	}
}
