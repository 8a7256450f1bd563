package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objman.yaml")
	writeFile(t, path, "log:\n  level: debug\nindex:\n  seed: 99\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Index.Seed != 99 {
		t.Errorf("Load() = %+v, expected level debug and seed 99", cfg)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Storage.DBPath != Default().Storage.DBPath || cfg.Index.RandomKeys != Default().Index.RandomKeys {
		t.Errorf("Load() lost defaults: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "log: [unterminated")

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.yaml")},
		{"malformed yaml", bad},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.path); err == nil {
				t.Errorf("Load(%s) succeeded, expected an error", tc.path)
			}
		})
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// Nothing on disk: embedded default, which matches Default().
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded default = %+v, expected %+v", cfg, Default())
	}

	writeFile(t, filepath.Join(work, "configs", "objman.yaml"), "log:\n  prefix: local\n")
	cfg, _ = Load("")
	if cfg.Log.Prefix != "local" {
		t.Errorf("prefix = %q, expected local config to apply", cfg.Log.Prefix)
	}

	writeFile(t, filepath.Join(home, ".objman", "config.yaml"), "log:\n  prefix: user\n")
	cfg, _ = Load("")
	if cfg.Log.Prefix != "user" {
		t.Errorf("prefix = %q, expected user config to win", cfg.Log.Prefix)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "warn", Prefix: "test"}, &buf)
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, expected warn", logger.GetLevel())
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected log output %q", out)
	}

	if _, err := NewLogger(LogConfig{Level: "loud"}, &buf); err == nil {
		t.Error("NewLogger() accepted an unknown level")
	}
}
