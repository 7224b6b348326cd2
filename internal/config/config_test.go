package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("RULES_REPO", "/work/repo")

	path := writeConfig(t, `
root:
  dir: "${RULES_REPO}"
  use_git: false

output:
  format: "json"
  color: "never"

watch:
  debounce: "2s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Root.Dir != "/work/repo" {
		t.Errorf("expected root.dir /work/repo, got %s", cfg.Root.Dir)
	}
	if cfg.GitEnabled() {
		t.Error("expected git to be disabled")
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("expected json format, got %s", cfg.Output.Format)
	}
	if cfg.Output.Color != ColorNever {
		t.Errorf("expected color never, got %s", cfg.Output.Color)
	}
	if cfg.DebounceDelay() != 2*time.Second {
		t.Errorf("expected 2s debounce, got %s", cfg.DebounceDelay())
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.GitEnabled() {
		t.Error("expected git enabled by default")
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("expected default format text, got %s", cfg.Output.Format)
	}
	if cfg.Output.Color != ColorAuto {
		t.Errorf("expected default color auto, got %s", cfg.Output.Color)
	}
	if cfg.DebounceDelay() != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %s", cfg.DebounceDelay())
	}
	if cfg.StartDir("/cwd") != "/cwd" {
		t.Errorf("expected fallback start dir, got %s", cfg.StartDir("/cwd"))
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "root: [unterminated\n"},
		{name: "unknown format", content: "output:\n  format: xml\n"},
		{name: "unknown color", content: "output:\n  color: rainbow\n"},
		{name: "bad debounce", content: "watch:\n  debounce: soon\n"},
		{name: "negative debounce", content: "watch:\n  debounce: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional returned error for missing file: %v", err)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	if _, err := LoadOptional(writeConfig(t, "output:\n  format: xml\n")); err == nil {
		t.Error("expected invalid config to still fail")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", "rulesguard", "config.yaml"); path != want {
		t.Errorf("DefaultPath() = %s, want %s", path, want)
	}
}

func TestValidate_DefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}
