package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pypup", "config.yaml")

	_, err := Load(path)
	if !errors.Is(err, ErrTemplateCreated) {
		t.Fatalf("expected ErrTemplateCreated, got %v", err)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("template was not written: %v", readErr)
	}
	if !strings.Contains(string(data), "user:") || !strings.Contains(string(data), "lowercase:") {
		t.Errorf("template missing expected fields:\n%s", data)
	}
}

func TestLoadValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `user: someone
lowercase:
  - MarkupSafe
  - Pygments
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.User != "someone" {
		t.Errorf("User = %q, want someone", cfg.User)
	}
	if len(cfg.Lowercase) != 2 || cfg.Lowercase[0] != "MarkupSafe" {
		t.Errorf("Lowercase = %v", cfg.Lowercase)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("user: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestLoadMissingUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("lowercase: []\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrMissingUser) {
		t.Errorf("expected ErrMissingUser, got %v", err)
	}
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() returned error: %v", err)
	}
	if path != filepath.Join("/tmp/xdg-test", "pypup", "config.yaml") {
		t.Errorf("DefaultPath() = %q", path)
	}
}

func TestOverridesPath(t *testing.T) {
	got := OverridesPath("/home/x/.config/pypup/config.yaml")
	want := "/home/x/.config/pypup/packages.toml"
	if got != want {
		t.Errorf("OverridesPath() = %q, want %q", got, want)
	}
}
