package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Highlight {
		t.Error("Highlight should default to true")
	}
	if cfg.MaxHighlightBytes <= 0 {
		t.Error("MaxHighlightBytes should default to a positive limit")
	}
	if cfg.Theme.Comment == "" {
		t.Error("Theme.Comment should have a default color")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if !cfg.Highlight {
		t.Error("Highlight should default to true")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load of missing file error = %v", err)
	}
	if cfg.MaxHighlightBytes != Default().MaxHighlightBytes {
		t.Error("missing file should leave defaults intact")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glint.toml")
	data := `
highlight = false
max_highlight_bytes = 1024

[theme]
comment = "#123456"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.Highlight {
		t.Error("Highlight should be overridden to false")
	}
	if cfg.MaxHighlightBytes != 1024 {
		t.Errorf("MaxHighlightBytes = %d, want 1024", cfg.MaxHighlightBytes)
	}
	if cfg.Theme.Comment != "#123456" {
		t.Errorf("Theme.Comment = %q, want #123456", cfg.Theme.Comment)
	}
	// Untouched theme entries keep their defaults.
	if cfg.Theme.DoubleQuoted != Default().Theme.DoubleQuoted {
		t.Error("unset theme entries should keep defaults")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("highlight = [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed TOML should fail")
	}
}
