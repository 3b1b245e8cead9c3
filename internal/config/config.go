// Package config loads viewer configuration from a TOML file. A missing
// file is not an error; defaults always produce a usable configuration.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Theme maps span categories to colors. Values are W3C color names or
// #rrggbb hex strings, resolved by the viewer.
type Theme struct {
	Neutral      string `toml:"neutral"`
	Comment      string `toml:"comment"`
	DoubleQuoted string `toml:"double_quoted"`
	SingleQuoted string `toml:"single_quoted"`
	URL          string `toml:"url"`
	URLInQuote   string `toml:"url_in_quote"`
}

// Config is the viewer configuration.
type Config struct {
	// Highlight enables syntax highlighting.
	Highlight bool `toml:"highlight"`

	// MaxHighlightBytes disables highlighting for documents larger than
	// this many bytes. Zero means no limit.
	MaxHighlightBytes int64 `toml:"max_highlight_bytes"`

	// Theme holds the span colors.
	Theme Theme `toml:"theme"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Highlight:         true,
		MaxHighlightBytes: 10 * 1024 * 1024,
		Theme: Theme{
			Comment:      "#b06000",
			DoubleQuoted: "#009000",
			SingleQuoted: "#00a000",
			URL:          "#0000e0",
			URLInQuote:   "#5050ff",
		},
	}
}

// Load reads configuration from path, layered over the defaults. A missing
// file returns the defaults with a nil error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
