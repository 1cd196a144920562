// Package config loads the app settings from a TOML file in the data
// directory, writing a commented default file on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings are the tunables of the studio core.
type Settings struct {
	GridSize     float64 `toml:"grid_size"`     // snap grid in canvas units
	Gutter       float64 `toml:"gutter"`        // minimum space between placed elements
	FrameMs      int     `toml:"frame_ms"`      // style-write coalescing window
	HistoryLimit int     `toml:"history_limit"` // undo entries kept per token set
	AutosaveCron string  `toml:"autosave_cron"` // cron spec for periodic snapshot saves
	ThemeFile    string  `toml:"theme_file"`    // watched theme export, relative to data dir
	ElementW     float64 `toml:"element_width"` // default size for new elements
	ElementH     float64 `toml:"element_height"`
}

const defaultConfigTOML = `# Studio settings
# Remove a key to fall back to its built-in default.

grid_size = 30.0
gutter = 60.0
frame_ms = 16
history_limit = 100
autosave_cron = "@every 1m"
theme_file = "theme.json"
element_width = 300.0
element_height = 200.0
`

// Default returns the built-in settings.
func Default() Settings {
	var s Settings
	// The embedded default file is the single source of truth.
	if _, err := toml.Decode(defaultConfigTOML, &s); err != nil {
		panic(fmt.Sprintf("config: default TOML is invalid: %v", err))
	}
	return s
}

// Load reads settings from dir/config.toml. A missing file is created from
// the default template first, so users always have something to edit. Any
// read or parse failure degrades to the defaults with the error returned
// for logging.
func Load(dir string) (Settings, error) {
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Default(), fmt.Errorf("create config dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTOML), 0644); err != nil {
			return Default(), fmt.Errorf("write default config: %w", err)
		}
	}

	s := Default()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return s.sanitized(), nil
}

// sanitized clamps nonsensical values back to the defaults; configuration
// mistakes must not break interactive editing.
func (s Settings) sanitized() Settings {
	d := Default()
	if s.GridSize <= 0 {
		s.GridSize = d.GridSize
	}
	if s.Gutter <= 0 {
		s.Gutter = d.Gutter
	}
	if s.FrameMs <= 0 {
		s.FrameMs = d.FrameMs
	}
	if s.HistoryLimit <= 0 {
		s.HistoryLimit = d.HistoryLimit
	}
	if s.ThemeFile == "" {
		s.ThemeFile = d.ThemeFile
	}
	if s.ElementW <= 0 {
		s.ElementW = d.ElementW
	}
	if s.ElementH <= 0 {
		s.ElementH = d.ElementH
	}
	return s
}
