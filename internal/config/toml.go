package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig is the lunarcal CLI config file.
type FileConfig struct {
	Display DisplayConfig `toml:"display"`
}

// DisplayConfig holds output defaults. Nil fields were not set in the file.
type DisplayConfig struct {
	Lang  *string `toml:"lang"`
	Color *bool   `toml:"color"`
	// Weekday labels above the grid, Sunday first.
	Weekdays []string `toml:"weekdays"`
}

// LangOr returns the configured language, or fallback when unset.
func (d DisplayConfig) LangOr(fallback string) string {
	if d.Lang == nil || *d.Lang == "" {
		return fallback
	}
	return *d.Lang
}

// ColorOr returns the configured color switch, or fallback when unset.
func (d DisplayConfig) ColorOr(fallback bool) bool {
	if d.Color == nil {
		return fallback
	}
	return *d.Color
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}

	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("decode config: unknown key %q", undecoded[0].String())
	}

	if l := cfg.Display.Lang; l != nil && *l != "" && *l != LangChinese && *l != LangEnglish {
		return FileConfig{}, fmt.Errorf("decode config: display.lang must be zh or en, got %q", *l)
	}
	if n := len(cfg.Display.Weekdays); n != 0 && n != 7 {
		return FileConfig{}, fmt.Errorf("decode config: display.weekdays needs 7 labels, got %d", n)
	}

	return cfg, nil
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default lunarcal config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "lunarcal", "config.toml")
}
