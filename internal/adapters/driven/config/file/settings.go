// Package file loads persistent CLI settings from a TOML file.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
)

// DefaultFileName is the settings file looked up in the working directory
// and under the user config directory.
const DefaultFileName = "hearth.toml"

// Settings are the persistent knobs a user would otherwise repeat as flags
// on every invocation. Flags always win over the file.
type Settings struct {
	// OutputDir is the default directory for target documents and the
	// outcome store.
	OutputDir string `toml:"output_dir"`

	// EnginePath and WeatherDir locate the downstream simulation engine and
	// its weather resources. They are passed through to the engine's own
	// tooling; the translation pipeline never reads them.
	EnginePath string `toml:"engine_path"`
	WeatherDir string `toml:"weather_dir"`

	// Workers bounds the batch worker pool. Zero means use the default.
	Workers int `toml:"workers"`

	// Mode is the default translation mode.
	Mode string `toml:"mode"`

	// Logging.
	LogFile    string `toml:"log_file"`
	MaxSizeMB  int    `toml:"log_max_size_mb"`
	MaxBackups int    `toml:"log_max_backups"`
	MaxAgeDays int    `toml:"log_max_age_days"`
}

// Default returns settings with every field at its built-in default.
func Default() Settings {
	return Settings{
		OutputDir:  "output",
		Mode:       string(domain.ModeAsBuilt),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// Load reads settings from path. An empty path falls back to the default
// locations; a missing file is not an error and yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()

	if path == "" {
		path = locate()
		if path == "" {
			return s, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks field values without touching the filesystem.
func (s Settings) Validate() error {
	if s.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", s.Workers)
	}
	if s.Mode != "" && !domain.TranslationMode(s.Mode).IsValid() {
		return fmt.Errorf("unknown mode %q", s.Mode)
	}
	return nil
}

// locate returns the first settings file that exists, or "".
func locate() string {
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "hearth", DefaultFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
