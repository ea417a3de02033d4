package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds optional launch settings read from gcompare.toml in the data
// directory. Every field has a working default; the file may be absent.
type Config struct {
	LogLevel       string `toml:"log_level"`
	GitBin         string `toml:"git_bin"`
	P4Bin          string `toml:"p4_bin"`
	SvnBin         string `toml:"svn_bin"`
	OpenDebounceMs int    `toml:"open_debounce_ms"`
	DisableUpdates bool   `toml:"disable_updates"`
	UpdateFeedURL  string `toml:"update_feed_url"`
}

func Default() Config {
	return Config{
		LogLevel:       "info",
		GitBin:         "git",
		P4Bin:          "p4",
		SvnBin:         "svn",
		OpenDebounceMs: 250,
	}
}

// Load reads dir/gcompare.toml over the defaults. A missing file is not an
// error; a malformed one is.
func Load(dir string) (Config, error) {
	cfg := Default()
	path := filepath.Join(dir, "gcompare.toml")
	// Unknown keys are tolerated so older builds can read newer files.
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.OpenDebounceMs <= 0 {
		cfg.OpenDebounceMs = Default().OpenDebounceMs
	}
	return cfg, nil
}

// Save writes the config back as TOML, creating the directory when needed.
func Save(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "gcompare.toml"))
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
