package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	Store struct {
		Driver     string `yaml:"driver"`
		Dir        string `yaml:"dir"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`
	Save struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"save"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	UI struct {
		Color *bool `yaml:"color"`
	} `yaml:"ui"`
}

// Default is used when no config file exists.
func Default() Config {
	cfg := Config{}
	cfg.Store.Driver = DriverFile
	cfg.Log.Level = "warn"
	cfg.Log.Format = "text"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverFile
	}
	return cfg, nil
}

// DefaultPath is <user config dir>/multab/config.yaml, or empty when the
// platform has no config dir.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "multab", "config.yaml")
}

// SQLitePath is the configured database file, defaulting to multab.db in dir.
func (c Config) SQLitePath(dir string) string {
	if c.Store.SQLitePath != "" {
		return c.Store.SQLitePath
	}
	return filepath.Join(dir, "multab.db")
}

// Color reports whether ANSI colors are enabled; on unless set to false.
func (c Config) Color() bool {
	return c.UI.Color == nil || *c.UI.Color
}

// Duration parses a duration string or returns the fallback if empty.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
