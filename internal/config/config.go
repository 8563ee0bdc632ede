// Package config handles reading and writing ~/.reflex/config.yaml and the
// REFLEX_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/naveenspark/reflex/internal/results"
	"github.com/naveenspark/reflex/pkg/kv"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	Keys    results.Keys  `yaml:"keys"`
	Arena   ArenaConfig   `yaml:"arena"`
	Debug   bool          `yaml:"debug" env:"REFLEX_DEBUG"`
}

// StorageConfig selects where result logs live.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"REFLEX_STORAGE"` // "file" | "sqlite" | "memory"
	DataDir string `yaml:"data_dir" env:"REFLEX_DATA_DIR"`
}

// ArenaConfig is the play area geometry in arena units.
type ArenaConfig struct {
	Size       float64 `yaml:"size" env:"REFLEX_ARENA"`
	TargetSize float64 `yaml:"target_size"`
}

const configFile = "config.yaml"

// DefaultDir returns ~/.reflex.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".reflex"), nil
}

// DefaultConfig returns a Config populated with sensible defaults. dir is the
// data directory.
func DefaultConfig(dir string) *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			Backend: kv.BackendFile,
			DataDir: dir,
		},
		Keys: results.DefaultKeys(),
		Arena: ArenaConfig{
			Size:       340,
			TargetSize: 32,
		},
	}
}

// Load reads dir/config.yaml over the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.fill(dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write writes cfg to dir/config.yaml, creating dir if needed.
func Write(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case kv.BackendFile, kv.BackendSQLite, kv.BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Arena.TargetSize <= 0 || c.Arena.Size <= c.Arena.TargetSize {
		return fmt.Errorf("config: arena size %.0f must exceed target size %.0f", c.Arena.Size, c.Arena.TargetSize)
	}
	if c.Keys.Solo == "" || c.Keys.Duo == "" || c.Keys.Solo == c.Keys.Duo {
		return errors.New("config: solo and duo keys must be set and distinct")
	}
	return nil
}

// StoragePath is the path handed to kv.Open for the configured backend.
func (c *Config) StoragePath() string {
	switch c.Storage.Backend {
	case kv.BackendSQLite:
		return filepath.Join(c.Storage.DataDir, "reflex.db")
	case kv.BackendMemory:
		return ""
	}
	return filepath.Join(c.Storage.DataDir, "results")
}

// LogPath is where debug logs are written.
func (c *Config) LogPath() string {
	return filepath.Join(c.Storage.DataDir, "reflex.log")
}

// fill restores defaults for fields a partial config file left empty.
func (c *Config) fill(dir string) {
	def := DefaultConfig(dir)
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = dir
	}
	if c.Keys.Solo == "" {
		c.Keys.Solo = def.Keys.Solo
	}
	if c.Keys.Duo == "" {
		c.Keys.Duo = def.Keys.Duo
	}
	if c.Keys.Profile == "" {
		c.Keys.Profile = def.Keys.Profile
	}
	if c.Arena.Size == 0 {
		c.Arena.Size = def.Arena.Size
	}
	if c.Arena.TargetSize == 0 {
		c.Arena.TargetSize = def.Arena.TargetSize
	}
}
