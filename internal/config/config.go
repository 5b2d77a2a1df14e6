// Package config loads and persists pwm's process-level configuration: the
// handful of preferences (such as which repository to operate on by
// default) that live outside any single repository's working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// fileName is the name of the config file inside its containing directory.
const fileName = "config.toml"

// Config is pwm's process-level configuration.
type Config struct {
	// DefaultRepository is the working directory used when a command is
	// invoked without an explicit --repository flag.
	DefaultRepository string `toml:"default_repository"`
}

// DefaultDir returns the directory pwm's configuration lives in,
// respecting $XDG_CONFIG_HOME and falling back to ~/.config/pwm.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "pwm"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pwm"), nil
}

// Load reads the config file from dir, returning a zero-valued Config if it
// doesn't exist yet.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, fileName)
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to dir, creating the directory if needed.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}

	path := filepath.Join(dir, fileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return nil
}
