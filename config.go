// Package rustanalyzer holds the project-level configuration shared by
// the CLI and the language server.
package rustanalyzer

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nitsky/rust-analyzer/completion"
)

// ErrConfigNotFound is returned when no config file exists between the
// starting directory and the filesystem root.
var ErrConfigNotFound = errors.New("config file not found")

// Config represents the .rust-analyzer.yaml configuration file.
type Config struct {
	// Completion settings, passed through to the engine
	Completion completion.Config `yaml:"completion"`

	// Log level for the language server ("debug", "info", "warn", "error")
	LogLevel string `yaml:"logLevel,omitempty"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Completion: completion.DefaultConfig(),
		LogLevel:   "info",
	}
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{
	".rust-analyzer.yaml",
	".rust-analyzer.yml",
	"rust-analyzer.yaml",
	"rust-analyzer.yml",
}

// LoadConfig finds and loads the nearest config file walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// LoadConfigOrDefault is LoadConfig, except a missing file yields the
// defaults instead of an error.
func LoadConfigOrDefault(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}

	return cfg, err
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path. Unset keys keep
// their default values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
