package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dhamidi/parsecore/grammar"
	"gopkg.in/yaml.v3"
)

// defaultConfigFiles are tried in order when --config is not given.
var defaultConfigFiles = []string{".parsecore.toml", ".parsecore.yaml", ".parsecore.yml"}

// Config is the optional settings file of the command line tool.
type Config struct {
	// Color is one of auto, always or never.
	Color     string `toml:"color" yaml:"color"`
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	LogFile   string `toml:"log_file" yaml:"log_file"`
	// Workers bounds the number of files checked at once.
	Workers int `toml:"workers" yaml:"workers"`
	// Extensions maps file extensions to grammar names.
	Extensions map[string]string `toml:"extensions" yaml:"extensions"`
}

func defaultConfig() Config {
	return Config{Color: "auto", Workers: runtime.NumCPU()}
}

// loadConfig reads path, or the first default config file in dir when path
// is empty. A missing default file is not an error.
func loadConfig(path, dir string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		for _, name := range defaultConfigFiles {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format: %s (expected .toml, .yaml or .yml)", ext)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode: %s (expected auto, always or never)", c.Color)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	for ext, name := range c.Extensions {
		if _, ok := grammar.Lookup(name); !ok {
			return fmt.Errorf("extension %s: %w %q", ext, grammar.ErrUnknown, name)
		}
	}
	return nil
}

func (c Config) resolver() grammar.Resolver {
	return grammar.Resolver{Overrides: c.Extensions}
}
