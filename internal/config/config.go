// Package config loads wheeltools settings from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/fakeyudi/wheeltools/internal/sliceutil"
)

// Config holds all configurable wheeltools settings.
type Config struct {
	// ScratchDir is where opened workspaces unpack.
	// Empty means the XDG data directory.
	ScratchDir string `toml:"scratch_dir"`
	// Exclude lists glob patterns left out of packed archives.
	Exclude []string `toml:"exclude"`
	// Compression is "deflate" or "store".
	Compression string `toml:"compression"`
	// LogLevel overrides the default log level.
	LogLevel string `toml:"log_level"`
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Compression: "deflate",
		Exclude:     []string{},
	}
}

// Store reports whether archives should be written uncompressed.
func (c Config) Store() bool {
	return c.Compression == "store"
}

// Validate rejects values the rest of the tool would choke on later.
func (c Config) Validate() error {
	switch c.Compression {
	case "", "deflate", "store":
	default:
		return fmt.Errorf("invalid compression %q (expected deflate or store)", c.Compression)
	}
	return nil
}

// GlobalPath returns the global config location:
// $XDG_CONFIG_HOME/wheeltools/config.toml or ~/.config/wheeltools/config.toml.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "wheeltools", "config.toml"), nil
}

// LoadGlobal reads the global config file.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .wheeltools.toml in dir.
// Returns nil (no error) if the file is absent.
func LoadProject(dir string) (*Config, error) {
	return loadFile(filepath.Join(dir, ".wheeltools.toml"), false)
}

// loadFile reads and parses a TOML config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
// Unknown keys are rejected so typos surface instead of silently doing
// nothing.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		var parseErr toml.ParseError
		if errors.As(err, &parseErr) {
			return nil, &ParseError{Path: path, Err: err}
		}
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unknown key %q", undecoded[0].String())}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence
// for scalar settings. Exclude patterns union across both files in
// first-seen order.
func Merge(global, project *Config) Config {
	result := Defaults()

	// Apply global values over defaults.
	if global != nil {
		if global.ScratchDir != "" {
			result.ScratchDir = global.ScratchDir
		}
		if global.Compression != "" {
			result.Compression = global.Compression
		}
		if global.LogLevel != "" {
			result.LogLevel = global.LogLevel
		}
		result.Exclude = append(result.Exclude, global.Exclude...)
	}

	// Apply project values over global.
	if project != nil {
		if project.ScratchDir != "" {
			result.ScratchDir = project.ScratchDir
		}
		if project.Compression != "" {
			result.Compression = project.Compression
		}
		if project.LogLevel != "" {
			result.LogLevel = project.LogLevel
		}
		result.Exclude = append(result.Exclude, project.Exclude...)
	}

	result.Exclude = sliceutil.UniqueByIndex(result.Exclude)
	return result
}

// ParseError is returned when a config file exists but cannot be used.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
