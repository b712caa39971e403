// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads Glasspane's configuration.
//
// Configuration comes from a single YAML file named by either the
// GLASSPANE_CONFIG environment variable or the --config flag. There is
// no search path and no automatic discovery: a panel run with the same
// file behaves the same way everywhere. Environment variables never
// override file values; the only expansion performed is ${VAR} and
// ${VAR:-default} inside path fields, for portability.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the panel configuration.
type Config struct {
	// Connect configures the wire connection to a remote agent.
	Connect ConnectConfig `yaml:"connect"`

	// History configures local persistence of navigation state.
	History HistoryConfig `yaml:"history"`

	// Log configures diagnostic output.
	Log LogConfig `yaml:"log"`
}

// ConnectConfig configures the framed transport to a remote agent.
type ConnectConfig struct {
	// Address is the TCP address of the agent, host:port. Empty means
	// the panel runs in demo mode unless --connect overrides it.
	Address string `yaml:"address"`

	// Compression selects the frame compression: "zstd", "lz4", or
	// "none". Default: zstd.
	Compression string `yaml:"compression"`

	// CompressionThreshold is the payload size in bytes at which
	// frames are compressed. Zero means the built-in default.
	CompressionThreshold int `yaml:"compression_threshold"`
}

// HistoryConfig configures the navigation history database.
type HistoryConfig struct {
	// Path is the SQLite database file. Default:
	// ${HOME}/.cache/glasspane/history.db.
	Path string `yaml:"path"`

	// Disabled turns persistence off entirely.
	Disabled bool `yaml:"disabled"`
}

// LogConfig configures diagnostic output.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error". Default: info.
	Level string `yaml:"level"`

	// File is where log lines go. Empty means stderr. The panel's
	// terminal UI owns stdout, so logs never go there.
	File string `yaml:"file"`
}

// Default returns the configuration used before (and without) a file.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Connect: ConnectConfig{
			Compression: "zstd",
		},
		History: HistoryConfig{
			Path: filepath.Join(homeDir, ".cache", "glasspane", "history.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the file named by GLASSPANE_CONFIG. Unlike LoadFile it
// tolerates the variable being unset, returning defaults: the panel is
// fully usable without a config file.
func Load() (*Config, error) {
	path := os.Getenv("GLASSPANE_CONFIG")
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads one configuration file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	switch c.Connect.Compression {
	case "", "none", "lz4", "zstd":
	default:
		errs = append(errs, fmt.Errorf("connect.compression must be none, lz4, or zstd, not %q", c.Connect.Compression))
	}
	if c.Connect.CompressionThreshold < 0 {
		errs = append(errs, fmt.Errorf("connect.compression_threshold must not be negative"))
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn, or error, not %q", c.Log.Level))
	}

	if !c.History.Disabled && c.History.Path == "" {
		errs = append(errs, fmt.Errorf("history.path is required unless history is disabled"))
	}

	return errors.Join(errs...)
}

// EnsurePaths creates the directories the configuration points into.
func (c *Config) EnsurePaths() error {
	if c.History.Disabled || c.History.Path == "" {
		return nil
	}
	dir := filepath.Dir(c.History.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: creating %s: %w", dir, err)
	}
	return nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{"HOME": os.Getenv("HOME")}
	c.History.Path = expandVars(c.History.Path, vars)
	c.Log.File = expandVars(c.Log.File, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}
