// Package config loads optional extraction settings from a TOML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config : extraction settings. Command-line flags take precedence.
type Config struct {
	Root        string `toml:"root"`
	DryRun      bool   `toml:"dry_run"`
	Compression string `toml:"compression"`
	Confine     bool   `toml:"confine"`
	Progress    bool   `toml:"progress"`
	LogLevel    string `toml:"log_level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Root:        ".",
		Compression: "auto",
		LogLevel:    "warn",
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	cfgBytes, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(cfgBytes, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseLevel maps a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", s)
	}
}
