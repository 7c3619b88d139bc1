package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factory.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
root = "out"
dry_run = true
compression = "xz"
confine = true
log_level = "debug"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Root:        "out",
		DryRun:      true,
		Compression: "xz",
		Confine:     true,
		Progress:    false,
		LogLevel:    "debug",
	}, cfg)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factory.toml")
	require.NoError(t, os.WriteFile(path, []byte("progress = true\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Progress)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, "auto", cfg.Compression)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.toml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("root = [unterminated"), 0644))
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		path := filepath.Join(dir, "level.toml")
		require.NoError(t, os.WriteFile(path, []byte(`log_level = "loud"`), 0644))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loud")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	require.Error(t, err)
}
