// FILE: config_test.go
package sinklog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.AutoFlush)
	assert.Empty(t, cfg.Directory)
	assert.Equal(t, "txt", cfg.Extension)
	assert.Equal(t, 500.0, cfg.MaxSizeMB)
	assert.Equal(t, 0.1, cfg.FreeSpaceThreshold)
	assert.Equal(t, int64(10000), cfg.MonitorIntervalMs)
	assert.Equal(t, int64(3000), cfg.SpaceCheckIntervalMs)
	assert.Equal(t, "line", cfg.Sanitize)
	require.NoError(t, cfg.Validate())

	cfg.Level = "debug"
	assert.Equal(t, "info", DefaultConfig().Level, "defaults are copied")
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.Level = "debug"
	cfg1.Directory = "/custom/path"

	cfg2 := cfg1.Clone()
	assert.Equal(t, cfg1.Directory, cfg2.Directory)

	cfg1.Level = "error"
	assert.Equal(t, "debug", cfg2.Level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"invalid level", func(c *Config) { c.Level = "loud" }, "invalid level"},
		{"empty extension", func(c *Config) { c.Extension = " " }, "extension cannot be empty"},
		{"extension with dot", func(c *Config) { c.Extension = ".log" }, "extension should not start with dot"},
		{"zero max size", func(c *Config) { c.MaxSizeMB = 0 }, "max_size_mb must be positive"},
		{"threshold above one", func(c *Config) { c.FreeSpaceThreshold = 1.01 }, "free_space_threshold must be between 0 and 1"},
		{"negative threshold", func(c *Config) { c.FreeSpaceThreshold = -0.5 }, "free_space_threshold must be between 0 and 1"},
		{"zero monitor interval", func(c *Config) { c.MonitorIntervalMs = 0 }, "interval settings must be positive"},
		{"negative space check", func(c *Config) { c.SpaceCheckIntervalMs = -1 }, "space_check_interval_ms cannot be negative"},
		{"empty timestamp format", func(c *Config) { c.TimestampFormat = "" }, "timestamp_format cannot be empty"},
		{"unknown sanitizer", func(c *Config) { c.Sanitize = "bleach" }, "invalid sanitize policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("save and load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "app.toml")
		cfg := DefaultConfig()
		cfg.Level = "debug"
		cfg.Directory = "/var/log/app"
		cfg.MaxSizeMB = 2.5
		cfg.StopTimeoutMs = 500
		cfg.ShowLevel = false
		require.NoError(t, cfg.SaveConfig(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "[log]")

		loaded, err := NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("hand written file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.toml")
		content := "[log]\nlevel = \"warn\"\nmax_size_mb = 50\nfree_space_threshold = 0.05\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Level)
		assert.Equal(t, 50.0, cfg.MaxSizeMB)
		assert.Equal(t, 0.05, cfg.FreeSpaceThreshold)
		assert.Equal(t, "txt", cfg.Extension)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[log]\nfree_space_threshold = 3.0\n"), 0644))

		_, err := NewConfigFromFile(path)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("save refuses invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Level = "nope"
		assert.ErrorIs(t, cfg.SaveConfig(filepath.Join(t.TempDir(), "x.toml")), ErrInvalidConfiguration)
	})
}

func TestConfigApplyOverride(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyOverride(
		"level=debug",
		"directory=/tmp/app",
		"max_size_mb=12.5",
		"space_check_interval_ms=0",
		"show_timestamp=false",
	))
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "/tmp/app", cfg.Directory)
	assert.Equal(t, 12.5, cfg.MaxSizeMB)
	assert.Equal(t, int64(0), cfg.SpaceCheckIntervalMs)
	assert.False(t, cfg.ShowTimestamp)

	before := *cfg
	err := cfg.ApplyOverride("level=error", "max_size_mb=big", "colour=red")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "multiple configuration errors")
	assert.Equal(t, before, *cfg, "failed overrides leave the config unchanged")

	err = cfg.ApplyOverride("free_space_threshold=2")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, before, *cfg)

	assert.Error(t, cfg.ApplyOverride("no-equals-sign"))
}
