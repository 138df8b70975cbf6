// FILE: builder_test.go
package sinklog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("chained settings", func(t *testing.T) {
		cfg, err := NewBuilder().
			Level(LevelDebug).
			AutoFlush(false).
			Directory("/var/log/app").
			Extension("log").
			MaxSizeKB(512).
			FreeSpaceThreshold(0.05).
			MonitorInterval(2 * time.Second).
			SpaceCheckInterval(0).
			StopTimeout(time.Second).
			TimestampFormat(time.RFC3339).
			ShowTimestamp(false).
			ShowLevel(false).
			Sanitize("raw").
			Config()
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Level)
		assert.False(t, cfg.AutoFlush)
		assert.Equal(t, "/var/log/app", cfg.Directory)
		assert.Equal(t, "log", cfg.Extension)
		assert.Equal(t, 0.5, cfg.MaxSizeMB)
		assert.Equal(t, 0.05, cfg.FreeSpaceThreshold)
		assert.Equal(t, int64(2000), cfg.MonitorIntervalMs)
		assert.Equal(t, int64(0), cfg.SpaceCheckIntervalMs)
		assert.Equal(t, int64(1000), cfg.StopTimeoutMs)
		assert.Equal(t, time.RFC3339, cfg.TimestampFormat)
		assert.False(t, cfg.ShowTimestamp)
		assert.False(t, cfg.ShowLevel)
		assert.Equal(t, "raw", cfg.Sanitize)
	})

	t.Run("invalid level string is kept until build", func(t *testing.T) {
		b := NewBuilder().LevelString("chatty").Directory(t.TempDir())
		_, err := b.Config()
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = b.Build()
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("from config copies", func(t *testing.T) {
		base := DefaultConfig()
		base.Level = "warn"
		cfg, err := FromConfig(base).MaxSizeMB(7).Config()
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Level)
		assert.Equal(t, 7.0, cfg.MaxSizeMB)
		assert.Equal(t, DefaultMaxSizeMB, base.MaxSizeMB)

		cfg, err = FromConfig(nil).Config()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("app directory", func(t *testing.T) {
		cfg, err := NewBuilder().AppDirectory("billing").Config()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("billing", "logs"), filepath.Join(filepath.Base(filepath.Dir(cfg.Directory)), filepath.Base(cfg.Directory)))
	})

	t.Run("build", func(t *testing.T) {
		dir := t.TempDir()
		logger, err := NewBuilder().
			Directory(dir).
			LevelString("debug").
			FreeSpaceThreshold(0).
			ShowTimestamp(false).
			Build()
		require.NoError(t, err)
		defer logger.Close()

		assert.Equal(t, LevelDebug, logger.Level())
		assert.Equal(t, dir, logger.Stream().Dir())
		require.NoError(t, logger.Debug("built"))
		assert.Equal(t, "DEBUG: built\n", readFile(t, logger.Stream().Path()))
	})

	t.Run("build invalid", func(t *testing.T) {
		_, err := NewBuilder().Directory(t.TempDir()).MaxSizeMB(-1).Build()
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("build shared", func(t *testing.T) {
		shared, err := NewBuilder().Directory(t.TempDir()).FreeSpaceThreshold(0).BuildShared()
		require.NoError(t, err)
		assert.Equal(t, int64(1), shared.RefCount())

		inner, ok := shared.Inner().(*FileLogger)
		require.True(t, ok)
		require.NoError(t, shared.Close())
		assert.True(t, inner.IsClosed())
	})
}
