// FILE: file_test.go
package sinklog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileLogger creates a file logger in a temp dir that ignores free space
func createTestFileLogger(t *testing.T) (*FileLogger, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Directory = dir
	cfg.FreeSpaceThreshold = 0
	cfg.ShowTimestamp = false
	cfg.MonitorIntervalMs = 20
	cfg.StopTimeoutMs = 2000

	logger, err := NewFileLogger(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })
	return logger, dir
}

func TestFileLogger(t *testing.T) {
	logger, dir := createTestFileLogger(t)

	assert.Equal(t, "FileLogger", logger.Name())
	assert.Equal(t, LevelInfo, logger.Level())
	assert.True(t, logger.AutoFlush())

	require.NoError(t, logger.Debug("hidden"))
	require.NoError(t, logger.Info("visible"))
	require.NoError(t, logger.Exception(os.ErrPermission, "open failed"))
	require.NoError(t, logger.WriteLine("raw"))

	path := logger.Stream().Path()
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".txt"))
	assert.Equal(t,
		"INFO: visible\nERROR: EXCEPTION OCCURED. open failed: permission denied\nraw\n",
		readFile(t, path))
}

func TestFileLoggerBuffered(t *testing.T) {
	logger, _ := createTestFileLogger(t)
	require.NoError(t, logger.SetAutoFlush(false))

	require.NoError(t, logger.Info("pending"))
	assert.Empty(t, readFile(t, logger.Stream().Path()))

	require.NoError(t, logger.Flush())
	assert.Equal(t, "INFO: pending\n", readFile(t, logger.Stream().Path()))
}

func TestFileLoggerCloseFlushes(t *testing.T) {
	logger, _ := createTestFileLogger(t)
	require.NoError(t, logger.SetAutoFlush(false))
	require.NoError(t, logger.Warn("last words"))
	path := logger.Stream().Path()

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
	assert.Equal(t, "WARN: last words\n", readFile(t, path))

	_, err := logger.Stream().WriteString("x")
	assert.ErrorIs(t, err, ErrDisposed)
	assert.ErrorIs(t, logger.Info("x"), ErrDisposed)
}

func TestFileLoggerOverride(t *testing.T) {
	logger, _ := createTestFileLogger(t)

	require.NoError(t, logger.ApplyOverride("level=debug", "auto_flush=false", "free_space_threshold=0.01"))
	assert.Equal(t, LevelDebug, logger.Level())
	assert.False(t, logger.AutoFlush())
	assert.Equal(t, 0.01, logger.Stream().FreeSpaceThreshold())

	cfg := logger.Config()
	assert.Equal(t, "debug", cfg.Level)
	assert.False(t, cfg.AutoFlush)

	err := logger.ApplyOverride("directory=/elsewhere")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	err = logger.ApplyOverride("free_space_threshold=7")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, 0.01, logger.Stream().FreeSpaceThreshold())
}

func TestCreateFileLogger(t *testing.T) {
	dir := t.TempDir()
	logger, err := CreateFileLogger(dir, 1, 0)
	require.NoError(t, err)
	defer logger.Close()

	cfg := logger.Config()
	assert.Equal(t, dir, cfg.Directory)
	assert.Equal(t, 1.0, cfg.MaxSizeMB)
	assert.Equal(t, int64(1024*1024), logger.Stream().MaxSize())

	_, err = CreateFileLogger(dir, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = CreateFileLogger(dir, 1, 1.5)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestDefaultLogDirectory(t *testing.T) {
	dir := DefaultLogDirectory("billing")
	assert.Equal(t, "logs", filepath.Base(dir))
	assert.Equal(t, "billing", filepath.Base(filepath.Dir(dir)))

	assert.Equal(t, DefaultAppName, filepath.Base(filepath.Dir(DefaultLogDirectory(""))))
}
