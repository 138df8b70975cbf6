// FILE: integration_test.go
package sinklog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullLifecycle(t *testing.T) {
	tmpDir := t.TempDir()

	shared, err := NewBuilder().
		Directory(tmpDir).
		LevelString("debug").
		MaxSizeKB(1).
		FreeSpaceThreshold(0).
		MonitorInterval(20 * time.Millisecond).
		ShowTimestamp(false).
		BuildShared()
	require.NoError(t, err, "Logger creation with builder should succeed")
	require.NotNil(t, shared)

	mirror, mirrorBuf := createTestTextLogger(t)
	require.NoError(t, mirror.SetLevel(LevelDebug))

	handle, err := shared.Clone()
	require.NoError(t, err)
	combined, err := Combine(handle, mirror)
	require.NoError(t, err)

	installDefault(t, combined)
	proxy := NewDefaultProxy()

	// Log at various levels through the default proxy
	require.NoError(t, proxy.Trace("trace message"))
	require.NoError(t, proxy.Debug("debug message"))
	require.NoError(t, proxy.Info("info message"))

	sc, err := proxy.BeginScope(map[string]any{OriginalFormatKey: "order {Id}", "Id": 42})
	require.NoError(t, err)
	require.NoError(t, proxy.Warn("warning message"))
	require.NoError(t, sc.Close())

	require.NoError(t, proxy.Exception(fmt.Errorf("write failed"), "error message"))
	require.NoError(t, proxy.WriteLine("raw data write"))

	// Enough volume to force rotations at 1 KB
	for i := 0; i < 100; i++ {
		require.NoError(t, proxy.Info("filler", i, strings.Repeat("x", 40)))
	}
	assert.Eventually(t, func() bool {
		files, err := os.ReadDir(tmpDir)
		return err == nil && len(files) > 1
	}, 3*time.Second, 20*time.Millisecond, "rotation should create more files")

	mirrored := mirrorBuf.String()
	assert.NotContains(t, mirrored, "trace message")
	assert.Contains(t, mirrored, "DEBUG: debug message\n")
	assert.Contains(t, mirrored, "Scope: order 42, WARN: warning message\n")
	assert.Contains(t, mirrored, "ERROR: EXCEPTION OCCURED. error message: write failed\n")
	assert.Contains(t, mirrored, "raw data write\n")

	// Dropping the combined handle leaves the file logger alive for the original
	require.NoError(t, combined.Close())
	require.NoError(t, handle.Close())
	inner := shared.Inner().(*FileLogger)
	assert.False(t, inner.IsClosed())
	require.NoError(t, shared.Close())
	assert.True(t, inner.IsClosed())

	// Every entry reached one of the files
	var all strings.Builder
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	for _, e := range entries {
		all.WriteString(readFile(t, filepath.Join(tmpDir, e.Name())))
	}
	assert.Contains(t, all.String(), "DEBUG: debug message\n")
	assert.Equal(t, 100, strings.Count(all.String(), "INFO: filler"))
}

func TestConcurrentOperations(t *testing.T) {
	logger, _ := createTestFileLogger(t)

	var wg sync.WaitGroup

	// Concurrent logging, half of it scoped
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if j%2 == 0 {
					assert.NoError(t, logger.Info("worker", id, "log", j))
					continue
				}
				sc, err := logger.BeginScope(id)
				if assert.NoError(t, err) {
					assert.NoError(t, logger.Info("worker", id, "scoped", j))
					assert.NoError(t, sc.Close())
				}
			}
		}(i)
	}

	// Concurrent live reconfiguration
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 3; i++ {
			err := logger.ApplyOverride(fmt.Sprintf("auto_flush=%t", i%2 == 0))
			assert.NoError(t, err)
			time.Sleep(10 * time.Millisecond)
		}
	}()

	// Concurrent flushes
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			assert.NoError(t, logger.Flush())
			time.Sleep(5 * time.Millisecond)
		}
	}()

	wg.Wait()
	require.NoError(t, logger.Flush())

	content := readFile(t, logger.Stream().Path())
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	assert.Len(t, lines, 100)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "INFO: worker") || strings.HasPrefix(line, "Scope: "), "line %q", line)
	}
	assert.False(t, logger.HasScope())
}

func TestErrorRecovery(t *testing.T) {
	t.Run("unusable directory", func(t *testing.T) {
		parent := t.TempDir()
		blocker := filepath.Join(parent, "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		logger, err := NewBuilder().
			Directory(filepath.Join(blocker, "logs")).
			Build()

		assert.Error(t, err, "Should get an error for a directory below a file")
		assert.Nil(t, logger, "Logger should be nil on creation failure")
	})

	t.Run("disk full simulation", func(t *testing.T) {
		logger, _ := createTestFileLogger(t)

		// Any real volume has less than 100% free
		require.NoError(t, logger.ApplyOverride("free_space_threshold=1"))
		assert.False(t, logger.Stream().WriteEnabled())

		require.NoError(t, logger.Info("this log entry should be dropped"))
		assert.Eventually(t, func() bool {
			return strings.Contains(readFile(t, logger.Stream().Path()), haltedMarker)
		}, 2*time.Second, 10*time.Millisecond)
		assert.True(t, logger.Stream().Stopped())

		require.NoError(t, logger.ApplyOverride("free_space_threshold=0"))
		require.NoError(t, logger.Info("back again"))

		content := readFile(t, logger.Stream().Path())
		assert.NotContains(t, content, "should be dropped")
		assert.Contains(t, content, "Stopped logging because of free space lower then threshold 1\n")
		assert.True(t, strings.HasSuffix(content, "INFO: back again\n"))
	})
}
