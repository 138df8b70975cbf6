// FILE: combined_test.go
package sinklog

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingLogger wraps a text logger and fails selected operations
type failingLogger struct {
	*TextLogger
	failScope error
	failLog   error
	failClose error
}

func (f *failingLogger) BeginScope(state any) (io.Closer, error) {
	if f.failScope != nil {
		return nil, f.failScope
	}
	return f.TextLogger.BeginScope(state)
}

func (f *failingLogger) LogMessage(level Level, message string, eventID EventID, isException bool) error {
	if f.failLog != nil {
		return f.failLog
	}
	return f.TextLogger.LogMessage(level, message, eventID, isException)
}

func (f *failingLogger) Close() error {
	if err := f.TextLogger.Close(); err != nil {
		return err
	}
	return f.failClose
}

func TestCombinedFanOut(t *testing.T) {
	a, bufA := createTestTextLogger(t)
	b, bufB := createTestTextLogger(t)
	require.NoError(t, b.SetLevel(LevelWarn))

	c, err := Combine(a, b)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "CombinedLogger", c.Name())
	assert.False(t, c.Owns())
	assert.Len(t, c.Members(), 2)
	assert.Equal(t, LevelTrace, c.Level(), "lowest member level")

	require.NoError(t, c.Info("info"))
	require.NoError(t, c.Error("error"))
	require.NoError(t, c.WriteLine("raw"))

	assert.Equal(t, "INFO: info\nERROR: error\nraw\n", bufA.String())
	assert.Equal(t, "ERROR: error\nraw\n", bufB.String())

	require.NoError(t, c.SetLevel(LevelError))
	require.NoError(t, c.Warn("gated by combiner"))
	assert.NotContains(t, bufA.String(), "gated")

	// The combiner's auto-flush does not depend on its members
	require.NoError(t, a.SetAutoFlush(false))
	require.NoError(t, c.SetAutoFlush(true))
	assert.True(t, c.AutoFlush())
}

func TestCombinedScopes(t *testing.T) {
	a, bufA := createTestTextLogger(t)
	b, bufB := createTestTextLogger(t)
	c, err := Combine(a, b)
	require.NoError(t, err)
	defer c.Close()

	sc, err := c.BeginScope("batch")
	require.NoError(t, err)
	assert.True(t, c.HasScope())
	assert.True(t, a.HasScope())
	assert.True(t, b.HasScope())

	require.NoError(t, c.Info("work"))
	require.NoError(t, sc.Close())
	require.NoError(t, sc.Close())
	assert.False(t, c.HasScope())
	assert.False(t, a.HasScope())
	assert.False(t, b.HasScope())

	assert.Equal(t, "Scope: batch, INFO: work\n", bufA.String())
	assert.Equal(t, "Scope: batch, INFO: work\n", bufB.String())
}

func TestCombinedScopeRollback(t *testing.T) {
	a, _ := createTestTextLogger(t)
	inner, _ := createTestTextLogger(t)
	b := &failingLogger{TextLogger: inner, failScope: errors.New("no scopes")}

	c, err := Combine(a, b)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.BeginScope("x")
	assert.EqualError(t, err, "no scopes")
	assert.False(t, a.HasScope())
	assert.False(t, c.HasScope())
}

func TestCombinedFailFast(t *testing.T) {
	inner, bufA := createTestTextLogger(t)
	a := &failingLogger{TextLogger: inner, failLog: errors.New("first failed")}
	b, bufB := createTestTextLogger(t)

	c, err := Combine(a, b)
	require.NoError(t, err)
	defer c.Close()

	assert.EqualError(t, c.Info("x"), "first failed")
	assert.Empty(t, bufA.String())
	assert.Empty(t, bufB.String())
}

func TestCombinedOwnership(t *testing.T) {
	a, _ := createTestTextLogger(t)
	innerB, _ := createTestTextLogger(t)
	b := &failingLogger{TextLogger: innerB, failClose: errors.New("close failed")}
	d, _ := createTestTextLogger(t)

	owned, err := NewCombined([]Logger{a, b, d}, true)
	require.NoError(t, err)
	assert.True(t, owned.Owns())

	err = owned.Close()
	assert.EqualError(t, err, "close failed")
	assert.True(t, a.IsClosed())
	assert.True(t, innerB.IsClosed())
	assert.True(t, d.IsClosed(), "later members are closed after a failure")

	x, _ := createTestTextLogger(t)
	borrowing, err := Combine(x)
	require.NoError(t, err)
	require.NoError(t, borrowing.Close())
	assert.False(t, x.IsClosed())
}

func TestCombinedLocksMembers(t *testing.T) {
	a, bufA := createTestTextLogger(t)
	c, err := Combine(a)
	require.NoError(t, err)
	defer c.Close()

	c.Lock()
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, a.Info("direct"))
	}()

	select {
	case <-done:
		t.Fatal("member write completed while the combiner held the lock")
	case <-time.After(50 * time.Millisecond):
	}
	require.NoError(t, c.Info("combined"))
	c.Unlock()
	<-done

	assert.Equal(t, "INFO: combined\nINFO: direct\n", bufA.String())
}

func TestCombinedConcurrent(t *testing.T) {
	a, _ := createTestTextLogger(t)
	b, _ := createTestTextLogger(t)
	c, err := Combine(a, b)
	require.NoError(t, err)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, c.Info("combined"))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, b.Info("direct"))
			}
		}()
	}
	wg.Wait()
}

func TestCombinedInvalid(t *testing.T) {
	_, err := NewCombined(nil, false)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	a, _ := createTestTextLogger(t)
	_, err = Combine(a, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
