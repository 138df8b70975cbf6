// FILE: utility_test.go
package sinklog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"Information", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"crit", LevelCritical, false},
		{"critical", LevelCritical, false},
		{"none", LevelNone, false},
		{"invalid", LevelNone, true},
		{"", LevelNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelText(t *testing.T) {
	assert.Equal(t, "TRACE: ", LevelTrace.Header())
	assert.Equal(t, "DEBUG: ", LevelDebug.Header())
	assert.Equal(t, "INFO: ", LevelInfo.Header())
	assert.Equal(t, "WARN: ", LevelWarn.Header())
	assert.Equal(t, "ERROR: ", LevelError.Header())
	assert.Equal(t, "CRIT: ", LevelCritical.Header())
	assert.Equal(t, "", LevelNone.Header())

	for l := LevelTrace; l <= LevelNone; l++ {
		parsed, err := ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}
	assert.Equal(t, "unknown", Level(42).String())
}

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Equal(t, "sinklog: test error: details", err.Error())

	err = fmtErrorf("sinklog: already prefixed")
	assert.Equal(t, "sinklog: already prefixed", err.Error())

	err = fmtErrorf("closed: %w", ErrDisposed)
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("one")
	e2 := errors.New("two")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, e1, combineErrors(e1, nil))
	assert.Equal(t, e2, combineErrors(nil, e2))

	both := combineErrors(e1, e2)
	assert.ErrorIs(t, both, e1)
	assert.ErrorIs(t, both, e2)
}
