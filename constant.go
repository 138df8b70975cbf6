// FILE: constant.go
package sinklog

import (
	"strings"
	"time"
)

// Level orders log severities. LevelNone disables logging entirely.
type Level int

// Log level constants
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelNone
)

// Defaults shared by the file logger and the configuration layer
const (
	DefaultLevel              = LevelInfo
	DefaultAutoFlush          = true
	DefaultMaxSizeMB          = 500.0
	DefaultFreeSpaceThreshold = 0.1
	DefaultExtension          = "txt"
	DefaultAppName            = "UnknownApp"
)

// File monitor timings
const (
	defaultMonitorInterval    = 10 * time.Second
	defaultRetryInterval      = 10 * time.Second
	defaultSpaceCheckInterval = 3 * time.Second
	defaultStopTimeout        = 15 * time.Second
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Size multiplier for MB
	sizeMultiplier = 1024 * 1024
)

// File naming
const (
	fileTimeLayout   = "2006.01.02._15-04-05"
	markerTimeLayout = "2006-01-02 15:04:05 -07:00"
	haltedMarker     = " Stopped logging because of free space lower then threshold "
)

// String returns the canonical lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	case LevelNone:
		return "none"
	default:
		return "unknown"
	}
}

// Header returns the text written in front of every entry of this level.
// LevelNone and unknown levels have no header.
func (l Level) Header() string {
	switch l {
	case LevelTrace:
		return "TRACE: "
	case LevelDebug:
		return "DEBUG: "
	case LevelInfo:
		return "INFO: "
	case LevelWarn:
		return "WARN: "
	case LevelError:
		return "ERROR: "
	case LevelCritical:
		return "CRIT: "
	default:
		return ""
	}
}

// ParseLevel converts a level name to its Level value.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "information":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "critical", "crit":
		return LevelCritical, nil
	case "none":
		return LevelNone, nil
	default:
		return LevelNone, fmtErrorf("invalid level string: '%s' (use trace, debug, info, warn, error, critical, none): %w", levelStr, ErrInvalidArgument)
	}
}
