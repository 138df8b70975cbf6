package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/sinklog"
)

const fasthttpSource = "fasthttp"

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps a sinklog.Logger to implement the fasthttp Logger interface
type FastHTTPAdapter struct {
	logger        sinklog.Logger
	defaultLevel  sinklog.Level
	levelDetector func(string) sinklog.Level // Function to detect log level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger sinklog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  sinklog.LevelInfo,
		levelDetector: DetectLogLevel, // Default level detection
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when detection finds nothing
func WithDefaultLevel(level sinklog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content.
// Returning LevelNone means no level was detected.
func WithLevelDetector(detector func(string) sinklog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != sinklog.LevelNone {
			level = detected
		}
	}

	emit(a.logger, level, fasthttpSource, msg, nil, false)
}

// DetectLogLevel attempts to detect log level from message content.
// It returns LevelNone when the message carries no hint.
func DetectLogLevel(msg string) sinklog.Level {
	msgLower := strings.ToLower(msg)

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return sinklog.LevelError
	}

	// Check for warning indicators
	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return sinklog.LevelWarn
	}

	// Check for debug indicators
	if strings.Contains(msgLower, "debug") {
		return sinklog.LevelDebug
	}
	if strings.Contains(msgLower, "trace") {
		return sinklog.LevelTrace
	}

	return sinklog.LevelNone
}
