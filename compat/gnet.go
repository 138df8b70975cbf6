package compat

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/sinklog"
)

const gnetSource = "gnet"

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps a sinklog.Logger to implement the gnet logging.Logger interface
type GnetAdapter struct {
	logger       sinklog.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger sinklog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	emit(a.logger, sinklog.LevelDebug, gnetSource, fmt.Sprintf(format, args...), nil, false)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	emit(a.logger, sinklog.LevelInfo, gnetSource, fmt.Sprintf(format, args...), nil, false)
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	emit(a.logger, sinklog.LevelWarn, gnetSource, fmt.Sprintf(format, args...), nil, false)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	emit(a.logger, sinklog.LevelError, gnetSource, fmt.Sprintf(format, args...), nil, false)
}

// Fatalf logs at critical level and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	emit(a.logger, sinklog.LevelCritical, gnetSource, msg, nil, false)

	// Ensure log is flushed before exit
	_ = a.logger.Flush()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
