package compat

import (
	"fmt"
	"os"
	"strings"

	"github.com/lixenwraith/sinklog"
)

const fiberSource = "fiber"

// FiberAdapter wraps a sinklog.Logger to implement Fiber's AllLogger method set
// (plain, formatted and key/value variants) without importing Fiber.
type FiberAdapter struct {
	logger       sinklog.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
	panicHandler func(msg string) // Customizable panic behavior
}

// NewFiberAdapter creates a new Fiber-compatible logger adapter
func NewFiberAdapter(logger sinklog.Logger, opts ...FiberOption) *FiberAdapter {
	adapter := &FiberAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior
		},
		panicHandler: func(msg string) {
			panic(msg) // Default behavior
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FiberOption allows customizing adapter behavior
type FiberOption func(*FiberAdapter)

// WithFiberFatalHandler sets a custom fatal handler
func WithFiberFatalHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.fatalHandler = handler
	}
}

// WithFiberPanicHandler sets a custom panic handler
func WithFiberPanicHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.panicHandler = handler
	}
}

func (a *FiberAdapter) log(level sinklog.Level, msg string, keysAndValues []any) {
	emit(a.logger, level, fiberSource, msg, keyValues(keysAndValues), false)
}

// terminate logs msg at critical level, flushes and hands over to handler
func (a *FiberAdapter) terminate(msg string, keysAndValues []any, handler func(string)) {
	a.log(sinklog.LevelCritical, msg, keysAndValues)
	_ = a.logger.Flush()
	if handler != nil {
		handler(msg)
	}
}

// --- Plain variants ---

func (a *FiberAdapter) Trace(v ...any) { a.log(sinklog.LevelTrace, fmt.Sprint(v...), nil) }
func (a *FiberAdapter) Debug(v ...any) { a.log(sinklog.LevelDebug, fmt.Sprint(v...), nil) }
func (a *FiberAdapter) Info(v ...any)  { a.log(sinklog.LevelInfo, fmt.Sprint(v...), nil) }
func (a *FiberAdapter) Warn(v ...any)  { a.log(sinklog.LevelWarn, fmt.Sprint(v...), nil) }
func (a *FiberAdapter) Error(v ...any) { a.log(sinklog.LevelError, fmt.Sprint(v...), nil) }

// Fatal logs at critical level and triggers the fatal handler
func (a *FiberAdapter) Fatal(v ...any) { a.terminate(fmt.Sprint(v...), nil, a.fatalHandler) }

// Panic logs at critical level and triggers the panic handler
func (a *FiberAdapter) Panic(v ...any) { a.terminate(fmt.Sprint(v...), nil, a.panicHandler) }

// Write makes FiberAdapter an io.Writer for Fiber's output redirection.
// Each write becomes one info entry.
func (a *FiberAdapter) Write(p []byte) (n int, err error) {
	a.log(sinklog.LevelInfo, strings.TrimSuffix(string(p), "\n"), nil)
	return len(p), nil
}

// --- Formatted variants ---

func (a *FiberAdapter) Tracef(format string, v ...any) {
	a.log(sinklog.LevelTrace, fmt.Sprintf(format, v...), nil)
}

func (a *FiberAdapter) Debugf(format string, v ...any) {
	a.log(sinklog.LevelDebug, fmt.Sprintf(format, v...), nil)
}

func (a *FiberAdapter) Infof(format string, v ...any) {
	a.log(sinklog.LevelInfo, fmt.Sprintf(format, v...), nil)
}

func (a *FiberAdapter) Warnf(format string, v ...any) {
	a.log(sinklog.LevelWarn, fmt.Sprintf(format, v...), nil)
}

func (a *FiberAdapter) Errorf(format string, v ...any) {
	a.log(sinklog.LevelError, fmt.Sprintf(format, v...), nil)
}

func (a *FiberAdapter) Fatalf(format string, v ...any) {
	a.terminate(fmt.Sprintf(format, v...), nil, a.fatalHandler)
}

func (a *FiberAdapter) Panicf(format string, v ...any) {
	a.terminate(fmt.Sprintf(format, v...), nil, a.panicHandler)
}

// --- Key/value variants; pairs are attached as an entry scope ---

func (a *FiberAdapter) Tracew(msg string, keysAndValues ...any) {
	a.log(sinklog.LevelTrace, msg, keysAndValues)
}

func (a *FiberAdapter) Debugw(msg string, keysAndValues ...any) {
	a.log(sinklog.LevelDebug, msg, keysAndValues)
}

func (a *FiberAdapter) Infow(msg string, keysAndValues ...any) {
	a.log(sinklog.LevelInfo, msg, keysAndValues)
}

func (a *FiberAdapter) Warnw(msg string, keysAndValues ...any) {
	a.log(sinklog.LevelWarn, msg, keysAndValues)
}

func (a *FiberAdapter) Errorw(msg string, keysAndValues ...any) {
	a.log(sinklog.LevelError, msg, keysAndValues)
}

func (a *FiberAdapter) Fatalw(msg string, keysAndValues ...any) {
	a.terminate(msg, keysAndValues, a.fatalHandler)
}

func (a *FiberAdapter) Panicw(msg string, keysAndValues ...any) {
	a.terminate(msg, keysAndValues, a.panicHandler)
}
