// FILE: default.go
package sinklog

import (
	"sync"
	"sync/atomic"
)

// loggerHolder gives atomic.Value one concrete type for every Logger
type loggerHolder struct {
	logger Logger
}

var (
	defaultLogger atomic.Value
	defaultOnce   sync.Once
)

// Default returns the process-wide logger, a console logger until replaced.
func Default() Logger {
	defaultOnce.Do(func() {
		if defaultLogger.Load() == nil {
			defaultLogger.Store(loggerHolder{logger: NewConsoleLogger()})
		}
	})
	return defaultLogger.Load().(loggerHolder).logger
}

// SetDefault installs l as the process-wide logger.
func SetDefault(l Logger) error {
	_, err := SwapDefault(l)
	return err
}

// SwapDefault installs l and returns the previous default. Concurrent swaps
// each replace a distinct logger. The previous logger is locked during the swap so no operation forwarded through a proxy
// observes the exchange half way. A Proxy cannot become the default.
func SwapDefault(l Logger) (Logger, error) {
	if l == nil {
		return nil, fmtErrorf("default logger cannot be nil: %w", ErrInvalidArgument)
	}
	if _, ok := l.(*Proxy); ok {
		return nil, fmtErrorf("a proxy cannot be the default logger: %w", ErrInvalidConfiguration)
	}

	for {
		prev := Default()
		prev.Lock()
		swapped := defaultLogger.CompareAndSwap(loggerHolder{logger: prev}, loggerHolder{logger: l})
		prev.Unlock()
		if swapped {
			return prev, nil
		}
	}
}
