// FILE: interface.go
package sinklog

import (
	"io"
)

// EventID identifies a log event. The zero value means "no event".
type EventID struct {
	ID   int
	Name string
}

// IsZero reports whether the event id carries no information.
func (e EventID) IsZero() bool {
	return e.ID == 0 && e.Name == ""
}

// FormatFunc renders a log state and its optional error into message text.
type FormatFunc func(state any, err error) string

// Lockable is implemented by anything that can be locked re-entrantly by the
// goroutine that already holds it.
type Lockable interface {
	Lock()
	Unlock()
}

// Logger is the contract shared by every logger in the package.
// All operations on a closed logger fail with ErrDisposed.
type Logger interface {
	Lockable
	io.Closer

	Log(level Level, eventID EventID, state any, err error, format FormatFunc) error
	LogMessage(level Level, message string, eventID EventID, isException bool) error
	Write(text string) error
	WriteLine(text string) error
	Flush() error

	// BeginScope attaches state to subsequent entries until the returned closer is closed.
	BeginScope(state any) (io.Closer, error)

	IsEnabled(level Level) bool
	Level() Level
	SetLevel(level Level) error
	AutoFlush() bool
	SetAutoFlush(enabled bool) error
	HasScope() bool
	Name() string
}

// backend performs the side effects of a Logger. Core calls it with the lock held.
type backend interface {
	Lockable
	logMessage(level Level, message string, eventID EventID, isException bool) error
	logState(level Level, eventID EventID, state any, err error, format FormatFunc) error
	write(text string) error
	writeLine(text string) error
	flush() error
}

// Optional backend hooks

type disposer interface {
	dispose() error
}

type scopeOpener interface {
	openScope(state any) (io.Closer, error)
}

type levelObserver interface {
	onLevelChanged(level Level)
}

type autoFlushObserver interface {
	onAutoFlushChanged(enabled bool)
}

type autoFlushValidator interface {
	validateAutoFlush(enabled bool) error
}
