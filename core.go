// FILE: core.go
package sinklog

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/lixenwraith/sinklog/sanitizer"
)

// Core holds the state shared by every logger: level, auto-flush, disposal and
// scopes. Each public operation runs with the backend lock held.
type Core struct {
	b         backend
	level     atomic.Int64
	autoFlush atomic.Bool
	closing   atomic.Bool
	disposed  atomic.Bool
	scopes    *ScopeStack
}

func newCore(b backend) *Core {
	c := &Core{
		b:      b,
		scopes: NewScopeStack(),
	}
	c.level.Store(int64(DefaultLevel))
	c.autoFlush.Store(DefaultAutoFlush)
	return c
}

// checkDisposed fails once Close has started
func (c *Core) checkDisposed() error {
	if c.closing.Load() || c.disposed.Load() {
		return fmtErrorf("logger already closed: %w", ErrDisposed)
	}
	return nil
}

// acquire takes the lock for an operation on an open logger. Disposal is
// checked again under the lock since Close may finish while the caller waits.
func (c *Core) acquire() error {
	if err := c.checkDisposed(); err != nil {
		return err
	}
	c.Lock()
	if err := c.checkDisposed(); err != nil {
		c.Unlock()
		return err
	}
	return nil
}

// flushIfAuto must be called with the lock held
func (c *Core) flushIfAuto() error {
	if c.AutoFlush() {
		return c.b.flush()
	}
	return nil
}

// Lock acquires the logger lock. It is re-entrant for the holding goroutine.
func (c *Core) Lock() {
	c.b.Lock()
}

// Unlock releases one hold of the logger lock.
func (c *Core) Unlock() {
	c.b.Unlock()
}

// IsEnabled reports whether entries at level pass the current level gate.
// LevelNone is never enabled.
func (c *Core) IsEnabled(level Level) bool {
	return level >= c.Level() && level < LevelNone
}

// Level returns the current minimum level.
func (c *Core) Level() Level {
	return Level(c.level.Load())
}

// SetLevel changes the minimum level.
func (c *Core) SetLevel(level Level) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.Unlock()

	c.level.Store(int64(level))
	if o, ok := c.b.(levelObserver); ok {
		o.onLevelChanged(level)
	}
	return nil
}

// AutoFlush reports whether every entry is flushed after it is written.
func (c *Core) AutoFlush() bool {
	return c.autoFlush.Load()
}

// SetAutoFlush changes the auto-flush flag. Dependent loggers may reject enabling it.
func (c *Core) SetAutoFlush(enabled bool) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.Unlock()

	if v, ok := c.b.(autoFlushValidator); ok {
		if err := v.validateAutoFlush(enabled); err != nil {
			return err
		}
	}
	c.autoFlush.Store(enabled)
	if o, ok := c.b.(autoFlushObserver); ok {
		o.onAutoFlushChanged(enabled)
	}
	return nil
}

// HasScope reports whether any scope is active on this logger.
func (c *Core) HasScope() bool {
	c.Lock()
	defer c.Unlock()
	return c.scopes.Len() > 0
}

// Log renders state with format and writes the entry if level is enabled.
// A non-nil err marks the entry as an exception.
func (c *Core) Log(level Level, eventID EventID, state any, err error, format FormatFunc) error {
	if e := c.acquire(); e != nil {
		return e
	}
	defer c.Unlock()

	if !c.IsEnabled(level) {
		return nil
	}
	if e := c.b.logState(level, eventID, state, err, format); e != nil {
		return e
	}
	return c.flushIfAuto()
}

// LogMessage writes a ready message if level is enabled.
func (c *Core) LogMessage(level Level, message string, eventID EventID, isException bool) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.Unlock()

	if !c.IsEnabled(level) {
		return nil
	}
	if err := c.b.logMessage(level, message, eventID, isException); err != nil {
		return err
	}
	return c.flushIfAuto()
}

// Write passes text through without layout or level check.
func (c *Core) Write(text string) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.Unlock()

	if err := c.b.write(text); err != nil {
		return err
	}
	return c.flushIfAuto()
}

// WriteLine passes text and a newline through without layout or level check.
func (c *Core) WriteLine(text string) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.Unlock()

	if err := c.b.writeLine(text); err != nil {
		return err
	}
	return c.flushIfAuto()
}

// Flush pushes buffered output to the underlying sink.
func (c *Core) Flush() error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.Unlock()

	return c.b.flush()
}

// BeginScope attaches state to subsequent entries. Closing the returned handle
// removes the scope; closing it again is a no-op.
func (c *Core) BeginScope(state any) (io.Closer, error) {
	if state == nil {
		if err := c.checkDisposed(); err != nil {
			return nil, err
		}
		return nil, fmtErrorf("scope state cannot be nil: %w", ErrInvalidArgument)
	}
	if err := c.acquire(); err != nil {
		return nil, err
	}
	defer c.Unlock()

	if o, ok := c.b.(scopeOpener); ok {
		return o.openScope(state)
	}
	return c.pushScope(state), nil
}

// Close disposes the logger. Only the first call tears the backend down.
func (c *Core) Close() error {
	if !c.closing.CompareAndSwap(false, true) {
		return nil
	}
	c.Lock()
	defer c.Unlock()

	var err error
	if d, ok := c.b.(disposer); ok {
		err = d.dispose()
	}
	c.disposed.Store(true)
	return err
}

// IsClosed reports whether Close has been called.
func (c *Core) IsClosed() bool {
	return c.closing.Load()
}

// Trace logs args at trace level.
func (c *Core) Trace(args ...any) error {
	return c.LogMessage(LevelTrace, joinArgs(args), EventID{}, false)
}

// Debug logs args at debug level.
func (c *Core) Debug(args ...any) error {
	return c.LogMessage(LevelDebug, joinArgs(args), EventID{}, false)
}

// Info logs args at info level.
func (c *Core) Info(args ...any) error {
	return c.LogMessage(LevelInfo, joinArgs(args), EventID{}, false)
}

// Warn logs args at warning level.
func (c *Core) Warn(args ...any) error {
	return c.LogMessage(LevelWarn, joinArgs(args), EventID{}, false)
}

// Error logs args at error level.
func (c *Core) Error(args ...any) error {
	return c.LogMessage(LevelError, joinArgs(args), EventID{}, false)
}

// Critical logs args at critical level.
func (c *Core) Critical(args ...any) error {
	return c.LogMessage(LevelCritical, joinArgs(args), EventID{}, false)
}

// Exception logs err at error level as an exception entry.
func (c *Core) Exception(err error, args ...any) error {
	return c.Log(LevelError, EventID{}, joinArgs(args), err, DefaultFormat)
}

// pushScope must be called with the lock held
func (c *Core) pushScope(state any) *scopeHandle {
	s := c.scopes.Push(state)
	return &scopeHandle{core: c, id: s.id}
}

// scopeStrings must be called with the lock held
func (c *Core) scopeStrings() []string {
	return c.scopes.Strings()
}

type scopeHandle struct {
	core   *Core
	id     uint64
	closed atomic.Bool
}

// Close removes the scope from its logger
func (h *scopeHandle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	h.core.Lock()
	defer h.core.Unlock()
	h.core.scopes.Remove(h.id)
	return nil
}

// DefaultFormat renders state with fmt and appends the error text, if any.
func DefaultFormat(state any, err error) string {
	msg := ""
	if state != nil {
		msg = fmt.Sprint(state)
	}
	if err == nil {
		return msg
	}
	if msg == "" {
		return err.Error()
	}
	return msg + ": " + err.Error()
}

// joinArgs renders args space-separated; composite values show their fields
func joinArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = sanitizer.Dump(a)
	}
	return strings.Join(parts, " ")
}
