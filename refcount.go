// FILE: refcount.go
package sinklog

import (
	"io"
	"sync/atomic"
)

const refCountedName = "RefCountedLogger"

// RefCounted is a handle sharing one inner logger with its clones. The inner
// logger is closed exactly once, when the shared count drops to zero.
// Closing a handle releases its reference.
type RefCounted struct {
	*Core
	shared *refShared
}

type refShared struct {
	count atomic.Int64
	torn  atomic.Bool
	inner Logger
}

type refBackend struct {
	shared *refShared
}

// NewRefCounted wraps inner in a handle with a count of one.
func NewRefCounted(inner Logger) (*RefCounted, error) {
	if inner == nil {
		return nil, fmtErrorf("inner logger cannot be nil: %w", ErrInvalidArgument)
	}
	sh := &refShared{inner: inner}
	sh.count.Store(1)
	return newRefHandle(sh), nil
}

// Wrap is shorthand for NewRefCounted.
func Wrap(inner Logger) (*RefCounted, error) {
	return NewRefCounted(inner)
}

func newRefHandle(sh *refShared) *RefCounted {
	c := newCore(&refBackend{shared: sh})
	c.level.Store(int64(sh.inner.Level()))
	c.autoFlush.Store(sh.inner.AutoFlush())
	return &RefCounted{Core: c, shared: sh}
}

// Clone returns a new handle sharing the inner logger. It fails with
// ErrDisposed once the count has reached zero; the count is still incremented
// in that case.
func (r *RefCounted) Clone() (*RefCounted, error) {
	if r.IsClosed() {
		return nil, fmtErrorf("cannot clone a closed handle: %w", ErrDisposed)
	}
	if n := r.shared.count.Add(1); n <= 1 {
		return nil, fmtErrorf("cannot clone a released logger: %w", ErrDisposed)
	}
	return newRefHandle(r.shared), nil
}

// AddRef increments the shared count and returns the new value.
func (r *RefCounted) AddRef() int64 {
	return r.shared.count.Add(1)
}

// Release decrements the shared count and returns the new value, closing the
// inner logger when it reaches zero. The count never drops below zero.
func (r *RefCounted) Release() (int64, error) {
	return r.shared.release()
}

// RefCount returns the shared count.
func (r *RefCounted) RefCount() int64 {
	return r.shared.count.Load()
}

// Inner returns the shared logger.
func (r *RefCounted) Inner() Logger {
	return r.shared.inner
}

// HasScope reports whether the inner logger has an active scope.
func (r *RefCounted) HasScope() bool {
	return r.shared.inner.HasScope()
}

// Name returns the logger kind.
func (r *RefCounted) Name() string {
	return refCountedName
}

func (sh *refShared) release() (int64, error) {
	for {
		cur := sh.count.Load()
		if cur <= 0 {
			return cur, nil
		}
		if !sh.count.CompareAndSwap(cur, cur-1) {
			continue
		}
		if cur-1 == 0 && sh.torn.CompareAndSwap(false, true) {
			return 0, sh.inner.Close()
		}
		return cur - 1, nil
	}
}

func (b *refBackend) Lock() {
	b.shared.inner.Lock()
}

func (b *refBackend) Unlock() {
	b.shared.inner.Unlock()
}

func (b *refBackend) logMessage(level Level, message string, eventID EventID, isException bool) error {
	return b.shared.inner.LogMessage(level, message, eventID, isException)
}

func (b *refBackend) logState(level Level, eventID EventID, state any, err error, format FormatFunc) error {
	return b.shared.inner.Log(level, eventID, state, err, format)
}

func (b *refBackend) write(text string) error {
	return b.shared.inner.Write(text)
}

func (b *refBackend) writeLine(text string) error {
	return b.shared.inner.WriteLine(text)
}

func (b *refBackend) flush() error {
	return b.shared.inner.Flush()
}

func (b *refBackend) openScope(state any) (io.Closer, error) {
	return b.shared.inner.BeginScope(state)
}

func (b *refBackend) dispose() error {
	_, err := b.shared.release()
	return err
}

func (b *refBackend) validateAutoFlush(enabled bool) error {
	if enabled && !b.shared.inner.AutoFlush() {
		return fmtErrorf("auto-flush cannot be enabled while the inner logger does not auto-flush: %w", ErrInvalidConfiguration)
	}
	return nil
}
