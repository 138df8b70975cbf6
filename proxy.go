// FILE: proxy.go
package sinklog

import (
	"io"
	"sync"
)

const (
	proxyName        = "LoggerProxy"
	defaultProxyName = "DefaultLoggerProxy"
)

// Proxy forwards every operation to the logger returned by its resolver at
// call time. Its own level starts at LevelTrace so gating is left to the target.
type Proxy struct {
	*Core
	fwd  *proxyBackend
	name string
}

// proxyBackend pins the target resolved at Lock time for the locking
// goroutine, so a swap of the default between Lock and Unlock cannot split
// one operation across two loggers.
type proxyBackend struct {
	resolve func() Logger
	mu      sync.Mutex
	held    map[uint64][]Logger
}

// NewProxy creates a proxy over resolve.
func NewProxy(resolve func() Logger) (*Proxy, error) {
	if resolve == nil {
		return nil, fmtErrorf("proxy resolver cannot be nil: %w", ErrInvalidArgument)
	}
	return newProxy(resolve, proxyName), nil
}

// NewDefaultProxy creates a proxy that always targets the current Default logger.
// It cannot itself be installed as the default.
func NewDefaultProxy() *Proxy {
	return newProxy(Default, defaultProxyName)
}

func newProxy(resolve func() Logger, name string) *Proxy {
	b := &proxyBackend{resolve: resolve, held: make(map[uint64][]Logger)}
	c := newCore(b)
	c.level.Store(int64(LevelTrace))
	c.autoFlush.Store(false)
	return &Proxy{Core: c, fwd: b, name: name}
}

// Target returns the logger the proxy currently forwards to.
func (p *Proxy) Target() Logger {
	return p.fwd.target()
}

// IsEnabled reports whether level passes both the proxy and the target gate.
func (p *Proxy) IsEnabled(level Level) bool {
	return p.Core.IsEnabled(level) && p.fwd.target().IsEnabled(level)
}

// HasScope reports whether the target has an active scope.
func (p *Proxy) HasScope() bool {
	return p.fwd.target().HasScope()
}

// Name returns the logger kind.
func (p *Proxy) Name() string {
	return p.name
}

// Lock locks the target. Nested calls reuse the target pinned by the outermost one.
func (b *proxyBackend) Lock() {
	id := goroutineID()
	b.mu.Lock()
	stack := b.held[id]
	b.mu.Unlock()

	var t Logger
	if len(stack) > 0 {
		t = stack[len(stack)-1]
	} else {
		t = b.resolve()
	}
	t.Lock()

	b.mu.Lock()
	b.held[id] = append(b.held[id], t)
	b.mu.Unlock()
}

func (b *proxyBackend) Unlock() {
	id := goroutineID()
	b.mu.Lock()
	stack := b.held[id]
	if len(stack) == 0 {
		b.mu.Unlock()
		b.resolve().Unlock()
		return
	}
	t := stack[len(stack)-1]
	if len(stack) == 1 {
		delete(b.held, id)
	} else {
		b.held[id] = stack[:len(stack)-1]
	}
	b.mu.Unlock()
	t.Unlock()
}

// target returns the pinned logger when the caller holds the lock
func (b *proxyBackend) target() Logger {
	id := goroutineID()
	b.mu.Lock()
	stack := b.held[id]
	b.mu.Unlock()
	if len(stack) > 0 {
		return stack[len(stack)-1]
	}
	return b.resolve()
}

func (b *proxyBackend) logMessage(level Level, message string, eventID EventID, isException bool) error {
	return b.target().LogMessage(level, message, eventID, isException)
}

func (b *proxyBackend) logState(level Level, eventID EventID, state any, err error, format FormatFunc) error {
	return b.target().Log(level, eventID, state, err, format)
}

func (b *proxyBackend) write(text string) error {
	return b.target().Write(text)
}

func (b *proxyBackend) writeLine(text string) error {
	return b.target().WriteLine(text)
}

func (b *proxyBackend) flush() error {
	return b.target().Flush()
}

func (b *proxyBackend) openScope(state any) (io.Closer, error) {
	return b.target().BeginScope(state)
}

func (b *proxyBackend) validateAutoFlush(enabled bool) error {
	if enabled && !b.target().AutoFlush() {
		return fmtErrorf("auto-flush cannot be enabled while the target logger does not auto-flush: %w", ErrInvalidConfiguration)
	}
	return nil
}
