// FILE: combined.go
package sinklog

import (
	"errors"
	"io"
	"sync/atomic"
)

const combinedName = "CombinedLogger"

// Combined fans every operation out to its members in order.
type Combined struct {
	*Core
	sink *combinedSink
}

type combinedSink struct {
	mu      ReentrantMutex
	core    *Core
	members []Logger
	owns    bool
}

// NewCombined creates a logger dispatching to members. When owns is true the
// members are closed with the combiner and are assumed to be used by nobody
// else, so locking the combiner does not lock them.
// The initial level is the lowest member level.
func NewCombined(members []Logger, owns bool) (*Combined, error) {
	if len(members) == 0 {
		return nil, fmtErrorf("combined logger needs at least one member: %w", ErrInvalidConfiguration)
	}
	for i, m := range members {
		if m == nil {
			return nil, fmtErrorf("combined logger member %d is nil: %w", i, ErrInvalidArgument)
		}
	}

	s := &combinedSink{
		members: append([]Logger(nil), members...),
		owns:    owns,
	}
	c := newCore(s)
	s.core = c

	lowest := LevelNone
	for _, m := range members {
		if l := m.Level(); l < lowest {
			lowest = l
		}
	}
	c.level.Store(int64(lowest))

	return &Combined{Core: c, sink: s}, nil
}

// Combine creates a non-owning combined logger.
func Combine(members ...Logger) (*Combined, error) {
	return NewCombined(members, false)
}

// Members returns the member loggers in dispatch order.
func (l *Combined) Members() []Logger {
	return append([]Logger(nil), l.sink.members...)
}

// Owns reports whether the combiner closes its members.
func (l *Combined) Owns() bool {
	return l.sink.owns
}

// Name returns the logger kind.
func (l *Combined) Name() string {
	return combinedName
}

func (s *combinedSink) Lock() {
	s.mu.Lock()
	if !s.owns {
		for _, m := range s.members {
			m.Lock()
		}
	}
}

func (s *combinedSink) Unlock() {
	if !s.owns {
		for i := len(s.members) - 1; i >= 0; i-- {
			s.members[i].Unlock()
		}
	}
	s.mu.Unlock()
}

func (s *combinedSink) logMessage(level Level, message string, eventID EventID, isException bool) error {
	for _, m := range s.members {
		if err := m.LogMessage(level, message, eventID, isException); err != nil {
			return err
		}
	}
	return nil
}

func (s *combinedSink) logState(level Level, eventID EventID, state any, err error, format FormatFunc) error {
	for _, m := range s.members {
		if e := m.Log(level, eventID, state, err, format); e != nil {
			return e
		}
	}
	return nil
}

func (s *combinedSink) write(text string) error {
	for _, m := range s.members {
		if err := m.Write(text); err != nil {
			return err
		}
	}
	return nil
}

func (s *combinedSink) writeLine(text string) error {
	for _, m := range s.members {
		if err := m.WriteLine(text); err != nil {
			return err
		}
	}
	return nil
}

func (s *combinedSink) flush() error {
	for _, m := range s.members {
		if err := m.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// openScope records the scope locally and on every member
func (s *combinedSink) openScope(state any) (io.Closer, error) {
	closers := make([]io.Closer, 0, len(s.members)+1)
	closers = append(closers, s.core.pushScope(state))
	for _, m := range s.members {
		c, err := m.BeginScope(state)
		if err != nil {
			_ = (&multiCloser{closers: closers}).Close()
			return nil, err
		}
		if c != nil {
			closers = append(closers, c)
		}
	}
	return &multiCloser{closers: closers}, nil
}

func (s *combinedSink) dispose() error {
	if !s.owns {
		return nil
	}
	var errs []error
	for _, m := range s.members {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// multiCloser closes every closer even when some fail
type multiCloser struct {
	closers []io.Closer
	closed  atomic.Bool
}

func (m *multiCloser) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	for _, c := range m.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
