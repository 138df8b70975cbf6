// FILE: text.go
package sinklog

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/lixenwraith/sinklog/formatter"
	"github.com/lixenwraith/sinklog/sanitizer"
)

const (
	textLoggerName    = "TextLogger"
	consoleLoggerName = "ConsoleLogger"
)

// TextOption customizes a text logger at construction
type TextOption func(*textSink)

// WithFormatter replaces the line formatter.
func WithFormatter(f *formatter.Formatter) TextOption {
	return func(s *textSink) {
		if f != nil {
			s.layout = f
		}
	}
}

// WithSanitizer applies a sanitizer policy to scopes, event names and messages.
func WithSanitizer(policy sanitizer.PolicyPreset) TextOption {
	return func(s *textSink) {
		s.layout = formatter.New(sanitizer.New().Policy(policy))
	}
}

// WithClock replaces the time source, mostly for tests.
func WithClock(now func() time.Time) TextOption {
	return func(s *textSink) {
		if now != nil {
			s.now = now
		}
	}
}

// TextLogger writes text lines to an io.Writer through a buffer.
type TextLogger struct {
	*Core
	sink *textSink
}

type textSink struct {
	mu     ReentrantMutex
	core   *Core
	out    *bufio.Writer
	errs   *bufio.Writer // exception entries; same as out unless console
	owned  io.Closer
	layout *formatter.Formatter
	now    func() time.Time
	name   string
}

// NewTextLogger creates a logger writing to w. With takeOwnership, closing
// the logger closes w if it is an io.Closer.
func NewTextLogger(w io.Writer, takeOwnership bool, opts ...TextOption) (*TextLogger, error) {
	if w == nil {
		return nil, fmtErrorf("text logger writer cannot be nil: %w", ErrInvalidArgument)
	}
	s := &textSink{
		out:    bufio.NewWriter(w),
		layout: formatter.New(),
		now:    time.Now,
		name:   textLoggerName,
	}
	s.errs = s.out
	if takeOwnership {
		if c, ok := w.(io.Closer); ok {
			s.owned = c
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return newTextLogger(s), nil
}

// NewConsoleLogger creates a logger writing to stdout, with exception entries
// going to stderr.
func NewConsoleLogger(opts ...TextOption) *TextLogger {
	s := &textSink{
		out:    bufio.NewWriter(os.Stdout),
		errs:   bufio.NewWriter(os.Stderr),
		layout: formatter.New(sanitizer.New().Policy(sanitizer.PolicyTerminal)),
		now:    time.Now,
		name:   consoleLoggerName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return newTextLogger(s)
}

func newTextLogger(s *textSink) *TextLogger {
	c := newCore(s)
	s.core = c
	return &TextLogger{Core: c, sink: s}
}

// Name returns the logger kind.
func (l *TextLogger) Name() string {
	return l.sink.name
}

func (s *textSink) Lock() {
	s.mu.Lock()
}

func (s *textSink) Unlock() {
	s.mu.Unlock()
}

func (s *textSink) logMessage(level Level, message string, eventID EventID, isException bool) error {
	w := s.out
	if isException {
		w = s.errs
	}
	line := s.layout.Format(formatter.Entry{
		Time:      s.now(),
		Scopes:    s.core.scopeStrings(),
		Header:    level.Header(),
		Exception: isException,
		EventID:   eventID.ID,
		EventName: eventID.Name,
		Message:   message,
	})
	if _, err := w.Write(line); err != nil {
		return fmtErrorf("failed to write log entry: %w", err)
	}
	return nil
}

func (s *textSink) logState(level Level, eventID EventID, state any, err error, format FormatFunc) error {
	if format == nil {
		format = DefaultFormat
	}
	return s.logMessage(level, format(state, err), eventID, err != nil)
}

func (s *textSink) write(text string) error {
	if _, err := s.out.WriteString(text); err != nil {
		return fmtErrorf("failed to write text: %w", err)
	}
	return nil
}

func (s *textSink) writeLine(text string) error {
	if err := s.write(text); err != nil {
		return err
	}
	return s.write("\n")
}

func (s *textSink) flush() error {
	err := s.out.Flush()
	if s.errs != s.out {
		err = combineErrors(err, s.errs.Flush())
	}
	if err != nil {
		return fmtErrorf("failed to flush: %w", err)
	}
	return nil
}

func (s *textSink) dispose() error {
	err := s.flush()
	if s.owned != nil {
		if cerr := s.owned.Close(); cerr != nil {
			err = combineErrors(err, fmtErrorf("failed to close writer: %w", cerr))
		}
	}
	return err
}
