// FILE: formatter/formatter.go
// Package formatter lays out text log lines.
package formatter

import (
	"strconv"
	"time"

	"github.com/lixenwraith/sinklog/sanitizer"
)

// DefaultTimestampFormat is used when no format is configured
const DefaultTimestampFormat = "2006-01-02 15:04:05.000 -07:00"

const exceptionHeader = "EXCEPTION OCCURED. "

// Entry carries everything a text line is built from
type Entry struct {
	Time      time.Time
	Scopes    []string
	Header    string
	Exception bool
	EventID   int
	EventName string
	Message   string
}

// Formatter builds text lines into a reusable buffer. It is not safe for
// concurrent use; loggers call it with their lock held.
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	timestampFormat string
	showTimestamp   bool
	showLevel       bool
	buf             []byte
}

// New creates a formatter with the provided sanitizer
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New()
	}
	return &Formatter{
		sanitizer:       san,
		timestampFormat: DefaultTimestampFormat,
		showTimestamp:   true,
		showLevel:       true,
		buf:             make([]byte, 0, 1024),
	}
}

// TimestampFormat sets the timestamp layout
func (f *Formatter) TimestampFormat(format string) *Formatter {
	if format != "" {
		f.timestampFormat = format
	}
	return f
}

// ShowLevel sets whether to include the level header
func (f *Formatter) ShowLevel(show bool) *Formatter {
	f.showLevel = show
	return f
}

// ShowTimestamp sets whether to include the timestamp
func (f *Formatter) ShowTimestamp(show bool) *Formatter {
	f.showTimestamp = show
	return f
}

// Format lays out e as: timestamp, scope chain, level header, exception
// marker, event id, message, newline. The returned slice is reused by the
// next call.
func (f *Formatter) Format(e Entry) []byte {
	f.buf = f.buf[:0]

	if f.showTimestamp {
		f.buf = e.Time.AppendFormat(f.buf, f.timestampFormat)
		f.buf = append(f.buf, ' ')
	}

	if len(e.Scopes) > 0 {
		f.buf = append(f.buf, "Scope: "...)
		for _, s := range e.Scopes {
			f.buf = append(f.buf, f.sanitizer.Sanitize(s)...)
			f.buf = append(f.buf, ", "...)
		}
	}

	if f.showLevel {
		f.buf = append(f.buf, e.Header...)
	}

	if e.Exception {
		f.buf = append(f.buf, exceptionHeader...)
	}

	if e.EventID != 0 || e.EventName != "" {
		f.buf = append(f.buf, "Event "...)
		f.buf = strconv.AppendInt(f.buf, int64(e.EventID), 10)
		if e.EventName != "" {
			f.buf = append(f.buf, " ("...)
			f.buf = append(f.buf, f.sanitizer.Sanitize(e.EventName)...)
			f.buf = append(f.buf, ')')
		}
		f.buf = append(f.buf, ". "...)
	}

	f.buf = append(f.buf, f.sanitizer.Sanitize(e.Message)...)
	f.buf = append(f.buf, '\n')
	return f.buf
}

// FormatArgs renders values space-separated
func (f *Formatter) FormatArgs(args ...any) string {
	f.buf = f.buf[:0]
	for i, arg := range args {
		if i > 0 {
			f.buf = append(f.buf, ' ')
		}
		if t, ok := arg.(time.Time); ok {
			f.buf = t.AppendFormat(f.buf, f.timestampFormat)
			continue
		}
		f.buf = append(f.buf, sanitizer.Dump(arg)...)
	}
	return string(f.buf)
}
