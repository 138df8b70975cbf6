package compat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lixenwraith/sinklog"
)

// keyValuePattern detects "key=%v" or "key: %v" verbs in format strings
var keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGpbcU]`)

// parseFormat splits a printf-style format into a message and the key/value
// pairs it names. Formats without pairs, or with more pairs than args, are
// rendered whole.
func parseFormat(format string, args []any) (string, []sinklog.KeyValue) {
	matches := keyValuePattern.FindAllStringSubmatchIndex(format, -1)
	if len(matches) == 0 || len(matches) > len(args) {
		return fmt.Sprintf(format, args...), nil
	}

	fields := make([]sinklog.KeyValue, 0, len(matches))
	var msg string
	lastEnd := 0
	argIndex := 0

	for _, match := range matches {
		if match[0] > lastEnd && msg == "" {
			msg = strings.TrimSpace(format[lastEnd:match[0]])
		}
		fields = append(fields, sinklog.KeyValue{Key: format[match[2]:match[3]], Value: args[argIndex]})
		argIndex++
		lastEnd = match[1]
	}

	// Remaining format text and args extend the message
	if lastEnd < len(format) {
		rest := format[lastEnd:]
		if argIndex < len(args) {
			rest = fmt.Sprintf(rest, args[argIndex:]...)
		}
		remaining := strings.TrimSpace(rest)
		if remaining != "" {
			if msg == "" {
				msg = remaining
			} else {
				msg += " " + remaining
			}
		}
	}

	return msg, fields
}

// StructuredGnetAdapter provides gnet logging with the key/value pairs of
// each format string attached as an entry scope
type StructuredGnetAdapter struct {
	*GnetAdapter
	extractFields bool
}

// NewStructuredGnetAdapter creates a gnet adapter with structured field extraction
func NewStructuredGnetAdapter(logger sinklog.Logger, opts ...GnetOption) *StructuredGnetAdapter {
	return &StructuredGnetAdapter{
		GnetAdapter:   NewGnetAdapter(logger, opts...),
		extractFields: true,
	}
}

func (a *StructuredGnetAdapter) logf(level sinklog.Level, format string, args []any) {
	if !a.extractFields {
		emit(a.logger, level, gnetSource, fmt.Sprintf(format, args...), nil, false)
		return
	}
	msg, fields := parseFormat(format, args)
	emit(a.logger, level, gnetSource, msg, fields, false)
}

// Debugf logs with structured field extraction
func (a *StructuredGnetAdapter) Debugf(format string, args ...any) {
	a.logf(sinklog.LevelDebug, format, args)
}

// Infof logs with structured field extraction
func (a *StructuredGnetAdapter) Infof(format string, args ...any) {
	a.logf(sinklog.LevelInfo, format, args)
}

// Warnf logs with structured field extraction
func (a *StructuredGnetAdapter) Warnf(format string, args ...any) {
	a.logf(sinklog.LevelWarn, format, args)
}

// Errorf logs with structured field extraction
func (a *StructuredGnetAdapter) Errorf(format string, args ...any) {
	a.logf(sinklog.LevelError, format, args)
}
