package compat

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/sinklog"
)

// ZapCore is a zapcore.Core writing through a sinklog.Logger. Entry fields
// become an entry scope; the zap logger name becomes the event name.
type ZapCore struct {
	logger sinklog.Logger
	fields []zapcore.Field
}

var _ zapcore.Core = (*ZapCore)(nil)

// NewZapCore creates a core over logger.
func NewZapCore(logger sinklog.Logger) *ZapCore {
	return &ZapCore{logger: logger}
}

// NewZapLogger creates a *zap.Logger over logger.
func NewZapLogger(logger sinklog.Logger, opts ...zap.Option) *zap.Logger {
	return zap.New(NewZapCore(logger), opts...)
}

// Enabled reports whether the sinklog level gate lets lvl through.
func (c *ZapCore) Enabled(lvl zapcore.Level) bool {
	return c.logger.IsEnabled(fromZapLevel(lvl))
}

// With returns a core that adds fields to every entry.
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &ZapCore{logger: c.logger, fields: merged}
}

// Check adds this core to ce when the entry level is enabled.
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write logs the entry. An "error" field marks it as an exception entry.
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	_, exception := enc.Fields["error"]

	level := fromZapLevel(ent.Level)
	id := sinklog.EventID{Name: ent.LoggerName}
	if len(enc.Fields) == 0 {
		return c.logger.LogMessage(level, ent.Message, id, exception)
	}

	c.logger.Lock()
	defer c.logger.Unlock()
	sc, err := c.logger.BeginScope(enc.Fields)
	if err != nil {
		return fmt.Errorf("failed to attach zap fields: %w", err)
	}
	logErr := c.logger.LogMessage(level, ent.Message, id, exception)
	if err := sc.Close(); err != nil && logErr == nil {
		logErr = err
	}
	return logErr
}

// Sync flushes the logger.
func (c *ZapCore) Sync() error {
	return c.logger.Flush()
}

// fromZapLevel maps zap levels onto sinklog levels. DPanic, Panic and Fatal
// all become LevelCritical.
func fromZapLevel(lvl zapcore.Level) sinklog.Level {
	switch {
	case lvl < zapcore.InfoLevel:
		return sinklog.LevelDebug
	case lvl == zapcore.InfoLevel:
		return sinklog.LevelInfo
	case lvl == zapcore.WarnLevel:
		return sinklog.LevelWarn
	case lvl == zapcore.ErrorLevel:
		return sinklog.LevelError
	default:
		return sinklog.LevelCritical
	}
}
