// FILE: file.go
package sinklog

import (
	"os"
	"path/filepath"
)

const fileLoggerName = "FileLogger"

// FileLogger is a text logger that owns a FileStream.
type FileLogger struct {
	*TextLogger
	stream *FileStream
	cfg    *Config
}

// NewFileLogger builds a file logger from cfg. A nil cfg uses DefaultConfig.
func NewFileLogger(cfg *Config) (*FileLogger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	level, _ := ParseLevel(cfg.Level)

	dir := cfg.Directory
	if dir == "" {
		dir = DefaultLogDirectory(DefaultAppName)
	}

	stream, err := NewFileStream(dir, cfg.MaxSizeMB, cfg.FreeSpaceThreshold, cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}

	tl, err := NewTextLogger(stream, true, WithFormatter(cfg.newFormatter()), withName(fileLoggerName))
	if err != nil {
		_ = stream.Close()
		return nil, err
	}
	tl.level.Store(int64(level))
	tl.autoFlush.Store(cfg.AutoFlush)

	return &FileLogger{TextLogger: tl, stream: stream, cfg: cfg}, nil
}

// CreateFileLogger builds a file logger in dir with the given size limit and
// free space threshold, and defaults for everything else.
func CreateFileLogger(dir string, maxSizeMB float64, freeSpaceThreshold float64) (*FileLogger, error) {
	cfg := DefaultConfig()
	cfg.Directory = dir
	cfg.MaxSizeMB = maxSizeMB
	cfg.FreeSpaceThreshold = freeSpaceThreshold
	return NewFileLogger(cfg)
}

// Config returns a copy of the configuration in effect.
func (l *FileLogger) Config() *Config {
	l.Lock()
	defer l.Unlock()
	return l.cfg.Clone()
}

// Stream returns the underlying file stream.
func (l *FileLogger) Stream() *FileStream {
	return l.stream
}

// DefaultLogDirectory returns "<home>/<app>/logs", or "./<app>/logs" when the
// home directory is unknown.
func DefaultLogDirectory(app string) string {
	if app == "" {
		app = DefaultAppName
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, app, "logs")
}

func withName(name string) TextOption {
	return func(s *textSink) { s.name = name }
}
