// FILE: builder.go
package sinklog

import (
	"time"
)

// Builder provides a fluent API for building a file logger.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// FromConfig starts a builder from a copy of cfg.
func FromConfig(cfg *Config) *Builder {
	if cfg == nil {
		return NewBuilder()
	}
	return &Builder{cfg: cfg.Clone()}
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Build creates the file logger.
func (b *Builder) Build() (*FileLogger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewFileLogger(b.cfg)
}

// BuildShared creates the file logger wrapped in a reference-counted handle.
func (b *Builder) BuildShared() (*RefCounted, error) {
	l, err := b.Build()
	if err != nil {
		return nil, err
	}
	return Wrap(l)
}

// Level sets the log level.
func (b *Builder) Level(level Level) *Builder {
	b.cfg.Level = level.String()
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ParseLevel(level); err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = level
	return b
}

// AutoFlush sets whether every entry is flushed.
func (b *Builder) AutoFlush(enable bool) *Builder {
	b.cfg.AutoFlush = enable
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// AppDirectory sets the log directory to DefaultLogDirectory(app).
func (b *Builder) AppDirectory(app string) *Builder {
	b.cfg.Directory = DefaultLogDirectory(app)
	return b
}

// Extension sets the log file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// MaxSizeMB sets the rotation size in MB.
func (b *Builder) MaxSizeMB(size float64) *Builder {
	b.cfg.MaxSizeMB = size
	return b
}

// MaxSizeKB sets the rotation size in KB. Convenience.
func (b *Builder) MaxSizeKB(size int64) *Builder {
	b.cfg.MaxSizeMB = float64(size) / 1024
	return b
}

// FreeSpaceThreshold sets the minimum free fraction of the volume.
func (b *Builder) FreeSpaceThreshold(threshold float64) *Builder {
	b.cfg.FreeSpaceThreshold = threshold
	return b
}

// MonitorInterval sets the pause between monitor passes.
func (b *Builder) MonitorInterval(d time.Duration) *Builder {
	b.cfg.MonitorIntervalMs = d.Milliseconds()
	return b
}

// SpaceCheckInterval sets how long a free space verdict is cached.
func (b *Builder) SpaceCheckInterval(d time.Duration) *Builder {
	b.cfg.SpaceCheckIntervalMs = d.Milliseconds()
	return b
}

// StopTimeout bounds how long closing waits for the monitor.
func (b *Builder) StopTimeout(d time.Duration) *Builder {
	b.cfg.StopTimeoutMs = d.Milliseconds()
	return b
}

// TimestampFormat sets the timestamp layout.
func (b *Builder) TimestampFormat(format string) *Builder {
	b.cfg.TimestampFormat = format
	return b
}

// ShowTimestamp sets whether lines start with a timestamp.
func (b *Builder) ShowTimestamp(show bool) *Builder {
	b.cfg.ShowTimestamp = show
	return b
}

// ShowLevel sets whether lines carry the level header.
func (b *Builder) ShowLevel(show bool) *Builder {
	b.cfg.ShowLevel = show
	return b
}

// Sanitize sets the sanitizer policy name.
func (b *Builder) Sanitize(policy string) *Builder {
	b.cfg.Sanitize = policy
	return b
}

// Example usage:
// logger, err := sinklog.NewBuilder().
//
//	Directory("/var/log/app").
//	LevelString("debug").
//	MaxSizeMB(50).
//	FreeSpaceThreshold(0.05).
//	Build()
//
// if err == nil {
//
//	 defer logger.Close()
//	 logger.Info("Logger initialized successfully")
//
// }
