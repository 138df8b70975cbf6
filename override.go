// FILE: override.go
package sinklog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies "key=value" overrides to a copy of the configuration
// and keeps the result only if every override parses and the result validates.
//
// Example:
//
//	cfg := sinklog.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "directory=/var/log/app",
//	    "level=debug",
//	    "max_size_mb=50",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	next := c.Clone()

	var errs []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := applyConfigField(next, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = *next
	return nil
}

// ApplyOverride changes settings of a running file logger. Only level,
// auto_flush and free_space_threshold can change without a restart.
func (l *FileLogger) ApplyOverride(overrides ...string) error {
	l.Lock()
	defer l.Unlock()
	next := l.cfg.Clone()

	var errs []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		switch key {
		case "level", "auto_flush", "free_space_threshold":
		default:
			errs = append(errs, fmtErrorf("key '%s' cannot change on a running logger: %w", key, ErrInvalidConfiguration))
			continue
		}
		if err := applyConfigField(next, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	level, _ := ParseLevel(next.Level)
	if err := l.SetLevel(level); err != nil {
		return err
	}
	if err := l.SetAutoFlush(next.AutoFlush); err != nil {
		return err
	}
	if err := l.stream.SetFreeSpaceThreshold(next.FreeSpaceThreshold); err != nil {
		return err
	}
	l.cfg = next
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString(errPrefix + "multiple configuration errors:")
	for i, err := range errs {
		errMsg := strings.TrimPrefix(err.Error(), errPrefix)
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s: %w", sb.String(), ErrInvalidConfiguration)
}

// applyConfigField applies a single key-value override to a Config
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "level":
		if _, err := ParseLevel(value); err != nil {
			return fmtErrorf("invalid level value '%s': %w", value, ErrInvalidConfiguration)
		}
		cfg.Level = value
	case "auto_flush":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for auto_flush '%s': %w", value, ErrInvalidConfiguration)
		}
		cfg.AutoFlush = boolVal
	case "directory":
		cfg.Directory = value
	case "extension":
		cfg.Extension = value

	// Rotation and free space
	case "max_size_mb":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmtErrorf("invalid float value for max_size_mb '%s': %w", value, ErrInvalidConfiguration)
		}
		cfg.MaxSizeMB = floatVal
	case "free_space_threshold":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmtErrorf("invalid float value for free_space_threshold '%s': %w", value, ErrInvalidConfiguration)
		}
		cfg.FreeSpaceThreshold = floatVal

	// Timers
	case "monitor_interval_ms":
		return setInt(&cfg.MonitorIntervalMs, key, value)
	case "retry_interval_ms":
		return setInt(&cfg.RetryIntervalMs, key, value)
	case "space_check_interval_ms":
		return setInt(&cfg.SpaceCheckIntervalMs, key, value)
	case "stop_timeout_ms":
		return setInt(&cfg.StopTimeoutMs, key, value)

	// Formatting
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "show_timestamp":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for show_timestamp '%s': %w", value, ErrInvalidConfiguration)
		}
		cfg.ShowTimestamp = boolVal
	case "show_level":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for show_level '%s': %w", value, ErrInvalidConfiguration)
		}
		cfg.ShowLevel = boolVal
	case "sanitize":
		cfg.Sanitize = value

	default:
		return fmtErrorf("unknown configuration key '%s': %w", key, ErrInvalidConfiguration)
	}
	return nil
}

func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, ErrInvalidConfiguration)
	}
	*dst = intVal
	return nil
}
