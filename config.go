// FILE: config.go
package sinklog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lixenwraith/config"

	"github.com/lixenwraith/sinklog/formatter"
	"github.com/lixenwraith/sinklog/sanitizer"
)

// Config holds file logger configuration values
type Config struct {
	// Basic settings
	Level     string `toml:"level"`
	AutoFlush bool   `toml:"auto_flush"`
	Directory string `toml:"directory"` // Empty means DefaultLogDirectory
	Extension string `toml:"extension"`

	// Rotation and free space
	MaxSizeMB          float64 `toml:"max_size_mb"`          // Rotation size per file
	FreeSpaceThreshold float64 `toml:"free_space_threshold"` // Minimum free fraction of the volume

	// Timers
	MonitorIntervalMs    int64 `toml:"monitor_interval_ms"`     // Pause between monitor passes
	RetryIntervalMs      int64 `toml:"retry_interval_ms"`       // Pause after a failed size probe
	SpaceCheckIntervalMs int64 `toml:"space_check_interval_ms"` // Free space verdict cache
	StopTimeoutMs        int64 `toml:"stop_timeout_ms"`         // Bound on monitor shutdown

	// Formatting
	TimestampFormat string `toml:"timestamp_format"`
	ShowTimestamp   bool   `toml:"show_timestamp"`
	ShowLevel       bool   `toml:"show_level"`
	Sanitize        string `toml:"sanitize"` // Sanitizer policy: raw, txt, line, terminal
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level:     DefaultLevel.String(),
	AutoFlush: DefaultAutoFlush,
	Directory: "",
	Extension: DefaultExtension,

	MaxSizeMB:          DefaultMaxSizeMB,
	FreeSpaceThreshold: DefaultFreeSpaceThreshold,

	MonitorIntervalMs:    defaultMonitorInterval.Milliseconds(),
	RetryIntervalMs:      defaultRetryInterval.Milliseconds(),
	SpaceCheckIntervalMs: defaultSpaceCheckInterval.Milliseconds(),
	StopTimeoutMs:        defaultStopTimeout.Milliseconds(),

	TimestampFormat: formatter.DefaultTimestampFormat,
	ShowTimestamp:   true,
	ShowLevel:       true,
	Sanitize:        string(sanitizer.PolicyLine),
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from the [log] table of a TOML file.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as the [log] table of a TOML file.
func (c *Config) SaveConfig(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmtErrorf("failed to create config directory '%s': %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmtErrorf("failed to create config file '%s': %w", path, err)
	}

	doc := struct {
		Log Config `toml:"log"`
	}{Log: *c}
	encErr := toml.NewEncoder(f).Encode(doc)
	closeErr := f.Close()
	if encErr != nil {
		return fmtErrorf("failed to encode config: %w", encErr)
	}
	if closeErr != nil {
		return fmtErrorf("failed to close config file '%s': %w", path, closeErr)
	}
	return nil
}

// extractConfig copies values found by the loader into cfg
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Float64:
		switch v := value.(type) {
		case float64:
			field.SetFloat(v)
		case int64:
			field.SetFloat(float64(v))
		case int:
			field.SetFloat(float64(v))
		default:
			return fmt.Errorf("expected float64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}
	return nil
}

// Validate checks ranges and names. Errors wrap ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return fmtErrorf("invalid level '%s': %w", c.Level, ErrInvalidConfiguration)
	}

	if strings.TrimSpace(c.Extension) == "" {
		return fmtErrorf("extension cannot be empty: %w", ErrInvalidConfiguration)
	}
	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s: %w", c.Extension, ErrInvalidConfiguration)
	}

	if c.MaxSizeMB <= 0 {
		return fmtErrorf("max_size_mb must be positive: %v: %w", c.MaxSizeMB, ErrInvalidConfiguration)
	}
	if c.FreeSpaceThreshold < 0 || c.FreeSpaceThreshold > 1 {
		return fmtErrorf("free_space_threshold must be between 0 and 1: %v: %w", c.FreeSpaceThreshold, ErrInvalidConfiguration)
	}

	if c.MonitorIntervalMs <= 0 || c.RetryIntervalMs <= 0 || c.StopTimeoutMs <= 0 {
		return fmtErrorf("interval settings must be positive: %w", ErrInvalidConfiguration)
	}
	if c.SpaceCheckIntervalMs < 0 {
		return fmtErrorf("space_check_interval_ms cannot be negative: %d: %w", c.SpaceCheckIntervalMs, ErrInvalidConfiguration)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty: %w", ErrInvalidConfiguration)
	}

	if _, err := sanitizer.ParsePolicy(c.Sanitize); err != nil {
		return fmtErrorf("invalid sanitize policy '%s': %w", c.Sanitize, ErrInvalidConfiguration)
	}
	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// streamOptions maps timer settings to FileStream options
func (c *Config) streamOptions() []FileStreamOption {
	return []FileStreamOption{
		WithExtension(c.Extension),
		WithMonitorInterval(time.Duration(c.MonitorIntervalMs) * time.Millisecond),
		WithRetryInterval(time.Duration(c.RetryIntervalMs) * time.Millisecond),
		WithSpaceCheckInterval(time.Duration(c.SpaceCheckIntervalMs) * time.Millisecond),
		WithStopTimeout(time.Duration(c.StopTimeoutMs) * time.Millisecond),
	}
}

// newFormatter builds the line formatter for the formatting settings
func (c *Config) newFormatter() *formatter.Formatter {
	policy, _ := sanitizer.ParsePolicy(c.Sanitize)
	return formatter.New(sanitizer.New().Policy(policy)).
		TimestampFormat(c.TimestampFormat).
		ShowTimestamp(c.ShowTimestamp).
		ShowLevel(c.ShowLevel)
}
