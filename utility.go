// FILE: utility.go
package sinklog

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy. Returned errors wrap one of these and can be matched with errors.Is.
var (
	// ErrDisposed reports an operation on a closed logger or a fully released handle.
	ErrDisposed = errors.New("object already disposed")
	// ErrInvalidConfiguration reports a construction or setting that cannot be honored.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidArgument reports a nil or otherwise unusable argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrVolumeNotFound reports that no mounted volume contains the log directory.
	ErrVolumeNotFound = errors.New("volume containing log directory not found")
	// ErrTransientIO reports a failed size or space probe in the file monitor. It is retried, never surfaced to writers.
	ErrTransientIO = errors.New("transient i/o failure")
	// ErrRotation reports a failure to recreate the active log file.
	ErrRotation = errors.New("log file rotation failed")
)

const errPrefix = "sinklog: "

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, errPrefix) {
		format = errPrefix + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return errors.Join(err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}
