// FILE: filestream.go
package sinklog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const maxNameCollisions = 1000

// FileStreamOption customizes a FileStream at construction
type FileStreamOption func(*fileStream)

// WithMonitorInterval sets the pause between monitor passes.
func WithMonitorInterval(d time.Duration) FileStreamOption {
	return func(s *fileStream) {
		if d >= minWaitTime {
			s.monitorInterval = d
		}
	}
}

// WithRetryInterval sets the pause after a failed size probe.
func WithRetryInterval(d time.Duration) FileStreamOption {
	return func(s *fileStream) {
		if d >= minWaitTime {
			s.retryInterval = d
		}
	}
}

// WithSpaceCheckInterval sets how long a free-space verdict is cached.
func WithSpaceCheckInterval(d time.Duration) FileStreamOption {
	return func(s *fileStream) {
		if d >= 0 {
			s.spaceCheckInterval = d
		}
	}
}

// WithStopTimeout bounds how long Close waits for the monitor to stop.
func WithStopTimeout(d time.Duration) FileStreamOption {
	return func(s *fileStream) {
		if d > 0 {
			s.stopTimeout = d
		}
	}
}

// WithExtension sets the file extension, without the dot.
func WithExtension(ext string) FileStreamOption {
	return func(s *fileStream) {
		if ext != "" {
			s.ext = ext
		}
	}
}

func withSpaceProbe(p spaceProbe) FileStreamOption {
	return func(s *fileStream) { s.probe = p }
}

func withVolumeFinder(f volumeFinder) FileStreamOption {
	return func(s *fileStream) { s.findVolume = f }
}

// FileStream is a write-only sink backed by one active file in a directory.
// A background monitor rotates the file once it reaches the size limit and
// suppresses writes while free space on the volume is below the threshold.
type FileStream struct {
	*fileStream
}

type fileStream struct {
	dir        string
	ext        string
	maxSize    int64
	vol        volume
	probe      spaceProbe
	findVolume volumeFinder
	now        func() time.Time

	// Stream token, held for every file operation
	mu     sync.Mutex
	file   *os.File
	path   string
	closed bool

	spaceMu   sync.Mutex
	threshold float64
	canWrite  bool
	checkedAt time.Time

	stopped atomic.Bool

	monitorInterval    time.Duration
	retryInterval      time.Duration
	spaceCheckInterval time.Duration
	stopTimeout        time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	cleanup   runtime.Cleanup
	limiter   *rate.Limiter
}

// NewFileStream creates dir if needed, opens the first file and starts the monitor.
// maxSizeMB is the rotation size in megabytes, threshold the minimum free
// fraction of the volume (0..1) below which writes are dropped.
func NewFileStream(dir string, maxSizeMB float64, threshold float64, opts ...FileStreamOption) (*FileStream, error) {
	if dir == "" {
		return nil, fmtErrorf("log directory cannot be empty: %w", ErrInvalidConfiguration)
	}
	if maxSizeMB <= 0 {
		return nil, fmtErrorf("max size must be positive, got %v: %w", maxSizeMB, ErrInvalidConfiguration)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmtErrorf("free space threshold must be within [0, 1], got %v: %w", threshold, ErrInvalidConfiguration)
	}

	s := &fileStream{
		dir:                dir,
		ext:                DefaultExtension,
		maxSize:            int64(maxSizeMB * sizeMultiplier),
		probe:              diskSpace,
		findVolume:         findVolume,
		now:                time.Now,
		threshold:          threshold,
		canWrite:           true,
		monitorInterval:    defaultMonitorInterval,
		retryInterval:      defaultRetryInterval,
		spaceCheckInterval: defaultSpaceCheckInterval,
		stopTimeout:        defaultStopTimeout,
		done:               make(chan struct{}),
		limiter:            rate.NewLimiter(rate.Every(time.Minute), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxSize < 1 {
		s.maxSize = 1
	}

	vol, err := s.findVolume(context.Background(), dir)
	if err != nil {
		return nil, err
	}
	s.vol = vol

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory '%s': %w", dir, err)
	}

	f, path, err := s.createFile()
	if err != nil {
		return nil, err
	}
	s.file, s.path = f, path

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.refreshWriteEnabled()
	go s.monitor()

	fs := &FileStream{fileStream: s}
	s.cleanup = runtime.AddCleanup(fs, func(inner *fileStream) { inner.release() }, s)
	return fs, nil
}

// Write appends p to the active file. While writes are suppressed for low
// free space it reports success without touching the file. A closed stream
// always fails.
func (s *fileStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, fmtErrorf("file stream closed: %w", ErrDisposed)
	}
	if !s.writeEnabled() {
		return len(p), nil
	}
	n, err := s.file.Write(p)
	if err != nil {
		return n, fmtErrorf("failed to write to '%s': %w", s.path, err)
	}
	return n, nil
}

// WriteString appends text to the active file.
func (s *fileStream) WriteString(text string) (int, error) {
	return s.Write([]byte(text))
}

// Flush commits the active file to stable storage.
func (s *fileStream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmtErrorf("file stream closed: %w", ErrDisposed)
	}
	if err := s.file.Sync(); err != nil {
		return fmtErrorf("failed to sync '%s': %w", s.path, err)
	}
	return nil
}

// Path returns the active file path.
func (s *fileStream) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Dir returns the log directory.
func (s *fileStream) Dir() string {
	return s.dir
}

// Mountpoint returns the mountpoint of the volume holding the log directory.
func (s *fileStream) Mountpoint() string {
	return s.vol.mountpoint
}

// MaxSize returns the rotation size in bytes.
func (s *fileStream) MaxSize() int64 {
	return s.maxSize
}

// Size returns the size of the active file.
func (s *fileStream) Size() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, fmtErrorf("file stream closed: %w", ErrDisposed)
	}
	fi, err := s.file.Stat()
	if err != nil {
		return 0, fmtErrorf("failed to stat '%s': %v: %w", s.path, err, ErrTransientIO)
	}
	return fi.Size(), nil
}

// WriteEnabled reports whether writes currently reach the file.
func (s *fileStream) WriteEnabled() bool {
	return s.writeEnabled()
}

// Stopped reports whether the halted marker has been written for the current
// low-space period.
func (s *fileStream) Stopped() bool {
	return s.stopped.Load()
}

// FreeSpaceThreshold returns the minimum free fraction of the volume.
func (s *fileStream) FreeSpaceThreshold() float64 {
	s.spaceMu.Lock()
	defer s.spaceMu.Unlock()
	return s.threshold
}

// SetFreeSpaceThreshold changes the threshold and drops the cached verdict.
func (s *fileStream) SetFreeSpaceThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmtErrorf("free space threshold must be within [0, 1], got %v: %w", threshold, ErrInvalidConfiguration)
	}
	s.spaceMu.Lock()
	s.threshold = threshold
	s.checkedAt = time.Time{}
	s.spaceMu.Unlock()
	return nil
}

// Rotate closes the active file and continues in a new one.
func (s *fileStream) Rotate() error {
	return s.rotate()
}

// Close stops the monitor, waiting at most the stop timeout, and closes the
// active file. Later calls return nil.
func (s *fileStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cleanup.Stop()
		s.cancel()

		timer := time.NewTimer(s.stopTimeout)
		select {
		case <-s.done:
			timer.Stop()
		case <-timer.C:
			err = fmtErrorf("file monitor did not stop within %v", s.stopTimeout)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.closed {
			s.closed = true
			if cerr := s.file.Close(); cerr != nil {
				err = combineErrors(err, fmtErrorf("failed to close '%s': %w", s.path, cerr))
			}
		}
	})
	return err
}

// release is the cleanup path for a stream that was never closed. It frees
// the file descriptor and stops the monitor without waiting.
func (s *fileStream) release() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		_ = s.file.Close()
	}
}

// monitor rotates oversized files and tracks free space until cancelled
func (s *fileStream) monitor() {
	defer close(s.done)

	for {
		size, err := s.Size()
		if err != nil {
			if errors.Is(err, ErrDisposed) {
				return
			}
			s.report(LevelWarn, err, true)
			if !sleepContext(s.ctx, s.retryInterval) {
				return
			}
			continue
		}

		if size >= s.maxSize {
			if err := s.rotate(); err != nil {
				s.report(LevelError, err, false)
			}
		}

		if s.ctx.Err() != nil {
			return
		}

		if !s.writeEnabled() {
			if s.stopped.CompareAndSwap(false, true) {
				if err := s.writeHaltedMarker(); err != nil {
					s.report(LevelError, err, true)
				}
			}
		} else {
			s.stopped.Store(false)
		}

		if !sleepContext(s.ctx, s.monitorInterval) {
			return
		}
	}
}

// rotate swaps in a new file. The old file stays active if the new one cannot be created.
func (s *fileStream) rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmtErrorf("file stream closed: %w", ErrDisposed)
	}

	f, path, err := s.createFile()
	if err != nil {
		return err
	}
	old, oldPath := s.file, s.path
	s.file, s.path = f, path
	if err := old.Close(); err != nil {
		return fmtErrorf("failed to close rotated file '%s': %v: %w", oldPath, err, ErrRotation)
	}
	return nil
}

// createFile opens a new timestamp-named file, adding "_n" when the name is taken
func (s *fileStream) createFile() (*os.File, string, error) {
	stamp := s.now().Format(fileTimeLayout)
	for i := 0; i < maxNameCollisions; i++ {
		name := stamp
		if i > 0 {
			name = stamp + "_" + strconv.Itoa(i)
		}
		path := filepath.Join(s.dir, name+"."+s.ext)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_SYNC, 0644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmtErrorf("failed to create log file '%s': %v: %w", path, err, ErrRotation)
		}
	}
	return nil, "", fmtErrorf("too many log files named '%s' in '%s': %w", stamp, s.dir, ErrRotation)
}

// writeHaltedMarker appends the low-space notice and syncs it
func (s *fileStream) writeHaltedMarker() error {
	threshold := s.FreeSpaceThreshold()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmtErrorf("file stream closed: %w", ErrDisposed)
	}
	if _, err := s.file.WriteString(haltedMarkerLine(s.now(), threshold)); err != nil {
		return fmtErrorf("failed to write halted marker to '%s': %w", s.path, err)
	}
	if err := s.file.Sync(); err != nil {
		return fmtErrorf("failed to sync '%s': %w", s.path, err)
	}
	return nil
}

func haltedMarkerLine(now time.Time, threshold float64) string {
	return "\n" + now.Format(markerTimeLayout) + haltedMarker + strconv.FormatFloat(threshold, 'f', -1, 64) + "\n"
}

// writeEnabled returns the cached verdict, refreshing it once per check interval
func (s *fileStream) writeEnabled() bool {
	s.spaceMu.Lock()
	defer s.spaceMu.Unlock()
	if !s.checkedAt.IsZero() && s.now().Sub(s.checkedAt) < s.spaceCheckInterval {
		return s.canWrite
	}
	return s.refreshLocked()
}

func (s *fileStream) refreshWriteEnabled() bool {
	s.spaceMu.Lock()
	defer s.spaceMu.Unlock()
	return s.refreshLocked()
}

// refreshLocked keeps the previous verdict when the probe fails
func (s *fileStream) refreshLocked() bool {
	s.checkedAt = s.now()
	free, total, err := s.probe(s.ctx, s.vol.mountpoint)
	if err != nil {
		s.report(LevelWarn, fmtErrorf("%v: %w", err, ErrTransientIO), true)
		return s.canWrite
	}
	if total == 0 {
		return s.canWrite
	}
	s.canWrite = float64(free)/float64(total) > s.threshold
	return s.canWrite
}

// report sends a monitor diagnostic to the default logger without waiting
// for it, since the default may be the logger that owns this stream.
// Throttled reports are dropped when the limiter has no tokens.
func (s *fileStream) report(level Level, err error, throttled bool) {
	if s.ctx.Err() != nil {
		return
	}
	if throttled && !s.limiter.Allow() {
		return
	}
	msg := fmt.Sprintf("file stream '%s': %v", s.dir, err)
	go func() {
		_ = Default().LogMessage(level, msg, EventID{}, level >= LevelError)
	}()
}

// sleepContext waits for d or until ctx is done. It reports whether the full wait elapsed.
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
