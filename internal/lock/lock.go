// Package lock provides a cross-process, non-blocking named lock so that
// concurrently scheduled ingestion jobs cannot double-run. Exclusion is
// enforced by a kernel advisory lock on an open file descriptor; the marker
// file's presence on disk is informational only (it can survive a crash, the
// kernel lock cannot).
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// FileLock is an exclusive advisory lock keyed by file path. Two FileLocks
// with different paths are independent; two with the same path exclude each
// other across processes on the host.
type FileLock struct {
	path string
	file *os.File
}

// New returns an unacquired lock for the given path.
func New(path string) *FileLock {
	return &FileLock{path: path}
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Acquire attempts to take the lock without blocking. It returns true when
// this process now holds the lock, and false when another holder exists;
// contention is an expected outcome, not an error. The error return is
// reserved for filesystem failures (unwritable directory, etc.).
//
// On success the caller's PID is written into the marker file. The kernel
// releases the advisory lock automatically when the descriptor closes,
// including on process crash.
func (l *FileLock) Acquire() (bool, error) {
	if l.file != nil {
		return false, fmt.Errorf("lock already acquired: %s", l.path)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			log.Debug().Str("path", l.path).Msg("Lock held by another process")
			return false, nil
		}
		return false, fmt.Errorf("flock failed: %w", err)
	}

	// We own the lock now; record the holder for operators.
	if err := f.Truncate(0); err == nil {
		fmt.Fprintf(f, "%d", os.Getpid())
		f.Sync()
	}

	l.file = f
	log.Debug().Str("path", l.path).Int("pid", os.Getpid()).Msg("Lock acquired")
	return true, nil
}

// Release drops the lock, closes the descriptor, and removes the marker
// file. Safe to call when Acquire never succeeded (no-op).
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		log.Warn().Err(err).Str("path", l.path).Msg("Failed to unlock descriptor")
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close lock file: %w", err)
	}
	l.file = nil

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	log.Debug().Str("path", l.path).Msg("Lock released")
	return nil
}

// Held reports whether this handle currently owns the lock.
func (l *FileLock) Held() bool {
	return l.file != nil
}

// WithLock runs fn while holding the lock, releasing on every exit path
// including a panic inside fn. Returns false without running fn when the
// lock is already held elsewhere.
func (l *FileLock) WithLock(fn func() error) (bool, error) {
	acquired, err := l.Acquire()
	if err != nil {
		return false, err
	}
	if !acquired {
		return false, nil
	}
	defer l.Release()

	return true, fn()
}
