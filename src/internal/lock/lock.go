// Package lock keeps two phpswitch processes from relinking PHP at the same time
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/phpswitch/phpswitch/src/internal/ui"
)

// ErrBusy is returned when another phpswitch process holds the lock
var ErrBusy = errors.New("another phpswitch operation is in progress")

// Lock is an exclusive file lock held for the duration of one operation
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the lock at path without waiting
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock held at %s)", ErrBusy, path)
	}

	ui.Debug("Acquired lock %s", path)
	return &Lock{flock: fl}, nil
}

// WithLock runs fn while holding the lock at path
func WithLock(path string, fn func() error) error {
	l, err := Acquire(path)
	if err != nil {
		return err
	}
	defer l.Release()

	return fn()
}

// Release gives the lock back; releasing twice is harmless
func (l *Lock) Release() {
	if l == nil || l.flock == nil {
		return
	}
	if err := l.flock.Unlock(); err != nil {
		ui.Debug("Failed to release lock %s: %v", l.flock.Path(), err)
	}
}
