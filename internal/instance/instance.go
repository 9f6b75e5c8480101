// SPDX-License-Identifier: MIT

// Package instance keeps a second elevated copy of the monitor from
// starting alongside a running one.
package instance

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// ErrAlreadyRunning means another process holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lock is a held instance lock.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock at path without blocking.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating lock directory")
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "locking %s", path)
	}
	if !ok {
		return nil, errors.Wrap(ErrAlreadyRunning, path)
	}
	return &Lock{fl: fl}, nil
}

// Path is the lock file location.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release drops the lock.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
