// SPDX-License-Identifier: MIT

// Package purge runs the operating system's memory-purge utility.
package purge

import (
	"context"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

var (
	// ErrSpawnFailed means the utility could not be started.
	ErrSpawnFailed = errors.New("purge utility could not be started")
	// ErrNonZeroExit means the utility ran and exited with a non-zero status.
	ErrNonZeroExit = errors.New("purge utility exited with non-zero status")
	// ErrInProgress is returned when a purge is requested while another one
	// is still running. The request is dropped.
	ErrInProgress = errors.New("purge already in progress")
	// ErrUnsupported means this platform has no purge utility.
	ErrUnsupported = errors.New("no purge utility on this platform")
)

// Runner spawns a fixed utility with no arguments. The caller must already
// hold the privileges the utility needs.
type Runner struct {
	path     string
	inFlight atomic.Bool
}

// NewRunner returns a Runner for the utility at path. An empty path means
// purging is unsupported.
func NewRunner(path string) *Runner {
	return &Runner{path: path}
}

// NewDefaultRunner returns a Runner for this platform's purge utility.
func NewDefaultRunner() *Runner {
	return NewRunner(DefaultPath)
}

// Path is the utility this Runner executes.
func (r *Runner) Path() string {
	return r.path
}

// Supported reports whether a utility is configured.
func (r *Runner) Supported() bool {
	return r.path != ""
}

// Purge runs the utility and blocks until it exits. There is no timeout;
// ctx only prevents starting once it is already done.
func (r *Runner) Purge(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		return ErrInProgress
	}
	defer r.inFlight.Store(false)

	if r.path == "" {
		return errors.Wrap(ErrSpawnFailed, ErrUnsupported.Error())
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(ErrSpawnFailed, err.Error())
	}

	cmd := exec.Command(r.path)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(ErrSpawnFailed, "%s: %v", r.path, err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Path: r.path, Code: exitErr.ExitCode()}
		}
		return errors.Wrapf(ErrSpawnFailed, "%s: %v", r.path, err)
	}
	return nil
}

// ExitError reports the status of a utility run that exited non-zero. It
// matches ErrNonZeroExit under errors.Is.
type ExitError struct {
	Path string
	Code int
}

func (e *ExitError) Error() string {
	return e.Path + ": exit status " + strconv.Itoa(e.Code) + ": " + ErrNonZeroExit.Error()
}

// Is makes errors.Is(err, ErrNonZeroExit) hold.
func (e *ExitError) Is(target error) bool {
	return target == ErrNonZeroExit
}

// ExitCode extracts the exit status from a non-zero-exit error, or returns -1.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
