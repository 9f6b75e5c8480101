// SPDX-License-Identifier: MIT

// Package privilege decides, once at startup, whether the process may run
// privileged operations or must hand off to an elevated copy of itself.
package privilege

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrElevationFailed means the elevated relaunch could not be requested.
	// The process must exit without showing any UI.
	ErrElevationFailed = errors.New("privilege elevation failed")
	// ErrHandedOff means an elevated instance was launched and this one
	// must exit.
	ErrHandedOff = errors.New("handed off to elevated instance")
)

// Context is the privilege state established by Gate.Ensure. It does not
// change for the rest of the process lifetime.
type Context struct {
	EUID int
}

// Elevated reports whether the process runs as root.
func (c Context) Elevated() bool {
	return c.EUID == 0
}

// Relauncher starts a new elevated, detached instance of exe.
type Relauncher interface {
	Relaunch(ctx context.Context, exe string, args []string) error
}

// Gate performs the one-time privilege check.
type Gate struct {
	Relauncher Relauncher
	Args       []string
	Log        *logrus.Entry

	geteuid    func() int
	executable func() (string, error)
}

// NewGate returns a Gate that relaunches with this platform's elevation
// mechanism, forwarding args.
func NewGate(args []string, log *logrus.Entry) *Gate {
	return &Gate{
		Relauncher: DefaultRelauncher(),
		Args:       args,
		Log:        log,
		geteuid:    os.Geteuid,
		executable: os.Executable,
	}
}

// Ensure returns the privilege Context when the process is already elevated.
// Otherwise it requests an elevated relaunch and returns ErrHandedOff on
// success or ErrElevationFailed on failure. In both error cases the caller
// must exit.
func (g *Gate) Ensure(ctx context.Context) (Context, error) {
	pc := Context{EUID: g.geteuid()}
	if pc.Elevated() {
		return pc, nil
	}

	exe, err := g.executable()
	if err != nil {
		return pc, errors.Wrapf(ErrElevationFailed, "locating executable: %v", err)
	}
	g.Log.WithFields(logrus.Fields{"euid": pc.EUID, "exe": exe}).Info("not running as root, relaunching with administrator privileges")
	if err := g.Relauncher.Relaunch(ctx, exe, g.Args); err != nil {
		return pc, errors.Wrap(ErrElevationFailed, err.Error())
	}
	return pc, ErrHandedOff
}
