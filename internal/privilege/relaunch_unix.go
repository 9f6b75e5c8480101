//go:build unix && !darwin

// SPDX-License-Identifier: MIT
package privilege

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// sessionVars are kept across pkexec, which otherwise clears the
// environment and leaves the elevated instance without a display or
// session bus for its status item.
var sessionVars = []string{
	"DISPLAY",
	"WAYLAND_DISPLAY",
	"XAUTHORITY",
	"XDG_RUNTIME_DIR",
	"DBUS_SESSION_BUS_ADDRESS",
}

// pkexecRelauncher authenticates through polkit and runs a shell that
// starts exe in the background. pkexec exits once that shell has, so a
// dismissed or denied prompt is reported as an error.
type pkexecRelauncher struct {
	getenv func(string) string
}

// DefaultRelauncher returns the polkit relauncher.
func DefaultRelauncher() Relauncher {
	return pkexecRelauncher{getenv: os.Getenv}
}

func (r pkexecRelauncher) Relaunch(ctx context.Context, exe string, args []string) error {
	path, err := exec.LookPath("pkexec")
	if err != nil {
		return errors.Wrap(err, "pkexec")
	}
	line := detachedCommand(exe, args, sessionEnv(r.getenv))
	out, err := exec.CommandContext(ctx, path, "/bin/sh", "-c", line).CombinedOutput()
	if err != nil {
		return errors.Errorf("pkexec: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// sessionEnv returns the set sessionVars as KEY=value pairs.
func sessionEnv(getenv func(string) string) []string {
	var env []string
	for _, key := range sessionVars {
		if v := getenv(key); v != "" {
			env = append(env, key+"="+v)
		}
	}
	return env
}
