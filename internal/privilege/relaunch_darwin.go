// SPDX-License-Identifier: MIT
package privilege

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// osascriptRelauncher asks for administrator rights through the standard
// macOS authentication dialog and starts exe in the background as root.
type osascriptRelauncher struct{}

// DefaultRelauncher returns the macOS relauncher.
func DefaultRelauncher() Relauncher {
	return osascriptRelauncher{}
}

func (osascriptRelauncher) Relaunch(ctx context.Context, exe string, args []string) error {
	out, err := exec.CommandContext(ctx, "/usr/bin/osascript", "-e", relaunchScript(exe, args)).CombinedOutput()
	if err != nil {
		return errors.Errorf("osascript: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
