//go:build !unix

// SPDX-License-Identifier: MIT
package privilege

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
)

type unsupportedRelauncher struct{}

// DefaultRelauncher returns a relauncher that always fails.
func DefaultRelauncher() Relauncher {
	return unsupportedRelauncher{}
}

func (unsupportedRelauncher) Relaunch(context.Context, string, []string) error {
	return errors.Errorf("elevated relaunch is not supported on %s", runtime.GOOS)
}
