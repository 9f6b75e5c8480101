//go:build !linux && !freebsd && !(darwin && cgo)

// SPDX-License-Identifier: MIT
package meminfo

import (
	"runtime"

	"github.com/pkg/errors"
)

func readCounters() (*Counters, error) {
	return nil, errors.Wrapf(ErrKernelQuery, "page counters are not supported on %s/%s", runtime.GOOS, runtime.GOARCH)
}
