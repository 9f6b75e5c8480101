//go:build !unix

// SPDX-License-Identifier: MIT
package main

import (
	"context"

	"github.com/renehsz/memtray/internal/monitor"
	"github.com/sirupsen/logrus"
)

func purgeOnSignal(ctx context.Context, _ *monitor.Loop, log *logrus.Entry) {
	log.Debug("purge on signal is not available on this platform")
	<-ctx.Done()
}
