//go:build unix

// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/renehsz/memtray/internal/monitor"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// purgeOnSignal queues a purge for every SIGUSR1 until ctx is done or the
// loop stops.
func purgeOnSignal(ctx context.Context, loop *monitor.Loop, log *logrus.Entry) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, unix.SIGUSR1)
	defer signal.Stop(sigc)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigc:
			log.Debug("SIGUSR1 received, purging")
			if err := loop.Post(ctx, monitor.Event{Kind: monitor.Purge}); err != nil {
				return
			}
		}
	}
}
