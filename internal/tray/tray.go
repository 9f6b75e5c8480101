// SPDX-License-Identifier: MIT

// Package tray shows the monitor's label in the system status bar and
// turns its menu entries into loop events.
package tray

import (
	"context"

	"fyne.io/systray"
	"github.com/renehsz/memtray/internal/monitor"
	"github.com/sirupsen/logrus"
)

// Sink sets the status item title.
type Sink struct{}

func (Sink) SetLabel(text string) {
	systray.SetTitle(text)
}

// Menu describes the entries shown under the status item.
type Menu struct {
	// PurgeEnabled shows "Purge RAM"; it is hidden when no purge utility
	// exists on this platform.
	PurgeEnabled bool
}

// Run takes over the calling goroutine, which must be the main one, and
// returns after the loop stops. newLoop is called once the status item
// exists.
func Run(ctx context.Context, menu Menu, newLoop func(monitor.Sink) *monitor.Loop, log *logrus.Entry) error {
	errc := make(chan error, 1)
	onReady := func() {
		systray.SetTitle(monitor.InitialLabel)
		systray.SetTooltip("Physical memory in use")

		var purgeItem *systray.MenuItem
		if menu.PurgeEnabled {
			purgeItem = systray.AddMenuItem("Purge RAM", "Reclaim inactive memory")
			systray.AddSeparator()
		}
		quitItem := systray.AddMenuItem("Quit", "Quit the memory monitor")

		loop := newLoop(Sink{})
		go forward(ctx, loop, purgeItem, quitItem, log)
		go func() {
			errc <- loop.Run(ctx)
			systray.Quit()
		}()
	}
	systray.Run(onReady, func() { log.Debug("status item removed") })
	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

// forward posts menu clicks to the loop until it stops.
func forward(ctx context.Context, loop *monitor.Loop, purgeItem, quitItem *systray.MenuItem, log *logrus.Entry) {
	var purgeClicked <-chan struct{}
	if purgeItem != nil {
		purgeClicked = purgeItem.ClickedCh
	}
	for {
		var ev monitor.Event
		select {
		case <-ctx.Done():
			return
		case <-purgeClicked:
			ev = monitor.Event{Kind: monitor.Purge}
		case <-quitItem.ClickedCh:
			ev = monitor.Event{Kind: monitor.Quit}
		}
		if err := loop.Post(ctx, ev); err != nil {
			log.WithError(err).WithField("event", ev.Kind).Debug("dropping menu action")
			return
		}
	}
}
