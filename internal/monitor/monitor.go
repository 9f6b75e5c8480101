// SPDX-License-Identifier: MIT

// Package monitor drives the memory display from a single serialized
// event queue fed by a fixed-period timer and user commands.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	meminfo "github.com/renehsz/memtray"
	"github.com/renehsz/memtray/internal/purge"
	"github.com/sirupsen/logrus"
)

const (
	// Interval is the sampling period.
	Interval = 45 * time.Second
	// InitialLabel is shown until the first sample completes.
	InitialLabel = "Initializing..."
	// ErrorLabel replaces the value when a sample fails.
	ErrorLabel = "Error"

	queueSize = 16
)

// ErrStopped is returned by Post once the loop has exited.
var ErrStopped = errors.New("monitor loop stopped")

// Kind tags an Event.
type Kind int

const (
	Tick Kind = iota
	Purge
	Quit
)

func (k Kind) String() string {
	switch k {
	case Tick:
		return "tick"
	case Purge:
		return "purge"
	case Quit:
		return "quit"
	}
	return "unknown"
}

// Event is one entry of the loop's queue.
type Event struct {
	Kind Kind
}

// Sampler produces memory snapshots.
type Sampler interface {
	Sample() (meminfo.Snapshot, error)
}

// Purger runs the privileged purge action.
type Purger interface {
	Purge(ctx context.Context) error
}

// Sink displays the current label. It is only ever called from the loop
// goroutine.
type Sink interface {
	SetLabel(text string)
}

// Loop owns the display label. All writes to the Sink happen on the
// goroutine running Run, in the order events were queued.
type Loop struct {
	sampler  Sampler
	purger   Purger
	sink     Sink
	log      *logrus.Entry
	interval time.Duration

	events  chan Event
	stopped chan struct{}
	once    sync.Once

	// mu guards closed; Post holds it shared for the whole send so that
	// shutdown can tell when no more events can enter the queue.
	mu     sync.RWMutex
	closed bool
}

// New builds a Loop. It must only be created after privileges have been
// confirmed.
func New(sampler Sampler, purger Purger, sink Sink, log *logrus.Entry) *Loop {
	return &Loop{
		sampler:  sampler,
		purger:   purger,
		sink:     sink,
		log:      log,
		interval: Interval,
		events:   make(chan Event, queueSize),
		stopped:  make(chan struct{}),
	}
}

// Post queues ev. It blocks while the queue is full and fails once the loop
// has stopped or ctx is done.
func (l *Loop) Post(ctx context.Context, ev Event) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrStopped
	}
	select {
	case l.events <- ev:
		return nil
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run shows the initial label, samples once, then handles queued events
// until a Quit event arrives or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()
	// runs before the ticker teardown above
	defer l.shutdown()

	l.sink.SetLabel(InitialLabel)
	l.refresh()

	wg.Add(1)
	go func() {
		defer wg.Done()
		l.tick(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-l.events:
			if l.dispatch(ctx, ev) {
				return nil
			}
		}
	}
}

// shutdown stops Post from accepting events, then reports every event
// that was queued but will never be handled.
func (l *Loop) shutdown() {
	l.once.Do(func() {
		close(l.stopped)
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		for {
			select {
			case ev := <-l.events:
				if ev.Kind != Tick {
					l.log.WithField("event", ev.Kind).Warn("dropping event queued after the loop stopped")
				}
			default:
				return
			}
		}
	})
}

// tick forwards timer ticks into the event queue so they are ordered with
// user commands.
func (l *Loop) tick(ctx context.Context) {
	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			select {
			case l.events <- Event{Kind: Tick}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// dispatch handles one event and reports whether the loop should stop.
func (l *Loop) dispatch(ctx context.Context, ev Event) bool {
	switch ev.Kind {
	case Tick:
		l.refresh()
	case Purge:
		l.purge(ctx)
	case Quit:
		l.log.Debug("quit requested")
		return true
	default:
		l.log.WithField("kind", ev.Kind).Warn("ignoring unknown event")
	}
	return false
}

func (l *Loop) refresh() {
	snap, err := l.sampler.Sample()
	if err != nil {
		l.log.WithError(err).Warn("sampling memory")
		l.sink.SetLabel(ErrorLabel)
		return
	}
	l.log.WithField("used_bytes", snap.UsedBytes).Debug("sampled memory")
	l.sink.SetLabel(snap.Label)
}

// purge runs the purger; only a successful run refreshes the display.
func (l *Loop) purge(ctx context.Context) {
	start := time.Now()
	if err := l.purger.Purge(ctx); err != nil {
		entry := l.log.WithError(err)
		if code := purge.ExitCode(err); code >= 0 {
			entry = entry.WithField("exit_code", code)
		}
		entry.Error("failed to run purge")
		return
	}
	l.log.WithField("took", time.Since(start)).Info("purge completed")
	l.refresh()
}
