// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	meminfo "github.com/renehsz/memtray"
	"github.com/renehsz/memtray/internal/config"
	"github.com/renehsz/memtray/internal/instance"
	"github.com/renehsz/memtray/internal/monitor"
	"github.com/renehsz/memtray/internal/privilege"
	"github.com/renehsz/memtray/internal/tray"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGate struct {
	pc  privilege.Context
	err error
}

func (g fixedGate) Ensure(context.Context) (privilege.Context, error) {
	return g.pc, g.err
}

// fakeRuntime counts every use of the components built after the gate.
type fakeRuntime struct {
	mu       sync.Mutex
	built    int
	samples  int
	labels   []string
	trayRuns int
}

func (f *fakeRuntime) Sample() (meminfo.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples++
	return meminfo.FromCounters(meminfo.Counters{Active: 262144, PageSize: 4096}), nil
}

func (f *fakeRuntime) SetLabel(text string) {
	f.mu.Lock()
	f.labels = append(f.labels, text)
	f.mu.Unlock()
}

func (f *fakeRuntime) Purge(context.Context) error { return nil }

func (f *fakeRuntime) Supported() bool { return true }

func (f *fakeRuntime) deps(g gate) runDeps {
	built := func() {
		f.mu.Lock()
		f.built++
		f.mu.Unlock()
	}
	return runDeps{
		newGate: func([]string, *logrus.Entry) gate { return g },
		newSampler: func() monitor.Sampler {
			built()
			return f
		},
		newPurger: func() purger {
			built()
			return f
		},
		newSink: func(*logrus.Entry) monitor.Sink {
			built()
			return f
		},
		runTray: func(context.Context, tray.Menu, func(monitor.Sink) *monitor.Loop, *logrus.Entry) error {
			f.mu.Lock()
			f.trayRuns++
			f.mu.Unlock()
			return nil
		},
	}
}

func testConfig(t *testing.T, headless bool) config.Config {
	cfg := config.Default()
	cfg.Headless = headless
	cfg.LockFile = filepath.Join(t.TempDir(), "memtray.lock")
	return cfg
}

func TestRunMonitorHandsOffWithoutSampling(t *testing.T) {
	for _, headless := range []bool{false, true} {
		f := &fakeRuntime{}
		err := runMonitor(context.Background(), testConfig(t, headless), nil, f.deps(fixedGate{
			pc:  privilege.Context{EUID: 501},
			err: privilege.ErrHandedOff,
		}))

		assert.Equal(t, privilege.ErrHandedOff, err)
		assert.Equal(t, 0, exitCode(err))
		assert.Equal(t, 0, f.built)
		assert.Equal(t, 0, f.samples)
		assert.Empty(t, f.labels)
		assert.Equal(t, 0, f.trayRuns)
	}
}

func TestRunMonitorElevationFailedShowsNoUI(t *testing.T) {
	for _, headless := range []bool{false, true} {
		f := &fakeRuntime{}
		err := runMonitor(context.Background(), testConfig(t, headless), nil, f.deps(fixedGate{
			pc:  privilege.Context{EUID: 501},
			err: errors.Wrap(privilege.ErrElevationFailed, "User canceled. (-128)"),
		}))

		assert.True(t, errors.Is(err, privilege.ErrElevationFailed))
		assert.Equal(t, 1, exitCode(err))
		assert.Equal(t, 0, f.built)
		assert.Equal(t, 0, f.samples)
		assert.Empty(t, f.labels)
		assert.Equal(t, 0, f.trayRuns)
	}
}

func TestRunMonitorElevatedHeadless(t *testing.T) {
	f := &fakeRuntime{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runMonitor(ctx, testConfig(t, true), nil, f.deps(fixedGate{}))
	require.NoError(t, err)
	assert.Equal(t, 1, f.samples)
	assert.Equal(t, []string{monitor.InitialLabel, "1.00 GB"}, f.labels)
	assert.Equal(t, 0, f.trayRuns)
}

func TestRunMonitorElevatedStartsTray(t *testing.T) {
	f := &fakeRuntime{}
	require.NoError(t, runMonitor(context.Background(), testConfig(t, false), nil, f.deps(fixedGate{})))
	assert.Equal(t, 1, f.trayRuns)
}

func TestRunMonitorSecondInstance(t *testing.T) {
	cfg := testConfig(t, true)
	f := &fakeRuntime{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lockHeld := make(chan struct{})
	release := make(chan struct{})
	first := f.deps(fixedGate{})
	first.newSink = func(*logrus.Entry) monitor.Sink {
		close(lockHeld)
		<-release
		return f
	}
	done := make(chan error, 1)
	go func() { done <- runMonitor(ctx, cfg, nil, first) }()
	<-lockHeld

	// the second instance stops at the lock, before building anything
	second := &fakeRuntime{}
	err := runMonitor(ctx, cfg, nil, second.deps(fixedGate{}))
	assert.True(t, errors.Is(err, instance.ErrAlreadyRunning))
	assert.Equal(t, 0, second.built)
	close(release)
	require.NoError(t, <-done)
}

func TestRelaunchArgs(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", "conf/memtray.yaml", "-l", "debug", "--headless"}))
	opts := rootOptions{configFile: "conf/memtray.yaml", logLevel: "debug", headless: true}

	args, err := relaunchArgs(cmd, &opts)
	require.NoError(t, err)
	abs, err := filepath.Abs("conf/memtray.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"--config", abs, "--log-level", "debug", "--headless=true"}, args)
	assert.True(t, filepath.IsAbs(args[1]))
}

func TestRelaunchArgsDefaults(t *testing.T) {
	cmd := newRootCommand()
	opts := rootOptions{configFile: config.DefaultPath}

	args, err := relaunchArgs(cmd, &opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"--config", config.DefaultPath}, args)
}
