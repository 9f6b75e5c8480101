// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	meminfo "github.com/renehsz/memtray"
	"github.com/renehsz/memtray/internal/config"
	"github.com/renehsz/memtray/internal/instance"
	"github.com/renehsz/memtray/internal/monitor"
	"github.com/renehsz/memtray/internal/privilege"
	"github.com/renehsz/memtray/internal/purge"
	"github.com/renehsz/memtray/internal/tray"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	logLevel   string
	headless   bool
}

func newRootCommand() *cobra.Command {
	var opts rootOptions
	cmd := &cobra.Command{
		Use:           "memtray [OPTIONS]",
		Short:         "Show in-use physical memory in the status bar",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			args, err = relaunchArgs(cmd, &opts)
			if err != nil {
				return err
			}
			return runMonitor(cmd.Context(), cfg, args, defaultRunDeps())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", config.DefaultPath, "Location of the YAML configuration file")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "", `Set the logging level ("debug"|"info"|"warn"|"error"|"fatal")`)
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Log the memory label instead of showing a status item")

	cmd.AddCommand(newSampleCommand(&opts), newPurgeCommand(&opts))
	return cmd
}

// loadConfig reads the config file, applies flag overrides and configures
// the standard logger.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return cfg, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if f := cmd.Flags().Lookup("headless"); f != nil && f.Changed {
		cfg.Headless = opts.headless
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.Logging.ConfigureLogger(logrus.StandardLogger()); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// gate is the one-time privilege check run before anything else.
type gate interface {
	Ensure(ctx context.Context) (privilege.Context, error)
}

// purger is a monitor.Purger that can tell whether purging is available.
type purger interface {
	monitor.Purger
	Supported() bool
}

// runDeps holds what runMonitor builds. Everything except newGate is only
// called after the gate has confirmed privileges.
type runDeps struct {
	newGate    func(args []string, log *logrus.Entry) gate
	newSampler func() monitor.Sampler
	newPurger  func() purger
	newSink    func(log *logrus.Entry) monitor.Sink
	runTray    func(ctx context.Context, menu tray.Menu, newLoop func(monitor.Sink) *monitor.Loop, log *logrus.Entry) error
}

func defaultRunDeps() runDeps {
	return runDeps{
		newGate: func(args []string, log *logrus.Entry) gate {
			return privilege.NewGate(args, log)
		},
		newSampler: func() monitor.Sampler { return meminfo.NewSampler() },
		newPurger:  func() purger { return purge.NewDefaultRunner() },
		newSink:    func(log *logrus.Entry) monitor.Sink { return logSink{log: log} },
		runTray:    tray.Run,
	}
}

// relaunchArgs rebuilds the command line for the elevated instance. The
// config path is made absolute because the elevated shell starts in /.
func relaunchArgs(cmd *cobra.Command, opts *rootOptions) ([]string, error) {
	configFile, err := filepath.Abs(opts.configFile)
	if err != nil {
		return nil, errors.Wrap(err, "resolving config path")
	}
	args := []string{"--config", configFile}
	if opts.logLevel != "" {
		args = append(args, "--log-level", opts.logLevel)
	}
	if f := cmd.Flags().Lookup("headless"); f != nil && f.Changed {
		args = append(args, "--headless="+strconv.FormatBool(opts.headless))
	}
	return args, nil
}

func runMonitor(ctx context.Context, cfg config.Config, args []string, deps runDeps) error {
	log := logrus.WithField("pid", os.Getpid())

	pc, err := deps.newGate(args, log).Ensure(ctx)
	if err != nil {
		return err
	}
	log = log.WithField("euid", pc.EUID)

	lock, err := instance.Acquire(cfg.LockFile)
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sampler := deps.newSampler()
	p := deps.newPurger()
	if !p.Supported() {
		log.Warn("no purge utility on this platform, purge is disabled")
	}

	if cfg.Headless {
		loop := monitor.New(sampler, p, deps.newSink(log), log)
		go purgeOnSignal(ctx, loop, log)
		log.Info("monitoring memory")
		return loop.Run(ctx)
	}

	newLoop := func(sink monitor.Sink) *monitor.Loop {
		return monitor.New(sampler, p, sink, log)
	}
	return deps.runTray(ctx, tray.Menu{PurgeEnabled: p.Supported()}, newLoop, log)
}

// exitCode maps a command error to the process exit status. A hand-off to
// the elevated instance is a clean exit.
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, privilege.ErrHandedOff):
		return 0
	case errors.Is(err, privilege.ErrElevationFailed):
		logrus.WithError(err).Error("Elevation failed")
		return 1
	default:
		logrus.WithError(err).Error("memtray failed")
		return 1
	}
}
