// SPDX-License-Identifier: MIT

// Package config loads the monitor's YAML configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. A missing file there
// is not an error.
const DefaultPath = "/etc/memtray/config.yaml"

type Config struct {
	Logging  LoggingConfig `yaml:"logging"`
	Headless bool          `yaml:"headless"`
	LockFile string        `yaml:"lock_file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		LockFile: filepath.Join(os.TempDir(), "memtray.lock"),
	}
}

// Load reads path over the defaults. When path is DefaultPath and the file
// does not exist, the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultPath {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, "logging.level")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if c.LockFile == "" {
		return errors.New("lock_file must not be empty")
	}
	return nil
}

// ConfigureLogger applies the logging section to log.
func (c LoggingConfig) ConfigureLogger(log *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return errors.Wrap(err, "logging.level")
	}
	log.SetLevel(level)

	switch c.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if c.File != "" {
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(err, "opening log file")
		}
		log.SetOutput(f)
	}
	return nil
}
