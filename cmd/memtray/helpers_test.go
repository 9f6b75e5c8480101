// SPDX-License-Identifier: MIT
package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

func newTestLogger(w io.Writer) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logrus.NewEntry(log)
}
