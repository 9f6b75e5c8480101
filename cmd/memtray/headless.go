// SPDX-License-Identifier: MIT
package main

import (
	"github.com/sirupsen/logrus"
)

// logSink writes each label to the log. Used when no status bar is
// available.
type logSink struct {
	log *logrus.Entry
}

func (s logSink) SetLabel(text string) {
	s.log.WithField("label", text).Info("memory in use")
}
