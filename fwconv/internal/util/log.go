// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface used by the conversion packages.
// *logrus.Logger and *logrus.Entry satisfy it.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Log is the logger used by the command line tools.
var Log = NewLogger(os.Stderr, false)

// NewLogger returns a logrus logger writing plain text lines to w.
func NewLogger(w io.Writer, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	l.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

// SetDebug enables or disables debug messages of Log.
func SetDebug(debug bool) {
	if debug {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

type nullLogger struct{}

func (nullLogger) Infof(format string, args ...any)  {}
func (nullLogger) Warnf(format string, args ...any)  {}
func (nullLogger) Debugf(format string, args ...any) {}

// NullLogger returns a logger that discards everything.
func NullLogger() Logger {
	return nullLogger{}
}
