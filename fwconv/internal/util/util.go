// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// Warn logs a warning using the command line logger.
func Warn(f string, args ...any) {
	Log.Warnf(f, args...)
}

// Fatal logs an error and exits the program.
func Fatal(f string, args ...any) {
	Log.Errorf(f, args...)
	os.Exit(1)
}

// FatalErr logs an error description and exits the program if the
// err != nil.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	s := err.Error()
	if what != "" {
		s = what + ": " + s
	}
	Log.Error(s)
	os.Exit(1)
}

// InOutFiles returns the name of the input file and infers the name of the
// output file if outName is an empty string. The inferred name is the base
// name of the input file with its extension replaced by outSuffix, placed in
// the current working directory.
func InOutFiles(inName, outName, outSuffix string) (string, string) {
	if outName == "" {
		base := filepath.Base(inName)
		outName = strings.TrimSuffix(base, filepath.Ext(base)) + outSuffix
	}
	return inName, outName
}

// Ext returns the lower case extension of the file name.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
