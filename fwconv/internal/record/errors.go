// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

import "errors"

var (
	// ErrMalformed classifies lines with a bad length, a bad hex digit or a
	// bad fixed field length.
	ErrMalformed = errors.New("malformed record")

	// ErrUnsupported classifies disallowed Motorola record types and unknown
	// Intel record types.
	ErrUnsupported = errors.New("unsupported record type")
)

// Error describes why a line could not be decoded.
type Error struct {
	Kind error // ErrMalformed or ErrUnsupported
	Msg  string
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

func malformed(msg string) error {
	return &Error{ErrMalformed, msg}
}

func unsupported(msg string) error {
	return &Error{ErrUnsupported, msg}
}
