// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package load reads Intel HEX / Motorola S-record files and JAM manifests
// into a sparse memory image.
package load

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/embeddedgo/fwtools/fwconv/internal/image"
	"github.com/embeddedgo/fwtools/fwconv/internal/record"
	"github.com/embeddedgo/fwtools/fwconv/internal/util"
)

var (
	// ErrAddressRange is returned for data that resolves to an address
	// below the base address or beyond 0xFFFFFFFF.
	ErrAddressRange = errors.New("address out of range")

	// ErrUnreadableInput wraps errors that occur while opening or reading
	// input files.
	ErrUnreadableInput = errors.New("unreadable input")
)

// LineError is returned when a line of an input file cannot be processed.
type LineError struct {
	File string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Options control how records are placed in the image.
type Options struct {
	Base uint32      // subtracted from all record addresses
	Log  util.Logger // nil means no logging
}

func (o *Options) logger() util.Logger {
	if o == nil || o.Log == nil {
		return util.NullLogger()
	}
	return o.Log
}

func (o *Options) base() uint32 {
	if o == nil {
		return 0
	}
	return o.Base
}

// Result summarizes a loaded file.
type Result struct {
	Lines   int  // lines read
	Records int  // records decoded, ignored lines excluded
	Bytes   int  // data bytes written to the image
	EOF     bool // an End Of File record was found

	StartSegment    uint32
	HasStartSegment bool
	StartLinear     uint32
	HasStartLinear  bool
}

// Reader reads the Intel HEX / Motorola S-record text from r into m. The
// name is used in error messages only. Reading stops at the End Of File
// record or at the end of input. The first bad line stops reading and is
// reported as a *LineError, m then contains the data of the preceding lines.
func Reader(r io.Reader, name string, m *image.Memory, opts *Options) (*Result, error) {
	log := opts.logger()
	res := new(Result)
	rs := Resolver{Base: opts.base()}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		res.Lines++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rec, err := record.Parse(line)
		if err != nil {
			return res, &LineError{name, res.Lines, err}
		}
		if rec.Kind == record.Ignored {
			if rec.Format == record.None {
				log.Debugf("%s:%d: line ignored", name, res.Lines)
			}
			continue
		}
		res.Records++
		if rec.Kind == record.EndOfFile {
			res.EOF = true
			break
		}
		n, err := rs.Apply(&rec, m)
		res.Bytes += n
		if err != nil {
			return res, &LineError{name, res.Lines, err}
		}
		switch rec.Kind {
		case record.StartSegmentAddress:
			log.Infof("Start Segment: %X.", rec.Value)
		case record.StartLinearAddress:
			log.Infof("Linear Address: 0x%X", rec.Value)
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrUnreadableInput, name, err)
	}
	res.StartSegment, res.HasStartSegment = rs.StartSegment()
	res.StartLinear, res.HasStartLinear = rs.StartLinear()
	return res, nil
}

// File reads the Intel HEX / Motorola S-record file into m.
func File(name string, m *image.Memory, opts *Options) (*Result, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableInput, err)
	}
	defer f.Close()
	return Reader(f, name, m, opts)
}
