// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convert selects the input format of a firmware file and performs
// the conversion: Intel HEX, Motorola S-record and JAM manifests are turned
// into a binary image, binary files into Intel HEX.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/embeddedgo/fwtools/fwconv/internal/image"
	"github.com/embeddedgo/fwtools/fwconv/internal/ihex"
	"github.com/embeddedgo/fwtools/fwconv/internal/load"
	"github.com/embeddedgo/fwtools/fwconv/internal/util"
)

var (
	// ErrUnknownFormat is returned if the input format cannot be determined
	// from the file name.
	ErrUnknownFormat = errors.New("unknown extension")

	// ErrUnwritableOutput wraps errors that occur while writing the output
	// file.
	ErrUnwritableOutput = errors.New("unwritable output")

	// ErrVerify is returned if the produced Intel HEX file does not decode
	// to the input data.
	ErrVerify = errors.New("verification failed")
)

// Format is the format of the input file.
type Format uint8

const (
	Auto   Format = iota // chosen by the file name extension
	Binary               // raw binary image
	Hex                  // Intel HEX or Motorola S-record
	JAM                  // list of HEX files
)

var formatNames = [...]string{"auto", "binary", "hex", "jam"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// FormatOf returns the format implied by the extension of the file name.
func FormatOf(name string) (Format, error) {
	switch ext := util.Ext(name); ext {
	case ".hex", ".s":
		return Hex, nil
	case ".bin":
		return Binary, nil
	case ".jam":
		return JAM, nil
	default:
		return Auto, fmt.Errorf("%w %s", ErrUnknownFormat, ext)
	}
}

// Options describe a conversion.
type Options struct {
	Format     Format
	Base       uint32        // base address
	Fill       byte          // value of never written image bytes
	MemSize    uint32        // reserve [0, MemSize) in the image, 0 means no reservation
	LineLength int           // data bytes per Intel HEX record
	Scan       bool          // only report the address range
	Include    util.Sections // additional binaries placed in the Intel HEX output
	Verify     bool          // check the Intel HEX output with an independent decoder
	Log        util.Logger
}

func (o *Options) logger() util.Logger {
	if o.Log == nil {
		return util.NullLogger()
	}
	return o.Log
}

// Report describes a finished conversion.
type Report struct {
	Format  Format
	Out     string // written file, empty if nothing was written
	Min     uint32 // lowest address of the image
	Max     uint32 // highest address of the image
	HasData bool
	Results []*load.Result // one for every loaded HEX file
}

// Run converts the input file. If out is empty the output file name is
// derived from the input file name. Nothing is written if the input cannot
// be converted completely or contains no data (Report.HasData is false).
func Run(in, out string, o *Options) (*Report, error) {
	format := o.Format
	if format == Auto {
		var err error
		if format, err = FormatOf(in); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(in); err != nil {
		return nil, fmt.Errorf("%w: %w", load.ErrUnreadableInput, err)
	}
	if format == Binary {
		return binToHex(in, out, o)
	}
	return hexToBin(in, out, format, o)
}

func hexToBin(in, out string, format Format, o *Options) (*Report, error) {
	log := o.logger()
	rep := &Report{Format: format}
	m := image.New(o.Fill)
	if o.MemSize != 0 {
		m.Reserve(0, uint64(o.MemSize))
	}
	lopts := &load.Options{Base: o.Base, Log: o.Log}
	var err error
	if format == JAM {
		rep.Results, err = load.JAM(in, m, lopts)
	} else {
		var res *load.Result
		res, err = load.File(in, m, lopts)
		if res != nil {
			rep.Results = []*load.Result{res}
		}
	}
	if err != nil {
		return rep, err
	}
	rep.Min, rep.Max, rep.HasData = m.Bounds()
	if !rep.HasData {
		return rep, nil
	}
	log.Infof("Address range: 0x%X-0x%X", rep.Min, rep.Max)
	log.Debugf("%d bytes between the lowest and highest address", m.Len())
	if o.Scan {
		return rep, nil
	}
	data := m.Bytes()
	if o.MemSize != 0 {
		data = m.WindowBytes()
	}
	_, out = util.InOutFiles(in, out, ".bin")
	err = writeFile(out, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return rep, err
	}
	rep.Out = out
	log.Debugf("%s: %d bytes written", out, len(data))
	return rep, nil
}

func binToHex(in, out string, o *Options) (*Report, error) {
	log := o.logger()
	rep := &Report{Format: Binary}
	data, err := os.ReadFile(in)
	if err != nil {
		return rep, fmt.Errorf("%w: %w", load.ErrUnreadableInput, err)
	}
	ss := append(util.Sections{{Addr: o.Base, Data: data}}, o.Include...)
	if ss.Size() == 0 {
		return rep, nil
	}
	for _, s := range ss {
		if uint64(s.Addr)+uint64(len(s.Data)) > 1<<32 {
			return rep, fmt.Errorf("%w: %d bytes at %#x", ihex.ErrAddressRange, len(s.Data), s.Addr)
		}
	}
	m := image.New(o.Fill)
	if err := ss.Store(m); err != nil {
		return rep, err
	}
	rep.Min, rep.Max, rep.HasData = m.Bounds()
	log.Infof("Address range: 0x%X-0x%X", rep.Min, rep.Max)
	if o.Scan {
		return rep, nil
	}
	_, out = util.InOutFiles(in, out, ".hex")
	err = writeFile(out, func(w io.Writer) error {
		return ihex.EncodeMemory(w, m, o.LineLength)
	})
	if err != nil {
		return rep, err
	}
	rep.Out = out
	if o.Verify {
		if err := verify(out, m); err != nil {
			return rep, err
		}
		log.Debugf("%s: verified", out)
	}
	return rep, nil
}

// writeFile creates the named file and fills it using write. The file is
// removed if write fails.
func writeFile(name string, write func(w io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritableOutput, err)
	}
	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: %s: %w", ErrUnwritableOutput, name, err)
	}
	return nil
}
