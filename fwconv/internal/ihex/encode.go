// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ihex writes byte sequences in the Intel HEX format.
package ihex

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/embeddedgo/fwtools/fwconv/internal/image"
	"github.com/embeddedgo/fwtools/fwconv/internal/record"
)

// DefaultLineLength is the number of data bytes in a full data record.
const DefaultLineLength = 16

// EOFRecord is the terminal End Of File record.
const EOFRecord = ":00000001FF"

// ErrAddressRange is returned when the data does not fit below 4 GiB.
var ErrAddressRange = errors.New("data does not fit in 32-bit address space")

// Checksum returns the two's complement of the modulo 256 sum of the record
// bytes (count, address, type and data).
func Checksum(rec []byte) byte {
	var sum byte
	for _, b := range rec {
		sum += b
	}
	return -sum
}

// Encoder writes Intel HEX records. Every data record is preceded by an
// Extended Linear Address record if the upper 16 bits of its address differ
// from the last announced ones. Data records never cross a 64 KiB boundary.
type Encoder struct {
	w       *bufio.Writer
	lineLen int
	upper   uint32 // announced upper address bits
	hasUp   bool   // upper was announced
	rec     []byte
	line    []byte
}

// NewEncoder returns an encoder that writes up to lineLen data bytes per
// record. Values outside 1..255 select DefaultLineLength.
func NewEncoder(w io.Writer, lineLen int) *Encoder {
	if lineLen <= 0 || lineLen > 255 {
		lineLen = DefaultLineLength
	}
	return &Encoder{
		w:       bufio.NewWriter(w),
		lineLen: lineLen,
		rec:     make([]byte, 0, 5+lineLen),
		line:    make([]byte, 0, 1+2*(5+lineLen)+1),
	}
}

const hexDigits = "0123456789ABCDEF"

// writeRecord writes the record with the checksum appended.
func (e *Encoder) writeRecord(typ byte, addr uint16, data []byte) error {
	rec := append(e.rec[:0], byte(len(data)), byte(addr>>8), byte(addr), typ)
	rec = append(rec, data...)
	rec = append(rec, Checksum(rec))
	line := append(e.line[:0], ':')
	for _, b := range rec {
		line = append(line, hexDigits[b>>4], hexDigits[b&15])
	}
	line = append(line, '\n')
	e.rec, e.line = rec, line
	_, err := e.w.Write(line)
	return err
}

// Write encodes data placed at the address addr.
func (e *Encoder) Write(addr uint32, data []byte) error {
	if uint64(addr)+uint64(len(data)) > 1<<32 {
		return fmt.Errorf("%w: %d bytes at %#x", ErrAddressRange, len(data), addr)
	}
	for len(data) != 0 {
		if up := addr & 0xffff0000; !e.hasUp || up != e.upper {
			err := e.writeRecord(
				record.TypeExtendedLinearAddress, 0,
				[]byte{byte(addr >> 24), byte(addr >> 16)},
			)
			if err != nil {
				return err
			}
			e.upper, e.hasUp = up, true
		}
		n := min(e.lineLen, len(data), 0x10000-int(addr&0xffff))
		if err := e.writeRecord(record.TypeData, uint16(addr), data[:n]); err != nil {
			return err
		}
		data = data[n:]
		addr += uint32(n)
	}
	return nil
}

// Close writes the End Of File record and flushes the buffered output. It
// does not close the underlying writer.
func (e *Encoder) Close() error {
	if err := e.writeRecord(record.TypeEndOfFile, 0, nil); err != nil {
		return err
	}
	return e.w.Flush()
}

// Encode writes data placed at base as a complete Intel HEX file.
func Encode(w io.Writer, data []byte, base uint32, lineLen int) error {
	if uint64(base)+uint64(len(data)) > 1<<32 {
		return fmt.Errorf("%w: %d bytes at %#x", ErrAddressRange, len(data), base)
	}
	e := NewEncoder(w, lineLen)
	if err := e.Write(base, data); err != nil {
		return err
	}
	return e.Close()
}

// EncodeMemory writes the content of m from the lowest to the highest
// written address as a complete Intel HEX file.
func EncodeMemory(w io.Writer, m *image.Memory, lineLen int) error {
	lo, _, _ := m.Bounds()
	return Encode(w, m.Bytes(), lo, lineLen)
}
