// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

import (
	"fmt"
	"strconv"
)

const (
	intelMinLen    = 11 // :ccaaaatt + checksum
	intelDataStart = 9
	srecMinLen     = 9
)

// Parse decodes one line. The line should be trimmed. Lines that start with
// neither ':' nor 'S' decode to an Ignored record.
func Parse(line string) (Record, error) {
	if line == "" {
		return Record{}, nil
	}
	switch line[0] {
	case ':':
		return parseIntel(line)
	case 'S':
		return parseMotorola(line)
	}
	return Record{}, nil
}

func hexField(line string, i, n int, name string) (uint32, error) {
	v, err := strconv.ParseUint(line[i:i+n], 16, 32)
	if err != nil {
		return 0, malformed(fmt.Sprintf("bad %s field '%s'", name, line[i:i+n]))
	}
	return uint32(v), nil
}

// dataBytes decodes n bytes starting at the i-th character of the line.
func dataBytes(line string, i, n int) ([]byte, error) {
	data := make([]byte, n)
	for k := range data {
		if len(line) < i+2 {
			return nil, malformed("data record too short")
		}
		b, err := strconv.ParseUint(line[i:i+2], 16, 8)
		if err != nil {
			return nil, malformed(fmt.Sprintf("bad data byte '%s'", line[i:i+2]))
		}
		data[k] = byte(b)
		i += 2
	}
	return data, nil
}

// parseIntel decodes the :ccaaaatt[dd...]ss syntax.
func parseIntel(line string) (r Record, err error) {
	r.Format = Intel
	if len(line) < intelMinLen {
		return r, malformed("line too short")
	}
	count, err := hexField(line, 1, 2, "count")
	if err != nil {
		return r, err
	}
	if r.Address, err = hexField(line, 3, 4, "address"); err != nil {
		return r, err
	}
	typ, err := hexField(line, 7, 2, "record type")
	if err != nil {
		return r, err
	}
	cs, err := hexField(line, len(line)-2, 2, "checksum")
	if err != nil {
		return r, err
	}
	r.Checksum = uint8(cs)

	switch typ {
	case TypeData:
		r.Kind = Data
		r.Data, err = dataBytes(line, intelDataStart, int(count))
	case TypeEndOfFile:
		r.Kind = EndOfFile
	case TypeExtendedSegmentAddress:
		r.Kind = ExtendedSegmentAddress
		if count != 2 || len(line) != 15 {
			return r, malformed("bad extended segment address record")
		}
		r.Value, err = hexField(line, intelDataStart, 4, "segment")
	case TypeStartSegmentAddress:
		r.Kind = StartSegmentAddress
		if count != 4 || len(line) < 19 {
			return r, malformed("bad start segment address record")
		}
		r.Value, err = hexField(line, intelDataStart, 8, "start segment")
	case TypeExtendedLinearAddress:
		r.Kind = ExtendedLinearAddress
		if len(line) != 15 {
			return r, malformed("bad extended linear address record")
		}
		r.Value, err = hexField(line, intelDataStart, 4, "linear address")
	case TypeStartLinearAddress:
		r.Kind = StartLinearAddress
		if count != 4 || len(line) < 19 {
			return r, malformed("bad start linear address record")
		}
		r.Value, err = hexField(line, intelDataStart, 8, "start linear address")
	default:
		return r, unsupported(fmt.Sprintf("Intel record type %02X", typ))
	}
	return r, err
}

// parseMotorola decodes the Stccaaaa[dd...]ss syntax. Only S1, S2 and S3
// carry data, S7, S8 and S9 are skipped.
func parseMotorola(line string) (r Record, err error) {
	r.Format = Motorola
	if len(line) < srecMinLen {
		return r, malformed("line too short")
	}
	typ, err := hexField(line, 1, 1, "record type")
	if err != nil {
		return r, err
	}
	var addrLen int
	switch typ {
	case 1:
		addrLen = 4
	case 2:
		addrLen = 6
	case 3:
		addrLen = 8
	case 7, 8, 9:
		return r, nil
	default:
		return r, unsupported(fmt.Sprintf("S%X record", typ))
	}
	idx := 4 + addrLen
	if len(line) < idx+1 {
		return r, malformed("line too short")
	}
	count, err := hexField(line, 2, 2, "count")
	if err != nil {
		return r, err
	}
	if r.Address, err = hexField(line, 4, addrLen, "address"); err != nil {
		return r, err
	}
	// count covers address, data and checksum
	fixed := uint32(addrLen/2 + 1)
	if count < fixed {
		return r, malformed(fmt.Sprintf("count %d too small for S%d record", count, typ))
	}
	r.Kind = Data
	r.Data, err = dataBytes(line, idx, int(count-fixed))
	return r, err
}
