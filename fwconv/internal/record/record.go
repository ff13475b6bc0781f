// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package record decodes single lines of Intel HEX and Motorola S-record
// files.
//
// Both syntaxes may be mixed in one file. Intel data records and Motorola
// S1/S2/S3 records decode to the same Data kind. Record checksums are parsed
// (Intel only) but never verified.
package record

import "fmt"

// Kind is the kind of a decoded record.
type Kind uint8

const (
	Ignored Kind = iota
	Data
	EndOfFile
	ExtendedSegmentAddress
	StartSegmentAddress
	ExtendedLinearAddress
	StartLinearAddress
)

var kindNames = [...]string{
	Ignored:                "ignored",
	Data:                   "data",
	EndOfFile:              "end of file",
	ExtendedSegmentAddress: "extended segment address",
	StartSegmentAddress:    "start segment address",
	ExtendedLinearAddress:  "extended linear address",
	StartLinearAddress:     "start linear address",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Format tells which syntax a line was written in.
type Format uint8

const (
	None Format = iota
	Intel
	Motorola
)

// Intel HEX record types.
const (
	TypeData                   = 0x00
	TypeEndOfFile              = 0x01
	TypeExtendedSegmentAddress = 0x02
	TypeStartSegmentAddress    = 0x03
	TypeExtendedLinearAddress  = 0x04
	TypeStartLinearAddress     = 0x05
)

// Record is a decoded line.
type Record struct {
	Kind     Kind
	Format   Format
	Address  uint32 // load address of Data records (without any extension)
	Data     []byte
	Value    uint32 // value of the address records
	Checksum uint8  // checksum field of Intel records, not verified
}
