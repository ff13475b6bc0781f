// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fwconv converts firmware images between the raw binary, Intel HEX and
// Motorola S-record formats. It also builds one binary image from the HEX
// files listed in a JAM manifest.
//
// Usage:
//
//	fwconv COMMAND [OPTIONS] INPUT [OUTPUT]
//
// The commands are:
//
//	conv  input format chosen by the extension: .hex and .s, .bin, .jam
//	bin   HEX or S-record to binary
//	hex   binary to Intel HEX
//	jam   HEX files listed in a JAM manifest to one binary
//	scan  print the address range only
//
// The -base option is subtracted from HEX addresses and is the load address
// of a binary input. Bytes not defined by the input are set to the -fill
// value. The -mcu option writes the whole memory of a known MCU instead of
// the range from the lowest to the highest defined address. The hex and conv
// commands accept -inc BIN:ADDR[,...] to place more binaries in the output,
// -len to set the number of data bytes per record and -verify to decode the
// written file again. Without OUTPUT the output file is written to the
// current directory, named after the input with the extension replaced.
//
// Defaults for -base, -fill and -len, and additional MCUs, are read from the
// file named by FWCONV_CONFIG. If it is not set, fwconv.toml is looked up in
// the current directory and its parents, up to the one that contains go.mod.
package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/embeddedgo/fwtools/fwconv/internal/cmd/conv"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"conv": {conv.DescrConv, conv.Main},
	"bin":  {conv.DescrBin, conv.Main},
	"hex":  {conv.DescrHex, conv.Main},
	"jam":  {conv.DescrJam, conv.Main},
	"scan": {conv.DescrScan, conv.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  fwconv COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
