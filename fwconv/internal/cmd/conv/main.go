// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conv

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/embeddedgo/fwtools/fwconv/internal/config"
	"github.com/embeddedgo/fwtools/fwconv/internal/convert"
	"github.com/embeddedgo/fwtools/fwconv/internal/util"
)

const (
	DescrConv = "convert a firmware file, the input format is chosen by extension"
	DescrBin  = "convert an Intel HEX / Motorola S-record file to a binary image"
	DescrHex  = "convert a binary image to the Intel HEX format"
	DescrJam  = "convert the HEX files listed in a JAM manifest to one binary image"
	DescrScan = "print the address range of a firmware file"
)

var cmdFormat = map[string]convert.Format{
	"conv": convert.Auto,
	"scan": convert.Auto,
	"bin":  convert.Hex,
	"hex":  convert.Binary,
	"jam":  convert.JAM,
}

func Main(cmd string, args []string) {
	cfg, err := config.Load()
	util.FatalErr("config", err)

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		in, out := "HEX|S|JAM", "BIN"
		switch cmd {
		case "conv":
			in, out = "HEX|S|BIN|JAM", "OUT"
		case "hex":
			in, out = "BIN", "HEX"
		case "jam":
			in = "JAM"
		}
		if cmd == "scan" {
			fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] %s\nOptions:\n", cmd, in)
		} else {
			fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] %s [%s]\nOptions:\n", cmd, in, out)
		}
		fs.PrintDefaults()
	}
	base := fs.Uint64(
		"base", uint64(cfg.Base),
		"base `address`, subtracted from HEX addresses, added to BIN offsets",
	)
	verbose := fs.Bool("v", false, "print debug messages")
	var (
		fill, lineLen           *uint
		mcu, inc                *string
		scan, verify            *bool
		forceBin, forceHex, jam *bool
	)
	if cmd != "scan" {
		fill = fs.Uint(
			"fill", uint(cfg.Fill),
			"fill `byte` used for memory not defined by the input",
		)
	}
	if cmd != "hex" && cmd != "scan" {
		mcu = fs.String(
			"mcu", "",
			"allocate the whole memory of the `MCU`:\n"+mcuList(cfg),
		)
	}
	if cmd == "hex" || cmd == "conv" {
		inc = fs.String(
			"inc", "",
			"binary files to be included BIN1:ADDR1[,BIN2:ADDR2[,...]]",
		)
		lineLen = fs.Uint(
			"len", uint(cfg.LineLength),
			"number of data bytes per HEX record (1-255)",
		)
		verify = fs.Bool("verify", false, "decode the produced HEX file and compare")
	}
	if cmd == "conv" {
		scan = fs.Bool("scan", false, "only print the address range")
		forceBin = fs.Bool("bin", false, "force the BINARY input format")
		forceHex = fs.Bool("hex", false, "force the HEX input format")
		jam = fs.Bool("jam", false, "force the JAM input format")
	}
	fs.Parse(args)
	maxArgs := 2
	if cmd == "scan" {
		maxArgs = 1
	}
	if fs.NArg() == 0 || fs.NArg() > maxArgs {
		fs.Usage()
		os.Exit(1)
	}
	util.SetDebug(*verbose)
	if cfg.Path != "" {
		util.Log.Debugf("config: %s", cfg.Path)
	}

	opts := &convert.Options{
		Format:     cmdFormat[cmd],
		Fill:       cfg.Fill,
		LineLength: cfg.LineLength,
		Scan:       cmd == "scan",
		Log:        util.Log,
	}
	if *base > 0xffffffff {
		util.Fatal("%s: base address %#x does not fit in 32 bits", cmd, *base)
	}
	opts.Base = uint32(*base)
	if fill != nil {
		if *fill > 0xff {
			util.Fatal("%s: fill value %#x is not a byte", cmd, *fill)
		}
		opts.Fill = byte(*fill)
	}
	if mcu != nil && *mcu != "" {
		size, ok := cfg.MemorySize(*mcu)
		if !ok {
			util.Fatal("Unknown -mcu %s", *mcu)
		}
		opts.MemSize = size
	}
	if inc != nil && *inc != "" {
		opts.Include, err = util.ReadBins(*inc)
		util.FatalErr("readbins", err)
	}
	if lineLen != nil {
		if *lineLen < 1 || *lineLen > 255 {
			util.Fatal("%s: bad record length %d", cmd, *lineLen)
		}
		opts.LineLength = int(*lineLen)
	}
	if verify != nil {
		opts.Verify = *verify
	}
	if scan != nil {
		opts.Scan = *scan
	}
	if cmd == "conv" {
		switch {
		case *forceBin:
			opts.Format = convert.Binary
		case *forceHex:
			opts.Format = convert.Hex
		case *jam:
			opts.Format = convert.JAM
		}
	}

	rep, err := convert.Run(fs.Arg(0), fs.Arg(1), opts)
	util.FatalErr(cmd, err)
	if !rep.HasData {
		util.Warn("%s: no data", fs.Arg(0))
	}
}

func mcuList(cfg *config.Config) string {
	names := make([]string, 0, len(cfg.MCU))
	for name, size := range cfg.MCU {
		names = append(names, fmt.Sprintf("%s (%d KiB)", name, size/1024))
	}
	slices.Sort(names)
	return strings.Join(names, "\n")
}
