// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/embeddedgo/fwtools/fwconv/internal/image"
)

// Section is a piece of binary data placed at a fixed address.
type Section struct {
	Addr uint32 // load address of the first byte
	Data []byte
}

func (s *Section) end() uint64 {
	return uint64(s.Addr) + uint64(len(s.Data))
}

type Sections []*Section

// ReadBins reads binary files acording to the description
// BIN1:ADDR1[,BIN2:ADDR2[,...]] and returns them as a slice of sections.
func ReadBins(descr string) (Sections, error) {
	bins := strings.Split(descr, ",")
	ss := make(Sections, len(bins))
	for k, ba := range bins {
		i := strings.LastIndexByte(ba, ':')
		if i <= 0 {
			return nil, fmt.Errorf("bad '%s' in the -inc option", ba)
		}
		bin, addr := ba[:i], ba[i+1:]
		s := new(Section)
		a, err := strconv.ParseUint(addr, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("bad address in '%s': %s", addr, err)
		}
		s.Addr = uint32(a)
		s.Data, err = os.ReadFile(bin)
		if err != nil {
			return nil, err
		}
		if s.end() > 1<<32 {
			return nil, fmt.Errorf("%s at %#x does not fit in 32-bit address space", bin, s.Addr)
		}
		ss[k] = s
	}
	return ss, nil
}

// SortByAddr sorts sections according to the Addr field.
func (ss Sections) SortByAddr() {
	sort.Slice(
		ss,
		func(i, j int) bool {
			return ss[i].Addr < ss[j].Addr
		},
	)
}

// Size returns the number of data bytes in all sections.
func (ss Sections) Size() int {
	n := 0
	for _, s := range ss {
		n += len(s.Data)
	}
	return n
}

// Store writes the sections to the memory image in address order.
// Empty sections are skipped. Overlapping sections are an error and
// leave m unchanged.
func (ss Sections) Store(m *image.Memory) error {
	ss = slices.DeleteFunc(slices.Clone(ss), func(s *Section) bool { return len(s.Data) == 0 })
	ss.SortByAddr()
	for i := 1; i < len(ss); i++ {
		if uint64(ss[i].Addr) < ss[i-1].end() {
			return fmt.Errorf("overlaping sections at %#x", ss[i].Addr)
		}
	}
	for _, s := range ss {
		m.WriteBytes(s.Addr, s.Data)
	}
	return nil
}
