// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"bytes"
	"fmt"
	"os"

	"github.com/marcinbor85/gohex"

	"github.com/embeddedgo/fwtools/fwconv/internal/image"
)

// verify decodes the Intel HEX file using gohex and compares the result with
// the content of m.
func verify(name string, m *image.Memory) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(f); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrVerify, name, err)
	}
	lo, _, _ := m.Bounds()
	want := m.Bytes()
	got := mem.ToBinary(lo, uint32(len(want)), m.Fill())
	if i := mismatch(got, want); i >= 0 {
		return fmt.Errorf(
			"%w: %s: byte at %#x is %#02x, want %#02x",
			ErrVerify, name, lo+uint32(i), got[i], want[i],
		)
	}
	for _, s := range mem.GetDataSegments() {
		end := uint64(s.Address) + uint64(len(s.Data))
		if s.Address < lo || end > uint64(lo)+uint64(len(want)) {
			return fmt.Errorf("%w: %s: data outside the image at %#x", ErrVerify, name, s.Address)
		}
	}
	return nil
}

// mismatch returns the index of the first differing byte of two slices of
// the same length or -1 if they are equal.
func mismatch(a, b []byte) int {
	if bytes.Equal(a, b) {
		return -1
	}
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}
