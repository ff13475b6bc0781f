// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/embeddedgo/fwtools/fwconv/internal/image"
)

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	m := image.New(0xff)
	m.WriteBytes(0x30, []byte{0x02, 0x33, 0x7a})

	good := writeTestFile(t, filepath.Join(dir, "good.hex"), []byte(":0300300002337A1E\n:00000001FF\n"))
	if err := verify(good, m); err != nil {
		t.Errorf("good file: %v", err)
	}
	for name, text := range map[string]string{
		"data.hex":     ":0300300002337B1D\n:00000001FF\n",
		"checksum.hex": ":0300300002337A1F\n:00000001FF\n",
		"noeof.hex":    ":0300300002337A1E\n",
		"extra.hex":    ":0300300002337A1E\n:0100400011AE\n:00000001FF\n",
	} {
		bad := writeTestFile(t, filepath.Join(dir, name), []byte(text))
		if err := verify(bad, m); !errors.Is(err, ErrVerify) {
			t.Errorf("%s: error %v, want ErrVerify", name, err)
		}
	}
}

func TestMismatch(t *testing.T) {
	if i := mismatch([]byte{1, 2, 3}, []byte{1, 2, 3}); i != -1 {
		t.Errorf("equal slices: %d", i)
	}
	if i := mismatch([]byte{1, 2, 3}, []byte{1, 5, 3}); i != 1 {
		t.Errorf("mismatch at %d, want 1", i)
	}
}
