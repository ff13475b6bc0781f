// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/embeddedgo/fwtools/fwconv/internal/image"
	"github.com/embeddedgo/fwtools/fwconv/internal/record"
)

func loadString(t *testing.T, text string, m *image.Memory, opts *Options) (*Result, error) {
	t.Helper()
	return Reader(strings.NewReader(text), "test.hex", m, opts)
}

func TestExampleRecord(t *testing.T) {
	m := image.New(0xff)
	res, err := loadString(t, ":0300300002337A1E\n:00000001FF\n", m, nil)
	if err != nil {
		t.Fatal(err)
	}
	assertByte(t, m, 0x30, 0x02)
	assertByte(t, m, 0x31, 0x33)
	assertByte(t, m, 0x32, 0x7a)
	if lo, hi, _ := m.Bounds(); lo != 0x30 || hi != 0x32 {
		t.Errorf("bounds %#x-%#x", lo, hi)
	}
	if res.Bytes != 3 || res.Records != 2 || !res.EOF {
		t.Errorf("result %+v", res)
	}
}

func TestEarlyEOF(t *testing.T) {
	m := image.New(0xff)
	res, err := loadString(t, ":00000001FF\n:0300300002337A1E\nbroken\n:zz\n", m, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Empty() || res.Bytes != 0 || !res.EOF || res.Lines != 1 {
		t.Errorf("data processed after EOF: %+v", res)
	}
}

func TestNoEOF(t *testing.T) {
	m := image.New(0xff)
	res, err := loadString(t, "\n  :0300300002337A1E  \r\n\n", m, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.EOF || res.Bytes != 3 || res.Lines != 3 {
		t.Errorf("result %+v", res)
	}
}

func TestLineError(t *testing.T) {
	m := image.New(0xff)
	text := ":0300300002337A1E\n\n:0300330002G37A1E\n:0100400011AE\n:00000001FF\n"
	res, err := loadString(t, text, m, nil)
	var lerr *LineError
	if !errors.As(err, &lerr) {
		t.Fatalf("error %v is not a *LineError", err)
	}
	if lerr.Line != 3 || lerr.File != "test.hex" {
		t.Errorf("error at %s:%d, want test.hex:3", lerr.File, lerr.Line)
	}
	if !errors.Is(err, record.ErrMalformed) {
		t.Errorf("error %v is not ErrMalformed", err)
	}
	if !strings.HasPrefix(err.Error(), "test.hex:3: ") {
		t.Errorf("message %q", err.Error())
	}
	if res.Bytes != 3 {
		t.Errorf("%d bytes processed before error", res.Bytes)
	}
	if b, _ := m.At(0x40); b != 0xff {
		t.Errorf("line after the error was processed: %#x at 0x40", b)
	}
	if lo, hi, ok := m.Bounds(); !ok || lo != 0x30 || hi != 0x32 {
		t.Errorf("bounds %#x-%#x, want 0x30-0x32", lo, hi)
	}
}

func TestUnsupportedRecord(t *testing.T) {
	m := image.New(0xff)
	_, err := loadString(t, "S00F000068656C6C6F202020202000003C\n", m, nil)
	if !errors.Is(err, record.ErrUnsupported) {
		t.Errorf("S0 record: %v", err)
	}
	_, err = loadString(t, ":0000000600\n", m, nil)
	if !errors.Is(err, record.ErrUnsupported) {
		t.Errorf("Intel type 06: %v", err)
	}
}

func TestMotorolaFile(t *testing.T) {
	m := image.New(0)
	text := "S1060100AABBCCC7\nS20702000011223390\nS30800030000DDEEFF2A\nS9030000FC\n"
	res, err := loadString(t, text, m, &Options{Base: 0x100})
	if err != nil {
		t.Fatal(err)
	}
	assertByte(t, m, 0x0000, 0xaa)
	assertByte(t, m, 0x0002, 0xcc)
	assertByte(t, m, 0x01ff00, 0x11)
	assertByte(t, m, 0x02ff02, 0xff)
	if res.Bytes != 9 || res.EOF {
		t.Errorf("result %+v", res)
	}
}

func TestAddressBelowBase(t *testing.T) {
	m := image.New(0xff)
	_, err := loadString(t, ":0300300002337A1E\n", m, &Options{Base: 0x31})
	if !errors.Is(err, ErrAddressRange) {
		t.Errorf("error %v, want ErrAddressRange", err)
	}
}

func TestStartAddressLogging(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	m := image.New(0xff)
	text := ":0400000300003800C1\n:04000005000000CD2A\n:00000001FF\n"
	res, err := loadString(t, text, m, &Options{Log: log})
	if err != nil {
		t.Fatal(err)
	}
	if !res.HasStartSegment || res.StartSegment != 0x3800 {
		t.Errorf("start segment %#x, %v", res.StartSegment, res.HasStartSegment)
	}
	if !res.HasStartLinear || res.StartLinear != 0xcd {
		t.Errorf("start linear %#x, %v", res.StartLinear, res.HasStartLinear)
	}
	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("%d log entries, want 2", len(entries))
	}
	if entries[0].Level != logrus.InfoLevel || entries[0].Message != "Start Segment: 3800." {
		t.Errorf("entry 0: %v %q", entries[0].Level, entries[0].Message)
	}
	if entries[1].Message != "Linear Address: 0xCD" {
		t.Errorf("entry 1: %q", entries[1].Message)
	}
}

func TestMissingFile(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "none.hex"), image.New(0xff), nil)
	if !errors.Is(err, ErrUnreadableInput) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v", err)
	}
}

func writeFile(t *testing.T, name, text string) string {
	t.Helper()
	if err := os.WriteFile(name, []byte(text), 0o666); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestJAM(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.hex"), ":020000000102FB\n:00000001FF\n")
	writeFile(t, filepath.Join(dir, "b.hex"), ":020000040001F9\n:01000000AA55\n:00000001FF\n")
	// the second file does not inherit the linear address of the first one
	writeFile(t, filepath.Join(dir, "c.hex"), ":0100010055A9\n:00000001FF\n")
	manifest := writeFile(t, filepath.Join(dir, "prog.jam"), "a.hex\n\n  b.hex  \nc.hex\n")

	m := image.New(0xff)
	results, err := JAM(manifest, m, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("%d results", len(results))
	}
	assertByte(t, m, 0, 0x01)
	assertByte(t, m, 1, 0x55) // overlaid by c.hex
	assertByte(t, m, 0x10000, 0xaa)
	if lo, hi, _ := m.Bounds(); lo != 0 || hi != 0x10000 {
		t.Errorf("bounds %#x-%#x", lo, hi)
	}
}

func TestJAMStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.hex"), ":020000000102FB\n")
	writeFile(t, filepath.Join(dir, "bad.hex"), ":02000000\n")
	writeFile(t, filepath.Join(dir, "c.hex"), ":01001000559A\n")
	manifest := writeFile(t, filepath.Join(dir, "prog.jam"), "a.hex\nbad.hex\nc.hex\n")

	log, hook := logtest.NewNullLogger()
	m := image.New(0xff)
	results, err := JAM(manifest, m, &Options{Log: log})
	var lerr *LineError
	if !errors.As(err, &lerr) || lerr.Line != 1 || filepath.Base(lerr.File) != "bad.hex" {
		t.Fatalf("error %v", err)
	}
	if len(results) != 1 {
		t.Errorf("%d results", len(results))
	}
	if lo, hi, ok := m.Bounds(); !ok || lo != 0 || hi != 1 {
		t.Fatalf("a.hex not loaded: bounds %#x-%#x", lo, hi)
	}
	if b, _ := m.At(0x10); b != 0xff {
		t.Errorf("c.hex processed after failure")
	}
	if n := len(hook.AllEntries()); n != 2 {
		t.Errorf("%d files announced, want 2", n)
	}
}

func TestJAMMissingMember(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, filepath.Join(dir, "prog.jam"), "missing.hex\n")
	_, err := JAM(manifest, image.New(0xff), nil)
	if !errors.Is(err, ErrUnreadableInput) {
		t.Errorf("error %v", err)
	}
}
