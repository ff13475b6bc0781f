// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package image implements a sparse memory image: a byte window addressed by
// absolute 32-bit addresses that grows in both directions as bytes are
// written outside of it.
package image

// BlockSize is the granularity of the backing window. Both window bounds are
// always multiples of BlockSize.
const BlockSize = 1024

// Memory is a growable firmware image. The zero value is an empty image with
// the 0x00 fill value, use New to select another one.
type Memory struct {
	buf  []byte // backing store for [low, high)
	low  uint64
	high uint64 // uint64 so the block containing 0xFFFFFFFF fits
	min  uint32 // lowest written address
	max  uint32 // highest written address
	used bool   // at least one byte written
	fill byte
}

// New returns an empty image that fills never written bytes with fill.
func New(fill byte) *Memory {
	return &Memory{fill: fill}
}

// Fill returns the value of bytes never written.
func (m *Memory) Fill() byte { return m.fill }

// Write stores b at the absolute address addr, growing the window if addr
// falls outside of it.
func (m *Memory) Write(addr uint32, b byte) {
	a := uint64(addr)
	if m.buf == nil || a < m.low || a >= m.high {
		block := a / BlockSize
		m.grow(block*BlockSize, (block+1)*BlockSize)
	}
	m.buf[a-m.low] = b
	if !m.used {
		m.min, m.max, m.used = addr, addr, true
		return
	}
	m.min = min(m.min, addr)
	m.max = max(m.max, addr)
}

// WriteBytes stores data starting at addr. Bytes that would go past
// 0xFFFFFFFF are dropped and the number of stored bytes is returned.
func (m *Memory) WriteBytes(addr uint32, data []byte) int {
	if len(data) == 0 {
		return 0
	}
	if room := 1<<32 - uint64(addr); uint64(len(data)) > room {
		data = data[:room]
	}
	last := uint64(addr) + uint64(len(data)) - 1
	m.grow(uint64(addr)/BlockSize*BlockSize, (last/BlockSize+1)*BlockSize)
	for i, b := range data {
		m.Write(addr+uint32(i), b)
	}
	return len(data)
}

// Reserve extends the window to cover [low, high) without marking anything
// as written. The bounds are rounded outwards to the block size.
func (m *Memory) Reserve(low, high uint64) {
	if high <= low {
		return
	}
	high = min(high, 1<<32)
	m.grow(low/BlockSize*BlockSize, (high+BlockSize-1)/BlockSize*BlockSize)
}

// grow makes the window cover at least [low, high). Both bounds must be block
// aligned.
func (m *Memory) grow(low, high uint64) {
	if m.buf != nil {
		if low >= m.low && high <= m.high {
			return
		}
		low = min(low, m.low)
		high = max(high, m.high)
	}
	buf := make([]byte, high-low)
	if m.buf == nil {
		fillBytes(buf, m.fill)
	} else {
		off := m.low - low
		copy(buf[off:], m.buf)
		fillBytes(buf[:off], m.fill)
		fillBytes(buf[off+uint64(len(m.buf)):], m.fill)
	}
	m.buf, m.low, m.high = buf, low, high
}

func fillBytes(p []byte, b byte) {
	for i := range p {
		p[i] = b
	}
}

// Empty reports whether no byte has been written yet.
func (m *Memory) Empty() bool { return !m.used }

// Bounds returns the lowest and the highest written address. The ok result
// is false if nothing has been written.
func (m *Memory) Bounds() (lo, hi uint32, ok bool) {
	return m.min, m.max, m.used
}

// Window returns the bounds of the backing store [low, high).
func (m *Memory) Window() (low, high uint64) {
	return m.low, m.high
}

// Len returns the number of bytes between the lowest and the highest written
// address, inclusive.
func (m *Memory) Len() int {
	if !m.used {
		return 0
	}
	return int(m.max-m.min) + 1
}

// At returns the byte at addr. The ok result is false if addr is outside the
// window.
func (m *Memory) At(addr uint32) (b byte, ok bool) {
	a := uint64(addr)
	if m.buf == nil || a < m.low || a >= m.high {
		return m.fill, false
	}
	return m.buf[a-m.low], true
}

// Bytes returns the image content from the lowest to the highest written
// address. The result shares the backing store with m until the next write
// that grows the window.
func (m *Memory) Bytes() []byte {
	if !m.used {
		return nil
	}
	return m.buf[uint64(m.min)-m.low : uint64(m.max)-m.low+1]
}

// WindowBytes returns the whole backing store.
func (m *Memory) WindowBytes() []byte {
	return m.buf
}
