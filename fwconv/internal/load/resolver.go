// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"fmt"

	"github.com/embeddedgo/fwtools/fwconv/internal/image"
	"github.com/embeddedgo/fwtools/fwconv/internal/record"
)

// Resolver keeps the address extension state implied by the records read so
// far and turns data record addresses into absolute image addresses.
type Resolver struct {
	Base uint32 // subtracted from every resolved address

	segment uint32 // extended segment address << 4
	extend  uint32 // extended linear address << 16

	startSegment, startLinear       uint32
	hasStartSegment, hasStartLinear bool
}

// Reset clears the address extension state. Base is kept.
func (r *Resolver) Reset() {
	*r = Resolver{Base: r.Base}
}

// Resolve returns the absolute address of the byte stored at offset off of
// a data record with the load address addr.
func (r *Resolver) Resolve(addr, off uint32) (uint32, error) {
	a := uint64(r.segment) + uint64(r.extend) + uint64(addr) + uint64(off)
	if a < uint64(r.Base) {
		return 0, fmt.Errorf("%w: %#x below base address %#x", ErrAddressRange, a, r.Base)
	}
	a -= uint64(r.Base)
	if a >= 1<<32 {
		return 0, fmt.Errorf("%w: %#x beyond 32-bit address space", ErrAddressRange, a)
	}
	return uint32(a), nil
}

// Apply updates the state according to rec and writes the bytes of data
// records to m. It returns the number of bytes written.
func (r *Resolver) Apply(rec *record.Record, m *image.Memory) (int, error) {
	switch rec.Kind {
	case record.Data:
		for i, b := range rec.Data {
			a, err := r.Resolve(rec.Address, uint32(i))
			if err != nil {
				return i, err
			}
			m.Write(a, b)
		}
		return len(rec.Data), nil
	case record.ExtendedSegmentAddress:
		r.segment = rec.Value << 4
	case record.ExtendedLinearAddress:
		r.extend = rec.Value << 16
	case record.StartSegmentAddress:
		r.startSegment, r.hasStartSegment = rec.Value, true
	case record.StartLinearAddress:
		r.startLinear, r.hasStartLinear = rec.Value, true
	}
	return 0, nil
}

// StartSegment returns the value of the last Start Segment Address record.
func (r *Resolver) StartSegment() (uint32, bool) {
	return r.startSegment, r.hasStartSegment
}

// StartLinear returns the value of the last Start Linear Address record.
func (r *Resolver) StartLinear() (uint32, bool) {
	return r.startLinear, r.hasStartLinear
}
