// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package value models the 4-lane operand a DXBC instruction reads and
// writes: a component mask selecting which of x/y/z/w are touched, a
// swizzle selecting which source component feeds each destination
// lane, and the load/store dispatch that turns an operand kind into
// the right dx op or IR instruction.
package value

import "github.com/gogpu/dxbc2dxil/dxil"

// Mask is a 4-bit component mask: bit 0 is x, bit 1 is y, and so on.
// Load/store operate under a mask; lanes outside it are left untouched.
type Mask uint8

const (
	MaskX Mask = 1 << 0
	MaskY Mask = 1 << 1
	MaskZ Mask = 1 << 2
	MaskW Mask = 1 << 3
	MaskXYZW = MaskX | MaskY | MaskZ | MaskW
)

// Has reports whether lane is set in m.
func (m Mask) Has(lane int) bool { return m&(1<<uint(lane)) != 0 }

// Component identifies a single lane of a 4-component vector.
type Component uint8

const (
	X Component = 0
	Y Component = 1
	Z Component = 2
	W Component = 3
)

// Swizzle selects, for each destination lane, which source component
// feeds it, applied to an OperandValue's four lanes.
type Swizzle [4]Component

// Identity is the no-op swizzle: each destination lane reads the
// source lane of the same index.
var Identity = Swizzle{X, Y, Z, W}

// OperandValue is a 4-lane operand: one optional IR value per
// component. A nil lane means "not loaded" — distinct from a lane
// holding an explicit zero or undef value.
type OperandValue struct {
	Lanes [4]dxil.Value
}

// Get returns the value at lane c, or nil if that lane was never
// loaded.
func (v OperandValue) Get(c Component) dxil.Value { return v.Lanes[c] }

// Set stores val at lane c.
func (v *OperandValue) Set(c Component, val dxil.Value) { v.Lanes[c] = val }

// Swizzled returns a new OperandValue where destination lane i holds
// v's lane sw[i] — a gather, not a shuffle in place.
func (v OperandValue) Swizzled(sw Swizzle) OperandValue {
	var out OperandValue
	for i := 0; i < 4; i++ {
		out.Lanes[i] = v.Lanes[sw[i]]
	}
	return out
}

// Broadcast returns an OperandValue with every masked lane set to val,
// the shape a scalar dx-op result (a dot product, a handle, a thread
// ID) takes when it must be stored under a wider destination mask.
func Broadcast(val dxil.Value, mask Mask) OperandValue {
	var out OperandValue
	for i := 0; i < 4; i++ {
		if mask.Has(i) {
			out.Lanes[i] = val
		}
	}
	return out
}

// ApplyMask returns an OperandValue holding only v's lanes that mask
// selects; the rest are nil.
func ApplyMask(v OperandValue, mask Mask) OperandValue {
	var out OperandValue
	for i := 0; i < 4; i++ {
		if mask.Has(i) {
			out.Lanes[i] = v.Lanes[i]
		}
	}
	return out
}
