// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package token

// Instruction is one decoded instruction record: an opcode, its
// destination and source operands, and the per-instruction flags that
// affect how it lowers.
type Instruction struct {
	Opcode Opcode

	// Operands holds every operand in source order; callers that need
	// to distinguish destinations from sources do so by opcode shape
	// (the same convention the DXBC encoding itself uses).
	Operands []Operand

	// Saturate clamps a floating-point result to [0,1] after the core
	// operation and before store.
	Saturate bool

	// PreciseMask is the per-component precise mask (spec §4.4 P6):
	// bit i set means component i of the result must not be reordered
	// or contracted by the optional cleanup pass.
	PreciseMask uint8

	// ResourceDim, when the opcode addresses a resource, disambiguates
	// the coordinate/offset shape (Texture2D vs Texture2DArray, Buffer
	// vs StructuredBuffer, and so on); an opaque enum value decoded
	// from the resource declaration this instruction's operand refers
	// to, not re-derived here.
	ResourceDim uint32

	// ReturnType, when the opcode addresses a resource, is the decoded
	// per-component return type (used, for sampling and typed loads,
	// to pick between itof/utof/direct read on the loaded value).
	ReturnType [4]uint32

	// Offsets holds up to three immediate texel offsets for sample/ld
	// variants that take one.
	Offsets [3]int8
}

// Stream is a decoded instruction stream: the analysis pass and the
// lowering walk both iterate it in order, exactly once.
type Stream struct {
	Instructions []Instruction
	pos          int
}

// NewStream wraps an already-decoded instruction slice for sequential
// consumption.
func NewStream(instructions []Instruction) *Stream {
	return &Stream{Instructions: instructions}
}

// Next returns the next instruction and advances the cursor, or
// (Instruction{}, false) at end of stream.
func (s *Stream) Next() (Instruction, bool) {
	if s.pos >= len(s.Instructions) {
		return Instruction{}, false
	}
	inst := s.Instructions[s.pos]
	s.pos++
	return inst, true
}

// Peek returns the next instruction without advancing the cursor.
func (s *Stream) Peek() (Instruction, bool) {
	if s.pos >= len(s.Instructions) {
		return Instruction{}, false
	}
	return s.Instructions[s.pos], true
}

// Pos returns the current cursor position, for error reporting.
func (s *Stream) Pos() int { return s.pos }

// Reset rewinds the cursor to the start, used when the analysis pass
// and the lowering walk need two independent passes over one decoded
// stream.
func (s *Stream) Reset() { s.pos = 0 }
