// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package token

// OperandKind is the decoded operand-file kind: which register space an
// operand addresses.
type OperandKind uint8

const (
	OperandImmediate32 OperandKind = iota
	OperandImmediate64
	OperandTemp
	OperandIndexableTemp
	OperandInput
	OperandInputControlPoint
	OperandOutputControlPoint
	OperandPatchConstant
	OperandOutput
	OperandConstantBuffer
	OperandSampler
	OperandResource
	OperandUAV
	OperandTGSM

	// OperandOutputDepth/DepthGE/DepthLE/StencilRef/CoverageMask address
	// the pixel-shader special output registers (oDepth/oDepthGE/
	// oDepthLE/oStencilRef/oMask): each routes to its dedicated
	// signature element by kind, never by a decoded register index.
	OperandOutputDepth
	OperandOutputDepthGE
	OperandOutputDepthLE
	OperandOutputStencilRef
	OperandOutputCoverageMask

	OperandThreadID
	OperandGroupID
	OperandThreadIDInGroup
	OperandFlattenedThreadIDInGroup
	OperandSampleIndex
	OperandPrimitiveID
	OperandGSInstanceID
	OperandOutputControlPointID
	OperandForkInstanceID
	OperandJoinInstanceID
	OperandInputDomainPoint
	OperandThisPointer
	OperandInputCoverageMask
	OperandInnerCoverage
	OperandCycleCounter
	OperandNull
	OperandLabel
	OperandFunctionBody
	OperandFunctionTable
	OperandInterface
	OperandImmediateConstantBuffer
	OperandUndefined
)

// Modifier is a source-operand modifier: absolute value, arithmetic
// negate, or both (applied abs-then-neg per spec §4.4).
type Modifier uint8

const (
	ModNone Modifier = 0
	ModAbs  Modifier = 1 << 0
	ModNeg  Modifier = 1 << 1
)

// Index is one dimension of an indexed operand, e.g. the register
// index of an indexable temp or the range ID, register, and optional
// dynamic offset of an SM5.1 resource binding.
type Index struct {
	// Immediate is used when the index is a compile-time constant.
	Immediate uint32

	// Relative, when non-nil, is the operand supplying a dynamic
	// component of the index (added to Immediate).
	Relative *Operand
}

// Operand is one decoded source or destination operand.
type Operand struct {
	Kind OperandKind

	// Indices addresses the operand's register file: for a Temp, one
	// index (the register number); for an indexable temp, two (array
	// index, register-within-array); for an SM5.1 resource, three
	// (range ID, register, optional space already folded in by the
	// decoder).
	Indices []Index

	// Mask selects which of the operand's up to 4 components this
	// reference touches (bit i set means component i), for a
	// destination or a non-swizzled source.
	Mask uint8

	// Swizzle selects, for a source operand, which component of the
	// addressed register feeds each of this reference's own
	// components.
	Swizzle [4]uint8

	Modifier Modifier

	// ImmValues holds up to four immediate 32-bit words (reinterpreted
	// as needed) for OperandImmediate32/64.
	ImmValues [4]uint32

	// SystemValue holds the decoded system-value tag for operand kinds
	// that name one directly (thread ID variants, primitive ID, and so
	// on) rather than addressing a register.
	SystemValue uint32
}
