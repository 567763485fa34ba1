// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package token defines the instruction-record shape the (external)
// bytecode decoder hands to the rest of the pipeline: one Instruction
// per decoded opcode, carrying its operands, modifiers, and
// per-instruction metadata. Decoding the raw SHDR/SHEX token stream
// into this shape is outside this module's scope; this package is the
// boundary the analysis pass (package analysis) and the lowering walk
// (package lower) are written against.
package token

// Opcode is the decoded DXBC instruction opcode.
type Opcode uint16

const (
	OpNop Opcode = iota

	// Move family
	OpMov
	OpMovc
	OpSwapc
	OpDmov
	OpDmovc

	// Integer arithmetic
	OpIAdd
	OpIMadOp
	OpAnd
	OpOr
	OpXor
	OpNot
	OpINeg
	OpShl
	OpIShr
	OpUShr
	OpIMin
	OpIMax
	OpUMin
	OpUMax
	OpIMul
	OpUMul
	OpUDiv
	OpUAddc
	OpUSubb

	// Float arithmetic
	OpAdd
	OpMul
	OpMad
	OpDiv
	OpRcp
	OpMin
	OpMax
	OpSqrt
	OpRsq
	OpExp
	OpLog
	OpFrc
	OpRound_ne
	OpRound_ni
	OpRound_pi
	OpRound_z
	OpSinCos

	// Dot products
	OpDp2
	OpDp3
	OpDp4

	// Comparisons (float)
	OpEq
	OpNe
	OpLt
	OpGe

	// Comparisons (int)
	OpIEq
	OpINe
	OpILt
	OpIGe
	OpULt
	OpUGe

	// Type conversions
	OpItoF
	OpUtoF
	OpFtoI
	OpFtoU
	OpF32toF16
	OpF16toF32

	// Double-precision suite
	OpDAdd
	OpDMul
	OpDDiv
	OpDFma
	OpDEq
	OpDNe
	OpDLt
	OpDGe
	OpDRcp
	OpDtoI
	OpDtoU
	OpDtoF
	OpItoD
	OpUtoD

	// Resources — sampling
	OpSample
	OpSampleB
	OpSampleL
	OpSampleD
	OpSampleC
	OpSampleCLz

	// Resources — load/store
	OpLd
	OpLdMS
	OpLdUAVTyped
	OpStoreUAVTyped
	OpLdStructured
	OpStoreStructured
	OpLdRaw
	OpStoreRaw
	OpResinfo
	OpSampleInfo
	OpSamplePos

	// Gather family
	OpGather4
	OpGather4C
	OpGather4Po
	OpGather4PoC

	// Atomics
	OpAtomicAnd
	OpAtomicOr
	OpAtomicXor
	OpAtomicAdd
	OpAtomicIMin
	OpAtomicIMax
	OpAtomicUMin
	OpAtomicUMax
	OpAtomicCmpStore
	OpImmAtomicAlloc
	OpImmAtomicConsume
	OpImmAtomicExch
	OpImmAtomicCmpExch

	OpSync
	OpDiscard

	// Derivatives / evaluation
	OpDerivRtx
	OpDerivRty
	OpDerivRtxCoarse
	OpDerivRtxFine
	OpDerivRtyCoarse
	OpDerivRtyFine
	OpEvalSampleIndex
	OpEvalCentroid
	OpEvalSnapped

	// Pixel-shader specials
	OpCalcLOD

	// GS stream control
	OpEmit
	OpCut
	OpEmitStream
	OpCutStream
	OpEmitThenCutStream

	// Control flow
	OpLabel
	OpIf
	OpElse
	OpEndIf
	OpLoop
	OpEndLoop
	OpBreak
	OpBreakc
	OpContinue
	OpContinuec
	OpSwitch
	OpCase
	OpDefault
	OpEndSwitch
	OpRet
	OpRetc
	OpCall
	OpCallc

	// Declarations
	OpDclResource
	OpDclConstantBuffer
	OpDclSampler
	OpDclInput
	OpDclInputSGV
	OpDclInputSIV
	OpDclInputPS
	OpDclInputPSSGV
	OpDclInputPSSIV
	OpDclOutput
	OpDclOutputSGV
	OpDclOutputSIV
	OpDclTemps
	OpDclIndexableTemp
	OpDclGlobalFlags
	OpDclThreadGroup
	OpDclGSInstanceCount
	OpDclInputControlPointCount
	OpDclOutputControlPointCount
	OpDclTessDomain
	OpDclTessPartitioning
	OpDclTessOutputPrimitive
	OpDclMaxTessFactor
	OpDclGSInputPrimitive
	OpDclGSOutputTopology
	OpDclMaxOutputVertexCount
	OpDclStream
	OpDclFunctionBody
	OpDclFunctionTable
	OpDclInterface
	OpDclUAVTyped
	OpDclUAVRaw
	OpDclUAVStructured
	OpDclResourceRaw
	OpDclResourceStructured
	OpDclThisPointer
	OpDclTGSMRaw
	OpDclTGSMStructured

	// Hull-shader phase markers
	OpHSDecls
	OpHSControlPointPhase
	OpHSForkPhase
	OpHSJoinPhase
	OpDclHSMaxTessFactor
	OpDclHSForkPhaseInstanceCount
	OpDclHSJoinPhaseInstanceCount
)

// IsDeclaration reports whether op is a declaration opcode: the
// analysis pass routes these into its per-kind tables and never emits
// IR for them.
func (op Opcode) IsDeclaration() bool {
	switch op {
	case OpDclResource, OpDclConstantBuffer, OpDclSampler,
		OpDclInput, OpDclInputSGV, OpDclInputSIV, OpDclInputPS, OpDclInputPSSGV, OpDclInputPSSIV,
		OpDclOutput, OpDclOutputSGV, OpDclOutputSIV,
		OpDclTemps, OpDclIndexableTemp, OpDclGlobalFlags, OpDclThreadGroup,
		OpDclGSInstanceCount, OpDclInputControlPointCount, OpDclOutputControlPointCount,
		OpDclTessDomain, OpDclTessPartitioning, OpDclTessOutputPrimitive, OpDclMaxTessFactor,
		OpDclGSInputPrimitive, OpDclGSOutputTopology, OpDclMaxOutputVertexCount,
		OpDclStream, OpDclFunctionBody, OpDclFunctionTable, OpDclInterface,
		OpDclUAVTyped, OpDclUAVRaw, OpDclUAVStructured, OpDclResourceRaw, OpDclResourceStructured,
		OpDclThisPointer, OpDclHSMaxTessFactor, OpDclHSForkPhaseInstanceCount, OpDclHSJoinPhaseInstanceCount,
		OpDclTGSMRaw, OpDclTGSMStructured:
		return true
	default:
		return false
	}
}

// IsControlFlow reports whether op is one of the structured
// control-flow opcodes the scope stack (package scope) reacts to.
func (op Opcode) IsControlFlow() bool {
	switch op {
	case OpIf, OpElse, OpEndIf, OpLoop, OpEndLoop, OpBreak, OpBreakc,
		OpContinue, OpContinuec, OpSwitch, OpCase, OpDefault, OpEndSwitch,
		OpRet, OpRetc, OpLabel,
		OpHSControlPointPhase, OpHSForkPhase, OpHSJoinPhase:
		return true
	default:
		return false
	}
}
