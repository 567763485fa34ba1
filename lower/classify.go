// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import "github.com/gogpu/dxbc2dxil/token"

func isMoveFamily(op token.Opcode) bool {
	switch op {
	case token.OpMov, token.OpMovc, token.OpSwapc, token.OpDmov, token.OpDmovc:
		return true
	}
	return false
}

func isFloatArith(op token.Opcode) bool {
	switch op {
	case token.OpAdd, token.OpMul, token.OpMad, token.OpDiv, token.OpRcp, token.OpMin, token.OpMax,
		token.OpSqrt, token.OpRsq, token.OpExp, token.OpLog, token.OpFrc,
		token.OpRound_ne, token.OpRound_ni, token.OpRound_pi, token.OpRound_z, token.OpSinCos,
		token.OpDp2, token.OpDp3, token.OpDp4:
		return true
	}
	return false
}

func isIntArith(op token.Opcode) bool {
	switch op {
	case token.OpIAdd, token.OpAnd, token.OpOr, token.OpXor, token.OpNot, token.OpINeg,
		token.OpShl, token.OpIShr, token.OpUShr, token.OpIMin, token.OpIMax, token.OpUMin, token.OpUMax,
		token.OpIMul, token.OpUMul, token.OpUDiv, token.OpUAddc, token.OpUSubb:
		return true
	}
	return false
}

func isCompare(op token.Opcode) bool {
	switch op {
	case token.OpEq, token.OpNe, token.OpLt, token.OpGe,
		token.OpIEq, token.OpINe, token.OpILt, token.OpIGe, token.OpULt, token.OpUGe:
		return true
	}
	return false
}

func isConversion(op token.Opcode) bool {
	switch op {
	case token.OpItoF, token.OpUtoF, token.OpFtoI, token.OpFtoU, token.OpF32toF16, token.OpF16toF32:
		return true
	}
	return false
}

func isDoublePrecision(op token.Opcode) bool {
	switch op {
	case token.OpDAdd, token.OpDMul, token.OpDDiv, token.OpDFma,
		token.OpDEq, token.OpDNe, token.OpDLt, token.OpDGe, token.OpDRcp,
		token.OpDtoI, token.OpDtoU, token.OpDtoF, token.OpItoD, token.OpUtoD:
		return true
	}
	return false
}

func isSample(op token.Opcode) bool {
	switch op {
	case token.OpSample, token.OpSampleB, token.OpSampleL, token.OpSampleD, token.OpSampleC, token.OpSampleCLz:
		return true
	}
	return false
}

func isResourceLoadStore(op token.Opcode) bool {
	switch op {
	case token.OpLd, token.OpLdMS, token.OpLdUAVTyped, token.OpStoreUAVTyped,
		token.OpLdStructured, token.OpStoreStructured, token.OpLdRaw, token.OpStoreRaw,
		token.OpResinfo, token.OpSampleInfo, token.OpSamplePos:
		return true
	}
	return false
}

func isGather(op token.Opcode) bool {
	switch op {
	case token.OpGather4, token.OpGather4C, token.OpGather4Po, token.OpGather4PoC:
		return true
	}
	return false
}

func isStreamControl(op token.Opcode) bool {
	switch op {
	case token.OpEmit, token.OpCut, token.OpEmitStream, token.OpCutStream, token.OpEmitThenCutStream:
		return true
	}
	return false
}

func isAtomic(op token.Opcode) bool {
	switch op {
	case token.OpAtomicAnd, token.OpAtomicOr, token.OpAtomicXor, token.OpAtomicAdd,
		token.OpAtomicIMin, token.OpAtomicIMax, token.OpAtomicUMin, token.OpAtomicUMax,
		token.OpAtomicCmpStore, token.OpImmAtomicAlloc, token.OpImmAtomicConsume,
		token.OpImmAtomicExch, token.OpImmAtomicCmpExch:
		return true
	}
	return false
}
