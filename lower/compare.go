// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
	"github.com/gogpu/dxbc2dxil/value"
)

// lowerCompare handles the float and integer comparison groups. DXBC
// comparisons produce an all-ones or all-zero 32-bit mask per lane, not
// an i1 — so every compare here is followed by a sign-extend from the
// i1 predicate result.
func (l *Lowerer) lowerCompare(inst token.Instruction) error {
	mask := destMask(inst)
	preciseMask := inst.PreciseMask
	elemType := dxil.I32
	if isFloatCompare(inst.Opcode) {
		elemType = dxil.F32
	}

	a := l.loadOperand(inst.Operands[1], elemType)
	b := l.loadOperand(inst.Operands[2], elemType)
	pred := comparePredicate(inst.Opcode)

	out := l.perLane2(a, b, mask, preciseMask, func(x, y dxil.Value, lane int) dxil.Value {
		op := dxil.OpICmp
		if isFloatCompare(inst.Opcode) {
			op = dxil.OpFCmp
		}
		cmp := l.emit(&dxil.Instruction{Op: op, Type: dxil.I1, Predicate: pred, Operands: []dxil.Value{x, y}}, preciseMask, lane)
		return l.emit(&dxil.Instruction{Op: dxil.OpSExt, Type: dxil.I32, Operands: []dxil.Value{cmp}}, preciseMask, lane)
	})
	l.storeOperand(inst.Operands[0], out)
	return nil
}

func isFloatCompare(op token.Opcode) bool {
	switch op {
	case token.OpEq, token.OpNe, token.OpLt, token.OpGe:
		return true
	}
	return false
}

func comparePredicate(op token.Opcode) dxil.Predicate {
	switch op {
	case token.OpEq:
		return dxil.PredFEQ
	case token.OpNe:
		return dxil.PredFNE
	case token.OpLt:
		return dxil.PredFLT
	case token.OpGe:
		return dxil.PredFGE
	case token.OpIEq:
		return dxil.PredIEQ
	case token.OpINe:
		return dxil.PredINE
	case token.OpILt:
		return dxil.PredSLT
	case token.OpIGe:
		return dxil.PredSGE
	case token.OpULt:
		return dxil.PredULT
	default: // OpUGe
		return dxil.PredUGE
	}
}

// lowerConversion handles itof/utof/ftoi/ftou and the legacy f32<->f16
// round-trip via the Legacy* dx ops (spec's fixed bit-level cast table,
// applied per opcode rather than through value.Cast's generic dispatch
// since each of these names an exact source/dest kind pair already).
func (l *Lowerer) lowerConversion(inst token.Instruction) error {
	mask := destMask(inst)
	preciseMask := inst.PreciseMask

	srcType, dstType := conversionTypes(inst.Opcode)
	src := l.loadOperand(inst.Operands[1], srcType)

	out := l.perLane1(src, mask, preciseMask, func(x dxil.Value, lane int) dxil.Value {
		switch inst.Opcode {
		case token.OpF32toF16:
			return l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.I32, DxOp: dxil.OpLegacyF32ToF16, Operands: []dxil.Value{x}}, preciseMask, lane)
		case token.OpF16toF32:
			return l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F32, DxOp: dxil.OpLegacyF16ToF32, Operands: []dxil.Value{x}}, preciseMask, lane)
		default:
			if folded, ok := value.CastConst(x, dstType); ok {
				return folded
			}
			var op dxil.OpCode
			switch inst.Opcode {
			case token.OpItoF:
				op = dxil.OpSIToFP
			case token.OpUtoF:
				op = dxil.OpUIToFP
			case token.OpFtoI:
				op = dxil.OpFPToSI
			default: // OpFtoU
				op = dxil.OpFPToUI
			}
			return l.emit(&dxil.Instruction{Op: op, Type: dstType, Operands: []dxil.Value{x}}, preciseMask, lane)
		}
	})
	l.storeOperand(inst.Operands[0], out)
	return nil
}

func conversionTypes(op token.Opcode) (src, dst dxil.Type) {
	switch op {
	case token.OpItoF:
		return dxil.I32, dxil.F32
	case token.OpUtoF:
		return dxil.I32, dxil.F32
	case token.OpFtoI:
		return dxil.F32, dxil.I32
	case token.OpFtoU:
		return dxil.F32, dxil.I32
	case token.OpF32toF16:
		return dxil.F32, dxil.I32
	default: // OpF16toF32
		return dxil.I32, dxil.F32
	}
}
