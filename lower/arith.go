// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"math"

	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
	"github.com/gogpu/dxbc2dxil/value"
)

// lowerFloatArith handles the float arithmetic and dot-product groups:
// per-lane binary/ternary ops for everything but dp2/dp3/dp4, which
// reduce N lanes to a scalar broadcast across the destination mask.
func (l *Lowerer) lowerFloatArith(inst token.Instruction) error {
	mask := destMask(inst)
	preciseMask := inst.PreciseMask

	switch inst.Opcode {
	case token.OpDp2, token.OpDp3, token.OpDp4:
		lanes := dotLaneCount(inst.Opcode)
		a := l.loadOperand(inst.Operands[1], dxil.F32)
		b := l.loadOperand(inst.Operands[2], dxil.F32)
		var sum dxil.Value
		for i := 0; i < lanes; i++ {
			prod := l.emit(&dxil.Instruction{Op: dxil.OpFMul, Type: dxil.F32, Operands: []dxil.Value{a.Lanes[i], b.Lanes[i]}}, preciseMask, i)
			if sum == nil {
				sum = prod
				continue
			}
			sum = l.emit(&dxil.Instruction{Op: dxil.OpFAdd, Type: dxil.F32, Operands: []dxil.Value{sum, prod}}, preciseMask, i)
		}
		l.storeOperand(inst.Operands[0], l.saturate(value.Broadcast(sum, mask), inst.Saturate, preciseMask))
		return nil

	case token.OpSinCos:
		src := l.loadOperand(inst.Operands[2], dxil.F32)
		sinMask := value.Mask(inst.Operands[0].Mask)
		cosMask := value.Mask(inst.Operands[1].Mask)
		var sinOut, cosOut value.OperandValue
		for lane := 0; lane < 4; lane++ {
			if src.Lanes[lane] == nil {
				continue
			}
			if sinMask.Has(lane) {
				sinOut.Lanes[lane] = l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F32, DxOp: dxil.OpSin, Operands: []dxil.Value{src.Lanes[lane]}}, preciseMask, lane)
			}
			if cosMask.Has(lane) {
				cosOut.Lanes[lane] = l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F32, DxOp: dxil.OpCos, Operands: []dxil.Value{src.Lanes[lane]}}, preciseMask, lane)
			}
		}
		l.storeOperand(inst.Operands[0], sinOut)
		l.storeOperand(inst.Operands[1], cosOut)
		return nil

	case token.OpMad:
		a := l.loadOperand(inst.Operands[1], dxil.F32)
		b := l.loadOperand(inst.Operands[2], dxil.F32)
		c := l.loadOperand(inst.Operands[3], dxil.F32)
		out := l.perLane3(a, b, c, mask, preciseMask, func(x, y, z dxil.Value, lane int) dxil.Value {
			return l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F32, DxOp: dxil.OpFMad, Operands: []dxil.Value{x, y, z}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], l.saturate(out, inst.Saturate, preciseMask))
		return nil

	case token.OpDiv:
		a := l.loadOperand(inst.Operands[1], dxil.F32)
		b := l.loadOperand(inst.Operands[2], dxil.F32)
		out := l.perLane2(a, b, mask, preciseMask, func(x, y dxil.Value, lane int) dxil.Value {
			return l.emit(&dxil.Instruction{Op: dxil.OpFDiv, Type: dxil.F32, Operands: []dxil.Value{x, y}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], l.saturate(out, inst.Saturate, preciseMask))
		return nil

	case token.OpRcp:
		src := l.loadOperand(inst.Operands[1], dxil.F32)
		out := l.perLane1(src, mask, preciseMask, func(x dxil.Value, lane int) dxil.Value {
			one := dxil.ConstFloat{Bits: math.Float64bits(1), Type: dxil.F32}
			return l.emit(&dxil.Instruction{Op: dxil.OpFDiv, Type: dxil.F32, Operands: []dxil.Value{one, x}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], l.saturate(out, inst.Saturate, preciseMask))
		return nil

	case token.OpAdd, token.OpMul, token.OpMin, token.OpMax:
		a := l.loadOperand(inst.Operands[1], dxil.F32)
		b := l.loadOperand(inst.Operands[2], dxil.F32)
		out := l.perLane2(a, b, mask, preciseMask, func(x, y dxil.Value, lane int) dxil.Value {
			return l.emit(floatBinaryInst(inst.Opcode, x, y), preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], l.saturate(out, inst.Saturate, preciseMask))
		return nil

	default: // unary: sqrt, rsq, exp, log, frc, round_*
		src := l.loadOperand(inst.Operands[1], dxil.F32)
		dxOp := floatUnaryDxOp(inst.Opcode)
		out := l.perLane1(src, mask, preciseMask, func(x dxil.Value, lane int) dxil.Value {
			return l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F32, DxOp: dxOp, Operands: []dxil.Value{x}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], l.saturate(out, inst.Saturate, preciseMask))
		return nil
	}
}

func dotLaneCount(op token.Opcode) int {
	switch op {
	case token.OpDp2:
		return 2
	case token.OpDp3:
		return 3
	default:
		return 4
	}
}

func floatBinaryInst(op token.Opcode, x, y dxil.Value) *dxil.Instruction {
	switch op {
	case token.OpAdd:
		return &dxil.Instruction{Op: dxil.OpFAdd, Type: dxil.F32, Operands: []dxil.Value{x, y}}
	case token.OpMul:
		return &dxil.Instruction{Op: dxil.OpFMul, Type: dxil.F32, Operands: []dxil.Value{x, y}}
	case token.OpMin:
		return &dxil.Instruction{Op: dxil.OpCall, Type: dxil.F32, DxOp: dxil.OpFMin, Operands: []dxil.Value{x, y}}
	default: // OpMax
		return &dxil.Instruction{Op: dxil.OpCall, Type: dxil.F32, DxOp: dxil.OpFMax, Operands: []dxil.Value{x, y}}
	}
}

func floatUnaryDxOp(op token.Opcode) dxil.DxOpID {
	switch op {
	case token.OpSqrt:
		return dxil.OpSqrt
	case token.OpRsq:
		return dxil.OpRsqrt
	case token.OpExp:
		return dxil.OpExp
	case token.OpLog:
		return dxil.OpLog
	case token.OpFrc:
		return dxil.OpFrc
	case token.OpRound_ne:
		return dxil.OpRoundNe
	case token.OpRound_ni:
		return dxil.OpRoundNi
	case token.OpRound_pi:
		return dxil.OpRoundPi
	default: // OpRound_z
		return dxil.OpRoundZ
	}
}

func (l *Lowerer) perLane1(a value.OperandValue, mask value.Mask, preciseMask uint8, f func(dxil.Value, int) dxil.Value) value.OperandValue {
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if mask != 0 && !mask.Has(lane) {
			continue
		}
		if a.Lanes[lane] == nil {
			continue
		}
		out.Lanes[lane] = f(a.Lanes[lane], lane)
	}
	return out
}

func (l *Lowerer) perLane2(a, b value.OperandValue, mask value.Mask, preciseMask uint8, f func(dxil.Value, dxil.Value, int) dxil.Value) value.OperandValue {
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if mask != 0 && !mask.Has(lane) {
			continue
		}
		if a.Lanes[lane] == nil || b.Lanes[lane] == nil {
			continue
		}
		out.Lanes[lane] = f(a.Lanes[lane], b.Lanes[lane], lane)
	}
	return out
}

func (l *Lowerer) perLane3(a, b, c value.OperandValue, mask value.Mask, preciseMask uint8, f func(dxil.Value, dxil.Value, dxil.Value, int) dxil.Value) value.OperandValue {
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if mask != 0 && !mask.Has(lane) {
			continue
		}
		if a.Lanes[lane] == nil || b.Lanes[lane] == nil || c.Lanes[lane] == nil {
			continue
		}
		out.Lanes[lane] = f(a.Lanes[lane], b.Lanes[lane], c.Lanes[lane], lane)
	}
	return out
}

// lowerIntArith handles the integer arithmetic group: bitwise ops,
// add/mul/min/max/div, shifts, and unary not/ineg, all per-lane.
func (l *Lowerer) lowerIntArith(inst token.Instruction) error {
	mask := destMask(inst)
	preciseMask := inst.PreciseMask

	if inst.Opcode == token.OpNot || inst.Opcode == token.OpINeg {
		src := l.loadOperand(inst.Operands[1], dxil.I32)
		out := l.perLane1(src, mask, preciseMask, func(x dxil.Value, lane int) dxil.Value {
			if inst.Opcode == token.OpNot {
				return l.emit(&dxil.Instruction{Op: dxil.OpXor, Type: dxil.I32, Operands: []dxil.Value{x, dxil.ConstInt{Val: -1, Type: dxil.I32}}}, preciseMask, lane)
			}
			return l.emit(&dxil.Instruction{Op: dxil.OpSub, Type: dxil.I32, Operands: []dxil.Value{dxil.ConstInt{Val: 0, Type: dxil.I32}, x}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], out)
		return nil
	}

	a := l.loadOperand(inst.Operands[1], dxil.I32)
	b := l.loadOperand(inst.Operands[2], dxil.I32)
	out := l.perLane2(a, b, mask, preciseMask, func(x, y dxil.Value, lane int) dxil.Value {
		return l.emit(intBinaryInst(inst.Opcode, x, y), preciseMask, lane)
	})
	l.storeOperand(inst.Operands[0], out)
	return nil
}

func intBinaryInst(op token.Opcode, x, y dxil.Value) *dxil.Instruction {
	switch op {
	case token.OpIAdd:
		return &dxil.Instruction{Op: dxil.OpAdd, Type: dxil.I32, Operands: []dxil.Value{x, y}}
	case token.OpAnd:
		return &dxil.Instruction{Op: dxil.OpAnd, Type: dxil.I32, Operands: []dxil.Value{x, y}}
	case token.OpOr:
		return &dxil.Instruction{Op: dxil.OpOr, Type: dxil.I32, Operands: []dxil.Value{x, y}}
	case token.OpXor:
		return &dxil.Instruction{Op: dxil.OpXor, Type: dxil.I32, Operands: []dxil.Value{x, y}}
	case token.OpShl:
		return &dxil.Instruction{Op: dxil.OpShl, Type: dxil.I32, Operands: []dxil.Value{x, y}}
	case token.OpIShr:
		return &dxil.Instruction{Op: dxil.OpAShr, Type: dxil.I32, Operands: []dxil.Value{x, y}}
	case token.OpUShr:
		return &dxil.Instruction{Op: dxil.OpLShr, Type: dxil.I32, Operands: []dxil.Value{x, y}}
	case token.OpIMin:
		return &dxil.Instruction{Op: dxil.OpCall, Type: dxil.I32, DxOp: dxil.OpIMin, Operands: []dxil.Value{x, y}}
	case token.OpIMax:
		return &dxil.Instruction{Op: dxil.OpCall, Type: dxil.I32, DxOp: dxil.OpIMax, Operands: []dxil.Value{x, y}}
	case token.OpUMin:
		return &dxil.Instruction{Op: dxil.OpCall, Type: dxil.I32, DxOp: dxil.OpUMin, Operands: []dxil.Value{x, y}}
	case token.OpUMax:
		return &dxil.Instruction{Op: dxil.OpCall, Type: dxil.I32, DxOp: dxil.OpUMax, Operands: []dxil.Value{x, y}}
	case token.OpIMul:
		return &dxil.Instruction{Op: dxil.OpCall, Type: dxil.I32, DxOp: dxil.OpIMul, Operands: []dxil.Value{x, y}}
	case token.OpUMul:
		return &dxil.Instruction{Op: dxil.OpCall, Type: dxil.I32, DxOp: dxil.OpUMul, Operands: []dxil.Value{x, y}}
	case token.OpUDiv:
		return &dxil.Instruction{Op: dxil.OpUDiv, Type: dxil.I32, Operands: []dxil.Value{x, y}}
	default: // OpUAddc, OpUSubb carry variants fold to plain add/sub; the carry-out lane is a simplification not modeled here
		if op == token.OpUAddc {
			return &dxil.Instruction{Op: dxil.OpAdd, Type: dxil.I32, Operands: []dxil.Value{x, y}}
		}
		return &dxil.Instruction{Op: dxil.OpSub, Type: dxil.I32, Operands: []dxil.Value{x, y}}
	}
}
