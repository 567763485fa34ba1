// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
	"github.com/gogpu/dxbc2dxil/value"
)

// lowerDouble handles the double-precision suite. A double occupies a
// register pair in the legacy encoding; this walk treats each decoded
// lane as already carrying an f64 value (MakeDouble, read-side register
// reassembly, belongs to the register-allocation boundary the external
// decoder owns, same as the rest of the token package's "already
// decoded" contract) and operates on f64 lanes directly. The write-side
// counterpart, SplitDouble back into a 32-bit register pair, happens
// where every temp-register store is emitted: storeTempReg in
// operand.go.
func (l *Lowerer) lowerDouble(inst token.Instruction) error {
	mask := destMask(inst)
	preciseMask := inst.PreciseMask

	switch inst.Opcode {
	case token.OpDAdd, token.OpDMul:
		a := l.loadOperand(inst.Operands[1], dxil.F64)
		b := l.loadOperand(inst.Operands[2], dxil.F64)
		out := l.perLane2(a, b, mask, preciseMask, func(x, y dxil.Value, lane int) dxil.Value {
			op := dxil.OpFAdd
			if inst.Opcode == token.OpDMul {
				op = dxil.OpFMul
			}
			return l.emit(&dxil.Instruction{Op: op, Type: dxil.F64, Operands: []dxil.Value{x, y}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], out)
		return nil

	case token.OpDDiv:
		a := l.loadOperand(inst.Operands[1], dxil.F64)
		b := l.loadOperand(inst.Operands[2], dxil.F64)
		out := l.perLane2(a, b, mask, preciseMask, func(x, y dxil.Value, lane int) dxil.Value {
			return l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F64, DxOp: dxil.OpDdiv, Operands: []dxil.Value{x, y}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], out)
		return nil

	case token.OpDFma:
		a := l.loadOperand(inst.Operands[1], dxil.F64)
		b := l.loadOperand(inst.Operands[2], dxil.F64)
		c := l.loadOperand(inst.Operands[3], dxil.F64)
		out := l.perLane3(a, b, c, mask, preciseMask, func(x, y, z dxil.Value, lane int) dxil.Value {
			return l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F64, DxOp: dxil.OpDFma, Operands: []dxil.Value{x, y, z}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], out)
		return nil

	case token.OpDRcp:
		src := l.loadOperand(inst.Operands[1], dxil.F64)
		out := l.perLane1(src, mask, preciseMask, func(x dxil.Value, lane int) dxil.Value {
			return l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F64, DxOp: dxil.OpDrcp, Operands: []dxil.Value{x}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], out)
		return nil

	case token.OpDEq, token.OpDNe, token.OpDLt, token.OpDGe:
		a := l.loadOperand(inst.Operands[1], dxil.F64)
		b := l.loadOperand(inst.Operands[2], dxil.F64)
		pred := doublePredicate(inst.Opcode)
		out := l.perLane2(a, b, mask, preciseMask, func(x, y dxil.Value, lane int) dxil.Value {
			cmp := l.emit(&dxil.Instruction{Op: dxil.OpFCmp, Type: dxil.I1, Predicate: pred, Operands: []dxil.Value{x, y}}, preciseMask, lane)
			return l.emit(&dxil.Instruction{Op: dxil.OpSExt, Type: dxil.I32, Operands: []dxil.Value{cmp}}, preciseMask, lane)
		})
		l.storeOperand(inst.Operands[0], out)
		return nil

	default: // OpDtoI, OpDtoU, OpDtoF, OpItoD, OpUtoD
		srcType, dstType := doubleConversionTypes(inst.Opcode)
		src := l.loadOperand(inst.Operands[1], srcType)
		out := l.perLane1(src, mask, preciseMask, func(x dxil.Value, lane int) dxil.Value {
			if folded, ok := value.CastConst(x, dstType); ok {
				return folded
			}
			converted := value.Cast(l.b, x, dstType)
			if produced, ok := converted.(*dxil.Instruction); ok && preciseMask&(1<<uint(lane)) != 0 {
				value.ApplyPrecise(produced)
			}
			return converted
		})
		l.storeOperand(inst.Operands[0], out)
		return nil
	}
}

func doublePredicate(op token.Opcode) dxil.Predicate {
	switch op {
	case token.OpDEq:
		return dxil.PredFEQ
	case token.OpDNe:
		return dxil.PredFNE
	case token.OpDLt:
		return dxil.PredFLT
	default: // OpDGe
		return dxil.PredFGE
	}
}

func doubleConversionTypes(op token.Opcode) (src, dst dxil.Type) {
	switch op {
	case token.OpDtoI, token.OpDtoU:
		return dxil.F64, dxil.I32
	case token.OpDtoF:
		return dxil.F64, dxil.F32
	default: // OpItoD, OpUtoD
		return dxil.I32, dxil.F64
	}
}
