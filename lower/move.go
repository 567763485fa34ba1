// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
	"github.com/gogpu/dxbc2dxil/value"
)

func (l *Lowerer) lowerMove(inst token.Instruction) error {
	switch inst.Opcode {
	case token.OpMov, token.OpDmov:
		elemType := moveElemType(inst.Opcode)
		src := l.loadOperand(inst.Operands[1], elemType)
		dst := value.ApplyMask(src, destMask(inst))
		l.storeOperand(inst.Operands[0], l.saturate(dst, inst.Saturate, inst.PreciseMask))
		return nil

	case token.OpMovc, token.OpDmovc:
		elemType := moveElemType(inst.Opcode)
		cond := l.loadOperand(inst.Operands[1], dxil.I32)
		a := l.loadOperand(inst.Operands[2], elemType)
		b := l.loadOperand(inst.Operands[3], elemType)
		out := l.selectLanes(cond, a, b, destMask(inst))
		l.storeOperand(inst.Operands[0], l.saturate(out, inst.Saturate, inst.PreciseMask))
		return nil

	case token.OpSwapc:
		cond := l.loadOperand(inst.Operands[2], dxil.I32)
		src0 := l.loadOperand(inst.Operands[3], dxil.F32)
		src1 := l.loadOperand(inst.Operands[4], dxil.F32)
		newDest0 := l.selectLanes(cond, src1, src0, value.Mask(inst.Operands[0].Mask))
		newDest1 := l.selectLanes(cond, src0, src1, value.Mask(inst.Operands[1].Mask))
		l.storeOperand(inst.Operands[0], newDest0)
		l.storeOperand(inst.Operands[1], newDest1)
		return nil
	}
	return nil
}

func moveElemType(op token.Opcode) dxil.Type {
	if op == token.OpDmov || op == token.OpDmovc {
		return dxil.F64
	}
	return dxil.F32
}

// selectLanes emits one i1 compare and OpSelect per masked lane,
// choosing a's lane when cond's lane is non-zero, b's otherwise.
func (l *Lowerer) selectLanes(cond, a, b value.OperandValue, mask value.Mask) value.OperandValue {
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if mask != 0 && !mask.Has(lane) {
			continue
		}
		c := cond.Lanes[lane]
		av := a.Lanes[lane]
		bv := b.Lanes[lane]
		if c == nil || av == nil || bv == nil {
			continue
		}
		pred := l.b.Emit(&dxil.Instruction{
			Op:        dxil.OpICmp,
			Type:      dxil.I1,
			Predicate: dxil.PredINE,
			Operands:  []dxil.Value{c, dxil.ConstInt{Val: 0, Type: dxil.I32}},
		})
		out.Lanes[lane] = l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpSelect,
			Type:     av.ValueType(),
			Operands: []dxil.Value{pred, av, bv},
		})
	}
	return out
}
