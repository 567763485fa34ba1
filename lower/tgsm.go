// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
	"github.com/gogpu/dxbc2dxil/value"
)

func isTGSMOperand(op token.Operand) bool { return op.Kind == token.OperandTGSM }

// tgsmStrideDwords returns the element stride, in dwords, of TGSM id
// tgsmID's declaration (dcl_tgsm_raw always declares a 4-byte stride;
// for dcl_tgsm_structured this is the declared byte stride divided by
// 4). A TGSM id with no matching declaration defaults to a 1-dword
// stride rather than dividing by zero.
func (l *Lowerer) tgsmStrideDwords(tgsmID uint32) uint32 {
	idx, ok := l.tgsmIndex[tgsmID]
	if !ok {
		return 1
	}
	stride := l.module.TGSM[idx].Stride
	if stride == 0 {
		return 1
	}
	return stride / 4
}

// tgsmDwordOffset computes the dword offset a raw or structured TGSM
// access addresses: byteAddress/4 for raw access, or
// structIndex*strideDwords + byteOffset/4 for structured access (spec
// §4.5 "pointer GEP ... with stride multiplication").
func (l *Lowerer) tgsmDwordOffset(tgsmID uint32, structured bool, indexOp, offsetOp token.Operand) dxil.Value {
	four := dxil.ConstInt{Val: 4, Type: dxil.I32}
	if !structured {
		return l.divIndex(l.loadScalar(indexOp), four)
	}
	strideDwords := dxil.ConstInt{Val: int64(l.tgsmStrideDwords(tgsmID)), Type: dxil.I32}
	base := l.mulIndex(l.loadScalar(indexOp), strideDwords)
	return l.addIndex(base, l.divIndex(l.loadScalar(offsetOp), four))
}

// loadTGSM implements the TGSM half of ld_raw/ld_structured: a pointer
// GEP into the backing i32 global at the computed dword offset, one GEP
// and load per masked lane.
func (l *Lowerer) loadTGSM(tgsmOp token.Operand, structured bool, indexOp, offsetOp token.Operand, mask value.Mask, preciseMask uint8) value.OperandValue {
	tgsmID := tgsmOp.Indices[0].Immediate
	base := l.tgsmDwordOffset(tgsmID, structured, indexOp, offsetOp)

	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if mask != 0 && !mask.Has(lane) {
			continue
		}
		off := base
		if lane != 0 {
			off = l.addIndex(base, dxil.ConstInt{Val: int64(lane), Type: dxil.I32})
		}
		ptr := l.tgsmGEP(tgsmID, off)
		out.Lanes[lane] = l.emit(&dxil.Instruction{Op: dxil.OpLoad, Type: dxil.I32, Operands: []dxil.Value{ptr}}, preciseMask, lane)
	}
	return out
}

// storeTGSM implements the TGSM half of store_raw/store_structured.
func (l *Lowerer) storeTGSM(tgsmOp token.Operand, structured bool, indexOp, offsetOp token.Operand, src value.OperandValue, preciseMask uint8) {
	tgsmID := tgsmOp.Indices[0].Immediate
	base := l.tgsmDwordOffset(tgsmID, structured, indexOp, offsetOp)

	for lane := 0; lane < 4; lane++ {
		if src.Lanes[lane] == nil {
			continue
		}
		off := base
		if lane != 0 {
			off = l.addIndex(base, dxil.ConstInt{Val: int64(lane), Type: dxil.I32})
		}
		ptr := l.tgsmGEP(tgsmID, off)
		l.emit(&dxil.Instruction{Op: dxil.OpStore, Type: dxil.Void, Operands: []dxil.Value{ptr, src.Lanes[lane]}}, preciseMask, lane)
	}
}

func (l *Lowerer) mulIndex(a, b dxil.Value) dxil.Value {
	return l.b.Emit(&dxil.Instruction{Op: dxil.OpMul, Type: dxil.I32, Operands: []dxil.Value{a, b}})
}

func (l *Lowerer) addIndex(a, b dxil.Value) dxil.Value {
	return l.b.Emit(&dxil.Instruction{Op: dxil.OpAdd, Type: dxil.I32, Operands: []dxil.Value{a, b}})
}

func (l *Lowerer) divIndex(a, b dxil.Value) dxil.Value {
	return l.b.Emit(&dxil.Instruction{Op: dxil.OpUDiv, Type: dxil.I32, Operands: []dxil.Value{a, b}})
}
