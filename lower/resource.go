// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
	"github.com/gogpu/dxbc2dxil/value"
)

// lowerResourceLoadStore handles typed/raw/structured resource access
// outside the gather and atomic groups: ld/ldMS/ldUAVTyped/ldStructured
// /ldRaw read through TextureLoad/BufferLoad, their store counterparts
// write through TextureStore/BufferStore, and resinfo/sampleinfo/
// samplepos query a handle's metadata via GetDimensions and the sample-
// count/position dx ops.
func (l *Lowerer) lowerResourceLoadStore(inst token.Instruction) error {
	mask := destMask(inst)
	preciseMask := inst.PreciseMask

	switch inst.Opcode {
	case token.OpLd, token.OpLdMS, token.OpLdUAVTyped:
		class := dxil.ClassSRV
		if inst.Opcode == token.OpLdUAVTyped {
			class = dxil.ClassUAV
		}
		handle := l.handleFor(class, inst.Operands[2].Indices[0].Immediate)
		addr := l.loadOperand(inst.Operands[1], dxil.I32)
		call := l.emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.StructType{Fields: []dxil.Type{dxil.I32, dxil.I32, dxil.I32, dxil.I32}},
			Operands: []dxil.Value{handle, addr.Lanes[0], addr.Lanes[1], addr.Lanes[2]},
			DxOp:     dxil.OpTextureLoad,
		}, preciseMask, 0)
		out := extractStructLanes(l, call, mask, preciseMask, dxil.I32)
		l.storeOperand(inst.Operands[0], out)
		return nil

	case token.OpStoreUAVTyped:
		handle := l.handleFor(dxil.ClassUAV, inst.Operands[0].Indices[0].Immediate)
		addr := l.loadOperand(inst.Operands[1], dxil.I32)
		src := l.loadOperand(inst.Operands[2], dxil.I32)
		l.emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.Void,
			Operands: []dxil.Value{handle, addr.Lanes[0], addr.Lanes[1], addr.Lanes[2], src.Lanes[0], src.Lanes[1], src.Lanes[2], src.Lanes[3]},
			DxOp:     dxil.OpTextureStore,
		}, preciseMask, 0)
		return nil

	case token.OpLdStructured, token.OpLdRaw:
		const resOperandIdx = 2
		structured := inst.Opcode == token.OpLdStructured
		if resOp := inst.Operands[resOperandIdx]; isTGSMOperand(resOp) {
			var offsetOp token.Operand
			if structured {
				offsetOp = inst.Operands[2]
			}
			out := l.loadTGSM(resOp, structured, inst.Operands[1], offsetOp, mask, preciseMask)
			l.storeOperand(inst.Operands[0], out)
			return nil
		}
		class := dxil.ClassSRV
		if isUAVOperand(inst.Operands[resOperandIdx]) {
			class = dxil.ClassUAV
		}
		handle := l.handleFor(class, inst.Operands[resOperandIdx].Indices[0].Immediate)
		idx := l.loadScalar(inst.Operands[1])
		var offset dxil.Value = dxil.ConstInt{Val: 0, Type: dxil.I32}
		if inst.Opcode == token.OpLdStructured {
			offset = l.loadScalar(inst.Operands[2])
		}
		call := l.emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.StructType{Fields: []dxil.Type{dxil.I32, dxil.I32, dxil.I32, dxil.I32}},
			Operands: []dxil.Value{handle, idx, offset},
			DxOp:     dxil.OpBufferLoad,
		}, preciseMask, 0)
		out := extractStructLanes(l, call, mask, preciseMask, dxil.I32)
		l.storeOperand(inst.Operands[0], out)
		return nil

	case token.OpStoreStructured, token.OpStoreRaw:
		dest := inst.Operands[0]
		structured := inst.Opcode == token.OpStoreStructured
		if isTGSMOperand(dest) {
			var offsetOp token.Operand
			srcOperand := inst.Operands[2]
			if structured {
				offsetOp = inst.Operands[2]
				srcOperand = inst.Operands[3]
			}
			src := l.loadOperand(srcOperand, dxil.I32)
			l.storeTGSM(dest, structured, inst.Operands[1], offsetOp, src, preciseMask)
			return nil
		}
		handle := l.handleFor(dxil.ClassUAV, dest.Indices[0].Immediate)
		idx := l.loadScalar(inst.Operands[1])
		var offset dxil.Value = dxil.ConstInt{Val: 0, Type: dxil.I32}
		srcOperand := inst.Operands[2]
		if structured {
			offset = l.loadScalar(inst.Operands[2])
			srcOperand = inst.Operands[3]
		}
		src := l.loadOperand(srcOperand, dxil.I32)
		l.emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.Void,
			Operands: []dxil.Value{handle, idx, offset, src.Lanes[0], src.Lanes[1], src.Lanes[2], src.Lanes[3]},
			DxOp:     dxil.OpBufferStore,
		}, preciseMask, 0)
		return nil

	case token.OpResinfo:
		class := dxil.ClassSRV
		if isUAVOperand(inst.Operands[2]) {
			class = dxil.ClassUAV
		}
		handle := l.handleFor(class, inst.Operands[2].Indices[0].Immediate)
		mip := l.loadScalar(inst.Operands[1])
		call := l.emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.StructType{Fields: []dxil.Type{dxil.I32, dxil.I32, dxil.I32, dxil.I32}},
			Operands: []dxil.Value{handle, mip},
			DxOp:     dxil.OpGetDimensions,
		}, preciseMask, 0)
		out := extractStructLanes(l, call, mask, preciseMask, dxil.I32)
		l.storeOperand(inst.Operands[0], out)
		return nil

	case token.OpSampleInfo:
		handle := l.handleFor(dxil.ClassSRV, inst.Operands[1].Indices[0].Immediate)
		count := l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.I32, Operands: []dxil.Value{handle}, DxOp: dxil.OpRenderTargetGetSampleCount}, preciseMask, 0)
		l.storeOperand(inst.Operands[0], value.Broadcast(count, mask))
		return nil

	default: // OpSamplePos
		handle := l.handleFor(dxil.ClassSRV, inst.Operands[1].Indices[0].Immediate)
		sampleIdx := l.loadScalar(inst.Operands[2])
		call := l.emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.StructType{Fields: []dxil.Type{dxil.F32, dxil.F32}},
			Operands: []dxil.Value{handle, sampleIdx},
			DxOp:     dxil.OpTexture2DMSGetSamplePosition,
		}, preciseMask, 0)
		out := extractStructLanes(l, call, mask, preciseMask, dxil.F32)
		l.storeOperand(inst.Operands[0], out)
		return nil
	}
}

func isUAVOperand(op token.Operand) bool { return op.Kind == token.OperandUAV }

func extractStructLanes(l *Lowerer, call *dxil.Instruction, mask value.Mask, preciseMask uint8, elemType dxil.Type) value.OperandValue {
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if mask != 0 && !mask.Has(lane) {
			continue
		}
		out.Lanes[lane] = l.emit(&dxil.Instruction{
			Op:       dxil.OpExtractValue,
			Type:     elemType,
			Operands: []dxil.Value{call, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}},
		}, preciseMask, lane)
	}
	return out
}
