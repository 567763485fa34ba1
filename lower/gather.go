// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
)

// lowerGather handles the four-texel gather family: gather4 samples
// one channel (selected by the sampler's swizzle) across a 2x2 texel
// footprint; the *C variants add a comparison value; the *Po variants
// add a programmable per-gather offset ahead of the usual one.
func (l *Lowerer) lowerGather(inst token.Instruction) error {
	mask := destMask(inst)
	preciseMask := inst.PreciseMask

	coord := l.loadOperand(inst.Operands[1], dxil.F32)
	texOp := inst.Operands[2]
	samplerOp := inst.Operands[3]
	texHandle := l.handleFor(dxil.ClassSRV, texOp.Indices[0].Immediate)
	samplerHandle := l.handleFor(dxil.ClassSampler, samplerOp.Indices[0].Immediate)

	offX := dxil.ConstInt{Val: int64(inst.Offsets[0]), Type: dxil.I32}
	offY := dxil.ConstInt{Val: int64(inst.Offsets[1]), Type: dxil.I32}

	args := []dxil.Value{texHandle, samplerHandle, coord.Lanes[0], coord.Lanes[1], coord.Lanes[2], offX, offY}

	dxOp := dxil.OpTextureGather
	switch inst.Opcode {
	case token.OpGather4C:
		dxOp = dxil.OpTextureGatherCmp
		args = append(args, l.loadScalar(inst.Operands[4]))
	case token.OpGather4PoC:
		dxOp = dxil.OpTextureGatherCmp
		poOp := l.loadOperand(inst.Operands[3], dxil.I32)
		args = append(args, poOp.Lanes[0], poOp.Lanes[1], l.loadScalar(inst.Operands[5]))
	case token.OpGather4Po:
		poOp := l.loadOperand(inst.Operands[3], dxil.I32)
		args = append(args, poOp.Lanes[0], poOp.Lanes[1])
	}

	call := l.emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.StructType{Fields: []dxil.Type{dxil.F32, dxil.F32, dxil.F32, dxil.F32}},
		Operands: args,
		DxOp:     dxOp,
	}, preciseMask, 0)

	out := extractStructLanes(l, call, mask, preciseMask, dxil.F32)
	l.storeOperand(inst.Operands[0], out)
	return nil
}
