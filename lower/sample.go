// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
)

// lowerSample handles the texture-sampling group. Every variant
// resolves a texture handle, a sampler handle, up to four coordinate
// lanes, and a variant-specific extra argument (bias/LOD/gradient/
// comparison value), then calls the matching dx op and extracts the
// masked result lanes from the returned four-field struct.
func (l *Lowerer) lowerSample(inst token.Instruction) error {
	mask := destMask(inst)
	preciseMask := inst.PreciseMask

	coord := l.loadOperand(inst.Operands[1], dxil.F32)
	texOp := inst.Operands[2]
	samplerOp := inst.Operands[3]
	texHandle := l.handleFor(dxil.ClassSRV, texOp.Indices[0].Immediate)
	samplerHandle := l.handleFor(dxil.ClassSampler, samplerOp.Indices[0].Immediate)

	offsets := []dxil.Value{
		dxil.ConstInt{Val: int64(inst.Offsets[0]), Type: dxil.I32},
		dxil.ConstInt{Val: int64(inst.Offsets[1]), Type: dxil.I32},
		dxil.ConstInt{Val: int64(inst.Offsets[2]), Type: dxil.I32},
	}

	args := []dxil.Value{texHandle, samplerHandle, coord.Lanes[0], coord.Lanes[1], coord.Lanes[2]}
	args = append(args, offsets...)

	dxOp := dxil.OpSample
	switch inst.Opcode {
	case token.OpSampleB:
		dxOp = dxil.OpSampleBias
		args = append(args, l.loadScalar(inst.Operands[4]))
	case token.OpSampleL:
		dxOp = dxil.OpSampleLevel
		args = append(args, l.loadScalar(inst.Operands[4]))
	case token.OpSampleD:
		dxOp = dxil.OpSampleGrad
		ddx := l.loadOperand(inst.Operands[4], dxil.F32)
		ddy := l.loadOperand(inst.Operands[5], dxil.F32)
		args = append(args, ddx.Lanes[0], ddx.Lanes[1], ddx.Lanes[2], ddy.Lanes[0], ddy.Lanes[1], ddy.Lanes[2])
	case token.OpSampleC:
		dxOp = dxil.OpSampleCmp
		args = append(args, l.loadScalar(inst.Operands[4]))
	case token.OpSampleCLz:
		dxOp = dxil.OpSampleCmpLevelZero
		args = append(args, l.loadScalar(inst.Operands[4]))
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
