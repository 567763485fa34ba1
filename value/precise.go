// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package value

import "github.com/gogpu/dxbc2dxil/dxil"

// ApplyPrecise marks inst precise per spec §4.4/P6: if inst is an FP
// math operator (a dxil.OpCode arithmetic op, or an OpCall to an
// FP-math dx op), fast-math flags are cleared instead of attaching
// "precise" metadata. Everything else gets Precise set directly.
func ApplyPrecise(inst *dxil.Instruction) {
	isFPMath := inst.Op.IsFPMathOp() || (inst.Op == dxil.OpCall && inst.DxOp.IsFPMathOp())
	if isFPMath {
		inst.FastMathOff = true
		return
	}
	inst.Precise = true
}
