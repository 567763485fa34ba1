// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
)

// lowerBarrier emits the Barrier dx op. The sync flags (UAV memory
// group/global, TGSM memory, and the two execution-sync bits) live in
// the instruction's own opcode-specific extended bits; the decoder
// folds them into ReturnType[0] the same way it folds a resource's
// return-type mask, so the barrier mode travels as a single immediate.
func (l *Lowerer) lowerBarrier(inst token.Instruction) error {
	mode := dxil.ConstInt{Val: int64(inst.ReturnType[0]), Type: dxil.I32}
	l.emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.Void,
		Operands: []dxil.Value{mode},
		DxOp:     dxil.OpBarrier,
	}, 0, 0)
	return nil
}
