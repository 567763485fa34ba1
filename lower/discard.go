// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
)

// lowerDiscard emits the Discard dx op, testing the source operand for
// non-zero the same way a conditional branch tests a condition
// operand: the pixel is killed when the test is true.
func (l *Lowerer) lowerDiscard(inst token.Instruction) error {
	cond := l.loadScalar(inst.Operands[0])
	test := l.emit(&dxil.Instruction{
		Op:        dxil.OpICmp,
		Type:      dxil.I1,
		Predicate: dxil.PredINE,
		Operands:  []dxil.Value{cond, dxil.ConstInt{Val: 0, Type: dxil.I32}},
	}, 0, 0)
	l.emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.Void,
		Operands: []dxil.Value{test},
		DxOp:     dxil.OpDiscard,
	}, 0, 0)
	return nil
}
