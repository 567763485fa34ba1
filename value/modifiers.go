// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package value

import "github.com/gogpu/dxbc2dxil/dxil"

// Modifier is a source-operand modifier applied after load.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModAbs  Modifier = 1 << 0
	ModNeg  Modifier = 1 << 1
)

// ApplyModifiers applies abs then neg, in that fixed order, to every
// lane of v that holds a value. isFloat selects FAbs/FNeg (dx-op FAbs,
// IR FNeg) over the integer path (no abs intrinsic exists for integers
// in this vocabulary; neg is IR sub from zero).
func ApplyModifiers(b *dxil.Builder, v OperandValue, mod Modifier, isFloat bool) OperandValue {
	if mod == ModNone {
		return v
	}
	out := v
	if mod&ModAbs != 0 {
		out = mapLanes(b, out, func(val dxil.Value) dxil.Value {
			if !isFloat {
				return val // integer abs has no direct op in this vocabulary; callers needing it emit icmp+select themselves
			}
			return b.Emit(&dxil.Instruction{
				Op:       dxil.OpCall,
				Type:     val.ValueType(),
				Operands: []dxil.Value{val},
				DxOp:     dxil.OpFAbs,
			})
		})
	}
	if mod&ModNeg != 0 {
		out = mapLanes(b, out, func(val dxil.Value) dxil.Value {
			if isFloat {
				return b.Emit(&dxil.Instruction{
					Op:       dxil.OpFNeg,
					Type:     val.ValueType(),
					Operands: []dxil.Value{val},
				})
			}
			zero := dxil.ConstInt{Val: 0, Type: val.ValueType()}
			return b.Emit(&dxil.Instruction{
				Op:       dxil.OpSub,
				Type:     val.ValueType(),
				Operands: []dxil.Value{zero, val},
			})
		})
	}
	return out
}

func mapLanes(b *dxil.Builder, v OperandValue, f func(dxil.Value) dxil.Value) OperandValue {
	var out OperandValue
	for i, lane := range v.Lanes {
		if lane != nil {
			out.Lanes[i] = f(lane)
		}
	}
	return out
}
