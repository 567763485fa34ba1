// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package value

import (
	"math"

	"github.com/gogpu/dxbc2dxil/dxil"
)

// IntSaturateFoldFailure is the bit pattern an integer target gets when a
// constant-evaluable cast could not fold (spec §4.4).
const IntSaturateFoldFailure = 0xFEFEFEFE

// Cast converts val from one scalar kind to another following the
// fixed bit-level table: i1<->i32 via sign-extend/compare, i32<->f32 via
// bitcast (not a numeric conversion), integer width changes via
// sign/zero extension or truncation, float width changes via FPExt/
// FPTrunc, and cross-domain int<->float via the signed/unsigned
// conversion ops.
func Cast(b *dxil.Builder, val dxil.Value, to dxil.Type) dxil.Value {
	from := val.ValueType()
	fromScalar, fromOK := from.(dxil.ScalarType)
	toScalar, toOK := to.(dxil.ScalarType)
	if !fromOK || !toOK || fromScalar.Kind == toScalar.Kind {
		return val
	}

	switch {
	case fromScalar.Kind == dxil.KindI1 && toScalar.Kind != dxil.KindI1 && !toScalar.Kind.IsFloat():
		return b.Emit(&dxil.Instruction{Op: dxil.OpSExt, Type: to, Operands: []dxil.Value{val}})
	case toScalar.Kind == dxil.KindI1 && fromScalar.Kind != dxil.KindI1 && !fromScalar.Kind.IsFloat():
		zero := dxil.ConstInt{Val: 0, Type: from}
		return b.Emit(&dxil.Instruction{Op: dxil.OpICmp, Type: to, Predicate: dxil.PredINE, Operands: []dxil.Value{val, zero}})

	case fromScalar.Kind == dxil.KindI32 && toScalar.Kind == dxil.KindF32:
		return b.Emit(&dxil.Instruction{Op: dxil.OpCall, Type: to, Operands: []dxil.Value{val}, DxOp: dxil.OpBitcastI32toF32})
	case fromScalar.Kind == dxil.KindF32 && toScalar.Kind == dxil.KindI32:
		return b.Emit(&dxil.Instruction{Op: dxil.OpCall, Type: to, Operands: []dxil.Value{val}, DxOp: dxil.OpBitcastF32toI32})

	case !fromScalar.Kind.IsFloat() && !toScalar.Kind.IsFloat():
		if toScalar.Kind.Width() > fromScalar.Kind.Width() {
			op := dxil.OpZExt
			if fromScalar.Kind.IsSigned() {
				op = dxil.OpSExt
			}
			return b.Emit(&dxil.Instruction{Op: op, Type: to, Operands: []dxil.Value{val}})
		}
		return b.Emit(&dxil.Instruction{Op: dxil.OpTrunc, Type: to, Operands: []dxil.Value{val}})

	case fromScalar.Kind.IsFloat() && toScalar.Kind.IsFloat():
		if toScalar.Kind.Width() > fromScalar.Kind.Width() {
			return b.Emit(&dxil.Instruction{Op: dxil.OpFPExt, Type: to, Operands: []dxil.Value{val}})
		}
		return b.Emit(&dxil.Instruction{Op: dxil.OpFPTrunc, Type: to, Operands: []dxil.Value{val}})

	case !fromScalar.Kind.IsFloat() && toScalar.Kind.IsFloat():
		op := dxil.OpUIToFP
		if fromScalar.Kind.IsSigned() {
			op = dxil.OpSIToFP
		}
		return b.Emit(&dxil.Instruction{Op: op, Type: to, Operands: []dxil.Value{val}})

	case fromScalar.Kind.IsFloat() && !toScalar.Kind.IsFloat():
		op := dxil.OpFPToUI
		if toScalar.Kind.IsSigned() {
			op = dxil.OpFPToSI
		}
		return b.Emit(&dxil.Instruction{Op: op, Type: to, Operands: []dxil.Value{val}})
	}
	return val
}

// SaturateConst folds an out-of-range constant cast the way the spec's
// sign-aware saturation rule requires: negatives saturate toward
// signed-min/0/-Inf, positives toward signed-max/u32-max/+Inf. A cast
// that cannot be constant-folded at all is handled by FoldFailure, not
// here. to is stamped onto the returned value as its Type.
func SaturateConst(to dxil.Type, negative bool, toFloat bool, toSigned bool) dxil.Value {
	switch {
	case toFloat && negative:
		return dxil.ConstFloat{Bits: math.Float64bits(math.Inf(-1)), Type: to}
	case toFloat && !negative:
		return dxil.ConstFloat{Bits: math.Float64bits(math.Inf(1)), Type: to}
	case !toFloat && toSigned && negative:
		return dxil.ConstInt{Val: math.MinInt32, Type: to}
	case !toFloat && toSigned && !negative:
		return dxil.ConstInt{Val: math.MaxInt32, Type: to}
	case !toFloat && !toSigned && negative:
		return dxil.ConstInt{Val: 0, Type: to}
	default: // !toFloat && !toSigned && !negative
		return dxil.ConstInt{Val: int64(math.MaxUint32), Type: to}
	}
}

// FoldFailure returns the value a cast that could not be constant
// folded at all produces: NaN carrying the source sign for an FP
// target, the fixed integer sentinel otherwise.
func FoldFailure(to dxil.Type, negative, toFloat bool) dxil.Value {
	if toFloat {
		bits := math.Float64bits(math.NaN())
		if negative {
			bits |= 1 << 63
		}
		return dxil.ConstFloat{Bits: bits, Type: to}
	}
	return dxil.ConstInt{Val: IntSaturateFoldFailure, Type: to}
}

// CastConst attempts to constant-fold a float-to-integer cast at
// lowering time rather than emitting a runtime FPToSI/FPToUI: given a
// ConstFloat operand and an integer target, it classifies the value
// against the target's representable range and returns the
// sign-aware-saturated constant SaturateConst/FoldFailure compute,
// reporting ok=false for every shape outside that (non-constant
// operand, non-integer target) so the caller falls back to Cast.
func CastConst(val dxil.Value, to dxil.Type) (dxil.Value, bool) {
	cf, ok := val.(dxil.ConstFloat)
	if !ok {
		return nil, false
	}
	toScalar, ok := to.(dxil.ScalarType)
	if !ok || toScalar.Kind.IsFloat() {
		return nil, false
	}
	fromScalar, ok := cf.Type.(dxil.ScalarType)
	if !ok {
		return nil, false
	}

	var f float64
	var negative bool
	if fromScalar.Kind == dxil.KindF32 {
		bits := uint32(cf.Bits)
		f = float64(math.Float32frombits(bits))
		negative = bits&(1<<31) != 0
	} else {
		f = math.Float64frombits(cf.Bits)
		negative = cf.Bits&(1<<63) != 0
	}

	if math.IsNaN(f) {
		return FoldFailure(to, negative, false), true
	}

	toSigned := toScalar.Kind.IsSigned()
	lo, hi := 0.0, float64(math.MaxUint32)
	if toSigned {
		lo, hi = math.MinInt32, math.MaxInt32
	}
	switch {
	case f < lo:
		return SaturateConst(to, true, false, toSigned), true
	case f > hi:
		return SaturateConst(to, false, false, toSigned), true
	case toSigned:
		return dxil.ConstInt{Val: int64(f), Type: to}, true
	default:
		return dxil.ConstInt{Val: int64(uint32(f)), Type: to}, true
	}
}
