package value

import (
	"testing"

	"github.com/gogpu/dxbc2dxil/dxil"
)

func f32Const(v int64) dxil.Value { return dxil.ConstInt{Val: v, Type: dxil.F32} }

func TestMaskHas(t *testing.T) {
	m := MaskX | MaskZ
	if !m.Has(0) || m.Has(1) || !m.Has(2) || m.Has(3) {
		t.Errorf("unexpected mask bits for %v", m)
	}
}

func TestSwizzledGathersFromSourceLanes(t *testing.T) {
	var v OperandValue
	v.Set(X, f32Const(1))
	v.Set(Y, f32Const(2))
	v.Set(Z, f32Const(3))
	v.Set(W, f32Const(4))

	sw := Swizzle{W, Z, Y, X}
	out := v.Swizzled(sw)
	if out.Get(X) != v.Get(W) || out.Get(W) != v.Get(X) {
		t.Error("swizzle did not gather from the expected source lanes")
	}
}

func TestBroadcastSetsOnlyMaskedLanes(t *testing.T) {
	val := f32Const(7)
	out := Broadcast(val, MaskX|MaskW)
	if out.Get(X) != val || out.Get(W) != val {
		t.Error("expected masked lanes to hold the broadcast value")
	}
	if out.Get(Y) != nil || out.Get(Z) != nil {
		t.Error("expected unmasked lanes to remain nil")
	}
}

func TestApplyMaskClearsUnselectedLanes(t *testing.T) {
	var v OperandValue
	v.Set(X, f32Const(1))
	v.Set(Y, f32Const(2))
	out := ApplyMask(v, MaskX)
	if out.Get(X) == nil {
		t.Error("expected masked-in lane to survive")
	}
	if out.Get(Y) != nil {
		t.Error("expected masked-out lane to be nil")
	}
}

func TestApplyModifiersNegInteger(t *testing.T) {
	entry := &dxil.BasicBlock{Name: "entry"}
	b := dxil.NewBuilder(entry)
	var v OperandValue
	v.Set(X, dxil.ConstInt{Val: 5, Type: dxil.I32})

	out := ApplyModifiers(b, v, ModNeg, false)
	inst, ok := out.Get(X).(*dxil.Instruction)
	if !ok {
		t.Fatalf("expected an instruction result, got %T", out.Get(X))
	}
	if inst.Op != dxil.OpSub {
		t.Errorf("expected integer negate to lower to OpSub, got %v", inst.Op)
	}
}

func TestApplyModifiersAbsFloat(t *testing.T) {
	entry := &dxil.BasicBlock{Name: "entry"}
	b := dxil.NewBuilder(entry)
	var v OperandValue
	v.Set(X, dxil.ConstFloat{Type: dxil.F32})

	out := ApplyModifiers(b, v, ModAbs, true)
	inst, ok := out.Get(X).(*dxil.Instruction)
	if !ok {
		t.Fatalf("expected an instruction result, got %T", out.Get(X))
	}
	if inst.DxOp != dxil.OpFAbs {
		t.Errorf("expected FAbs dx op, got %v", inst.DxOp)
	}
}

func TestCastI32ToF32IsBitcast(t *testing.T) {
	entry := &dxil.BasicBlock{Name: "entry"}
	b := dxil.NewBuilder(entry)
	val := dxil.ConstInt{Val: 0x3F800000, Type: dxil.I32}

	result := Cast(b, val, dxil.F32)
	inst, ok := result.(*dxil.Instruction)
	if !ok {
		t.Fatalf("expected an instruction result, got %T", result)
	}
	if inst.DxOp != dxil.OpBitcastI32toF32 {
		t.Errorf("expected i32->f32 cast to be a bitcast dx op, got %v", inst.DxOp)
	}
}

func TestCastSameKindIsNoop(t *testing.T) {
	entry := &dxil.BasicBlock{Name: "entry"}
	b := dxil.NewBuilder(entry)
	val := dxil.ConstInt{Val: 1, Type: dxil.I32}
	if got := Cast(b, val, dxil.I32); got != val {
		t.Error("expected same-kind cast to return the input unchanged")
	}
}

func TestApplyPreciseFPMathClearsFastMath(t *testing.T) {
	inst := &dxil.Instruction{Op: dxil.OpFAdd, Type: dxil.F32}
	ApplyPrecise(inst)
	if !inst.FastMathOff || inst.Precise {
		t.Errorf("expected FastMathOff set and Precise clear for FP math, got FastMathOff=%v Precise=%v", inst.FastMathOff, inst.Precise)
	}
}

func TestApplyPreciseNonFPMathSetsPreciseFlag(t *testing.T) {
	inst := &dxil.Instruction{Op: dxil.OpAdd, Type: dxil.I32}
	ApplyPrecise(inst)
	if !inst.Precise || inst.FastMathOff {
		t.Errorf("expected Precise set and FastMathOff clear for integer op, got Precise=%v FastMathOff=%v", inst.Precise, inst.FastMathOff)
	}
}
