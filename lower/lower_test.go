// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"testing"

	"github.com/gogpu/dxbc2dxil/analysis"
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
)

func newTestLowerer() (*Lowerer, *dxil.Function) {
	entry := &dxil.BasicBlock{Name: "entry"}
	fn := &dxil.Function{Name: "main", Blocks: []*dxil.BasicBlock{entry}}
	m := &dxil.Module{IndexableTemps: map[uint32]*dxil.IndexableTempRecord{}}
	return New(m, fn, entry, &analysis.Result{}, nil, nil, nil, dxil.NewTypeRegistry()), fn
}

func tempOperand(reg uint32, mask uint8) token.Operand {
	return token.Operand{Kind: token.OperandTemp, Indices: []token.Index{{Immediate: reg}}, Mask: mask, Swizzle: [4]uint8{0, 1, 2, 3}}
}

func immOperand32(vals [4]uint32) token.Operand {
	return token.Operand{Kind: token.OperandImmediate32, ImmValues: vals, Mask: 0xF, Swizzle: [4]uint8{0, 1, 2, 3}}
}

func lastInst(fn *dxil.Function) *dxil.Instruction {
	blk := fn.Blocks[len(fn.Blocks)-1]
	return blk.Instructions[len(blk.Instructions)-1]
}

// storedValue returns the instruction whose result the final
// TempRegStore of fn writes back, i.e. the op under test.
func storedValue(t *testing.T, fn *dxil.Function) *dxil.Instruction {
	t.Helper()
	store := lastInst(fn)
	if store.DxOp != dxil.OpTempRegStore {
		t.Fatalf("expected the final op to be TempRegStore, got %v", store.DxOp)
	}
	v, ok := store.Operands[2].(*dxil.Instruction)
	if !ok {
		t.Fatalf("expected the stored value to be an instruction, got %T", store.Operands[2])
	}
	return v
}

func TestLowerMovStoresMaskedLanes(t *testing.T) {
	l, fn := newTestLowerer()
	inst := token.Instruction{
		Opcode:   token.OpMov,
		Operands: []token.Operand{tempOperand(0, 0x3), immOperand32([4]uint32{1, 2, 3, 4})},
	}
	if err := l.lowerMove(inst); err != nil {
		t.Fatalf("lowerMove: %v", err)
	}
	blk := fn.Blocks[0]
	if len(blk.Instructions) == 0 {
		t.Fatalf("expected at least one emitted instruction")
	}
}

func TestLowerMovSaturateClampsResult(t *testing.T) {
	l, fn := newTestLowerer()
	inst := token.Instruction{
		Opcode:   token.OpMov,
		Saturate: true,
		Operands: []token.Operand{tempOperand(0, 0x1), immOperand32([4]uint32{0, 0, 0, 0})},
	}
	if err := l.lowerMove(inst); err != nil {
		t.Fatalf("lowerMove: %v", err)
	}
	last := storedValue(t, fn)
	if last.DxOp != dxil.OpFMin {
		t.Fatalf("expected saturate's final op to be FMin, got %v", last.DxOp)
	}
}

func TestLowerFloatArithAdd(t *testing.T) {
	l, fn := newTestLowerer()
	inst := token.Instruction{
		Opcode: token.OpAdd,
		Operands: []token.Operand{
			tempOperand(0, 0x1),
			immOperand32([4]uint32{1, 0, 0, 0}),
			immOperand32([4]uint32{2, 0, 0, 0}),
		},
	}
	if err := l.lowerFloatArith(inst); err != nil {
		t.Fatalf("lowerFloatArith: %v", err)
	}
	last := storedValue(t, fn)
	if last.Op != dxil.OpFAdd {
		t.Fatalf("expected FAdd, got %v", last.Op)
	}
}

func TestLowerFloatArithDotProduct(t *testing.T) {
	l, fn := newTestLowerer()
	inst := token.Instruction{
		Opcode: token.OpDp3,
		Operands: []token.Operand{
			tempOperand(0, 0xF),
			immOperand32([4]uint32{1, 2, 3, 4}),
			immOperand32([4]uint32{1, 1, 1, 1}),
		},
	}
	if err := l.lowerFloatArith(inst); err != nil {
		t.Fatalf("lowerFloatArith: %v", err)
	}
	blk := fn.Blocks[0]
	var adds, muls int
	for _, in := range blk.Instructions {
		switch in.Op {
		case dxil.OpFAdd:
			adds++
		case dxil.OpFMul:
			muls++
		}
	}
	if muls != 3 {
		t.Fatalf("expected 3 multiplies for dp3, got %d", muls)
	}
	if adds != 2 {
		t.Fatalf("expected 2 adds for dp3, got %d", adds)
	}
}

func TestLowerIntArithBitwise(t *testing.T) {
	l, fn := newTestLowerer()
	inst := token.Instruction{
		Opcode: token.OpAnd,
		Operands: []token.Operand{
			tempOperand(0, 0x1),
			immOperand32([4]uint32{0xFF, 0, 0, 0}),
			immOperand32([4]uint32{0x0F, 0, 0, 0}),
		},
	}
	if err := l.lowerIntArith(inst); err != nil {
		t.Fatalf("lowerIntArith: %v", err)
	}
	if last := storedValue(t, fn); last.Op != dxil.OpAnd {
		t.Fatalf("expected And, got %v", last.Op)
	}
}

func TestLowerCompareProducesMaskFromI1(t *testing.T) {
	l, fn := newTestLowerer()
	inst := token.Instruction{
		Opcode: token.OpEq,
		Operands: []token.Operand{
			tempOperand(0, 0x1),
			immOperand32([4]uint32{1, 0, 0, 0}),
			immOperand32([4]uint32{1, 0, 0, 0}),
		},
	}
	if err := l.lowerCompare(inst); err != nil {
		t.Fatalf("lowerCompare: %v", err)
	}
	last := storedValue(t, fn)
	if last.Op != dxil.OpSExt {
		t.Fatalf("expected the final op to sign-extend the i1 predicate, got %v", last.Op)
	}
}

func TestLowerConversionItoF(t *testing.T) {
	l, fn := newTestLowerer()
	inst := token.Instruction{
		Opcode: token.OpItoF,
		Operands: []token.Operand{
			tempOperand(0, 0x1),
			immOperand32([4]uint32{1, 0, 0, 0}),
		},
	}
	if err := l.lowerConversion(inst); err != nil {
		t.Fatalf("lowerConversion: %v", err)
	}
	if last := storedValue(t, fn); last.Op != dxil.OpSIToFP {
		t.Fatalf("expected SIToFP, got %v", last.Op)
	}
}

func TestLowerDiscardEmitsTestAndDiscard(t *testing.T) {
	l, fn := newTestLowerer()
	inst := token.Instruction{Opcode: token.OpDiscard, Operands: []token.Operand{immOperand32([4]uint32{1, 0, 0, 0})}}
	if err := l.lowerDiscard(inst); err != nil {
		t.Fatalf("lowerDiscard: %v", err)
	}
	last := lastInst(fn)
	if last.DxOp != dxil.OpDiscard {
		t.Fatalf("expected the final op to be the Discard dx op, got %v", last.DxOp)
	}
}

func TestRunSkipsDeclarationsAndLowersInstructions(t *testing.T) {
	l, fn := newTestLowerer()
	stream := token.NewStream([]token.Instruction{
		{Opcode: token.OpDclTemps, Operands: []token.Operand{immOperand32([4]uint32{1, 0, 0, 0})}},
		{Opcode: token.OpMov, Operands: []token.Operand{tempOperand(0, 0x1), immOperand32([4]uint32{1, 0, 0, 0})}},
	})
	if err := l.Run(stream); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(fn.Blocks[0].Instructions) == 0 {
		t.Fatalf("expected the mov to have lowered into the entry block")
	}
}
