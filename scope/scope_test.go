package scope

import (
	"testing"

	"github.com/gogpu/dxbc2dxil/dxil"
)

func newTestFunction() (*dxil.Function, *dxil.Builder) {
	entry := &dxil.BasicBlock{Name: "entry"}
	fn := &dxil.Function{Name: "main", Blocks: []*dxil.BasicBlock{entry}}
	return fn, dxil.NewBuilder(entry)
}

func TestIfElseProducesWellFormedCFG(t *testing.T) {
	fn, b := newTestFunction()
	stack := NewStack(fn, fn.Blocks[0])

	cond := dxil.ConstInt{Val: 1, Type: dxil.I1}
	ifScope := PushIf(fn, b, stack.Names(), cond)
	stack.Push(ifScope)

	b.Emit(&dxil.Instruction{Op: dxil.OpAdd, Type: dxil.I32})
	ifScope.Else(fn, b, stack.Names())
	b.Emit(&dxil.Instruction{Op: dxil.OpSub, Type: dxil.I32})

	popped := stack.Pop().(*IfScope)
	popped.Pop(b)
	b.Emit(&dxil.Instruction{Op: dxil.OpRetVoid, Type: dxil.Void})

	if err := dxil.Validate(&dxil.Module{Functions: []*dxil.Function{fn}}); err != nil {
		t.Fatalf("expected well-formed CFG, got error: %v", err)
	}
}

func TestIfWithoutElseProducesWellFormedCFG(t *testing.T) {
	fn, b := newTestFunction()
	stack := NewStack(fn, fn.Blocks[0])

	cond := dxil.ConstInt{Val: 1, Type: dxil.I1}
	ifScope := PushIf(fn, b, stack.Names(), cond)
	stack.Push(ifScope)
	b.Emit(&dxil.Instruction{Op: dxil.OpAdd, Type: dxil.I32})

	popped := stack.Pop().(*IfScope)
	popped.Pop(b)
	b.Emit(&dxil.Instruction{Op: dxil.OpRetVoid, Type: dxil.Void})

	if err := dxil.Validate(&dxil.Module{Functions: []*dxil.Function{fn}}); err != nil {
		t.Fatalf("expected well-formed CFG, got error: %v", err)
	}
}

func TestLoopWithBreakProducesReducibleCFG(t *testing.T) {
	fn, b := newTestFunction()
	stack := NewStack(fn, fn.Blocks[0])

	loop := PushLoop(fn, b, stack.Names())
	stack.Push(loop)

	cond := dxil.ConstInt{Val: 1, Type: dxil.I1}
	loop.Break(fn, b, stack.Names(), cond)

	popped := stack.Pop().(*LoopScope)
	popped.Pop(b)
	b.Emit(&dxil.Instruction{Op: dxil.OpRetVoid, Type: dxil.Void})

	if err := dxil.Validate(&dxil.Module{Functions: []*dxil.Function{fn}}); err != nil {
		t.Fatalf("expected reducible CFG, got error: %v", err)
	}
}

func TestSwitchWithCasesProducesWellFormedCFG(t *testing.T) {
	fn, b := newTestFunction()
	stack := NewStack(fn, fn.Blocks[0])

	selector := dxil.ConstInt{Val: 0, Type: dxil.I32}
	sw := PushSwitch(fn, b, stack.Names(), selector)
	stack.Push(sw)

	sw.Case(fn, b, stack.Names(), 0)
	b.Emit(&dxil.Instruction{Op: dxil.OpAdd, Type: dxil.I32})
	sw.Case(fn, b, stack.Names(), 1)
	b.Emit(&dxil.Instruction{Op: dxil.OpSub, Type: dxil.I32})
	sw.Default(fn, b, stack.Names())
	b.Emit(&dxil.Instruction{Op: dxil.OpMul, Type: dxil.I32})

	popped := stack.Pop().(*SwitchScope)
	popped.Pop(b)
	b.Emit(&dxil.Instruction{Op: dxil.OpRetVoid, Type: dxil.Void})

	if err := dxil.Validate(&dxil.Module{Functions: []*dxil.Function{fn}}); err != nil {
		t.Fatalf("expected well-formed CFG, got error: %v", err)
	}
}

func TestRetInsideHullLoopBranchesBackToBody(t *testing.T) {
	fn, b := newTestFunction()
	stack := NewStack(fn, fn.Blocks[0])

	hl := PushHullLoop(&dxil.Module{}, fn, b, stack.Names(), 4)
	stack.Push(hl)

	Ret(stack, b)

	last := b.Block().Terminator()
	if last == nil || last.Op != dxil.OpBr {
		t.Fatalf("expected ret inside hull loop to branch, got %v", last)
	}
}

func TestRetOutsideHullLoopEmitsRetVoid(t *testing.T) {
	fn, b := newTestFunction()
	stack := NewStack(fn, fn.Blocks[0])

	Ret(stack, b)

	last := b.Block().Terminator()
	if last == nil || last.Op != dxil.OpRetVoid {
		t.Fatalf("expected plain ret void, got %v", last)
	}
}
