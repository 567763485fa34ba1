package dxil

import "testing"

func retVoid() *Instruction { return &Instruction{Op: OpRetVoid, Type: Void} }

func TestValidateSingleBlockOK(t *testing.T) {
	entry := &BasicBlock{Name: "entry", Instructions: []*Instruction{retVoid()}}
	fn := &Function{Name: "main", Blocks: []*BasicBlock{entry}, IsEntry: true}
	m := &Module{Functions: []*Function{fn}}

	if err := Validate(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateMissingTerminator(t *testing.T) {
	entry := &BasicBlock{Name: "entry"}
	fn := &Function{Name: "main", Blocks: []*BasicBlock{entry}}
	m := &Module{Functions: []*Function{fn}}

	if err := Validate(m); err == nil {
		t.Fatal("expected error for block without terminator")
	}
}

func TestValidateUnreachableBlock(t *testing.T) {
	entry := &BasicBlock{Name: "entry", Instructions: []*Instruction{retVoid()}}
	orphan := &BasicBlock{Name: "orphan", Instructions: []*Instruction{retVoid()}}
	fn := &Function{Name: "main", Blocks: []*BasicBlock{entry, orphan}}
	m := &Module{Functions: []*Function{fn}}

	if err := Validate(m); err == nil {
		t.Fatal("expected error for unreachable block")
	}
}

func TestValidateStructuredIfElseIsReducible(t *testing.T) {
	// entry -> then, else; then -> end; else -> end; end -> ret
	end := &BasicBlock{Name: "end", Instructions: []*Instruction{retVoid()}}
	then := &BasicBlock{Name: "then"}
	els := &BasicBlock{Name: "else"}
	then.Instructions = []*Instruction{{Op: OpBr, Type: Void, Targets: []*BasicBlock{end}}}
	els.Instructions = []*Instruction{{Op: OpBr, Type: Void, Targets: []*BasicBlock{end}}}
	entry := &BasicBlock{Name: "entry", Instructions: []*Instruction{
		{Op: OpCondBr, Type: Void, Targets: []*BasicBlock{then, els}},
	}}
	fn := &Function{Name: "main", Blocks: []*BasicBlock{entry, then, els, end}}
	m := &Module{Functions: []*Function{fn}}

	if err := Validate(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStructuredLoopIsReducible(t *testing.T) {
	// entry -> body; body -> body (back edge) or exit; exit -> ret
	exit := &BasicBlock{Name: "exit", Instructions: []*Instruction{retVoid()}}
	body := &BasicBlock{Name: "body"}
	entry := &BasicBlock{Name: "entry", Instructions: []*Instruction{
		{Op: OpBr, Type: Void, Targets: []*BasicBlock{body}},
	}}
	body.Instructions = []*Instruction{
		{Op: OpCondBr, Type: Void, Targets: []*BasicBlock{body, exit}},
	}
	fn := &Function{Name: "main", Blocks: []*BasicBlock{entry, body, exit}}
	m := &Module{Functions: []*Function{fn}}

	if err := Validate(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateIrreducibleCFGRejected(t *testing.T) {
	// Two blocks that each jump into the other's "loop" without a
	// single dominating header — a classic irreducible diamond.
	a := &BasicBlock{Name: "a"}
	b := &BasicBlock{Name: "b"}
	entry := &BasicBlock{Name: "entry", Instructions: []*Instruction{
		{Op: OpCondBr, Type: Void, Targets: []*BasicBlock{a, b}},
	}}
	a.Instructions = []*Instruction{{Op: OpBr, Type: Void, Targets: []*BasicBlock{b}}}
	b.Instructions = []*Instruction{{Op: OpBr, Type: Void, Targets: []*BasicBlock{a}}}
	fn := &Function{Name: "main", Blocks: []*BasicBlock{entry, a, b}}
	m := &Module{Functions: []*Function{fn}}

	if err := Validate(m); err == nil {
		t.Fatal("expected irreducibility error")
	}
}
