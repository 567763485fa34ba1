// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package scope

import "github.com/gogpu/dxbc2dxil/dxil"

// IfScope reconstructs one if/else?/endif. The conditional branch is
// emitted eagerly in the pre-scope block at push, initially targeting
// (then, end); if an else arm appears, Else rewires the branch's
// second target to a newly created else block.
type IfScope struct {
	then, elseBlk, end *dxil.BasicBlock
	condBr             *dxil.Instruction
	inElse             bool
}

func (*IfScope) Kind() Kind { return KindIf }

// PushIf emits the conditional branch in the block currently open on
// b, creates the then/end successor blocks, and redirects b into then.
func PushIf(fn *dxil.Function, b *dxil.Builder, names *nameCounter, cond dxil.Value) *IfScope {
	then := newBlock(fn, names.next("then"))
	end := newBlock(fn, names.next("endif"))
	condBr := b.Emit(&dxil.Instruction{
		Op:       dxil.OpCondBr,
		Type:     dxil.Void,
		Operands: []dxil.Value{cond},
		Targets:  []*dxil.BasicBlock{then, end},
	})
	b.SetBlock(then)
	return &IfScope{then: then, end: end, condBr: condBr}
}

// Else terminates the still-open then-block with a branch to end,
// creates the else block, rewires the pre-scope conditional branch's
// second target from end to else, and redirects b into else.
func (s *IfScope) Else(fn *dxil.Function, b *dxil.Builder, names *nameCounter) {
	if s.inElse {
		return
	}
	s.inElse = true
	if !b.Sealed() {
		b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{s.end}})
	}
	s.elseBlk = newBlock(fn, names.next("else"))
	s.condBr.Targets[1] = s.elseBlk
	b.SetBlock(s.elseBlk)
}

// Pop seals whichever arm is still open with a fall-through branch to
// end, then redirects b into end.
func (s *IfScope) Pop(b *dxil.Builder) {
	if !b.Sealed() {
		b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{s.end}})
	}
	b.SetBlock(s.end)
}
