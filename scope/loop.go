// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package scope

import "github.com/gogpu/dxbc2dxil/dxil"

// LoopScope reconstructs one loop/endloop, including every
// continue/continuec and break/breakc encountered inside it.
type LoopScope struct {
	body, exit *dxil.BasicBlock
}

func (*LoopScope) Kind() Kind { return KindLoop }

// PushLoop branches the pre-scope block unconditionally to a new body
// block, creates the exit block, and redirects b into body.
func PushLoop(fn *dxil.Function, b *dxil.Builder, names *nameCounter) *LoopScope {
	body := newBlock(fn, names.next("loop.body"))
	exit := newBlock(fn, names.next("loop.exit"))
	b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{body}})
	b.SetBlock(body)
	return &LoopScope{body: body, exit: exit}
}

// Continue terminates the current block with a branch back to the
// loop body — conditional on cond if cond is non-nil — then opens a
// fresh successor block for whatever code follows (unreachable after
// an unconditional continue, but still a legal DXBC sequence).
func (s *LoopScope) Continue(fn *dxil.Function, b *dxil.Builder, names *nameCounter, cond dxil.Value) {
	succ := newBlock(fn, names.next("loop.cont"))
	s.branch(b, cond, s.body, succ)
	b.SetBlock(succ)
}

// Break terminates the current block with a branch to the loop exit —
// conditional on cond if cond is non-nil — then opens a fresh
// successor block for code following an unconditional break.
func (s *LoopScope) Break(fn *dxil.Function, b *dxil.Builder, names *nameCounter, cond dxil.Value) {
	succ := newBlock(fn, names.next("loop.after_break"))
	s.branch(b, cond, s.exit, succ)
	b.SetBlock(succ)
}

func (s *LoopScope) branch(b *dxil.Builder, cond dxil.Value, target, fallthroughBlock *dxil.BasicBlock) {
	if cond == nil {
		b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{target}})
		return
	}
	b.Emit(&dxil.Instruction{
		Op:       dxil.OpCondBr,
		Type:     dxil.Void,
		Operands: []dxil.Value{cond},
		Targets:  []*dxil.BasicBlock{target, fallthroughBlock},
	})
}

// Pop terminates the current block with the loop's back-edge to body
// (unless already sealed by a preceding break/continue) and redirects
// b into exit.
func (s *LoopScope) Pop(b *dxil.Builder) {
	if !b.Sealed() {
		b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{s.body}})
	}
	b.SetBlock(s.exit)
}
