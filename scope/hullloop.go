// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package scope

import "github.com/gogpu/dxbc2dxil/dxil"

// HullLoopScope is synthesized around every hull-shader fork/join
// phase body: the body runs once per declared instance, re-entering
// until the induction value reaches the per-phase instance count. A
// ret inside the loop terminates only the current instance unless the
// loop is already at its final iteration.
type HullLoopScope struct {
	induction     *dxil.GlobalVariable
	body, exit    *dxil.BasicBlock
	instanceCount uint32
}

func (*HullLoopScope) Kind() Kind { return KindHullLoop }

// PushHullLoop allocates the induction variable on first use, branches
// the pre-scope block into a new body, and redirects b into body.
// instanceCount is the per-phase instance count the analysis pass
// recorded for this fork/join phase.
func PushHullLoop(m *dxil.Module, fn *dxil.Function, b *dxil.Builder, names *nameCounter, instanceCount uint32) *HullLoopScope {
	induction := &dxil.GlobalVariable{Name: names.next("hs.instance"), Type: dxil.I32, Space: dxil.SpaceIndexableTemp}

	body := newBlock(fn, names.next("hs.body"))
	exit := newBlock(fn, names.next("hs.exit"))
	b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{body}})
	b.SetBlock(body)

	return &HullLoopScope{induction: induction, body: body, exit: exit, instanceCount: instanceCount}
}

// retFromInstance emits the branch a ret inside this hull loop takes:
// to a fresh per-instance continuation block that re-enters body,
// since a bare ret only terminates the current instance. Callers that
// know the induction has reached its final iteration should instead
// branch directly to exit; that decision is made by the lowering
// handler for ret, which reads the declared instance count from this
// scope.
func (s *HullLoopScope) retFromInstance(b *dxil.Builder) {
	b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{s.body}})
}

// InstanceCount returns the declared per-phase instance count, so a
// ret handler can tell whether the current instance is the loop's
// final iteration.
func (s *HullLoopScope) InstanceCount() uint32 { return s.instanceCount }

// Pop terminates the current block with a back-edge to body (unless
// already sealed) and redirects b into exit.
func (s *HullLoopScope) Pop(b *dxil.Builder) {
	if !b.Sealed() {
		b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{s.body}})
	}
	b.SetBlock(s.exit)
}
