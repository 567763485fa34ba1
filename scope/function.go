// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package scope

import "github.com/gogpu/dxbc2dxil/dxil"

// FunctionScope is the bottom-of-stack entry present for the duration
// of one function body. It records the function and its entry block.
type FunctionScope struct {
	Fn         *dxil.Function
	EntryBlock *dxil.BasicBlock

	// InPatchConstantPhase marks an entry function whose body is the
	// patch-constant phase. Ret does not read it: a ret branches only
	// when a HullLoopScope is open and emits OpRetVoid otherwise.
	InPatchConstantPhase bool
}

func (*FunctionScope) Kind() Kind { return KindFunction }

// Ret emits the correct terminator for a ret/retc inside fn's current
// scope stack: an SSA return for a normal function or a non-entry
// patch-constant phase, or — if the innermost enclosing scope is a
// HullLoopScope — a branch to the loop's per-instance continuation
// instead, since a ret there terminates only the current hull-shader
// instance.
func Ret(stack *Stack, b *dxil.Builder) {
	if hl := stack.innermostHullLoop(); hl != nil {
		hl.retFromInstance(b)
		return
	}
	b.Emit(&dxil.Instruction{Op: dxil.OpRetVoid, Type: dxil.Void})
}
