// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package scope

import "github.com/gogpu/dxbc2dxil/dxil"

// SwitchScope reconstructs one switch/case/default/endswitch. The
// selector is loaded at push; the SwitchInst terminator is only
// materialized at pop, once every case and the default (if any) have
// been seen.
type SwitchScope struct {
	preBlock   *dxil.BasicBlock
	end        *dxil.BasicBlock
	selector   dxil.Value
	caseVals   []int64
	caseBlocks []*dxil.BasicBlock
	defaultBlk *dxil.BasicBlock
	current    *dxil.BasicBlock
}

func (*SwitchScope) Kind() Kind { return KindSwitch }

// PushSwitch records the pre-scope block and the selector value; the
// terminator is filled in at Pop once every case is known.
func PushSwitch(fn *dxil.Function, b *dxil.Builder, names *nameCounter, selector dxil.Value) *SwitchScope {
	end := newBlock(fn, names.next("switch.end"))
	return &SwitchScope{preBlock: b.Block(), end: end, selector: selector}
}

// Case opens a new block for a case label and records (value, block).
// If the previous case block was left unsealed (no explicit break), it
// falls through by branching into the new case block — DXBC's switch
// lowering does not rely on fallthrough, but the CFG must still be
// well-formed if an input omits a break.
func (s *SwitchScope) Case(fn *dxil.Function, b *dxil.Builder, names *nameCounter, value int64) {
	blk := newBlock(fn, names.next("case"))
	s.sealFallthrough(b, blk)
	s.caseVals = append(s.caseVals, value)
	s.caseBlocks = append(s.caseBlocks, blk)
	s.current = blk
	b.SetBlock(blk)
}

// Default opens the default-case block.
func (s *SwitchScope) Default(fn *dxil.Function, b *dxil.Builder, names *nameCounter) {
	blk := newBlock(fn, names.next("default"))
	s.sealFallthrough(b, blk)
	s.defaultBlk = blk
	s.current = blk
	b.SetBlock(blk)
}

func (s *SwitchScope) sealFallthrough(b *dxil.Builder, next *dxil.BasicBlock) {
	if s.current != nil && !b.Sealed() {
		b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{next}})
	}
}

// Pop materializes the SwitchInst at preBlock, deduplicating identical
// case targets (SwitchOthers records the siblings of a deduplicated
// target), seals any still-open case/default block with a branch to
// end, and redirects b into end.
func (s *SwitchScope) Pop(b *dxil.Builder) {
	if s.current != nil && !b.Sealed() {
		b.Emit(&dxil.Instruction{Op: dxil.OpBr, Type: dxil.Void, Targets: []*dxil.BasicBlock{s.end}})
	}

	def := s.defaultBlk
	if def == nil {
		def = s.end
	}

	dedupVals, dedupBlocks, others := dedupCases(s.caseVals, s.caseBlocks)

	prevBuilder := dxil.NewBuilder(s.preBlock)
	prevBuilder.Emit(&dxil.Instruction{
		Op:           dxil.OpSwitch,
		Type:         dxil.Void,
		Operands:     []dxil.Value{s.selector},
		SwitchCases:  dedupVals,
		SwitchBlocks: dedupBlocks,
		SwitchOthers: others,
		Targets:      []*dxil.BasicBlock{def},
	})

	b.SetBlock(s.end)
}

// dedupCases collapses cases that share an identical target block:
// the first occurrence of each target is kept in the primary
// (vals, blocks) pair, and the block of every later case sharing that
// target is appended to others.
func dedupCases(vals []int64, blocks []*dxil.BasicBlock) (dedupVals []int64, dedupBlocks, others []*dxil.BasicBlock) {
	seen := map[*dxil.BasicBlock]bool{}
	for i, blk := range blocks {
		if seen[blk] {
			others = append(others, blk)
			continue
		}
		seen[blk] = true
		dedupVals = append(dedupVals, vals[i])
		dedupBlocks = append(dedupBlocks, blk)
	}
	return dedupVals, dedupBlocks, others
}
