package dxil

import "fmt"

// ValidationError reports a single violation found by Validate.
type ValidationError struct {
	Function string
	Block    string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dxil: function %q block %q: %s", e.Function, e.Block, e.Message)
}

// Validate checks the structural invariants spec §8 requires of the
// emitted module before the (external, opaque) cleanup pass runs:
//
//   - P5: every basic block has exactly one terminator, and is reachable
//     from the function's entry block.
//   - P4: the function's CFG is reducible.
//
// It does not check dataflow (operand type agreement, dominance of SSA
// uses) — that is the job of the caller's own IR verifier, which spec §7
// treats as optional (VerificationFailed is "only raised when the
// optional internal verification is enabled").
func Validate(m *Module) error {
	for _, fn := range m.Functions {
		if err := validateWellFormed(fn); err != nil {
			return err
		}
		if err := validateReducible(fn); err != nil {
			return err
		}
	}
	return nil
}

func validateWellFormed(fn *Function) error {
	for _, b := range fn.Blocks {
		if len(b.Instructions) == 0 {
			return &ValidationError{fn.Name, b.Name, "block has no terminator"}
		}
		if !b.Instructions[len(b.Instructions)-1].Op.IsTerminator() {
			return &ValidationError{fn.Name, b.Name, "block does not end in a terminator"}
		}
		for _, inst := range b.Instructions[:len(b.Instructions)-1] {
			if inst.Op.IsTerminator() {
				return &ValidationError{fn.Name, b.Name, "terminator appears before the end of the block"}
			}
		}
	}

	reachable := reachableBlocks(fn)
	for _, b := range fn.Blocks {
		if !reachable[b] {
			return &ValidationError{fn.Name, b.Name, "block is unreachable"}
		}
	}
	return nil
}

func successors(inst *Instruction) []*BasicBlock {
	switch inst.Op {
	case OpBr, OpCondBr:
		return inst.Targets
	case OpSwitch:
		succ := append([]*BasicBlock{}, inst.SwitchBlocks...)
		succ = append(succ, inst.Targets...) // default target
		return succ
	default:
		return nil
	}
}

func reachableBlocks(fn *Function) map[*BasicBlock]bool {
	seen := map[*BasicBlock]bool{}
	if len(fn.Blocks) == 0 {
		return seen
	}
	var walk func(b *BasicBlock)
	walk = func(b *BasicBlock) {
		if seen[b] {
			return
		}
		seen[b] = true
		if term := b.Terminator(); term != nil {
			for _, s := range successors(term) {
				walk(s)
			}
		}
	}
	walk(fn.Blocks[0])
	return seen
}

// validateReducible checks that the function's CFG is reducible: every
// cycle must be dominated by its own header (the block all back edges into
// the cycle target). DXBC's structured control-flow tokens (if/loop/
// switch, §4.6) only ever produce reducible CFGs when the scope stack is
// implemented correctly (spec §9 "Irreducibility"); this check is the
// post-condition that would catch a scope-stack bug before it reached the
// external cleanup pass.
func validateReducible(fn *Function) error {
	if len(fn.Blocks) == 0 {
		return nil
	}
	dom := dominators(fn)

	visiting := map[*BasicBlock]bool{}
	done := map[*BasicBlock]bool{}
	var visit func(b *BasicBlock) error
	visit = func(b *BasicBlock) error {
		visiting[b] = true
		term := b.Terminator()
		if term != nil {
			for _, succ := range successors(term) {
				if isBackEdge(dom, b, succ) {
					continue
				}
				if visiting[succ] {
					return &ValidationError{fn.Name, b.Name, "irreducible control flow: cycle not dominated by its header"}
				}
				if !done[succ] {
					if err := visit(succ); err != nil {
						return err
					}
				}
			}
		}
		visiting[b] = false
		done[b] = true
		return nil
	}
	return visit(fn.Blocks[0])
}

func isBackEdge(dom map[*BasicBlock]map[*BasicBlock]bool, from, to *BasicBlock) bool {
	return dom[from] != nil && dom[from][to]
}

// dominators computes, for each block, the set of blocks that dominate it,
// using the standard iterative data-flow fixpoint — adequate for the
// block counts a single shader function produces.
func dominators(fn *Function) map[*BasicBlock]map[*BasicBlock]bool {
	all := map[*BasicBlock]bool{}
	for _, b := range fn.Blocks {
		all[b] = true
	}

	preds := map[*BasicBlock][]*BasicBlock{}
	for _, b := range fn.Blocks {
		term := b.Terminator()
		if term == nil {
			continue
		}
		for _, s := range successors(term) {
			preds[s] = append(preds[s], b)
		}
	}

	entry := fn.Blocks[0]
	dom := map[*BasicBlock]map[*BasicBlock]bool{}
	for _, b := range fn.Blocks {
		if b == entry {
			dom[b] = map[*BasicBlock]bool{entry: true}
		} else {
			dom[b] = map[*BasicBlock]bool{}
			for k := range all {
				dom[b][k] = true
			}
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range fn.Blocks {
			if b == entry {
				continue
			}
			ps := preds[b]
			if len(ps) == 0 {
				continue
			}
			var newDom map[*BasicBlock]bool
			for _, p := range ps {
				if newDom == nil {
					newDom = map[*BasicBlock]bool{}
					for k := range dom[p] {
						newDom[k] = true
					}
					continue
				}
				for k := range newDom {
					if !dom[p][k] {
						delete(newDom, k)
					}
				}
			}
			newDom[b] = true
			if !equalSets(newDom, dom[b]) {
				dom[b] = newDom
				changed = true
			}
		}
	}
	return dom
}

func equalSets(a, b map[*BasicBlock]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
