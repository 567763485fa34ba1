// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package scope reconstructs a structured control-flow graph from
// DXBC's nested if/loop/switch/ret tokens. A Stack of Scope values
// tracks, LIFO, which construct is currently open; each push creates
// its successor blocks and redirects the Builder's insertion
// point into the body, each pop seals the scope by wiring up whatever
// terminator that construct still owes its predecessor blocks.
package scope

import (
	"strconv"

	"github.com/gogpu/dxbc2dxil/dxil"
)

// Kind identifies which construct a Scope reconstructs.
type Kind uint8

const (
	KindFunction Kind = iota
	KindIf
	KindLoop
	KindSwitch
	KindHullLoop
)

// Scope is the tagged variant every entry on the Stack is one of.
type Scope interface {
	Kind() Kind
}

// nameCounter generates unique sibling-block names within one function,
// mirroring the spec's "counters for generating unique sibling-block
// names" requirement without needing a package-level global: each
// Stack owns one.
type nameCounter struct{ n int }

func (c *nameCounter) next(prefix string) string {
	c.n++
	return prefix + "." + strconv.Itoa(c.n)
}

func newBlock(fn *dxil.Function, name string) *dxil.BasicBlock {
	b := &dxil.BasicBlock{Name: name}
	fn.Blocks = append(fn.Blocks, b)
	return b
}
