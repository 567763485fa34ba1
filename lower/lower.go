// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package lower walks a decoded instruction stream and emits dxil IR:
// one handler per source opcode, grouped by shape, each funneling
// through a small set of helpers parameterized by (intrinsic id,
// element type, operand indices) the way the move family, the FP/int
// arithmetic groups, and the resource groups all share.
package lower

import (
	"math"

	"github.com/gogpu/dxbc2dxil/analysis"
	"github.com/gogpu/dxbc2dxil/dxerr"
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/scope"
	"github.com/gogpu/dxbc2dxil/signature"
	"github.com/gogpu/dxbc2dxil/token"
	"github.com/gogpu/dxbc2dxil/value"
)

// Lowerer owns the module being built and the per-conversion tables
// the analysis pass populated. One Lowerer is consumed by one Run
// call, mirroring the translator-owns-one-module lifecycle the
// conversion entry point promises.
type Lowerer struct {
	module *dxil.Module
	fn     *dxil.Function
	stack  *scope.Stack
	b      *dxil.Builder

	analysis *analysis.Result
	inputs   *signature.Model
	outputs  *signature.Model
	patchConstants *signature.Model

	handles map[handleKey]*dxil.Instruction

	// resourceIndex/tgsmIndex resolve a raw (class, lower-bound) or a
	// g# declaration id to its position in the module's tables, built
	// once per module by buildResourceTables.
	resourceIndex resourceIndex
	tgsmIndex     map[uint32]int

	hullPhase          analysis.HullPhase
	hullPhaseInstance  int

	// currentStream/multiStream/shadow support GS multi-stream output:
	// when multiStream is set, every output write, whatever its stream,
	// buffers into shadow until the matching OpEmitStream/OpCutStream
	// flushes them.
	currentStream uint8
	multiStream   bool
	shadow        map[uint32]*shadowOutput
}

type handleKey struct {
	class dxil.ResourceClass
	id    uint32
}

// New creates a Lowerer that will append to fn, starting translation
// in entry. The first call for a given module builds its resource,
// TGSM, and indexable-temp tables from ana; later calls (one per
// hull-shader phase function) reuse types's existing dedup table so
// every phase shares one Types declaration list.
func New(m *dxil.Module, fn *dxil.Function, entry *dxil.BasicBlock, ana *analysis.Result, inputs, outputs, patchConstants *signature.Model, types *dxil.TypeRegistry) *Lowerer {
	resIdx, tgsmIdx := buildResourceTables(m, ana, types)
	return &Lowerer{
		module:         m,
		fn:             fn,
		stack:          scope.NewStack(fn, entry),
		b:              dxil.NewBuilder(entry),
		analysis:       ana,
		inputs:         inputs,
		outputs:        outputs,
		patchConstants: patchConstants,
		handles:        make(map[handleKey]*dxil.Instruction),
		resourceIndex:  resIdx,
		tgsmIndex:      tgsmIdx,
		multiStream:    hasMultipleStreams(ana.Outputs),
		shadow:         make(map[uint32]*shadowOutput),
	}
}

// Run lowers every instruction in s in order, preserving source-program
// order into the block that is current at each opcode's textual
// position (spec §5 "Ordering guarantees").
func (l *Lowerer) Run(s *token.Stream) error {
	for {
		inst, ok := s.Next()
		if !ok {
			break
		}
		if inst.Opcode == token.OpDclStream {
			// Sticky current-stream tracking, mirroring analysis.Run's own
			// walk, so shadowStore tags each buffered write with the
			// stream active at its textual position during this second,
			// lowering pass over the same stream.
			if len(inst.Operands) > 0 && len(inst.Operands[0].Indices) > 0 {
				l.currentStream = uint8(inst.Operands[0].Indices[0].Immediate)
			}
			continue
		}
		if inst.Opcode.IsDeclaration() {
			continue // declarations were fully consumed by the analysis pass
		}
		if err := l.lowerOne(inst); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) lowerOne(inst token.Instruction) error {
	switch {
	case inst.Opcode.IsControlFlow():
		return l.lowerControlFlow(inst)
	case isMoveFamily(inst.Opcode):
		return l.lowerMove(inst)
	case isFloatArith(inst.Opcode):
		return l.lowerFloatArith(inst)
	case isIntArith(inst.Opcode):
		return l.lowerIntArith(inst)
	case isCompare(inst.Opcode):
		return l.lowerCompare(inst)
	case isConversion(inst.Opcode):
		return l.lowerConversion(inst)
	case isDoublePrecision(inst.Opcode):
		return l.lowerDouble(inst)
	case isSample(inst.Opcode):
		return l.lowerSample(inst)
	case isResourceLoadStore(inst.Opcode):
		return l.lowerResourceLoadStore(inst)
	case isGather(inst.Opcode):
		return l.lowerGather(inst)
	case isAtomic(inst.Opcode):
		return l.lowerAtomic(inst)
	case isStreamControl(inst.Opcode):
		return l.lowerStreamControl(inst)
	case inst.Opcode == token.OpSync:
		return l.lowerBarrier(inst)
	case inst.Opcode == token.OpDiscard:
		return l.lowerDiscard(inst)
	default:
		return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "unhandled opcode in lowering walk")
	}
}

// emit applies the fixed precise/fast-math rule (spec P6) to inst and
// appends it to the current block.
func (l *Lowerer) emit(inst *dxil.Instruction, preciseMask uint8, lane int) *dxil.Instruction {
	if preciseMask&(1<<uint(lane)) != 0 {
		value.ApplyPrecise(inst)
	}
	return l.b.Emit(inst)
}

// saturate clamps every lane of v to [0,1] via FMax then FMin when sat
// is set (the `_sat` instruction suffix), applying the same
// precise-propagation rule as the instruction it follows.
func (l *Lowerer) saturate(v value.OperandValue, sat bool, preciseMask uint8) value.OperandValue {
	if !sat {
		return v
	}
	zero := dxil.ConstFloat{Bits: 0, Type: dxil.F32}
	one := dxil.ConstFloat{Bits: math.Float64bits(1), Type: dxil.F32}
	var out value.OperandValue
	for lane, lv := range v.Lanes {
		if lv == nil {
			continue
		}
		clampedLow := l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F32, DxOp: dxil.OpFMax, Operands: []dxil.Value{lv, zero}}, preciseMask, lane)
		out.Lanes[lane] = l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.F32, DxOp: dxil.OpFMin, Operands: []dxil.Value{clampedLow, one}}, preciseMask, lane)
	}
	return out
}

// destMask returns the write mask on inst's destination operand
// (operand 0 for every instruction shape this package handles).
func destMask(inst token.Instruction) value.Mask {
	if len(inst.Operands) == 0 {
		return value.MaskXYZW
	}
	return value.Mask(inst.Operands[0].Mask)
}
