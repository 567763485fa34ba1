// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package analysis implements the single pass over a decoded
// instruction stream that precedes lowering: it never emits IR, only
// populates per-declaration-kind tables, counts labels and function
// bodies, tracks the sticky current output stream and hull-shader
// phase, and records which system-value operands were referenced so
// the signature model can later decide which synthetic elements to add.
package analysis

import "github.com/gogpu/dxbc2dxil/token"

// HullPhase identifies which phase of a hull shader the walk is
// currently inside.
type HullPhase uint8

const (
	PhaseNone HullPhase = iota
	PhaseControlPoint
	PhaseFork
	PhaseJoin
)

// TempsDecl records a dcl_temps declaration.
type TempsDecl struct {
	Count uint32
}

// IndexableTempDecl records one dcl_indexableTemp declaration. Two
// declarations of the same register within one table merge by taking
// the max of every numeric field. Declarations inside the
// patch-constant phase go to their own table, so a main-body
// declaration and a patch-constant re-declaration are not merged.
type IndexableTempDecl struct {
	Register      uint32
	RegisterCount uint32
	ComponentCount uint32
}

// ResourceDecl records a dcl_resource / dcl_uav_typed / dcl_sampler /
// dcl_constantBuffer declaration.
type ResourceDecl struct {
	Opcode      token.Opcode
	RangeID     uint32
	Register    uint32
	UpperBound  uint32
	Space       uint32
	ResourceDim uint32
	ReturnType  [4]uint32

	// Stride is the declared per-element byte stride, present only on
	// dcl_resource_structured / dcl_uav_structured.
	Stride uint32
}

// TGSMDecl records a dcl_tgsm_raw / dcl_tgsm_structured declaration:
// the g# id the rest of the stream addresses it by, and the stride/
// count needed to size its backing global array.
type TGSMDecl struct {
	ID     uint32
	Stride uint32
	Count  uint32
}

// IOElementDecl records a dcl_input* / dcl_output* declaration: enough
// to feed the signature model's coalescing pass.
type IOElementDecl struct {
	Opcode      token.Opcode
	Register    uint32
	Mask        uint8
	SystemValue uint32
	Stream      uint8
}

// Result is everything the analysis pass captured, handed to the
// signature model and the lowering walk.
type Result struct {
	Temps          *TempsDecl
	IndexableTemps map[uint32]*IndexableTempDecl
	PatchConstantIndexableTemps map[uint32]*IndexableTempDecl

	Resources []ResourceDecl
	TGSM      []TGSMDecl
	Inputs    []IOElementDecl
	Outputs   []IOElementDecl

	LabelCount        int
	FunctionBodyCount int

	// CurrentStream is the output stream dcl_stream last set; sticky
	// until the next dcl_stream, and consulted by GS output writes in
	// between.
	CurrentStream uint8

	// SawCoverage/SawInnerCoverage record whether an implicit SV_Coverage
	// / SV_InnerCoverage reference was observed with no matching
	// declared element, so the signature model can add a synthetic one.
	SawCoverage      bool
	SawInnerCoverage bool

	// ForkPhaseInstanceCounts / JoinPhaseInstanceCounts accumulate the
	// per-phase instance count declared for each hull-shader fork/join
	// phase, in phase order.
	ForkPhaseInstanceCounts []uint32
	JoinPhaseInstanceCounts []uint32
}

// Run walks s exactly once, populating and returning a Result. It never
// constructs IR; that is package lower's job once Run has completed.
func Run(s *token.Stream) *Result {
	r := &Result{
		IndexableTemps:              make(map[uint32]*IndexableTempDecl),
		PatchConstantIndexableTemps: make(map[uint32]*IndexableTempDecl),
	}
	phase := PhaseNone

	for {
		inst, ok := s.Next()
		if !ok {
			break
		}

		switch inst.Opcode {
		case token.OpLabel:
			r.LabelCount++
		case token.OpDclFunctionBody:
			r.FunctionBodyCount++
		case token.OpDclStream:
			if len(inst.Operands) > 0 {
				r.CurrentStream = uint8(inst.Operands[0].Indices[0].Immediate)
			}
		case token.OpHSControlPointPhase:
			phase = PhaseControlPoint
		case token.OpHSForkPhase:
			phase = PhaseFork
		case token.OpHSJoinPhase:
			phase = PhaseJoin
		case token.OpDclTemps:
			r.Temps = &TempsDecl{Count: firstImmediate(inst)}
		case token.OpDclIndexableTemp:
			recordIndexableTemp(r, inst, phase)
		case token.OpDclResource, token.OpDclUAVTyped, token.OpDclUAVRaw, token.OpDclUAVStructured,
			token.OpDclResourceRaw, token.OpDclResourceStructured, token.OpDclSampler, token.OpDclConstantBuffer:
			r.Resources = append(r.Resources, resourceDeclFromInstruction(inst))
		case token.OpDclTGSMRaw:
			r.TGSM = append(r.TGSM, tgsmDeclFromInstruction(inst, 4))
		case token.OpDclTGSMStructured:
			r.TGSM = append(r.TGSM, tgsmDeclFromInstruction(inst, 0))
		case token.OpDclInput, token.OpDclInputSGV, token.OpDclInputSIV, token.OpDclInputPS,
			token.OpDclInputPSSGV, token.OpDclInputPSSIV:
			r.Inputs = append(r.Inputs, ioElementFromInstruction(inst, r.CurrentStream))
		case token.OpDclOutput, token.OpDclOutputSGV, token.OpDclOutputSIV:
			r.Outputs = append(r.Outputs, ioElementFromInstruction(inst, r.CurrentStream))
		case token.OpDclHSForkPhaseInstanceCount:
			r.ForkPhaseInstanceCounts = append(r.ForkPhaseInstanceCounts, firstImmediate(inst))
		case token.OpDclHSJoinPhaseInstanceCount:
			r.JoinPhaseInstanceCounts = append(r.JoinPhaseInstanceCounts, firstImmediate(inst))
		}

		observeOperands(r, inst)
	}

	return r
}

func firstImmediate(inst token.Instruction) uint32 {
	if len(inst.Operands) == 0 || len(inst.Operands[0].Indices) == 0 {
		return 0
	}
	return inst.Operands[0].Indices[0].Immediate
}

func recordIndexableTemp(r *Result, inst token.Instruction, phase HullPhase) {
	if len(inst.Operands) == 0 || len(inst.Operands[0].Indices) == 0 {
		return
	}
	reg := inst.Operands[0].Indices[0].Immediate
	var regCount, compCount uint32
	if len(inst.Operands) > 1 && len(inst.Operands[1].Indices) > 0 {
		regCount = inst.Operands[1].Indices[0].Immediate
	}
	if len(inst.Operands) > 2 && len(inst.Operands[2].Indices) > 0 {
		compCount = inst.Operands[2].Indices[0].Immediate
	}

	table := r.IndexableTemps
	if phase == PhaseJoin || phase == PhaseFork {
		table = r.PatchConstantIndexableTemps
	}

	if existing, ok := table[reg]; ok {
		existing.RegisterCount = maxU32(existing.RegisterCount, regCount)
		existing.ComponentCount = maxU32(existing.ComponentCount, compCount)
		return
	}
	table[reg] = &IndexableTempDecl{Register: reg, RegisterCount: regCount, ComponentCount: compCount}
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func resourceDeclFromInstruction(inst token.Instruction) ResourceDecl {
	d := ResourceDecl{Opcode: inst.Opcode, ResourceDim: inst.ResourceDim, ReturnType: inst.ReturnType}
	if len(inst.Operands) == 0 {
		return d
	}
	op := inst.Operands[0]
	switch len(op.Indices) {
	case 1:
		d.Register = op.Indices[0].Immediate
	case 3:
		d.RangeID = op.Indices[0].Immediate
		d.Register = op.Indices[1].Immediate
		d.UpperBound = op.Indices[1].Immediate
		d.Space = op.Indices[2].Immediate
	}

	switch inst.Opcode {
	case token.OpDclResourceStructured, token.OpDclUAVStructured:
		if len(inst.Operands) > 1 && len(inst.Operands[1].Indices) > 0 {
			d.Stride = inst.Operands[1].Indices[0].Immediate
		}
	}
	return d
}

// tgsmDeclFromInstruction builds a TGSMDecl from a dcl_tgsm_raw (fixed
// 4-byte element stride, operand 1 carries the dword count) or
// dcl_tgsm_structured (operand 1 stride, operand 2 count) declaration.
func tgsmDeclFromInstruction(inst token.Instruction, fixedStride uint32) TGSMDecl {
	var d TGSMDecl
	if len(inst.Operands) > 0 && len(inst.Operands[0].Indices) > 0 {
		d.ID = inst.Operands[0].Indices[0].Immediate
	}
	if fixedStride != 0 {
		d.Stride = fixedStride
		if len(inst.Operands) > 1 && len(inst.Operands[1].Indices) > 0 {
			d.Count = inst.Operands[1].Indices[0].Immediate
		}
		return d
	}
	if len(inst.Operands) > 1 && len(inst.Operands[1].Indices) > 0 {
		d.Stride = inst.Operands[1].Indices[0].Immediate
	}
	if len(inst.Operands) > 2 && len(inst.Operands[2].Indices) > 0 {
		d.Count = inst.Operands[2].Indices[0].Immediate
	}
	return d
}

func ioElementFromInstruction(inst token.Instruction, stream uint8) IOElementDecl {
	d := IOElementDecl{Opcode: inst.Opcode, Stream: stream}
	if len(inst.Operands) == 0 {
		return d
	}
	op := inst.Operands[0]
	if len(op.Indices) > 0 {
		d.Register = op.Indices[0].Immediate
	}
	d.Mask = op.Mask
	d.SystemValue = op.SystemValue
	return d
}

// observeOperands scans every operand of inst for implicit SV_Coverage
// / SV_InnerCoverage references that carry no matching declared
// element, so the signature model knows to add a synthetic one later.
func observeOperands(r *Result, inst token.Instruction) {
	for _, op := range inst.Operands {
		switch op.Kind {
		case token.OperandInputCoverageMask:
			r.SawCoverage = true
		case token.OperandInnerCoverage:
			r.SawInnerCoverage = true
		}
	}
}
