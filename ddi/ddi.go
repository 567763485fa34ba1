// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ddi implements the driver adapter (spec C9): the second
// conversion entry point a graphics driver calls directly with raw
// instruction tokens and three already-resolved DDI signature vectors,
// bypassing the container reader and the signature blob parser
// entirely. DxbcConverter.h's ConvertInDriver fixes the parameter
// shape this package's SignatureElement and Convert mirror.
package ddi

import (
	"github.com/gogpu/dxbc2dxil/analysis"
	"github.com/gogpu/dxbc2dxil/dxerr"
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/lower"
	"github.com/gogpu/dxbc2dxil/shadermodel"
	"github.com/gogpu/dxbc2dxil/signature"
	"github.com/gogpu/dxbc2dxil/token"
)

// SignatureElement is one entry of a DDI-shaped signature vector, per
// spec §6 "DDI signature entry layout": system-value enum, register
// index, component mask, stream id, component-type enum, min-precision
// enum. Unlike a parsed signature blob, DDI entries arrive already
// allocated — no coalescing pass runs over them.
type SignatureElement struct {
	SystemValue   signature.SystemValue
	Register      uint32
	ComponentMask uint8
	Stream        uint8
	ComponentType signature.ComponentType
	MinPrecision  uint32
}

// ToModel converts a DDI signature vector directly into a resolved
// signature.Model, deriving each element's column span from its
// component mask the same way the blob parser does.
func ToModel(entries []SignatureElement) *signature.Model {
	elements := make([]signature.Element, 0, len(entries))
	for _, e := range entries {
		start, count := signature.ComponentRange(e.ComponentMask)
		elements = append(elements, signature.Element{
			Register:      e.Register,
			StartCol:      start,
			ColCount:      count,
			Stream:        e.Stream,
			ComponentType: e.ComponentType,
			SystemValue:   e.SystemValue,
			MinPrecision:  uint8(e.MinPrecision),
		})
	}
	return signature.New(elements)
}

// Input collects everything ConvertInDriver needs that a driver already
// has on hand: the decoded token stream (decoding raw tokens is outside
// this module's scope, per spec C2), the shader model the tokens
// declare, and the three DDI signature vectors.
type Input struct {
	Tokens           *token.Stream
	Model            shadermodel.Model
	InputSignature   []SignatureElement
	OutputSignature  []SignatureElement
	PatchConstantSig []SignatureElement
}

// Convert runs the analysis pass and the lowering walk over an
// already-decoded instruction stream and three resolved DDI signature
// vectors, returning the emitted module without ever touching a
// container. This is the C9 substitution spec §2 describes: C1 (the
// container reader) and the blob half of C3 (the signature parser) are
// both bypassed; only DDI-to-Model conversion and the shared C4/C5/C6/C7
// pipeline run.
func Convert(in Input) (*dxil.Module, error) {
	if in.Tokens == nil {
		return nil, dxerr.New(dxerr.InvalidDDISignature, "no decoded token stream supplied")
	}

	in.Tokens.Reset()
	ana := analysis.Run(in.Tokens)

	inputs := ToModel(in.InputSignature)
	outputs := ToModel(in.OutputSignature)
	patchConstants := ToModel(in.PatchConstantSig)
	outputs.EnsureCoverageElements(ana.SawCoverage, ana.SawInnerCoverage)

	m := &dxil.Module{
		IndexableTemps: make(map[uint32]*dxil.IndexableTempRecord),
		ShaderKind:     uint8(in.Model.Kind),
		Major:          in.Model.Major,
		Minor:          in.Model.Minor,
	}
	fn := &dxil.Function{Name: "main", IsEntry: true}
	entry := &dxil.BasicBlock{Name: "entry"}
	fn.Blocks = append(fn.Blocks, entry)
	m.Functions = append(m.Functions, fn)

	l := lower.New(m, fn, entry, ana, inputs, outputs, patchConstants, dxil.NewTypeRegistry())
	in.Tokens.Reset()
	if err := l.Run(in.Tokens); err != nil {
		return nil, err
	}

	if err := dxil.Validate(m); err != nil {
		return nil, dxerr.Newf(dxerr.IrreducibleControlFlow, "in-driver conversion produced an invalid module: %v", err)
	}

	return m, nil
}
