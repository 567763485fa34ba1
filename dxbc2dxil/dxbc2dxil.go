// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package dxbc2dxil is the top-level facade over the conversion
// pipeline: Convert (the standalone, container-in/container-out entry
// point) and ConvertInDriver (the in-driver, tokens-in/module-out entry
// point DxbcConverter.h's IDxbcConverter interface fixes the shape of),
// plus the Options every stage reads from. It owns no state beyond one
// call: each invocation builds its own module, analysis result, and
// lookup tables and releases them on return, matching spec §5's
// "translator owns one module, consumed by one call" lifecycle.
package dxbc2dxil

import (
	"fmt"
	"strings"

	"github.com/gogpu/dxbc2dxil/analysis"
	"github.com/gogpu/dxbc2dxil/container"
	"github.com/gogpu/dxbc2dxil/ddi"
	"github.com/gogpu/dxbc2dxil/dxerr"
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/lower"
	"github.com/gogpu/dxbc2dxil/shadermodel"
	"github.com/gogpu/dxbc2dxil/signature"
	"github.com/gogpu/dxbc2dxil/token"
)

// Decoder turns a raw SHDR/SHEX token payload into a decoded
// instruction stream and the shader model it declares. This is spec
// component C2, "external, assumed": production wiring supplies a real
// bytecode decoder here, and this module treats it as an injected
// collaborator rather than reimplementing bit-level token decoding.
type Decoder func(payload []byte) (*token.Stream, shadermodel.Model, error)

// Cleanup is the optional, opaque post-lowering IR optimization pass
// spec §1 treats as an external collaborator: "the cleanup pass is
// treated as an opaque post-processor over the emitted module."
type Cleanup func(*dxil.Module) error

// BitcodeEmitter serializes a finished module to the bitcode format a
// DXIL container's `DXIL` part carries. Spec §1 lists the bitcode
// serializer itself as out of core scope; this module calls it through
// this interface rather than embedding an LLVM bitstream writer.
type BitcodeEmitter func(*dxil.Module) ([]byte, error)

// Options configures one conversion, the same shape as
// hlsl.Options/hlsl.DefaultOptions and naga.CompileOptions/
// naga.DefaultOptions: a struct with a defaulting constructor, no
// files or environment variables read (spec §6 "Persisted state: None").
type Options struct {
	// DisableHashCheck accepts the container even if its integrity hash
	// would not validate downstream (spec §6 `-disableHashCheck`).
	DisableHashCheck bool

	// NoDXILCleanup skips the external cleanup pass even when one is
	// configured (spec §6 `-no-dxil-cleanup`).
	NoDXILCleanup bool

	// Verify runs dxil.Validate after lowering and before the (optional)
	// cleanup pass, surfacing malformed CFGs as VerificationFailed
	// instead of handing them to the cleanup pass or the caller.
	Verify bool

	Decode      Decoder
	Cleanup     Cleanup
	EmitBitcode BitcodeEmitter
}

// DefaultOptions returns sensible defaults: verification on, cleanup
// enabled (subject to whatever Cleanup hook the caller configures), and
// no Decoder/BitcodeEmitter, since those are genuinely external and
// have no in-module default implementation.
func DefaultOptions() *Options {
	return &Options{Verify: true}
}

// ParseOptionsString recognizes the CLI-style option tokens spec §6
// lists (`-disableHashCheck`, `-no-dxil-cleanup`) and applies them on
// top of DefaultOptions(). Unrecognized tokens are ignored, mirroring
// the "ExtraOptions" free-form string the COM interface accepts.
func ParseOptionsString(s string) *Options {
	opts := DefaultOptions()
	for _, tok := range strings.Fields(s) {
		switch tok {
		case "-disableHashCheck":
			opts.DisableHashCheck = true
		case "-no-dxil-cleanup":
			opts.NoDXILCleanup = true
		}
	}
	return opts
}

// Result is what a successful conversion produces: the emitted module
// (useful to callers that want to inspect it, e.g. /disasm-dxbc-style
// tooling) alongside the bytes each entry point's contract promises.
type Result struct {
	Module      *dxil.Module
	Container   []byte // Convert only
	Bitcode     []byte
	Diagnostics string
}

// Convert runs the standalone entry point: container bytes in,
// container bytes out. Mirrors IDxbcConverter::Convert's
// (DxbcBlob, DxbcSize, ExtraOptions, out DxilBlob, out DxilSize, out
// Diag) shape with Go idioms — a slice carries its own length, an error
// replaces the out-HRESULT and out-diagnostics-string pair.
func Convert(dxbc []byte, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Decode == nil {
		return nil, fmt.Errorf("dxbc2dxil: Options.Decode is required (the instruction decoder is an external collaborator, spec C2)")
	}
	if opts.EmitBitcode == nil {
		return nil, fmt.Errorf("dxbc2dxil: Options.EmitBitcode is required (the bitcode serializer is an external collaborator, spec §1)")
	}

	r, err := container.Load(dxbc)
	if err != nil {
		return nil, err
	}

	codeIdx := r.FindFirstPart(container.TagSHEX)
	if codeIdx == container.NotFound {
		codeIdx = r.FindFirstPart(container.TagSHDR)
	}
	if codeIdx == container.NotFound {
		return nil, dxerr.New(dxerr.MalformedContainer, "container has neither an SHEX nor an SHDR part")
	}
	_, codePayload := r.Part(codeIdx)

	stream, model, err := opts.Decode(codePayload)
	if err != nil {
		return nil, err
	}

	inputs, err := loadSignature(r, []string{container.TagISG1, container.TagISGN})
	if err != nil {
		return nil, err
	}
	outputs, err := loadSignature(r, []string{container.TagOSG5, container.TagOSG1, container.TagOSGN})
	if err != nil {
		return nil, err
	}
	patchConstants, err := loadSignature(r, []string{container.TagPSG1, container.TagPCSG})
	if err != nil {
		return nil, err
	}

	m, ana, err := lowerStream(stream, model, inputs, outputs, patchConstants, opts)
	if err != nil {
		return nil, err
	}

	bitcode, err := opts.EmitBitcode(m)
	if err != nil {
		return nil, err
	}

	out := container.Assemble(container.AssembleInput{
		Version:     r.Version(),
		DXIL:        bitcode,
		PSV0:        buildPSV0(m, ana),
		Signatures:  copySignatureParts(r),
		RootSig:     copyOptionalPart(r, container.TagRTS0),
		FeatureInfo: copyOptionalPart(r, container.TagSFI0),
	})

	return &Result{Module: m, Container: out, Bitcode: bitcode}, nil
}

// ConvertInDriver runs the in-driver entry point: raw tokens and three
// DDI signature vectors in, a module and its bitcode out, no container
// involved on either side. Mirrors IDxbcConverter::ConvertInDriver's
// (Bytecode, InputSig, NumInputSigElements, OutputSig,
// NumOutputSigElements, PatchConstantSig, NumPatchConstantSigElements,
// ExtraOptions, out DxilModule, out Diag) shape.
func ConvertInDriver(in ddi.Input, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.EmitBitcode == nil {
		return nil, fmt.Errorf("dxbc2dxil: Options.EmitBitcode is required (the bitcode serializer is an external collaborator, spec §1)")
	}

	m, err := ddi.Convert(in)
	if err != nil {
		return nil, err
	}

	bitcode, err := opts.EmitBitcode(m)
	if err != nil {
		return nil, err
	}
	return &Result{Module: m, Bitcode: bitcode}, nil
}

// lowerStream runs C4 (analysis) then C6/C5/C7 (lowering) over an
// already-decoded stream and already-resolved signature models, the
// step Convert and ddi.Convert share.
func lowerStream(stream *token.Stream, model shadermodel.Model, inputs, outputs, patchConstants *signature.Model, opts *Options) (*dxil.Module, *analysis.Result, error) {
	stream.Reset()
	ana := analysis.Run(stream)
	outputs.EnsureCoverageElements(ana.SawCoverage, ana.SawInnerCoverage)

	m := &dxil.Module{
		IndexableTemps: make(map[uint32]*dxil.IndexableTempRecord),
		ShaderKind:     uint8(model.Kind),
		// Major/Minor record the source shader model, not the DXIL
		// target, so handle-cache gating (spec P2, SM <= 5.0) sees the
		// version the bytecode actually declares.
		Major: model.Major,
		Minor: model.Minor,
	}
	fn := &dxil.Function{Name: "main", IsEntry: true}
	entry := &dxil.BasicBlock{Name: "entry"}
	fn.Blocks = append(fn.Blocks, entry)
	m.Functions = append(m.Functions, fn)

	l := lower.New(m, fn, entry, ana, inputs, outputs, patchConstants, dxil.NewTypeRegistry())
	stream.Reset()
	if err := l.Run(stream); err != nil {
		return nil, nil, err
	}

	if opts.Verify {
		if err := dxil.Validate(m); err != nil {
			return nil, nil, dxerr.Newf(dxerr.VerificationFailed, "%v", err)
		}
	}

	if !opts.NoDXILCleanup && opts.Cleanup != nil {
		if err := opts.Cleanup(m); err != nil {
			return nil, nil, err
		}
	}

	return m, ana, nil
}

// loadSignature finds the first present tag in preference order (the
// newest ABI generation first) and parses it; no part present is not an
// error, since PCSG/PSG1 are absent for non-tessellation shaders.
func loadSignature(r *container.Reader, tagsByPreference []string) (*signature.Model, error) {
	for _, tag := range tagsByPreference {
		idx := r.FindFirstPart(tag)
		if idx == container.NotFound {
			continue
		}
		_, payload := r.Part(idx)
		ranges, err := signature.ParseBlob(tag, payload)
		if err != nil {
			return nil, err
		}
		return signature.New(signature.CoalesceRanges(ranges)), nil
	}
	return signature.New(nil), nil
}

// copySignatureParts copies every signature-family part present on
// input through unchanged, per spec P1/§4.7 item 3 ("copies of the
// original input/output/patch-constant signature parts in every ABI
// generation they appear in").
func copySignatureParts(r *container.Reader) []container.Signature {
	tags := []string{
		container.TagISGN, container.TagISG1,
		container.TagOSGN, container.TagOSG5, container.TagOSG1,
		container.TagPCSG, container.TagPSG1,
	}
	var out []container.Signature
	for _, tag := range tags {
		idx := r.FindFirstPart(tag)
		if idx == container.NotFound {
			continue
		}
		_, payload := r.Part(idx)
		out = append(out, container.Signature{Tag: tag, Payload: payload})
	}
	return out
}

func copyOptionalPart(r *container.Reader, tag string) []byte {
	idx := r.FindFirstPart(tag)
	if idx == container.NotFound {
		return nil
	}
	_, payload := r.Part(idx)
	return payload
}
