// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shadermodel describes the (kind, major, minor) shader model
// tuple a DXBC program declares, and the version-gated behavior that
// hangs off it: DXIL always promotes to major=6, minor=0 on output, but
// the source model's major/minor still decides which resource-binding
// mode the container's RDEF/resource-binding metadata used.
package shadermodel

import "fmt"

// Kind identifies the pipeline stage a shader targets.
type Kind uint8

const (
	Vertex Kind = iota
	Hull
	Domain
	Geometry
	Pixel
	Compute
)

// String returns the DXBC program-type name.
func (k Kind) String() string {
	switch k {
	case Vertex:
		return "Vertex"
	case Hull:
		return "Hull"
	case Domain:
		return "Domain"
	case Geometry:
		return "Geometry"
	case Pixel:
		return "Pixel"
	case Compute:
		return "Compute"
	default:
		return "Unknown"
	}
}

// Model is the (kind, major, minor) tuple a DXBC container declares in
// its SHDR/SHEX program-type token.
type Model struct {
	Kind  Kind
	Major uint8
	Minor uint8
}

// IsSM51Plus reports whether this model is shader model 5.1 or newer,
// which selects the "explicit range ID, lower bound, range size, space"
// resource-binding mode over the older single-index-per-range mode.
func (m Model) IsSM51Plus() bool {
	return m.Major > 5 || (m.Major == 5 && m.Minor >= 1)
}

// DXILTarget returns the shader model every conversion promotes to on
// output, regardless of the source model: DXIL major=6, minor=0.
func (m Model) DXILTarget() Model {
	return Model{Kind: m.Kind, Major: 6, Minor: 0}
}

// String formats the model the way DXBC disassembly conventionally
// does, e.g. "ps_5_1".
func (m Model) String() string {
	return fmt.Sprintf("%s_%d_%d", profileSuffix(m.Kind), m.Major, m.Minor)
}

func profileSuffix(k Kind) string {
	switch k {
	case Vertex:
		return "vs"
	case Hull:
		return "hs"
	case Domain:
		return "ds"
	case Geometry:
		return "gs"
	case Pixel:
		return "ps"
	case Compute:
		return "cs"
	default:
		return "xs"
	}
}
