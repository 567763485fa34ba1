// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package signature models a DXBC input/output/patch-constant signature:
// parses a signature blob or DDI vector into element records, coalesces
// overlapping declared index ranges, and publishes the two lookup maps
// the lowering walk needs — one by (register, component, stream) for
// elements with an allocated register, one by system-value kind for the
// handful that route without one.
package signature

// ComponentType is the scalar type a signature element carries.
type ComponentType uint8

const (
	ComponentUnknown ComponentType = iota
	ComponentUInt32
	ComponentSInt32
	ComponentFloat32
)

// Interpolation is the interpolation mode a pixel-shader input element
// carries, derived by intersecting the element's component range with
// the used-element records the analysis pass captured.
type Interpolation uint8

const (
	InterpUndefined Interpolation = iota
	InterpConstant
	InterpLinear
	InterpLinearCentroid
	InterpLinearNoperspective
	InterpLinearNoperspectiveCentroid
	InterpLinearSample
	InterpLinearNoperspectiveSample
)

// SystemValue identifies the semantic a signature element is bound to
// when it routes by kind instead of by register — depth, stencil-ref,
// coverage on output, or one of the exclusion kinds that drop the
// element from the cloned output signature entirely.
type SystemValue uint8

const (
	SVNone SystemValue = iota
	SVPosition
	SVClipDistance
	SVCullDistance
	SVRenderTargetArrayIndex
	SVViewportArrayIndex
	SVVertexID
	SVPrimitiveID
	SVInstanceID
	SVIsFrontFace
	SVSampleIndex
	SVTarget
	SVDepth
	SVDepthGreaterEqual
	SVDepthLessEqual
	SVCoverage
	SVInnerCoverage
	SVStencilRef

	// SVNotInSig, SVNA, and SVInvalid are exclusion kinds: an element
	// resolving to one of these is dropped from the cloned output
	// signature (spec "Edge-case policy").
	SVNotInSig
	SVNA
	SVInvalid
)

// unallocatedRegister is the sentinel Register value for elements that
// must be un-allocated before cloning: NotPacked and Shadow elements,
// per the spec's edge-case policy.
const unallocatedRegister = ^uint32(0)

// Element is one row of a signature: a semantic name/index bound to a
// register row, a span of columns within that row, and the type and
// interpolation mode of the data there.
type Element struct {
	SemanticName  string
	SemanticIndex uint32
	Register      uint32 // row; unallocatedRegister if un-allocated
	StartCol      uint8
	ColCount      uint8
	Stream        uint8
	ComponentType ComponentType
	Interpolation Interpolation
	SystemValue   SystemValue
	MinPrecision  uint8
	NotPacked     bool
	Shadow        bool
}

// excluded reports whether e resolves to one of the kinds the cloned
// output signature must drop entirely.
func (e Element) excluded() bool {
	switch e.SystemValue {
	case SVNotInSig, SVNA, SVInvalid:
		return true
	default:
		return false
	}
}

// key identifies a signature element by (register, component, stream)
// for the allocated-element lookup map.
type key struct {
	reg    uint32
	comp   uint8
	stream uint8
}

// Model is a fully resolved signature: the element list a container
// part or DDI vector carried, plus the two lookup maps lowering
// consults while walking DXBC operands.
type Model struct {
	Elements []Element

	byRegCompStream map[key]int
	bySystemValue   map[SystemValue]int
}

// New builds a Model from parsed elements: it un-allocates NotPacked
// and Shadow elements, drops excluded elements from the output list,
// and populates both lookup maps.
func New(elements []Element) *Model {
	m := &Model{
		byRegCompStream: make(map[key]int),
		bySystemValue:   make(map[SystemValue]int),
	}

	for _, e := range elements {
		if e.excluded() {
			continue
		}
		if e.NotPacked || e.Shadow {
			e.Register = unallocatedRegister
			e.StartCol = 0
			e.ColCount = 0
		}

		idx := len(m.Elements)
		m.Elements = append(m.Elements, e)

		if e.Register != unallocatedRegister {
			for c := e.StartCol; c < e.StartCol+e.ColCount; c++ {
				m.byRegCompStream[key{reg: e.Register, comp: c, stream: e.Stream}] = idx
			}
		}
		if e.SystemValue != SVNone {
			m.bySystemValue[e.SystemValue] = idx
		}
	}

	return m
}

// Lookup finds the element allocated to (register, component, stream),
// or (Element{}, false) if no element occupies that slot.
func (m *Model) Lookup(register uint32, component, stream uint8) (Element, bool) {
	idx, ok := m.byRegCompStream[key{reg: register, comp: component, stream: stream}]
	if !ok {
		return Element{}, false
	}
	return m.Elements[idx], true
}

// LookupSystemValue finds the element bound to a system value that
// routes without a register (depth, stencil-ref, coverage, and so on).
func (m *Model) LookupSystemValue(sv SystemValue) (Element, bool) {
	idx, ok := m.bySystemValue[sv]
	if !ok {
		return Element{}, false
	}
	return m.Elements[idx], true
}

// EnsureCoverageElements adds synthetic SV_Coverage / SV_InnerCoverage
// elements when the analysis pass observed an implicit declaration of
// either but no matching element exists in the parsed signature.
func (m *Model) EnsureCoverageElements(sawCoverage, sawInnerCoverage bool) {
	if sawCoverage {
		if _, ok := m.LookupSystemValue(SVCoverage); !ok {
			m.addSynthetic(Element{SemanticName: "SV_Coverage", SystemValue: SVCoverage, Register: unallocatedRegister, ComponentType: ComponentUInt32})
		}
	}
	if sawInnerCoverage {
		if _, ok := m.LookupSystemValue(SVInnerCoverage); !ok {
			m.addSynthetic(Element{SemanticName: "SV_InnerCoverage", SystemValue: SVInnerCoverage, Register: unallocatedRegister, ComponentType: ComponentUInt32})
		}
	}
}

func (m *Model) addSynthetic(e Element) {
	idx := len(m.Elements)
	m.Elements = append(m.Elements, e)
	m.bySystemValue[e.SystemValue] = idx
}
