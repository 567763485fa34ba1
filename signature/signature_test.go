package signature

import "testing"

func TestNewExcludesNotInSig(t *testing.T) {
	m := New([]Element{
		{SemanticName: "SV_Position", Register: 0, StartCol: 0, ColCount: 4, SystemValue: SVPosition},
		{SemanticName: "unused", SystemValue: SVNotInSig},
	})
	if len(m.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(m.Elements))
	}
}

func TestLookupByRegComponent(t *testing.T) {
	m := New([]Element{
		{SemanticName: "TEXCOORD", Register: 1, StartCol: 0, ColCount: 2, Stream: 0, ComponentType: ComponentFloat32},
	})
	e, ok := m.Lookup(1, 0, 0)
	if !ok {
		t.Fatal("expected lookup to find element")
	}
	if e.SemanticName != "TEXCOORD" {
		t.Errorf("got %q", e.SemanticName)
	}
	if _, ok := m.Lookup(1, 2, 0); ok {
		t.Error("expected no element at unallocated column")
	}
}

func TestLookupBySystemValue(t *testing.T) {
	m := New([]Element{
		{SemanticName: "SV_Depth", SystemValue: SVDepth, Register: unallocatedRegister},
	})
	if _, ok := m.LookupSystemValue(SVDepth); !ok {
		t.Fatal("expected system-value lookup to find SV_Depth")
	}
}

func TestNotPackedAndShadowAreUnallocated(t *testing.T) {
	m := New([]Element{
		{SemanticName: "SV_StencilRef", SystemValue: SVStencilRef, Register: 3, StartCol: 0, ColCount: 1, NotPacked: true},
	})
	e := m.Elements[0]
	if e.Register != unallocatedRegister {
		t.Errorf("expected NotPacked element to be un-allocated, got register %d", e.Register)
	}
	if _, ok := m.Lookup(3, 0, 0); ok {
		t.Error("un-allocated element must not be reachable by register lookup")
	}
}

func TestEnsureCoverageElementsAddsSynthetic(t *testing.T) {
	m := New(nil)
	m.EnsureCoverageElements(true, false)
	if _, ok := m.LookupSystemValue(SVCoverage); !ok {
		t.Fatal("expected synthetic SV_Coverage element")
	}
	if _, ok := m.LookupSystemValue(SVInnerCoverage); ok {
		t.Error("did not expect SV_InnerCoverage when sawInnerCoverage is false")
	}
}

func TestEnsureCoverageElementsSkipsExisting(t *testing.T) {
	m := New([]Element{{SemanticName: "SV_Coverage", SystemValue: SVCoverage, Register: unallocatedRegister}})
	m.EnsureCoverageElements(true, false)
	count := 0
	for _, e := range m.Elements {
		if e.SystemValue == SVCoverage {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 SV_Coverage element, got %d", count)
	}
}

func TestCoalesceRangesMergesContiguousRun(t *testing.T) {
	ranges := []Range{
		{SemanticName: "TEXCOORD", Register: 2, StartCol: 0, ColCount: 4, SemanticIndex: 0},
		{SemanticName: "TEXCOORD", Register: 3, StartCol: 0, ColCount: 4, SemanticIndex: 1},
	}
	elems := CoalesceRanges(ranges)
	if len(elems) != 1 {
		t.Fatalf("expected 1 coalesced element, got %d", len(elems))
	}
	if elems[0].Register != 2 {
		t.Errorf("expected base register 2, got %d", elems[0].Register)
	}
}

func TestCoalesceRangesDoesNotMergeDifferentSemantics(t *testing.T) {
	ranges := []Range{
		{SemanticName: "TEXCOORD", Register: 0, StartCol: 0, ColCount: 4},
		{SemanticName: "COLOR", Register: 1, StartCol: 0, ColCount: 4},
	}
	elems := CoalesceRanges(ranges)
	if len(elems) != 2 {
		t.Fatalf("expected 2 separate elements, got %d", len(elems))
	}
}

func TestCoalesceRangesTightensColumnSpan(t *testing.T) {
	ranges := []Range{
		{SemanticName: "TEXCOORD", Register: 0, StartCol: 1, ColCount: 2},
		{SemanticName: "TEXCOORD", Register: 1, StartCol: 0, ColCount: 1},
	}
	elems := CoalesceRanges(ranges)
	if len(elems) != 1 {
		t.Fatalf("expected 1 coalesced element, got %d", len(elems))
	}
	if elems[0].StartCol != 0 || elems[0].ColCount != 3 {
		t.Errorf("expected StartCol=0 ColCount=3, got StartCol=%d ColCount=%d", elems[0].StartCol, elems[0].ColCount)
	}
}
