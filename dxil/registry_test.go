package dxil

import "testing"

func TestTypeRegistryScalarDeduplication(t *testing.T) {
	r := NewTypeRegistry()

	a := r.GetOrCreate(I32)
	b := r.GetOrCreate(I32)

	if a != b {
		t.Errorf("expected same index for identical scalar types, got %d and %d", a, b)
	}
	if r.Count() != 1 {
		t.Errorf("expected 1 type, got %d", r.Count())
	}
}

func TestTypeRegistryDifferentScalars(t *testing.T) {
	r := NewTypeRegistry()

	idx := []int{
		r.GetOrCreate(I32),
		r.GetOrCreate(F32),
		r.GetOrCreate(I1),
		r.GetOrCreate(F64),
	}
	for i := 0; i < len(idx); i++ {
		for j := i + 1; j < len(idx); j++ {
			if idx[i] == idx[j] {
				t.Errorf("expected distinct indices for distinct types, got %d == %d", idx[i], idx[j])
			}
		}
	}
	if r.Count() != 4 {
		t.Errorf("expected 4 types, got %d", r.Count())
	}
}

func TestTypeRegistryComposite(t *testing.T) {
	r := NewTypeRegistry()

	tgsmA := ArrayType{Elem: I32, Count: 256}
	tgsmB := ArrayType{Elem: I32, Count: 256}
	tgsmC := ArrayType{Elem: I32, Count: 512}

	a := r.GetOrCreate(tgsmA)
	b := r.GetOrCreate(tgsmB)
	c := r.GetOrCreate(tgsmC)

	if a != b {
		t.Errorf("structurally identical array types should dedup, got %d and %d", a, b)
	}
	if a == c {
		t.Errorf("arrays with different counts must not dedup")
	}
}

func TestTypeRegistryStructOfTwo(t *testing.T) {
	r := NewTypeRegistry()

	// Two identical struct types of two I32 fields should share one
	// declaration.
	s1 := r.GetOrCreate(StructType{Fields: []Type{I32, I32}})
	s2 := r.GetOrCreate(StructType{Fields: []Type{I32, I32}})
	if s1 != s2 {
		t.Errorf("expected dedup of identical struct types")
	}
}
