package token

import "testing"

func TestStreamNextAdvances(t *testing.T) {
	s := NewStream([]Instruction{{Opcode: OpMov}, {Opcode: OpAdd}})

	first, ok := s.Next()
	if !ok || first.Opcode != OpMov {
		t.Fatalf("expected OpMov, got %v ok=%v", first.Opcode, ok)
	}
	second, ok := s.Next()
	if !ok || second.Opcode != OpAdd {
		t.Fatalf("expected OpAdd, got %v ok=%v", second.Opcode, ok)
	}
	if _, ok := s.Next(); ok {
		t.Fatal("expected end of stream")
	}
}

func TestStreamPeekDoesNotAdvance(t *testing.T) {
	s := NewStream([]Instruction{{Opcode: OpMov}})
	if inst, ok := s.Peek(); !ok || inst.Opcode != OpMov {
		t.Fatal("expected to peek OpMov")
	}
	if s.Pos() != 0 {
		t.Errorf("expected pos 0 after Peek, got %d", s.Pos())
	}
}

func TestStreamReset(t *testing.T) {
	s := NewStream([]Instruction{{Opcode: OpMov}, {Opcode: OpAdd}})
	s.Next()
	s.Next()
	s.Reset()
	if s.Pos() != 0 {
		t.Errorf("expected pos 0 after Reset, got %d", s.Pos())
	}
}

func TestIsDeclaration(t *testing.T) {
	if !OpDclTemps.IsDeclaration() {
		t.Error("expected OpDclTemps to be a declaration")
	}
	if OpMov.IsDeclaration() {
		t.Error("did not expect OpMov to be a declaration")
	}
}

func TestIsControlFlow(t *testing.T) {
	if !OpEndLoop.IsControlFlow() {
		t.Error("expected OpEndLoop to be control flow")
	}
	if OpAdd.IsControlFlow() {
		t.Error("did not expect OpAdd to be control flow")
	}
}
