package container

import (
	"testing"
)

func buildTestContainer(t *testing.T, parts []Part) []byte {
	t.Helper()
	return writeContainer(1, parts)
}

func TestLoadRoundTrip(t *testing.T) {
	parts := []Part{
		{Tag: TagISGN, Payload: []byte{1, 2, 3}},
		{Tag: TagOSGN, Payload: []byte{4, 5}},
		{Tag: TagSHEX, Payload: []byte{0xAA, 0xBB, 0xCC, 0xDD}},
	}
	buf := buildTestContainer(t, parts)

	r, err := Load(buf)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.PartCount() != 3 {
		t.Fatalf("expected 3 parts, got %d", r.PartCount())
	}

	tag, payload := r.Part(0)
	if tag != TagISGN {
		t.Errorf("expected ISGN, got %s", tag)
	}
	if len(payload) != 4 || payload[0] != 1 {
		t.Errorf("unexpected payload %v", payload)
	}
}

func TestFindFirstPart(t *testing.T) {
	buf := buildTestContainer(t, []Part{
		{Tag: TagISGN, Payload: []byte{1}},
		{Tag: TagSHEX, Payload: []byte{2}},
	})
	r, err := Load(buf)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if idx := r.FindFirstPart(TagSHEX); idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
	if idx := r.FindFirstPart(TagRTS0); idx != NotFound {
		t.Errorf("expected NotFound, got %d", idx)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	buf := buildTestContainer(t, []Part{{Tag: TagSHEX, Payload: []byte{1}}})
	buf[0] = 'X'
	if _, err := Load(buf); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestLoadRejectsTruncatedBuffer(t *testing.T) {
	buf := buildTestContainer(t, []Part{{Tag: TagSHEX, Payload: []byte{1, 2, 3, 4}}})
	truncated := buf[:len(buf)-2]
	if _, err := Load(truncated); err == nil {
		t.Fatal("expected error for truncated buffer")
	}
}

func TestAssembleWritesRequiredParts(t *testing.T) {
	out := Assemble(AssembleInput{
		Version: 1,
		DXIL:    []byte{0xDE, 0xAD},
		PSV0:    []byte{0x01},
		Signatures: []Signature{
			{Tag: TagISGN, Payload: []byte{9, 9}},
		},
	})

	r, err := Load(out)
	if err != nil {
		t.Fatalf("Load of assembled container failed: %v", err)
	}
	if r.FindFirstPart(TagDXIL) == NotFound {
		t.Error("expected DXIL part")
	}
	if r.FindFirstPart(TagPSV0) == NotFound {
		t.Error("expected PSV0 part")
	}
	if r.FindFirstPart(TagISGN) == NotFound {
		t.Error("expected ISGN part copied through")
	}
	idx := r.FindFirstPart(TagSFI0)
	if idx == NotFound {
		t.Fatal("expected a zeroed SFI0 part when absent on input")
	}
	_, payload := r.Part(idx)
	if len(payload) != 8 {
		t.Errorf("expected 8-byte zero feature info, got %d bytes", len(payload))
	}
}

func TestAssembleIncludesRootSigOnlyWhenPresent(t *testing.T) {
	out := Assemble(AssembleInput{Version: 1, DXIL: []byte{1}, PSV0: []byte{2}})
	r, err := Load(out)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.FindFirstPart(TagRTS0) != NotFound {
		t.Error("expected no RTS0 part when RootSig is nil")
	}

	out2 := Assemble(AssembleInput{Version: 1, DXIL: []byte{1}, PSV0: []byte{2}, RootSig: []byte{7, 7}})
	r2, err := Load(out2)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r2.FindFirstPart(TagRTS0) == NotFound {
		t.Error("expected RTS0 part when RootSig is set")
	}
}

func TestReadString(t *testing.T) {
	buf := []byte("hello\x00world")
	s, err := ReadString(buf, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "hello" {
		t.Errorf("got %q, want %q", s, "hello")
	}
}

func TestReadStringUnterminated(t *testing.T) {
	buf := []byte("noterminator")
	if _, err := ReadString(buf, 0); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}
