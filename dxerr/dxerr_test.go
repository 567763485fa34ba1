package dxerr

import "testing"

func TestErrorMessageNoContext(t *testing.T) {
	err := New(MalformedContainer, "bad magic")
	want := "dxbc2dxil MalformedContainer: bad magic"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestErrorMessageWithPart(t *testing.T) {
	err := WithPart(MalformedBytecode, "SHEX", 128, "unrecognized opcode")
	want := `dxbc2dxil MalformedBytecode in part "SHEX" at offset 128: unrecognized opcode`
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestErrorMessageWithFunction(t *testing.T) {
	err := WithFunction(IrreducibleControlFlow, "main", "cycle not dominated by its header")
	want := `dxbc2dxil IrreducibleControlFlow in function "main": cycle not dominated by its header`
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	var err error = New(DataTooLarge, "icb exceeds 4096 bytes")
	if !Is(err, DataTooLarge) {
		t.Error("expected Is to match DataTooLarge")
	}
	if Is(err, OutOfMemory) {
		t.Error("expected Is to not match OutOfMemory")
	}
}

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{MalformedContainer, "MalformedContainer"},
		{MalformedBytecode, "MalformedBytecode"},
		{IrreducibleControlFlow, "IrreducibleControlFlow"},
		{VerificationFailed, "VerificationFailed"},
		{OutOfMemory, "OutOfMemory"},
		{InvalidDDISignature, "InvalidDDISignature"},
		{DataTooLarge, "DataTooLarge"},
	}
	for _, c := range cases {
		if got := c.k.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.k, got, c.want)
		}
	}
}
