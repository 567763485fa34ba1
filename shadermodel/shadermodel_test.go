package shadermodel

import "testing"

func TestIsSM51Plus(t *testing.T) {
	cases := []struct {
		m    Model
		want bool
	}{
		{Model{Pixel, 5, 0}, false},
		{Model{Pixel, 5, 1}, true},
		{Model{Pixel, 6, 0}, true},
		{Model{Vertex, 4, 1}, false},
	}
	for _, c := range cases {
		if got := c.m.IsSM51Plus(); got != c.want {
			t.Errorf("%v.IsSM51Plus() = %v, want %v", c.m, got, c.want)
		}
	}
}

func TestDXILTargetPromotesToSix(t *testing.T) {
	m := Model{Compute, 5, 1}
	target := m.DXILTarget()
	want := Model{Compute, 6, 0}
	if target != want {
		t.Errorf("got %v, want %v", target, want)
	}
}

func TestStringFormat(t *testing.T) {
	m := Model{Pixel, 5, 1}
	if got := m.String(); got != "ps_5_1" {
		t.Errorf("got %q, want %q", got, "ps_5_1")
	}
}
