// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ddi

import (
	"testing"

	"github.com/gogpu/dxbc2dxil/shadermodel"
	"github.com/gogpu/dxbc2dxil/signature"
	"github.com/gogpu/dxbc2dxil/token"
)

func TestToModelDerivesColumnSpanFromMask(t *testing.T) {
	m := ToModel([]SignatureElement{
		{Register: 0, ComponentMask: 0x3, ComponentType: signature.ComponentFloat32},
	})
	el, ok := m.Lookup(0, 0, 0)
	if !ok {
		t.Fatalf("expected an element allocated at (0,0,0)")
	}
	if el.ColCount != 2 {
		t.Fatalf("expected a 2-column span for mask 0x3, got %d", el.ColCount)
	}
}

func TestConvertRejectsNilTokenStream(t *testing.T) {
	if _, err := Convert(Input{}); err == nil {
		t.Fatalf("expected an error when no token stream is supplied")
	}
}

func TestConvertLowersNullPixelShader(t *testing.T) {
	stream := token.NewStream([]token.Instruction{{Opcode: token.OpRet}})
	m, err := Convert(Input{
		Tokens: stream,
		Model:  shadermodel.Model{Kind: shadermodel.Pixel, Major: 5, Minor: 0},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(m.Functions) != 1 || m.Functions[0].Name != "main" {
		t.Fatalf("expected a single main function, got %+v", m.Functions)
	}
}
