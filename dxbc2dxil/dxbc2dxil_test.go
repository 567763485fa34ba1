// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxbc2dxil

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/dxbc2dxil/container"
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/shadermodel"
	"github.com/gogpu/dxbc2dxil/token"
)

// buildTestDXBC hand-assembles a minimal container with a single SHEX
// part, following the same (magic, checksum, version, size, partCount)
// header and (tag, length, payload) part layout container.Load decodes;
// package container exposes no general-purpose writer for arbitrary
// part sets (Assemble only ever writes the fixed DXIL/PSV0/signature
// part set an output container carries), so this test builds the raw
// bytes directly rather than reaching for one.
func buildTestDXBC(t *testing.T, payload []byte) []byte {
	t.Helper()
	const headerSize = 32
	partBody := make([]byte, 8+len(payload))
	copy(partBody[0:4], container.TagSHEX)
	binary.LittleEndian.PutUint32(partBody[4:8], uint32(len(payload)))
	copy(partBody[8:], payload)

	total := headerSize + 4 + len(partBody)
	buf := make([]byte, total)
	copy(buf[0:4], container.Magic)
	binary.LittleEndian.PutUint32(buf[20:24], 1)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(total))
	binary.LittleEndian.PutUint32(buf[28:32], 1)
	binary.LittleEndian.PutUint32(buf[32:36], headerSize+4)
	copy(buf[36:], partBody)
	return buf
}

func nullPixelShaderDecoder(payload []byte) (*token.Stream, shadermodel.Model, error) {
	return token.NewStream([]token.Instruction{{Opcode: token.OpRet}}), shadermodel.Model{Kind: shadermodel.Pixel, Major: 5, Minor: 0}, nil
}

func stubBitcodeEmitter(m *dxil.Module) ([]byte, error) {
	return []byte{0xDE, 0xC0, 0xDE, 0x00}, nil
}

func TestConvertRequiresDecoder(t *testing.T) {
	opts := DefaultOptions()
	opts.EmitBitcode = stubBitcodeEmitter
	if _, err := Convert(buildTestDXBC(t, nil), opts); err == nil {
		t.Fatal("expected an error when no Decoder is configured")
	}
}

func TestConvertRequiresBitcodeEmitter(t *testing.T) {
	opts := DefaultOptions()
	opts.Decode = nullPixelShaderDecoder
	if _, err := Convert(buildTestDXBC(t, nil), opts); err == nil {
		t.Fatal("expected an error when no EmitBitcode is configured")
	}
}

func TestConvertNullPixelShaderProducesContainer(t *testing.T) {
	opts := DefaultOptions()
	opts.Decode = nullPixelShaderDecoder
	opts.EmitBitcode = stubBitcodeEmitter

	result, err := Convert(buildTestDXBC(t, []byte{0, 0, 0, 0}), opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	r, err := container.Load(result.Container)
	if err != nil {
		t.Fatalf("output is not a loadable container: %v", err)
	}
	if r.FindFirstPart(container.TagDXIL) == container.NotFound {
		t.Error("expected a DXIL part in the output container")
	}
	if r.FindFirstPart(container.TagPSV0) == container.NotFound {
		t.Error("expected a PSV0 part in the output container")
	}
	if len(result.Module.Functions) != 1 || result.Module.Functions[0].Name != "main" {
		t.Fatalf("expected a single main function, got %+v", result.Module.Functions)
	}
}

func TestParseOptionsStringRecognizesFlags(t *testing.T) {
	opts := ParseOptionsString("-disableHashCheck -no-dxil-cleanup -unknown")
	if !opts.DisableHashCheck {
		t.Error("expected DisableHashCheck to be set")
	}
	if !opts.NoDXILCleanup {
		t.Error("expected NoDXILCleanup to be set")
	}
}
