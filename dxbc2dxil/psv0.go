// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxbc2dxil

import (
	"encoding/binary"

	"github.com/gogpu/dxbc2dxil/analysis"
	"github.com/gogpu/dxbc2dxil/dxil"
)

// buildPSV0 builds the container's PSV0 part: per-shader-stage runtime
// info a driver reads without parsing the bitcode itself (resource
// count, shader kind and version). This is a deliberately simplified
// record; the real PSV0 layout (PSVRuntimeInfo0/1/2 in DxilContainer's
// public headers) bit-packs a much larger union of per-stage fields
// including compute thread-group dimensions, and that exact layout is
// not present in this module's retrieved reference material, nor does
// dxil.Module currently carry a dcl_thread_group record to source
// dimensions from. The fields below are the ones this module can
// ground and populate honestly; anything it cannot is left out rather
// than guessed at.
func buildPSV0(m *dxil.Module, ana *analysis.Result) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(1)) // record version
	buf[4] = m.ShaderKind
	buf[5] = m.Major
	buf[6] = m.Minor
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(ana.Resources)))
	return buf
}
