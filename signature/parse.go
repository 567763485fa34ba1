// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package signature

import (
	"encoding/binary"

	"github.com/gogpu/dxbc2dxil/dxerr"
)

// recordStride is the per-element record size for each signature chunk
// generation this package recognizes: the original ISGN/OSGN layout
// carries no stream or min-precision field, OSG5 adds a stream id, and
// the SM5.1 ISG1/OSG1/PSG1 generations add a min-precision field on
// top of that.
const (
	strideLegacy    = 24 // ISGN, OSGN, PCSG
	strideWithStream = 28 // OSG5
	strideSM51      = 32 // ISG1, OSG1, PSG1
)

// ParseBlob decodes one signature chunk payload (the bytes of an ISGN/
// ISG1/OSGN/OSG5/OSG1/PCSG/PSG1 container part) into declared Ranges,
// ready for CoalesceRanges. tag selects the record stride; an
// unrecognized tag is treated as the legacy 24-byte stride.
func ParseBlob(tag string, payload []byte) ([]Range, error) {
	if len(payload) < 8 {
		return nil, dxerr.WithPart(dxerr.MalformedContainer, tag, 0, "signature chunk shorter than its header")
	}
	count := binary.LittleEndian.Uint32(payload[0:4])
	stride := recordStride(tag)

	headerEnd := 8 + int(count)*stride
	if headerEnd > len(payload) {
		return nil, dxerr.WithPart(dxerr.MalformedContainer, tag, 8, "signature element table runs past end of chunk")
	}

	ranges := make([]Range, 0, count)
	for i := uint32(0); i < count; i++ {
		rec := payload[8+int(i)*stride : 8+int(i)*stride+stride]
		r, err := parseRecord(tag, payload, rec, stride)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func recordStride(tag string) int {
	switch tag {
	case "OSG5":
		return strideWithStream
	case "ISG1", "OSG1", "PSG1":
		return strideSM51
	default:
		return strideLegacy
	}
}

// parseRecord decodes one fixed-size element record. Field order follows
// DxbcConverterImpl.h's ElementRecord (name, semantic index, system
// value, component type, register, mask, used/read mask), with the
// stream and min-precision fields appended for the chunk generations
// that carry them.
func parseRecord(tag string, chunk, rec []byte, stride int) (Range, error) {
	nameOffset := binary.LittleEndian.Uint32(rec[0:4])
	name, err := readName(tag, chunk, nameOffset)
	if err != nil {
		return Range{}, err
	}

	semanticIndex := binary.LittleEndian.Uint32(rec[4:8])
	systemValue := binary.LittleEndian.Uint32(rec[8:12])
	componentType := binary.LittleEndian.Uint32(rec[12:16])
	register := binary.LittleEndian.Uint32(rec[16:20])
	mask := rec[20]
	usedMask := rec[21]

	var stream uint8
	var minPrecision uint32
	if stride >= strideWithStream {
		stream = uint8(binary.LittleEndian.Uint32(rec[24:28]))
	}
	if stride >= strideSM51 {
		minPrecision = binary.LittleEndian.Uint32(rec[28:32])
	}

	_ = usedMask // interpolation derivation (§4.2 item 2) consults the analysis pass's used-element records, not this byte

	start, colCount := ComponentRange(mask)
	return Range{
		SemanticName:  name,
		SemanticIndex: semanticIndex,
		Register:      register,
		StartCol:      start,
		ColCount:      colCount,
		Stream:        stream,
		ComponentType: ComponentType(componentType),
		SystemValue:   systemValueFromDXBC(systemValue),
		MinPrecision:  uint8(minPrecision),
	}, nil
}

// systemValueFromDXBC maps the D3D shader-bytecode D3D_NAME enum (the
// wire encoding every signature record's system-value field uses) onto
// this package's SystemValue. Only the subset spec §3/§4.2 routes on is
// translated; every other D3D_NAME value (texcoord-style user semantics,
// which are identified by SemanticName instead) maps to SVNone.
func systemValueFromDXBC(v uint32) SystemValue {
	switch v {
	case 1:
		return SVPosition
	case 2:
		return SVClipDistance
	case 3:
		return SVCullDistance
	case 4:
		return SVRenderTargetArrayIndex
	case 5:
		return SVViewportArrayIndex
	case 6:
		return SVVertexID
	case 7:
		return SVPrimitiveID
	case 8:
		return SVInstanceID
	case 9:
		return SVIsFrontFace
	case 10:
		return SVSampleIndex
	case 64:
		return SVTarget
	case 65:
		return SVDepth
	case 66:
		return SVCoverage
	case 67:
		return SVDepthGreaterEqual
	case 68:
		return SVDepthLessEqual
	case 69:
		return SVStencilRef
	case 70:
		return SVInnerCoverage
	default:
		return SVNone
	}
}

func readName(tag string, chunk []byte, offset uint32) (string, error) {
	if int(offset) >= len(chunk) {
		return "", dxerr.WithPart(dxerr.MalformedContainer, tag, offset, "semantic name offset runs past end of chunk")
	}
	end := offset
	for end < uint32(len(chunk)) && chunk[end] != 0 {
		end++
	}
	if end >= uint32(len(chunk)) {
		return "", dxerr.WithPart(dxerr.MalformedContainer, tag, offset, "unterminated semantic name")
	}
	return string(chunk[offset:end]), nil
}

// ComponentRange returns the lowest set bit and the count of contiguous
// set bits in mask, the (start column, column count) a 4-bit component
// mask describes. Exported so the DDI adapter (package ddi), which
// receives already-allocated elements with a mask but no explicit
// column span, can derive one the same way the blob parser does.
func ComponentRange(mask byte) (start uint8, count uint8) {
	if mask == 0 {
		return 0, 0
	}
	for start = 0; start < 4; start++ {
		if mask&(1<<start) != 0 {
			break
		}
	}
	for c := start; c < 4; c++ {
		if mask&(1<<c) == 0 {
			break
		}
		count++
	}
	return start, count
}
