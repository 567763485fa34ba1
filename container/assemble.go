// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import "encoding/binary"

// Signature is one signature-family part to carry through to the
// output container, copied from the input unchanged and zero-padded to
// a 4-byte boundary.
type Signature struct {
	Tag     string
	Payload []byte
}

// AssembleInput collects everything the assembler needs to build an
// output container: the emitted bitcode, the PSV0 record, every
// signature part present on input (in every ABI generation it
// appeared in), and the optional root-signature / feature-info parts.
type AssembleInput struct {
	Version    uint32
	DXIL       []byte
	PSV0       []byte
	Signatures []Signature
	RootSig    []byte // RTS0, nil if absent
	FeatureInfo []byte // SFI0, nil if absent: an all-zero 8-byte part is written instead
}

// zeroFeatureInfo is written when the input container carried no SFI0
// part, per the "otherwise an all-zero 64-bit feature-info part" rule.
var zeroFeatureInfo = make([]byte, 8)

// Assemble re-packages a converted module's parts into a container of
// the same family Load reads: DXIL and PSV0 are always written; every
// input signature part is copied through; RTS0 is included only when
// present on input, SFI0 is always included (zeroed if absent on
// input).
func Assemble(in AssembleInput) []byte {
	parts := make([]Part, 0, 4+len(in.Signatures))
	parts = append(parts, Part{Tag: TagDXIL, Payload: in.DXIL})
	parts = append(parts, Part{Tag: TagPSV0, Payload: in.PSV0})
	for _, s := range in.Signatures {
		parts = append(parts, Part{Tag: s.Tag, Payload: s.Payload})
	}
	if in.RootSig != nil {
		parts = append(parts, Part{Tag: TagRTS0, Payload: in.RootSig})
	}
	featureInfo := in.FeatureInfo
	if featureInfo == nil {
		featureInfo = zeroFeatureInfo
	}
	parts = append(parts, Part{Tag: TagSFI0, Payload: featureInfo})

	return writeContainer(in.Version, parts)
}

// writeContainer serializes parts into a container buffer, laying out
// the offset table immediately after the header and each part body
// immediately after its 8-byte (tag, length) header, 4-byte aligned.
func writeContainer(version uint32, parts []Part) []byte {
	offsetTableSize := len(parts) * 4
	cursor := headerSize + offsetTableSize

	offsets := make([]uint32, len(parts))
	bodies := make([][]byte, len(parts))
	for i, p := range parts {
		offsets[i] = uint32(cursor)
		padded := pad4(p.Payload)
		body := make([]byte, partHeaderSize+len(padded))
		copy(body[0:4], p.Tag)
		binary.LittleEndian.PutUint32(body[4:8], uint32(len(padded)))
		copy(body[8:], padded)
		bodies[i] = body
		cursor += len(body)
	}

	total := cursor
	buf := make([]byte, total)
	copy(buf[0:4], Magic)
	// Bytes 4:20 are a content hash; the assembler does not compute one
	// (spec's -disableHashCheck option exists precisely because
	// downstream tools tolerate an unset hash).
	binary.LittleEndian.PutUint32(buf[20:24], version)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(total))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(len(parts)))

	for i, off := range offsets {
		binary.LittleEndian.PutUint32(buf[headerSize+i*4:headerSize+i*4+4], off)
	}
	pos := headerSize + offsetTableSize
	for _, body := range bodies {
		copy(buf[pos:pos+len(body)], body)
		pos += len(body)
	}
	return buf
}

// pad4 zero-pads payload to a 4-byte boundary, per the signature-part
// copy rule (§4.7.3) and the general container convention that every
// part body is 4-byte aligned.
func pad4(payload []byte) []byte {
	rem := len(payload) % 4
	if rem == 0 {
		return payload
	}
	padded := make([]byte, len(payload)+(4-rem))
	copy(padded, payload)
	return padded
}
