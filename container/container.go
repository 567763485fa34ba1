// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package container reads and writes DXBC-family containers: a fixed
// header, a part-offset table, and a sequence of four-char-tag,
// length-prefixed part blobs.
package container

import (
	"encoding/binary"

	"github.com/gogpu/dxbc2dxil/dxerr"
)

// Magic is the four bytes every container header starts with.
const Magic = "DXBC"

const (
	headerSize = 32 // magic(4) + checksum(16) + version(4) + size(4) + partCount(4)
	partHeaderSize = 8 // tag(4) + length(4)
)

// Tags are the four-character part identifiers this package and its
// callers recognize.
const (
	TagSHDR = "SHDR"
	TagSHEX = "SHEX"
	TagISGN = "ISGN"
	TagISG1 = "ISG1"
	TagOSGN = "OSGN"
	TagOSG5 = "OSG5"
	TagOSG1 = "OSG1"
	TagPCSG = "PCSG"
	TagPSG1 = "PSG1"
	TagRTS0 = "RTS0"
	TagSFI0 = "SFI0"
	TagPSV0 = "PSV0"
	TagDXIL = "DXIL"
)

// Part is one tagged, length-prefixed blob inside a container.
type Part struct {
	Tag     string
	Payload []byte
}

// Reader loads a container and exposes its parts by index or tag,
// following the same shape as the Load / GetPartCount / GetPartContent /
// FindFirstPartKind quartet of a DXBC container reader: Load validates
// structure once, everything else is a cheap indexed lookup.
type Reader struct {
	buf     []byte
	version uint32
	parts   []Part
}

// Load validates buf as a DXBC container and indexes its parts. Every
// offset and length referenced below is checked against len(buf) before
// use; any part whose length would run past the end of buf fails with
// dxerr.MalformedContainer rather than reading out of bounds.
func Load(buf []byte) (*Reader, error) {
	if len(buf) < headerSize {
		return nil, dxerr.New(dxerr.MalformedContainer, "buffer shorter than container header")
	}
	if string(buf[0:4]) != Magic {
		return nil, dxerr.New(dxerr.MalformedContainer, "bad magic")
	}

	version := binary.LittleEndian.Uint32(buf[20:24])
	totalSize := binary.LittleEndian.Uint32(buf[24:28])
	partCount := binary.LittleEndian.Uint32(buf[28:32])

	if int(totalSize) != len(buf) {
		return nil, dxerr.New(dxerr.MalformedContainer, "declared size does not match buffer length")
	}

	offsetTableEnd := headerSize + int(partCount)*4
	if offsetTableEnd > len(buf) {
		return nil, dxerr.New(dxerr.MalformedContainer, "part offset table runs past end of buffer")
	}

	parts := make([]Part, 0, partCount)
	for i := uint32(0); i < partCount; i++ {
		off := binary.LittleEndian.Uint32(buf[headerSize+int(i)*4 : headerSize+int(i)*4+4])
		part, err := readPartAt(buf, off)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	return &Reader{buf: buf, version: version, parts: parts}, nil
}

func readPartAt(buf []byte, off uint32) (Part, error) {
	if int(off)+partHeaderSize > len(buf) {
		return Part{}, dxerr.WithPart(dxerr.MalformedContainer, "", off, "part header runs past end of buffer")
	}
	tag := string(buf[off : off+4])
	length := binary.LittleEndian.Uint32(buf[off+4 : off+8])
	payloadStart := off + partHeaderSize
	payloadEnd := uint64(payloadStart) + uint64(length)
	if payloadEnd > uint64(len(buf)) {
		return Part{}, dxerr.WithPart(dxerr.MalformedContainer, tag, off, "part payload runs past end of buffer")
	}
	return Part{Tag: tag, Payload: buf[payloadStart:payloadEnd]}, nil
}

// Version returns the container format version from the header.
func (r *Reader) Version() uint32 { return r.version }

// PartCount returns the number of parts in the container.
func (r *Reader) PartCount() int { return len(r.parts) }

// Part returns the tag and payload of the part at index i. The caller
// must ensure 0 <= i < PartCount(); out-of-range access panics, since
// Load has already validated every index Reader will ever hand out.
func (r *Reader) Part(i int) (string, []byte) {
	p := r.parts[i]
	return p.Tag, p.Payload
}

// NotFound is the sentinel FindFirstPart returns when tag is absent,
// distinguishing "missing" from an error the way the contract requires.
const NotFound = -1

// FindFirstPart returns the index of the first part with the given tag,
// or NotFound if no such part exists.
func (r *Reader) FindFirstPart(tag string) int {
	for i, p := range r.parts {
		if p.Tag == tag {
			return i
		}
	}
	return NotFound
}

// FindAllParts returns the indices of every part with the given tag, in
// container order. Multiple signature generations (ISGN and ISG1, say)
// never share a tag, but a caller scanning for "every signature part
// present" still wants this rather than repeated FindFirstPart calls.
func (r *Reader) FindAllParts(tags ...string) []int {
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	var out []int
	for i, p := range r.parts {
		if want[p.Tag] {
			out = append(out, i)
		}
	}
	return out
}

// ReadString scans buf for a NUL terminator starting at offset off and
// returns the string up to (not including) it. A terminator that would
// lie past the end of buf is reported as a structural failure rather
// than silently truncating.
func ReadString(buf []byte, off uint32) (string, error) {
	for i := off; i < uint32(len(buf)); i++ {
		if buf[i] == 0 {
			return string(buf[off:i]), nil
		}
	}
	return "", dxerr.WithPart(dxerr.MalformedContainer, "", off, "unterminated string runs past end of buffer")
}
