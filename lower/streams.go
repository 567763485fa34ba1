// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"sort"

	"github.com/gogpu/dxbc2dxil/analysis"
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
)

// shadowOutput buffers one output element's per-lane values written
// for a single stream of a multi-stream geometry shader, pending the
// EmitStream/CutStream call that targets that stream.
type shadowOutput struct {
	stream uint8
	lanes  [4]dxil.Value
}

// hasMultipleStreams reports whether outputs declares more than one
// distinct stream id — the condition under which output writes must be
// buffered per stream rather than stored directly, since a vertex
// belonging to stream 1 must not see writes still pending for stream 0.
func hasMultipleStreams(outputs []analysis.IOElementDecl) bool {
	var seen uint8
	count := 0
	for _, o := range outputs {
		bit := uint8(1) << (o.Stream & 7)
		if seen&bit == 0 {
			seen |= bit
			count++
		}
	}
	return count > 1
}

// lowerStreamControl handles emit/cut/emitStream/cutStream/
// emitThenCutStream. Plain emit/cut (no explicit stream operand) always
// target stream 0, the same EmitStream/CutStream dx ops with a
// constant-0 stream argument. In the multi-stream case, every output
// write shadow-buffered for the targeted stream is flushed immediately
// before the real dx-op call, so the values a vertex on that stream
// wrote land before the vertex that consumes them is emitted.
func (l *Lowerer) lowerStreamControl(inst token.Instruction) error {
	switch inst.Opcode {
	case token.OpEmit:
		l.flushAndEmit(0, dxil.OpEmitStream)
	case token.OpCut:
		l.flushAndEmit(0, dxil.OpCutStream)
	case token.OpEmitStream:
		l.flushAndEmit(l.streamOperand(inst), dxil.OpEmitStream)
	case token.OpCutStream:
		l.flushAndEmit(l.streamOperand(inst), dxil.OpCutStream)
	default: // OpEmitThenCutStream
		l.flushAndEmit(l.streamOperand(inst), dxil.OpEmitThenCutStream)
	}
	return nil
}

func (l *Lowerer) streamOperand(inst token.Instruction) uint8 {
	if len(inst.Operands) == 0 || len(inst.Operands[0].Indices) == 0 {
		return 0
	}
	return uint8(inst.Operands[0].Indices[0].Immediate)
}

func (l *Lowerer) flushAndEmit(stream uint8, dxOp dxil.DxOpID) {
	if l.multiStream {
		l.flushShadow(stream)
	}
	l.b.Emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.Void,
		Operands: []dxil.Value{dxil.ConstInt{Val: int64(stream), Type: dxil.I8}},
		DxOp:     dxOp,
	})
}

// shadowStore buffers one lane write to output element id, tagging it
// with the stream that is current at this point in the instruction
// stream (tracked by Run via dcl_stream).
func (l *Lowerer) shadowStore(elementID uint32, lane int, val dxil.Value) {
	s := l.shadow[elementID]
	if s == nil {
		s = &shadowOutput{}
		l.shadow[elementID] = s
	}
	s.stream = l.currentStream
	s.lanes[lane] = val
}

// flushShadow emits the real StoreOutput call for every shadow-buffered
// element tagged with stream, in elementID order for determinism, then
// clears them.
func (l *Lowerer) flushShadow(stream uint8) {
	var ids []uint32
	for id, s := range l.shadow {
		if s.stream == stream {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		s := l.shadow[id]
		for lane, v := range s.lanes {
			if v == nil {
				continue
			}
			l.b.Emit(&dxil.Instruction{
				Op:       dxil.OpCall,
				Type:     dxil.Void,
				Operands: []dxil.Value{dxil.ConstInt{Val: int64(id), Type: dxil.I32}, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}, v},
				DxOp:     dxil.OpStoreOutput,
			})
		}
		delete(l.shadow, id)
	}
}
