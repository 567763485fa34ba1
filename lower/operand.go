// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/signature"
	"github.com/gogpu/dxbc2dxil/token"
	"github.com/gogpu/dxbc2dxil/value"
)

// loadOperand implements the C5 load table (spec §4.4): dispatch by
// operand kind, then apply source modifiers in the fixed abs-then-neg
// order.
func (l *Lowerer) loadOperand(op token.Operand, elemType dxil.Type) value.OperandValue {
	var raw value.OperandValue
	switch op.Kind {
	case token.OperandImmediate32, token.OperandImmediate64:
		raw = l.loadImmediate(op, elemType)
	case token.OperandTemp:
		raw = l.loadTempReg(op, elemType)
	case token.OperandIndexableTemp:
		raw = l.loadIndexableTemp(op, elemType)
	case token.OperandInput, token.OperandInputControlPoint:
		raw = l.loadInput(op, elemType)
	case token.OperandOutputControlPoint:
		raw = l.loadOutputControlPoint(op, elemType)
	case token.OperandPatchConstant:
		raw = l.loadPatchConstant(op, elemType)
	case token.OperandConstantBuffer:
		raw = l.loadConstantBuffer(op, elemType)
	case token.OperandImmediateConstantBuffer:
		raw = l.loadImmediateConstantBuffer(op, elemType)
	case token.OperandSampler, token.OperandResource, token.OperandUAV:
		raw = l.loadHandleBroadcast(op)
	case token.OperandThreadID, token.OperandGroupID, token.OperandThreadIDInGroup,
		token.OperandFlattenedThreadIDInGroup, token.OperandSampleIndex, token.OperandPrimitiveID,
		token.OperandInputCoverageMask, token.OperandInnerCoverage, token.OperandCycleCounter,
		token.OperandGSInstanceID, token.OperandOutputControlPointID, token.OperandForkInstanceID,
		token.OperandJoinInstanceID, token.OperandInputDomainPoint, token.OperandThisPointer:
		raw = l.loadDedicatedIntrinsic(op, elemType)
	default:
		raw = value.OperandValue{}
	}

	if sw, ok := swizzleFromBytes(op.Swizzle); ok {
		raw = raw.Swizzled(sw)
	}

	isFloat := isFloatType(elemType)
	var mod value.Modifier
	if op.Modifier&token.ModAbs != 0 {
		mod |= value.ModAbs
	}
	if op.Modifier&token.ModNeg != 0 {
		mod |= value.ModNeg
	}
	return value.ApplyModifiers(l.b, raw, mod, isFloat)
}

// swizzleFromBytes converts a decoded per-component swizzle into
// package value's Swizzle, reporting false for the identity swizzle so
// callers can skip the gather.
func swizzleFromBytes(raw [4]uint8) (value.Swizzle, bool) {
	sw := value.Swizzle{value.Component(raw[0]), value.Component(raw[1]), value.Component(raw[2]), value.Component(raw[3])}
	if sw == value.Identity {
		return sw, false
	}
	return sw, true
}

func isFloatType(t dxil.Type) bool {
	s, ok := t.(dxil.ScalarType)
	return ok && s.Kind.IsFloat()
}

// loadScalar loads operand op's x-lane as a single scalar value,
// inferring the element type from the operand's own mask/swizzle
// shape; used for selector/condition operands that logically carry one
// component.
func (l *Lowerer) loadScalar(op token.Operand) dxil.Value {
	v := l.loadOperand(op, dxil.I32)
	if val := v.Get(value.X); val != nil {
		return val
	}
	return dxil.ConstInt{Val: 0, Type: dxil.I32}
}

// loadImmediate re-tags each decoded 32-bit word with the element type
// the consuming instruction expects: a raw float bit pattern becomes a
// ConstFloat, everything else stays a ConstInt.
func (l *Lowerer) loadImmediate(op token.Operand, elemType dxil.Type) value.OperandValue {
	var out value.OperandValue
	for i := 0; i < 4; i++ {
		out.Lanes[i] = immediateLane(op.ImmValues[i], elemType)
	}
	return out
}

func immediateLane(word uint32, elemType dxil.Type) dxil.Value {
	if isFloatType(elemType) {
		return dxil.ConstFloat{Bits: uint64(word), Type: elemType}
	}
	return dxil.ConstInt{Val: int64(word), Type: elemType}
}

func (l *Lowerer) loadTempReg(op token.Operand, elemType dxil.Type) value.OperandValue {
	reg := op.Indices[0].Immediate
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if op.Mask != 0 && !value.Mask(op.Mask).Has(lane) {
			continue
		}
		out.Lanes[lane] = l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     elemType,
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(reg), Type: dxil.I32}, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}},
			DxOp:     dxil.OpTempRegLoad,
		})
	}
	return out
}

// loadIndexableTemp multiplies the register index by the entry's
// component count and adds the component offset, loading from the
// owning array (spec §4.4).
func (l *Lowerer) loadIndexableTemp(op token.Operand, elemType dxil.Type) value.OperandValue {
	arrayIdx := op.Indices[0].Immediate
	entry := l.module.IndexableTemps[uint32(arrayIdx)]
	var componentCount uint32 = 4
	if entry != nil && entry.LaneCount > 0 {
		componentCount = entry.LaneCount
	}
	regIdx := op.Indices[1].Immediate

	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if op.Mask != 0 && !value.Mask(op.Mask).Has(lane) {
			continue
		}
		offset := regIdx*componentCount + uint32(lane)
		out.Lanes[lane] = l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpLoad,
			Type:     elemType,
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(offset), Type: dxil.I32}},
		})
	}
	return out
}

func (l *Lowerer) loadInput(op token.Operand, elemType dxil.Type) value.OperandValue {
	elementID := op.Indices[0].Immediate
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if op.Mask != 0 && !value.Mask(op.Mask).Has(lane) {
			continue
		}
		out.Lanes[lane] = l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     elemType,
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(elementID), Type: dxil.I32}, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}},
			DxOp:     dxil.OpLoadInput,
		})
	}
	return out
}

func (l *Lowerer) loadOutputControlPoint(op token.Operand, elemType dxil.Type) value.OperandValue {
	return l.dedicatedLoad(op, elemType, dxil.OpLoadOutputControlPoint)
}

func (l *Lowerer) loadPatchConstant(op token.Operand, elemType dxil.Type) value.OperandValue {
	return l.dedicatedLoad(op, elemType, dxil.OpLoadPatchConstant)
}

func (l *Lowerer) dedicatedLoad(op token.Operand, elemType dxil.Type, dxOp dxil.DxOpID) value.OperandValue {
	elementID := op.Indices[0].Immediate
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if op.Mask != 0 && !value.Mask(op.Mask).Has(lane) {
			continue
		}
		out.Lanes[lane] = l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     elemType,
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(elementID), Type: dxil.I32}, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}},
			DxOp:     dxOp,
		})
	}
	return out
}

// loadConstantBuffer creates-or-caches a handle for the CB range and
// calls CBufferLoadLegacy, extracting the requested lane.
func (l *Lowerer) loadConstantBuffer(op token.Operand, elemType dxil.Type) value.OperandValue {
	handle := l.handleFor(dxil.ClassCBuffer, op.Indices[0].Immediate)
	row := op.Indices[1].Immediate

	call := l.b.Emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.StructType{Fields: []dxil.Type{elemType, elemType, elemType, elemType}},
		Operands: []dxil.Value{handle, dxil.ConstInt{Val: int64(row), Type: dxil.I32}},
		DxOp:     dxil.OpCBufferLoadLegacy,
	})

	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if op.Mask != 0 && !value.Mask(op.Mask).Has(lane) {
			continue
		}
		out.Lanes[lane] = l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpExtractValue,
			Type:     elemType,
			Operands: []dxil.Value{call, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}},
		})
	}
	return out
}

// loadImmediateConstantBuffer GEPs the global icb array and performs an
// aligned load.
func (l *Lowerer) loadImmediateConstantBuffer(op token.Operand, elemType dxil.Type) value.OperandValue {
	idx := op.Indices[0].Immediate
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if op.Mask != 0 && !value.Mask(op.Mask).Has(lane) {
			continue
		}
		gep := l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpGEP,
			Type:     dxil.PointerType{Elem: elemType, Space: dxil.SpaceImmediateConstant},
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(idx*4 + uint32(lane)), Type: dxil.I32}},
		})
		out.Lanes[lane] = l.b.Emit(&dxil.Instruction{Op: dxil.OpLoad, Type: elemType, Operands: []dxil.Value{gep}})
	}
	return out
}

// loadHandleBroadcast creates-or-caches a handle and broadcasts it into
// every masked lane.
func (l *Lowerer) loadHandleBroadcast(op token.Operand) value.OperandValue {
	class := dxil.ClassSRV
	switch op.Kind {
	case token.OperandSampler:
		class = dxil.ClassSampler
	case token.OperandUAV:
		class = dxil.ClassUAV
	}
	handle := l.handleFor(class, op.Indices[0].Immediate)
	return value.Broadcast(handle, value.MaskXYZW)
}

// handleFor creates (or, for SM <= 5.0 per spec P2, returns the cached)
// CreateHandle call for the resource addressed by rawID (the raw
// register/range-id an operand carries). rawID is resolved through the
// module's resource table to the table-assigned ResourceRecord.ID,
// which is the id the dx-op call actually takes and the key the cache
// is keyed on.
func (l *Lowerer) handleFor(class dxil.ResourceClass, rawID uint32) *dxil.Instruction {
	rec := l.resourceRecord(class, rawID)
	if rec == nil {
		// No matching declaration was collected (malformed stream, or a
		// unit test exercising this path directly): fall back to
		// treating the raw operand index as the module id.
		return l.createHandle(class, rawID)
	}

	if !l.cacheableHandles() {
		return l.createHandle(class, rec.ID)
	}
	key := handleKey{class: class, id: rec.ID}
	if h, ok := l.handles[key]; ok {
		return h
	}
	h := l.createHandle(class, rec.ID)
	l.handles[key] = h
	rec.Handle = h
	return h
}

// resourceRecord resolves (class, rawID) to its entry in the module's
// table for that class via l.resourceIndex, built by buildResourceTables
// from the analysis pass's collected resource declarations.
func (l *Lowerer) resourceRecord(class dxil.ResourceClass, rawID uint32) *dxil.ResourceRecord {
	idx, ok := l.resourceIndex[class][rawID]
	if !ok {
		return nil
	}
	switch class {
	case dxil.ClassSRV:
		return &l.module.SRVs[idx]
	case dxil.ClassUAV:
		return &l.module.UAVs[idx]
	case dxil.ClassCBuffer:
		return &l.module.CBuffers[idx]
	default:
		return &l.module.Samplers[idx]
	}
}

// cacheableHandles reports whether CreateHandle results may be reused
// across references, per spec P2: true for SM <= 5.0, false for SM 5.1
// and every SM 6.x target, where dynamic resource binding requires a
// fresh handle per use.
func (l *Lowerer) cacheableHandles() bool {
	return !(l.module.Major > 5 || (l.module.Major == 5 && l.module.Minor >= 1))
}

func (l *Lowerer) createHandle(class dxil.ResourceClass, id uint32) *dxil.Instruction {
	return l.b.Emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.HandleType{},
		Operands: []dxil.Value{dxil.ConstInt{Val: int64(class), Type: dxil.I8}, dxil.ConstInt{Val: int64(id), Type: dxil.I32}},
		DxOp:     dxil.OpCreateHandle,
	})
}

// loadDedicatedIntrinsic loads a scalar system-value register (thread
// ID and friends), broadcasting a scalar result into every masked lane.
func (l *Lowerer) loadDedicatedIntrinsic(op token.Operand, elemType dxil.Type) value.OperandValue {
	dxOp, componentwise := dedicatedOpFor(op.Kind)
	if !componentwise {
		scalar := l.b.Emit(&dxil.Instruction{Op: dxil.OpCall, Type: elemType, DxOp: dxOp})
		return value.Broadcast(scalar, value.Mask(op.Mask))
	}
	var out value.OperandValue
	for lane := 0; lane < 4; lane++ {
		if op.Mask != 0 && !value.Mask(op.Mask).Has(lane) {
			continue
		}
		out.Lanes[lane] = l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     elemType,
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(lane), Type: dxil.I32}},
			DxOp:     dxOp,
		})
	}
	return out
}

func dedicatedOpFor(kind token.OperandKind) (dxil.DxOpID, bool) {
	switch kind {
	case token.OperandThreadID:
		return dxil.OpThreadId, true
	case token.OperandGroupID:
		return dxil.OpGroupId, true
	case token.OperandThreadIDInGroup:
		return dxil.OpThreadIdInGroup, true
	case token.OperandFlattenedThreadIDInGroup:
		return dxil.OpFlattenedThreadIdInGroup, false
	case token.OperandSampleIndex:
		return dxil.OpSampleIndexOp, false
	case token.OperandPrimitiveID:
		return dxil.OpPrimitiveID, false
	case token.OperandInputCoverageMask:
		return dxil.OpCoverage, false
	case token.OperandInnerCoverage:
		return dxil.OpInnerCoverage, false
	case token.OperandCycleCounter:
		return dxil.OpCycleCounterLegacy, false
	case token.OperandGSInstanceID:
		return dxil.OpGSInstanceID, false
	case token.OperandOutputControlPointID:
		return dxil.OpOutputControlPointID, false
	case token.OperandForkInstanceID, token.OperandJoinInstanceID:
		return dxil.OpForkInstanceID, false
	case token.OperandInputDomainPoint:
		return dxil.OpDomainLocation, true
	default:
		return dxil.OpCycleCounterLegacy, false
	}
}

// storeOperand implements the store half of C5: mirrors loadOperand's
// dispatch by destination operand kind.
func (l *Lowerer) storeOperand(op token.Operand, v value.OperandValue) {
	switch op.Kind {
	case token.OperandTemp:
		l.storeTempReg(op, v)
	case token.OperandIndexableTemp:
		l.storeIndexableTemp(op, v)
	case token.OperandOutput:
		l.storeOutput(op, v)
	case token.OperandOutputControlPoint:
		l.storeDedicated(op, v, dxil.OpStoreOutputControlPoint)
	case token.OperandPatchConstant:
		l.storeDedicated(op, v, dxil.OpStorePatchConstant)
	case token.OperandOutputDepth:
		l.storeSpecialOutput(signature.SVDepth, v)
	case token.OperandOutputDepthGE:
		l.storeSpecialOutput(signature.SVDepthGreaterEqual, v)
	case token.OperandOutputDepthLE:
		l.storeSpecialOutput(signature.SVDepthLessEqual, v)
	case token.OperandOutputStencilRef:
		l.storeSpecialOutput(signature.SVStencilRef, v)
	case token.OperandOutputCoverageMask:
		l.storeSpecialOutput(signature.SVCoverage, v)
	}
}

// storeSpecialOutput routes a write to a pixel-shader special output
// register (oDepth/oDepthGE/oDepthLE/oStencilRef/oMask) to its dedicated
// signature element by kind, never by a decoded register index (spec
// §4.4: these route "regardless of written mask" since each names
// exactly one scalar destination). sv's own enum value, not the
// element's allocated register (which may be the NotPacked/Shadow
// sentinel), is used as the StoreOutput elementID: these registers
// never share an id with a regular numbered output.
func (l *Lowerer) storeSpecialOutput(sv signature.SystemValue, v value.OperandValue) {
	val := v.Get(value.X)
	if val == nil {
		return
	}
	l.b.Emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.Void,
		Operands: []dxil.Value{dxil.ConstInt{Val: int64(sv), Type: dxil.I32}, dxil.ConstInt{Val: 0, Type: dxil.I32}, val},
		DxOp:     dxil.OpStoreOutput,
	})
}

// storeOperandScalar writes val into op's x-lane only, the shape an
// atomic result or a scalar intrinsic destination takes.
func (l *Lowerer) storeOperandScalar(op token.Operand, val dxil.Value) {
	var v value.OperandValue
	v.Set(value.X, val)
	l.storeOperand(op, v)
}

func (l *Lowerer) storeTempReg(op token.Operand, v value.OperandValue) {
	reg := op.Indices[0].Immediate
	for lane := 0; lane < 4; lane++ {
		val := v.Lanes[lane]
		if val == nil {
			continue
		}
		if isF64Value(val) {
			l.storeSplitDouble(reg, lane, val)
			continue
		}
		l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.Void,
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(reg), Type: dxil.I32}, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}, val},
			DxOp:     dxil.OpTempRegStore,
		})
	}
}

func isF64Value(v dxil.Value) bool {
	s, ok := v.ValueType().(dxil.ScalarType)
	return ok && s.Kind == dxil.KindF64
}

// storeSplitDouble splits a double-precision lane value into its low/
// high 32-bit halves via SplitDouble and stores them into the register
// pair (reg, reg+1) at the same lane — this package's flat 4-lane temp-
// register model's convention for double-precision storage, since a
// single TempRegStore slot is a 32-bit word.
func (l *Lowerer) storeSplitDouble(reg uint32, lane int, val dxil.Value) {
	split := l.b.Emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.StructType{Fields: []dxil.Type{dxil.I32, dxil.I32}},
		Operands: []dxil.Value{val},
		DxOp:     dxil.OpSplitDouble,
	})
	lo := l.b.Emit(&dxil.Instruction{Op: dxil.OpExtractValue, Type: dxil.I32, Operands: []dxil.Value{split, dxil.ConstInt{Val: 0, Type: dxil.I32}}})
	hi := l.b.Emit(&dxil.Instruction{Op: dxil.OpExtractValue, Type: dxil.I32, Operands: []dxil.Value{split, dxil.ConstInt{Val: 1, Type: dxil.I32}}})
	l.b.Emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.Void,
		Operands: []dxil.Value{dxil.ConstInt{Val: int64(reg), Type: dxil.I32}, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}, lo},
		DxOp:     dxil.OpTempRegStore,
	})
	l.b.Emit(&dxil.Instruction{
		Op:       dxil.OpCall,
		Type:     dxil.Void,
		Operands: []dxil.Value{dxil.ConstInt{Val: int64(reg + 1), Type: dxil.I32}, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}, hi},
		DxOp:     dxil.OpTempRegStore,
	})
}

func (l *Lowerer) storeIndexableTemp(op token.Operand, v value.OperandValue) {
	arrayIdx := op.Indices[0].Immediate
	entry := l.module.IndexableTemps[uint32(arrayIdx)]
	var componentCount uint32 = 4
	if entry != nil && entry.LaneCount > 0 {
		componentCount = entry.LaneCount
	}
	regIdx := op.Indices[1].Immediate
	for lane := 0; lane < 4; lane++ {
		if v.Lanes[lane] == nil {
			continue
		}
		offset := regIdx*componentCount + uint32(lane)
		l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpStore,
			Type:     dxil.Void,
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(offset), Type: dxil.I32}, v.Lanes[lane]},
		})
	}
}

// storeOutput stores a write to a regular numbered output register. In
// a multi-stream geometry shader (l.multiStream), the write is buffered
// in l.shadow under the stream current at this point in the stream
// instead of stored directly, since a later EmitStream/CutStream for a
// different stream must not see it; lowerStreamControl flushes the
// buffer for the targeted stream before emitting the real dx op.
func (l *Lowerer) storeOutput(op token.Operand, v value.OperandValue) {
	elementID := op.Indices[0].Immediate
	for lane := 0; lane < 4; lane++ {
		if v.Lanes[lane] == nil {
			continue
		}
		if l.multiStream {
			l.shadowStore(elementID, lane, v.Lanes[lane])
			continue
		}
		l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.Void,
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(elementID), Type: dxil.I32}, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}, v.Lanes[lane]},
			DxOp:     dxil.OpStoreOutput,
		})
	}
}

func (l *Lowerer) storeDedicated(op token.Operand, v value.OperandValue, dxOp dxil.DxOpID) {
	elementID := op.Indices[0].Immediate
	for lane := 0; lane < 4; lane++ {
		if v.Lanes[lane] == nil {
			continue
		}
		l.b.Emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.Void,
			Operands: []dxil.Value{dxil.ConstInt{Val: int64(elementID), Type: dxil.I32}, dxil.ConstInt{Val: int64(lane), Type: dxil.I32}, v.Lanes[lane]},
			DxOp:     dxOp,
		})
	}
}
