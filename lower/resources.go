// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"fmt"

	"github.com/gogpu/dxbc2dxil/analysis"
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
)

// resourceIndex maps a resource class and the raw register/range id an
// instruction operand addresses it by to its position in the module's
// per-class table, so handleFor can resolve an operand straight to the
// ResourceRecord.ID CreateHandle actually takes.
type resourceIndex map[dxil.ResourceClass]map[uint32]int

// buildResourceTables lowers the analysis pass's flat Resources/TGSM/
// IndexableTemps collections into the module's four resource tables
// (spec §3 "four parallel tables"), its TGSM table, and its
// IndexableTemps map, registering every composite backing-storage type
// it creates through types so Module.Types carries one declaration per
// distinct shape instead of one per use.
func buildResourceTables(m *dxil.Module, ana *analysis.Result, types *dxil.TypeRegistry) (resourceIndex, map[uint32]int) {
	index := resourceIndex{
		dxil.ClassSRV:     make(map[uint32]int),
		dxil.ClassUAV:     make(map[uint32]int),
		dxil.ClassCBuffer: make(map[uint32]int),
		dxil.ClassSampler: make(map[uint32]int),
	}

	for _, d := range ana.Resources {
		class, rec := resourceRecordFromDecl(d)
		lowerBound := d.Register
		if d.RangeID != 0 {
			lowerBound = d.RangeID
		}
		rec.LowerBound = lowerBound
		rec.Space = d.Space

		switch class {
		case dxil.ClassSRV:
			rec.ID = uint32(len(m.SRVs))
			index[class][lowerBound] = len(m.SRVs)
			m.SRVs = append(m.SRVs, rec)
		case dxil.ClassUAV:
			rec.ID = uint32(len(m.UAVs))
			index[class][lowerBound] = len(m.UAVs)
			m.UAVs = append(m.UAVs, rec)
		case dxil.ClassCBuffer:
			rec.ID = uint32(len(m.CBuffers))
			index[class][lowerBound] = len(m.CBuffers)
			m.CBuffers = append(m.CBuffers, rec)
		default: // dxil.ClassSampler
			rec.ID = uint32(len(m.Samplers))
			index[class][lowerBound] = len(m.Samplers)
			m.Samplers = append(m.Samplers, rec)
		}
	}

	tgsmIndex := make(map[uint32]int, len(ana.TGSM))
	for _, d := range ana.TGSM {
		arrType := dxil.ArrayType{Elem: dxil.I32, Count: d.Count}
		types.GetOrCreate(arrType)
		g := &dxil.GlobalVariable{Name: fmt.Sprintf("tgsm%d", d.ID), Type: arrType, Space: dxil.SpaceTGSM}
		tgsmIndex[d.ID] = len(m.TGSM)
		m.TGSM = append(m.TGSM, dxil.TGSMRecord{Stride: d.Stride, Count: d.Count, Global: g, Sequence: d.ID})
	}

	copyIndexableTemps(m.IndexableTemps, ana.IndexableTemps, types)
	copyIndexableTemps(m.IndexableTemps, ana.PatchConstantIndexableTemps, types)

	m.Types = types.Types()
	return index, tgsmIndex
}

// copyIndexableTemps threads one of analysis.Run's two indexable-temp
// tables into the module's flat map, registering each entry's backing
// array type through types. A register already present (declared in
// the other table) keeps its existing descriptor, mirroring the
// max-merge the analysis pass already applies within one table.
func copyIndexableTemps(dst map[uint32]*dxil.IndexableTempRecord, src map[uint32]*analysis.IndexableTempDecl, types *dxil.TypeRegistry) {
	for reg, d := range src {
		if _, ok := dst[reg]; ok {
			continue
		}
		laneCount := d.ComponentCount
		if laneCount == 0 {
			laneCount = 4
		}
		arrType := dxil.ArrayType{Elem: dxil.I32, Count: d.RegisterCount * laneCount}
		types.GetOrCreate(arrType)
		dst[reg] = &dxil.IndexableTempRecord{
			RegisterCount: d.RegisterCount,
			LaneCount:     laneCount,
			ModuleScope:   true,
			Storage32:     &dxil.GlobalVariable{Name: fmt.Sprintf("x%d", reg), Type: arrType, Space: dxil.SpaceIndexableTemp},
		}
	}
}

// resourceRecordFromDecl classifies a ResourceDecl by its declaring
// opcode into a resource class and a ResourceRecord carrying the kind/
// element-type/stride fields that opcode shape implies.
func resourceRecordFromDecl(d analysis.ResourceDecl) (dxil.ResourceClass, dxil.ResourceRecord) {
	rec := dxil.ResourceRecord{RangeSize: 1}
	switch d.Opcode {
	case token.OpDclResource:
		rec.Kind = resourceKindFromDim(d.ResourceDim)
		rec.ElementType = returnTypeScalarKind(d.ReturnType)
		return dxil.ClassSRV, rec
	case token.OpDclResourceRaw:
		rec.Kind = dxil.KindRawBuffer
		return dxil.ClassSRV, rec
	case token.OpDclResourceStructured:
		rec.Kind = dxil.KindStructuredBuffer
		rec.Stride = d.Stride
		return dxil.ClassSRV, rec
	case token.OpDclUAVTyped:
		rec.Kind = resourceKindFromDim(d.ResourceDim)
		rec.ElementType = returnTypeScalarKind(d.ReturnType)
		return dxil.ClassUAV, rec
	case token.OpDclUAVRaw:
		rec.Kind = dxil.KindRawBuffer
		return dxil.ClassUAV, rec
	case token.OpDclUAVStructured:
		rec.Kind = dxil.KindStructuredBuffer
		rec.Stride = d.Stride
		return dxil.ClassUAV, rec
	case token.OpDclSampler:
		return dxil.ClassSampler, rec
	default: // token.OpDclConstantBuffer
		return dxil.ClassCBuffer, rec
	}
}

// resourceKindFromDim maps the D3D10_SB_RESOURCE_DIMENSION value a
// dcl_resource/dcl_uav_typed instruction carries to this package's
// ResourceKind.
func resourceKindFromDim(dim uint32) dxil.ResourceKind {
	switch dim {
	case 1:
		return dxil.KindTypedBuffer
	case 2:
		return dxil.KindTexture1D
	case 4:
		return dxil.KindTexture2DMS
	case 5:
		return dxil.KindTexture3D
	case 6:
		return dxil.KindTextureCube
	case 7:
		return dxil.KindTexture1DArray
	case 8:
		return dxil.KindTexture2DArray
	case 9:
		return dxil.KindTexture2DMSArray
	case 10:
		return dxil.KindTextureCubeArray
	default: // 3: TEXTURE2D, and any dim this walk doesn't otherwise know
		return dxil.KindTexture2D
	}
}

// returnTypeScalarKind maps a dcl_resource/dcl_uav_typed instruction's
// per-component D3D10_SB_RESOURCE_RETURN_TYPE to the scalar kind the
// loaded value is read back as (UNORM/SNORM/FLOAT all read back as a
// float after the hardware's normalization).
func returnTypeScalarKind(rt [4]uint32) dxil.ScalarKind {
	switch rt[0] {
	case 3, 4: // SINT, UINT
		return dxil.KindI32
	default: // UNORM, SNORM, FLOAT, and anything else this walk doesn't know
		return dxil.KindF32
	}
}
