package dxil

// DxOpID enumerates the fixed set of intrinsic "dx op" calls that
// instruction lowering (package lower) emits instead of inline IR, per
// spec §4.4–§4.6. This mirrors the closed, numbered MathFunction
// enumeration of ir/expression.go, except the IDs here are the stable
// dxil.org op numbers a real DXIL module would carry in its metadata, and
// each one is additionally classified in dxOpTable below.
type DxOpID uint32

const (
	OpTempRegLoad DxOpID = 9
	OpTempRegStore DxOpID = 10
	OpLoadInput DxOpID = 4
	OpStoreOutput DxOpID = 5
	OpLoadOutputControlPoint DxOpID = 103
	OpStoreOutputControlPoint DxOpID = 104
	OpLoadPatchConstant DxOpID = 106
	OpStorePatchConstant DxOpID = 107

	OpCreateHandle DxOpID = 57
	OpCBufferLoadLegacy DxOpID = 59

	OpSample DxOpID = 60
	OpSampleBias DxOpID = 61
	OpSampleLevel DxOpID = 62
	OpSampleGrad DxOpID = 63
	OpSampleCmp DxOpID = 64
	OpSampleCmpLevelZero DxOpID = 65
	OpSampleCmpLevel DxOpID = 255 // extended op, SM6.6+ feedback variants not targeted here
	OpSampleCmpBias DxOpID = 254
	OpSampleCmpGrad DxOpID = 253

	OpTextureLoad DxOpID = 66
	OpTextureStore DxOpID = 67
	OpBufferLoad DxOpID = 68
	OpBufferStore DxOpID = 69
	OpBufferUpdateCounter DxOpID = 70
	OpCheckAccessFullyMapped DxOpID = 71

	OpTextureGather DxOpID = 73
	OpTextureGatherCmp DxOpID = 74

	OpAtomicBinOp DxOpID = 78
	OpAtomicCompareExchange DxOpID = 79
	OpBarrier DxOpID = 80

	OpCalculateLOD DxOpID = 81
	OpDiscard DxOpID = 82
	OpDerivCoarseX DxOpID = 83
	OpDerivCoarseY DxOpID = 84
	OpDerivFineX DxOpID = 85
	OpDerivFineY DxOpID = 86
	OpEvalSnapped DxOpID = 87
	OpEvalSampleIndex DxOpID = 88
	OpEvalCentroid DxOpID = 89

	OpGetDimensions DxOpID = 72

	OpCos DxOpID = 12
	OpSin DxOpID = 13
	OpExp DxOpID = 21
	OpFrc DxOpID = 22
	OpLog DxOpID = 23
	OpSqrt DxOpID = 24
	OpRsqrt DxOpID = 25
	OpRoundNe DxOpID = 26
	OpRoundNi DxOpID = 27
	OpRoundPi DxOpID = 28
	OpRoundZ DxOpID = 29

	OpFMad DxOpID = 46
	OpIMad DxOpID = 48
	OpDot2 DxOpID = 54
	OpDot3 DxOpID = 55
	OpDot4 DxOpID = 56

	OpFAbs DxOpID = 6
	OpFMax DxOpID = 35
	OpFMin DxOpID = 36
	OpIMax DxOpID = 37
	OpIMin DxOpID = 38
	OpUMax DxOpID = 39
	OpUMin DxOpID = 40
	OpIMul DxOpID = 41
	OpUMul DxOpID = 42
	OpUDivDxOp DxOpID = 43

	OpBitcastI32toF32 DxOpID = 127
	OpBitcastF32toI32 DxOpID = 128
	OpLegacyF32ToF16 DxOpID = 130
	OpLegacyF16ToF32 DxOpID = 131
	OpLegacyDoubleToFloat DxOpID = 132
	OpLegacyDoubleToSInt32 DxOpID = 133
	OpLegacyDoubleToUInt32 DxOpID = 134
	OpMakeDouble DxOpID = 101
	OpSplitDouble DxOpID = 102

	OpThreadId DxOpID = 93
	OpGroupId DxOpID = 94
	OpThreadIdInGroup DxOpID = 95
	OpFlattenedThreadIdInGroup DxOpID = 96
	OpSampleIndexOp DxOpID = 90
	OpCoverage DxOpID = 91
	OpInnerCoverage DxOpID = 92
	OpPrimitiveID DxOpID = 108
	OpGSInstanceID DxOpID = 100
	OpCycleCounterLegacy DxOpID = 109
	OpDomainLocation DxOpID = 105
	OpOutputControlPointID DxOpID = 110
	OpForkInstanceID DxOpID = 111
	OpEmitStream DxOpID = 97
	OpCutStream DxOpID = 98
	OpEmitThenCutStream DxOpID = 99

	OpRenderTargetGetSampleCount DxOpID = 76
	OpRenderTargetGetSamplePosition DxOpID = 77
	OpTexture2DMSGetSamplePosition DxOpID = 75

	OpDdiv DxOpID = 120
	OpDFma DxOpID = 121
	OpDrcp DxOpID = 122
)

// DxOpProperty describes one dx op for the purposes spec §4.4/§9 need:
// its name, and whether it is classified as an
// FP math operator (so precise-metadata application (§4.4, P6) knows
// whether to attach "precise" metadata or clear fast-math flags instead).
type DxOpProperty struct {
	Name   string
	FPMath bool
}

// dxOpTable is the module-level, compile-time-constant op property table
// spec §9 calls out as "the only module-level constant": everything else
// lives on the per-conversion instance.
var dxOpTable = map[DxOpID]DxOpProperty{
	OpTempRegLoad:              {"TempRegLoad", false},
	OpTempRegStore:             {"TempRegStore", false},
	OpLoadInput:                {"LoadInput", false},
	OpStoreOutput:              {"StoreOutput", false},
	OpLoadOutputControlPoint:   {"LoadOutputControlPoint", false},
	OpStoreOutputControlPoint:  {"StoreOutputControlPoint", false},
	OpLoadPatchConstant:        {"LoadPatchConstant", false},
	OpStorePatchConstant:       {"StorePatchConstant", false},
	OpCreateHandle:             {"CreateHandle", false},
	OpCBufferLoadLegacy:        {"CBufferLoadLegacy", false},
	OpSample:                   {"Sample", true},
	OpSampleBias:                {"SampleBias", true},
	OpSampleLevel:               {"SampleLevel", true},
	OpSampleGrad:                {"SampleGrad", true},
	OpSampleCmp:                 {"SampleCmp", true},
	OpSampleCmpLevelZero:        {"SampleCmpLevelZero", true},
	OpSampleCmpLevel:            {"SampleCmpLevel", true},
	OpSampleCmpBias:             {"SampleCmpBias", true},
	OpSampleCmpGrad:             {"SampleCmpGrad", true},
	OpTextureLoad:               {"TextureLoad", false},
	OpTextureStore:              {"TextureStore", false},
	OpBufferLoad:                {"BufferLoad", false},
	OpBufferStore:               {"BufferStore", false},
	OpBufferUpdateCounter:       {"BufferUpdateCounter", false},
	OpCheckAccessFullyMapped:    {"CheckAccessFullyMapped", false},
	OpTextureGather:             {"TextureGather", true},
	OpTextureGatherCmp:          {"TextureGatherCmp", true},
	OpAtomicBinOp:               {"AtomicBinOp", false},
	OpAtomicCompareExchange:     {"AtomicCompareExchange", false},
	OpBarrier:                   {"Barrier", false},
	OpCalculateLOD:              {"CalculateLOD", true},
	OpDiscard:                   {"Discard", false},
	OpDerivCoarseX:              {"DerivCoarseX", true},
	OpDerivCoarseY:              {"DerivCoarseY", true},
	OpDerivFineX:                {"DerivFineX", true},
	OpDerivFineY:                {"DerivFineY", true},
	OpEvalSnapped:               {"EvalSnapped", false},
	OpEvalSampleIndex:           {"EvalSampleIndex", false},
	OpEvalCentroid:              {"EvalCentroid", false},
	OpGetDimensions:             {"GetDimensions", false},
	OpCos:                       {"Cos", true},
	OpSin:                       {"Sin", true},
	OpExp:                       {"Exp", true},
	OpFrc:                       {"Frc", true},
	OpLog:                       {"Log", true},
	OpSqrt:                      {"Sqrt", true},
	OpRsqrt:                     {"Rsqrt", true},
	OpRoundNe:                   {"Round_ne", true},
	OpRoundNi:                   {"Round_ni", true},
	OpRoundPi:                   {"Round_pi", true},
	OpRoundZ:                    {"Round_z", true},
	OpFMad:                      {"FMad", true},
	OpIMad:                      {"IMad", false},
	OpDot2:                      {"Dot2", true},
	OpDot3:                      {"Dot3", true},
	OpDot4:                      {"Dot4", true},
	OpFAbs:                      {"FAbs", true},
	OpFMax:                      {"FMax", true},
	OpFMin:                      {"FMin", true},
	OpIMax:                      {"IMax", false},
	OpIMin:                      {"IMin", false},
	OpUMax:                      {"UMax", false},
	OpUMin:                      {"UMin", false},
	OpIMul:                      {"IMul", false},
	OpUMul:                      {"UMul", false},
	OpUDivDxOp:                  {"UDiv", false},
	OpBitcastI32toF32:           {"Bitcast", false},
	OpBitcastF32toI32:           {"Bitcast", false},
	OpLegacyF32ToF16:            {"LegacyF32ToF16", true},
	OpLegacyF16ToF32:            {"LegacyF16ToF32", true},
	OpLegacyDoubleToFloat:       {"LegacyDoubleToFloat", true},
	OpLegacyDoubleToSInt32:      {"LegacyDoubleToSInt32", false},
	OpLegacyDoubleToUInt32:      {"LegacyDoubleToUInt32", false},
	OpMakeDouble:                {"MakeDouble", true},
	OpSplitDouble:               {"SplitDouble", true},
	OpThreadId:                  {"ThreadId", false},
	OpGroupId:                   {"GroupId", false},
	OpThreadIdInGroup:           {"ThreadIdInGroup", false},
	OpFlattenedThreadIdInGroup:  {"FlattenedThreadIdInGroup", false},
	OpSampleIndexOp:             {"SampleIndex", false},
	OpCoverage:                  {"Coverage", false},
	OpInnerCoverage:             {"InnerCoverage", false},
	OpPrimitiveID:               {"PrimitiveID", false},
	OpGSInstanceID:              {"GSInstanceID", false},
	OpCycleCounterLegacy:        {"CycleCounterLegacy", false},
	OpDomainLocation:            {"DomainLocation", true},
	OpOutputControlPointID:      {"OutputControlPointID", false},
	OpForkInstanceID:            {"ForkInstanceID", false},
	OpEmitStream:                {"EmitStream", false},
	OpCutStream:                 {"CutStream", false},
	OpEmitThenCutStream:         {"EmitThenCutStream", false},
	OpRenderTargetGetSampleCount:    {"RenderTargetGetSampleCount", false},
	OpRenderTargetGetSamplePosition: {"RenderTargetGetSamplePosition", true},
	OpTexture2DMSGetSamplePosition:  {"Texture2DMSGetSamplePosition", true},
	OpDdiv:                      {"DDiv", true},
	OpDFma:                      {"DFma", true},
	OpDrcp:                      {"DRcp", true},
}

// Lookup returns the property record for a dx op. Every op a lowering
// handler emits must have an entry; a missing entry is an internal
// invariant violation (spec §7: "abort the conversion rather than
// attempting to produce wrong output"), not bad input, so callers
// (package lower) panic on a miss rather than returning an error.
func (id DxOpID) Lookup() DxOpProperty {
	p, ok := dxOpTable[id]
	if !ok {
		panic("dxil: unregistered dx op id")
	}
	return p
}

// IsFPMathOp reports whether id is classified as an FP math operator for
// the purposes of precise-metadata propagation (spec §4.4, P6).
func (id DxOpID) IsFPMathOp() bool { return id.Lookup().FPMath }

// IsFPMathOp classifies inline IR arithmetic (as opposed to a dx op call)
// for the same purpose: float add/sub/mul/div/neg are FP math operators,
// everything else (integer arithmetic, casts, memory, calls) is not.
func (op OpCode) IsFPMathOp() bool {
	switch op {
	case OpFAdd, OpFSub, OpFMul, OpFDiv, OpFNeg:
		return true
	default:
		return false
	}
}
