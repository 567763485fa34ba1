// Package dxil defines the output intermediate representation emitted by
// the DXBC-to-DXIL transpiler.
//
// The IR is a small, hand-rolled SSA form — functions of basic blocks of
// typed instructions — scoped to exactly what a lowered DXBC shader needs:
// scalar arithmetic, calls into a fixed set of intrinsic "dx ops", pointer
// access into resource handles and thread-group-shared memory, and
// structured control flow. It does not attempt to be a general compiler IR.
package dxil

// Module is the output of one conversion: one function per hull-shader
// phase (or a single "main" for every other stage), plus the declarations
// that the Pipeline State Validation and signature parts of the output
// container are derived from.
type Module struct {
	Functions []*Function

	Types []Type

	// Resources, indexed by declaration order within their class.
	SRVs     []ResourceRecord
	UAVs     []ResourceRecord
	CBuffers []ResourceRecord
	Samplers []ResourceRecord

	// TGSM holds one entry per thread-group-shared-memory declaration,
	// keyed by declaration id (index into this slice).
	TGSM []TGSMRecord

	// Temps is the flat count of 4-lane general purpose registers.
	Temps uint32

	// IndexableTemps maps indexable-temp id to its descriptor.
	IndexableTemps map[uint32]*IndexableTempRecord

	// ShaderKind/Major/Minor mirror shadermodel.Model so packages that
	// only need the module need not import shadermodel.
	ShaderKind uint8
	Major      uint8
	Minor      uint8
}

// ResourceClass enumerates the four parallel resource tables.
type ResourceClass uint8

const (
	ClassSRV ResourceClass = iota
	ClassUAV
	ClassCBuffer
	ClassSampler
)

// ResourceKind enumerates the shapes a resource can take.
type ResourceKind uint8

const (
	KindTypedBuffer ResourceKind = iota
	KindRawBuffer
	KindStructuredBuffer
	KindTexture1D
	KindTexture1DArray
	KindTexture2D
	KindTexture2DArray
	KindTexture2DMS
	KindTexture2DMSArray
	KindTexture3D
	KindTextureCube
	KindTextureCubeArray
)

// UAVFlags are the per-UAV capability bits of spec §3.
type UAVFlags uint8

const (
	UAVGloballyCoherent  UAVFlags = 1 << 0
	UAVHasCounter        UAVFlags = 1 << 1
	UAVRasterizerOrdered UAVFlags = 1 << 2
)

// ResourceRecord is one entry in one of Module's four resource tables.
type ResourceRecord struct {
	Class      ResourceClass
	ID         uint32 // assigned by the module, stable per conversion
	LowerBound uint32
	RangeSize  uint32
	Space      uint32

	Kind ResourceKind

	// Typed resources (buffers/textures with an element type).
	ElementType ScalarKind
	Stride      uint32 // typed-buffer element stride or structured-buffer byte stride

	UAVFlags UAVFlags

	// Samplers only.
	Comparison bool

	// Handle is non-nil once CreateHandle has been emitted and cached
	// for this (Class, LowerBound) pair (SM <= 5.0 only, per spec P2).
	Handle Value
}

// TGSMRecord describes one thread-group-shared-memory declaration.
type TGSMRecord struct {
	Stride   uint32
	Count    uint32
	Global   *GlobalVariable
	Sequence uint32
}

// IndexableTempRecord describes one `x#` indexable temp array.
type IndexableTempRecord struct {
	RegisterCount uint32
	LaneCount     uint32
	ModuleScope   bool // false for single-function shaders (function-local alloca)
	Storage32     *GlobalVariable
	Storage16     *GlobalVariable
}

// GlobalVariable is a module-scope storage location (TGSM byte array,
// indexable-temp backing array, or the immediate constant buffer).
type GlobalVariable struct {
	Name    string
	Type    Type
	Space   AddressSpace
	Initial []uint32 // non-nil for the immediate constant buffer (icb)
}

// AddressSpace mirrors the handful of address spaces DXIL globals use.
type AddressSpace uint8

const (
	SpaceTGSM AddressSpace = iota
	SpaceImmediateConstant
	SpaceIndexableTemp
)

// Function is one DXIL function: `main` for every stage but hull shaders,
// or one function per hull-shader phase (control-point, each fork/join
// phase, and the synthesized patch-constant entry `pc_main`).
type Function struct {
	Name    string
	Params  []*Param
	Result  Type // VoidType for entry functions
	Blocks  []*BasicBlock
	IsEntry bool
}

// Param is a function parameter (used only by called, non-entry functions,
// e.g. interface-call targets).
type Param struct {
	Name string
	Type Type
}

// BasicBlock is a straight-line sequence of instructions ending in exactly
// one terminator, per spec P5.
type BasicBlock struct {
	Name         string
	Instructions []*Instruction
}

// Terminator returns the block's terminating instruction, or nil if the
// block is not yet sealed.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	if last.Op.IsTerminator() {
		return last
	}
	return nil
}
