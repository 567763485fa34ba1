package dxil

// Value is anything that can be an instruction operand: a constant, a
// function parameter, a global variable, or the result of a previous
// instruction. Values carry their own type, mirroring the way naga's
// Expression arena carries a parallel ExpressionTypes slice (ir.go's
// TypeResolution) — here the type travels with the value itself instead
// of a side table, since dxil has no shared expression arena to index.
type Value interface {
	ValueType() Type
}

// ConstInt is a constant integer or bool value.
type ConstInt struct {
	Val  int64
	Type Type
}

func (c ConstInt) ValueType() Type { return c.Type }

// ConstFloat is a constant floating-point value, stored as its raw bit
// pattern so that NaN/Inf payloads survive (spec §4.4 saturation rules
// produce specific bit patterns, not just "NaN").
type ConstFloat struct {
	Bits uint64
	Type Type
}

func (c ConstFloat) ValueType() Type { return c.Type }

// Undef is an undefined value of a given type (used for unwritten lanes
// of a composite store, e.g. spec scenario 4's `v0,v1,v2,undef`).
type Undef struct{ Type Type }

func (u Undef) ValueType() Type { return u.Type }

func (p *Param) ValueType() Type { return p.Type }

func (g *GlobalVariable) ValueType() Type { return PointerType{Elem: g.Type} }

// Instruction is a single SSA operation. Its own pointer is its result
// value within the basic block it belongs to.
type Instruction struct {
	Op       OpCode
	Type     Type // result type; VoidType if the instruction has no result
	Operands []Value
	Name     string

	// Predicate is set for FCmp/ICmp.
	Predicate Predicate

	// DxOp is set when Op == OpCall and identifies which dx intrinsic
	// is being called.
	DxOp DxOpID

	// Precise/FastMathOff implement spec §4.4's precise-metadata rule
	// (P6): Precise marks a non-FP-math instruction as precise; for an
	// FP math operator, fast-math flags are cleared instead of adding
	// metadata (FastMathOff set, Precise left false).
	Precise     bool
	FastMathOff bool

	// Switch-only: parallel to Operands[1:], one target block per case
	// value, deduplicated (§4.6 endswitch).
	SwitchCases  []int64
	SwitchBlocks []*BasicBlock
	SwitchOthers []*BasicBlock // blocks sharing SwitchCases[i]'s successor after dedup

	// Br/CondBr/loop-back-edge targets.
	Targets []*BasicBlock

	// AtomicOrder is set for OpAtomicRMW/OpCmpXchg (native TGSM atomics,
	// spec §4.5 "sequencing Monotonic").
	AtomicOrder MemoryOrder
}

func (i *Instruction) ValueType() Type { return i.Type }

// MemoryOrder mirrors the handful of orderings native SSA atomics need.
type MemoryOrder uint8

const (
	OrderMonotonic MemoryOrder = iota
)

// Predicate is the fixed comparison predicate for FCmp/ICmp.
type Predicate uint8

const (
	PredFEQ Predicate = iota
	PredFNE
	PredFLT
	PredFLE
	PredFGT
	PredFGE
	PredIEQ
	PredINE
	PredSLT
	PredSLE
	PredSGT
	PredSGE
	PredULT
	PredULE
	PredUGT
	PredUGE
)

// OpCode is the fixed instruction vocabulary of the dxil IR.
type OpCode uint16

const (
	// Arithmetic (integer)
	OpAdd OpCode = iota
	OpSub
	OpMul
	OpSDiv
	OpUDiv
	OpSRem
	OpURem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr

	// Arithmetic (float)
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFNeg

	// Comparisons
	OpFCmp
	OpICmp

	// Select (ternary; condition is i1)
	OpSelect

	// Casts
	OpSExt
	OpZExt
	OpTrunc
	OpFPExt
	OpFPTrunc
	OpSIToFP
	OpUIToFP
	OpFPToSI
	OpFPToUI
	OpBitcast

	// Memory
	OpAlloca
	OpLoad
	OpStore
	OpGEP
	OpExtractValue

	// Atomics (native SSA, TGSM path)
	OpAtomicRMW
	OpCmpXchg

	// Calls
	OpCall

	// Control flow (terminators)
	OpBr
	OpCondBr
	OpSwitch
	OpRet
	OpRetVoid
	OpUnreachable
)

// IsTerminator reports whether the opcode ends a basic block.
func (op OpCode) IsTerminator() bool {
	switch op {
	case OpBr, OpCondBr, OpSwitch, OpRet, OpRetVoid, OpUnreachable:
		return true
	default:
		return false
	}
}

// AtomicRMWOp is the read-modify-write kind for a native TGSM OpAtomicRMW.
type AtomicRMWOp uint8

const (
	AtomicRMWAdd AtomicRMWOp = iota
	AtomicRMWSub
	AtomicRMWAnd
	AtomicRMWOr
	AtomicRMWXor
	AtomicRMWMin
	AtomicRMWMax
	AtomicRMWUMin
	AtomicRMWUMax
	AtomicRMWExchange
)

// Builder appends instructions to the current insertion block. It is the
// stateful counterpart to naga's IR-arena-plus-ExpressionHandle model
// (ir.go's Function.Expressions): instead of appending to an arena and
// returning a handle, Builder appends directly to a *BasicBlock and
// returns the *Instruction itself as the Value (§9 "Graph building").
type Builder struct {
	block *BasicBlock
	seq   uint32
}

// NewBuilder returns a Builder inserting into block.
func NewBuilder(block *BasicBlock) *Builder { return &Builder{block: block} }

// SetBlock redirects subsequent emits to block (used by scope.Stack when
// it changes the current insertion point on push/pop).
func (b *Builder) SetBlock(block *BasicBlock) { b.block = block }

// Block returns the block currently receiving instructions.
func (b *Builder) Block() *BasicBlock { return b.block }

// Emit appends inst to the current block and returns it as a Value.
func (b *Builder) Emit(inst *Instruction) *Instruction {
	if inst.Name == "" {
		b.seq++
	}
	b.block.Instructions = append(b.block.Instructions, inst)
	return inst
}

// Sealed reports whether the current block already has a terminator.
func (b *Builder) Sealed() bool {
	return b.block.Terminator() != nil
}
