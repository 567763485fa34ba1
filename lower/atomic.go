// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/token"
)

// lowerAtomic handles the atomic group. UAV-addressed atomics go
// through the AtomicBinOp/AtomicCompareExchange dx ops; everything else
// targets thread-group-shared memory and uses the native SSA
// OpAtomicRMW/OpCmpXchg forms (spec's "sequencing Monotonic" rule).
func (l *Lowerer) lowerAtomic(inst token.Instruction) error {
	preciseMask := inst.PreciseMask

	switch inst.Opcode {
	case token.OpImmAtomicAlloc, token.OpImmAtomicConsume:
		handle := l.handleFor(dxil.ClassUAV, inst.Operands[1].Indices[0].Immediate)
		dxOp := dxil.OpBufferUpdateCounter
		delta := int64(1)
		if inst.Opcode == token.OpImmAtomicConsume {
			delta = -1
		}
		prev := l.emit(&dxil.Instruction{
			Op:       dxil.OpCall,
			Type:     dxil.I32,
			Operands: []dxil.Value{handle, dxil.ConstInt{Val: delta, Type: dxil.I8}},
			DxOp:     dxOp,
		}, preciseMask, 0)
		l.storeScalar(inst.Operands[0], prev)
		return nil

	case token.OpImmAtomicExch, token.OpImmAtomicCmpExch:
		dest := inst.Operands[1]
		addr := l.loadScalar(inst.Operands[2])
		if isUAVOperand(dest) {
			handle := l.handleFor(dxil.ClassUAV, dest.Indices[0].Immediate)
			args := []dxil.Value{handle, addr}
			op := dxil.OpAtomicBinOp
			if inst.Opcode == token.OpImmAtomicCmpExch {
				op = dxil.OpAtomicCompareExchange
				args = append(args, l.loadScalar(inst.Operands[3]), l.loadScalar(inst.Operands[4]))
			} else {
				args = append(args, l.loadScalar(inst.Operands[3]))
			}
			prev := l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.I32, Operands: args, DxOp: op}, preciseMask, 0)
			l.storeScalar(inst.Operands[0], prev)
			return nil
		}
		ptr := l.tgsmPointer(dest, addr)
		if inst.Opcode == token.OpImmAtomicCmpExch {
			prev := l.emit(&dxil.Instruction{
				Op:       dxil.OpCmpXchg,
				Type:     dxil.I32,
				Operands: []dxil.Value{ptr, l.loadScalar(inst.Operands[3]), l.loadScalar(inst.Operands[4])},
			}, preciseMask, 0)
			l.storeScalar(inst.Operands[0], prev)
			return nil
		}
		prev := l.emit(&dxil.Instruction{
			Op:          dxil.OpAtomicRMW,
			Type:        dxil.I32,
			Operands:    []dxil.Value{ptr, l.loadScalar(inst.Operands[3])},
			AtomicOrder: dxil.OrderMonotonic,
		}, preciseMask, 0)
		l.storeScalar(inst.Operands[0], prev)
		return nil

	default: // AtomicAnd/Or/Xor/Add/IMin/IMax/UMin/UMax/CmpStore — no-result RMW on the target
		dest := inst.Operands[0]
		addr := l.loadScalar(inst.Operands[1])
		value := l.loadScalar(inst.Operands[2])
		if isUAVOperand(dest) {
			handle := l.handleFor(dxil.ClassUAV, dest.Indices[0].Immediate)
			op := dxil.OpAtomicBinOp
			args := []dxil.Value{handle, addr, value}
			if inst.Opcode == token.OpAtomicCmpStore {
				op = dxil.OpAtomicCompareExchange
				args = append(args, l.loadScalar(inst.Operands[3]))
			}
			l.emit(&dxil.Instruction{Op: dxil.OpCall, Type: dxil.Void, Operands: args, DxOp: op}, preciseMask, 0)
			return nil
		}
		ptr := l.tgsmPointer(dest, addr)
		if inst.Opcode == token.OpAtomicCmpStore {
			l.emit(&dxil.Instruction{Op: dxil.OpCmpXchg, Type: dxil.I32, Operands: []dxil.Value{ptr, value, l.loadScalar(inst.Operands[3])}}, preciseMask, 0)
			return nil
		}
		l.emit(&dxil.Instruction{
			Op:          dxil.OpAtomicRMW,
			Type:        dxil.I32,
			Operands:    []dxil.Value{ptr, value},
			AtomicOrder: dxil.OrderMonotonic,
		}, preciseMask, 0)
		return nil
	}
}

// storeScalar writes val into op's x-lane, the shape every atomic
// result operand takes.
func (l *Lowerer) storeScalar(op token.Operand, val dxil.Value) {
	l.storeOperandScalar(op, val)
}

func (l *Lowerer) tgsmPointer(op token.Operand, addr dxil.Value) dxil.Value {
	return l.tgsmGEP(op.Indices[0].Immediate, addr)
}

// tgsmGEP computes an i32 pointer to dword dwordOffset of TGSM id
// tgsmID's backing global, which is declared as an i32 array.
func (l *Lowerer) tgsmGEP(tgsmID uint32, dwordOffset dxil.Value) dxil.Value {
	return l.b.Emit(&dxil.Instruction{
		Op:       dxil.OpGEP,
		Type:     dxil.PointerType{Elem: dxil.I32, Space: dxil.SpaceTGSM},
		Operands: []dxil.Value{dxil.ConstInt{Val: int64(tgsmID), Type: dxil.I32}, dwordOffset},
	})
}
