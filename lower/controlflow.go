// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"github.com/gogpu/dxbc2dxil/dxerr"
	"github.com/gogpu/dxbc2dxil/dxil"
	"github.com/gogpu/dxbc2dxil/scope"
	"github.com/gogpu/dxbc2dxil/token"
)

func (l *Lowerer) lowerControlFlow(inst token.Instruction) error {
	switch inst.Opcode {
	case token.OpLabel:
		return nil // labels are a source-text artifact; the CFG shape comes entirely from the scope stack

	case token.OpIf:
		cond := l.loadCondition(inst.Operands[0])
		sc := scope.PushIf(l.fn, l.b, l.stack.Names(), cond)
		l.stack.Push(sc)
		return nil
	case token.OpElse:
		sc, ok := l.stack.Top().(*scope.IfScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "else with no enclosing if")
		}
		sc.Else(l.fn, l.b, l.stack.Names())
		return nil
	case token.OpEndIf:
		sc, ok := l.stack.Pop().(*scope.IfScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "endif with no matching if")
		}
		sc.Pop(l.b)
		return nil

	case token.OpLoop:
		sc := scope.PushLoop(l.fn, l.b, l.stack.Names())
		l.stack.Push(sc)
		return nil
	case token.OpBreak:
		sc, ok := l.stack.Top().(*scope.LoopScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "break with no enclosing loop")
		}
		sc.Break(l.fn, l.b, l.stack.Names(), nil)
		return nil
	case token.OpBreakc:
		sc, ok := l.stack.Top().(*scope.LoopScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "breakc with no enclosing loop")
		}
		sc.Break(l.fn, l.b, l.stack.Names(), l.loadCondition(inst.Operands[0]))
		return nil
	case token.OpContinue:
		sc, ok := l.stack.Top().(*scope.LoopScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "continue with no enclosing loop")
		}
		sc.Continue(l.fn, l.b, l.stack.Names(), nil)
		return nil
	case token.OpContinuec:
		sc, ok := l.stack.Top().(*scope.LoopScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "continuec with no enclosing loop")
		}
		sc.Continue(l.fn, l.b, l.stack.Names(), l.loadCondition(inst.Operands[0]))
		return nil
	case token.OpEndLoop:
		sc, ok := l.stack.Pop().(*scope.LoopScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "endloop with no matching loop")
		}
		sc.Pop(l.b)
		return nil

	case token.OpSwitch:
		selector := l.loadScalar(inst.Operands[0])
		sc := scope.PushSwitch(l.fn, l.b, l.stack.Names(), selector)
		l.stack.Push(sc)
		return nil
	case token.OpCase:
		sc, ok := l.stack.Top().(*scope.SwitchScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "case with no enclosing switch")
		}
		sc.Case(l.fn, l.b, l.stack.Names(), int64(inst.Operands[0].ImmValues[0]))
		return nil
	case token.OpDefault:
		sc, ok := l.stack.Top().(*scope.SwitchScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "default with no enclosing switch")
		}
		sc.Default(l.fn, l.b, l.stack.Names())
		return nil
	case token.OpEndSwitch:
		sc, ok := l.stack.Pop().(*scope.SwitchScope)
		if !ok {
			return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "endswitch with no matching switch")
		}
		sc.Pop(l.b)
		return nil

	case token.OpHSControlPointPhase:
		l.hullPhase = 0
		return nil
	case token.OpHSForkPhase, token.OpHSJoinPhase:
		return l.enterHullPhase(inst)

	case token.OpRet:
		scope.Ret(l.stack, l.b)
		return nil
	case token.OpRetc:
		cond := l.loadCondition(inst.Operands[0])
		thenScope := scope.PushIf(l.fn, l.b, l.stack.Names(), cond)
		scope.Ret(l.stack, l.b)
		thenScope.Pop(l.b)
		return nil

	default:
		return dxerr.WithFunction(dxerr.MalformedBytecode, l.fn.Name, "unhandled control-flow opcode")
	}
}

func (l *Lowerer) enterHullPhase(inst token.Instruction) error {
	l.hullPhaseInstance++
	var count uint32
	if inst.Opcode == token.OpHSForkPhase && l.hullPhaseInstance-1 < len(l.analysis.ForkPhaseInstanceCounts) {
		count = l.analysis.ForkPhaseInstanceCounts[l.hullPhaseInstance-1]
	}
	if inst.Opcode == token.OpHSJoinPhase && l.hullPhaseInstance-1 < len(l.analysis.JoinPhaseInstanceCounts) {
		count = l.analysis.JoinPhaseInstanceCounts[l.hullPhaseInstance-1]
	}
	sc := scope.PushHullLoop(l.module, l.fn, l.b, l.stack.Names(), count)
	l.stack.Push(sc)
	return nil
}

// loadCondition loads a boolean (i1) operand for a conditional branch.
func (l *Lowerer) loadCondition(op token.Operand) dxil.Value {
	return l.loadScalar(op)
}
