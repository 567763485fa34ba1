package analysis

import (
	"testing"

	"github.com/gogpu/dxbc2dxil/token"
)

func imm(v uint32) token.Operand {
	return token.Operand{Indices: []token.Index{{Immediate: v}}}
}

func TestRunCountsLabelsAndFunctionBodies(t *testing.T) {
	s := token.NewStream([]token.Instruction{
		{Opcode: token.OpLabel},
		{Opcode: token.OpDclFunctionBody},
		{Opcode: token.OpLabel},
	})
	r := Run(s)
	if r.LabelCount != 2 {
		t.Errorf("expected 2 labels, got %d", r.LabelCount)
	}
	if r.FunctionBodyCount != 1 {
		t.Errorf("expected 1 function body, got %d", r.FunctionBodyCount)
	}
}

func TestRunRecordsTemps(t *testing.T) {
	s := token.NewStream([]token.Instruction{
		{Opcode: token.OpDclTemps, Operands: []token.Operand{imm(8)}},
	})
	r := Run(s)
	if r.Temps == nil || r.Temps.Count != 8 {
		t.Fatalf("expected Temps.Count == 8, got %v", r.Temps)
	}
}

func TestRunMergesRedeclaredIndexableTempByMax(t *testing.T) {
	s := token.NewStream([]token.Instruction{
		{Opcode: token.OpDclIndexableTemp, Operands: []token.Operand{imm(0), imm(4), imm(2)}},
		{Opcode: token.OpDclIndexableTemp, Operands: []token.Operand{imm(0), imm(6), imm(1)}},
	})
	r := Run(s)
	decl, ok := r.IndexableTemps[0]
	if !ok {
		t.Fatal("expected register 0 to be recorded")
	}
	if decl.RegisterCount != 6 {
		t.Errorf("expected RegisterCount to take the max (6), got %d", decl.RegisterCount)
	}
	if decl.ComponentCount != 2 {
		t.Errorf("expected ComponentCount to take the max (2), got %d", decl.ComponentCount)
	}
}

func TestRunTracksStickyOutputStream(t *testing.T) {
	s := token.NewStream([]token.Instruction{
		{Opcode: token.OpDclStream, Operands: []token.Operand{imm(2)}},
		{Opcode: token.OpDclOutput, Operands: []token.Operand{imm(0)}},
	})
	r := Run(s)
	if r.CurrentStream != 2 {
		t.Errorf("expected sticky stream 2, got %d", r.CurrentStream)
	}
	if len(r.Outputs) != 1 || r.Outputs[0].Stream != 2 {
		t.Errorf("expected output recorded under stream 2, got %+v", r.Outputs)
	}
}

func TestRunTracksHullPhaseForPatchConstantIndexableTemps(t *testing.T) {
	s := token.NewStream([]token.Instruction{
		{Opcode: token.OpHSForkPhase},
		{Opcode: token.OpDclIndexableTemp, Operands: []token.Operand{imm(0), imm(3), imm(1)}},
	})
	r := Run(s)
	if _, ok := r.PatchConstantIndexableTemps[0]; !ok {
		t.Fatal("expected indexable temp declared inside fork phase to land in PatchConstantIndexableTemps")
	}
	if _, ok := r.IndexableTemps[0]; ok {
		t.Error("did not expect the fork-phase declaration in the main IndexableTemps map")
	}
}

func TestRunObservesImplicitCoverage(t *testing.T) {
	s := token.NewStream([]token.Instruction{
		{Opcode: token.OpMov, Operands: []token.Operand{{Kind: token.OperandInputCoverageMask}}},
	})
	r := Run(s)
	if !r.SawCoverage {
		t.Error("expected SawCoverage to be true")
	}
	if r.SawInnerCoverage {
		t.Error("did not expect SawInnerCoverage to be true")
	}
}
