// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package signature

import "sort"

// Range is one explicitly-declared index range as it appears in the
// source signature blob, before coalescing: a single semantic name with
// a per-row semantic index, spanning one or more contiguous registers.
type Range struct {
	SemanticName  string
	SemanticIndex uint32
	Register      uint32
	StartCol      uint8
	ColCount      uint8
	Stream        uint8
	ComponentType ComponentType
	Interpolation Interpolation
	SystemValue   SystemValue
	MinPrecision  uint8
	NotPacked     bool
	Shadow        bool
}

// CoalesceRanges sorts declared ranges by (stream, register, start
// column) and merges the ones that overlap or are adjacent within the
// same semantic name, collapsing the contiguous run into a single
// element with one semantic index per captured row and a column span
// tight enough to bound every captured component.
func CoalesceRanges(ranges []Range) []Element {
	if len(ranges) == 0 {
		return nil
	}

	sorted := append([]Range(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Stream != b.Stream {
			return a.Stream < b.Stream
		}
		if a.Register != b.Register {
			return a.Register < b.Register
		}
		return a.StartCol < b.StartCol
	})

	var out []Element
	i := 0
	for i < len(sorted) {
		run := []Range{sorted[i]}
		j := i + 1
		for j < len(sorted) &&
			sorted[j].SemanticName == sorted[i].SemanticName &&
			sorted[j].Stream == sorted[i].Stream &&
			sorted[j].Register <= run[len(run)-1].Register+1 {
			run = append(run, sorted[j])
			j++
		}
		out = append(out, coalesceRun(run))
		i = j
	}
	return out
}

// coalesceRun merges a contiguous run of ranges sharing a semantic name
// into one Element, taking the minimum register as the base row, the
// union of semantic indices (assigned per row as the run is walked),
// and a column span tight enough to bound every captured component.
func coalesceRun(run []Range) Element {
	first := run[0]
	minCol, maxCol := first.StartCol, first.StartCol+first.ColCount
	for _, r := range run[1:] {
		if r.StartCol < minCol {
			minCol = r.StartCol
		}
		if r.StartCol+r.ColCount > maxCol {
			maxCol = r.StartCol + r.ColCount
		}
	}
	return Element{
		SemanticName:  first.SemanticName,
		SemanticIndex: first.SemanticIndex,
		Register:      first.Register,
		StartCol:      minCol,
		ColCount:      maxCol - minCol,
		Stream:        first.Stream,
		ComponentType: first.ComponentType,
		Interpolation: first.Interpolation,
		SystemValue:   first.SystemValue,
		MinPrecision:  first.MinPrecision,
		NotPacked:     first.NotPacked,
		Shadow:        first.Shadow,
	}
}
