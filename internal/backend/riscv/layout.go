package riscv

import (
	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
)

// frameLayout is the stack-slot assignment for one function: every
// value that needs backing storage (a Declare's allocated cell, or any
// other instruction's produced result) gets a fixed, disjoint slot,
// addressed as fp-offset. There is no reuse of slots across values and
// no liveness analysis — one value, one slot, for the function's whole
// lifetime, the direct consequence of never keeping a value live in a
// register across an instruction boundary.
type frameLayout struct {
	slots      map[lir.Value]int // value -> offset below fp
	totalGrowth int              // bytes the prologue subtracts from sp
}

// offsetOf panics on a value frameLayout never assigned a slot to:
// every value that reaches operand position must have been produced by
// some instruction this function's pre-pass already walked.
func (fl *frameLayout) offsetOf(v lir.Value) int {
	off, ok := fl.slots[v]
	if !ok {
		panic("riscv: no stack slot assigned for value")
	}
	return off
}

// buildLayout walks f's parameters and every block's instructions in
// order, assigning each a slot sized by what it holds: a Declare's
// slot holds its allocated cell (sizeOf its element type); any other
// value-producing instruction's slot holds its own result (sizeOf its
// DataType).
func buildLayout(f *lir.Function) *frameLayout {
	fl := &frameLayout{slots: map[lir.Value]int{}}
	running := 2 * wordSize // saved ra/fp occupy the first two words above the data region.

	assign := func(v lir.Value, size int) {
		running += align(size, wordSize)
		fl.slots[v] = running
	}

	for _, p := range f.Params {
		assign(p, wordSize)
	}
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			switch t := inst.(type) {
			case *lir.Declare:
				assign(t, sizeOf(*t.DataType().Elem))
			case *lir.Store, *lir.Branch, *lir.CondBranch, *lir.Return:
				// no result
			default:
				if inst.DataType().Kind != lirtypes.KVoid {
					assign(inst, sizeOf(inst.DataType()))
				}
			}
		}
	}

	fl.totalGrowth = align(running, stackAlign)
	return fl
}
