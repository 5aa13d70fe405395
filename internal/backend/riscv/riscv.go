// Package riscv is the RISC-V64 Code Generator of spec.md §8: a
// straight-line walk of a *lir.Module that emits one assembly
// instruction sequence per LIR instruction, spilling every produced
// value to its own stack slot rather than tracking it in a register.
// Grounded on hhramberg-go-vslc/src/backend/riscv's register name
// tables and calling-convention constants (riscv.go, function.go), with
// its LRU register allocator (registerFile.lruI/lruF,
// loadIdentifierToReg/saveRegToIdentifier) dropped: spec.md's Non-goals
// exclude "optimization passes beyond constant folding", and a
// register allocator is exactly that. A fixed set of scratch registers
// (t0-t5, ft0-ft2) does the work instead, freeing this package from ever
// tracking which register holds what across an instruction boundary.
package riscv

import (
	"fmt"

	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
)

// Register aliases, named the way the teacher's regi/regf tables name
// them, kept here as the assembler mnemonics directly rather than as
// indices into a register-file slice: nothing in this backend ever asks
// "which register holds value X", so there is no register file to index
// into, only names to print.
const (
	zero = "zero"
	ra   = "ra"
	sp   = "sp"
	fp   = "fp"
)

// Integer argument/return registers.
var aReg = [...]string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7"}

// Floating-point argument/return registers.
var faReg = [...]string{"fa0", "fa1", "fa2", "fa3", "fa4", "fa5", "fa6", "fa7"}

// Scratch integer registers, caller-saved and never relied on to hold a
// value past the instruction that filled them.
const (
	t0 = "t0"
	t1 = "t1"
	t2 = "t2"
	t3 = "t3"
	t4 = "t4"
	t5 = "t5"
)

// Scratch floating-point registers.
const (
	ft0 = "ft0"
	ft1 = "ft1"
	ft2 = "ft2"
)

const (
	stackAlign = 16 // RISC-V's stack is always 16-byte aligned.
	wordSize   = 8  // RV64: a machine word is 8 bytes.
	argsReg    = 8  // the first 8 arguments travel in registers.
	load       = "ld"
	store      = "sd"
	floadOp    = "flw"
	fstoreOp   = "fsw"
)

const labelFloat = "CFP32_" // prefix for interned float constants in .data.

// sizeOf is the number of bytes a DataType's stack slot occupies: one
// word for every scalar/pointer/bool kind, and the element size times
// the length for an array or vector (spec.md §4.4's fixed-length
// vectors and §4.5's fixed-shape arrays make this a compile-time
// constant everywhere it's asked).
func sizeOf(dt lirtypes.DataType) int {
	switch dt.Kind {
	case lirtypes.KArray, lirtypes.KVector:
		return dt.Len * sizeOf(*dt.Elem)
	default:
		return wordSize
	}
}

func isAggregate(dt lirtypes.DataType) bool {
	return dt.Kind == lirtypes.KArray || dt.Kind == lirtypes.KVector
}

func align(n, to int) int {
	if r := n % to; r != 0 {
		n += to - r
	}
	return n
}

// Generate lowers m to a full RISC-V64 assembly listing.
func Generate(m *lir.Module) (string, error) {
	cg := &codegen{m: m, w: newAsmWriter(), floatIdx: map[uint32]int{}}
	cg.w.Write(".text\n")
	for _, f := range m.Functions {
		if f.Declared || len(f.Blocks) == 0 {
			continue // a runtime-library binding: declared, never defined.
		}
		if err := cg.genFunction(f); err != nil {
			return "", err
		}
	}
	cg.genData()
	return cg.w.String(), nil
}

// codegen is the state shared across every function in one module: the
// output buffer and the interned-float-constant pool that feeds the
// trailing .data section, mirroring the teacher's module-wide
// ir.Floats/ir.Strings tables.
type codegen struct {
	m        *lir.Module
	w        *asmWriter
	floats   []float32
	floatIdx map[uint32]int
}

func (cg *codegen) floatLabel(v float32) string {
	bits := f32bits(v)
	if i, ok := cg.floatIdx[bits]; ok {
		return fmt.Sprintf("%s%d", labelFloat, i)
	}
	i := len(cg.floats)
	cg.floats = append(cg.floats, v)
	cg.floatIdx[bits] = i
	return fmt.Sprintf("%s%d", labelFloat, i)
}
