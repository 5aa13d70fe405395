package riscv

import (
	"math"

	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
)

func f32bits(v float32) uint32 { return math.Float32bits(v) }

// genData emits the module's .data section: every global in declaration
// order (string literals as .asciz, constant-initialized globals
// recursively as .quad/.word, zero-initialized globals as .zero), then
// the float constant pool loadFloat interned along the way. Grounded on
// hhramberg-go-vslc/src/backend/riscv/riscv.go's trailing Strings/Floats
// loop, generalized past its int/string-only globals to spec.md §4's
// arrays and vectors.
func (cg *codegen) genData() {
	w := cg.w
	w.Write("\n.data\n")
	for _, g := range cg.m.Globals {
		w.Label(g.Name())
		switch {
		case g.StrVal != "":
			w.Write("\t.asciz\t%q\n", g.StrVal)
		case g.Init != nil:
			cg.emitInit(g.Init)
		default:
			w.Write("\t.zero\t%d\n", sizeOf(g.DataType()))
		}
	}

	if len(cg.floats) == 0 {
		return
	}
	w.Write("\n")
	for i, f := range cg.floats {
		w.Write("%s%d:\n", labelFloat, i)
		w.Write("\t.word\t0x%x\n", f32bits(f))
	}
}

// emitInit writes one initializer's bytes: an aggregate constant
// recurses element by element, a scalar constant writes its own slot
// (every slot is wordSize wide here, matching layout.go's stack slots
// and genGEP's stride arithmetic, so a float still occupies 8 bytes —
// 4 bytes of IEEE-754 bits plus 4 of padding).
func (cg *codegen) emitInit(v lir.Value) {
	c, ok := v.(*lir.Constant)
	if !ok {
		cg.w.Write("\t.zero\t%d\n", sizeOf(v.DataType()))
		return
	}
	if len(c.Elems) > 0 {
		for _, e := range c.Elems {
			cg.emitInit(e)
		}
		return
	}
	if c.DataType().Kind == lirtypes.KFloat {
		cg.w.Write("\t.word\t0x%x\n", f32bits(c.FloatVal))
		cg.w.Write("\t.zero\t4\n")
		return
	}
	cg.w.Write("\t.quad\t%d\n", c.IntVal)
}
