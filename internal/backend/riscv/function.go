package riscv

import (
	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
)

// funcCodegen is the state threaded through one function's code
// generation: the module-wide codegen and the function's frame layout.
// Nothing else survives between instructions — every operand is reread
// from its own slot, so there is no "current register contents" to
// track block to block.
type funcCodegen struct {
	cg *codegen
	w  *asmWriter
	fn *lir.Function
	fl *frameLayout
}

func blockLabel(f *lir.Function, b *lir.Block) string {
	return f.Name + "_" + b.Name
}

// genFunction emits f's prologue, its parameter spill, every block in
// order and an inlined epilogue at every return site. Grounded on
// hhramberg-go-vslc/src/backend/riscv/function.go's genFunction: grow
// the stack, save ra/fp, set fp, generate the body, reverse on the way
// out — but with every local/temporary given its own fixed slot up
// front (internal/backend/riscv/layout.go) instead of the teacher's
// register-resident locals.
func (cg *codegen) genFunction(f *lir.Function) error {
	fl := buildLayout(f)
	fc := &funcCodegen{cg: cg, w: cg.w, fn: f, fl: fl}

	w := cg.w
	w.Write("\n")
	w.Label(f.Name)
	w.Ins2imm("addi", sp, sp, -fl.totalGrowth)
	w.Ins2(store, ra, offFp(fl.totalGrowth-wordSize))
	w.Ins2(store, fp, offFp(fl.totalGrowth-2*wordSize))
	w.Ins2imm("addi", fp, sp, fl.totalGrowth)

	fc.spillParams()

	for _, b := range f.Blocks {
		w.Label(blockLabel(f, b))
		for _, inst := range b.Insts {
			if err := fc.genInst(inst); err != nil {
				return err
			}
		}
	}
	return nil
}

// offFp formats a base-register operand "N(sp)" the way Ins2/Ins3's
// string-operand signature wants; used only by the prologue/epilogue,
// which address sp directly since fp isn't set up yet on entry and is
// already torn down on exit.
func offFp(off int) string { return itoa(off) + "(" + sp + ")" }

func itoa(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	if n == 0 {
		return "0"
	}
	var buf [24]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// mem formats "off(fp)", the addressing mode every slot access uses.
func mem(off int) string { return itoa(-off) + "(" + fp + ")" }

// spillParams copies every incoming parameter (in a0-a7/fa0-fa7, or
// already on the caller's stack past the eighth) into its own slot, so
// every later reference reads it back the same way as any other value.
func (fc *funcCodegen) spillParams() {
	for i, p := range fc.fn.Params {
		off := fc.fl.offsetOf(p)
		isFloat := p.DataType().Kind == lirtypes.KFloat
		if i < argsReg {
			if isFloat {
				fc.w.Ins2(fstoreOp, faReg[i], mem(off))
			} else {
				fc.w.Ins2(store, aReg[i], mem(off))
			}
			continue
		}
		// Past the eighth: the caller already placed this argument on
		// its own stack, directly above what is now this frame.
		j := i - argsReg
		callerOff := j * wordSize
		if isFloat {
			fc.w.Ins2(floadOp, ft0, mem(-callerOff))
			fc.w.Ins2(fstoreOp, ft0, mem(off))
		} else {
			fc.w.Ins2(load, t0, mem(-callerOff))
			fc.w.Ins2(store, t0, mem(off))
		}
	}
}
