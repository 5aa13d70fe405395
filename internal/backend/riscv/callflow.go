package riscv

import (
	"fmt"

	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
)

// genCall marshals Args into a0-a7/fa0-fa7 (the rest spilled to the
// stack just below this frame) and emits a direct call. There is no
// caller-saved-register bookkeeping to do around it: nothing here ever
// keeps a value live in a register across an instruction boundary, so a
// callee clobbering t0-t6/ft0-ft11 costs nothing. Grounded on
// hhramberg-go-vslc/src/backend/riscv/function.go's genFunctionCall,
// minus its register-save/restore dance, which that property makes
// unnecessary.
func (fc *funcCodegen) genCall(c *lir.Call) {
	overflow := len(c.Args) - argsReg
	if overflow < 0 {
		overflow = 0
	}
	overflowBytes := align(overflow*wordSize, stackAlign)
	if overflowBytes > 0 {
		fc.w.Ins2imm("addi", sp, sp, -overflowBytes)
	}

	for i, a := range c.Args {
		isFloat := a.DataType().Kind == lirtypes.KFloat
		if i < argsReg {
			if isFloat {
				fc.loadFloat(a, faReg[i])
			} else {
				fc.loadInt(a, aReg[i])
			}
			continue
		}
		off := (i - argsReg) * wordSize
		if isFloat {
			fc.loadFloat(a, ft0)
			fc.w.Ins2(fstoreOp, ft0, fmt.Sprintf("%d(%s)", off, sp))
		} else {
			fc.loadInt(a, t0)
			fc.w.Ins2(store, t0, fmt.Sprintf("%d(%s)", off, sp))
		}
	}

	fc.w.Ins1("call", c.Callee.Name)

	if overflowBytes > 0 {
		fc.w.Ins2imm("addi", sp, sp, overflowBytes)
	}

	switch c.DataType().Kind {
	case lirtypes.KVoid:
	case lirtypes.KFloat:
		fc.storeFloat(c, faReg[0])
	default:
		fc.storeInt(c, aReg[0])
	}
}

func (fc *funcCodegen) genBranch(b *lir.Branch) {
	fc.w.Ins1("j", blockLabel(fc.fn, b.Target))
}

func (fc *funcCodegen) genCondBranch(c *lir.CondBranch) {
	fc.loadInt(c.Cond, t0)
	fc.w.Write("\tbnez\t%s, %s\n", t0, blockLabel(fc.fn, c.Then))
	fc.w.Ins1("j", blockLabel(fc.fn, c.Else))
}

func (fc *funcCodegen) genReturn(r *lir.Return) {
	if r.Val != nil {
		if r.Val.DataType().Kind == lirtypes.KFloat {
			fc.loadFloat(r.Val, "fa0")
		} else {
			fc.loadInt(r.Val, "a0")
		}
	}
	fc.epilogue()
}

// epilogue reverses the prologue; inlined at every return site rather
// than shared through a jump, since this backend never reuses code
// across blocks.
func (fc *funcCodegen) epilogue() {
	fc.w.Ins2(load, ra, offFp(fc.fl.totalGrowth-wordSize))
	fc.w.Ins2(load, fp, offFp(fc.fl.totalGrowth-2*wordSize))
	fc.w.Ins2imm("addi", sp, sp, fc.fl.totalGrowth)
	fc.w.Write("\tret\n")
}
