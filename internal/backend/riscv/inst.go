package riscv

import (
	"fmt"

	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
)

// genInst dispatches one instruction to its codegen routine. Every case
// ends by spilling whatever it computed to the instruction's own slot
// (internal/backend/riscv/layout.go); nothing here ever assumes a prior
// instruction's result is still sitting in a register.
func (fc *funcCodegen) genInst(inst lir.Value) error {
	switch n := inst.(type) {
	case *lir.Declare:
		// The allocation is just stack space, already reserved by the
		// prologue's sp adjustment; there is nothing to emit here.
	case *lir.Load:
		fc.genLoad(n)
	case *lir.Store:
		fc.genStore(n)
	case *lir.GEP:
		fc.genGEP(n)
	case *lir.BinOp:
		fc.genBinOp(n)
	case *lir.UnOp:
		fc.genUnOp(n)
	case *lir.Cmp:
		fc.genCmp(n)
	case *lir.Cast:
		fc.genCast(n)
	case *lir.VecSplat:
		fc.genVecSplat(n)
	case *lir.VecInsert:
		fc.genVecInsert(n)
	case *lir.VecExtract:
		fc.genVecExtract(n)
	case *lir.VSum:
		fc.genVSum(n)
	case *lir.Call:
		fc.genCall(n)
	case *lir.Branch:
		fc.genBranch(n)
	case *lir.CondBranch:
		fc.genCondBranch(n)
	case *lir.Return:
		fc.genReturn(n)
	default:
		return fmt.Errorf("riscv: unhandled instruction %s", inst.Kind())
	}
	return nil
}

// loadInt puts v's runtime representation into an integer register: the
// address it denotes, if v is pointer- or aggregate-typed (a Declare's
// cell, a Global's label, a computed pointer, a materialized vector or
// array), or its stored scalar value otherwise.
func (fc *funcCodegen) loadInt(v lir.Value, reg string) {
	if v.DataType().Kind == lirtypes.KPointer || isAggregate(v.DataType()) {
		fc.addrOf(v, reg)
		return
	}
	if c, ok := v.(*lir.Constant); ok {
		fc.w.Write("\tli\t%s, %d\n", reg, c.IntVal)
		return
	}
	fc.w.Ins2(load, reg, mem(fc.fl.offsetOf(v)))
}

// loadFloat puts v's stored float value into a floating-point register.
func (fc *funcCodegen) loadFloat(v lir.Value, reg string) {
	if c, ok := v.(*lir.Constant); ok {
		lbl := fc.cg.floatLabel(c.FloatVal)
		fc.w.Write("\tla\t%s, %s\n", t3, lbl)
		fc.w.Ins2(floadOp, reg, "0("+t3+")")
		return
	}
	fc.w.Ins2(floadOp, reg, mem(fc.fl.offsetOf(v)))
}

func (fc *funcCodegen) storeInt(v lir.Value, reg string)   { fc.w.Ins2(store, reg, mem(fc.fl.offsetOf(v))) }
func (fc *funcCodegen) storeFloat(v lir.Value, reg string) { fc.w.Ins2(fstoreOp, reg, mem(fc.fl.offsetOf(v))) }

// addrOf puts the address v denotes into an integer register: a Global
// is addressed by its label, a Declare by its own cell (a compile-time
// constant offset from fp, never itself stored anywhere), and any other
// aggregate-typed value by its own materialized slot; anything else is
// a pointer some earlier instruction computed and spilled, reloaded the
// ordinary way.
func (fc *funcCodegen) addrOf(v lir.Value, reg string) {
	switch t := v.(type) {
	case *lir.Global:
		fc.w.Write("\tla\t%s, %s\n", reg, t.Name())
	case *lir.Declare:
		fc.w.Ins2imm("addi", reg, fp, -fc.fl.offsetOf(v))
	default:
		if isAggregate(v.DataType()) {
			fc.w.Ins2imm("addi", reg, fp, -fc.fl.offsetOf(v))
		} else {
			fc.w.Ins2(load, reg, mem(fc.fl.offsetOf(v)))
		}
	}
}

func (fc *funcCodegen) genLoad(l *lir.Load) {
	fc.addrOf(l.Ptr, t0)
	dt := l.DataType()
	switch {
	case isAggregate(dt):
		fc.addrOf(l, t1)
		fc.copyBytes(t0, t1, sizeOf(dt))
	case dt.Kind == lirtypes.KFloat:
		fc.w.Ins2(floadOp, ft0, "0("+t0+")")
		fc.storeFloat(l, ft0)
	default:
		fc.w.Ins2(load, t1, "0("+t0+")")
		fc.storeInt(l, t1)
	}
}

func (fc *funcCodegen) genStore(s *lir.Store) {
	fc.addrOf(s.Ptr, t0)
	dt := s.Val.DataType()
	switch {
	case isAggregate(dt):
		fc.addrOf(s.Val, t1)
		fc.copyBytes(t1, t0, sizeOf(dt))
	case dt.Kind == lirtypes.KFloat:
		fc.loadFloat(s.Val, ft0)
		fc.w.Ins2(fstoreOp, ft0, "0("+t0+")")
	default:
		fc.loadInt(s.Val, t1)
		fc.w.Ins2(store, t1, "0("+t0+")")
	}
}

// copyBytes emits an unrolled word-by-word copy from srcReg to dstReg,
// n bytes long (always a multiple of wordSize: every slot is).
func (fc *funcCodegen) copyBytes(srcReg, dstReg string, n int) {
	for off := 0; off < n; off += wordSize {
		fc.w.Ins2(load, t2, fmt.Sprintf("%d(%s)", off, srcReg))
		fc.w.Ins2(store, t2, fmt.Sprintf("%d(%s)", off, dstReg))
	}
}

// genGEP computes Base's address plus the byte offset Indices select,
// walking the same nested-array/vector structure Base's pointee type
// describes one level per index, and spills the result (see
// internal/irgen/lval.go for how Indices/Base are built so that this
// walk always lands on the right element).
func (fc *funcCodegen) genGEP(g *lir.GEP) {
	fc.addrOf(g.Base, t0)
	fc.w.Write("\tli\t%s, 0\n", t1)
	// The first index strides over whole pointees (a Global's DataType is
	// already its pointee); each later index steps one level inside.
	cur := g.Base.DataType()
	if _, isGlobal := g.Base.(*lir.Global); !isGlobal {
		cur = *cur.Elem
	}
	for i, idx := range g.Indices {
		if i > 0 {
			cur = *cur.Elem
		}
		stride := sizeOf(cur)
		fc.loadInt(idx, t2)
		if stride != 1 {
			fc.w.Write("\tli\t%s, %d\n", t3, stride)
			fc.w.Ins3("mul", t2, t2, t3)
		}
		fc.w.Ins3("add", t1, t1, t2)
	}
	fc.w.Ins3("add", t0, t0, t1)
	fc.storeInt(g, t0)
}

func (fc *funcCodegen) genBinOp(n *lir.BinOp) {
	dt := n.DataType()
	if isAggregate(dt) {
		fc.genVectorBinOp(n)
		return
	}
	if dt.Kind == lirtypes.KFloat {
		fc.loadFloat(n.LHS, ft0)
		fc.loadFloat(n.RHS, ft1)
		fc.floatArith(n.Op, ft0, ft0, ft1)
		fc.storeFloat(n, ft0)
		return
	}
	fc.loadInt(n.LHS, t0)
	fc.loadInt(n.RHS, t1)
	fc.intArith(n.Op, t0, t0, t1)
	fc.storeInt(n, t0)
}

func (fc *funcCodegen) intArith(op lirtypes.InstructionType, rd, rs1, rs2 string) {
	switch op {
	case lirtypes.TAdd:
		fc.w.Ins3("add", rd, rs1, rs2)
	case lirtypes.TSub:
		fc.w.Ins3("sub", rd, rs1, rs2)
	case lirtypes.TMul:
		fc.w.Ins3("mul", rd, rs1, rs2)
	case lirtypes.TDiv:
		fc.w.Ins3("div", rd, rs1, rs2)
	case lirtypes.TRem:
		fc.w.Ins3("rem", rd, rs1, rs2)
	case lirtypes.TAnd:
		fc.w.Ins3("and", rd, rs1, rs2)
	case lirtypes.TOr:
		fc.w.Ins3("or", rd, rs1, rs2)
	case lirtypes.TXor:
		fc.w.Ins3("xor", rd, rs1, rs2)
	case lirtypes.TLShift:
		fc.w.Ins3("sll", rd, rs1, rs2)
	case lirtypes.TRShift:
		fc.w.Ins3("sra", rd, rs1, rs2)
	}
}

// floatArith covers the RV64F arithmetic ops directly; TRem has no
// native float instruction, so it's synthesized as a - trunc(a/b)*b,
// truncating toward zero the way the C fmod this mirrors does.
func (fc *funcCodegen) floatArith(op lirtypes.InstructionType, rd, rs1, rs2 string) {
	switch op {
	case lirtypes.TAdd:
		fc.w.Ins3("fadd.s", rd, rs1, rs2)
	case lirtypes.TSub:
		fc.w.Ins3("fsub.s", rd, rs1, rs2)
	case lirtypes.TMul:
		fc.w.Ins3("fmul.s", rd, rs1, rs2)
	case lirtypes.TDiv:
		fc.w.Ins3("fdiv.s", rd, rs1, rs2)
	case lirtypes.TRem:
		fc.w.Ins3("fdiv.s", ft2, rs1, rs2)
		fc.w.Write("\tfcvt.w.s\t%s, %s, rtz\n", t0, ft2)
		fc.w.Ins2("fcvt.s.w", ft2, t0)
		fc.w.Ins3("fmul.s", ft2, ft2, rs2)
		fc.w.Ins3("fsub.s", rd, rs1, ft2)
	}
}

func (fc *funcCodegen) genUnOp(n *lir.UnOp) {
	dt := n.DataType()
	if dt.Kind == lirtypes.KFloat {
		fc.loadFloat(n.Operand, ft0)
		fc.w.Ins2("fneg.s", ft0, ft0)
		fc.storeFloat(n, ft0)
		return
	}
	fc.loadInt(n.Operand, t0)
	switch n.Op {
	case lirtypes.TNeg:
		fc.w.Ins2("neg", t0, t0)
	case lirtypes.TNot:
		fc.w.Ins2("not", t0, t0)
	}
	fc.storeInt(n, t0)
}

func (fc *funcCodegen) genCmp(c *lir.Cmp) {
	if c.Float {
		fc.loadFloat(c.LHS, ft0)
		fc.loadFloat(c.RHS, ft1)
		switch c.Rel {
		case lirtypes.RelLT:
			fc.w.Ins3("flt.s", t0, ft0, ft1)
		case lirtypes.RelGT:
			fc.w.Ins3("flt.s", t0, ft1, ft0)
		case lirtypes.RelLE:
			fc.w.Ins3("fle.s", t0, ft0, ft1)
		case lirtypes.RelGE:
			fc.w.Ins3("fle.s", t0, ft1, ft0)
		case lirtypes.RelEQ:
			fc.w.Ins3("feq.s", t0, ft0, ft1)
		case lirtypes.RelNE:
			fc.w.Ins3("feq.s", t0, ft0, ft1)
			fc.w.Ins2imm("xori", t0, t0, 1)
		}
		fc.storeInt(c, t0)
		return
	}
	fc.loadInt(c.LHS, t0)
	fc.loadInt(c.RHS, t1)
	switch c.Rel {
	case lirtypes.RelLT:
		fc.w.Ins3("slt", t0, t0, t1)
	case lirtypes.RelGT:
		fc.w.Ins3("slt", t0, t1, t0)
	case lirtypes.RelLE:
		fc.w.Ins3("slt", t0, t1, t0)
		fc.w.Ins2imm("xori", t0, t0, 1)
	case lirtypes.RelGE:
		fc.w.Ins3("slt", t0, t0, t1)
		fc.w.Ins2imm("xori", t0, t0, 1)
	case lirtypes.RelEQ:
		fc.w.Ins3("xor", t0, t0, t1)
		fc.w.Ins2("seqz", t0, t0)
	case lirtypes.RelNE:
		fc.w.Ins3("xor", t0, t0, t1)
		fc.w.Ins2("snez", t0, t0)
	}
	fc.storeInt(c, t0)
}

func (fc *funcCodegen) genCast(c *lir.Cast) {
	if c.ToFloat {
		fc.loadInt(c.Operand, t0)
		fc.w.Ins2("fcvt.s.w", ft0, t0)
		fc.storeFloat(c, ft0)
		return
	}
	fc.loadFloat(c.Operand, ft0)
	fc.w.Write("\tfcvt.w.s\t%s, %s, rtz\n", t0, ft0)
	fc.storeInt(c, t0)
}
