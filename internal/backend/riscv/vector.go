package riscv

import (
	"fmt"

	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
)

// There is no vector register file here (this target is assumed to
// lack the V extension), so every fixed-length vector from spec.md
// §4.4 lives entirely in memory: a vector Value is always its own
// materialized slot, and every vector op below is a lane-by-lane loop
// over ordinary scalar loads/stores, unrolled since a vector's length
// is always a compile-time constant.

// genVectorBinOp is internal/backend/riscv/inst.go's genBinOp's vector
// case: LHS and RHS (one may be a CreateVecSplat result — see
// internal/irgen/vector.go) are element-wise combined into a fresh
// result vector.
func (fc *funcCodegen) genVectorBinOp(n *lir.BinOp) {
	dt := n.DataType()
	elemFloat := dt.Elem.Kind == lirtypes.KFloat
	fc.addrOf(n.LHS, t0)
	fc.addrOf(n.RHS, t1)
	fc.addrOf(n, t2)
	for i := 0; i < dt.Len; i++ {
		off := i * wordSize
		if elemFloat {
			fc.w.Ins2(floadOp, ft0, fmt.Sprintf("%d(%s)", off, t0))
			fc.w.Ins2(floadOp, ft1, fmt.Sprintf("%d(%s)", off, t1))
			fc.floatArith(n.Op, ft0, ft0, ft1)
			fc.w.Ins2(fstoreOp, ft0, fmt.Sprintf("%d(%s)", off, t2))
		} else {
			fc.w.Ins2(load, t4, fmt.Sprintf("%d(%s)", off, t0))
			fc.w.Ins2(load, t5, fmt.Sprintf("%d(%s)", off, t1))
			fc.intArith(n.Op, t4, t4, t5)
			fc.w.Ins2(store, t4, fmt.Sprintf("%d(%s)", off, t2))
		}
	}
}

// genVecSplat broadcasts a single scalar to every lane of v's result.
func (fc *funcCodegen) genVecSplat(v *lir.VecSplat) {
	dt := v.DataType()
	elemFloat := dt.Elem.Kind == lirtypes.KFloat
	fc.addrOf(v, t0)
	if elemFloat {
		fc.loadFloat(v.Scalar, ft0)
	} else {
		fc.loadInt(v.Scalar, t1)
	}
	for i := 0; i < dt.Len; i++ {
		off := i * wordSize
		if elemFloat {
			fc.w.Ins2(fstoreOp, ft0, fmt.Sprintf("%d(%s)", off, t0))
		} else {
			fc.w.Ins2(store, t1, fmt.Sprintf("%d(%s)", off, t0))
		}
	}
}

// genVecInsert copies Vec's lanes into v's own slot, then overwrites the
// one lane Idx selects — an insert never aliases Vec's storage, since
// spec.md §4.6 models vector-element assignment as load/insert/store,
// not an in-place mutation.
func (fc *funcCodegen) genVecInsert(v *lir.VecInsert) {
	dt := v.DataType()
	fc.addrOf(v.Vec, t0)
	fc.addrOf(v, t1)
	fc.copyBytes(t0, t1, sizeOf(dt))

	fc.loadInt(v.Idx, t2)
	fc.w.Write("\tli\t%s, %d\n", t3, wordSize)
	fc.w.Ins3("mul", t2, t2, t3)
	fc.w.Ins3("add", t1, t1, t2) // t1: address of the target lane.

	if dt.Elem.Kind == lirtypes.KFloat {
		fc.loadFloat(v.Elem, ft0)
		fc.w.Ins2(fstoreOp, ft0, "0("+t1+")")
	} else {
		fc.loadInt(v.Elem, t4)
		fc.w.Ins2(store, t4, "0("+t1+")")
	}
}

func (fc *funcCodegen) genVecExtract(v *lir.VecExtract) {
	fc.addrOf(v.Vec, t0)
	fc.loadInt(v.Idx, t1)
	fc.w.Write("\tli\t%s, %d\n", t2, wordSize)
	fc.w.Ins3("mul", t1, t1, t2)
	fc.w.Ins3("add", t0, t0, t1)

	if v.DataType().Kind == lirtypes.KFloat {
		fc.w.Ins2(floadOp, ft0, "0("+t0+")")
		fc.storeFloat(v, ft0)
	} else {
		fc.w.Ins2(load, t3, "0("+t0+")")
		fc.storeInt(v, t3)
	}
}

// genVSum reduces every lane of Vec to their scalar sum, lowering the
// vsum(v) intrinsic of spec.md §4.7.
func (fc *funcCodegen) genVSum(v *lir.VSum) {
	vecDT := v.Vec.DataType()
	fc.addrOf(v.Vec, t0)
	if vecDT.Elem.Kind == lirtypes.KFloat {
		fc.w.Ins2("fmv.w.x", ft0, zero)
		for i := 0; i < vecDT.Len; i++ {
			fc.w.Ins2(floadOp, ft1, fmt.Sprintf("%d(%s)", i*wordSize, t0))
			fc.w.Ins3("fadd.s", ft0, ft0, ft1)
		}
		fc.storeFloat(v, ft0)
		return
	}
	fc.w.Write("\tli\t%s, 0\n", t1)
	for i := 0; i < vecDT.Len; i++ {
		fc.w.Ins2(load, t2, fmt.Sprintf("%d(%s)", i*wordSize, t0))
		fc.w.Ins3("add", t1, t1, t2)
	}
	fc.storeInt(v, t1)
}
