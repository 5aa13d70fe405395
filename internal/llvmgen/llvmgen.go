// Package llvmgen is the optional --emit-llvm alternate backend path
// (SPEC_FULL.md §2 C12): a second, independent lowering from the same
// *lir.Module internal/backend/riscv consumes, this time into LLVM IR
// text via github.com/llir/llvm. Grounded on
// ComedicChimera-chai/bootstrap/generate's gen_defs.go/gen_block.go/
// gen_expr.go call shapes (ir.NewModule/mod.NewFunc/block.NewAlloca/
// block.NewLoad/block.NewStore/block.NewCall/block.NewCondBr), llir/llvm
// substituting for the teacher's CGo-bound tinygo.org/x/go-llvm per a
// comment in that same file documenting the substitution.
//
// Addressing stays byte-offset based throughout, mirroring
// internal/backend/riscv's flat model rather than LLVM's own
// nested-type getelementptr idiom: every pointer is bitcast to i8* at
// the point it's dereferenced, and GEP/vector lowering computes a byte
// offset with this package's own sizeOf instead of relying on a second,
// harder-to-keep-consistent nested-array type walk.
package llvmgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
)

// Generate lowers m into LLVM IR assembly text.
func Generate(m *lir.Module) (string, error) {
	g := &gen{
		m:       m,
		mod:     ir.NewModule(),
		globals: map[lir.Value]value.Value{},
		funcs:   map[string]*ir.Func{},
	}
	for _, gl := range m.Globals {
		g.declareGlobal(gl)
	}
	for _, f := range m.Functions {
		g.declareFunc(f)
	}
	for _, f := range m.Functions {
		if f.Declared || len(f.Blocks) == 0 {
			continue
		}
		if err := g.genFunc(f); err != nil {
			return "", err
		}
	}
	return g.mod.String(), nil
}

type gen struct {
	m       *lir.Module
	mod     *ir.Module
	globals map[lir.Value]value.Value
	funcs   map[string]*ir.Func
}

func isAggregate(dt lirtypes.DataType) bool {
	return dt.Kind == lirtypes.KArray || dt.Kind == lirtypes.KVector
}

// sizeOf is this package's own notion of byte size, independent of
// internal/backend/riscv's word-padded one: LLVM's allocas and globals
// use natural sizes (4-byte int/float, tightly packed arrays), and the
// byte offsets this file computes must match that layout, not the other
// backend's.
func sizeOf(dt lirtypes.DataType) int {
	switch dt.Kind {
	case lirtypes.KArray, lirtypes.KVector:
		return dt.Len * sizeOf(*dt.Elem)
	case lirtypes.KPointer:
		return 8
	default:
		return 4
	}
}

func llType(dt lirtypes.DataType) types.Type {
	switch dt.Kind {
	case lirtypes.KFloat:
		return types.Float
	case lirtypes.KBool:
		return types.I1
	case lirtypes.KVoid:
		return types.Void
	case lirtypes.KPointer:
		return types.NewPointer(llType(*dt.Elem))
	case lirtypes.KArray, lirtypes.KVector:
		return types.NewArray(uint64(dt.Len), llType(*dt.Elem))
	default:
		return types.I32
	}
}

func (g *gen) declareGlobal(gl *lir.Global) {
	if gl.StrVal != "" {
		def := g.mod.NewGlobalDef(gl.Name(), constant.NewCharArrayFromString(gl.StrVal+"\x00"))
		def.Immutable = true
		g.globals[gl] = def
		return
	}
	ty := llType(gl.DataType())
	init := constant.Constant(constant.NewZeroInitializer(ty))
	if gl.Init != nil {
		init = g.constOf(gl.Init, ty)
	}
	def := g.mod.NewGlobalDef(gl.Name(), init)
	def.Immutable = gl.Constant
	g.globals[gl] = def
}

// constOf builds a literal LLVM constant from a (possibly aggregate)
// *lir.Constant, recursing into Elems the way internal/backend/riscv's
// data.go's emitInit does for its own .data section.
func (g *gen) constOf(v lir.Value, ty types.Type) constant.Constant {
	c, ok := v.(*lir.Constant)
	if !ok {
		return constant.NewZeroInitializer(ty)
	}
	if len(c.Elems) > 0 {
		at := ty.(*types.ArrayType)
		elems := make([]constant.Constant, len(c.Elems))
		for i, e := range c.Elems {
			elems[i] = g.constOf(e, at.ElemType)
		}
		return constant.NewArray(at, elems...)
	}
	if c.DataType().Kind == lirtypes.KFloat {
		return constant.NewFloat(types.Float, float64(c.FloatVal))
	}
	return constant.NewInt(types.I32, int64(c.IntVal))
}

func (g *gen) declareFunc(f *lir.Function) {
	params := make([]*ir.Param, len(f.Params))
	for i, p := range f.Params {
		params[i] = ir.NewParam(p.Name(), llType(p.DataType()))
	}
	fn := g.mod.NewFunc(f.Name, llType(f.RetType), params...)
	fn.Sig.Variadic = f.Variadic
	if f.Linkage == lir.Internal {
		fn.Linkage = enum.LinkageInternal
	}
	g.funcs[f.Name] = fn
}

func (g *gen) genFunc(f *lir.Function) error {
	fn := g.funcs[f.Name]
	vals := map[lir.Value]value.Value{}
	blocks := make(map[*lir.Block]*ir.Block, len(f.Blocks))
	for _, b := range f.Blocks {
		blocks[b] = fn.NewBlock(b.Name)
	}

	entry := blocks[f.Blocks[0]]
	for i, p := range f.Params {
		slot := entry.NewAlloca(llType(p.DataType()))
		entry.NewStore(fn.Params[i], slot)
		vals[p] = slot
	}

	for _, b := range f.Blocks {
		lb := blocks[b]
		for _, inst := range b.Insts {
			if err := g.genInst(lb, blocks, vals, inst); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *gen) val(vals map[lir.Value]value.Value, v lir.Value) value.Value {
	if sv, ok := vals[v]; ok {
		return sv
	}
	if gv, ok := g.globals[v]; ok {
		return gv
	}
	if c, ok := v.(*lir.Constant); ok {
		return g.constOf(c, llType(v.DataType()))
	}
	panic(fmt.Sprintf("llvmgen: unresolved value %s", v.String()))
}

func (g *gen) asBytePtr(b *ir.Block, v value.Value) value.Value {
	want := types.NewPointer(types.I8)
	if v.Type().Equal(want) {
		return v
	}
	return b.NewBitCast(v, want)
}

func (g *gen) asPtrTo(b *ir.Block, v value.Value, elemTy types.Type) value.Value {
	want := types.NewPointer(elemTy)
	if v.Type().Equal(want) {
		return v
	}
	return b.NewBitCast(v, want)
}

func (g *gen) toI64(b *ir.Block, v value.Value) value.Value {
	if it, ok := v.Type().(*types.IntType); ok && it.BitSize != 64 {
		return b.NewSExt(v, types.I64)
	}
	return v
}

// byteGEP offsets ptr by a compile-time-constant byte count.
func (g *gen) byteGEP(b *ir.Block, ptr value.Value, byteOff int64) value.Value {
	base := g.asBytePtr(b, ptr)
	if byteOff == 0 {
		return base
	}
	return b.NewGetElementPtr(types.I8, base, constant.NewInt(types.I64, byteOff))
}

func (g *gen) genInst(b *ir.Block, blocks map[*lir.Block]*ir.Block, vals map[lir.Value]value.Value, inst lir.Value) error {
	switch n := inst.(type) {
	case *lir.Declare:
		vals[n] = b.NewAlloca(llType(*n.DataType().Elem))
	case *lir.Load:
		g.genLoad(b, vals, n)
	case *lir.Store:
		g.genStore(b, vals, n)
	case *lir.GEP:
		g.genGEP(b, vals, n)
	case *lir.BinOp:
		g.genBinOp(b, vals, n)
	case *lir.UnOp:
		g.genUnOp(b, vals, n)
	case *lir.Cmp:
		g.genCmp(b, vals, n)
	case *lir.Cast:
		g.genCast(b, vals, n)
	case *lir.VecSplat:
		g.genVecSplat(b, vals, n)
	case *lir.VecInsert:
		g.genVecInsert(b, vals, n)
	case *lir.VecExtract:
		g.genVecExtract(b, vals, n)
	case *lir.VSum:
		g.genVSum(b, vals, n)
	case *lir.Call:
		g.genCall(b, vals, n)
	case *lir.Branch:
		b.NewBr(blocks[n.Target])
	case *lir.CondBranch:
		b.NewCondBr(g.val(vals, n.Cond), blocks[n.Then], blocks[n.Else])
	case *lir.Return:
		g.genReturn(b, vals, n)
	default:
		return fmt.Errorf("llvmgen: unhandled instruction %s", inst.Kind())
	}
	return nil
}

func (g *gen) genLoad(b *ir.Block, vals map[lir.Value]value.Value, n *lir.Load) {
	elemTy := llType(n.DataType())
	ptr := g.asPtrTo(b, g.val(vals, n.Ptr), elemTy)
	vals[n] = b.NewLoad(elemTy, ptr)
}

func (g *gen) genStore(b *ir.Block, vals map[lir.Value]value.Value, n *lir.Store) {
	valv := g.val(vals, n.Val)
	elemTy := llType(n.Val.DataType())
	ptr := g.asPtrTo(b, g.val(vals, n.Ptr), elemTy)
	b.NewStore(valv, ptr)
}

// genGEP walks Base's nested type structure one level per index exactly
// the way internal/backend/riscv's genGEP does, accumulating a byte
// offset instead of the multi-level typed index list LLVM's own GEP
// idiom would otherwise want.
func (g *gen) genGEP(b *ir.Block, vals map[lir.Value]value.Value, n *lir.GEP) {
	offset := value.Value(constant.NewInt(types.I64, 0))
	cur := n.Base.DataType()
	if _, isGlobal := n.Base.(*lir.Global); !isGlobal {
		cur = *cur.Elem
	}
	for i, ix := range n.Indices {
		if i > 0 {
			cur = *cur.Elem
		}
		stride := sizeOf(cur)
		idxVal := g.toI64(b, g.val(vals, ix))
		if stride != 1 {
			idxVal = b.NewMul(idxVal, constant.NewInt(types.I64, int64(stride)))
		}
		offset = b.NewAdd(offset, idxVal)
	}
	base := g.asBytePtr(b, g.val(vals, n.Base))
	vals[n] = b.NewGetElementPtr(types.I8, base, offset)
}

func (g *gen) genBinOp(b *ir.Block, vals map[lir.Value]value.Value, n *lir.BinOp) {
	if isAggregate(n.DataType()) {
		g.genVectorBinOp(b, vals, n)
		return
	}
	vals[n] = g.arith(b, n.Op, n.DataType().Kind == lirtypes.KFloat, g.val(vals, n.LHS), g.val(vals, n.RHS))
}

// arith covers the scalar binary ops directly; unlike
// internal/backend/riscv's floatArith, TRem needs no synthesis here —
// LLVM's frem is native.
func (g *gen) arith(b *ir.Block, op lirtypes.InstructionType, isFloat bool, lhs, rhs value.Value) value.Value {
	if isFloat {
		switch op {
		case lirtypes.TAdd:
			return b.NewFAdd(lhs, rhs)
		case lirtypes.TSub:
			return b.NewFSub(lhs, rhs)
		case lirtypes.TMul:
			return b.NewFMul(lhs, rhs)
		case lirtypes.TDiv:
			return b.NewFDiv(lhs, rhs)
		case lirtypes.TRem:
			return b.NewFRem(lhs, rhs)
		}
		panic("llvmgen: unhandled float op")
	}
	switch op {
	case lirtypes.TAdd:
		return b.NewAdd(lhs, rhs)
	case lirtypes.TSub:
		return b.NewSub(lhs, rhs)
	case lirtypes.TMul:
		return b.NewMul(lhs, rhs)
	case lirtypes.TDiv:
		return b.NewSDiv(lhs, rhs)
	case lirtypes.TRem:
		return b.NewSRem(lhs, rhs)
	case lirtypes.TAnd:
		return b.NewAnd(lhs, rhs)
	case lirtypes.TOr:
		return b.NewOr(lhs, rhs)
	case lirtypes.TXor:
		return b.NewXor(lhs, rhs)
	case lirtypes.TLShift:
		return b.NewShl(lhs, rhs)
	case lirtypes.TRShift:
		return b.NewAShr(lhs, rhs)
	}
	panic("llvmgen: unhandled int op")
}

func (g *gen) genUnOp(b *ir.Block, vals map[lir.Value]value.Value, n *lir.UnOp) {
	operand := g.val(vals, n.Operand)
	if n.DataType().Kind == lirtypes.KFloat {
		vals[n] = b.NewFNeg(operand)
		return
	}
	switch n.Op {
	case lirtypes.TNeg:
		vals[n] = b.NewSub(constant.NewInt(types.I32, 0), operand)
	case lirtypes.TNot:
		vals[n] = b.NewXor(operand, constant.NewInt(types.I32, -1))
	}
}

func (g *gen) genCmp(b *ir.Block, vals map[lir.Value]value.Value, n *lir.Cmp) {
	lhs := g.val(vals, n.LHS)
	rhs := g.val(vals, n.RHS)
	if n.Float {
		var pred enum.FPred
		switch n.Rel {
		case lirtypes.RelLT:
			pred = enum.FPredOLT
		case lirtypes.RelGT:
			pred = enum.FPredOGT
		case lirtypes.RelLE:
			pred = enum.FPredOLE
		case lirtypes.RelGE:
			pred = enum.FPredOGE
		case lirtypes.RelEQ:
			pred = enum.FPredOEQ
		case lirtypes.RelNE:
			pred = enum.FPredONE
		}
		vals[n] = b.NewFCmp(pred, lhs, rhs)
		return
	}
	var pred enum.IPred
	switch n.Rel {
	case lirtypes.RelLT:
		pred = enum.IPredSLT
	case lirtypes.RelGT:
		pred = enum.IPredSGT
	case lirtypes.RelLE:
		pred = enum.IPredSLE
	case lirtypes.RelGE:
		pred = enum.IPredSGE
	case lirtypes.RelEQ:
		pred = enum.IPredEQ
	case lirtypes.RelNE:
		pred = enum.IPredNE
	}
	vals[n] = b.NewICmp(pred, lhs, rhs)
}

func (g *gen) genCast(b *ir.Block, vals map[lir.Value]value.Value, n *lir.Cast) {
	operand := g.val(vals, n.Operand)
	if n.ToFloat {
		vals[n] = b.NewSIToFP(operand, types.Float)
	} else {
		vals[n] = b.NewFPToSI(operand, types.I32)
	}
}

func (g *gen) genCall(b *ir.Block, vals map[lir.Value]value.Value, n *lir.Call) {
	callee := g.funcs[n.Callee.Name]
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.val(vals, a)
	}
	call := b.NewCall(callee, args...)
	if n.DataType().Kind != lirtypes.KVoid {
		vals[n] = call
	}
}

func (g *gen) genReturn(b *ir.Block, vals map[lir.Value]value.Value, n *lir.Return) {
	if n.Val == nil {
		b.NewRet(nil)
		return
	}
	b.NewRet(g.val(vals, n.Val))
}

// genVectorBinOp, genVecSplat, genVecInsert and genVecExtract all model
// a vector the same way internal/backend/riscv/vector.go does — its own
// memory region, lanes visited by an unrolled loop — since this target
// carries no interest in exercising LLVM's native <N x T> vector
// instructions for a fixed-length-4-or-so SysY vector.
func (g *gen) genVectorBinOp(b *ir.Block, vals map[lir.Value]value.Value, n *lir.BinOp) {
	dt := n.DataType()
	elemTy := llType(*dt.Elem)
	elemSize := int64(sizeOf(*dt.Elem))
	isFloat := dt.Elem.Kind == lirtypes.KFloat
	slot := b.NewAlloca(llType(dt))
	lhs := g.val(vals, n.LHS)
	rhs := g.val(vals, n.RHS)
	for i := 0; i < dt.Len; i++ {
		off := int64(i) * elemSize
		lv := b.NewLoad(elemTy, g.asPtrTo(b, g.byteGEP(b, lhs, off), elemTy))
		rv := b.NewLoad(elemTy, g.asPtrTo(b, g.byteGEP(b, rhs, off), elemTy))
		res := g.arith(b, n.Op, isFloat, lv, rv)
		b.NewStore(res, g.asPtrTo(b, g.byteGEP(b, slot, off), elemTy))
	}
	vals[n] = slot
}

func (g *gen) genVecSplat(b *ir.Block, vals map[lir.Value]value.Value, v *lir.VecSplat) {
	dt := v.DataType()
	elemTy := llType(*dt.Elem)
	elemSize := int64(sizeOf(*dt.Elem))
	slot := b.NewAlloca(llType(dt))
	scalar := g.val(vals, v.Scalar)
	for i := 0; i < dt.Len; i++ {
		dp := g.asPtrTo(b, g.byteGEP(b, slot, int64(i)*elemSize), elemTy)
		b.NewStore(scalar, dp)
	}
	vals[v] = slot
}

func (g *gen) genVecInsert(b *ir.Block, vals map[lir.Value]value.Value, v *lir.VecInsert) {
	dt := v.DataType()
	elemTy := llType(*dt.Elem)
	elemSize := int64(sizeOf(*dt.Elem))
	total := int64(sizeOf(dt))
	slot := b.NewAlloca(llType(dt))
	src := g.val(vals, v.Vec)
	for off := int64(0); off < total; off += elemSize {
		sp := g.asPtrTo(b, g.byteGEP(b, src, off), elemTy)
		dp := g.asPtrTo(b, g.byteGEP(b, slot, off), elemTy)
		b.NewStore(b.NewLoad(elemTy, sp), dp)
	}
	idxByte := b.NewMul(g.toI64(b, g.val(vals, v.Idx)), constant.NewInt(types.I64, elemSize))
	target := g.asPtrTo(b, b.NewGetElementPtr(types.I8, g.asBytePtr(b, slot), idxByte), elemTy)
	b.NewStore(g.val(vals, v.Elem), target)
	vals[v] = slot
}

func (g *gen) genVecExtract(b *ir.Block, vals map[lir.Value]value.Value, v *lir.VecExtract) {
	dt := v.Vec.DataType()
	elemTy := llType(*dt.Elem)
	idxByte := b.NewMul(g.toI64(b, g.val(vals, v.Idx)), constant.NewInt(types.I64, int64(sizeOf(*dt.Elem))))
	ptr := g.asPtrTo(b, b.NewGetElementPtr(types.I8, g.asBytePtr(b, g.val(vals, v.Vec)), idxByte), elemTy)
	vals[v] = b.NewLoad(elemTy, ptr)
}

func (g *gen) genVSum(b *ir.Block, vals map[lir.Value]value.Value, v *lir.VSum) {
	dt := v.Vec.DataType()
	elemTy := llType(*dt.Elem)
	elemSize := int64(sizeOf(*dt.Elem))
	isFloat := dt.Elem.Kind == lirtypes.KFloat
	base := g.val(vals, v.Vec)

	var acc value.Value
	if isFloat {
		acc = constant.NewFloat(types.Float, 0)
	} else {
		acc = constant.NewInt(types.I32, 0)
	}
	for i := 0; i < dt.Len; i++ {
		p := g.asPtrTo(b, g.byteGEP(b, base, int64(i)*elemSize), elemTy)
		e := b.NewLoad(elemTy, p)
		if isFloat {
			acc = b.NewFAdd(acc, e)
		} else {
			acc = b.NewAdd(acc, e)
		}
	}
	vals[v] = acc
}
