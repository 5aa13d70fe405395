package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
	"sysyc/internal/sema"
	"sysyc/internal/types"
)

// label returns a fresh, unique block name built from prefix, for the
// compiler-introduced blocks control-flow and short-circuit lowering
// need beyond the ones named directly from source.
func (e *Emitter) label(prefix string) string {
	e.blockNum++
	return prefix + "." + itoa(e.blockNum)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// toBool coerces v to a KBool value suitable as a CondBranch condition.
func (e *Emitter) toBool(v lir.Value) lir.Value {
	if v.DataType().Kind == lirtypes.KBool {
		return v
	}
	if v.DataType().Kind == lirtypes.KFloat {
		return e.block.CreateFCmp(lirtypes.RelNE, v, lir.CreateConstantFloat(0))
	}
	return e.block.CreateICmp(lirtypes.RelNE, v, lir.CreateConstantInt(0))
}

// coerceScalar converts v from its current scalar type to want: int->float
// widens, float->int truncates.
func (e *Emitter) coerceScalar(v lir.Value, have, want types.Type) lir.Value {
	if have.Kind == want.Kind {
		return v
	}
	if want.Kind == types.FloatK {
		return e.block.CreateIToF(v)
	}
	return e.block.CreateFToI(v)
}

// lowerExpr lowers expr under ctx (sema.Value or sema.Condition, per
// spec.md §9's context-parameterized expression lowering), returning the
// resulting LIR value and its classified type.
func (e *Emitter) lowerExpr(expr ast.Expr, ctx sema.Context) (lir.Value, types.Type, error) {
	switch n := expr.(type) {
	case *ast.IntConst:
		return lir.CreateConstantInt(n.Value), types.Int(), nil
	case *ast.FloatConst:
		return lir.CreateConstantFloat(n.Value), types.Float(), nil
	case *ast.StringLit:
		g := e.m.CreateString(n.Value)
		return g, types.Pointer(types.IntK), nil
	case *ast.LVal:
		addr, err := e.lowerLVal(n)
		if err != nil {
			return nil, types.Type{}, err
		}
		if addr.Kind == lvPointer {
			return nil, types.Type{}, diag.New(n.LineNo, diag.TypeErr, "cannot use %q as a value: it is a partially-indexed array, not a scalar", n.Name)
		}
		return e.loadLVal(addr), addr.Class, nil
	case *ast.Unary:
		return e.lowerUnary(n, ctx)
	case *ast.Binary:
		return e.lowerBinary(n, ctx)
	case *ast.Call:
		return e.lowerCall(n)
	default:
		return nil, types.Type{}, diag.New(expr.Line(), diag.TypeErr, "unsupported expression")
	}
}

func (e *Emitter) lowerUnary(n *ast.Unary, ctx sema.Context) (lir.Value, types.Type, error) {
	operandCtx := ctx
	if n.Op == ast.Not {
		operandCtx = sema.Condition
	}
	v, t, err := e.lowerExpr(n.Operand, operandCtx)
	if err != nil {
		return nil, types.Type{}, err
	}
	result, err := sema.ClassifyUnary(n.LineNo, n.Op, t, ctx)
	if err != nil {
		return nil, types.Type{}, err
	}
	switch n.Op {
	case ast.Plus:
		return v, result, nil
	case ast.Minus:
		return e.block.CreateNeg(v), result, nil
	case ast.Not:
		return e.block.CreateNot(e.toBool(v)), result, nil
	}
	panic("irgen.lowerUnary: unreachable operator")
}

func (e *Emitter) lowerBinary(n *ast.Binary, ctx sema.Context) (lir.Value, types.Type, error) {
	if n.Op == ast.And || n.Op == ast.Or {
		return e.lowerShortCircuit(n, ctx)
	}
	lv, lt, err := e.lowerExpr(n.LHS, sema.Value)
	if err != nil {
		return nil, types.Type{}, err
	}
	rv, rt, err := e.lowerExpr(n.RHS, sema.Value)
	if err != nil {
		return nil, types.Type{}, err
	}
	result, err := sema.ClassifyBinary(n.LineNo, n.Op, lt, rt, ctx)
	if err != nil {
		return nil, types.Type{}, err
	}

	if lt.IsVector() || rt.IsVector() {
		return e.lowerVectorBinary(n.Op, lv, lt, rv, rt, result), result, nil
	}

	isCmp := isComparisonOp(n.Op)
	operandType := result
	if isCmp {
		operandType = types.ResolveNumericPair(lt, rt)
	}
	lv = e.coerceScalar(lv, lt, operandType)
	rv = e.coerceScalar(rv, rt, operandType)

	if isCmp {
		return e.lowerCompare(n.Op, lv, rv, operandType), result, nil
	}
	return e.lowerArith(n.Op, lv, rv), result, nil
}

func isComparisonOp(op ast.BinaryOp) bool {
	switch op {
	case ast.Lt, ast.Gt, ast.Le, ast.Ge, ast.Eq, ast.Ne:
		return true
	default:
		return false
	}
}

func (e *Emitter) lowerArith(op ast.BinaryOp, lv, rv lir.Value) lir.Value {
	switch op {
	case ast.Add:
		return e.block.CreateAdd(lv, rv)
	case ast.Sub:
		return e.block.CreateSub(lv, rv)
	case ast.Mul:
		return e.block.CreateMul(lv, rv)
	case ast.Div:
		return e.block.CreateDiv(lv, rv)
	case ast.Mod:
		return e.block.CreateRem(lv, rv)
	}
	panic("irgen.lowerArith: unreachable operator")
}

func relOf(op ast.BinaryOp) lirtypes.RelOp {
	switch op {
	case ast.Lt:
		return lirtypes.RelLT
	case ast.Gt:
		return lirtypes.RelGT
	case ast.Le:
		return lirtypes.RelLE
	case ast.Ge:
		return lirtypes.RelGE
	case ast.Eq:
		return lirtypes.RelEQ
	default:
		return lirtypes.RelNE
	}
}

// lowerCompare returns the KBool comparison value directly: per
// internal/sema.ClassifyBinary's doc comment, a comparison classifies as
// int but is represented as i1 at the LIR level, so no widening
// instruction is needed between the two.
func (e *Emitter) lowerCompare(op ast.BinaryOp, lv, rv lir.Value, operandType types.Type) lir.Value {
	rel := relOf(op)
	if operandType.Kind == types.FloatK {
		return e.block.CreateFCmp(rel, lv, rv)
	}
	return e.block.CreateICmp(rel, lv, rv)
}

// lowerShortCircuit lowers && and || with branch-based short-circuit
// evaluation (spec.md §4.6): the right operand's instructions are only
// ever reached when the left operand did not already decide the result.
// With no phi instruction in this IR, the result is threaded through a
// dedicated cell written on both incoming edges and read once in the
// merge block.
func (e *Emitter) lowerShortCircuit(n *ast.Binary, ctx sema.Context) (lir.Value, types.Type, error) {
	if ctx != sema.Condition {
		return nil, types.Type{}, diag.New(n.LineNo, diag.TypeErr, "%s is only legal in a condition context", n.Op)
	}
	lv, lt, err := e.lowerExpr(n.LHS, sema.Condition)
	if err != nil {
		return nil, types.Type{}, err
	}
	if !lt.IsScalarNumeric() {
		return nil, types.Type{}, diag.New(n.LHS.Line(), diag.TypeErr, "operand of %s must be scalar, got %s", n.Op, lt)
	}
	lc := e.toBool(lv)

	cell := e.block.CreateDeclare(e.label("sc"), lirtypes.Int())
	rhsBlock := e.lfn.CreateBlock(e.label("rhs"))
	shortBlock := e.lfn.CreateBlock(e.label("short"))
	merge := e.lfn.CreateBlock(e.label("scmerge"))

	shortValue := int32(0)
	if n.Op == ast.And {
		e.block.CreateCondBranch(lc, rhsBlock, shortBlock)
	} else {
		shortValue = 1
		e.block.CreateCondBranch(lc, shortBlock, rhsBlock)
	}

	e.block = shortBlock
	e.block.CreateStore(lir.CreateConstantInt(shortValue), cell)
	e.block.CreateBranch(merge)

	e.block = rhsBlock
	rv, rt, err := e.lowerExpr(n.RHS, sema.Condition)
	if err != nil {
		return nil, types.Type{}, err
	}
	if !rt.IsScalarNumeric() {
		return nil, types.Type{}, diag.New(n.RHS.Line(), diag.TypeErr, "operand of %s must be scalar, got %s", n.Op, rt)
	}
	rc := e.toBool(rv)
	e.block.CreateStore(rc, cell)
	e.block.CreateBranch(merge)

	e.block = merge
	return e.block.CreateLoad(cell), types.Int(), nil
}
