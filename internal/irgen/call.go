package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
	"sysyc/internal/runtime"
	"sysyc/internal/sema"
	"sysyc/internal/types"
)

// lowerCall dispatches a call by source-level callee name to the vsum
// intrinsic, a user function, or a runtime library binding, per
// spec.md §4.6/§4.7 — in that priority order, matching
// internal/runtime.IsIntrinsic/Lookup's own precedence.
func (e *Emitter) lowerCall(n *ast.Call) (lir.Value, types.Type, error) {
	if runtime.IsIntrinsic(n.Callee) {
		return e.lowerIntrinsic(n)
	}
	if lf, ok := e.userFuncs[n.Callee]; ok {
		return e.lowerUserCall(n, lf)
	}
	if lf, ok := e.rt.Lookup(n.Callee); ok {
		return e.lowerLibraryCall(n, lf)
	}
	return nil, types.Type{}, diag.New(n.LineNo, diag.Resolution, "call to undeclared function %q", n.Callee)
}

func (e *Emitter) lowerIntrinsic(n *ast.Call) (lir.Value, types.Type, error) {
	if len(n.Args) != 1 {
		return nil, types.Type{}, diag.New(n.LineNo, diag.LibraryErr, "vsum expects exactly 1 argument, got %d", len(n.Args))
	}
	v, t, err := e.lowerExpr(n.Args[0], sema.Value)
	if err != nil {
		return nil, types.Type{}, err
	}
	if !t.IsVector() {
		return nil, types.Type{}, diag.New(n.Args[0].Line(), diag.TypeErr, "vsum expects a vector argument, got %s", t)
	}
	result := types.Int()
	if t.VectorElemKind() == types.FloatK {
		result = types.Float()
	}
	return e.block.CreateVSum(v), result, nil
}

func (e *Emitter) lowerUserCall(n *ast.Call, lf *lir.Function) (lir.Value, types.Type, error) {
	fn := e.userAST[n.Callee]
	if len(n.Args) != len(fn.Params) {
		return nil, types.Type{}, sema.DescribeParamMismatch(n.LineNo, n.Callee, len(fn.Params), len(n.Args), false)
	}
	args := make([]lir.Value, len(n.Args))
	for i, a := range n.Args {
		p := fn.Params[i]
		if p.IsArray {
			ptr, err := e.lowerArrayArgExpr(a)
			if err != nil {
				return nil, types.Type{}, err
			}
			args[i] = ptr
			continue
		}
		v, vt, err := e.lowerExpr(a, sema.Value)
		if err != nil {
			return nil, types.Type{}, err
		}
		pt := baseType(p.Type)
		if err := sema.CheckAssignable(a.Line(), pt, vt); err != nil {
			return nil, types.Type{}, err
		}
		args[i] = e.coerceScalar(v, vt, pt)
	}
	call := e.block.CreateCall(lf, args)
	return call, baseType(fn.ReturnType), nil
}

func (e *Emitter) lowerLibraryCall(n *ast.Call, lf *lir.Function) (lir.Value, types.Type, error) {
	if runtime.NeedsLineArg(n.Callee) {
		if len(n.Args) != 0 {
			return nil, types.Type{}, diag.New(n.LineNo, diag.LibraryErr, "%s takes no arguments", n.Callee)
		}
		call := e.block.CreateCall(lf, []lir.Value{lir.CreateConstantInt(int32(n.LineNo))})
		return call, retTypeOf(lf.RetType), nil
	}

	declared := lf.Params
	if lf.Variadic {
		if len(n.Args) < len(declared) {
			return nil, types.Type{}, sema.DescribeParamMismatch(n.LineNo, n.Callee, len(declared), len(n.Args), true)
		}
	} else if len(n.Args) != len(declared) {
		return nil, types.Type{}, sema.DescribeParamMismatch(n.LineNo, n.Callee, len(declared), len(n.Args), false)
	}

	args := make([]lir.Value, 0, len(n.Args))
	for i, a := range n.Args {
		if i >= len(declared) {
			// Extra variadic argument (putf's format parameters). A
			// float arg would be promoted to double by the C calling
			// convention; this target has no double type (DESIGN.md
			// documents the deviation), so it is passed through as
			// evaluated, at its own width.
			v, _, err := e.lowerExpr(a, sema.Value)
			if err != nil {
				return nil, types.Type{}, err
			}
			args = append(args, v)
			continue
		}
		pdt := declared[i].DataType()
		if pdt.Kind == lirtypes.KPointer {
			// putf's format parameter is i8* but its argument is a
			// string literal, not an array lvalue: lower it directly
			// through the ordinary string-literal path instead of
			// forcing lvalue-array decay.
			if sl, ok := a.(*ast.StringLit); ok {
				v, _, err := e.lowerExpr(sl, sema.Value)
				if err != nil {
					return nil, types.Type{}, err
				}
				args = append(args, v)
				continue
			}
			ptr, err := e.lowerArrayArgExpr(a)
			if err != nil {
				return nil, types.Type{}, err
			}
			args = append(args, ptr)
			continue
		}
		v, vt, err := e.lowerExpr(a, sema.Value)
		if err != nil {
			return nil, types.Type{}, err
		}
		want := retTypeOf(pdt)
		if err := sema.CheckAssignable(a.Line(), want, vt); err != nil {
			return nil, types.Type{}, err
		}
		args = append(args, e.coerceScalar(v, vt, want))
	}
	call := e.block.CreateCall(lf, args)
	return call, retTypeOf(lf.RetType), nil
}

// lowerArrayArgExpr lowers a, which must be a bare or partially-indexed
// array lvalue, into the decayed pointer value a call argument expects
// (spec.md §4.5/§4.6's array-to-pointer decay at call boundaries).
func (e *Emitter) lowerArrayArgExpr(a ast.Expr) (lir.Value, error) {
	lv, ok := a.(*ast.LVal)
	if !ok {
		return nil, diag.New(a.Line(), diag.TypeErr, "expected an array reference")
	}
	addr, err := e.lowerLVal(lv)
	if err != nil {
		return nil, err
	}
	if addr.Kind != lvPointer || addr.Binding == nil || !addr.Binding.IsArray {
		return nil, diag.New(a.Line(), diag.TypeErr, "%q is not an array reference", lv.Name)
	}
	return e.decayArrayArg(addr), nil
}

func retTypeOf(dt lirtypes.DataType) types.Type {
	switch dt.Kind {
	case lirtypes.KVoid:
		return types.Void()
	case lirtypes.KFloat:
		return types.Float()
	default:
		return types.Int()
	}
}
