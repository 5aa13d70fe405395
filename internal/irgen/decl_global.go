package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/fold"
	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
	"sysyc/internal/symtab"
	"sysyc/internal/types"
)

// globalDecl lowers one top-level VarDecl/ConstDecl, per spec.md §4.5:
// every global's initializer (if any) must itself be a compile-time
// constant, built here into a *lir.Constant rather than emitted as
// run-time instructions.
func (e *Emitter) globalDecl(d ast.Decl) error {
	switch n := d.(type) {
	case *ast.VarDecl:
		for _, def := range n.Defs {
			if err := e.globalDef(n.Type, def.Name, def.Dims, def.Init, false, def.LineNo); err != nil {
				return err
			}
		}
	case *ast.ConstDecl:
		for _, def := range n.Defs {
			if err := e.globalDef(n.Type, def.Name, def.Dims, def.Init, true, def.LineNo); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Emitter) globalDef(ts *ast.TypeSpec, name string, dimExprs []ast.Expr, init ast.InitVal, isConst bool, line int) error {
	if e.tab.Lookup(name) != nil {
		return diag.New(line, diag.Resolution, "redeclaration of %q", name)
	}

	b := &symtab.Binding{Name: name, Const: isConst, ElemKind: baseKind(ts.Elem)}

	if ts.Vector {
		n, err := evalDims([]ast.Expr{ts.VecSize}, e.tab)
		if err != nil {
			return err
		}
		vecLen := n[0]
		if vecLen <= 0 {
			return diag.New(ts.LineNo, diag.Shape, "vector size must be positive, got %d", vecLen)
		}
		if len(dimExprs) != 0 {
			return diag.New(line, diag.Shape, "%q combines a vector type with array dimensions", name)
		}
		var ct types.Type
		if ts.Elem == ast.Float {
			ct = types.VecFloat(vecLen)
		} else {
			ct = types.VecInt(vecLen)
		}
		b.Type = ct
		dt := lirtypes.VectorOf(scalarLIR(b.ElemKind), vecLen)
		var c *lir.Constant
		if init != nil {
			var err error
			c, err = e.globalAggInit(dt, init)
			if err != nil {
				return err
			}
		}
		g := e.m.CreateGlobal(name, dt, isConst, linkageOf(isConst), c)
		b.Value = g
		return e.tab.Insert(b)
	}

	dims, err := evalDims(dimExprs, e.tab)
	if err != nil {
		return err
	}
	scalarDT := scalarLIR(b.ElemKind)

	if len(dims) == 0 {
		b.Type = baseType(ts.Elem)
		var c *lir.Constant
		if init != nil {
			ev, ok := init.(*ast.ExprInitVal)
			if !ok {
				return diag.New(line, diag.Shape, "%q is scalar but was given a list initializer", name)
			}
			lit, err := e.resolveConstLiteral(ev.Expr)
			if err != nil {
				return err
			}
			c, err = literalToConstant(scalarDT, lit)
			if err != nil {
				return err
			}
			switch lv := lit.(type) {
			case *ast.IntConst:
				b.ConstInt, b.ConstFloat = lv.Value, float32(lv.Value)
			case *ast.FloatConst:
				b.ConstInt, b.ConstFloat = int32(lv.Value), lv.Value
			}
		}
		g := e.m.CreateGlobal(name, scalarDT, isConst, linkageOf(isConst), c)
		b.Value = g
		return e.tab.Insert(b)
	}

	b.IsArray = true
	b.ArrayDims = dims
	b.Rank = len(dims)
	b.Type = types.Pointer(b.ElemKind)
	dt := buildArrayType(scalarDT, dims)
	var c *lir.Constant
	if init != nil {
		c, err = e.globalAggInit(dt, init)
		if err != nil {
			return err
		}
	}
	g := e.m.CreateGlobal(name, dt, isConst, linkageOf(isConst), c)
	b.Value = g
	return e.tab.Insert(b)
}

func linkageOf(isConst bool) lir.Linkage {
	// All globals are module-internal; only functions vary linkage
	// (external for main and the runtime library), per spec.md §3.
	return lir.Internal
}

// resolveConstLiteral folds expr down to a literal *ast.IntConst or
// *ast.FloatConst, additionally resolving references to other global
// constants — the one thing internal/fold's pure-literal folder does not
// do, since it never performs symbol propagation.
func (e *Emitter) resolveConstLiteral(expr ast.Expr) (ast.Expr, error) {
	switch n := expr.(type) {
	case *ast.IntConst, *ast.FloatConst:
		return n, nil
	case *ast.LVal:
		if len(n.Indices) != 0 {
			return nil, diag.New(n.LineNo, diag.TypeErr, "%q is not a compile-time constant", n.Name)
		}
		b := e.tab.Lookup(n.Name)
		if b == nil {
			return nil, diag.New(n.LineNo, diag.Resolution, "undefined name %q", n.Name)
		}
		if !b.Const || b.IsArray || b.Type.IsVector() {
			return nil, diag.New(n.LineNo, diag.TypeErr, "%q is not a compile-time constant", n.Name)
		}
		if b.ElemKind == types.FloatK {
			return &ast.FloatConst{Value: b.ConstFloat, LineNo: n.LineNo}, nil
		}
		return &ast.IntConst{Value: b.ConstInt, LineNo: n.LineNo}, nil
	case *ast.Unary:
		operand, err := e.resolveConstLiteral(n.Operand)
		if err != nil {
			return nil, err
		}
		if ic, ok := operand.(*ast.IntConst); ok {
			return &ast.IntConst{Value: fold.EvalUnaryInt(n.Op, ic.Value), LineNo: n.LineNo}, nil
		}
		fc := operand.(*ast.FloatConst)
		return &ast.FloatConst{Value: fold.EvalUnaryFloat(n.Op, fc.Value), LineNo: n.LineNo}, nil
	case *ast.Binary:
		l, err := e.resolveConstLiteral(n.LHS)
		if err != nil {
			return nil, err
		}
		r, err := e.resolveConstLiteral(n.RHS)
		if err != nil {
			return nil, err
		}
		li, lok := l.(*ast.IntConst)
		ri, rok := r.(*ast.IntConst)
		if lok && rok {
			return &ast.IntConst{Value: fold.EvalBinaryInt(n.Op, li.Value, ri.Value), LineNo: n.LineNo}, nil
		}
		lf, lfok := l.(*ast.FloatConst)
		rf, rfok := r.(*ast.FloatConst)
		if lfok && rfok {
			if n.Op == ast.Mod {
				return nil, diag.New(n.LineNo, diag.TypeErr, "modulo is not defined over float operands")
			}
			return &ast.FloatConst{Value: fold.EvalBinaryFloat(n.Op, lf.Value, rf.Value), LineNo: n.LineNo}, nil
		}
		return nil, diag.New(n.LineNo, diag.TypeErr, "mixed int/float operands in a compile-time constant expression")
	default:
		return nil, diag.New(expr.Line(), diag.TypeErr, "not a compile-time constant")
	}
}

func literalToConstant(dt lirtypes.DataType, lit ast.Expr) (*lir.Constant, error) {
	switch n := lit.(type) {
	case *ast.IntConst:
		if dt.Kind == lirtypes.KFloat {
			return lir.CreateConstantFloat(float32(n.Value)), nil
		}
		return lir.CreateConstantInt(n.Value), nil
	case *ast.FloatConst:
		if dt.Kind == lirtypes.KInt {
			return lir.CreateConstantInt(int32(n.Value)), nil
		}
		return lir.CreateConstantFloat(n.Value), nil
	}
	return nil, diag.New(lit.Line(), diag.TypeErr, "not a literal initializer")
}

func zeroAgg(dt lirtypes.DataType) *lir.Constant {
	if dt.Kind == lirtypes.KArray || dt.Kind == lirtypes.KVector {
		elems := make([]*lir.Constant, dt.Len)
		for i := range elems {
			elems[i] = zeroAgg(*dt.Elem)
		}
		return lir.CreateConstantAggregate(dt, elems)
	}
	return lir.ZeroOf(dt)
}

// globalAggInit builds a constant array/vector initializer per spec.md
// §4.5's flat/nested consumption rule: a nested ListInitVal at a level
// whose element type is itself an aggregate starts a fresh, independent
// cursor over its own items; anything else continues consuming the
// enclosing flat stream. Missing trailing elements are zero-filled.
func (e *Emitter) globalAggInit(dt lirtypes.DataType, init ast.InitVal) (*lir.Constant, error) {
	lst, ok := init.(*ast.ListInitVal)
	if !ok {
		return nil, diag.New(init.Line(), diag.Shape, "expected a list initializer for an array/vector")
	}
	idx := 0
	return e.fillAgg(dt, lst.Items, &idx)
}

func (e *Emitter) fillAgg(dt lirtypes.DataType, items []ast.InitVal, idx *int) (*lir.Constant, error) {
	if dt.Kind != lirtypes.KArray && dt.Kind != lirtypes.KVector {
		if *idx >= len(items) {
			return zeroAgg(dt), nil
		}
		iv := items[*idx]
		ev, ok := iv.(*ast.ExprInitVal)
		if !ok {
			return nil, diag.New(iv.Line(), diag.Shape, "nested initializer where a scalar element was expected")
		}
		*idx++
		lit, err := e.resolveConstLiteral(ev.Expr)
		if err != nil {
			return nil, err
		}
		return literalToConstant(dt, lit)
	}
	elemDT := *dt.Elem
	elems := make([]*lir.Constant, dt.Len)
	for i := 0; i < dt.Len; i++ {
		if *idx >= len(items) {
			elems[i] = zeroAgg(elemDT)
			continue
		}
		if lst, ok := items[*idx].(*ast.ListInitVal); ok && (elemDT.Kind == lirtypes.KArray || elemDT.Kind == lirtypes.KVector) {
			*idx++
			sub := 0
			c, err := e.fillAgg(elemDT, lst.Items, &sub)
			if err != nil {
				return nil, err
			}
			elems[i] = c
		} else {
			c, err := e.fillAgg(elemDT, items, idx)
			if err != nil {
				return nil, err
			}
			elems[i] = c
		}
	}
	return lir.CreateConstantAggregate(dt, elems), nil
}
