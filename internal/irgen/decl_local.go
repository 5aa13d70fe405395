package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/consteval"
	"sysyc/internal/diag"
	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
	"sysyc/internal/sema"
	"sysyc/internal/symtab"
	"sysyc/internal/types"
)

// localDecl lowers one VarDecl/ConstDecl appearing inside a function
// body: the cell is allocated and, if there is an initializer, filled by
// run-time instructions (spec.md §4.5), unlike a global's constant
// initializer.
func (e *Emitter) localDecl(d ast.Decl) error {
	switch n := d.(type) {
	case *ast.VarDecl:
		for _, def := range n.Defs {
			if err := e.localDef(n.Type, def.Name, def.Dims, def.Init, false, def.LineNo); err != nil {
				return err
			}
		}
	case *ast.ConstDecl:
		for _, def := range n.Defs {
			if err := e.localDef(n.Type, def.Name, def.Dims, def.Init, true, def.LineNo); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Emitter) localDef(ts *ast.TypeSpec, name string, dimExprs []ast.Expr, init ast.InitVal, isConst bool, line int) error {
	b := &symtab.Binding{Name: name, Const: isConst, ElemKind: baseKind(ts.Elem)}

	if ts.Vector {
		sizes, err := evalDims([]ast.Expr{ts.VecSize}, e.tab)
		if err != nil {
			return err
		}
		vecLen := sizes[0]
		if vecLen <= 0 {
			return diag.New(ts.LineNo, diag.Shape, "vector size must be positive, got %d", vecLen)
		}
		if ts.Elem == ast.Float {
			b.Type = types.VecFloat(vecLen)
		} else {
			b.Type = types.VecInt(vecLen)
		}
		dt := lirtypes.VectorOf(scalarLIR(b.ElemKind), vecLen)
		cell := e.block.CreateDeclare(name, dt)
		b.Value = cell
		if err := e.tab.Insert(b); err != nil {
			return diag.New(line, diag.Resolution, "%s", err)
		}
		if init != nil {
			return e.fillLocalAgg(cell, dt, init)
		}
		return nil
	}

	dims, err := evalDims(dimExprs, e.tab)
	if err != nil {
		return err
	}
	scalarDT := scalarLIR(b.ElemKind)

	if len(dims) == 0 {
		b.Type = baseType(ts.Elem)
		cell := e.block.CreateDeclare(name, scalarDT)
		b.Value = cell
		if isConst && init != nil {
			if ev, ok := init.(*ast.ExprInitVal); ok {
				if v, cerr := consteval.Eval(ev.Expr, e.tab); cerr == nil {
					b.ConstInt, b.ConstFloat = v, float32(v)
				}
			}
		}
		if err := e.tab.Insert(b); err != nil {
			return diag.New(line, diag.Resolution, "%s", err)
		}
		if init != nil {
			ev, ok := init.(*ast.ExprInitVal)
			if !ok {
				return diag.New(line, diag.Shape, "%q is scalar but was given a list initializer", name)
			}
			v, vt, err := e.lowerExpr(ev.Expr, sema.Value)
			if err != nil {
				return err
			}
			if err := sema.CheckAssignable(line, b.Type, vt); err != nil {
				return err
			}
			v = e.coerceScalar(v, vt, b.Type)
			e.block.CreateStore(v, cell)
		}
		return nil
	}

	b.IsArray = true
	b.ArrayDims = dims
	b.Rank = len(dims)
	b.Type = types.Pointer(b.ElemKind)
	dt := buildArrayType(scalarDT, dims)
	cell := e.block.CreateDeclare(name, dt)
	b.Value = cell
	if err := e.tab.Insert(b); err != nil {
		return diag.New(line, diag.Resolution, "%s", err)
	}
	if init != nil {
		return e.fillLocalAgg(cell, dt, init)
	}
	return nil
}

// fillLocalAgg stores an array/vector initializer's elements into cell,
// one Store per consumed leaf, following the same flat/nested
// consumption rule as a global's constant aggregate (see
// internal/irgen/decl_global.go's fillAgg), but with run-time expressions
// rather than folded constants. Trailing array elements are zero-filled;
// vector lanes past the supplied elements are left unwritten.
func (e *Emitter) fillLocalAgg(cell lir.Value, dt lirtypes.DataType, init ast.InitVal) error {
	lst, ok := init.(*ast.ListInitVal)
	if !ok {
		return diag.New(init.Line(), diag.Shape, "expected a list initializer for an array/vector")
	}
	idx := 0
	return e.fillLocalAggRec(cell, dt, lst.Items, &idx)
}

func (e *Emitter) fillLocalAggRec(ptr lir.Value, dt lirtypes.DataType, items []ast.InitVal, idx *int) error {
	if dt.Kind != lirtypes.KArray && dt.Kind != lirtypes.KVector {
		if *idx >= len(items) {
			e.block.CreateStore(zeroAgg(dt), ptr)
			return nil
		}
		iv := items[*idx]
		ev, ok := iv.(*ast.ExprInitVal)
		if !ok {
			return diag.New(iv.Line(), diag.Shape, "nested initializer where a scalar element was expected")
		}
		*idx++
		elemClass := elemClassOfDT(dt)
		v, vt, err := e.lowerExpr(ev.Expr, sema.Value)
		if err != nil {
			return err
		}
		if err := sema.CheckAssignable(ev.Line(), elemClass, vt); err != nil {
			return err
		}
		v = e.coerceScalar(v, vt, elemClass)
		e.block.CreateStore(v, ptr)
		return nil
	}

	elemDT := *dt.Elem
	for i := 0; i < dt.Len; i++ {
		if dt.Kind == lirtypes.KVector {
			// A vector local is filled lane by lane through
			// load/insert/store, since a vector has no addressable
			// single-lane cell the way an array element has a GEP target.
			if *idx >= len(items) {
				continue
			}
			ev, ok := items[*idx].(*ast.ExprInitVal)
			if !ok {
				return diag.New(items[*idx].Line(), diag.Shape, "vector initializer elements must be scalar expressions")
			}
			*idx++
			elemClass := elemClassOfDT(elemDT)
			v, vt, err := e.lowerExpr(ev.Expr, sema.Value)
			if err != nil {
				return err
			}
			if err := sema.CheckAssignable(ev.Line(), elemClass, vt); err != nil {
				return err
			}
			v = e.coerceScalar(v, vt, elemClass)
			vec := e.block.CreateLoad(ptr)
			ins := e.block.CreateVecInsert(vec, v, lir.CreateConstantInt(int32(i)))
			e.block.CreateStore(ins, ptr)
			continue
		}

		idxv := lir.CreateConstantInt(int32(i))
		elemPtr := e.block.CreateGEP(ptr, []lir.Value{lir.CreateConstantInt(0), idxv}, elemDT)
		if *idx < len(items) {
			if lst, ok := items[*idx].(*ast.ListInitVal); ok && (elemDT.Kind == lirtypes.KArray || elemDT.Kind == lirtypes.KVector) {
				*idx++
				sub := 0
				if err := e.fillLocalAggRec(elemPtr, elemDT, lst.Items, &sub); err != nil {
					return err
				}
				continue
			}
		}
		if err := e.fillLocalAggRec(elemPtr, elemDT, items, idx); err != nil {
			return err
		}
	}
	return nil
}

func elemClassOfDT(dt lirtypes.DataType) types.Type {
	if dt.Kind == lirtypes.KFloat {
		return types.Float()
	}
	return types.Int()
}
