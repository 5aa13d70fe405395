package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/sema"
	"sysyc/internal/symtab"
	"sysyc/internal/types"
)

// emitFunction lowers f's body into lf's blocks: the entry block binds
// every parameter (a scalar parameter gets a declared cell initialized
// from its incoming value, since it is a reassignable local; an array
// parameter's binding carries the incoming pointer value directly, per
// symtab.Binding.Decayed's doc comment), then lowers the body statement
// list, closing any still-open path with CheckReturn's undefined-value
// rule (spec.md §7), then runs sema.CheckFunctionReturns purely as an
// advisory diagnostic over the completed body.
func (e *Emitter) emitFunction(f *ast.Function) error {
	lf := e.userFuncs[f.Name]
	if len(lf.Blocks) > 0 {
		return nil // a runtime-library declaration, never given a body
	}

	e.fn = f
	e.lfn = lf
	e.tab.Push()
	defer e.tab.Pop()

	entry := lf.CreateBlock(e.label("entry"))
	e.block = entry

	for i, p := range f.Params {
		lp := lf.Params[i]
		b := &symtab.Binding{Name: p.Name, ElemKind: baseKind(p.Type)}
		if p.IsArray {
			dims, err := evalDims(p.Dims, e.tab)
			if err != nil {
				return err
			}
			b.Type = types.Pointer(b.ElemKind)
			b.IsArray = true
			b.ArrayDims = dims
			b.Rank = len(dims) + 1
			b.Decayed = true
			b.Value = lp
		} else {
			b.Type = baseType(p.Type)
			cell := e.block.CreateDeclare(p.Name, scalarLIR(b.ElemKind))
			e.block.CreateStore(lp, cell)
			b.Value = cell
		}
		if err := e.tab.Insert(b); err != nil {
			return diag.New(p.LineNo, diag.Resolution, "%s", err)
		}
	}

	if err := e.lowerBlockBody(f.Body); err != nil {
		return err
	}
	if !e.block.Terminated() {
		if err := e.lowerStmt(&ast.ReturnStmt{LineNo: f.LineNo}); err != nil {
			return err
		}
	}
	if baseType(f.ReturnType).Kind != types.VoidK && !sema.CheckFunctionReturns(f) {
		diag.Info("%s:%d: function %q falls off the end of a non-void body; that path returns an undefined value", e.m.Name, f.LineNo, f.Name)
	}
	return nil
}
