// Package fold implements the Constant Folder of spec.md §4.1: a
// fixed-point, in-place rewrite over the AST, bounded at 8 passes.
// Grounded on hhramberg-go-vslc/src/ir/optimise.go's constantFolding
// traversal shape, corrected per spec.md §4.1: 32-bit wraparound integer
// arithmetic (enforced here by using Go's fixed-width int32, which wraps
// the same way the teacher's native Go int does not), no mixed int/float
// folding (the teacher folds mixed pairs; this folder does not), and
// float modulo never folding (see DESIGN.md's Open Question 1 — the
// original's unconditional fold-to-0.0 is a stub, not reproduced;
// instead the unfolded node survives to internal/sema, which rejects it).
package fold

import "sysyc/internal/ast"

const maxPasses = 8

// CompUnit runs the fixed-point folder over cu until a pass makes no
// further change, or maxPasses is reached.
func CompUnit(cu *ast.CompUnit) {
	for i := 0; i < maxPasses; i++ {
		changed := false
		for _, d := range cu.Decls {
			if foldDecl(d) {
				changed = true
			}
		}
		for _, f := range cu.Funcs {
			if foldStmt(f.Body) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func foldDecl(d ast.Decl) bool {
	changed := false
	switch n := d.(type) {
	case *ast.VarDecl:
		for _, def := range n.Defs {
			if def.Init != nil && foldInitVal(def.Init) {
				changed = true
			}
		}
	case *ast.ConstDecl:
		for _, def := range n.Defs {
			if foldInitVal(def.Init) {
				changed = true
			}
		}
	}
	return changed
}

func foldInitVal(iv ast.InitVal) bool {
	switch n := iv.(type) {
	case *ast.ExprInitVal:
		ne, c := foldExpr(n.Expr)
		if c {
			n.Expr = ne
		}
		return c
	case *ast.ListInitVal:
		changed := false
		for _, item := range n.Items {
			if foldInitVal(item) {
				changed = true
			}
		}
		return changed
	}
	return false
}

func foldStmt(s ast.Stmt) bool {
	if s == nil {
		return false
	}
	changed := false
	switch n := s.(type) {
	case *ast.AssignStmt:
		ne, c := foldExpr(n.Expr)
		if c {
			n.Expr = ne
			changed = true
		}
		for i, idx := range n.LVal.Indices {
			ni, c2 := foldExpr(idx)
			if c2 {
				n.LVal.Indices[i] = ni
				changed = true
			}
		}
	case *ast.ExprStmt:
		if n.Expr != nil {
			ne, c := foldExpr(n.Expr)
			if c {
				n.Expr = ne
				changed = true
			}
		}
	case *ast.ReturnStmt:
		if n.Value != nil {
			ne, c := foldExpr(n.Value)
			if c {
				n.Value = ne
				changed = true
			}
		}
	case *ast.IfStmt:
		ne, c := foldExpr(n.Cond)
		if c {
			n.Cond = ne
			changed = true
		}
		if foldStmt(n.Then) {
			changed = true
		}
		if n.Else != nil && foldStmt(n.Else) {
			changed = true
		}
	case *ast.WhileStmt:
		ne, c := foldExpr(n.Cond)
		if c {
			n.Cond = ne
			changed = true
		}
		if foldStmt(n.Body) {
			changed = true
		}
	case *ast.Block:
		for _, item := range n.Items {
			switch bi := item.(type) {
			case *ast.DeclItem:
				if foldDecl(bi.Decl) {
					changed = true
				}
			case *ast.StmtItem:
				if foldStmt(bi.Stmt) {
					changed = true
				}
			}
		}
	}
	return changed
}

// foldExpr returns the (possibly replaced) expression and whether
// anything changed beneath or at e.
func foldExpr(e ast.Expr) (ast.Expr, bool) {
	switch n := e.(type) {
	case *ast.IntConst, *ast.FloatConst, *ast.StringLit:
		return e, false
	case *ast.LVal:
		changed := false
		for i, idx := range n.Indices {
			ni, c := foldExpr(idx)
			if c {
				n.Indices[i] = ni
				changed = true
			}
		}
		return n, changed
	case *ast.Unary:
		operand, c := foldExpr(n.Operand)
		if c {
			n.Operand = operand
		}
		if ic, ok := operand.(*ast.IntConst); ok {
			return &ast.IntConst{Value: EvalUnaryInt(n.Op, ic.Value), LineNo: n.LineNo}, true
		}
		if fc, ok := operand.(*ast.FloatConst); ok {
			return &ast.FloatConst{Value: EvalUnaryFloat(n.Op, fc.Value), LineNo: n.LineNo}, true
		}
		return n, c
	case *ast.Binary:
		lhs, lc := foldExpr(n.LHS)
		rhs, rc := foldExpr(n.RHS)
		changed := lc || rc
		if changed {
			n.LHS, n.RHS = lhs, rhs
		}
		if li, ok := lhs.(*ast.IntConst); ok {
			if ri, ok := rhs.(*ast.IntConst); ok {
				return &ast.IntConst{Value: EvalBinaryInt(n.Op, li.Value, ri.Value), LineNo: n.LineNo}, true
			}
		}
		if lf, ok := lhs.(*ast.FloatConst); ok {
			if rf, ok := rhs.(*ast.FloatConst); ok && n.Op != ast.Mod {
				return &ast.FloatConst{Value: EvalBinaryFloat(n.Op, lf.Value, rf.Value), LineNo: n.LineNo}, true
			}
		}
		return n, changed
	case *ast.Call:
		changed := false
		for i, a := range n.Args {
			na, c := foldExpr(a)
			if c {
				n.Args[i] = na
				changed = true
			}
		}
		return n, changed
	default:
		return e, false
	}
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func b2f(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func EvalUnaryInt(op ast.UnaryOp, v int32) int32 {
	switch op {
	case ast.Plus:
		return v
	case ast.Minus:
		return -v
	case ast.Not:
		return b2i(v == 0)
	default:
		return v
	}
}

func EvalUnaryFloat(op ast.UnaryOp, v float32) float32 {
	switch op {
	case ast.Plus:
		return v
	case ast.Minus:
		return -v
	case ast.Not:
		return b2f(v == 0)
	default:
		return v
	}
}

func EvalBinaryInt(op ast.BinaryOp, l, r int32) int32 {
	switch op {
	case ast.Add:
		return l + r
	case ast.Sub:
		return l - r
	case ast.Mul:
		return l * r
	case ast.Div:
		if r == 0 {
			return 0
		}
		return l / r
	case ast.Mod:
		if r == 0 {
			return 0
		}
		return l % r
	case ast.Lt:
		return b2i(l < r)
	case ast.Gt:
		return b2i(l > r)
	case ast.Le:
		return b2i(l <= r)
	case ast.Ge:
		return b2i(l >= r)
	case ast.Eq:
		return b2i(l == r)
	case ast.Ne:
		return b2i(l != r)
	case ast.And:
		return b2i(l != 0 && r != 0)
	case ast.Or:
		return b2i(l != 0 || r != 0)
	default:
		return 0
	}
}

func EvalBinaryFloat(op ast.BinaryOp, l, r float32) float32 {
	switch op {
	case ast.Add:
		return l + r
	case ast.Sub:
		return l - r
	case ast.Mul:
		return l * r
	case ast.Div:
		if r == 0 {
			return 0
		}
		return l / r
	case ast.Lt:
		return b2f(l < r)
	case ast.Gt:
		return b2f(l > r)
	case ast.Le:
		return b2f(l <= r)
	case ast.Ge:
		return b2f(l >= r)
	case ast.Eq:
		return b2f(l == r)
	case ast.Ne:
		return b2f(l != r)
	case ast.And:
		return b2f(l != 0 && r != 0)
	case ast.Or:
		return b2f(l != 0 || r != 0)
	default:
		return 0
	}
}
