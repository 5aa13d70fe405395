package fold

import (
	"testing"

	"sysyc/internal/ast"
)

// TestFoldIdempotence verifies spec.md §8's fold-idempotence invariant: a
// second call to CompUnit against an already-folded tree makes no
// further change (CompUnit's own fixed-point loop notwithstanding, the
// result it leaves behind must itself be a fixed point).
func TestFoldIdempotence(t *testing.T) {
	cu := constExpr(&ast.Binary{
		Op:  ast.Add,
		LHS: &ast.IntConst{Value: 3},
		RHS: &ast.Binary{Op: ast.Mul, LHS: &ast.IntConst{Value: 4}, RHS: &ast.IntConst{Value: 2}},
	})
	CompUnit(cu)
	first := dumpInt(t, cu)
	CompUnit(cu)
	second := dumpInt(t, cu)
	if first != second {
		t.Fatalf("fold not idempotent: first pass gave %d, second gave %d", first, second)
	}
	if first != 11 {
		t.Fatalf("expected 3+4*2 to fold to 11, got %d", first)
	}
}

// TestFoldIntegerArithmetic covers spec.md §8's integer-fold-correctness
// invariant: 32-bit two's-complement wraparound, and division/modulo by
// zero folding to 0 rather than panicking.
func TestFoldIntegerArithmetic(t *testing.T) {
	cases := []struct {
		name string
		expr ast.Expr
		want int32
	}{
		{"wraparound", &ast.Binary{Op: ast.Add, LHS: &ast.IntConst{Value: 2147483647}, RHS: &ast.IntConst{Value: 1}}, -2147483648},
		{"div-by-zero", &ast.Binary{Op: ast.Div, LHS: &ast.IntConst{Value: 7}, RHS: &ast.IntConst{Value: 0}}, 0},
		{"mod-by-zero", &ast.Binary{Op: ast.Mod, LHS: &ast.IntConst{Value: 7}, RHS: &ast.IntConst{Value: 0}}, 0},
		{"mod-nonzero", &ast.Binary{Op: ast.Mod, LHS: &ast.IntConst{Value: 7}, RHS: &ast.IntConst{Value: 3}}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cu := constExpr(c.expr)
			CompUnit(cu)
			got := dumpInt(t, cu)
			if got != c.want {
				t.Fatalf("got %d, want %d", got, c.want)
			}
		})
	}
}

// TestFoldSkipsFloatModulo pins the Open Question 1 decision: float %
// never folds (and so is left for internal/sema to reject), rather than
// the original's stubbed fold-to-zero.
func TestFoldSkipsFloatModulo(t *testing.T) {
	cu := constExpr(&ast.Binary{Op: ast.Mod, LHS: &ast.FloatConst{Value: 7}, RHS: &ast.FloatConst{Value: 2}})
	CompUnit(cu)
	def := cu.Decls[0].(*ast.ConstDecl).Defs[0]
	if _, ok := def.Init.(*ast.ExprInitVal).Expr.(*ast.FloatConst); ok {
		t.Fatalf("float modulo folded; expected it to survive unfolded")
	}
}

// constExpr builds a one-constant CompUnit "const int n = <expr>;" (or
// float, inferred from the leaf node types) to drive the folder without
// a parser.
func constExpr(e ast.Expr) *ast.CompUnit {
	return &ast.CompUnit{
		Decls: []ast.Decl{
			&ast.ConstDecl{
				Type: &ast.TypeSpec{Elem: ast.Int},
				Defs: []*ast.ConstDef{{Name: "n", Init: &ast.ExprInitVal{Expr: e}}},
			},
		},
	}
}

func dumpInt(t *testing.T, cu *ast.CompUnit) int32 {
	t.Helper()
	def := cu.Decls[0].(*ast.ConstDecl).Defs[0]
	ic, ok := def.Init.(*ast.ExprInitVal).Expr.(*ast.IntConst)
	if !ok {
		t.Fatalf("expected a folded *ast.IntConst, got %T", def.Init.(*ast.ExprInitVal).Expr)
	}
	return ic.Value
}
