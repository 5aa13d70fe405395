// Package consteval is the pure integer evaluator of spec.md §4.2, used
// wherever the grammar syntactically requires a compile-time integer:
// array bounds and vector sizes. The teacher has no standalone
// analogue — hhramberg-go-vslc/src/ir/symtab.go evaluates bounds inline
// inside bind/setDataType — so this package is new code, split out as
// its own component per spec.md's explicit C3 boundary.
package consteval

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/lir"
	"sysyc/internal/symtab"
	"sysyc/internal/types"
)

// Eval evaluates e as a compile-time integer constant. It recognizes
// integer literals; references to global constants whose initializer is
// a 32-bit integer constant; and unary/binary integer arithmetic. Any
// other construct (float constants, non-const names, local names,
// division/modulo by zero) is an error.
func Eval(e ast.Expr, tab *symtab.Table) (int32, error) {
	switch n := e.(type) {
	case *ast.IntConst:
		return n.Value, nil
	case *ast.FloatConst:
		return 0, fmt.Errorf("line %d: expected integer constant, got float literal", n.Line())
	case *ast.LVal:
		if len(n.Indices) != 0 {
			return 0, fmt.Errorf("line %d: expected integer constant, got indexed reference to %q", n.Line(), n.Name)
		}
		b := tab.Lookup(n.Name)
		if b == nil {
			return 0, fmt.Errorf("line %d: undefined name %q in constant expression", n.Line(), n.Name)
		}
		if !b.Const {
			return 0, fmt.Errorf("line %d: %q is not a compile-time constant", n.Line(), n.Name)
		}
		if _, isGlobal := b.Value.(*lir.Global); !isGlobal {
			return 0, fmt.Errorf("line %d: %q is a local name, not a global constant", n.Line(), n.Name)
		}
		if b.IsArray || b.Type.Kind != types.IntK {
			return 0, fmt.Errorf("line %d: %q is not an integer constant", n.Line(), n.Name)
		}
		return b.ConstInt, nil
	case *ast.Unary:
		v, err := Eval(n.Operand, tab)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case ast.Plus:
			return v, nil
		case ast.Minus:
			return -v, nil
		default:
			return 0, fmt.Errorf("line %d: operator %s is not valid in a constant expression", n.Line(), n.Op)
		}
	case *ast.Binary:
		l, err := Eval(n.LHS, tab)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.RHS, tab)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case ast.Add:
			return l + r, nil
		case ast.Sub:
			return l - r, nil
		case ast.Mul:
			return l * r, nil
		case ast.Div:
			if r == 0 {
				return 0, fmt.Errorf("line %d: division by zero in constant expression", n.Line())
			}
			return l / r, nil
		case ast.Mod:
			if r == 0 {
				return 0, fmt.Errorf("line %d: modulo by zero in constant expression", n.Line())
			}
			return l % r, nil
		default:
			return 0, fmt.Errorf("line %d: operator %s is not valid in a constant expression", n.Line(), n.Op)
		}
	default:
		return 0, fmt.Errorf("line %d: not a compile-time integer constant", e.Line())
	}
}

// EvalDim evaluates a declared dimension/vector-size expression,
// additionally rejecting a negative result (spec.md §4: "vector size
// must be > 0"; array dimension "≥ 0").
func EvalDim(e ast.Expr, tab *symtab.Table, allowZero bool) (int, error) {
	v, err := Eval(e, tab)
	if err != nil {
		return 0, err
	}
	if v < 0 || (!allowZero && v == 0) {
		return 0, fmt.Errorf("line %d: dimension must be %s, got %d", e.Line(), boundDesc(allowZero), v)
	}
	return int(v), nil
}

func boundDesc(allowZero bool) string {
	if allowZero {
		return "non-negative"
	}
	return "positive"
}
