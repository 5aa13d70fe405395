// Package types classifies lowered expressions into the small closed
// lattice spec.md §4.4 names, and implements its numeric-promotion
// rules. Grounded on other_examples/MJDaws0n-Novus__semantic.go's Type
// struct and isAssignableTo/resolveNumericPair helpers, narrowed from
// Novus's nominal types down to SysY's fixed set.
package types

import "fmt"

// Kind is the classification of a lowered expression's type.
type Kind int

const (
	IntK Kind = iota
	FloatK
	VoidK
	VecIntK
	VecFloatK
	PointerK // pointer-to-element: partial array index, or array parameter decay
)

// Type is a classified expression type. Len is the vector length for
// VecIntK/VecFloatK, zero otherwise. Elem is the pointee element kind for
// PointerK (IntK or FloatK).
type Type struct {
	Kind Kind
	Len  int
	Elem Kind
}

func Int() Type   { return Type{Kind: IntK} }
func Float() Type { return Type{Kind: FloatK} }
func Void() Type  { return Type{Kind: VoidK} }
func VecInt(n int) Type   { return Type{Kind: VecIntK, Len: n} }
func VecFloat(n int) Type { return Type{Kind: VecFloatK, Len: n} }
func Pointer(elem Kind) Type { return Type{Kind: PointerK, Elem: elem} }

func (t Type) IsScalarNumeric() bool { return t.Kind == IntK || t.Kind == FloatK }
func (t Type) IsVector() bool        { return t.Kind == VecIntK || t.Kind == VecFloatK }
func (t Type) IsPointer() bool       { return t.Kind == PointerK }

func (t Type) String() string {
	switch t.Kind {
	case IntK:
		return "int"
	case FloatK:
		return "float"
	case VoidK:
		return "void"
	case VecIntK:
		return fmt.Sprintf("vector<int,%d>", t.Len)
	case VecFloatK:
		return fmt.Sprintf("vector<float,%d>", t.Len)
	case PointerK:
		if t.Elem == FloatK {
			return "float*"
		}
		return "int*"
	default:
		return "?"
	}
}

func (a Type) Equal(b Type) bool {
	return a.Kind == b.Kind && a.Len == b.Len && a.Elem == b.Elem
}

// ResolveNumericPair implements spec.md §4.4's scalar-arithmetic
// promotion: if both are int, the result is int; if either is float,
// both operands coerce to float. Panics if either type is not scalar
// numeric — callers must check IsScalarNumeric first.
func ResolveNumericPair(a, b Type) Type {
	if a.Kind != IntK && a.Kind != FloatK {
		panic("ResolveNumericPair: non-numeric operand")
	}
	if b.Kind != IntK && b.Kind != FloatK {
		panic("ResolveNumericPair: non-numeric operand")
	}
	if a.Kind == FloatK || b.Kind == FloatK {
		return Float()
	}
	return Int()
}

// AssignableScalar reports whether a value of type src may be converted
// to the scalar type dst by spec.md §4.4's assignment/return coercion
// (int<->float allowed, anything involving a vector or pointer is not).
func AssignableScalar(dst, src Type) bool {
	if dst.Kind != IntK && dst.Kind != FloatK {
		return false
	}
	return src.Kind == IntK || src.Kind == FloatK
}

// VectorElemKind returns the element Kind (IntK or FloatK) of a vector
// type.
func (t Type) VectorElemKind() Kind {
	if t.Kind == VecIntK {
		return IntK
	}
	return FloatK
}
