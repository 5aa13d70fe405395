package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/lir"
	"sysyc/internal/types"
)

// lowerVectorBinary lowers an arithmetic operator between two operands
// of which at least one is a vector, per spec.md §4.4: a vector-vector
// pair of identical type is applied lane-wise by a single instruction
// over the whole vector; a scalar paired with a vector is first
// broadcast ("splatted") to the vector's length, widening int->float if
// the vector is float, then the same lane-wise instruction applies.
func (e *Emitter) lowerVectorBinary(op ast.BinaryOp, lv lir.Value, lt types.Type, rv lir.Value, rt types.Type, result types.Type) lir.Value {
	if !lt.IsVector() {
		lv = e.splatTo(lv, lt, result)
	}
	if !rt.IsVector() {
		rv = e.splatTo(rv, rt, result)
	}
	return e.lowerArith(op, lv, rv)
}

func (e *Emitter) splatTo(scalar lir.Value, have types.Type, vecType types.Type) lir.Value {
	if vecType.VectorElemKind() == types.FloatK {
		scalar = e.coerceScalar(scalar, have, types.Float())
	}
	return e.block.CreateVecSplat(scalar, vecType.Len)
}
