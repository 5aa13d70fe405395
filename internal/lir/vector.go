package lir

import (
	"fmt"

	"sysyc/internal/lir/types"
)

// VecSplat broadcasts a scalar to every lane of a fixed-length vector,
// per spec.md's "Splat" (vector-op-with-scalar broadcast, §4.4).
type VecSplat struct {
	base
	Scalar Value
}

func (*VecSplat) Kind() types.InstructionType { return types.TVecSplat }
func (v *VecSplat) String() string {
	return fmt.Sprintf("%%%d = vsplat %s to %s", v.id, v.Scalar.String(), v.dt)
}

func (b *Block) CreateVecSplat(scalar Value, n int) *VecSplat {
	var dt types.DataType
	if scalar.DataType().Kind == types.KFloat {
		dt = types.VectorOf(types.Float(), n)
	} else {
		dt = types.VectorOf(types.Int(), n)
	}
	v := &VecSplat{base: base{id: b.nextID(), dt: dt}, Scalar: scalar}
	b.append(v)
	return v
}

// VecInsert returns a new vector equal to Vec with lane Idx replaced by
// Elem, used to lower "v[i] = x" as load-vector/insert/store-vector
// (spec.md §4.6: "vector-element assignment is lowered as load-vector,
// insert-element, store-vector").
type VecInsert struct {
	base
	Vec  Value
	Elem Value
	Idx  Value
}

func (*VecInsert) Kind() types.InstructionType { return types.TVecInsert }
func (v *VecInsert) String() string {
	return fmt.Sprintf("%%%d = vinsert %s, %s, %s", v.id, v.Vec.String(), v.Elem.String(), v.Idx.String())
}

func (b *Block) CreateVecInsert(vec, elem, idx Value) *VecInsert {
	v := &VecInsert{base: base{id: b.nextID(), dt: vec.DataType()}, Vec: vec, Elem: elem, Idx: idx}
	b.append(v)
	return v
}

// VecExtract reads lane Idx of Vec.
type VecExtract struct {
	base
	Vec Value
	Idx Value
}

func (*VecExtract) Kind() types.InstructionType { return types.TVecExtract }
func (v *VecExtract) String() string {
	return fmt.Sprintf("%%%d = vextract %s, %s", v.id, v.Vec.String(), v.Idx.String())
}

func (b *Block) CreateVecExtract(vec, idx Value) *VecExtract {
	v := &VecExtract{base: base{id: b.nextID(), dt: *vec.DataType().Elem}, Vec: vec, Idx: idx}
	b.append(v)
	return v
}

// VSum reduces a vector to the scalar sum of its lanes, implementing the
// built-in vsum(v) intrinsic of spec.md §4.7.
type VSum struct {
	base
	Vec Value
}

func (*VSum) Kind() types.InstructionType { return types.TVSum }
func (v *VSum) String() string {
	return fmt.Sprintf("%%%d = vsum %s", v.id, v.Vec.String())
}

func (b *Block) CreateVSum(vec Value) *VSum {
	v := &VSum{base: base{id: b.nextID(), dt: *vec.DataType().Elem}, Vec: vec}
	b.append(v)
	return v
}
