package lir

import (
	"fmt"

	"sysyc/internal/lir/types"
)

// BinOp covers the arithmetic and bitwise binary instructions: add, sub,
// mul, div, rem, and, or, xor, lshift, rshift. Grounded on
// hhramberg-go-vslc/src/ir/lir/block.go's CreateAdd/CreateSub/... family,
// collapsed into one struct since they differ only by InstructionType.
type BinOp struct {
	base
	Op  types.InstructionType
	LHS Value
	RHS Value
}

func (o *BinOp) Kind() types.InstructionType { return o.Op }
func (o *BinOp) String() string {
	return fmt.Sprintf("%%%d = %s %s, %s", o.id, o.Op, o.LHS.String(), o.RHS.String())
}

func (b *Block) createBinOp(op types.InstructionType, dt types.DataType, lhs, rhs Value) *BinOp {
	o := &BinOp{base: base{id: b.nextID(), dt: dt}, Op: op, LHS: lhs, RHS: rhs}
	b.append(o)
	return o
}

func (b *Block) CreateAdd(lhs, rhs Value) *BinOp    { return b.createBinOp(types.TAdd, lhs.DataType(), lhs, rhs) }
func (b *Block) CreateSub(lhs, rhs Value) *BinOp    { return b.createBinOp(types.TSub, lhs.DataType(), lhs, rhs) }
func (b *Block) CreateMul(lhs, rhs Value) *BinOp    { return b.createBinOp(types.TMul, lhs.DataType(), lhs, rhs) }
func (b *Block) CreateDiv(lhs, rhs Value) *BinOp    { return b.createBinOp(types.TDiv, lhs.DataType(), lhs, rhs) }
func (b *Block) CreateRem(lhs, rhs Value) *BinOp    { return b.createBinOp(types.TRem, lhs.DataType(), lhs, rhs) }
func (b *Block) CreateAnd(lhs, rhs Value) *BinOp    { return b.createBinOp(types.TAnd, lhs.DataType(), lhs, rhs) }
func (b *Block) CreateOr(lhs, rhs Value) *BinOp     { return b.createBinOp(types.TOr, lhs.DataType(), lhs, rhs) }
func (b *Block) CreateXor(lhs, rhs Value) *BinOp    { return b.createBinOp(types.TXor, lhs.DataType(), lhs, rhs) }
func (b *Block) CreateLShift(lhs, rhs Value) *BinOp { return b.createBinOp(types.TLShift, lhs.DataType(), lhs, rhs) }
func (b *Block) CreateRShift(lhs, rhs Value) *BinOp { return b.createBinOp(types.TRShift, lhs.DataType(), lhs, rhs) }

// UnOp covers negation and bitwise-not over a single operand.
type UnOp struct {
	base
	Op      types.InstructionType
	Operand Value
}

func (o *UnOp) Kind() types.InstructionType { return o.Op }
func (o *UnOp) String() string {
	return fmt.Sprintf("%%%d = %s %s", o.id, o.Op, o.Operand.String())
}

func (b *Block) CreateNeg(v Value) *UnOp {
	o := &UnOp{base: base{id: b.nextID(), dt: v.DataType()}, Op: types.TNeg, Operand: v}
	b.append(o)
	return o
}

func (b *Block) CreateNot(v Value) *UnOp {
	o := &UnOp{base: base{id: b.nextID(), dt: v.DataType()}, Op: types.TNot, Operand: v}
	b.append(o)
	return o
}

// Cmp is an integer or float comparison, always yielding a KBool value.
type Cmp struct {
	base
	Float bool
	Rel   types.RelOp
	LHS   Value
	RHS   Value
}

func (c *Cmp) Kind() types.InstructionType {
	if c.Float {
		return types.TFCmp
	}
	return types.TICmp
}

func (c *Cmp) String() string {
	return fmt.Sprintf("%%%d = %s %s %s, %s", c.id, c.Kind(), c.Rel, c.LHS.String(), c.RHS.String())
}

// CreateICmp/CreateFCmp compare lhs and rhs under rel, yielding i1.
func (b *Block) CreateICmp(rel types.RelOp, lhs, rhs Value) *Cmp {
	c := &Cmp{base: base{id: b.nextID(), dt: types.Bool()}, Rel: rel, LHS: lhs, RHS: rhs}
	b.append(c)
	return c
}

func (b *Block) CreateFCmp(rel types.RelOp, lhs, rhs Value) *Cmp {
	c := &Cmp{base: base{id: b.nextID(), dt: types.Bool()}, Float: true, Rel: rel, LHS: lhs, RHS: rhs}
	b.append(c)
	return c
}

// Cast converts between int and float scalar representations.
type Cast struct {
	base
	ToFloat bool
	Operand Value
}

func (c *Cast) Kind() types.InstructionType {
	if c.ToFloat {
		return types.TIToF
	}
	return types.TFToI
}

func (c *Cast) String() string {
	return fmt.Sprintf("%%%d = %s %s to %s", c.id, c.Kind(), c.Operand.String(), c.dt)
}

// CreateIToF converts an int value to float.
func (b *Block) CreateIToF(v Value) *Cast {
	c := &Cast{base: base{id: b.nextID(), dt: types.Float()}, ToFloat: true, Operand: v}
	b.append(c)
	return c
}

// CreateFToI converts a float value to int (truncating).
func (b *Block) CreateFToI(v Value) *Cast {
	c := &Cast{base: base{id: b.nextID(), dt: types.Int()}, Operand: v}
	b.append(c)
	return c
}
