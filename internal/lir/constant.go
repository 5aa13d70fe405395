package lir

import (
	"fmt"
	"strconv"

	"sysyc/internal/lir/types"
)

// Constant is a literal int or float value, or a constant aggregate
// built from nested Constants (for array/vector initializers).
type Constant struct {
	base
	IntVal   int32
	FloatVal float32
	Elems    []*Constant // set for aggregate constants (array or vector)
}

func (*Constant) Kind() types.InstructionType { return types.TConstant }

func (c *Constant) String() string {
	switch c.dt.Kind {
	case types.KInt, types.KBool:
		return strconv.Itoa(int(c.IntVal))
	case types.KFloat:
		return fmt.Sprintf("%g", c.FloatVal)
	case types.KArray, types.KVector:
		s := c.dt.String() + " ["
		for i, e := range c.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	default:
		return "<const>"
	}
}

// CreateConstantInt returns (but does not insert into any block) an i32
// constant value.
func CreateConstantInt(v int32) *Constant {
	return &Constant{base: base{dt: types.Int()}, IntVal: v}
}

// CreateConstantFloat returns a float constant value.
func CreateConstantFloat(v float32) *Constant {
	return &Constant{base: base{dt: types.Float()}, FloatVal: v}
}

// CreateConstantAggregate returns a constant array or vector built from
// elems, all of dt.Elem's type.
func CreateConstantAggregate(dt types.DataType, elems []*Constant) *Constant {
	return &Constant{base: base{dt: dt}, Elems: elems}
}

// ZeroOf returns the zero Constant of a scalar DataType (int or float).
func ZeroOf(dt types.DataType) *Constant {
	if dt.Kind == types.KFloat {
		return CreateConstantFloat(0)
	}
	return CreateConstantInt(0)
}
