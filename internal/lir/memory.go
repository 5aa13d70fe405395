package lir

import (
	"fmt"

	"sysyc/internal/lir/types"
)

// Declare is a stack allocation of a local cell. It is appended to
// whichever block is current when the declaration is lowered, which is
// not necessarily the function's entry block.
type Declare struct {
	base
}

func (*Declare) Kind() types.InstructionType { return types.TDeclare }
func (d *Declare) String() string {
	return fmt.Sprintf("%%%s = declare %s", d.name, d.dt.Elem)
}

// CreateDeclare allocates a stack cell holding a value of elemType,
// yielding a pointer-to-elemType value.
func (b *Block) CreateDeclare(name string, elemType types.DataType) *Declare {
	d := &Declare{base: base{id: b.nextID(), name: name, dt: types.PointerTo(elemType)}}
	b.append(d)
	return d
}

// Load reads the value pointed to by Ptr.
type Load struct {
	base
	Ptr Value
}

func (*Load) Kind() types.InstructionType { return types.TLoad }
func (l *Load) String() string {
	return fmt.Sprintf("%%%d = load %s, %s", l.id, l.dt, l.Ptr.String())
}

// CreateLoad loads the value pointed to by ptr, whose DataType must be a
// KPointer, or which is a *Global (a Global's DataType is already the
// type of the value it holds).
func (b *Block) CreateLoad(ptr Value) *Load {
	elem := ptr.DataType()
	if _, isGlobal := ptr.(*Global); !isGlobal {
		elem = *elem.Elem
	}
	l := &Load{base: base{id: b.nextID(), dt: elem}, Ptr: ptr}
	b.append(l)
	return l
}

// Store writes Val to the cell addressed by Ptr.
type Store struct {
	base
	Val Value
	Ptr Value
}

func (*Store) Kind() types.InstructionType { return types.TStore }
func (s *Store) String() string {
	return fmt.Sprintf("store %s, %s", s.Val.String(), s.Ptr.String())
}

// CreateStore stores val into the cell addressed by ptr.
func (b *Block) CreateStore(val, ptr Value) *Store {
	s := &Store{base: base{id: b.nextID()}, Val: val, Ptr: ptr}
	b.append(s)
	return s
}

// GEP computes a pointer into a nested subelement of Base, following
// the GEP-style address arithmetic spec.md §4.6 describes: a true array
// receives a leading zero index, an already-decayed array-parameter
// pointer does not.
type GEP struct {
	base
	Base    Value
	Indices []Value
}

func (*GEP) Kind() types.InstructionType { return types.TGEP }
func (g *GEP) String() string {
	s := fmt.Sprintf("%%%d = gep %s, %s", g.id, g.Base.String(), g.dt)
	for _, idx := range g.Indices {
		s += ", " + idx.String()
	}
	return s
}

// CreateGEP indexes into base (whose DataType is a KPointer to a
// possibly-nested KArray) following indices, yielding a pointer to the
// resulting (sub)element type. resultElem is the element type of the
// produced pointer.
func (b *Block) CreateGEP(base_ Value, indices []Value, resultElem types.DataType) *GEP {
	g := &GEP{base: base{id: b.nextID(), dt: types.PointerTo(resultElem)}, Base: base_, Indices: indices}
	b.append(g)
	return g
}
