package lir

import "sysyc/internal/lir/types"

// Param is a formal parameter Value; its DataType is the parameter's
// declared type (for array parameters, a pointer-to-element, matching
// the C-style array decay spec.md §4.5/§4.6 describes).
type Param struct {
	base
}

func (*Param) Kind() types.InstructionType { return types.TParam }
func (p *Param) String() string            { return "%" + p.name }

// Function is a typed signature plus an ordered list of basic blocks.
// Per spec.md §3, linkage is internal for every user function except
// main, and external for main and every runtime-library declaration.
type Function struct {
	m        *Module
	Name     string
	RetType  types.DataType
	Params   []*Param
	Blocks   []*Block
	Linkage  Linkage
	Variadic bool
	// Declared marks a Function with no Blocks as an external
	// declaration only (a runtime-library binding), never emitted with
	// a body.
	Declared bool
}

// AddParam appends a new formal parameter of the given name/type.
func (f *Function) AddParam(name string, dt types.DataType) *Param {
	p := &Param{base: base{id: f.m.nextValueID(), name: name, dt: dt}}
	f.Params = append(f.Params, p)
	return p
}

// CreateBlock appends a new, empty basic block to f. The first block
// ever created for f is its entry block (spec.md §5: "the unique entry
// block always comes first").
func (f *Function) CreateBlock(name string) *Block {
	b := &Block{f: f, Name: name}
	f.Blocks = append(f.Blocks, b)
	return b
}

// Entry returns f's entry block, or nil if none has been created yet.
func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}
