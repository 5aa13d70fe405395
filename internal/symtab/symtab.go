// Package symtab implements the scoped symbol table of spec.md §4.3: a
// stack of name->binding maps, innermost-scope-wins lookup, and
// redeclaration rejection within a single frame. Grounded on
// hhramberg-go-vslc/src/ir/symtab.go's SymTab/Add/Get shape, with the
// goroutine/mutex fan-out of GenerateSymTab dropped per spec.md §5 (the
// compiler is single-threaded) and adapted to operate over frames of
// *Binding rather than the teacher's flat global table plus per-function
// table.
package symtab

import (
	"fmt"

	"sysyc/internal/lir"
	"sysyc/internal/types"
)

// Binding is what a name resolves to: spec.md §3's "Symbol binding"
// abstraction plus the Value needed to read/write it.
type Binding struct {
	Name     string
	Type     types.Type
	Const    bool
	IsArray  bool
	ElemKind types.Kind // valid when IsArray: IntK or FloatK

	// ArrayDims is the shape that Value's pointer already addresses: the
	// full declared dimension list for a true array, or that list minus
	// its leading dimension for a decayed array parameter (spec.md §4.5's
	// C-style array-to-pointer decay). Rank is the number of source-level
	// indices that reach a scalar, which is what every index-count check
	// is against: len(ArrayDims) for a true array, len(ArrayDims)+1 for a
	// decayed parameter.
	ArrayDims []int
	Rank      int
	// Decayed marks an array parameter binding: Value already is the
	// element pointer (no leading zero index belongs in a GEP rooted at
	// it), per spec.md §9's "carry the base pointer value directly"
	// simplification.
	Decayed bool

	// Value is the addressable cell: for a scalar or true array, a
	// stack/global pointer suitable for GEP/load/store. For an array
	// parameter, per spec.md §9's preferred simplification, Value is
	// already the decayed base-pointer value itself: the incoming
	// parameter Value, with no load emitted to produce it.
	Value lir.Value

	// ConstInt/ConstFloat hold the value for a scalar constant binding,
	// consulted by internal/consteval when this name appears in a
	// compile-time-constant position.
	ConstInt   int32
	ConstFloat float32
}

// frame is one lexical scope: a name->binding map.
type frame map[string]*Binding

// Table is a stack of frames. The bottom frame is the global scope and
// persists for the duration of IR generation; Push is called once per
// function body and once per nested block.
type Table struct {
	frames []frame
}

// New returns a Table with its global frame already pushed.
func New() *Table {
	t := &Table{}
	t.Push()
	return t
}

// Push enters a new lexical scope.
func (t *Table) Push() {
	t.frames = append(t.frames, frame{})
}

// Pop leaves the innermost lexical scope, discarding every binding it
// introduced.
func (t *Table) Pop() {
	if len(t.frames) == 0 {
		panic("symtab.Table.Pop: no frame to pop")
	}
	t.frames = t.frames[:len(t.frames)-1]
}

// AtGlobalScope reports whether the table currently has only its bottom
// (global) frame live.
func (t *Table) AtGlobalScope() bool { return len(t.frames) == 1 }

// Lookup searches frames from innermost to outermost and returns the
// first match, or nil if name is unbound anywhere.
func (t *Table) Lookup(name string) *Binding {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if b, ok := t.frames[i][name]; ok {
			return b
		}
	}
	return nil
}

// Insert adds b to the innermost frame. It returns an error (a
// redeclaration) if the innermost frame already binds b.Name.
func (t *Table) Insert(b *Binding) error {
	top := t.frames[len(t.frames)-1]
	if _, ok := top[b.Name]; ok {
		return fmt.Errorf("redeclaration of %q in this scope", b.Name)
	}
	top[b.Name] = b
	return nil
}
