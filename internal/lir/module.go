package lir

import (
	"fmt"

	"sysyc/internal/lir/types"
)

// Linkage mirrors spec.md §3's "Global object"/"Function" linkage field.
type Linkage int

const (
	Internal Linkage = iota
	External
)

func (l Linkage) String() string {
	if l == External {
		return "external"
	}
	return "internal"
}

// Module is an ordered set of global objects and functions, the final
// product internal/irgen hands by move to internal/backend/riscv.
type Module struct {
	Name      string
	Globals   []*Global
	Functions []*Function
	strPool   map[string]*Global
	nextID    int
}

// CreateModule returns a new, empty Module named name.
func CreateModule(name string) *Module {
	return &Module{Name: name, strPool: map[string]*Global{}}
}

func (m *Module) nextValueID() int {
	m.nextID++
	return m.nextID
}

// CreateGlobal declares a module-level storage cell. init may be nil
// (zero-initialized).
func (m *Module) CreateGlobal(name string, dt types.DataType, constant bool, linkage Linkage, init Value) *Global {
	g := &Global{
		base:     base{id: m.nextValueID(), name: name, dt: dt},
		Constant: constant,
		Linkage:  linkage,
		Init:     init,
	}
	m.Globals = append(m.Globals, g)
	return g
}

// CreateString interns a string literal as a constant global i8 array,
// deduplicating identical literals the way the teacher's symtab.go
// deduplicates its Strings table.
func (m *Module) CreateString(s string) *Global {
	if g, ok := m.strPool[s]; ok {
		return g
	}
	dt := types.ArrayOf(types.Int(), len(s)+1)
	id := m.nextValueID()
	g := &Global{
		base:     base{id: id, name: fmt.Sprintf(".str.%d", id), dt: dt},
		Constant: true,
		Linkage:  Internal,
		StrVal:   s,
	}
	m.strPool[s] = g
	m.Globals = append(m.Globals, g)
	return g
}

// CreateFunction declares (but does not define any blocks for) a new
// Function in m.
func (m *Module) CreateFunction(name string, ret types.DataType, linkage Linkage) *Function {
	f := &Function{
		m:       m,
		Name:    name,
		RetType: ret,
		Linkage: linkage,
	}
	m.Functions = append(m.Functions, f)
	return f
}
