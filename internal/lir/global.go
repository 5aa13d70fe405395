package lir

import (
	"fmt"

	"sysyc/internal/lir/types"
)

// Global is a module-level storage cell: a variable, a constant
// aggregate, or an interned string literal.
type Global struct {
	base
	Constant bool
	Linkage  Linkage
	Init     Value  // nil => zero-initialized
	StrVal   string // set only for string-literal globals
}

func (*Global) Kind() types.InstructionType { return types.TGlobal }

func (g *Global) String() string {
	if g.StrVal != "" {
		return fmt.Sprintf("@%s = %s constant %s c%q", g.name, g.Linkage, g.dt, g.StrVal)
	}
	qual := "global"
	if g.Constant {
		qual = "constant"
	}
	init := "zeroinitializer"
	if g.Init != nil {
		init = g.Init.String()
	}
	return fmt.Sprintf("@%s = %s %s %s %s", g.name, g.Linkage, qual, g.dt, init)
}
