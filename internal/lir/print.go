package lir

import (
	"fmt"
	"strings"
)

// String renders the whole module as a textual typed SSA IR. spec.md §6
// leaves the exact syntax to the backend's choice, requiring only that
// it round-trip through the backend unchanged; this format is grounded
// on the teacher's lir/print.go convention of one instruction per line,
// four-space indented within a block, with a "define"/"declare" header
// per function.
func (m *Module) String() string {
	var sb strings.Builder
	for _, g := range m.Globals {
		sb.WriteString(g.String())
		sb.WriteByte('\n')
	}
	for _, f := range m.Functions {
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (f *Function) String() string {
	var sb strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.dt.String() + " " + p.String()
	}
	if f.Declared {
		variadic := ""
		if f.Variadic {
			if len(params) > 0 {
				variadic = ", "
			}
			variadic += "..."
		}
		fmt.Fprintf(&sb, "declare %s %s @%s(%s%s)\n", f.Linkage, f.RetType, f.Name, strings.Join(params, ", "), variadic)
		return sb.String()
	}
	fmt.Fprintf(&sb, "define %s %s @%s(%s) {\n", f.Linkage, f.RetType, f.Name, strings.Join(params, ", "))
	for _, blk := range f.Blocks {
		fmt.Fprintf(&sb, "%%%s:\n", blk.Name)
		for _, inst := range blk.Insts {
			fmt.Fprintf(&sb, "    %s\n", inst.String())
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}
