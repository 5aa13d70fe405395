package lir

import (
	"fmt"
	"strings"

	"sysyc/internal/lir/types"
)

// Call invokes Callee with Args, normalized per spec.md §4.6 (pointer
// arguments for array lvalues, numeric coercions, already applied by
// internal/irgen before the Call is built). A float in a variadic slot
// is passed as float; it is not promoted to double.
type Call struct {
	base
	Callee *Function
	Args   []Value
}

func (*Call) Kind() types.InstructionType { return types.TCall }
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	prefix := ""
	if c.dt.Kind != types.KVoid {
		prefix = fmt.Sprintf("%%%d = ", c.id)
	}
	return fmt.Sprintf("%scall %s @%s(%s)", prefix, c.dt, c.Callee.Name, strings.Join(args, ", "))
}

// CreateCall emits a call to callee with args already coerced by the
// caller.
func (b *Block) CreateCall(callee *Function, args []Value) *Call {
	c := &Call{base: base{id: b.nextID(), dt: callee.RetType}, Callee: callee, Args: args}
	b.append(c)
	return c
}
