package lir

import (
	"fmt"

	"sysyc/internal/lir/types"
)

// Branch is an unconditional jump, a terminator.
type Branch struct {
	base
	Target *Block
}

func (*Branch) Kind() types.InstructionType { return types.TBranch }
func (br *Branch) String() string           { return fmt.Sprintf("branch %%%s", br.Target.Name) }

// CreateBranch terminates b with an unconditional jump to target.
func (b *Block) CreateBranch(target *Block) *Branch {
	br := &Branch{base: base{id: b.nextID()}, Target: target}
	b.append(br)
	b.terminated = true
	return br
}

// CondBranch is a two-way conditional jump, a terminator.
type CondBranch struct {
	base
	Cond Value
	Then *Block
	Else *Block
}

func (*CondBranch) Kind() types.InstructionType { return types.TCondBranch }
func (c *CondBranch) String() string {
	return fmt.Sprintf("condbranch %s, %%%s, %%%s", c.Cond.String(), c.Then.Name, c.Else.Name)
}

// CreateCondBranch terminates b with a branch to then_ if cond is true,
// else to else_. cond must be a KBool value.
func (b *Block) CreateCondBranch(cond Value, then, else_ *Block) *CondBranch {
	c := &CondBranch{base: base{id: b.nextID()}, Cond: cond, Then: then, Else: else_}
	b.append(c)
	b.terminated = true
	return c
}

// Return is a function return, a terminator. Val is nil for a void
// return.
type Return struct {
	base
	Val Value
}

func (*Return) Kind() types.InstructionType { return types.TReturn }
func (r *Return) String() string {
	if r.Val == nil {
		return "return"
	}
	return "return " + r.Val.String()
}

// CreateReturn terminates b, optionally returning val.
func (b *Block) CreateReturn(val Value) *Return {
	r := &Return{base: base{id: b.nextID()}, Val: val}
	b.append(r)
	b.terminated = true
	return r
}
