// Package lir is a typed, SSA-amenable low-level IR: Module, Function,
// Block and a Value interface with one concrete struct per instruction
// kind, each built through a builder method on Block (Block.CreateAdd,
// Block.CreateLoad, ...). Grounded directly on
// hhramberg-go-vslc/src/ir/lir's package (module.go, function.go,
// block.go, value.go, branch.go, memory.go, constant.go, global.go),
// extended with GEP, vector insert/extract/splat/vsum, casts and calls,
// which the teacher's integer/float-only IR has no need for. The
// register-allocation-only Value methods of the teacher (SetHW/GetHW/
// Enable/Disable) are dropped: this compiler never builds a hardware
// register allocator (see DESIGN.md).
package lir

import "sysyc/internal/lir/types"

// Value is the capability every LIR instruction, parameter, global and
// constant shares: an identity, an optional name, the instruction kind
// it represents and its DataType.
type Value interface {
	ID() int
	Name() string
	Kind() types.InstructionType
	DataType() types.DataType
	String() string
}

// base is embedded by every concrete Value to avoid repeating the
// id/name/dataType bookkeeping the teacher repeats per instruction file.
type base struct {
	id   int
	name string
	dt   types.DataType
}

func (b *base) ID() int               { return b.id }
func (b *base) Name() string          { return b.name }
func (b *base) DataType() types.DataType { return b.dt }
