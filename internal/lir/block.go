package lir

// Block is an ordered list of instructions ending in exactly one
// terminator (spec.md §3's "Basic block"). Instructions are appended via
// the CreateXxx builder methods defined across this package's files,
// grounded on hhramberg-go-vslc/src/ir/lir/block.go's builder-method API.
type Block struct {
	f          *Function
	Name       string
	Insts      []Value
	terminated bool
}

// Terminated reports whether this block already ends in a terminator.
func (b *Block) Terminated() bool { return b.terminated }

// append adds v to the instruction list. The module's next id is taken
// by each builder method through nextID before it calls append.
func (b *Block) append(v Value) {
	b.Insts = append(b.Insts, v)
}

func (b *Block) nextID() int { return b.f.m.nextValueID() }
