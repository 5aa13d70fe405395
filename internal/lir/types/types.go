// Package types defines the LIR's enums: data types and instruction
// kinds, each with a String method backed by a parallel lookup table.
// Grounded on hhramberg-go-vslc/src/ir/lir/types/types.go's enum-plus-
// string-table idiom, extended with array/vector/pointer data types and
// the instruction kinds (GEP, vector insert/extract/splat, call, cast)
// the teacher's integer/float-only IR has no use for.
package types

// DataKind is the scalar/aggregate shape tag of a DataType.
type DataKind int

const (
	KInt DataKind = iota
	KFloat
	KVoid
	KArray
	KVector
	KPointer
	KBool // i1, used only for condition-context values
)

var dKind = [...]string{"int", "float", "void", "array", "vector", "pointer", "bool"}

func (k DataKind) String() string {
	if int(k) < len(dKind) {
		return dKind[k]
	}
	return "unknown"
}

// DataType is a (possibly nested) LIR type: a scalar, or an array/vector
// of a fixed length over another DataType, or a pointer to one.
type DataType struct {
	Kind DataKind
	Len  int       // element count for KArray/KVector
	Elem *DataType // element type for KArray/KVector/KPointer
}

func Int() DataType   { return DataType{Kind: KInt} }
func Float() DataType { return DataType{Kind: KFloat} }
func Void() DataType  { return DataType{Kind: KVoid} }
func Bool() DataType  { return DataType{Kind: KBool} }

func ArrayOf(elem DataType, n int) DataType {
	return DataType{Kind: KArray, Len: n, Elem: &elem}
}

func VectorOf(elem DataType, n int) DataType {
	return DataType{Kind: KVector, Len: n, Elem: &elem}
}

func PointerTo(elem DataType) DataType {
	return DataType{Kind: KPointer, Elem: &elem}
}

func (t DataType) String() string {
	switch t.Kind {
	case KArray:
		return "[" + itoa(t.Len) + " x " + t.Elem.String() + "]"
	case KVector:
		return "<" + itoa(t.Len) + " x " + t.Elem.String() + ">"
	case KPointer:
		return t.Elem.String() + "*"
	default:
		return t.Kind.String()
	}
}

// IsScalar reports whether t is int, float or bool.
func (t DataType) IsScalar() bool {
	return t.Kind == KInt || t.Kind == KFloat || t.Kind == KBool
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// InstructionType tags every concrete lir.Value with the operation it
// represents, used by Value.String and by the backend's dispatch.
type InstructionType int

const (
	TGlobal InstructionType = iota
	TConstant
	TParam
	TDeclare // stack allocation of a local cell
	TLoad
	TStore
	TGEP
	TAdd
	TSub
	TMul
	TDiv
	TRem
	TAnd
	TOr
	TXor
	TNot
	TNeg
	TLShift
	TRShift
	TICmp
	TFCmp
	TIToF
	TFToI
	TVecSplat
	TVecInsert
	TVecExtract
	TVSum
	TCall
	TBranch
	TCondBranch
	TReturn
)

var iTyp = [...]string{
	"global", "constant", "param", "declare", "load", "store", "gep",
	"add", "sub", "mul", "div", "rem", "and", "or", "xor", "not", "neg",
	"lshift", "rshift", "icmp", "fcmp", "itof", "ftoi",
	"vsplat", "vinsert", "vextract", "vsum", "call",
	"branch", "condbranch", "return",
}

func (t InstructionType) String() string {
	if int(t) < len(iTyp) {
		return iTyp[t]
	}
	return "unknown"
}

// RelOp is the relational predicate carried by an ICmp/FCmp instruction.
type RelOp int

const (
	RelLT RelOp = iota
	RelGT
	RelLE
	RelGE
	RelEQ
	RelNE
)

var rOp = [...]string{"lt", "gt", "le", "ge", "eq", "ne"}

func (r RelOp) String() string {
	if int(r) < len(rOp) {
		return rOp[r]
	}
	return "unknown"
}
