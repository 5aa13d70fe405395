// Package runtime is the Library Binding component of spec.md §4.7: a
// fixed table of SysY runtime function signatures, externally linked,
// plus the starttime/stoptime call-site rewriting rule and the vsum
// compiler intrinsic. The teacher has no equivalent table (VSL's runtime
// library is smaller and different); built directly from spec.md §4.7,
// following the "table of name to signature" style
// hhramberg-go-vslc/src/ir/symtab.go uses for its own Funcs map.
package runtime

import (
	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
)

// sig is one library function's fixed signature.
type sig struct {
	params   []lirtypes.DataType
	ret      lirtypes.DataType
	variadic bool
}

var intPtr = lirtypes.PointerTo(lirtypes.Int())
var floatPtr = lirtypes.PointerTo(lirtypes.Float())
var i8Ptr = lirtypes.PointerTo(lirtypes.Int())

var table = map[string]sig{
	"getint":         {nil, lirtypes.Int(), false},
	"getch":          {nil, lirtypes.Int(), false},
	"getfloat":       {nil, lirtypes.Float(), false},
	"getarray":       {[]lirtypes.DataType{intPtr}, lirtypes.Int(), false},
	"getfarray":      {[]lirtypes.DataType{floatPtr}, lirtypes.Int(), false},
	"putint":         {[]lirtypes.DataType{lirtypes.Int()}, lirtypes.Void(), false},
	"putch":          {[]lirtypes.DataType{lirtypes.Int()}, lirtypes.Void(), false},
	"putfloat":       {[]lirtypes.DataType{lirtypes.Float()}, lirtypes.Void(), false},
	"putarray":       {[]lirtypes.DataType{lirtypes.Int(), intPtr}, lirtypes.Void(), false},
	"putfarray":      {[]lirtypes.DataType{lirtypes.Int(), floatPtr}, lirtypes.Void(), false},
	"putf":           {[]lirtypes.DataType{i8Ptr}, lirtypes.Void(), true},
	"_sysy_starttime": {[]lirtypes.DataType{lirtypes.Int()}, lirtypes.Void(), false},
	"_sysy_stoptime":  {[]lirtypes.DataType{lirtypes.Int()}, lirtypes.Void(), false},
}

// rewrite maps a source-level call name to its real runtime name; only
// starttime/stoptime need the line number spliced in as an extra first
// argument (spec.md §4.6).
var rewrite = map[string]string{
	"starttime": "_sysy_starttime",
	"stoptime":  "_sysy_stoptime",
}

// Table is the set of library Functions declared in one Module, keyed by
// their source-level (pre-rewrite) name.
type Table struct {
	fns map[string]*lir.Function
}

// Register declares every library function in m and returns a Table for
// looking them up by source-level name.
func Register(m *lir.Module) *Table {
	t := &Table{fns: map[string]*lir.Function{}}
	for name, s := range table {
		f := m.CreateFunction(name, s.ret, lir.External)
		f.Declared = true
		f.Variadic = s.variadic
		for i, p := range s.params {
			f.AddParam(paramName(i), p)
		}
		t.fns[name] = f
	}
	// starttime/stoptime are referenced at call sites under their
	// unrewritten names too, so both names resolve to the same Function.
	t.fns["starttime"] = t.fns["_sysy_starttime"]
	t.fns["stoptime"] = t.fns["_sysy_stoptime"]
	return t
}

func paramName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return string(letters[i%len(letters)])
}

// Lookup returns the Function and whether name is a bound library
// function (possibly after starttime/stoptime renaming).
func (t *Table) Lookup(name string) (*lir.Function, bool) {
	f, ok := t.fns[name]
	return f, ok
}

// RewriteCallee returns the real callee name for a call-site name,
// applying the starttime->_sysy_starttime / stoptime->_sysy_stoptime
// rename of spec.md §4.6.
func RewriteCallee(name string) string {
	if real, ok := rewrite[name]; ok {
		return real
	}
	return name
}

// NeedsLineArg reports whether calling name requires the injected
// call-site source line as its first argument (true only for
// starttime/stoptime).
func NeedsLineArg(name string) bool {
	_, ok := rewrite[name]
	return ok
}

// IsIntrinsic reports whether name is a compiler intrinsic (lowered
// directly to an instruction, never to a Call) rather than a library
// function.
func IsIntrinsic(name string) bool {
	return name == "vsum"
}
