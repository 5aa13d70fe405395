package frontend

type reservedItem struct {
	val string
	typ itemType
}

// rw holds the reserved SysY keywords, indexed by word length (index 0
// is length 1), the way the teacher's own keyword table is laid out.
var rw = [...][]reservedItem{
	{}, // one-grams
	{ // two-grams
		{val: "if", typ: IF},
	},
	{ // three-grams
		{val: "int", typ: INT},
	},
	{ // four-grams
		{val: "else", typ: ELSE},
		{val: "void", typ: VOID},
	},
	{ // five-grams
		{val: "float", typ: FLOAT},
		{val: "while", typ: WHILE},
		{val: "break", typ: BREAK},
		{val: "const", typ: CONST},
	},
	{ // six-grams
		{val: "vector", typ: VECTOR},
		{val: "return", typ: RETURN},
	},
	{}, // seven-grams
	{ // eight-grams
		{val: "continue", typ: CONTINUE},
	},
}

// isKeyword reports whether s is a reserved word, and its itemType if so.
func isKeyword(s string) (bool, itemType) {
	if len(s) == 0 || len(s) > len(rw) {
		return false, IDENT
	}
	for _, e := range rw[len(s)-1] {
		if e.val == s {
			return true, e.typ
		}
	}
	return false, IDENT
}
