package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable indented tree of cu to w, two spaces per
// level, using the exact node labels required of an AST dump.
func Dump(w io.Writer, cu *CompUnit) {
	writeLine(w, 0, "CompUnit")
	for _, d := range cu.Decls {
		dumpDecl(w, 1, d)
	}
	for _, f := range cu.Funcs {
		dumpFunc(w, 1, f)
	}
}

func writeLine(w io.Writer, depth int, s string) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), s)
}

func dumpType(w io.Writer, depth int, t *TypeSpec) {
	if t.Vector {
		writeLine(w, depth, fmt.Sprintf("Type: vector<%s>", t.Elem))
	} else {
		writeLine(w, depth, fmt.Sprintf("Type: %s", t.Elem))
	}
}

func dumpDecl(w io.Writer, depth int, d Decl) {
	switch n := d.(type) {
	case *VarDecl:
		writeLine(w, depth, "VarDecl")
		dumpType(w, depth+1, n.Type)
		for _, def := range n.Defs {
			dumpVarDef(w, depth+1, def)
		}
	case *ConstDecl:
		writeLine(w, depth, "ConstDecl")
		dumpType(w, depth+1, n.Type)
		for _, def := range n.Defs {
			dumpConstDef(w, depth+1, def)
		}
	default:
		writeLine(w, depth, fmt.Sprintf("<unknown decl %T>", n))
	}
}

func dumpVarDef(w io.Writer, depth int, n *VarDef) {
	writeLine(w, depth, fmt.Sprintf("VarDef: %s", n.Name))
	for _, dim := range n.Dims {
		dumpExpr(w, depth+1, dim)
	}
	if n.Init != nil {
		dumpInitVal(w, depth+1, n.Init)
	}
}

func dumpConstDef(w io.Writer, depth int, n *ConstDef) {
	writeLine(w, depth, fmt.Sprintf("ConstDef: %s", n.Name))
	for _, dim := range n.Dims {
		dumpExpr(w, depth+1, dim)
	}
	if n.Init != nil {
		dumpInitVal(w, depth+1, n.Init)
	}
}

func dumpInitVal(w io.Writer, depth int, v InitVal) {
	switch n := v.(type) {
	case *ExprInitVal:
		dumpExpr(w, depth, n.Expr)
	case *ListInitVal:
		writeLine(w, depth, fmt.Sprintf("ListInitVal: {%d elements}", len(n.Items)))
		for _, item := range n.Items {
			dumpInitVal(w, depth+1, item)
		}
	}
}

func dumpExpr(w io.Writer, depth int, e Expr) {
	switch n := e.(type) {
	case *IntConst:
		writeLine(w, depth, fmt.Sprintf("IntConst: %d", n.Value))
	case *FloatConst:
		writeLine(w, depth, fmt.Sprintf("FloatConst: %g", n.Value))
	case *StringLit:
		writeLine(w, depth, fmt.Sprintf("StringLiteral: %q", n.Value))
	case *LVal:
		if len(n.Indices) > 0 {
			writeLine(w, depth, fmt.Sprintf("LVal: %s [%d dimensions]", n.Name, len(n.Indices)))
		} else {
			writeLine(w, depth, fmt.Sprintf("LVal: %s", n.Name))
		}
		for _, idx := range n.Indices {
			dumpExpr(w, depth+1, idx)
		}
	case *Unary:
		writeLine(w, depth, fmt.Sprintf("UnaryExpr: %s", n.Op))
		dumpExpr(w, depth+1, n.Operand)
	case *Binary:
		writeLine(w, depth, fmt.Sprintf("BinaryExpr: %s", n.Op))
		dumpExpr(w, depth+1, n.LHS)
		dumpExpr(w, depth+1, n.RHS)
	case *Call:
		writeLine(w, depth, fmt.Sprintf("CallExpr: %s (%d args)", n.Callee, len(n.Args)))
		for _, a := range n.Args {
			dumpExpr(w, depth+1, a)
		}
	default:
		writeLine(w, depth, fmt.Sprintf("<unknown expr %T>", n))
	}
}

func dumpStmt(w io.Writer, depth int, s Stmt) {
	switch n := s.(type) {
	case *AssignStmt:
		writeLine(w, depth, "AssignStmt")
		dumpExpr(w, depth+1, n.LVal)
		dumpExpr(w, depth+1, n.Expr)
	case *ExprStmt:
		writeLine(w, depth, "ExprStmt")
		if n.Expr != nil {
			dumpExpr(w, depth+1, n.Expr)
		}
	case *ReturnStmt:
		writeLine(w, depth, "ReturnStmt")
		if n.Value != nil {
			dumpExpr(w, depth+1, n.Value)
		}
	case *IfStmt:
		writeLine(w, depth, "IfStmt")
		writeLine(w, depth+1, "Condition:")
		dumpExpr(w, depth+2, n.Cond)
		writeLine(w, depth+1, "Then:")
		dumpStmt(w, depth+2, n.Then)
		if n.Else != nil {
			writeLine(w, depth+1, "Else:")
			dumpStmt(w, depth+2, n.Else)
		}
	case *WhileStmt:
		writeLine(w, depth, "WhileStmt")
		writeLine(w, depth+1, "Condition:")
		dumpExpr(w, depth+2, n.Cond)
		writeLine(w, depth+1, "Body:")
		dumpStmt(w, depth+2, n.Body)
	case *BreakStmt:
		writeLine(w, depth, "BreakStmt")
	case *ContinueStmt:
		writeLine(w, depth, "ContinueStmt")
	case *Block:
		writeLine(w, depth, fmt.Sprintf("Block: (%d items)", len(n.Items)))
		for _, it := range n.Items {
			dumpBlockItem(w, depth+1, it)
		}
	default:
		writeLine(w, depth, fmt.Sprintf("<unknown stmt %T>", n))
	}
}

func dumpBlockItem(w io.Writer, depth int, it BlockItem) {
	switch n := it.(type) {
	case *DeclItem:
		dumpDecl(w, depth, n.Decl)
	case *StmtItem:
		dumpStmt(w, depth, n.Stmt)
	}
}

func dumpFunc(w io.Writer, depth int, f *Function) {
	writeLine(w, depth, fmt.Sprintf("Function: %s (%d params)", f.Name, len(f.Params)))
	for _, p := range f.Params {
		dumpParam(w, depth+1, p)
	}
	dumpStmt(w, depth+1, f.Body)
}

func dumpParam(w io.Writer, depth int, p *Param) {
	label := fmt.Sprintf("FuncFParam: %s", p.Name)
	if p.IsArray {
		label += " [array]"
	}
	writeLine(w, depth, label)
	for _, dim := range p.Dims {
		dumpExpr(w, depth+1, dim)
	}
}
