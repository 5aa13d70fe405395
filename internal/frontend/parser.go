// Package frontend turns SysY source text into an *ast.CompUnit. The
// teacher's own parser is goyacc-generated from a grammar file this pack
// doesn't carry, so this one is hand-written recursive descent instead,
// built directly over the token stream a Scan produces; the lexer's
// scanning primitives still follow the teacher's lexer.go shape (see
// lexer.go's doc comment).
package frontend

import (
	"strconv"
	"strings"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
)

// Parse scans and parses src into a *ast.CompUnit.
func Parse(src string) (*ast.CompUnit, error) {
	lx := newLexer(src)
	items, err := lx.Scan()
	if err != nil {
		return nil, diag.New(-1, diag.Syntactic, "%s", err)
	}
	p := &parser{items: items}
	return p.parseCompUnit()
}

type parser struct {
	items []item
	pos   int
}

func (p *parser) cur() item {
	return p.items[p.pos]
}

func (p *parser) at(typ itemType) bool {
	return p.cur().typ == typ
}

func (p *parser) advance() item {
	it := p.items[p.pos]
	if p.pos < len(p.items)-1 {
		p.pos++
	}
	return it
}

func (p *parser) expect(typ itemType, what string) (item, error) {
	if !p.at(typ) {
		return item{}, diag.New(p.cur().line, diag.Syntactic, "expected %s, got %q", what, p.cur().val)
	}
	return p.advance(), nil
}

// ---- top level ----

func (p *parser) parseCompUnit() (*ast.CompUnit, error) {
	cu := &ast.CompUnit{LineNo: 1}
	for !p.at(itemEOF) {
		isConst := false
		if p.at(CONST) {
			isConst = true
			p.advance()
		}
		elem, isVector, vecSize, line, err := p.parseType()
		if err != nil {
			return nil, err
		}
		nameTok, err := p.expect(IDENT, "an identifier")
		if err != nil {
			return nil, err
		}
		if p.at(LPAREN) {
			if isConst {
				return nil, diag.New(line, diag.Syntactic, "a function cannot be declared const")
			}
			if isVector {
				return nil, diag.New(line, diag.Syntactic, "a function cannot return a vector")
			}
			fn, err := p.parseFuncRest(elem, nameTok.val, line)
			if err != nil {
				return nil, err
			}
			cu.Funcs = append(cu.Funcs, fn)
			continue
		}
		if elem == ast.Void {
			return nil, diag.New(line, diag.Syntactic, "void is only legal as a function return type")
		}
		d, err := p.parseDeclRest(isConst, elem, isVector, vecSize, nameTok.val, line)
		if err != nil {
			return nil, err
		}
		cu.Decls = append(cu.Decls, d)
	}
	return cu, nil
}

// parseType parses ['const'] already consumed by the caller, then a base
// type: int, float, void, or vector<int|float, ConstExp>.
func (p *parser) parseType() (elem ast.BaseType, isVector bool, vecSize ast.Expr, line int, err error) {
	tok := p.cur()
	line = tok.line
	switch tok.typ {
	case INT:
		p.advance()
		return ast.Int, false, nil, line, nil
	case FLOAT:
		p.advance()
		return ast.Float, false, nil, line, nil
	case VOID:
		p.advance()
		return ast.Void, false, nil, line, nil
	case VECTOR:
		p.advance()
		if _, err = p.expect(LANGLE, "'<'"); err != nil {
			return
		}
		switch {
		case p.at(INT):
			elem = ast.Int
			p.advance()
		case p.at(FLOAT):
			elem = ast.Float
			p.advance()
		default:
			err = diag.New(p.cur().line, diag.Syntactic, "vector element type must be int or float")
			return
		}
		if _, err = p.expect(COMMA, "','"); err != nil {
			return
		}
		// parseAdd, not parseExpr: a relational parse would take the
		// closing '>' as a greater-than operator.
		vecSize, err = p.parseAdd()
		if err != nil {
			return
		}
		if _, err = p.expect(RANGLE, "'>'"); err != nil {
			return
		}
		return elem, true, vecSize, line, nil
	default:
		err = diag.New(line, diag.Syntactic, "expected a type, got %q", tok.val)
		return
	}
}

// parseDeclRest parses the remainder of a VarDecl/ConstDecl, given the
// leading type and the first def's already-consumed name.
func (p *parser) parseDeclRest(isConst bool, elem ast.BaseType, isVector bool, vecSize ast.Expr, firstName string, line int) (ast.Decl, error) {
	ts := &ast.TypeSpec{Elem: elem, Vector: isVector, VecSize: vecSize, LineNo: line}

	if isConst {
		decl := &ast.ConstDecl{Type: ts, LineNo: line}
		def, err := p.parseConstDefRest(firstName, isVector, line)
		if err != nil {
			return nil, err
		}
		decl.Defs = append(decl.Defs, def)
		for p.at(COMMA) {
			p.advance()
			nameTok, err := p.expect(IDENT, "an identifier")
			if err != nil {
				return nil, err
			}
			def, err := p.parseConstDefRest(nameTok.val, isVector, nameTok.line)
			if err != nil {
				return nil, err
			}
			decl.Defs = append(decl.Defs, def)
		}
		if _, err := p.expect(SEMI, "';'"); err != nil {
			return nil, err
		}
		return decl, nil
	}

	decl := &ast.VarDecl{Type: ts, LineNo: line}
	def, err := p.parseVarDefRest(firstName, isVector, line)
	if err != nil {
		return nil, err
	}
	decl.Defs = append(decl.Defs, def)
	for p.at(COMMA) {
		p.advance()
		nameTok, err := p.expect(IDENT, "an identifier")
		if err != nil {
			return nil, err
		}
		def, err := p.parseVarDefRest(nameTok.val, isVector, nameTok.line)
		if err != nil {
			return nil, err
		}
		decl.Defs = append(decl.Defs, def)
	}
	if _, err := p.expect(SEMI, "';'"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseVarDefRest(name string, isVector bool, line int) (*ast.VarDef, error) {
	def := &ast.VarDef{Name: name, LineNo: line}
	if !isVector {
		dims, err := p.parseDims()
		if err != nil {
			return nil, err
		}
		def.Dims = dims
	}
	if p.at(ASSIGN) {
		p.advance()
		init, err := p.parseInitVal()
		if err != nil {
			return nil, err
		}
		def.Init = init
	}
	return def, nil
}

func (p *parser) parseConstDefRest(name string, isVector bool, line int) (*ast.ConstDef, error) {
	def := &ast.ConstDef{Name: name, LineNo: line}
	if !isVector {
		dims, err := p.parseDims()
		if err != nil {
			return nil, err
		}
		def.Dims = dims
	}
	if _, err := p.expect(ASSIGN, "'=' (a const must be initialized)"); err != nil {
		return nil, err
	}
	init, err := p.parseInitVal()
	if err != nil {
		return nil, err
	}
	def.Init = init
	return def, nil
}

// parseDims parses zero or more '[' ConstExp ']' dimension suffixes.
func (p *parser) parseDims() ([]ast.Expr, error) {
	var dims []ast.Expr
	for p.at(LBRACK) {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACK, "']'"); err != nil {
			return nil, err
		}
		dims = append(dims, e)
	}
	return dims, nil
}

func (p *parser) parseInitVal() (ast.InitVal, error) {
	if p.at(LBRACE) {
		line := p.cur().line
		p.advance()
		lst := &ast.ListInitVal{LineNo: line}
		if !p.at(RBRACE) {
			item, err := p.parseInitVal()
			if err != nil {
				return nil, err
			}
			lst.Items = append(lst.Items, item)
			for p.at(COMMA) {
				p.advance()
				item, err := p.parseInitVal()
				if err != nil {
					return nil, err
				}
				lst.Items = append(lst.Items, item)
			}
		}
		if _, err := p.expect(RBRACE, "'}'"); err != nil {
			return nil, err
		}
		return lst, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprInitVal{Expr: e}, nil
}

// ---- functions ----

func (p *parser) parseFuncRest(ret ast.BaseType, name string, line int) (*ast.Function, error) {
	if _, err := p.expect(LPAREN, "'('"); err != nil {
		return nil, err
	}
	fn := &ast.Function{ReturnType: ret, Name: name, LineNo: line}
	if !p.at(RPAREN) {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)
		for p.at(COMMA) {
			p.advance()
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, param)
		}
	}
	if _, err := p.expect(RPAREN, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *parser) parseParam() (*ast.Param, error) {
	line := p.cur().line
	var bt ast.BaseType
	switch {
	case p.at(INT):
		bt = ast.Int
	case p.at(FLOAT):
		bt = ast.Float
	default:
		return nil, diag.New(line, diag.Syntactic, "a parameter's type must be int or float, got %q", p.cur().val)
	}
	p.advance()
	nameTok, err := p.expect(IDENT, "a parameter name")
	if err != nil {
		return nil, err
	}
	param := &ast.Param{Type: bt, Name: nameTok.val, LineNo: line}
	if p.at(LBRACK) {
		p.advance()
		if _, err := p.expect(RBRACK, "']' (an array parameter's leading dimension is always implicit)"); err != nil {
			return nil, err
		}
		param.IsArray = true
		dims, err := p.parseDims()
		if err != nil {
			return nil, err
		}
		param.Dims = dims
	}
	return param, nil
}

// ---- statements ----

func (p *parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	b := &ast.Block{LineNo: open.line}
	for !p.at(RBRACE) {
		if p.at(itemEOF) {
			return nil, diag.New(p.cur().line, diag.Syntactic, "unexpected end of file inside a block")
		}
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		b.Items = append(b.Items, item)
	}
	p.advance()
	return b, nil
}

func (p *parser) parseBlockItem() (ast.BlockItem, error) {
	if p.startsDecl() {
		d, err := p.parseLocalDecl()
		if err != nil {
			return nil, err
		}
		return &ast.DeclItem{Decl: d}, nil
	}
	s, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.StmtItem{Stmt: s}, nil
}

func (p *parser) startsDecl() bool {
	switch p.cur().typ {
	case CONST, INT, FLOAT, VECTOR:
		return true
	default:
		return false
	}
}

func (p *parser) parseLocalDecl() (ast.Decl, error) {
	isConst := false
	if p.at(CONST) {
		isConst = true
		p.advance()
	}
	elem, isVector, vecSize, line, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(IDENT, "an identifier")
	if err != nil {
		return nil, err
	}
	return p.parseDeclRest(isConst, elem, isVector, vecSize, nameTok.val, line)
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	switch p.cur().typ {
	case LBRACE:
		return p.parseBlock()
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case BREAK:
		line := p.advance().line
		if _, err := p.expect(SEMI, "';'"); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{LineNo: line}, nil
	case CONTINUE:
		line := p.advance().line
		if _, err := p.expect(SEMI, "';'"); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{LineNo: line}, nil
	case RETURN:
		line := p.advance().line
		if p.at(SEMI) {
			p.advance()
			return &ast.ReturnStmt{LineNo: line}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMI, "';'"); err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: e, LineNo: line}, nil
	case SEMI:
		line := p.advance().line
		return &ast.ExprStmt{LineNo: line}, nil
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *parser) parseIf() (ast.Stmt, error) {
	line := p.advance().line
	if _, err := p.expect(LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	n := &ast.IfStmt{Cond: cond, Then: then, LineNo: line}
	if p.at(ELSE) {
		p.advance()
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		n.Else = els
	}
	return n, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	line := p.advance().line
	if _, err := p.expect(LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, LineNo: line}, nil
}

// parseAssignOrExprStmt disambiguates "LVal '=' Exp ';'" from a bare
// expression statement by speculatively parsing an LVal and backtracking
// if it isn't followed by '='.
func (p *parser) parseAssignOrExprStmt() (ast.Stmt, error) {
	if p.at(IDENT) {
		save := p.pos
		lv, ok := p.tryParseLVal()
		if ok && p.at(ASSIGN) {
			line := lv.LineNo
			p.advance()
			rhs, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(SEMI, "';'"); err != nil {
				return nil, err
			}
			return &ast.AssignStmt{LVal: lv, Expr: rhs, LineNo: line}, nil
		}
		p.pos = save
	}
	line := p.cur().line
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMI, "';'"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: e, LineNo: line}, nil
}

// tryParseLVal parses a bare name followed by zero or more '[' Exp ']'
// index suffixes. Always succeeds when called on an IDENT.
func (p *parser) tryParseLVal() (*ast.LVal, bool) {
	nameTok := p.advance()
	lv := &ast.LVal{Name: nameTok.val, LineNo: nameTok.line}
	for p.at(LBRACK) {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, false
		}
		if !p.at(RBRACK) {
			return nil, false
		}
		p.advance()
		lv.Indices = append(lv.Indices, e)
	}
	return lv, true
}

// ---- expressions ----

func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseLOr()
}

func (p *parser) parseLOr() (ast.Expr, error) {
	left, err := p.parseLAnd()
	if err != nil {
		return nil, err
	}
	for p.at(OR) {
		line := p.advance().line
		right, err := p.parseLAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.Or, LHS: left, RHS: right, LineNo: line}
	}
	return left, nil
}

func (p *parser) parseLAnd() (ast.Expr, error) {
	left, err := p.parseEq()
	if err != nil {
		return nil, err
	}
	for p.at(AND) {
		line := p.advance().line
		right, err := p.parseEq()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.And, LHS: left, RHS: right, LineNo: line}
	}
	return left, nil
}

func (p *parser) parseEq() (ast.Expr, error) {
	left, err := p.parseRel()
	if err != nil {
		return nil, err
	}
	for p.at(EQ) || p.at(NE) {
		op := ast.Eq
		if p.at(NE) {
			op = ast.Ne
		}
		line := p.advance().line
		right, err := p.parseRel()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, LHS: left, RHS: right, LineNo: line}
	}
	return left, nil
}

func (p *parser) parseRel() (ast.Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for p.at(LANGLE) || p.at(RANGLE) || p.at(LE) || p.at(GE) {
		var op ast.BinaryOp
		switch p.cur().typ {
		case LANGLE:
			op = ast.Lt
		case RANGLE:
			op = ast.Gt
		case LE:
			op = ast.Le
		default:
			op = ast.Ge
		}
		line := p.advance().line
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, LHS: left, RHS: right, LineNo: line}
	}
	return left, nil
}

func (p *parser) parseAdd() (ast.Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.at(PLUS) || p.at(MINUS) {
		op := ast.Add
		if p.at(MINUS) {
			op = ast.Sub
		}
		line := p.advance().line
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, LHS: left, RHS: right, LineNo: line}
	}
	return left, nil
}

func (p *parser) parseMul() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(STAR) || p.at(SLASH) || p.at(PERCENT) {
		var op ast.BinaryOp
		switch p.cur().typ {
		case STAR:
			op = ast.Mul
		case SLASH:
			op = ast.Div
		default:
			op = ast.Mod
		}
		line := p.advance().line
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, LHS: left, RHS: right, LineNo: line}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	switch p.cur().typ {
	case PLUS, MINUS, NOT:
		var op ast.UnaryOp
		switch p.cur().typ {
		case PLUS:
			op = ast.Plus
		case MINUS:
			op = ast.Minus
		default:
			op = ast.Not
		}
		line := p.advance().line
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Operand: operand, LineNo: line}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.typ {
	case LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case INTCONST:
		p.advance()
		v, err := parseIntLiteral(tok.val)
		if err != nil {
			return nil, diag.New(tok.line, diag.Syntactic, "%s", err)
		}
		return &ast.IntConst{Value: v, LineNo: tok.line}, nil
	case FLOATCONST:
		p.advance()
		v, err := strconv.ParseFloat(tok.val, 32)
		if err != nil {
			return nil, diag.New(tok.line, diag.Syntactic, "invalid float literal %q", tok.val)
		}
		return &ast.FloatConst{Value: float32(v), LineNo: tok.line}, nil
	case STRING:
		p.advance()
		return &ast.StringLit{Value: tok.val, LineNo: tok.line}, nil
	case IDENT:
		p.advance()
		if p.at(LPAREN) {
			return p.parseCallRest(tok.val, tok.line)
		}
		lv := &ast.LVal{Name: tok.val, LineNo: tok.line}
		for p.at(LBRACK) {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACK, "']'"); err != nil {
				return nil, err
			}
			lv.Indices = append(lv.Indices, e)
		}
		return lv, nil
	default:
		return nil, diag.New(tok.line, diag.Syntactic, "unexpected token %q in expression", tok.val)
	}
}

func (p *parser) parseCallRest(callee string, line int) (ast.Expr, error) {
	p.advance() // '('
	call := &ast.Call{Callee: callee, LineNo: line}
	if !p.at(RPAREN) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, e)
		for p.at(COMMA) {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, e)
		}
	}
	if _, err := p.expect(RPAREN, "')'"); err != nil {
		return nil, err
	}
	return call, nil
}

func parseIntLiteral(s string) (int32, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		return int32(v), err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return int32(v), err
}
