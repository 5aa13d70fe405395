package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/lir"
	"sysyc/internal/sema"
	"sysyc/internal/types"
)

// lowerStmt lowers one statement into the current block. Callers that
// iterate a statement list must stop after any statement that leaves the
// current block terminated (return/break/continue) — anything following
// it is unreachable and would otherwise be appended past a terminator.
func (e *Emitter) lowerStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.AssignStmt:
		return e.lowerAssign(n)
	case *ast.ExprStmt:
		if n.Expr == nil {
			return nil
		}
		_, _, err := e.lowerExpr(n.Expr, sema.Value)
		return err
	case *ast.ReturnStmt:
		return e.lowerReturn(n)
	case *ast.IfStmt:
		return e.lowerIf(n)
	case *ast.WhileStmt:
		return e.lowerWhile(n)
	case *ast.BreakStmt:
		if e.breakTargets.Empty() {
			return diag.New(n.LineNo, diag.ControlErr, "break outside of a loop")
		}
		e.block.CreateBranch(e.breakTargets.Peek())
		return nil
	case *ast.ContinueStmt:
		if e.continueTargets.Empty() {
			return diag.New(n.LineNo, diag.ControlErr, "continue outside of a loop")
		}
		e.block.CreateBranch(e.continueTargets.Peek())
		return nil
	case *ast.Block:
		e.tab.Push()
		defer e.tab.Pop()
		return e.lowerBlockBody(n)
	default:
		return diag.New(s.Line(), diag.TypeErr, "unsupported statement")
	}
}

// lowerBlockBody lowers the items of a block into the current block,
// stopping early if a terminator is emitted partway through.
func (e *Emitter) lowerBlockBody(b *ast.Block) error {
	for _, item := range b.Items {
		switch bi := item.(type) {
		case *ast.DeclItem:
			if err := e.localDecl(bi.Decl); err != nil {
				return err
			}
		case *ast.StmtItem:
			if err := e.lowerStmt(bi.Stmt); err != nil {
				return err
			}
		}
		if e.block.Terminated() {
			return nil
		}
	}
	return nil
}

func (e *Emitter) lowerAssign(n *ast.AssignStmt) error {
	addr, err := e.lowerLVal(n.LVal)
	if err != nil {
		return err
	}
	if addr.Binding != nil && addr.Binding.Const {
		return diag.New(n.LineNo, diag.Shape, "assignment to a constant %q", addr.Binding.Name)
	}
	v, vt, err := e.lowerExpr(n.Expr, sema.Value)
	if err != nil {
		return err
	}
	if err := sema.CheckAssignable(n.LineNo, addr.Class, vt); err != nil {
		return err
	}
	v = e.coerceScalar(v, vt, addr.Class)
	e.storeLVal(addr, v)
	return nil
}

func (e *Emitter) lowerReturn(n *ast.ReturnStmt) error {
	retType := baseType(e.fn.ReturnType)
	retDT := baseLIR(e.fn.ReturnType)
	if n.Value == nil {
		if err := sema.CheckReturn(n.LineNo, retType, false, types.Type{}); err != nil {
			return err
		}
		if retType.Kind == types.VoidK {
			e.block.CreateReturn(nil)
		} else {
			// spec.md §7: a non-void function closes a returnless path
			// with an undefined value rather than being rejected.
			e.block.CreateReturn(lir.ZeroOf(retDT))
		}
		return nil
	}
	v, vt, err := e.lowerExpr(n.Value, sema.Value)
	if err != nil {
		return err
	}
	if err := sema.CheckReturn(n.LineNo, retType, true, vt); err != nil {
		return err
	}
	v = e.coerceScalar(v, vt, retType)
	e.block.CreateReturn(v)
	return nil
}

func (e *Emitter) lowerIf(n *ast.IfStmt) error {
	cond, ct, err := e.lowerExpr(n.Cond, sema.Condition)
	if err != nil {
		return err
	}
	if !ct.IsScalarNumeric() {
		return diag.New(n.Cond.Line(), diag.TypeErr, "if condition must be scalar, got %s", ct)
	}
	condVal := e.toBool(cond)

	thenBlock := e.lfn.CreateBlock(e.label("then"))
	afterBlock := e.lfn.CreateBlock(e.label("endif"))
	elseBlock := afterBlock
	if n.Else != nil {
		elseBlock = e.lfn.CreateBlock(e.label("else"))
	}
	e.block.CreateCondBranch(condVal, thenBlock, elseBlock)

	e.block = thenBlock
	if err := e.lowerStmt(n.Then); err != nil {
		return err
	}
	if !e.block.Terminated() {
		e.block.CreateBranch(afterBlock)
	}

	if n.Else != nil {
		e.block = elseBlock
		if err := e.lowerStmt(n.Else); err != nil {
			return err
		}
		if !e.block.Terminated() {
			e.block.CreateBranch(afterBlock)
		}
	}

	e.block = afterBlock
	return nil
}

func (e *Emitter) lowerWhile(n *ast.WhileStmt) error {
	condBlock := e.lfn.CreateBlock(e.label("while.cond"))
	bodyBlock := e.lfn.CreateBlock(e.label("while.body"))
	afterBlock := e.lfn.CreateBlock(e.label("while.end"))

	e.block.CreateBranch(condBlock)

	e.block = condBlock
	cond, ct, err := e.lowerExpr(n.Cond, sema.Condition)
	if err != nil {
		return err
	}
	if !ct.IsScalarNumeric() {
		return diag.New(n.Cond.Line(), diag.TypeErr, "while condition must be scalar, got %s", ct)
	}
	e.block.CreateCondBranch(e.toBool(cond), bodyBlock, afterBlock)

	e.continueTargets.Push(condBlock)
	e.breakTargets.Push(afterBlock)
	e.block = bodyBlock
	if err := e.lowerStmt(n.Body); err != nil {
		e.continueTargets.Pop()
		e.breakTargets.Pop()
		return err
	}
	if !e.block.Terminated() {
		e.block.CreateBranch(condBlock)
	}
	e.continueTargets.Pop()
	e.breakTargets.Pop()

	e.block = afterBlock
	return nil
}
