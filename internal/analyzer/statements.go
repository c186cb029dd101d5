package analyzer

import (
	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/config"
	"github.com/atul1503/pyrinas/internal/diagnostics"
	"github.com/atul1503/pyrinas/internal/parentage"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/types"
)

func (a *Analyzer) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.AnnAssign:
		a.checkAnnAssign(n)
	case *ast.Assign:
		a.checkAssign(n)
	case *ast.ExprStmt:
		a.checkExprStmt(n)
	case *ast.If:
		a.checkIf(n)
	case *ast.While:
		a.checkWhile(n)
	case *ast.For:
		a.checkFor(n)
	case *ast.Break:
		a.checkBreak(n)
	case *ast.Continue:
		a.checkContinue(n)
	case *ast.Return:
		a.checkReturn(n)
	case *ast.Match:
		a.checkMatch(n)
	case *ast.Pass:
		// no-op
	default:
		a.fail(s.Pos(), diagnostics.TypeError, "unsupported statement %T", s)
	}
}

func (a *Analyzer) checkAnnAssign(n *ast.AnnAssign) {
	immutable := isFinal(n.Annotation)
	declaredType := a.typeFromAnnotation(n.Position, n.Annotation)

	if a.symbols.LookupCurrent(n.Name) != nil {
		a.fail(n.Position, diagnostics.NameError, "variable %q already declared in this scope.", n.Name)
		return
	}
	if immutable && n.Value == nil {
		a.fail(n.Position, diagnostics.TypeError, "immutable variable %q must be initialized at declaration.", n.Name)
	}

	a.symbols.Insert(symbols.NewVariable(n.Name, declaredType, immutable))

	if n.Value != nil {
		valueType := a.checkExpr(n.Value)
		if valueType != nil && declaredType != nil && !types.AssignableTo(valueType, declaredType) {
			a.fail(n.Position, diagnostics.TypeError, "type mismatch assigning to %q: expected %s, got %s", n.Name, fmtType(declaredType), fmtType(valueType))
		}
	}
}

func isFinal(ann ast.TypeAnnotation) bool {
	_, ok := ann.(ast.FinalAnnotation)
	return ok
}

func (a *Analyzer) checkAssign(n *ast.Assign) {
	switch target := n.Target.(type) {
	case *ast.Name:
		sym := a.symbols.Lookup(target.Ident)
		if sym == nil {
			valueType := a.checkExpr(n.Value)
			a.symbols.Insert(symbols.NewVariable(target.Ident, valueType, false))
			return
		}
		if sym.Immutable {
			a.fail(n.Position, diagnostics.TypeError, "cannot reassign immutable variable %q.", target.Ident)
		}
		valueType := a.checkExpr(n.Value)
		if valueType != nil && sym.Type != nil && !types.AssignableTo(valueType, sym.Type) {
			a.fail(n.Position, diagnostics.TypeError, "type mismatch assigning to %q: expected %s, got %s", target.Ident, fmtType(sym.Type), fmtType(valueType))
		}
	case *ast.Subscript:
		if base, ok := target.Value.(*ast.Name); ok {
			if sym := a.symbols.Lookup(base.Ident); sym != nil && sym.Immutable {
				a.fail(n.Position, diagnostics.TypeError, "cannot modify immutable array %q.", base.Ident)
			}
		}
		a.checkExpr(target)
		a.checkExpr(n.Value)
	case *ast.Attribute:
		if base, ok := target.Value.(*ast.Name); ok {
			if sym := a.symbols.Lookup(base.Ident); sym != nil && sym.Immutable {
				a.fail(n.Position, diagnostics.TypeError, "cannot modify immutable struct %q.", base.Ident)
			}
		}
		a.checkExpr(target)
		a.checkExpr(n.Value)
	default:
		a.fail(n.Position, diagnostics.TypeError, "unsupported assignment target %T", target)
	}
}

func (a *Analyzer) checkExprStmt(n *ast.ExprStmt) {
	if _, isLabel := n.Label(); isLabel {
		return // a bare string literal preceding a loop; nothing to check
	}
	a.checkExpr(n.X)
}

func (a *Analyzer) checkIf(n *ast.If) {
	testType := a.checkExpr(n.Test)
	if testType != nil && !testType.Equal(types.Bool) {
		a.fail(n.Position, diagnostics.TypeError, "if condition must be a boolean expression.")
	}
	for _, s := range n.Body {
		a.checkStmt(s)
	}
	for _, s := range n.Orelse {
		a.checkStmt(s)
	}
}

func (a *Analyzer) precedingLabel(loop ast.Stmt) (string, bool) {
	body, ok := parentage.EnclosingBlock(a.parents, loop)
	if !ok {
		return "", false
	}
	return parentage.PrecedingLabel(body, loop)
}

func (a *Analyzer) checkWhile(n *ast.While) {
	testType := a.checkExpr(n.Test)
	if testType != nil && !testType.Equal(types.Bool) {
		a.fail(n.Position, diagnostics.TypeError, "while condition must be a boolean expression.")
	}

	a.loopDepth++
	label, hasLabel := a.precedingLabel(n)
	if hasLabel {
		a.loopLabels = append(a.loopLabels, label)
	}
	for _, s := range n.Body {
		a.checkStmt(s)
	}
	if hasLabel {
		a.loopLabels = a.loopLabels[:len(a.loopLabels)-1]
	}
	a.loopDepth--
}

func (a *Analyzer) checkFor(n *ast.For) {
	if a.symbols.LookupCurrent(n.Target) != nil {
		a.fail(n.Position, diagnostics.NameError, "variable %q already declared in this scope.", n.Target)
	}
	a.symbols.Insert(symbols.NewVariable(n.Target, types.Int, false))
	a.checkExpr(n.Iter)

	a.loopDepth++
	label, hasLabel := a.precedingLabel(n)
	if hasLabel {
		a.loopLabels = append(a.loopLabels, label)
	}
	for _, s := range n.Body {
		a.checkStmt(s)
	}
	if hasLabel {
		a.loopLabels = a.loopLabels[:len(a.loopLabels)-1]
	}
	a.loopDepth--
}

func (a *Analyzer) checkBreak(n *ast.Break) {
	if a.loopDepth == 0 {
		a.fail(n.Position, diagnostics.SyntaxError, "'break' outside loop")
		return
	}
	a.checkLoopLabelRef(n)
}

func (a *Analyzer) checkContinue(n *ast.Continue) {
	if a.loopDepth == 0 {
		a.fail(n.Position, diagnostics.SyntaxError, "'continue' outside loop")
		return
	}
	a.checkLoopLabelRef(n)
}

// checkLoopLabelRef validates `"outer"` / `break` pairs the same way a
// loop's own label is recognized: a bare string-literal statement
// immediately preceding the break/continue, resolved against the stack
// of labels currently in scope.
func (a *Analyzer) checkLoopLabelRef(n ast.Stmt) {
	label, hasLabel := a.precedingLabel(n)
	if !hasLabel {
		return
	}
	for _, l := range a.loopLabels {
		if l == label {
			return
		}
	}
	a.fail(n.Pos(), diagnostics.NameError, "label %q not found.", label)
}

func (a *Analyzer) checkReturn(n *ast.Return) {
	if !a.hasReturnType {
		if n.Value != nil {
			a.checkExpr(n.Value)
		}
		return
	}

	if n.Value == nil {
		a.fail(n.Position, diagnostics.TypeError, "function must return a value of type %s.", fmtType(a.currentReturnType))
		return
	}

	returnedType := a.checkExpr(n.Value)
	if returnedType == nil {
		return
	}

	if resultType, ok := a.currentReturnType.(types.Result); ok {
		switch rt := returnedType.(type) {
		case types.Ok:
			if !rt.Inner.Equal(resultType.Ok) {
				a.fail(n.Position, diagnostics.TypeError, "type mismatch in Ok return: expected %s, got %s", fmtType(resultType.Ok), fmtType(rt.Inner))
			}
		case types.Err:
			if !rt.Inner.Equal(resultType.Err) {
				a.fail(n.Position, diagnostics.TypeError, "type mismatch in Err return: expected %s, got %s", fmtType(resultType.Err), fmtType(rt.Inner))
			}
		default:
			a.fail(n.Position, diagnostics.TypeError, "must return an Ok or Err value from a function with a Result return type.")
		}
		return
	}

	if !types.AssignableTo(returnedType, a.currentReturnType) {
		a.fail(n.Position, diagnostics.TypeError, "return type mismatch: expected %s, got %s.", fmtType(a.currentReturnType), fmtType(returnedType))
	}
}

func (a *Analyzer) checkMatch(n *ast.Match) {
	subjectType := a.checkExpr(n.Subject)
	resultType, ok := subjectType.(types.Result)
	if subjectType != nil && !ok {
		a.fail(n.Position, diagnostics.TypeError, "subject of a match statement must be a Result type, but got %s", fmtType(subjectType))
	}

	var hasOk, hasErr bool
	for _, c := range n.Cases {
		switch c.Ctor {
		case config.OkCtorName:
			hasOk = true
		case config.ErrCtorName:
			hasErr = true
		default:
			a.fail(c.Position, diagnostics.SyntaxError, "match case constructor must be Ok or Err, got %q", c.Ctor)
		}

		a.symbols.Push()
		var bindingType types.Type
		if ok {
			if c.Ctor == config.OkCtorName {
				bindingType = resultType.Ok
			} else {
				bindingType = resultType.Err
			}
		}
		a.symbols.Insert(symbols.NewVariable(c.Binding, bindingType, false))
		for _, s := range c.Body {
			a.checkStmt(s)
		}
		a.symbols.Pop()
	}

	if !hasOk || !hasErr {
		a.fail(n.Position, diagnostics.SyntaxError, "match statement must handle both 'Ok' and 'Err' cases.")
	}
}
