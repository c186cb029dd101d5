package codegen

import (
	"fmt"
	"strings"

	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/config"
	"github.com/atul1503/pyrinas/internal/parentage"
	"github.com/atul1503/pyrinas/internal/types"
)

func (g *Generator) emitBlock(buf *strings.Builder, indent string, stmts []ast.Stmt) {
	for _, s := range stmts {
		g.emitStmt(buf, indent, s)
	}
}

func (g *Generator) emitStmt(buf *strings.Builder, indent string, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.AnnAssign:
		g.emitAnnAssign(buf, indent, n)
	case *ast.Assign:
		g.emitAssign(buf, indent, n)
	case *ast.ExprStmt:
		g.emitExprStmt(buf, indent, n)
	case *ast.If:
		g.emitIf(buf, indent, n)
	case *ast.While:
		g.emitWhile(buf, indent, n)
	case *ast.For:
		g.emitFor(buf, indent, n)
	case *ast.Break:
		g.emitBreak(buf, indent, n)
	case *ast.Continue:
		g.emitContinue(buf, indent, n)
	case *ast.Return:
		g.emitReturn(buf, indent, n)
	case *ast.Match:
		g.emitMatch(buf, indent, n)
	case *ast.Pass:
		// no-op
	}
}

func (g *Generator) emitAnnAssign(buf *strings.Builder, indent string, n *ast.AnnAssign) {
	t := typeFromAnnotation(n.Annotation)
	g.printTypes[n.Name] = t
	g.declared[n.Name] = true

	decl := g.cDeclare(n.Name, t)
	if isFinalAnnotation(n.Annotation) {
		decl = "const " + decl
	}
	if n.Value != nil {
		fmt.Fprintf(buf, "%s%s = %s;\n", indent, decl, g.emitExpr(n.Value))
		return
	}
	fmt.Fprintf(buf, "%s%s;\n", indent, decl)
}

func (g *Generator) emitAssign(buf *strings.Builder, indent string, n *ast.Assign) {
	switch target := n.Target.(type) {
	case *ast.Name:
		valExpr := g.emitExpr(n.Value)
		if !g.declared[target.Ident] {
			t := g.result.ExprTypes[n.Value]
			g.declared[target.Ident] = true
			g.printTypes[target.Ident] = t
			fmt.Fprintf(buf, "%s%s = %s;\n", indent, g.cDeclare(target.Ident, t), valExpr)
			return
		}
		fmt.Fprintf(buf, "%s%s = %s;\n", indent, target.Ident, valExpr)
	case *ast.Subscript:
		fmt.Fprintf(buf, "%s%s = %s;\n", indent, g.emitSubscript(target), g.emitExpr(n.Value))
	case *ast.Attribute:
		fmt.Fprintf(buf, "%s%s = %s;\n", indent, g.emitAttribute(target), g.emitExpr(n.Value))
	}
}

func (g *Generator) emitExprStmt(buf *strings.Builder, indent string, n *ast.ExprStmt) {
	if _, isLabel := n.Label(); isLabel {
		return // a bare label string; carries no runtime effect
	}
	fmt.Fprintf(buf, "%s%s;\n", indent, g.emitExpr(n.X))
}

func (g *Generator) emitIf(buf *strings.Builder, indent string, n *ast.If) {
	fmt.Fprintf(buf, "%sif (%s) {\n", indent, g.emitExpr(n.Test))
	g.emitBlock(buf, indent+"    ", n.Body)
	if len(n.Orelse) == 0 {
		fmt.Fprintf(buf, "%s}\n", indent)
		return
	}
	fmt.Fprintf(buf, "%s} else {\n", indent)
	g.emitBlock(buf, indent+"    ", n.Orelse)
	fmt.Fprintf(buf, "%s}\n", indent)
}

// precedingLabel re-derives a loop's or a break/continue's label the same
// way internal/analyzer does: by looking at the statement immediately
// before it in its enclosing block.
func (g *Generator) precedingLabel(stmt ast.Stmt) (string, bool) {
	body, ok := parentage.EnclosingBlock(g.result.Parents, stmt)
	if !ok {
		return "", false
	}
	return parentage.PrecedingLabel(body, stmt)
}

func (g *Generator) emitWhile(buf *strings.Builder, indent string, n *ast.While) {
	label, hasLabel := g.precedingLabel(n)
	if hasLabel {
		fmt.Fprintf(buf, "%s%s:\n", indent, label)
	}
	fmt.Fprintf(buf, "%swhile (%s) {\n", indent, g.emitExpr(n.Test))
	g.emitBlock(buf, indent+"    ", n.Body)
	if hasLabel {
		fmt.Fprintf(buf, "%s    %s_continue:;\n", indent, label)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
	if hasLabel {
		fmt.Fprintf(buf, "%s%s_break:;\n", indent, label)
	}
}

func (g *Generator) emitFor(buf *strings.Builder, indent string, n *ast.For) {
	label, hasLabel := g.precedingLabel(n)
	if hasLabel {
		fmt.Fprintf(buf, "%s%s:\n", indent, label)
	}
	bound := g.emitExpr(n.Iter.Args[0])
	g.printTypes[n.Target] = types.Int
	g.declared[n.Target] = true
	fmt.Fprintf(buf, "%sfor (int %s = 0; %s < %s; %s++) {\n", indent, n.Target, n.Target, bound, n.Target)
	g.emitBlock(buf, indent+"    ", n.Body)
	if hasLabel {
		fmt.Fprintf(buf, "%s    %s_continue:;\n", indent, label)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
	if hasLabel {
		fmt.Fprintf(buf, "%s%s_break:;\n", indent, label)
	}
}

func (g *Generator) emitBreak(buf *strings.Builder, indent string, n *ast.Break) {
	if label, ok := g.precedingLabel(n); ok {
		fmt.Fprintf(buf, "%sgoto %s_break;\n", indent, label)
		return
	}
	fmt.Fprintf(buf, "%sbreak;\n", indent)
}

func (g *Generator) emitContinue(buf *strings.Builder, indent string, n *ast.Continue) {
	if label, ok := g.precedingLabel(n); ok {
		fmt.Fprintf(buf, "%sgoto %s_continue;\n", indent, label)
		return
	}
	fmt.Fprintf(buf, "%scontinue;\n", indent)
}

func (g *Generator) emitReturn(buf *strings.Builder, indent string, n *ast.Return) {
	if n.Value == nil {
		if g.inMain {
			fmt.Fprintf(buf, "%sreturn 0;\n", indent)
			return
		}
		fmt.Fprintf(buf, "%sreturn;\n", indent)
		return
	}

	if call, ok := n.Value.(*ast.Call); ok {
		if name, ok2 := call.Func.(*ast.Name); ok2 {
			if name.Ident == config.OkCtorName || name.Ident == config.ErrCtorName {
				fmt.Fprintf(buf, "%s%s\n", indent, g.emitOkErrReturn(call, name.Ident))
				return
			}
		}
	}
	fmt.Fprintf(buf, "%sreturn %s;\n", indent, g.emitExpr(n.Value))
}

func (g *Generator) emitOkErrReturn(call *ast.Call, ctor string) string {
	resultType, _ := g.currentReturn.(types.Result)
	typeName := resultTypeName(resultType)
	inner := g.emitExpr(call.Args[0])
	if ctor == config.OkCtorName {
		return fmt.Sprintf("return (%s){.is_ok = 1, .value = {.ok_value = %s}};", typeName, inner)
	}
	return fmt.Sprintf("return (%s){.is_ok = 0, .value = {.err_value = %s}};", typeName, inner)
}

func (g *Generator) emitMatch(buf *strings.Builder, indent string, n *ast.Match) {
	subjType, _ := g.result.ExprTypes[n.Subject].(types.Result)
	typeName := resultTypeName(subjType)

	g.matchCounter++
	tmp := fmt.Sprintf("__match_%d", g.matchCounter)

	fmt.Fprintf(buf, "%s{\n", indent)
	fmt.Fprintf(buf, "%s    %s %s = %s;\n", indent, typeName, tmp, g.emitExpr(n.Subject))

	var okCase, errCase *ast.MatchCase
	for i := range n.Cases {
		c := &n.Cases[i]
		if c.Ctor == config.OkCtorName {
			okCase = c
		} else {
			errCase = c
		}
	}

	fmt.Fprintf(buf, "%s    if (%s.is_ok) {\n", indent, tmp)
	if okCase != nil {
		g.printTypes[okCase.Binding] = subjType.Ok
		g.declared[okCase.Binding] = true
		fmt.Fprintf(buf, "%s        %s %s = %s.value.ok_value;\n", indent, g.cType(subjType.Ok), okCase.Binding, tmp)
		g.emitBlock(buf, indent+"        ", okCase.Body)
	}
	fmt.Fprintf(buf, "%s    } else {\n", indent)
	if errCase != nil {
		g.printTypes[errCase.Binding] = subjType.Err
		g.declared[errCase.Binding] = true
		fmt.Fprintf(buf, "%s        %s %s = %s.value.err_value;\n", indent, g.cType(subjType.Err), errCase.Binding, tmp)
		g.emitBlock(buf, indent+"        ", errCase.Body)
	}
	fmt.Fprintf(buf, "%s    }\n", indent)
	fmt.Fprintf(buf, "%s}\n", indent)
}
