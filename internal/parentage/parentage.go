// Package parentage computes a parent-pointer table for an already-built
// AST. The original implementation attaches a parent back-reference to
// every node as it walks (ParentageVisitor in module_resolver's sibling
// semantic.py); that works in Python but in Go it turns the AST into a
// cyclic structure that is awkward to construct, copy, and print. Instead
// this package walks once and returns a plain map, keeping ast.Node
// acyclic — see DESIGN.md.
package parentage

import "github.com/atul1503/pyrinas/internal/ast"

// Table maps every statement and expression node reachable from a Program
// to its immediate syntactic parent. The Program root itself has no entry.
type Table map[ast.Node]ast.Node

// Build walks prog pre-order and returns the parent table.
func Build(prog *ast.Program) Table {
	t := make(Table)
	for _, s := range prog.Body {
		walkStmt(t, prog, s)
	}
	return t
}

func walkStmt(t Table, parent ast.Node, s ast.Stmt) {
	if s == nil {
		return
	}
	t[s] = parent

	switch n := s.(type) {
	case *ast.FunctionDef:
		for _, b := range n.Body {
			walkStmt(t, n, b)
		}
	case *ast.ClassDef:
		for i := range n.Methods {
			m := &n.Methods[i]
			for _, b := range m.Body {
				walkStmt(t, m, b)
			}
		}
	case *ast.AnnAssign:
		walkExpr(t, n, n.Value)
	case *ast.Assign:
		if target, ok := n.Target.(ast.Expr); ok {
			walkExpr(t, n, target)
		}
		walkExpr(t, n, n.Value)
	case *ast.ExprStmt:
		walkExpr(t, n, n.X)
	case *ast.If:
		walkExpr(t, n, n.Test)
		for _, b := range n.Body {
			walkStmt(t, n, b)
		}
		for _, b := range n.Orelse {
			walkStmt(t, n, b)
		}
	case *ast.While:
		walkExpr(t, n, n.Test)
		for _, b := range n.Body {
			walkStmt(t, n, b)
		}
	case *ast.For:
		walkExpr(t, n, n.Iter)
		for _, b := range n.Body {
			walkStmt(t, n, b)
		}
	case *ast.Return:
		walkExpr(t, n, n.Value)
	case *ast.Match:
		walkExpr(t, n, n.Subject)
		for _, c := range n.Cases {
			for _, b := range c.Body {
				walkStmt(t, n, b)
			}
		}
	case *ast.Pass, *ast.Break, *ast.Continue:
		// leaves
	}
}

func walkExpr(t Table, parent ast.Node, e ast.Expr) {
	if e == nil {
		return
	}
	t[e] = parent

	switch n := e.(type) {
	case *ast.BinOp:
		walkExpr(t, n, n.Left)
		walkExpr(t, n, n.Right)
	case *ast.Compare:
		walkExpr(t, n, n.Left)
		walkExpr(t, n, n.Right)
	case *ast.BoolOp:
		for _, v := range n.Values {
			walkExpr(t, n, v)
		}
	case *ast.UnaryOp:
		walkExpr(t, n, n.Operand)
	case *ast.Call:
		walkExpr(t, n, n.Func)
		for _, a := range n.Args {
			walkExpr(t, n, a)
		}
	case *ast.Attribute:
		walkExpr(t, n, n.Value)
	case *ast.Subscript:
		walkExpr(t, n, n.Value)
		walkExpr(t, n, n.Index)
	case *ast.Name, *ast.Constant:
		// leaves
	}
}

// Parent returns the immediate parent of n (the Program itself for a
// top-level statement), or nil if n wasn't visited.
func (t Table) Parent(n ast.Node) ast.Node {
	return t[n]
}

// PrecedingLabel reports the label string attached to loop, found by
// looking at the statement immediately before loop in body (the enclosing
// block loop's parent holds), per spec.md §4.2: a bare string-literal
// expression statement directly preceding a while/for is that loop's label.
func PrecedingLabel(body []ast.Stmt, loop ast.Stmt) (string, bool) {
	for i, s := range body {
		if s == loop {
			if i == 0 {
				return "", false
			}
			prev, ok := body[i-1].(*ast.ExprStmt)
			if !ok {
				return "", false
			}
			return prev.Label()
		}
	}
	return "", false
}

// EnclosingBlock returns the statement slice that directly contains child,
// by re-deriving it from child's parent node. Returns nil, false if parent
// is not a block-bearing node recognized here.
func EnclosingBlock(t Table, child ast.Node) ([]ast.Stmt, bool) {
	parent := t.Parent(child)
	switch n := parent.(type) {
	case *ast.FunctionDef:
		return n.Body, true
	case *ast.Method:
		return n.Body, true
	case *ast.If:
		for _, s := range n.Body {
			if s == child {
				return n.Body, true
			}
		}
		return n.Orelse, true
	case *ast.While:
		return n.Body, true
	case *ast.For:
		return n.Body, true
	}
	return nil, false
}
