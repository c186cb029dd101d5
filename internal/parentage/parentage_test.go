package parentage

import (
	"testing"

	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/token"
)

func TestBuildRecordsImmediateParents(t *testing.T) {
	loop := &ast.While{
		Test: &ast.Constant{Value: true},
		Body: []ast.Stmt{&ast.Break{}},
	}
	label := &ast.ExprStmt{X: &ast.Constant{Value: "outer"}}
	fn := &ast.FunctionDef{
		Name: "main",
		Body: []ast.Stmt{label, loop},
	}
	prog := &ast.Program{File: "m.pyr", Body: []ast.Stmt{fn}}

	table := Build(prog)

	if table.Parent(loop) != fn {
		t.Fatalf("expected while's parent to be the function, got %v", table.Parent(loop))
	}
	brk := loop.Body[0]
	if table.Parent(brk) != loop {
		t.Fatalf("expected break's parent to be the while loop, got %v", table.Parent(brk))
	}
}

func TestPrecedingLabelFindsBareStringLiteral(t *testing.T) {
	loop := &ast.While{Test: &ast.Constant{Value: true}}
	label := &ast.ExprStmt{Position: token.Position{Line: 1}, X: &ast.Constant{Value: "outer"}}
	body := []ast.Stmt{label, loop}

	name, ok := PrecedingLabel(body, loop)
	if !ok || name != "outer" {
		t.Fatalf("expected label 'outer', got %q ok=%v", name, ok)
	}
}

func TestPrecedingLabelAbsentWhenNoLabelStatement(t *testing.T) {
	loop := &ast.While{Test: &ast.Constant{Value: true}}
	other := &ast.Pass{}
	body := []ast.Stmt{other, loop}

	_, ok := PrecedingLabel(body, loop)
	if ok {
		t.Fatal("expected no label when preceding statement is not a string literal")
	}
}

func TestPrecedingLabelAbsentWhenLoopIsFirstStatement(t *testing.T) {
	loop := &ast.While{Test: &ast.Constant{Value: true}}
	body := []ast.Stmt{loop}

	_, ok := PrecedingLabel(body, loop)
	if ok {
		t.Fatal("expected no label when loop has no preceding statement")
	}
}
