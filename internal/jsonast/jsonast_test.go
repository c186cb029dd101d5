package jsonast

import (
	"testing"

	"github.com/atul1503/pyrinas/internal/ast"
)

func TestDecodeSimpleMain(t *testing.T) {
	src := `{
		"body": [
			{
				"kind": "FunctionDef",
				"name": "main",
				"params": [],
				"body": [
					{
						"kind": "ExprStmt",
						"x": {
							"kind": "Call",
							"func": {"kind": "Name", "ident": "print"},
							"args": [{"kind": "Constant", "value": 42}]
						}
					}
				]
			}
		]
	}`

	prog, err := Decode([]byte(src), "m.pyr")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(prog.Body))
	}
	fn, ok := prog.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected *ast.FunctionDef, got %T", prog.Body[0])
	}
	if fn.Name != "main" {
		t.Fatalf("expected function named main, got %s", fn.Name)
	}
	exprStmt, ok := fn.Body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", fn.Body[0])
	}
	call, ok := exprStmt.X.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", exprStmt.X)
	}
	arg, ok := call.Args[0].(*ast.Constant)
	if !ok {
		t.Fatalf("expected *ast.Constant, got %T", call.Args[0])
	}
	if arg.Value != 42 {
		t.Fatalf("expected the integer literal 42 to decode as a Go int, got %#v", arg.Value)
	}
}

func TestDecodeResultAnnotationAndMatch(t *testing.T) {
	src := `{
		"body": [
			{
				"kind": "FunctionDef",
				"name": "main",
				"params": [],
				"body": [
					{
						"kind": "AnnAssign",
						"name": "r",
						"annotation": {
							"kind": "Result",
							"ok": {"kind": "Name", "name": "int"},
							"err": {"kind": "Name", "name": "str"}
						},
						"value": {
							"kind": "Call",
							"func": {"kind": "Name", "ident": "Ok"},
							"args": [{"kind": "Constant", "value": 1}]
						}
					},
					{
						"kind": "Match",
						"subject": {"kind": "Name", "ident": "r"},
						"cases": [
							{"kind": "MatchCase", "ctor": "Ok", "binding": "v", "body": []},
							{"kind": "MatchCase", "ctor": "Err", "binding": "e", "body": []}
						]
					}
				]
			}
		]
	}`

	prog, err := Decode([]byte(src), "m.pyr")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	fn := prog.Body[0].(*ast.FunctionDef)
	ann := fn.Body[0].(*ast.AnnAssign)
	result, ok := ann.Annotation.(ast.ResultAnnotation)
	if !ok {
		t.Fatalf("expected ast.ResultAnnotation, got %T", ann.Annotation)
	}
	if result.Ok.(ast.NameAnnotation).Name != "int" || result.Err.(ast.NameAnnotation).Name != "str" {
		t.Fatalf("expected Result[int, str], got %#v", result)
	}

	match := fn.Body[1].(*ast.Match)
	if len(match.Cases) != 2 || match.Cases[0].Ctor != "Ok" || match.Cases[1].Ctor != "Err" {
		t.Fatalf("expected Ok/Err match cases, got %#v", match.Cases)
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"body": [{"kind": "Bogus"}]}`), "m.pyr")
	if err == nil {
		t.Fatal("expected an error for an unrecognized statement kind")
	}
}
