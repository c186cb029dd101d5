package codegen

import (
	"strings"
	"testing"

	"github.com/atul1503/pyrinas/internal/analyzer"
	"github.com/atul1503/pyrinas/internal/ast"
)

func name(id string) *ast.Name { return &ast.Name{Ident: id} }

func constInt(v int) *ast.Constant    { return &ast.Constant{Value: v} }
func constBool(v bool) *ast.Constant  { return &ast.Constant{Value: v} }
func constStr(v string) *ast.Constant { return &ast.Constant{Value: v} }

func mainFn(body ...ast.Stmt) *ast.FunctionDef {
	return &ast.FunctionDef{Name: "main", Body: body}
}

// generate analyzes body under a synthetic main (plus any extra top-level
// items) and runs codegen over the result, failing the test outright if
// analysis rejects the program — codegen has nothing to verify that the
// analyzer hasn't already guaranteed.
func generate(t *testing.T, items ...ast.Stmt) string {
	t.Helper()
	prog := &ast.Program{File: "m.pyr", Body: items}
	res, errs := analyzer.Analyze(prog, nil)
	if len(errs) != 0 {
		t.Fatalf("analysis failed: %v", errs)
	}
	return Generate(prog, res).Code
}

func TestPrintIntEmitsPrintfWithNewline(t *testing.T) {
	code := generate(t, mainFn(&ast.ExprStmt{X: &ast.Call{Func: name("print"), Args: []ast.Expr{constInt(42)}}}))
	if !strings.Contains(code, `printf("%d\n", 42)`) {
		t.Fatalf("expected a %%d printf call, got:\n%s", code)
	}
}

func TestPrintStringUsesPercentS(t *testing.T) {
	code := generate(t, mainFn(&ast.ExprStmt{X: &ast.Call{Func: name("print"), Args: []ast.Expr{constStr("hi")}}}))
	if !strings.Contains(code, `printf("%s\n", "hi")`) {
		t.Fatalf("expected a %%s printf call, got:\n%s", code)
	}
}

func TestForLoopLowersToCFor(t *testing.T) {
	loop := &ast.For{
		Target: "i",
		Iter:   &ast.Call{Func: name("range"), Args: []ast.Expr{constInt(5)}},
		Body: []ast.Stmt{
			&ast.ExprStmt{X: &ast.Call{Func: name("print"), Args: []ast.Expr{name("i")}}},
		},
	}
	code := generate(t, mainFn(loop))
	if !strings.Contains(code, "for (int i = 0; i < 5; i++) {") {
		t.Fatalf("expected a native C for loop, got:\n%s", code)
	}
}

func TestFinalDeclarationEmitsConst(t *testing.T) {
	code := generate(t, mainFn(
		&ast.AnnAssign{Name: "y", Annotation: ast.FinalAnnotation{Inner: ast.NameAnnotation{Name: "int"}}, Value: constInt(42)},
	))
	if !strings.Contains(code, "const int y = 42;") {
		t.Fatalf("expected a const declaration, got:\n%s", code)
	}
}

func TestLabeledBreakLowersToGoto(t *testing.T) {
	innerLoop := &ast.While{
		Test: constBool(true),
		Body: []ast.Stmt{
			&ast.ExprStmt{X: constStr("outer")},
			&ast.Break{},
		},
	}
	outerLoop := &ast.While{
		Test: constBool(true),
		Body: []ast.Stmt{
			&ast.ExprStmt{X: constStr("outer")},
			innerLoop,
		},
	}
	label := &ast.ExprStmt{X: constStr("outer")}
	code := generate(t, mainFn(label, outerLoop))
	if !strings.Contains(code, "outer:\n") {
		t.Fatalf("expected a label marker, got:\n%s", code)
	}
	if !strings.Contains(code, "goto outer_break;") {
		t.Fatalf("expected a labeled break to lower to goto, got:\n%s", code)
	}
	if !strings.Contains(code, "outer_break:;") {
		t.Fatalf("expected an outer_break landing label, got:\n%s", code)
	}
}

func TestStructWithMethodEmitsStructAndMethodFunction(t *testing.T) {
	point := &ast.ClassDef{
		Name: "Point",
		Fields: []ast.Field{
			{Name: "x", Annotation: ast.NameAnnotation{Name: "int"}},
			{Name: "y", Annotation: ast.NameAnnotation{Name: "int"}},
		},
		Methods: []ast.Method{
			{
				Name:    "sum",
				Returns: ast.NameAnnotation{Name: "int"},
				Body: []ast.Stmt{
					&ast.Return{Value: &ast.BinOp{Op: ast.Add, Left: &ast.Attribute{Value: name("self"), Attr: "x"}, Right: &ast.Attribute{Value: name("self"), Attr: "y"}}},
				},
			},
		},
	}
	body := []ast.Stmt{
		&ast.AnnAssign{Name: "p", Annotation: ast.NameAnnotation{Name: "Point"}, Value: &ast.Call{Func: name("Point")}},
		&ast.ExprStmt{X: &ast.Call{Func: name("print"), Args: []ast.Expr{&ast.Call{Func: &ast.Attribute{Value: name("p"), Attr: "sum"}}}}},
	}
	code := generate(t, point, mainFn(body...))

	if !strings.Contains(code, "struct Point {") {
		t.Fatalf("expected a struct declaration, got:\n%s", code)
	}
	if !strings.Contains(code, "int Point_sum(struct Point* self) {") {
		t.Fatalf("expected a method emitted as Point_sum, got:\n%s", code)
	}
	if !strings.Contains(code, "(self->x + self->y)") {
		t.Fatalf("expected self field access to use ->, got:\n%s", code)
	}
	if !strings.Contains(code, "Point_sum(&p)") {
		t.Fatalf("expected the method call to lower to Point_sum(&p), got:\n%s", code)
	}
	if !strings.Contains(code, "(struct Point){0}") {
		t.Fatalf("expected the zero-arg constructor to lower to a zero initializer, got:\n%s", code)
	}
}

func TestEnumMembersLowerToPrefixedConstants(t *testing.T) {
	color := &ast.ClassDef{
		Name:  "Color",
		Bases: []string{"Enum"},
		Members: []ast.EnumMember{
			{Name: "RED", Value: 0},
			{Name: "GREEN", Value: 1},
		},
	}
	body := []ast.Stmt{
		&ast.AnnAssign{Name: "c", Annotation: ast.NameAnnotation{Name: "Color"}, Value: &ast.Attribute{Value: name("Color"), Attr: "RED"}},
	}
	code := generate(t, color, mainFn(body...))
	if !strings.Contains(code, "enum Color {") {
		t.Fatalf("expected an enum declaration, got:\n%s", code)
	}
	if !strings.Contains(code, "Color_RED = 0") {
		t.Fatalf("expected a prefixed member constant, got:\n%s", code)
	}
	if !strings.Contains(code, "c = Color_RED;") {
		t.Fatalf("expected the member reference to lower to Color_RED, got:\n%s", code)
	}
}

func TestResultReturnAndUnwrapLowerToConcreteInstantiation(t *testing.T) {
	divide := &ast.FunctionDef{
		Name:    "divide",
		Returns: ast.ResultAnnotation{Ok: ast.NameAnnotation{Name: "int"}, Err: ast.NameAnnotation{Name: "str"}},
		Params: []ast.Param{
			{Name: "a", Annotation: ast.NameAnnotation{Name: "int"}},
			{Name: "b", Annotation: ast.NameAnnotation{Name: "int"}},
		},
		Body: []ast.Stmt{
			&ast.If{
				Test: &ast.Compare{Op: ast.Eq, Left: name("b"), Right: constInt(0)},
				Body: []ast.Stmt{
					&ast.Return{Value: &ast.Call{Func: name("Err"), Args: []ast.Expr{constStr("div by zero")}}},
				},
			},
			&ast.Return{Value: &ast.Call{Func: name("Ok"), Args: []ast.Expr{name("a")}}},
		},
	}
	body := []ast.Stmt{
		&ast.AnnAssign{
			Name:       "r",
			Annotation: ast.ResultAnnotation{Ok: ast.NameAnnotation{Name: "int"}, Err: ast.NameAnnotation{Name: "str"}},
			Value:      &ast.Call{Func: name("divide"), Args: []ast.Expr{constInt(4), constInt(2)}},
		},
		&ast.ExprStmt{X: &ast.Call{Func: name("print"), Args: []ast.Expr{&ast.Call{Func: name("unwrap_int"), Args: []ast.Expr{name("r")}}}}},
	}
	code := generate(t, divide, mainFn(body...))

	if !strings.Contains(code, "typedef struct {") || !strings.Contains(code, "PyrResult_int_str;") {
		t.Fatalf("expected a PyrResult_int_str typedef, got:\n%s", code)
	}
	if !strings.Contains(code, "return (PyrResult_int_str){.is_ok = 1, .value = {.ok_value = a}};") {
		t.Fatalf("expected an Ok return to lower to a tagged struct literal, got:\n%s", code)
	}
	if !strings.Contains(code, "return (PyrResult_int_str){.is_ok = 0, .value = {.err_value = \"div by zero\"}};") {
		t.Fatalf("expected an Err return to lower to a tagged struct literal, got:\n%s", code)
	}
	if !strings.Contains(code, "pyr_unwrap_int_str(r)") {
		t.Fatalf("expected unwrap_int to resolve to the concrete instantiation's helper, got:\n%s", code)
	}
}

func TestMatchOnResultLowersToIfElseOnTag(t *testing.T) {
	divide := &ast.FunctionDef{
		Name:    "divide",
		Returns: ast.ResultAnnotation{Ok: ast.NameAnnotation{Name: "int"}, Err: ast.NameAnnotation{Name: "str"}},
		Params: []ast.Param{
			{Name: "a", Annotation: ast.NameAnnotation{Name: "int"}},
			{Name: "b", Annotation: ast.NameAnnotation{Name: "int"}},
		},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.Call{Func: name("Ok"), Args: []ast.Expr{name("a")}}},
		},
	}
	body := []ast.Stmt{
		&ast.AnnAssign{
			Name:       "r",
			Annotation: ast.ResultAnnotation{Ok: ast.NameAnnotation{Name: "int"}, Err: ast.NameAnnotation{Name: "str"}},
			Value:      &ast.Call{Func: name("divide"), Args: []ast.Expr{constInt(4), constInt(2)}},
		},
		&ast.Match{
			Subject: name("r"),
			Cases: []ast.MatchCase{
				{Ctor: "Ok", Binding: "v", Body: []ast.Stmt{&ast.ExprStmt{X: &ast.Call{Func: name("print"), Args: []ast.Expr{name("v")}}}}},
				{Ctor: "Err", Binding: "e", Body: []ast.Stmt{&ast.ExprStmt{X: &ast.Call{Func: name("print"), Args: []ast.Expr{name("e")}}}}},
			},
		},
	}
	code := generate(t, divide, mainFn(body...))

	if !strings.Contains(code, ".is_ok) {") {
		t.Fatalf("expected the match to branch on the is_ok tag, got:\n%s", code)
	}
	if !strings.Contains(code, "int v = ") || !strings.Contains(code, ".value.ok_value;") {
		t.Fatalf("expected the Ok arm to bind from value.ok_value, got:\n%s", code)
	}
	if !strings.Contains(code, "char* e = ") || !strings.Contains(code, ".value.err_value;") {
		t.Fatalf("expected the Err arm to bind from value.err_value, got:\n%s", code)
	}
}

func TestCFunctionStubIsNotEmittedButReferenced(t *testing.T) {
	stub := &ast.FunctionDef{
		Name:       "sqrt_c",
		Decorators: []ast.Decorator{{Name: "c_function"}},
		Returns:    ast.NameAnnotation{Name: "float"},
		Params:     []ast.Param{{Name: "x", Annotation: ast.NameAnnotation{Name: "float"}}},
		Body:       []ast.Stmt{&ast.Pass{}},
	}
	body := []ast.Stmt{
		&ast.ExprStmt{X: &ast.Call{Func: name("print"), Args: []ast.Expr{&ast.Call{Func: name("sqrt_c"), Args: []ast.Expr{&ast.Constant{Value: 2.0}}}}}},
	}
	code := generate(t, stub, mainFn(body...))
	if strings.Contains(code, "sqrt_c(float x)") {
		t.Fatalf("expected the external stub body not to be emitted, got:\n%s", code)
	}
	if !strings.Contains(code, "sqrt_c(2") {
		t.Fatalf("expected the stub to still be referenced by name at its call site, got:\n%s", code)
	}
}
