package analyzer

import (
	"testing"

	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/diagnostics"
)

func name(id string) *ast.Name { return &ast.Name{Ident: id} }

func constInt(v int) *ast.Constant    { return &ast.Constant{Value: v} }
func constBool(v bool) *ast.Constant  { return &ast.Constant{Value: v} }
func constStr(v string) *ast.Constant { return &ast.Constant{Value: v} }

func mainFn(body ...ast.Stmt) *ast.FunctionDef {
	return &ast.FunctionDef{Name: "main", Body: body}
}

func analyzeProgram(t *testing.T, body ...ast.Stmt) []*diagnostics.Error {
	t.Helper()
	prog := &ast.Program{File: "m.pyr", Body: body}
	_, errs := Analyze(prog, nil)
	return errs
}

func TestSimpleMainCompiles(t *testing.T) {
	errs := analyzeProgram(t, mainFn(&ast.Pass{}))
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestMissingMainIsRejected(t *testing.T) {
	fn := &ast.FunctionDef{Name: "helper", Body: []ast.Stmt{&ast.Pass{}}}
	errs := analyzeProgram(t, fn)
	if len(errs) == 0 {
		t.Fatal("expected an error for a missing main function")
	}
}

func TestImmutableReassignmentRejected(t *testing.T) {
	body := []ast.Stmt{
		&ast.AnnAssign{Name: "x", Annotation: ast.FinalAnnotation{Inner: ast.NameAnnotation{Name: "int"}}, Value: constInt(1)},
		&ast.Assign{Target: name("x"), Value: constInt(2)},
	}
	errs := analyzeProgram(t, mainFn(body...))
	if len(errs) == 0 {
		t.Fatal("expected an error reassigning an immutable variable")
	}
}

func TestImmutableMustBeInitialized(t *testing.T) {
	body := []ast.Stmt{
		&ast.AnnAssign{Name: "x", Annotation: ast.FinalAnnotation{Inner: ast.NameAnnotation{Name: "int"}}},
	}
	errs := analyzeProgram(t, mainFn(body...))
	if len(errs) == 0 {
		t.Fatal("expected an error for an uninitialized Final variable")
	}
}

func TestRedeclarationInsideIfBlockRejected(t *testing.T) {
	body := []ast.Stmt{
		&ast.AnnAssign{Name: "x", Annotation: ast.NameAnnotation{Name: "int"}, Value: constInt(1)},
		&ast.If{
			Test: constBool(true),
			Body: []ast.Stmt{
				&ast.AnnAssign{Name: "x", Annotation: ast.NameAnnotation{Name: "float"}, Value: &ast.Constant{Value: 1.5}},
			},
		},
	}
	errs := analyzeProgram(t, mainFn(body...))
	if len(errs) == 0 {
		t.Fatal("expected an error: an if-block shares its enclosing scope, so x is redeclared")
	}
}

func TestBreakOutsideLoopRejected(t *testing.T) {
	errs := analyzeProgram(t, mainFn(&ast.Break{}))
	if len(errs) == 0 {
		t.Fatal("expected an error for break outside a loop")
	}
}

func TestLabeledBreakResolvesAgainstEnclosingLabel(t *testing.T) {
	loop := &ast.While{
		Test: constBool(true),
		Body: []ast.Stmt{
			&ast.ExprStmt{X: constStr("inner")},
			&ast.While{
				Test: constBool(true),
				Body: []ast.Stmt{
					&ast.ExprStmt{X: constStr("outer")},
					&ast.Break{},
				},
			},
		},
	}
	label := &ast.ExprStmt{X: constStr("outer")}
	body := []ast.Stmt{label, loop}
	errs := analyzeProgram(t, mainFn(body...))
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestUnknownLabelIsRejected(t *testing.T) {
	inner := &ast.While{
		Test: constBool(true),
		Body: []ast.Stmt{
			&ast.ExprStmt{X: constStr("nonexistent")},
			&ast.Break{},
		},
	}
	errs := analyzeProgram(t, mainFn(inner))
	if len(errs) == 0 {
		t.Fatal("expected an error for a label that doesn't match any enclosing loop")
	}
}

func TestEnumEqualityAcrossDifferentEnumsRejected(t *testing.T) {
	colorEnum := &ast.ClassDef{
		Name:  "Color",
		Bases: []string{"Enum"},
		Members: []ast.EnumMember{
			{Name: "RED", Value: 0},
		},
	}
	shapeEnum := &ast.ClassDef{
		Name:  "Shape",
		Bases: []string{"Enum"},
		Members: []ast.EnumMember{
			{Name: "CIRCLE", Value: 0},
		},
	}
	body := []ast.Stmt{
		&ast.AnnAssign{Name: "c", Annotation: ast.NameAnnotation{Name: "Color"}, Value: &ast.Attribute{Value: name("Color"), Attr: "RED"}},
		&ast.AnnAssign{Name: "s", Annotation: ast.NameAnnotation{Name: "Shape"}, Value: &ast.Attribute{Value: name("Shape"), Attr: "CIRCLE"}},
		&ast.ExprStmt{X: &ast.Compare{Op: ast.Eq, Left: name("c"), Right: name("s")}},
	}
	errs := analyzeProgram(t, colorEnum, shapeEnum, mainFn(body...))
	if len(errs) == 0 {
		t.Fatal("expected an error comparing two different enum types")
	}
}

func TestStructFieldAssignment(t *testing.T) {
	point := &ast.ClassDef{
		Name: "Point",
		Fields: []ast.Field{
			{Name: "x", Annotation: ast.NameAnnotation{Name: "int"}},
		},
	}
	body := []ast.Stmt{
		&ast.AnnAssign{Name: "p", Annotation: ast.NameAnnotation{Name: "Point"}, Value: &ast.Call{Func: name("Point")}},
		&ast.Assign{Target: &ast.Attribute{Value: name("p"), Attr: "x"}, Value: constInt(5)},
	}
	errs := analyzeProgram(t, point, mainFn(body...))
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestInterfaceConformanceRequiresMatchingMethod(t *testing.T) {
	shape := &ast.ClassDef{
		Name: "Shape",
		Methods: []ast.Method{
			{Name: "area", Returns: ast.NameAnnotation{Name: "float"}, Body: []ast.Stmt{&ast.Pass{}}},
		},
	}
	circle := &ast.ClassDef{
		Name:  "Circle",
		Bases: []string{"Shape"},
		Fields: []ast.Field{
			{Name: "radius", Annotation: ast.NameAnnotation{Name: "float"}},
		},
	}
	errs := analyzeProgram(t, shape, circle, mainFn(&ast.Pass{}))
	if len(errs) == 0 {
		t.Fatal("expected an error: Circle doesn't implement Shape.area")
	}
}

func TestResultMatchRequiresBothArms(t *testing.T) {
	fn := &ast.FunctionDef{
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
				{Ctor: "Ok", Binding: "v", Body: []ast.Stmt{&ast.Pass{}}},
			},
		},
	}
	errs := analyzeProgram(t, fn, mainFn(body...))
	if len(errs) == 0 {
		t.Fatal("expected an error: match is missing the Err arm")
	}
}

func TestMutualRecursionAcrossSignaturePass(t *testing.T) {
	isEven := &ast.FunctionDef{
		Name:    "is_even",
		Returns: ast.NameAnnotation{Name: "bool"},
		Params:  []ast.Param{{Name: "n", Annotation: ast.NameAnnotation{Name: "int"}}},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.Call{Func: name("is_odd"), Args: []ast.Expr{name("n")}}},
		},
	}
	isOdd := &ast.FunctionDef{
		Name:    "is_odd",
		Returns: ast.NameAnnotation{Name: "bool"},
		Params:  []ast.Param{{Name: "n", Annotation: ast.NameAnnotation{Name: "int"}}},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.Call{Func: name("is_even"), Args: []ast.Expr{name("n")}}},
		},
	}
	errs := analyzeProgram(t, isEven, isOdd, mainFn(&ast.Pass{}))
	if len(errs) != 0 {
		t.Fatalf("expected mutually recursive functions to type-check, got %v", errs)
	}
}
