// Package ast defines the AST shape the core consumes. Building this tree
// (lexing and parsing Pyrinas source) is a host-parser responsibility and
// is out of scope here; this package only gives that already-built tree a
// name.
//
// Dispatch over these nodes is done with a Go type switch in the analyzer
// and code generator, not with a Visitor/Accept pair — see DESIGN.md.
package ast

import "github.com/atul1503/pyrinas/internal/token"

// Node is the root marker for anything with a source position.
type Node interface {
	Pos() token.Position
}

// Stmt is a statement: evaluated for effect, never typed.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression: always carries exactly one types.Type once checked.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a single module's AST.
type Program struct {
	File  string
	Body  []Stmt
}

func (p *Program) Pos() token.Position { return token.Position{File: p.File, Line: 1, Column: 1} }

// Decorator models @name or @name(arg1, arg2, ...) on a function, where
// every argument is a string literal (the only form the decorators in
// spec.md §6.1 use: paths, aliases, header names, library names).
type Decorator struct {
	Position token.Position
	Name     string
	Args     []string
}

// Param is one function or method parameter; every parameter is mandatorily
// annotated per spec.md §6.1.
type Param struct {
	Position   token.Position
	Name       string
	Annotation TypeAnnotation
}

// FunctionDef is a top-level `def name(params) -> ret: body`, decorated or
// not. Methods are not FunctionDefs: they are Method values in
// ClassDef.Methods (see Method).
type FunctionDef struct {
	Position   token.Position
	Name       string
	Decorators []Decorator
	Params     []Param
	Returns    TypeAnnotation // nil means no return annotation (void)
	Body       []Stmt
}

func (f *FunctionDef) Pos() token.Position { return f.Position }
func (f *FunctionDef) stmtNode()           {}

// IsExternal reports whether the body is the single `pass` statement that
// marks a @c_function stub.
func (f *FunctionDef) IsExternal() bool {
	if len(f.Body) != 1 {
		return false
	}
	_, ok := f.Body[0].(*Pass)
	return ok
}

// Method is a function declared inside a class body. Its receiver is
// implicit (always named "self" in source); codegen adds the explicit
// `Struct* self` C parameter.
type Method struct {
	Position token.Position
	Name     string
	Params   []Param // does not include self
	Returns  TypeAnnotation
	Body     []Stmt
}

// Pos lets the parentage pass address a method body as a node in its own
// right, so a labeled loop that is a method's own first statement still
// resolves against the right enclosing block.
func (m *Method) Pos() token.Position { return m.Position }

// IsSignatureOnly reports whether the method body is just `pass`, the
// marker for an interface method (no implementation).
func (m *Method) IsSignatureOnly() bool {
	if len(m.Body) != 1 {
		return false
	}
	_, ok := m.Body[0].(*Pass)
	return ok
}

// Field is a struct field declaration.
type Field struct {
	Position   token.Position
	Name       string
	Annotation TypeAnnotation
}

// EnumMember is `NAME = integer-literal` inside an `Enum`-based class body.
type EnumMember struct {
	Position token.Position
	Name     string
	Value    int
}

// ClassDef is a struct, interface, or enum declaration. Which one it is is
// determined by the analyzer per spec.md §4.3.2; the AST only records the
// raw shape the host parser produced.
type ClassDef struct {
	Position token.Position
	Name     string
	Bases    []string // "Enum" marker, or interface names
	Fields   []Field
	Methods  []Method
	Members  []EnumMember // only populated when Bases includes "Enum"
}

func (c *ClassDef) Pos() token.Position { return c.Position }
func (c *ClassDef) stmtNode()           {}

// Pass is a no-op statement; also the marker body for interface methods and
// external C function stubs.
type Pass struct {
	Position token.Position
}

func (p *Pass) Pos() token.Position { return p.Position }
func (p *Pass) stmtNode()           {}

// AnnAssign is `name: Type = value` (value optional unless Type is Final).
type AnnAssign struct {
	Position   token.Position
	Name       string
	Annotation TypeAnnotation
	Value      Expr // nil if uninitialized
}

func (a *AnnAssign) Pos() token.Position { return a.Position }
func (a *AnnAssign) stmtNode()           {}

// AssignTarget is the left-hand side of a plain Assign: a bare name, an
// array/pointer subscript, or a struct field access.
type AssignTarget interface {
	Node
	assignTargetNode()
}

// Assign is `target = value` with no type annotation.
type Assign struct {
	Position token.Position
	Target   AssignTarget
	Value    Expr
}

func (a *Assign) Pos() token.Position { return a.Position }
func (a *Assign) stmtNode()           {}

// ExprStmt is an expression evaluated for its side effect (a call, or a
// bare string-literal label immediately preceding a loop).
type ExprStmt struct {
	Position token.Position
	X        Expr
}

func (e *ExprStmt) Pos() token.Position { return e.Position }
func (e *ExprStmt) stmtNode()           {}

// Label returns the label name if this statement is a bare string-literal
// expression statement (the only thing a label can be, per spec.md §4.2),
// and ok=false otherwise.
func (e *ExprStmt) Label() (name string, ok bool) {
	lit, isLit := e.X.(*Constant)
	if !isLit {
		return "", false
	}
	s, isStr := lit.Value.(string)
	return s, isStr
}

// If is `if test: body [else: orelse]`.
type If struct {
	Position token.Position
	Test     Expr
	Body     []Stmt
	Orelse   []Stmt
}

func (i *If) Pos() token.Position { return i.Position }
func (i *If) stmtNode()           {}

// While is `while test: body`.
type While struct {
	Position token.Position
	Test     Expr
	Body     []Stmt
}

func (w *While) Pos() token.Position { return w.Position }
func (w *While) stmtNode()           {}

// For is `for target in range(n): body` — the only iterable form the
// language supports.
type For struct {
	Position token.Position
	Target   string
	Iter     *Call // must be a call to range(n)
	Body     []Stmt
}

func (f *For) Pos() token.Position { return f.Position }
func (f *For) stmtNode()           {}

// Break is `break`, optionally preceded (in source) by a label the
// parentage pass resolves against the enclosing labeled loop.
type Break struct {
	Position token.Position
}

func (b *Break) Pos() token.Position { return b.Position }
func (b *Break) stmtNode()           {}

// Continue is `continue`.
type Continue struct {
	Position token.Position
}

func (c *Continue) Pos() token.Position { return c.Position }
func (c *Continue) stmtNode()           {}

// Return is `return expr`. A bare `return` with no value is represented by
// Value == nil and is only legal when the enclosing function has no
// declared return type.
type Return struct {
	Position token.Position
	Value    Expr
}

func (r *Return) Pos() token.Position { return r.Position }
func (r *Return) stmtNode()           {}

// MatchCase is one arm of a `match` on a Result: `Ok(name): body` or
// `Err(name): body`.
type MatchCase struct {
	Position  token.Position
	Ctor      string // "Ok" or "Err"
	Binding   string
	Body      []Stmt
}

// Match is `match e: <Ok and Err arms>`, legal only over a Result subject.
type Match struct {
	Position token.Position
	Subject  Expr
	Cases    []MatchCase
}

func (m *Match) Pos() token.Position { return m.Position }
func (m *Match) stmtNode()           {}
