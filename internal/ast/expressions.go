package ast

import "github.com/atul1503/pyrinas/internal/token"

// Name is a bare identifier reference, a load or a store target.
type Name struct {
	Position token.Position
	Ident    string
}

func (n *Name) Pos() token.Position   { return n.Position }
func (n *Name) exprNode()             {}
func (n *Name) assignTargetNode()     {}

// Constant is a literal: int, float, bool, or string. Value holds the Go
// native representation (int, float64, bool, or string).
type Constant struct {
	Position token.Position
	Value    interface{}
}

func (c *Constant) Pos() token.Position { return c.Position }
func (c *Constant) exprNode()           {}

// BinOpKind enumerates the arithmetic operators.
type BinOpKind int

const (
	Add BinOpKind = iota
	Sub
	Mul
	Div
	Mod
)

// BinOp is a binary arithmetic expression.
type BinOp struct {
	Position token.Position
	Op       BinOpKind
	Left     Expr
	Right    Expr
}

func (b *BinOp) Pos() token.Position { return b.Position }
func (b *BinOp) exprNode()           {}

// CompareOpKind enumerates comparison operators.
type CompareOpKind int

const (
	Eq CompareOpKind = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
)

// Compare is a two-operand comparison; the source language only ever
// chains a single comparator, matching the original implementation.
type Compare struct {
	Position token.Position
	Op       CompareOpKind
	Left     Expr
	Right    Expr
}

func (c *Compare) Pos() token.Position { return c.Position }
func (c *Compare) exprNode()           {}

// BoolOpKind enumerates logical connectives.
type BoolOpKind int

const (
	And BoolOpKind = iota
	Or
)

// BoolOp is `a and b and c...` or `a or b or c...`; every operand must be
// bool-typed.
type BoolOp struct {
	Position token.Position
	Op       BoolOpKind
	Values   []Expr
}

func (b *BoolOp) Pos() token.Position { return b.Position }
func (b *BoolOp) exprNode()           {}

// UnaryOpKind enumerates unary operators.
type UnaryOpKind int

const (
	Not UnaryOpKind = iota
	USub
	UAdd
)

// UnaryOp is `not x`, `-x`, or `+x`.
type UnaryOp struct {
	Position token.Position
	Op       UnaryOpKind
	Operand  Expr
}

func (u *UnaryOp) Pos() token.Position { return u.Position }
func (u *UnaryOp) exprNode()           {}

// Call is `func(args...)` or `obj.method(args...)`; Func distinguishes the
// two forms (a *Name for a plain call, an *Attribute for a method call).
type Call struct {
	Position token.Position
	Func     Expr
	Args     []Expr
}

func (c *Call) Pos() token.Position { return c.Position }
func (c *Call) exprNode()           {}

// Attribute is `value.attr`: struct field access, enum member access
// (EnumType.MEMBER), or module member access (module.name).
type Attribute struct {
	Position token.Position
	Value    Expr
	Attr     string
}

func (a *Attribute) Pos() token.Position { return a.Position }
func (a *Attribute) exprNode()           {}
func (a *Attribute) assignTargetNode()   {}

// Subscript is `value[index]`: array element access.
type Subscript struct {
	Position token.Position
	Value    Expr
	Index    Expr
}

func (s *Subscript) Pos() token.Position { return s.Position }
func (s *Subscript) exprNode()           {}
func (s *Subscript) assignTargetNode()   {}
