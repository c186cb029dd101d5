package codegen

import (
	"fmt"
	"strconv"

	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/types"
)

func (g *Generator) emitExpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Name:
		return n.Ident
	case *ast.Constant:
		return g.emitConstant(n)
	case *ast.BinOp:
		return g.emitBinOp(n)
	case *ast.Compare:
		return g.emitCompare(n)
	case *ast.BoolOp:
		return g.emitBoolOp(n)
	case *ast.UnaryOp:
		return g.emitUnaryOp(n)
	case *ast.Call:
		return g.emitCall(n)
	case *ast.Attribute:
		return g.emitAttribute(n)
	case *ast.Subscript:
		return g.emitSubscript(n)
	default:
		return ""
	}
}

func (g *Generator) emitConstant(c *ast.Constant) string {
	switch v := c.Value.(type) {
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return "0"
	}
}

var binOps = map[ast.BinOpKind]string{
	ast.Add: "+",
	ast.Sub: "-",
	ast.Mul: "*",
	ast.Div: "/",
	ast.Mod: "%",
}

func (g *Generator) emitBinOp(b *ast.BinOp) string {
	return fmt.Sprintf("(%s %s %s)", g.emitExpr(b.Left), binOps[b.Op], g.emitExpr(b.Right))
}

var compareOps = map[ast.CompareOpKind]string{
	ast.Eq:    "==",
	ast.NotEq: "!=",
	ast.Lt:    "<",
	ast.LtE:   "<=",
	ast.Gt:    ">",
	ast.GtE:   ">=",
}

func (g *Generator) emitCompare(c *ast.Compare) string {
	return fmt.Sprintf("(%s %s %s)", g.emitExpr(c.Left), compareOps[c.Op], g.emitExpr(c.Right))
}

func (g *Generator) emitBoolOp(b *ast.BoolOp) string {
	op := " && "
	if b.Op == ast.Or {
		op = " || "
	}
	parts := make([]string, len(b.Values))
	for i, v := range b.Values {
		parts[i] = g.emitExpr(v)
	}
	s := parts[0]
	for _, p := range parts[1:] {
		s = "(" + s + op + p + ")"
	}
	return s
}

func (g *Generator) emitUnaryOp(u *ast.UnaryOp) string {
	switch u.Op {
	case ast.Not:
		return "(!" + g.emitExpr(u.Operand) + ")"
	case ast.USub:
		return "(-" + g.emitExpr(u.Operand) + ")"
	default:
		return "(+" + g.emitExpr(u.Operand) + ")"
	}
}

// emitAttribute lowers value.attr. "self" is always a C pointer inside a
// method body, so self.field always takes "->"; an enum-typed identifier
// names a member constant (EnumType_MEMBER); a module-typed identifier is
// an imported symbol referenced directly by name, since each module
// compiles to its own translation unit linked by plain C symbol names.
// Everything else takes "." or "->" based on whether the object's checked
// type is a pointer, exactly like the original's self-vs-value heuristic,
// but driven by the symbol table instead of a name-casing guess.
func (g *Generator) emitAttribute(a *ast.Attribute) string {
	if name, ok := a.Value.(*ast.Name); ok {
		if sym := g.result.Symbols.Lookup(name.Ident); sym != nil {
			switch sym.Kind {
			case symbols.KindEnum:
				return name.Ident + "_" + a.Attr
			case symbols.KindModule:
				return a.Attr
			}
		}
		if name.Ident == "self" {
			return "self->" + a.Attr
		}
	}

	objType := g.result.ExprTypes[a.Value]
	sep := "."
	if _, isPtr := objType.(types.Pointer); isPtr {
		sep = "->"
	}
	return g.emitExpr(a.Value) + sep + a.Attr
}

func (g *Generator) emitSubscript(s *ast.Subscript) string {
	return fmt.Sprintf("%s[%s]", g.emitExpr(s.Value), g.emitExpr(s.Index))
}
