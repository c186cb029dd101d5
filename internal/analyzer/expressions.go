package analyzer

import (
	"strings"

	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/diagnostics"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/types"
)

// checkExpr type-checks e, records its type in a.exprTypes, and returns
// that type. It returns nil on error, having already appended a
// diagnostic; callers should treat a nil type as "already reported" and
// avoid piling on redundant errors where practical.
func (a *Analyzer) checkExpr(e ast.Expr) types.Type {
	t := a.checkExprUncached(e)
	if t != nil {
		a.exprTypes[e] = t
	}
	return t
}

func (a *Analyzer) checkExprUncached(e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.Name:
		return a.checkName(n)
	case *ast.Constant:
		return a.checkConstant(n)
	case *ast.BinOp:
		return a.checkBinOp(n)
	case *ast.Compare:
		return a.checkCompare(n)
	case *ast.BoolOp:
		return a.checkBoolOp(n)
	case *ast.UnaryOp:
		return a.checkUnaryOp(n)
	case *ast.Call:
		return a.checkCall(n)
	case *ast.Attribute:
		return a.checkAttribute(n)
	case *ast.Subscript:
		return a.checkSubscript(n)
	default:
		a.fail(e.Pos(), diagnostics.TypeError, "unsupported expression %T", e)
		return nil
	}
}

func (a *Analyzer) checkName(n *ast.Name) types.Type {
	sym := a.symbols.Lookup(n.Ident)
	if sym == nil {
		a.fail(n.Position, diagnostics.NameError, "variable %q not declared.", n.Ident)
		return nil
	}
	return symbolValueType(sym)
}

// symbolValueType is the type a load of this symbol evaluates to: a
// variable's declared type, or the type's own name for a struct/enum
// symbol referenced bare (e.g. as the object of an attribute chain).
func symbolValueType(sym *symbols.Symbol) types.Type {
	switch sym.Kind {
	case symbols.KindVariable:
		return sym.Type
	case symbols.KindStruct, symbols.KindInterface, symbols.KindEnum:
		return types.Named{Name: sym.Name}
	case symbols.KindModule:
		return types.Module{Path: sym.Name}
	case symbols.KindFunction:
		return types.Function{Params: sym.ParamTypes, Return: sym.ReturnType, IsCFunc: sym.IsCFunc, CLibrary: sym.CLibrary}
	default:
		return nil
	}
}

func (a *Analyzer) checkConstant(c *ast.Constant) types.Type {
	switch c.Value.(type) {
	case bool:
		return types.Bool
	case int:
		return types.Int
	case float64:
		return types.Float
	case string:
		return types.Str
	default:
		a.fail(c.Position, diagnostics.TypeError, "unsupported constant type %T", c.Value)
		return nil
	}
}

func (a *Analyzer) checkBinOp(b *ast.BinOp) types.Type {
	left := a.checkExpr(b.Left)
	right := a.checkExpr(b.Right)
	if left == nil || right == nil {
		return nil
	}
	if left.Equal(types.Float) || right.Equal(types.Float) {
		if isNumeric(left) && isNumeric(right) {
			return types.Float
		}
	} else if left.Equal(types.Int) && right.Equal(types.Int) {
		return types.Int
	}
	a.fail(b.Position, diagnostics.TypeError, "unsupported binary operation between %s and %s", fmtType(left), fmtType(right))
	return nil
}

func isNumeric(t types.Type) bool {
	return t.Equal(types.Int) || t.Equal(types.Float)
}

func (a *Analyzer) checkCompare(c *ast.Compare) types.Type {
	left := a.checkExpr(c.Left)
	right := a.checkExpr(c.Right)
	if left == nil || right == nil {
		return types.Bool
	}
	leftEnum, leftIsEnum := a.enumSymbolFor(left)
	rightEnum, rightIsEnum := a.enumSymbolFor(right)
	if leftIsEnum && rightIsEnum && leftEnum.Name != rightEnum.Name {
		a.fail(c.Position, diagnostics.TypeError, "cannot compare different enum types: %q and %q", leftEnum.Name, rightEnum.Name)
	}
	return types.Bool
}

func (a *Analyzer) enumSymbolFor(t types.Type) (*symbols.Symbol, bool) {
	named, ok := t.(types.Named)
	if !ok {
		return nil, false
	}
	sym := a.symbols.Lookup(named.Name)
	if sym == nil || sym.Kind != symbols.KindEnum {
		return nil, false
	}
	return sym, true
}

func (a *Analyzer) checkBoolOp(b *ast.BoolOp) types.Type {
	for _, v := range b.Values {
		t := a.checkExpr(v)
		if t != nil && !t.Equal(types.Bool) {
			a.fail(v.Pos(), diagnostics.TypeError, "operands of boolean operations must be boolean.")
		}
	}
	return types.Bool
}

func (a *Analyzer) checkUnaryOp(u *ast.UnaryOp) types.Type {
	operand := a.checkExpr(u.Operand)
	if operand == nil {
		return nil
	}
	switch u.Op {
	case ast.Not:
		if !operand.Equal(types.Bool) {
			a.fail(u.Position, diagnostics.TypeError, "unsupported unary operation 'not' on type %s", fmtType(operand))
			return nil
		}
		return types.Bool
	case ast.USub, ast.UAdd:
		if !isNumeric(operand) {
			a.fail(u.Position, diagnostics.TypeError, "unsupported unary operation on type %s", fmtType(operand))
			return nil
		}
		return operand
	default:
		a.fail(u.Position, diagnostics.TypeError, "unknown unary operator")
		return nil
	}
}

func (a *Analyzer) checkAttribute(attr *ast.Attribute) types.Type {
	if name, ok := attr.Value.(*ast.Name); ok {
		sym := a.symbols.Lookup(name.Ident)
		if sym == nil {
			a.fail(name.Position, diagnostics.NameError, "name %q not declared.", name.Ident)
			return nil
		}
		switch sym.Kind {
		case symbols.KindModule:
			exported, ok := sym.Exports[attr.Attr]
			if !ok {
				a.fail(attr.Position, diagnostics.NameError, "module %q has no member %q.", name.Ident, attr.Attr)
				return nil
			}
			return symbolValueType(exported)
		case symbols.KindEnum:
			if _, ok := sym.EnumMembers[attr.Attr]; !ok {
				a.fail(attr.Position, diagnostics.NameError, "enum %q has no member %q.", name.Ident, attr.Attr)
				return nil
			}
			return types.Named{Name: name.Ident}
		case symbols.KindStruct:
			return a.fieldType(attr.Position, sym, attr.Attr)
		default:
			structSym := a.structSymbolFor(sym.Type)
			if structSym == nil {
				a.fail(attr.Position, diagnostics.TypeError, "variable %q is not a struct and has no attributes.", name.Ident)
				return nil
			}
			return a.fieldType(attr.Position, structSym, attr.Attr)
		}
	}

	objType := a.checkExpr(attr.Value)
	if objType == nil {
		return nil
	}
	structSym := a.structSymbolFor(objType)
	if structSym == nil {
		a.fail(attr.Position, diagnostics.TypeError, "expression of type %s is not a struct and has no attributes.", fmtType(objType))
		return nil
	}
	return a.fieldType(attr.Position, structSym, attr.Attr)
}

func (a *Analyzer) structSymbolFor(t types.Type) *symbols.Symbol {
	named, ok := t.(types.Named)
	if !ok {
		return nil
	}
	sym := a.symbols.Lookup(named.Name)
	if sym == nil || sym.Kind != symbols.KindStruct {
		return nil
	}
	return sym
}

func (a *Analyzer) fieldType(pos ast.Node, structSym *symbols.Symbol, field string) types.Type {
	t, ok := structSym.Fields[field]
	if !ok {
		a.fail(pos.Pos(), diagnostics.NameError, "struct %q has no field %q.", structSym.Name, field)
		return nil
	}
	return t
}

func (a *Analyzer) checkSubscript(s *ast.Subscript) types.Type {
	name, ok := s.Value.(*ast.Name)
	if !ok {
		a.fail(s.Position, diagnostics.TypeError, "subscript target must be a simple variable.")
		return nil
	}
	sym := a.symbols.Lookup(name.Ident)
	if sym == nil {
		a.fail(s.Position, diagnostics.TypeError, "variable %q not found.", name.Ident)
		return nil
	}
	arr, ok := sym.Type.(types.Array)
	if !ok {
		a.fail(s.Position, diagnostics.TypeError, "variable %q is not an array and cannot be subscripted. Type: %s", name.Ident, fmtType(sym.Type))
		return nil
	}
	idxType := a.checkExpr(s.Index)
	if idxType != nil && !idxType.Equal(types.Int) {
		a.fail(s.Index.Pos(), diagnostics.TypeError, "array index must be an integer, but got %s.", fmtType(idxType))
	}
	return arr.Elem
}

func stripPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return "", false
}
