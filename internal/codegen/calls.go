package codegen

import (
	"fmt"
	"strings"

	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/config"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/types"
)

// emitCall dispatches the callee shape exactly as internal/analyzer's
// checkCall does: a bare name is a builtin, a conversion, a struct
// constructor, or a user function; an attribute is a method or
// module-function call.
func (g *Generator) emitCall(c *ast.Call) string {
	switch fn := c.Func.(type) {
	case *ast.Name:
		return g.emitNamedCall(c, fn.Ident)
	case *ast.Attribute:
		return g.emitMethodCall(c, fn)
	default:
		return ""
	}
}

func (g *Generator) emitNamedCall(c *ast.Call, name string) string {
	switch name {
	case config.PrintFuncName:
		return g.emitPrint(c)
	case config.AddrFuncName:
		return "&" + g.emitExpr(c.Args[0])
	case config.DerefFuncName:
		return "(*" + g.emitExpr(c.Args[0]) + ")"
	case config.AssignFuncName:
		return "*(" + g.emitExpr(c.Args[0]) + ") = " + g.emitExpr(c.Args[1])
	case config.SizeofFuncName:
		return g.emitSizeof(c)
	case config.MallocFuncName:
		return g.emitArgsCall("malloc", c.Args)
	case config.FreeFuncName:
		return g.emitArgsCall("free", c.Args)
	case config.IsOkFuncName:
		return g.emitIsOkErr(c, true)
	case config.IsErrFuncName:
		return g.emitIsOkErr(c, false)
	}
	for _, conv := range config.ConversionFuncNames {
		if name == conv {
			return g.emitConversion(c, conv)
		}
	}
	if _, ok := stripPrefix(name, "unwrap_or_"); ok {
		return g.emitUnwrapOr(c)
	}
	if _, ok := stripPrefix(name, "unwrap_"); ok {
		return g.emitUnwrap(c)
	}
	if _, ok := stripPrefix(name, "expect_"); ok {
		return g.emitExpect(c)
	}
	return g.emitUserCall(c, name)
}

func stripPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

// emitPrint builds a single printf call: one format specifier per argument
// chosen from its checked static type (spec.md §4.4.4), arguments
// space-joined, always newline-terminated.
func (g *Generator) emitPrint(c *ast.Call) string {
	formats := make([]string, len(c.Args))
	values := make([]string, len(c.Args))
	for i, arg := range c.Args {
		formats[i] = printfFormatFor(g.result.ExprTypes[arg])
		values[i] = g.emitExpr(arg)
	}
	// The format string only ever contains %-specifiers, spaces, and a
	// trailing \n, none of which need C-string escaping beyond the quotes.
	format := "\"" + strings.Join(formats, " ") + "\\n\""
	if len(values) == 0 {
		return fmt.Sprintf("printf(%s)", format)
	}
	return fmt.Sprintf("printf(%s, %s)", format, strings.Join(values, ", "))
}

func printfFormatFor(t types.Type) string {
	switch v := t.(type) {
	case types.Primitive:
		switch v.Name {
		case "float":
			return "%f"
		case "str":
			return "%s"
		default:
			return "%d"
		}
	case types.Pointer:
		return "%p"
	default:
		return "%d"
	}
}

func (g *Generator) emitSizeof(c *ast.Call) string {
	lit, ok := c.Args[0].(*ast.Constant)
	if !ok {
		return "sizeof(int)"
	}
	name, ok := lit.Value.(string)
	if !ok {
		return "sizeof(int)"
	}
	return "sizeof(" + g.cType(resolveNamedType(name)) + ")"
}

func (g *Generator) emitConversion(c *ast.Call, target string) string {
	return fmt.Sprintf("(%s)(%s)", g.cType(resolveNamedType(target)), g.emitExpr(c.Args[0]))
}

// resultSuffixFor recovers the concrete Result[T,E] instantiation an
// unwrap/expect/is_ok family call operates on from the argument's checked
// type, rather than from the builtin's textual suffix — see Design Note 3.
func (g *Generator) resultSuffixFor(e ast.Expr) string {
	t, _ := g.result.ExprTypes[e].(types.Result)
	return strings.TrimPrefix(resultTypeName(t), "PyrResult_")
}

func (g *Generator) emitIsOkErr(c *ast.Call, wantOk bool) string {
	suffix := g.resultSuffixFor(c.Args[0])
	fn := "pyr_is_ok_" + suffix
	if !wantOk {
		fn = "pyr_is_err_" + suffix
	}
	return fmt.Sprintf("%s(%s)", fn, g.emitExpr(c.Args[0]))
}

func (g *Generator) emitUnwrapOr(c *ast.Call) string {
	suffix := g.resultSuffixFor(c.Args[0])
	return fmt.Sprintf("pyr_unwrap_or_%s(%s, %s)", suffix, g.emitExpr(c.Args[0]), g.emitExpr(c.Args[1]))
}

func (g *Generator) emitUnwrap(c *ast.Call) string {
	suffix := g.resultSuffixFor(c.Args[0])
	return fmt.Sprintf("pyr_unwrap_%s(%s)", suffix, g.emitExpr(c.Args[0]))
}

func (g *Generator) emitExpect(c *ast.Call) string {
	suffix := g.resultSuffixFor(c.Args[0])
	return fmt.Sprintf("pyr_expect_%s(%s, %s)", suffix, g.emitExpr(c.Args[0]), g.emitExpr(c.Args[1]))
}

func (g *Generator) emitArgsCall(name string, args []ast.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = g.emitExpr(a)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// emitUserCall handles a zero-argument struct constructor (lowered to the
// zero-initializer) and every other plain function call (user-defined or
// an external @c_function, referenced by name either way).
func (g *Generator) emitUserCall(c *ast.Call, name string) string {
	sym := g.result.Symbols.Lookup(name)
	if sym != nil && sym.Kind == symbols.KindStruct {
		return "(struct " + name + "){0}"
	}
	return g.emitArgsCall(name, c.Args)
}

// emitMethodCall lowers obj.method(args) to StructType_method(&obj,
// args...), looking up the struct type from the receiver's checked type,
// and a module-qualified call (mod.func(args)) to a direct call by name,
// since each module compiles to its own linked translation unit.
func (g *Generator) emitMethodCall(c *ast.Call, fn *ast.Attribute) string {
	methodName := fn.Attr

	if recvName, ok := fn.Value.(*ast.Name); ok {
		if sym := g.result.Symbols.Lookup(recvName.Ident); sym != nil && sym.Kind == symbols.KindModule {
			return g.emitArgsCall(methodName, c.Args)
		}
	}

	recvType := g.result.ExprTypes[fn.Value]
	var structName string
	isPtr := false
	switch rt := recvType.(type) {
	case types.Named:
		structName = rt.Name
	case types.Pointer:
		isPtr = true
		if named, ok := rt.Elem.(types.Named); ok {
			structName = named.Name
		}
	}

	recvExpr := g.emitExpr(fn.Value)
	self := "&" + recvExpr
	if isPtr {
		self = recvExpr
	}

	args := make([]string, 0, len(c.Args)+1)
	args = append(args, self)
	for _, a := range c.Args {
		args = append(args, g.emitExpr(a))
	}
	return fmt.Sprintf("%s_%s(%s)", structName, methodName, strings.Join(args, ", "))
}
