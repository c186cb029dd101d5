package analyzer

import (
	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/config"
	"github.com/atul1503/pyrinas/internal/diagnostics"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/types"
)

// checkCall dispatches on the callee shape: a bare name is either a
// builtin, a type-conversion function, a struct constructor, or a
// user-defined function; an attribute is a method or module-function call.
func (a *Analyzer) checkCall(c *ast.Call) types.Type {
	switch fn := c.Func.(type) {
	case *ast.Name:
		return a.checkNamedCall(c, fn.Ident)
	case *ast.Attribute:
		return a.checkMethodCall(c, fn)
	default:
		a.fail(c.Position, diagnostics.TypeError, "only direct function calls and method calls are supported.")
		return nil
	}
}

func (a *Analyzer) checkNamedCall(c *ast.Call, name string) types.Type {
	switch name {
	case config.PrintFuncName:
		for _, arg := range c.Args {
			a.checkExpr(arg)
		}
		return types.Void
	case config.RangeFuncName:
		return a.checkRangeCall(c)
	case config.AddrFuncName:
		return a.checkAddr(c)
	case config.DerefFuncName:
		return a.checkDeref(c)
	case config.AssignFuncName:
		return a.checkAssignCall(c)
	case config.SizeofFuncName:
		return a.checkSizeof(c)
	case config.MallocFuncName:
		return a.checkMalloc(c)
	case config.FreeFuncName:
		return a.checkFree(c)
	case config.OkCtorName, config.ErrCtorName:
		return a.checkOkErr(c, name)
	case config.IsOkFuncName, config.IsErrFuncName:
		return a.checkIsOkErr(c)
	}
	for _, conv := range config.ConversionFuncNames {
		if name == conv {
			return a.checkConversion(c, name)
		}
	}
	if rest, ok := stripPrefix(name, "unwrap_or_"); ok {
		return a.checkUnwrapOr(c, rest)
	}
	if rest, ok := stripPrefix(name, "unwrap_"); ok {
		return a.checkUnwrap(c, rest)
	}
	if rest, ok := stripPrefix(name, "expect_"); ok {
		return a.checkExpect(c, rest)
	}
	return a.checkUserCallable(c, name)
}

func (a *Analyzer) checkConversion(c *ast.Call, target string) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "%s() expects exactly one argument.", target)
		return nil
	}
	a.checkExpr(c.Args[0])
	return a.resolveNamedType(target)
}

func (a *Analyzer) checkRangeCall(c *ast.Call) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "range() expects exactly one integer argument.")
		return nil
	}
	if lit, ok := c.Args[0].(*ast.Constant); !ok {
		a.fail(c.Position, diagnostics.TypeError, "range() expects exactly one integer argument.")
	} else if _, ok := lit.Value.(int); !ok {
		a.fail(c.Position, diagnostics.TypeError, "range() expects exactly one integer argument.")
	}
	return types.Range{}
}

func (a *Analyzer) checkAddr(c *ast.Call) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "addr() expects a single variable name as an argument.")
		return nil
	}
	name, ok := c.Args[0].(*ast.Name)
	if !ok {
		a.fail(c.Position, diagnostics.TypeError, "addr() expects a single variable name as an argument.")
		return nil
	}
	sym := a.symbols.Lookup(name.Ident)
	if sym == nil {
		a.fail(name.Position, diagnostics.NameError, "variable %q not declared.", name.Ident)
		return nil
	}
	return types.Pointer{Elem: symbolValueType(sym)}
}

func (a *Analyzer) checkDeref(c *ast.Call) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "deref() expects a single argument.")
		return nil
	}
	ptrType := a.checkExpr(c.Args[0])
	ptr, ok := ptrType.(types.Pointer)
	if !ok {
		a.fail(c.Position, diagnostics.TypeError, "cannot dereference non-pointer type: %s", fmtType(ptrType))
		return nil
	}
	return ptr.Elem
}

func (a *Analyzer) checkAssignCall(c *ast.Call) types.Type {
	if len(c.Args) != 2 {
		a.fail(c.Position, diagnostics.TypeError, "assign() expects two arguments: a pointer and a value.")
		return nil
	}
	ptrType := a.checkExpr(c.Args[0])
	ptr, ok := ptrType.(types.Pointer)
	if !ok {
		a.fail(c.Position, diagnostics.TypeError, "first argument to assign() must be a pointer, got %s", fmtType(ptrType))
		return nil
	}
	valType := a.checkExpr(c.Args[1])
	if valType != nil && !valType.Equal(ptr.Elem) {
		a.fail(c.Position, diagnostics.TypeError, "type mismatch in assign(): pointer is %s, but value is %s", fmtType(ptrType), fmtType(valType))
	}
	return types.Void
}

func (a *Analyzer) checkSizeof(c *ast.Call) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "sizeof() expects a single string literal argument representing a type.")
		return types.Int
	}
	lit, ok := c.Args[0].(*ast.Constant)
	if !ok {
		a.fail(c.Position, diagnostics.TypeError, "sizeof() expects a single string literal argument representing a type.")
		return types.Int
	}
	if _, ok := lit.Value.(string); !ok {
		a.fail(c.Position, diagnostics.TypeError, "sizeof() expects a single string literal argument representing a type.")
	}
	return types.Int
}

func (a *Analyzer) checkMalloc(c *ast.Call) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "malloc() expects a single integer argument (size).")
		return nil
	}
	sizeType := a.checkExpr(c.Args[0])
	if sizeType != nil && !sizeType.Equal(types.Int) {
		a.fail(c.Position, diagnostics.TypeError, "argument to malloc() must be an integer, but got %s.", fmtType(sizeType))
	}
	return types.Pointer{Elem: types.Void}
}

func (a *Analyzer) checkFree(c *ast.Call) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "free() expects a single pointer argument.")
		return types.Void
	}
	argType := a.checkExpr(c.Args[0])
	if _, ok := argType.(types.Pointer); argType != nil && !ok {
		a.fail(c.Position, diagnostics.TypeError, "argument to free() must be a pointer, but got %s.", fmtType(argType))
	}
	return types.Void
}

func (a *Analyzer) checkOkErr(c *ast.Call, ctor string) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "%s() expects exactly one argument.", ctor)
		return nil
	}
	inner := a.checkExpr(c.Args[0])
	if inner == nil {
		return nil
	}
	if ctor == config.OkCtorName {
		return types.Ok{Inner: inner}
	}
	return types.Err{Inner: inner}
}

func (a *Analyzer) checkIsOkErr(c *ast.Call) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "is_ok()/is_err() expects exactly one argument.")
	} else {
		a.checkExpr(c.Args[0])
	}
	return types.Bool
}

func (a *Analyzer) checkUnwrapOr(c *ast.Call, typeSuffix string) types.Type {
	if len(c.Args) != 2 {
		a.fail(c.Position, diagnostics.TypeError, "unwrap_or_%s() expects exactly two arguments.", typeSuffix)
		return nil
	}
	a.checkExpr(c.Args[0])
	defaultType := a.checkExpr(c.Args[1])
	want := a.resolveNamedType(typeSuffix)
	if defaultType != nil && !defaultType.Equal(want) {
		a.fail(c.Position, diagnostics.TypeError, "default value type %s doesn't match expected type %s", fmtType(defaultType), fmtType(want))
	}
	return want
}

func (a *Analyzer) checkUnwrap(c *ast.Call, typeSuffix string) types.Type {
	if len(c.Args) != 1 {
		a.fail(c.Position, diagnostics.TypeError, "unwrap_%s() expects exactly one argument.", typeSuffix)
		return nil
	}
	a.checkExpr(c.Args[0])
	return a.resolveNamedType(typeSuffix)
}

func (a *Analyzer) checkExpect(c *ast.Call, typeSuffix string) types.Type {
	if len(c.Args) != 2 {
		a.fail(c.Position, diagnostics.TypeError, "expect_%s() expects exactly two arguments.", typeSuffix)
		return nil
	}
	a.checkExpr(c.Args[0])
	msgType := a.checkExpr(c.Args[1])
	if msgType != nil && !msgType.Equal(types.Str) {
		a.fail(c.Position, diagnostics.TypeError, "second argument to expect_%s() must be a string, got %s", typeSuffix, fmtType(msgType))
	}
	return a.resolveNamedType(typeSuffix)
}

func (a *Analyzer) checkUserCallable(c *ast.Call, name string) types.Type {
	sym := a.symbols.Lookup(name)
	if sym != nil && sym.Kind == symbols.KindStruct {
		if len(c.Args) != 0 {
			a.fail(c.Position, diagnostics.TypeError, "struct constructor %q expects no arguments, but got %d.", name, len(c.Args))
		}
		return types.Named{Name: name}
	}
	if sym == nil || sym.Kind != symbols.KindFunction {
		a.fail(c.Position, diagnostics.NameError, "function %q not defined.", name)
		return nil
	}
	a.checkArgs(c, name, sym.ParamTypes)
	return sym.ReturnType
}

func (a *Analyzer) checkArgs(c *ast.Call, calleeName string, paramTypes []types.Type) {
	if len(c.Args) != len(paramTypes) {
		a.fail(c.Position, diagnostics.TypeError, "function %q expects %d arguments, but got %d.", calleeName, len(paramTypes), len(c.Args))
		for _, arg := range c.Args {
			a.checkExpr(arg)
		}
		return
	}
	for i, argNode := range c.Args {
		argType := a.checkExpr(argNode)
		expected := paramTypes[i]
		if argType != nil && expected != nil && !types.AssignableTo(argType, expected) {
			a.fail(argNode.Pos(), diagnostics.TypeError, "argument %d of %q has type %s, but expected %s", i+1, calleeName, fmtType(argType), fmtType(expected))
		}
	}
}

func (a *Analyzer) checkMethodCall(c *ast.Call, fn *ast.Attribute) types.Type {
	methodName := fn.Attr

	if recvName, ok := fn.Value.(*ast.Name); ok {
		sym := a.symbols.Lookup(recvName.Ident)
		if sym == nil {
			a.fail(recvName.Position, diagnostics.NameError, "variable %q not defined.", recvName.Ident)
			return nil
		}
		if sym.Kind == symbols.KindModule {
			exported, ok := sym.Exports[methodName]
			if !ok {
				a.fail(c.Position, diagnostics.NameError, "module %q has no function %q.", recvName.Ident, methodName)
				return nil
			}
			if exported.Kind != symbols.KindFunction {
				a.fail(c.Position, diagnostics.TypeError, "%q in module %q is not a function.", methodName, recvName.Ident)
				return nil
			}
			a.checkArgs(c, recvName.Ident+"."+methodName, exported.ParamTypes)
			return exported.ReturnType
		}
		recvType := symbolValueType(sym)
		if recvType != nil {
			a.exprTypes[fn.Value] = recvType
		}
		return a.checkMethodAgainstType(c, recvType, methodName)
	}

	objType := a.checkExpr(fn.Value)
	if objType == nil {
		return nil
	}
	return a.checkMethodAgainstType(c, objType, methodName)
}

func (a *Analyzer) checkMethodAgainstType(c *ast.Call, objType types.Type, methodName string) types.Type {
	named, ok := objType.(types.Named)
	if !ok {
		a.fail(c.Position, diagnostics.TypeError, "type %s not defined.", fmtType(objType))
		return nil
	}
	typeSym := a.symbols.Lookup(named.Name)
	if typeSym == nil {
		a.fail(c.Position, diagnostics.NameError, "type %q not defined.", named.Name)
		return nil
	}
	sig, ok := typeSym.Methods[methodName]
	if !ok {
		a.fail(c.Position, diagnostics.NameError, "type %q has no method %q.", named.Name, methodName)
		return nil
	}
	a.checkArgs(c, methodName, sig.Params)
	return sig.Return
}
