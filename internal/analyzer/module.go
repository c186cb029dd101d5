package analyzer

import (
	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/diagnostics"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/types"
)

// registerSignatures is pass one: every function signature and every
// class definition is registered before any body is type-checked, so
// forward references and mutual recursion both just work.
func (a *Analyzer) registerSignatures(prog *ast.Program) {
	for _, item := range prog.Body {
		switch n := item.(type) {
		case *ast.FunctionDef:
			a.registerFunctionSignature(n)
		case *ast.ClassDef:
			a.registerClass(n)
		}
	}
}

func (a *Analyzer) registerFunctionSignature(fn *ast.FunctionDef) {
	info := a.processDecorators(fn.Decorators)

	returnType := a.typeFromAnnotation(fn.Position, fn.Returns)

	paramTypes := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		t := a.typeFromAnnotation(p.Position, p.Annotation)
		if t == nil {
			a.fail(p.Position, diagnostics.TypeError, "parameter %q must have a type annotation", p.Name)
		}
		paramTypes[i] = t
	}

	if info.isCFunc {
		a.cFunctions[fn.Name] = info.cLibrary
		if info.cLibrary != "" {
			a.cLibraries[info.cLibrary] = true
		}
	}

	if a.symbols.LookupCurrent(fn.Name) != nil {
		a.fail(fn.Position, diagnostics.NameError, "function %q already defined.", fn.Name)
		return
	}

	a.symbols.Insert(symbols.NewFunction(fn.Name, paramTypes, returnType, info.isCFunc, info.cLibrary))
}

// checkBodies is pass two: every statement, including function bodies, is
// type-checked against the signatures pass one registered.
func (a *Analyzer) checkBodies(prog *ast.Program) {
	for _, item := range prog.Body {
		switch n := item.(type) {
		case *ast.FunctionDef:
			a.checkFunctionBody(n)
		case *ast.ClassDef:
			a.checkClassMethodBodies(n)
		default:
			a.checkStmt(n)
		}
	}
}

func (a *Analyzer) checkFunctionBody(fn *ast.FunctionDef) {
	sym := a.symbols.Lookup(fn.Name)
	if sym == nil {
		return // registration already failed and was reported
	}

	prevReturn, prevHas := a.currentReturnType, a.hasReturnType
	a.currentReturnType, a.hasReturnType = sym.ReturnType, sym.ReturnType != nil

	a.symbols.Push()
	for i, p := range fn.Params {
		var t types.Type
		if i < len(sym.ParamTypes) {
			t = sym.ParamTypes[i]
		}
		a.symbols.Insert(symbols.NewVariable(p.Name, t, false))
	}

	if !(sym.IsCFunc && fn.IsExternal()) {
		for _, stmt := range fn.Body {
			a.checkStmt(stmt)
		}
	}

	a.symbols.Pop()
	a.currentReturnType, a.hasReturnType = prevReturn, prevHas
}
