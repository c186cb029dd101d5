package analyzer

import (
	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/config"
	"github.com/atul1503/pyrinas/internal/diagnostics"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/token"
	"github.com/atul1503/pyrinas/internal/types"
)

// registerClass classifies a ClassDef as an enum, a struct, or an
// interface, following the same heuristic as the original: "Enum" in the
// base list makes it an enum; otherwise any field, any method with a
// body, or any interface base makes it a struct; a class with nothing but
// bodiless method signatures and no bases is an interface.
func (a *Analyzer) registerClass(cls *ast.ClassDef) {
	if a.symbols.LookupCurrent(cls.Name) != nil {
		a.fail(cls.Position, diagnostics.NameError, "type %q already defined.", cls.Name)
		return
	}

	isEnum := false
	var implements []string
	for _, base := range cls.Bases {
		if base == config.EnumBaseName {
			isEnum = true
			continue
		}
		baseSym := a.symbols.Lookup(base)
		if baseSym != nil && baseSym.Kind == symbols.KindInterface {
			implements = append(implements, base)
			continue
		}
		a.fail(cls.Position, diagnostics.TypeError, "class %q can only inherit from interfaces or Enum, not %q", cls.Name, base)
	}

	if isEnum {
		a.registerEnum(cls)
		return
	}
	a.registerStructOrInterface(cls, implements)
}

func (a *Analyzer) registerEnum(cls *ast.ClassDef) {
	members := make(map[string]int)
	for _, m := range cls.Members {
		members[m.Name] = m.Value
	}
	a.symbols.Insert(symbols.NewEnum(cls.Name, members))
}

func (a *Analyzer) registerStructOrInterface(cls *ast.ClassDef, implements []string) {
	fields := make(map[string]types.Type)
	var fieldOrder []string
	methods := make(map[string]symbols.MethodSig)
	hasFields := len(cls.Fields) > 0
	hasImplementations := false

	for _, f := range cls.Fields {
		t := a.typeFromAnnotation(f.Position, f.Annotation)
		if t == nil {
			t = types.Named{Name: "unknown"}
		}
		fields[f.Name] = t
		fieldOrder = append(fieldOrder, f.Name)
	}

	for _, m := range cls.Methods {
		params := make([]types.Type, len(m.Params))
		for i, p := range m.Params {
			params[i] = a.typeFromAnnotation(p.Position, p.Annotation)
		}
		ret := a.typeFromAnnotation(m.Position, m.Returns)
		methods[m.Name] = symbols.MethodSig{Params: params, Return: ret}
		if !m.IsSignatureOnly() {
			hasImplementations = true
		}
	}

	if hasFields || hasImplementations || len(implements) > 0 {
		sym := symbols.NewStruct(cls.Name, fields, fieldOrder, methods, implements)
		a.symbols.Insert(sym)
		for _, iface := range implements {
			a.checkInterfaceConformance(cls.Position, cls.Name, iface, methods)
		}
		return
	}

	a.symbols.Insert(symbols.NewInterface(cls.Name, methods))
}

func (a *Analyzer) checkInterfaceConformance(pos token.Position, structName, ifaceName string, structMethods map[string]symbols.MethodSig) {
	ifaceSym := a.symbols.Lookup(ifaceName)
	if ifaceSym == nil {
		return // already reported when resolving the base
	}
	for methodName, ifaceSig := range ifaceSym.Methods {
		structSig, ok := structMethods[methodName]
		if !ok {
			a.fail(pos, diagnostics.TypeError, "struct %q must implement method %q from interface %q", structName, methodName, ifaceName)
			continue
		}
		if !sameTypes(structSig.Params, ifaceSig.Params) {
			a.fail(pos, diagnostics.TypeError, "method %q in struct %q has mismatched parameter types against interface %q", methodName, structName, ifaceName)
		}
		if !sameType(structSig.Return, ifaceSig.Return) {
			a.fail(pos, diagnostics.TypeError, "method %q in struct %q has mismatched return type against interface %q", methodName, structName, ifaceName)
		}
	}
}

// checkClassMethodBodies is pass two for a class declaration: enums and
// interfaces have nothing left to check (an interface's methods are all
// bodiless by construction), but a struct's method bodies are visited in a
// fresh scope with "self" bound to the struct's own named type, exactly as
// checkFunctionBody does for free functions.
func (a *Analyzer) checkClassMethodBodies(cls *ast.ClassDef) {
	sym := a.symbols.Lookup(cls.Name)
	if sym == nil || sym.Kind != symbols.KindStruct {
		return
	}

	for i := range cls.Methods {
		m := &cls.Methods[i]
		if m.IsSignatureOnly() {
			continue
		}
		sig := sym.Methods[m.Name]

		prevReturn, prevHas := a.currentReturnType, a.hasReturnType
		a.currentReturnType, a.hasReturnType = sig.Return, sig.Return != nil

		a.symbols.Push()
		a.symbols.Insert(symbols.NewVariable("self", types.Named{Name: cls.Name}, false))
		for pi, p := range m.Params {
			var t types.Type
			if pi < len(sig.Params) {
				t = sig.Params[pi]
			}
			a.symbols.Insert(symbols.NewVariable(p.Name, t, false))
		}
		for _, stmt := range m.Body {
			a.checkStmt(stmt)
		}
		a.symbols.Pop()

		a.currentReturnType, a.hasReturnType = prevReturn, prevHas
	}
}

func sameType(a, b types.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func sameTypes(a, b []types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameType(a[i], b[i]) {
			return false
		}
	}
	return true
}
