// Package codegen lowers an analyzed Pyrinas AST to a single C translation
// unit, per spec.md §4.4. Like internal/analyzer, dispatch is a Go type
// switch (emitStmt/emitExpr) rather than a Visitor/Accept pair — see
// SPEC_FULL.md §D.2 — grounded on the original's CCodeGenerator in
// original_source/pyrinas/codegen.py.
package codegen

import (
	"fmt"
	"strings"

	"github.com/atul1503/pyrinas/internal/analyzer"
	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/types"
)

// Output is the result of a successful code generation: the C source text
// and the link libraries it needs (always including "m", per spec.md §6.2).
type Output struct {
	Code       string
	CLibraries []string
}

// Generator holds the per-module state threaded through one Generate call.
// printTypes/declared/currentReturn/inMain are reset at the start of every
// function or method body (Design Note 4: the print-type map is scoped per
// function, not shared across the whole module).
type Generator struct {
	result *analyzer.Result

	resultTypes map[string]types.Result
	resultOrder []string

	printTypes map[string]types.Type
	declared   map[string]bool

	currentReturn types.Type
	inMain        bool

	matchCounter int
}

// Generate produces the C translation unit for prog given res, the
// analyzer's output for the same program. It never fails on an already
// analyzed AST: every construct it encounters has already been validated
// by the analyzer, so codegen itself has nothing left to reject.
func Generate(prog *ast.Program, res *analyzer.Result) *Output {
	g := &Generator{
		result:      res,
		resultTypes: make(map[string]types.Result),
	}
	g.discoverResultTypes(prog)

	var structBuf, funcBuf, mainBuf strings.Builder
	hasMain := false

	for _, item := range prog.Body {
		switch n := item.(type) {
		case *ast.ClassDef:
			g.emitClassDef(&structBuf, &funcBuf, n)
		case *ast.FunctionDef:
			if n.Name == "main" {
				hasMain = true
				g.emitMainBody(&mainBuf, n)
				continue
			}
			g.emitFunctionDef(&funcBuf, n)
		}
	}

	var out strings.Builder
	out.WriteString("#include \"pyrinas.h\"\n")
	for _, inc := range res.CIncludes {
		fmt.Fprintf(&out, "#include <%s>\n", inc)
	}
	out.WriteString("\n")

	g.writeResultTypes(&out)

	out.WriteString(structBuf.String())
	out.WriteString(funcBuf.String())

	if hasMain {
		out.WriteString("int main(void) {\n")
		out.WriteString(mainBuf.String())
		out.WriteString("    return 0;\n}\n")
	}

	return &Output{
		Code:       out.String(),
		CLibraries: mergeLibraries(res.CLibraries),
	}
}

func mergeLibraries(analyzed []string) []string {
	set := map[string]bool{"m": true}
	for _, l := range analyzed {
		if l != "" {
			set[l] = true
		}
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// emitClassDef emits a struct/enum's type declaration into structBuf, and
// for a struct, its method bodies into funcBuf. Interfaces emit nothing of
// their own — spec.md never gives them a runtime representation, matching
// the original's _generate_interface_vtable, which is a no-op today.
func (g *Generator) emitClassDef(structBuf, funcBuf *strings.Builder, cls *ast.ClassDef) {
	sym := g.result.Symbols.Lookup(cls.Name)
	if sym == nil {
		return
	}
	switch sym.Kind {
	case symbols.KindEnum:
		g.emitEnum(structBuf, cls)
	case symbols.KindStruct:
		g.emitStruct(structBuf, cls, sym)
		for i := range cls.Methods {
			m := &cls.Methods[i]
			g.emitMethod(funcBuf, cls.Name, m, sym.Methods[m.Name])
		}
	}
}

func (g *Generator) emitEnum(buf *strings.Builder, cls *ast.ClassDef) {
	fmt.Fprintf(buf, "enum %s {\n", cls.Name)
	for i, m := range cls.Members {
		sep := ","
		if i == len(cls.Members)-1 {
			sep = ""
		}
		fmt.Fprintf(buf, "    %s_%s = %d%s\n", cls.Name, m.Name, m.Value, sep)
	}
	buf.WriteString("};\n\n")
}

func (g *Generator) emitStruct(buf *strings.Builder, cls *ast.ClassDef, sym *symbols.Symbol) {
	fmt.Fprintf(buf, "struct %s {\n", cls.Name)
	for _, name := range sym.FieldOrder {
		fmt.Fprintf(buf, "    %s;\n", g.cDeclare(name, sym.Fields[name]))
	}
	buf.WriteString("};\n\n")
}

func (g *Generator) emitFunctionDef(buf *strings.Builder, fn *ast.FunctionDef) {
	sym := g.result.Symbols.Lookup(fn.Name)
	if sym == nil || sym.IsCFunc {
		return // external C function: referenced by name, never emitted
	}

	g.printTypes = make(map[string]types.Type)
	g.declared = make(map[string]bool)
	g.currentReturn = sym.ReturnType
	g.inMain = false

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		var t types.Type
		if i < len(sym.ParamTypes) {
			t = sym.ParamTypes[i]
		}
		g.printTypes[p.Name] = t
		g.declared[p.Name] = true
		params[i] = g.cParamType(t) + " " + p.Name
	}

	retC := "void"
	if sym.ReturnType != nil {
		retC = g.cType(sym.ReturnType)
	}
	fmt.Fprintf(buf, "%s %s(%s) {\n", retC, fn.Name, strings.Join(params, ", "))
	g.emitBlock(buf, "    ", fn.Body)
	buf.WriteString("}\n\n")
}

func (g *Generator) emitMethod(buf *strings.Builder, clsName string, m *ast.Method, sig symbols.MethodSig) {
	if m.IsSignatureOnly() {
		return
	}

	g.printTypes = map[string]types.Type{"self": types.Pointer{Elem: types.Named{Name: clsName}}}
	g.declared = map[string]bool{"self": true}
	g.currentReturn = sig.Return
	g.inMain = false

	params := []string{"struct " + clsName + "* self"}
	for i, p := range m.Params {
		var t types.Type
		if i < len(sig.Params) {
			t = sig.Params[i]
		}
		g.printTypes[p.Name] = t
		g.declared[p.Name] = true
		params = append(params, g.cParamType(t)+" "+p.Name)
	}

	retC := "void"
	if sig.Return != nil {
		retC = g.cType(sig.Return)
	}
	fmt.Fprintf(buf, "%s %s_%s(%s) {\n", retC, clsName, m.Name, strings.Join(params, ", "))
	g.emitBlock(buf, "    ", m.Body)
	buf.WriteString("}\n\n")
}

func (g *Generator) emitMainBody(buf *strings.Builder, fn *ast.FunctionDef) {
	g.printTypes = make(map[string]types.Type)
	g.declared = make(map[string]bool)
	g.currentReturn = nil
	g.inMain = true
	g.emitBlock(buf, "    ", fn.Body)
}

// discoverResultTypes walks the program once to collect every distinct
// Result[T,E] instantiation it needs a concrete C type for: every
// function/method signature (from the symbol table) and every local
// variable's Result-typed annotation, wherever it's nested.
func (g *Generator) discoverResultTypes(prog *ast.Program) {
	for _, item := range prog.Body {
		switch n := item.(type) {
		case *ast.FunctionDef:
			sym := g.result.Symbols.Lookup(n.Name)
			if sym == nil {
				continue
			}
			for _, p := range sym.ParamTypes {
				g.noteResultType(p)
			}
			g.noteResultType(sym.ReturnType)
			collectResultAnnotations(n.Body, g)
		case *ast.ClassDef:
			sym := g.result.Symbols.Lookup(n.Name)
			if sym == nil || sym.Kind != symbols.KindStruct {
				continue
			}
			for _, t := range sym.Fields {
				g.noteResultType(t)
			}
			for i := range n.Methods {
				m := &n.Methods[i]
				sig := sym.Methods[m.Name]
				for _, p := range sig.Params {
					g.noteResultType(p)
				}
				g.noteResultType(sig.Return)
				collectResultAnnotations(m.Body, g)
			}
		}
	}
}

func (g *Generator) noteResultType(t types.Type) {
	r, ok := t.(types.Result)
	if !ok {
		return
	}
	name := resultTypeName(r)
	if _, exists := g.resultTypes[name]; exists {
		return
	}
	g.resultTypes[name] = r
	g.resultOrder = append(g.resultOrder, name)
}

func collectResultAnnotations(stmts []ast.Stmt, g *Generator) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.AnnAssign:
			g.noteResultType(typeFromAnnotation(n.Annotation))
		case *ast.If:
			collectResultAnnotations(n.Body, g)
			collectResultAnnotations(n.Orelse, g)
		case *ast.While:
			collectResultAnnotations(n.Body, g)
		case *ast.For:
			collectResultAnnotations(n.Body, g)
		case *ast.Match:
			for _, c := range n.Cases {
				collectResultAnnotations(c.Body, g)
			}
		}
	}
}

// writeResultTypes emits one tagged-struct typedef plus its is_ok/is_err/
// unwrap/unwrap_or/expect helper family per distinct Result instantiation
// discovered in the module (Design Note 3, SPEC_FULL.md §D.3).
func (g *Generator) writeResultTypes(out *strings.Builder) {
	for _, name := range g.resultOrder {
		r := g.resultTypes[name]
		okC := g.cType(r.Ok)
		errC := g.cType(r.Err)
		suffix := strings.TrimPrefix(name, "PyrResult_")

		fmt.Fprintf(out, "typedef struct {\n    int is_ok;\n    union {\n        %s ok_value;\n        %s err_value;\n    } value;\n} %s;\n\n", okC, errC, name)
		fmt.Fprintf(out, "static inline int pyr_is_ok_%s(%s r) { return r.is_ok; }\n", suffix, name)
		fmt.Fprintf(out, "static inline int pyr_is_err_%s(%s r) { return !r.is_ok; }\n", suffix, name)
		fmt.Fprintf(out, "static inline %s pyr_unwrap_%s(%s r) {\n    if (!r.is_ok) { fprintf(stderr, \"unwrap on Err value\\n\"); exit(1); }\n    return r.value.ok_value;\n}\n", okC, suffix, name)
		fmt.Fprintf(out, "static inline %s pyr_unwrap_or_%s(%s r, %s default_value) {\n    return r.is_ok ? r.value.ok_value : default_value;\n}\n", okC, suffix, name, okC)
		fmt.Fprintf(out, "static inline %s pyr_expect_%s(%s r, char* message) {\n    if (!r.is_ok) { fprintf(stderr, \"%%s\\n\", message); exit(1); }\n    return r.value.ok_value;\n}\n\n", okC, suffix, name)
	}
}
