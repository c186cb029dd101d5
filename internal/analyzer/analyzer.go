// Package analyzer implements the two-pass semantic analysis from
// spec.md §4: symbol registration, type checking, immutability
// enforcement, and the module import system. Unlike the original
// ast.NodeVisitor-based walker, this analyzer dispatches on concrete AST
// types with a Go type switch (see internal/ast's package doc) and
// reports a *diagnostics.Error instead of raising an exception. Per
// spec.md §7's propagation policy, analysis halts at the first diagnostic
// recorded rather than continuing on to collect others: fail unwinds the
// rest of the current Analyze call through a recovered sentinel panic, the
// same way a raised exception would have stopped the original.
package analyzer

import (
	"strings"

	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/config"
	"github.com/atul1503/pyrinas/internal/diagnostics"
	"github.com/atul1503/pyrinas/internal/parentage"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/token"
	"github.com/atul1503/pyrinas/internal/types"
)

// Result is everything codegen needs out of a successful analysis.
type Result struct {
	Symbols     *symbols.Table
	Parents     parentage.Table
	CIncludes   []string
	CLibraries  []string
	Exports     map[string]*symbols.Symbol
	ExprTypes   map[ast.Expr]types.Type
	ImportOrder []string
}

// Analyzer holds the mutable state for one module's analysis.
type Analyzer struct {
	symbols *symbols.Table
	parents parentage.Table

	currentReturnType types.Type
	hasReturnType     bool

	loopDepth  int
	loopLabels []string

	cIncludes  map[string]bool
	cFunctions map[string]string
	cLibraries map[string]bool

	currentFile     string
	resolver        ModuleResolver
	importedModules map[string]*ModuleExports
	importOrder     []string

	exprTypes map[ast.Expr]types.Type

	errs []*diagnostics.Error
}

// New creates an analyzer for currentFile. resolver may be nil if the
// module is known not to import anything; attempting an import with a
// nil resolver is reported as an ImportError rather than panicking.
func New(currentFile string, resolver ModuleResolver) *Analyzer {
	return &Analyzer{
		symbols:         symbols.NewTable(),
		currentFile:     currentFile,
		resolver:        resolver,
		cIncludes:       make(map[string]bool),
		cFunctions:      make(map[string]string),
		cLibraries:      make(map[string]bool),
		importedModules: make(map[string]*ModuleExports),
		exprTypes:       make(map[ast.Expr]types.Type),
	}
}

// haltAnalysis is the sentinel unwound to Analyze's recover once the first
// diagnostic has been recorded: spec.md §7's propagation policy halts on
// the first failure in a module rather than collecting every problem, so
// fail immediately aborts the rest of the current analysis pass instead of
// letting the caller's type switch walk on into code that assumed success.
type haltAnalysis struct{}

func (a *Analyzer) fail(pos token.Position, kind diagnostics.Kind, format string, args ...interface{}) {
	a.errs = append(a.errs, diagnostics.New(kind, pos, format, args...))
	panic(haltAnalysis{})
}

// isLibraryFile mirrors the original's relaxed "no main required" rule for
// anything that looks like a reusable module rather than a program entry
// point.
func isLibraryFile(path string) bool {
	return config.IsLibraryModule(path)
}

// Analyze runs the full two-pass analysis over prog and returns the
// accumulated symbol/type information alongside any diagnostics. A
// non-empty error slice means compilation must stop before codegen.
func Analyze(prog *ast.Program, resolver ModuleResolver) (*Result, []*diagnostics.Error) {
	a := New(prog.File, resolver)
	a.parents = parentage.Build(prog)

	a.run(func() {
		a.processImports(prog)
		a.checkMainPresence(prog)
		a.registerSignatures(prog)
		a.checkBodies(prog)
	})

	if len(a.errs) > 0 {
		return nil, a.errs
	}

	return &Result{
		Symbols:     a.symbols,
		Parents:     a.parents,
		CIncludes:   setToSortedSlice(a.cIncludes),
		CLibraries:  setToSortedSlice(a.cLibraries),
		Exports:     a.collectExports(),
		ExprTypes:   a.exprTypes,
		ImportOrder: a.importOrder,
	}, nil
}

// run executes body, stopping cleanly the moment fail records the first
// diagnostic; any other panic (an internal invariant violation, per
// SPEC_FULL.md §A.4) propagates unchanged.
func (a *Analyzer) run(body func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(haltAnalysis); ok {
				return
			}
			panic(r)
		}
	}()
	body()
}

func setToSortedSlice(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// collectExports returns every global-scope symbol; internal/resolver
// filters this set before importers see it.
func (a *Analyzer) collectExports() map[string]*symbols.Symbol {
	out := make(map[string]*symbols.Symbol)
	for name, sym := range a.symbols.Global() {
		out[name] = sym
	}
	return out
}

func (a *Analyzer) checkMainPresence(prog *ast.Program) {
	for _, item := range prog.Body {
		if fn, ok := item.(*ast.FunctionDef); ok && fn.Name == "main" {
			return
		}
	}
	if isLibraryFile(a.currentFile) {
		return
	}
	a.fail(prog.Pos(), diagnostics.NameError, "main function not found.")
}

// decoratorInfo is the result of processing a function's decorator list:
// whether it's a @c_function stub and which C library it links against.
type decoratorInfo struct {
	isCFunc  bool
	cLibrary string
}

func (a *Analyzer) processDecorators(decorators []ast.Decorator) decoratorInfo {
	info := decoratorInfo{}
	for _, d := range decorators {
		switch d.Name {
		case config.CFunctionDecorator:
			info.isCFunc = true
			if len(d.Args) > 0 {
				info.cLibrary = d.Args[0]
			}
		case config.CIncludeDecorator:
			if len(d.Args) > 0 {
				a.cIncludes[d.Args[0]] = true
			}
		}
	}
	return info
}

// processImports handles @module_import / @module_from_import decorators
// on top-level functions. The decorated stub function itself is still
// registered and checked by the later passes like any other top-level
// function.
func (a *Analyzer) processImports(prog *ast.Program) {
	for _, item := range prog.Body {
		fn, ok := item.(*ast.FunctionDef)
		if !ok {
			continue
		}
		for _, d := range fn.Decorators {
			switch d.Name {
			case config.ModuleImportDecorator:
				if len(d.Args) < 1 {
					a.fail(d.Position, diagnostics.ImportError, "module_import requires a path argument")
					continue
				}
				path := d.Args[0]
				alias := ""
				if len(d.Args) > 1 {
					alias = d.Args[1]
				}
				a.doImport(d.Position, path, alias, nil)
			case config.ModuleFromImportName:
				if len(d.Args) < 2 {
					a.fail(d.Position, diagnostics.ImportError, "module_from_import requires a path and at least one name")
					continue
				}
				a.doImport(d.Position, d.Args[0], "", d.Args[1:])
			}
		}
	}
}

func (a *Analyzer) doImport(pos token.Position, path, alias string, names []string) {
	if a.resolver == nil {
		a.fail(pos, diagnostics.ImportError, "module resolver not available for imports")
		return
	}
	exports, err := a.resolver.Resolve(path, a.currentFile)
	if err != nil {
		a.fail(pos, diagnostics.ImportError, "failed to import %q: %v", path, err)
		return
	}
	a.importedModules[path] = exports
	a.importOrder = append(a.importOrder, path)

	if len(names) > 0 {
		for _, name := range names {
			sym, ok := exports.Symbols[name]
			if !ok {
				a.fail(pos, diagnostics.ImportError, "%q not found in module %q", name, path)
				continue
			}
			a.symbols.Insert(sym)
		}
		return
	}

	moduleName := alias
	if moduleName == "" {
		moduleName = lastPathSegment(path)
	}
	a.symbols.Insert(symbols.NewModule(moduleName, exports.Symbols))
}

func lastPathSegment(path string) string {
	path = strings.TrimSuffix(path, config.SourceFileExt)
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func (a *Analyzer) typeFromAnnotation(pos token.Position, ann ast.TypeAnnotation) types.Type {
	switch t := ann.(type) {
	case nil:
		return nil
	case ast.NameAnnotation:
		return a.resolveNamedType(t.Name)
	case ast.PointerAnnotation:
		elem := a.typeFromAnnotation(pos, t.Elem)
		if elem == nil {
			return nil
		}
		return types.Pointer{Elem: elem}
	case ast.ArrayAnnotation:
		elem := a.typeFromAnnotation(pos, t.Elem)
		if elem == nil {
			return nil
		}
		return types.Array{Elem: elem, Len: t.Size}
	case ast.ResultAnnotation:
		ok := a.typeFromAnnotation(pos, t.Ok)
		errT := a.typeFromAnnotation(pos, t.Err)
		if ok == nil || errT == nil {
			return nil
		}
		return types.Result{Ok: ok, Err: errT}
	case ast.FinalAnnotation:
		return a.typeFromAnnotation(pos, t.Inner)
	default:
		a.fail(pos, diagnostics.TypeError, "unsupported type annotation %T", ann)
		return nil
	}
}

func (a *Analyzer) resolveNamedType(name string) types.Type {
	switch name {
	case "int":
		return types.Int
	case "float":
		return types.Float
	case "bool":
		return types.Bool
	case "str":
		return types.Str
	case "void":
		return types.Void
	default:
		return types.Named{Name: name}
	}
}

// fmtType renders a type for diagnostics the way the original's f-strings did.
func fmtType(t types.Type) string {
	if t == nil {
		return "<error>"
	}
	return t.String()
}
