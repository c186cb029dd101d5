// Package resolver provides the default filesystem/URL implementation of
// analyzer.ModuleResolver: the external collaborator the analyzer calls
// when it meets @module_import / @module_from_import.
//
// Parsing source text into an *ast.Program is a host-parser
// responsibility (see internal/ast's package doc), so this resolver is
// built around an injected Loader rather than embedding a parser itself —
// in the pyrinas CLI that Loader reads the JSON-serialized AST sitting
// next to each .pyr file; tests can inject any fake.
package resolver

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atul1503/pyrinas/internal/analyzer"
	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/symbols"
)

// Loader turns a resolved file path into its AST. In production this
// reads and decodes the JSON sidecar a host parser produced; see
// cmd/pyrinas for the concrete implementation.
type Loader func(path string) (*ast.Program, error)

// Resolver is the default ModuleResolver: relative/absolute/bare-name
// filesystem search plus HTTP(S) fetch-and-cache, with idempotent
// re-analysis and circular-import detection.
type Resolver struct {
	basePath    string
	cacheDir    string
	searchPaths []string
	load        Loader
	httpClient  *http.Client

	mu       sync.Mutex
	loading  map[string]*analyzer.ModuleExports
	analyzed map[string]*analyzer.ModuleExports
}

// New builds a Resolver rooted at basePath, using load to turn a resolved
// file path into an AST and cacheDir to stash downloaded URL imports (an
// empty cacheDir defaults to the OS temp dir, mirroring the original's
// tempfile.gettempdir()/pyrinas_cache).
func New(basePath, cacheDir string, load Loader) *Resolver {
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "pyrinas_cache")
	}
	return &Resolver{
		basePath: basePath,
		cacheDir: cacheDir,
		searchPaths: []string{
			basePath,
			filepath.Join(basePath, "modules"),
			filepath.Join(basePath, "lib"),
			filepath.Join(basePath, "src"),
		},
		load:       load,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		loading:    make(map[string]*analyzer.ModuleExports),
		analyzed:   make(map[string]*analyzer.ModuleExports),
	}
}

// Resolve implements analyzer.ModuleResolver. A module that re-enters its
// own resolution while still loading (a circular import) gets back the
// same in-progress ModuleExports rather than an error: only the symbols
// registered before the cycle closed are visible to it, matching the
// original's tolerant cycle handling instead of failing the build.
func (r *Resolver) Resolve(importPath, currentFile string) (*analyzer.ModuleExports, error) {
	resolvedPath, err := r.resolveImportPath(importPath, currentFile)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if exports, ok := r.analyzed[resolvedPath]; ok {
		r.mu.Unlock()
		return exports, nil
	}
	if inProgress, ok := r.loading[resolvedPath]; ok {
		r.mu.Unlock()
		return inProgress, nil
	}
	placeholder := &analyzer.ModuleExports{Path: resolvedPath, Symbols: make(map[string]*symbols.Symbol)}
	r.loading[resolvedPath] = placeholder
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.loading, resolvedPath)
		r.mu.Unlock()
	}()

	prog, err := r.load(resolvedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load module %q: %w", importPath, err)
	}

	result, errs := analyzer.Analyze(prog, r)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to analyze module %q: %s", importPath, errs[0].Error())
	}

	for name, sym := range exportable(result.Exports) {
		placeholder.Symbols[name] = sym
	}

	r.mu.Lock()
	r.analyzed[resolvedPath] = placeholder
	r.mu.Unlock()
	return placeholder, nil
}

// exportable filters a module's global scope down to functions, structs,
// enums, interfaces, and any variable whose name does not start with an
// underscore.
func exportable(global map[string]*symbols.Symbol) map[string]*symbols.Symbol {
	out := make(map[string]*symbols.Symbol)
	for name, sym := range global {
		switch sym.Kind {
		case symbols.KindFunction, symbols.KindStruct, symbols.KindEnum, symbols.KindInterface:
			out[name] = sym
		case symbols.KindVariable:
			if len(name) > 0 && name[0] != '_' {
				out[name] = sym
			}
		}
	}
	return out
}
