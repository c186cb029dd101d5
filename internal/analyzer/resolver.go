package analyzer

import "github.com/atul1503/pyrinas/internal/symbols"

// ModuleResolver is the external collaborator the analyzer calls out to
// when it meets an @module_import / @module_from_import decorator. The
// default filesystem/URL implementation lives in internal/resolver; the
// analyzer only depends on this interface so it can be unit-tested with a
// fake.
type ModuleResolver interface {
	// Resolve analyzes (or returns the cached analysis of) the module at
	// importPath, relative to currentFile, and returns its exported
	// symbols keyed by name.
	Resolve(importPath, currentFile string) (*ModuleExports, error)
}

// ModuleExports is everything a module makes visible to importers: every
// top-level function, struct, interface, and enum, plus any module-scope
// variable whose name does not start with an underscore.
type ModuleExports struct {
	Path    string
	Symbols map[string]*symbols.Symbol
}
