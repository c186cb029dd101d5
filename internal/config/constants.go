// Package config holds the bare name/extension constants shared across
// the analyzer, codegen, and CLI, instead of letting each package
// re-declare its own string literals.
package config

// Version is the current pyrinas version.
var Version = "0.1.0"

const SourceFileExt = ".pyr"

// Decorator names recognized on function definitions.
const (
	CFunctionDecorator    = "c_function"
	CIncludeDecorator     = "c_include"
	ModuleImportDecorator = "module_import"
	ModuleFromImportName  = "module_from_import"
)

// Built-in free-function names the analyzer and codegen special-case
// rather than resolving through the symbol table.
const (
	PrintFuncName  = "print"
	RangeFuncName  = "range"
	AddrFuncName   = "addr"
	DerefFuncName  = "deref"
	AssignFuncName = "assign"
	SizeofFuncName = "sizeof"
	MallocFuncName = "malloc"
	FreeFuncName   = "free"
	OkCtorName     = "Ok"
	ErrCtorName    = "Err"
	IsOkFuncName   = "is_ok"
	IsErrFuncName  = "is_err"
)

// Conversion function names, also valid as type names in annotations.
var ConversionFuncNames = []string{"int", "float", "str", "bool"}

// EnumBaseName is the base class name that marks a ClassDef as an enum.
const EnumBaseName = "Enum"

// IsLibraryModule reports whether path should be exempt from the
// "module must define main" rule, mirroring pyrinas.yaml-less projects
// that still want to import shared modules without each one carrying a
// throwaway main.
func IsLibraryModule(path string) bool {
	return hasSuffix(path, "_utils.pyr") || contains(path, "/modules/")
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
