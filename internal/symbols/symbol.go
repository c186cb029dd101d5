// Package symbols implements the lexical scope stack and symbol model from
// spec.md §3.2-3.3 / §4.1.
package symbols

import "github.com/atul1503/pyrinas/internal/types"

// Kind is the closed set of symbol kinds.
type Kind int

const (
	KindFunction Kind = iota
	KindStruct
	KindInterface
	KindEnum
	KindVariable
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindVariable:
		return "variable"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// MethodSig is a struct or interface method's signature (self excluded).
type MethodSig struct {
	Params []types.Type
	Return types.Type
}

// Symbol is a named, kinded entry in the symbol table. Only the fields
// relevant to Kind are populated; the rest are zero values.
type Symbol struct {
	Name string
	Kind Kind

	// variable
	Type      types.Type
	Immutable bool

	// function
	ParamTypes []types.Type
	ReturnType types.Type
	IsCFunc    bool
	CLibrary   string

	// struct / interface
	Fields     map[string]types.Type
	FieldOrder []string
	Methods    map[string]MethodSig
	Implements []string

	// enum
	EnumMembers map[string]int

	// module
	Exports map[string]*Symbol
}

// NewVariable builds a variable symbol.
func NewVariable(name string, t types.Type, immutable bool) *Symbol {
	return &Symbol{Name: name, Kind: KindVariable, Type: t, Immutable: immutable}
}

// NewFunction builds a function symbol.
func NewFunction(name string, params []types.Type, ret types.Type, isCFunc bool, clib string) *Symbol {
	return &Symbol{
		Name: name, Kind: KindFunction,
		ParamTypes: params, ReturnType: ret,
		IsCFunc: isCFunc, CLibrary: clib,
	}
}

// NewStruct builds a struct symbol.
func NewStruct(name string, fields map[string]types.Type, order []string, methods map[string]MethodSig, implements []string) *Symbol {
	return &Symbol{
		Name: name, Kind: KindStruct,
		Fields: fields, FieldOrder: order,
		Methods: methods, Implements: implements,
	}
}

// NewInterface builds an interface symbol.
func NewInterface(name string, methods map[string]MethodSig) *Symbol {
	return &Symbol{Name: name, Kind: KindInterface, Methods: methods}
}

// NewEnum builds an enum symbol.
func NewEnum(name string, members map[string]int) *Symbol {
	return &Symbol{Name: name, Kind: KindEnum, EnumMembers: members}
}

// NewModule builds a module symbol wrapping another module's exports.
func NewModule(name string, exports map[string]*Symbol) *Symbol {
	return &Symbol{Name: name, Kind: KindModule, Exports: exports}
}
