package codegen

import (
	"fmt"

	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/symbols"
	"github.com/atul1503/pyrinas/internal/types"
)

// typeFromAnnotation mirrors the analyzer's own annotation resolution
// (internal/analyzer's typeFromAnnotation) closely enough to recover the
// declared type of a local variable from its AnnAssign annotation, which
// the analyzer does not otherwise preserve once its scope is popped.
func typeFromAnnotation(ann ast.TypeAnnotation) types.Type {
	switch t := ann.(type) {
	case nil:
		return nil
	case ast.NameAnnotation:
		return resolveNamedType(t.Name)
	case ast.PointerAnnotation:
		elem := typeFromAnnotation(t.Elem)
		if elem == nil {
			return nil
		}
		return types.Pointer{Elem: elem}
	case ast.ArrayAnnotation:
		elem := typeFromAnnotation(t.Elem)
		if elem == nil {
			return nil
		}
		return types.Array{Elem: elem, Len: t.Size}
	case ast.ResultAnnotation:
		ok := typeFromAnnotation(t.Ok)
		errT := typeFromAnnotation(t.Err)
		if ok == nil || errT == nil {
			return nil
		}
		return types.Result{Ok: ok, Err: errT}
	case ast.FinalAnnotation:
		return typeFromAnnotation(t.Inner)
	default:
		return nil
	}
}

func resolveNamedType(name string) types.Type {
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

func isFinalAnnotation(ann ast.TypeAnnotation) bool {
	_, ok := ann.(ast.FinalAnnotation)
	return ok
}

// cIdent renders t as a C-identifier-safe fragment, used to name one
// concrete Result[T,E] instantiation per distinct pair (Design Note 3).
func cIdent(t types.Type) string {
	switch v := t.(type) {
	case types.Primitive:
		return v.Name
	case types.Named:
		return v.Name
	case types.Pointer:
		return "ptr_" + cIdent(v.Elem)
	case types.Array:
		return fmt.Sprintf("arr_%s_%d", cIdent(v.Elem), v.Len)
	case types.Result:
		return fmt.Sprintf("result_%s_%s", cIdent(v.Ok), cIdent(v.Err))
	default:
		return "t"
	}
}

func resultTypeName(r types.Result) string {
	return "PyrResult_" + cIdent(r.Ok) + "_" + cIdent(r.Err)
}

// cType lowers a checked type to its emitted C spelling per spec.md §4.4.1.
// Named types are resolved against the symbol table to tell a struct from
// an enum, since the closed type sum itself doesn't carry that distinction.
func (g *Generator) cType(t types.Type) string {
	if t == nil {
		return "void"
	}
	switch v := t.(type) {
	case types.Primitive:
		switch v.Name {
		case "bool":
			return "int"
		case "str":
			return "char*"
		default:
			return v.Name
		}
	case types.Pointer:
		return g.cType(v.Elem) + "*"
	case types.Array:
		// Only reached for an array nested inside another type (e.g.
		// ptr[array[T,N]]); a local or field declaration of an array goes
		// through cDeclare instead, which knows how to spell the bracket.
		return g.cType(v.Elem) + "*"
	case types.Result:
		return resultTypeName(v)
	case types.Named:
		sym := g.result.Symbols.Lookup(v.Name)
		if sym != nil && sym.Kind == symbols.KindEnum {
			return "enum " + v.Name
		}
		return "struct " + v.Name
	default:
		return "void"
	}
}

// cParamType lowers a parameter's type, decaying an array parameter to a
// pointer per spec.md §4.4.1's "array[T,N] as parameter" row.
func (g *Generator) cParamType(t types.Type) string {
	if arr, ok := t.(types.Array); ok {
		return g.cType(arr.Elem) + "*"
	}
	return g.cType(t)
}

// cDeclare renders a variable/field declaration, spelling an array type as
// a fixed-size C array instead of the pointer form cType would give it.
func (g *Generator) cDeclare(name string, t types.Type) string {
	if arr, ok := t.(types.Array); ok {
		return fmt.Sprintf("%s %s[%d]", g.cType(arr.Elem), name, arr.Len)
	}
	return fmt.Sprintf("%s %s", g.cType(t), name)
}
