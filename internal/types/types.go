// Package types implements the closed type sum from the specification:
// every expression in a checked AST carries exactly one of these variants,
// or is a statement and carries none.
package types

import "fmt"

// Type is implemented by every member of the closed type sum. It is sealed
// by the unexported method: only this package can add variants.
type Type interface {
	String() string
	Equal(Type) bool
	sealed()
}

// Primitive covers int, float, bool, str, void.
type Primitive struct {
	Name string // "int" | "float" | "bool" | "str" | "void"
}

func (Primitive) sealed() {}
func (p Primitive) String() string { return p.Name }
func (p Primitive) Equal(o Type) bool {
	op, ok := o.(Primitive)
	return ok && op.Name == p.Name
}

var (
	Int   = Primitive{Name: "int"}
	Float = Primitive{Name: "float"}
	Bool  = Primitive{Name: "bool"}
	Str   = Primitive{Name: "str"}
	Void  = Primitive{Name: "void"}
)

// Pointer is ptr[T], legal over any T including Void.
type Pointer struct {
	Elem Type
}

func (Pointer) sealed() {}
func (p Pointer) String() string { return fmt.Sprintf("ptr[%s]", p.Elem.String()) }
func (p Pointer) Equal(o Type) bool {
	op, ok := o.(Pointer)
	return ok && p.Elem.Equal(op.Elem)
}

// Array is array[T,N] with a positive compile-time-known length.
type Array struct {
	Elem Type
	Len  int
}

func (Array) sealed() {}
func (a Array) String() string { return fmt.Sprintf("array[%s,%d]", a.Elem.String(), a.Len) }
func (a Array) Equal(o Type) bool {
	oa, ok := o.(Array)
	return ok && a.Len == oa.Len && a.Elem.Equal(oa.Elem)
}

// Result is Result[T,E], a tagged Ok(T)/Err(E) variant.
type Result struct {
	Ok  Type
	Err Type
}

func (Result) sealed() {}
func (r Result) String() string { return fmt.Sprintf("Result[%s,%s]", r.Ok.String(), r.Err.String()) }
func (r Result) Equal(o Type) bool {
	or, ok := o.(Result)
	return ok && r.Ok.Equal(or.Ok) && r.Err.Equal(or.Err)
}

// Ok and Err are the transient types of bare Ok(v)/Err(v) expressions,
// before they are matched against a function's declared Result return type.
type Ok struct{ Inner Type }

func (Ok) sealed()            {}
func (o Ok) String() string   { return fmt.Sprintf("Ok[%s]", o.Inner.String()) }
func (o Ok) Equal(t Type) bool {
	oo, ok := t.(Ok)
	return ok && o.Inner.Equal(oo.Inner)
}

type Err struct{ Inner Type }

func (Err) sealed()           {}
func (e Err) String() string  { return fmt.Sprintf("Err[%s]", e.Inner.String()) }
func (e Err) Equal(t Type) bool {
	oe, ok := t.(Err)
	return ok && e.Inner.Equal(oe.Inner)
}

// Named is a user-declared struct, interface, or enum identifier. What kind
// of declaration it names is resolved through the symbol table, not here.
type Named struct {
	Name string
}

func (Named) sealed() {}
func (n Named) String() string { return n.Name }
func (n Named) Equal(o Type) bool {
	on, ok := o.(Named)
	return ok && on.Name == n.Name
}

// Module is the opaque type of an imported module symbol.
type Module struct {
	Path string
}

func (Module) sealed() {}
func (m Module) String() string { return fmt.Sprintf("module[%s]", m.Path) }
func (m Module) Equal(o Type) bool {
	om, ok := o.(Module)
	return ok && om.Path == m.Path
}

// Function is a callable signature: ordered parameter types, a return type
// (nil when the function declares none), and whether it is a C-interop
// stub.
type Function struct {
	Params     []Type
	Return     Type
	IsCFunc    bool
	CLibrary   string
}

func (Function) sealed() {}
func (f Function) String() string {
	s := "fn("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + f.Return.String()
}
func (f Function) Equal(o Type) bool {
	of, ok := o.(Function)
	if !ok || len(of.Params) != len(f.Params) || !f.Return.Equal(of.Return) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(of.Params[i]) {
			return false
		}
	}
	return true
}

// Range is the internal marker produced by range(n); legal only in for
// headers, never assignable or storable.
type Range struct{}

func (Range) sealed()              {}
func (Range) String() string       { return "range" }
func (Range) Equal(o Type) bool    { _, ok := o.(Range); return ok }

// AssignableTo reports whether a value of type v may be stored into a
// location declared with type target. Besides equal types it allows two
// coercions: ptr[void] (as produced by malloc) is assignable to any ptr[T],
// and any int-typed value may satisfy a bool-typed location (Python's
// bool-is-int legacy,
// preserved because the source language's literal `0`/`1` forms double as
// booleans in the original test programs).
func AssignableTo(v, target Type) bool {
	if v.Equal(target) {
		return true
	}
	if vp, ok := v.(Pointer); ok {
		if _, isVoid := vp.Elem.(Primitive); isVoid && vp.Elem.(Primitive).Name == "void" {
			if _, isPtr := target.(Pointer); isPtr {
				return true
			}
		}
	}
	if target.Equal(Bool) && v.Equal(Int) {
		return true
	}
	return false
}
