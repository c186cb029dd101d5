package codegen

import _ "embed"

// RuntimeHeader is the text of pyrinas.h, the small shared runtime header
// every emitted translation unit includes. cmd/pyrinas writes this
// alongside the generated .c file so the downstream C compiler can find it.
// Per-instantiation Result[T,E] struct typedefs and helpers are module
// specific and are written directly into the generated .c file instead
// (see Design Note 3 in SPEC_FULL.md), so this header only carries the
// includes every translation unit needs regardless of which Result
// instantiations it uses.
//
//go:embed pyrinas.h
var RuntimeHeader string
