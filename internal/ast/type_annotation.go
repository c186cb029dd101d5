package ast

// TypeAnnotation is the source-level type syntax from spec.md §6.1: bare
// names, and the subscript forms Final[T], array[T,N], Result[T,E],
// ptr[T]. The host parser is responsible for recognizing both the bare
// subscript spelling and the string-literal spelling ('ptr[int]',
// 'array[int, 5]') and producing one of these nodes either way — the core
// never sees raw annotation text.
type TypeAnnotation interface {
	isTypeAnnotation()
}

// NameAnnotation is a bare type name: a primitive (int, float, bool, str,
// void) or a user-declared struct/interface/enum identifier.
type NameAnnotation struct {
	Name string
}

func (NameAnnotation) isTypeAnnotation() {}

// PointerAnnotation is ptr[T].
type PointerAnnotation struct {
	Elem TypeAnnotation
}

func (PointerAnnotation) isTypeAnnotation() {}

// ArrayAnnotation is array[T,N].
type ArrayAnnotation struct {
	Elem TypeAnnotation
	Size int
}

func (ArrayAnnotation) isTypeAnnotation() {}

// ResultAnnotation is Result[T,E].
type ResultAnnotation struct {
	Ok  TypeAnnotation
	Err TypeAnnotation
}

func (ResultAnnotation) isTypeAnnotation() {}

// FinalAnnotation is Final[T], marking the declared symbol immutable.
type FinalAnnotation struct {
	Inner TypeAnnotation
}

func (FinalAnnotation) isTypeAnnotation() {}
