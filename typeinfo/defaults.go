package typeinfo

import (
	"reflect"

	"typemeta/primitive"
)

// Zero stands for a zero-initialized instance of a value type that has no Go
// runtime type bound to it.
type Zero struct {
	Type *Type
}

// DefaultValueOf returns the default value of t:
//   - nil for reference, interface and Optional types;
//   - the literal zero for well-known value kinds (see primitive.Zero);
//   - the Go zero value when a runtime type is bound;
//   - the zero of the underlying kind for unbound enumerations;
//   - a Zero placeholder for any other value type.
func DefaultValueOf(t *Type) any {
	if t.kind != KindValue || isOptionalInstance(t) {
		return nil
	}

	if v, ok := primitive.Zero(t.prim); ok {
		return v
	}

	if t.goType != nil {
		return reflect.Zero(t.goType).Interface()
	}

	if t.enum != nil {
		return DefaultValueOf(t.enum)
	}

	return Zero{Type: t}
}
