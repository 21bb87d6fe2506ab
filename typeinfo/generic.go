package typeinfo

import (
	"iter"
	"slices"

	"typemeta/internal/common"
)

// FindImplementations yields every instantiation of shape that t implements.
// Interface shapes are matched against t's interface set, other shapes
// against its ancestor chain; t itself is yielded last when it instantiates
// shape. A generic definition implements nothing.
func FindImplementations(t, shape *Type) iter.Seq[*Type] {
	return func(yield func(*Type) bool) {
		if t.IsGenericDefinition() {
			return
		}

		candidates := AncestorsOf(t)
		if shape.kind == KindInterface {
			candidates = slices.Values(t.interfaces)
		}

		for c := range candidates {
			if c.def == shape && !yield(c) {
				return
			}
		}

		if t.def == shape {
			yield(t)
		}
	}
}

// TryGetElementType returns the first type argument of the single
// instantiation of shape implemented by t. No match and several matches both
// report false; callers cannot tell "absent" from "ambiguous".
func TryGetElementType(t, shape *Type) (*Type, bool) {
	if t.IsGenericDefinition() {
		return nil, false
	}

	var found []*Type
	for impl := range FindImplementations(t, shape) {
		found = append(found, impl)
		if common.IsMultiple(found) {
			return nil, false
		}
	}

	impl, ok := common.First(found)
	if !ok {
		return nil, false
	}

	return common.First(impl.args)
}

// IsGrouping reports whether t is an instantiation of Grouping or
// AsyncGrouping.
func IsGrouping(t *Type) bool {
	return t.def != nil && (t.def == t.universe.grouping || t.def == t.universe.asyncGrouping)
}
