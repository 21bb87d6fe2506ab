package typeinfo

// UnwrapOptional returns X for Optional[X] and t itself for anything else.
func UnwrapOptional(t *Type) *Type {
	if isOptionalInstance(t) {
		return t.args[0]
	}

	return t
}

// IsOptional reports whether t admits absence: reference and interface kinds
// always do, value kinds only when wrapped in Optional.
func IsOptional(t *Type) bool {
	switch t.kind {
	case KindReference, KindInterface:
		return true
	case KindValue:
		return isOptionalInstance(t)
	default:
		return false
	}
}

// MakeOptional returns t with the requested optionality. Reference kinds are
// always optional, so wrapping them is a no-op. Generic definitions are not
// types a value can have and are returned unchanged; wrap an instantiation
// instead.
func MakeOptional(t *Type, optional bool) *Type {
	if IsOptional(t) == optional || t.IsGenericDefinition() {
		return t
	}
	if !optional {
		return UnwrapOptional(t)
	}

	return t.universe.MustInstantiate(t.universe.optional, t)
}

// IsInteger reports whether t, after peeling Optional, is one of the integer
// widths or the character kind.
func IsInteger(t *Type) bool {
	return UnwrapOptional(t).prim.IsIntegral()
}

// IsInstantiable reports whether instances of t can be created directly:
// it is neither abstract, an interface, nor a generic definition.
func IsInstantiable(t *Type) bool {
	return !t.abstract &&
		t.kind != KindInterface &&
		t.kind != KindTypeParameter &&
		!t.IsGenericDefinition()
}

// IsValidEntityType reports whether t is a reference-kind class, the only
// kind an entity can be mapped from.
func IsValidEntityType(t *Type) bool {
	return t.kind == KindReference
}

func isOptionalInstance(t *Type) bool {
	return t.def != nil && t.def == t.universe.optional
}
