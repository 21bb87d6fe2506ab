package typeinfo

// EnumValue is a named constant of an enumeration.
type EnumValue struct {
	Name  string
	Value int64
}

// UnwrapEnum replaces an enumeration with its underlying integer kind,
// keeping an Optional wrapper when one was present: Optional[Status] becomes
// Optional[int32]. Types that are not enumerations are returned unchanged.
func UnwrapEnum(t *Type) *Type {
	optional := isOptionalInstance(t)
	inner := UnwrapOptional(t)
	if inner.enum == nil {
		return t
	}
	if !optional {
		return inner.enum
	}

	return MakeOptional(inner.enum, true)
}
