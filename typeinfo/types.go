package typeinfo

import (
	"reflect"
	"strings"

	"typemeta/internal/common"
	"typemeta/primitive"
)

// TypeID identifies a named type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "typemeta/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Kind classifies how values of a type behave.
type Kind int

const (
	KindValue         Kind = iota // copied by value; optional only through the Optional wrapper
	KindReference                 // may be absent; implicitly optional
	KindInterface                 // abstract contract; implicitly optional
	KindTypeParameter             // placeholder inside a generic definition
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindReference:
		return "reference"
	case KindInterface:
		return "interface"
	case KindTypeParameter:
		return "type parameter"
	default:
		return common.UnknownStr
	}
}

// Type is a descriptor of a type registered in a Universe.
// Descriptors are immutable once published and compare by identity: two
// *Type values describe the same type iff they are the same pointer.
type Type struct {
	universe *Universe

	id       TypeID
	kind     Kind
	abstract bool

	base       *Type
	interfaces []*Type // complete set, inherited ones included

	params []*Type // type parameters of a generic definition
	def    *Type   // generic definition of an instantiation
	args   []*Type // type arguments of an instantiation

	enum   *Type // underlying integer kind of an enumeration
	values []EnumValue
	prim   primitive.KindEnum
	goType reflect.Type

	members []*Member
	ctors   []*Constructor

	// Instantiations requested while the definition was still being built
	// are completed when it is defined.
	defined bool
	pending []*Type
}

// Universe returns the registry the type belongs to.
func (t *Type) Universe() *Universe { return t.universe }

// ID returns the type identifier. Instantiations carry a synthetic name
// such as "Sequence[typemeta/store.Order]".
func (t *Type) ID() TypeID { return t.id }

// Kind returns the kind of the type.
func (t *Type) Kind() Kind { return t.kind }

// IsValueKind reports whether values of the type are copied by value.
func (t *Type) IsValueKind() bool { return t.kind == KindValue }

// IsAbstract reports whether the type cannot be instantiated directly.
// Interfaces are always abstract.
func (t *Type) IsAbstract() bool { return t.abstract }

// IsGeneric reports whether the type is a generic definition or an
// instantiation of one.
func (t *Type) IsGeneric() bool { return len(t.params) > 0 || t.def != nil }

// IsGenericDefinition reports whether the type is an uninstantiated generic
// definition (a generic shape).
func (t *Type) IsGenericDefinition() bool { return len(t.params) > 0 && t.def == nil }

// GenericDefinition returns the definition an instantiation was built from,
// or nil for non-instantiated types.
func (t *Type) GenericDefinition() *Type { return t.def }

// TypeArgs returns the type arguments of an instantiation.
func (t *Type) TypeArgs() []*Type { return t.args }

// TypeParams returns the type parameters of a generic definition.
func (t *Type) TypeParams() []*Type { return t.params }

// Base returns the direct ancestor, or nil at the root of the hierarchy.
func (t *Type) Base() *Type { return t.base }

// Interfaces returns every interface the type implements, including the
// ones inherited from ancestors and from extended interfaces.
func (t *Type) Interfaces() []*Type { return t.interfaces }

// IsEnum reports whether the type is an enumeration.
func (t *Type) IsEnum() bool { return t.enum != nil }

// EnumUnderlying returns the integer kind backing an enumeration, or nil.
func (t *Type) EnumUnderlying() *Type { return t.enum }

// EnumValues returns the named values of an enumeration in declaration order.
func (t *Type) EnumValues() []EnumValue { return t.values }

// Primitive returns the well-known kind of a builtin value type, or 0.
func (t *Type) Primitive() primitive.KindEnum { return t.prim }

// GoType returns the Go runtime type bound to the descriptor, or nil.
func (t *Type) GoType() reflect.Type { return t.goType }

// Members returns the fields and properties declared at this level, in
// declaration order.
func (t *Type) Members() []*Member { return t.members }

// Fields returns the fields declared at this level.
func (t *Type) Fields() []*Member { return t.membersOf(MemberField) }

// Properties returns the properties declared at this level.
func (t *Type) Properties() []*Member { return t.membersOf(MemberProperty) }

// Constructors returns the constructors declared on the type.
func (t *Type) Constructors() []*Constructor { return t.ctors }

func (t *Type) membersOf(kind MemberKind) []*Member {
	var out []*Member
	for _, m := range t.members {
		if m.kind == kind {
			out = append(out, m)
		}
	}

	return out
}

// String returns the qualified name of the type.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}

	return t.id.String()
}

func instanceName(def *Type, args []*Type) string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.String()
	}

	return def.id.Name + "[" + strings.Join(names, ",") + "]"
}

// isOpen reports whether the type mentions a type parameter.
func (t *Type) isOpen() bool {
	if t.kind == KindTypeParameter {
		return true
	}
	for _, a := range t.args {
		if a.isOpen() {
			return true
		}
	}

	return false
}

// MemberKind distinguishes fields from properties.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberProperty
)

// String returns a human-readable representation of the MemberKind.
func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberProperty:
		return "property"
	default:
		return common.UnknownStr
	}
}

// Member describes a data member declared on a specific type.
type Member struct {
	name      string
	kind      MemberKind
	typ       *Type
	static    bool
	declaring *Type
	index     int
}

func (m *Member) Name() string           { return m.name }
func (m *Member) MemberKind() MemberKind { return m.kind }
func (m *Member) Type() *Type            { return m.typ }
func (m *Member) IsStatic() bool         { return m.static }
func (m *Member) DeclaringType() *Type   { return m.declaring }

// Index returns the declaration position among the members of the
// declaring type.
func (m *Member) Index() int { return m.index }

// String returns "Declaring.Name".
func (m *Member) String() string {
	return m.declaring.String() + "." + m.name
}

// Constructor describes a way of building an instance of a type.
type Constructor struct {
	params    []*Type
	static    bool
	declaring *Type
}

func (c *Constructor) Params() []*Type      { return c.params }
func (c *Constructor) IsStatic() bool       { return c.static }
func (c *Constructor) DeclaringType() *Type { return c.declaring }
