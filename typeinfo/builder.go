package typeinfo

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"typemeta/primitive"
)

// TypeBuilder accumulates the declaration of a named type. Nothing is
// registered until Define is called; errors encountered while building are
// reported by Define. A builder must not be reused after Define.
type TypeBuilder struct {
	u        *Universe
	t        *Type
	declared []*Type
	errs     []error
}

// Class starts the declaration of a reference type. Classes without an
// explicit base derive from Object.
func (u *Universe) Class(id TypeID) *TypeBuilder {
	return u.newBuilder(id, KindReference)
}

// Struct starts the declaration of a value type.
func (u *Universe) Struct(id TypeID) *TypeBuilder {
	return u.newBuilder(id, KindValue)
}

// Interface starts the declaration of an interface. Interfaces are abstract.
func (u *Universe) Interface(id TypeID) *TypeBuilder {
	b := u.newBuilder(id, KindInterface)
	b.t.abstract = true
	return b
}

// Enum starts the declaration of an enumeration backed by an integer kind.
func (u *Universe) Enum(id TypeID, underlying *Type) *TypeBuilder {
	b := u.newBuilder(id, KindValue)
	switch {
	case !u.owns(underlying):
		b.fail(fmt.Errorf("enum %s underlying %s: %w", id, underlying, ErrForeignType))
	case !underlying.prim.IsInteger():
		b.fail(fmt.Errorf("enum %s underlying %s: %w", id, underlying, ErrInvalidEnumUnderlying))
	default:
		b.t.enum = underlying
	}

	return b
}

func (u *Universe) newBuilder(id TypeID, kind Kind) *TypeBuilder {
	return &TypeBuilder{
		u: u,
		t: &Type{universe: u, id: id, kind: kind},
	}
}

func (b *TypeBuilder) fail(err error) {
	b.errs = append(b.errs, err)
}

// Generic turns the declaration into a generic definition with the named
// type parameters.
func (b *TypeBuilder) Generic(params ...string) *TypeBuilder {
	for _, name := range params {
		b.t.params = append(b.t.params, &Type{
			universe: b.u,
			id:       TypeID{Name: name},
			kind:     KindTypeParameter,
		})
	}

	return b
}

// Param returns the type parameter with the given name, for use in member
// types, the base type and implemented interfaces of the definition.
func (b *TypeBuilder) Param(name string) *Type {
	for _, p := range b.t.params {
		if p.id.Name == name {
			return p
		}
	}

	b.fail(fmt.Errorf("%s: type parameter %q: %w", b.t.id, name, ErrUnknownTypeParameter))
	return nil
}

// Type returns the descriptor under construction. It may be used as a member,
// constructor parameter or type argument before Define, which is how
// self-referencing and mutually recursive declarations are built. It becomes
// a usable descriptor only once Define succeeds.
func (b *TypeBuilder) Type() *Type { return b.t }

// Abstract marks the type as not directly instantiable.
func (b *TypeBuilder) Abstract() *TypeBuilder {
	b.t.abstract = true
	return b
}

// Extends sets the direct ancestor.
func (b *TypeBuilder) Extends(base *Type) *TypeBuilder {
	switch {
	case !b.u.owns(base):
		b.fail(fmt.Errorf("%s extends %s: %w", b.t.id, base, ErrForeignType))
	case b.t.kind == KindInterface || b.t.enum != nil:
		b.fail(fmt.Errorf("%s cannot have a base: %w", b.t.id, ErrInvalidBase))
	case base.kind != b.t.kind:
		b.fail(fmt.Errorf("%s (%s) extends %s (%s): %w", b.t.id, b.t.kind, base, base.kind, ErrInvalidBase))
	case base.IsGenericDefinition():
		b.fail(fmt.Errorf("%s extends generic definition %s: %w", b.t.id, base, ErrInvalidBase))
	default:
		b.t.base = base
	}

	return b
}

// Implements adds interfaces to the type. For interfaces it declares the
// interfaces being extended.
func (b *TypeBuilder) Implements(ifaces ...*Type) *TypeBuilder {
	for _, iface := range ifaces {
		switch {
		case !b.u.owns(iface):
			b.fail(fmt.Errorf("%s implements %s: %w", b.t.id, iface, ErrForeignType))
		case iface.kind != KindInterface || iface.IsGenericDefinition():
			b.fail(fmt.Errorf("%s implements %s: %w", b.t.id, iface, ErrInvalidInterface))
		default:
			b.declared = appendUnique(b.declared, iface)
		}
	}

	return b
}

// Field declares an instance field.
func (b *TypeBuilder) Field(name string, t *Type) *TypeBuilder {
	return b.member(name, MemberField, t, false)
}

// StaticField declares a static field.
func (b *TypeBuilder) StaticField(name string, t *Type) *TypeBuilder {
	return b.member(name, MemberField, t, true)
}

// Property declares an instance property.
func (b *TypeBuilder) Property(name string, t *Type) *TypeBuilder {
	return b.member(name, MemberProperty, t, false)
}

// StaticProperty declares a static property.
func (b *TypeBuilder) StaticProperty(name string, t *Type) *TypeBuilder {
	return b.member(name, MemberProperty, t, true)
}

func (b *TypeBuilder) member(name string, kind MemberKind, t *Type, static bool) *TypeBuilder {
	if t != nil && !b.u.owns(t) {
		b.fail(fmt.Errorf("%s.%s of type %s: %w", b.t.id, name, t, ErrForeignType))
		return b
	}
	// A level declares at most one member per name, whatever its kind.
	for _, m := range b.t.members {
		if m.name == name {
			b.fail(fmt.Errorf("%s %s.%s: %w", kind, b.t.id, name, ErrDuplicateMember))
			return b
		}
	}

	b.t.members = append(b.t.members, &Member{
		name:      name,
		kind:      kind,
		typ:       t,
		static:    static,
		declaring: b.t,
		index:     len(b.t.members),
	})

	return b
}

// Constructor declares an instance constructor taking the given parameters.
func (b *TypeBuilder) Constructor(params ...*Type) *TypeBuilder {
	return b.constructor(params, false)
}

// StaticConstructor declares the type initializer.
func (b *TypeBuilder) StaticConstructor() *TypeBuilder {
	return b.constructor(nil, true)
}

func (b *TypeBuilder) constructor(params []*Type, static bool) *TypeBuilder {
	for _, p := range params {
		if !b.u.owns(p) {
			b.fail(fmt.Errorf("%s constructor parameter %s: %w", b.t.id, p, ErrForeignType))
			return b
		}
	}

	b.t.ctors = append(b.t.ctors, &Constructor{
		params:    slices.Clone(params),
		static:    static,
		declaring: b.t,
	})

	return b
}

// Primitive declares a value type represented by the well-known kind k, such
// as a defined string type. It shares the classification and the default
// value of the builtin.
func (b *TypeBuilder) Primitive(k primitive.KindEnum) *TypeBuilder {
	if b.t.kind != KindValue || b.t.enum != nil || len(b.t.params) > 0 || !k.IsValid() {
		b.fail(fmt.Errorf("%s represented as %s: %w", b.t.id, k, ErrInvalidPrimitive))
		return b
	}

	b.t.prim = k
	return b
}

// Value declares a named constant of an enumeration.
func (b *TypeBuilder) Value(name string, v int64) *TypeBuilder {
	if b.t.enum == nil {
		b.fail(fmt.Errorf("%s value %s: %w", b.t.id, name, ErrNotEnum))
		return b
	}

	b.t.values = append(b.t.values, EnumValue{Name: name, Value: v})
	return b
}

// Bind associates a Go runtime type with the descriptor. Bound value types
// get their zero value from the Go type.
func (b *TypeBuilder) Bind(rt reflect.Type) *TypeBuilder {
	b.t.goType = rt
	return b
}

// Define validates and registers the type. The returned descriptor is
// immutable.
func (b *TypeBuilder) Define() (*Type, error) {
	u := b.u
	u.mu.Lock()
	defer u.mu.Unlock()

	return b.defineLocked()
}

// MustDefine is like Define but panics on error.
func (b *TypeBuilder) MustDefine() *Type {
	t, err := b.Define()
	if err != nil {
		panic(err)
	}

	return t
}

func (b *TypeBuilder) defineLocked() (*Type, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	u, t := b.u, b.t
	if _, exists := u.byID[t.id]; exists {
		return nil, fmt.Errorf("define %s: %w", t.id, ErrDuplicateType)
	}

	if t.kind == KindReference && t.base == nil && u.object != nil {
		t.base = u.object
	}

	// Declared interfaces first, then what they extend, then what the
	// ancestors implement.
	var all []*Type
	all = appendUnique(all, b.declared...)
	for _, iface := range b.declared {
		all = appendUnique(all, iface.interfaces...)
	}
	if t.base != nil {
		all = appendUnique(all, t.base.interfaces...)
	}
	t.interfaces = all

	t.defined = true
	for _, inst := range t.pending {
		if err := u.fillLocked(inst); err != nil {
			t.defined = false
			return nil, fmt.Errorf("define %s: %w", t.id, err)
		}
	}
	t.pending = nil

	u.byID[t.id] = t
	u.order = append(u.order, t)
	if t.goType != nil && t.goType.Name() != "" {
		if _, taken := u.reflected[t.goType]; !taken && len(t.params) == 0 {
			u.reflected[t.goType] = t
		}
	}

	return t, nil
}
