package typeinfo

import (
	"fmt"
	"reflect"

	"typemeta/primitive"
)

var basicKinds = map[reflect.Kind]primitive.KindEnum{
	reflect.Int:     primitive.KindInt,
	reflect.Int8:    primitive.KindInt8,
	reflect.Int16:   primitive.KindInt16,
	reflect.Int32:   primitive.KindInt32,
	reflect.Int64:   primitive.KindInt64,
	reflect.Uint:    primitive.KindUint,
	reflect.Uint8:   primitive.KindUint8,
	reflect.Uint16:  primitive.KindUint16,
	reflect.Uint32:  primitive.KindUint32,
	reflect.Uint64:  primitive.KindUint64,
	reflect.Float32: primitive.KindFloat32,
	reflect.Float64: primitive.KindFloat64,
	reflect.Bool:    primitive.KindBool,
	reflect.String:  primitive.KindString,
}

// Reflect registers the Go runtime type rt and everything it refers to, and
// returns its descriptor. The mapping follows Go semantics:
//   - builtin basics, time.Time, time.Duration and uuid.UUID map to builtins;
//   - defined integer types become enumerations, other defined basics value
//     types over the matching builtin;
//   - *T becomes Optional[T] for value types and T otherwise;
//   - structs are value types whose first embedded user struct is the base and
//     whose exported fields are members; they implement every interface
//     already registered through Reflect that T or *T satisfies;
//   - slices, maps, channels and functions are reference types; slices and
//     arrays implement Sequence[E], receive channels AsyncSequence[E], and
//     iterator functions (iter.Seq[E]) Sequence[E].
//
// Reflect is idempotent: the same rt always yields the same descriptor. A
// type already registered under the same TypeID is reused as is.
func (u *Universe) Reflect(rt reflect.Type) (*Type, error) {
	if rt == nil {
		return nil, fmt.Errorf("reflect nil type: %w", ErrUnsupportedType)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	return u.reflectLocked(rt)
}

// MustReflect is like Reflect but panics on error.
func (u *Universe) MustReflect(rt reflect.Type) *Type {
	t, err := u.Reflect(rt)
	if err != nil {
		panic(err)
	}

	return t
}

func reflectID(rt reflect.Type) TypeID {
	if rt.Name() == "" {
		return TypeID{Name: rt.String()}
	}

	return TypeID{PkgPath: rt.PkgPath(), Name: rt.Name()}
}

func (u *Universe) reflectLocked(rt reflect.Type) (*Type, error) {
	if t, ok := u.reflected[rt]; ok {
		return t, nil
	}
	if k := primitive.FromReflectType(rt); k.IsValid() {
		return u.builtins[k], nil
	}
	if t, ok := u.byID[reflectID(rt)]; ok {
		u.reflected[rt] = t
		return t, nil
	}

	switch rt.Kind() {
	case reflect.Pointer:
		elem, err := u.reflectLocked(rt.Elem())
		if err != nil {
			return nil, err
		}
		if elem.kind != KindValue || isOptionalInstance(elem) {
			return elem, nil
		}
		return u.instantiateLocked(u.optional, []*Type{elem})

	case reflect.Struct:
		return u.reflectStruct(rt)

	case reflect.Interface:
		if rt.Name() == "" && rt.NumMethod() == 0 {
			return u.object, nil
		}
		return u.reflectInterface(rt)

	case reflect.Slice, reflect.Array, reflect.Chan, reflect.Map, reflect.Func:
		return u.reflectComposite(rt)

	default:
		if k, ok := basicKinds[rt.Kind()]; ok {
			return u.reflectBasic(rt, u.builtins[k])
		}
		return nil, fmt.Errorf("reflect %s (%s): %w", rt, rt.Kind(), ErrUnsupportedType)
	}
}

// declareLocked publishes a skeleton so that self-references resolve while
// the rest of the declaration is being reflected.
func (u *Universe) declareLocked(rt reflect.Type, b *TypeBuilder) {
	b.Bind(rt)
	u.reflected[rt] = b.t
}

func (u *Universe) abandonLocked(rt reflect.Type, err error) (*Type, error) {
	delete(u.reflected, rt)
	return nil, err
}

func (u *Universe) reflectBasic(rt reflect.Type, underlying *Type) (*Type, error) {
	var b *TypeBuilder
	if underlying.prim.IsInteger() {
		b = u.Enum(reflectID(rt), underlying)
	} else {
		b = u.Struct(reflectID(rt))
	}
	b.Bind(rt)

	return b.defineLocked()
}

func (u *Universe) reflectStruct(rt reflect.Type) (*Type, error) {
	b := u.Struct(reflectID(rt))
	u.declareLocked(rt, b)

	baseIndex := -1
	for i := range rt.NumField() {
		f := rt.Field(i)
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if f.Anonymous && ft.Kind() == reflect.Struct && ft != rt && !primitive.FromReflectType(ft).IsValid() {
			base, err := u.reflectLocked(ft)
			if err != nil {
				return u.abandonLocked(rt, err)
			}
			b.Extends(base)
			baseIndex = i
			break
		}
	}

	for i := range rt.NumField() {
		f := rt.Field(i)
		if i == baseIndex || !f.IsExported() {
			continue
		}
		ft, err := u.reflectLocked(f.Type)
		if err != nil {
			return u.abandonLocked(rt, fmt.Errorf("field %s.%s: %w", rt, f.Name, err))
		}
		b.Field(f.Name, ft)
	}

	b.Implements(u.reflectedInterfacesLocked(rt)...)

	t, err := b.defineLocked()
	if err != nil {
		return u.abandonLocked(rt, err)
	}

	return t, nil
}

func (u *Universe) reflectInterface(rt reflect.Type) (*Type, error) {
	b := u.Interface(reflectID(rt))
	u.declareLocked(rt, b)
	b.Implements(u.reflectedInterfacesLocked(rt)...)

	t, err := b.defineLocked()
	if err != nil {
		return u.abandonLocked(rt, err)
	}

	return t, nil
}

// reflectedInterfacesLocked lists the registered Go interfaces that rt, or a
// pointer to it, satisfies.
func (u *Universe) reflectedInterfacesLocked(rt reflect.Type) []*Type {
	var out []*Type
	for _, t := range u.order {
		it := t.goType
		if t.kind != KindInterface || it == nil || it == rt {
			continue
		}
		if rt.Implements(it) || (rt.Kind() != reflect.Interface && reflect.PointerTo(rt).Implements(it)) {
			out = append(out, t)
		}
	}

	return out
}

func (u *Universe) reflectComposite(rt reflect.Type) (*Type, error) {
	var b *TypeBuilder
	if rt.Kind() == reflect.Array {
		b = u.Struct(reflectID(rt))
	} else {
		b = u.Class(reflectID(rt))
	}
	u.declareLocked(rt, b)

	var (
		shape *Type
		elem  reflect.Type
	)
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		shape, elem = u.sequence, rt.Elem()
	case reflect.Chan:
		if rt.ChanDir()&reflect.RecvDir != 0 {
			shape, elem = u.asyncSequence, rt.Elem()
		}
	case reflect.Func:
		if e, ok := iteratorElem(rt); ok {
			shape, elem = u.sequence, e
		}
	}

	if shape != nil {
		et, err := u.reflectLocked(elem)
		if err != nil {
			return u.abandonLocked(rt, err)
		}
		seq, err := u.instantiateLocked(shape, []*Type{et})
		if err != nil {
			return u.abandonLocked(rt, err)
		}
		b.Implements(seq)
	}

	t, err := b.defineLocked()
	if err != nil {
		return u.abandonLocked(rt, err)
	}

	return t, nil
}

// iteratorElem recognises func(yield func(E) bool), the shape of iter.Seq[E].
func iteratorElem(rt reflect.Type) (reflect.Type, bool) {
	if rt.NumIn() != 1 || rt.NumOut() != 0 {
		return nil, false
	}

	yield := rt.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 1 || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return nil, false
	}

	return yield.In(0), true
}
