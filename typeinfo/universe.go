package typeinfo

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"typemeta/primitive"
)

// Universe is a registry of type descriptors. It owns every *Type it hands
// out: builtins, user-defined types and the interned instantiations of
// generic definitions.
//
// Registration takes an exclusive lock. Queries only read published,
// immutable descriptors, so they are safe to run concurrently with each other
// and with further registration.
type Universe struct {
	mu        sync.RWMutex
	byID      map[TypeID]*Type
	order     []*Type
	instances map[string]*Type
	reflected map[reflect.Type]*Type

	builtins      map[primitive.KindEnum]*Type
	object        *Type
	bytes         *Type
	optional      *Type
	sequence      *Type
	asyncSequence *Type
	grouping      *Type
	asyncGrouping *Type
}

var builtinNames = map[primitive.KindEnum]string{
	primitive.KindInt:            "int",
	primitive.KindInt8:           "int8",
	primitive.KindInt16:          "int16",
	primitive.KindInt32:          "int32",
	primitive.KindInt64:          "int64",
	primitive.KindUint:           "uint",
	primitive.KindUint8:          "uint8",
	primitive.KindUint16:         "uint16",
	primitive.KindUint32:         "uint32",
	primitive.KindUint64:         "uint64",
	primitive.KindFloat32:        "float32",
	primitive.KindFloat64:        "float64",
	primitive.KindBool:           "bool",
	primitive.KindChar:           "char",
	primitive.KindString:         "string",
	primitive.KindDateTime:       "datetime",
	primitive.KindDateTimeOffset: "datetimeoffset",
	primitive.KindDuration:       "duration",
	primitive.KindGUID:           "guid",
}

var builtinGoTypes = map[primitive.KindEnum]reflect.Type{
	primitive.KindInt:            reflect.TypeOf(int(0)),
	primitive.KindInt8:           reflect.TypeOf(int8(0)),
	primitive.KindInt16:          reflect.TypeOf(int16(0)),
	primitive.KindInt32:          reflect.TypeOf(int32(0)),
	primitive.KindInt64:          reflect.TypeOf(int64(0)),
	primitive.KindUint:           reflect.TypeOf(uint(0)),
	primitive.KindUint8:          reflect.TypeOf(uint8(0)),
	primitive.KindUint16:         reflect.TypeOf(uint16(0)),
	primitive.KindUint32:         reflect.TypeOf(uint32(0)),
	primitive.KindUint64:         reflect.TypeOf(uint64(0)),
	primitive.KindFloat32:        reflect.TypeOf(float32(0)),
	primitive.KindFloat64:        reflect.TypeOf(float64(0)),
	primitive.KindBool:           reflect.TypeOf(false),
	primitive.KindChar:           reflect.TypeOf(rune(0)),
	primitive.KindString:         reflect.TypeOf(""),
	primitive.KindDateTime:       reflect.TypeOf(time.Time{}),
	primitive.KindDateTimeOffset: reflect.TypeOf(time.Time{}),
	primitive.KindDuration:       reflect.TypeOf(time.Duration(0)),
	primitive.KindGUID:           reflect.TypeOf(uuid.UUID{}),
}

// NewUniverse creates a registry pre-populated with the builtin value kinds,
// the Object root, and the Optional, Sequence, AsyncSequence, Grouping and
// AsyncGrouping generic shapes.
func NewUniverse() *Universe {
	u := &Universe{
		byID:      make(map[TypeID]*Type),
		instances: make(map[string]*Type),
		reflected: make(map[reflect.Type]*Type),
		builtins:  make(map[primitive.KindEnum]*Type),
	}

	u.object = u.Class(TypeID{Name: "object"}).Bind(reflect.TypeOf((*any)(nil)).Elem()).MustDefine()
	u.reflected[u.object.goType] = u.object

	for k := primitive.KindEnum(1); int(k) < primitive.KindTotal; k++ {
		t := u.Struct(TypeID{Name: builtinNames[k]}).Primitive(k).Bind(builtinGoTypes[k]).MustDefine()
		u.builtins[k] = t
		if primitive.FromReflectType(t.goType) == k {
			u.reflected[t.goType] = t
		}
	}

	u.optional = u.Struct(TypeID{Name: "Optional"}).Generic("T").MustDefine()

	seq := u.Interface(TypeID{Name: "Sequence"}).Generic("T")
	u.sequence = seq.MustDefine()

	aseq := u.Interface(TypeID{Name: "AsyncSequence"}).Generic("T")
	u.asyncSequence = aseq.MustDefine()

	g := u.Interface(TypeID{Name: "Grouping"}).Generic("K", "E")
	g.Implements(u.MustInstantiate(u.sequence, g.Param("E")))
	u.grouping = g.MustDefine()

	ag := u.Interface(TypeID{Name: "AsyncGrouping"}).Generic("K", "E")
	ag.Implements(u.MustInstantiate(u.asyncSequence, ag.Param("E")))
	u.asyncGrouping = ag.MustDefine()

	u.bytes = u.Class(TypeID{Name: "bytes"}).
		Implements(u.MustInstantiate(u.sequence, u.builtins[primitive.KindUint8])).
		Bind(reflect.TypeOf([]byte(nil))).
		MustDefine()
	u.reflected[u.bytes.goType] = u.bytes

	return u
}

// Builtin returns the descriptor of a well-known value kind, or nil.
func (u *Universe) Builtin(k primitive.KindEnum) *Type { return u.builtins[k] }

// Object returns the root reference type.
func (u *Universe) Object() *Type { return u.object }

// Bytes returns the reference type of raw byte strings.
func (u *Universe) Bytes() *Type { return u.bytes }

// Optional returns the Optional[T] generic definition.
func (u *Universe) Optional() *Type { return u.optional }

// Sequence returns the Sequence[T] generic interface definition.
func (u *Universe) Sequence() *Type { return u.sequence }

// AsyncSequence returns the AsyncSequence[T] generic interface definition.
func (u *Universe) AsyncSequence() *Type { return u.asyncSequence }

// Grouping returns the Grouping[K,E] generic interface definition.
func (u *Universe) Grouping() *Type { return u.grouping }

// AsyncGrouping returns the AsyncGrouping[K,E] generic interface definition.
func (u *Universe) AsyncGrouping() *Type { return u.asyncGrouping }

// Lookup returns the named type registered under id.
func (u *Universe) Lookup(id TypeID) (*Type, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	t, ok := u.byID[id]
	return t, ok
}

// Types returns every named type in registration order, builtins included.
// Instantiations are not listed.
func (u *Universe) Types() []*Type {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return slices.Clone(u.order)
}

// Instantiate returns the instantiation of a generic definition with the
// given type arguments. The same definition and arguments always produce the
// same descriptor.
func (u *Universe) Instantiate(def *Type, args ...*Type) (*Type, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.instantiateLocked(def, args)
}

// MustInstantiate is like Instantiate but panics on error.
func (u *Universe) MustInstantiate(def *Type, args ...*Type) *Type {
	t, err := u.Instantiate(def, args...)
	if err != nil {
		panic(err)
	}

	return t
}

func instanceKey(def *Type, args []*Type) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%p", def)
	for _, a := range args {
		fmt.Fprintf(&sb, ",%p", a)
	}

	return sb.String()
}

func (u *Universe) owns(t *Type) bool {
	return t != nil && t.universe == u
}

func (u *Universe) instantiateLocked(def *Type, args []*Type) (*Type, error) {
	if !u.owns(def) {
		return nil, fmt.Errorf("instantiate %s: %w", def, ErrForeignType)
	}
	if !def.IsGenericDefinition() {
		return nil, fmt.Errorf("instantiate %s: %w", def, ErrNotGenericDefinition)
	}
	if len(args) != len(def.params) {
		return nil, fmt.Errorf("instantiate %s with %d arguments, want %d: %w",
			def, len(args), len(def.params), ErrTypeArgumentCount)
	}
	for _, a := range args {
		if !u.owns(a) {
			return nil, fmt.Errorf("instantiate %s with %s: %w", def, a, ErrForeignType)
		}
		if a.IsGenericDefinition() {
			return nil, fmt.Errorf("instantiate %s with definition %s: %w", def, a, ErrInvalidTypeArgument)
		}
	}
	if def == u.optional {
		a := args[0]
		if a.kind != KindTypeParameter && (a.kind != KindValue || a.def == u.optional) {
			return nil, fmt.Errorf("instantiate %s with %s %s: %w", def, a.kind, a, ErrInvalidTypeArgument)
		}
	}

	key := instanceKey(def, args)
	if t, ok := u.instances[key]; ok {
		return t, nil
	}

	inst := &Type{
		universe: u,
		id:       TypeID{PkgPath: def.id.PkgPath, Name: instanceName(def, args)},
		kind:     def.kind,
		abstract: def.abstract,
		def:      def,
		args:     slices.Clone(args),
	}

	// Interned before substitution so that self-referencing members resolve
	// to this descriptor.
	u.instances[key] = inst

	if !def.defined {
		def.pending = append(def.pending, inst)
		return inst, nil
	}

	if err := u.fillLocked(inst); err != nil {
		delete(u.instances, key)
		return nil, err
	}

	return inst, nil
}

// fillLocked copies the declaration of inst's definition into inst with the
// type parameters replaced by its arguments.
func (u *Universe) fillLocked(inst *Type) error {
	def := inst.def
	subst := make(map[*Type]*Type, len(inst.args))
	for i, p := range def.params {
		subst[p] = inst.args[i]
	}

	var err error
	if inst.base, err = u.substLocked(def.base, subst); err != nil {
		return err
	}

	for _, iface := range def.interfaces {
		s, err := u.substLocked(iface, subst)
		if err != nil {
			return err
		}
		inst.interfaces = appendUnique(inst.interfaces, s)
	}

	for _, m := range def.members {
		mt, err := u.substLocked(m.typ, subst)
		if err != nil {
			return err
		}
		inst.members = append(inst.members, &Member{
			name:      m.name,
			kind:      m.kind,
			typ:       mt,
			static:    m.static,
			declaring: inst,
			index:     m.index,
		})
	}

	for _, c := range def.ctors {
		params := make([]*Type, len(c.params))
		for i, p := range c.params {
			if params[i], err = u.substLocked(p, subst); err != nil {
				return err
			}
		}
		inst.ctors = append(inst.ctors, &Constructor{params: params, static: c.static, declaring: inst})
	}

	inst.defined = true

	return nil
}

// substLocked replaces type parameters inside t according to subst.
func (u *Universe) substLocked(t *Type, subst map[*Type]*Type) (*Type, error) {
	if t == nil {
		return nil, nil
	}
	if r, ok := subst[t]; ok {
		return r, nil
	}
	if t.def == nil || !t.isOpen() {
		return t, nil
	}

	args := make([]*Type, len(t.args))
	for i, a := range t.args {
		s, err := u.substLocked(a, subst)
		if err != nil {
			return nil, err
		}
		args[i] = s
	}

	// Optional[T] with T bound to a type that is already optional collapses
	// to the argument.
	if t.def == u.optional && IsOptional(args[0]) {
		return args[0], nil
	}

	return u.instantiateLocked(t.def, args)
}

func appendUnique(list []*Type, items ...*Type) []*Type {
	for _, it := range items {
		if it != nil && !slices.Contains(list, it) {
			list = append(list, it)
		}
	}

	return list
}
