package analyze

import (
	"cmp"
	"errors"
	"fmt"
	"go/constant"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"typemeta/primitive"
	"typemeta/typeinfo"
)

var basicKinds = map[types.BasicKind]primitive.KindEnum{
	types.Int:     primitive.KindInt,
	types.Int8:    primitive.KindInt8,
	types.Int16:   primitive.KindInt16,
	types.Int32:   primitive.KindInt32,
	types.Int64:   primitive.KindInt64,
	types.Uint:    primitive.KindUint,
	types.Uint8:   primitive.KindUint8,
	types.Uint16:  primitive.KindUint16,
	types.Uint32:  primitive.KindUint32,
	types.Uint64:  primitive.KindUint64,
	types.Float32: primitive.KindFloat32,
	types.Float64: primitive.KindFloat64,
	types.Bool:    primitive.KindBool,
	types.String:  primitive.KindString,
}

// wellKnown maps named types from outside the loaded packages onto builtins.
var wellKnown = map[string]primitive.KindEnum{
	"time.Time":                   primitive.KindDateTime,
	"time.Duration":               primitive.KindDuration,
	"github.com/google/uuid.UUID": primitive.KindGUID,
}

func typeID(obj *types.TypeName) typeinfo.TypeID {
	if obj.Pkg() == nil {
		return typeinfo.TypeID{Name: obj.Name()}
	}

	return typeinfo.TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
}

func wellKnownKind(obj *types.TypeName) (primitive.KindEnum, bool) {
	k, ok := wellKnown[typeID(obj).String()]
	return k, ok
}

// convert returns the descriptor of an arbitrary type expression.
func (a *Analyzer) convert(t types.Type) (*typeinfo.Type, error) {
	switch t := t.(type) {
	case *types.Alias:
		return a.convert(types.Unalias(t))

	case *types.Basic:
		if t.Kind() == types.Invalid {
			return nil, ErrInvalidDeclaration
		}
		k, ok := basicKinds[t.Kind()]
		if !ok {
			return nil, fmt.Errorf("%s: %w", t, typeinfo.ErrUnsupportedType)
		}
		return a.u.Builtin(k), nil

	case *types.Named:
		return a.convertNamed(t)

	case *types.TypeParam:
		p, ok := a.params[t]
		if !ok {
			return nil, fmt.Errorf("%s: %w", t, typeinfo.ErrUnknownTypeParameter)
		}
		return p, nil

	case *types.Pointer:
		elem, err := a.convert(t.Elem())
		if err != nil {
			return nil, err
		}
		return typeinfo.MakeOptional(elem, true), nil

	case *types.Slice:
		if isByte(t.Elem()) {
			return a.u.Bytes(), nil
		}
		return a.composite(shapeSlice, t.Elem())

	case *types.Array:
		return a.composite(shapeArray, t.Elem())

	case *types.Map:
		return a.composite(shapeMap, t.Key(), t.Elem())

	case *types.Chan:
		if t.Dir() == types.SendOnly {
			return a.composite(shapeSendChan, t.Elem())
		}
		return a.composite(shapeChan, t.Elem())

	case *types.Signature:
		if elem, ok := iteratorElem(t); ok {
			return a.composite(shapeSeq, elem)
		}
		return a.shape(shapeFunc)

	case *types.Interface:
		return a.u.Object(), nil

	default:
		return nil, fmt.Errorf("%s: %w", t, typeinfo.ErrUnsupportedType)
	}
}

func isByte(t types.Type) bool {
	b, ok := types.Unalias(t).(*types.Basic)
	return ok && b.Kind() == types.Uint8
}

// iteratorElem recognises func(yield func(E) bool), the shape of iter.Seq[E].
func iteratorElem(sig *types.Signature) (types.Type, bool) {
	if sig.TypeParams().Len() > 0 || sig.Params().Len() != 1 || sig.Results().Len() != 0 {
		return nil, false
	}

	yield, ok := types.Unalias(sig.Params().At(0).Type()).(*types.Signature)
	if !ok || yield.Params().Len() != 1 || yield.Results().Len() != 1 {
		return nil, false
	}
	if !types.Identical(yield.Results().At(0).Type(), types.Typ[types.Bool]) {
		return nil, false
	}

	return yield.Params().At(0).Type(), true
}

// convertNamed returns the descriptor of a named type, converting and
// registering its declaration on first use.
func (a *Analyzer) convertNamed(named *types.Named) (*typeinfo.Type, error) {
	if named.TypeArgs().Len() > 0 {
		return a.instantiate(named)
	}

	obj := named.Obj()
	if k, ok := wellKnownKind(obj); ok {
		return a.u.Builtin(k), nil
	}
	if t, ok := a.named[obj]; ok {
		return t, nil
	}
	if err, ok := a.failed[obj]; ok {
		return nil, err
	}

	id := typeID(obj)
	if invalidIn(named, make(map[types.Type]bool)) {
		err := fmt.Errorf("%s: %w", id, ErrInvalidDeclaration)
		a.failed[obj] = err
		return nil, err
	}
	if t, ok := a.u.Lookup(id); ok {
		a.named[obj] = t
		return t, nil
	}

	var (
		t   *typeinfo.Type
		err error
	)
	switch ut := named.Underlying().(type) {
	case *types.Struct:
		t, err = a.convertStruct(named, ut)
	case *types.Interface:
		t, err = a.convertInterface(named, ut)
	case *types.Basic:
		t, err = a.convertBasic(named, ut)
	case *types.Slice, *types.Array, *types.Map, *types.Chan, *types.Signature:
		t, err = a.convertComposite(named, ut)
	default:
		err = fmt.Errorf("%s (%T): %w", id, ut, typeinfo.ErrUnsupportedType)
	}
	if err != nil {
		delete(a.named, obj)
		a.failed[obj] = err
		return nil, err
	}

	a.named[obj] = t
	a.log.Debug("converted type", zap.Stringer("type", t), zap.Stringer("kind", t.Kind()))

	return t, nil
}

func (a *Analyzer) instantiate(named *types.Named) (*typeinfo.Type, error) {
	def, err := a.convertNamed(named.Origin())
	if err != nil {
		return nil, err
	}

	targs := named.TypeArgs()
	args := make([]*typeinfo.Type, targs.Len())
	for i := range targs.Len() {
		if args[i], err = a.convert(targs.At(i)); err != nil {
			return nil, err
		}
	}

	return a.u.Instantiate(def, args...)
}

// begin publishes the declaration under construction so that references
// back to it resolve while its members are converted.
func (a *Analyzer) begin(named *types.Named, b *typeinfo.TypeBuilder) func() {
	obj := named.Obj()
	a.named[obj] = b.Type()
	a.building[obj] = true

	if tparams := named.TypeParams(); tparams.Len() > 0 {
		names := make([]string, tparams.Len())
		for i := range tparams.Len() {
			names[i] = tparams.At(i).Obj().Name()
		}
		b.Generic(names...)
		for i := range tparams.Len() {
			a.params[tparams.At(i)] = b.Param(names[i])
		}
	}

	return func() { delete(a.building, obj) }
}

func (a *Analyzer) convertStruct(named *types.Named, st *types.Struct) (*typeinfo.Type, error) {
	b := a.u.Struct(typeID(named.Obj()))
	done := a.begin(named, b)
	defer done()

	baseIndex := -1
	for i := range st.NumFields() {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		base, err := a.embeddedBase(named, f.Type())
		if err != nil {
			return nil, err
		}
		if base != nil {
			b.Extends(base)
			baseIndex = i
			break
		}
	}

	tags := make(map[string]string)
	for i := range st.NumFields() {
		f := st.Field(i)
		if i == baseIndex || !f.Exported() {
			continue
		}
		ft, err := a.convert(f.Type())
		if errors.Is(err, typeinfo.ErrUnsupportedType) {
			a.skipMember(named, f.Name(), err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", named.Obj().Name(), f.Name(), err)
		}
		b.Field(f.Name(), ft)
		if tag := st.Tag(i); tag != "" {
			tags[f.Name()] = tag
		}
	}

	a.addProperties(b, named)
	if named.TypeParams().Len() == 0 {
		b.Implements(a.implemented(named)...)
		a.addConstructors(b, named)
	}

	t, err := b.Define()
	if err != nil {
		return nil, err
	}

	for _, m := range t.Fields() {
		if tag, ok := tags[m.Name()]; ok {
			a.tags[m] = reflect.StructTag(tag)
		}
	}

	return t, nil
}

// embeddedBase returns the descriptor of an embedded field when it can serve
// as the base of self: a struct (or pointer to one) other than a well-known
// value and not part of the declaration cycle being built.
func (a *Analyzer) embeddedBase(self *types.Named, ft types.Type) (*typeinfo.Type, error) {
	ft = types.Unalias(ft)
	if p, ok := ft.(*types.Pointer); ok {
		ft = types.Unalias(p.Elem())
	}

	en, ok := ft.(*types.Named)
	if !ok {
		return nil, nil
	}
	if _, ok := en.Underlying().(*types.Struct); !ok {
		return nil, nil
	}

	obj := en.Origin().Obj()
	if _, ok := wellKnownKind(obj); ok || obj == self.Obj() || a.building[obj] {
		return nil, nil
	}

	return a.convertNamed(en)
}

func (a *Analyzer) convertInterface(named *types.Named, it *types.Interface) (*typeinfo.Type, error) {
	id := typeID(named.Obj())
	if !it.IsMethodSet() {
		return nil, fmt.Errorf("%s is a constraint: %w", id, typeinfo.ErrUnsupportedType)
	}

	b := a.u.Interface(id)
	done := a.begin(named, b)
	defer done()

	for i := range it.NumEmbeddeds() {
		en, ok := types.Unalias(it.EmbeddedType(i)).(*types.Named)
		if !ok {
			continue
		}
		t, err := a.convertNamed(en)
		if err != nil {
			return nil, err
		}
		if t.Kind() == typeinfo.KindInterface {
			b.Implements(t)
		}
	}

	for i := range it.NumExplicitMethods() {
		a.addProperty(b, named, it.ExplicitMethod(i))
	}

	return b.Define()
}

func (a *Analyzer) convertBasic(named *types.Named, basic *types.Basic) (*typeinfo.Type, error) {
	id := typeID(named.Obj())
	k, ok := basicKinds[basic.Kind()]
	if !ok || named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%s (%s): %w", id, basic, typeinfo.ErrUnsupportedType)
	}

	if values := enumConstants(named); k.IsInteger() && len(values) > 0 {
		b := a.u.Enum(id, a.u.Builtin(k))
		for _, v := range values {
			b.Value(v.Name, v.Value)
		}
		return b.Define()
	}

	return a.u.Struct(id).Primitive(k).Define()
}

// enumConstants returns the typed integer constants of named declared in its
// package, in source order.
func enumConstants(named *types.Named) []typeinfo.EnumValue {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	var consts []*types.Const
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(x, y *types.Const) int { return cmp.Compare(x.Pos(), y.Pos()) })

	values := make([]typeinfo.EnumValue, 0, len(consts))
	for _, c := range consts {
		v, exact := constant.Int64Val(constant.ToInt(c.Val()))
		if !exact {
			continue
		}
		values = append(values, typeinfo.EnumValue{Name: c.Name(), Value: v})
	}

	return values
}

// convertComposite converts a defined slice, array, map, channel or function
// type. Arrays are value types, the others reference types.
func (a *Analyzer) convertComposite(named *types.Named, ut types.Type) (*typeinfo.Type, error) {
	id := typeID(named.Obj())

	var b *typeinfo.TypeBuilder
	if _, ok := ut.(*types.Array); ok {
		b = a.u.Struct(id)
	} else {
		b = a.u.Class(id)
	}
	done := a.begin(named, b)
	defer done()

	var (
		shape *typeinfo.Type
		elem  types.Type
	)
	switch ut := ut.(type) {
	case *types.Slice:
		shape, elem = a.u.Sequence(), ut.Elem()
	case *types.Array:
		shape, elem = a.u.Sequence(), ut.Elem()
	case *types.Chan:
		if ut.Dir() != types.SendOnly {
			shape, elem = a.u.AsyncSequence(), ut.Elem()
		}
	case *types.Signature:
		if e, ok := iteratorElem(ut); ok {
			shape, elem = a.u.Sequence(), e
		}
	}

	if shape != nil {
		et, err := a.convert(elem)
		switch {
		case errors.Is(err, typeinfo.ErrUnsupportedType):
			a.skipMember(named, "element", err)
		case err != nil:
			return nil, err
		default:
			seq, err := a.u.Instantiate(shape, et)
			if err != nil {
				return nil, err
			}
			b.Implements(seq)
		}
	}

	return b.Define()
}

// addProperties declares the getters of named: exported methods without
// parameters returning exactly one value.
func (a *Analyzer) addProperties(b *typeinfo.TypeBuilder, named *types.Named) {
	tparams := named.TypeParams()
	for i := range named.NumMethods() {
		m := named.Method(i)
		sig, ok := m.Type().(*types.Signature)
		if !ok {
			continue
		}
		// Methods of generic types carry their own receiver type parameters.
		if rtp := sig.RecvTypeParams(); rtp.Len() == tparams.Len() {
			for j := range rtp.Len() {
				a.params[rtp.At(j)] = a.params[tparams.At(j)]
			}
		}
		a.addProperty(b, named, m)
	}
}

func (a *Analyzer) addProperty(b *typeinfo.TypeBuilder, named *types.Named, m *types.Func) {
	sig, ok := m.Type().(*types.Signature)
	if !ok || !m.Exported() || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return
	}

	rt, err := a.convert(sig.Results().At(0).Type())
	if err != nil {
		a.skipMember(named, m.Name(), err)
		return
	}

	b.Property(m.Name(), rt)
}

// addConstructors declares the package functions named New* that return
// named or a pointer to it, optionally with an error.
func (a *Analyzer) addConstructors(b *typeinfo.TypeBuilder, named *types.Named) {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return
	}

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() || !strings.HasPrefix(name, "New") {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.TypeParams().Len() > 0 || !constructs(sig, named) {
			continue
		}

		if params, err := a.convertParams(sig.Params()); err != nil {
			a.skipMember(named, name, err)
		} else {
			b.Constructor(params...)
		}
	}
}

func (a *Analyzer) convertParams(tuple *types.Tuple) ([]*typeinfo.Type, error) {
	params := make([]*typeinfo.Type, tuple.Len())
	for i := range tuple.Len() {
		pt, err := a.convert(tuple.At(i).Type())
		if err != nil {
			return nil, err
		}
		params[i] = pt
	}

	return params, nil
}

func constructs(sig *types.Signature, named *types.Named) bool {
	res := sig.Results()
	switch {
	case res.Len() == 0 || res.Len() > 2:
		return false
	case res.Len() == 2 && !types.Identical(res.At(1).Type(), errorType):
		return false
	}

	r := types.Unalias(res.At(0).Type())
	if p, ok := r.(*types.Pointer); ok {
		r = p.Elem()
	}

	return types.Identical(r, named)
}

var errorType = types.Universe.Lookup("error").Type()

// implemented lists the interfaces collected from the loaded packages that
// named, or a pointer to it, satisfies.
func (a *Analyzer) implemented(named *types.Named) []*typeinfo.Type {
	ptr := types.NewPointer(named)

	var out []*typeinfo.Type
	for _, cand := range a.candidates {
		iface, ok := cand.Underlying().(*types.Interface)
		if !ok || (!types.Implements(named, iface) && !types.Implements(ptr, iface)) {
			continue
		}
		t, err := a.convertNamed(cand)
		if err != nil {
			a.log.Debug("interface not converted", zap.Stringer("interface", cand), zap.Error(err))
			continue
		}
		out = append(out, t)
	}

	return out
}

// collectInterfaces gathers the interfaces structs are checked against: the
// exported non-generic interfaces declared in pkgs and the closed
// instantiations of generic interfaces they use.
func (a *Analyzer) collectInterfaces(pkgs []*packages.Package) {
	add := func(n *types.Named) {
		iface, ok := n.Underlying().(*types.Interface)
		if !ok || !iface.IsMethodSet() || iface.NumMethods() == 0 {
			return
		}
		if (n.TypeParams().Len() > 0 && n.TypeArgs().Len() == 0) || mentionsTypeParam(n) {
			return
		}
		for _, c := range a.candidates {
			if types.Identical(c, n) {
				return
			}
		}
		a.candidates = append(a.candidates, n)
	}

	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			if n, ok := tn.Type().(*types.Named); ok {
				add(n)
			}
		}
		if pkg.TypesInfo == nil {
			continue
		}
		for _, inst := range pkg.TypesInfo.Instances {
			if n, ok := inst.Type.(*types.Named); ok {
				add(n)
			}
		}
	}

	slices.SortFunc(a.candidates, func(x, y *types.Named) int {
		return strings.Compare(x.String(), y.String())
	})
}

// mentionsTypeParam reports whether t refers to a type parameter.
func mentionsTypeParam(t types.Type) bool {
	switch t := types.Unalias(t).(type) {
	case *types.TypeParam:
		return true
	case *types.Named:
		targs := t.TypeArgs()
		for i := range targs.Len() {
			if mentionsTypeParam(targs.At(i)) {
				return true
			}
		}
	case *types.Pointer:
		return mentionsTypeParam(t.Elem())
	case *types.Slice:
		return mentionsTypeParam(t.Elem())
	case *types.Array:
		return mentionsTypeParam(t.Elem())
	case *types.Chan:
		return mentionsTypeParam(t.Elem())
	case *types.Map:
		return mentionsTypeParam(t.Key()) || mentionsTypeParam(t.Elem())
	}

	return false
}

func (a *Analyzer) skipMember(named *types.Named, member string, err error) {
	subject := typeID(named.Obj()).String()
	a.diags.AddWarning(CodeUnsupportedMember, err.Error(), subject, member)
	a.log.Debug("skipped member",
		zap.String("type", subject),
		zap.String("member", member),
		zap.Error(err))
}

// invalidIn reports whether t refers, directly or through the declarations
// it depends on, to a type that did not type-check.
func invalidIn(t types.Type, seen map[types.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	switch t := t.(type) {
	case *types.Basic:
		return t.Kind() == types.Invalid
	case *types.Alias:
		return invalidIn(types.Unalias(t), seen)
	case *types.Named:
		targs := t.TypeArgs()
		for i := range targs.Len() {
			if invalidIn(targs.At(i), seen) {
				return true
			}
		}
		return invalidIn(t.Origin().Underlying(), seen)
	case *types.Pointer:
		return invalidIn(t.Elem(), seen)
	case *types.Slice:
		return invalidIn(t.Elem(), seen)
	case *types.Array:
		return invalidIn(t.Elem(), seen)
	case *types.Chan:
		return invalidIn(t.Elem(), seen)
	case *types.Map:
		return invalidIn(t.Key(), seen) || invalidIn(t.Elem(), seen)
	case *types.Struct:
		for i := range t.NumFields() {
			if invalidIn(t.Field(i).Type(), seen) {
				return true
			}
		}
	case *types.Tuple:
		for i := range t.Len() {
			if invalidIn(t.At(i).Type(), seen) {
				return true
			}
		}
	case *types.Signature:
		return invalidIn(t.Params(), seen) || invalidIn(t.Results(), seen)
	case *types.Interface:
		for i := range t.NumExplicitMethods() {
			if invalidIn(t.ExplicitMethod(i).Type(), seen) {
				return true
			}
		}
		for i := range t.NumEmbeddeds() {
			if invalidIn(t.EmbeddedType(i), seen) {
				return true
			}
		}
	}

	return false
}
