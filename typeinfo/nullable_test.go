package typeinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typemeta/primitive"
)

func TestMakeOptional_RoundTrip(t *testing.T) {
	u := NewUniverse()

	for k := primitive.KindEnum(1); int(k) < primitive.KindTotal; k++ {
		b := u.Builtin(k)

		opt := MakeOptional(b, true)
		require.True(t, IsOptional(opt), k.String())
		assert.False(t, IsOptional(b), k.String())
		assert.Same(t, u.Optional(), opt.GenericDefinition())
		assert.Same(t, opt, MakeOptional(opt, true), "wrapping is idempotent")
		assert.Same(t, opt, MakeOptional(b, true), "instantiations are interned")

		assert.Same(t, b, MakeOptional(opt, false))
		assert.Same(t, b, UnwrapOptional(opt))
		assert.Same(t, b, UnwrapOptional(UnwrapOptional(opt)))
		assert.Same(t, b, MakeOptional(b, false))
	}
}

func TestMakeOptional_ReferenceKinds(t *testing.T) {
	s := newShop(t)

	for _, typ := range []*Type{s.product, s.u.Object(), s.u.MustInstantiate(s.u.Sequence(), s.int32T)} {
		assert.True(t, IsOptional(typ), typ.String())
		assert.Same(t, typ, MakeOptional(typ, true), typ.String())
		assert.Same(t, typ, MakeOptional(typ, false), "absence cannot be removed from %s", typ)
		assert.Same(t, typ, UnwrapOptional(typ), typ.String())
	}
}

func TestIsOptional_TypeParameter(t *testing.T) {
	s := newShop(t)

	param := s.repository.TypeParams()[0]
	assert.False(t, IsOptional(param))

	opt := MakeOptional(param, true)
	assert.True(t, IsOptional(opt))
	assert.Same(t, param, UnwrapOptional(opt))
}

func TestOptional_SubstitutionCollapses(t *testing.T) {
	u := NewUniverse()
	i32 := u.Builtin(primitive.KindInt32)

	box := u.Struct(shopID("Box")).Generic("T")
	box.Field("Value", MakeOptional(box.Param("T"), true))
	def := box.MustDefine()

	plain := u.MustInstantiate(def, i32)
	assert.Same(t, MakeOptional(i32, true), plain.Fields()[0].Type())

	wrapped := u.MustInstantiate(def, MakeOptional(i32, true))
	assert.Same(t, MakeOptional(i32, true), wrapped.Fields()[0].Type())

	ref := u.MustInstantiate(def, u.Object())
	assert.Same(t, u.Object(), ref.Fields()[0].Type())
}

func TestMakeOptional_GenericDefinition(t *testing.T) {
	u := NewUniverse()
	i32 := u.Builtin(primitive.KindInt32)

	box := u.Struct(shopID("Box")).Generic("T")
	box.Field("Value", box.Param("T"))
	def := box.MustDefine()

	assert.NotPanics(t, func() {
		assert.Same(t, def, MakeOptional(def, true))
	})
	assert.False(t, IsOptional(def))

	closed := u.MustInstantiate(def, i32)
	opt := MakeOptional(closed, true)
	assert.True(t, IsOptional(opt))
	assert.Same(t, closed, UnwrapOptional(opt))
}

func TestIsInteger(t *testing.T) {
	s := newShop(t)
	u := s.u

	for k := primitive.KindEnum(1); int(k) < primitive.KindTotal; k++ {
		b := u.Builtin(k)
		want := k.IsInteger() || k == primitive.KindChar
		assert.Equal(t, want, IsInteger(b), k.String())
		assert.Equal(t, want, IsInteger(MakeOptional(b, true)), "Optional[%s]", k)
	}

	assert.False(t, IsInteger(s.status), "enumerations are not integers until unwrapped")
	assert.True(t, IsInteger(UnwrapEnum(s.status)))
	assert.False(t, IsInteger(s.product))
}

func TestIsInstantiable(t *testing.T) {
	s := newShop(t)
	u := s.u

	tests := []struct {
		typ  *Type
		want bool
	}{
		{s.product, true},
		{s.money, true},
		{s.status, true},
		{s.int32T, true},
		{s.productRepo, true},
		{u.MustInstantiate(s.repository, s.money), true},
		{s.entity, false},
		{s.repository, false},
		{u.Sequence(), false},
		{u.MustInstantiate(u.Sequence(), s.int32T), false},
		{s.repository.TypeParams()[0], false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsInstantiable(tt.typ), tt.typ.String())
	}
}

func TestIsValidEntityType(t *testing.T) {
	s := newShop(t)

	assert.True(t, IsValidEntityType(s.product))
	assert.True(t, IsValidEntityType(s.entity))
	assert.True(t, IsValidEntityType(s.u.Bytes()))
	assert.False(t, IsValidEntityType(s.money))
	assert.False(t, IsValidEntityType(s.int32T))
	assert.False(t, IsValidEntityType(s.u.Sequence()))
	assert.False(t, IsValidEntityType(MakeOptional(s.money, true)))
}

func TestUnwrapEnum(t *testing.T) {
	s := newShop(t)

	assert.Same(t, s.int32T, UnwrapEnum(s.status))
	assert.Same(t, MakeOptional(s.int32T, true), UnwrapEnum(MakeOptional(s.status, true)))

	for _, typ := range []*Type{s.int32T, s.money, s.product, MakeOptional(s.money, true)} {
		assert.Same(t, typ, UnwrapEnum(typ), typ.String())
	}

	assert.True(t, s.status.IsEnum())
	assert.Same(t, s.int32T, s.status.EnumUnderlying())
	assert.False(t, s.money.IsEnum())
}
