package typeinfo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"typemeta/primitive"
)

const shopPkg = "example.com/shop"

func shopID(name string) TypeID {
	return TypeID{PkgPath: shopPkg, Name: name}
}

// shop is a small hand-registered model shared by the tests:
//
//	Entity (abstract class)        ID int64, Version int32, static Table string
//	  Product : Entity             Name string, Price Money, Status Optional[Status]
//	    Special : Product          Name string (shadows), Discount float64
//	Money (struct)                 Amount int64, Currency string
//	Status (enum over int32)
//	Repository[T] (class def)      Items Sequence[T]
//	ProductRepo : Repository[Product]
//	Lines (class) implements Sequence[Product]
//	Feed (class) implements AsyncSequence[string]
//	Mixed (class) implements Sequence[int32], Sequence[string]
type shop struct {
	u *Universe

	int32T, int64T, stringT, float64T *Type

	entity, product, special *Type
	money, status            *Type
	repository, productRepo  *Type
	lines, feed, mixed       *Type
}

func newShop(t *testing.T) *shop {
	t.Helper()

	u := NewUniverse()
	s := &shop{
		u:        u,
		int32T:   u.Builtin(primitive.KindInt32),
		int64T:   u.Builtin(primitive.KindInt64),
		stringT:  u.Builtin(primitive.KindString),
		float64T: u.Builtin(primitive.KindFloat64),
	}

	var err error
	s.money, err = u.Struct(shopID("Money")).
		Field("Amount", s.int64T).
		Field("Currency", s.stringT).
		Define()
	require.NoError(t, err)

	s.status, err = u.Enum(shopID("Status"), s.int32T).Define()
	require.NoError(t, err)

	s.entity, err = u.Class(shopID("Entity")).
		Abstract().
		Field("ID", s.int64T).
		Property("Version", s.int32T).
		StaticProperty("Table", s.stringT).
		Define()
	require.NoError(t, err)

	s.product, err = u.Class(shopID("Product")).
		Extends(s.entity).
		Property("Name", s.stringT).
		Field("Price", s.money).
		Property("Status", MakeOptional(s.status, true)).
		Constructor().
		Constructor(s.stringT, s.money).
		StaticConstructor().
		Define()
	require.NoError(t, err)

	s.special, err = u.Class(shopID("Special")).
		Extends(s.product).
		Property("Name", s.stringT).
		Field("Discount", s.float64T).
		Define()
	require.NoError(t, err)

	repo := u.Class(shopID("Repository")).Generic("T")
	repo.Property("Items", u.MustInstantiate(u.Sequence(), repo.Param("T")))
	s.repository, err = repo.Define()
	require.NoError(t, err)

	s.productRepo, err = u.Class(shopID("ProductRepo")).
		Extends(u.MustInstantiate(s.repository, s.product)).
		Define()
	require.NoError(t, err)

	s.lines, err = u.Class(shopID("Lines")).
		Implements(u.MustInstantiate(u.Sequence(), s.product)).
		Define()
	require.NoError(t, err)

	s.feed, err = u.Class(shopID("Feed")).
		Implements(u.MustInstantiate(u.AsyncSequence(), s.stringT)).
		Define()
	require.NoError(t, err)

	s.mixed, err = u.Class(shopID("Mixed")).
		Implements(
			u.MustInstantiate(u.Sequence(), s.int32T),
			u.MustInstantiate(u.Sequence(), s.stringT),
		).
		Define()
	require.NoError(t, err)

	return s
}

func names(members []*Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.DeclaringType().ID().Name + "." + m.Name()
	}

	return out
}
