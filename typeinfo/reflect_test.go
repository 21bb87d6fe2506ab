package typeinfo

import (
	"iter"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typemeta/primitive"
)

type rfAuditable interface {
	AuditTrail() []string
}

type rfEntity struct {
	ID      int64
	created time.Time
}

func (rfEntity) AuditTrail() []string { return nil }

type rfStatus int32

type rfLabel string

type rfLine struct {
	SKU string
	Qty int
}

type rfOrder struct {
	ID     uuid.UUID
	Placed time.Time
	Total  *float64
	Lines  [3]rfLine
}

type rfCustomer struct {
	rfEntity
	Name    string
	Email   *string
	Tags    []string
	Orders  []*rfOrder
	Manager *rfCustomer
	Updates <-chan rfStatus
	Stream  iter.Seq[int]
}

type rfStamped struct {
	time.Time
	Note string
}

type rfBroken struct {
	Ratio complex64
}

func reflectOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TestReflect_Builtins(t *testing.T) {
	u := NewUniverse()

	tests := []struct {
		rt   reflect.Type
		want *Type
	}{
		{reflectOf[int](), u.Builtin(primitive.KindInt)},
		{reflectOf[rune](), u.Builtin(primitive.KindInt32)},
		{reflectOf[string](), u.Builtin(primitive.KindString)},
		{reflectOf[time.Time](), u.Builtin(primitive.KindDateTime)},
		{reflectOf[time.Duration](), u.Builtin(primitive.KindDuration)},
		{reflectOf[uuid.UUID](), u.Builtin(primitive.KindGUID)},
		{reflectOf[any](), u.Object()},
		{reflectOf[[]byte](), u.Bytes()},
		{reflectOf[*int](), MakeOptional(u.Builtin(primitive.KindInt), true)},
		{reflectOf[**int](), MakeOptional(u.Builtin(primitive.KindInt), true)},
	}

	for _, tt := range tests {
		t.Run(tt.rt.String(), func(t *testing.T) {
			got, err := u.Reflect(tt.rt)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestReflect_Struct(t *testing.T) {
	u := NewUniverse()

	auditable := u.MustReflect(reflectOf[rfAuditable]())
	assert.Equal(t, KindInterface, auditable.Kind())

	customer, err := u.Reflect(reflectOf[rfCustomer]())
	require.NoError(t, err)

	assert.True(t, customer.IsValueKind())
	assert.Equal(t, "typemeta/typeinfo.rfCustomer", customer.String())

	entity := customer.Base()
	require.NotNil(t, entity)
	assert.Equal(t, "rfEntity", entity.ID().Name)
	assert.Equal(t, []string{"rfEntity.ID"}, names(entity.Members()), "unexported fields are skipped")
	assert.Contains(t, customer.Interfaces(), auditable)
	assert.Contains(t, entity.Interfaces(), auditable)

	assert.Equal(t, []string{
		"rfCustomer.Name",
		"rfCustomer.Email",
		"rfCustomer.Tags",
		"rfCustomer.Orders",
		"rfCustomer.Manager",
		"rfCustomer.Updates",
		"rfCustomer.Stream",
		"rfEntity.ID",
	}, names(slices.Collect(AllInstanceMembers(customer))))

	member := func(name string) *Type {
		m := slices.Collect(MembersByName(customer, name))
		require.Len(t, m, 1, name)
		return m[0].Type()
	}

	assert.Same(t, MakeOptional(u.Builtin(primitive.KindString), true), member("Email"))
	assert.Same(t, MakeOptional(customer, true), member("Manager"), "self reference")

	elem, ok := TryGetSequenceElementType(member("Tags"))
	require.True(t, ok)
	assert.Same(t, u.Builtin(primitive.KindString), elem)
	assert.Equal(t, KindReference, member("Tags").Kind())

	elem, ok = TryGetSequenceElementType(member("Orders"))
	require.True(t, ok)
	assert.True(t, IsOptional(elem))
	order := UnwrapOptional(elem)
	assert.Equal(t, "rfOrder", order.ID().Name)

	elem, ok = TryGetSequenceElementType(member("Updates"))
	require.True(t, ok)
	require.True(t, elem.IsEnum())
	assert.Same(t, u.Builtin(primitive.KindInt32), elem.EnumUnderlying())
	_, ok = TryGetElementType(member("Updates"), u.Sequence())
	assert.False(t, ok, "channels are asynchronous sequences")

	elem, ok = TryGetSequenceElementType(member("Stream"))
	require.True(t, ok)
	assert.Same(t, u.Builtin(primitive.KindInt), elem)
}

func TestReflect_NestedValueTypes(t *testing.T) {
	u := NewUniverse()

	order := u.MustReflect(reflectOf[rfOrder]())
	fields := order.Fields()
	require.Len(t, fields, 4)

	assert.Same(t, u.Builtin(primitive.KindGUID), fields[0].Type())
	assert.Same(t, u.Builtin(primitive.KindDateTime), fields[1].Type())
	assert.Same(t, MakeOptional(u.Builtin(primitive.KindFloat64), true), fields[2].Type())

	lines := fields[3].Type()
	assert.True(t, lines.IsValueKind(), "arrays are value types")
	elem, ok := TryGetSequenceElementType(lines)
	require.True(t, ok)
	assert.Equal(t, "rfLine", elem.ID().Name)
	assert.Equal(t, [3]rfLine{}, DefaultValueOf(lines))
	assert.Equal(t, rfOrder{}, DefaultValueOf(order))
}

func TestReflect_DefinedBasics(t *testing.T) {
	u := NewUniverse()

	status := u.MustReflect(reflectOf[rfStatus]())
	assert.True(t, status.IsEnum())
	assert.Same(t, u.Builtin(primitive.KindInt32), UnwrapEnum(status))
	assert.Equal(t, rfStatus(0), DefaultValueOf(status))

	label := u.MustReflect(reflectOf[rfLabel]())
	assert.False(t, label.IsEnum())
	assert.True(t, label.IsValueKind())
	assert.Equal(t, rfLabel(""), DefaultValueOf(label))
}

func TestReflect_EmbeddedBuiltinIsNotBase(t *testing.T) {
	u := NewUniverse()

	stamped := u.MustReflect(reflectOf[rfStamped]())
	assert.Nil(t, stamped.Base())
	assert.Equal(t, []string{"rfStamped.Time", "rfStamped.Note"}, names(stamped.Fields()))
	assert.Same(t, u.Builtin(primitive.KindDateTime), stamped.Fields()[0].Type())
}

func TestReflect_Composites(t *testing.T) {
	u := NewUniverse()

	m := u.MustReflect(reflectOf[map[string]int]())
	assert.Equal(t, KindReference, m.Kind())
	assert.Same(t, u.Object(), m.Base())
	_, ok := TryGetSequenceElementType(m)
	assert.False(t, ok)

	send := u.MustReflect(reflectOf[chan<- int]())
	_, ok = TryGetSequenceElementType(send)
	assert.False(t, ok, "send-only channels cannot be read")

	fn := u.MustReflect(reflectOf[func(int) bool]())
	_, ok = TryGetSequenceElementType(fn)
	assert.False(t, ok)
}

func TestReflect_Idempotent(t *testing.T) {
	u := NewUniverse()

	a := u.MustReflect(reflectOf[rfCustomer]())
	b := u.MustReflect(reflectOf[rfCustomer]())
	assert.Same(t, a, b)

	byID, ok := u.Lookup(a.ID())
	require.True(t, ok)
	assert.Same(t, a, byID)

	s1 := u.MustReflect(reflectOf[[]string]())
	s2 := u.MustReflect(reflectOf[[]string]())
	assert.Same(t, s1, s2)
}

func TestReflect_Unsupported(t *testing.T) {
	u := NewUniverse()

	_, err := u.Reflect(nil)
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = u.Reflect(reflectOf[complex128]())
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = u.Reflect(reflectOf[rfBroken]())
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.ErrorContains(t, err, "Ratio")

	_, ok := u.Lookup(reflectID(reflectOf[rfBroken]()))
	assert.False(t, ok, "failed reflections are not registered")

	_, err = u.Reflect(reflectOf[rfBroken]())
	require.ErrorIs(t, err, ErrUnsupportedType, "a failed reflection is retried, not cached")

	assert.Panics(t, func() { u.MustReflect(reflectOf[complex64]()) })
}
