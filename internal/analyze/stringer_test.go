package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typemeta/primitive"
)

func TestTypePath(t *testing.T) {
	// Simple path
	p1 := NewTypePath("Order")
	assert.Equal(t, "Order", p1.String())

	// Field path
	p2 := p1.Field("Items")
	assert.Equal(t, "Order.Items", p2.String())

	// Slice path
	p3 := p2.Slice()
	assert.Equal(t, "Order.Items[]", p3.String())

	// Field in slice element
	p4 := p3.Field("ProductID")
	assert.Equal(t, "Order.Items[].ProductID", p4.String())
	assert.Equal(t, "Order.Items", p2.String(), "paths are immutable")
}

func TestTypeStringer_TypeString(t *testing.T) {
	analyzer, _ := load(t, storePkg, warehousePkg)
	u := analyzer.Universe()
	stringer := NewTypeStringer()

	order := mustLookup(t, analyzer, storePkg, "Order")
	shipment := mustLookup(t, analyzer, warehousePkg, "Shipment")
	history := mustLookup(t, analyzer, storePkg, "OrderHistory")
	page := mustLookup(t, analyzer, storePkg, "Page")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"struct", stringer.TypeString(order), "store.Order"},
		{"slice", stringer.TypeString(field(t, order, "Items").Type()), "[]store.OrderItem"},
		{"pointer", stringer.TypeString(field(t, order, "Discount").Type()), "*float64"},
		{"well known", stringer.TypeString(field(t, order, "Reference").Type()), "uuid.UUID"},
		{"map", stringer.TypeString(field(t, shipment, "Labels").Type()), "map[string]string"},
		{"pointer to time", stringer.TypeString(field(t, shipment, "ShippedAt").Type()), "*time.Time"},
		{"instantiation", stringer.TypeString(history.Base()), "store.Page[store.Order]"},
		{"definition", stringer.TypeString(page), "store.Page"},
		{"type parameter", stringer.TypeString(page.TypeParams()[0]), "T"},
		{"bytes", stringer.TypeString(u.Bytes()), "[]byte"},
		{"object", stringer.TypeString(u.Object()), "any"},
		{"builtin", stringer.TypeString(u.Builtin(primitive.KindInt32)), "int32"},
		{"nil", stringer.TypeString(nil), "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	next := field(t, page, "Next").Type()
	assert.Equal(t, "*store.Page[T]", stringer.TypeString(next))
	assert.Equal(t, "[]T", stringer.TypeString(field(t, page, "Items").Type()))
}

func TestTypeStringer_BuildFieldPaths(t *testing.T) {
	analyzer, _ := load(t, storePkg, warehousePkg)
	stringer := NewTypeStringer()

	order := mustLookup(t, analyzer, storePkg, "Order")
	paths := stringer.BuildFieldPaths(order, 3)

	require.Contains(t, paths, "Order.Items")
	require.Contains(t, paths, "Order.Items[].ProductID")
	assert.Same(t, field(t, mustLookup(t, analyzer, storePkg, "OrderItem"), "ProductID"), paths["Order.Items[].ProductID"])
	assert.Contains(t, paths, "Order.Lines[].Quantity")
	assert.NotContains(t, paths, "Order.Ratio")

	// Inherited members and optional values are walked through.
	parcel := mustLookup(t, analyzer, warehousePkg, "Parcel")
	paths = stringer.BuildFieldPaths(parcel, 3)
	assert.Contains(t, paths, "Parcel.Items[].Version")
	assert.Contains(t, paths, "Parcel.Items[].Bin.Aisle")
	assert.NotContains(t, paths, "Parcel.Items[].Bin.Aisle.Length")

	// Depth is bounded.
	paths = stringer.BuildFieldPaths(parcel, 0)
	assert.Contains(t, paths, "Parcel.Items")
	assert.NotContains(t, paths, "Parcel.Items[].Quantity")

	assert.Empty(t, stringer.BuildFieldPaths(nil, 3))
}
