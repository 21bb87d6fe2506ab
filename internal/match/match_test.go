package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OrderItem", "orderitem"},
		{"order_item", "orderitem"},
		{"Order-Item", "orderitem"},
		{"order item", "orderitem"},
		{"", ""},
		{"ÜberID", "überid"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		// Identical strings
		{"", "", 0},
		{"hello", "hello", 0},

		// Empty vs non-empty
		{"", "abc", 3},
		{"abc", "", 3},

		// Single operations
		{"a", "b", 1},
		{"a", "ab", 1},
		{"abc", "ab", 1},

		// Multiple operations
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},

		// Case-sensitive
		{"Hello", "hello", 1},

		// Counted in runes
		{"über", "uber", 1},

		{"pricecents", "totalcents", 5},
		{"createdat", "updatedat", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("OrderItem", "order_item"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.8, Similarity("Ordr", "Order"), 1e-9)
	assert.InDelta(t, 0.6, Similarity("Order", "Ordre"), 1e-9)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"Order", "OrderItem", "Customer", "Product", "Orders"}

	assert.Equal(t, []string{"Order", "Orders"}, Suggest("Ordr", candidates, 0.6, 3))
	assert.Equal(t, []string{"Order"}, Suggest("Ordr", candidates, 0.6, 1))
	assert.Equal(t, []string{"Customer"}, Suggest("customer", candidates, 0.6, 3))
	assert.Empty(t, Suggest("Shipment", candidates, 0.6, 3))

	ranked := Rank("Orders", candidates, 0.5)
	assert.Equal(t, Scored{Name: "Orders", Score: 1}, ranked[0])
}
