package store

import (
	"iter"
	"time"

	"github.com/google/uuid"
)

// 1. Entity carries the identity shared by stored records.
type Entity struct {
	ID      int64 `json:"id"`
	version int
}

// Version returns the optimistic locking counter.
func (e Entity) Version() int { return e.version }

// 2. Product represents an individual item available for sale.
// We use int64 for Price to represent cents (lowest currency unit) to avoid floating-point errors.
type Product struct {
	Entity
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewProduct creates a product priced in cents.
func NewProduct(sku, name string, priceCents int64) *Product {
	return &Product{SKU: sku, Name: name, PriceCents: priceCents, CreatedAt: time.Now()}
}

// 3. Special is a product sold under a promotional name.
type Special struct {
	Product
	Name     string `json:"promo_name"`
	Discount int    `json:"discount_percent"`
}

// Named is implemented by records with a display name.
type Named interface {
	DisplayName() string
}

// 4. CustomerTier ranks customers for discounts.
type CustomerTier int32

const (
	TierBasic CustomerTier = iota
	TierSilver
	TierGold
)

// 5. Customer represents the user placing orders.
type Customer struct {
	ID       int64        `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
	Address  *string      `json:"address"`
	Tier     CustomerTier `json:"tier"`
	IsActive bool         `json:"is_active"`
}

func (c *Customer) DisplayName() string { return c.FullName }

// 6. OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// 7. Order represents a transaction made by a customer.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Reference  uuid.UUID   `json:"reference"`
	Status     OrderStatus `json:"status"`
	Items      []OrderItem `json:"items"` // Has-Many relationship
	Discount   *float64    `json:"discount,omitempty"`
	Ratio      complex64   `json:"-"`
	OrderedAt  time.Time   `json:"ordered_at"`
}

// NewOrder creates a pending order.
func NewOrder(customerID int64, items ...OrderItem) (*Order, error) {
	return &Order{
		CustomerID: customerID,
		Reference:  uuid.New(),
		Status:     StatusPending,
		Items:      items,
		OrderedAt:  time.Now(),
	}, nil
}

// Lines iterates over the order items.
func (o *Order) Lines() iter.Seq[OrderItem] {
	return func(yield func(OrderItem) bool) {
		for _, it := range o.Items {
			if !yield(it) {
				return
			}
		}
	}
}

// 8. OrderItem represents a specific product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// 9. Page is one page of a listing.
type Page[T any] struct {
	Items []T      `json:"items"`
	Total int      `json:"total"`
	Next  *Page[T] `json:"next,omitempty"`
}

// Len returns the number of items on the page.
func (p Page[T]) Len() int { return len(p.Items) }

// OrderHistory is the order listing of a customer.
type OrderHistory struct {
	Page[Order]
	CustomerID int64 `json:"customer_id"`
}

// OrderPage is a page of orders.
type OrderPage = Page[Order]

// Catalog is the list of products on sale.
type Catalog []Product

// Lister is implemented by collections that expose their items.
type Lister[T any] interface {
	Items() []T
}

// Shelf groups the products shown together.
type Shelf struct {
	Label    string
	products []Product
}

var _ Lister[Product] = (*Shelf)(nil)

func (s *Shelf) Items() []Product { return s.products }
