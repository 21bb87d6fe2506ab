package warehouse

import (
	"time"

	"github.com/google/uuid"

	"typemeta/store"
)

// StockedProduct is a store product with its stock level.
type StockedProduct struct {
	store.Product
	Quantity int  `json:"quantity"`
	Bin      *Bin `json:"bin,omitempty"`
}

// Bin is a storage location.
type Bin struct {
	Aisle string `json:"aisle"`
	Shelf int    `json:"shelf"`
}

// Carrier delivers parcels.
type Carrier uint8

const (
	CarrierNone Carrier = iota
	CarrierPost
	CarrierCourier
)

// Parcel is a package handed to a carrier.
type Parcel struct {
	WeightGrams int              `json:"weight_grams"`
	Carrier     Carrier          `json:"carrier"`
	Items       []StockedProduct `json:"items"`
}

// Shipment represents the delivery of an order.
type Shipment struct {
	ID        uuid.UUID         `json:"id"`
	Order     store.Order       `json:"order"`
	Parcels   []Parcel          `json:"parcels"`
	Labels    map[string]string `json:"labels,omitempty"`
	ShippedAt *time.Time        `json:"shipped_at,omitempty"`
}

// Coordinates locate a bin on the floor plan.
type Coordinates [2]float64

// Updates streams shipment changes.
type Updates <-chan Shipment

// Outbox accepts parcels ready to leave.
type Outbox chan<- Parcel

// Phasor is not representable.
type Phasor complex128
