package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart holds items reserved by a user or an anonymous session before checkout.
// At most one non-expired cart exists per owner key per tenant.
type Cart struct {
	ID        uuid.UUID
	TenantID  int64
	UserID    *int64
	SessionID *uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is a single item reservation inside a cart. UnitPrice is a snapshot
// taken at add-time and never re-read from the catalog.
type CartLine struct {
	ID         int64
	CartID     uuid.UUID
	ItemID     int64
	PartnerID  *int64
	Quantity   int
	UnitPrice  float64
	ReservedAt time.Time
}

// EnrichedCartLine is the read-time view of a line with current catalog truth
// compared against the stored snapshot. Computed on read, never persisted.
type EnrichedCartLine struct {
	CartLine

	ItemName          string
	CurrentPrice      float64
	PriceChanged      bool
	StockInsufficient bool
	AvailableStock    int
}

// CartView aggregates the enriched lines of one cart.
type CartView struct {
	Cart        Cart
	Lines       []EnrichedCartLine
	Subtotal    float64
	ItemCount   int
	HasWarnings bool
}
