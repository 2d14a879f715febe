package dto

import "time"

// AddCartItemRequest is the payload for reserving an item.
type AddCartItemRequest struct {
	ItemID    int64  `json:"item_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	PartnerID *int64 `json:"partner_id,omitempty"`
}

// UpdateCartItemRequest changes the quantity of an existing line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartLineResponse is one enriched cart line.
type CartLineResponse struct {
	ID                int64     `json:"id"`
	ItemID            int64     `json:"item_id"`
	ItemName          string    `json:"item_name"`
	Quantity          int       `json:"quantity"`
	UnitPrice         float64   `json:"unit_price"`
	CurrentPrice      float64   `json:"current_price"`
	PriceChanged      bool      `json:"price_changed"`
	StockInsufficient bool      `json:"stock_insufficient"`
	AvailableStock    int       `json:"available_stock"`
	ReservedAt        time.Time `json:"reserved_at"`
}

// CartResponse is the enriched cart projection.
type CartResponse struct {
	ID          string             `json:"id"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Lines       []CartLineResponse `json:"lines"`
	Subtotal    float64            `json:"subtotal"`
	ItemCount   int                `json:"item_count"`
	HasWarnings bool               `json:"has_warnings"`
}
