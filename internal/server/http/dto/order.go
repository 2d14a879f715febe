package dto

import (
	"time"

	"github.com/vendrix/storefront/internal/domain/model"
)

// OrderResponse is the public order projection.
type OrderResponse struct {
	ID                 int64          `json:"id"`
	CustomerID         int64          `json:"customer_id"`
	Channel            string         `json:"channel"`
	Status             string         `json:"status"`
	OnlineStatus       string         `json:"online_status"`
	Subtotal           float64        `json:"subtotal"`
	DiscountAmount     float64        `json:"discount_amount"`
	ShippingCost       float64        `json:"shipping_cost"`
	Total              float64        `json:"total"`
	PartnerID          *int64         `json:"partner_id,omitempty"`
	InvoiceID          *int64         `json:"invoice_id,omitempty"`
	ShippingAddress    *model.Address `json:"shipping_address,omitempty"`
	HasPendingProducts bool           `json:"has_pending_products"`
	HasPendingServices bool           `json:"has_pending_services"`
	TrackingCode       *string        `json:"tracking_code,omitempty"`
	EstimatedDelivery  *time.Time     `json:"estimated_delivery,omitempty"`
	PaidAt             *time.Time     `json:"paid_at,omitempty"`
	CancelReason       *string        `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// OrderLineResponse is one order line.
type OrderLineResponse struct {
	ID                  int64   `json:"id"`
	ParentLineID        *int64  `json:"parent_line_id,omitempty"`
	ItemID              int64   `json:"item_id"`
	Kind                string  `json:"kind"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	SeparationStatus    string  `json:"separation_status"`
	DeliveryStatus      string  `json:"delivery_status"`
	FulfillmentStatus   string  `json:"fulfillment_status"`
	IsCompositionParent bool    `json:"is_composition_parent"`
	Position            int     `json:"position"`
}

// AdvanceOrderRequest moves an order along its lifecycle.
type AdvanceOrderRequest struct {
	Status            string     `json:"status" binding:"required"`
	TrackingCode      *string    `json:"tracking_code,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

// CancelOrderRequest carries the optional cancellation reason.
type CancelOrderRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// MergeCartRequest folds the anonymous session cart into the user's cart.
type MergeCartRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
