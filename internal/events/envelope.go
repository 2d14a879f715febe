package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderPaid          = "OrderPaid"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderCancelled     = "OrderCancelled"
)

const producerName = "storefront"

// Envelope is the common wrapper for every published event.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID    int64   `json:"order_id"`
	TenantID   int64   `json:"tenant_id"`
	CustomerID int64   `json:"customer_id"`
	Total      float64 `json:"total"`
	Channel    string  `json:"channel"`
}

type OrderPaidPayload struct {
	OrderID int64     `json:"order_id"`
	Total   float64   `json:"total"`
	PaidAt  time.Time `json:"paid_at"`
}

type OrderStatusChangedPayload struct {
	OrderID int64  `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type OrderCancelledPayload struct {
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason,omitempty"`
}
