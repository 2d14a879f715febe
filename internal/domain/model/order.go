package model

import "time"

// OrderStatus is the coarse order state.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OnlineStatus is the fine-grained lifecycle of an online sale.
type OnlineStatus string

const (
	OnlineStatusPendingPayment   OnlineStatus = "pending_payment"
	OnlineStatusPaymentConfirmed OnlineStatus = "payment_confirmed"
	OnlineStatusProcessing       OnlineStatus = "processing"
	OnlineStatusShipped          OnlineStatus = "shipped"
	OnlineStatusDelivered        OnlineStatus = "delivered"
	OnlineStatusCompleted        OnlineStatus = "completed"
	OnlineStatusReturnRequested  OnlineStatus = "return_requested"
	OnlineStatusCancelled        OnlineStatus = "cancelled"
)

// SaleChannel tags where the order originated.
type SaleChannel string

const (
	ChannelOnline   SaleChannel = "online"
	ChannelInPerson SaleChannel = "in_person"
)

// FulfillmentStatus tracks one independent progress flag of an order line.
type FulfillmentStatus string

const (
	FulfillmentPending     FulfillmentStatus = "pending"
	FulfillmentCompleted   FulfillmentStatus = "completed"
	FulfillmentCancelled   FulfillmentStatus = "cancelled"
	FulfillmentNotRequired FulfillmentStatus = "not_required"
)

// Address is the shipping destination stored with an order.
type Address struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

// Order is the durable sale produced by one checkout. Never hard-deleted:
// cancellation is a terminal status.
type Order struct {
	ID                 int64
	TenantID           int64
	CustomerID         int64
	UserID             *int64
	Channel            SaleChannel
	Status             OrderStatus
	OnlineStatus       OnlineStatus
	Subtotal           float64
	DiscountAmount     float64
	DiscountPercent    float64
	ShippingCost       float64
	Tax                float64
	Total              float64
	PartnerID          *int64
	InvoiceID          *int64
	ShippingAddress    *Address
	HasPendingProducts bool
	HasPendingServices bool
	TrackingCode       *string
	EstimatedDelivery  *time.Time
	PaidAt             *time.Time
	CancelReason       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderLine is one priced entry of an order. A bundle checkout materializes a
// parent line plus one child line per exploded leaf; ParentLineID links them.
type OrderLine struct {
	ID                  int64
	OrderID             int64
	ParentLineID        *int64
	ItemID              int64
	Kind                ItemKind
	Quantity            int
	UnitPrice           float64
	CostPrice           float64
	CommissionRate      float64
	CommissionAmount    float64
	SeparationStatus    FulfillmentStatus
	DeliveryStatus      FulfillmentStatus
	FulfillmentStatus   FulfillmentStatus
	IsCompositionParent bool
	Position            int
}

// HasPendingFulfillment reports whether any of the line's progress flags is open.
func (l *OrderLine) HasPendingFulfillment() bool {
	return l.SeparationStatus == FulfillmentPending ||
		l.DeliveryStatus == FulfillmentPending ||
		l.FulfillmentStatus == FulfillmentPending
}

// OrderFilter narrows tenant-wide order listings.
type OrderFilter struct {
	OnlineStatus *OnlineStatus
	PartnerID    *int64
}
