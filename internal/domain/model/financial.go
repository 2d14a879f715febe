package model

import "time"

// FinancialStatus is shared by invoices and receivables. The pair always
// transitions together, never independently.
type FinancialStatus string

const (
	FinancialPending   FinancialStatus = "pending"
	FinancialPaid      FinancialStatus = "paid"
	FinancialCancelled FinancialStatus = "cancelled"
)

// Invoice is the fiscal record created alongside an order.
type Invoice struct {
	ID         int64
	TenantID   int64
	OrderID    int64
	CustomerID int64
	Total      float64
	Status     FinancialStatus
	CreatedAt  time.Time
}

// InvoiceLine mirrors one leaf order line on the invoice.
type InvoiceLine struct {
	ID        int64
	InvoiceID int64
	ItemID    int64
	Quantity  int
	UnitPrice float64
}

// Receivable carries the amount owed for an invoice. Amount equals the order
// total at creation.
type Receivable struct {
	ID             int64
	TenantID       int64
	InvoiceID      int64
	CustomerID     int64
	Amount         float64
	AmountReceived float64
	DueDate        time.Time
	PaymentMethod  string
	Status         FinancialStatus
	CreatedAt      time.Time
}

// Payment records a confirmed settlement against an order.
type Payment struct {
	ID      int64
	OrderID int64
	Amount  float64
	Method  string
	PaidAt  time.Time
}

// CommissionEntry is created when a fulfillment partner earns a nonzero
// commission on an order.
type CommissionEntry struct {
	ID        int64
	TenantID  int64
	OrderID   int64
	PartnerID int64
	Amount    float64
	Status    FinancialStatus
	CreatedAt time.Time
}
