package dto

import "github.com/vendrix/storefront/internal/domain/model"

// CheckoutCustomer identifies or describes the buying customer.
type CheckoutCustomer struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	TaxID string `json:"tax_id,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CheckoutSchedule is the requested visit window for service lines.
type CheckoutSchedule struct {
	Date   string `json:"date" binding:"required"`
	Window string `json:"window,omitempty"`
}

// CheckoutRequest is the full checkout payload.
type CheckoutRequest struct {
	Customer        CheckoutCustomer  `json:"customer"`
	DiscountAmount  float64           `json:"discount_amount"`
	ShippingCost    float64           `json:"shipping_cost"`
	ShippingAddress *model.Address    `json:"shipping_address,omitempty"`
	PaymentMethod   string            `json:"payment_method"`
	PartnerID       *int64            `json:"partner_id,omitempty"`
	Schedule        *CheckoutSchedule `json:"schedule,omitempty"`
}

// PaymentInstrumentResponse is the payable artifact returned to the buyer.
type PaymentInstrumentResponse struct {
	HumanCode     string `json:"human_code,omitempty"`
	ScannableCode string `json:"scannable_code,omitempty"`
	RawKey        string `json:"raw_key,omitempty"`
}

// CheckoutResponse reports the created order graph.
type CheckoutResponse struct {
	Order             OrderResponse              `json:"order"`
	InvoiceID         int64                      `json:"invoice_id"`
	ReceivableID      int64                      `json:"receivable_id"`
	CommissionID      *int64                     `json:"commission_id,omitempty"`
	PaymentInstrument *PaymentInstrumentResponse `json:"payment_instrument,omitempty"`
}
