package model

// Customer is a directory record referenced by orders and financial entries.
type Customer struct {
	ID       int64
	TenantID int64
	Name     string
	Email    string
	TaxID    string
	Phone    string
}

// MerchantSettings is the tenant commerce configuration loaded once per
// checkout and passed through the pipeline.
type MerchantSettings struct {
	TenantID               int64
	PaymentKey             string
	MinimumOrderValue      float64
	FreeShippingThreshold  float64
	DefaultPartnerID       *int64
	CommissionOverrideRate float64
	ReceivableDueDays      int
}
