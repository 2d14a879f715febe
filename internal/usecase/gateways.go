package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vendrix/storefront/internal/domain/model"
)

// CatalogGateway is the read-only product catalog and pricing collaborator.
type CatalogGateway interface {
	Item(ctx context.Context, tenantID, itemID int64) (*model.CatalogItem, error)
	Items(ctx context.Context, tenantID int64, itemIDs []int64) (map[int64]*model.CatalogItem, error)
	BundleComponents(ctx context.Context, tenantID, bundleID int64) ([]model.BundleComponent, error)
}

// CustomerDirectory resolves and creates customer records.
type CustomerDirectory interface {
	GetByID(ctx context.Context, tenantID, customerID int64) (*model.Customer, error)
	FindByTaxID(ctx context.Context, tenantID int64, taxID string) (*model.Customer, error)
	FindByEmail(ctx context.Context, tenantID int64, email string) (*model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
}

// PaymentInstrument is the opaque payload returned by the payment collaborator.
type PaymentInstrument struct {
	HumanCode     string `json:"human_code,omitempty"`
	ScannableCode string `json:"scannable_code,omitempty"`
	RawKey        string `json:"raw_key,omitempty"`
}

// PaymentGenerator produces a payment instrument for an order total. Failures
// never abort checkout; the instrument can be regenerated later.
type PaymentGenerator interface {
	Generate(ctx context.Context, settings *model.MerchantSettings, amount float64, orderID int64, customer *model.Customer, address *model.Address) (*PaymentInstrument, error)
}

// ScheduleSlot is the requested visit window for a service line.
type ScheduleSlot struct {
	Date   time.Time
	Window string
}

// SchedulingGateway books service visits for order lines that require them.
type SchedulingGateway interface {
	Schedule(ctx context.Context, tenantID int64, partnerID *int64, customerID, itemID, orderID int64, slot ScheduleSlot) (string, error)
}

// CheckoutLocker serializes checkouts per cart: at most one in-flight
// checkout may hold the lock for a given cart at a time.
type CheckoutLocker interface {
	Acquire(ctx context.Context, cartID uuid.UUID) (bool, error)
	Release(ctx context.Context, cartID uuid.UUID) error
}

// EventPublisher emits order lifecycle events. Publishing is best-effort and
// must never fail the calling operation.
type EventPublisher interface {
	OrderCreated(order *model.Order)
	OrderPaid(order *model.Order)
	OrderStatusChanged(order *model.Order, from model.OnlineStatus)
	OrderCancelled(order *model.Order, reason string)
}
