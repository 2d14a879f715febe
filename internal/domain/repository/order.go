package repository

import (
	"context"
	"time"

	"github.com/vendrix/storefront/internal/domain/model"
)

// ShippingMeta carries optional tracking details attached on transition into
// the shipped state.
type ShippingMeta struct {
	TrackingCode      *string
	EstimatedDelivery *time.Time
}

// OrderRepository describes persistence operations for order headers.
//
// The guarded mutations (MarkPaid, AdvanceStatus, MarkCancelled) update only
// when the row is still in the expected source state and report false when it
// already moved, so racing transitions fail instead of double-applying.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	Get(ctx context.Context, tenantID, orderID int64) (*model.Order, error)
	SetInvoice(ctx context.Context, orderID, invoiceID int64) error
	ListByUser(ctx context.Context, tenantID, userID int64) ([]model.Order, error)
	ListByTenant(ctx context.Context, tenantID int64, filter model.OrderFilter) ([]model.Order, error)
	CountByStatus(ctx context.Context, tenantID int64) (map[model.OnlineStatus]int, error)
	MarkPaid(ctx context.Context, orderID int64, paidAt time.Time) (bool, error)
	AdvanceStatus(ctx context.Context, orderID int64, from, to model.OnlineStatus, meta *ShippingMeta) (bool, error)
	MarkCancelled(ctx context.Context, orderID int64, from []model.OnlineStatus, reason *string) (bool, error)
}

// OrderLineRepository describes persistence operations for order lines.
type OrderLineRepository interface {
	Insert(ctx context.Context, line *model.OrderLine) (*model.OrderLine, error)
	ListByOrder(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	CancelOpenStatuses(ctx context.Context, orderID int64) error
}
