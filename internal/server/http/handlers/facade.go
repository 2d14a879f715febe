package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
	"github.com/vendrix/storefront/internal/usecase"
)

// CartFacade describes cart capabilities required by handlers.
type CartFacade interface {
	Cart(ctx context.Context, tenantID int64, owner usecase.CartOwner) (*model.CartView, error)
	AddToCart(ctx context.Context, tenantID int64, owner usecase.CartOwner, itemID int64, partnerID *int64, quantity int) (*model.CartLine, error)
	UpdateCartLine(ctx context.Context, lineID int64, quantity int) error
	RemoveCartLine(ctx context.Context, lineID int64) error
	MergeCartOnLogin(ctx context.Context, tenantID int64, sessionID uuid.UUID, userID int64) (*model.Cart, error)
}

// CheckoutFacade runs the checkout pipeline.
type CheckoutFacade interface {
	Checkout(ctx context.Context, params usecase.CheckoutParams) (*usecase.CheckoutResult, error)
}

// OrderFacade encapsulates order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	Order(ctx context.Context, tenantID, orderID int64) (*model.Order, error)
	OrderLines(ctx context.Context, tenantID, orderID int64) ([]model.OrderLine, error)
	OrdersByUser(ctx context.Context, tenantID, userID int64) ([]model.Order, error)
	Orders(ctx context.Context, tenantID int64, filter model.OrderFilter) ([]model.Order, error)
	OrderStatusSummary(ctx context.Context, tenantID int64) (map[model.OnlineStatus]int, error)
	ConfirmPayment(ctx context.Context, tenantID, orderID int64) (*model.Order, error)
	AdvanceOrder(ctx context.Context, tenantID, orderID int64, to model.OnlineStatus, meta *repository.ShippingMeta) (*model.Order, error)
	CancelOrder(ctx context.Context, tenantID, orderID int64, reason *string) (*model.Order, error)
	RegeneratePaymentInstrument(ctx context.Context, tenantID, orderID int64) (*usecase.PaymentInstrument, error)
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	CartFacade
	CheckoutFacade
	OrderFacade
}
