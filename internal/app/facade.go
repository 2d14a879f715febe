package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
	"github.com/vendrix/storefront/internal/pkg/auth"
	"github.com/vendrix/storefront/internal/usecase"
)

// CommerceFacade aggregates the cart, checkout and order lifecycle use cases
// behind a single application surface.
type CommerceFacade struct {
	carts     *usecase.CartUseCase
	checkout  *usecase.CheckoutUseCase
	lifecycle *usecase.LifecycleUseCase
	tokens    auth.Strategy
}

func NewCommerceFacade(carts *usecase.CartUseCase, checkout *usecase.CheckoutUseCase, lifecycle *usecase.LifecycleUseCase, tokens auth.Strategy) *CommerceFacade {
	return &CommerceFacade{carts: carts, checkout: checkout, lifecycle: lifecycle, tokens: tokens}
}

func (f *CommerceFacade) ParseToken(token string) (auth.Identity, error) {
	return f.tokens.ParseToken(token)
}

func (f *CommerceFacade) Cart(ctx context.Context, tenantID int64, owner usecase.CartOwner) (*model.CartView, error) {
	return f.carts.View(ctx, tenantID, owner)
}

func (f *CommerceFacade) AddToCart(ctx context.Context, tenantID int64, owner usecase.CartOwner, itemID int64, partnerID *int64, quantity int) (*model.CartLine, error) {
	return f.carts.Add(ctx, tenantID, owner, itemID, partnerID, quantity)
}

func (f *CommerceFacade) UpdateCartLine(ctx context.Context, lineID int64, quantity int) error {
	return f.carts.UpdateQuantity(ctx, lineID, quantity)
}

func (f *CommerceFacade) RemoveCartLine(ctx context.Context, lineID int64) error {
	return f.carts.Remove(ctx, lineID)
}

func (f *CommerceFacade) MergeCartOnLogin(ctx context.Context, tenantID int64, sessionID uuid.UUID, userID int64) (*model.Cart, error) {
	return f.carts.MergeOnLogin(ctx, tenantID, sessionID, userID)
}

func (f *CommerceFacade) PurgeExpiredCarts(ctx context.Context, limit int) (int, error) {
	return f.carts.PurgeExpired(ctx, limit)
}

func (f *CommerceFacade) Checkout(ctx context.Context, params usecase.CheckoutParams) (*usecase.CheckoutResult, error) {
	return f.checkout.CreateOrder(ctx, params)
}

func (f *CommerceFacade) Order(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	return f.lifecycle.Get(ctx, tenantID, orderID)
}

func (f *CommerceFacade) OrderLines(ctx context.Context, tenantID, orderID int64) ([]model.OrderLine, error) {
	return f.lifecycle.Lines(ctx, tenantID, orderID)
}

func (f *CommerceFacade) OrdersByUser(ctx context.Context, tenantID, userID int64) ([]model.Order, error) {
	return f.lifecycle.ListByUser(ctx, tenantID, userID)
}

func (f *CommerceFacade) Orders(ctx context.Context, tenantID int64, filter model.OrderFilter) ([]model.Order, error) {
	return f.lifecycle.ListByTenant(ctx, tenantID, filter)
}

func (f *CommerceFacade) OrderStatusSummary(ctx context.Context, tenantID int64) (map[model.OnlineStatus]int, error) {
	return f.lifecycle.StatusSummary(ctx, tenantID)
}

func (f *CommerceFacade) ConfirmPayment(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	return f.lifecycle.ConfirmPayment(ctx, tenantID, orderID)
}

func (f *CommerceFacade) AdvanceOrder(ctx context.Context, tenantID, orderID int64, to model.OnlineStatus, meta *repository.ShippingMeta) (*model.Order, error) {
	return f.lifecycle.Advance(ctx, tenantID, orderID, to, meta)
}

func (f *CommerceFacade) CancelOrder(ctx context.Context, tenantID, orderID int64, reason *string) (*model.Order, error) {
	return f.lifecycle.Cancel(ctx, tenantID, orderID, reason)
}

func (f *CommerceFacade) RegeneratePaymentInstrument(ctx context.Context, tenantID, orderID int64) (*usecase.PaymentInstrument, error) {
	return f.lifecycle.RegenerateInstrument(ctx, tenantID, orderID)
}
