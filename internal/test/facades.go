package test

import (
	"context"

	"github.com/google/uuid"

	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
	pkgAuth "github.com/vendrix/storefront/internal/pkg/auth"
	"github.com/vendrix/storefront/internal/usecase"
)

// CartFacadeStub lets tests override individual cart operations.
type CartFacadeStub struct {
	CartFn           func(ctx context.Context, tenantID int64, owner usecase.CartOwner) (*model.CartView, error)
	AddToCartFn      func(ctx context.Context, tenantID int64, owner usecase.CartOwner, itemID int64, partnerID *int64, quantity int) (*model.CartLine, error)
	UpdateCartLineFn func(ctx context.Context, lineID int64, quantity int) error
	RemoveCartLineFn func(ctx context.Context, lineID int64) error
	MergeFn          func(ctx context.Context, tenantID int64, sessionID uuid.UUID, userID int64) (*model.Cart, error)
}

func (s *CartFacadeStub) Cart(ctx context.Context, tenantID int64, owner usecase.CartOwner) (*model.CartView, error) {
	if s.CartFn == nil {
		return &model.CartView{}, nil
	}
	return s.CartFn(ctx, tenantID, owner)
}

func (s *CartFacadeStub) AddToCart(ctx context.Context, tenantID int64, owner usecase.CartOwner, itemID int64, partnerID *int64, quantity int) (*model.CartLine, error) {
	if s.AddToCartFn == nil {
		return &model.CartLine{}, nil
	}
	return s.AddToCartFn(ctx, tenantID, owner, itemID, partnerID, quantity)
}

func (s *CartFacadeStub) UpdateCartLine(ctx context.Context, lineID int64, quantity int) error {
	if s.UpdateCartLineFn == nil {
		return nil
	}
	return s.UpdateCartLineFn(ctx, lineID, quantity)
}

func (s *CartFacadeStub) RemoveCartLine(ctx context.Context, lineID int64) error {
	if s.RemoveCartLineFn == nil {
		return nil
	}
	return s.RemoveCartLineFn(ctx, lineID)
}

func (s *CartFacadeStub) MergeCartOnLogin(ctx context.Context, tenantID int64, sessionID uuid.UUID, userID int64) (*model.Cart, error) {
	if s.MergeFn == nil {
		return &model.Cart{}, nil
	}
	return s.MergeFn(ctx, tenantID, sessionID, userID)
}

// CheckoutFacadeStub lets tests override the checkout pipeline.
type CheckoutFacadeStub struct {
	CheckoutFn func(ctx context.Context, params usecase.CheckoutParams) (*usecase.CheckoutResult, error)
}

func (s *CheckoutFacadeStub) Checkout(ctx context.Context, params usecase.CheckoutParams) (*usecase.CheckoutResult, error) {
	if s.CheckoutFn == nil {
		return &usecase.CheckoutResult{}, nil
	}
	return s.CheckoutFn(ctx, params)
}

// OrderFacadeStub lets tests override individual order operations.
type OrderFacadeStub struct {
	OrderFn        func(ctx context.Context, tenantID, orderID int64) (*model.Order, error)
	OrderLinesFn   func(ctx context.Context, tenantID, orderID int64) ([]model.OrderLine, error)
	OrdersByUserFn func(ctx context.Context, tenantID, userID int64) ([]model.Order, error)
	OrdersFn       func(ctx context.Context, tenantID int64, filter model.OrderFilter) ([]model.Order, error)
	SummaryFn      func(ctx context.Context, tenantID int64) (map[model.OnlineStatus]int, error)
	ConfirmFn      func(ctx context.Context, tenantID, orderID int64) (*model.Order, error)
	AdvanceFn      func(ctx context.Context, tenantID, orderID int64, to model.OnlineStatus, meta *repository.ShippingMeta) (*model.Order, error)
	CancelFn       func(ctx context.Context, tenantID, orderID int64, reason *string) (*model.Order, error)
	RegenerateFn   func(ctx context.Context, tenantID, orderID int64) (*usecase.PaymentInstrument, error)
}

func (s *OrderFacadeStub) Order(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	if s.OrderFn == nil {
		return &model.Order{ID: orderID, TenantID: tenantID}, nil
	}
	return s.OrderFn(ctx, tenantID, orderID)
}

func (s *OrderFacadeStub) OrderLines(ctx context.Context, tenantID, orderID int64) ([]model.OrderLine, error) {
	if s.OrderLinesFn == nil {
		return nil, nil
	}
	return s.OrderLinesFn(ctx, tenantID, orderID)
}

func (s *OrderFacadeStub) OrdersByUser(ctx context.Context, tenantID, userID int64) ([]model.Order, error) {
	if s.OrdersByUserFn == nil {
		return nil, nil
	}
	return s.OrdersByUserFn(ctx, tenantID, userID)
}

func (s *OrderFacadeStub) Orders(ctx context.Context, tenantID int64, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn == nil {
		return nil, nil
	}
	return s.OrdersFn(ctx, tenantID, filter)
}

func (s *OrderFacadeStub) OrderStatusSummary(ctx context.Context, tenantID int64) (map[model.OnlineStatus]int, error) {
	if s.SummaryFn == nil {
		return map[model.OnlineStatus]int{}, nil
	}
	return s.SummaryFn(ctx, tenantID)
}

func (s *OrderFacadeStub) ConfirmPayment(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	if s.ConfirmFn == nil {
		return &model.Order{ID: orderID, TenantID: tenantID}, nil
	}
	return s.ConfirmFn(ctx, tenantID, orderID)
}

func (s *OrderFacadeStub) AdvanceOrder(ctx context.Context, tenantID, orderID int64, to model.OnlineStatus, meta *repository.ShippingMeta) (*model.Order, error) {
	if s.AdvanceFn == nil {
		return &model.Order{ID: orderID, TenantID: tenantID, OnlineStatus: to}, nil
	}
	return s.AdvanceFn(ctx, tenantID, orderID, to, meta)
}

func (s *OrderFacadeStub) CancelOrder(ctx context.Context, tenantID, orderID int64, reason *string) (*model.Order, error) {
	if s.CancelFn == nil {
		return &model.Order{ID: orderID, TenantID: tenantID, OnlineStatus: model.OnlineStatusCancelled}, nil
	}
	return s.CancelFn(ctx, tenantID, orderID, reason)
}

func (s *OrderFacadeStub) RegeneratePaymentInstrument(ctx context.Context, tenantID, orderID int64) (*usecase.PaymentInstrument, error) {
	if s.RegenerateFn == nil {
		return &usecase.PaymentInstrument{}, nil
	}
	return s.RegenerateFn(ctx, tenantID, orderID)
}

// CommerceFacadeStub aggregates the per-handler stubs into one facade.
type CommerceFacadeStub struct {
	CartFacadeStub
	CheckoutFacadeStub
	OrderFacadeStub
}

// TokenParserStub lets tests control identity resolution.
type TokenParserStub struct {
	Identity pkgAuth.Identity
	Err      error
}

func (s *TokenParserStub) ParseToken(string) (pkgAuth.Identity, error) {
	if s.Err != nil {
		return pkgAuth.Identity{}, s.Err
	}
	return s.Identity, nil
}
