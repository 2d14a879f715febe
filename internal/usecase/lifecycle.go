package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
)

// transitions is the central allowed-next table of the online order state
// machine. completed and cancelled are terminal.
var transitions = map[model.OnlineStatus][]model.OnlineStatus{
	model.OnlineStatusPendingPayment:   {model.OnlineStatusPaymentConfirmed, model.OnlineStatusCancelled},
	model.OnlineStatusPaymentConfirmed: {model.OnlineStatusProcessing, model.OnlineStatusCancelled},
	model.OnlineStatusProcessing:       {model.OnlineStatusShipped, model.OnlineStatusCancelled},
	model.OnlineStatusShipped:          {model.OnlineStatusDelivered},
	model.OnlineStatusDelivered:        {model.OnlineStatusCompleted, model.OnlineStatusReturnRequested},
	model.OnlineStatusReturnRequested:  {model.OnlineStatusCancelled},
	model.OnlineStatusCompleted:        nil,
	model.OnlineStatusCancelled:        nil,
}

// cancellableStatuses are the source states from which cancel is legal.
var cancellableStatuses = []model.OnlineStatus{
	model.OnlineStatusPendingPayment,
	model.OnlineStatusPaymentConfirmed,
	model.OnlineStatusProcessing,
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to model.OnlineStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedNext returns the legal destinations from a state.
func AllowedNext(from model.OnlineStatus) []model.OnlineStatus {
	return transitions[from]
}

func transitionError(from, to model.OnlineStatus) error {
	allowed := AllowedNext(from)
	if len(allowed) == 0 {
		return domainErrors.Transitionf("order is %s, a terminal state", from)
	}
	return domainErrors.Transitionf("order is %s and cannot move to %s, allowed: %v", from, to, allowed)
}

// LifecycleUseCase enforces the post-creation order state machine: payment
// confirmation, fulfillment progression, and cancellation with compensating
// reversal of stock and financial side effects.
type LifecycleUseCase struct {
	repos     repository.Factory
	directory CustomerDirectory
	payments  PaymentGenerator
	events    EventPublisher
	logger    *slog.Logger
}

// NewLifecycleUseCase constructs LifecycleUseCase.
func NewLifecycleUseCase(repos repository.Factory, directory CustomerDirectory, payments PaymentGenerator, events EventPublisher, logger *slog.Logger) *LifecycleUseCase {
	return &LifecycleUseCase{repos: repos, directory: directory, payments: payments, events: events, logger: logger}
}

// Get returns one order.
func (u *LifecycleUseCase) Get(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	return u.repos.Orders().Get(ctx, tenantID, orderID)
}

// Lines returns the lines of one order in stable position order.
func (u *LifecycleUseCase) Lines(ctx context.Context, tenantID, orderID int64) ([]model.OrderLine, error) {
	if _, err := u.repos.Orders().Get(ctx, tenantID, orderID); err != nil {
		return nil, err
	}
	return u.repos.OrderLines().ListByOrder(ctx, orderID)
}

// ListByUser returns a user's orders.
func (u *LifecycleUseCase) ListByUser(ctx context.Context, tenantID, userID int64) ([]model.Order, error) {
	return u.repos.Orders().ListByUser(ctx, tenantID, userID)
}

// ListByTenant returns a tenant's orders, optionally filtered by status and
// fulfillment partner.
func (u *LifecycleUseCase) ListByTenant(ctx context.Context, tenantID int64, filter model.OrderFilter) ([]model.Order, error) {
	return u.repos.Orders().ListByTenant(ctx, tenantID, filter)
}

// StatusSummary returns the per-status order counts of a tenant.
func (u *LifecycleUseCase) StatusSummary(ctx context.Context, tenantID int64) (map[model.OnlineStatus]int, error) {
	return u.repos.Orders().CountByStatus(ctx, tenantID)
}

// ConfirmPayment moves a pending order to payment_confirmed, writes the
// payment record and marks the linked invoice and its receivables paid with
// the full order total.
func (u *LifecycleUseCase) ConfirmPayment(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	order, err := u.repos.Orders().Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.OnlineStatus != model.OnlineStatusPendingPayment {
		return nil, transitionError(order.OnlineStatus, model.OnlineStatusPaymentConfirmed)
	}

	paidAt := time.Now()
	moved, err := u.repos.Orders().MarkPaid(ctx, orderID, paidAt)
	if err != nil {
		return nil, err
	}
	if !moved {
		// The row left pending_payment between the read and the update.
		current, err := u.repos.Orders().Get(ctx, tenantID, orderID)
		if err != nil {
			return nil, err
		}
		return nil, transitionError(current.OnlineStatus, model.OnlineStatusPaymentConfirmed)
	}

	method := ""
	if order.InvoiceID != nil {
		receivable, err := u.repos.Receivables().GetByInvoice(ctx, *order.InvoiceID)
		switch {
		case err == nil:
			method = receivable.PaymentMethod
		case !errors.Is(err, domainErrors.ErrNotFound):
			return nil, err
		}
	}

	if _, err := u.repos.Payments().Create(ctx, &model.Payment{
		OrderID: orderID,
		Amount:  order.Total,
		Method:  method,
		PaidAt:  paidAt,
	}); err != nil {
		return nil, err
	}

	if order.InvoiceID != nil {
		if err := u.repos.Invoices().SetStatus(ctx, *order.InvoiceID, model.FinancialPaid); err != nil {
			return nil, err
		}
		if err := u.repos.Receivables().MarkPaidByInvoice(ctx, *order.InvoiceID, order.Total); err != nil {
			return nil, err
		}
	}

	order.OnlineStatus = model.OnlineStatusPaymentConfirmed
	order.PaidAt = &paidAt
	u.events.OrderPaid(order)
	return order, nil
}

// Advance moves the order along the transition table. Tracking metadata is
// attached only on transition into shipped; completion also closes the coarse
// status.
func (u *LifecycleUseCase) Advance(ctx context.Context, tenantID, orderID int64, to model.OnlineStatus, meta *repository.ShippingMeta) (*model.Order, error) {
	order, err := u.repos.Orders().Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.OnlineStatus, to) {
		return nil, transitionError(order.OnlineStatus, to)
	}
	if to == model.OnlineStatusCancelled && isCancellable(order.OnlineStatus) {
		return u.Cancel(ctx, tenantID, orderID, nil)
	}
	// return_requested -> cancelled is a plain table move: the return flow has
	// no stock deduction left to compensate.
	if to == model.OnlineStatusPaymentConfirmed {
		return u.ConfirmPayment(ctx, tenantID, orderID)
	}

	if to != model.OnlineStatusShipped {
		meta = nil
	}
	moved, err := u.repos.Orders().AdvanceStatus(ctx, orderID, order.OnlineStatus, to, meta)
	if err != nil {
		return nil, err
	}
	if !moved {
		current, err := u.repos.Orders().Get(ctx, tenantID, orderID)
		if err != nil {
			return nil, err
		}
		return nil, transitionError(current.OnlineStatus, to)
	}

	from := order.OnlineStatus
	order.OnlineStatus = to
	if meta != nil {
		order.TrackingCode = meta.TrackingCode
		order.EstimatedDelivery = meta.EstimatedDelivery
	}
	switch to {
	case model.OnlineStatusCompleted:
		order.Status = model.OrderStatusCompleted
	case model.OnlineStatusCancelled:
		order.Status = model.OrderStatusCancelled
	}
	u.events.OrderStatusChanged(order, from)
	return order, nil
}

// Cancel terminates an order from one of the cancellable states, reversing
// every stock deduction with an equal-and-opposite ledger entry and
// cancelling lines, invoice, receivables and commission entries.
func (u *LifecycleUseCase) Cancel(ctx context.Context, tenantID, orderID int64, reason *string) (*model.Order, error) {
	order, err := u.repos.Orders().Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !isCancellable(order.OnlineStatus) {
		return nil, transitionError(order.OnlineStatus, model.OnlineStatusCancelled)
	}

	// Claim the cancellation first; a second caller loses the guarded update
	// and never writes duplicate reversal entries.
	moved, err := u.repos.Orders().MarkCancelled(ctx, orderID, cancellableStatuses, reason)
	if err != nil {
		return nil, err
	}
	if !moved {
		current, err := u.repos.Orders().Get(ctx, tenantID, orderID)
		if err != nil {
			return nil, err
		}
		return nil, transitionError(current.OnlineStatus, model.OnlineStatusCancelled)
	}

	entries, err := u.repos.StockLedger().ListByOrder(ctx, orderID)
	if err != nil {
		u.logger.Warn("stock reversal lookup failed", slog.Int64("order_id", orderID), slog.String("error", err.Error()))
	}
	for _, entry := range entries {
		if entry.Quantity >= 0 {
			continue
		}
		_, err := u.repos.StockLedger().Record(ctx, &model.StockLedgerEntry{
			TenantID: entry.TenantID,
			ItemID:   entry.ItemID,
			Quantity: -entry.Quantity,
			OrderID:  orderID,
			Reason:   "cancellation",
		})
		if err != nil {
			u.logger.Warn("stock reversal write skipped",
				slog.Int64("order_id", orderID),
				slog.Int64("item_id", entry.ItemID),
				slog.String("error", err.Error()))
		}
	}

	if err := u.repos.OrderLines().CancelOpenStatuses(ctx, orderID); err != nil {
		return nil, err
	}

	if order.InvoiceID != nil {
		if err := u.repos.Invoices().SetStatus(ctx, *order.InvoiceID, model.FinancialCancelled); err != nil {
			return nil, err
		}
		if err := u.repos.Receivables().CancelByInvoice(ctx, *order.InvoiceID); err != nil {
			return nil, err
		}
	}
	if err := u.repos.Commissions().CancelByOrder(ctx, orderID); err != nil {
		return nil, err
	}

	order.Status = model.OrderStatusCancelled
	order.OnlineStatus = model.OnlineStatusCancelled
	order.CancelReason = reason
	cancelReason := ""
	if reason != nil {
		cancelReason = *reason
	}
	u.events.OrderCancelled(order, cancelReason)
	return order, nil
}

// RegenerateInstrument requests a fresh payment instrument for an order still
// awaiting payment.
func (u *LifecycleUseCase) RegenerateInstrument(ctx context.Context, tenantID, orderID int64) (*PaymentInstrument, error) {
	order, err := u.repos.Orders().Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.OnlineStatus != model.OnlineStatusPendingPayment {
		return nil, domainErrors.Transitionf("order is %s, payment instrument applies only to pending_payment", order.OnlineStatus)
	}

	settings, err := u.repos.Settings().Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	customer, err := u.directory.GetByID(ctx, tenantID, order.CustomerID)
	if err != nil {
		return nil, err
	}

	instrument, err := u.payments.Generate(ctx, settings, order.Total, order.ID, customer, order.ShippingAddress)
	if err != nil {
		return nil, domainErrors.Unavailable("payment instrument generation failed", err)
	}
	return instrument, nil
}

func isCancellable(status model.OnlineStatus) bool {
	for _, s := range cancellableStatuses {
		if s == status {
			return true
		}
	}
	return false
}
