package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
)

// CustomerHint carries the caller-supplied identity used to resolve or create
// the customer, in priority order: explicit id, tax id, email, create-new.
type CustomerHint struct {
	ID    *int64
	Name  string
	Email string
	TaxID string
	Phone string
}

// CheckoutParams is the full input of one checkout.
type CheckoutParams struct {
	TenantID        int64
	UserID          *int64
	SessionID       *uuid.UUID
	Customer        CustomerHint
	DiscountAmount  float64
	ShippingCost    float64
	ShippingAddress *model.Address
	PaymentMethod   string
	PartnerID       *int64
	Schedule        *ScheduleSlot
}

// CheckoutResult reports the order graph produced by a successful checkout.
type CheckoutResult struct {
	Order             *model.Order
	InvoiceID         int64
	ReceivableID      int64
	CommissionID      *int64
	PaymentInstrument *PaymentInstrument
}

// CheckoutUseCase turns a validated cart into a consistent order graph.
//
// The write sequence is not atomic: the backing store offers no
// multi-statement transaction across entities, so writes are ordered for
// minimal blast radius. The header goes first so a partial order is always
// discoverable; stock, scheduling and payment-instrument writes are last and
// deliberately best-effort.
type CheckoutUseCase struct {
	carts     *CartUseCase
	resolver  *CompositionResolver
	repos     repository.Factory
	directory CustomerDirectory
	payments  PaymentGenerator
	schedules SchedulingGateway
	locker    CheckoutLocker
	events    EventPublisher
	logger    *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	carts *CartUseCase,
	resolver *CompositionResolver,
	repos repository.Factory,
	directory CustomerDirectory,
	payments PaymentGenerator,
	schedules SchedulingGateway,
	locker CheckoutLocker,
	events EventPublisher,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		carts:     carts,
		resolver:  resolver,
		repos:     repos,
		directory: directory,
		payments:  payments,
		schedules: schedules,
		locker:    locker,
		events:    events,
		logger:    logger,
	}
}

// draftLine is an order line staged in memory before any write happens.
type draftLine struct {
	item      *model.CatalogItem
	quantity  int
	unitPrice float64
	isParent  bool
	parentIdx int // index of the parent draft, -1 for none
	position  int
}

// CreateOrder runs the checkout pipeline of one cart.
func (u *CheckoutUseCase) CreateOrder(ctx context.Context, params CheckoutParams) (*CheckoutResult, error) {
	owner := CartOwner{UserID: params.UserID, SessionID: params.SessionID}
	cart, err := u.carts.GetOrCreate(ctx, params.TenantID, owner)
	if err != nil {
		return nil, err
	}

	locked, err := u.locker.Acquire(ctx, cart.ID)
	if err != nil {
		return nil, domainErrors.Unavailable("checkout lock unavailable", err)
	}
	if !locked {
		return nil, domainErrors.ErrCheckoutBusy
	}
	defer func() {
		if err := u.locker.Release(context.WithoutCancel(ctx), cart.ID); err != nil {
			u.logger.Warn("checkout lock release failed", slog.String("cart_id", cart.ID.String()), slog.String("error", err.Error()))
		}
	}()

	// The view is read under the lock so a checkout that just committed and
	// cleared this cart cannot feed a second submission.
	view, err := u.carts.View(ctx, params.TenantID, owner)
	if err != nil {
		return nil, err
	}
	if err := validateView(view); err != nil {
		return nil, err
	}

	settings, err := u.repos.Settings().Get(ctx, params.TenantID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.Validationf("tenant %d has no commerce configuration", params.TenantID)
		}
		return nil, err
	}
	if settings.MinimumOrderValue > 0 && view.Subtotal < settings.MinimumOrderValue {
		return nil, domainErrors.Validationf("order subtotal %.2f is below the minimum of %.2f", view.Subtotal, settings.MinimumOrderValue)
	}

	customer, err := u.resolveCustomer(ctx, params.TenantID, params.Customer)
	if err != nil {
		return nil, err
	}

	drafts, err := u.buildDrafts(ctx, params.TenantID, view)
	if err != nil {
		return nil, err
	}

	subtotal := draftSubtotal(drafts)
	shipping := params.ShippingCost
	if settings.FreeShippingThreshold > 0 && subtotal >= settings.FreeShippingThreshold {
		shipping = 0
	}
	total := subtotal - params.DiscountAmount + shipping
	if total < 0 {
		total = 0
	}

	partnerID := params.PartnerID
	if partnerID == nil {
		partnerID = settings.DefaultPartnerID
	}

	hasPendingProducts, hasPendingServices := pendingRollups(drafts)

	order, err := u.repos.Orders().Create(ctx, &model.Order{
		TenantID:           params.TenantID,
		CustomerID:         customer.ID,
		UserID:             params.UserID,
		Channel:            model.ChannelOnline,
		Status:             model.OrderStatusOpen,
		OnlineStatus:       model.OnlineStatusPendingPayment,
		Subtotal:           subtotal,
		DiscountAmount:     params.DiscountAmount,
		ShippingCost:       shipping,
		Total:              total,
		PartnerID:          partnerID,
		ShippingAddress:    params.ShippingAddress,
		HasPendingProducts: hasPendingProducts,
		HasPendingServices: hasPendingServices,
	})
	if err != nil {
		return nil, err
	}

	persisted, err := u.persistLines(ctx, order.ID, drafts)
	if err != nil {
		return nil, err
	}

	u.recordStockMovements(ctx, params.TenantID, order.ID, params.UserID, drafts, persisted)

	invoice, receivable, err := u.persistFinancials(ctx, order, customer, params.PaymentMethod, settings, persisted)
	if err != nil {
		return nil, err
	}

	commissionID := u.recordCommission(ctx, order, partnerID, settings, persisted)

	u.bookSchedules(ctx, params, order, customer, drafts)

	instrument := u.requestInstrument(ctx, settings, order, customer, params.ShippingAddress)

	if err := u.carts.Clear(ctx, view.Cart.ID); err != nil {
		u.logger.Warn("cart clear after checkout failed", slog.String("cart_id", view.Cart.ID.String()), slog.String("error", err.Error()))
	}

	u.events.OrderCreated(order)

	return &CheckoutResult{
		Order:             order,
		InvoiceID:         invoice.ID,
		ReceivableID:      receivable.ID,
		CommissionID:      commissionID,
		PaymentInstrument: instrument,
	}, nil
}

// validateView fails closed on an empty or stale cart, enumerating the
// offending lines. Checkout never silently repairs a stale cart.
func validateView(view *model.CartView) error {
	if len(view.Lines) == 0 {
		return domainErrors.ErrCartEmpty
	}
	if !view.HasWarnings {
		return nil
	}

	var problems []string
	for _, l := range view.Lines {
		if l.PriceChanged {
			problems = append(problems, fmt.Sprintf("%q price changed from %.2f to %.2f", l.ItemName, l.UnitPrice, l.CurrentPrice))
		}
		if l.StockInsufficient {
			problems = append(problems, fmt.Sprintf("%q has only %d in stock", l.ItemName, l.AvailableStock))
		}
	}
	return domainErrors.Validationf("cart must be reviewed before checkout: %s", strings.Join(problems, "; "))
}

func (u *CheckoutUseCase) resolveCustomer(ctx context.Context, tenantID int64, hint CustomerHint) (*model.Customer, error) {
	if hint.ID != nil {
		return u.directory.GetByID(ctx, tenantID, *hint.ID)
	}
	if hint.TaxID != "" {
		customer, err := u.directory.FindByTaxID(ctx, tenantID, hint.TaxID)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
	}
	if hint.Email != "" {
		customer, err := u.directory.FindByEmail(ctx, tenantID, hint.Email)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
	}
	if hint.Name == "" || (hint.Email == "" && hint.TaxID == "") {
		return nil, domainErrors.ErrMissingCustomer
	}
	return u.directory.Create(ctx, &model.Customer{
		TenantID: tenantID,
		Name:     hint.Name,
		Email:    hint.Email,
		TaxID:    hint.TaxID,
		Phone:    hint.Phone,
	})
}

// buildDrafts materializes the staged order lines: one plain draft per
// ordinary cart line, and for bundles a parent draft priced at the cart
// snapshot plus one child draft per exploded leaf.
func (u *CheckoutUseCase) buildDrafts(ctx context.Context, tenantID int64, view *model.CartView) ([]draftLine, error) {
	ids := make([]int64, 0, len(view.Lines))
	for _, l := range view.Lines {
		ids = append(ids, l.ItemID)
	}
	items, err := u.carts.catalog.Items(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	var drafts []draftLine
	position := 0
	for _, cartLine := range view.Lines {
		item, ok := items[cartLine.ItemID]
		if !ok {
			return nil, domainErrors.NotFoundf("item %d no longer exists", cartLine.ItemID)
		}

		if !item.IsBundle {
			drafts = append(drafts, draftLine{
				item:      item,
				quantity:  cartLine.Quantity,
				unitPrice: cartLine.UnitPrice,
				parentIdx: -1,
				position:  position,
			})
			position++
			continue
		}

		leaves, err := u.resolver.Explode(ctx, tenantID, item.ID, cartLine.Quantity)
		if err != nil {
			return nil, err
		}

		parentIdx := len(drafts)
		drafts = append(drafts, draftLine{
			item:      item,
			quantity:  cartLine.Quantity,
			unitPrice: cartLine.UnitPrice,
			isParent:  true,
			parentIdx: -1,
			position:  position,
		})
		position++

		for _, leaf := range leaves {
			drafts = append(drafts, draftLine{
				item:      leaf.Item,
				quantity:  leaf.Quantity,
				unitPrice: leaf.Item.SalePrice(),
				parentIdx: parentIdx,
				position:  position,
			})
			position++
		}
	}
	return drafts, nil
}

// draftSubtotal prices each bundle once at its parent line; child prices never
// double-count. Without bundles it is the plain sum of the lines.
func draftSubtotal(drafts []draftLine) float64 {
	var subtotal float64
	for _, d := range drafts {
		if d.parentIdx >= 0 {
			continue
		}
		subtotal += d.unitPrice * float64(d.quantity)
	}
	return subtotal
}

// lineStatuses applies the fulfillment policy at creation time.
func lineStatuses(item *model.CatalogItem, isParent bool) (separation, delivery, fulfillment model.FulfillmentStatus) {
	separation, delivery, fulfillment = model.FulfillmentNotRequired, model.FulfillmentNotRequired, model.FulfillmentCompleted

	if isParent {
		fulfillment = model.FulfillmentPending
		return
	}
	if item.Kind == model.ItemKindProduct {
		fulfillment = model.FulfillmentPending
		if item.RequiresSeparation {
			separation = model.FulfillmentPending
		}
		if item.RequiresDelivery {
			delivery = model.FulfillmentPending
		}
		return
	}
	if item.RequiresScheduling {
		fulfillment = model.FulfillmentPending
	}
	return
}

func pendingRollups(drafts []draftLine) (products, services bool) {
	for _, d := range drafts {
		if d.isParent {
			continue
		}
		sep, del, ful := lineStatuses(d.item, false)
		pending := sep == model.FulfillmentPending || del == model.FulfillmentPending || ful == model.FulfillmentPending
		if !pending {
			continue
		}
		if d.item.Kind == model.ItemKindProduct {
			products = true
		} else {
			services = true
		}
	}
	return
}

func (u *CheckoutUseCase) persistLines(ctx context.Context, orderID int64, drafts []draftLine) ([]model.OrderLine, error) {
	persisted := make([]model.OrderLine, 0, len(drafts))
	parentIDs := make(map[int]int64, len(drafts))

	for idx, d := range drafts {
		sep, del, ful := lineStatuses(d.item, d.isParent)
		line := &model.OrderLine{
			OrderID:             orderID,
			ItemID:              d.item.ID,
			Kind:                d.item.Kind,
			Quantity:            d.quantity,
			UnitPrice:           d.unitPrice,
			CostPrice:           d.item.CostPrice,
			CommissionRate:      d.item.CommissionRate,
			SeparationStatus:    sep,
			DeliveryStatus:      del,
			FulfillmentStatus:   ful,
			IsCompositionParent: d.isParent,
			Position:            d.position,
		}
		if !d.isParent {
			line.CommissionAmount = d.unitPrice * float64(d.quantity) * d.item.CommissionRate / 100
		}
		if d.parentIdx >= 0 {
			parentID := parentIDs[d.parentIdx]
			line.ParentLineID = &parentID
		}

		saved, err := u.repos.OrderLines().Insert(ctx, line)
		if err != nil {
			return nil, err
		}
		if d.isParent {
			parentIDs[idx] = saved.ID
		}
		persisted = append(persisted, *saved)
	}
	return persisted, nil
}

// recordStockMovements writes one negative ledger entry per stock-tracked
// physical leaf line. Failures are logged and skipped: a missing ledger row
// never aborts an already-created order.
func (u *CheckoutUseCase) recordStockMovements(ctx context.Context, tenantID, orderID int64, actorID *int64, drafts []draftLine, lines []model.OrderLine) {
	for idx, d := range drafts {
		if d.isParent || d.item.Kind != model.ItemKindProduct || !d.item.TrackStock {
			continue
		}
		_, err := u.repos.StockLedger().Record(ctx, &model.StockLedgerEntry{
			TenantID: tenantID,
			ItemID:   d.item.ID,
			Quantity: -lines[idx].Quantity,
			OrderID:  orderID,
			ActorID:  actorID,
			Reason:   "sale",
		})
		if err != nil {
			u.logger.Warn("stock ledger write skipped",
				slog.Int64("order_id", orderID),
				slog.Int64("item_id", d.item.ID),
				slog.String("error", err.Error()))
		}
	}
}

func (u *CheckoutUseCase) persistFinancials(ctx context.Context, order *model.Order, customer *model.Customer, paymentMethod string, settings *model.MerchantSettings, lines []model.OrderLine) (*model.Invoice, *model.Receivable, error) {
	invoice, err := u.repos.Invoices().Create(ctx, &model.Invoice{
		TenantID:   order.TenantID,
		OrderID:    order.ID,
		CustomerID: customer.ID,
		Total:      order.Total,
		Status:     model.FinancialPending,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := u.repos.Orders().SetInvoice(ctx, order.ID, invoice.ID); err != nil {
		return nil, nil, err
	}
	order.InvoiceID = &invoice.ID

	for _, line := range lines {
		if line.IsCompositionParent {
			continue
		}
		err := u.repos.Invoices().InsertLine(ctx, &model.InvoiceLine{
			InvoiceID: invoice.ID,
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	dueDays := settings.ReceivableDueDays
	if dueDays <= 0 {
		dueDays = 3
	}
	receivable, err := u.repos.Receivables().Create(ctx, &model.Receivable{
		TenantID:      order.TenantID,
		InvoiceID:     invoice.ID,
		CustomerID:    customer.ID,
		Amount:        order.Total,
		DueDate:       time.Now().AddDate(0, 0, dueDays),
		PaymentMethod: paymentMethod,
		Status:        model.FinancialPending,
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, receivable, nil
}

// recordCommission sums per-line commission amounts, falling back to the
// tenant override rate over the subtotal, and writes an entry only when a
// partner is attached and the result is nonzero. Best-effort.
func (u *CheckoutUseCase) recordCommission(ctx context.Context, order *model.Order, partnerID *int64, settings *model.MerchantSettings, lines []model.OrderLine) *int64 {
	if partnerID == nil {
		return nil
	}

	var amount float64
	for _, line := range lines {
		amount += line.CommissionAmount
	}
	if amount == 0 && settings.CommissionOverrideRate > 0 {
		amount = order.Subtotal * settings.CommissionOverrideRate / 100
	}
	if amount <= 0 {
		return nil
	}

	entry, err := u.repos.Commissions().Create(ctx, &model.CommissionEntry{
		TenantID:  order.TenantID,
		OrderID:   order.ID,
		PartnerID: *partnerID,
		Amount:    amount,
		Status:    model.FinancialPending,
	})
	if err != nil {
		u.logger.Warn("commission entry write skipped", slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		return nil
	}
	return &entry.ID
}

func (u *CheckoutUseCase) bookSchedules(ctx context.Context, params CheckoutParams, order *model.Order, customer *model.Customer, drafts []draftLine) {
	if params.Schedule == nil {
		return
	}
	for _, d := range drafts {
		if d.isParent || d.item.Kind != model.ItemKindService || !d.item.RequiresScheduling {
			continue
		}
		_, err := u.schedules.Schedule(ctx, params.TenantID, order.PartnerID, customer.ID, d.item.ID, order.ID, *params.Schedule)
		if err != nil {
			u.logger.Warn("scheduling request skipped",
				slog.Int64("order_id", order.ID),
				slog.Int64("item_id", d.item.ID),
				slog.String("error", err.Error()))
		}
	}
}

func (u *CheckoutUseCase) requestInstrument(ctx context.Context, settings *model.MerchantSettings, order *model.Order, customer *model.Customer, address *model.Address) *PaymentInstrument {
	instrument, err := u.payments.Generate(ctx, settings, order.Total, order.ID, customer, address)
	if err != nil {
		u.logger.Warn("payment instrument generation failed, order stays pending",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()))
		return nil
	}
	return instrument
}
