package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
)

// priceTolerance is the currency delta below which a snapshot still counts as
// current on enriched reads.
const priceTolerance = 0.01

// CartOwner identifies a cart by user or anonymous session. At least one
// reference is required.
type CartOwner struct {
	UserID    *int64
	SessionID *uuid.UUID
}

func (o CartOwner) empty() bool { return o.UserID == nil && o.SessionID == nil }

// CartUseCase owns cart lifecycle: reservation, staleness detection, merge on
// login and expiry.
type CartUseCase struct {
	carts   repository.CartRepository
	lines   repository.CartLineRepository
	catalog CatalogGateway
	ttl     time.Duration
}

// NewCartUseCase constructs CartUseCase with a rolling cart TTL.
func NewCartUseCase(carts repository.CartRepository, lines repository.CartLineRepository, catalog CatalogGateway, ttl time.Duration) *CartUseCase {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &CartUseCase{carts: carts, lines: lines, catalog: catalog, ttl: ttl}
}

// GetOrCreate finds the owner's active cart, preferring the user reference
// over the session, and lazily creates one when absent.
func (u *CartUseCase) GetOrCreate(ctx context.Context, tenantID int64, owner CartOwner) (*model.Cart, error) {
	if owner.empty() {
		return nil, domainErrors.ErrMissingOwner
	}

	if owner.UserID != nil {
		cart, err := u.carts.GetByUser(ctx, tenantID, *owner.UserID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
	}
	if owner.SessionID != nil {
		cart, err := u.carts.GetBySession(ctx, tenantID, *owner.SessionID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
	}

	return u.carts.Create(ctx, &model.Cart{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    owner.UserID,
		SessionID: owner.SessionID,
		ExpiresAt: time.Now().Add(u.ttl),
	})
}

// Add reserves an item in the owner's cart. Adding an item that is already in
// the cart increments the existing line instead of duplicating it; the unit
// price is snapshotted from the catalog only when the line is first inserted.
func (u *CartUseCase) Add(ctx context.Context, tenantID int64, owner CartOwner, itemID int64, partnerID *int64, quantity int) (*model.CartLine, error) {
	if quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}

	item, err := u.catalog.Item(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if item.QuoteOnly {
		return nil, domainErrors.Validationf("item %q cannot be sold directly", item.Name)
	}

	cart, err := u.GetOrCreate(ctx, tenantID, owner)
	if err != nil {
		return nil, err
	}

	existing, err := u.lines.FindByItem(ctx, cart.ID, itemID)
	if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	if item.TrackStock {
		reserved := 0
		if existing != nil {
			reserved = existing.Quantity
		}
		if item.StockQuantity < reserved+quantity {
			available := item.StockQuantity - reserved
			if available < 0 {
				available = 0
			}
			return nil, domainErrors.Validationf("insufficient stock for %q, available: %d", item.Name, available)
		}
	}

	now := time.Now()
	var line *model.CartLine
	if existing != nil {
		if err := u.lines.AddQuantity(ctx, existing.ID, quantity, now); err != nil {
			return nil, err
		}
		existing.Quantity += quantity
		existing.ReservedAt = now
		line = existing
	} else {
		line, err = u.lines.Insert(ctx, &model.CartLine{
			CartID:     cart.ID,
			ItemID:     itemID,
			PartnerID:  partnerID,
			Quantity:   quantity,
			UnitPrice:  item.SalePrice(),
			ReservedAt: now,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := u.carts.Touch(ctx, cart.ID, now.Add(u.ttl)); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateQuantity sets a line's quantity in place without re-snapshotting the
// price. Quantity zero removes the line.
func (u *CartUseCase) UpdateQuantity(ctx context.Context, lineID int64, quantity int) error {
	if quantity < 0 {
		return domainErrors.ErrInvalidQuantity
	}

	line, err := u.lines.Get(ctx, lineID)
	if err != nil {
		return err
	}

	if quantity == 0 {
		if err := u.lines.Delete(ctx, lineID); err != nil {
			return err
		}
	} else if err := u.lines.SetQuantity(ctx, lineID, quantity); err != nil {
		return err
	}

	return u.carts.Touch(ctx, line.CartID, time.Now().Add(u.ttl))
}

// Remove deletes a single line.
func (u *CartUseCase) Remove(ctx context.Context, lineID int64) error {
	line, err := u.lines.Get(ctx, lineID)
	if err != nil {
		return err
	}
	if err := u.lines.Delete(ctx, lineID); err != nil {
		return err
	}
	return u.carts.Touch(ctx, line.CartID, time.Now().Add(u.ttl))
}

// Clear removes every line of a cart.
func (u *CartUseCase) Clear(ctx context.Context, cartID uuid.UUID) error {
	return u.lines.DeleteByCart(ctx, cartID)
}

// View returns the enriched read-time projection of the owner's cart: each
// line compared against current catalog price and stock, with a warning
// rollup. It never mutates stored lines.
func (u *CartUseCase) View(ctx context.Context, tenantID int64, owner CartOwner) (*model.CartView, error) {
	cart, err := u.GetOrCreate(ctx, tenantID, owner)
	if err != nil {
		return nil, err
	}

	lines, err := u.lines.ListByCart(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	view := &model.CartView{Cart: *cart, Lines: make([]model.EnrichedCartLine, 0, len(lines))}
	if len(lines) == 0 {
		return view, nil
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	items, err := u.catalog.Items(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	for _, l := range lines {
		enriched := model.EnrichedCartLine{CartLine: l}
		if item, ok := items[l.ItemID]; ok {
			enriched.ItemName = item.Name
			enriched.CurrentPrice = item.SalePrice()
			enriched.PriceChanged = math.Abs(enriched.CurrentPrice-l.UnitPrice) > priceTolerance
			if item.TrackStock {
				enriched.AvailableStock = item.StockQuantity
				enriched.StockInsufficient = item.StockQuantity < l.Quantity
			}
		}
		if enriched.PriceChanged || enriched.StockInsufficient {
			view.HasWarnings = true
		}
		view.Subtotal += l.UnitPrice * float64(l.Quantity)
		view.ItemCount += l.Quantity
		view.Lines = append(view.Lines, enriched)
	}
	return view, nil
}

// MergeOnLogin folds the anonymous session cart into the user's cart:
// overlapping items have their quantities summed, the rest are re-owned, and
// the emptied session cart is deleted.
func (u *CartUseCase) MergeOnLogin(ctx context.Context, tenantID int64, sessionID uuid.UUID, userID int64) (*model.Cart, error) {
	sessionCart, err := u.carts.GetBySession(ctx, tenantID, sessionID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return u.GetOrCreate(ctx, tenantID, CartOwner{UserID: &userID})
		}
		return nil, err
	}

	userCart, err := u.GetOrCreate(ctx, tenantID, CartOwner{UserID: &userID, SessionID: &sessionID})
	if err != nil {
		return nil, err
	}
	if userCart.ID == sessionCart.ID {
		if userCart.UserID == nil {
			if err := u.carts.LinkUser(ctx, userCart.ID, userID); err != nil {
				return nil, err
			}
			userCart.UserID = &userID
		}
		return userCart, nil
	}

	sessionLines, err := u.lines.ListByCart(ctx, sessionCart.ID)
	if err != nil {
		return nil, err
	}
	for _, line := range sessionLines {
		target, err := u.lines.FindByItem(ctx, userCart.ID, line.ItemID)
		if err != nil {
			if !errors.Is(err, domainErrors.ErrNotFound) {
				return nil, err
			}
			if err := u.lines.Reassign(ctx, line.ID, userCart.ID); err != nil {
				return nil, err
			}
			continue
		}
		if err := u.lines.AddQuantity(ctx, target.ID, line.Quantity, time.Now()); err != nil {
			return nil, err
		}
		if err := u.lines.Delete(ctx, line.ID); err != nil {
			return nil, err
		}
	}

	if err := u.carts.Delete(ctx, sessionCart.ID); err != nil {
		return nil, err
	}
	if userCart.UserID == nil {
		if err := u.carts.LinkUser(ctx, userCart.ID, userID); err != nil {
			return nil, err
		}
		userCart.UserID = &userID
	}
	if err := u.carts.Touch(ctx, userCart.ID, time.Now().Add(u.ttl)); err != nil {
		return nil, err
	}
	return userCart, nil
}

// PurgeExpired deletes carts whose expiry passed, returning how many went.
func (u *CartUseCase) PurgeExpired(ctx context.Context, limit int) (int, error) {
	return u.carts.DeleteExpired(ctx, time.Now(), limit)
}
