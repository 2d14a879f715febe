package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vendrix/storefront/internal/domain/model"
)

// CartRepository describes persistence operations for carts.
type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) (*model.Cart, error)
	GetByUser(ctx context.Context, tenantID, userID int64) (*model.Cart, error)
	GetBySession(ctx context.Context, tenantID int64, sessionID uuid.UUID) (*model.Cart, error)
	Touch(ctx context.Context, cartID uuid.UUID, expiresAt time.Time) error
	LinkUser(ctx context.Context, cartID uuid.UUID, userID int64) error
	Delete(ctx context.Context, cartID uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error)
}

// CartLineRepository describes persistence operations for cart lines.
type CartLineRepository interface {
	Insert(ctx context.Context, line *model.CartLine) (*model.CartLine, error)
	Get(ctx context.Context, lineID int64) (*model.CartLine, error)
	FindByItem(ctx context.Context, cartID uuid.UUID, itemID int64) (*model.CartLine, error)
	ListByCart(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error)
	AddQuantity(ctx context.Context, lineID int64, delta int, reservedAt time.Time) error
	SetQuantity(ctx context.Context, lineID int64, quantity int) error
	Reassign(ctx context.Context, lineID int64, cartID uuid.UUID) error
	Delete(ctx context.Context, lineID int64) error
	DeleteByCart(ctx context.Context, cartID uuid.UUID) error
}
