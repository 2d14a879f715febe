package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
)

type cartRepository struct {
	storage *Storage
}

type cartLineRepository struct {
	storage *Storage
}

const cartColumns = `id, tenant_id, user_id, session_id, expires_at, created_at, updated_at`

func scanCart(row pgx.Row) (*model.Cart, error) {
	var c model.Cart
	err := row.Scan(&c.ID, &c.TenantID, &c.UserID, &c.SessionID, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	const query = `INSERT INTO carts (id, tenant_id, user_id, session_id, expires_at)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query, cart.ID, cart.TenantID, cart.UserID, cart.SessionID, cart.ExpiresAt).
		Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) GetByUser(ctx context.Context, tenantID, userID int64) (*model.Cart, error) {
	const query = `SELECT ` + cartColumns + ` FROM carts
                   WHERE tenant_id=$1 AND user_id=$2 AND expires_at > NOW()`
	return scanCart(r.storage.pool.QueryRow(ctx, query, tenantID, userID))
}

func (r *cartRepository) GetBySession(ctx context.Context, tenantID int64, sessionID uuid.UUID) (*model.Cart, error) {
	const query = `SELECT ` + cartColumns + ` FROM carts
                   WHERE tenant_id=$1 AND session_id=$2 AND expires_at > NOW()`
	return scanCart(r.storage.pool.QueryRow(ctx, query, tenantID, sessionID))
}

func (r *cartRepository) Touch(ctx context.Context, cartID uuid.UUID, expiresAt time.Time) error {
	const query = `UPDATE carts SET expires_at=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, cartID, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) LinkUser(ctx context.Context, cartID uuid.UUID, userID int64) error {
	const query = `UPDATE carts SET user_id=$2, updated_at=NOW() WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, cartID, userID)
	return err
}

func (r *cartRepository) Delete(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM carts WHERE id=$1`, cartID)
	return err
}

func (r *cartRepository) DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error) {
	const query = `DELETE FROM carts WHERE id IN (
                       SELECT id FROM carts WHERE expires_at <= $1 LIMIT $2
                   )`
	tag, err := r.storage.pool.Exec(ctx, query, before, limit)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

const cartLineColumns = `id, cart_id, item_id, partner_id, quantity, unit_price, reserved_at`

func scanCartLine(row pgx.Row) (*model.CartLine, error) {
	var l model.CartLine
	err := row.Scan(&l.ID, &l.CartID, &l.ItemID, &l.PartnerID, &l.Quantity, &l.UnitPrice, &l.ReservedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *cartLineRepository) Insert(ctx context.Context, line *model.CartLine) (*model.CartLine, error) {
	const query = `INSERT INTO cart_lines (cart_id, item_id, partner_id, quantity, unit_price, reserved_at)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query,
		line.CartID, line.ItemID, line.PartnerID, line.Quantity, line.UnitPrice, line.ReservedAt).
		Scan(&line.ID)
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (r *cartLineRepository) Get(ctx context.Context, lineID int64) (*model.CartLine, error) {
	const query = `SELECT ` + cartLineColumns + ` FROM cart_lines WHERE id=$1`
	return scanCartLine(r.storage.pool.QueryRow(ctx, query, lineID))
}

func (r *cartLineRepository) FindByItem(ctx context.Context, cartID uuid.UUID, itemID int64) (*model.CartLine, error) {
	const query = `SELECT ` + cartLineColumns + ` FROM cart_lines WHERE cart_id=$1 AND item_id=$2`
	return scanCartLine(r.storage.pool.QueryRow(ctx, query, cartID, itemID))
}

func (r *cartLineRepository) ListByCart(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	const query = `SELECT ` + cartLineColumns + ` FROM cart_lines WHERE cart_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ID, &l.CartID, &l.ItemID, &l.PartnerID, &l.Quantity, &l.UnitPrice, &l.ReservedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartLineRepository) AddQuantity(ctx context.Context, lineID int64, delta int, reservedAt time.Time) error {
	const query = `UPDATE cart_lines SET quantity = quantity + $2, reserved_at=$3 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, lineID, delta, reservedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartLineRepository) SetQuantity(ctx context.Context, lineID int64, quantity int) error {
	const query = `UPDATE cart_lines SET quantity=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, lineID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartLineRepository) Reassign(ctx context.Context, lineID int64, cartID uuid.UUID) error {
	const query = `UPDATE cart_lines SET cart_id=$2 WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, lineID, cartID)
	return err
}

func (r *cartLineRepository) Delete(ctx context.Context, lineID int64) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id=$1`, lineID)
	return err
}

func (r *cartLineRepository) DeleteByCart(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id=$1`, cartID)
	return err
}
