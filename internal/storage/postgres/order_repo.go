package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
)

type orderRepository struct {
	storage *Storage
}

type orderLineRepository struct {
	storage *Storage
}

const orderColumns = `id, tenant_id, customer_id, user_id, channel, status, online_status,
        subtotal, discount_amount, discount_percent, shipping_cost, tax, total,
        partner_id, invoice_id, shipping_address, has_pending_products, has_pending_services,
        tracking_code, estimated_delivery, paid_at, cancel_reason, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var address []byte
	err := row.Scan(&o.ID, &o.TenantID, &o.CustomerID, &o.UserID, &o.Channel, &o.Status, &o.OnlineStatus,
		&o.Subtotal, &o.DiscountAmount, &o.DiscountPercent, &o.ShippingCost, &o.Tax, &o.Total,
		&o.PartnerID, &o.InvoiceID, &address, &o.HasPendingProducts, &o.HasPendingServices,
		&o.TrackingCode, &o.EstimatedDelivery, &o.PaidAt, &o.CancelReason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if len(address) > 0 {
		var a model.Address
		if err := json.Unmarshal(address, &a); err != nil {
			return nil, err
		}
		o.ShippingAddress = &a
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	var address any
	if order.ShippingAddress != nil {
		encoded, err := json.Marshal(order.ShippingAddress)
		if err != nil {
			return nil, err
		}
		address = encoded
	}

	const query = `INSERT INTO orders (
            tenant_id, customer_id, user_id, channel, status, online_status,
            subtotal, discount_amount, discount_percent, shipping_cost, tax, total,
            partner_id, shipping_address, has_pending_products, has_pending_services)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING id, created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		order.TenantID, order.CustomerID, order.UserID, order.Channel, order.Status, order.OnlineStatus,
		order.Subtotal, order.DiscountAmount, order.DiscountPercent, order.ShippingCost, order.Tax, order.Total,
		order.PartnerID, address, order.HasPendingProducts, order.HasPendingServices).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Get(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id=$1 AND id=$2`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, tenantID, orderID))
}

func (r *orderRepository) SetInvoice(ctx context.Context, orderID, invoiceID int64) error {
	const query = `UPDATE orders SET invoice_id=$2, updated_at=NOW() WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, orderID, invoiceID)
	return err
}

func (r *orderRepository) listQuery(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, tenantID, userID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
                   WHERE tenant_id=$1 AND user_id=$2 ORDER BY created_at DESC`
	return r.listQuery(ctx, query, tenantID, userID)
}

func (r *orderRepository) ListByTenant(ctx context.Context, tenantID int64, filter model.OrderFilter) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id=$1`
	args := []any{tenantID}
	if filter.OnlineStatus != nil {
		args = append(args, *filter.OnlineStatus)
		query += ` AND online_status=$2`
	}
	if filter.PartnerID != nil {
		args = append(args, *filter.PartnerID)
		if len(args) == 2 {
			query += ` AND partner_id=$2`
		} else {
			query += ` AND partner_id=$3`
		}
	}
	query += ` ORDER BY created_at DESC`
	return r.listQuery(ctx, query, args...)
}

func (r *orderRepository) CountByStatus(ctx context.Context, tenantID int64) (map[model.OnlineStatus]int, error) {
	const query = `SELECT online_status, COUNT(*) FROM orders WHERE tenant_id=$1 GROUP BY online_status`
	rows, err := r.storage.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.OnlineStatus]int)
	for rows.Next() {
		var status model.OnlineStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, orderID int64, paidAt time.Time) (bool, error) {
	const query = `UPDATE orders SET online_status=$2, paid_at=$3, updated_at=NOW()
                   WHERE id=$1 AND online_status=$4`
	tag, err := r.storage.pool.Exec(ctx, query,
		orderID, model.OnlineStatusPaymentConfirmed, paidAt, model.OnlineStatusPendingPayment)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepository) AdvanceStatus(ctx context.Context, orderID int64, from, to model.OnlineStatus, meta *repository.ShippingMeta) (bool, error) {
	var tracking *string
	var eta *time.Time
	if meta != nil {
		tracking = meta.TrackingCode
		eta = meta.EstimatedDelivery
	}

	const query = `UPDATE orders SET online_status=$3,
                       tracking_code = COALESCE($4, tracking_code),
                       estimated_delivery = COALESCE($5, estimated_delivery),
                       status = CASE
                           WHEN $3 = 'completed' THEN 'completed'
                           WHEN $3 = 'cancelled' THEN 'cancelled'
                           ELSE status
                       END,
                       updated_at=NOW()
                   WHERE id=$1 AND online_status=$2`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, from, to, tracking, eta)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepository) MarkCancelled(ctx context.Context, orderID int64, from []model.OnlineStatus, reason *string) (bool, error) {
	statuses := make([]string, 0, len(from))
	for _, s := range from {
		statuses = append(statuses, string(s))
	}

	const query = `UPDATE orders SET status=$2, online_status=$3, cancel_reason=$4, updated_at=NOW()
                   WHERE id=$1 AND online_status = ANY($5)`
	tag, err := r.storage.pool.Exec(ctx, query,
		orderID, model.OrderStatusCancelled, model.OnlineStatusCancelled, reason, statuses)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const orderLineColumns = `id, order_id, parent_line_id, item_id, kind, quantity, unit_price, cost_price,
        commission_rate, commission_amount, separation_status, delivery_status, fulfillment_status,
        is_composition_parent, position`

func (r *orderLineRepository) Insert(ctx context.Context, line *model.OrderLine) (*model.OrderLine, error) {
	const query = `INSERT INTO order_lines (
            order_id, parent_line_id, item_id, kind, quantity, unit_price, cost_price,
            commission_rate, commission_amount, separation_status, delivery_status,
            fulfillment_status, is_composition_parent, position)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query,
		line.OrderID, line.ParentLineID, line.ItemID, line.Kind, line.Quantity, line.UnitPrice, line.CostPrice,
		line.CommissionRate, line.CommissionAmount, line.SeparationStatus, line.DeliveryStatus,
		line.FulfillmentStatus, line.IsCompositionParent, line.Position).
		Scan(&line.ID)
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (r *orderLineRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	const query = `SELECT ` + orderLineColumns + ` FROM order_lines WHERE order_id=$1 ORDER BY position`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		err := rows.Scan(&l.ID, &l.OrderID, &l.ParentLineID, &l.ItemID, &l.Kind, &l.Quantity, &l.UnitPrice,
			&l.CostPrice, &l.CommissionRate, &l.CommissionAmount, &l.SeparationStatus, &l.DeliveryStatus,
			&l.FulfillmentStatus, &l.IsCompositionParent, &l.Position)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderLineRepository) CancelOpenStatuses(ctx context.Context, orderID int64) error {
	const query = `UPDATE order_lines SET
            separation_status  = CASE WHEN separation_status  <> 'not_required' THEN 'cancelled' ELSE separation_status  END,
            delivery_status    = CASE WHEN delivery_status    <> 'not_required' THEN 'cancelled' ELSE delivery_status    END,
            fulfillment_status = CASE WHEN fulfillment_status <> 'not_required' THEN 'cancelled' ELSE fulfillment_status END
        WHERE order_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, orderID)
	return err
}
