package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
)

type invoiceRepository struct {
	storage *Storage
}

type receivableRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

type commissionRepository struct {
	storage *Storage
}

type stockLedgerRepository struct {
	storage *Storage
}

type settingsRepository struct {
	storage *Storage
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) (*model.Invoice, error) {
	const query = `INSERT INTO invoices (tenant_id, order_id, customer_id, total, status)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		invoice.TenantID, invoice.OrderID, invoice.CustomerID, invoice.Total, invoice.Status).
		Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepository) InsertLine(ctx context.Context, line *model.InvoiceLine) error {
	const query = `INSERT INTO invoice_lines (invoice_id, item_id, quantity, unit_price)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id`
	return r.storage.pool.QueryRow(ctx, query, line.InvoiceID, line.ItemID, line.Quantity, line.UnitPrice).
		Scan(&line.ID)
}

func (r *invoiceRepository) SetStatus(ctx context.Context, invoiceID int64, status model.FinancialStatus) error {
	const query = `UPDATE invoices SET status=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, invoiceID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *receivableRepository) Create(ctx context.Context, receivable *model.Receivable) (*model.Receivable, error) {
	const query = `INSERT INTO receivables (tenant_id, invoice_id, customer_id, amount, amount_received, due_date, payment_method, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		receivable.TenantID, receivable.InvoiceID, receivable.CustomerID, receivable.Amount,
		receivable.AmountReceived, receivable.DueDate, receivable.PaymentMethod, receivable.Status).
		Scan(&receivable.ID, &receivable.CreatedAt)
	if err != nil {
		return nil, err
	}
	return receivable, nil
}

func (r *receivableRepository) GetByInvoice(ctx context.Context, invoiceID int64) (*model.Receivable, error) {
	const query = `SELECT id, tenant_id, invoice_id, customer_id, amount, amount_received, due_date, payment_method, status, created_at
                   FROM receivables WHERE invoice_id=$1`
	var rec model.Receivable
	err := r.storage.pool.QueryRow(ctx, query, invoiceID).Scan(
		&rec.ID, &rec.TenantID, &rec.InvoiceID, &rec.CustomerID, &rec.Amount,
		&rec.AmountReceived, &rec.DueDate, &rec.PaymentMethod, &rec.Status, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *receivableRepository) MarkPaidByInvoice(ctx context.Context, invoiceID int64, amountReceived float64) error {
	const query = `UPDATE receivables SET status=$2, amount_received=$3 WHERE invoice_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, invoiceID, model.FinancialPaid, amountReceived)
	return err
}

func (r *receivableRepository) CancelByInvoice(ctx context.Context, invoiceID int64) error {
	const query = `UPDATE receivables SET status=$2 WHERE invoice_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, invoiceID, model.FinancialCancelled)
	return err
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	const query = `INSERT INTO payments (order_id, amount, method, paid_at)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query, payment.OrderID, payment.Amount, payment.Method, payment.PaidAt).
		Scan(&payment.ID)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *commissionRepository) Create(ctx context.Context, entry *model.CommissionEntry) (*model.CommissionEntry, error) {
	const query = `INSERT INTO commission_entries (tenant_id, order_id, partner_id, amount, status)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		entry.TenantID, entry.OrderID, entry.PartnerID, entry.Amount, entry.Status).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *commissionRepository) CancelByOrder(ctx context.Context, orderID int64) error {
	const query = `UPDATE commission_entries SET status=$2 WHERE order_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, orderID, model.FinancialCancelled)
	return err
}

func (r *stockLedgerRepository) Record(ctx context.Context, entry *model.StockLedgerEntry) (*model.StockLedgerEntry, error) {
	const query = `INSERT INTO stock_ledger (tenant_id, item_id, quantity, order_id, actor_id, reason)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		entry.TenantID, entry.ItemID, entry.Quantity, entry.OrderID, entry.ActorID, entry.Reason).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *stockLedgerRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.StockLedgerEntry, error) {
	const query = `SELECT id, tenant_id, item_id, quantity, order_id, actor_id, reason, created_at
                   FROM stock_ledger WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StockLedgerEntry
	for rows.Next() {
		var e model.StockLedgerEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.ItemID, &e.Quantity, &e.OrderID, &e.ActorID, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *settingsRepository) Get(ctx context.Context, tenantID int64) (*model.MerchantSettings, error) {
	const query = `SELECT tenant_id, payment_key, minimum_order_value, free_shipping_threshold,
                          default_partner_id, commission_override_rate, receivable_due_days
                   FROM merchant_settings WHERE tenant_id=$1`
	var s model.MerchantSettings
	err := r.storage.pool.QueryRow(ctx, query, tenantID).
		Scan(&s.TenantID, &s.PaymentKey, &s.MinimumOrderValue, &s.FreeShippingThreshold,
			&s.DefaultPartnerID, &s.CommissionOverrideRate, &s.ReceivableDueDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
