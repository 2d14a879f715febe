package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendrix/storefront/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage uses; pgxmock implements
// it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Carts() repository.CartRepository           { return &cartRepository{storage: s} }
func (s *Storage) CartLines() repository.CartLineRepository   { return &cartLineRepository{storage: s} }
func (s *Storage) Orders() repository.OrderRepository         { return &orderRepository{storage: s} }
func (s *Storage) OrderLines() repository.OrderLineRepository { return &orderLineRepository{storage: s} }
func (s *Storage) Invoices() repository.InvoiceRepository     { return &invoiceRepository{storage: s} }
func (s *Storage) Receivables() repository.ReceivableRepository {
	return &receivableRepository{storage: s}
}
func (s *Storage) Payments() repository.PaymentRepository { return &paymentRepository{storage: s} }
func (s *Storage) Commissions() repository.CommissionRepository {
	return &commissionRepository{storage: s}
}
func (s *Storage) StockLedger() repository.StockLedgerRepository {
	return &stockLedgerRepository{storage: s}
}
func (s *Storage) Settings() repository.SettingsRepository { return &settingsRepository{storage: s} }

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS carts (
            id UUID PRIMARY KEY,
            tenant_id BIGINT NOT NULL,
            user_id BIGINT,
            session_id UUID,
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
            id BIGSERIAL PRIMARY KEY,
            cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
            item_id BIGINT NOT NULL,
            partner_id BIGINT,
            quantity INT NOT NULL CHECK (quantity > 0),
            unit_price DOUBLE PRECISION NOT NULL,
            reserved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (cart_id, item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            tenant_id BIGINT NOT NULL,
            customer_id BIGINT NOT NULL,
            user_id BIGINT,
            channel TEXT NOT NULL,
            status TEXT NOT NULL,
            online_status TEXT NOT NULL,
            subtotal DOUBLE PRECISION NOT NULL,
            discount_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
            discount_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
            shipping_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
            tax DOUBLE PRECISION NOT NULL DEFAULT 0,
            total DOUBLE PRECISION NOT NULL,
            partner_id BIGINT,
            invoice_id BIGINT,
            shipping_address JSONB,
            has_pending_products BOOLEAN NOT NULL DEFAULT FALSE,
            has_pending_services BOOLEAN NOT NULL DEFAULT FALSE,
            tracking_code TEXT,
            estimated_delivery TIMESTAMPTZ,
            paid_at TIMESTAMPTZ,
            cancel_reason TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_lines (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            parent_line_id BIGINT REFERENCES order_lines(id),
            item_id BIGINT NOT NULL,
            kind TEXT NOT NULL,
            quantity INT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL,
            cost_price DOUBLE PRECISION NOT NULL DEFAULT 0,
            commission_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
            commission_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
            separation_status TEXT NOT NULL,
            delivery_status TEXT NOT NULL,
            fulfillment_status TEXT NOT NULL,
            is_composition_parent BOOLEAN NOT NULL DEFAULT FALSE,
            position INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS invoices (
            id BIGSERIAL PRIMARY KEY,
            tenant_id BIGINT NOT NULL,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            customer_id BIGINT NOT NULL,
            total DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS invoice_lines (
            id BIGSERIAL PRIMARY KEY,
            invoice_id BIGINT NOT NULL REFERENCES invoices(id),
            item_id BIGINT NOT NULL,
            quantity INT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS receivables (
            id BIGSERIAL PRIMARY KEY,
            tenant_id BIGINT NOT NULL,
            invoice_id BIGINT NOT NULL REFERENCES invoices(id),
            customer_id BIGINT NOT NULL,
            amount DOUBLE PRECISION NOT NULL,
            amount_received DOUBLE PRECISION NOT NULL DEFAULT 0,
            due_date TIMESTAMPTZ NOT NULL,
            payment_method TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            amount DOUBLE PRECISION NOT NULL,
            method TEXT NOT NULL DEFAULT '',
            paid_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS commission_entries (
            id BIGSERIAL PRIMARY KEY,
            tenant_id BIGINT NOT NULL,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            partner_id BIGINT NOT NULL,
            amount DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS stock_ledger (
            id BIGSERIAL PRIMARY KEY,
            tenant_id BIGINT NOT NULL,
            item_id BIGINT NOT NULL,
            quantity INT NOT NULL,
            order_id BIGINT NOT NULL,
            actor_id BIGINT,
            reason TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS merchant_settings (
            tenant_id BIGINT PRIMARY KEY,
            payment_key TEXT NOT NULL DEFAULT '',
            minimum_order_value DOUBLE PRECISION NOT NULL DEFAULT 0,
            free_shipping_threshold DOUBLE PRECISION NOT NULL DEFAULT 0,
            default_partner_id BIGINT,
            commission_override_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
            receivable_due_days INT NOT NULL DEFAULT 3
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_tenant_user ON carts(tenant_id, user_id) WHERE user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_tenant_session ON carts(tenant_id, session_id) WHERE session_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_carts_expiry ON carts(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_tenant ON orders(tenant_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_ledger_order ON stock_ledger(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
