package repository

import (
	"context"

	"github.com/vendrix/storefront/internal/domain/model"
)

// StockLedgerRepository is the append-only stock ledger sink. Entries are
// never updated or deleted; reversals are new rows.
type StockLedgerRepository interface {
	Record(ctx context.Context, entry *model.StockLedgerEntry) (*model.StockLedgerEntry, error)
	ListByOrder(ctx context.Context, orderID int64) ([]model.StockLedgerEntry, error)
}

// SettingsRepository loads tenant commerce configuration.
type SettingsRepository interface {
	Get(ctx context.Context, tenantID int64) (*model.MerchantSettings, error)
}
