package model

import "time"

// StockLedgerEntry is one signed quantity delta in the append-only stock
// ledger. Cancellation reverses by inserting an equal-and-opposite entry,
// never by mutating the original.
type StockLedgerEntry struct {
	ID        int64
	TenantID  int64
	ItemID    int64
	Quantity  int
	OrderID   int64
	ActorID   *int64
	Reason    string
	CreatedAt time.Time
}
