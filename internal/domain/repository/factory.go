package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Carts() CartRepository
	CartLines() CartLineRepository
	Orders() OrderRepository
	OrderLines() OrderLineRepository
	Invoices() InvoiceRepository
	Receivables() ReceivableRepository
	Payments() PaymentRepository
	Commissions() CommissionRepository
	StockLedger() StockLedgerRepository
	Settings() SettingsRepository
}
