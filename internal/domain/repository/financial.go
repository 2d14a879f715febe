package repository

import (
	"context"

	"github.com/vendrix/storefront/internal/domain/model"
)

// InvoiceRepository describes persistence for invoices and their lines.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) (*model.Invoice, error)
	InsertLine(ctx context.Context, line *model.InvoiceLine) error
	SetStatus(ctx context.Context, invoiceID int64, status model.FinancialStatus) error
}

// ReceivableRepository describes persistence for receivables. Status changes
// always happen per invoice so the invoice/receivable pair moves together.
type ReceivableRepository interface {
	Create(ctx context.Context, receivable *model.Receivable) (*model.Receivable, error)
	GetByInvoice(ctx context.Context, invoiceID int64) (*model.Receivable, error)
	MarkPaidByInvoice(ctx context.Context, invoiceID int64, amountReceived float64) error
	CancelByInvoice(ctx context.Context, invoiceID int64) error
}

// PaymentRepository records confirmed settlements.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) (*model.Payment, error)
}

// CommissionRepository describes persistence for partner commission entries.
type CommissionRepository interface {
	Create(ctx context.Context, entry *model.CommissionEntry) (*model.CommissionEntry, error)
	CancelByOrder(ctx context.Context, orderID int64) error
}
