package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
)

// CartRepositoryStub stores carts in-memory for tests.
type CartRepositoryStub struct {
	mu    sync.Mutex
	Carts map[uuid.UUID]*model.Cart
	Err   error
}

// NewCartRepositoryStub constructs the stub with initialized storage.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Carts: make(map[uuid.UUID]*model.Cart)}
}

func (s *CartRepositoryStub) Create(_ context.Context, cart *model.Cart) (*model.Cart, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *cart
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Carts[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (s *CartRepositoryStub) GetByUser(_ context.Context, tenantID, userID int64) (*model.Cart, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cart := range s.Carts {
		if cart.TenantID == tenantID && cart.UserID != nil && *cart.UserID == userID && cart.ExpiresAt.After(time.Now()) {
			result := *cart
			return &result, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CartRepositoryStub) GetBySession(_ context.Context, tenantID int64, sessionID uuid.UUID) (*model.Cart, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cart := range s.Carts {
		if cart.TenantID == tenantID && cart.SessionID != nil && *cart.SessionID == sessionID && cart.ExpiresAt.After(time.Now()) {
			result := *cart
			return &result, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CartRepositoryStub) Touch(_ context.Context, cartID uuid.UUID, expiresAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.Carts[cartID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	cart.ExpiresAt = expiresAt
	cart.UpdatedAt = time.Now()
	return nil
}

func (s *CartRepositoryStub) LinkUser(_ context.Context, cartID uuid.UUID, userID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.Carts[cartID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	cart.UserID = &userID
	return nil
}

func (s *CartRepositoryStub) Delete(_ context.Context, cartID uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Carts, cartID)
	return nil
}

func (s *CartRepositoryStub) DeleteExpired(_ context.Context, before time.Time, limit int) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, cart := range s.Carts {
		if removed >= limit {
			break
		}
		if cart.ExpiresAt.Before(before) {
			delete(s.Carts, id)
			removed++
		}
	}
	return removed, nil
}

// CartLineRepositoryStub stores cart lines in-memory for tests.
type CartLineRepositoryStub struct {
	mu    sync.Mutex
	Lines map[int64]*model.CartLine
	Next  int64
	Err   error
}

// NewCartLineRepositoryStub constructs the stub with initialized storage.
func NewCartLineRepositoryStub() *CartLineRepositoryStub {
	return &CartLineRepositoryStub{Lines: make(map[int64]*model.CartLine), Next: 1}
}

func (s *CartLineRepositoryStub) Insert(_ context.Context, line *model.CartLine) (*model.CartLine, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *line
	stored.ID = s.Next
	s.Next++
	s.Lines[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (s *CartLineRepositoryStub) Get(_ context.Context, lineID int64) (*model.CartLine, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.Lines[lineID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	result := *line
	return &result, nil
}

func (s *CartLineRepositoryStub) FindByItem(_ context.Context, cartID uuid.UUID, itemID int64) (*model.CartLine, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.Lines {
		if line.CartID == cartID && line.ItemID == itemID {
			result := *line
			return &result, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CartLineRepositoryStub) ListByCart(_ context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.CartLine
	for id := int64(1); id < s.Next; id++ {
		if line, ok := s.Lines[id]; ok && line.CartID == cartID {
			result = append(result, *line)
		}
	}
	return result, nil
}

func (s *CartLineRepositoryStub) AddQuantity(_ context.Context, lineID int64, delta int, reservedAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.Lines[lineID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	line.Quantity += delta
	line.ReservedAt = reservedAt
	return nil
}

func (s *CartLineRepositoryStub) SetQuantity(_ context.Context, lineID int64, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.Lines[lineID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	line.Quantity = quantity
	return nil
}

func (s *CartLineRepositoryStub) Reassign(_ context.Context, lineID int64, cartID uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.Lines[lineID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	line.CartID = cartID
	return nil
}

func (s *CartLineRepositoryStub) Delete(_ context.Context, lineID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Lines, lineID)
	return nil
}

func (s *CartLineRepositoryStub) DeleteByCart(_ context.Context, cartID uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, line := range s.Lines {
		if line.CartID == cartID {
			delete(s.Lines, id)
		}
	}
	return nil
}

// OrderRepositoryStub stores orders in-memory with guarded transitions.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[int64]*model.Order
	Next   int64
	Err    error
}

// NewOrderRepositoryStub constructs the stub with initialized storage.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[int64]*model.Order), Next: 1}
}

func (s *OrderRepositoryStub) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *order
	stored.ID = s.Next
	s.Next++
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Orders[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (s *OrderRepositoryStub) Get(_ context.Context, tenantID, orderID int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[orderID]
	if !ok || order.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	result := *order
	return &result, nil
}

func (s *OrderRepositoryStub) SetInvoice(_ context.Context, orderID, invoiceID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.InvoiceID = &invoiceID
	return nil
}

func (s *OrderRepositoryStub) ListByUser(_ context.Context, tenantID, userID int64) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for id := int64(1); id < s.Next; id++ {
		order, ok := s.Orders[id]
		if ok && order.TenantID == tenantID && order.UserID != nil && *order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (s *OrderRepositoryStub) ListByTenant(_ context.Context, tenantID int64, filter model.OrderFilter) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for id := int64(1); id < s.Next; id++ {
		order, ok := s.Orders[id]
		if !ok || order.TenantID != tenantID {
			continue
		}
		if filter.OnlineStatus != nil && order.OnlineStatus != *filter.OnlineStatus {
			continue
		}
		if filter.PartnerID != nil && (order.PartnerID == nil || *order.PartnerID != *filter.PartnerID) {
			continue
		}
		result = append(result, *order)
	}
	return result, nil
}

func (s *OrderRepositoryStub) CountByStatus(_ context.Context, tenantID int64) (map[model.OnlineStatus]int, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[model.OnlineStatus]int)
	for _, order := range s.Orders {
		if order.TenantID == tenantID {
			counts[order.OnlineStatus]++
		}
	}
	return counts, nil
}

func (s *OrderRepositoryStub) MarkPaid(_ context.Context, orderID int64, paidAt time.Time) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[orderID]
	if !ok || order.OnlineStatus != model.OnlineStatusPendingPayment {
		return false, nil
	}
	order.OnlineStatus = model.OnlineStatusPaymentConfirmed
	order.PaidAt = &paidAt
	return true, nil
}

func (s *OrderRepositoryStub) AdvanceStatus(_ context.Context, orderID int64, from, to model.OnlineStatus, meta *repository.ShippingMeta) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[orderID]
	if !ok || order.OnlineStatus != from {
		return false, nil
	}
	order.OnlineStatus = to
	if meta != nil {
		order.TrackingCode = meta.TrackingCode
		order.EstimatedDelivery = meta.EstimatedDelivery
	}
	switch to {
	case model.OnlineStatusCompleted:
		order.Status = model.OrderStatusCompleted
	case model.OnlineStatusCancelled:
		order.Status = model.OrderStatusCancelled
	}
	return true, nil
}

func (s *OrderRepositoryStub) MarkCancelled(_ context.Context, orderID int64, from []model.OnlineStatus, reason *string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[orderID]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, status := range from {
		if order.OnlineStatus == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	order.OnlineStatus = model.OnlineStatusCancelled
	order.Status = model.OrderStatusCancelled
	order.CancelReason = reason
	return true, nil
}

// OrderLineRepositoryStub stores order lines in-memory.
type OrderLineRepositoryStub struct {
	mu    sync.Mutex
	Lines []model.OrderLine
	Next  int64
	Err   error
}

// NewOrderLineRepositoryStub constructs the stub.
func NewOrderLineRepositoryStub() *OrderLineRepositoryStub {
	return &OrderLineRepositoryStub{Next: 1}
}

func (s *OrderLineRepositoryStub) Insert(_ context.Context, line *model.OrderLine) (*model.OrderLine, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *line
	stored.ID = s.Next
	s.Next++
	s.Lines = append(s.Lines, stored)
	result := stored
	return &result, nil
}

func (s *OrderLineRepositoryStub) ListByOrder(_ context.Context, orderID int64) ([]model.OrderLine, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.OrderLine
	for _, line := range s.Lines {
		if line.OrderID == orderID {
			result = append(result, line)
		}
	}
	return result, nil
}

func (s *OrderLineRepositoryStub) CancelOpenStatuses(_ context.Context, orderID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Lines {
		if s.Lines[i].OrderID != orderID {
			continue
		}
		if s.Lines[i].SeparationStatus != model.FulfillmentNotRequired {
			s.Lines[i].SeparationStatus = model.FulfillmentCancelled
		}
		if s.Lines[i].DeliveryStatus != model.FulfillmentNotRequired {
			s.Lines[i].DeliveryStatus = model.FulfillmentCancelled
		}
		if s.Lines[i].FulfillmentStatus != model.FulfillmentNotRequired {
			s.Lines[i].FulfillmentStatus = model.FulfillmentCancelled
		}
	}
	return nil
}

// InvoiceRepositoryStub stores invoices and invoice lines in-memory.
type InvoiceRepositoryStub struct {
	mu       sync.Mutex
	Invoices map[int64]*model.Invoice
	Lines    []model.InvoiceLine
	Next     int64
	Err      error
}

// NewInvoiceRepositoryStub constructs the stub.
func NewInvoiceRepositoryStub() *InvoiceRepositoryStub {
	return &InvoiceRepositoryStub{Invoices: make(map[int64]*model.Invoice), Next: 1}
}

func (s *InvoiceRepositoryStub) Create(_ context.Context, invoice *model.Invoice) (*model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *invoice
	stored.ID = s.Next
	s.Next++
	stored.CreatedAt = time.Now()
	s.Invoices[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (s *InvoiceRepositoryStub) InsertLine(_ context.Context, line *model.InvoiceLine) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *line
	stored.ID = int64(len(s.Lines) + 1)
	s.Lines = append(s.Lines, stored)
	return nil
}

func (s *InvoiceRepositoryStub) SetStatus(_ context.Context, invoiceID int64, status model.FinancialStatus) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice, ok := s.Invoices[invoiceID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	invoice.Status = status
	return nil
}

// ReceivableRepositoryStub stores receivables in-memory.
type ReceivableRepositoryStub struct {
	mu          sync.Mutex
	Receivables map[int64]*model.Receivable
	Next        int64
	Err         error
}

// NewReceivableRepositoryStub constructs the stub.
func NewReceivableRepositoryStub() *ReceivableRepositoryStub {
	return &ReceivableRepositoryStub{Receivables: make(map[int64]*model.Receivable), Next: 1}
}

func (s *ReceivableRepositoryStub) Create(_ context.Context, receivable *model.Receivable) (*model.Receivable, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *receivable
	stored.ID = s.Next
	s.Next++
	stored.CreatedAt = time.Now()
	s.Receivables[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (s *ReceivableRepositoryStub) GetByInvoice(_ context.Context, invoiceID int64) (*model.Receivable, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Receivables {
		if r.InvoiceID == invoiceID {
			result := *r
			return &result, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ReceivableRepositoryStub) MarkPaidByInvoice(_ context.Context, invoiceID int64, amountReceived float64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Receivables {
		if r.InvoiceID == invoiceID {
			r.Status = model.FinancialPaid
			r.AmountReceived = amountReceived
		}
	}
	return nil
}

func (s *ReceivableRepositoryStub) CancelByInvoice(_ context.Context, invoiceID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Receivables {
		if r.InvoiceID == invoiceID {
			r.Status = model.FinancialCancelled
		}
	}
	return nil
}

// PaymentRepositoryStub records settlements in-memory.
type PaymentRepositoryStub struct {
	mu       sync.Mutex
	Payments []model.Payment
	Err      error
}

// NewPaymentRepositoryStub constructs the stub.
func NewPaymentRepositoryStub() *PaymentRepositoryStub {
	return &PaymentRepositoryStub{}
}

func (s *PaymentRepositoryStub) Create(_ context.Context, payment *model.Payment) (*model.Payment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *payment
	stored.ID = int64(len(s.Payments) + 1)
	s.Payments = append(s.Payments, stored)
	result := stored
	return &result, nil
}

// CommissionRepositoryStub stores commission entries in-memory.
type CommissionRepositoryStub struct {
	mu      sync.Mutex
	Entries []model.CommissionEntry
	Err     error
}

// NewCommissionRepositoryStub constructs the stub.
func NewCommissionRepositoryStub() *CommissionRepositoryStub {
	return &CommissionRepositoryStub{}
}

func (s *CommissionRepositoryStub) Create(_ context.Context, entry *model.CommissionEntry) (*model.CommissionEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *entry
	stored.ID = int64(len(s.Entries) + 1)
	stored.CreatedAt = time.Now()
	s.Entries = append(s.Entries, stored)
	result := stored
	return &result, nil
}

func (s *CommissionRepositoryStub) CancelByOrder(_ context.Context, orderID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Entries {
		if s.Entries[i].OrderID == orderID {
			s.Entries[i].Status = model.FinancialCancelled
		}
	}
	return nil
}

// StockLedgerRepositoryStub is an append-only in-memory ledger.
type StockLedgerRepositoryStub struct {
	mu      sync.Mutex
	Entries []model.StockLedgerEntry
	Err     error
}

// NewStockLedgerRepositoryStub constructs the stub.
func NewStockLedgerRepositoryStub() *StockLedgerRepositoryStub {
	return &StockLedgerRepositoryStub{}
}

func (s *StockLedgerRepositoryStub) Record(_ context.Context, entry *model.StockLedgerEntry) (*model.StockLedgerEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *entry
	stored.ID = int64(len(s.Entries) + 1)
	stored.CreatedAt = time.Now()
	s.Entries = append(s.Entries, stored)
	result := stored
	return &result, nil
}

func (s *StockLedgerRepositoryStub) ListByOrder(_ context.Context, orderID int64) ([]model.StockLedgerEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.StockLedgerEntry
	for _, entry := range s.Entries {
		if entry.OrderID == orderID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// SettingsRepositoryStub serves merchant settings from a map.
type SettingsRepositoryStub struct {
	Settings map[int64]*model.MerchantSettings
	Err      error
}

// NewSettingsRepositoryStub constructs the stub.
func NewSettingsRepositoryStub() *SettingsRepositoryStub {
	return &SettingsRepositoryStub{Settings: make(map[int64]*model.MerchantSettings)}
}

func (s *SettingsRepositoryStub) Get(_ context.Context, tenantID int64) (*model.MerchantSettings, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	settings, ok := s.Settings[tenantID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	result := *settings
	return &result, nil
}

// RepositoryFactoryStub aggregates all in-memory repositories.
type RepositoryFactoryStub struct {
	CartRepo        *CartRepositoryStub
	CartLineRepo    *CartLineRepositoryStub
	OrderRepo       *OrderRepositoryStub
	OrderLineRepo   *OrderLineRepositoryStub
	InvoiceRepo     *InvoiceRepositoryStub
	ReceivableRepo  *ReceivableRepositoryStub
	PaymentRepo     *PaymentRepositoryStub
	CommissionRepo  *CommissionRepositoryStub
	StockLedgerRepo *StockLedgerRepositoryStub
	SettingsRepo    *SettingsRepositoryStub
}

// NewRepositoryFactoryStub builds a factory with fresh in-memory repositories.
func NewRepositoryFactoryStub() *RepositoryFactoryStub {
	return &RepositoryFactoryStub{
		CartRepo:        NewCartRepositoryStub(),
		CartLineRepo:    NewCartLineRepositoryStub(),
		OrderRepo:       NewOrderRepositoryStub(),
		OrderLineRepo:   NewOrderLineRepositoryStub(),
		InvoiceRepo:     NewInvoiceRepositoryStub(),
		ReceivableRepo:  NewReceivableRepositoryStub(),
		PaymentRepo:     NewPaymentRepositoryStub(),
		CommissionRepo:  NewCommissionRepositoryStub(),
		StockLedgerRepo: NewStockLedgerRepositoryStub(),
		SettingsRepo:    NewSettingsRepositoryStub(),
	}
}

func (f *RepositoryFactoryStub) Carts() repository.CartRepository            { return f.CartRepo }
func (f *RepositoryFactoryStub) CartLines() repository.CartLineRepository    { return f.CartLineRepo }
func (f *RepositoryFactoryStub) Orders() repository.OrderRepository          { return f.OrderRepo }
func (f *RepositoryFactoryStub) OrderLines() repository.OrderLineRepository  { return f.OrderLineRepo }
func (f *RepositoryFactoryStub) Invoices() repository.InvoiceRepository      { return f.InvoiceRepo }
func (f *RepositoryFactoryStub) Receivables() repository.ReceivableRepository {
	return f.ReceivableRepo
}
func (f *RepositoryFactoryStub) Payments() repository.PaymentRepository       { return f.PaymentRepo }
func (f *RepositoryFactoryStub) Commissions() repository.CommissionRepository { return f.CommissionRepo }
func (f *RepositoryFactoryStub) StockLedger() repository.StockLedgerRepository {
	return f.StockLedgerRepo
}
func (f *RepositoryFactoryStub) Settings() repository.SettingsRepository { return f.SettingsRepo }
