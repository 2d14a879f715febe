package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/usecase"
)

// CatalogStub serves catalog items and bundle compositions from maps.
type CatalogStub struct {
	ItemsByID  map[int64]*model.CatalogItem
	Components map[int64][]model.BundleComponent
	Err        error
}

// NewCatalogStub constructs the stub with initialized maps.
func NewCatalogStub() *CatalogStub {
	return &CatalogStub{
		ItemsByID:  make(map[int64]*model.CatalogItem),
		Components: make(map[int64][]model.BundleComponent),
	}
}

func (s *CatalogStub) Item(_ context.Context, _ int64, itemID int64) (*model.CatalogItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	item, ok := s.ItemsByID[itemID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	result := *item
	return &result, nil
}

func (s *CatalogStub) Items(_ context.Context, _ int64, itemIDs []int64) (map[int64]*model.CatalogItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	found := make(map[int64]*model.CatalogItem, len(itemIDs))
	for _, id := range itemIDs {
		if item, ok := s.ItemsByID[id]; ok {
			copied := *item
			found[id] = &copied
		}
	}
	return found, nil
}

func (s *CatalogStub) BundleComponents(_ context.Context, _ int64, bundleID int64) ([]model.BundleComponent, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Components[bundleID], nil
}

// DirectoryStub is an in-memory customer directory.
type DirectoryStub struct {
	mu        sync.Mutex
	Customers map[int64]*model.Customer
	Next      int64
	Err       error
	CreateErr error
}

// NewDirectoryStub constructs the stub with initialized storage.
func NewDirectoryStub() *DirectoryStub {
	return &DirectoryStub{Customers: make(map[int64]*model.Customer), Next: 1}
}

func (s *DirectoryStub) GetByID(_ context.Context, tenantID, customerID int64) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.Customers[customerID]
	if !ok || customer.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	result := *customer
	return &result, nil
}

func (s *DirectoryStub) FindByTaxID(_ context.Context, tenantID int64, taxID string) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, customer := range s.Customers {
		if customer.TenantID == tenantID && customer.TaxID == taxID {
			result := *customer
			return &result, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *DirectoryStub) FindByEmail(_ context.Context, tenantID int64, email string) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, customer := range s.Customers {
		if customer.TenantID == tenantID && customer.Email == email {
			result := *customer
			return &result, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *DirectoryStub) Create(_ context.Context, customer *model.Customer) (*model.Customer, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *customer
	stored.ID = s.Next
	s.Next++
	s.Customers[stored.ID] = &stored
	result := stored
	return &result, nil
}

// PaymentGeneratorStub returns a canned instrument and records calls.
type PaymentGeneratorStub struct {
	mu         sync.Mutex
	Instrument *usecase.PaymentInstrument
	Err        error
	Calls      int
	LastAmount float64
	LastOrder  int64
}

// NewPaymentGeneratorStub constructs the stub with a default instrument.
func NewPaymentGeneratorStub() *PaymentGeneratorStub {
	return &PaymentGeneratorStub{
		Instrument: &usecase.PaymentInstrument{HumanCode: "00020126", ScannableCode: "qr-data", RawKey: "merchant-key"},
	}
}

func (s *PaymentGeneratorStub) Generate(_ context.Context, _ *model.MerchantSettings, amount float64, orderID int64, _ *model.Customer, _ *model.Address) (*usecase.PaymentInstrument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	s.LastAmount = amount
	s.LastOrder = orderID
	if s.Err != nil {
		return nil, s.Err
	}
	result := *s.Instrument
	return &result, nil
}

// ScheduledVisit records one booking made through SchedulingStub.
type ScheduledVisit struct {
	ItemID  int64
	OrderID int64
	Slot    usecase.ScheduleSlot
}

// SchedulingStub records visit bookings and returns synthetic references.
type SchedulingStub struct {
	mu     sync.Mutex
	Visits []ScheduledVisit
	Err    error
}

// NewSchedulingStub constructs the stub.
func NewSchedulingStub() *SchedulingStub {
	return &SchedulingStub{}
}

func (s *SchedulingStub) Schedule(_ context.Context, _ int64, _ *int64, _, itemID, orderID int64, slot usecase.ScheduleSlot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Visits = append(s.Visits, ScheduledVisit{ItemID: itemID, OrderID: orderID, Slot: slot})
	return fmt.Sprintf("visit-%d", len(s.Visits)), nil
}

// LockerStub is an in-memory checkout lock.
type LockerStub struct {
	mu       sync.Mutex
	Held     map[uuid.UUID]bool
	Err      error
	Acquired int
	Released int
}

// NewLockerStub constructs the stub.
func NewLockerStub() *LockerStub {
	return &LockerStub{Held: make(map[uuid.UUID]bool)}
}

func (s *LockerStub) Acquire(_ context.Context, cartID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if s.Held[cartID] {
		return false, nil
	}
	s.Held[cartID] = true
	s.Acquired++
	return true, nil
}

func (s *LockerStub) Release(_ context.Context, cartID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Held, cartID)
	s.Released++
	return nil
}

// RecordedEvent is one event captured by EventRecorder.
type RecordedEvent struct {
	Type    string
	OrderID int64
	From    model.OnlineStatus
	Reason  string
}

// EventRecorder captures published lifecycle events for assertions.
type EventRecorder struct {
	mu     sync.Mutex
	Events []RecordedEvent
}

// NewEventRecorder constructs the recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) OrderCreated(order *model.Order) {
	r.record(RecordedEvent{Type: "order.created", OrderID: order.ID})
}

func (r *EventRecorder) OrderPaid(order *model.Order) {
	r.record(RecordedEvent{Type: "order.paid", OrderID: order.ID})
}

func (r *EventRecorder) OrderStatusChanged(order *model.Order, from model.OnlineStatus) {
	r.record(RecordedEvent{Type: "order.status_changed", OrderID: order.ID, From: from})
}

func (r *EventRecorder) OrderCancelled(order *model.Order, reason string) {
	r.record(RecordedEvent{Type: "order.cancelled", OrderID: order.ID, Reason: reason})
}

func (r *EventRecorder) record(event RecordedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
}

// Types returns the ordered event type names seen so far.
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.Events))
	for i, event := range r.Events {
		types[i] = event.Type
	}
	return types
}
