package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	testhelpers "github.com/vendrix/storefront/internal/test"
	"github.com/vendrix/storefront/internal/usecase"
)

type checkoutFixture struct {
	uc        *usecase.CheckoutUseCase
	carts     *usecase.CartUseCase
	catalog   *testhelpers.CatalogStub
	repos     *testhelpers.RepositoryFactoryStub
	directory *testhelpers.DirectoryStub
	payments  *testhelpers.PaymentGeneratorStub
	schedules *testhelpers.SchedulingStub
	locker    *testhelpers.LockerStub
	events    *testhelpers.EventRecorder
}

func newCheckoutFixture() *checkoutFixture {
	catalog := testhelpers.NewCatalogStub()
	carts := usecase.NewCartUseCase(testhelpers.NewCartRepositoryStub(), testhelpers.NewCartLineRepositoryStub(), catalog, time.Hour)
	repos := testhelpers.NewRepositoryFactoryStub()
	repos.SettingsRepo.Settings[1] = &model.MerchantSettings{TenantID: 1, PaymentKey: "merchant-key"}
	directory := testhelpers.NewDirectoryStub()
	payments := testhelpers.NewPaymentGeneratorStub()
	schedules := testhelpers.NewSchedulingStub()
	locker := testhelpers.NewLockerStub()
	events := testhelpers.NewEventRecorder()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	uc := usecase.NewCheckoutUseCase(carts, usecase.NewCompositionResolver(catalog), repos, directory, payments, schedules, locker, events, logger)
	return &checkoutFixture{
		uc:        uc,
		carts:     carts,
		catalog:   catalog,
		repos:     repos,
		directory: directory,
		payments:  payments,
		schedules: schedules,
		locker:    locker,
		events:    events,
	}
}

func checkoutParams(userID int64) usecase.CheckoutParams {
	return usecase.CheckoutParams{
		TenantID: 1,
		UserID:   &userID,
		Customer: usecase.CustomerHint{Name: "Ana Souza", Email: "ana@example.com"},
	}
}

func (f *checkoutFixture) addItem(t *testing.T, userID, itemID int64, quantity int) {
	t.Helper()
	if _, err := f.carts.Add(context.Background(), 1, usecase.CartOwner{UserID: &userID}, itemID, nil, quantity); err != nil {
		t.Fatalf("unexpected error adding item %d: %v", itemID, err)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	if _, err := f.uc.CreateOrder(context.Background(), checkoutParams(1)); !errors.Is(err, domainErrors.ErrCartEmpty) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if f.locker.Released != f.locker.Acquired {
		t.Fatalf("expected lock released on failure, acquired=%d released=%d", f.locker.Acquired, f.locker.Released)
	}
}

func TestCheckoutRejectsStaleCart(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Pump", Price: 100, Kind: model.ItemKindProduct}
	f.addItem(t, 1, 1, 1)
	f.catalog.ItemsByID[1].Price = 120

	_, err := f.uc.CreateOrder(context.Background(), checkoutParams(1))
	if domainErrors.KindOf(err) != domainErrors.KindValidation {
		t.Fatalf("expected validation error for stale cart, got %v", err)
	}
	if len(f.repos.OrderRepo.Orders) != 0 {
		t.Fatal("expected no order for a stale cart")
	}
}

func TestCheckoutBusyWhenLockHeld(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Pump", Price: 100, Kind: model.ItemKindProduct}
	f.addItem(t, 1, 1, 1)

	userID := int64(1)
	cart, err := f.carts.GetOrCreate(context.Background(), 1, usecase.CartOwner{UserID: &userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.locker.Acquire(context.Background(), cart.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.CreateOrder(context.Background(), checkoutParams(1)); !errors.Is(err, domainErrors.ErrCheckoutBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
}

func TestCheckoutCreatesOrderGraph(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Pump", Price: 100, Kind: model.ItemKindProduct, TrackStock: true, StockQuantity: 10, CommissionRate: 10}
	f.addItem(t, 1, 1, 2)

	partnerID := int64(77)
	params := checkoutParams(1)
	params.ShippingCost = 15
	params.DiscountAmount = 5
	params.PaymentMethod = "pix"
	params.PartnerID = &partnerID

	result, err := f.uc.CreateOrder(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := result.Order
	if order.OnlineStatus != model.OnlineStatusPendingPayment || order.Status != model.OrderStatusOpen {
		t.Fatalf("unexpected initial statuses: %s/%s", order.Status, order.OnlineStatus)
	}
	if order.Subtotal != 200 || order.Total != 210 {
		t.Fatalf("unexpected totals: subtotal=%v total=%v", order.Subtotal, order.Total)
	}
	if order.InvoiceID == nil || *order.InvoiceID != result.InvoiceID {
		t.Fatalf("expected invoice %d linked to order, got %v", result.InvoiceID, order.InvoiceID)
	}

	// One negative ledger row per tracked product leaf.
	entries := f.repos.StockLedgerRepo.Entries
	if len(entries) != 1 || entries[0].Quantity != -2 || entries[0].Reason != "sale" {
		t.Fatalf("unexpected stock ledger: %+v", entries)
	}

	// Commission comes from the per-line rate: 100 * 2 * 10%.
	if result.CommissionID == nil {
		t.Fatal("expected a commission entry")
	}
	if got := f.repos.CommissionRepo.Entries[0].Amount; math.Abs(got-20) > 1e-9 {
		t.Fatalf("expected commission 20, got %v", got)
	}

	receivable := f.repos.ReceivableRepo.Receivables[result.ReceivableID]
	if receivable == nil || receivable.Amount != 210 || receivable.PaymentMethod != "pix" {
		t.Fatalf("unexpected receivable: %+v", receivable)
	}

	if result.PaymentInstrument == nil || result.PaymentInstrument.HumanCode == "" {
		t.Fatalf("expected a payment instrument, got %+v", result.PaymentInstrument)
	}
	if f.payments.LastAmount != 210 {
		t.Fatalf("expected instrument for the order total, got %v", f.payments.LastAmount)
	}

	// The cart is emptied and the created event published.
	if got := f.events.Types(); len(got) != 1 || got[0] != "order.created" {
		t.Fatalf("unexpected events: %v", got)
	}
	view, err := f.carts.View(context.Background(), 1, usecase.CartOwner{UserID: params.UserID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected cart cleared after checkout, %d lines remain", len(view.Lines))
	}
}

func TestCheckoutExplodesBundles(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[10] = &model.CatalogItem{ID: 10, Name: "Spring kit", Price: 50, IsBundle: true, Kind: model.ItemKindProduct}
	f.catalog.ItemsByID[11] = &model.CatalogItem{ID: 11, Name: "A", Price: 30, Kind: model.ItemKindProduct}
	f.catalog.ItemsByID[12] = &model.CatalogItem{ID: 12, Name: "B", Price: 20, Kind: model.ItemKindProduct}
	f.catalog.Components[10] = []model.BundleComponent{
		{ParentItemID: 10, ChildItemID: 11, Quantity: 2, Position: 0},
		{ParentItemID: 10, ChildItemID: 12, Quantity: 1, Position: 1},
	}
	f.addItem(t, 1, 10, 3)

	result, err := f.uc.CreateOrder(context.Background(), checkoutParams(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The bundle is priced once at the parent line: 3 x 50.
	if result.Order.Subtotal != 150 {
		t.Fatalf("expected subtotal 150, got %v", result.Order.Subtotal)
	}

	lines := f.repos.OrderLineRepo.Lines
	if len(lines) != 3 {
		t.Fatalf("expected parent plus two child lines, got %d", len(lines))
	}
	parent := lines[0]
	if !parent.IsCompositionParent || parent.ItemID != 10 || parent.Quantity != 3 || parent.UnitPrice != 50 {
		t.Fatalf("unexpected parent line: %+v", parent)
	}
	childQty := map[int64]int{}
	for _, l := range lines[1:] {
		if l.ParentLineID == nil || *l.ParentLineID != parent.ID {
			t.Fatalf("expected child linked to parent %d, got %+v", parent.ID, l)
		}
		childQty[l.ItemID] = l.Quantity
	}
	// Component quantities multiply by the parent quantity.
	if childQty[11] != 6 || childQty[12] != 3 {
		t.Fatalf("unexpected child quantities: %v", childQty)
	}
}

func TestCheckoutTotalsRespectSettings(t *testing.T) {
	f := newCheckoutFixture()
	f.repos.SettingsRepo.Settings[1] = &model.MerchantSettings{
		TenantID:              1,
		MinimumOrderValue:     50,
		FreeShippingThreshold: 100,
	}
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Pump", Price: 120, Kind: model.ItemKindProduct}
	f.catalog.ItemsByID[2] = &model.CatalogItem{ID: 2, Name: "Brush", Price: 10, Kind: model.ItemKindProduct}

	// Below the minimum order value.
	f.addItem(t, 2, 2, 1)
	params := checkoutParams(2)
	if _, err := f.uc.CreateOrder(context.Background(), params); domainErrors.KindOf(err) != domainErrors.KindValidation {
		t.Fatalf("expected minimum order validation error, got %v", err)
	}

	// Above the free shipping threshold the shipping cost is dropped.
	f.addItem(t, 3, 1, 1)
	params = checkoutParams(3)
	params.ShippingCost = 25
	result, err := f.uc.CreateOrder(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.ShippingCost != 0 || result.Order.Total != 120 {
		t.Fatalf("expected free shipping at total 120, got %+v", result.Order)
	}
}

func TestCheckoutTotalNeverNegative(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Brush", Price: 10, Kind: model.ItemKindProduct}
	f.addItem(t, 1, 1, 1)

	params := checkoutParams(1)
	params.DiscountAmount = 50
	result, err := f.uc.CreateOrder(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.Total != 0 {
		t.Fatalf("expected total clamped to zero, got %v", result.Order.Total)
	}
}

func TestCheckoutResolvesCustomerInOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Brush", Price: 10, Kind: model.ItemKindProduct}

	existing, err := f.directory.Create(context.Background(), &model.Customer{TenantID: 1, Name: "Ana Souza", Email: "ana@example.com", TaxID: "123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Tax id matches before email would.
	f.addItem(t, 1, 1, 1)
	params := checkoutParams(1)
	params.Customer = usecase.CustomerHint{Name: "Someone Else", Email: "other@example.com", TaxID: "123"}
	result, err := f.uc.CreateOrder(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.CustomerID != existing.ID {
		t.Fatalf("expected tax id match to reuse customer %d, got %d", existing.ID, result.Order.CustomerID)
	}

	// No identity at all fails validation.
	f.addItem(t, 2, 1, 1)
	params = checkoutParams(2)
	params.Customer = usecase.CustomerHint{Name: "Nameless"}
	if _, err := f.uc.CreateOrder(context.Background(), params); !errors.Is(err, domainErrors.ErrMissingCustomer) {
		t.Fatalf("expected missing customer error, got %v", err)
	}
}

func TestCheckoutSchedulesServiceVisits(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Deep clean", Price: 80, Kind: model.ItemKindService, RequiresScheduling: true}
	f.catalog.ItemsByID[2] = &model.CatalogItem{ID: 2, Name: "Brush", Price: 10, Kind: model.ItemKindProduct}
	f.addItem(t, 1, 1, 1)
	f.addItem(t, 1, 2, 1)

	params := checkoutParams(1)
	params.Schedule = &usecase.ScheduleSlot{Date: time.Now().AddDate(0, 0, 2), Window: "morning"}
	result, err := f.uc.CreateOrder(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.schedules.Visits) != 1 || f.schedules.Visits[0].ItemID != 1 {
		t.Fatalf("expected one visit for the service line, got %+v", f.schedules.Visits)
	}
	if !result.Order.HasPendingServices || !result.Order.HasPendingProducts {
		t.Fatalf("expected pending rollups set, got %+v", result.Order)
	}
}

func TestCheckoutSurvivesBestEffortFailures(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Pump", Price: 100, Kind: model.ItemKindProduct, TrackStock: true, StockQuantity: 5, CommissionRate: 10}
	f.addItem(t, 1, 1, 1)

	f.repos.StockLedgerRepo.Err = errors.New("ledger down")
	f.repos.CommissionRepo.Err = errors.New("commission down")
	f.payments.Err = errors.New("psp down")
	f.schedules.Err = errors.New("agenda down")

	partnerID := int64(7)
	params := checkoutParams(1)
	params.PartnerID = &partnerID
	params.Schedule = &usecase.ScheduleSlot{Date: time.Now(), Window: "afternoon"}

	result, err := f.uc.CreateOrder(context.Background(), params)
	if err != nil {
		t.Fatalf("expected best-effort failures not to abort checkout, got %v", err)
	}
	if result.Order.OnlineStatus != model.OnlineStatusPendingPayment {
		t.Fatalf("unexpected status: %s", result.Order.OnlineStatus)
	}
	if result.CommissionID != nil {
		t.Fatal("expected no commission id when the write failed")
	}
	if result.PaymentInstrument != nil {
		t.Fatal("expected nil instrument when generation failed")
	}
}

func TestCheckoutFailsWithoutTenantSettings(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Brush", Price: 10, Kind: model.ItemKindProduct}
	f.addItem(t, 1, 1, 1)

	delete(f.repos.SettingsRepo.Settings, 1)
	_, err := f.uc.CreateOrder(context.Background(), checkoutParams(1))
	if domainErrors.KindOf(err) != domainErrors.KindValidation {
		t.Fatalf("expected validation error for unconfigured tenant, got %v", err)
	}
	if !strings.Contains(err.Error(), "commerce configuration") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

// racingLocker grants the lock but first runs a callback, standing in for a
// competing checkout that commits between cart resolution and acquisition.
type racingLocker struct {
	onAcquire func()
}

func (l *racingLocker) Acquire(context.Context, uuid.UUID) (bool, error) {
	if l.onAcquire != nil {
		l.onAcquire()
	}
	return true, nil
}

func (l *racingLocker) Release(context.Context, uuid.UUID) error { return nil }

func TestCheckoutReadsCartUnderLock(t *testing.T) {
	catalog := testhelpers.NewCatalogStub()
	lines := testhelpers.NewCartLineRepositoryStub()
	carts := usecase.NewCartUseCase(testhelpers.NewCartRepositoryStub(), lines, catalog, time.Hour)
	repos := testhelpers.NewRepositoryFactoryStub()
	repos.SettingsRepo.Settings[1] = &model.MerchantSettings{TenantID: 1, PaymentKey: "merchant-key"}
	locker := &racingLocker{onAcquire: func() {
		lines.Lines = make(map[int64]*model.CartLine)
	}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	uc := usecase.NewCheckoutUseCase(carts, usecase.NewCompositionResolver(catalog), repos,
		testhelpers.NewDirectoryStub(), testhelpers.NewPaymentGeneratorStub(), testhelpers.NewSchedulingStub(),
		locker, testhelpers.NewEventRecorder(), logger)

	catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Pump", Price: 100, Kind: model.ItemKindProduct}
	userID := int64(1)
	if _, err := carts.Add(context.Background(), 1, usecase.CartOwner{UserID: &userID}, 1, nil, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := uc.CreateOrder(context.Background(), checkoutParams(1))
	if !errors.Is(err, domainErrors.ErrCartEmpty) {
		t.Fatalf("expected empty cart error after losing the race, got %v", err)
	}
	if len(repos.OrderRepo.Orders) != 0 {
		t.Fatal("expected no second order from an emptied cart")
	}
}

func TestCheckoutReportsEveryCartProblem(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.ItemsByID[1] = &model.CatalogItem{ID: 1, Name: "Pump", Price: 100, Kind: model.ItemKindProduct, TrackStock: true, StockQuantity: 5}
	f.addItem(t, 1, 1, 3)
	f.catalog.ItemsByID[1].Price = 120
	f.catalog.ItemsByID[1].StockQuantity = 2

	_, err := f.uc.CreateOrder(context.Background(), checkoutParams(1))
	if domainErrors.KindOf(err) != domainErrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "price changed") || !strings.Contains(msg, "in stock") {
		t.Fatalf("expected both cart problems reported, got %q", msg)
	}
}
