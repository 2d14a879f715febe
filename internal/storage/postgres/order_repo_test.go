package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
)

var orderTestColumns = []string{
	"id", "tenant_id", "customer_id", "user_id", "channel", "status", "online_status",
	"subtotal", "discount_amount", "discount_percent", "shipping_cost", "tax", "total",
	"partner_id", "invoice_id", "shipping_address", "has_pending_products", "has_pending_services",
	"tracking_code", "estimated_delivery", "paid_at", "cancel_reason", "created_at", "updated_at",
}

func orderTestRow(id int64, status model.OnlineStatus, address []byte, now time.Time) []any {
	return []any{
		id, int64(1), int64(3), nil, model.ChannelOnline, model.OrderStatusOpen, status,
		100.0, 0.0, 0.0, 10.0, 0.0, 110.0,
		nil, nil, address, true, false,
		nil, nil, nil, nil, now, now,
	}
}

func TestOrderRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO orders").WithArgs(anyArgs(16)...).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))
	order, err := repo.Create(context.Background(), &model.Order{
		TenantID:     1,
		CustomerID:   3,
		Channel:      model.ChannelOnline,
		Status:       model.OrderStatusOpen,
		OnlineStatus: model.OnlineStatusPendingPayment,
		Subtotal:     100,
		ShippingCost: 10,
		Total:        110,
		ShippingAddress: &model.Address{
			Street: "Rua das Flores", Number: "100", City: "Campinas", State: "SP", ZipCode: "13000-000",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 42 {
		t.Fatalf("unexpected order id: %d", order.ID)
	}

	mock.ExpectQuery("INSERT INTO orders").WithArgs(anyArgs(16)...).WillReturnError(errors.New("boom"))
	if _, err := repo.Create(context.Background(), &model.Order{TenantID: 1}); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	now := time.Now()
	address := []byte(`{"street":"Rua A","number":"1","district":"","city":"Campinas","state":"SP","zip_code":"13000-000"}`)

	mock.ExpectQuery("FROM orders WHERE tenant_id=(.+) AND id=").WithArgs(int64(1), int64(42)).
		WillReturnRows(pgxmockv3.NewRows(orderTestColumns).AddRow(orderTestRow(42, model.OnlineStatusPendingPayment, address, now)...))
	order, err := repo.Get(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 42 || order.OnlineStatus != model.OnlineStatusPendingPayment {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.ShippingAddress == nil || order.ShippingAddress.City != "Campinas" {
		t.Fatalf("expected decoded address, got %+v", order.ShippingAddress)
	}

	mock.ExpectQuery("FROM orders WHERE tenant_id=(.+) AND id=").WithArgs(int64(1), int64(9)).
		WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Get(context.Background(), 1, 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryListByTenant(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	now := time.Now()
	mock.ExpectQuery("FROM orders WHERE tenant_id=(.+) ORDER BY created_at DESC").WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows(orderTestColumns).
			AddRow(orderTestRow(2, model.OnlineStatusShipped, nil, now)...).
			AddRow(orderTestRow(1, model.OnlineStatusPendingPayment, nil, now)...))
	orders, err := repo.ListByTenant(context.Background(), 1, model.OrderFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != 2 {
		t.Fatalf("unexpected orders: %+v", orders)
	}

	status := model.OnlineStatusShipped
	mock.ExpectQuery("AND online_status=").WithArgs(anyArgs(2)...).
		WillReturnRows(pgxmockv3.NewRows(orderTestColumns).AddRow(orderTestRow(2, status, nil, now)...))
	orders, err = repo.ListByTenant(context.Background(), 1, model.OrderFilter{OnlineStatus: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 || orders[0].OnlineStatus != status {
		t.Fatalf("unexpected filtered orders: %+v", orders)
	}

	partnerID := int64(7)
	mock.ExpectQuery("AND online_status=(.+) AND partner_id=").WithArgs(anyArgs(3)...).
		WillReturnRows(pgxmockv3.NewRows(orderTestColumns))
	if _, err := repo.ListByTenant(context.Background(), 1, model.OrderFilter{OnlineStatus: &status, PartnerID: &partnerID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryCountByStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	mock.ExpectQuery("SELECT online_status, COUNT").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows([]string{"online_status", "count"}).
			AddRow(model.OnlineStatusPendingPayment, 3).
			AddRow(model.OnlineStatusShipped, 1))
	counts, err := repo.CountByStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts[model.OnlineStatusPendingPayment] != 3 || counts[model.OnlineStatusShipped] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGuardedUpdates(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	paidAt := time.Now()

	mock.ExpectExec("UPDATE orders SET online_status=").WithArgs(anyArgs(4)...).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	moved, err := repo.MarkPaid(context.Background(), 42, paidAt)
	if err != nil || !moved {
		t.Fatalf("expected guarded update to claim the row, moved=%v err=%v", moved, err)
	}

	// A second confirmation finds no pending row.
	mock.ExpectExec("UPDATE orders SET online_status=").WithArgs(anyArgs(4)...).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	moved, err = repo.MarkPaid(context.Background(), 42, paidAt)
	if err != nil || moved {
		t.Fatalf("expected lost guard, moved=%v err=%v", moved, err)
	}

	mock.ExpectExec("UPDATE orders SET online_status=").WithArgs(anyArgs(5)...).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	tracking := "BR123"
	moved, err = repo.AdvanceStatus(context.Background(), 42, model.OnlineStatusProcessing, model.OnlineStatusShipped, &repository.ShippingMeta{TrackingCode: &tracking})
	if err != nil || !moved {
		t.Fatalf("expected advance to claim the row, moved=%v err=%v", moved, err)
	}

	mock.ExpectExec("UPDATE orders SET status=").WithArgs(anyArgs(5)...).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	moved, err = repo.MarkCancelled(context.Background(), 42, []model.OnlineStatus{model.OnlineStatusPendingPayment}, nil)
	if err != nil || moved {
		t.Fatalf("expected cancel guard to lose, moved=%v err=%v", moved, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderLineRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderLineRepository{storage: storage}

	mock.ExpectQuery("INSERT INTO order_lines").WithArgs(anyArgs(14)...).WillReturnRows(
		pgxmockv3.NewRows([]string{"id"}).AddRow(int64(5)))
	line, err := repo.Insert(context.Background(), &model.OrderLine{
		OrderID:           42,
		ItemID:            4,
		Kind:              model.ItemKindProduct,
		Quantity:          2,
		UnitPrice:         10,
		SeparationStatus:  model.FulfillmentNotRequired,
		DeliveryStatus:    model.FulfillmentNotRequired,
		FulfillmentStatus: model.FulfillmentPending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.ID != 5 {
		t.Fatalf("unexpected line id: %d", line.ID)
	}

	columns := []string{
		"id", "order_id", "parent_line_id", "item_id", "kind", "quantity", "unit_price", "cost_price",
		"commission_rate", "commission_amount", "separation_status", "delivery_status", "fulfillment_status",
		"is_composition_parent", "position",
	}
	parentID := int64(5)
	mock.ExpectQuery("FROM order_lines WHERE order_id=(.+) ORDER BY position").WithArgs(int64(42)).
		WillReturnRows(pgxmockv3.NewRows(columns).
			AddRow(int64(5), int64(42), nil, int64(4), model.ItemKindProduct, 2, 10.0, 0.0, 0.0, 0.0, model.FulfillmentNotRequired, model.FulfillmentNotRequired, model.FulfillmentPending, true, 0).
			AddRow(int64(6), int64(42), &parentID, int64(8), model.ItemKindProduct, 4, 5.0, 0.0, 0.0, 0.0, model.FulfillmentNotRequired, model.FulfillmentNotRequired, model.FulfillmentPending, false, 1))
	lines, err := repo.ListByOrder(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[1].ParentLineID == nil || *lines[1].ParentLineID != 5 {
		t.Fatalf("unexpected lines: %+v", lines)
	}

	mock.ExpectExec("UPDATE order_lines SET").WithArgs(int64(42)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 2))
	if err := repo.CancelOpenStatuses(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
