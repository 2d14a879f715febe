package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
	"github.com/vendrix/storefront/internal/server/http/dto"
	"github.com/vendrix/storefront/internal/server/http/middleware"
	testhelpers "github.com/vendrix/storefront/internal/test"
	"github.com/vendrix/storefront/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	return performRouteRequest(t, method, path, path, handler, setup, body, headers)
}

// performRouteRequest separates the registered route from the requested path,
// so handlers reading path params and query strings see real values.
func performRouteRequest(t *testing.T, method, route, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asTenant(tenantID int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.TenantIDContextKey, tenantID)
	}
}

func asUser(tenantID, userID int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.TenantIDContextKey, tenantID)
		c.Set(middleware.UserIDContextKey, userID)
	}
}

func TestCurrentTenantID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentTenantID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.TenantIDContextKey, int64(7))
	if got := CurrentTenantID(c); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != nil {
		t.Fatalf("expected nil when not set, got %d", *got)
	}

	c.Set(middleware.UserIDContextKey, int64(42))
	got := CurrentUserID(c)
	if got == nil || *got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestCurrentSessionID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentSessionID(c); got != nil {
		t.Fatalf("expected nil when not set, got %s", got)
	}

	sessionID := uuid.New()
	c.Set(middleware.SessionIDContextKey, sessionID)
	got := CurrentSessionID(c)
	if got == nil || *got != sessionID {
		t.Fatalf("expected %s, got %v", sessionID, got)
	}
}

func TestCartHandlerShow(t *testing.T) {
	view := &model.CartView{
		Cart:      model.Cart{ID: uuid.New(), TenantID: 1},
		Subtotal:  145,
		ItemCount: 3,
		Lines: []model.EnrichedCartLine{{
			CartLine: model.CartLine{ID: 10, ItemID: 5, Quantity: 3, UnitPrice: 45},
			ItemName: "Ink Cartridge",
		}},
	}
	facade := &testhelpers.CartFacadeStub{CartFn: func(_ context.Context, tenantID int64, owner usecase.CartOwner) (*model.CartView, error) {
		if tenantID != 1 {
			t.Fatalf("unexpected tenant %d", tenantID)
		}
		if owner.UserID == nil || *owner.UserID != 9 {
			t.Fatalf("unexpected owner %+v", owner)
		}
		return view, nil
	}}
	resp := performRequest(t, http.MethodGet, "/cart", NewCartHandler(facade).Show, asUser(1, 9), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.CartResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != view.Cart.ID.String() || decoded.Subtotal != 145 || decoded.ItemCount != 3 {
		t.Fatalf("unexpected cart response: %+v", decoded)
	}
	if len(decoded.Lines) != 1 || decoded.Lines[0].ItemName != "Ink Cartridge" {
		t.Fatalf("unexpected lines: %+v", decoded.Lines)
	}
}

func TestCartHandlerAddItem(t *testing.T) {
	facade := &testhelpers.CartFacadeStub{AddToCartFn: func(_ context.Context, _ int64, _ usecase.CartOwner, itemID int64, partnerID *int64, quantity int) (*model.CartLine, error) {
		if itemID != 5 || quantity != 2 {
			t.Fatalf("unexpected add request: item=%d qty=%d", itemID, quantity)
		}
		if partnerID == nil || *partnerID != 3 {
			t.Fatalf("expected partner 3, got %v", partnerID)
		}
		return &model.CartLine{ID: 77, ItemID: itemID, Quantity: quantity, UnitPrice: 19.9}, nil
	}}
	body := []byte(`{"item_id":5,"quantity":2,"partner_id":3}`)
	resp := performRequest(t, http.MethodPost, "/cart/items", NewCartHandler(facade).AddItem, asTenant(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded["id"].(float64) != 77 || decoded["unit_price"].(float64) != 19.9 {
		t.Fatalf("unexpected line payload: %v", decoded)
	}
}

func TestCartHandlerAddItemFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.CartFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "missing quantity", body: []byte(`{"item_id":5}`), status: http.StatusBadRequest},
		{name: "stock guard", body: []byte(`{"item_id":5,"quantity":9}`), facade: testhelpers.CartFacadeStub{AddToCartFn: func(context.Context, int64, usecase.CartOwner, int64, *int64, int) (*model.CartLine, error) {
			return nil, domainErrors.Validationf("insufficient stock for %q, available: %d", "Ink Cartridge", 1)
		}}, status: http.StatusUnprocessableEntity},
		{name: "unknown item", body: []byte(`{"item_id":404,"quantity":1}`), facade: testhelpers.CartFacadeStub{AddToCartFn: func(context.Context, int64, usecase.CartOwner, int64, *int64, int) (*model.CartLine, error) {
			return nil, domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "internal", body: []byte(`{"item_id":5,"quantity":1}`), facade: testhelpers.CartFacadeStub{AddToCartFn: func(context.Context, int64, usecase.CartOwner, int64, *int64, int) (*model.CartLine, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/cart/items", NewCartHandler(&tt.facade).AddItem, asTenant(1), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestCartHandlerUpdateItem(t *testing.T) {
	called := false
	facade := &testhelpers.CartFacadeStub{UpdateCartLineFn: func(_ context.Context, lineID int64, quantity int) error {
		called = true
		if lineID != 12 || quantity != 4 {
			t.Fatalf("unexpected update: line=%d qty=%d", lineID, quantity)
		}
		return nil
	}}
	resp := performRouteRequest(t, http.MethodPatch, "/cart/items/:id", "/cart/items/12", NewCartHandler(facade).UpdateItem, asTenant(1), []byte(`{"quantity":4}`), map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected facade to be called")
	}
}

func TestCartHandlerUpdateItemFailures(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		facade testhelpers.CartFacadeStub
		body   []byte
		status int
	}{
		{name: "bad id", path: "/cart/items/abc", body: []byte(`{"quantity":4}`), status: http.StatusBadRequest},
		{name: "missing quantity", path: "/cart/items/12", body: []byte(`{}`), status: http.StatusBadRequest},
		{name: "unknown line", path: "/cart/items/12", body: []byte(`{"quantity":4}`), facade: testhelpers.CartFacadeStub{UpdateCartLineFn: func(context.Context, int64, int) error {
			return domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "invalid quantity", path: "/cart/items/12", body: []byte(`{"quantity":-1}`), facade: testhelpers.CartFacadeStub{UpdateCartLineFn: func(context.Context, int64, int) error {
			return domainErrors.ErrInvalidQuantity
		}}, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRouteRequest(t, http.MethodPatch, "/cart/items/:id", tt.path, NewCartHandler(&tt.facade).UpdateItem, asTenant(1), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestCartHandlerRemoveItem(t *testing.T) {
	facade := &testhelpers.CartFacadeStub{RemoveCartLineFn: func(_ context.Context, lineID int64) error {
		if lineID != 12 {
			t.Fatalf("unexpected line id %d", lineID)
		}
		return nil
	}}
	resp := performRouteRequest(t, http.MethodDelete, "/cart/items/:id", "/cart/items/12", NewCartHandler(facade).RemoveItem, asTenant(1), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	bad := performRouteRequest(t, http.MethodDelete, "/cart/items/:id", "/cart/items/abc", NewCartHandler(facade).RemoveItem, asTenant(1), nil, nil)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed id, got %d", bad.Code)
	}
}

func TestCartHandlerMerge(t *testing.T) {
	sessionID := uuid.New()
	cartID := uuid.New()
	facade := &testhelpers.CartFacadeStub{MergeFn: func(_ context.Context, tenantID int64, gotSession uuid.UUID, userID int64) (*model.Cart, error) {
		if tenantID != 1 || gotSession != sessionID || userID != 9 {
			t.Fatalf("unexpected merge request: tenant=%d session=%s user=%d", tenantID, gotSession, userID)
		}
		return &model.Cart{ID: cartID, TenantID: tenantID}, nil
	}}
	body, _ := json.Marshal(dto.MergeCartRequest{SessionID: sessionID.String()})
	resp := performRequest(t, http.MethodPost, "/cart/merge", NewCartHandler(facade).Merge, asUser(1, 9), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded["cart_id"] != cartID.String() {
		t.Fatalf("unexpected cart id %q", decoded["cart_id"])
	}
}

func TestCartHandlerMergeFailures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*gin.Context)
		body   []byte
		status int
	}{
		{name: "anonymous", setup: asTenant(1), body: []byte(`{"session_id":"whatever"}`), status: http.StatusUnauthorized},
		{name: "bad json", setup: asUser(1, 9), body: []byte("not json"), status: http.StatusBadRequest},
		{name: "bad uuid", setup: asUser(1, 9), body: []byte(`{"session_id":"not-a-uuid"}`), status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/cart/merge", NewCartHandler(&testhelpers.CartFacadeStub{}).Merge, tt.setup, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestCheckoutHandlerCreate(t *testing.T) {
	commissionID := int64(4)
	facade := &testhelpers.CheckoutFacadeStub{CheckoutFn: func(_ context.Context, params usecase.CheckoutParams) (*usecase.CheckoutResult, error) {
		if params.TenantID != 1 {
			t.Fatalf("unexpected tenant %d", params.TenantID)
		}
		if params.Customer.Email != "ana@example.com" || params.Customer.Name != "Ana Souza" {
			t.Fatalf("unexpected customer hint %+v", params.Customer)
		}
		if params.Schedule == nil || params.Schedule.Date.Format(time.DateOnly) != "2026-09-02" || params.Schedule.Window != "morning" {
			t.Fatalf("unexpected schedule %+v", params.Schedule)
		}
		return &usecase.CheckoutResult{
			Order:        &model.Order{ID: 42, TenantID: 1, OnlineStatus: model.OnlineStatusPendingPayment, Total: 210},
			InvoiceID:    7,
			ReceivableID: 8,
			CommissionID: &commissionID,
			PaymentInstrument: &usecase.PaymentInstrument{
				HumanCode:     "00020126",
				ScannableCode: "qr-data",
				RawKey:        "merchant-key",
			},
		}, nil
	}}
	body := []byte(`{
		"customer": {"name": "Ana Souza", "email": "ana@example.com"},
		"shipping_cost": 15,
		"discount_amount": 5,
		"payment_method": "pix",
		"schedule": {"date": "2026-09-02", "window": "morning"}
	}`)
	resp := performRequest(t, http.MethodPost, "/checkout", NewCheckoutHandler(facade).Create, asUser(1, 9), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.CheckoutResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Order.ID != 42 || decoded.Order.OnlineStatus != string(model.OnlineStatusPendingPayment) {
		t.Fatalf("unexpected order in response: %+v", decoded.Order)
	}
	if decoded.InvoiceID != 7 || decoded.ReceivableID != 8 {
		t.Fatalf("unexpected financial ids: %+v", decoded)
	}
	if decoded.CommissionID == nil || *decoded.CommissionID != 4 {
		t.Fatalf("expected commission 4, got %v", decoded.CommissionID)
	}
	if decoded.PaymentInstrument == nil || decoded.PaymentInstrument.ScannableCode != "qr-data" {
		t.Fatalf("unexpected payment instrument: %+v", decoded.PaymentInstrument)
	}
}

func TestCheckoutHandlerCreateFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.CheckoutFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "bad schedule date", body: []byte(`{"schedule":{"date":"02/09/2026"}}`), status: http.StatusUnprocessableEntity},
		{name: "empty cart", body: []byte(`{}`), facade: testhelpers.CheckoutFacadeStub{CheckoutFn: func(context.Context, usecase.CheckoutParams) (*usecase.CheckoutResult, error) {
			return nil, domainErrors.ErrCartEmpty
		}}, status: http.StatusUnprocessableEntity},
		{name: "busy", body: []byte(`{}`), facade: testhelpers.CheckoutFacadeStub{CheckoutFn: func(context.Context, usecase.CheckoutParams) (*usecase.CheckoutResult, error) {
			return nil, domainErrors.ErrCheckoutBusy
		}}, status: http.StatusConflict},
		{name: "missing customer", body: []byte(`{}`), facade: testhelpers.CheckoutFacadeStub{CheckoutFn: func(context.Context, usecase.CheckoutParams) (*usecase.CheckoutResult, error) {
			return nil, domainErrors.ErrMissingCustomer
		}}, status: http.StatusUnprocessableEntity},
		{name: "store down", body: []byte(`{}`), facade: testhelpers.CheckoutFacadeStub{CheckoutFn: func(context.Context, usecase.CheckoutParams) (*usecase.CheckoutResult, error) {
			return nil, domainErrors.Unavailable("order store unavailable", errors.New("conn refused"))
		}}, status: http.StatusServiceUnavailable},
		{name: "internal", body: []byte(`{}`), facade: testhelpers.CheckoutFacadeStub{CheckoutFn: func(context.Context, usecase.CheckoutParams) (*usecase.CheckoutResult, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/checkout", NewCheckoutHandler(&tt.facade).Create, asUser(1, 9), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerListMine(t *testing.T) {
	orders := []model.Order{{ID: 1, TenantID: 1}, {ID: 2, TenantID: 1}}
	facade := &testhelpers.OrderFacadeStub{OrdersByUserFn: func(_ context.Context, tenantID, userID int64) ([]model.Order, error) {
		if tenantID != 1 || userID != 9 {
			t.Fatalf("unexpected listing for tenant=%d user=%d", tenantID, userID)
		}
		return orders, nil
	}}
	resp := performRouteRequest(t, http.MethodGet, "/orders", "/orders?scope=mine", NewOrderHandler(facade).List, asUser(1, 9), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(decoded))
	}

	anonymous := performRouteRequest(t, http.MethodGet, "/orders", "/orders?scope=mine", NewOrderHandler(facade).List, asTenant(1), nil, nil)
	if anonymous.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for anonymous listing, got %d", anonymous.Code)
	}
}

func TestOrderHandlerListTenant(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{OrdersFn: func(_ context.Context, tenantID int64, filter model.OrderFilter) ([]model.Order, error) {
		if tenantID != 1 {
			t.Fatalf("unexpected tenant %d", tenantID)
		}
		if filter.OnlineStatus == nil || *filter.OnlineStatus != model.OnlineStatusShipped {
			t.Fatalf("expected shipped filter, got %+v", filter.OnlineStatus)
		}
		if filter.PartnerID == nil || *filter.PartnerID != 3 {
			t.Fatalf("expected partner 3, got %v", filter.PartnerID)
		}
		return []model.Order{{ID: 1}}, nil
	}}
	resp := performRouteRequest(t, http.MethodGet, "/orders", "/orders?status=shipped&partner_id=3", NewOrderHandler(facade).List, asTenant(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	bad := performRouteRequest(t, http.MethodGet, "/orders", "/orders?partner_id=abc", NewOrderHandler(facade).List, asTenant(1), nil, nil)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed partner filter, got %d", bad.Code)
	}
}

func TestOrderHandlerListEmpty(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, int64, model.OrderFilter) ([]model.Order, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders", NewOrderHandler(facade).List, asTenant(1), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestOrderHandlerShow(t *testing.T) {
	tracking := "BR123"
	facade := &testhelpers.OrderFacadeStub{OrderFn: func(_ context.Context, tenantID, orderID int64) (*model.Order, error) {
		if tenantID != 1 || orderID != 42 {
			t.Fatalf("unexpected lookup tenant=%d order=%d", tenantID, orderID)
		}
		return &model.Order{ID: 42, OnlineStatus: model.OnlineStatusShipped, TrackingCode: &tracking, Total: 210}, nil
	}}
	resp := performRouteRequest(t, http.MethodGet, "/orders/:id", "/orders/42", NewOrderHandler(facade).Show, asTenant(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != 42 || decoded.TrackingCode == nil || *decoded.TrackingCode != "BR123" {
		t.Fatalf("unexpected order: %+v", decoded)
	}
}

func TestOrderHandlerShowFailures(t *testing.T) {
	notFound := &testhelpers.OrderFacadeStub{OrderFn: func(context.Context, int64, int64) (*model.Order, error) {
		return nil, domainErrors.ErrNotFound
	}}
	resp := performRouteRequest(t, http.MethodGet, "/orders/:id", "/orders/42", NewOrderHandler(notFound).Show, asTenant(1), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}

	bad := performRouteRequest(t, http.MethodGet, "/orders/:id", "/orders/abc", NewOrderHandler(&testhelpers.OrderFacadeStub{}).Show, asTenant(1), nil, nil)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed id, got %d", bad.Code)
	}
}

func TestOrderHandlerLines(t *testing.T) {
	parentID := int64(1)
	facade := &testhelpers.OrderFacadeStub{OrderLinesFn: func(_ context.Context, _, orderID int64) ([]model.OrderLine, error) {
		if orderID != 42 {
			t.Fatalf("unexpected order %d", orderID)
		}
		return []model.OrderLine{
			{ID: 1, ItemID: 10, Kind: model.ItemKindProduct, Quantity: 3, UnitPrice: 50, IsCompositionParent: true},
			{ID: 2, ParentLineID: &parentID, ItemID: 11, Kind: model.ItemKindProduct, Quantity: 6, Position: 1},
		}, nil
	}}
	resp := performRouteRequest(t, http.MethodGet, "/orders/:id/lines", "/orders/42/lines", NewOrderHandler(facade).Lines, asTenant(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.OrderLineResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(decoded))
	}
	if !decoded[0].IsCompositionParent || decoded[1].ParentLineID == nil || *decoded[1].ParentLineID != 1 {
		t.Fatalf("unexpected composition linkage: %+v", decoded)
	}
}

func TestOrderHandlerSummary(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{SummaryFn: func(_ context.Context, tenantID int64) (map[model.OnlineStatus]int, error) {
		if tenantID != 1 {
			t.Fatalf("unexpected tenant %d", tenantID)
		}
		return map[model.OnlineStatus]int{
			model.OnlineStatusPendingPayment: 4,
			model.OnlineStatusShipped:        2,
		}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders/summary", NewOrderHandler(facade).Summary, asTenant(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded map[string]int
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded["pending_payment"] != 4 || decoded["shipped"] != 2 {
		t.Fatalf("unexpected summary: %v", decoded)
	}
}

func TestOrderHandlerConfirmPayment(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{ConfirmFn: func(_ context.Context, _, orderID int64) (*model.Order, error) {
		return &model.Order{ID: orderID, OnlineStatus: model.OnlineStatusPaymentConfirmed}, nil
	}}
	resp := performRouteRequest(t, http.MethodPost, "/orders/:id/confirm-payment", "/orders/42/confirm-payment", NewOrderHandler(facade).ConfirmPayment, asTenant(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.OnlineStatus != string(model.OnlineStatusPaymentConfirmed) {
		t.Fatalf("unexpected status %q", decoded.OnlineStatus)
	}

	alreadyPaid := &testhelpers.OrderFacadeStub{ConfirmFn: func(context.Context, int64, int64) (*model.Order, error) {
		return nil, domainErrors.Transitionf("order is not awaiting payment")
	}}
	conflict := performRouteRequest(t, http.MethodPost, "/orders/:id/confirm-payment", "/orders/42/confirm-payment", NewOrderHandler(alreadyPaid).ConfirmPayment, asTenant(1), nil, nil)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for repeated confirmation, got %d", conflict.Code)
	}
}

func TestOrderHandlerAdvance(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{AdvanceFn: func(_ context.Context, _, orderID int64, to model.OnlineStatus, meta *repository.ShippingMeta) (*model.Order, error) {
		if to != model.OnlineStatusShipped {
			t.Fatalf("unexpected target status %q", to)
		}
		if meta == nil || meta.TrackingCode == nil || *meta.TrackingCode != "BR123" {
			t.Fatalf("expected tracking meta, got %+v", meta)
		}
		return &model.Order{ID: orderID, OnlineStatus: to, TrackingCode: meta.TrackingCode}, nil
	}}
	body := []byte(`{"status":"shipped","tracking_code":"BR123"}`)
	resp := performRouteRequest(t, http.MethodPost, "/orders/:id/advance", "/orders/42/advance", NewOrderHandler(facade).Advance, asTenant(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestOrderHandlerAdvanceWithoutMeta(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{AdvanceFn: func(_ context.Context, _, orderID int64, to model.OnlineStatus, meta *repository.ShippingMeta) (*model.Order, error) {
		if meta != nil {
			t.Fatalf("expected nil meta, got %+v", meta)
		}
		return &model.Order{ID: orderID, OnlineStatus: to}, nil
	}}
	body := []byte(`{"status":"processing"}`)
	resp := performRouteRequest(t, http.MethodPost, "/orders/:id/advance", "/orders/42/advance", NewOrderHandler(facade).Advance, asTenant(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestOrderHandlerAdvanceFailures(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		facade testhelpers.OrderFacadeStub
		body   []byte
		status int
	}{
		{name: "bad id", path: "/orders/abc/advance", body: []byte(`{"status":"processing"}`), status: http.StatusBadRequest},
		{name: "bad json", path: "/orders/42/advance", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "missing status", path: "/orders/42/advance", body: []byte(`{}`), status: http.StatusBadRequest},
		{name: "illegal move", path: "/orders/42/advance", body: []byte(`{"status":"shipped"}`), facade: testhelpers.OrderFacadeStub{AdvanceFn: func(context.Context, int64, int64, model.OnlineStatus, *repository.ShippingMeta) (*model.Order, error) {
			return nil, domainErrors.Transitionf("cannot move order from %q to %q", "pending_payment", "shipped")
		}}, status: http.StatusConflict},
		{name: "unknown status", path: "/orders/42/advance", body: []byte(`{"status":"teleported"}`), facade: testhelpers.OrderFacadeStub{AdvanceFn: func(context.Context, int64, int64, model.OnlineStatus, *repository.ShippingMeta) (*model.Order, error) {
			return nil, domainErrors.Validationf("unknown order status %q", "teleported")
		}}, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRouteRequest(t, http.MethodPost, "/orders/:id/advance", tt.path, NewOrderHandler(&tt.facade).Advance, asTenant(1), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerCancel(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{CancelFn: func(_ context.Context, _, orderID int64, reason *string) (*model.Order, error) {
		if reason == nil || *reason != "changed my mind" {
			t.Fatalf("expected reason to be forwarded, got %v", reason)
		}
		return &model.Order{ID: orderID, OnlineStatus: model.OnlineStatusCancelled, CancelReason: reason}, nil
	}}
	body := []byte(`{"reason":"changed my mind"}`)
	resp := performRouteRequest(t, http.MethodPost, "/orders/:id/cancel", "/orders/42/cancel", NewOrderHandler(facade).Cancel, asTenant(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.OnlineStatus != string(model.OnlineStatusCancelled) {
		t.Fatalf("unexpected status %q", decoded.OnlineStatus)
	}
}

func TestOrderHandlerCancelWithoutBody(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{CancelFn: func(_ context.Context, _, orderID int64, reason *string) (*model.Order, error) {
		if reason != nil {
			t.Fatalf("expected nil reason, got %q", *reason)
		}
		return &model.Order{ID: orderID, OnlineStatus: model.OnlineStatusCancelled}, nil
	}}
	resp := performRouteRequest(t, http.MethodPost, "/orders/:id/cancel", "/orders/42/cancel", NewOrderHandler(facade).Cancel, asTenant(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestOrderHandlerCancelFailures(t *testing.T) {
	shipped := &testhelpers.OrderFacadeStub{CancelFn: func(context.Context, int64, int64, *string) (*model.Order, error) {
		return nil, domainErrors.Transitionf("order already left the warehouse")
	}}
	resp := performRouteRequest(t, http.MethodPost, "/orders/:id/cancel", "/orders/42/cancel", NewOrderHandler(shipped).Cancel, asTenant(1), nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	bad := performRouteRequest(t, http.MethodPost, "/orders/:id/cancel", "/orders/42/cancel", NewOrderHandler(&testhelpers.OrderFacadeStub{}).Cancel, asTenant(1), []byte("not json"), map[string]string{"Content-Type": "application/json"})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed body, got %d", bad.Code)
	}
}

func TestOrderHandlerPaymentInstrument(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{RegenerateFn: func(_ context.Context, _, orderID int64) (*usecase.PaymentInstrument, error) {
		if orderID != 42 {
			t.Fatalf("unexpected order %d", orderID)
		}
		return &usecase.PaymentInstrument{HumanCode: "00020126", ScannableCode: "qr-data"}, nil
	}}
	resp := performRouteRequest(t, http.MethodPost, "/orders/:id/payment-instrument", "/orders/42/payment-instrument", NewOrderHandler(facade).PaymentInstrument, asTenant(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.PaymentInstrumentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ScannableCode != "qr-data" {
		t.Fatalf("unexpected instrument: %+v", decoded)
	}

	paid := &testhelpers.OrderFacadeStub{RegenerateFn: func(context.Context, int64, int64) (*usecase.PaymentInstrument, error) {
		return nil, domainErrors.Transitionf("order is not awaiting payment")
	}}
	conflict := performRouteRequest(t, http.MethodPost, "/orders/:id/payment-instrument", "/orders/42/payment-instrument", NewOrderHandler(paid).PaymentInstrument, asTenant(1), nil, nil)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected status 409 once paid, got %d", conflict.Code)
	}
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{name: "busy beats validation kind", err: domainErrors.ErrCheckoutBusy, status: http.StatusConflict, kind: "validation"},
		{name: "validation", err: domainErrors.Validationf("bad input"), status: http.StatusUnprocessableEntity, kind: "validation"},
		{name: "not found", err: domainErrors.ErrNotFound, status: http.StatusNotFound, kind: "not_found"},
		{name: "transition", err: domainErrors.Transitionf("illegal move"), status: http.StatusConflict, kind: "transition"},
		{name: "unavailable", err: domainErrors.Unavailable("store down", errors.New("conn refused")), status: http.StatusServiceUnavailable, kind: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/boom", func(c *gin.Context) {
				writeError(c, tt.err)
			}, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			var decoded dto.ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if decoded.Kind != tt.kind {
				t.Fatalf("expected kind %q, got %q", tt.kind, decoded.Kind)
			}
		})
	}
}

func TestWriteErrorHidesForeignErrors(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/boom", func(c *gin.Context) {
		writeError(c, errors.New("pgx: connection reset"))
	}, nil, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	if resp.Body.Len() != 0 {
		t.Fatalf("expected opaque body, got %q", resp.Body.String())
	}
}
