package payment

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vendrix/storefront/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/instruments" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var payload generateRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if payload.Key != "merchant-key" || payload.Amount != 210 || payload.OrderID != 42 {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		if payload.CustomerName != "Ana Souza" {
			t.Fatalf("expected customer name, got %q", payload.CustomerName)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{
			HumanCode:     "00020126",
			ScannableCode: "qr-data",
			RawKey:        "merchant-key",
		})
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	settings := &model.MerchantSettings{TenantID: 1, PaymentKey: "merchant-key"}
	customer := &model.Customer{ID: 9, Name: "Ana Souza"}
	instrument, err := client.Generate(context.Background(), settings, 210, 42, customer, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instrument.ScannableCode != "qr-data" || instrument.HumanCode != "00020126" {
		t.Fatalf("unexpected instrument: %+v", instrument)
	}
}

func TestGenerateRequiresPaymentKey(t *testing.T) {
	client, err := NewHTTPClient("http://example.com", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.Generate(context.Background(), &model.MerchantSettings{TenantID: 1}, 10, 1, nil, nil); err == nil {
		t.Fatal("expected error without payment key")
	}
}

func TestGenerateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "provider down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	settings := &model.MerchantSettings{TenantID: 1, PaymentKey: "merchant-key"}
	if _, err := client.Generate(context.Background(), settings, 10, 1, nil, nil); err == nil {
		t.Fatal("expected error from provider")
	}
}
