package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/usecase"
)

// Client generates payment instruments through the payment provider.
type Client interface {
	Generate(ctx context.Context, settings *model.MerchantSettings, amount float64, orderID int64, customer *model.Customer, address *model.Address) (*usecase.PaymentInstrument, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type generateRequest struct {
	Key          string         `json:"key"`
	Amount       float64        `json:"amount"`
	OrderID      int64          `json:"order_id"`
	CustomerName string         `json:"customer_name"`
	CustomerTax  string         `json:"customer_tax_id,omitempty"`
	Address      *model.Address `json:"address,omitempty"`
}

type generateResponse struct {
	HumanCode     string `json:"human_code"`
	ScannableCode string `json:"scannable_code"`
	RawKey        string `json:"raw_key"`
}

// NewHTTPClient creates an HTTP payment client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Generate requests a payment instrument for the given order total.
func (c *HTTPClient) Generate(ctx context.Context, settings *model.MerchantSettings, amount float64, orderID int64, customer *model.Customer, address *model.Address) (*usecase.PaymentInstrument, error) {
	if settings.PaymentKey == "" {
		return nil, fmt.Errorf("merchant has no payment key configured")
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/instruments")

	payload := generateRequest{
		Key:     settings.PaymentKey,
		Amount:  amount,
		OrderID: orderID,
		Address: address,
	}
	if customer != nil {
		payload.CustomerName = customer.Name
		payload.CustomerTax = customer.TaxID
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("payment request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("payment error: %s", resp.Status)
	}

	var data generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return &usecase.PaymentInstrument{
		HumanCode:     data.HumanCode,
		ScannableCode: data.ScannableCode,
		RawKey:        data.RawKey,
	}, nil
}
