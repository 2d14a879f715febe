package scheduling

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

	"github.com/vendrix/storefront/internal/usecase"
)

// Client books service visits with the scheduling service.
type Client interface {
	Schedule(ctx context.Context, tenantID int64, partnerID *int64, customerID, itemID, orderID int64, slot usecase.ScheduleSlot) (string, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type scheduleRequest struct {
	TenantID   int64  `json:"tenant_id"`
	PartnerID  *int64 `json:"partner_id,omitempty"`
	CustomerID int64  `json:"customer_id"`
	ItemID     int64  `json:"item_id"`
	OrderID    int64  `json:"order_id"`
	Date       string `json:"date"`
	Window     string `json:"window,omitempty"`
}

type scheduleResponse struct {
	Reference string `json:"reference"`
}

// NewHTTPClient creates an HTTP scheduling client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse scheduling url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("scheduling url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Schedule books a visit for a service line and returns the booking reference.
func (c *HTTPClient) Schedule(ctx context.Context, tenantID int64, partnerID *int64, customerID, itemID, orderID int64, slot usecase.ScheduleSlot) (string, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/visits")

	body, err := json.Marshal(scheduleRequest{
		TenantID:   tenantID,
		PartnerID:  partnerID,
		CustomerID: customerID,
		ItemID:     itemID,
		OrderID:    orderID,
		Date:       slot.Date.Format(time.DateOnly),
		Window:     slot.Window,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("scheduling request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return "", fmt.Errorf("scheduling error: %s", resp.Status)
	}

	var data scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	return data.Reference, nil
}
