package directory

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
	"strconv"
	"time"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
)

// Client exposes operations against the customer directory service.
type Client interface {
	GetByID(ctx context.Context, tenantID, customerID int64) (*model.Customer, error)
	FindByTaxID(ctx context.Context, tenantID int64, taxID string) (*model.Customer, error)
	FindByEmail(ctx context.Context, tenantID int64, email string) (*model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type customerPayload struct {
	ID       int64  `json:"id,omitempty"`
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`
	TaxID    string `json:"tax_id,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// NewHTTPClient creates an HTTP directory client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse directory url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("directory url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// GetByID fetches a customer by its identifier.
func (c *HTTPClient) GetByID(ctx context.Context, tenantID, customerID int64) (*model.Customer, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/customers/", strconv.FormatInt(customerID, 10))
	endpoint.RawQuery = url.Values{"tenant": {strconv.FormatInt(tenantID, 10)}}.Encode()
	return c.fetch(ctx, endpoint.String())
}

// FindByTaxID looks up a customer by tax identifier.
func (c *HTTPClient) FindByTaxID(ctx context.Context, tenantID int64, taxID string) (*model.Customer, error) {
	return c.find(ctx, tenantID, url.Values{"tax_id": {taxID}})
}

// FindByEmail looks up a customer by email address.
func (c *HTTPClient) FindByEmail(ctx context.Context, tenantID int64, email string) (*model.Customer, error) {
	return c.find(ctx, tenantID, url.Values{"email": {email}})
}

// Create registers a new customer and returns it with its assigned id.
func (c *HTTPClient) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/customers")

	body, err := json.Marshal(customerPayload{
		TenantID: customer.TenantID,
		Name:     customer.Name,
		TaxID:    customer.TaxID,
		Email:    customer.Email,
		Phone:    customer.Phone,
	})
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
		c.logger.Error("directory create failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("directory error: %s", resp.Status)
	}
	return decodeCustomer(resp.Body)
}

func (c *HTTPClient) find(ctx context.Context, tenantID int64, query url.Values) (*model.Customer, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/customers/lookup")
	query.Set("tenant", strconv.FormatInt(tenantID, 10))
	endpoint.RawQuery = query.Encode()
	return c.fetch(ctx, endpoint.String())
}

func (c *HTTPClient) fetch(ctx context.Context, endpoint string) (*model.Customer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return decodeCustomer(resp.Body)
	case http.StatusNotFound:
		return nil, domainErrors.ErrNotFound
	default:
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("directory request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("directory error: %s", resp.Status)
	}
}

func decodeCustomer(r io.Reader) (*model.Customer, error) {
	var data customerPayload
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}
	return &model.Customer{
		ID:       data.ID,
		TenantID: data.TenantID,
		Name:     data.Name,
		TaxID:    data.TaxID,
		Email:    data.Email,
		Phone:    data.Phone,
	}, nil
}
