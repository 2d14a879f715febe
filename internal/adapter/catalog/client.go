package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
)

// Client exposes read operations against the catalog service.
type Client interface {
	Item(ctx context.Context, tenantID, itemID int64) (*model.CatalogItem, error)
	Items(ctx context.Context, tenantID int64, itemIDs []int64) (map[int64]*model.CatalogItem, error)
	BundleComponents(ctx context.Context, tenantID, bundleID int64) ([]model.BundleComponent, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// itemResponse mirrors the catalog service item payload.
type itemResponse struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Kind               string   `json:"kind"`
	Price              float64  `json:"price"`
	OnlinePrice        *float64 `json:"online_price,omitempty"`
	CostPrice          float64  `json:"cost_price"`
	IsBundle           bool     `json:"is_bundle"`
	QuoteOnly          bool     `json:"quote_only"`
	TrackStock         bool     `json:"track_stock"`
	StockQuantity      int      `json:"stock_quantity"`
	CommissionRate     float64  `json:"commission_rate"`
	RequiresScheduling bool     `json:"requires_scheduling"`
	RequiresSeparation bool     `json:"requires_separation"`
	RequiresDelivery   bool     `json:"requires_delivery"`
}

type componentResponse struct {
	ComponentID int64 `json:"component_id"`
	Quantity    int   `json:"quantity"`
	Position    int   `json:"position"`
}

// NewHTTPClient creates an HTTP catalog client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("catalog url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Item fetches a single catalog item.
func (c *HTTPClient) Item(ctx context.Context, tenantID, itemID int64) (*model.CatalogItem, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/items/", strconv.FormatInt(itemID, 10))
	endpoint.RawQuery = url.Values{"tenant": {strconv.FormatInt(tenantID, 10)}}.Encode()

	var data itemResponse
	if err := c.get(ctx, endpoint.String(), &data); err != nil {
		return nil, err
	}
	return toItem(data), nil
}

// Items fetches a batch of catalog items keyed by id. Missing ids are absent
// from the result rather than an error.
func (c *HTTPClient) Items(ctx context.Context, tenantID int64, itemIDs []int64) (map[int64]*model.CatalogItem, error) {
	if len(itemIDs) == 0 {
		return map[int64]*model.CatalogItem{}, nil
	}
	ids := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/items")
	endpoint.RawQuery = url.Values{
		"tenant": {strconv.FormatInt(tenantID, 10)},
		"ids":    {strings.Join(ids, ",")},
	}.Encode()

	var data []itemResponse
	if err := c.get(ctx, endpoint.String(), &data); err != nil {
		return nil, err
	}
	result := make(map[int64]*model.CatalogItem, len(data))
	for _, item := range data {
		result[item.ID] = toItem(item)
	}
	return result, nil
}

// BundleComponents fetches the composition list of a bundle item.
func (c *HTTPClient) BundleComponents(ctx context.Context, tenantID, bundleID int64) ([]model.BundleComponent, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/items/", strconv.FormatInt(bundleID, 10), "components")
	endpoint.RawQuery = url.Values{"tenant": {strconv.FormatInt(tenantID, 10)}}.Encode()

	var data []componentResponse
	if err := c.get(ctx, endpoint.String(), &data); err != nil {
		return nil, err
	}
	components := make([]model.BundleComponent, 0, len(data))
	for _, comp := range data {
		components = append(components, model.BundleComponent{
			ParentItemID: bundleID,
			ChildItemID:  comp.ComponentID,
			Quantity:     comp.Quantity,
			Position:     comp.Position,
		})
	}
	return components, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, out)
	case http.StatusNotFound:
		return domainErrors.ErrNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("catalog request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("catalog error: %s", resp.Status)
	}
}

func toItem(data itemResponse) *model.CatalogItem {
	return &model.CatalogItem{
		ID:                 data.ID,
		Name:               data.Name,
		Kind:               model.ItemKind(data.Kind),
		Price:              data.Price,
		OnlinePrice:        data.OnlinePrice,
		CostPrice:          data.CostPrice,
		IsBundle:           data.IsBundle,
		QuoteOnly:          data.QuoteOnly,
		TrackStock:         data.TrackStock,
		StockQuantity:      data.StockQuantity,
		CommissionRate:     data.CommissionRate,
		RequiresScheduling: data.RequiresScheduling,
		RequiresSeparation: data.RequiresSeparation,
		RequiresDelivery:   data.RequiresDelivery,
	}
}
