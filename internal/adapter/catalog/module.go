package catalog

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/vendrix/storefront/internal/config"
	"github.com/vendrix/storefront/internal/usecase"
)

// Module exposes the catalog client implementation to the fx graph.
var Module = fx.Provide(newClient, func(c Client) usecase.CatalogGateway { return c })

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.CatalogAddress, p.Logger)
}
