package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/vendrix/storefront/internal/config"
	"github.com/vendrix/storefront/internal/usecase"
)

// Module exposes the payment client to the fx graph.
var Module = fx.Provide(newClient, func(c Client) usecase.PaymentGenerator { return c })

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PaymentAddress, p.Logger)
}
