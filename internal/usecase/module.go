package usecase

import (
	"go.uber.org/fx"

	"github.com/vendrix/storefront/internal/config"
	"github.com/vendrix/storefront/internal/domain/repository"
)

// Module wires the use case layer.
var Module = fx.Options(
	fx.Provide(
		NewCompositionResolver,
		newCartUseCase,
		NewCheckoutUseCase,
		NewLifecycleUseCase,
	),
)

type cartParams struct {
	fx.In

	Carts   repository.CartRepository
	Lines   repository.CartLineRepository
	Catalog CatalogGateway
	Config  *config.Config
}

func newCartUseCase(p cartParams) *CartUseCase {
	return NewCartUseCase(p.Carts, p.Lines, p.Catalog, p.Config.CartTTL)
}
