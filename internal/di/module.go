package di

import (
	"go.uber.org/fx"

	"github.com/vendrix/storefront/internal/adapter/catalog"
	"github.com/vendrix/storefront/internal/adapter/directory"
	"github.com/vendrix/storefront/internal/adapter/payment"
	"github.com/vendrix/storefront/internal/adapter/scheduling"
	"github.com/vendrix/storefront/internal/app"
	"github.com/vendrix/storefront/internal/config"
	"github.com/vendrix/storefront/internal/events"
	"github.com/vendrix/storefront/internal/logger"
	"github.com/vendrix/storefront/internal/pkg/auth"
	"github.com/vendrix/storefront/internal/redisx"
	"github.com/vendrix/storefront/internal/server/http/handlers"
	"github.com/vendrix/storefront/internal/server/http/middleware"
	"github.com/vendrix/storefront/internal/server/http/router"
	"github.com/vendrix/storefront/internal/storage/postgres"
	"github.com/vendrix/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		redisx.Module,
		events.Module,
		catalog.Module,
		directory.Module,
		payment.Module,
		scheduling.Module,
		usecase.Module,
		fx.Provide(
			func(f *app.CommerceFacade) handlers.CommerceFacade { return f },
			func(f *app.CommerceFacade) middleware.TokenParser { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
