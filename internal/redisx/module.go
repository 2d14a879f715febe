package redisx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/vendrix/storefront/internal/config"
	"github.com/vendrix/storefront/internal/usecase"
)

// Module wires the redis client and the checkout lock into the fx graph.
var Module = fx.Options(
	fx.Provide(
		func(cfg *config.Config) *redis.Client { return New(cfg.RedisAddr) },
		NewCheckoutLock,
		func(l *CheckoutLock) usecase.CheckoutLocker { return l },
	),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, rdb *redis.Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
}
