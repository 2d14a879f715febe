package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/vendrix/storefront/internal/config"
	"github.com/vendrix/storefront/internal/usecase"
)

const inboxSize = 256

// Module wires the kafka producer and the order event publisher.
var Module = fx.Options(
	fx.Provide(
		newProducer,
		func(p *Producer, logger *slog.Logger) usecase.EventPublisher { return NewPublisher(p, logger) },
	),
	fx.Invoke(registerLifecycle),
)

type producerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newProducer(p producerParams) *Producer {
	return NewProducer(p.Config.KafkaBrokers, p.Config.EventTopic, inboxSize, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, producer *Producer) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			producer.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return producer.Stop(ctx)
		},
	})
}
