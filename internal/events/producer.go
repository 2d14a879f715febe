package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer is an async kafka writer with an in-memory inbox. Publishing never
// blocks the caller; pending messages are flushed on shutdown.
type Producer struct {
	w       *kafka.Writer
	logger  *slog.Logger
	inbox   chan kafka.Message
	closeCh chan struct{}
}

// NewProducer creates a producer for the given brokers and topic.
func NewProducer(brokers []string, topic string, buf int, logger *slog.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		logger:  logger,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start launches the delivery loop. It drains the inbox until Stop is called.
func (p *Producer) Start() {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.logger.Error("event delivery failed", slog.String("key", string(m.Key)), slog.Any("error", err))
			}
		}
		if err := p.w.Close(); err != nil {
			p.logger.Error("kafka writer close failed", slog.Any("error", err))
		}
	}()
}

// Publish enqueues a message. When the inbox is full the message is dropped
// rather than stalling the caller.
func (p *Producer) Publish(key, value []byte) {
	select {
	case p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now()}:
	default:
		p.logger.Warn("event inbox full, dropping message", slog.String("key", string(key)))
	}
}

// Stop closes the inbox and waits for the delivery loop to flush and exit.
func (p *Producer) Stop(ctx context.Context) error {
	close(p.inbox)
	select {
	case <-p.closeCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
