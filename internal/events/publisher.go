package events

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vendrix/storefront/internal/domain/model"
)

// publisher emits order lifecycle events through the async producer. All
// methods are fire-and-forget; a marshalling failure is logged and swallowed.
type publisher struct {
	producer *Producer
	logger   *slog.Logger
}

// NewPublisher creates an order event publisher on top of the producer.
func NewPublisher(producer *Producer, logger *slog.Logger) *publisher {
	return &publisher{producer: producer, logger: logger}
}

func (p *publisher) OrderCreated(order *model.Order) {
	p.emit(order.ID, EventOrderCreated, OrderCreatedPayload{
		OrderID:    order.ID,
		TenantID:   order.TenantID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
		Channel:    string(order.Channel),
	})
}

func (p *publisher) OrderPaid(order *model.Order) {
	paidAt := time.Now().UTC()
	if order.PaidAt != nil {
		paidAt = *order.PaidAt
	}
	p.emit(order.ID, EventOrderPaid, OrderPaidPayload{
		OrderID: order.ID,
		Total:   order.Total,
		PaidAt:  paidAt,
	})
}

func (p *publisher) OrderStatusChanged(order *model.Order, from model.OnlineStatus) {
	p.emit(order.ID, EventOrderStatusChanged, OrderStatusChangedPayload{
		OrderID: order.ID,
		From:    string(from),
		To:      string(order.OnlineStatus),
	})
}

func (p *publisher) OrderCancelled(order *model.Order, reason string) {
	p.emit(order.ID, EventOrderCancelled, OrderCancelledPayload{
		OrderID: order.ID,
		Reason:  reason,
	})
}

func (p *publisher) emit(orderID int64, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("event payload marshal failed", slog.String("type", eventType), slog.Any("error", err))
		return
	}
	envelope, err := json.Marshal(Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     producerName,
		Payload:      raw,
	})
	if err != nil {
		p.logger.Error("event envelope marshal failed", slog.String("type", eventType), slog.Any("error", err))
		return
	}
	p.producer.Publish([]byte(strconv.FormatInt(orderID, 10)), envelope)
}
