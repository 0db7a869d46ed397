package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lanchonete/internal/connections/rabbitmq"
	"lanchonete/internal/domain"
)

const publishTimeout = 5 * time.Second

// OrderEvent is the message emitted to the orders topic exchange for
// downstream consumers. Routing keys: order.created, order.status_changed,
// order.deleted.
type OrderEvent struct {
	EventID         string             `json:"event_id"`
	Type            string             `json:"type"`
	OrderID         int64              `json:"order_id"`
	CustomerID      int64              `json:"customer_id"`
	EstablishmentID int64              `json:"establishment_id"`
	Status          domain.OrderStatus `json:"status"`
	PreviousStatus  domain.OrderStatus `json:"previous_status,omitempty"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	OccurredAt      time.Time          `json:"occurred_at"`
}

// Publisher emits order lifecycle events after the transaction committed.
// Publishing is best-effort: a broker failure is logged and never fails the
// request that triggered it.
type Publisher struct {
	client   *rabbitmq.Client
	exchange string
	log      *slog.Logger
}

func NewPublisher(client *rabbitmq.Client, exchange string, log *slog.Logger) *Publisher {
	return &Publisher{client: client, exchange: exchange, log: log}
}

func (p *Publisher) OrderCreated(ctx context.Context, o domain.Order) {
	p.publish(ctx, "order.created", eventFor(o, "order.created", ""))
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, o domain.Order, previous domain.OrderStatus) {
	p.publish(ctx, "order.status_changed", eventFor(o, "order.status_changed", previous))
}

func (p *Publisher) OrderDeleted(ctx context.Context, o domain.Order) {
	p.publish(ctx, "order.deleted", eventFor(o, "order.deleted", ""))
}

func eventFor(o domain.Order, typ string, previous domain.OrderStatus) OrderEvent {
	return OrderEvent{
		EventID:         uuid.NewString(),
		Type:            typ,
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		EstablishmentID: o.EstablishmentID,
		Status:          o.Status,
		PreviousStatus:  previous,
		TotalAmount:     o.TotalAmount,
		OccurredAt:      time.Now().UTC(),
	}
}

func (p *Publisher) publish(ctx context.Context, key string, ev OrderEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.ErrorContext(ctx, "marshal order event", "type", ev.Type, "order_id", ev.OrderID, "error", err)
		return
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.client.Publish(pctx, p.exchange, key, ev.EventID, body); err != nil {
		p.log.ErrorContext(ctx, "publish order event", "type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}
