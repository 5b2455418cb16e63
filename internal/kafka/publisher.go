package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/rogerio-castellano/order-tracker/internal/orders"
	"github.com/segmentio/kafka-go"
)

type publisher interface {
	Publish(key, value []byte, headers ...kafka.Header) error
}

// OrderEventPublisher wraps committed orders in an event envelope keyed by order id.
type OrderEventPublisher struct {
	p        publisher
	producer string
	now      func() time.Time
}

func NewOrderEventPublisher(p publisher, producer string) *OrderEventPublisher {
	return &OrderEventPublisher{
		p:        p,
		producer: producer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (e *OrderEventPublisher) PublishOrderCreated(_ context.Context, o models.Order) error {
	orderID := strconv.Itoa(o.ID)

	env := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  orders.EventVersion,
		OccurredAt:    e.now(),
		Producer:      e.producer,
		CorrelationID: orderID,
		Payload:       MustMarshal(orders.NewOrderCreatedPayload(o)),
	}

	return e.p.Publish(
		[]byte(orderID),
		MustMarshal(env),
		kafka.Header{Key: "event_type", Value: []byte(env.EventType)},
	)
}
