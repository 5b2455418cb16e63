package orders

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated = "OrderCreated"
	EventVersion      = 1
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID   int             `json:"order_id"`
	UserID    int             `json:"user_id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewOrderCreatedPayload(o models.Order) OrderCreatedPayload {
	return OrderCreatedPayload{
		OrderID:   o.ID,
		UserID:    o.UserID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}
}

// EventPublisher announces committed orders. Implementations must not block the caller
// for long; a publish error never undoes the order.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o models.Order) error
}
