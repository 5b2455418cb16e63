package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/rogerio-castellano/order-tracker/internal/orders"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	key, value []byte
	headers    []kafka.Header
}

func (c *capturePublisher) Publish(key, value []byte, headers ...kafka.Header) error {
	c.key, c.value, c.headers = key, value, headers
	return nil
}

func TestOrderEventPublisher(t *testing.T) {
	capture := &capturePublisher{}
	pub := NewOrderEventPublisher(capture, "order-tracker")
	occurred := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return occurred }

	o := models.Order{
		ID: 42, UserID: 1, ProductID: 3, Quantity: 2,
		Total: decimal.RequireFromString("199.98"), CreatedAt: occurred,
	}
	require.NoError(t, pub.PublishOrderCreated(context.Background(), o))

	assert.Equal(t, "42", string(capture.key))
	require.Len(t, capture.headers, 1)
	assert.Equal(t, orders.EventOrderCreated, string(capture.headers[0].Value))

	var env orders.Envelope
	require.NoError(t, json.Unmarshal(capture.value, &env))
	assert.Equal(t, orders.EventOrderCreated, env.EventType)
	assert.Equal(t, orders.EventVersion, env.EventVersion)
	assert.Equal(t, "order-tracker", env.Producer)
	assert.Equal(t, "42", env.CorrelationID)
	assert.True(t, occurred.Equal(env.OccurredAt))
	_, err := uuid.Parse(env.EventID)
	assert.NoError(t, err)

	payload, err := unwrapPayload[orders.OrderCreatedPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, 42, payload.OrderID)
	assert.Equal(t, 2, payload.Quantity)
	assert.True(t, decimal.RequireFromString("199.98").Equal(payload.Total))
}

func TestUnwrapPayloadRejectsGarbage(t *testing.T) {
	_, err := unwrapPayload[orders.OrderCreatedPayload](json.RawMessage(`"nope"`))
	assert.Error(t, err)
}

// unwrapPayload decodes an envelope payload into its event-specific type.
func unwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
