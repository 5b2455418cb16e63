package idempotency

import (
	"context"
	"time"
)

// Response is what a replayed request receives.
type Response struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Store remembers responses by Idempotency-Key.
type Store interface {
	// Get returns the saved response for key, if any.
	Get(ctx context.Context, key string) (Response, bool, error)
	// Reserve marks key as in flight. It returns false when another request holds it.
	Reserve(ctx context.Context, key string) (bool, error)
	// Save stores the response for key and clears the reservation.
	Save(ctx context.Context, key string, r Response) error
	// Release clears the reservation without saving, so the key can be retried.
	Release(ctx context.Context, key string) error
}

// reservationTTL bounds how long a crashed request can block its key.
const reservationTTL = 30 * time.Second
