package models

import "time"

type MovementReason string

const (
	MovementInitial    MovementReason = "initial"
	MovementOrder      MovementReason = "order"
	MovementAdjustment MovementReason = "adjustment"
)

type Movement struct {
	ID        int            `json:"id"`
	ProductID int            `json:"productId"`
	Delta     int            `json:"delta"`
	Reason    MovementReason `json:"reason"`
	OrderID   *int           `json:"orderId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
