package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is created once by the order workflow and never modified afterwards.
// Total is the product price at creation time multiplied by Quantity.
type Order struct {
	ID        int             `json:"id"`
	UserID    int             `json:"userId"`
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}
