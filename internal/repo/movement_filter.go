package repo

import (
	"time"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

// MovementFilter narrows a product's movement history to a time window.
// Both bounds are inclusive and optional.
type MovementFilter struct {
	Since *time.Time
	Until *time.Time
}

func (f MovementFilter) matches(m models.Movement) bool {
	if f.Since != nil && m.CreatedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && m.CreatedAt.After(*f.Until) {
		return false
	}
	return true
}
