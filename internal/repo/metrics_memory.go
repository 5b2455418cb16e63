package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/shopspring/decimal"
)

type InMemoryMetricsRepository struct {
	s *MemoryStore
}

// GetDashboardMetrics implements MetricsRepository.
func (r *InMemoryMetricsRepository) GetDashboardMetrics(_ context.Context) (Metrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m := Metrics{
		TotalProducts:  r.s.products.len(),
		TotalUsers:     r.s.users.len(),
		TotalOrders:    r.s.orders.len(),
		TotalMovements: r.s.movements.len(),
		LowStockCount:  len(r.s.products.filter(models.Product.IsLowStock)),
		Revenue:        decimal.Zero,
	}

	ordered := map[int]int{}
	for _, o := range r.s.orders.rows {
		m.Revenue = m.Revenue.Add(o.Total)
		ordered[o.ProductID] += o.Quantity
	}

	// Ties go to the lowest product id, matching the Postgres query.
	for _, p := range r.s.products.rows {
		qty := ordered[p.ID]
		if qty == 0 {
			continue
		}
		if m.MostOrderedProduct == nil || qty > m.MostOrderedProduct.Quantity {
			m.MostOrderedProduct = &MostOrderedProduct{ProductID: p.ID, Name: p.Name, Quantity: qty}
		}
	}

	return m, nil
}
