package repo

import (
	"context"

	"github.com/shopspring/decimal"
)

type MostOrderedProduct struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type Metrics struct {
	TotalProducts      int                 `json:"totalProducts"`
	TotalUsers         int                 `json:"totalUsers"`
	TotalOrders        int                 `json:"totalOrders"`
	TotalMovements     int                 `json:"totalMovements"`
	LowStockCount      int                 `json:"lowStockCount"`
	Revenue            decimal.Decimal     `json:"revenue"`
	MostOrderedProduct *MostOrderedProduct `json:"mostOrderedProduct,omitempty"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
