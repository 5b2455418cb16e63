package validation

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type ProductPayload struct {
	Name     string   `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Stock    *int     `json:"stock" validate:"required,gte=0"`
	MinStock *int     `json:"minStock" validate:"omitempty,gte=0"`
}

type ParsedProduct struct {
	Name     string
	Price    decimal.Decimal
	Stock    int
	MinStock int
}

var productRules = []rule{
	{tags: []string{"required"}, err: ErrProductFieldsRequired},
	{fields: []string{"Price", "Stock"}, tags: []string{"gte"}, err: ErrNegativePriceOrStock},
	{fields: []string{"MinStock"}, tags: []string{"gte"}, err: ErrNegativeMinStock},
}

// ValidateProduct checks presence, then non-negativity, then that the price is a
// finite amount in whole cents. A missing minStock defaults to zero.
func ValidateProduct(p ProductPayload) (ParsedProduct, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := verdict(p, productRules); err != nil {
		return ParsedProduct{}, err
	}

	price, err := parsePrice(*p.Price)
	if err != nil {
		return ParsedProduct{}, err
	}

	parsed := ParsedProduct{
		Name:  p.Name,
		Price: price,
		Stock: *p.Stock,
	}
	if p.MinStock != nil {
		parsed.MinStock = *p.MinStock
	}
	return parsed, nil
}

// parsePrice converts a price to a decimal. Prices are stored with cent
// precision, so finer amounts are rejected rather than rounded.
func parsePrice(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	d := decimal.NewFromFloat(f)
	if !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return d, nil
}

// AdjustmentPayload changes a product's stock by Delta (positive restocks, negative writes off).
type AdjustmentPayload struct {
	Delta *int `json:"delta" validate:"required,ne=0"`
}

var adjustmentRules = []rule{
	{tags: []string{"required"}, err: ErrDeltaRequired},
	{tags: []string{"ne"}, err: ErrZeroDelta},
}

func ValidateAdjustment(p AdjustmentPayload) (int, error) {
	if err := verdict(p, adjustmentRules); err != nil {
		return 0, err
	}
	return *p.Delta, nil
}
