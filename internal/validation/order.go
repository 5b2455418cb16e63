package validation

import "github.com/rogerio-castellano/order-tracker/internal/models"

// OrderPayload is an order request as decoded at the boundary. Absent fields stay nil.
type OrderPayload struct {
	UserID    *int      `json:"userId" validate:"required"`
	ProductID *int      `json:"productId" validate:"required"`
	Quantity  *Quantity `json:"quantity" validate:"required" swaggertype:"integer"`
}

// ParsedOrder is an order request that passed shape validation.
type ParsedOrder struct {
	UserID    int
	ProductID int
	Quantity  int
}

var orderRules = []rule{
	{tags: []string{"required"}, err: ErrOrderFieldsRequired},
}

// ValidateOrder checks presence and then quantity positivity. It never touches a store.
func ValidateOrder(p OrderPayload) (ParsedOrder, error) {
	if err := verdict(p, orderRules); err != nil {
		return ParsedOrder{}, err
	}
	qty, ok := p.Quantity.positive()
	if !ok {
		return ParsedOrder{}, ErrQuantityNotPositive
	}
	return ParsedOrder{
		UserID:    *p.UserID,
		ProductID: *p.ProductID,
		Quantity:  qty,
	}, nil
}

// CheckStock fails when the product cannot cover the requested quantity.
func CheckStock(p models.Product, quantity int) error {
	if p.Stock < quantity {
		return ErrInsufficientStock
	}
	return nil
}
