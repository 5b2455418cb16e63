package repo

import "errors"

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrOrderNotFound   = errors.New("order not found")

	// ErrInvalidQuantityChange is returned when an adjustment would make stock negative.
	ErrInvalidQuantityChange = errors.New("quantity change would make stock negative")
)
