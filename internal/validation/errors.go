package validation

import "errors"

// Kind classifies a verdict so the HTTP layer can choose a status code.
type Kind int

const (
	// KindMalformed covers missing fields and values with the wrong format.
	KindMalformed Kind = iota + 1
	// KindSemantic covers well-formed values that break a business rule.
	KindSemantic
	// KindNotFound covers references to entities that do not exist.
	KindNotFound
	// KindConflict covers writes rejected because of the current state.
	KindConflict
)

// Error is a failed verdict. Message is returned to clients verbatim.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrOrderFieldsRequired = &Error{Kind: KindMalformed, Message: "UserId, productId, and quantity are required"}
	ErrQuantityNotPositive = &Error{Kind: KindSemantic, Message: "Quantity must be positive"}
	ErrInsufficientStock   = &Error{Kind: KindSemantic, Message: "Insufficient stock"}

	ErrProductFieldsRequired = &Error{Kind: KindMalformed, Message: "Name, price, and stock are required"}
	ErrNegativePriceOrStock  = &Error{Kind: KindSemantic, Message: "Price and stock cannot be negative"}
	ErrNegativeMinStock      = &Error{Kind: KindSemantic, Message: "Minimum stock cannot be negative"}
	ErrInvalidPrice          = &Error{Kind: KindSemantic, Message: "Price must be a valid amount with at most 2 decimal places"}

	ErrDeltaRequired = &Error{Kind: KindMalformed, Message: "Delta is required"}
	ErrZeroDelta     = &Error{Kind: KindSemantic, Message: "Delta must not be zero"}
	ErrNegativeStock = &Error{Kind: KindConflict, Message: "Stock cannot be negative"}

	ErrUserNotFound    = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrProductNotFound = &Error{Kind: KindNotFound, Message: "Product not found"}
	ErrOrderNotFound   = &Error{Kind: KindNotFound, Message: "Order not found"}

	ErrInvalidUserID    = &Error{Kind: KindMalformed, Message: "Invalid user ID"}
	ErrInvalidProductID = &Error{Kind: KindMalformed, Message: "Invalid product ID"}
	ErrInvalidOrderID   = &Error{Kind: KindMalformed, Message: "Invalid order ID"}
	ErrInvalidBody      = &Error{Kind: KindMalformed, Message: "Invalid request body"}

	ErrInvalidSince        = &Error{Kind: KindMalformed, Message: "Invalid since date format"}
	ErrInvalidUntil        = &Error{Kind: KindMalformed, Message: "Invalid until date format"}
	ErrInvalidExportFormat = &Error{Kind: KindMalformed, Message: "Format must be 'csv' or 'json'"}
	ErrMissingFile         = &Error{Kind: KindMalformed, Message: "Missing file"}
	ErrInvalidCSV          = &Error{Kind: KindMalformed, Message: "Invalid CSV"}
)

// As extracts the verdict carried by err, if any.
func As(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
