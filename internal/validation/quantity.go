package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Quantity holds an order quantity exactly as the client sent it. Decoding
// accepts any JSON value, so a fractional or non-numeric quantity reaches
// ValidateOrder and is reported as not positive rather than as a bad body.
type Quantity struct {
	raw json.RawMessage
}

// QuantityOf builds a Quantity holding n.
func QuantityOf(n int) *Quantity {
	return &Quantity{raw: json.RawMessage(strconv.Itoa(n))}
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	q.raw = append(q.raw[:0], b...)
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if len(q.raw) == 0 {
		return []byte("null"), nil
	}
	return q.raw, nil
}

// positive returns the quantity when it is a JSON number holding an integer
// above zero. 2, 2.0 and 2e0 all count as 2.
func (q Quantity) positive() (int, bool) {
	raw := bytes.TrimSpace(q.raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}

	d, err := decimal.NewFromString(string(raw))
	if err != nil || !d.IsInteger() || !d.IsPositive() {
		return 0, false
	}
	// Nothing beyond the int32 range is ever in stock, so clamping leaves the rejection to the stock check.
	if limit := decimal.NewFromInt(math.MaxInt32); d.GreaterThan(limit) {
		d = limit
	}
	return int(d.IntPart()), true
}
