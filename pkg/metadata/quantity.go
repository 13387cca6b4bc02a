package metadata

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantities are stored as NUMERIC(14, 3).
const (
	QuantityScale     = 3
	quantityPrecision = 14
)

// maxQuantity is the first magnitude that no longer fits the column.
var maxQuantity = decimal.New(1, quantityPrecision-QuantityScale)

// CheckQuantity reports whether q can be stored without rounding or overflow.
// Trailing zeros beyond the scale are fine: 1.5000 is stored as 1.500.
func CheckQuantity(q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return fmt.Errorf("%s has more than %d decimal places", q, QuantityScale)
	}
	if q.Abs().GreaterThanOrEqual(maxQuantity) {
		return fmt.Errorf("%s is out of range, must be below %s", q, maxQuantity)
	}
	return nil
}
