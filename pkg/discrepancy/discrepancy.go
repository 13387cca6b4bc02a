// Package discrepancy flags stock counts that deviate from the records.
package discrepancy

import "github.com/shopspring/decimal"

// Threshold is the relative deviation above which a cell is highlighted.
var Threshold = decimal.New(1, -1)

type Result struct {
	Difference decimal.Decimal `json:"difference"`
	Highlight  bool            `json:"highlight"`
}

// Evaluate returns actual - theoretical and whether the pair needs attention:
// a negative theoretical value, or a difference larger than Threshold times
// the larger of the two absolute values.
func Evaluate(theoretical, actual decimal.Decimal) Result {
	difference := actual.Sub(theoretical)
	limit := Threshold.Mul(decimal.Max(theoretical.Abs(), actual.Abs()))

	return Result{
		Difference: difference,
		Highlight:  theoretical.IsNegative() || difference.Abs().GreaterThan(limit),
	}
}
