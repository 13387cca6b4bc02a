package ingest

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"leltar/pkg/metadata"

	"github.com/shopspring/decimal"
)

var errBlank = errors.New("empty value")

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// parseCount reads the integer counts of the per-warehouse exports. Digit
// grouping spaces (including NBSP) are removed first.
func parseCount(raw string) (decimal.Decimal, error) {
	s := stripSpace(raw)
	if s == "" {
		return decimal.Decimal{}, errBlank
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return storable(decimal.NewFromInt(n))
}

// parseQuantity reads the unified export, which may use a decimal comma.
func parseQuantity(raw string) (decimal.Decimal, error) {
	s := strings.Replace(stripSpace(raw), ",", ".", 1)
	if s == "" {
		return decimal.Decimal{}, errBlank
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return storable(q)
}

// storable rejects values the snapshot columns would round or overflow, so
// they are dropped before the month is replaced.
func storable(q decimal.Decimal) (decimal.Decimal, error) {
	if err := metadata.CheckQuantity(q); err != nil {
		return decimal.Decimal{}, err
	}
	return q, nil
}
