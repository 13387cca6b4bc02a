package discrepancy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		theoretical string
		actual      string
		difference  string
		highlight   bool
	}{
		{"within threshold", "100", "95", "-5", false},
		{"over threshold", "50", "30", "-20", true},
		{"both zero", "0", "0", "0", false},
		{"exactly ten percent", "100", "90", "-10", false},
		{"just above ten percent", "100", "89.9", "-10.1", true},
		{"surplus uses larger value", "90", "100", "10", false},
		{"negative theoretical always highlighted", "-1", "-1", "0", true},
		{"nothing recorded but counted", "0", "3", "3", true},
		{"fractions", "10.5", "10.25", "-0.25", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(decimal.RequireFromString(tt.theoretical), decimal.RequireFromString(tt.actual))
			assert.True(t, got.Difference.Equal(decimal.RequireFromString(tt.difference)),
				"difference = %s, want %s", got.Difference, tt.difference)
			assert.Equal(t, tt.highlight, got.Highlight)
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	theoretical := decimal.RequireFromString("33.333")
	actual := decimal.RequireFromString("30")
	first := Evaluate(theoretical, actual)
	for i := 0; i < 100; i++ {
		again := Evaluate(theoretical, actual)
		assert.Equal(t, first.Difference.String(), again.Difference.String())
		assert.Equal(t, first.Highlight, again.Highlight)
	}
}
