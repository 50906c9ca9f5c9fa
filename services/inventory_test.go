package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampStock(t *testing.T) {
	tests := []struct {
		name    string
		current int
		delta   int
		want    int
	}{
		{"decrement within stock", 10, -4, 6},
		{"decrement to zero", 5, -5, 0},
		{"decrement past zero clamps", 3, -10, 0},
		{"increment", 0, 7, 7},
		{"no-op", 12, 0, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampStock(tt.current, tt.delta))
		})
	}
}

func TestClampStockNeverNegative(t *testing.T) {
	stock := 8
	deltas := []int{-3, -10, 4, -1, -99, 20, -20, -20}
	for _, d := range deltas {
		stock = ClampStock(stock, d)
		assert.GreaterOrEqual(t, stock, 0)
	}
}
