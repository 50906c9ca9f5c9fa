package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceExampleOrder(t *testing.T) {
	q := Price([]Line{
		{UnitPrice: 25.99, Quantity: 2},
		{UnitPrice: 12.99, Quantity: 1},
	})

	assert.Equal(t, 64.97, q.Subtotal)
	assert.Equal(t, 5.20, q.Tax)
	assert.Equal(t, 10.0, q.Shipping)
	assert.Equal(t, 80.17, q.Total)
}

func TestPriceTotalIdentity(t *testing.T) {
	cases := [][]Line{
		{},
		{{UnitPrice: 0.01, Quantity: 1}},
		{{UnitPrice: 19.99, Quantity: 3}},
		{{UnitPrice: 49.50, Quantity: 2}, {UnitPrice: 0.99, Quantity: 7}},
		{{UnitPrice: 1234.56, Quantity: 1}},
	}

	for _, lines := range cases {
		q := Price(lines)
		assert.InDelta(t, q.Subtotal+q.Tax+q.Shipping, q.Total, 1e-9)
	}
}

func TestPriceShippingThreshold(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		shipping float64
	}{
		{"below threshold", []Line{{UnitPrice: 99.99, Quantity: 1}}, FlatShipping},
		{"exactly at threshold", []Line{{UnitPrice: 100.00, Quantity: 1}}, 0},
		{"above threshold", []Line{{UnitPrice: 50.01, Quantity: 2}}, 0},
		{"empty order", nil, FlatShipping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Price(tt.lines)
			assert.Equal(t, tt.shipping, q.Shipping)
			if q.Subtotal >= FreeShippingThreshold {
				assert.Zero(t, q.Shipping)
			} else {
				assert.Equal(t, FlatShipping, q.Shipping)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	require.Equal(t, 51.98, LineTotal(Line{UnitPrice: 25.99, Quantity: 2}))
	require.Equal(t, 0.0, LineTotal(Line{UnitPrice: 9.99, Quantity: 0}))
	// rounding of accumulated float error
	require.Equal(t, 0.3, LineTotal(Line{UnitPrice: 0.1, Quantity: 3}))
}
