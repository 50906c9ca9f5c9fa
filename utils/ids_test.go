package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFormats(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
		length int
	}{
		{"order", OrderID, "ORD", 3 + 6 + 3},
		{"customer", CustomerID, "CUST", 4 + 6 + 3},
		{"product", ProductID, "P", 1 + 6 + 3},
		{"tracking", TrackingNumber, "TRK", 3 + 8 + 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.gen()
			assert.Len(t, got, tt.length)
			assert.Equal(t, tt.prefix, got[:len(tt.prefix)])
			for _, r := range got[len(tt.prefix):] {
				assert.True(t, r >= '0' && r <= '9', "suffix must be digits, got %q", got)
			}
		})
	}
}
