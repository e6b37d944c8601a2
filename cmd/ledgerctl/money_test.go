package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.5", "INR", "₹1,234.50"},
		{"0.005", "INR", "₹0.01"},
		{"-250", "INR", "-₹250.00"},
		{"1234.5", "USD", "$1,234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.currency+" "+tt.amount, func(t *testing.T) {
			got, err := formatMoney(decimal.RequireFromString(tt.amount), tt.currency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown currency", func(t *testing.T) {
		_, err := formatMoney(decimal.NewFromInt(1), "XXQ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "XXQ")
	})
}
