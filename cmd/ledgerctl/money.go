package main

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatMoney renders amount in currency's notation, e.g. "₹1,234.50".
// Amounts are rounded half away from zero to the currency's minor unit.
func formatMoney(amount decimal.Decimal, currency string) (string, error) {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return "", fmt.Errorf("unknown currency %q", currency)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display(), nil
}
