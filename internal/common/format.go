package common

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount in US dollars, e.g. "$1,234.50"
func FormatMoney(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatPct renders a ratio as a percentage with one decimal, e.g. 0.1234 -> "12.3%"
func FormatPct(ratio decimal.Decimal) string {
	return fmt.Sprintf("%s%%", ratio.Shift(2).StringFixed(1))
}
