package view

import "github.com/shopspring/decimal"

// FormatAmount renders a money amount with exactly two decimals, e.g. "$10.00".
// The storefront is single-currency; the dollar sign matches the widget.
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
