package dto

import "github.com/shopspring/decimal"

// Money renders a decimal amount as a 2-decimal JSON number, the wire shape
// the dashboard frontend consumes.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
