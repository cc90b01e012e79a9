package domain

import "github.com/shopspring/decimal"

// IncomeSource is a recurring income stream. Payday is free text ("1st",
// "28"); projections only include sources with a parseable numeric payday.
type IncomeSource struct {
	ID        string
	UserID    string
	Amount    decimal.Decimal
	Frequency string
	Payday    *string
	Active    bool
}
