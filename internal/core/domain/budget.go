package domain

import "github.com/shopspring/decimal"

// BudgetCategory groups transactions and budget rules.
type BudgetCategory struct {
	ID     string
	UserID string
	Name   string
	Color  *string
}

// BudgetRule caps planned spending for a category. MonthlyLimit feeds the
// planned-expense bucket of the salary allocation; rules are funded in load
// order, not by priority.
type BudgetRule struct {
	ID              string
	UserID          string
	CategoryID      string
	AllocationType  string // FIXED or PERCENT
	AllocationValue decimal.Decimal
	MonthlyLimit    decimal.Decimal
}
