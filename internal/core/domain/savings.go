package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal accumulates contributions towards a target amount. Priority is
// an integer where higher means funded first by the salary allocation engine.
type SavingsGoal struct {
	ID                  string
	UserID              string
	Name                string
	TargetAmount        decimal.Decimal
	CurrentAmount       decimal.Decimal
	MonthlyContribution decimal.Decimal
	TargetDate          *time.Time
	Priority            int
	IsCompleted         bool
	CreatedAt           time.Time
}

// SavingsLog records a single contribution applied to a goal.
type SavingsLog struct {
	ID        string
	GoalID    string
	Amount    decimal.Decimal
	Note      string
	CreatedAt time.Time
}
