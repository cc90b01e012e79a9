package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is a recurring obligation anchored to a day of month (1-31, clamped to
// shorter months). LastPaidAt is mutated only by the autopilot ledger posting.
type Bill struct {
	ID              string
	UserID          string
	Name            string
	AmountEstimated decimal.Decimal
	DueDay          int
	Frequency       string
	AutopayEnabled  bool
	LastPaidAt      *time.Time
	CategoryID      *string
}
