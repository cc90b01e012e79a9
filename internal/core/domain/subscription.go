package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is a recurring charge on a billing cycle. NextBillingDate is
// lazily initialized by order preparation and advanced on execution.
type Subscription struct {
	ID              string
	UserID          string
	Name            string
	Amount          decimal.Decimal
	BillingCycle    string // "monthly" or yearly-like
	NextBillingDate *time.Time
	UsageCount      int
	Active          bool
	CategoryID      *string
}
