package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// TransactionStatus distinguishes pending reminders from completed postings.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
)

// Transaction is a single ledger movement, optionally linked to the bill or
// subscription it settles.
type Transaction struct {
	ID             string
	UserID         string
	CategoryID     *string
	Amount         decimal.Decimal
	Type           TransactionType
	Description    string
	OccurredAt     time.Time
	Status         TransactionStatus
	BillID         *string
	SubscriptionID *string
	CreatedAt      time.Time
}
