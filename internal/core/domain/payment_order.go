package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSourceType identifies the recurring obligation a payment order pays.
type PaymentSourceType string

const (
	SourceBill         PaymentSourceType = "BILL"
	SourceSubscription PaymentSourceType = "SUBSCRIPTION"
	SourceGoal         PaymentSourceType = "GOAL"
)

// OrderStatus is the lifecycle state of a payment order.
type OrderStatus string

const (
	OrderApprovalRequired OrderStatus = "approval_required"
	OrderApproved         OrderStatus = "approved"
	OrderProcessing       OrderStatus = "processing"
	OrderSucceeded        OrderStatus = "succeeded"
	OrderFailed           OrderStatus = "failed"
	OrderCancelled        OrderStatus = "cancelled"
)

// IsTerminal reports whether the status permits no further transitions.
// Succeeded orders are never re-executed; cancelled orders stay cancelled.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderSucceeded || s == OrderCancelled
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// transition. Illegal moves (e.g. succeeded -> approved) are rejected here
// rather than guarded ad hoc at every call site.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case OrderApproved:
		// Re-approval of an already approved, processing or failed order is
		// allowed; it clears the prior failure reason.
		return true
	case OrderProcessing:
		return s == OrderApproved || s == OrderProcessing
	case OrderSucceeded:
		return s == OrderProcessing
	case OrderFailed:
		return true
	case OrderCancelled:
		return true
	default:
		return false
	}
}

// PaymentOrder is a materialized, uniquely-keyed intent to pay a recurring
// obligation on a specific due date. At most one non-cancelled order may
// exist per (UserID, SourceType, SourceID, DueOn); the autopilot_payments
// partial unique index enforces this at the persistence layer.
type PaymentOrder struct {
	ID                string
	UserID            string
	SourceType        PaymentSourceType
	SourceID          string
	Title             string
	Amount            decimal.Decimal
	Currency          string
	DueOn             time.Time // date component only
	Status            OrderStatus
	ApprovalRequired  bool
	Provider          string
	ProviderReference *string
	ProviderActionURL *string
	FailureReason     *string
	ApprovedAt        *time.Time
	ExecutedAt        *time.Time
	CancelledAt       *time.Time
	CategoryID        *string
	TransactionID     *string
	Meta              map[string]any
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
