package services

import (
	"context"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	"github.com/wealthsync/wealthsync-backend/internal/dto"
)

// OrderPreparationSvc materializes due-eligible obligations into payment orders.
type OrderPreparationSvc interface {
	// PrepareOrders scans the user's autopay bills and active subscriptions
	// over [today, today+daysAhead] and creates deduped payment orders.
	// Idempotent: a second call for the same cycle creates nothing.
	PrepareOrders(ctx context.Context, userID string, daysAhead int) ([]domain.PaymentOrder, error)

	// PrepareOrdersForAllUsers runs PrepareOrders for every user owning an
	// autopay bill or active subscription. Per-user failures are logged and
	// do not abort the batch.
	PrepareOrdersForAllUsers(ctx context.Context, daysAhead int) (*dto.BatchPrepareResponse, error)
}

// OrderLifecycleSvc drives the approval/execution/cancellation state machine.
// Lifecycle operations return (nil, apperrors.ErrNotFound) for unknown orders;
// business-rule failures yield a returned order in status failed, never an error.
type OrderLifecycleSvc interface {
	// ListOrders retrieves a user's orders, optionally filtered by status.
	ListOrders(ctx context.Context, userID string, status *domain.OrderStatus, limit int) ([]domain.PaymentOrder, error)

	// ApproveOrder approves an order; with executeNow and auto-execute
	// configuration enabled it chains directly into execution.
	ApproveOrder(ctx context.Context, userID string, orderID string, executeNow bool) (*domain.PaymentOrder, error)

	// ExecuteOrder executes an approved order through the internal ledger.
	ExecuteOrder(ctx context.Context, userID string, orderID string) (*domain.PaymentOrder, error)

	// CancelOrder cancels a non-succeeded order, recording the reason.
	CancelOrder(ctx context.Context, userID string, orderID string, reason *string) (*domain.PaymentOrder, error)

	// ExecuteDueApprovedOrders executes every approved order due today or
	// earlier, across all users, each independently.
	ExecuteDueApprovedOrders(ctx context.Context) (*dto.BatchExecutionResponse, error)

	// ExecuteDueApprovedOrdersForUser executes the user's own approved due
	// orders.
	ExecuteDueApprovedOrdersForUser(ctx context.Context, userID string) (*dto.BatchExecutionResponse, error)
}

// AutopilotSvcFacade combines the payment-order service interfaces, plus the
// daily scheduled entry point.
type AutopilotSvcFacade interface {
	OrderPreparationSvc
	OrderLifecycleSvc

	// RunDailyAutopilot is the periodic job body: prepare orders for all
	// users at the configured horizon, then execute everything due.
	RunDailyAutopilot(ctx context.Context) (*dto.DailyJobResponse, error)
}

// AllocationSvcFacade computes the salary rule split.
type AllocationSvcFacade interface {
	// SalaryRuleSplit resolves the user's monthly income and splits it
	// across commitments, planned expenses and priority-ordered goals,
	// reserving the free-money floor.
	SalaryRuleSplit(ctx context.Context, userID string, salaryOverride *float64, freeMoneyMinPercent float64) (*dto.SalaryRuleSplitResponse, error)
}

// SpendingSvcFacade derives safe-to-spend projections.
type SpendingSvcFacade interface {
	// SafeToSpend computes the monthly discretionary budget.
	SafeToSpend(ctx context.Context, userID string) (*dto.SafeToSpendResponse, error)

	// DailySafeToSpend computes the per-day limit and advisory banding.
	DailySafeToSpend(ctx context.Context, userID string) (*dto.DailySafeToSpendResponse, error)
}

// TimelineSvcFacade builds the merged financial event feed.
type TimelineSvcFacade interface {
	// TimelineEvents merges past transactions with projected bills,
	// subscriptions, salaries, goal contributions and the month-end balance
	// projection. Preparation runs first so payment orders are fresh.
	TimelineEvents(ctx context.Context, userID string, daysPast, daysFuture int) (*dto.TimelineResponse, error)
}
