package repositories

import (
	"context"
	"time"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
)

// BillRepository defines access to bill records. The autopilot engine reads
// bills and mutates only LastPaidAt (through the payment-order settlement).
type BillRepository interface {
	// ListBillsByUser retrieves all bills for a user.
	ListBillsByUser(ctx context.Context, userID string) ([]domain.Bill, error)

	// ListAutopayBills retrieves the user's autopay-enabled bills.
	ListAutopayBills(ctx context.Context, userID string) ([]domain.Bill, error)

	// FindBillByID retrieves a bill scoped to a user.
	FindBillByID(ctx context.Context, userID string, billID string) (*domain.Bill, error)

	// ListAutopayUserIDs retrieves the distinct user ids owning at least one
	// autopay-enabled bill.
	ListAutopayUserIDs(ctx context.Context) ([]string, error)
}

// SubscriptionRepository defines access to subscription records.
type SubscriptionRepository interface {
	// ListActiveSubscriptions retrieves the user's active subscriptions.
	ListActiveSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)

	// FindSubscriptionByID retrieves a subscription scoped to a user.
	FindSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error)

	// UpdateNextBillingDate stores a lazily initialized next billing date.
	UpdateNextBillingDate(ctx context.Context, subscriptionID string, next time.Time) error

	// ListActiveUserIDs retrieves the distinct user ids owning at least one
	// active subscription.
	ListActiveUserIDs(ctx context.Context) ([]string, error)
}

// SavingsGoalRepository defines access to savings goal records.
type SavingsGoalRepository interface {
	// ListUnfinishedGoals retrieves the user's goals not yet completed.
	ListUnfinishedGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error)

	// FindGoalByID retrieves a goal scoped to a user.
	FindGoalByID(ctx context.Context, userID string, goalID string) (*domain.SavingsGoal, error)
}

// IncomeSourceRepository defines access to income source records.
type IncomeSourceRepository interface {
	// ListIncomeSourcesByUser retrieves all income sources for a user,
	// active or not; callers filter on the Active flag.
	ListIncomeSourcesByUser(ctx context.Context, userID string) ([]domain.IncomeSource, error)
}

// TransactionRepository defines read access to the transaction ledger.
// Writes happen only through PaymentOrderWriter.SettleOrder.
type TransactionRepository interface {
	// ListTransactionsInRange retrieves transactions with occurred_at inside
	// [from, to], ordered by occurred_at.
	ListTransactionsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)

	// ListTransactionsByTypeSince retrieves transactions of one direction
	// with occurred_at on or after the given instant.
	ListTransactionsByTypeSince(ctx context.Context, userID string, txnType domain.TransactionType, since time.Time) ([]domain.Transaction, error)

	// ListAllTransactions retrieves the user's full transaction history.
	ListAllTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// BudgetRepository defines access to budget categories and rules.
type BudgetRepository interface {
	// ListBudgetCategories retrieves the user's budget categories.
	ListBudgetCategories(ctx context.Context, userID string) ([]domain.BudgetCategory, error)

	// ListBudgetRules retrieves the user's budget rules in stable load order;
	// planned-expense allocation funds rules in exactly this order.
	ListBudgetRules(ctx context.Context, userID string) ([]domain.BudgetRule, error)
}

// NotificationRepository is the fire-and-forget notification sink.
type NotificationRepository interface {
	// CreateNotification inserts a notification record for later delivery.
	CreateNotification(ctx context.Context, notification domain.Notification) error
}
