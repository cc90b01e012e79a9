package repositories

import (
	"context"
	"time"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
)

// PaymentOrderReader defines read operations for payment order data.
type PaymentOrderReader interface {
	// FindOrderByID retrieves an order scoped to a user. Returns
	// apperrors.ErrNotFound when no such order exists for the user.
	FindOrderByID(ctx context.Context, userID string, orderID string) (*domain.PaymentOrder, error)

	// ListOrdersByUser retrieves a user's orders ordered by due date
	// ascending then creation time descending, optionally filtered by status.
	ListOrdersByUser(ctx context.Context, userID string, status *domain.OrderStatus, limit int) ([]domain.PaymentOrder, error)

	// ListActiveOrdersInWindow retrieves the user's non-cancelled orders with
	// a due date inside [from, to]. This single query feeds the in-memory
	// dedup set used by order preparation.
	ListActiveOrdersInWindow(ctx context.Context, userID string, from, to time.Time) ([]domain.PaymentOrder, error)

	// ListOrdersInWindow retrieves all of the user's orders (any status) due
	// inside [from, to], for timeline cross-referencing.
	ListOrdersInWindow(ctx context.Context, userID string, from, to time.Time) ([]domain.PaymentOrder, error)

	// ListDueApprovedOrders retrieves approved orders across all users whose
	// due date is on or before the given day.
	ListDueApprovedOrders(ctx context.Context, dueOnOrBefore time.Time) ([]domain.PaymentOrder, error)
}

// PaymentOrderWriter defines write operations for payment order data.
type PaymentOrderWriter interface {
	// CreateOrder inserts a new order. A natural-key collision with an
	// existing non-cancelled order returns apperrors.ErrDuplicate.
	CreateOrder(ctx context.Context, order domain.PaymentOrder) error

	// UpdateOrder persists status, stamps and failure reason of an order.
	UpdateOrder(ctx context.Context, order domain.PaymentOrder) error

	// SettleOrder atomically records a successful execution: the completed
	// ledger transaction, the source-entity mutation described by the effect,
	// and the order's transition to succeeded.
	SettleOrder(ctx context.Context, order domain.PaymentOrder, txn domain.Transaction, effect domain.LedgerEffect) error
}

// PaymentOrderRepositoryFacade combines all payment-order repository interfaces.
type PaymentOrderRepositoryFacade interface {
	PaymentOrderReader
	PaymentOrderWriter
}
