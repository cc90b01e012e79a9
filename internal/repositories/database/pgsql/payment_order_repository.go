package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wealthsync/wealthsync-backend/internal/apperrors"
	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
)

const paymentOrderColumns = `
	payment_id, user_id, source_type, source_id, title, amount, currency, due_on,
	status, approval_required, provider, provider_reference, provider_action_url,
	failure_reason, approved_at, executed_at, cancelled_at, category_id,
	transaction_id, meta, created_at, updated_at`

// PgxPaymentOrderRepository persists autopilot payment orders.
type PgxPaymentOrderRepository struct {
	BaseRepository
}

func newPgxPaymentOrderRepository(pool *pgxpool.Pool) portsrepo.PaymentOrderRepositoryFacade {
	return &PgxPaymentOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentOrderRepositoryFacade = (*PgxPaymentOrderRepository)(nil)

func scanPaymentOrder(row pgx.Row) (*domain.PaymentOrder, error) {
	var order domain.PaymentOrder
	var metaRaw []byte
	err := row.Scan(
		&order.ID, &order.UserID, &order.SourceType, &order.SourceID, &order.Title,
		&order.Amount, &order.Currency, &order.DueOn, &order.Status, &order.ApprovalRequired,
		&order.Provider, &order.ProviderReference, &order.ProviderActionURL,
		&order.FailureReason, &order.ApprovedAt, &order.ExecutedAt, &order.CancelledAt,
		&order.CategoryID, &order.TransactionID, &metaRaw, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(metaRaw) > 0 {
		if err := json.Unmarshal(metaRaw, &order.Meta); err != nil {
			return nil, fmt.Errorf("failed to decode order meta: %w", err)
		}
	}
	return &order, nil
}

func collectPaymentOrders(rows pgx.Rows) ([]domain.PaymentOrder, error) {
	defer rows.Close()
	orders := []domain.PaymentOrder{}
	for rows.Next() {
		order, err := scanPaymentOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment orders: %w", err)
	}
	return orders, nil
}

// FindOrderByID retrieves an order scoped to a user.
func (r *PgxPaymentOrderRepository) FindOrderByID(ctx context.Context, userID string, orderID string) (*domain.PaymentOrder, error) {
	query := `SELECT ` + paymentOrderColumns + ` FROM autopilot_payments WHERE payment_id = $1 AND user_id = $2;`
	order, err := scanPaymentOrder(r.Pool.QueryRow(ctx, query, orderID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment order %s: %w", orderID, err)
	}
	return order, nil
}

// ListOrdersByUser retrieves a user's orders by due date ascending, newest
// created first within a day, optionally filtered by status.
func (r *PgxPaymentOrderRepository) ListOrdersByUser(ctx context.Context, userID string, status *domain.OrderStatus, limit int) ([]domain.PaymentOrder, error) {
	query := `SELECT ` + paymentOrderColumns + ` FROM autopilot_payments WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY due_on ASC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment orders: %w", err)
	}
	return collectPaymentOrders(rows)
}

// ListActiveOrdersInWindow retrieves non-cancelled orders due inside [from, to].
func (r *PgxPaymentOrderRepository) ListActiveOrdersInWindow(ctx context.Context, userID string, from, to time.Time) ([]domain.PaymentOrder, error) {
	query := `SELECT ` + paymentOrderColumns + ` FROM autopilot_payments
		WHERE user_id = $1 AND status <> $2 AND due_on >= $3 AND due_on <= $4
		ORDER BY due_on ASC, created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, userID, domain.OrderCancelled, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list active payment orders: %w", err)
	}
	return collectPaymentOrders(rows)
}

// ListOrdersInWindow retrieves orders of any status due inside [from, to].
func (r *PgxPaymentOrderRepository) ListOrdersInWindow(ctx context.Context, userID string, from, to time.Time) ([]domain.PaymentOrder, error) {
	query := `SELECT ` + paymentOrderColumns + ` FROM autopilot_payments
		WHERE user_id = $1 AND due_on >= $2 AND due_on <= $3
		ORDER BY due_on ASC, created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment orders in window: %w", err)
	}
	return collectPaymentOrders(rows)
}

// ListDueApprovedOrders retrieves approved orders across all users due on or
// before the given day.
func (r *PgxPaymentOrderRepository) ListDueApprovedOrders(ctx context.Context, dueOnOrBefore time.Time) ([]domain.PaymentOrder, error) {
	query := `SELECT ` + paymentOrderColumns + ` FROM autopilot_payments
		WHERE status = $1 AND due_on <= $2
		ORDER BY due_on ASC, created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, domain.OrderApproved, dueOnOrBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list due approved orders: %w", err)
	}
	return collectPaymentOrders(rows)
}

func encodeMeta(meta map[string]any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order meta: %w", err)
	}
	return raw, nil
}

// CreateOrder inserts a new order. The partial unique index on
// (user_id, source_type, source_id, due_on) WHERE status <> 'cancelled' maps
// to apperrors.ErrDuplicate.
func (r *PgxPaymentOrderRepository) CreateOrder(ctx context.Context, order domain.PaymentOrder) error {
	metaRaw, err := encodeMeta(order.Meta)
	if err != nil {
		return err
	}
	query := `INSERT INTO autopilot_payments (` + paymentOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`
	_, err = r.Pool.Exec(ctx, query,
		order.ID, order.UserID, order.SourceType, order.SourceID, order.Title,
		order.Amount, order.Currency, order.DueOn, order.Status, order.ApprovalRequired,
		order.Provider, order.ProviderReference, order.ProviderActionURL,
		order.FailureReason, order.ApprovedAt, order.ExecutedAt, order.CancelledAt,
		order.CategoryID, order.TransactionID, metaRaw, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment order for %s %s due %s already exists",
				apperrors.ErrDuplicate, order.SourceType, order.SourceID, order.DueOn.Format(time.DateOnly))
		}
		return fmt.Errorf("failed to insert payment order %s: %w", order.ID, err)
	}
	return nil
}

const updateOrderQuery = `UPDATE autopilot_payments SET
	status = $3, approval_required = $4, provider_reference = $5, provider_action_url = $6,
	failure_reason = $7, approved_at = $8, executed_at = $9, cancelled_at = $10,
	transaction_id = $11, updated_at = $12
	WHERE payment_id = $1 AND user_id = $2;`

func updateOrderArgs(order domain.PaymentOrder) []any {
	return []any{
		order.ID, order.UserID, order.Status, order.ApprovalRequired,
		order.ProviderReference, order.ProviderActionURL, order.FailureReason,
		order.ApprovedAt, order.ExecutedAt, order.CancelledAt,
		order.TransactionID, order.UpdatedAt,
	}
}

// UpdateOrder persists the mutable lifecycle fields of an order.
func (r *PgxPaymentOrderRepository) UpdateOrder(ctx context.Context, order domain.PaymentOrder) error {
	tag, err := r.Pool.Exec(ctx, updateOrderQuery, updateOrderArgs(order)...)
	if err != nil {
		return fmt.Errorf("failed to update payment order %s: %w", order.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment order %s", apperrors.ErrNotFound, order.ID)
	}
	return nil
}

// SettleOrder atomically records a successful execution: the ledger
// transaction insert, the source-entity mutation and the order's transition
// to succeeded commit or roll back together.
func (r *PgxPaymentOrderRepository) SettleOrder(ctx context.Context, order domain.PaymentOrder, txn domain.Transaction, effect domain.LedgerEffect) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	txnQuery := `INSERT INTO transactions (
		transaction_id, user_id, category_id, amount, type, description,
		occurred_at, status, bill_id, subscription_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err = tx.Exec(ctx, txnQuery,
		txn.ID, txn.UserID, txn.CategoryID, txn.Amount, txn.Type, txn.Description,
		txn.OccurredAt, txn.Status, txn.BillID, txn.SubscriptionID, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger transaction %s: %w", txn.ID, err)
	}

	switch {
	case effect.Bill != nil:
		_, err = tx.Exec(ctx, `UPDATE bills SET last_paid_at = $2 WHERE bill_id = $1;`,
			effect.Bill.ID, effect.Bill.LastPaidAt)
		if err != nil {
			return fmt.Errorf("failed to update bill %s: %w", effect.Bill.ID, err)
		}
	case effect.Subscription != nil:
		_, err = tx.Exec(ctx, `UPDATE subscriptions SET next_billing_date = $2 WHERE subscription_id = $1;`,
			effect.Subscription.ID, effect.Subscription.NextBillingDate)
		if err != nil {
			return fmt.Errorf("failed to update subscription %s: %w", effect.Subscription.ID, err)
		}
	case effect.Goal != nil:
		_, err = tx.Exec(ctx, `UPDATE savings_goals SET current_amount = $2, is_completed = $3 WHERE goal_id = $1;`,
			effect.Goal.ID, effect.Goal.CurrentAmount, effect.Goal.IsCompleted)
		if err != nil {
			return fmt.Errorf("failed to update savings goal %s: %w", effect.Goal.ID, err)
		}
		if effect.SavingsLog != nil {
			_, err = tx.Exec(ctx, `INSERT INTO savings_logs (log_id, goal_id, amount, note, created_at)
				VALUES ($1, $2, $3, $4, $5);`,
				effect.SavingsLog.ID, effect.SavingsLog.GoalID, effect.SavingsLog.Amount,
				effect.SavingsLog.Note, effect.SavingsLog.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert savings log for goal %s: %w", effect.Goal.ID, err)
			}
		}
	}

	tag, err := tx.Exec(ctx, updateOrderQuery, updateOrderArgs(order)...)
	if err != nil {
		return fmt.Errorf("failed to update payment order %s: %w", order.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment order %s", apperrors.ErrNotFound, order.ID)
	}

	return r.Commit(ctx, tx)
}
