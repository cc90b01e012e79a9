package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
)

const transactionColumns = `transaction_id, user_id, category_id, amount, type, description, occurred_at, status, bill_id, subscription_id, created_at`

// PgxTransactionRepository reads the transaction ledger. Inserts happen only
// inside the payment-order settlement transaction.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	txns := []domain.Transaction{}
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.CategoryID, &txn.Amount, &txn.Type,
			&txn.Description, &txn.OccurredAt, &txn.Status, &txn.BillID, &txn.SubscriptionID, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txns, nil
}

// ListTransactionsInRange retrieves transactions inside [from, to].
func (r *PgxTransactionRepository) ListTransactionsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at <= $3 ORDER BY occurred_at ASC;`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions in range: %w", err)
	}
	return collectTransactions(rows)
}

// ListTransactionsByTypeSince retrieves one direction of the ledger from an
// instant onwards.
func (r *PgxTransactionRepository) ListTransactionsByTypeSince(ctx context.Context, userID string, txnType domain.TransactionType, since time.Time) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1 AND type = $2 AND occurred_at >= $3 ORDER BY occurred_at ASC;`, userID, txnType, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s transactions: %w", txnType, err)
	}
	return collectTransactions(rows)
}

// ListAllTransactions retrieves the user's full transaction history.
func (r *PgxTransactionRepository) ListAllTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY occurred_at ASC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return collectTransactions(rows)
}
