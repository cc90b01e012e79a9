package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wealthsync/wealthsync-backend/internal/apperrors"
	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
)

const billColumns = `bill_id, user_id, name, amount_estimated, due_day, frequency, autopay_enabled, last_paid_at, category_id`

// PgxBillRepository reads bills for the autopilot engine; writes go through
// the payment-order settlement.
type PgxBillRepository struct {
	BaseRepository
}

func newPgxBillRepository(pool *pgxpool.Pool) portsrepo.BillRepository {
	return &PgxBillRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BillRepository = (*PgxBillRepository)(nil)

func collectBills(rows pgx.Rows) ([]domain.Bill, error) {
	defer rows.Close()
	bills := []domain.Bill{}
	for rows.Next() {
		var bill domain.Bill
		if err := rows.Scan(&bill.ID, &bill.UserID, &bill.Name, &bill.AmountEstimated,
			&bill.DueDay, &bill.Frequency, &bill.AutopayEnabled, &bill.LastPaidAt, &bill.CategoryID); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bills: %w", err)
	}
	return bills, nil
}

// ListBillsByUser retrieves all bills for a user.
func (r *PgxBillRepository) ListBillsByUser(ctx context.Context, userID string) ([]domain.Bill, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+billColumns+` FROM bills WHERE user_id = $1 ORDER BY due_day ASC, name ASC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return collectBills(rows)
}

// ListAutopayBills retrieves the user's autopay-enabled bills.
func (r *PgxBillRepository) ListAutopayBills(ctx context.Context, userID string) ([]domain.Bill, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+billColumns+` FROM bills WHERE user_id = $1 AND autopay_enabled ORDER BY due_day ASC, name ASC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list autopay bills: %w", err)
	}
	return collectBills(rows)
}

// FindBillByID retrieves a bill scoped to a user.
func (r *PgxBillRepository) FindBillByID(ctx context.Context, userID string, billID string) (*domain.Bill, error) {
	var bill domain.Bill
	err := r.Pool.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE bill_id = $1 AND user_id = $2;`, billID, userID).
		Scan(&bill.ID, &bill.UserID, &bill.Name, &bill.AmountEstimated,
			&bill.DueDay, &bill.Frequency, &bill.AutopayEnabled, &bill.LastPaidAt, &bill.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill %s: %w", billID, err)
	}
	return &bill, nil
}

// ListAutopayUserIDs retrieves distinct owners of autopay-enabled bills.
func (r *PgxBillRepository) ListAutopayUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT user_id FROM bills WHERE autopay_enabled;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list autopay bill users: %w", err)
	}
	defer rows.Close()
	userIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read autopay bill users: %w", err)
	}
	return userIDs, nil
}
