package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wealthsync/wealthsync-backend/internal/apperrors"
	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
)

const subscriptionColumns = `subscription_id, user_id, name, amount, billing_cycle, next_billing_date, usage_count, is_active, category_id`

// PgxSubscriptionRepository reads subscriptions and maintains their lazily
// initialized next billing date.
type PgxSubscriptionRepository struct {
	BaseRepository
}

func newPgxSubscriptionRepository(pool *pgxpool.Pool) portsrepo.SubscriptionRepository {
	return &PgxSubscriptionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SubscriptionRepository = (*PgxSubscriptionRepository)(nil)

func collectSubscriptions(rows pgx.Rows) ([]domain.Subscription, error) {
	defer rows.Close()
	subscriptions := []domain.Subscription{}
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Amount, &sub.BillingCycle,
			&sub.NextBillingDate, &sub.UsageCount, &sub.Active, &sub.CategoryID); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subscriptions = append(subscriptions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}
	return subscriptions, nil
}

// ListActiveSubscriptions retrieves the user's active subscriptions.
func (r *PgxSubscriptionRepository) ListActiveSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1 AND is_active ORDER BY name ASC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}
	return collectSubscriptions(rows)
}

// FindSubscriptionByID retrieves a subscription scoped to a user.
func (r *PgxSubscriptionRepository) FindSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.Pool.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE subscription_id = $1 AND user_id = $2;`, subscriptionID, userID).
		Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Amount, &sub.BillingCycle,
			&sub.NextBillingDate, &sub.UsageCount, &sub.Active, &sub.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subscription %s: %w", subscriptionID, err)
	}
	return &sub, nil
}

// UpdateNextBillingDate stores a resolved next billing date.
func (r *PgxSubscriptionRepository) UpdateNextBillingDate(ctx context.Context, subscriptionID string, next time.Time) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE subscriptions SET next_billing_date = $2 WHERE subscription_id = $1;`, subscriptionID, next)
	if err != nil {
		return fmt.Errorf("failed to update next billing date for subscription %s: %w", subscriptionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: subscription %s", apperrors.ErrNotFound, subscriptionID)
	}
	return nil
}

// ListActiveUserIDs retrieves distinct owners of active subscriptions.
func (r *PgxSubscriptionRepository) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT user_id FROM subscriptions WHERE is_active;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscription users: %w", err)
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
		return nil, fmt.Errorf("failed to read active subscription users: %w", err)
	}
	return userIDs, nil
}
