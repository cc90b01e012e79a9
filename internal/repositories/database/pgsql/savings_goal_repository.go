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

const savingsGoalColumns = `goal_id, user_id, name, target_amount, current_amount, monthly_contribution, target_date, priority, is_completed, created_at`

// PgxSavingsGoalRepository reads savings goals; contribution writes go
// through the payment-order settlement.
type PgxSavingsGoalRepository struct {
	BaseRepository
}

func newPgxSavingsGoalRepository(pool *pgxpool.Pool) portsrepo.SavingsGoalRepository {
	return &PgxSavingsGoalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SavingsGoalRepository = (*PgxSavingsGoalRepository)(nil)

// ListUnfinishedGoals retrieves the user's goals not yet completed.
func (r *PgxSavingsGoalRepository) ListUnfinishedGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+savingsGoalColumns+` FROM savings_goals WHERE user_id = $1 AND NOT is_completed ORDER BY priority DESC, name ASC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	defer rows.Close()
	goals := []domain.SavingsGoal{}
	for rows.Next() {
		var goal domain.SavingsGoal
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount,
			&goal.MonthlyContribution, &goal.TargetDate, &goal.Priority, &goal.IsCompleted, &goal.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read savings goals: %w", err)
	}
	return goals, nil
}

// FindGoalByID retrieves a goal scoped to a user.
func (r *PgxSavingsGoalRepository) FindGoalByID(ctx context.Context, userID string, goalID string) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	err := r.Pool.QueryRow(ctx, `SELECT `+savingsGoalColumns+` FROM savings_goals WHERE goal_id = $1 AND user_id = $2;`, goalID, userID).
		Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount,
			&goal.MonthlyContribution, &goal.TargetDate, &goal.Priority, &goal.IsCompleted, &goal.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find savings goal %s: %w", goalID, err)
	}
	return &goal, nil
}
