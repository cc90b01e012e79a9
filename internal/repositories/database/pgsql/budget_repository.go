package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
)

// PgxBudgetRepository reads budget categories and rules for the allocation
// engine.
type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

// ListBudgetCategories retrieves the user's budget categories.
func (r *PgxBudgetRepository) ListBudgetCategories(ctx context.Context, userID string) ([]domain.BudgetCategory, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT category_id, user_id, name, color FROM budget_categories WHERE user_id = $1 ORDER BY name ASC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget categories: %w", err)
	}
	defer rows.Close()
	categories := []domain.BudgetCategory{}
	for rows.Next() {
		var category domain.BudgetCategory
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Color); err != nil {
			return nil, fmt.Errorf("failed to scan budget category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read budget categories: %w", err)
	}
	return categories, nil
}

// ListBudgetRules retrieves the user's budget rules in creation order. The
// planned-expense bucket funds rules in exactly this order.
func (r *PgxBudgetRepository) ListBudgetRules(ctx context.Context, userID string) ([]domain.BudgetRule, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT rule_id, user_id, category_id, allocation_type, allocation_value, monthly_limit
		 FROM budget_rules WHERE user_id = $1 ORDER BY created_at ASC, rule_id ASC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget rules: %w", err)
	}
	defer rows.Close()
	rules := []domain.BudgetRule{}
	for rows.Next() {
		var rule domain.BudgetRule
		if err := rows.Scan(&rule.ID, &rule.UserID, &rule.CategoryID, &rule.AllocationType,
			&rule.AllocationValue, &rule.MonthlyLimit); err != nil {
			return nil, fmt.Errorf("failed to scan budget rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read budget rules: %w", err)
	}
	return rules, nil
}
