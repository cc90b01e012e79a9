package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
)

// PgxIncomeSourceRepository reads income sources for salary resolution.
type PgxIncomeSourceRepository struct {
	BaseRepository
}

func newPgxIncomeSourceRepository(pool *pgxpool.Pool) portsrepo.IncomeSourceRepository {
	return &PgxIncomeSourceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.IncomeSourceRepository = (*PgxIncomeSourceRepository)(nil)

// ListIncomeSourcesByUser retrieves all income sources for a user.
func (r *PgxIncomeSourceRepository) ListIncomeSourcesByUser(ctx context.Context, userID string) ([]domain.IncomeSource, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT source_id, user_id, amount, frequency, payday, is_active FROM income_sources WHERE user_id = $1;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list income sources: %w", err)
	}
	defer rows.Close()
	sources := []domain.IncomeSource{}
	for rows.Next() {
		var source domain.IncomeSource
		if err := rows.Scan(&source.ID, &source.UserID, &source.Amount, &source.Frequency, &source.Payday, &source.Active); err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read income sources: %w", err)
	}
	return sources, nil
}
