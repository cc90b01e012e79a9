package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
)

// PgxNotificationRepository persists notification records for later delivery.
type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

// CreateNotification inserts a notification record.
func (r *PgxNotificationRepository) CreateNotification(ctx context.Context, notification domain.Notification) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO notifications (notification_id, user_id, title, message, type, is_read, action_url, related_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		notification.ID, notification.UserID, notification.Title, notification.Message,
		notification.Type, notification.Read, notification.ActionURL, notification.RelatedID, notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification %s: %w", notification.ID, err)
	}
	return nil
}
