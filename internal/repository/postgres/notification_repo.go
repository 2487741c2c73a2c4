package postgres

import (
	"context"
	"time"

	"go-hiring-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type notificationRepo struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) domain.NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (account_id, kind, title, message, related_id, related_kind, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	n.CreatedAt = time.Now()
	return r.db.QueryRow(ctx, query,
		n.AccountID, n.Kind, n.Title, n.Message, n.RelatedID, n.RelatedKind, n.Email, n.CreatedAt,
	).Scan(&n.ID)
}

func (r *notificationRepo) ListForAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, account_id, kind, title, message, related_id, related_kind, email, read_at, created_at
		FROM notifications
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID, &n.AccountID, &n.Kind, &n.Title, &n.Message,
			&n.RelatedID, &n.RelatedKind, &n.Email, &n.ReadAt, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead is scoped by account so one user cannot mark another's notification.
func (r *notificationRepo) MarkRead(ctx context.Context, accountID string, id int64) error {
	query := `UPDATE notifications SET read_at = $3 WHERE id = $1 AND account_id = $2 AND read_at IS NULL`
	result, err := r.db.Exec(ctx, query, id, accountID, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
