package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grievance-hub/complaint-service/internal/domain"
)

// NotificationRepository stores durable in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_id, complaint_id, title, body, is_read)
        VALUES ($1,$2,$3,$4,false)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		notification.RecipientID,
		notification.ComplaintID,
		notification.Title,
		notification.Body,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, recipient_id, complaint_id, title, body, is_read, created_at
        FROM notifications WHERE recipient_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.RecipientID,
			&notification.ComplaintID,
			&notification.Title,
			&notification.Body,
			&notification.Read,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	return result, rows.Err()
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND is_read=false`
	var count int64
	if err := r.pool.QueryRow(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	const query = `UPDATE notifications SET is_read=true WHERE id=$1 AND recipient_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, recipientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	const query = `UPDATE notifications SET is_read=true WHERE recipient_id=$1 AND is_read=false`
	_, err := r.pool.Exec(ctx, query, recipientID)
	return err
}
