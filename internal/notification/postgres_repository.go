package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new notification record.
func (r *PostgresRepository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, sender_id, kind, object_type, object_id, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, read, created_at`

	err := r.pool.QueryRow(ctx, query,
		n.RecipientID, n.SenderID, n.Kind, n.ObjectType, n.ObjectID, n.Message).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	return nil
}

// ListByRecipient retrieves all notifications for a recipient, newest first.
func (r *PostgresRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]Notification, error) {
	query := `
		SELECT id, recipient_id, sender_id, kind, object_type, object_id, message, read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, recipientID)
}

// ListUnread retrieves unread notifications for a recipient, newest first.
func (r *PostgresRepository) ListUnread(ctx context.Context, recipientID uuid.UUID) ([]Notification, error) {
	query := `
		SELECT id, recipient_id, sender_id, kind, object_type, object_id, message, read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND read = FALSE
		ORDER BY created_at DESC`

	return r.list(ctx, query, recipientID)
}

// CountUnread returns the number of unread notifications for a recipient.
func (r *PostgresRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`

	var count int
	if err := r.pool.QueryRow(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead flips one notification's read flag to true.
func (r *PostgresRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1 AND recipient_id = $2`

	result, err := r.pool.Exec(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead flips every unread notification of the recipient to read.
func (r *PostgresRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	query := `
		UPDATE notifications
		SET read = TRUE
		WHERE recipient_id = $1 AND read = FALSE`

	result, err := r.pool.Exec(ctx, query, recipientID)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}

	return int(result.RowsAffected()), nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

func scanAll(rows pgx.Rows) ([]Notification, error) {
	var notifications []Notification
	for rows.Next() {
		var n Notification
		err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Kind, &n.ObjectType,
			&n.ObjectID, &n.Message, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notification rows: %w", err)
	}

	if notifications == nil {
		notifications = []Notification{}
	}

	return notifications, nil
}
