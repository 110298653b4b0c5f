package attachment

import (
	"context"
	"errors"
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

// Create inserts a new attachment record.
func (r *PostgresRepository) Create(ctx context.Context, a *Attachment) error {
	query := `
		INSERT INTO attachments (object_type, object_id, task_id, file_name, stored_path, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, uploaded_at`

	err := r.pool.QueryRow(ctx, query,
		a.ObjectType, a.ObjectID, a.TaskID, a.FileName, a.StoredPath, a.SizeBytes, a.UploadedBy).
		Scan(&a.ID, &a.UploadedAt)
	if err != nil {
		return fmt.Errorf("inserting attachment: %w", err)
	}

	return nil
}

// GetByID retrieves a single attachment by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	query := `
		SELECT id, object_type, object_id, task_id, file_name, stored_path, size_bytes, uploaded_by, uploaded_at
		FROM attachments
		WHERE id = $1`

	var a Attachment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.ObjectType, &a.ObjectID, &a.TaskID, &a.FileName,
		&a.StoredPath, &a.SizeBytes, &a.UploadedBy, &a.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("querying attachment: %w", err)
	}

	return &a, nil
}

// ListByObject retrieves all attachments bound to one object, newest first.
func (r *PostgresRepository) ListByObject(ctx context.Context, objectType string, objectID uuid.UUID) ([]Attachment, error) {
	query := `
		SELECT id, object_type, object_id, task_id, file_name, stored_path, size_bytes, uploaded_by, uploaded_at
		FROM attachments
		WHERE object_type = $1 AND object_id = $2
		ORDER BY uploaded_at DESC`

	rows, err := r.pool.Query(ctx, query, objectType, objectID)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	defer rows.Close()

	var attachments []Attachment
	for rows.Next() {
		var a Attachment
		err := rows.Scan(&a.ID, &a.ObjectType, &a.ObjectID, &a.TaskID, &a.FileName,
			&a.StoredPath, &a.SizeBytes, &a.UploadedBy, &a.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment row: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachment rows: %w", err)
	}

	if attachments == nil {
		attachments = []Attachment{}
	}

	return attachments, nil
}

// Delete removes an attachment record by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM attachments WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAttachmentNotFound
	}

	return nil
}
