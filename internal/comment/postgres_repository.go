package comment

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

// Create inserts a new comment record.
func (r *PostgresRepository) Create(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (task_id, author_id, content, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, c.TaskID, c.AuthorID, c.Content, c.ParentID).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}

	return nil
}

// GetByID retrieves a single comment by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	query := `
		SELECT id, task_id, author_id, content, parent_id, created_at
		FROM comments
		WHERE id = $1`

	var c Comment
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("querying comment: %w", err)
	}

	return &c, nil
}

// ListByTask retrieves a task's comments in chronological order.
func (r *PostgresRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]Comment, error) {
	query := `
		SELECT id, task_id, author_id, content, parent_id, created_at
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.ParentID, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comment rows: %w", err)
	}

	if comments == nil {
		comments = []Comment{}
	}

	return comments, nil
}

// Delete removes a comment by its UUID. Replies cascade in the database.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCommentNotFound
	}

	return nil
}
