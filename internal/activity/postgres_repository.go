package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
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

// Record appends one activity entry.
func (r *PostgresRepository) Record(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO activity_entries (task_id, actor_id, action, detail)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, e.TaskID, e.ActorID, e.Action, e.Detail).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting activity entry: %w", err)
	}

	return nil
}

// ListByTask retrieves a task's activity entries in chronological order.
func (r *PostgresRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]Entry, error) {
	query := `
		SELECT id, task_id, actor_id, action, detail, created_at
		FROM activity_entries
		WHERE task_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing activity entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.TaskID, &e.ActorID, &e.Action, &e.Detail, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}
