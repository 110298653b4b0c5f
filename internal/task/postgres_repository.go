package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portalhq/portal/internal/database"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new task record using the given querier.
func (r *PostgresRepository) Create(ctx context.Context, q database.Querier, t *Task) error {
	query := `
		INSERT INTO tasks (team_id, title, description, status, deadline, assignee_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	if t.Status == "" {
		t.Status = StatusTodo
	}

	err := q.QueryRow(ctx, query,
		t.TeamID, t.Title, t.Description, t.Status, t.Deadline, t.AssigneeID, t.CreatedBy).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	return nil
}

// GetByID retrieves a single task by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	query := `
		SELECT id, team_id, title, description, status, deadline, assignee_id, created_by, created_at, updated_at
		FROM tasks
		WHERE id = $1`

	var t Task
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.TeamID, &t.Title, &t.Description, &t.Status,
		&t.Deadline, &t.AssigneeID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("querying task: %w", err)
	}

	return &t, nil
}

// ListByTeam retrieves a team's tasks, newest first, with optional status and
// assignee filters.
func (r *PostgresRepository) ListByTeam(ctx context.Context, teamID uuid.UUID, f ListFilter) ([]Task, error) {
	query := `
		SELECT id, team_id, title, description, status, deadline, assignee_id, created_by, created_at, updated_at
		FROM tasks
		WHERE team_id = $1`
	args := []any{teamID}

	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.AssigneeID != nil {
		args = append(args, *f.AssigneeID)
		query += fmt.Sprintf(" AND assignee_id = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		err := rows.Scan(&t.ID, &t.TeamID, &t.Title, &t.Description, &t.Status,
			&t.Deadline, &t.AssigneeID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}

	if tasks == nil {
		tasks = []Task{}
	}

	return tasks, nil
}

// Update writes a task's mutable fields and refreshes updated_at.
func (r *PostgresRepository) Update(ctx context.Context, t *Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, deadline = $5, assignee_id = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		t.ID, t.Title, t.Description, t.Status, t.Deadline, t.AssigneeID).
		Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("updating task: %w", err)
	}

	return nil
}

// Delete removes a task by its UUID using the given querier. Comments,
// attachments and activity entries cascade in the database.
func (r *PostgresRepository) Delete(ctx context.Context, q database.Querier, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}
