package task

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/portalhq/portal/internal/database"
)

// ErrTaskNotFound is returned when a task record is not found.
var ErrTaskNotFound = errors.New("task not found")

// Repository provides CRUD operations on the tasks table. Create and Delete
// take a database.Querier so they commit atomically with permission grants.
type Repository interface {
	Create(ctx context.Context, q database.Querier, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID, f ListFilter) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, q database.Querier, id uuid.UUID) error
}
