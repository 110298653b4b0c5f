package activity

import (
	"context"

	"github.com/google/uuid"
)

// Repository appends and reads the per-task activity log.
type Repository interface {
	Record(ctx context.Context, e *Entry) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]Entry, error)
}
