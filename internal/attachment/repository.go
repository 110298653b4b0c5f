package attachment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrAttachmentNotFound is returned when an attachment record is not found.
var ErrAttachmentNotFound = errors.New("attachment not found")

// Repository provides operations on the attachments table.
type Repository interface {
	Create(ctx context.Context, a *Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Attachment, error)
	ListByObject(ctx context.Context, objectType string, objectID uuid.UUID) ([]Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
