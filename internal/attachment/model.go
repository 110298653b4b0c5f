package attachment

import (
	"time"

	"github.com/google/uuid"
)

// Object types an attachment can be bound to.
const (
	ObjectTask    = "task"
	ObjectComment = "comment"
)

// Attachment represents a row in the attachments table. TaskID always names
// the owning task, also for comment attachments, so task deletion cascades
// the metadata.
type Attachment struct {
	ID         uuid.UUID
	ObjectType string
	ObjectID   uuid.UUID
	TaskID     uuid.UUID
	FileName   string
	StoredPath string
	SizeBytes  int64
	UploadedBy uuid.UUID
	UploadedAt time.Time
}
