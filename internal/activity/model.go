package activity

import (
	"time"

	"github.com/google/uuid"
)

// Action kinds recorded on tasks.
const (
	ActionTaskCreated   = "task_created"
	ActionTaskUpdated   = "task_updated"
	ActionStatusChanged = "status_changed"
	ActionAssigned      = "assignee_changed"
	ActionCommentAdded  = "comment_added"
	ActionFileUploaded  = "file_uploaded"
)

// Entry represents one append-only row in the activity_entries table. Entries
// are never updated or deleted except by the owning task's cascade.
type Entry struct {
	ID        uuid.UUID
	TaskID    uuid.UUID
	ActorID   uuid.UUID
	Action    string
	Detail    string
	CreatedAt time.Time
}
