package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	KindMention    = "MENTION"
	KindAssignment = "ASSIGNMENT"
	KindReply      = "REPLY"
)

// Object types a notification can reference.
const (
	ObjectTask    = "task"
	ObjectComment = "comment"
)

// Notification represents a row in the notifications table. Rows are
// immutable once created except for the read flag, which only ever moves
// from false to true.
type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	SenderID    uuid.UUID
	Kind        string
	ObjectType  string
	ObjectID    uuid.UUID
	Message     string
	Read        bool
	CreatedAt   time.Time
}
