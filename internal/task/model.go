package task

import (
	"time"

	"github.com/google/uuid"
)

// Task status workflow values.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusReview     = "REVIEW"
	StatusDone       = "DONE"
)

// ValidStatus reports whether s is one of the workflow values.
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// Task represents a row in the tasks table.
type Task struct {
	ID          uuid.UUID
	TeamID      uuid.UUID
	Title       string
	Description string
	Status      string
	Deadline    *time.Time
	AssigneeID  *uuid.UUID
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilter holds optional filters for listing a team's tasks.
type ListFilter struct {
	Status     *string
	AssigneeID *uuid.UUID
}

// UpdateFields holds user-updatable fields on a task. Nil fields are not
// updated; SetAssignee and SetDeadline distinguish "leave it alone" from
// "clear it".
type UpdateFields struct {
	Title       *string
	Description *string
	Status      *string
	SetDeadline bool
	Deadline    *time.Time
	SetAssignee bool
	AssigneeID  *uuid.UUID
}
