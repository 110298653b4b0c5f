package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table.
type Team struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
}

// Membership links a user to a team with a role ("OWNER" or "MEMBER").
type Membership struct {
	ID       uuid.UUID
	TeamID   uuid.UUID
	UserID   uuid.UUID
	Role     string
	JoinedAt time.Time
}

// Member is a membership joined with the user's username for listing.
type Member struct {
	Membership
	Username string
}
