package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	ApiKeyPrefix string
	ApiKeyHash   string
	CreatedAt    time.Time
}
