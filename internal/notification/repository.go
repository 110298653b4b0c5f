package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned when a notification record is not found
// for the given recipient.
var ErrNotificationNotFound = errors.New("notification not found")

// Repository provides operations on the notifications table.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]Notification, error)
	ListUnread(ctx context.Context, recipientID uuid.UUID) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)

	// MarkRead flips the read flag to true for one notification owned by
	// the recipient. Already-read notifications are left untouched.
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error

	// MarkAllRead flips the read flag for every unread notification of the
	// recipient and returns how many were updated.
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error)
}
