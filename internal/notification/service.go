package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/portalhq/portal/internal/user"
)

// Service is the notification ledger: it persists notifications and hands
// them to the dispatcher for email delivery.
type Service struct {
	repo       Repository
	userRepo   user.Repository
	dispatcher *Dispatcher
}

// NewService creates a new notification Service.
func NewService(repo Repository, userRepo user.Repository, dispatcher *Dispatcher) *Service {
	return &Service{
		repo:       repo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
	}
}

// Notify records one notification and triggers dispatch. Email delivery
// failure is logged and swallowed; the ledger row stands either way.
func (s *Service) Notify(ctx context.Context, n *Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	recipient, err := s.userRepo.GetByID(ctx, n.RecipientID)
	if err != nil {
		slog.Error("failed to resolve notification recipient", "error", err, "recipient", n.RecipientID)
		return nil
	}

	if err := s.dispatcher.Dispatch(recipient.Email, *n); err != nil {
		slog.Error("notification email delivery failed", "error", err,
			"recipient", n.RecipientID, "notification", n.ID)
	}

	return nil
}

// ListForUser returns all notifications for a recipient, newest first.
func (s *Service) ListForUser(ctx context.Context, recipientID uuid.UUID) ([]Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID)
}

// ListUnread returns unread notifications for a recipient, newest first.
func (s *Service) ListUnread(ctx context.Context, recipientID uuid.UUID) ([]Notification, error) {
	return s.repo.ListUnread(ctx, recipientID)
}

// UnreadCount returns the number of unread notifications for a recipient.
func (s *Service) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

// MarkRead marks one of the recipient's notifications as read.
func (s *Service) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

// MarkAllRead marks all of the recipient's notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}
