package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/portalhq/portal/internal/activity"
	"github.com/portalhq/portal/internal/mention"
	"github.com/portalhq/portal/internal/notification"
	"github.com/portalhq/portal/internal/perm"
	"github.com/portalhq/portal/internal/task"
	"github.com/portalhq/portal/internal/user"
)

// ErrParentMismatch is returned when the parent comment belongs to a
// different task. Rejected before anything is persisted.
var ErrParentMismatch = errors.New("parent comment belongs to a different task")

// Service coordinates comment creation with mention and reply notifications
// and activity logging.
type Service struct {
	repo          Repository
	taskRepo      task.Repository
	userRepo      user.Repository
	perms         perm.Store
	resolver      *mention.Resolver
	activityRepo  activity.Repository
	notifications *notification.Service
}

// NewService creates a new comment Service.
func NewService(
	repo Repository,
	taskRepo task.Repository,
	userRepo user.Repository,
	perms perm.Store,
	resolver *mention.Resolver,
	activityRepo activity.Repository,
	notifications *notification.Service,
) *Service {
	return &Service{
		repo:          repo,
		taskRepo:      taskRepo,
		userRepo:      userRepo,
		perms:         perms,
		resolver:      resolver,
		activityRepo:  activityRepo,
		notifications: notifications,
	}
}

// Create adds a comment to a task. The author must hold view permission on
// the task or its team; a parent comment must belong to the same task.
// Mentioned team members get MENTION notifications, the parent comment's
// author gets a REPLY notification, and an activity entry is appended. The
// author is never notified about their own comment.
func (s *Service) Create(ctx context.Context, actorID, taskID uuid.UUID, content string, parentID *uuid.UUID) (*Comment, error) {
	t, err := task.Authorize(ctx, s.taskRepo, s.perms, actorID, taskID, perm.PermView)
	if err != nil {
		return nil, err
	}

	var parent *Comment
	if parentID != nil {
		parent, err = s.repo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.TaskID != taskID {
			return nil, ErrParentMismatch
		}
	}

	c := &Comment{
		TaskID:   taskID,
		AuthorID: actorID,
		Content:  content,
		ParentID: parentID,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.record(ctx, taskID, actorID, parent != nil)
	s.notifyAll(ctx, c, t, parent)

	return c, nil
}

// ListThread returns a task's comments as a reply tree. Requires view
// permission on the task or its team.
func (s *Service) ListThread(ctx context.Context, actorID, taskID uuid.UUID) ([]*Node, error) {
	if _, err := task.Authorize(ctx, s.taskRepo, s.perms, actorID, taskID, perm.PermView); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return BuildThread(comments), nil
}

// Delete removes a comment and its descendants. Allowed for the comment's
// author and for holders of change permission on the task or its team.
func (s *Service) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if c.AuthorID != actorID {
		if _, err := task.Authorize(ctx, s.taskRepo, s.perms, actorID, c.TaskID, perm.PermChange); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, commentID)
}

func (s *Service) record(ctx context.Context, taskID, actorID uuid.UUID, isReply bool) {
	detail := "comment"
	if isReply {
		detail = "reply"
	}
	err := s.activityRepo.Record(ctx, &activity.Entry{
		TaskID:  taskID,
		ActorID: actorID,
		Action:  activity.ActionCommentAdded,
		Detail:  detail,
	})
	if err != nil {
		slog.Error("failed to record comment activity", "error", err, "task", taskID)
	}
}

// notifyAll sends mention notifications for the comment's content and a reply
// notification to the parent author. Notification failures are logged, never
// surfaced; the comment is already persisted.
func (s *Service) notifyAll(ctx context.Context, c *Comment, t *task.Task, parent *Comment) {
	author, err := s.userRepo.GetByID(ctx, c.AuthorID)
	if err != nil {
		slog.Error("failed to resolve comment author", "error", err, "comment", c.ID)
		return
	}

	mentioned, err := s.resolver.MentionedMembers(ctx, c.Content, t.TeamID)
	if err != nil {
		slog.Error("failed to resolve mentions", "error", err, "comment", c.ID)
		mentioned = nil
	}

	notified := map[uuid.UUID]struct{}{c.AuthorID: {}}

	for _, u := range mentioned {
		if _, done := notified[u.ID]; done {
			continue
		}
		notified[u.ID] = struct{}{}

		err := s.notifications.Notify(ctx, &notification.Notification{
			RecipientID: u.ID,
			SenderID:    c.AuthorID,
			Kind:        notification.KindMention,
			ObjectType:  notification.ObjectComment,
			ObjectID:    c.ID,
			Message:     fmt.Sprintf("%s mentioned you in a comment on '%s'", author.Username, t.Title),
		})
		if err != nil {
			slog.Error("failed to create mention notification", "error", err, "comment", c.ID)
		}
	}

	if parent == nil {
		return
	}
	if _, done := notified[parent.AuthorID]; done {
		return
	}

	err = s.notifications.Notify(ctx, &notification.Notification{
		RecipientID: parent.AuthorID,
		SenderID:    c.AuthorID,
		Kind:        notification.KindReply,
		ObjectType:  notification.ObjectComment,
		ObjectID:    c.ID,
		Message:     fmt.Sprintf("%s replied to your comment on '%s'", author.Username, t.Title),
	})
	if err != nil {
		slog.Error("failed to create reply notification", "error", err, "comment", c.ID)
	}
}
