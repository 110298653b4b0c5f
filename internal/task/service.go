package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portalhq/portal/internal/activity"
	"github.com/portalhq/portal/internal/notification"
	"github.com/portalhq/portal/internal/perm"
	"github.com/portalhq/portal/internal/team"
	"github.com/portalhq/portal/internal/user"
)

// ErrAssigneeNotMember is returned when the assignee holds no membership in
// the task's team. Rejected before anything is persisted.
var ErrAssigneeNotMember = errors.New("assignee is not a member of the team")

// ErrInvalidStatus is returned when a status value is outside the workflow.
var ErrInvalidStatus = errors.New("invalid task status")

// Service coordinates task mutations with permission grants, activity
// logging and assignment notifications.
type Service struct {
	pool          *pgxpool.Pool
	repo          Repository
	teamRepo      team.Repository
	userRepo      user.Repository
	perms         perm.Store
	activityRepo  activity.Repository
	notifications *notification.Service
}

// NewService creates a new task Service.
func NewService(
	pool *pgxpool.Pool,
	repo Repository,
	teamRepo team.Repository,
	userRepo user.Repository,
	perms perm.Store,
	activityRepo activity.Repository,
	notifications *notification.Service,
) *Service {
	return &Service{
		pool:          pool,
		repo:          repo,
		teamRepo:      teamRepo,
		userRepo:      userRepo,
		perms:         perms,
		activityRepo:  activityRepo,
		notifications: notifications,
	}
}

// Create makes a new task in a team. The creator must hold view permission
// on the team; the assignee, if any, must be a team member. Task grants
// (view for every member, change and delete for owners and the creator)
// commit in the same transaction as the task row. An ASSIGNMENT notification
// goes to the assignee unless self-assigned.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, t *Task) (*Task, error) {
	granted, err := s.perms.Check(ctx, actorID, perm.ObjectTeam, t.TeamID, perm.PermView)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, perm.ErrAccessDenied
	}

	if t.Status != "" && !ValidStatus(t.Status) {
		return nil, ErrInvalidStatus
	}

	if t.AssigneeID != nil {
		if err := s.requireMembership(ctx, t.TeamID, *t.AssigneeID); err != nil {
			return nil, err
		}
	}

	members, err := s.teamRepo.ListMembers(ctx, t.TeamID)
	if err != nil {
		return nil, err
	}

	t.CreatedBy = actorID

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Create(ctx, tx, t); err != nil {
		return nil, err
	}

	for _, m := range members {
		if err := s.perms.Grant(ctx, tx, m.UserID, perm.ObjectTask, t.ID, perm.PermView); err != nil {
			return nil, err
		}
		if m.Role == perm.RoleOwner || m.UserID == actorID {
			if err := s.perms.Grant(ctx, tx, m.UserID, perm.ObjectTask, t.ID, perm.PermChange); err != nil {
				return nil, err
			}
			if err := s.perms.Grant(ctx, tx, m.UserID, perm.ObjectTask, t.ID, perm.PermDelete); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	s.record(ctx, t.ID, actorID, activity.ActionTaskCreated, fmt.Sprintf("title=%q status=%s", t.Title, t.Status))

	if t.AssigneeID != nil && *t.AssigneeID != actorID {
		s.notifyAssignment(ctx, actorID, t)
	}

	return t, nil
}

// Get returns a task if the actor holds view permission on it or its team.
func (s *Service) Get(ctx context.Context, actorID, taskID uuid.UUID) (*Task, error) {
	return Authorize(ctx, s.repo, s.perms, actorID, taskID, perm.PermView)
}

// ListByTeam returns a team's tasks. Requires view permission on the team.
func (s *Service) ListByTeam(ctx context.Context, actorID, teamID uuid.UUID, f ListFilter) ([]Task, error) {
	granted, err := s.perms.Check(ctx, actorID, perm.ObjectTeam, teamID, perm.PermView)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, perm.ErrAccessDenied
	}

	if f.Status != nil && !ValidStatus(*f.Status) {
		return nil, ErrInvalidStatus
	}

	return s.repo.ListByTeam(ctx, teamID, f)
}

// Update applies the given field changes. Requires change permission on the
// task or its team. Status and assignment changes get dedicated activity
// entries; an assignment change notifies the new assignee unless
// self-assigned.
func (s *Service) Update(ctx context.Context, actorID, taskID uuid.UUID, fields UpdateFields) (*Task, error) {
	t, err := Authorize(ctx, s.repo, s.perms, actorID, taskID, perm.PermChange)
	if err != nil {
		return nil, err
	}

	oldStatus := t.Status
	oldAssignee := t.AssigneeID

	if fields.Title != nil {
		t.Title = *fields.Title
	}
	if fields.Description != nil {
		t.Description = *fields.Description
	}
	if fields.Status != nil {
		if !ValidStatus(*fields.Status) {
			return nil, ErrInvalidStatus
		}
		t.Status = *fields.Status
	}
	if fields.SetDeadline {
		t.Deadline = fields.Deadline
	}
	if fields.SetAssignee {
		if fields.AssigneeID != nil {
			if err := s.requireMembership(ctx, t.TeamID, *fields.AssigneeID); err != nil {
				return nil, err
			}
		}
		t.AssigneeID = fields.AssigneeID
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	if t.Status != oldStatus {
		s.record(ctx, t.ID, actorID, activity.ActionStatusChanged,
			fmt.Sprintf("%s -> %s", oldStatus, t.Status))
	}

	if assigneeChanged(oldAssignee, t.AssigneeID) {
		s.record(ctx, t.ID, actorID, activity.ActionAssigned, assigneeDetail(t.AssigneeID))
		if t.AssigneeID != nil && *t.AssigneeID != actorID {
			s.notifyAssignment(ctx, actorID, t)
		}
	}

	if fields.Title != nil || fields.Description != nil || fields.SetDeadline {
		s.record(ctx, t.ID, actorID, activity.ActionTaskUpdated, fmt.Sprintf("title=%q", t.Title))
	}

	return t, nil
}

// Delete removes a task and all grants on it. Requires delete permission on
// the task or its team. Notifications referencing the task survive with an
// unresolvable reference.
func (s *Service) Delete(ctx context.Context, actorID, taskID uuid.UUID) error {
	if _, err := Authorize(ctx, s.repo, s.perms, actorID, taskID, perm.PermDelete); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.perms.RevokeObject(ctx, tx, perm.ObjectTask, taskID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, tx, taskID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Activity returns a task's activity log. Requires view permission on the
// task or its team.
func (s *Service) Activity(ctx context.Context, actorID, taskID uuid.UUID) ([]activity.Entry, error) {
	if _, err := Authorize(ctx, s.repo, s.perms, actorID, taskID, perm.PermView); err != nil {
		return nil, err
	}
	return s.activityRepo.ListByTask(ctx, taskID)
}

// Authorize loads a task and verifies the actor holds the given permission on
// it, through either a direct task grant or the same permission on the task's
// team. The team fallback keeps access aligned with current membership:
// members added or promoted after a task was created reach it through their
// team grants.
func Authorize(ctx context.Context, repo Repository, perms perm.Store, actorID, taskID uuid.UUID, permission string) (*Task, error) {
	t, err := repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	granted, err := perms.Check(ctx, actorID, perm.ObjectTask, t.ID, permission)
	if err != nil {
		return nil, err
	}
	if !granted {
		granted, err = perms.Check(ctx, actorID, perm.ObjectTeam, t.TeamID, permission)
		if err != nil {
			return nil, err
		}
	}
	if !granted {
		return nil, perm.ErrAccessDenied
	}

	return t, nil
}

func (s *Service) requireMembership(ctx context.Context, teamID, userID uuid.UUID) error {
	_, err := s.teamRepo.GetMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, team.ErrMembershipNotFound) {
			return ErrAssigneeNotMember
		}
		return err
	}
	return nil
}

// record appends an activity entry, logging failures instead of failing the
// mutation that triggered them.
func (s *Service) record(ctx context.Context, taskID, actorID uuid.UUID, action, detail string) {
	err := s.activityRepo.Record(ctx, &activity.Entry{
		TaskID:  taskID,
		ActorID: actorID,
		Action:  action,
		Detail:  detail,
	})
	if err != nil {
		slog.Error("failed to record activity", "error", err, "task", taskID)
	}
}

func (s *Service) notifyAssignment(ctx context.Context, actorID uuid.UUID, t *Task) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		slog.Error("failed to resolve assignment actor", "error", err)
		return
	}

	err = s.notifications.Notify(ctx, &notification.Notification{
		RecipientID: *t.AssigneeID,
		SenderID:    actorID,
		Kind:        notification.KindAssignment,
		ObjectType:  notification.ObjectTask,
		ObjectID:    t.ID,
		Message:     fmt.Sprintf("%s assigned you to task '%s'", actor.Username, t.Title),
	})
	if err != nil {
		slog.Error("failed to create assignment notification", "error", err, "task", t.ID)
	}
}

func assigneeChanged(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	return *a != *b
}

func assigneeDetail(id *uuid.UUID) string {
	if id == nil {
		return "unassigned"
	}
	return "assigned to " + id.String()
}
