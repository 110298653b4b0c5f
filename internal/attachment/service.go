package attachment

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/portalhq/portal/internal/activity"
	"github.com/portalhq/portal/internal/comment"
	"github.com/portalhq/portal/internal/perm"
	"github.com/portalhq/portal/internal/task"
)

// ErrUnknownObjectType is returned for object types other than task/comment.
var ErrUnknownObjectType = fmt.Errorf("unknown attachment object type")

// Service stores attachment bytes and metadata, and records the upload on the
// owning task's activity log.
type Service struct {
	repo         Repository
	store        Store
	taskRepo     task.Repository
	commentRepo  comment.Repository
	perms        perm.Store
	activityRepo activity.Repository
}

// NewService creates a new attachment Service.
func NewService(
	repo Repository,
	store Store,
	taskRepo task.Repository,
	commentRepo comment.Repository,
	perms perm.Store,
	activityRepo activity.Repository,
) *Service {
	return &Service{
		repo:         repo,
		store:        store,
		taskRepo:     taskRepo,
		commentRepo:  commentRepo,
		perms:        perms,
		activityRepo: activityRepo,
	}
}

// Upload attaches a file to a task or comment. The uploader must hold view
// permission on the owning task or its team. The upload is recorded on the
// task's activity log.
func (s *Service) Upload(ctx context.Context, actorID uuid.UUID, objectType string, objectID uuid.UUID, fileName string, r io.Reader) (*Attachment, error) {
	taskID, err := s.owningTask(ctx, objectType, objectID)
	if err != nil {
		return nil, err
	}

	if _, err := task.Authorize(ctx, s.taskRepo, s.perms, actorID, taskID, perm.PermView); err != nil {
		return nil, err
	}

	path, size, err := s.store.Save(fileName, r)
	if err != nil {
		return nil, err
	}

	a := &Attachment{
		ObjectType: objectType,
		ObjectID:   objectID,
		TaskID:     taskID,
		FileName:   fileName,
		StoredPath: path,
		SizeBytes:  size,
		UploadedBy: actorID,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if rmErr := s.store.Remove(path); rmErr != nil {
			slog.Error("failed to remove orphaned upload", "error", rmErr, "path", path)
		}
		return nil, err
	}

	err = s.activityRepo.Record(ctx, &activity.Entry{
		TaskID:  taskID,
		ActorID: actorID,
		Action:  activity.ActionFileUploaded,
		Detail:  fileName,
	})
	if err != nil {
		slog.Error("failed to record upload activity", "error", err, "task", taskID)
	}

	return a, nil
}

// Open returns an attachment's metadata and content stream. The actor must
// hold view permission on the owning task or its team.
func (s *Service) Open(ctx context.Context, actorID, id uuid.UUID) (*Attachment, io.ReadCloser, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if _, err := task.Authorize(ctx, s.taskRepo, s.perms, actorID, a.TaskID, perm.PermView); err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(a.StoredPath)
	if err != nil {
		return nil, nil, err
	}

	return a, rc, nil
}

// ListByObject returns the attachments bound to a task or comment. The actor
// must hold view permission on the owning task or its team.
func (s *Service) ListByObject(ctx context.Context, actorID uuid.UUID, objectType string, objectID uuid.UUID) ([]Attachment, error) {
	taskID, err := s.owningTask(ctx, objectType, objectID)
	if err != nil {
		return nil, err
	}

	if _, err := task.Authorize(ctx, s.taskRepo, s.perms, actorID, taskID, perm.PermView); err != nil {
		return nil, err
	}

	return s.repo.ListByObject(ctx, objectType, objectID)
}

// Delete removes an attachment's metadata and best-effort removes its bytes.
// Allowed for the uploader and for holders of change permission on the task
// or its team.
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if a.UploadedBy != actorID {
		if _, err := task.Authorize(ctx, s.taskRepo, s.perms, actorID, a.TaskID, perm.PermChange); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.Remove(a.StoredPath); err != nil {
		slog.Error("failed to remove stored file", "error", err, "path", a.StoredPath)
	}

	return nil
}

func (s *Service) owningTask(ctx context.Context, objectType string, objectID uuid.UUID) (uuid.UUID, error) {
	switch objectType {
	case ObjectTask:
		t, err := s.taskRepo.GetByID(ctx, objectID)
		if err != nil {
			return uuid.Nil, err
		}
		return t.ID, nil
	case ObjectComment:
		c, err := s.commentRepo.GetByID(ctx, objectID)
		if err != nil {
			return uuid.Nil, err
		}
		return c.TaskID, nil
	default:
		return uuid.Nil, ErrUnknownObjectType
	}
}
