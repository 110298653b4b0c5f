package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portalhq/portal/internal/perm"
	"github.com/portalhq/portal/internal/user"
)

// ErrLastOwner is returned when an operation would leave a team without an owner.
var ErrLastOwner = errors.New("team must keep at least one owner")

// ErrInvalidRole is returned when a role value is not OWNER or MEMBER.
var ErrInvalidRole = errors.New("invalid membership role")

// Service coordinates team and membership mutations with their permission
// grants. Every mutation that changes a membership commits the membership row
// and its grants in one transaction, so no caller can observe one without the
// other.
type Service struct {
	pool     *pgxpool.Pool
	repo     Repository
	perms    perm.Store
	userRepo user.Repository
}

// NewService creates a new team Service.
func NewService(pool *pgxpool.Pool, repo Repository, perms perm.Store, userRepo user.Repository) *Service {
	return &Service{
		pool:     pool,
		repo:     repo,
		perms:    perms,
		userRepo: userRepo,
	}
}

// Create makes a new team with the creator as its OWNER, granting the full
// owner permission set on the team.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, name, description string) (*Team, error) {
	t := &Team{
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Create(ctx, tx, t); err != nil {
		return nil, err
	}

	m := &Membership{TeamID: t.ID, UserID: creatorID, Role: perm.RoleOwner}
	if err := s.repo.AddMember(ctx, tx, m); err != nil {
		return nil, err
	}

	for _, p := range perm.ForRole(perm.RoleOwner) {
		if err := s.perms.Grant(ctx, tx, creatorID, perm.ObjectTeam, t.ID, p); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return t, nil
}

// Get returns a team if the actor holds view permission on it.
func (s *Service) Get(ctx context.Context, actorID, teamID uuid.UUID) (*Team, error) {
	if err := s.require(ctx, actorID, teamID, perm.PermView); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, teamID)
}

// ListForUser returns all teams the user belongs to.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Team, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Update changes a team's name and description. Requires change permission.
func (s *Service) Update(ctx context.Context, actorID, teamID uuid.UUID, name, description string) (*Team, error) {
	if err := s.require(ctx, actorID, teamID, perm.PermChange); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, teamID, name, description)
}

// Delete removes a team and all grants scoped to it. Requires delete
// permission. Tasks, comments and activity entries cascade in the database.
func (s *Service) Delete(ctx context.Context, actorID, teamID uuid.UUID) error {
	if err := s.require(ctx, actorID, teamID, perm.PermDelete); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.perms.RevokeTeamScope(ctx, tx, teamID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, tx, teamID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// AddMember adds a user to a team by username, granting the permissions the
// role confers. Requires manage_members permission.
func (s *Service) AddMember(ctx context.Context, actorID, teamID uuid.UUID, username, role string) (*Membership, error) {
	if role != perm.RoleOwner && role != perm.RoleMember {
		return nil, ErrInvalidRole
	}

	if err := s.require(ctx, actorID, teamID, perm.PermManageMembers); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	m := &Membership{TeamID: teamID, UserID: u.ID, Role: role}
	if err := s.repo.AddMember(ctx, tx, m); err != nil {
		return nil, err
	}

	for _, p := range perm.ForRole(role) {
		if err := s.perms.Grant(ctx, tx, u.ID, perm.ObjectTeam, teamID, p); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return m, nil
}

// ListMembers returns a team's members. Requires view permission.
func (s *Service) ListMembers(ctx context.Context, actorID, teamID uuid.UUID) ([]Member, error) {
	if err := s.require(ctx, actorID, teamID, perm.PermView); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, teamID)
}

// RemoveMember removes a user from a team, revoking every grant the
// membership conferred (team and task grants) in the same transaction.
// The last owner cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, actorID, teamID, userID uuid.UUID) error {
	if err := s.require(ctx, actorID, teamID, perm.PermManageMembers); err != nil {
		return err
	}

	m, err := s.repo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return err
	}

	if m.Role == perm.RoleOwner {
		owners, err := s.repo.CountOwners(ctx, teamID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.perms.RevokeMemberScope(ctx, tx, userID, teamID); err != nil {
		return err
	}

	if err := s.repo.RemoveMember(ctx, tx, teamID, userID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ChangeRole updates a member's role and adjusts the owner-only team grants
// in the same transaction. The last owner cannot be demoted.
func (s *Service) ChangeRole(ctx context.Context, actorID, teamID, userID uuid.UUID, newRole string) error {
	if newRole != perm.RoleOwner && newRole != perm.RoleMember {
		return ErrInvalidRole
	}

	if err := s.require(ctx, actorID, teamID, perm.PermManageMembers); err != nil {
		return err
	}

	m, err := s.repo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return err
	}

	if m.Role == newRole {
		return nil
	}

	if m.Role == perm.RoleOwner && newRole == perm.RoleMember {
		owners, err := s.repo.CountOwners(ctx, teamID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.UpdateRole(ctx, tx, teamID, userID, newRole); err != nil {
		return err
	}

	for _, p := range perm.OwnerOnly() {
		if newRole == perm.RoleOwner {
			err = s.perms.Grant(ctx, tx, userID, perm.ObjectTeam, teamID, p)
		} else {
			err = s.perms.Revoke(ctx, tx, userID, perm.ObjectTeam, teamID, p)
		}
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Service) require(ctx context.Context, actorID, teamID uuid.UUID, permission string) error {
	granted, err := s.perms.Check(ctx, actorID, perm.ObjectTeam, teamID, permission)
	if err != nil {
		return err
	}
	if !granted {
		return perm.ErrAccessDenied
	}
	return nil
}
