package team

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/portalhq/portal/internal/database"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrMembershipNotFound is returned when a membership record is not found.
var ErrMembershipNotFound = errors.New("membership not found")

// ErrDuplicateMembership is returned when the user is already a member of the team.
var ErrDuplicateMembership = errors.New("user is already a member of this team")

// Repository provides CRUD operations on the teams and memberships tables.
// Methods taking a database.Querier run against the caller's transaction so
// that membership changes commit atomically with their permission grants.
type Repository interface {
	Create(ctx context.Context, q database.Querier, t *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Team, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) (*Team, error)
	Delete(ctx context.Context, q database.Querier, id uuid.UUID) error

	AddMember(ctx context.Context, q database.Querier, m *Membership) error
	GetMembership(ctx context.Context, teamID, userID uuid.UUID) (*Membership, error)
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]Member, error)
	RemoveMember(ctx context.Context, q database.Querier, teamID, userID uuid.UUID) error
	UpdateRole(ctx context.Context, q database.Querier, teamID, userID uuid.UUID, role string) error
	CountOwners(ctx context.Context, teamID uuid.UUID) (int, error)
}
