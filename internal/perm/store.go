// Package perm implements object-level permission grants. A grant is a row
// (user, object, permission); role semantics live entirely in ForRole, which
// maps a membership role to the set of team permissions it confers.
package perm

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/portalhq/portal/internal/database"
)

// ErrAccessDenied is returned by services when the acting user lacks the
// permission a mutation requires. No partial mutation occurs.
var ErrAccessDenied = errors.New("access denied")

// Object types that carry grants.
const (
	ObjectTeam = "team"
	ObjectTask = "task"
)

// Permission names.
const (
	PermView          = "view"
	PermChange        = "change"
	PermDelete        = "delete"
	PermManageMembers = "manage_members"
)

// Role values for team memberships.
const (
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

// Store records and answers object-level permission grants. Grant and Revoke
// take a Querier so callers can run them inside the same transaction as the
// membership change that triggers them; Check always reads committed state.
type Store interface {
	Grant(ctx context.Context, q database.Querier, userID uuid.UUID, objectType string, objectID uuid.UUID, permission string) error
	Revoke(ctx context.Context, q database.Querier, userID uuid.UUID, objectType string, objectID uuid.UUID, permission string) error
	Check(ctx context.Context, userID uuid.UUID, objectType string, objectID uuid.UUID, permission string) (bool, error)

	// RevokeMemberScope removes every grant a membership in the given team
	// conferred on the user: the team object itself plus all of the team's
	// tasks.
	RevokeMemberScope(ctx context.Context, q database.Querier, userID, teamID uuid.UUID) error

	// RevokeObject removes all grants held by any user on one object.
	RevokeObject(ctx context.Context, q database.Querier, objectType string, objectID uuid.UUID) error

	// RevokeTeamScope removes all grants on the team object and on every
	// task owned by the team, for all users. Used when a team is deleted.
	RevokeTeamScope(ctx context.Context, q database.Querier, teamID uuid.UUID) error
}

// ForRole returns the team permissions conferred by a membership role.
// Unknown roles confer nothing.
func ForRole(role string) []string {
	switch role {
	case RoleOwner:
		return []string{PermView, PermChange, PermDelete, PermManageMembers}
	case RoleMember:
		return []string{PermView}
	default:
		return nil
	}
}

// OwnerOnly returns the permissions an OWNER holds beyond a MEMBER. Used when
// a member's role changes without the membership itself being touched.
func OwnerOnly() []string {
	return []string{PermChange, PermDelete, PermManageMembers}
}
