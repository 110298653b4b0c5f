package mention

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/portalhq/portal/internal/team"
	"github.com/portalhq/portal/internal/user"
)

// Resolver turns mention tokens into the team members they designate.
type Resolver struct {
	userRepo user.Repository
	teamRepo team.Repository
}

// NewResolver creates a new Resolver.
func NewResolver(userRepo user.Repository, teamRepo team.Repository) *Resolver {
	return &Resolver{
		userRepo: userRepo,
		teamRepo: teamRepo,
	}
}

// MentionedMembers resolves every @username token in text to a User, keeping
// only users who hold a membership in the given team. Tokens that match no
// user, or a user outside the team, are silently dropped. Matching is
// case-sensitive and exact.
func (r *Resolver) MentionedMembers(ctx context.Context, text string, teamID uuid.UUID) ([]user.User, error) {
	var members []user.User

	for _, name := range Parse(text) {
		u, err := r.userRepo.GetByUsername(ctx, name)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolving mention %q: %w", name, err)
		}

		_, err = r.teamRepo.GetMembership(ctx, teamID, u.ID)
		if err != nil {
			if errors.Is(err, team.ErrMembershipNotFound) {
				continue
			}
			return nil, fmt.Errorf("checking membership for mention %q: %w", name, err)
		}

		members = append(members, *u)
	}

	return members, nil
}
