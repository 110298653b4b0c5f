package mention_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalhq/portal/internal/database"
	"github.com/portalhq/portal/internal/mention"
	"github.com/portalhq/portal/internal/perm"
	"github.com/portalhq/portal/internal/team"
	"github.com/portalhq/portal/internal/user"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*user.User, error)
}

func (m *mockUserRepo) Create(context.Context, *user.User) error { return nil }
func (m *mockUserRepo) GetByID(context.Context, uuid.UUID) (*user.User, error) {
	return nil, user.ErrUserNotFound
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return m.getByUsernameFn(ctx, username)
}
func (m *mockUserRepo) FindByPrefix(context.Context, string) ([]user.User, error) { return nil, nil }
func (m *mockUserRepo) List(context.Context) ([]user.User, error)                 { return nil, nil }

type mockTeamRepo struct {
	getMembershipFn func(ctx context.Context, teamID, userID uuid.UUID) (*team.Membership, error)
}

func (m *mockTeamRepo) Create(context.Context, database.Querier, *team.Team) error { return nil }
func (m *mockTeamRepo) GetByID(context.Context, uuid.UUID) (*team.Team, error) {
	return nil, team.ErrTeamNotFound
}
func (m *mockTeamRepo) ListForUser(context.Context, uuid.UUID) ([]team.Team, error) {
	return nil, nil
}
func (m *mockTeamRepo) Update(context.Context, uuid.UUID, string, string) (*team.Team, error) {
	return nil, team.ErrTeamNotFound
}
func (m *mockTeamRepo) Delete(context.Context, database.Querier, uuid.UUID) error { return nil }
func (m *mockTeamRepo) AddMember(context.Context, database.Querier, *team.Membership) error {
	return nil
}
func (m *mockTeamRepo) GetMembership(ctx context.Context, teamID, userID uuid.UUID) (*team.Membership, error) {
	return m.getMembershipFn(ctx, teamID, userID)
}
func (m *mockTeamRepo) ListMembers(context.Context, uuid.UUID) ([]team.Member, error) {
	return nil, nil
}
func (m *mockTeamRepo) RemoveMember(context.Context, database.Querier, uuid.UUID, uuid.UUID) error {
	return nil
}
func (m *mockTeamRepo) UpdateRole(context.Context, database.Querier, uuid.UUID, uuid.UUID, string) error {
	return nil
}
func (m *mockTeamRepo) CountOwners(context.Context, uuid.UUID) (int, error) { return 0, nil }

func TestMentionedMembers_ResolvesTeamMembers(t *testing.T) {
	teamID := uuid.New()
	alice := user.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	bob := user.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	users := map[string]user.User{"alice": alice, "bob": bob}

	userRepo := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, username string) (*user.User, error) {
			u, ok := users[username]
			if !ok {
				return nil, user.ErrUserNotFound
			}
			return &u, nil
		},
	}
	teamRepo := &mockTeamRepo{
		getMembershipFn: func(_ context.Context, tid, _ uuid.UUID) (*team.Membership, error) {
			require.Equal(t, teamID, tid)
			return &team.Membership{TeamID: tid, Role: perm.RoleMember}, nil
		},
	}

	r := mention.NewResolver(userRepo, teamRepo)

	members, err := r.MentionedMembers(context.Background(), "@alice @bob take a look", teamID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, alice.ID, members[0].ID)
	assert.Equal(t, bob.ID, members[1].ID)
}

func TestMentionedMembers_UnknownUsernameIgnored(t *testing.T) {
	userRepo := &mockUserRepo{
		getByUsernameFn: func(context.Context, string) (*user.User, error) {
			return nil, user.ErrUserNotFound
		},
	}
	teamRepo := &mockTeamRepo{
		getMembershipFn: func(context.Context, uuid.UUID, uuid.UUID) (*team.Membership, error) {
			t.Fatal("membership should not be checked for unknown users")
			return nil, nil
		},
	}

	r := mention.NewResolver(userRepo, teamRepo)

	members, err := r.MentionedMembers(context.Background(), "@ghost hello", uuid.New())
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMentionedMembers_NonMemberIgnored(t *testing.T) {
	outsider := user.User{ID: uuid.New(), Username: "outsider"}

	userRepo := &mockUserRepo{
		getByUsernameFn: func(context.Context, string) (*user.User, error) {
			return &outsider, nil
		},
	}
	teamRepo := &mockTeamRepo{
		getMembershipFn: func(context.Context, uuid.UUID, uuid.UUID) (*team.Membership, error) {
			return nil, team.ErrMembershipNotFound
		},
	}

	r := mention.NewResolver(userRepo, teamRepo)

	members, err := r.MentionedMembers(context.Background(), "@outsider hi", uuid.New())
	require.NoError(t, err)
	assert.Empty(t, members, "users outside the team should be dropped silently")
}

func TestMentionedMembers_CaseSensitiveMatch(t *testing.T) {
	var lookups []string
	userRepo := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, username string) (*user.User, error) {
			lookups = append(lookups, username)
			return nil, user.ErrUserNotFound
		},
	}
	teamRepo := &mockTeamRepo{
		getMembershipFn: func(context.Context, uuid.UUID, uuid.UUID) (*team.Membership, error) {
			return nil, team.ErrMembershipNotFound
		},
	}

	r := mention.NewResolver(userRepo, teamRepo)

	_, err := r.MentionedMembers(context.Background(), "hi @Alice", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, lookups, "lookup must use the exact token, not a lowercased form")
}
