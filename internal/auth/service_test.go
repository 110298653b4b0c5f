package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/portalhq/portal/internal/auth"
	"github.com/portalhq/portal/internal/user"
)

const testBcryptCost = 4 // low cost for fast tests

type mockUserRepo struct {
	createFn       func(ctx context.Context, u *user.User) error
	findByPrefixFn func(ctx context.Context, prefix string) ([]user.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	u.ID = uuid.New()
	return nil
}

func (m *mockUserRepo) GetByID(context.Context, uuid.UUID) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) GetByUsername(context.Context, string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) FindByPrefix(ctx context.Context, prefix string) ([]user.User, error) {
	if m.findByPrefixFn != nil {
		return m.findByPrefixFn(ctx, prefix)
	}
	return nil, nil
}

func (m *mockUserRepo) List(context.Context) ([]user.User, error) { return nil, nil }

// --- GenerateKey Tests ---

func TestGenerateKey_Format(t *testing.T) {
	svc := auth.NewService(&mockUserRepo{}, testBcryptCost)

	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rawKey, "ptl_"), "raw key should start with ptl_")
	assert.Len(t, prefix, 8, "prefix should be 8 characters")
	assert.Equal(t, rawKey[:8], prefix, "prefix should be first 8 chars of raw key")
	assert.NotEmpty(t, hash, "hash should not be empty")

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawKey))
	assert.NoError(t, err, "hash should verify against raw key")
}

func TestGenerateKey_Uniqueness(t *testing.T) {
	svc := auth.NewService(&mockUserRepo{}, testBcryptCost)

	key1, _, _, err := svc.GenerateKey()
	require.NoError(t, err)

	key2, _, _, err := svc.GenerateKey()
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2, "generated keys should be unique")
}

// --- Register Tests ---

func TestRegister_StoresHashNotKey(t *testing.T) {
	var created *user.User
	repo := &mockUserRepo{
		createFn: func(_ context.Context, u *user.User) error {
			u.ID = uuid.New()
			created = u
			return nil
		},
	}
	svc := auth.NewService(repo, testBcryptCost)

	u, rawKey, err := svc.Register(context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotContains(t, created.ApiKeyHash, rawKey, "the raw key must never be persisted")
	assert.Equal(t, rawKey[:8], created.ApiKeyPrefix)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(context.Context, *user.User) error {
			return user.ErrDuplicateUsername
		},
	}
	svc := auth.NewService(repo, testBcryptCost)

	_, _, err := svc.Register(context.Background(), "alice", "alice@example.com")
	assert.ErrorIs(t, err, user.ErrDuplicateUsername)
}

// --- Authenticate Tests ---

func TestAuthenticate_ValidKey(t *testing.T) {
	svc := auth.NewService(&mockUserRepo{}, testBcryptCost)

	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	u := user.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		ApiKeyPrefix: prefix,
		ApiKeyHash:   hash,
	}

	repo := &mockUserRepo{
		findByPrefixFn: func(_ context.Context, p string) ([]user.User, error) {
			assert.Equal(t, prefix, p)
			return []user.User{u}, nil
		},
	}
	svc = auth.NewService(repo, testBcryptCost)

	identity, err := svc.Authenticate(context.Background(), rawKey)
	require.NoError(t, err)

	assert.Equal(t, u.ID, identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "alice@example.com", identity.Email)
}

func TestAuthenticate_WrongKeySamePrefix(t *testing.T) {
	svc := auth.NewService(&mockUserRepo{}, testBcryptCost)

	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	repo := &mockUserRepo{
		findByPrefixFn: func(context.Context, string) ([]user.User, error) {
			return []user.User{{ID: uuid.New(), ApiKeyPrefix: prefix, ApiKeyHash: hash}}, nil
		},
	}
	svc = auth.NewService(repo, testBcryptCost)

	// Same prefix, different tail: bcrypt comparison must reject it.
	forged := rawKey + "x"
	_, err = svc.Authenticate(context.Background(), forged)
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}

func TestAuthenticate_UnknownPrefix(t *testing.T) {
	repo := &mockUserRepo{
		findByPrefixFn: func(context.Context, string) ([]user.User, error) {
			return nil, nil
		},
	}
	svc := auth.NewService(repo, testBcryptCost)

	_, err := svc.Authenticate(context.Background(), "ptl_doesnotexist")
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}

func TestAuthenticate_TooShortKey(t *testing.T) {
	svc := auth.NewService(&mockUserRepo{}, testBcryptCost)

	_, err := svc.Authenticate(context.Background(), "short")
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}
