package perm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portalhq/portal/internal/database"
)

// PostgresStore implements Store on the object_permissions table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &PostgresStore{pool: pool}
}

// Grant inserts one grant row. Granting an already-held permission is a no-op.
func (s *PostgresStore) Grant(ctx context.Context, q database.Querier, userID uuid.UUID, objectType string, objectID uuid.UUID, permission string) error {
	query := `
		INSERT INTO object_permissions (user_id, object_type, object_id, permission)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`

	if _, err := q.Exec(ctx, query, userID, objectType, objectID, permission); err != nil {
		return fmt.Errorf("granting %s on %s: %w", permission, objectType, err)
	}

	return nil
}

// Revoke deletes one grant row. Revoking a permission that was never granted
// is a no-op.
func (s *PostgresStore) Revoke(ctx context.Context, q database.Querier, userID uuid.UUID, objectType string, objectID uuid.UUID, permission string) error {
	query := `
		DELETE FROM object_permissions
		WHERE user_id = $1 AND object_type = $2 AND object_id = $3 AND permission = $4`

	if _, err := q.Exec(ctx, query, userID, objectType, objectID, permission); err != nil {
		return fmt.Errorf("revoking %s on %s: %w", permission, objectType, err)
	}

	return nil
}

// Check reports whether the user holds the permission on the object.
func (s *PostgresStore) Check(ctx context.Context, userID uuid.UUID, objectType string, objectID uuid.UUID, permission string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM object_permissions
			WHERE user_id = $1 AND object_type = $2 AND object_id = $3 AND permission = $4
		)`

	var granted bool
	err := s.pool.QueryRow(ctx, query, userID, objectType, objectID, permission).Scan(&granted)
	if err != nil {
		return false, fmt.Errorf("checking %s on %s: %w", permission, objectType, err)
	}

	return granted, nil
}

// RevokeMemberScope removes the user's grants on the team and on all of the
// team's tasks in one statement.
func (s *PostgresStore) RevokeMemberScope(ctx context.Context, q database.Querier, userID, teamID uuid.UUID) error {
	query := `
		DELETE FROM object_permissions
		WHERE user_id = $1
		  AND (
			(object_type = 'team' AND object_id = $2)
			OR (object_type = 'task' AND object_id IN (SELECT id FROM tasks WHERE team_id = $2))
		  )`

	if _, err := q.Exec(ctx, query, userID, teamID); err != nil {
		return fmt.Errorf("revoking member grants: %w", err)
	}

	return nil
}

// RevokeObject removes all users' grants on one object.
func (s *PostgresStore) RevokeObject(ctx context.Context, q database.Querier, objectType string, objectID uuid.UUID) error {
	query := `
		DELETE FROM object_permissions
		WHERE object_type = $1 AND object_id = $2`

	if _, err := q.Exec(ctx, query, objectType, objectID); err != nil {
		return fmt.Errorf("revoking grants on %s: %w", objectType, err)
	}

	return nil
}

// RevokeTeamScope removes all grants on the team and its tasks, for all users.
func (s *PostgresStore) RevokeTeamScope(ctx context.Context, q database.Querier, teamID uuid.UUID) error {
	query := `
		DELETE FROM object_permissions
		WHERE (object_type = 'team' AND object_id = $1)
		   OR (object_type = 'task' AND object_id IN (SELECT id FROM tasks WHERE team_id = $1))`

	if _, err := q.Exec(ctx, query, teamID); err != nil {
		return fmt.Errorf("revoking team grants: %w", err)
	}

	return nil
}
