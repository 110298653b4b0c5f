package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portalhq/portal/internal/database"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new team record using the given querier.
func (r *PostgresRepository) Create(ctx context.Context, q database.Querier, t *Team) error {
	query := `
		INSERT INTO teams (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := q.QueryRow(ctx, query, t.Name, t.Description, t.CreatedBy).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, name, description, created_by, created_at
		FROM teams
		WHERE id = $1`

	var t Team
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &t, nil
}

// ListForUser retrieves all teams where the user holds a membership, ordered
// by creation time.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Team, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_by, t.created_at
		FROM teams t
		JOIN memberships m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	if teams == nil {
		teams = []Team{}
	}

	return teams, nil
}

// Update changes a team's name and description.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, name, description string) (*Team, error) {
	query := `
		UPDATE teams
		SET name = $2, description = $3
		WHERE id = $1
		RETURNING id, name, description, created_by, created_at`

	var t Team
	err := r.pool.QueryRow(ctx, query, id, name, description).
		Scan(&t.ID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("updating team: %w", err)
	}

	return &t, nil
}

// Delete removes a team by its UUID. Tasks, memberships, comments and
// activity entries cascade in the database.
func (r *PostgresRepository) Delete(ctx context.Context, q database.Querier, id uuid.UUID) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// AddMember inserts a new membership record using the given querier.
func (r *PostgresRepository) AddMember(ctx context.Context, q database.Querier, m *Membership) error {
	query := `
		INSERT INTO memberships (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at`

	err := q.QueryRow(ctx, query, m.TeamID, m.UserID, m.Role).Scan(&m.ID, &m.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateMembership
		}
		return fmt.Errorf("inserting membership: %w", err)
	}

	return nil
}

// GetMembership retrieves the membership of a user in a team.
func (r *PostgresRepository) GetMembership(ctx context.Context, teamID, userID uuid.UUID) (*Membership, error) {
	query := `
		SELECT id, team_id, user_id, role, joined_at
		FROM memberships
		WHERE team_id = $1 AND user_id = $2`

	var m Membership
	err := r.pool.QueryRow(ctx, query, teamID, userID).
		Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("querying membership: %w", err)
	}

	return &m, nil
}

// ListMembers retrieves all members of a team with usernames, ordered by join time.
func (r *PostgresRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]Member, error) {
	query := `
		SELECT m.id, m.team_id, m.user_id, m.role, m.joined_at, u.username
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.joined_at ASC`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt, &m.Username)
		if err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	if members == nil {
		members = []Member{}
	}

	return members, nil
}

// RemoveMember deletes a membership record using the given querier.
func (r *PostgresRepository) RemoveMember(ctx context.Context, q database.Querier, teamID, userID uuid.UUID) error {
	query := `DELETE FROM memberships WHERE team_id = $1 AND user_id = $2`

	result, err := q.Exec(ctx, query, teamID, userID)
	if err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// UpdateRole changes a member's role using the given querier.
func (r *PostgresRepository) UpdateRole(ctx context.Context, q database.Querier, teamID, userID uuid.UUID, role string) error {
	query := `UPDATE memberships SET role = $3 WHERE team_id = $1 AND user_id = $2`

	result, err := q.Exec(ctx, query, teamID, userID, role)
	if err != nil {
		return fmt.Errorf("updating membership role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// CountOwners returns the number of OWNER memberships in a team.
func (r *PostgresRepository) CountOwners(ctx context.Context, teamID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM memberships WHERE team_id = $1 AND role = 'OWNER'`

	var count int
	if err := r.pool.QueryRow(ctx, query, teamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting owners: %w", err)
	}

	return count, nil
}
