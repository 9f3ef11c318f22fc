package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"trafficwatch/internal/identity/models"
	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `
	id, full_name, role, active, citizen_no, badge_number, department,
	created_at, updated_at`

// Create persists a new user. Returns sentinel.ErrConflict when the id is
// already taken.
func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(u.ID), u.FullName, string(u.Role), u.Active,
		u.CitizenNo, u.BadgeNumber, u.Department,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert user: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID returns the user or sentinel.ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		uuid.UUID(userID),
	)
	return scanUser(row)
}

// List returns users in creation order, optionally restricted to one role
// and to active accounts.
func (s *PostgresStore) List(ctx context.Context, role *models.Role, activeOnly bool) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var (
		args    []any
		clauses []string
	)
	if role != nil {
		args = append(args, string(*role))
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if activeOnly {
		clauses = append(clauses, "active")
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// CountByRole returns the number of users holding each role.
func (s *PostgresStore) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Role]int)
	for rows.Next() {
		var (
			role string
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan user count: %w", err)
		}
		counts[models.Role(role)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user counts: %w", err)
	}
	return counts, nil
}

// Execute loads the user with SELECT ... FOR UPDATE, runs validate then
// mutate, and writes the mutable fields back inside one transaction.
func (s *PostgresStore) Execute(
	ctx context.Context,
	userID id.UserID,
	validate func(*models.User) error,
	mutate func(*models.User),
) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin user update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`,
		uuid.UUID(userID),
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	if err := validate(u); err != nil {
		return nil, err
	}
	mutate(u)

	// Role is immutable; only account state and metadata are written back.
	_, err = tx.ExecContext(ctx, `
		UPDATE users SET
			full_name = $2, active = $3, citizen_no = $4,
			badge_number = $5, department = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(u.ID), u.FullName, u.Active,
		u.CitizenNo, u.BadgeNumber, u.Department, u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit user update: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u     models.User
		rawID uuid.UUID
		role  string
	)
	err := row.Scan(
		&rawID, &u.FullName, &role, &u.Active,
		&u.CitizenNo, &u.BadgeNumber, &u.Department,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.UserID(rawID)
	u.Role = models.Role(role)
	return &u, nil
}
