package camera

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"trafficwatch/internal/camera/models"
	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/platform/sentinel"
)

const cameraColumns = "id, code, name, location, camera_type, status, created_at, updated_at"

const cameraUniqueViolation = "23505"

// PostgresStore persists cameras in the cameras table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateIfCodeAvailable(ctx context.Context, c *models.Camera) error {
	query := `
		INSERT INTO cameras (` + cameraColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Code, c.Name, c.Location, c.CameraType, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == cameraUniqueViolation {
			return fmt.Errorf("camera code %q: %w", c.Code, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert camera: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, cameraID id.CameraID) (*models.Camera, error) {
	query := `SELECT ` + cameraColumns + ` FROM cameras WHERE id = $1`
	return scanCamera(s.db.QueryRowContext(ctx, query, cameraID))
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.Camera, error) {
	query := `SELECT ` + cameraColumns + ` FROM cameras WHERE LOWER(code) = LOWER($1)`
	return scanCamera(s.db.QueryRowContext(ctx, query, code))
}

func (s *PostgresStore) List(ctx context.Context, status *models.CameraStatus, cameraType string) ([]*models.Camera, error) {
	query := `SELECT ` + cameraColumns + ` FROM cameras`
	var clauses []string
	var args []any
	if status != nil {
		args = append(args, *status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if cameraType != "" {
		args = append(args, cameraType)
		clauses = append(clauses, fmt.Sprintf("LOWER(camera_type) = LOWER($%d)", len(args)))
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
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	defer rows.Close()

	var out []*models.Camera
	for rows.Next() {
		c, err := scanCamera(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Execute locks the camera row, runs validate then mutate, and writes the
// mutable columns back inside the same transaction.
func (s *PostgresStore) Execute(
	ctx context.Context,
	cameraID id.CameraID,
	validate func(*models.Camera) error,
	mutate func(*models.Camera),
) (*models.Camera, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + cameraColumns + ` FROM cameras WHERE id = $1 FOR UPDATE`
	c, err := scanCamera(tx.QueryRowContext(ctx, query, cameraID))
	if err != nil {
		return nil, err
	}

	if err := validate(c); err != nil {
		return nil, err
	}
	mutate(c)

	update := `
		UPDATE cameras
		SET name = $2, location = $3, camera_type = $4, status = $5, updated_at = $6
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update,
		c.ID, c.Name, c.Location, c.CameraType, c.Status, c.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update camera: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) Delete(ctx context.Context, cameraID id.CameraID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cameras WHERE id = $1`, cameraID)
	if err != nil {
		return fmt.Errorf("delete camera: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete camera: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Statistics(ctx context.Context) (models.Statistics, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM cameras GROUP BY status`)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("camera statistics: %w", err)
	}
	defer rows.Close()

	var stats models.Statistics
	for rows.Next() {
		var status models.CameraStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return models.Statistics{}, fmt.Errorf("scan camera statistics: %w", err)
		}
		stats.Total += count
		switch status {
		case models.CameraStatusActive:
			stats.Active = count
		case models.CameraStatusInactive:
			stats.Inactive = count
		case models.CameraStatusMaintenance:
			stats.Maintenance = count
		}
	}
	return stats, rows.Err()
}

type cameraRowScanner interface {
	Scan(dest ...any) error
}

func scanCamera(row cameraRowScanner) (*models.Camera, error) {
	var c models.Camera
	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.Location, &c.CameraType, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan camera: %w", err)
	}
	return &c, nil
}
