package violation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"trafficwatch/internal/violation/models"
	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// PostgresStore persists violations in PostgreSQL.
//
// The domain-facing evidence list is encoded as a comma-joined text column;
// splitting and joining stays inside this store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed violation store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const violationColumns = `
	id, violation_code, license_plate, violation_type, description, location,
	violation_time, fine_amount, status, source, camera_id, reported_by,
	evidence_urls, processed_by, processed_at, processing_notes,
	created_at, updated_at`

// Create persists a new violation. Returns sentinel.ErrConflict when the
// violation code (or id) is already taken.
func (s *PostgresStore) Create(ctx context.Context, v *models.Violation) error {
	query := `
		INSERT INTO violations (` + violationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(v.ID),
		v.Code,
		v.LicensePlate,
		v.ViolationType,
		v.Description,
		v.Location,
		v.ViolationTime,
		v.FineAmount,
		string(v.Status),
		string(v.Source),
		cameraIDValue(v.CameraID),
		userIDValue(v.ReportedBy),
		joinEvidence(v.EvidenceURLs),
		userIDValue(v.ProcessedBy),
		v.ProcessedAt,
		v.ProcessingNotes,
		v.CreatedAt,
		v.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert violation: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert violation: %w", err)
	}
	return nil
}

// FindByID returns the violation or sentinel.ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, violationID id.ViolationID) (*models.Violation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+violationColumns+` FROM violations WHERE id = $1`,
		uuid.UUID(violationID),
	)
	return scanViolation(row)
}

// FindByCode returns the violation with the exact code or sentinel.ErrNotFound.
func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.Violation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+violationColumns+` FROM violations WHERE violation_code = $1`,
		code,
	)
	return scanViolation(row)
}

// Execute loads the record with SELECT ... FOR UPDATE, runs validate then
// mutate, and writes the result back inside one transaction. A racing caller
// blocks on the row lock and then validates against the committed state, so
// the second of two concurrent decisions fails rather than overwriting.
func (s *PostgresStore) Execute(
	ctx context.Context,
	violationID id.ViolationID,
	validate func(*models.Violation) error,
	mutate func(*models.Violation),
) (*models.Violation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin violation update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+violationColumns+` FROM violations WHERE id = $1 FOR UPDATE`,
		uuid.UUID(violationID),
	)
	v, err := scanViolation(row)
	if err != nil {
		return nil, err
	}

	if err := validate(v); err != nil {
		return nil, err
	}
	mutate(v)

	_, err = tx.ExecContext(ctx, `
		UPDATE violations SET
			fine_amount = $2, status = $3, processed_by = $4,
			processed_at = $5, processing_notes = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(v.ID),
		v.FineAmount,
		string(v.Status),
		userIDValue(v.ProcessedBy),
		v.ProcessedAt,
		v.ProcessingNotes,
		v.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update violation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit violation update: %w", err)
	}
	return v, nil
}

// List returns violations matching the filter, newest created first.
// The id tiebreak keeps pagination stable when timestamps collide.
func (s *PostgresStore) List(ctx context.Context, filter Filter, skip, limit int) ([]*models.Violation, error) {
	where, args := filterClauses(filter)
	query := `SELECT ` + violationColumns + ` FROM violations` + where +
		` ORDER BY created_at DESC, id LIMIT $` + fmt.Sprint(len(args)+1) +
		` OFFSET $` + fmt.Sprint(len(args)+2)
	args = append(args, limitValue(limit), skip)

	return s.queryViolations(ctx, query, args...)
}

// ListByPlate returns all violations whose plate contains the fragment,
// most recent violation time first.
func (s *PostgresStore) ListByPlate(ctx context.Context, plateFragment string) ([]*models.Violation, error) {
	query := `SELECT ` + violationColumns + ` FROM violations
		WHERE license_plate ILIKE $1
		ORDER BY violation_time DESC, id`
	return s.queryViolations(ctx, query, "%"+plateFragment+"%")
}

// ListByReporter returns a citizen's own reports, newest created first.
func (s *PostgresStore) ListByReporter(ctx context.Context, reporter id.UserID, status *models.Status, skip, limit int) ([]*models.Violation, error) {
	args := []any{uuid.UUID(reporter)}
	query := `SELECT ` + violationColumns + ` FROM violations WHERE reported_by = $1`
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC, id LIMIT $` + fmt.Sprint(len(args)+1) +
		` OFFSET $` + fmt.Sprint(len(args)+2)
	args = append(args, limitValue(limit), skip)

	return s.queryViolations(ctx, query, args...)
}

// Count returns the number of records created at or after since, optionally
// restricted to one status.
func (s *PostgresStore) Count(ctx context.Context, status *models.Status, since time.Time) (int, error) {
	var (
		clauses []string
		args    []any
	)
	if status != nil {
		args = append(args, string(*status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if !since.IsZero() {
		args = append(args, since)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	query := `SELECT COUNT(*) FROM violations`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	return s.countQuery(ctx, query, args...)
}

// CountProcessedBy returns the number of decisions an officer stamped at or
// after since.
func (s *PostgresStore) CountProcessedBy(ctx context.Context, officerID id.UserID, since time.Time) (int, error) {
	return s.countQuery(ctx,
		`SELECT COUNT(*) FROM violations WHERE processed_by = $1 AND processed_at >= $2`,
		uuid.UUID(officerID), since,
	)
}

// CountByCamera returns the number of violations a camera detected with
// violation time at or after since.
func (s *PostgresStore) CountByCamera(ctx context.Context, cameraID id.CameraID, since time.Time) (int, error) {
	return s.countQuery(ctx,
		`SELECT COUNT(*) FROM violations WHERE camera_id = $1 AND violation_time >= $2`,
		uuid.UUID(cameraID), since,
	)
}

// CountByReporter returns how many reports a citizen filed, optionally
// restricted to one status.
func (s *PostgresStore) CountByReporter(ctx context.Context, reporter id.UserID, status *models.Status) (int, error) {
	if status != nil {
		return s.countQuery(ctx,
			`SELECT COUNT(*) FROM violations WHERE reported_by = $1 AND status = $2`,
			uuid.UUID(reporter), string(*status),
		)
	}
	return s.countQuery(ctx,
		`SELECT COUNT(*) FROM violations WHERE reported_by = $1`,
		uuid.UUID(reporter),
	)
}

// CountInWindow returns how many violations occurred in [from, to).
func (s *PostgresStore) CountInWindow(ctx context.Context, from, to time.Time) (int, error) {
	return s.countQuery(ctx,
		`SELECT COUNT(*) FROM violations WHERE violation_time >= $1 AND violation_time < $2`,
		from, to,
	)
}

func (s *PostgresStore) countQuery(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count violations: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) queryViolations(ctx context.Context, query string, args ...any) ([]*models.Violation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query violations: %w", err)
	}
	defer rows.Close()

	var out []*models.Violation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate violations: %w", err)
	}
	return out, nil
}

func filterClauses(filter Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.LicensePlate != "" {
		args = append(args, "%"+filter.LicensePlate+"%")
		clauses = append(clauses, fmt.Sprintf("license_plate ILIKE $%d", len(args)))
	}
	if filter.ViolationType != "" {
		args = append(args, "%"+filter.ViolationType+"%")
		clauses = append(clauses, fmt.Sprintf("violation_type ILIKE $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("violation_time >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, fmt.Sprintf("violation_time <= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanViolation(row rowScanner) (*models.Violation, error) {
	var (
		v             models.Violation
		rawID         uuid.UUID
		status        string
		source        string
		cameraID      *uuid.UUID
		reportedBy    *uuid.UUID
		processedBy   *uuid.UUID
		evidenceBlob  sql.NullString
		description   sql.NullString
		processedNote sql.NullString
	)
	err := row.Scan(
		&rawID, &v.Code, &v.LicensePlate, &v.ViolationType, &description,
		&v.Location, &v.ViolationTime, &v.FineAmount, &status, &source,
		&cameraID, &reportedBy, &evidenceBlob, &processedBy, &v.ProcessedAt,
		&processedNote, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan violation: %w", err)
	}

	v.ID = id.ViolationID(rawID)
	v.Status = models.Status(status)
	v.Source = models.Source(source)
	v.Description = description.String
	v.ProcessingNotes = processedNote.String
	if cameraID != nil {
		cid := id.CameraID(*cameraID)
		v.CameraID = &cid
	}
	if reportedBy != nil {
		uid := id.UserID(*reportedBy)
		v.ReportedBy = &uid
	}
	if processedBy != nil {
		uid := id.UserID(*processedBy)
		v.ProcessedBy = &uid
	}
	v.EvidenceURLs = splitEvidence(evidenceBlob.String)
	return &v, nil
}

func cameraIDValue(cameraID *id.CameraID) any {
	if cameraID == nil {
		return nil
	}
	return uuid.UUID(*cameraID)
}

func userIDValue(userID *id.UserID) any {
	if userID == nil {
		return nil
	}
	return uuid.UUID(*userID)
}

func joinEvidence(urls []string) string {
	return strings.Join(urls, ",")
}

func splitEvidence(blob string) []string {
	if blob == "" {
		return nil
	}
	return strings.Split(blob, ",")
}

func limitValue(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
