package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	cameramodels "trafficwatch/internal/camera/models"
	identity "trafficwatch/internal/identity/models"
	"trafficwatch/internal/policy"
	"trafficwatch/internal/violation/metrics"
	"trafficwatch/internal/violation/models"
	"trafficwatch/internal/violation/store/violation"
	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
	"trafficwatch/pkg/platform/audit"
	"trafficwatch/pkg/platform/sentinel"
	"trafficwatch/pkg/requestcontext"
)

// maxCodeAttempts bounds retries when a generated violation code collides
// with an existing record.
const maxCodeAttempts = 3

// bulkParallelism bounds concurrent store writes during quick-process.
const bulkParallelism = 4

var tracer = otel.Tracer("trafficwatch/internal/violation/service")

type ViolationStore interface {
	Create(ctx context.Context, v *models.Violation) error
	FindByID(ctx context.Context, violationID id.ViolationID) (*models.Violation, error)
	FindByCode(ctx context.Context, code string) (*models.Violation, error)
	Execute(ctx context.Context, violationID id.ViolationID, validate func(*models.Violation) error, mutate func(*models.Violation)) (*models.Violation, error)
	List(ctx context.Context, filter violation.Filter, skip, limit int) ([]*models.Violation, error)
	ListByPlate(ctx context.Context, plateFragment string) ([]*models.Violation, error)
	ListByReporter(ctx context.Context, reporter id.UserID, status *models.Status, skip, limit int) ([]*models.Violation, error)
	Count(ctx context.Context, status *models.Status, since time.Time) (int, error)
	CountProcessedBy(ctx context.Context, officerID id.UserID, since time.Time) (int, error)
	CountByCamera(ctx context.Context, cameraID id.CameraID, since time.Time) (int, error)
	CountByReporter(ctx context.Context, reporter id.UserID, status *models.Status) (int, error)
	CountInWindow(ctx context.Context, from, to time.Time) (int, error)
}

type UserReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*identity.User, error)
	List(ctx context.Context, role *identity.Role, activeOnly bool) ([]*identity.User, error)
	CountByRole(ctx context.Context) (map[identity.Role]int, error)
}

type CameraReader interface {
	FindByID(ctx context.Context, cameraID id.CameraID) (*cameramodels.Camera, error)
	List(ctx context.Context, status *cameramodels.CameraStatus, cameraType string) ([]*cameramodels.Camera, error)
	Statistics(ctx context.Context) (cameramodels.Statistics, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service orchestrates the violation lifecycle: recording, review decisions,
// and reporting queries.
type Service struct {
	violations     ViolationStore
	users          UserReader
	cameras        CameraReader
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(violations ViolationStore, users UserReader, cameras CameraReader, opts ...Option) *Service {
	s := &Service{violations: violations, users: users, cameras: cameras}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest carries the violation fields shared by both sources.
type CreateRequest struct {
	LicensePlate  string    `json:"license_plate"`
	ViolationType string    `json:"violation_type"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location"`
	ViolationTime time.Time `json:"violation_time"`
	FineAmount    float64   `json:"fine_amount,omitempty"`
	EvidenceURLs  []string  `json:"evidence_urls,omitempty"`
}

// Create records a camera-detected violation. The camera must be registered.
func (s *Service) Create(ctx context.Context, actor identity.Identity, cameraID id.CameraID, req CreateRequest) (*models.Violation, error) {
	ctx, span := tracer.Start(ctx, "violation.Create")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpCreateCameraViolation); err != nil {
		return nil, err
	}

	if _, err := s.cameras.FindByID(ctx, cameraID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "unknown camera")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve camera")
	}

	v, err := s.persistWithCode(ctx, func(code string) (*models.Violation, error) {
		return models.NewViolation(
			id.ViolationID(uuid.New()), code,
			req.LicensePlate, req.ViolationType, req.Description, req.Location,
			req.ViolationTime, req.FineAmount,
			models.SourceCamera, &cameraID, nil, req.EvidenceURLs,
			requestcontext.Now(ctx),
		)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCreated(string(models.SourceCamera))
	s.logAudit(ctx, actor, string(audit.EventViolationCreated), v.Code, "")
	return v, nil
}

// Report files a citizen report. The reporter is always the acting identity
// and the fine is set during processing, never at filing.
func (s *Service) Report(ctx context.Context, actor identity.Identity, req CreateRequest) (*models.Violation, error) {
	ctx, span := tracer.Start(ctx, "violation.Report")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpReportViolation); err != nil {
		return nil, err
	}

	reporter := actor.ID
	v, err := s.persistWithCode(ctx, func(code string) (*models.Violation, error) {
		return models.NewViolation(
			id.ViolationID(uuid.New()), code,
			req.LicensePlate, req.ViolationType, req.Description, req.Location,
			req.ViolationTime, 0,
			models.SourceReport, nil, &reporter, req.EvidenceURLs,
			requestcontext.Now(ctx),
		)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCreated(string(models.SourceReport))
	s.logAudit(ctx, actor, string(audit.EventViolationReported), v.Code, "")
	return v, nil
}

// persistWithCode builds the record with a fresh code and retries on code
// collision. Collisions are rare (8 random hex chars per day) so a small
// bound is enough; running out surfaces as a conflict.
func (s *Service) persistWithCode(ctx context.Context, build func(code string) (*models.Violation, error)) (*models.Violation, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		v, err := build(models.GenerateCode(requestcontext.Now(ctx)))
		if err != nil {
			return nil, err
		}

		err = s.violations.Create(ctx, v)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementCodeCollision()
			if s.logger != nil {
				s.logger.WarnContext(ctx, "violation code collision, regenerating", "code", v.Code, "attempt", attempt+1)
			}
			continue
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create violation")
	}
	return nil, dErrors.New(dErrors.CodeConflict, "could not allocate a unique violation code")
}

// Get returns one violation. Reviewers read any record; a citizen reads only
// their own reports. A missing record is not-found for everyone, so access
// errors never reveal whether an id exists.
func (s *Service) Get(ctx context.Context, actor identity.Identity, violationID id.ViolationID) (*models.Violation, error) {
	v, err := s.violations.FindByID(ctx, violationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "violation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load violation")
	}
	if err := policy.AuthorizeReadViolation(actor, v); err != nil {
		return nil, err
	}
	return v, nil
}

// LookupByPlate is the public plate lookup: anyone can check a plate without
// authenticating. Matching is a case-insensitive substring over the plate.
func (s *Service) LookupByPlate(ctx context.Context, plateFragment string) ([]*models.Violation, error) {
	if plateFragment == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "license plate cannot be empty")
	}
	vs, err := s.violations.ListByPlate(ctx, plateFragment)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search by plate")
	}
	return vs, nil
}

// LookupByCode is the public exact-code lookup.
func (s *Service) LookupByCode(ctx context.Context, code string) (*models.Violation, error) {
	if code == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "violation code cannot be empty")
	}
	v, err := s.violations.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "violation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load violation")
	}
	return v, nil
}

// Process decides a pending violation. The read and the guarded write happen
// inside the store's Execute, so when two reviewers race, the first decision
// wins and the loser sees an invariant violation.
func (s *Service) Process(ctx context.Context, actor identity.Identity, violationID id.ViolationID, update models.ProcessUpdate) (*models.Violation, error) {
	ctx, span := tracer.Start(ctx, "violation.Process")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpProcessViolation); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	v, err := s.violations.Execute(ctx, violationID,
		func(stored *models.Violation) error { return stored.CanProcess(update) },
		func(stored *models.Violation) { stored.ApplyProcess(update, actor.ID, now) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "violation not found")
		}
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to process violation")
	}

	s.metrics.IncrementDecision(string(v.Status))
	event := audit.EventViolationProcessed
	if v.Status == models.StatusRejected {
		event = audit.EventViolationRejected
	}
	s.logAudit(ctx, actor, string(event), v.Code, v.ProcessingNotes)
	return v, nil
}

// Settle records the post-decision outcome of a processed violation: the fine
// was paid or the decision was appealed. Reviewer only; both states are
// terminal.
func (s *Service) Settle(ctx context.Context, actor identity.Identity, violationID id.ViolationID, next models.Status) (*models.Violation, error) {
	ctx, span := tracer.Start(ctx, "violation.Settle")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpProcessViolation); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	v, err := s.violations.Execute(ctx, violationID,
		func(stored *models.Violation) error { return stored.CanSettle(next) },
		func(stored *models.Violation) { stored.ApplySettle(next, now) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "violation not found")
		}
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to settle violation")
	}

	s.metrics.IncrementDecision(string(v.Status))
	event := audit.EventViolationPaid
	if v.Status == models.StatusAppealed {
		event = audit.EventViolationAppealed
	}
	s.logAudit(ctx, actor, string(event), v.Code, "")
	return v, nil
}

// BulkFailure describes one violation that could not be decided during a
// quick-process run.
type BulkFailure struct {
	ViolationID id.ViolationID `json:"violation_id"`
	Reason      string         `json:"reason"`
}

// BulkResult reports the outcome of a quick-process run. A run never fails
// as a whole; each failed record is listed with its reason.
type BulkResult struct {
	Processed []*models.Violation `json:"processed"`
	Failed    []BulkFailure       `json:"failed"`
}

// QuickProcess applies one decision to many violations. Records that are
// missing or no longer pending fail individually; the rest proceed.
func (s *Service) QuickProcess(ctx context.Context, actor identity.Identity, violationIDs []id.ViolationID, update models.ProcessUpdate) (*BulkResult, error) {
	ctx, span := tracer.Start(ctx, "violation.QuickProcess")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpProcessViolation); err != nil {
		return nil, err
	}
	if len(violationIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "no violation ids given")
	}
	if decision := update.Decision(); decision != models.StatusProcessed && decision != models.StatusRejected {
		return nil, dErrors.New(dErrors.CodeValidation, "decision must be processed or rejected")
	}

	now := requestcontext.Now(ctx)
	processed := make([]*models.Violation, len(violationIDs))
	failed := make([]*BulkFailure, len(violationIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkParallelism)
	for i, violationID := range violationIDs {
		i, violationID := i, violationID
		g.Go(func() error {
			v, err := s.violations.Execute(gctx, violationID,
				func(stored *models.Violation) error { return stored.CanProcess(update) },
				func(stored *models.Violation) { stored.ApplyProcess(update, actor.ID, now) },
			)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, sentinel.ErrNotFound):
				failed[i] = &BulkFailure{ViolationID: violationID, Reason: "violation not found"}
			case err != nil:
				failed[i] = &BulkFailure{ViolationID: violationID, Reason: err.Error()}
			default:
				processed[i] = v
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &BulkResult{}
	for i := range violationIDs {
		if processed[i] != nil {
			result.Processed = append(result.Processed, processed[i])
			s.metrics.IncrementDecision(string(processed[i].Status))
		}
		if failed[i] != nil {
			result.Failed = append(result.Failed, *failed[i])
		}
	}

	event := audit.EventViolationProcessed
	if update.Decision() == models.StatusRejected {
		event = audit.EventViolationRejected
	}
	for _, v := range result.Processed {
		s.logAudit(ctx, actor, string(event), v.Code, "bulk")
	}
	return result, nil
}

func (s *Service) logAudit(ctx context.Context, actor identity.Identity, event, subject, reason string) {
	attributes := []any{"event", event, "subject", subject, "log_type", "audit"}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		attributes = append(attributes, "trace_id", sc.TraceID().String())
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, attributes...)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: time.Now(),
		ActorID:   actor.ID,
		Subject:   subject,
		Action:    event,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
}
