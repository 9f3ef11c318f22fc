package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"trafficwatch/internal/camera/models"
	identity "trafficwatch/internal/identity/models"
	"trafficwatch/internal/policy"
	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
	"trafficwatch/pkg/platform/audit"
	"trafficwatch/pkg/platform/sentinel"
	"trafficwatch/pkg/requestcontext"
)

type CameraStore interface {
	CreateIfCodeAvailable(ctx context.Context, c *models.Camera) error
	FindByID(ctx context.Context, cameraID id.CameraID) (*models.Camera, error)
	FindByCode(ctx context.Context, code string) (*models.Camera, error)
	List(ctx context.Context, status *models.CameraStatus, cameraType string) ([]*models.Camera, error)
	Execute(ctx context.Context, cameraID id.CameraID, validate func(*models.Camera) error, mutate func(*models.Camera)) (*models.Camera, error)
	Delete(ctx context.Context, cameraID id.CameraID) error
	Statistics(ctx context.Context) (models.Statistics, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service administers the camera registry.
type Service struct {
	cameras        CameraStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

// New constructs a Service.
func New(cameras CameraStore, opts ...Option) *Service {
	s := &Service{cameras: cameras}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRequest carries the fields for a new camera.
type RegisterRequest struct {
	Code       string `json:"camera_code"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	CameraType string `json:"camera_type"`
}

// Register adds a camera to the registry. Authority only. Codes are unique;
// a taken code surfaces as a conflict.
func (s *Service) Register(ctx context.Context, actor identity.Identity, req RegisterRequest) (*models.Camera, error) {
	if err := policy.Authorize(actor, policy.OpManageCameras); err != nil {
		return nil, err
	}

	camera, err := models.NewCamera(
		id.CameraID(uuid.New()),
		req.Code, req.Name, req.Location, req.CameraType,
		requestcontext.Now(ctx),
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.cameras.CreateIfCodeAvailable(ctx, camera); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "camera code must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register camera")
	}

	s.logAudit(ctx, actor, string(audit.EventCameraRegistered), camera.Code)
	return camera, nil
}

// Get returns one camera by id. Any reviewer or the authority may read the
// registry.
func (s *Service) Get(ctx context.Context, actor identity.Identity, cameraID id.CameraID) (*models.Camera, error) {
	if err := policy.Authorize(actor, policy.OpReadAnyViolation); err != nil {
		return nil, err
	}
	camera, err := s.cameras.FindByID(ctx, cameraID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "camera not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load camera")
	}
	return camera, nil
}

// List returns cameras filtered by status and type.
func (s *Service) List(ctx context.Context, actor identity.Identity, status *models.CameraStatus, cameraType string) ([]*models.Camera, error) {
	if err := policy.Authorize(actor, policy.OpReadAnyViolation); err != nil {
		return nil, err
	}
	cameras, err := s.cameras.List(ctx, status, cameraType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cameras")
	}
	return cameras, nil
}

// Update patches the mutable camera fields. Authority only.
func (s *Service) Update(ctx context.Context, actor identity.Identity, cameraID id.CameraID, patch models.CameraUpdate) (*models.Camera, error) {
	if err := policy.Authorize(actor, policy.OpManageCameras); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	camera, err := s.cameras.Execute(ctx, cameraID,
		func(c *models.Camera) error { return nil },
		func(c *models.Camera) { c.Apply(patch, now) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "camera not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update camera")
	}

	s.logAudit(ctx, actor, string(audit.EventCameraUpdated), camera.Code)
	return camera, nil
}

// Delete removes a camera from the registry. Authority only. Existing
// violations keep the dangling camera id.
func (s *Service) Delete(ctx context.Context, actor identity.Identity, cameraID id.CameraID) error {
	if err := policy.Authorize(actor, policy.OpManageCameras); err != nil {
		return err
	}
	if err := s.cameras.Delete(ctx, cameraID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "camera not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete camera")
	}
	s.logAudit(ctx, actor, string(audit.EventCameraDeleted), cameraID.String())
	return nil
}

// Statistics aggregates the registry by status.
func (s *Service) Statistics(ctx context.Context, actor identity.Identity) (models.Statistics, error) {
	if err := policy.Authorize(actor, policy.OpReadAnyViolation); err != nil {
		return models.Statistics{}, err
	}
	stats, err := s.cameras.Statistics(ctx)
	if err != nil {
		return models.Statistics{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate cameras")
	}
	return stats, nil
}

func (s *Service) logAudit(ctx context.Context, actor identity.Identity, event, subject string) {
	attributes := []any{"event", event, "subject", subject, "log_type", "audit"}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
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
		RequestID: requestcontext.RequestID(ctx),
	})
}
