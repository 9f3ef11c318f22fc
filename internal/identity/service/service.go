package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"trafficwatch/internal/identity/cache"
	"trafficwatch/internal/identity/metrics"
	"trafficwatch/internal/identity/models"
	"trafficwatch/internal/jwt_token"
	"trafficwatch/internal/policy"
	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
	"trafficwatch/pkg/platform/audit"
	"trafficwatch/pkg/platform/sentinel"
	"trafficwatch/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	List(ctx context.Context, role *models.Role, activeOnly bool) ([]*models.User, error)
	CountByRole(ctx context.Context) (map[models.Role]int, error)
	Execute(ctx context.Context, userID id.UserID, validate func(*models.User) error, mutate func(*models.User)) (*models.User, error)
}

type TokenValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

type IdentityCache interface {
	Get(ctx context.Context, userID id.UserID) (*models.Identity, error)
	Set(ctx context.Context, ident *models.Identity) error
	Invalidate(ctx context.Context, userID id.UserID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service resolves tokens into identities and administers user accounts.
type Service struct {
	users          UserStore
	tokens         TokenValidator
	cache          IdentityCache
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

func WithIdentityCache(c IdentityCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(users UserStore, tokens TokenValidator, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve validates the bearer token and returns the acting identity.
//
// A missing, malformed, or expired token is unauthorized; a token for a
// deactivated account is forbidden. The resolved identity is cached for a
// short TTL, so deactivation propagates within the cache window.
func (s *Service) Resolve(ctx context.Context, token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return models.Identity{}, err
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return models.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userID); err == nil {
			s.metrics.IncrementCacheHit()
			return s.checkActive(*cached)
		} else if !errors.Is(err, cache.ErrMiss) && s.logger != nil {
			s.logger.WarnContext(ctx, "identity cache read failed", "error", err)
		}
		s.metrics.IncrementCacheMiss()
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "unknown account")
		}
		return models.Identity{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve identity")
	}

	ident := user.Identity()
	if s.cache != nil {
		if err := s.cache.Set(ctx, &ident); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "identity cache write failed", "error", err)
		}
	}
	return s.checkActive(ident)
}

func (s *Service) checkActive(ident models.Identity) (models.Identity, error) {
	if !ident.Active {
		return models.Identity{}, dErrors.New(dErrors.CodeForbidden, "account inactive")
	}
	return ident, nil
}

// CreateUserRequest carries the fields for a new account. Role is fixed at
// creation.
type CreateUserRequest struct {
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	CitizenNo   string `json:"citizen_no,omitempty"`
	BadgeNumber string `json:"badge_number,omitempty"`
	Department  string `json:"department,omitempty"`
}

// CreateUser registers a new account. Authority only.
func (s *Service) CreateUser(ctx context.Context, actor models.Identity, req CreateUserRequest) (*models.User, error) {
	if err := policy.Authorize(actor, policy.OpManageUsers); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "role must be citizen, officer, or authority")
	}

	user, err := models.NewUser(id.UserID(uuid.New()), req.FullName, role, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	user.CitizenNo = req.CitizenNo
	user.BadgeNumber = req.BadgeNumber
	user.Department = req.Department

	if err := s.users.Create(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.metrics.IncrementUserCreated(string(role))
	s.logAudit(ctx, actor, string(audit.EventUserCreated), user.ID.String(), string(role))
	return user, nil
}

// GetUser returns one account. Authority only.
func (s *Service) GetUser(ctx context.Context, actor models.Identity, userID id.UserID) (*models.User, error) {
	if err := policy.Authorize(actor, policy.OpManageUsers); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// ListUsers returns accounts, optionally restricted to one role or to active
// accounts. Authority only.
func (s *Service) ListUsers(ctx context.Context, actor models.Identity, role *models.Role, activeOnly bool) ([]*models.User, error) {
	if err := policy.Authorize(actor, policy.OpManageUsers); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, role, activeOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// RoleCounts returns the number of accounts per role. Authority only.
func (s *Service) RoleCounts(ctx context.Context, actor models.Identity) (map[models.Role]int, error) {
	if err := policy.Authorize(actor, policy.OpManageUsers); err != nil {
		return nil, err
	}
	counts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count users")
	}
	return counts, nil
}

// DeactivateUser disables an account. The cached identity is dropped so the
// change takes effect on the next resolution.
func (s *Service) DeactivateUser(ctx context.Context, actor models.Identity, userID id.UserID) (*models.User, error) {
	user, err := s.setActive(ctx, actor, userID, false)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, actor, string(audit.EventUserDeactivated), user.ID.String(), string(user.Role))
	return user, nil
}

// ReactivateUser re-enables a deactivated account.
func (s *Service) ReactivateUser(ctx context.Context, actor models.Identity, userID id.UserID) (*models.User, error) {
	user, err := s.setActive(ctx, actor, userID, true)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, actor, string(audit.EventUserReactivated), user.ID.String(), string(user.Role))
	return user, nil
}

func (s *Service) setActive(ctx context.Context, actor models.Identity, userID id.UserID, active bool) (*models.User, error) {
	if err := policy.Authorize(actor, policy.OpManageUsers); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	validate := func(u *models.User) error { return u.CanDeactivate() }
	mutate := func(u *models.User) { u.ApplyDeactivation(now) }
	if active {
		validate = func(u *models.User) error { return u.CanReactivate() }
		mutate = func(u *models.User) { u.ApplyReactivation(now) }
	}

	user, err := s.users.Execute(ctx, userID, validate, mutate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user state")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "identity cache invalidation failed", "user_id", userID, "error", err)
		}
	}
	return user, nil
}

func (s *Service) logAudit(ctx context.Context, actor models.Identity, event, subject, reason string) {
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
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
}
