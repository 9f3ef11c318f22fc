package camera

import (
	"context"
	"sort"
	"strings"
	"sync"

	"trafficwatch/internal/camera/models"
	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/platform/sentinel"
)

// InMemory implements the camera store with a mutex-guarded map. Camera codes
// are unique case-insensitively, matching the postgres unique index.
type InMemory struct {
	mu      sync.RWMutex
	cameras map[id.CameraID]*models.Camera
	order   []id.CameraID
}

// NewInMemory creates an empty in-memory camera store.
func NewInMemory() *InMemory {
	return &InMemory{cameras: make(map[id.CameraID]*models.Camera)}
}

// CreateIfCodeAvailable persists a new camera. Returns sentinel.ErrConflict
// when the code is already taken.
func (s *InMemory) CreateIfCodeAvailable(ctx context.Context, c *models.Camera) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.cameras {
		if strings.EqualFold(existing.Code, c.Code) {
			return sentinel.ErrConflict
		}
	}
	if _, exists := s.cameras[c.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *c
	s.cameras[c.ID] = &clone
	s.order = append(s.order, c.ID)
	return nil
}

// FindByID returns the camera or sentinel.ErrNotFound.
func (s *InMemory) FindByID(ctx context.Context, cameraID id.CameraID) (*models.Camera, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cameras[cameraID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

// FindByCode returns the camera with the code (case-insensitive) or
// sentinel.ErrNotFound.
func (s *InMemory) FindByCode(ctx context.Context, code string) (*models.Camera, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cameras {
		if strings.EqualFold(c.Code, code) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns cameras in creation order, optionally restricted by status
// and type.
func (s *InMemory) List(ctx context.Context, status *models.CameraStatus, cameraType string) ([]*models.Camera, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Camera
	for _, cameraID := range s.order {
		c := s.cameras[cameraID]
		if status != nil && c.Status != *status {
			continue
		}
		if cameraType != "" && !strings.EqualFold(c.CameraType, cameraType) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Execute runs validate then mutate on the stored camera under the store lock.
func (s *InMemory) Execute(
	ctx context.Context,
	cameraID id.CameraID,
	validate func(*models.Camera) error,
	mutate func(*models.Camera),
) (*models.Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cameras[cameraID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	mutate(c)
	clone := *c
	return &clone, nil
}

// Delete removes the camera. Violations referencing it are untouched.
func (s *InMemory) Delete(ctx context.Context, cameraID id.CameraID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cameras[cameraID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.cameras, cameraID)
	for i, orderedID := range s.order {
		if orderedID == cameraID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Statistics aggregates the registry by status.
func (s *InMemory) Statistics(ctx context.Context) (models.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.Statistics
	for _, c := range s.cameras {
		stats.Total++
		switch c.Status {
		case models.CameraStatusActive:
			stats.Active++
		case models.CameraStatusInactive:
			stats.Inactive++
		case models.CameraStatusMaintenance:
			stats.Maintenance++
		}
	}
	return stats, nil
}
