package user

import (
	"context"
	"sort"
	"sync"

	"trafficwatch/internal/identity/models"
	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/platform/sentinel"
)

// InMemory implements the user store with a mutex-guarded map.
type InMemory struct {
	mu    sync.RWMutex
	users map[id.UserID]*models.User
	order []id.UserID
}

// NewInMemory creates an empty in-memory user store.
func NewInMemory() *InMemory {
	return &InMemory{users: make(map[id.UserID]*models.User)}
}

// Create persists a new user. Returns sentinel.ErrConflict when the id is
// already taken.
func (s *InMemory) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *u
	s.users[u.ID] = &clone
	s.order = append(s.order, u.ID)
	return nil
}

// FindByID returns the user or sentinel.ErrNotFound.
func (s *InMemory) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

// List returns users in creation order, optionally restricted to one role
// and to active accounts.
func (s *InMemory) List(ctx context.Context, role *models.Role, activeOnly bool) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.User
	for _, userID := range s.order {
		u := s.users[userID]
		if role != nil && u.Role != *role {
			continue
		}
		if activeOnly && !u.Active {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// CountByRole returns the number of users holding each role.
func (s *InMemory) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.Role]int)
	for _, u := range s.users {
		counts[u.Role]++
	}
	return counts, nil
}

// Execute runs validate then mutate on the stored user under the store lock.
func (s *InMemory) Execute(
	ctx context.Context,
	userID id.UserID,
	validate func(*models.User) error,
	mutate func(*models.User),
) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(u); err != nil {
		return nil, err
	}
	mutate(u)
	clone := *u
	return &clone, nil
}
