package violation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"trafficwatch/internal/violation/models"
	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/platform/sentinel"
)

// InMemory implements the violation store with a mutex-guarded map. It mirrors
// the postgres store's semantics, including code uniqueness and the guarded
// Execute mutation, so services behave identically against either.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.ViolationID]*models.Violation
	byCode  map[string]id.ViolationID
	// order preserves insertion sequence for deterministic tie-breaks.
	order []id.ViolationID
}

// NewInMemory creates an empty in-memory violation store.
func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.ViolationID]*models.Violation),
		byCode:  make(map[string]id.ViolationID),
	}
}

// Create persists a new violation. Returns sentinel.ErrConflict when the
// violation code is already taken.
func (s *InMemory) Create(ctx context.Context, v *models.Violation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byCode[v.Code]; taken {
		return sentinel.ErrConflict
	}
	if _, exists := s.records[v.ID]; exists {
		return sentinel.ErrConflict
	}

	clone := cloneViolation(v)
	s.records[v.ID] = clone
	s.byCode[v.Code] = v.ID
	s.order = append(s.order, v.ID)
	return nil
}

// FindByID returns the violation or sentinel.ErrNotFound.
func (s *InMemory) FindByID(ctx context.Context, violationID id.ViolationID) (*models.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[violationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneViolation(v), nil
}

// FindByCode returns the violation with the exact code or sentinel.ErrNotFound.
func (s *InMemory) FindByCode(ctx context.Context, code string) (*models.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	violationID, ok := s.byCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneViolation(s.records[violationID]), nil
}

// Execute runs validate then mutate on the stored record under the store
// lock, so a racing decision observes the committed state rather than a stale
// read. Returns the mutated record.
func (s *InMemory) Execute(
	ctx context.Context,
	violationID id.ViolationID,
	validate func(*models.Violation) error,
	mutate func(*models.Violation),
) (*models.Violation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.records[violationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(v); err != nil {
		return nil, err
	}
	mutate(v)
	return cloneViolation(v), nil
}

// List returns violations matching the filter, newest created first, with
// skip/limit applied after filtering and sorting.
func (s *InMemory) List(ctx context.Context, filter Filter, skip, limit int) ([]*models.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.collect(func(v *models.Violation) bool { return filter.matches(v) })
	sortByCreatedDesc(matched)
	return paginate(matched, skip, limit), nil
}

// ListByPlate returns all violations whose plate contains the fragment
// (case-insensitive), most recent violation time first.
func (s *InMemory) ListByPlate(ctx context.Context, plateFragment string) ([]*models.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fragment := strings.ToLower(plateFragment)
	matched := s.collect(func(v *models.Violation) bool {
		return strings.Contains(strings.ToLower(v.LicensePlate), fragment)
	})
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ViolationTime.After(matched[j].ViolationTime)
	})
	return matched, nil
}

// ListByReporter returns a citizen's own reports, newest created first.
func (s *InMemory) ListByReporter(ctx context.Context, reporter id.UserID, status *models.Status, skip, limit int) ([]*models.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.collect(func(v *models.Violation) bool {
		if !v.IsReportedBy(reporter) {
			return false
		}
		return status == nil || v.Status == *status
	})
	sortByCreatedDesc(matched)
	return paginate(matched, skip, limit), nil
}

// Count returns the number of records created at or after since (zero since
// means no time bound), optionally restricted to one status.
func (s *InMemory) Count(ctx context.Context, status *models.Status, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.count(func(v *models.Violation) bool {
		if status != nil && v.Status != *status {
			return false
		}
		return since.IsZero() || !v.CreatedAt.Before(since)
	}), nil
}

// CountProcessedBy returns the number of decisions an officer stamped at or
// after since.
func (s *InMemory) CountProcessedBy(ctx context.Context, officerID id.UserID, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.count(func(v *models.Violation) bool {
		if v.ProcessedBy == nil || *v.ProcessedBy != officerID {
			return false
		}
		return v.ProcessedAt != nil && !v.ProcessedAt.Before(since)
	}), nil
}

// CountByCamera returns the number of violations a camera detected with
// violation time at or after since.
func (s *InMemory) CountByCamera(ctx context.Context, cameraID id.CameraID, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.count(func(v *models.Violation) bool {
		if v.CameraID == nil || *v.CameraID != cameraID {
			return false
		}
		return !v.ViolationTime.Before(since)
	}), nil
}

// CountByReporter returns how many reports a citizen filed, optionally
// restricted to one status.
func (s *InMemory) CountByReporter(ctx context.Context, reporter id.UserID, status *models.Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.count(func(v *models.Violation) bool {
		if !v.IsReportedBy(reporter) {
			return false
		}
		return status == nil || v.Status == *status
	}), nil
}

// CountInWindow returns how many violations occurred in [from, to).
func (s *InMemory) CountInWindow(ctx context.Context, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.count(func(v *models.Violation) bool {
		return !v.ViolationTime.Before(from) && v.ViolationTime.Before(to)
	}), nil
}

// collect walks records in insertion order so equal sort keys keep a stable,
// deterministic ordering.
func (s *InMemory) collect(match func(*models.Violation) bool) []*models.Violation {
	var out []*models.Violation
	for _, violationID := range s.order {
		v := s.records[violationID]
		if match(v) {
			out = append(out, cloneViolation(v))
		}
	}
	return out
}

func (s *InMemory) count(match func(*models.Violation) bool) int {
	n := 0
	for _, v := range s.records {
		if match(v) {
			n++
		}
	}
	return n
}

func sortByCreatedDesc(vs []*models.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].CreatedAt.After(vs[j].CreatedAt)
	})
}

func paginate(vs []*models.Violation, skip, limit int) []*models.Violation {
	if skip >= len(vs) {
		return nil
	}
	vs = vs[skip:]
	if limit > 0 && limit < len(vs) {
		vs = vs[:limit]
	}
	return vs
}

// cloneViolation keeps callers from mutating stored state through shared
// pointers.
func cloneViolation(v *models.Violation) *models.Violation {
	clone := *v
	if v.CameraID != nil {
		cameraID := *v.CameraID
		clone.CameraID = &cameraID
	}
	if v.ReportedBy != nil {
		reportedBy := *v.ReportedBy
		clone.ReportedBy = &reportedBy
	}
	if v.ProcessedBy != nil {
		processedBy := *v.ProcessedBy
		clone.ProcessedBy = &processedBy
	}
	if v.ProcessedAt != nil {
		processedAt := *v.ProcessedAt
		clone.ProcessedAt = &processedAt
	}
	if v.EvidenceURLs != nil {
		clone.EvidenceURLs = append([]string(nil), v.EvidenceURLs...)
	}
	return &clone
}
