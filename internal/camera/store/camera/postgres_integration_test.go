//go:build integration

package camera

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"trafficwatch/internal/camera/models"
	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/platform/sentinel"
	"trafficwatch/pkg/testutil/containers"
)

type PostgresCameraSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	container *containers.PostgresContainer
	store     *PostgresStore
}

func TestPostgresCameraSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCameraSuite))
}

func (s *PostgresCameraSuite) SetupSuite() {
	s.ctx = context.Background()
	s.container = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.container.DB)
}

func (s *PostgresCameraSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	s.Require().NoError(s.container.TruncateTables(s.ctx, "cameras"))
}

func (s *PostgresCameraSuite) seedCamera(code string) *models.Camera {
	c, err := models.NewCamera(id.CameraID(uuid.New()), code, code+" camera", "Main St & 5th Ave", "speed", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateIfCodeAvailable(s.ctx, c))
	return c
}

func (s *PostgresCameraSuite) TestCreateAndFind() {
	c := s.seedCamera("CAM-001")

	got, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("CAM-001", got.Code)
	s.Equal(models.CameraStatusActive, got.Status)

	byCode, err := s.store.FindByCode(s.ctx, "cam-001")
	s.Require().NoError(err)
	s.Equal(c.ID, byCode.ID, "code lookup is case-insensitive")
}

func (s *PostgresCameraSuite) TestCodeConflict() {
	s.seedCamera("CAM-001")

	dup, err := models.NewCamera(id.CameraID(uuid.New()), "cam-001", "Duplicate", "Harbor Rd", "red_light", s.now)
	s.Require().NoError(err)
	s.Require().ErrorIs(s.store.CreateIfCodeAvailable(s.ctx, dup), sentinel.ErrConflict)
}

func (s *PostgresCameraSuite) TestListFilters() {
	s.seedCamera("CAM-001")
	second := s.seedCamera("CAM-002")

	inactive := models.CameraStatusInactive
	_, err := s.store.Execute(s.ctx, second.ID,
		func(*models.Camera) error { return nil },
		func(c *models.Camera) { c.Status = inactive },
	)
	s.Require().NoError(err)

	all, err := s.store.List(s.ctx, nil, "")
	s.Require().NoError(err)
	s.Len(all, 2)

	active := models.CameraStatusActive
	actives, err := s.store.List(s.ctx, &active, "")
	s.Require().NoError(err)
	s.Require().Len(actives, 1)
	s.Equal("CAM-001", actives[0].Code)

	speeds, err := s.store.List(s.ctx, nil, "speed")
	s.Require().NoError(err)
	s.Len(speeds, 2)
}

func (s *PostgresCameraSuite) TestExecuteUpdate() {
	c := s.seedCamera("CAM-001")

	location := "Harbor Rd"
	patch := models.CameraUpdate{Location: &location}
	updated, err := s.store.Execute(s.ctx, c.ID,
		func(*models.Camera) error { return nil },
		func(stored *models.Camera) { stored.Apply(patch, s.now.Add(time.Minute)) },
	)
	s.Require().NoError(err)
	s.Equal("Harbor Rd", updated.Location)

	reloaded, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Harbor Rd", reloaded.Location)
}

func (s *PostgresCameraSuite) TestDelete() {
	c := s.seedCamera("CAM-001")

	s.Require().NoError(s.store.Delete(s.ctx, c.ID))
	_, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(s.ctx, c.ID), sentinel.ErrNotFound)
}

func (s *PostgresCameraSuite) TestStatistics() {
	s.seedCamera("CAM-001")
	s.seedCamera("CAM-002")
	third := s.seedCamera("CAM-003")

	maintenance := models.CameraStatusMaintenance
	_, err := s.store.Execute(s.ctx, third.ID,
		func(*models.Camera) error { return nil },
		func(c *models.Camera) { c.Status = maintenance },
	)
	s.Require().NoError(err)

	stats, err := s.store.Statistics(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, stats.Total)
	s.Equal(2, stats.Active)
	s.Equal(1, stats.Maintenance)
	s.Zero(stats.Inactive)
}
