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
)

type CameraStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
}

func TestCameraStoreSuite(t *testing.T) {
	suite.Run(t, new(CameraStoreSuite))
}

func (s *CameraStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
}

func (s *CameraStoreSuite) newCamera(code string) *models.Camera {
	c, err := models.NewCamera(
		id.CameraID(uuid.New()),
		code,
		"Main St Northbound",
		"Main St & 5th Ave",
		"speed",
		time.Now(),
	)
	s.Require().NoError(err)
	return c
}

func (s *CameraStoreSuite) TestCreateAndFind() {
	c := s.newCamera("CAM-001")
	s.Require().NoError(s.store.CreateIfCodeAvailable(s.ctx, c))

	byID, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.Code, byID.Code)

	byCode, err := s.store.FindByCode(s.ctx, "cam-001")
	s.Require().NoError(err)
	s.Equal(c.ID, byCode.ID)
}

func (s *CameraStoreSuite) TestCodeConflict() {
	s.Require().NoError(s.store.CreateIfCodeAvailable(s.ctx, s.newCamera("CAM-001")))

	err := s.store.CreateIfCodeAvailable(s.ctx, s.newCamera("cam-001"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *CameraStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(s.ctx, id.CameraID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByCode(s.ctx, "CAM-404")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CameraStoreSuite) TestListFilters() {
	speed := s.newCamera("CAM-001")
	redLight := s.newCamera("CAM-002")
	redLight.CameraType = "red_light"
	offline := s.newCamera("CAM-003")
	offline.Status = models.CameraStatusMaintenance

	for _, c := range []*models.Camera{speed, redLight, offline} {
		s.Require().NoError(s.store.CreateIfCodeAvailable(s.ctx, c))
	}

	all, err := s.store.List(s.ctx, nil, "")
	s.Require().NoError(err)
	s.Len(all, 3)

	active := models.CameraStatusActive
	activeOnly, err := s.store.List(s.ctx, &active, "")
	s.Require().NoError(err)
	s.Len(activeOnly, 2)

	byType, err := s.store.List(s.ctx, nil, "red_light")
	s.Require().NoError(err)
	s.Require().Len(byType, 1)
	s.Equal("CAM-002", byType[0].Code)
}

func (s *CameraStoreSuite) TestExecuteGuards() {
	c := s.newCamera("CAM-001")
	s.Require().NoError(s.store.CreateIfCodeAvailable(s.ctx, c))

	updated, err := s.store.Execute(s.ctx, c.ID,
		func(cam *models.Camera) error { return nil },
		func(cam *models.Camera) { cam.Status = models.CameraStatusInactive },
	)
	s.Require().NoError(err)
	s.Equal(models.CameraStatusInactive, updated.Status)

	stored, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.CameraStatusInactive, stored.Status)

	_, err = s.store.Execute(s.ctx, id.CameraID(uuid.New()),
		func(cam *models.Camera) error { return nil },
		func(cam *models.Camera) {},
	)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CameraStoreSuite) TestDelete() {
	c := s.newCamera("CAM-001")
	s.Require().NoError(s.store.CreateIfCodeAvailable(s.ctx, c))
	s.Require().NoError(s.store.Delete(s.ctx, c.ID))

	_, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(s.ctx, c.ID), sentinel.ErrNotFound)
}

func (s *CameraStoreSuite) TestStatistics() {
	a := s.newCamera("CAM-001")
	b := s.newCamera("CAM-002")
	b.Status = models.CameraStatusInactive
	c := s.newCamera("CAM-003")
	c.Status = models.CameraStatusMaintenance

	for _, cam := range []*models.Camera{a, b, c} {
		s.Require().NoError(s.store.CreateIfCodeAvailable(s.ctx, cam))
	}

	stats, err := s.store.Statistics(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.Statistics{Total: 3, Active: 1, Inactive: 1, Maintenance: 1}, stats)
}
