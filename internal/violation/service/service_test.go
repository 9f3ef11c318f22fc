package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ViolationStore,UserReader,CameraReader,AuditPublisher

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	cameramodels "trafficwatch/internal/camera/models"
	identity "trafficwatch/internal/identity/models"
	"trafficwatch/internal/violation/models"
	"trafficwatch/internal/violation/service/mocks"
	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
	"trafficwatch/pkg/platform/sentinel"
	"trafficwatch/pkg/requestcontext"
)

type ViolationServiceSuite struct {
	suite.Suite
	ctx         context.Context
	now         time.Time
	ctrl        *gomock.Controller
	mockStore   *mocks.MockViolationStore
	mockUsers   *mocks.MockUserReader
	mockCameras *mocks.MockCameraReader
	mockAudit   *mocks.MockAuditPublisher
	service     *Service

	officer   identity.Identity
	authority identity.Identity
	citizen   identity.Identity
}

func TestViolationServiceSuite(t *testing.T) {
	suite.Run(t, new(ViolationServiceSuite))
}

func (s *ViolationServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockViolationStore(s.ctrl)
	s.mockUsers = mocks.NewMockUserReader(s.ctrl)
	s.mockCameras = mocks.NewMockCameraReader(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(
		s.mockStore, s.mockUsers, s.mockCameras,
		WithLogger(logger),
		WithAuditPublisher(s.mockAudit),
	)

	s.officer = identity.Identity{ID: id.UserID(uuid.New()), Role: identity.RoleOfficer, Active: true}
	s.authority = identity.Identity{ID: id.UserID(uuid.New()), Role: identity.RoleAuthority, Active: true}
	s.citizen = identity.Identity{ID: id.UserID(uuid.New()), Role: identity.RoleCitizen, Active: true}
}

func (s *ViolationServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ViolationServiceSuite) validRequest() CreateRequest {
	return CreateRequest{
		LicensePlate:  "34ABC123",
		ViolationType: "speeding",
		Location:      "Main St & 5th Ave",
		ViolationTime: s.now.Add(-time.Hour),
		FineAmount:    150,
	}
}

func (s *ViolationServiceSuite) registeredCamera() (*cameramodels.Camera, id.CameraID) {
	cameraID := id.CameraID(uuid.New())
	camera, err := cameramodels.NewCamera(cameraID, "CAM-001", "Main St NB", "Main St & 5th Ave", "speed", s.now)
	s.Require().NoError(err)
	return camera, cameraID
}

func (s *ViolationServiceSuite) pendingViolation() *models.Violation {
	_, cameraID := s.registeredCamera()
	v, err := models.NewViolation(
		id.ViolationID(uuid.New()), models.GenerateCode(s.now),
		"34ABC123", "speeding", "", "Main St & 5th Ave",
		s.now.Add(-time.Hour), 150,
		models.SourceCamera, &cameraID, nil, nil, s.now,
	)
	s.Require().NoError(err)
	return v
}

// executePassthrough wires the mock Execute to run validate and mutate
// against the given record, mirroring store semantics.
func (s *ViolationServiceSuite) executePassthrough(v *models.Violation) func(context.Context, id.ViolationID, func(*models.Violation) error, func(*models.Violation)) (*models.Violation, error) {
	return func(_ context.Context, _ id.ViolationID, validate func(*models.Violation) error, mutate func(*models.Violation)) (*models.Violation, error) {
		if err := validate(v); err != nil {
			return nil, err
		}
		mutate(v)
		return v, nil
	}
}

func (s *ViolationServiceSuite) TestCreate() {
	camera, cameraID := s.registeredCamera()
	s.mockCameras.EXPECT().FindByID(s.ctx, cameraID).Return(camera, nil)

	var created *models.Violation
	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, v *models.Violation) error {
			created = v
			return nil
		})

	v, err := s.service.Create(s.ctx, s.officer, cameraID, s.validRequest())
	s.Require().NoError(err)
	s.Require().NotNil(created)
	s.Equal(models.StatusPending, v.Status)
	s.Equal(models.SourceCamera, v.Source)
	s.Require().NotNil(v.CameraID)
	s.Equal(cameraID, *v.CameraID)
	s.Nil(v.ReportedBy)
	s.True(strings.HasPrefix(v.Code, "VL20260314"))
	s.InDelta(150, v.FineAmount, 0.001)
}

func (s *ViolationServiceSuite) TestCreateUnknownCamera() {
	cameraID := id.CameraID(uuid.New())
	s.mockCameras.EXPECT().FindByID(s.ctx, cameraID).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Create(s.ctx, s.officer, cameraID, s.validRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ViolationServiceSuite) TestCreateDeniedForCitizen() {
	_, err := s.service.Create(s.ctx, s.citizen, id.CameraID(uuid.New()), s.validRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ViolationServiceSuite) TestCreateDeniedForInactiveOfficer() {
	inactive := s.officer
	inactive.Active = false
	_, err := s.service.Create(s.ctx, inactive, id.CameraID(uuid.New()), s.validRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ViolationServiceSuite) TestCreateRetriesOnCodeCollision() {
	camera, cameraID := s.registeredCamera()
	s.mockCameras.EXPECT().FindByID(s.ctx, cameraID).Return(camera, nil)

	var codes []string
	gomock.InOrder(
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, v *models.Violation) error {
				codes = append(codes, v.Code)
				return sentinel.ErrConflict
			}),
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, v *models.Violation) error {
				codes = append(codes, v.Code)
				return nil
			}),
	)

	v, err := s.service.Create(s.ctx, s.officer, cameraID, s.validRequest())
	s.Require().NoError(err)
	s.Require().Len(codes, 2)
	s.NotEqual(codes[0], codes[1])
	s.Equal(codes[1], v.Code)
}

func (s *ViolationServiceSuite) TestCreateSurfacesConflictWhenRetriesExhausted() {
	camera, cameraID := s.registeredCamera()
	s.mockCameras.EXPECT().FindByID(s.ctx, cameraID).Return(camera, nil)
	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(sentinel.ErrConflict).Times(maxCodeAttempts)

	_, err := s.service.Create(s.ctx, s.officer, cameraID, s.validRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ViolationServiceSuite) TestReportStampsReporterAndZeroesFine() {
	req := s.validRequest()
	req.FineAmount = 500
	req.EvidenceURLs = []string{"https://evidence.example/1.jpg"}

	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	v, err := s.service.Report(s.ctx, s.citizen, req)
	s.Require().NoError(err)
	s.Equal(models.SourceReport, v.Source)
	s.Require().NotNil(v.ReportedBy)
	s.Equal(s.citizen.ID, *v.ReportedBy)
	s.Nil(v.CameraID)
	s.Zero(v.FineAmount)
	s.Equal(req.EvidenceURLs, v.EvidenceURLs)
}

func (s *ViolationServiceSuite) TestReportDeniedForOfficer() {
	_, err := s.service.Report(s.ctx, s.officer, s.validRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ViolationServiceSuite) TestProcess() {
	v := s.pendingViolation()
	s.mockStore.EXPECT().Execute(gomock.Any(), v.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(s.executePassthrough(v))

	notes := "radar evidence verified"
	decided, err := s.service.Process(s.ctx, s.officer, v.ID, models.ProcessUpdate{ProcessingNotes: &notes})
	s.Require().NoError(err)
	s.Equal(models.StatusProcessed, decided.Status)
	s.Require().NotNil(decided.ProcessedBy)
	s.Equal(s.officer.ID, *decided.ProcessedBy)
	s.Require().NotNil(decided.ProcessedAt)
	s.Equal(s.now, *decided.ProcessedAt)
	s.Equal(notes, decided.ProcessingNotes)
}

func (s *ViolationServiceSuite) TestProcessRejectsAlreadyDecided() {
	v := s.pendingViolation()
	v.ApplyProcess(models.ProcessUpdate{}, s.authority.ID, s.now.Add(-time.Minute))
	s.Require().Equal(models.StatusProcessed, v.Status)

	s.mockStore.EXPECT().Execute(gomock.Any(), v.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(s.executePassthrough(v))

	_, err := s.service.Process(s.ctx, s.officer, v.ID, models.ProcessUpdate{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *ViolationServiceSuite) TestProcessNotFound() {
	violationID := id.ViolationID(uuid.New())
	s.mockStore.EXPECT().Execute(gomock.Any(), violationID, gomock.Any(), gomock.Any()).
		Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Process(s.ctx, s.officer, violationID, models.ProcessUpdate{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ViolationServiceSuite) TestProcessDeniedForCitizen() {
	_, err := s.service.Process(s.ctx, s.citizen, id.ViolationID(uuid.New()), models.ProcessUpdate{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ViolationServiceSuite) TestSettle() {
	v := s.pendingViolation()
	v.ApplyProcess(models.ProcessUpdate{}, s.officer.ID, s.now.Add(-time.Hour))
	s.mockStore.EXPECT().Execute(gomock.Any(), v.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(s.executePassthrough(v))

	settled, err := s.service.Settle(s.ctx, s.officer, v.ID, models.StatusPaid)
	s.Require().NoError(err)
	s.Equal(models.StatusPaid, settled.Status)
	s.Require().NotNil(settled.ProcessedBy)
	s.Equal(s.officer.ID, *settled.ProcessedBy, "settlement keeps the decision stamp")
}

func (s *ViolationServiceSuite) TestSettleRequiresProcessedState() {
	v := s.pendingViolation()
	s.mockStore.EXPECT().Execute(gomock.Any(), v.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(s.executePassthrough(v))

	_, err := s.service.Settle(s.ctx, s.officer, v.ID, models.StatusAppealed)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *ViolationServiceSuite) TestSettleRejectsDecisionStates() {
	v := s.pendingViolation()
	v.ApplyProcess(models.ProcessUpdate{}, s.officer.ID, s.now.Add(-time.Hour))
	s.mockStore.EXPECT().Execute(gomock.Any(), v.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(s.executePassthrough(v))

	_, err := s.service.Settle(s.ctx, s.officer, v.ID, models.StatusRejected)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ViolationServiceSuite) TestSettleDeniedForCitizen() {
	_, err := s.service.Settle(s.ctx, s.citizen, id.ViolationID(uuid.New()), models.StatusPaid)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ViolationServiceSuite) TestGetMissingRecordIsNotFoundForAnyRole() {
	violationID := id.ViolationID(uuid.New())
	s.mockStore.EXPECT().FindByID(gomock.Any(), violationID).
		Return(nil, sentinel.ErrNotFound).Times(2)

	_, err := s.service.Get(s.ctx, s.citizen, violationID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "citizen sees not-found, not forbidden")

	_, err = s.service.Get(s.ctx, s.officer, violationID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ViolationServiceSuite) TestGetCitizenReadsOwnReportOnly() {
	reporter := s.citizen.ID
	v, err := models.NewViolation(
		id.ViolationID(uuid.New()), models.GenerateCode(s.now),
		"34ABC123", "illegal_parking", "", "Oak Plaza",
		s.now.Add(-time.Hour), 0,
		models.SourceReport, nil, &reporter, nil, s.now,
	)
	s.Require().NoError(err)
	s.mockStore.EXPECT().FindByID(gomock.Any(), v.ID).Return(v, nil).Times(2)

	got, err := s.service.Get(s.ctx, s.citizen, v.ID)
	s.Require().NoError(err)
	s.Equal(v.ID, got.ID)

	other := identity.Identity{ID: id.UserID(uuid.New()), Role: identity.RoleCitizen, Active: true}
	_, err = s.service.Get(s.ctx, other, v.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ViolationServiceSuite) TestQuickProcessPartialFailure() {
	good := s.pendingViolation()
	decided := s.pendingViolation()
	decided.ApplyProcess(models.ProcessUpdate{}, s.authority.ID, s.now.Add(-time.Minute))
	missingID := id.ViolationID(uuid.New())

	records := map[id.ViolationID]*models.Violation{good.ID: good, decided.ID: decided}
	s.mockStore.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, violationID id.ViolationID, validate func(*models.Violation) error, mutate func(*models.Violation)) (*models.Violation, error) {
			v, ok := records[violationID]
			if !ok {
				return nil, sentinel.ErrNotFound
			}
			if err := validate(v); err != nil {
				return nil, err
			}
			mutate(v)
			return v, nil
		}).Times(3)

	result, err := s.service.QuickProcess(s.ctx, s.authority,
		[]id.ViolationID{good.ID, decided.ID, missingID}, models.ProcessUpdate{})
	s.Require().NoError(err)
	s.Require().Len(result.Processed, 1)
	s.Equal(good.ID, result.Processed[0].ID)
	s.Require().Len(result.Failed, 2)
	s.Equal(decided.ID, result.Failed[0].ViolationID)
	s.Equal(missingID, result.Failed[1].ViolationID)
	s.Equal("violation not found", result.Failed[1].Reason)
}

func (s *ViolationServiceSuite) TestQuickProcessRejectsSettlementDecision() {
	paid := models.StatusPaid
	_, err := s.service.QuickProcess(s.ctx, s.officer,
		[]id.ViolationID{id.ViolationID(uuid.New())}, models.ProcessUpdate{Status: &paid})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ViolationServiceSuite) TestQuickProcessRequiresIDs() {
	_, err := s.service.QuickProcess(s.ctx, s.officer, nil, models.ProcessUpdate{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ViolationServiceSuite) TestLookupByCode() {
	v := s.pendingViolation()
	s.mockStore.EXPECT().FindByCode(gomock.Any(), v.Code).Return(v, nil)

	got, err := s.service.LookupByCode(s.ctx, v.Code)
	s.Require().NoError(err)
	s.Equal(v.ID, got.ID)

	s.mockStore.EXPECT().FindByCode(gomock.Any(), "VL20260101DEADBEEF").Return(nil, sentinel.ErrNotFound)
	_, err = s.service.LookupByCode(s.ctx, "VL20260101DEADBEEF")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ViolationServiceSuite) TestLookupByPlateRequiresPlate() {
	_, err := s.service.LookupByPlate(s.ctx, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}
