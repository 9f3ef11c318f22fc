package service

import (
	"context"
	"errors"
	"sort"
	"time"

	cameramodels "trafficwatch/internal/camera/models"
	identity "trafficwatch/internal/identity/models"
	"trafficwatch/internal/policy"
	"trafficwatch/internal/violation/models"
	"trafficwatch/internal/violation/store/violation"
	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
	"trafficwatch/pkg/platform/sentinel"
	"trafficwatch/pkg/requestcontext"
)

// Reporting windows are clamped rather than rejected; a zero or negative
// window means "today" and anything past a year is capped.
const (
	minReportDays = 1
	maxReportDays = 365
)

const defaultListLimit = 100

func clampDays(days int) int {
	if days < minReportDays {
		return minReportDays
	}
	if days > maxReportDays {
		return maxReportDays
	}
	return days
}

// ListRequest carries the violation listing filters. Zero values mean
// unfiltered.
type ListRequest struct {
	Status        *models.Status
	LicensePlate  string
	ViolationType string
	DateFrom      *time.Time
	DateTo        *time.Time
	Skip          int
	Limit         int
}

func (r ListRequest) validate() error {
	if r.Skip < 0 {
		return dErrors.New(dErrors.CodeValidation, "skip cannot be negative")
	}
	if r.Limit < 0 {
		return dErrors.New(dErrors.CodeValidation, "limit cannot be negative")
	}
	if r.DateFrom != nil && r.DateTo != nil && r.DateTo.Before(*r.DateFrom) {
		return dErrors.New(dErrors.CodeValidation, "date_to cannot precede date_from")
	}
	return nil
}

// List returns violations matching the filters, newest first. Reviewer only;
// citizens use MyReports.
func (s *Service) List(ctx context.Context, actor identity.Identity, req ListRequest) ([]*models.Violation, error) {
	ctx, span := tracer.Start(ctx, "violation.List")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpReadAnyViolation); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	start := time.Now()
	vs, err := s.violations.List(ctx, violation.Filter{
		Status:        req.Status,
		LicensePlate:  req.LicensePlate,
		ViolationType: req.ViolationType,
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
	}, req.Skip, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list violations")
	}
	s.metrics.ObserveQueryLatency("list", time.Since(start))
	return vs, nil
}

// MyReports returns the acting citizen's own reports, newest first.
func (s *Service) MyReports(ctx context.Context, actor identity.Identity, status *models.Status, skip, limit int) ([]*models.Violation, error) {
	if !actor.Active {
		return nil, dErrors.New(dErrors.CodeForbidden, "account inactive")
	}
	if skip < 0 || limit < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "skip and limit cannot be negative")
	}
	if limit == 0 {
		limit = defaultListLimit
	}
	vs, err := s.violations.ListByReporter(ctx, actor.ID, status, skip, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	return vs, nil
}

// Statistics aggregates violations created inside the window.
type Statistics struct {
	Days      int `json:"period_days"`
	Total     int `json:"total_violations"`
	Pending   int `json:"pending_violations"`
	Processed int `json:"processed_violations"`
	Paid      int `json:"paid_violations"`
	Rejected  int `json:"rejected_violations"`
}

// GetStatistics counts violations created in the last `days` days by status.
func (s *Service) GetStatistics(ctx context.Context, actor identity.Identity, days int) (*Statistics, error) {
	ctx, span := tracer.Start(ctx, "violation.GetStatistics")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpReadAnyViolation); err != nil {
		return nil, err
	}

	days = clampDays(days)
	since := startOfDay(requestcontext.Now(ctx)).AddDate(0, 0, -(days - 1))

	stats := &Statistics{Days: days}
	counts := []struct {
		status *models.Status
		dest   *int
	}{
		{nil, &stats.Total},
		{statusPtr(models.StatusPending), &stats.Pending},
		{statusPtr(models.StatusProcessed), &stats.Processed},
		{statusPtr(models.StatusPaid), &stats.Paid},
		{statusPtr(models.StatusRejected), &stats.Rejected},
	}
	start := time.Now()
	for _, c := range counts {
		n, err := s.violations.Count(ctx, c.status, since)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate violations")
		}
		*c.dest = n
	}
	s.metrics.ObserveQueryLatency("statistics", time.Since(start))
	return stats, nil
}

// OfficerPerformance is one officer's decision count over a window.
type OfficerPerformance struct {
	OfficerID id.UserID `json:"officer_id"`
	FullName  string    `json:"full_name"`
	Days      int       `json:"period_days"`
	Processed int       `json:"processed_count"`
}

// GetOfficerPerformance counts decisions the officer stamped in the window.
// The authority reads anyone's numbers; an officer reads only their own.
func (s *Service) GetOfficerPerformance(ctx context.Context, actor identity.Identity, officerID id.UserID, days int) (*OfficerPerformance, error) {
	if err := policy.AuthorizeViewPerformance(actor, officerID); err != nil {
		return nil, err
	}

	officer, err := s.findReviewer(ctx, officerID)
	if err != nil {
		return nil, err
	}

	days = clampDays(days)
	since := startOfDay(requestcontext.Now(ctx)).AddDate(0, 0, -(days - 1))
	processed, err := s.violations.CountProcessedBy(ctx, officerID, since)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count decisions")
	}
	return &OfficerPerformance{
		OfficerID: officerID,
		FullName:  officer.FullName,
		Days:      days,
		Processed: processed,
	}, nil
}

// GetAllOfficerPerformance ranks all active officers by decisions in the
// window, busiest first. Authority only.
func (s *Service) GetAllOfficerPerformance(ctx context.Context, actor identity.Identity, days int) ([]*OfficerPerformance, error) {
	ctx, span := tracer.Start(ctx, "violation.GetAllOfficerPerformance")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpViewAllPerformance); err != nil {
		return nil, err
	}

	role := identity.RoleOfficer
	officers, err := s.users.List(ctx, &role, true)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officers")
	}

	days = clampDays(days)
	since := startOfDay(requestcontext.Now(ctx)).AddDate(0, 0, -(days - 1))
	out := make([]*OfficerPerformance, 0, len(officers))
	for _, officer := range officers {
		processed, err := s.violations.CountProcessedBy(ctx, officer.ID, since)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count decisions")
		}
		out = append(out, &OfficerPerformance{
			OfficerID: officer.ID,
			FullName:  officer.FullName,
			Days:      days,
			Processed: processed,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Processed > out[j].Processed })
	return out, nil
}

// Workload is an officer's view of open work against their own throughput.
type Workload struct {
	Days            int     `json:"period_days"`
	Pending         int     `json:"pending_violations"`
	ProcessedBySelf int     `json:"processed_by_self"`
	ProcessingRate  float64 `json:"processing_rate"`
}

// GetWorkload reports system-wide pending volume and the acting reviewer's
// own decisions in the window.
func (s *Service) GetWorkload(ctx context.Context, actor identity.Identity, days int) (*Workload, error) {
	if err := policy.Authorize(actor, policy.OpViewOwnPerformance); err != nil {
		return nil, err
	}

	pending, err := s.violations.Count(ctx, statusPtr(models.StatusPending), time.Time{})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count pending violations")
	}

	days = clampDays(days)
	since := startOfDay(requestcontext.Now(ctx)).AddDate(0, 0, -(days - 1))
	processed, err := s.violations.CountProcessedBy(ctx, actor.ID, since)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count decisions")
	}

	rate := 0.0
	if pending+processed > 0 {
		rate = float64(processed) / float64(pending+processed)
	}
	return &Workload{Days: days, Pending: pending, ProcessedBySelf: processed, ProcessingRate: rate}, nil
}

// CameraEfficiency is one camera's detection volume over a window.
type CameraEfficiency struct {
	CameraID   id.CameraID `json:"camera_id"`
	CameraCode string      `json:"camera_code"`
	Location   string      `json:"location"`
	Detected   int         `json:"violations_detected"`
	PerDay     float64     `json:"violations_per_day"`
}

// GetCameraEfficiency ranks registered cameras by detections in the window,
// most active first. Violations whose camera was since deleted are not
// represented; only the current registry is walked.
func (s *Service) GetCameraEfficiency(ctx context.Context, actor identity.Identity, days int) ([]*CameraEfficiency, error) {
	ctx, span := tracer.Start(ctx, "violation.GetCameraEfficiency")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpReadAnyViolation); err != nil {
		return nil, err
	}

	cameras, err := s.cameras.List(ctx, nil, "")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cameras")
	}

	days = clampDays(days)
	since := startOfDay(requestcontext.Now(ctx)).AddDate(0, 0, -(days - 1))
	out := make([]*CameraEfficiency, 0, len(cameras))
	for _, camera := range cameras {
		detected, err := s.violations.CountByCamera(ctx, camera.ID, since)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count detections")
		}
		out = append(out, &CameraEfficiency{
			CameraID:   camera.ID,
			CameraCode: camera.Code,
			Location:   camera.Location,
			Detected:   detected,
			PerDay:     float64(detected) / float64(days),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Detected > out[j].Detected })
	return out, nil
}

// TrendPoint is the violation count for one calendar day.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// GetTrends returns per-day violation counts over the window, oldest day
// first. Days with no violations appear with a zero count.
func (s *Service) GetTrends(ctx context.Context, actor identity.Identity, days int) ([]TrendPoint, error) {
	ctx, span := tracer.Start(ctx, "violation.GetTrends")
	defer span.End()

	if err := policy.Authorize(actor, policy.OpReadAnyViolation); err != nil {
		return nil, err
	}

	days = clampDays(days)
	today := startOfDay(requestcontext.Now(ctx))
	points := make([]TrendPoint, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		dayStart := today.AddDate(0, 0, -offset)
		count, err := s.violations.CountInWindow(ctx, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count violations")
		}
		points = append(points, TrendPoint{Date: dayStart.Format("2006-01-02"), Count: count})
	}
	return points, nil
}

// ReportStatistics summarizes a citizen's own filings by outcome.
type ReportStatistics struct {
	Total     int `json:"total_reports"`
	Pending   int `json:"pending_reports"`
	Processed int `json:"processed_reports"`
	Rejected  int `json:"rejected_reports"`
}

// GetMyReportStatistics counts the acting citizen's reports by status.
func (s *Service) GetMyReportStatistics(ctx context.Context, actor identity.Identity) (*ReportStatistics, error) {
	if !actor.Active {
		return nil, dErrors.New(dErrors.CodeForbidden, "account inactive")
	}

	stats := &ReportStatistics{}
	counts := []struct {
		status *models.Status
		dest   *int
	}{
		{nil, &stats.Total},
		{statusPtr(models.StatusPending), &stats.Pending},
		{statusPtr(models.StatusProcessed), &stats.Processed},
		{statusPtr(models.StatusRejected), &stats.Rejected},
	}
	for _, c := range counts {
		n, err := s.violations.CountByReporter(ctx, actor.ID, c.status)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count reports")
		}
		*c.dest = n
	}
	return stats, nil
}

// Dashboard is the operational overview for reviewers. User counts are only
// populated for the authority.
type Dashboard struct {
	Violations  *Statistics             `json:"violations"`
	Cameras     cameramodels.Statistics `json:"cameras"`
	UsersByRole map[identity.Role]int   `json:"users_by_role,omitempty"`
}

// GetDashboard assembles the reviewer overview over the window.
func (s *Service) GetDashboard(ctx context.Context, actor identity.Identity, days int) (*Dashboard, error) {
	ctx, span := tracer.Start(ctx, "violation.GetDashboard")
	defer span.End()

	violationStats, err := s.GetStatistics(ctx, actor, days)
	if err != nil {
		return nil, err
	}
	cameraStats, err := s.cameras.Statistics(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate cameras")
	}

	dashboard := &Dashboard{Violations: violationStats, Cameras: cameraStats}
	if actor.Role == identity.RoleAuthority {
		roleCounts, err := s.users.CountByRole(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count users")
		}
		dashboard.UsersByRole = roleCounts
	}
	return dashboard, nil
}

// findReviewer loads a user and checks they can hold decisions.
func (s *Service) findReviewer(ctx context.Context, officerID id.UserID) (*identity.User, error) {
	officer, err := s.users.FindByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "officer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if !officer.Identity().CanReview() {
		return nil, dErrors.New(dErrors.CodeValidation, "user is not an officer")
	}
	return officer, nil
}

func statusPtr(st models.Status) *models.Status { return &st }

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
