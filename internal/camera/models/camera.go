package models

import (
	"strings"
	"time"

	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
)

// CameraStatus is the operational state of a registered camera.
type CameraStatus string

const (
	CameraStatusActive      CameraStatus = "active"
	CameraStatusInactive    CameraStatus = "inactive"
	CameraStatusMaintenance CameraStatus = "maintenance"
)

var validCameraStatuses = map[CameraStatus]bool{
	CameraStatusActive:      true,
	CameraStatusInactive:    true,
	CameraStatusMaintenance: true,
}

// ParseCameraStatus constructs a CameraStatus from external input.
func ParseCameraStatus(s string) (CameraStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "camera status cannot be empty")
	}
	st := CameraStatus(s)
	if !validCameraStatuses[st] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid camera status")
	}
	return st, nil
}

func (s CameraStatus) IsValid() bool  { return validCameraStatuses[s] }
func (s CameraStatus) String() string { return string(s) }

// Camera is a registered enforcement camera.
//
// Invariants:
//   - Code is non-empty and unique across the registry
//   - Name and Location are non-empty
//   - Status is one of active, inactive, maintenance
//
// Deleting a camera does not cascade to its violations: records keep the
// dangling camera id and reporting simply skips cameras it cannot resolve.
type Camera struct {
	ID         id.CameraID  `json:"id"`
	Code       string       `json:"camera_code"`
	Name       string       `json:"name"`
	Location   string       `json:"location"`
	CameraType string       `json:"camera_type"`
	Status     CameraStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// NewCamera validates and constructs an active camera.
func NewCamera(cameraID id.CameraID, code, name, location, cameraType string, now time.Time) (*Camera, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "camera code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "camera name cannot be empty")
	}
	if strings.TrimSpace(location) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "camera location cannot be empty")
	}
	if strings.TrimSpace(cameraType) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "camera type cannot be empty")
	}
	return &Camera{
		ID:         cameraID,
		Code:       code,
		Name:       strings.TrimSpace(name),
		Location:   strings.TrimSpace(location),
		CameraType: strings.TrimSpace(cameraType),
		Status:     CameraStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsActive reports whether the camera currently detects violations.
func (c *Camera) IsActive() bool {
	return c.Status == CameraStatusActive
}

// CameraUpdate is an optional-field patch; absent fields stay unchanged.
type CameraUpdate struct {
	Name       *string       `json:"name,omitempty"`
	Location   *string       `json:"location,omitempty"`
	CameraType *string       `json:"camera_type,omitempty"`
	Status     *CameraStatus `json:"status,omitempty"`
}

// Validate rejects patches that would break camera invariants.
func (u CameraUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "camera name cannot be blank")
	}
	if u.Location != nil && strings.TrimSpace(*u.Location) == "" {
		return dErrors.New(dErrors.CodeValidation, "camera location cannot be blank")
	}
	if u.CameraType != nil && strings.TrimSpace(*u.CameraType) == "" {
		return dErrors.New(dErrors.CodeValidation, "camera type cannot be blank")
	}
	if u.Status != nil && !u.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid camera status")
	}
	return nil
}

// Apply overwrites only the fields present in the patch.
func (c *Camera) Apply(u CameraUpdate, now time.Time) {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Location != nil {
		c.Location = strings.TrimSpace(*u.Location)
	}
	if u.CameraType != nil {
		c.CameraType = strings.TrimSpace(*u.CameraType)
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	c.UpdatedAt = now
}

// Statistics aggregates the camera registry by status.
type Statistics struct {
	Total       int `json:"total_cameras"`
	Active      int `json:"active_cameras"`
	Inactive    int `json:"inactive_cameras"`
	Maintenance int `json:"maintenance_cameras"`
}
