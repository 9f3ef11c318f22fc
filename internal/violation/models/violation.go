package models

import (
	"strings"
	"time"

	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
)

// Violation is the aggregate root for a recorded traffic infraction.
//
// Invariants:
//   - Code, LicensePlate, ViolationType, Location, ViolationTime, and Source
//     are immutable after construction
//   - exactly one of CameraID/ReportedBy is set, consistent with Source
//   - a citizen report starts with FineAmount == 0 (the authority prices it
//     during processing)
//   - only pending records accept a processing decision; the decision stamps
//     ProcessedBy and ProcessedAt
//
// Ownership: the persistence store owns the record. Services borrow it for
// one operation; concurrent processing is serialized by the store's Execute.
type Violation struct {
	ID            id.ViolationID `json:"id"`
	Code          string         `json:"violation_code"`
	LicensePlate  string         `json:"license_plate"`
	ViolationType string         `json:"violation_type"`
	Description   string         `json:"description,omitempty"`
	Location      string         `json:"location"`
	ViolationTime time.Time      `json:"violation_time"`
	FineAmount    float64        `json:"fine_amount"`
	Status        Status         `json:"status"`
	Source        Source         `json:"source"`

	// Provenance, set at creation and never changed.
	CameraID     *id.CameraID `json:"camera_id,omitempty"`
	ReportedBy   *id.UserID   `json:"reported_by,omitempty"`
	EvidenceURLs []string     `json:"evidence_urls,omitempty"`

	// Processing, stamped by the deciding officer or authority.
	ProcessedBy     *id.UserID `json:"processed_by,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	ProcessingNotes string     `json:"processing_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewViolation validates and constructs a pending violation.
//
// Provenance rules: SourceCamera requires cameraID and forbids reportedBy;
// SourceReport requires reportedBy, forbids cameraID, and forces the fine to
// zero regardless of input.
func NewViolation(
	violationID id.ViolationID,
	code string,
	licensePlate string,
	violationType string,
	description string,
	location string,
	violationTime time.Time,
	fineAmount float64,
	source Source,
	cameraID *id.CameraID,
	reportedBy *id.UserID,
	evidenceURLs []string,
	now time.Time,
) (*Violation, error) {
	licensePlate = strings.TrimSpace(licensePlate)
	if licensePlate == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "license plate cannot be empty")
	}
	if strings.TrimSpace(violationType) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "violation type cannot be empty")
	}
	if strings.TrimSpace(location) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "location cannot be empty")
	}
	if violationTime.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "violation time cannot be zero")
	}
	if fineAmount < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "fine amount cannot be negative")
	}

	switch source {
	case SourceCamera:
		if cameraID == nil || cameraID.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "camera-sourced violation requires a camera id")
		}
		if reportedBy != nil {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "camera-sourced violation cannot carry a reporter")
		}
	case SourceReport:
		if reportedBy == nil || reportedBy.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "reported violation requires a reporter id")
		}
		if cameraID != nil {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "reported violation cannot carry a camera id")
		}
		// The authority prices citizen reports during processing.
		fineAmount = 0
	default:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "source must be camera or report")
	}

	return &Violation{
		ID:            violationID,
		Code:          code,
		LicensePlate:  licensePlate,
		ViolationType: strings.TrimSpace(violationType),
		Description:   description,
		Location:      strings.TrimSpace(location),
		ViolationTime: violationTime,
		FineAmount:    fineAmount,
		Status:        StatusPending,
		Source:        source,
		CameraID:      cameraID,
		ReportedBy:    reportedBy,
		EvidenceURLs:  evidenceURLs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsPending reports whether the record still awaits a decision.
func (v *Violation) IsPending() bool {
	return v.Status == StatusPending
}

// IsReportedBy reports whether userID filed this violation.
func (v *Violation) IsReportedBy(userID id.UserID) bool {
	return v.ReportedBy != nil && *v.ReportedBy == userID
}

// ProcessUpdate is an optional-field patch applied when a reviewer decides a
// pending violation. Absent fields leave the record untouched; present fields
// overwrite.
type ProcessUpdate struct {
	Status          *Status  `json:"status,omitempty"`
	FineAmount      *float64 `json:"fine_amount,omitempty"`
	ProcessingNotes *string  `json:"processing_notes,omitempty"`
}

// Decision returns the target status, defaulting to processed when the patch
// carries none.
func (u ProcessUpdate) Decision() Status {
	if u.Status == nil {
		return StatusProcessed
	}
	return *u.Status
}

// CanProcess checks whether the patch is a legal decision for the current
// state. Returns an error if the transition is not allowed.
// Use with ApplyProcess in Execute callbacks so validation and mutation run
// under the same lock.
func (v *Violation) CanProcess(update ProcessUpdate) error {
	decision := update.Decision()
	if decision != StatusProcessed && decision != StatusRejected {
		return dErrors.New(dErrors.CodeValidation, "decision must be processed or rejected")
	}
	if update.FineAmount != nil && *update.FineAmount < 0 {
		return dErrors.New(dErrors.CodeValidation, "fine amount cannot be negative")
	}
	if !v.Status.CanTransitionTo(decision) {
		return dErrors.New(dErrors.CodeInvariantViolation, "only pending violations can be processed")
	}
	return nil
}

// ApplyProcess applies the decision and stamps the deciding actor and time.
// Call CanProcess first to validate the transition.
func (v *Violation) ApplyProcess(update ProcessUpdate, actorID id.UserID, now time.Time) {
	v.Status = update.Decision()
	if update.FineAmount != nil {
		v.FineAmount = *update.FineAmount
	}
	if update.ProcessingNotes != nil {
		v.ProcessingNotes = *update.ProcessingNotes
	}
	v.ProcessedBy = &actorID
	processedAt := now
	v.ProcessedAt = &processedAt
	v.UpdatedAt = now
}

// CanSettle checks whether the record can move to a post-decision state
// (paid or appealed). Only processed violations settle.
func (v *Violation) CanSettle(next Status) error {
	if next != StatusPaid && next != StatusAppealed {
		return dErrors.New(dErrors.CodeValidation, "settlement must be paid or appealed")
	}
	if !v.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation, "only processed violations can be settled")
	}
	return nil
}

// ApplySettle records the settlement without touching the processing stamp;
// the original decision and decision-maker stay on the record.
func (v *Violation) ApplySettle(next Status, now time.Time) {
	v.Status = next
	v.UpdatedAt = now
}
