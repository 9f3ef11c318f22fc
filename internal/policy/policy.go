// Package policy is the access decision point for the violation system.
//
// Every grant is explicit; an operation absent from the table is denied for
// every role. Ownership checks compare record provenance against the acting
// identity, never against caller-supplied ids. Services must resolve the
// target record first so a missing record surfaces as not-found rather than
// leaking existence through a forbidden error.
package policy

import (
	identity "trafficwatch/internal/identity/models"
	violation "trafficwatch/internal/violation/models"
	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
)

// Operation names a protected action.
type Operation string

const (
	// OpReadAnyViolation covers listing and reading violations regardless of
	// provenance. Citizens read their own reports through AuthorizeReadViolation.
	OpReadAnyViolation Operation = "violation.read_any"
	// OpCreateCameraViolation records a camera-sourced violation.
	OpCreateCameraViolation Operation = "violation.create_camera"
	// OpReportViolation files a citizen report; the reporter is always the
	// acting identity.
	OpReportViolation Operation = "violation.report"
	// OpProcessViolation decides a pending violation. The state machine
	// additionally requires the record to be pending.
	OpProcessViolation Operation = "violation.process"
	// OpManageUsers covers user administration.
	OpManageUsers Operation = "users.manage"
	// OpManageCameras covers camera registry administration.
	OpManageCameras Operation = "cameras.manage"
	// OpViewAllPerformance reads cross-officer performance reports.
	OpViewAllPerformance Operation = "reports.performance_all"
	// OpViewOwnPerformance reads the acting officer's own performance.
	OpViewOwnPerformance Operation = "reports.performance_self"
)

// grants is the single source of truth for role capabilities.
// Anything not listed here is denied.
var grants = map[Operation]map[identity.Role]bool{
	OpReadAnyViolation: {
		identity.RoleOfficer:   true,
		identity.RoleAuthority: true,
	},
	OpCreateCameraViolation: {
		identity.RoleOfficer:   true,
		identity.RoleAuthority: true,
	},
	OpReportViolation: {
		identity.RoleCitizen: true,
	},
	OpProcessViolation: {
		identity.RoleOfficer:   true,
		identity.RoleAuthority: true,
	},
	OpManageUsers: {
		identity.RoleAuthority: true,
	},
	OpManageCameras: {
		identity.RoleAuthority: true,
	},
	OpViewAllPerformance: {
		identity.RoleAuthority: true,
	},
	OpViewOwnPerformance: {
		identity.RoleOfficer:   true,
		identity.RoleAuthority: true,
	},
}

// Authorize gates an operation for the acting identity. Inactive accounts
// are denied everything regardless of role.
func Authorize(actor identity.Identity, op Operation) error {
	if !actor.Active {
		return dErrors.New(dErrors.CodeForbidden, "account inactive")
	}
	if !grants[op][actor.Role] {
		return dErrors.New(dErrors.CodeForbidden, "operation not permitted for role")
	}
	return nil
}

// AuthorizeReadViolation gates reading a single resolved violation record.
// Reviewers read any record; a citizen reads only what they reported.
func AuthorizeReadViolation(actor identity.Identity, v *violation.Violation) error {
	if !actor.Active {
		return dErrors.New(dErrors.CodeForbidden, "account inactive")
	}
	if grants[OpReadAnyViolation][actor.Role] {
		return nil
	}
	if actor.Role == identity.RoleCitizen && v.IsReportedBy(actor.ID) {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "operation not permitted for role")
}

// AuthorizeViewPerformance gates officer performance reports. The authority
// reads anyone's; an officer reads only their own.
func AuthorizeViewPerformance(actor identity.Identity, officerID id.UserID) error {
	if err := Authorize(actor, OpViewOwnPerformance); err != nil {
		return err
	}
	if actor.Role == identity.RoleAuthority {
		return nil
	}
	if actor.ID == officerID {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "officers may only view their own performance")
}
