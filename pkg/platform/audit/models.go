package audit

import (
	"context"
	"time"

	id "trafficwatch/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal significance: anything that
	// creates, decides, or settles a violation against a license plate.
	// These require tamper-proof storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to access monitoring.
	// Examples: rejected tokens, denied operations, account deactivations.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// ActorID is the authenticated user who performed the action. Nil for
	// camera-sourced events, which have no human actor.
	ActorID id.UserID
	// Subject identifies the record acted on (violation code, user id,
	// camera code).
	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	// Violation lifecycle events
	EventViolationCreated   AuditEvent = "violation_created"
	EventViolationReported  AuditEvent = "violation_reported"
	EventViolationProcessed AuditEvent = "violation_processed"
	EventViolationRejected  AuditEvent = "violation_rejected"
	EventViolationPaid      AuditEvent = "violation_paid"
	EventViolationAppealed  AuditEvent = "violation_appealed"

	// Identity events
	EventUserCreated     AuditEvent = "user_created"
	EventUserDeactivated AuditEvent = "user_deactivated"
	EventUserReactivated AuditEvent = "user_reactivated"
	EventAccessDenied    AuditEvent = "access_denied"

	// Camera registry events
	EventCameraRegistered AuditEvent = "camera_registered"
	EventCameraUpdated    AuditEvent = "camera_updated"
	EventCameraDeleted    AuditEvent = "camera_deleted"
)

// eventCategories maps each audit event to its category.
// Compliance: enforcement actions against a plate, long retention required.
// Security: access monitoring and account state changes.
// Operations: routine registry activity, can be sampled.
var eventCategories = map[AuditEvent]EventCategory{
	EventViolationCreated:   CategoryCompliance,
	EventViolationReported:  CategoryCompliance,
	EventViolationProcessed: CategoryCompliance,
	EventViolationRejected:  CategoryCompliance,
	EventViolationPaid:      CategoryCompliance,
	EventViolationAppealed:  CategoryCompliance,

	EventUserCreated:     CategorySecurity,
	EventUserDeactivated: CategorySecurity,
	EventUserReactivated: CategorySecurity,
	EventAccessDenied:    CategorySecurity,

	EventCameraRegistered: CategoryOperations,
	EventCameraUpdated:    CategoryOperations,
	EventCameraDeleted:    CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store is an append-only audit sink. Implementations persist events for
// later review; ordering within a single actor is preserved.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actorID id.UserID) ([]Event, error)
}
