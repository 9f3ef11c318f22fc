package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/platform/audit"
	"trafficwatch/pkg/platform/audit/store/memory"
)

func Test_EmitFillsDefaults(t *testing.T) {
	store := memory.NewInMemoryStore()
	publisher := audit.NewPublisher(store)
	actorID := id.UserID(uuid.New())

	err := publisher.Emit(context.Background(), audit.Event{
		ActorID: actorID,
		Subject: "VL20260314ABCD1234",
		Action:  string(audit.EventViolationProcessed),
	})
	require.NoError(t, err)

	events, err := publisher.List(context.Background(), actorID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, audit.CategoryCompliance, events[0].Category)
	require.False(t, events[0].Timestamp.IsZero())
}

func Test_EmitKeepsExplicitFields(t *testing.T) {
	store := memory.NewInMemoryStore()
	publisher := audit.NewPublisher(store)
	actorID := id.UserID(uuid.New())
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	err := publisher.Emit(context.Background(), audit.Event{
		Category:  audit.CategorySecurity,
		Timestamp: at,
		ActorID:   actorID,
		Action:    "custom_action",
	})
	require.NoError(t, err)

	events, err := publisher.List(context.Background(), actorID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, audit.CategorySecurity, events[0].Category)
	require.Equal(t, at, events[0].Timestamp)
}

func Test_EventCategories(t *testing.T) {
	require.Equal(t, audit.CategoryCompliance, audit.EventViolationReported.Category())
	require.Equal(t, audit.CategorySecurity, audit.EventUserDeactivated.Category())
	require.Equal(t, audit.CategoryOperations, audit.EventCameraRegistered.Category())
	require.Equal(t, audit.CategoryOperations, audit.AuditEvent("something_new").Category(),
		"unknown events default to operations")
}

func Test_ListByActorIsolation(t *testing.T) {
	store := memory.NewInMemoryStore()
	publisher := audit.NewPublisher(store)
	first := id.UserID(uuid.New())
	second := id.UserID(uuid.New())

	for i := 0; i < 3; i++ {
		require.NoError(t, publisher.Emit(context.Background(), audit.Event{ActorID: first, Action: string(audit.EventUserCreated)}))
	}
	require.NoError(t, publisher.Emit(context.Background(), audit.Event{ActorID: second, Action: string(audit.EventUserCreated)}))

	events, err := publisher.List(context.Background(), first)
	require.NoError(t, err)
	require.Len(t, events, 3)

	events, err = publisher.List(context.Background(), second)
	require.NoError(t, err)
	require.Len(t, events, 1)
}
