package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
)

func cameraViolation(t *testing.T) *Violation {
	t.Helper()
	now := time.Now()
	cameraID := id.CameraID(uuid.New())
	v, err := NewViolation(
		id.ViolationID(uuid.New()), GenerateCode(now),
		"51A-123.45", "speeding", "", "Nguyen Hue Blvd",
		now.Add(-time.Hour), 150.0, SourceCamera, &cameraID, nil, nil, now,
	)
	require.NoError(t, err)
	return v
}

func reportedViolation(t *testing.T, reporter id.UserID) *Violation {
	t.Helper()
	now := time.Now()
	v, err := NewViolation(
		id.ViolationID(uuid.New()), GenerateCode(now),
		"51A-123.45", "wrong_parking", "blocking a hydrant", "Le Loi St",
		now.Add(-time.Hour), 999.0, SourceReport, nil, &reporter, []string{"/evidence/1.jpg", "/evidence/2.jpg"}, now,
	)
	require.NoError(t, err)
	return v
}

func TestNewViolation_Provenance(t *testing.T) {
	now := time.Now()
	cameraID := id.CameraID(uuid.New())
	reporter := id.UserID(uuid.New())

	t.Run("camera source sets camera linkage only", func(t *testing.T) {
		v := cameraViolation(t)
		assert.Equal(t, StatusPending, v.Status)
		assert.NotNil(t, v.CameraID)
		assert.Nil(t, v.ReportedBy)
		assert.Equal(t, 150.0, v.FineAmount)
	})

	t.Run("report source forces zero fine and keeps reporter", func(t *testing.T) {
		v := reportedViolation(t, reporter)
		assert.Nil(t, v.CameraID)
		require.NotNil(t, v.ReportedBy)
		assert.Equal(t, reporter, *v.ReportedBy)
		assert.Zero(t, v.FineAmount)
		assert.Equal(t, []string{"/evidence/1.jpg", "/evidence/2.jpg"}, v.EvidenceURLs)
	})

	t.Run("camera source without camera id is rejected", func(t *testing.T) {
		_, err := NewViolation(
			id.ViolationID(uuid.New()), GenerateCode(now),
			"51A-123.45", "speeding", "", "Nguyen Hue Blvd",
			now, 150.0, SourceCamera, nil, nil, nil, now,
		)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("camera source with reporter is rejected", func(t *testing.T) {
		_, err := NewViolation(
			id.ViolationID(uuid.New()), GenerateCode(now),
			"51A-123.45", "speeding", "", "Nguyen Hue Blvd",
			now, 150.0, SourceCamera, &cameraID, &reporter, nil, now,
		)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("report source with camera id is rejected", func(t *testing.T) {
		_, err := NewViolation(
			id.ViolationID(uuid.New()), GenerateCode(now),
			"51A-123.45", "speeding", "", "Nguyen Hue Blvd",
			now, 0, SourceReport, &cameraID, &reporter, nil, now,
		)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("blank plate is rejected", func(t *testing.T) {
		_, err := NewViolation(
			id.ViolationID(uuid.New()), GenerateCode(now),
			"  ", "speeding", "", "Nguyen Hue Blvd",
			now, 150.0, SourceCamera, &cameraID, nil, nil, now,
		)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestProcessUpdate_Decision(t *testing.T) {
	rejected := StatusRejected
	assert.Equal(t, StatusProcessed, ProcessUpdate{}.Decision())
	assert.Equal(t, StatusRejected, ProcessUpdate{Status: &rejected}.Decision())
}

func TestCanProcess_ApplyProcess(t *testing.T) {
	officer := id.UserID(uuid.New())
	now := time.Now()

	t.Run("pending accepts processed and stamps the decider", func(t *testing.T) {
		v := cameraViolation(t)
		notes := "radar reading confirmed"
		fine := 200.0
		update := ProcessUpdate{FineAmount: &fine, ProcessingNotes: &notes}

		require.NoError(t, v.CanProcess(update))
		v.ApplyProcess(update, officer, now)

		assert.Equal(t, StatusProcessed, v.Status)
		require.NotNil(t, v.ProcessedBy)
		assert.Equal(t, officer, *v.ProcessedBy)
		require.NotNil(t, v.ProcessedAt)
		assert.Equal(t, now, *v.ProcessedAt)
		assert.Equal(t, 200.0, v.FineAmount)
		assert.Equal(t, notes, v.ProcessingNotes)
	})

	t.Run("absent patch fields leave the record untouched", func(t *testing.T) {
		v := cameraViolation(t)
		require.NoError(t, v.CanProcess(ProcessUpdate{}))
		v.ApplyProcess(ProcessUpdate{}, officer, now)

		assert.Equal(t, StatusProcessed, v.Status)
		assert.Equal(t, 150.0, v.FineAmount, "fine not in patch, must stay")
		assert.Empty(t, v.ProcessingNotes)
	})

	t.Run("processing twice fails with invariant violation", func(t *testing.T) {
		v := cameraViolation(t)
		require.NoError(t, v.CanProcess(ProcessUpdate{}))
		v.ApplyProcess(ProcessUpdate{}, officer, now)

		err := v.CanProcess(ProcessUpdate{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("decision outside processed or rejected is invalid", func(t *testing.T) {
		v := cameraViolation(t)
		paid := StatusPaid
		err := v.CanProcess(ProcessUpdate{Status: &paid})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("negative fine in patch is invalid", func(t *testing.T) {
		v := cameraViolation(t)
		fine := -1.0
		err := v.CanProcess(ProcessUpdate{FineAmount: &fine})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestSettlement(t *testing.T) {
	officer := id.UserID(uuid.New())
	now := time.Now()

	t.Run("processed violation can be paid", func(t *testing.T) {
		v := cameraViolation(t)
		v.ApplyProcess(ProcessUpdate{}, officer, now)

		require.NoError(t, v.CanSettle(StatusPaid))
		v.ApplySettle(StatusPaid, now)

		assert.Equal(t, StatusPaid, v.Status)
		require.NotNil(t, v.ProcessedBy, "settlement keeps the decision stamp")
		assert.Equal(t, officer, *v.ProcessedBy)
	})

	t.Run("pending violation cannot settle", func(t *testing.T) {
		v := cameraViolation(t)
		err := v.CanSettle(StatusAppealed)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("appealed is terminal", func(t *testing.T) {
		v := cameraViolation(t)
		v.ApplyProcess(ProcessUpdate{}, officer, now)
		v.ApplySettle(StatusAppealed, now)

		assert.True(t, v.Status.IsTerminal())
		assert.False(t, v.Status.CanTransitionTo(StatusProcessed))
		assert.False(t, v.Status.CanTransitionTo(StatusPending))
	})
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusProcessed, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPaid, false},
		{StatusPending, StatusAppealed, false},
		{StatusProcessed, StatusPaid, true},
		{StatusProcessed, StatusAppealed, true},
		{StatusProcessed, StatusRejected, false},
		{StatusPaid, StatusAppealed, false},
		{StatusRejected, StatusProcessed, false},
		{StatusAppealed, StatusProcessed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
