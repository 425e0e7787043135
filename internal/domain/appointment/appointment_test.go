package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusNoShow, true},
		{StatusScheduled, StatusInProgress, false},
		{StatusScheduled, StatusCompleted, false},

		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusConfirmed, StatusScheduled, false},

		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusInProgress, StatusNoShow, false},

		// Terminal states have no exits.
		{StatusCompleted, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusConfirmed, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			a := &Appointment{Status: tc.from}
			assert.Equal(t, tc.allowed, a.CanTransitionTo(tc.to))
		})
	}
}

func TestConfirmStampsTimestamp(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}

	require.NoError(t, a.Confirm())
	assert.Equal(t, StatusConfirmed, a.Status)
	require.NotNil(t, a.ConfirmedAt)
}

func TestCancelRequiresReason(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}

	err := a.Cancel("")
	require.ErrorIs(t, err, ErrMissingCancellationReason)
	assert.Equal(t, StatusScheduled, a.Status)
	assert.Nil(t, a.CancelledAt)

	require.NoError(t, a.Cancel("patient request"))
	assert.Equal(t, StatusCancelled, a.Status)
	require.NotNil(t, a.CancelledAt)
	assert.Equal(t, "patient request", a.CancellationReason)
}

func TestCompleteAttachesMedicalRecord(t *testing.T) {
	a := &Appointment{Status: StatusInProgress}

	require.NoError(t, a.Complete("MR-2024-001"))
	assert.Equal(t, StatusCompleted, a.Status)
	require.NotNil(t, a.CompletedAt)
	assert.Equal(t, "MR-2024-001", a.MedicalRecordID)
}

func TestCompleteFromScheduledFails(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}

	err := a.Complete("")
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, StatusScheduled, a.Status)
	assert.Nil(t, a.CompletedAt)
	assert.Empty(t, a.MedicalRecordID)
}

func TestMarkNoShowSetsOnlyStatus(t *testing.T) {
	a := &Appointment{Status: StatusConfirmed}

	require.NoError(t, a.MarkNoShow())
	assert.Equal(t, StatusNoShow, a.Status)
	assert.Nil(t, a.CancelledAt)
	assert.Nil(t, a.CompletedAt)
}

func TestOccupies(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted} {
		a := &Appointment{Status: s}
		assert.True(t, a.Occupies(), "status %s", s)
	}
	for _, s := range []AppointmentStatus{StatusCancelled, StatusNoShow} {
		a := &Appointment{Status: s}
		assert.False(t, a.Occupies(), "status %s", s)
	}
}

func TestAppointmentTypeIsValid(t *testing.T) {
	for _, typ := range []AppointmentType{TypeEyeExam, TypeContactLensFitting, TypeFollowUp, TypeEmergency, TypeFrameSelection, TypeAdjustment} {
		assert.True(t, typ.IsValid(), "type %s", typ)
	}
	assert.False(t, AppointmentType("teeth-cleaning").IsValid())
	assert.False(t, AppointmentType("").IsValid())
}
