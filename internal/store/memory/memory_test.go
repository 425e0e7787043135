package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optivue/scheduling/internal/domain/appointment"
)

func newAppointment(date, hhmm, practitionerID, patientID string) *appointment.Appointment {
	return &appointment.Appointment{
		ID:           uuid.New(),
		PatientID:    patientID,
		PatientName:  "Jordan Reyes",
		Date:         date,
		Time:         hhmm,
		Duration:     30,
		EndTime:      "10:00",
		Type:         appointment.TypeEyeExam,
		Status:       appointment.StatusScheduled,
		Practitioner: appointment.Practitioner{ID: practitionerID, Name: "Dr. Osei"},
	}
}

func TestInsertAssignsSequentialNumbers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first := newAppointment("2024-12-05", "09:00", "OPT001", "PAT-1")
	second := newAppointment("2024-12-05", "10:00", "OPT001", "PAT-2")

	require.NoError(t, s.Insert(ctx, first))
	require.NoError(t, s.Insert(ctx, second))

	assert.Equal(t, "APT-0001", first.Number)
	assert.Equal(t, "APT-0002", second.Number)
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a := newAppointment("2024-12-05", "09:00", "OPT001", "PAT-1")
	require.NoError(t, s.Insert(ctx, a))

	dup := *a
	err := s.Insert(ctx, &dup)
	require.ErrorIs(t, err, appointment.ErrDuplicateAppointmentID)
}

func TestReplaceMissingFails(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a := newAppointment("2024-12-05", "09:00", "OPT001", "PAT-1")
	err := s.Replace(ctx, a)
	require.ErrorIs(t, err, appointment.ErrAppointmentNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a := newAppointment("2024-12-05", "09:00", "OPT001", "PAT-1")
	require.NoError(t, s.Insert(ctx, a))
	require.NoError(t, s.Remove(ctx, a.ID))

	_, err := s.GetByID(ctx, a.ID)
	require.ErrorIs(t, err, appointment.ErrAppointmentNotFound)

	err = s.Remove(ctx, a.ID)
	require.ErrorIs(t, err, appointment.ErrAppointmentNotFound)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a := newAppointment("2024-12-05", "09:00", "OPT001", "PAT-1")
	require.NoError(t, s.Insert(ctx, a))

	got, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	got.Status = appointment.StatusCancelled

	fresh, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusScheduled, fresh.Status)
}

func TestListAllSortsByDateThenTime(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Insert(ctx, newAppointment("2024-12-06", "09:00", "OPT001", "PAT-1")))
	require.NoError(t, s.Insert(ctx, newAppointment("2024-12-05", "14:00", "OPT001", "PAT-2")))
	require.NoError(t, s.Insert(ctx, newAppointment("2024-12-05", "09:30", "OPT002", "PAT-3")))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-12-05", all[0].Date)
	assert.Equal(t, "09:30", all[0].Time)
	assert.Equal(t, "14:00", all[1].Time)
	assert.Equal(t, "2024-12-06", all[2].Date)
}

func TestListByPatientMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Insert(ctx, newAppointment("2024-11-01", "09:00", "OPT001", "PAT-1")))
	require.NoError(t, s.Insert(ctx, newAppointment("2024-12-05", "09:00", "OPT001", "PAT-1")))
	require.NoError(t, s.Insert(ctx, newAppointment("2024-12-05", "10:00", "OPT001", "PAT-9")))

	appts, err := s.ListByPatient(ctx, "PAT-1")
	require.NoError(t, err)
	require.Len(t, appts, 2)
	assert.Equal(t, "2024-12-05", appts[0].Date)
	assert.Equal(t, "2024-11-01", appts[1].Date)
}

func TestListByDateFiltersPractitioner(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Insert(ctx, newAppointment("2024-12-05", "10:00", "OPT001", "PAT-1")))
	require.NoError(t, s.Insert(ctx, newAppointment("2024-12-05", "09:00", "OPT002", "PAT-2")))
	require.NoError(t, s.Insert(ctx, newAppointment("2024-12-06", "09:00", "OPT001", "PAT-3")))

	day, err := s.ListByDate(ctx, "2024-12-05", "")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "09:00", day[0].Time, "sorted by start time")

	mine, err := s.ListByDate(ctx, "2024-12-05", "OPT001")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "OPT001", mine[0].Practitioner.ID)
}

func TestListUpcomingFiltersStatusAndLimit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	past := newAppointment("2024-01-01", "09:00", "OPT001", "PAT-1")
	cancelled := newAppointment("2024-12-06", "09:00", "OPT001", "PAT-2")
	cancelled.Status = appointment.StatusCancelled
	confirmed := newAppointment("2024-12-05", "09:00", "OPT001", "PAT-3")
	confirmed.Status = appointment.StatusConfirmed
	scheduled := newAppointment("2024-12-07", "09:00", "OPT001", "PAT-4")

	for _, a := range []*appointment.Appointment{past, cancelled, confirmed, scheduled} {
		require.NoError(t, s.Insert(ctx, a))
	}

	upcoming, err := s.ListUpcoming(ctx, "2024-12-01", 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "2024-12-05", upcoming[0].Date)
	assert.Equal(t, "2024-12-07", upcoming[1].Date)

	limited, err := s.ListUpcoming(ctx, "2024-12-01", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "2024-12-05", limited[0].Date)
}
