package appointment

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the appointment store. It enforces identity uniqueness and
// owns the monotonic appointment-number sequence; all conflict and lifecycle
// logic lives above it in the booking service.
type Repository interface {
	// Insert adds a new record, assigning its sequential Number. Fails with
	// ErrDuplicateAppointmentID if the id is already present.
	Insert(ctx context.Context, a *Appointment) error

	// Replace swaps the stored record for the given id.
	Replace(ctx context.Context, a *Appointment) error

	// Remove deletes the record irrecoverably.
	Remove(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// ListAll returns every appointment sorted by (date, time) ascending.
	ListAll(ctx context.Context) ([]*Appointment, error)

	// ListByPatient returns a patient's appointments, most recent first.
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)

	// ListByDate returns appointments on a calendar date sorted by start time,
	// optionally filtered to one practitioner (empty id means all).
	ListByDate(ctx context.Context, date, practitionerID string) ([]*Appointment, error)

	// ListUpcoming returns appointments with date >= fromDate and status
	// scheduled or confirmed, sorted by (date, time) ascending. A limit of 0
	// means no limit.
	ListUpcoming(ctx context.Context, fromDate string, limit int) ([]*Appointment, error)
}
