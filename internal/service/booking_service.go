package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/optivue/scheduling/internal/domain/appointment"
	"github.com/optivue/scheduling/internal/domain/audit"
	"github.com/optivue/scheduling/internal/schedule"
)

const dateLayout = "2006-01-02"

// BookingService is the only component allowed to mutate the appointment
// store. Create and update hold a per-practitioner lock across the
// "recompute availability, then commit" sequence so two concurrent requests
// for the same slot can never both succeed; status transitions serialize on a
// per-appointment lock.
type BookingService struct {
	repo     appointment.Repository
	hours    schedule.WorkingHours
	auditSvc *AuditService
	log      *zap.Logger
	rec      Recorder
	locks    *keyedMutex

	// Overridable in tests.
	now func() time.Time
}

func NewBookingService(
	repo appointment.Repository,
	hours schedule.WorkingHours,
	auditSvc *AuditService,
	log *zap.Logger,
	rec Recorder,
) *BookingService {
	if rec == nil {
		rec = NopRecorder
	}
	return &BookingService{
		repo:     repo,
		hours:    hours,
		auditSvc: auditSvc,
		log:      log,
		rec:      rec,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

func practitionerKey(id string) string { return "practitioner:" + id }
func recordKey(id uuid.UUID) string    { return "appointment:" + id.String() }

// GetAvailableSlots computes the day's slot grid for a practitioner, marking
// each candidate start occupied or free against current store state. The
// requested duration is validated but the conflict test uses the grid's own
// slot-duration window (see schedule.ComputeSlots).
func (s *BookingService) GetAvailableSlots(ctx context.Context, date, practitionerID string, duration int) ([]schedule.TimeSlot, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if practitionerID == "" {
		return nil, &ValidationError{Fields: []string{"practitionerId is required"}}
	}
	if duration <= 0 {
		return nil, appointment.ErrInvalidDuration
	}

	slots, err := s.computeSlots(ctx, date, practitionerID, uuid.Nil)
	if err != nil {
		return nil, err
	}
	s.rec.SlotQuery()
	return slots, nil
}

// Create books a new appointment. Availability is recomputed inside the
// practitioner lock immediately before commit, so a stale slot list a caller
// may have seen cannot produce a double booking.
func (s *BookingService) Create(ctx context.Context, form *appointment.BookingForm, createdBy appointment.StaffRef) (*appointment.Appointment, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}

	tracer := otel.Tracer("scheduling/booking")
	ctx, span := tracer.Start(ctx, "booking.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("practitioner.id", form.PractitionerID),
		attribute.String("appointment.date", form.Date),
	)

	key := practitionerKey(form.PractitionerID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.ensureSlotFree(ctx, form.Date, form.PractitionerID, form.Time, uuid.Nil); err != nil {
		return nil, err
	}

	endTime, err := schedule.AddClock(form.Time, form.Duration)
	if err != nil {
		return nil, err
	}

	now := s.now()
	a := &appointment.Appointment{
		ID:           uuid.New(),
		PatientID:    form.PatientID,
		PatientName:  form.PatientName,
		PatientPhone: form.PatientPhone,
		PatientEmail: form.PatientEmail,
		Date:         form.Date,
		Time:         form.Time,
		Duration:     form.Duration,
		EndTime:      endTime,
		Type:         form.Type,
		Status:       appointment.StatusScheduled,
		Practitioner: appointment.Practitioner{ID: form.PractitionerID, Name: form.PractitionerName},
		Reason:       form.Reason,
		Notes:        form.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    createdBy,
	}

	if err := s.repo.Insert(ctx, a); err != nil {
		s.log.Error("failed to insert appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.rec.BookingCreated(string(a.Type))
	s.audit(createdBy, audit.ActionCreate, a.ID, fmt.Sprintf(`{"date":%q,"time":%q,"practitioner":%q}`, a.Date, a.Time, a.Practitioner.ID))
	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("number", a.Number),
		zap.String("practitioner_id", a.Practitioner.ID),
		zap.String("date", a.Date),
		zap.String("time", a.Time),
	)

	return a, nil
}

// Update applies a partial update. If any scheduling field changes the same
// availability check as Create runs against fresh store state, with the
// appointment's own reservation excluded from the conflict set.
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, upd *appointment.BookingUpdate) (*appointment.Appointment, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Lock every practitioner involved, in stable order, then the record
	// itself so a concurrent status transition cannot interleave. The record
	// may move between the initial read and acquiring the locks, so the
	// re-read inside them is authoritative; if it reveals a practitioner we
	// do not hold yet, widen the lock set and take them again.
	practitioners := []string{existing.Practitioner.ID}
	if upd.PractitionerID != nil && !slices.Contains(practitioners, *upd.PractitionerID) {
		practitioners = append(practitioners, *upd.PractitionerID)
	}

	var next appointment.Appointment
	for {
		keys := make([]string, 0, len(practitioners)+1)
		for _, p := range practitioners {
			keys = append(keys, practitionerKey(p))
		}
		slices.Sort(keys)
		keys = append(keys, recordKey(id))

		for _, k := range keys {
			s.locks.Lock(k)
		}
		unlock := func() {
			for i := len(keys) - 1; i >= 0; i-- {
				s.locks.Unlock(keys[i])
			}
		}

		existing, err = s.repo.GetByID(ctx, id)
		if err != nil {
			unlock()
			return nil, err
		}
		next = *existing
		applyUpdate(&next, upd)

		widened := false
		for _, p := range []string{existing.Practitioner.ID, next.Practitioner.ID} {
			if !slices.Contains(practitioners, p) {
				practitioners = append(practitioners, p)
				widened = true
			}
		}
		if !widened {
			defer unlock()
			break
		}
		unlock()
	}

	if !next.Type.IsValid() {
		return nil, appointment.ErrInvalidAppointmentType
	}
	if next.Duration <= 0 {
		return nil, appointment.ErrInvalidDuration
	}
	if err := validateDate(next.Date); err != nil {
		return nil, err
	}
	if _, err := schedule.ToMinutes(next.Time); err != nil {
		return nil, err
	}

	// Decided against the in-lock record: a stale earlier read must not let a
	// scheduling change slip past the availability check.
	reschedule := next.Date != existing.Date ||
		next.Time != existing.Time ||
		next.Duration != existing.Duration ||
		next.Practitioner.ID != existing.Practitioner.ID

	if reschedule {
		if err := s.ensureSlotFree(ctx, next.Date, next.Practitioner.ID, next.Time, id); err != nil {
			return nil, err
		}
	}

	endTime, err := schedule.AddClock(next.Time, next.Duration)
	if err != nil {
		return nil, err
	}
	next.EndTime = endTime
	next.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, &next); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	s.audit(next.CreatedBy, audit.ActionUpdate, id, fmt.Sprintf(`{"rescheduled":%t}`, reschedule))
	return &next, nil
}

// UpdateStatus drives the appointment through its lifecycle. Transitions not
// reachable from the current status fail with ErrInvalidStatusTransition and
// leave the record untouched. medicalRecordID is honored only for completion.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, target appointment.AppointmentStatus, reason, medicalRecordID string) (*appointment.Appointment, error) {
	key := recordKey(id)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch target {
	case appointment.StatusConfirmed:
		err = a.Confirm()
	case appointment.StatusInProgress:
		err = a.Start()
	case appointment.StatusCompleted:
		err = a.Complete(medicalRecordID)
	case appointment.StatusCancelled:
		err = a.Cancel(reason)
	case appointment.StatusNoShow:
		err = a.MarkNoShow()
	default:
		err = appointment.ErrInvalidStatusTransition
	}
	if err != nil {
		return nil, err
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Replace(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.rec.StatusTransition(string(target))
	s.audit(a.CreatedBy, audit.ActionUpdate, id, fmt.Sprintf(`{"status":%q}`, target))
	s.log.Info("appointment status changed",
		zap.String("appointment_id", id.String()),
		zap.String("status", string(target)),
	)
	return a, nil
}

// Delete removes the record irrecoverably, regardless of status. The source
// system places no lifecycle restriction on delete; completed appointments
// with a linked medical record can be removed too, which is a known
// data-integrity gap kept for compatibility.
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	key := recordKey(id)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}

	s.audit(appointment.StaffRef{}, audit.ActionDelete, id, "")
	s.log.Info("appointment deleted", zap.String("appointment_id", id.String()))
	return nil
}

// SendReminder marks the appointment's reminder as dispatched. Delivery
// itself is owned by the notification system.
func (s *BookingService) SendReminder(ctx context.Context, id uuid.UUID) error {
	key := recordKey(id)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := s.now()
	a.ReminderSent = true
	a.ReminderSentAt = &now
	a.UpdatedAt = now

	if err := s.repo.Replace(ctx, a); err != nil {
		return fmt.Errorf("marking reminder sent: %w", err)
	}

	s.rec.ReminderMarked()
	return nil
}

// ensureSlotFree recomputes the slot grid from current store state and fails
// with ErrSlotUnavailable unless the requested start is a grid slot and free.
func (s *BookingService) ensureSlotFree(ctx context.Context, date, practitionerID, startTime string, excludeID uuid.UUID) error {
	slots, err := s.computeSlots(ctx, date, practitionerID, excludeID)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		if slot.Time == startTime {
			if slot.Available {
				return nil
			}
			s.rec.BookingConflict()
			return appointment.ErrSlotUnavailable
		}
	}
	// Start times off the grid (including outside working hours) are not
	// bookable.
	s.rec.BookingConflict()
	return appointment.ErrSlotUnavailable
}

func (s *BookingService) computeSlots(ctx context.Context, date, practitionerID string, excludeID uuid.UUID) ([]schedule.TimeSlot, error) {
	appts, err := s.repo.ListByDate(ctx, date, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("loading appointments for %s/%s: %w", practitionerID, date, err)
	}

	busy := make([]schedule.BusyInterval, 0, len(appts))
	for _, a := range appts {
		if a.ID == excludeID || !a.Occupies() {
			continue
		}
		start, err := schedule.ToMinutes(a.Time)
		if err != nil {
			return nil, fmt.Errorf("stored appointment %s has bad time %q: %w", a.ID, a.Time, err)
		}
		busy = append(busy, schedule.BusyInterval{
			AppointmentID: a.ID.String(),
			Start:         start,
			End:           start + a.Duration,
		})
	}

	return schedule.ComputeSlots(s.hours, busy)
}

func (s *BookingService) audit(actor appointment.StaffRef, action audit.Action, id uuid.UUID, details string) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.LogAsync(&audit.Entry{
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		Action:       action,
		ResourceType: "appointment",
		ResourceID:   id.String(),
		Details:      details,
		OccurredAt:   s.now(),
	})
}

func validateForm(form *appointment.BookingForm) error {
	var missing []string
	if form.PatientID == "" {
		missing = append(missing, "patientId is required")
	}
	if form.PatientName == "" {
		missing = append(missing, "patientName is required")
	}
	if form.PractitionerID == "" {
		missing = append(missing, "practitionerId is required")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	if err := validateDate(form.Date); err != nil {
		return err
	}
	if _, err := schedule.ToMinutes(form.Time); err != nil {
		return err
	}
	if form.Duration <= 0 {
		return appointment.ErrInvalidDuration
	}
	if !form.Type.IsValid() {
		return appointment.ErrInvalidAppointmentType
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return &ValidationError{Fields: []string{fmt.Sprintf("date %q must be YYYY-MM-DD", date)}}
	}
	return nil
}

func applyUpdate(a *appointment.Appointment, upd *appointment.BookingUpdate) {
	if upd.PatientName != nil {
		a.PatientName = *upd.PatientName
	}
	if upd.PatientPhone != nil {
		a.PatientPhone = *upd.PatientPhone
	}
	if upd.PatientEmail != nil {
		a.PatientEmail = *upd.PatientEmail
	}
	if upd.Date != nil {
		a.Date = *upd.Date
	}
	if upd.Time != nil {
		a.Time = *upd.Time
	}
	if upd.Duration != nil {
		a.Duration = *upd.Duration
	}
	if upd.Type != nil {
		a.Type = *upd.Type
	}
	if upd.PractitionerID != nil {
		a.Practitioner.ID = *upd.PractitionerID
	}
	if upd.PractitionerName != nil {
		a.Practitioner.Name = *upd.PractitionerName
	}
	if upd.Reason != nil {
		a.Reason = *upd.Reason
	}
	if upd.Notes != nil {
		a.Notes = *upd.Notes
	}
}
