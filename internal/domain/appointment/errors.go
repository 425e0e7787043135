package appointment

import "errors"

var (
	ErrAppointmentNotFound       = errors.New("appointment not found")
	ErrDuplicateAppointmentID    = errors.New("appointment id already exists")
	ErrSlotUnavailable           = errors.New("requested time slot is not available")
	ErrInvalidStatusTransition   = errors.New("invalid appointment status transition")
	ErrMissingCancellationReason = errors.New("cancellation requires a reason")
	ErrInvalidAppointmentType    = errors.New("invalid appointment type")
	ErrInvalidDuration           = errors.New("appointment duration must be a positive number of minutes")
)
