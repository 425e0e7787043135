package appointment

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentType string

const (
	TypeEyeExam            AppointmentType = "eye-exam"
	TypeContactLensFitting AppointmentType = "contact-lens-fitting"
	TypeFollowUp           AppointmentType = "followup"
	TypeEmergency          AppointmentType = "emergency"
	TypeFrameSelection     AppointmentType = "frame-selection"
	TypeAdjustment         AppointmentType = "adjustment"
)

func (t AppointmentType) IsValid() bool {
	switch t {
	case TypeEyeExam, TypeContactLensFitting, TypeFollowUp, TypeEmergency, TypeFrameSelection, TypeAdjustment:
		return true
	}
	return false
}

// State transitions possibilities:
//
//	scheduled → confirmed → in-progress → completed
//	scheduled → cancelled | no-show
//	confirmed → cancelled | no-show
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in-progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no-show"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Practitioner is an opaque reference into the staff directory; the name is a
// display snapshot captured at booking time.
type Practitioner struct {
	ID   string `json:"id" gorm:"column:id;type:varchar(50);not null;index"`
	Name string `json:"name" gorm:"column:name;type:varchar(100)"`
}

// StaffRef records who created the appointment.
type StaffRef struct {
	ID   uuid.UUID `json:"id" gorm:"column:id;type:uuid"`
	Name string    `json:"name" gorm:"column:name;type:varchar(100)"`
}

type Appointment struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Number string    `json:"appointmentNumber" gorm:"column:number;type:varchar(20);uniqueIndex;not null"`

	// Patient contact data is a snapshot from the patient directory, taken at
	// booking time and never re-synced.
	PatientID    string `json:"patientId" gorm:"column:patient_id;type:varchar(50);not null;index"`
	PatientName  string `json:"patientName" gorm:"column:patient_name;type:varchar(100);not null"`
	PatientPhone string `json:"patientPhone" gorm:"column:patient_phone;type:varchar(30)"`
	PatientEmail string `json:"patientEmail,omitempty" gorm:"column:patient_email;type:varchar(255)"`

	Date     string `json:"date" gorm:"column:date;type:varchar(10);not null;index"`
	Time     string `json:"time" gorm:"column:time;type:varchar(5);not null"`
	Duration int    `json:"duration" gorm:"column:duration_mins;not null"`
	// EndTime is always Time + Duration modulo a day; derived, never supplied.
	EndTime string `json:"endTime" gorm:"column:end_time;type:varchar(5);not null"`

	Type         AppointmentType   `json:"type" gorm:"column:type;type:varchar(30);not null;index"`
	Status       AppointmentStatus `json:"status" gorm:"column:status;type:varchar(20);not null;index"`
	Practitioner Practitioner      `json:"practitioner" gorm:"embedded;embeddedPrefix:practitioner_"`

	Reason string `json:"reason,omitempty" gorm:"column:reason;type:text"`
	Notes  string `json:"notes,omitempty" gorm:"column:notes;type:text"`

	ReminderSent   bool       `json:"reminderSent" gorm:"column:reminder_sent;default:false"`
	ReminderSentAt *time.Time `json:"reminderSentAt,omitempty" gorm:"column:reminder_sent_at"`

	// Set only when the appointment completes with a clinical record attached.
	MedicalRecordID string `json:"medicalRecordId,omitempty" gorm:"column:medical_record_id;type:varchar(50)"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
	CreatedBy StaffRef  `json:"createdBy" gorm:"embedded;embeddedPrefix:created_by_"`

	ConfirmedAt        *time.Time `json:"confirmedAt,omitempty" gorm:"column:confirmed_at"`
	CompletedAt        *time.Time `json:"completedAt,omitempty" gorm:"column:completed_at"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty" gorm:"column:cancelled_at"`
	CancellationReason string     `json:"cancellationReason,omitempty" gorm:"column:cancellation_reason;type:text"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Occupies reports whether the appointment counts against availability.
// Cancelled and no-show appointments free their slot.
func (a *Appointment) Occupies() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

func (a *Appointment) CanTransitionTo(newStatus AppointmentStatus) bool {
	allowed := map[AppointmentStatus][]AppointmentStatus{
		StatusScheduled:  {StatusConfirmed, StatusCancelled, StatusNoShow},
		StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
		StatusInProgress: {StatusCompleted},
		StatusCompleted:  {},
		StatusCancelled:  {},
		StatusNoShow:     {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Confirm() error {
	if !a.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusConfirmed
	a.ConfirmedAt = &now
	return nil
}

func (a *Appointment) Start() error {
	if !a.CanTransitionTo(StatusInProgress) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusInProgress
	return nil
}

func (a *Appointment) Complete(medicalRecordID string) error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCompleted
	a.CompletedAt = &now
	if medicalRecordID != "" {
		a.MedicalRecordID = medicalRecordID
	}
	return nil
}

func (a *Appointment) Cancel(reason string) error {
	if reason == "" {
		return ErrMissingCancellationReason
	}
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCancelled
	a.CancelledAt = &now
	a.CancellationReason = reason
	return nil
}

// MarkNoShow records that the patient never arrived. The slot stays occupied
// historically but no longer counts against availability.
func (a *Appointment) MarkNoShow() error {
	if !a.CanTransitionTo(StatusNoShow) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusNoShow
	return nil
}

// BookingForm is the create input crossing the engine boundary.
type BookingForm struct {
	PatientID    string
	PatientName  string
	PatientPhone string
	PatientEmail string

	Date     string
	Time     string
	Duration int
	Type     AppointmentType

	PractitionerID   string
	PractitionerName string

	Reason string
	Notes  string
}

// BookingUpdate carries a partial update; nil fields are left untouched.
// Changing date, time, duration, or practitioner re-triggers the availability
// check.
type BookingUpdate struct {
	PatientName  *string
	PatientPhone *string
	PatientEmail *string

	Date     *string
	Time     *string
	Duration *int
	Type     *AppointmentType

	PractitionerID   *string
	PractitionerName *string

	Reason *string
	Notes  *string
}
