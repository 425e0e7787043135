package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/optivue/scheduling/internal/domain/appointment"
	"github.com/optivue/scheduling/internal/service"
)

type AppointmentHandler struct {
	booking *service.BookingService
	query   *service.QueryService
}

func NewAppointmentHandler(booking *service.BookingService, query *service.QueryService) *AppointmentHandler {
	return &AppointmentHandler{booking: booking, query: query}
}

type bookingRequest struct {
	PatientID    string `json:"patientId" binding:"required"`
	PatientName  string `json:"patientName" binding:"required"`
	PatientPhone string `json:"patientPhone"`
	PatientEmail string `json:"patientEmail" binding:"omitempty,email"`

	Date     string                      `json:"date" binding:"required"`
	Time     string                      `json:"time" binding:"required"`
	Duration int                         `json:"duration" binding:"required,gt=0"`
	Type     appointment.AppointmentType `json:"type" binding:"required"`

	PractitionerID   string `json:"practitionerId" binding:"required"`
	PractitionerName string `json:"practitionerName"`

	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

type bookingUpdateRequest struct {
	PatientName  *string `json:"patientName"`
	PatientPhone *string `json:"patientPhone"`
	PatientEmail *string `json:"patientEmail"`

	Date     *string                      `json:"date"`
	Time     *string                      `json:"time"`
	Duration *int                         `json:"duration"`
	Type     *appointment.AppointmentType `json:"type"`

	PractitionerID   *string `json:"practitionerId"`
	PractitionerName *string `json:"practitionerName"`

	Reason *string `json:"reason"`
	Notes  *string `json:"notes"`
}

type statusUpdateRequest struct {
	Status          appointment.AppointmentStatus `json:"status" binding:"required"`
	Reason          string                        `json:"reason"`
	MedicalRecordID string                        `json:"medicalRecordId"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req bookingRequest
	if !bindJSON(c, &req) {
		return
	}

	staff := staffFromContext(c)
	form := &appointment.BookingForm{
		PatientID:        req.PatientID,
		PatientName:      req.PatientName,
		PatientPhone:     req.PatientPhone,
		PatientEmail:     req.PatientEmail,
		Date:             req.Date,
		Time:             req.Time,
		Duration:         req.Duration,
		Type:             req.Type,
		PractitionerID:   req.PractitionerID,
		PractitionerName: req.PractitionerName,
		Reason:           req.Reason,
		Notes:            req.Notes,
	}

	a, err := h.booking.Create(c.Request.Context(), form, appointment.StaffRef{
		ID:   staff.StaffID,
		Name: staff.Name,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	if date := c.Query("date"); date != "" {
		appts, err := h.query.ListByDate(c.Request.Context(), date, c.Query("practitionerId"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, appts)
		return
	}

	appts, err := h.query.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, appts)
}

func (h *AppointmentHandler) ListUpcoming(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 0)
	appts, err := h.query.ListUpcoming(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, appts)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.query.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) ListByPatient(c *gin.Context) {
	appts, err := h.query.ListByPatient(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, appts)
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	practitionerID := c.Query("practitionerId")
	duration := parseQueryInt(c, "duration", 30)

	slots, err := h.booking.GetAvailableSlots(c.Request.Context(), date, practitionerID, duration)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, slots)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req bookingUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	upd := &appointment.BookingUpdate{
		PatientName:      req.PatientName,
		PatientPhone:     req.PatientPhone,
		PatientEmail:     req.PatientEmail,
		Date:             req.Date,
		Time:             req.Time,
		Duration:         req.Duration,
		Type:             req.Type,
		PractitionerID:   req.PractitionerID,
		PractitionerName: req.PractitionerName,
		Reason:           req.Reason,
		Notes:            req.Notes,
	}

	a, err := h.booking.Update(c.Request.Context(), id, upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req statusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.booking.UpdateStatus(c.Request.Context(), id, req.Status, req.Reason, req.MedicalRecordID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.booking.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(204)
}

func (h *AppointmentHandler) SendReminder(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.booking.SendReminder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"reminderSent": true})
}
