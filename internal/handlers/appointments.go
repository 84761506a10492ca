package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Scheduler *scheduling.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(scheduler *scheduling.Service) *AppointmentHandler {
	return &AppointmentHandler{Scheduler: scheduler}
}

// BookAppointmentRequest represents the request body for booking a
// treatment cycle.
type BookAppointmentRequest struct {
	PatientID    string `json:"patientId" binding:"required"`
	SelectedDate string `json:"selectedDate" binding:"required"`
	SelectedTime string `json:"selectedTime" binding:"required"`
}

// BookAppointment books a full treatment cycle (3 sessions) starting at
// the selected slot.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointments, err := h.Scheduler.BookCycle(
		c.Request.Context(), req.PatientID, req.SelectedDate, req.SelectedTime)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment booked successfully", appointments)
}

// GetAppointmentsByPatient returns all appointments of one patient.
func (h *AppointmentHandler) GetAppointmentsByPatient(c *gin.Context) {
	patientID := c.Param("patientId")
	if patientID == "" {
		utils.BadRequest(c, "Patient ID is required.")
		return
	}

	appointments, err := h.Scheduler.AppointmentsFor(c.Request.Context(), patientID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// UpdateAppointmentRequest represents the request body for rescheduling
// an appointment.
type UpdateAppointmentRequest struct {
	NewDate string `json:"newDate" binding:"required"`
	NewTime string `json:"newTime" binding:"required"`
}

// UpdateAppointment reschedules a single appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	appointmentID := c.Param("appointmentId")
	if appointmentID == "" {
		utils.BadRequest(c, "Appointment ID is required")
		return
	}

	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Scheduler.Reschedule(
		c.Request.Context(), appointmentID, req.NewDate, req.NewTime)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment updated successfully", appointment)
}

// DeleteAppointment deletes a single appointment by its ID.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	appointmentID := c.Param("appointmentId")
	if appointmentID == "" {
		utils.BadRequest(c, "Appointment ID is required")
		return
	}

	if err := h.Scheduler.CancelAppointment(c.Request.Context(), appointmentID); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}

// DeleteAppointmentsByPatient deletes every appointment of one patient.
func (h *AppointmentHandler) DeleteAppointmentsByPatient(c *gin.Context) {
	patientID := c.Param("patientId")
	if patientID == "" {
		utils.BadRequest(c, "Patient ID is required")
		return
	}

	if err := h.Scheduler.CancelAllForPatient(c.Request.Context(), patientID); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}

// respondSchedulingError maps a scheduling error onto the response
// envelope; anything untyped becomes a 500.
func respondSchedulingError(c *gin.Context, err error) {
	var schedErr *scheduling.Error
	if errors.As(err, &schedErr) {
		utils.Error(c, schedErr.Status, schedErr.Message)
		return
	}
	utils.InternalServerError(c, err.Error())
}
