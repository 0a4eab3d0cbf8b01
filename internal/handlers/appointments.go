package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"seizure-care-server/internal/services"
	"seizure-care-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service *services.AppointmentService
	Log     zerolog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc *services.AppointmentService, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{Service: svc, Log: log}
}

// CreateAppointment books a new appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req services.BookAppointmentRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	appt, err := h.Service.Book(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, "Appointment booked successfully", gin.H{
		"appointment_id": appt.ID,
		"appointment":    appt,
	})
}

// GetAppointments lists appointments filtered by patient, doctor and status.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	filter := services.AppointmentFilter{
		Patient: c.Query("patient"),
		Doctor:  c.Query("doctor"),
		Status:  c.Query("status"),
	}

	appts, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "", gin.H{"appointments": appts, "total": len(appts)})
}

// GetAppointmentByID returns one appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appt, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "", gin.H{"appointment": appt})
}

// UpdateAppointmentStatus changes the status of an appointment.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req services.UpdateAppointmentRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	appt, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", gin.H{"appointment": appt})
}
