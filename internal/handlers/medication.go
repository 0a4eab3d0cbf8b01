package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"seizure-care-server/internal/services"
	"seizure-care-server/internal/utils"
)

// MedicationHandler handles medication schedule requests.
type MedicationHandler struct {
	Service *services.MedicationService
	Log     zerolog.Logger
}

// NewMedicationHandler creates a new MedicationHandler.
func NewMedicationHandler(svc *services.MedicationService, log zerolog.Logger) *MedicationHandler {
	return &MedicationHandler{Service: svc, Log: log}
}

// CreateMedication schedules a medication for a patient.
func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	var req services.ScheduleMedicationRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	med, err := h.Service.Schedule(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, "Medication scheduled successfully", gin.H{
		"medication_id": med.ID,
		"medication":    med,
	})
}

// GetMedications lists schedules filtered by patient and status.
func (h *MedicationHandler) GetMedications(c *gin.Context) {
	filter := services.MedicationFilter{
		Patient: c.Query("patient"),
		Status:  c.Query("status"),
	}

	meds, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "", gin.H{"medications": meds, "total": len(meds)})
}

// GetMedicationByID returns one schedule.
func (h *MedicationHandler) GetMedicationByID(c *gin.Context) {
	med, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "", gin.H{"medication": med})
}

// UpdateMedication applies a partial update to a schedule.
func (h *MedicationHandler) UpdateMedication(c *gin.Context) {
	var req services.UpdateMedicationRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	med, err := h.Service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Medication updated successfully", gin.H{"medication": med})
}

// DeleteMedication removes a schedule.
func (h *MedicationHandler) DeleteMedication(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Medication deleted successfully", nil)
}
