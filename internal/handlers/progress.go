package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"seizure-care-server/internal/services"
	"seizure-care-server/internal/utils"
)

// ProgressHandler handles seizure logs and the progress summary.
type ProgressHandler struct {
	Service *services.ProgressService
	Log     zerolog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(svc *services.ProgressService, log zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{Service: svc, Log: log}
}

// LogSeizure records one day of a patient's history.
func (h *ProgressHandler) LogSeizure(c *gin.Context) {
	var req services.LogSeizureRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	entry, err := h.Service.Log(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, "Seizure log recorded successfully", gin.H{
		"log_id": entry.ID,
		"log":    entry,
	})
}

// GetProgress summarizes the history of the matching patients.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	q := services.ProgressQuery{Patient: c.Query("patient")}
	if raw, ok := c.GetQuery("days"); ok {
		days, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, services.CodeInvalidParameter, "Days parameter must be a valid integer")
			return
		}
		q.Days = &days
	}

	report, err := h.Service.Progress(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "", gin.H{"summary": report.Summary, "logs": report.Logs})
}

// GetSeizureLogByID returns one seizure log.
func (h *ProgressHandler) GetSeizureLogByID(c *gin.Context) {
	entry, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "", gin.H{"log": entry})
}

// UpdateSeizureLog changes occurred or notes of a log.
func (h *ProgressHandler) UpdateSeizureLog(c *gin.Context) {
	var req services.UpdateSeizureLogRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	entry, err := h.Service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Seizure log updated successfully", gin.H{"log": entry})
}

// DeleteSeizureLog removes a log.
func (h *ProgressHandler) DeleteSeizureLog(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Seizure log deleted successfully", nil)
}
