package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"seizure-care-server/internal/services"
	"seizure-care-server/internal/utils"
)

// PredictHandler serves predictions and model diagnostics.
type PredictHandler struct {
	Service *services.PredictionService
	Log     zerolog.Logger
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(svc *services.PredictionService, log zerolog.Logger) *PredictHandler {
	return &PredictHandler{Service: svc, Log: log}
}

// Predict classifies one EEG feature vector.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req services.PredictRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	res, err := h.Service.Predict(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ModelStatus reports whether the model pair is loaded.
func (h *PredictHandler) ModelStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.ModelStatus())
}

// ReloadModel forces the model pair to be read again. Operators only.
func (h *PredictHandler) ReloadModel(c *gin.Context) {
	st, err := h.Service.ReloadModel(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.Log.Info().Str("source", st.Source).Msg("model reloaded")
	c.JSON(http.StatusOK, st)
}
