package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seizure-care-server/internal/services"
	"seizure-care-server/internal/utils"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", &services.Error{Kind: services.KindValidation, Code: services.CodeInvalidTimes, Message: "bad"}, http.StatusBadRequest, services.CodeInvalidTimes},
		{"not found", &services.Error{Kind: services.KindNotFound, Code: services.CodeNotFound}, http.StatusNotFound, services.CodeNotFound},
		{"conflict", &services.Error{Kind: services.KindConflict, Code: services.CodeDuplicateLog}, http.StatusConflict, services.CodeDuplicateLog},
		{"unavailable", &services.Error{Kind: services.KindUnavailable, Code: services.CodeModelUnavailable}, http.StatusInternalServerError, services.CodeModelUnavailable},
		{"plain error", errors.New("disk on fire"), http.StatusInternalServerError, services.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zerolog.Nop(), tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			var body utils.ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Error)
			assert.NotContains(t, body.Message, "disk on fire")
		})
	}
}
