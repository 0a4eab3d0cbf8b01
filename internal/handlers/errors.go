package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"seizure-care-server/internal/services"
	"seizure-care-server/internal/utils"
)

// respondError writes err as a JSON error body. Server-side failures are
// logged with their cause; clients only see the service message.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		svcErr = &services.Error{Kind: services.KindInternal, Code: services.CodeInternal, Message: "An unexpected error occurred", Err: err}
	}

	status := statusFor(svcErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(svcErr.Err).
			Str("code", svcErr.Code).
			Str("route", c.FullPath()).
			Msg("request failed")
		_ = c.Error(err)
	}
	utils.Error(c, status, svcErr.Code, svcErr.Message)
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
