package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Success sends a 200 response with status "success", message and the
// fields of data merged in.
func Success(c *gin.Context, message string, data gin.H) {
	c.JSON(http.StatusOK, successBody(message, data))
}

// Created sends a 201 response shaped like Success.
func Created(c *gin.Context, message string, data gin.H) {
	c.JSON(http.StatusCreated, successBody(message, data))
}

func successBody(message string, data gin.H) gin.H {
	body := gin.H{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	for k, v := range data {
		body[k] = v
	}
	return body
}

// Error sends an error response with a machine-readable code.
func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, ErrorBody{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, code, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "unauthorized", message)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, "forbidden", message)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "not_found", message)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, "internal_error", message)
}
