package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seizure-care-server/internal/utils"
)

// Version is reported by the root health check.
const Version = "1.0.0"

// Endpoints lists the public API resources.
var Endpoints = []string{
	"/api/predict",
	"/api/appointments",
	"/api/medication",
	"/api/progress",
}

// HealthCheck answers load balancer health checks.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Seizure Prediction API is running",
		"version": Version,
	})
}

// APIHealth lists the available endpoints.
func APIHealth(c *gin.Context) {
	utils.Success(c, "API endpoints are available", gin.H{"endpoints": Endpoints})
}
