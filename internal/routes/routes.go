package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"seizure-care-server/internal/config"
	"seizure-care-server/internal/handlers"
	"seizure-care-server/internal/middleware"
	"seizure-care-server/internal/models"
	"seizure-care-server/internal/services"
)

// Services are the operations exposed over HTTP.
type Services struct {
	Appointments *services.AppointmentService
	Medication   *services.MedicationService
	Progress     *services.ProgressService
	Prediction   *services.PredictionService
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, svc Services, cfg *config.Config, log zerolog.Logger) {
	authHandler := handlers.NewAuthHandler(cfg, log)
	appointmentHandler := handlers.NewAppointmentHandler(svc.Appointments, log)
	medicationHandler := handlers.NewMedicationHandler(svc.Medication, log)
	progressHandler := handlers.NewProgressHandler(svc.Progress, log)
	predictHandler := handlers.NewPredictHandler(svc.Prediction, log)

	router.GET("/", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/health", handlers.APIHealth)
		api.POST("/auth/token", authHandler.IssueToken)

		api.POST("/predict", predictHandler.Predict)

		appointmentRoutes := api.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointmentStatus)
		}

		medicationRoutes := api.Group("/medication")
		{
			medicationRoutes.POST("", medicationHandler.CreateMedication)
			medicationRoutes.GET("", medicationHandler.GetMedications)
			medicationRoutes.GET("/:id", medicationHandler.GetMedicationByID)
			medicationRoutes.PUT("/:id", medicationHandler.UpdateMedication)
			medicationRoutes.DELETE("/:id", medicationHandler.DeleteMedication)
		}

		progressRoutes := api.Group("/progress")
		{
			progressRoutes.POST("", progressHandler.LogSeizure)
			progressRoutes.GET("", progressHandler.GetProgress)
			progressRoutes.GET("/:id", progressHandler.GetSeizureLogByID)
			progressRoutes.PUT("/:id", progressHandler.UpdateSeizureLog)
			progressRoutes.DELETE("/:id", progressHandler.DeleteSeizureLog)
		}

		diagnostics := api.Group("/diagnostics")
		{
			diagnostics.GET("/model", predictHandler.ModelStatus)

			// Operator-only routes
			operator := diagnostics.Group("")
			operator.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				operator.POST("/model/reload", predictHandler.ReloadModel)
			}
		}
	}

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		router.Static("/static", cfg.StaticDir)
	}
}
