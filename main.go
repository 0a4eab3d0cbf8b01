package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"seizure-care-server/internal/config"
	"seizure-care-server/internal/events"
	"seizure-care-server/internal/logger"
	"seizure-care-server/internal/middleware"
	"seizure-care-server/internal/models"
	"seizure-care-server/internal/prediction"
	"seizure-care-server/internal/routes"
	"seizure-care-server/internal/services"
	"seizure-care-server/internal/store"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil {
		log.Warn().Err(envErr).Msg("no .env file loaded, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Error connecting to database")
	}

	source, err := modelSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring model source")
	}
	loader := prediction.NewLoader(source, cfg.Model.ModelFile, cfg.Model.ScalerFile, prediction.DecodeArtifacts)
	if _, err := loader.Get(ctx); err != nil {
		log.Warn().Err(err).Str("source", source.Location()).Msg("model not loaded; predictions will retry on demand")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing events to kafka")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("closing event publisher")
		}
	}()

	deps := services.Deps{Publisher: publisher, Logger: log}
	svc := routes.Services{
		Appointments: services.NewAppointmentService(stores.appointments, deps),
		Medication:   services.NewMedicationService(stores.medications, deps),
		Progress:     services.NewProgressService(stores.seizureLogs, deps),
		Prediction:   services.NewPredictionService(prediction.NewAdapter(loader, nil), loader),
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	if len(cfg.Origins) == 1 && cfg.Origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, svc, cfg, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type resourceStores struct {
	appointments store.Store[*models.Appointment]
	medications  store.Store[*models.Medication]
	seizureLogs  store.Store[*models.SeizureLog]
}

func openStores(cfg *config.Config, log zerolog.Logger) (resourceStores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		return resourceStores{
			appointments: store.NewMemoryStore[*models.Appointment](),
			medications:  store.NewMemoryStore[*models.Medication](),
			seizureLogs:  store.NewMemoryStore[*models.SeizureLog](),
		}, nil
	}

	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.StoreDriver,
		DSN:    cfg.Database.DSN,
		Logger: log,
	})
	if err != nil {
		return resourceStores{}, err
	}
	return resourceStores{
		appointments: store.NewGormStore(db, func() *models.Appointment { return &models.Appointment{} }),
		medications:  store.NewGormStore(db, func() *models.Medication { return &models.Medication{} }),
		seizureLogs:  store.NewGormStore(db, func() *models.SeizureLog { return &models.SeizureLog{} }),
	}, nil
}

func modelSource(ctx context.Context, cfg *config.Config) (prediction.ArtifactSource, error) {
	if cfg.Model.Source == config.ModelSourceS3 {
		src, err := prediction.NewS3Source(ctx, cfg.Model.S3Bucket, cfg.Model.Dir)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return prediction.FileSource{Dir: cfg.Model.Dir}, nil
}
