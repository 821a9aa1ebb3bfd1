// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/medforecast/backend-go/internal/alert"
	"github.com/andresuchdata/medforecast/backend-go/internal/api"
	"github.com/andresuchdata/medforecast/backend-go/internal/cache"
	"github.com/andresuchdata/medforecast/backend-go/internal/config"
	"github.com/andresuchdata/medforecast/backend-go/internal/forecast"
	"github.com/andresuchdata/medforecast/backend-go/internal/model"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/medforecast/backend-go/internal/service"
	"github.com/andresuchdata/medforecast/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Model artifact source
	store, err := newArtifactStore(&cfg.Models)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize model store")
	}
	registry := model.NewStoreRegistry(store)

	dispatcher := forecast.NewDispatcher(forecast.Routing{
		Tabular:    cfg.Forecast.TabularMedicines,
		Sequential: cfg.Forecast.SequentialMedicines,
	}, registry)

	// Repositories
	medicineRepo := postgres.NewMedicineRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	predictionRepo := postgres.NewPredictionRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	manager := alert.NewManager(postgres.NewAlertStore(db), cfg.Alerts.ExpiryAlertDays)

	predictionCache, err := cache.NewPredictionCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		predictionCache = cache.NewNoopPredictionCache()
	}

	// Initialize services
	forecastService := service.NewForecastService(
		medicineRepo, salesRepo, predictionRepo,
		dispatcher, manager, predictionCache,
		cfg.Forecast.WorkerCount,
	)
	salesService := service.NewSalesService(medicineRepo, salesRepo)
	alertService := service.NewAlertService(alertRepo, medicineRepo, predictionRepo, manager)

	router := api.NewRouter(&api.Services{
		ForecastService: forecastService,
		SalesService:    salesService,
		AlertService:    alertService,
		Medicines:       medicineRepo,
		DefaultHorizon:  cfg.Forecast.HorizonWeeks,
	}, cfg.Server.AllowedOrigins)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func newArtifactStore(cfg *config.ModelsConfig) (model.ArtifactStore, error) {
	if cfg.Source == "s3" {
		return model.NewObjectStore(model.ObjectStoreConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
	}
	return model.NewLocalStore(cfg.ModelDir), nil
}
