// backend-go/internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/andresuchdata/medforecast/backend-go/internal/api/handlers"
	"github.com/andresuchdata/medforecast/backend-go/internal/api/middleware"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository"
	"github.com/andresuchdata/medforecast/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	ForecastService *service.ForecastService
	SalesService    *service.SalesService
	AlertService    *service.AlertService
	Medicines       repository.MedicineRepository
	DefaultHorizon  int
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService, services.SalesService, services.DefaultHorizon)
			forecastGroup := apiGroup.Group("/forecast")
			{
				forecastGroup.POST("/run", forecastHandler.RunBatch)
				forecastGroup.GET("/:name", forecastHandler.ForecastMedicine)
			}
			apiGroup.GET("/predictions/latest", forecastHandler.LatestPredictions)
			if services.SalesService != nil {
				apiGroup.POST("/sales/batch", forecastHandler.UploadSales)
			}
		}

		if services.AlertService != nil {
			alertHandler := handlers.NewAlertHandler(services.AlertService)
			alertGroup := apiGroup.Group("/alerts")
			{
				alertGroup.GET("", alertHandler.ListAlerts)
				alertGroup.POST("/recompute", alertHandler.RecomputeAlerts)
			}
		}

		if services.Medicines != nil {
			medicineHandler := handlers.NewMedicineHandler(services.Medicines)
			apiGroup.GET("/medicines", medicineHandler.ListMedicines)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
