// backend-go/internal/api/handlers/forecast_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andresuchdata/medforecast/backend-go/internal/forecast"
	"github.com/andresuchdata/medforecast/backend-go/internal/model"
	"github.com/andresuchdata/medforecast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ForecastHandler struct {
	forecasts *service.ForecastService
	sales     *service.SalesService
	horizon   int
}

func NewForecastHandler(forecasts *service.ForecastService, sales *service.SalesService, defaultHorizon int) *ForecastHandler {
	if defaultHorizon < 1 {
		defaultHorizon = 1
	}
	return &ForecastHandler{forecasts: forecasts, sales: sales, horizon: defaultHorizon}
}

// UploadSales ingests a parsed weekly sales batch and runs the full
// pipeline: observations, stock, predictions, alerts.
func (h *ForecastHandler) UploadSales(c *gin.Context) {
	var payload struct {
		Records []service.SalesUpload `json:"records" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingest, err := h.sales.Ingest(c.Request.Context(), payload.Records)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.forecasts.RunBatch(c.Request.Context(), h.horizon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ingest":  ingest,
		"report":  report,
	})
}

// RunBatch triggers a forecast-and-alert run over the stored history.
func (h *ForecastHandler) RunBatch(c *gin.Context) {
	report, err := h.forecasts.RunBatch(c.Request.Context(), h.horizon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ForecastMedicine serves an interactive multi-week forecast for one
// medicine without persisting anything.
func (h *ForecastHandler) ForecastMedicine(c *gin.Context) {
	name := c.Param("name")

	weeks := h.horizon
	if raw := c.Query("weeks"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weeks must be an integer between 1 and 12"})
			return
		}
		weeks = parsed
	}

	result, err := h.forecasts.Forecast(c.Request.Context(), name, weeks)
	if err != nil {
		switch {
		case errors.Is(err, forecast.ErrNotConfigured),
			errors.Is(err, forecast.ErrInsufficientHistory),
			errors.Is(err, model.ErrArtifactNotFound):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// LatestPredictions lists the most recent prediction per medicine.
func (h *ForecastHandler) LatestPredictions(c *gin.Context) {
	predictions, err := h.forecasts.LatestPredictions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"predictions": predictions})
}
