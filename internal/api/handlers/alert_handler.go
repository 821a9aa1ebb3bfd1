// backend-go/internal/api/handlers/alert_handler.go
package handlers

import (
	"net/http"

	"github.com/andresuchdata/medforecast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alerts *service.AlertService
}

func NewAlertHandler(alerts *service.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// ListAlerts returns active alerts with severity bands.
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	views, err := h.alerts.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": views})
}

// RecomputeAlerts runs one reconciliation pass on demand.
func (h *AlertHandler) RecomputeAlerts(c *gin.Context) {
	report, err := h.alerts.Recompute(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
