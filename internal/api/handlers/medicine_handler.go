// backend-go/internal/api/handlers/medicine_handler.go
package handlers

import (
	"net/http"

	"github.com/andresuchdata/medforecast/backend-go/internal/repository"
	"github.com/gin-gonic/gin"
)

type MedicineHandler struct {
	medicines repository.MedicineRepository
}

func NewMedicineHandler(medicines repository.MedicineRepository) *MedicineHandler {
	return &MedicineHandler{medicines: medicines}
}

// ListMedicines returns the full medicine catalog with current stock.
func (h *MedicineHandler) ListMedicines(c *gin.Context) {
	medicines, err := h.medicines.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"medicines": medicines})
}
