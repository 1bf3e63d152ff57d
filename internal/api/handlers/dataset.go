package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flexmarket/internal/api/models"
	"flexmarket/internal/data"
)

// DatasetHandler serves dataset inspection without solving.
type DatasetHandler struct{}

func NewDatasetHandler() *DatasetHandler { return &DatasetHandler{} }

// Inspect handles POST /api/v1/dataset: loads and validates a dataset from
// the request configuration and returns its summary.
func (h *DatasetHandler) Inspect(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	cfg, err := req.ToConfig()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()},
		})
		return
	}

	ds, err := data.BuildDataset(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_DATASET", Message: err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, models.NewDatasetResponse(ds))
}
