package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"flexmarket/internal/api/models"
	"flexmarket/internal/data"
	"flexmarket/internal/lp"
	"flexmarket/internal/pipeline"
	"flexmarket/internal/solver"
)

// RunHandler serves clearing runs.
type RunHandler struct {
	log *zap.Logger

	// Solver overrides the request-configured backend when non-nil
	// (test seam).
	Solver lp.Solver
}

func NewRunHandler(log *zap.Logger) *RunHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RunHandler{log: log}
}

// Run handles POST /api/v1/run.
func (h *RunHandler) Run(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	h.run(c, req)
}

// Benchmark handles GET /api/v1/benchmark: a clearing run on the built-in
// dataset with default options.
func (h *RunHandler) Benchmark(c *gin.Context) {
	h.run(c, models.RunRequest{
		Benchmark:     true,
		IncludeAwards: c.Query("include_awards") == "true",
	})
}

func (h *RunHandler) run(c *gin.Context, req models.RunRequest) {
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

	backend := h.Solver
	if backend == nil {
		backend, err = solver.New(cfg.Solver.Name, cfg.Solver.Executable, cfg.Solver.Options)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INVALID_SOLVER", Message: err.Error()},
			})
			return
		}
	}

	res, err := pipeline.New(backend, h.log).Run(c.Request.Context(), ds)
	if err != nil {
		if errors.Is(err, pipeline.ErrNotOptimal) {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "NOT_OPTIMAL", Message: err.Error()},
			})
			return
		}
		h.log.Error("clearing run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "RUN_ERROR", Message: err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, models.NewRunResponse(ds, res, req.IncludeAwards))
}
