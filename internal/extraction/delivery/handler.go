package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"suppliermail-backend/internal/extraction/usecase"
	"suppliermail-backend/pkg/apperr"
)

// ExtractionHandler handles extraction job HTTP requests
type ExtractionHandler struct {
	extractionUsecase usecase.ExtractionUsecase
}

// NewExtractionHandler creates a new ExtractionHandler
func NewExtractionHandler(extractionUsecase usecase.ExtractionUsecase) *ExtractionHandler {
	return &ExtractionHandler{extractionUsecase: extractionUsecase}
}

// TriggerExtraction starts (or with force=true retries) extraction for an email
// POST /api/emails/:id/extraction?force=true
func (h *ExtractionHandler) TriggerExtraction(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	job, err := h.extractionUsecase.Trigger(c.Request.Context(), c.Param("id"), force)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// GetExtractionStatus polls the job without blocking
// GET /api/emails/:id/extraction
func (h *ExtractionHandler) GetExtractionStatus(c *gin.Context) {
	job, err := h.extractionUsecase.GetStatus(c.Param("id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetExtractionResult returns the completed extraction, waiting briefly.
// Pending jobs answer 202 with the current status so the client can keep
// polling; failed jobs answer 502 with the stored inference error.
// GET /api/emails/:id/extraction/result
func (h *ExtractionHandler) GetExtractionResult(c *gin.Context) {
	result, err := h.extractionUsecase.Extract(c.Request.Context(), c.Param("id"))
	if err != nil {
		var pending *usecase.PendingError
		if errors.As(err, &pending) {
			c.JSON(http.StatusAccepted, gin.H{"status": pending.Status})
			return
		}
		var failure *usecase.FailureError
		if errors.As(err, &failure) {
			c.JSON(http.StatusBadGateway, gin.H{"status": "failed", "error": failure.Message})
			return
		}
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
