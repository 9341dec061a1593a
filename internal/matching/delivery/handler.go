package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	extractiondomain "suppliermail-backend/internal/extraction/domain"
	extractionusecase "suppliermail-backend/internal/extraction/usecase"
	"suppliermail-backend/internal/matching/usecase"
	"suppliermail-backend/pkg/apperr"
)

// MatchHandler handles entity matching HTTP requests
type MatchHandler struct {
	extractionUsecase extractionusecase.ExtractionUsecase
	matcher           usecase.MatcherUsecase
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(extractionUsecase extractionusecase.ExtractionUsecase, matcher usecase.MatcherUsecase) *MatchHandler {
	return &MatchHandler{
		extractionUsecase: extractionUsecase,
		matcher:           matcher,
	}
}

// GetMatches annotates a completed extraction with directory candidates
// GET /api/emails/:id/extraction/matches
func (h *MatchHandler) GetMatches(c *gin.Context) {
	job, err := h.extractionUsecase.GetStatus(c.Param("id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	if job.Status != extractiondomain.JobStatusCompleted || job.Result == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "extraction is not completed",
			"status": job.Status,
		})
		return
	}

	matches := h.matcher.Match(c.Request.Context(), job.Result)
	c.JSON(http.StatusOK, matches)
}
