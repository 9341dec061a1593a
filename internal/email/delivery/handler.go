package delivery

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"suppliermail-backend/internal/email/domain"
	"suppliermail-backend/internal/email/usecase"
	"suppliermail-backend/pkg/apperr"
)

// EmailHandler handles email-related HTTP requests
type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{emailUsecase: emailUsecase}
}

// SyncRequest represents the request body for triggering a mailbox sync
type SyncRequest struct {
	WindowDays int `json:"window_days"`
}

// SyncEmails triggers a bounded-window pull from the mail source
// POST /api/emails/sync
func (h *EmailHandler) SyncEmails(c *gin.Context) {
	var req SyncRequest
	// Empty body means default window
	_ = c.ShouldBindJSON(&req)

	result := h.emailUsecase.SyncRecent(c.Request.Context(), req.WindowDays)

	status := http.StatusAccepted
	if !result.Triggered {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, result)
}

// ListEmails returns stored emails
// GET /api/emails?translation_status=completed&keyword=&from=&to=&limit=50&offset=0
func (h *EmailHandler) ListEmails(c *gin.Context) {
	filter := domain.EmailFilter{
		Keyword: c.Query("keyword"),
	}

	if status := c.Query("translation_status"); status != "" {
		s := domain.TranslationStatus(status)
		filter.TranslationStatus = &s
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.ReceivedFrom = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.ReceivedTo = &t
		}
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	emails, total, err := h.emailUsecase.ListEmails(filter)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"emails": emails,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetEmail returns a single email
// GET /api/emails/:id
func (h *EmailHandler) GetEmail(c *gin.Context) {
	email, err := h.emailUsecase.GetEmail(c.Param("id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, email)
}
