package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"suppliermail-backend/internal/importing/usecase"
	"suppliermail-backend/pkg/apperr"
)

// ImportHandler handles import and duplicate-check HTTP requests
type ImportHandler struct {
	importUsecase usecase.ImportUsecase
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importUsecase usecase.ImportUsecase) *ImportHandler {
	return &ImportHandler{importUsecase: importUsecase}
}

// CheckDuplicate reports prior imports for a message id
// GET /api/imports/check?message_id=...
func (h *ImportHandler) CheckDuplicate(c *gin.Context) {
	messageID := c.Query("message_id")
	if messageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message_id is required"})
		return
	}

	check, err := h.importUsecase.CheckDuplicate(messageID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, check)
}

// ImportTaskRequest is the wire form of an import commit
type ImportTaskRequest struct {
	EmailID string `json:"email_id" binding:"required"`
	Task    struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		TaskType    string  `json:"task_type"`
		Priority    string  `json:"priority"`
		DueDate     *string `json:"due_date"`
		PartNumber  string  `json:"part_number"`
		OrderNumber string  `json:"order_number"`
		AssigneeID  *string `json:"assignee_id"`
	} `json:"task"`
	ProjectID  *string `json:"project_id"`
	NewProject *struct {
		Name         string `json:"name"`
		Code         string `json:"code"`
		CustomerName string `json:"customer_name"`
	} `json:"new_project"`
}

// ImportEmail commits one email as one task
// POST /api/imports
func (h *ImportHandler) ImportEmail(c *gin.Context) {
	userID := c.GetString("userID")

	var req ImportTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.ImportRequest{
		EmailID:   req.EmailID,
		ProjectID: req.ProjectID,
		Task: usecase.TaskInput{
			Title:       req.Task.Title,
			Description: req.Task.Description,
			TaskType:    req.Task.TaskType,
			Priority:    req.Task.Priority,
			PartNumber:  req.Task.PartNumber,
			OrderNumber: req.Task.OrderNumber,
			AssigneeID:  req.Task.AssigneeID,
		},
	}
	if req.Task.DueDate != nil && *req.Task.DueDate != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, *req.Task.DueDate); err == nil {
				input.Task.DueDate = &t
				break
			}
		}
	}
	if req.NewProject != nil {
		input.NewProject = &usecase.NewProjectInput{
			Name:         req.NewProject.Name,
			Code:         req.NewProject.Code,
			CustomerName: req.NewProject.CustomerName,
		}
	}

	result, err := h.importUsecase.Import(c.Request.Context(), userID, input)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}
