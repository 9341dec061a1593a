package usecase

import (
	"context"
	"time"

	"suppliermail-backend/internal/importing/domain"
)

// TaskInput is the (possibly human-edited) task content to import.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TaskType    string     `json:"task_type,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	PartNumber  string     `json:"part_number,omitempty"`
	OrderNumber string     `json:"order_number,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
}

// NewProjectInput describes a project to create during import.
type NewProjectInput struct {
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

// ImportRequest commits one email as one task. Exactly one of ProjectID
// (attach to existing) or NewProject (create) must be set.
type ImportRequest struct {
	EmailID    string           `json:"email_id"`
	Task       TaskInput        `json:"task"`
	ProjectID  *string          `json:"project_id,omitempty"`
	NewProject *NewProjectInput `json:"new_project,omitempty"`
}

// ImportResult reports what the commit created.
type ImportResult struct {
	TaskID         string  `json:"task_id"`
	ProjectID      *string `json:"project_id,omitempty"`
	CreatedProject bool    `json:"created_project"`
}

// ImportUsecase is the import transaction manager plus the duplicate guard.
type ImportUsecase interface {
	// CheckDuplicate reports prior imports for a message id, newest first.
	// Pure read, advisory by default.
	CheckDuplicate(messageID string) (*domain.DuplicateCheck, error)

	// Import atomically creates the task, the optional project, and the
	// ledger row. Either all three persist or none do.
	Import(ctx context.Context, userID string, req ImportRequest) (*ImportResult, error)
}
