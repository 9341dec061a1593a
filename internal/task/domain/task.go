package domain

import "time"

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task is a work item created from an imported supplier email
type Task struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	ProjectID     *string    `json:"project_id,omitempty" gorm:"index"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description,omitempty" gorm:"type:text"`
	TaskType      string     `json:"task_type,omitempty"`
	Priority      Priority   `json:"priority" gorm:"default:medium"`
	Status        TaskStatus `json:"status" gorm:"default:pending"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	PartNumber    string     `json:"part_number,omitempty"`
	OrderNumber   string     `json:"order_number,omitempty"`
	AssigneeID    *string    `json:"assignee_id,omitempty" gorm:"index"`
	SourceEmailID *string    `json:"source_email_id,omitempty" gorm:"index"` // Link to the imported email
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ParsePriority maps free text to a Priority, defaulting to medium
func ParsePriority(p string) Priority {
	switch p {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}
