package domain

import "time"

// JobStatus is the extraction job state machine:
//
//	none --trigger--> triggered --worker--> processing --> completed | failed
//	completed/failed --trigger (retry)--> triggered
//
// "none" is never persisted; a missing row means none.
type JobStatus string

const (
	JobStatusNone       JobStatus = "none"
	JobStatusTriggered  JobStatus = "triggered"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Active reports whether a job is in flight and a non-forced trigger should
// be a no-op.
func (s JobStatus) Active() bool {
	return s == JobStatusTriggered || s == JobStatusProcessing
}

// TaskExtraction is the immutable result of a completed extraction job.
type TaskExtraction struct {
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	TaskType     string     `json:"task_type,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	PartNumber   string     `json:"part_number,omitempty"`
	OrderNumber  string     `json:"order_number,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	ProjectName  string     `json:"project_name,omitempty"`
	AssigneeName string     `json:"assignee_name,omitempty"`
	ActionItems  []string   `json:"action_items,omitempty"`
}

// ExtractionJob is the at-most-one extraction job per email. Retriggering
// overwrites the row in place; prior attempts are not kept.
type ExtractionJob struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	EmailID         string          `json:"email_id" gorm:"uniqueIndex;not null"`
	Status          JobStatus       `json:"status"`
	Attempts        int             `json:"attempts"`
	LastTriggeredAt *time.Time      `json:"last_triggered_at,omitempty"`
	Result          *TaskExtraction `json:"result,omitempty" gorm:"serializer:json;type:text"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
