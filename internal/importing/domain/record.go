package domain

import "time"

// ImportRecord is the append-only ledger entry proving an email was turned
// into a task. It is written in the same transaction as the task (and the
// optional project); without it, duplicate detection would be blind for
// that email. Re-import is permitted, so one message id may own several rows.
type ImportRecord struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	MessageID string    `json:"message_id" gorm:"index;not null"`
	EmailID   string    `json:"email_id" gorm:"index;not null"`
	TaskID    string    `json:"task_id" gorm:"not null"`
	ProjectID *string   `json:"project_id,omitempty"`
	UserID    string    `json:"user_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// DuplicateCheck is the Duplicate Guard's answer for one message id.
type DuplicateCheck struct {
	IsDuplicate     bool           `json:"is_duplicate"`
	ExistingImports []ImportRecord `json:"existing_imports"`
}
