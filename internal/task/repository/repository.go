package repository

import (
	"gorm.io/gorm"

	"suppliermail-backend/internal/task/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *domain.Task) error

	// FindByID finds a task by its ID
	FindByID(id string) (*domain.Task, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) TaskRepository
}
