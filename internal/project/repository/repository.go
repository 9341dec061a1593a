package repository

import (
	"gorm.io/gorm"

	"suppliermail-backend/internal/project/domain"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *domain.Project) error

	// FindLiveByID finds a non-archived project by ID, nil when absent or archived
	FindLiveByID(id string) (*domain.Project, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) ProjectRepository
}
