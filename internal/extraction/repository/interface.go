package repository

import (
	"suppliermail-backend/internal/extraction/domain"
)

// JobRepository defines the interface for extraction job storage
type JobRepository interface {
	// FindByEmailID returns the job for an email, or nil when none exists
	FindByEmailID(emailID string) (*domain.ExtractionJob, error)

	// Save inserts or updates the job (one row per email)
	Save(job *domain.ExtractionJob) error
}
