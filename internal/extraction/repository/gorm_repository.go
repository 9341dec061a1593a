package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"suppliermail-backend/internal/extraction/domain"
)

// gormJobRepository implements JobRepository using GORM
type gormJobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new GORM-based JobRepository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &gormJobRepository{db: db}
}

func (r *gormJobRepository) FindByEmailID(emailID string) (*domain.ExtractionJob, error) {
	var job domain.ExtractionJob
	err := r.db.Where("email_id = ?", emailID).First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *gormJobRepository) Save(job *domain.ExtractionJob) error {
	now := time.Now()
	if job.ID == "" {
		job.ID = uuid.New().String()
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	return r.db.Save(job).Error
}
