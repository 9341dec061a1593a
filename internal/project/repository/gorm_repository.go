package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"suppliermail-backend/internal/project/domain"
)

// gormProjectRepository implements ProjectRepository using GORM
type gormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GORM-based ProjectRepository
func NewGormProjectRepository(db *gorm.DB) ProjectRepository {
	return &gormProjectRepository{db: db}
}

func (r *gormProjectRepository) WithTx(tx *gorm.DB) ProjectRepository {
	return &gormProjectRepository{db: tx}
}

func (r *gormProjectRepository) Create(project *domain.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.Status == "" {
		project.Status = domain.ProjectStatusActive
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	return r.db.Create(project).Error
}

func (r *gormProjectRepository) FindLiveByID(id string) (*domain.Project, error) {
	var project domain.Project
	err := r.db.Where("id = ? AND status = ?", id, domain.ProjectStatusActive).First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}
