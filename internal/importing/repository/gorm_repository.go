package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"suppliermail-backend/internal/importing/domain"
)

// gormImportRecordRepository implements ImportRecordRepository using GORM
type gormImportRecordRepository struct {
	db *gorm.DB
}

// NewImportRecordRepository creates a new GORM-based ImportRecordRepository
func NewImportRecordRepository(db *gorm.DB) ImportRecordRepository {
	return &gormImportRecordRepository{db: db}
}

func (r *gormImportRecordRepository) WithTx(tx *gorm.DB) ImportRecordRepository {
	return &gormImportRecordRepository{db: tx}
}

func (r *gormImportRecordRepository) Create(record *domain.ImportRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	return r.db.Create(record).Error
}

func (r *gormImportRecordRepository) FindByMessageID(messageID string) ([]domain.ImportRecord, error) {
	var records []domain.ImportRecord
	err := r.db.Where("message_id = ?", messageID).
		Order("created_at DESC").Find(&records).Error
	return records, err
}
