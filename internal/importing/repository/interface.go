package repository

import (
	"gorm.io/gorm"

	"suppliermail-backend/internal/importing/domain"
)

// ImportRecordRepository defines the interface for the import ledger
type ImportRecordRepository interface {
	// Create appends a ledger row
	Create(record *domain.ImportRecord) error

	// FindByMessageID returns all prior imports for a message, newest first
	FindByMessageID(messageID string) ([]domain.ImportRecord, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) ImportRecordRepository
}
