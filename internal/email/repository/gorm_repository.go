package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"suppliermail-backend/internal/email/domain"
)

// gormEmailRepository implements EmailRepository using GORM
type gormEmailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new GORM-based EmailRepository
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &gormEmailRepository{db: db}
}

func (r *gormEmailRepository) Upsert(email *domain.InboundEmail) error {
	now := time.Now()
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	if email.TranslationStatus == "" {
		email.TranslationStatus = domain.TranslationNone
	}
	email.CreatedAt = now
	email.UpdatedAt = now

	// Conflict on message_id updates mutable source fields only; translation
	// columns stay whatever the translation service last wrote.
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subject", "sender", "body", "received_at", "updated_at",
		}),
	}).Create(email).Error
}

func (r *gormEmailRepository) FindByID(id string) (*domain.InboundEmail, error) {
	var email domain.InboundEmail
	err := r.db.Where("id = ?", id).First(&email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *gormEmailRepository) FindByMessageID(messageID string) (*domain.InboundEmail, error) {
	var email domain.InboundEmail
	err := r.db.Where("message_id = ?", messageID).First(&email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *gormEmailRepository) List(filter domain.EmailFilter) ([]*domain.InboundEmail, int64, error) {
	var emails []*domain.InboundEmail
	var total int64

	query := r.db.Model(&domain.InboundEmail{})

	if filter.TranslationStatus != nil {
		query = query.Where("translation_status = ?", *filter.TranslationStatus)
	}
	if filter.Keyword != "" {
		kw := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where(
			"LOWER(subject) LIKE ? OR LOWER(subject_translated) LIKE ? OR LOWER(sender) LIKE ?",
			kw, kw, kw,
		)
	}
	if filter.ReceivedFrom != nil {
		query = query.Where("received_at >= ?", *filter.ReceivedFrom)
	}
	if filter.ReceivedTo != nil {
		query = query.Where("received_at <= ?", *filter.ReceivedTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	err := query.Order("received_at DESC").Limit(limit).Offset(filter.Offset).Find(&emails).Error
	return emails, total, err
}
