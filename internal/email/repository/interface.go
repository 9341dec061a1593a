package repository

import (
	"suppliermail-backend/internal/email/domain"
)

// EmailRepository defines the interface for inbound email storage
type EmailRepository interface {
	// Upsert stores an email keyed by message_id. Re-syncing the same message
	// updates subject/sender/body in place; translation fields are never
	// touched here (the translation service owns them).
	Upsert(email *domain.InboundEmail) error

	// FindByID finds an email by its row id
	FindByID(id string) (*domain.InboundEmail, error)

	// FindByMessageID finds an email by its mail-source message id
	FindByMessageID(messageID string) (*domain.InboundEmail, error)

	// List returns emails matching the filter, newest first, with the total count
	List(filter domain.EmailFilter) ([]*domain.InboundEmail, int64, error)
}
