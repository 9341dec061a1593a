package usecase

import (
	"context"

	"suppliermail-backend/internal/email/domain"
)

// SyncResult reports whether a background fetch was started.
type SyncResult struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// EmailUsecase defines the interface for the email store and the mailbox
// sync coordinator.
type EmailUsecase interface {
	// SyncRecent signals the mail source to fetch messages from the last
	// windowDays days. Fire-and-forget: new rows appear asynchronously and
	// callers re-query to observe them. windowDays is clamped, not rejected.
	SyncRecent(ctx context.Context, windowDays int) SyncResult

	// ListEmails returns stored emails matching the filter
	ListEmails(filter domain.EmailFilter) ([]*domain.InboundEmail, int64, error)

	// GetEmail returns a stored email by row id
	GetEmail(id string) (*domain.InboundEmail, error)
}
