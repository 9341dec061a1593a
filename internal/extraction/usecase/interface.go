package usecase

import (
	"context"

	"suppliermail-backend/internal/extraction/domain"
)

// ExtractionUsecase orchestrates the per-email extraction job lifecycle.
type ExtractionUsecase interface {
	// Trigger starts (or retries, with force) extraction for an email. While
	// a job is triggered or processing and force is false, this is a no-op
	// returning the existing job.
	Trigger(ctx context.Context, emailID string, force bool) (*domain.ExtractionJob, error)

	// GetStatus returns the current job without blocking. When no job exists
	// it returns a job with status none.
	GetStatus(emailID string) (*domain.ExtractionJob, error)

	// Extract triggers if needed, waits briefly, then returns the completed
	// result, a *PendingError, or a *FailureError.
	Extract(ctx context.Context, emailID string) (*domain.TaskExtraction, error)

	// Start launches the worker pool; Stop drains it.
	Start()
	Stop()
}
