package usecase

import (
	"fmt"

	"suppliermail-backend/internal/extraction/domain"
)

// PendingError means the job exists but has not completed yet. It carries the
// current status so the caller can decide whether to wait or surface
// "still processing".
type PendingError struct {
	Status domain.JobStatus
}

func (e *PendingError) Error() string {
	return fmt.Sprintf("extraction not ready (status=%s)", e.Status)
}

// FailureError carries the stored error message of a failed job.
type FailureError struct {
	Message string
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Message)
}
