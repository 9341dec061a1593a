// Package apperr defines the error taxonomy shared across the import pipeline.
// Handlers map these to HTTP status codes with errors.As; usecases wrap the
// underlying cause so it stays reachable via errors.Unwrap.
package apperr

import "fmt"

// UpstreamUnavailable signals that an external collaborator (mail source,
// AI provider, directory service) could not be reached. Callers degrade
// gracefully; this is never fatal to the pipeline.
type UpstreamUnavailable struct {
	Service string
	Err     error
}

func (e *UpstreamUnavailable) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *UpstreamUnavailable) Unwrap() error { return e.Err }

// ValidationError rejects a request synchronously for missing or
// contradictory fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError means a referenced entity does not exist (or is archived
// where a live one is required).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ConflictError blocks duplicate import when strict duplicate checking is
// enabled. Never raised in the default advisory mode.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// InternalError wraps an unexpected persistence failure. The only fatal
// class: the surrounding transaction must have rolled back fully.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }
