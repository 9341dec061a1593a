package apperr

import (
	"errors"
	"net/http"
)

// HTTPStatus maps taxonomy errors to response codes. Anything unrecognized
// is treated as internal.
func HTTPStatus(err error) int {
	var (
		upstream   *UpstreamUnavailable
		validation *ValidationError
		notFound   *NotFoundError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &upstream):
		return http.StatusServiceUnavailable
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
