package ai

import (
	"context"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

// FallbackService chains extraction providers: the primary is tried first,
// and connection or quota errors fall through to the secondary. Other errors
// (bad output, parse failures) also fall through, since a second opinion is
// cheap relative to a failed job.
type FallbackService struct {
	primary   ExtractorService
	secondary ExtractorService
	logger    *zap.Logger
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(primary, secondary ExtractorService, logger *zap.Logger) *FallbackService {
	return &FallbackService{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// ExtractTask tries the primary provider, falls back to the secondary on error
func (f *FallbackService) ExtractTask(ctx context.Context, emailText string) (*TaskExtraction, error) {
	if f.primary != nil {
		result, err := f.primary.ExtractTask(ctx, emailText)
		if err == nil {
			return result, nil
		}

		if f.secondary == nil {
			return nil, err
		}

		switch {
		case isConnectionError(err):
			f.logger.Warn("primary extractor unreachable, falling back", zap.Error(err))
		case isQuotaError(err):
			f.logger.Warn("primary extractor quota exhausted, falling back", zap.Error(err))
		default:
			f.logger.Warn("primary extractor failed, falling back", zap.Error(err))
		}
	}

	if f.secondary != nil {
		result, err := f.secondary.ExtractTask(ctx, emailText)
		if err != nil {
			return nil, fmt.Errorf("fallback extraction failed: %w", err)
		}
		return result, nil
	}

	return nil, fmt.Errorf("no AI provider available for extraction")
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}
