// Package notification turns Gmail push notifications (delivered through a
// Pub/Sub subscription) into mailbox sync triggers, so new supplier mail
// shows up without waiting for a manual sync.
package notification

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	emailusecase "suppliermail-backend/internal/email/usecase"
)

// GmailNotification is the payload Gmail publishes on watch events.
type GmailNotification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    uint64 `json:"historyId"`
}

// Service listens on the Pub/Sub subscription and triggers syncs.
type Service struct {
	client       *pubsub.Client
	subscription string
	emailUsecase emailusecase.EmailUsecase
	logger       *zap.Logger
}

// NewService creates a new notification service
func NewService(ctx context.Context, projectID, subscription string, emailUsecase emailusecase.EmailUsecase, logger *zap.Logger) (*Service, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &Service{
		client:       client,
		subscription: subscription,
		emailUsecase: emailUsecase,
		logger:       logger,
	}, nil
}

// Start blocks receiving messages until the context is canceled.
func (s *Service) Start(ctx context.Context) {
	sub := s.client.Subscription(s.subscription)

	err := sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
	})
	if err != nil {
		s.logger.Error("pubsub receive stopped", zap.Error(err))
	}
}

func (s *Service) handleMessage(ctx context.Context, msg *pubsub.Message) {
	defer msg.Ack()

	var notif GmailNotification
	if err := json.Unmarshal(msg.Data, &notif); err != nil {
		s.logger.Warn("ignoring malformed gmail notification", zap.Error(err))
		return
	}

	s.logger.Debug("gmail push received",
		zap.String("email_address", notif.EmailAddress),
		zap.Uint64("history_id", notif.HistoryID))

	// A push only says "something changed"; a short-window sync picks up
	// whatever is new. Duplicate pushes are harmless because the store
	// upserts by message id.
	result := s.emailUsecase.SyncRecent(ctx, 1)
	if !result.Triggered {
		s.logger.Warn("push-triggered sync not started", zap.String("message", result.Message))
	}
}

// Close releases the Pub/Sub client.
func (s *Service) Close() error {
	return s.client.Close()
}
