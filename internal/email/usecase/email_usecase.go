package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"suppliermail-backend/internal/email/domain"
	"suppliermail-backend/internal/email/repository"
	"suppliermail-backend/pkg/apperr"
	"suppliermail-backend/pkg/mailsource"
)

// emailUsecase implements EmailUsecase
type emailUsecase struct {
	emailRepo  repository.EmailRepository
	source     mailsource.Source
	logger     *zap.Logger
	defaultWin int
	maxWin     int
}

// NewEmailUsecase creates a new instance of emailUsecase
func NewEmailUsecase(emailRepo repository.EmailRepository, source mailsource.Source, logger *zap.Logger, defaultWindowDays, maxWindowDays int) EmailUsecase {
	if defaultWindowDays <= 0 {
		defaultWindowDays = 7
	}
	if maxWindowDays <= 0 {
		maxWindowDays = 90
	}
	return &emailUsecase{
		emailRepo:  emailRepo,
		source:     source,
		logger:     logger,
		defaultWin: defaultWindowDays,
		maxWin:     maxWindowDays,
	}
}

func (u *emailUsecase) SyncRecent(ctx context.Context, windowDays int) SyncResult {
	windowDays = u.clampWindow(windowDays)

	// Cheap reachability check before claiming the fetch is underway. The
	// fetch itself runs detached so the caller never waits on the provider.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := u.source.Ping(pingCtx); err != nil {
		u.logger.Warn("mail source unreachable, sync not triggered", zap.Error(err))
		upErr := &apperr.UpstreamUnavailable{Service: "mail source", Err: err}
		return SyncResult{Triggered: false, Message: upErr.Error()}
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	go u.fetchAndStore(since)

	return SyncResult{
		Triggered: true,
		Message:   fmt.Sprintf("sync triggered for the last %d days", windowDays),
	}
}

func (u *emailUsecase) fetchAndStore(since time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	messages, err := u.source.FetchSince(ctx, since)
	if err != nil {
		u.logger.Error("mail fetch failed", zap.Error(err))
		return
	}

	stored := 0
	for _, msg := range messages {
		if msg.MessageID == "" {
			continue
		}
		email := &domain.InboundEmail{
			MessageID:  msg.MessageID,
			Subject:    msg.Subject,
			Sender:     msg.Sender,
			Body:       msg.Body,
			ReceivedAt: msg.ReceivedAt,
		}
		if err := u.emailRepo.Upsert(email); err != nil {
			u.logger.Error("failed to store email",
				zap.String("message_id", msg.MessageID), zap.Error(err))
			continue
		}
		stored++
	}

	u.logger.Info("mail sync finished",
		zap.Int("fetched", len(messages)), zap.Int("stored", stored))
}

func (u *emailUsecase) clampWindow(windowDays int) int {
	if windowDays <= 0 {
		return u.defaultWin
	}
	if windowDays > u.maxWin {
		return u.maxWin
	}
	return windowDays
}

func (u *emailUsecase) ListEmails(filter domain.EmailFilter) ([]*domain.InboundEmail, int64, error) {
	return u.emailRepo.List(filter)
}

func (u *emailUsecase) GetEmail(id string) (*domain.InboundEmail, error) {
	email, err := u.emailRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if email == nil {
		return nil, &apperr.NotFoundError{Kind: "email", ID: id}
	}
	return email, nil
}
