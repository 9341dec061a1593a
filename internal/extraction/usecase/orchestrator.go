package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	emaildomain "suppliermail-backend/internal/email/domain"
	"suppliermail-backend/internal/extraction/domain"
	"suppliermail-backend/internal/extraction/repository"
	"suppliermail-backend/pkg/ai"
	"suppliermail-backend/pkg/apperr"
)

// EmailReader is the slice of the email store the orchestrator needs.
type EmailReader interface {
	FindByID(id string) (*emaildomain.InboundEmail, error)
}

// Options tunes the orchestrator.
type Options struct {
	WorkerCount int           // extraction workers, default 3
	JobTimeout  time.Duration // per-job inference timeout, default 60s
	WaitTimeout time.Duration // how long Extract blocks before PendingError, default 2s
	QueueSize   int           // pending job buffer, default 500
}

// lockStripes bounds the per-email lock pool. Two emails hashing to the same
// stripe just serialize against each other.
const lockStripes = 64

// extractionUsecase implements ExtractionUsecase. A striped per-email mutex
// serializes trigger/claim/store transitions for one email without a global
// lock across all emails.
type extractionUsecase struct {
	jobRepo   repository.JobRepository
	emailRepo EmailReader
	extractor ai.ExtractorService
	logger    *zap.Logger
	opts      Options

	jobQueue chan string // email ids
	workerWg sync.WaitGroup
	started  bool
	startMu  sync.Mutex

	locks [lockStripes]sync.Mutex
}

// NewExtractionUsecase creates a new instance of extractionUsecase
func NewExtractionUsecase(jobRepo repository.JobRepository, emailRepo EmailReader, extractor ai.ExtractorService, logger *zap.Logger, opts Options) ExtractionUsecase {
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 3
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 60 * time.Second
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 2 * time.Second
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 500
	}

	return &extractionUsecase{
		jobRepo:   jobRepo,
		emailRepo: emailRepo,
		extractor: extractor,
		logger:    logger,
		opts:      opts,
		jobQueue:  make(chan string, opts.QueueSize),
	}
}

// Start launches the extraction workers
func (u *extractionUsecase) Start() {
	u.startMu.Lock()
	defer u.startMu.Unlock()

	if u.started {
		return
	}
	for i := 0; i < u.opts.WorkerCount; i++ {
		u.workerWg.Add(1)
		go u.worker()
	}
	u.started = true
	u.logger.Info("extraction workers started", zap.Int("count", u.opts.WorkerCount))
}

// Stop drains the queue and waits for workers to finish
func (u *extractionUsecase) Stop() {
	u.startMu.Lock()
	defer u.startMu.Unlock()

	if !u.started {
		return
	}
	close(u.jobQueue)
	u.workerWg.Wait()
	u.started = false
	u.logger.Info("extraction workers stopped")
}

func (u *extractionUsecase) Trigger(ctx context.Context, emailID string, force bool) (*domain.ExtractionJob, error) {
	lock := u.emailLock(emailID)
	lock.Lock()
	defer lock.Unlock()

	email, err := u.emailRepo.FindByID(emailID)
	if err != nil {
		return nil, err
	}
	if email == nil {
		return nil, &apperr.NotFoundError{Kind: "email", ID: emailID}
	}

	job, err := u.jobRepo.FindByEmailID(emailID)
	if err != nil {
		return nil, err
	}

	if job != nil && job.Status.Active() && !force {
		// Already in flight; hand back the existing job instead of paying
		// for duplicate inference.
		return job, nil
	}

	now := time.Now()
	if job == nil {
		job = &domain.ExtractionJob{EmailID: emailID}
	}
	job.Status = domain.JobStatusTriggered
	job.Attempts++
	job.LastTriggeredAt = &now
	job.Result = nil
	job.ErrorMessage = ""

	// Enqueue before persisting: a full queue must not leave a triggered row
	// behind, or every later non-forced trigger would no-op against a job no
	// worker will ever pick up. The email lock keeps workers from claiming
	// the queued id until the row is saved.
	select {
	case u.jobQueue <- emailID:
	default:
		return nil, &apperr.InternalError{Op: "enqueue extraction", Err: fmt.Errorf("job queue full")}
	}

	if err := u.jobRepo.Save(job); err != nil {
		return nil, err
	}

	u.logger.Info("extraction triggered",
		zap.String("email_id", emailID), zap.Int("attempt", job.Attempts), zap.Bool("force", force))
	return job, nil
}

func (u *extractionUsecase) GetStatus(emailID string) (*domain.ExtractionJob, error) {
	job, err := u.jobRepo.FindByEmailID(emailID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return &domain.ExtractionJob{EmailID: emailID, Status: domain.JobStatusNone}, nil
	}
	return job, nil
}

func (u *extractionUsecase) Extract(ctx context.Context, emailID string) (*domain.TaskExtraction, error) {
	job, err := u.GetStatus(emailID)
	if err != nil {
		return nil, err
	}

	if job.Status == domain.JobStatusNone {
		if job, err = u.Trigger(ctx, emailID, false); err != nil {
			return nil, err
		}
	}

	// Bounded wait: poll for completion until the timeout, then degrade to
	// PendingError. Never blocks past WaitTimeout.
	deadline := time.Now().Add(u.opts.WaitTimeout)
	for {
		switch job.Status {
		case domain.JobStatusCompleted:
			if job.Result == nil {
				return nil, &apperr.InternalError{Op: "read extraction result", Err: fmt.Errorf("completed job has no result")}
			}
			return job.Result, nil
		case domain.JobStatusFailed:
			return nil, &FailureError{Message: job.ErrorMessage}
		}

		if time.Now().After(deadline) {
			return nil, &PendingError{Status: job.Status}
		}

		select {
		case <-ctx.Done():
			return nil, &PendingError{Status: job.Status}
		case <-time.After(100 * time.Millisecond):
		}

		if job, err = u.GetStatus(emailID); err != nil {
			return nil, err
		}
	}
}

func (u *extractionUsecase) worker() {
	defer u.workerWg.Done()

	for emailID := range u.jobQueue {
		u.processJob(emailID)
	}
}

func (u *extractionUsecase) processJob(emailID string) {
	// Claim: only a triggered job may move to processing. The attempt number
	// acts as the claim token; a force retrigger bumps it and this worker's
	// result is discarded as stale.
	claim, email, ok := u.claimJob(emailID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), u.opts.JobTimeout)
	result, err := u.extractor.ExtractTask(ctx, buildEmailText(email))
	cancel()

	if err != nil {
		u.storeFailure(emailID, claim, err)
		return
	}
	if result == nil {
		u.storeFailure(emailID, claim, fmt.Errorf("extractor returned no result"))
		return
	}
	u.storeResult(emailID, claim, toDomainExtraction(result))
}

func (u *extractionUsecase) claimJob(emailID string) (claim int, email *emaildomain.InboundEmail, ok bool) {
	lock := u.emailLock(emailID)
	lock.Lock()
	defer lock.Unlock()

	job, err := u.jobRepo.FindByEmailID(emailID)
	if err != nil || job == nil || job.Status != domain.JobStatusTriggered {
		return 0, nil, false
	}

	email, err = u.emailRepo.FindByID(emailID)
	if err != nil || email == nil {
		return 0, nil, false
	}

	job.Status = domain.JobStatusProcessing
	if err := u.jobRepo.Save(job); err != nil {
		u.logger.Error("failed to mark job processing", zap.String("email_id", emailID), zap.Error(err))
		return 0, nil, false
	}
	return job.Attempts, email, true
}

func (u *extractionUsecase) storeResult(emailID string, claim int, result *domain.TaskExtraction) {
	lock := u.emailLock(emailID)
	lock.Lock()
	defer lock.Unlock()

	job, err := u.jobRepo.FindByEmailID(emailID)
	if err != nil || job == nil || job.Attempts != claim {
		return // superseded by a forced retrigger
	}

	job.Status = domain.JobStatusCompleted
	job.Result = result
	job.ErrorMessage = ""
	if err := u.jobRepo.Save(job); err != nil {
		u.logger.Error("failed to store extraction result", zap.String("email_id", emailID), zap.Error(err))
		return
	}
	u.logger.Info("extraction completed", zap.String("email_id", emailID))
}

func (u *extractionUsecase) storeFailure(emailID string, claim int, cause error) {
	lock := u.emailLock(emailID)
	lock.Lock()
	defer lock.Unlock()

	job, err := u.jobRepo.FindByEmailID(emailID)
	if err != nil || job == nil || job.Attempts != claim {
		return
	}

	job.Status = domain.JobStatusFailed
	job.Result = nil
	job.ErrorMessage = cause.Error()
	if err := u.jobRepo.Save(job); err != nil {
		u.logger.Error("failed to store extraction failure", zap.String("email_id", emailID), zap.Error(err))
		return
	}
	u.logger.Warn("extraction failed", zap.String("email_id", emailID), zap.String("cause", cause.Error()))
}

func (u *extractionUsecase) emailLock(emailID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(emailID))
	return &u.locks[h.Sum32()%lockStripes]
}

func buildEmailText(email *emaildomain.InboundEmail) string {
	return "Subject: " + email.BestSubject() + "\n\n" + email.BestBody()
}

// toDomainExtraction converts the provider payload, parsing the due date.
func toDomainExtraction(e *ai.TaskExtraction) *domain.TaskExtraction {
	out := &domain.TaskExtraction{
		Title:        e.Title,
		Description:  e.Description,
		TaskType:     e.TaskType,
		Priority:     e.Priority,
		PartNumber:   e.PartNumber,
		OrderNumber:  e.OrderNumber,
		CustomerName: e.CustomerName,
		ProjectName:  e.ProjectName,
		AssigneeName: e.AssigneeName,
		ActionItems:  e.ActionItems,
	}

	if e.DueDate != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, e.DueDate); err == nil {
				out.DueDate = &t
				break
			}
		}
	}
	return out
}
