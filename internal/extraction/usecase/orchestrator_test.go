package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	emaildomain "suppliermail-backend/internal/email/domain"
	"suppliermail-backend/internal/extraction/domain"
	"suppliermail-backend/internal/extraction/repository"
	"suppliermail-backend/pkg/ai"
)

// fakeExtractor is a controllable model backend. When block is set, calls
// park until the channel is closed, which lets tests freeze a job in
// processing.
type fakeExtractor struct {
	mu     sync.Mutex
	block  chan struct{}
	result *ai.TaskExtraction
	err    error
	calls  int
}

func (f *fakeExtractor) ExtractTask(ctx context.Context, emailText string) (*ai.TaskExtraction, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	result, err := f.result, f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		// Re-read so a test can swap the outcome before releasing.
		f.mu.Lock()
		result, err = f.result, f.err
		f.mu.Unlock()
	}
	if result == nil && err == nil {
		err = errors.New("no result configured")
	}
	return result, err
}

type fakeEmailReader struct {
	emails map[string]*emaildomain.InboundEmail
}

func (f *fakeEmailReader) FindByID(id string) (*emaildomain.InboundEmail, error) {
	return f.emails[id], nil
}

func newTestOrchestrator(t *testing.T, extractor ai.ExtractorService, opts Options) (ExtractionUsecase, repository.JobRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ExtractionJob{}))
	jobRepo := repository.NewJobRepository(db)

	emails := &fakeEmailReader{emails: map[string]*emaildomain.InboundEmail{
		"email-1": {ID: "email-1", MessageID: "<a@supplier.example>", Subject: "Order 4711 delayed", Body: "delivery slips to next week"},
		"email-2": {ID: "email-2", MessageID: "<b@supplier.example>", Subject: "Drawing approval", Body: "please confirm rev C"},
	}}

	uc := NewExtractionUsecase(jobRepo, emails, extractor, zap.NewNop(), opts)
	uc.Start()
	t.Cleanup(uc.Stop)
	return uc, jobRepo
}

func waitForStatus(t *testing.T, uc ExtractionUsecase, emailID string, want domain.JobStatus) *domain.ExtractionJob {
	t.Helper()
	var job *domain.ExtractionJob
	require.Eventually(t, func() bool {
		var err error
		job, err = uc.GetStatus(emailID)
		return err == nil && job.Status == want
	}, 3*time.Second, 10*time.Millisecond)
	return job
}

func TestTriggerUnknownEmail(t *testing.T) {
	uc, _ := newTestOrchestrator(t, &fakeExtractor{}, Options{})

	_, err := uc.Trigger(context.Background(), "no-such-email", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetStatusWithoutJob(t *testing.T) {
	uc, _ := newTestOrchestrator(t, &fakeExtractor{}, Options{})

	job, err := uc.GetStatus("email-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusNone, job.Status)
}

func TestTriggerCoalescesInFlightJob(t *testing.T) {
	block := make(chan struct{})
	extractor := &fakeExtractor{block: block, result: &ai.TaskExtraction{Title: "Chase delayed order"}}
	uc, _ := newTestOrchestrator(t, extractor, Options{WorkerCount: 2})

	first, err := uc.Trigger(context.Background(), "email-1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Attempts)

	// A second non-forced trigger while the job is in flight hands back the
	// same job instead of starting another inference.
	second, err := uc.Trigger(context.Background(), "email-1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Attempts)
	assert.True(t, second.Status.Active())

	close(block)
	job := waitForStatus(t, uc, "email-1", domain.JobStatusCompleted)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, "Chase delayed order", job.Result.Title)
}

func TestForceRetriggerSupersedesStaleWorker(t *testing.T) {
	block := make(chan struct{})
	extractor := &fakeExtractor{block: block, result: &ai.TaskExtraction{Title: "final answer"}}
	uc, _ := newTestOrchestrator(t, extractor, Options{WorkerCount: 2})

	_, err := uc.Trigger(context.Background(), "email-1", false)
	require.NoError(t, err)
	waitForStatus(t, uc, "email-1", domain.JobStatusProcessing)

	// Force a retry while the first worker is still running the model. The
	// attempt counter moves to 2, so whatever the first worker comes back
	// with is stale and must be dropped.
	forced, err := uc.Trigger(context.Background(), "email-1", true)
	require.NoError(t, err)
	assert.Equal(t, 2, forced.Attempts)

	close(block)
	job := waitForStatus(t, uc, "email-1", domain.JobStatusCompleted)
	assert.Equal(t, 2, job.Attempts)
	assert.Equal(t, "final answer", job.Result.Title)
}

func TestExtractReturnsCompletedResult(t *testing.T) {
	extractor := &fakeExtractor{result: &ai.TaskExtraction{
		Title:       "Confirm drawing revision",
		Priority:    "high",
		OrderNumber: "PO-4711",
		DueDate:     "2026-09-15",
	}}
	uc, _ := newTestOrchestrator(t, extractor, Options{WaitTimeout: 3 * time.Second})

	result, err := uc.Extract(context.Background(), "email-1")
	require.NoError(t, err)
	assert.Equal(t, "Confirm drawing revision", result.Title)
	assert.Equal(t, "PO-4711", result.OrderNumber)
	require.NotNil(t, result.DueDate)
	assert.Equal(t, "2026-09-15", result.DueDate.Format("2006-01-02"))
}

func TestExtractDegradesToPendingWhileProcessing(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	extractor := &fakeExtractor{block: block}
	uc, _ := newTestOrchestrator(t, extractor, Options{WaitTimeout: 300 * time.Millisecond})

	_, err := uc.Extract(context.Background(), "email-1")
	require.Error(t, err)

	var pending *PendingError
	require.ErrorAs(t, err, &pending)
	assert.True(t, pending.Status.Active())
}

func TestExtractSurfacesFailure(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("model timeout")}
	uc, _ := newTestOrchestrator(t, extractor, Options{WaitTimeout: 3 * time.Second})

	_, err := uc.Extract(context.Background(), "email-1")
	require.Error(t, err)

	var failure *FailureError
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, failure.Message, "model timeout")

	job, err := uc.GetStatus("email-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, job.Status)
	assert.Nil(t, job.Result)
}

// nilExtractor models a broken provider that reports success with no payload.
type nilExtractor struct{}

func (nilExtractor) ExtractTask(ctx context.Context, emailText string) (*ai.TaskExtraction, error) {
	return nil, nil
}

func TestNilExtractionResultFailsJob(t *testing.T) {
	uc, _ := newTestOrchestrator(t, nilExtractor{}, Options{})

	_, err := uc.Trigger(context.Background(), "email-1", false)
	require.NoError(t, err)

	// A nil result with a nil error must land as a failed job, not crash
	// the worker.
	job := waitForStatus(t, uc, "email-1", domain.JobStatusFailed)
	assert.Contains(t, job.ErrorMessage, "no result")
	assert.Nil(t, job.Result)
}

func TestQueueFullLeavesNoPhantomJob(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ExtractionJob{}))
	jobRepo := repository.NewJobRepository(db)

	emails := &fakeEmailReader{emails: map[string]*emaildomain.InboundEmail{
		"email-1": {ID: "email-1", MessageID: "<a@supplier.example>"},
		"email-2": {ID: "email-2", MessageID: "<b@supplier.example>"},
	}}

	// No workers started: the queue fills and stays full.
	uc := NewExtractionUsecase(jobRepo, emails, &fakeExtractor{}, zap.NewNop(), Options{QueueSize: 1})

	_, err = uc.Trigger(context.Background(), "email-1", false)
	require.NoError(t, err)

	_, err = uc.Trigger(context.Background(), "email-2", false)
	require.Error(t, err)

	// The rejected trigger must not persist a triggered row, or every later
	// non-forced trigger would no-op against a job nothing will run.
	job, err := uc.GetStatus("email-2")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusNone, job.Status)
}

func TestEmailLockIsStable(t *testing.T) {
	uc, _ := newTestOrchestrator(t, &fakeExtractor{}, Options{})
	impl := uc.(*extractionUsecase)

	assert.Same(t, impl.emailLock("email-1"), impl.emailLock("email-1"))
	assert.Same(t, impl.emailLock("email-2"), impl.emailLock("email-2"))
}

func TestRetriggerAfterFailureClearsError(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("model timeout")}
	uc, _ := newTestOrchestrator(t, extractor, Options{WorkerCount: 1})

	_, err := uc.Trigger(context.Background(), "email-1", false)
	require.NoError(t, err)
	waitForStatus(t, uc, "email-1", domain.JobStatusFailed)

	// The model recovers; a forced retrigger wipes the stored error and runs
	// again.
	extractor.mu.Lock()
	extractor.err = nil
	extractor.result = &ai.TaskExtraction{Title: "second try"}
	extractor.mu.Unlock()

	forced, err := uc.Trigger(context.Background(), "email-1", true)
	require.NoError(t, err)
	assert.Empty(t, forced.ErrorMessage)

	job := waitForStatus(t, uc, "email-1", domain.JobStatusCompleted)
	assert.Equal(t, "second try", job.Result.Title)
	assert.Empty(t, job.ErrorMessage)
}
