package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	emaildomain "suppliermail-backend/internal/email/domain"
	"suppliermail-backend/internal/importing/domain"
	importrepo "suppliermail-backend/internal/importing/repository"
	projectdomain "suppliermail-backend/internal/project/domain"
	projectrepo "suppliermail-backend/internal/project/repository"
	taskdomain "suppliermail-backend/internal/task/domain"
	taskrepo "suppliermail-backend/internal/task/repository"
	"suppliermail-backend/pkg/apperr"
)

// EmailReader is the slice of the email store the importer needs.
type EmailReader interface {
	FindByID(id string) (*emaildomain.InboundEmail, error)
}

// importUsecase implements ImportUsecase
type importUsecase struct {
	db          *gorm.DB
	recordRepo  importrepo.ImportRecordRepository
	taskRepo    taskrepo.TaskRepository
	projectRepo projectrepo.ProjectRepository
	emailRepo   EmailReader
	logger      *zap.Logger
	strict      bool
}

// NewImportUsecase creates a new instance of importUsecase.
// strict turns the duplicate guard from advisory into a hard gate
// (ConflictError on re-import).
func NewImportUsecase(db *gorm.DB, recordRepo importrepo.ImportRecordRepository, taskRepo taskrepo.TaskRepository, projectRepo projectrepo.ProjectRepository, emailRepo EmailReader, logger *zap.Logger, strict bool) ImportUsecase {
	return &importUsecase{
		db:          db,
		recordRepo:  recordRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		emailRepo:   emailRepo,
		logger:      logger,
		strict:      strict,
	}
}

func (u *importUsecase) CheckDuplicate(messageID string) (*domain.DuplicateCheck, error) {
	records, err := u.recordRepo.FindByMessageID(messageID)
	if err != nil {
		return nil, &apperr.InternalError{Op: "read import ledger", Err: err}
	}
	return &domain.DuplicateCheck{
		IsDuplicate:     len(records) > 0,
		ExistingImports: records,
	}, nil
}

func (u *importUsecase) Import(ctx context.Context, userID string, req ImportRequest) (*ImportResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	email, err := u.emailRepo.FindByID(req.EmailID)
	if err != nil {
		return nil, &apperr.InternalError{Op: "load email", Err: err}
	}
	if email == nil {
		return nil, &apperr.NotFoundError{Kind: "email", ID: req.EmailID}
	}

	var result ImportResult

	// Task, optional project, and ledger row commit together or not at all.
	// A task without its ledger row would blind duplicate detection for this
	// email, so partial persistence is a correctness bug, not a degraded mode.
	txErr := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.strict {
			if err := u.guardStrictDuplicate(tx, email); err != nil {
				return err
			}
		}

		projectID, created, err := u.resolveProject(tx, req)
		if err != nil {
			return err
		}

		task := &taskdomain.Task{
			ProjectID:     projectID,
			Title:         strings.TrimSpace(req.Task.Title),
			Description:   req.Task.Description,
			TaskType:      req.Task.TaskType,
			Priority:      taskdomain.ParsePriority(req.Task.Priority),
			DueDate:       req.Task.DueDate,
			PartNumber:    req.Task.PartNumber,
			OrderNumber:   req.Task.OrderNumber,
			AssigneeID:    req.Task.AssigneeID,
			SourceEmailID: &email.ID,
			CreatedBy:     userID,
		}
		if err := u.taskRepo.WithTx(tx).Create(task); err != nil {
			return err
		}

		record := &domain.ImportRecord{
			MessageID: email.MessageID,
			EmailID:   email.ID,
			TaskID:    task.ID,
			ProjectID: projectID,
			UserID:    userID,
		}
		if err := u.recordRepo.WithTx(tx).Create(record); err != nil {
			return err
		}

		result = ImportResult{
			TaskID:         task.ID,
			ProjectID:      projectID,
			CreatedProject: created,
		}
		return nil
	})

	if txErr != nil {
		var notFound *apperr.NotFoundError
		var conflict *apperr.ConflictError
		if errors.As(txErr, &notFound) || errors.As(txErr, &conflict) {
			return nil, txErr
		}
		return nil, &apperr.InternalError{Op: "import commit", Err: txErr}
	}

	u.logger.Info("email imported",
		zap.String("message_id", email.MessageID),
		zap.String("task_id", result.TaskID),
		zap.Bool("created_project", result.CreatedProject),
		zap.String("user_id", userID))

	return &result, nil
}

// guardStrictDuplicate enforces exactly-once import inside the transaction.
// The update takes a write lock on the email row, so a concurrent strict
// import of the same message waits for this transaction to commit; its own
// ledger read then sees the row this one appended.
func (u *importUsecase) guardStrictDuplicate(tx *gorm.DB, email *emaildomain.InboundEmail) error {
	if err := tx.Model(&emaildomain.InboundEmail{}).
		Where("id = ?", email.ID).
		Update("updated_at", time.Now()).Error; err != nil {
		return err
	}

	records, err := u.recordRepo.WithTx(tx).FindByMessageID(email.MessageID)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		return &apperr.ConflictError{
			Message: "email " + email.MessageID + " was already imported",
		}
	}
	return nil
}

// resolveProject attaches to a live project or creates a new one inside the
// import transaction.
func (u *importUsecase) resolveProject(tx *gorm.DB, req ImportRequest) (*string, bool, error) {
	if req.ProjectID != nil {
		project, err := u.projectRepo.WithTx(tx).FindLiveByID(*req.ProjectID)
		if err != nil {
			return nil, false, err
		}
		if project == nil {
			return nil, false, &apperr.NotFoundError{Kind: "project", ID: *req.ProjectID}
		}
		return &project.ID, false, nil
	}

	project := &projectdomain.Project{
		Name:         strings.TrimSpace(req.NewProject.Name),
		Code:         req.NewProject.Code,
		CustomerName: req.NewProject.CustomerName,
	}
	if err := u.projectRepo.WithTx(tx).Create(project); err != nil {
		return nil, false, err
	}
	return &project.ID, true, nil
}

func validate(req ImportRequest) error {
	if strings.TrimSpace(req.Task.Title) == "" {
		return &apperr.ValidationError{Field: "task.title", Message: "title is required"}
	}
	if req.EmailID == "" {
		return &apperr.ValidationError{Field: "email_id", Message: "email_id is required"}
	}

	hasAttach := req.ProjectID != nil && *req.ProjectID != ""
	hasCreate := req.NewProject != nil
	if hasAttach == hasCreate {
		return &apperr.ValidationError{
			Field:   "project",
			Message: "exactly one of project_id or new_project must be set",
		}
	}
	if hasCreate && strings.TrimSpace(req.NewProject.Name) == "" {
		return &apperr.ValidationError{Field: "new_project.name", Message: "project name is required"}
	}
	return nil
}
