package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	emaildomain "suppliermail-backend/internal/email/domain"
	emailrepo "suppliermail-backend/internal/email/repository"
	"suppliermail-backend/internal/importing/domain"
	importrepo "suppliermail-backend/internal/importing/repository"
	projectdomain "suppliermail-backend/internal/project/domain"
	projectrepo "suppliermail-backend/internal/project/repository"
	taskdomain "suppliermail-backend/internal/task/domain"
	taskrepo "suppliermail-backend/internal/task/repository"
	"suppliermail-backend/pkg/apperr"
)

type importFixture struct {
	db      *gorm.DB
	records importrepo.ImportRecordRepository
	uc      ImportUsecase
}

func newImportFixture(t *testing.T, strict bool) *importFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&emaildomain.InboundEmail{},
		&projectdomain.Project{},
		&taskdomain.Task{},
		&domain.ImportRecord{},
	))

	records := importrepo.NewImportRecordRepository(db)
	uc := NewImportUsecase(db, records,
		taskrepo.NewGormTaskRepository(db),
		projectrepo.NewGormProjectRepository(db),
		emailrepo.NewEmailRepository(db),
		zap.NewNop(), strict)

	return &importFixture{db: db, records: records, uc: uc}
}

func (f *importFixture) seedEmail(t *testing.T, messageID string) *emaildomain.InboundEmail {
	t.Helper()
	email := &emaildomain.InboundEmail{
		MessageID:  messageID,
		Subject:    "Order 4711 delayed",
		Sender:     "a@supplier.example",
		Body:       "delivery slips to next week",
		ReceivedAt: time.Now(),
	}
	require.NoError(t, emailrepo.NewEmailRepository(f.db).Upsert(email))
	return email
}

func (f *importFixture) seedProject(t *testing.T, status projectdomain.ProjectStatus) *projectdomain.Project {
	t.Helper()
	project := &projectdomain.Project{Name: "Conveyor Belt Upgrade", Status: status}
	require.NoError(t, projectrepo.NewGormProjectRepository(f.db).Create(project))
	return project
}

func (f *importFixture) countTasks(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&taskdomain.Task{}).Count(&n).Error)
	return n
}

func (f *importFixture) countProjects(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&projectdomain.Project{}).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

func TestImportValidation(t *testing.T) {
	f := newImportFixture(t, false)
	email := f.seedEmail(t, "<a@supplier.example>")

	cases := []struct {
		name  string
		req   ImportRequest
		field string
	}{
		{
			name:  "missing title",
			req:   ImportRequest{EmailID: email.ID, NewProject: &NewProjectInput{Name: "X"}},
			field: "task.title",
		},
		{
			name:  "missing email id",
			req:   ImportRequest{Task: TaskInput{Title: "Chase order"}, NewProject: &NewProjectInput{Name: "X"}},
			field: "email_id",
		},
		{
			name:  "neither project option",
			req:   ImportRequest{EmailID: email.ID, Task: TaskInput{Title: "Chase order"}},
			field: "project",
		},
		{
			name: "both project options",
			req: ImportRequest{
				EmailID:    email.ID,
				Task:       TaskInput{Title: "Chase order"},
				ProjectID:  strPtr("p1"),
				NewProject: &NewProjectInput{Name: "X"},
			},
			field: "project",
		},
		{
			name: "new project without name",
			req: ImportRequest{
				EmailID:    email.ID,
				Task:       TaskInput{Title: "Chase order"},
				NewProject: &NewProjectInput{Name: "   "},
			},
			field: "new_project.name",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Import(context.Background(), "user-1", tc.req)
			var vErr *apperr.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}

	assert.Equal(t, int64(0), f.countTasks(t))
}

func TestImportUnknownEmail(t *testing.T) {
	f := newImportFixture(t, false)

	_, err := f.uc.Import(context.Background(), "user-1", ImportRequest{
		EmailID:    "no-such-email",
		Task:       TaskInput{Title: "Chase order"},
		NewProject: &NewProjectInput{Name: "X"},
	})

	var nfErr *apperr.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "email", nfErr.Kind)
}

func TestImportCreatesProjectTaskAndLedgerRow(t *testing.T) {
	f := newImportFixture(t, false)
	email := f.seedEmail(t, "<a@supplier.example>")

	due := time.Now().AddDate(0, 0, 14)
	result, err := f.uc.Import(context.Background(), "user-1", ImportRequest{
		EmailID: email.ID,
		Task: TaskInput{
			Title:       "Chase delayed order",
			Priority:    "high",
			DueDate:     &due,
			OrderNumber: "PO-4711",
		},
		NewProject: &NewProjectInput{Name: "Conveyor Belt Upgrade", CustomerName: "Yamato Precision"},
	})
	require.NoError(t, err)
	assert.True(t, result.CreatedProject)
	require.NotNil(t, result.ProjectID)

	var task taskdomain.Task
	require.NoError(t, f.db.First(&task, "id = ?", result.TaskID).Error)
	assert.Equal(t, "Chase delayed order", task.Title)
	assert.Equal(t, taskdomain.PriorityHigh, task.Priority)
	assert.Equal(t, *result.ProjectID, *task.ProjectID)
	assert.Equal(t, email.ID, *task.SourceEmailID)
	assert.Equal(t, "user-1", task.CreatedBy)

	check, err := f.uc.CheckDuplicate(email.MessageID)
	require.NoError(t, err)
	assert.True(t, check.IsDuplicate)
	require.Len(t, check.ExistingImports, 1)
	assert.Equal(t, result.TaskID, check.ExistingImports[0].TaskID)
	assert.Equal(t, "user-1", check.ExistingImports[0].UserID)
}

func TestImportAttachToExistingProject(t *testing.T) {
	f := newImportFixture(t, false)
	email := f.seedEmail(t, "<a@supplier.example>")
	project := f.seedProject(t, projectdomain.ProjectStatusActive)

	result, err := f.uc.Import(context.Background(), "user-1", ImportRequest{
		EmailID:   email.ID,
		Task:      TaskInput{Title: "Chase order"},
		ProjectID: &project.ID,
	})
	require.NoError(t, err)
	assert.False(t, result.CreatedProject)
	assert.Equal(t, project.ID, *result.ProjectID)
	assert.Equal(t, int64(1), f.countProjects(t))
}

func TestImportRejectsMissingOrArchivedProject(t *testing.T) {
	f := newImportFixture(t, false)
	email := f.seedEmail(t, "<a@supplier.example>")
	archived := f.seedProject(t, projectdomain.ProjectStatusArchived)

	for _, projectID := range []string{"no-such-project", archived.ID} {
		_, err := f.uc.Import(context.Background(), "user-1", ImportRequest{
			EmailID:   email.ID,
			Task:      TaskInput{Title: "Chase order"},
			ProjectID: &projectID,
		})
		var nfErr *apperr.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "project", nfErr.Kind)
	}

	// A rejected attach must leave nothing behind.
	assert.Equal(t, int64(0), f.countTasks(t))
	check, err := f.uc.CheckDuplicate(email.MessageID)
	require.NoError(t, err)
	assert.False(t, check.IsDuplicate)
}

// failingRecordRepo fails ledger writes inside the transaction, after the
// task has already been created.
type failingRecordRepo struct {
	importrepo.ImportRecordRepository
}

func (f *failingRecordRepo) Create(record *domain.ImportRecord) error {
	return errors.New("disk full")
}

func (f *failingRecordRepo) WithTx(tx *gorm.DB) importrepo.ImportRecordRepository {
	return f
}

func TestImportRollsBackOnLedgerFailure(t *testing.T) {
	f := newImportFixture(t, false)
	email := f.seedEmail(t, "<a@supplier.example>")

	uc := NewImportUsecase(f.db,
		&failingRecordRepo{ImportRecordRepository: f.records},
		taskrepo.NewGormTaskRepository(f.db),
		projectrepo.NewGormProjectRepository(f.db),
		emailrepo.NewEmailRepository(f.db),
		zap.NewNop(), false)

	_, err := uc.Import(context.Background(), "user-1", ImportRequest{
		EmailID:    email.ID,
		Task:       TaskInput{Title: "Chase order"},
		NewProject: &NewProjectInput{Name: "Conveyor Belt Upgrade"},
	})
	require.Error(t, err)

	// The task and the project created earlier in the transaction must not
	// survive the failed ledger write.
	assert.Equal(t, int64(0), f.countTasks(t))
	assert.Equal(t, int64(0), f.countProjects(t))
}

func TestReImportIsAdvisoryByDefault(t *testing.T) {
	f := newImportFixture(t, false)
	email := f.seedEmail(t, "<a@supplier.example>")
	project := f.seedProject(t, projectdomain.ProjectStatusActive)

	req := ImportRequest{
		EmailID:   email.ID,
		Task:      TaskInput{Title: "Chase order"},
		ProjectID: &project.ID,
	}

	first, err := f.uc.Import(context.Background(), "user-1", req)
	require.NoError(t, err)
	second, err := f.uc.Import(context.Background(), "user-2", req)
	require.NoError(t, err)
	assert.NotEqual(t, first.TaskID, second.TaskID)

	check, err := f.uc.CheckDuplicate(email.MessageID)
	require.NoError(t, err)
	assert.True(t, check.IsDuplicate)
	assert.Len(t, check.ExistingImports, 2)
}

func TestImportStrictModeRejectsDuplicates(t *testing.T) {
	f := newImportFixture(t, true)
	email := f.seedEmail(t, "<a@supplier.example>")
	project := f.seedProject(t, projectdomain.ProjectStatusActive)

	req := ImportRequest{
		EmailID:   email.ID,
		Task:      TaskInput{Title: "Chase order"},
		ProjectID: &project.ID,
	}

	_, err := f.uc.Import(context.Background(), "user-1", req)
	require.NoError(t, err)

	_, err = f.uc.Import(context.Background(), "user-2", req)
	var cErr *apperr.ConflictError
	require.ErrorAs(t, err, &cErr)

	// The rejected transaction must leave no trace: one task, one ledger
	// row, both from the first import.
	assert.Equal(t, int64(1), f.countTasks(t))
	check, err := f.uc.CheckDuplicate(email.MessageID)
	require.NoError(t, err)
	require.Len(t, check.ExistingImports, 1)
	assert.Equal(t, "user-1", check.ExistingImports[0].UserID)
}

func TestCheckDuplicateReturnsNewestFirst(t *testing.T) {
	f := newImportFixture(t, false)

	older := &domain.ImportRecord{
		ID: "r-old", MessageID: "<a@supplier.example>", EmailID: "e1",
		TaskID: "t1", UserID: "user-1", CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := &domain.ImportRecord{
		ID: "r-new", MessageID: "<a@supplier.example>", EmailID: "e1",
		TaskID: "t2", UserID: "user-2", CreatedAt: time.Now(),
	}
	require.NoError(t, f.db.Create(older).Error)
	require.NoError(t, f.db.Create(newer).Error)

	check, err := f.uc.CheckDuplicate("<a@supplier.example>")
	require.NoError(t, err)
	require.Len(t, check.ExistingImports, 2)
	assert.Equal(t, "r-new", check.ExistingImports[0].ID)
	assert.Equal(t, "r-old", check.ExistingImports[1].ID)
}

func TestCheckDuplicateUnknownMessage(t *testing.T) {
	f := newImportFixture(t, false)

	check, err := f.uc.CheckDuplicate("<never-imported@supplier.example>")
	require.NoError(t, err)
	assert.False(t, check.IsDuplicate)
	assert.Empty(t, check.ExistingImports)
}
