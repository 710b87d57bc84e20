package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studycase_backend/internals/features/advisory/tasks/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		model.AdvisoryTaskModel{},
		model.AdvisoryTaskDependencyModel{},
	))
	return db
}

func seedBatch(t *testing.T, db *gorm.DB, svc *TaskGraphService, caseID, assignee uuid.UUID, specs []TaskSpec) []model.AdvisoryTaskModel {
	t.Helper()
	created, err := svc.CreateBatch(db, caseID, assignee, model.CaseRef(caseID), specs)
	require.NoError(t, err)
	return created
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) model.AdvisoryTaskModel {
	t.Helper()
	var out model.AdvisoryTaskModel
	require.NoError(t, db.Where("advisory_task_id = ?", id).Take(&out).Error)
	return out
}

func TestCreateBatchInstantiatesPendingTasks(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskGraphService()
	caseID := uuid.New()
	assignee := uuid.New()

	created := seedBatch(t, db, svc, caseID, assignee, []TaskSpec{
		{Type: model.TaskTypeConfirmPayment, Title: "Konfirmasi pembayaran", Priority: model.TaskPriorityHigh, Role: "planner"},
		{Type: model.TaskTypeCreateLineGroup, Title: "Buat grup", Priority: model.TaskPriorityNormal, Role: "planner"},
	})
	require.Len(t, created, 2)
	for _, task := range created {
		assert.Equal(t, model.TaskStatusPending, task.AdvisoryTaskStatus)
		assert.Equal(t, assignee, task.AdvisoryTaskAssigneeUserID)
		assert.Equal(t, string(model.SubjectCase), task.AdvisoryTaskSubjectKind)
		assert.Equal(t, caseID, task.AdvisoryTaskSubjectID)
		assert.True(t, task.IsOpen())
	}
}

func TestAddDependencyBlocksTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskGraphService()
	caseID := uuid.New()

	created := seedBatch(t, db, svc, caseID, uuid.New(), []TaskSpec{
		{Type: model.TaskTypeSubmitAnalysis, Title: "Submit", Priority: model.TaskPriorityNormal, Role: "analyst"},
		{Type: model.TaskTypeReviewAnalysis, Title: "Review", Priority: model.TaskPriorityHigh, Role: "counselor"},
	})
	submit, review := created[0], created[1]

	require.NoError(t, svc.AddDependency(db, review.AdvisoryTaskID, submit.AdvisoryTaskID))

	got := reload(t, db, review.AdvisoryTaskID)
	assert.Equal(t, model.TaskStatusBlocked, got.AdvisoryTaskStatus)

	blocked, err := svc.IsBlocked(db, review.AdvisoryTaskID)
	require.NoError(t, err)
	assert.True(t, blocked)

	// Task blocked tidak bisa dimulai ataupun diselesaikan
	_, err = svc.MarkStarted(db, review.AdvisoryTaskID)
	assert.ErrorIs(t, err, ErrTaskBlocked)
	_, err = svc.MarkCompleted(db, review.AdvisoryTaskID)
	assert.ErrorIs(t, err, ErrTaskBlocked)
}

func TestDependencyOnCompletedTaskDoesNotBlock(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskGraphService()
	caseID := uuid.New()

	created := seedBatch(t, db, svc, caseID, uuid.New(), []TaskSpec{
		{Type: model.TaskTypeSubmitAnalysis, Title: "Submit", Priority: model.TaskPriorityNormal, Role: "analyst"},
		{Type: model.TaskTypeReviewAnalysis, Title: "Review", Priority: model.TaskPriorityHigh, Role: "counselor"},
	})
	submit, review := created[0], created[1]

	_, err := svc.MarkCompleted(db, submit.AdvisoryTaskID)
	require.NoError(t, err)

	require.NoError(t, svc.AddDependency(db, review.AdvisoryTaskID, submit.AdvisoryTaskID))
	got := reload(t, db, review.AdvisoryTaskID)
	assert.Equal(t, model.TaskStatusPending, got.AdvisoryTaskStatus)

	blocked, err := svc.IsBlocked(db, review.AdvisoryTaskID)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestMarkCompletedUnblocksDependents(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskGraphService()
	caseID := uuid.New()

	created := seedBatch(t, db, svc, caseID, uuid.New(), []TaskSpec{
		{Type: model.TaskTypeCreateStrategy, Title: "A", Priority: model.TaskPriorityHigh, Role: "counselor"},
		{Type: model.TaskTypeIssuePrescription, Title: "B", Priority: model.TaskPriorityNormal, Role: "counselor"},
		{Type: model.TaskTypeReviewAnalysis, Title: "C", Priority: model.TaskPriorityNormal, Role: "counselor"},
	})
	a, b, c := created[0], created[1], created[2]

	// c bergantung pada a DAN b
	require.NoError(t, svc.AddDependency(db, c.AdvisoryTaskID, a.AdvisoryTaskID))
	require.NoError(t, svc.AddDependency(db, c.AdvisoryTaskID, b.AdvisoryTaskID))
	assert.Equal(t, model.TaskStatusBlocked, reload(t, db, c.AdvisoryTaskID).AdvisoryTaskStatus)

	// Satu dependency selesai: masih blocked
	_, err := svc.MarkCompleted(db, a.AdvisoryTaskID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusBlocked, reload(t, db, c.AdvisoryTaskID).AdvisoryTaskStatus)

	// Semua selesai: turun ke pending, tidak pernah auto-start
	_, err = svc.MarkCompleted(db, b.AdvisoryTaskID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, reload(t, db, c.AdvisoryTaskID).AdvisoryTaskStatus)
}

func TestMarkStartedGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskGraphService()
	caseID := uuid.New()

	created := seedBatch(t, db, svc, caseID, uuid.New(), []TaskSpec{
		{Type: model.TaskTypeCreateStrategy, Title: "A", Priority: model.TaskPriorityHigh, Role: "counselor"},
	})
	task := created[0]

	started, err := svc.MarkStarted(db, task.AdvisoryTaskID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, started.AdvisoryTaskStatus)
	assert.NotNil(t, started.AdvisoryTaskStartedAt)

	// Sudah in_progress: bukan pending lagi
	_, err = svc.MarkStarted(db, task.AdvisoryTaskID)
	assert.ErrorIs(t, err, ErrTaskNotPending)

	_, err = svc.MarkStarted(db, uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestMarkCompletedRejectsClosedTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskGraphService()
	caseID := uuid.New()

	created := seedBatch(t, db, svc, caseID, uuid.New(), []TaskSpec{
		{Type: model.TaskTypeCreateStrategy, Title: "A", Priority: model.TaskPriorityHigh, Role: "counselor"},
	})
	task := created[0]

	_, err := svc.MarkCompleted(db, task.AdvisoryTaskID)
	require.NoError(t, err)

	_, err = svc.MarkCompleted(db, task.AdvisoryTaskID)
	assert.ErrorIs(t, err, ErrTaskClosed)
}

func TestCompleteByTypeIdempotentSignal(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskGraphService()
	caseID := uuid.New()

	seedBatch(t, db, svc, caseID, uuid.New(), []TaskSpec{
		{Type: model.TaskTypeConfirmPayment, Title: "Konfirmasi", Priority: model.TaskPriorityHigh, Role: "planner"},
	})

	task, already, err := svc.CompleteByType(db, caseID, model.TaskTypeConfirmPayment)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, model.TaskStatusCompleted, task.AdvisoryTaskStatus)

	// Kedua kali: sinyal alreadyDone tanpa error
	task2, already, err := svc.CompleteByType(db, caseID, model.TaskTypeConfirmPayment)
	require.NoError(t, err)
	assert.True(t, already)
	assert.Nil(t, task2)

	// Tipe yang tidak pernah dibuat: error
	_, _, err = svc.CompleteByType(db, caseID, model.TaskTypeReviewAnalysis)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCancelOpenTasksBulk(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskGraphService()
	caseID := uuid.New()

	created := seedBatch(t, db, svc, caseID, uuid.New(), []TaskSpec{
		{Type: model.TaskTypeConfirmPayment, Title: "A", Priority: model.TaskPriorityHigh, Role: "planner"},
		{Type: model.TaskTypeCreateLineGroup, Title: "B", Priority: model.TaskPriorityNormal, Role: "planner"},
		{Type: model.TaskTypeAssignCounselor, Title: "C", Priority: model.TaskPriorityHigh, Role: "planner"},
	})

	// Satu completed (tidak tersentuh), satu in_progress, satu pending
	_, err := svc.MarkCompleted(db, created[0].AdvisoryTaskID)
	require.NoError(t, err)
	_, err = svc.MarkStarted(db, created[1].AdvisoryTaskID)
	require.NoError(t, err)

	n, err := svc.CancelOpenTasks(db, caseID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Equal(t, model.TaskStatusCompleted, reload(t, db, created[0].AdvisoryTaskID).AdvisoryTaskStatus)
	assert.Equal(t, model.TaskStatusCancelled, reload(t, db, created[1].AdvisoryTaskID).AdvisoryTaskStatus)
	assert.Equal(t, model.TaskStatusCancelled, reload(t, db, created[2].AdvisoryTaskID).AdvisoryTaskStatus)

	// Case lain tidak terpengaruh
	otherCase := uuid.New()
	seedBatch(t, db, svc, otherCase, uuid.New(), []TaskSpec{
		{Type: model.TaskTypeConfirmPayment, Title: "X", Priority: model.TaskPriorityHigh, Role: "planner"},
	})
	n, err = svc.CancelOpenTasks(db, caseID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
