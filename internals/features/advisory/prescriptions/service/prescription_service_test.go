package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studycase_backend/internals/features/advisory/prescriptions/model"
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
		model.AdvisoryPrescriptionModel{},
		model.PrescriptionCourseModel{},
		model.PrescriptionLearningTaskModel{},
		model.PrescriptionItemModel{},
	))
	return db
}

func seedPrescription(t *testing.T, db *gorm.DB, caseID uuid.UUID, cycle int, status string) model.AdvisoryPrescriptionModel {
	t.Helper()
	p := model.AdvisoryPrescriptionModel{
		AdvisoryPrescriptionCaseID:      caseID,
		AdvisoryPrescriptionCounselorID: uuid.New(),
		AdvisoryPrescriptionCycleNumber: cycle,
		AdvisoryPrescriptionStatus:      status,
		AdvisoryPrescriptionStrategy:    "fokus remedial aljabar",
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedLearningTask(t *testing.T, db *gorm.DB, prescriptionID uuid.UUID, status string, progress int) model.PrescriptionLearningTaskModel {
	t.Helper()
	lt := model.PrescriptionLearningTaskModel{
		PrescriptionLearningTaskPrescriptionID: prescriptionID,
		PrescriptionLearningTaskTitle:          "Latihan soal bab 3",
		PrescriptionLearningTaskStatus:         status,
		PrescriptionLearningTaskProgress:       progress,
	}
	require.NoError(t, db.Create(&lt).Error)
	return lt
}

func TestGetWithAssociationsOrdersItemsByPosition(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db)
	ctx := context.Background()

	p := seedPrescription(t, db, uuid.New(), 1, model.PrescriptionStatusIssued)
	seedLearningTask(t, db, p.AdvisoryPrescriptionID, model.LearningTaskStatusPending, 0)
	require.NoError(t, db.Create(&model.PrescriptionCourseModel{
		PrescriptionCoursePrescriptionID:   p.AdvisoryPrescriptionID,
		PrescriptionCourseCourseTemplateID: uuid.New(),
		PrescriptionCourseReason:           "butuh penguatan dasar",
		PrescriptionCourseRecommendedSess:  4,
	}).Error)

	// Sengaja dibuat tidak urut
	for _, pos := range []int{3, 1, 2} {
		require.NoError(t, db.Create(&model.PrescriptionItemModel{
			PrescriptionItemPrescriptionID: p.AdvisoryPrescriptionID,
			PrescriptionItemPosition:       pos,
			PrescriptionItemType:           model.PrescriptionItemTypeNote,
			PrescriptionItemContent:        "catatan",
		}).Error)
	}

	got, err := svc.GetWithAssociations(ctx, p.AdvisoryPrescriptionID)
	require.NoError(t, err)
	assert.Len(t, got.Courses, 1)
	assert.Len(t, got.LearningTasks, 1)
	require.Len(t, got.Items, 3)
	assert.Equal(t, 1, got.Items[0].PrescriptionItemPosition)
	assert.Equal(t, 2, got.Items[1].PrescriptionItemPosition)
	assert.Equal(t, 3, got.Items[2].PrescriptionItemPosition)
}

func TestGetWithAssociationsUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db)

	_, err := svc.GetWithAssociations(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)
}

func TestListByCaseOrdersByCycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db)
	caseID := uuid.New()

	seedPrescription(t, db, caseID, 2, model.PrescriptionStatusDraft)
	seedPrescription(t, db, caseID, 1, model.PrescriptionStatusCompleted)
	seedPrescription(t, db, uuid.New(), 1, model.PrescriptionStatusIssued) // case lain

	got, err := svc.ListByCase(context.Background(), caseID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].AdvisoryPrescriptionCycleNumber)
	assert.Equal(t, 2, got[1].AdvisoryPrescriptionCycleNumber)
}

func TestTaskCompletionRate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db)
	ctx := context.Background()

	p := seedPrescription(t, db, uuid.New(), 1, model.PrescriptionStatusIssued)

	// Tanpa learning task: 0, bukan NaN
	rate, err := svc.TaskCompletionRate(ctx, p.AdvisoryPrescriptionID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)

	seedLearningTask(t, db, p.AdvisoryPrescriptionID, model.LearningTaskStatusCompleted, 100)
	seedLearningTask(t, db, p.AdvisoryPrescriptionID, model.LearningTaskStatusInProgress, 40)
	seedLearningTask(t, db, p.AdvisoryPrescriptionID, model.LearningTaskStatusCompleted, 100)
	seedLearningTask(t, db, p.AdvisoryPrescriptionID, model.LearningTaskStatusPending, 0)

	rate, err = svc.TaskCompletionRate(ctx, p.AdvisoryPrescriptionID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rate, 1e-9)
}

func TestUpdateLearningTaskProgressHundredCompletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db)
	p := seedPrescription(t, db, uuid.New(), 1, model.PrescriptionStatusIssued)
	lt := seedLearningTask(t, db, p.AdvisoryPrescriptionID, model.LearningTaskStatusInProgress, 60)

	progress := 100
	got, err := svc.UpdateLearningTask(context.Background(), UpdateLearningTaskInput{
		LearningTaskID: lt.PrescriptionLearningTaskID,
		Progress:       &progress,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, got.PrescriptionLearningTaskProgress)
	assert.Equal(t, model.LearningTaskStatusCompleted, got.PrescriptionLearningTaskStatus)
}

func TestUpdateLearningTaskCompletedStatusSetsFullProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db)
	p := seedPrescription(t, db, uuid.New(), 1, model.PrescriptionStatusIssued)
	lt := seedLearningTask(t, db, p.AdvisoryPrescriptionID, model.LearningTaskStatusPending, 10)

	status := model.LearningTaskStatusCompleted
	got, err := svc.UpdateLearningTask(context.Background(), UpdateLearningTaskInput{
		LearningTaskID: lt.PrescriptionLearningTaskID,
		Status:         &status,
	})
	require.NoError(t, err)
	assert.Equal(t, model.LearningTaskStatusCompleted, got.PrescriptionLearningTaskStatus)
	assert.Equal(t, 100, got.PrescriptionLearningTaskProgress)
}

func TestUpdateLearningTaskDueDateOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db)
	p := seedPrescription(t, db, uuid.New(), 1, model.PrescriptionStatusIssued)
	lt := seedLearningTask(t, db, p.AdvisoryPrescriptionID, model.LearningTaskStatusInProgress, 30)

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	got, err := svc.UpdateLearningTask(context.Background(), UpdateLearningTaskInput{
		LearningTaskID: lt.PrescriptionLearningTaskID,
		DueDate:        &due,
	})
	require.NoError(t, err)
	require.NotNil(t, got.PrescriptionLearningTaskDueDate)
	// Status & progress tidak tersentuh
	assert.Equal(t, model.LearningTaskStatusInProgress, got.PrescriptionLearningTaskStatus)
	assert.Equal(t, 30, got.PrescriptionLearningTaskProgress)
}

func TestUpdateLearningTaskInvalidProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db)
	p := seedPrescription(t, db, uuid.New(), 1, model.PrescriptionStatusIssued)
	lt := seedLearningTask(t, db, p.AdvisoryPrescriptionID, model.LearningTaskStatusPending, 0)

	for _, bad := range []int{-1, 101} {
		progress := bad
		_, err := svc.UpdateLearningTask(context.Background(), UpdateLearningTaskInput{
			LearningTaskID: lt.PrescriptionLearningTaskID,
			Progress:       &progress,
		})
		assert.ErrorIs(t, err, ErrInvalidProgress)
	}

	// Rollback: nilai lama tetap
	var check model.PrescriptionLearningTaskModel
	require.NoError(t, db.Where("prescription_learning_task_id = ?", lt.PrescriptionLearningTaskID).Take(&check).Error)
	assert.Equal(t, 0, check.PrescriptionLearningTaskProgress)
}

func TestUpdateLearningTaskUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db)

	progress := 50
	_, err := svc.UpdateLearningTask(context.Background(), UpdateLearningTaskInput{
		LearningTaskID: uuid.New(),
		Progress:       &progress,
	})
	assert.ErrorIs(t, err, ErrLearningTaskNotFound)
}
