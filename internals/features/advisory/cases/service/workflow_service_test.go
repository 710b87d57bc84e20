package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	assessmentModel "studycase_backend/internals/features/advisory/assessments/model"
	caseModel "studycase_backend/internals/features/advisory/cases/model"
	prescriptionModel "studycase_backend/internals/features/advisory/prescriptions/model"
	taskModel "studycase_backend/internals/features/advisory/tasks/model"
	caseTemplateModel "studycase_backend/internals/features/catalog/case_templates/model"
	courseTemplateModel "studycase_backend/internals/features/catalog/course_templates/model"
	notificationModel "studycase_backend/internals/features/home/notifications/model"
)

/* =========================================================
 * Test harness
 * ========================================================= */

type recordedEvent struct {
	Recipients []uuid.UUID
	EventType  string
	CaseID     uuid.UUID
}

// fakeNotifier merekam dispatch supaya test bisa memeriksa event
// yang keluar SETELAH commit.
type fakeNotifier struct {
	events []recordedEvent
}

func (f *fakeNotifier) Dispatch(recipients []uuid.UUID, eventType, title, description string, caseID uuid.UUID) {
	f.events = append(f.events, recordedEvent{Recipients: recipients, EventType: eventType, CaseID: caseID})
}

func (f *fakeNotifier) eventTypes() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.EventType)
	}
	return out
}

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
		caseTemplateModel.CaseTemplateModel{},
		courseTemplateModel.CourseTemplateModel{},
		caseModel.AdvisoryCaseModel{},
		caseModel.AdvisoryCaseNoteModel{},
		taskModel.AdvisoryTaskModel{},
		taskModel.AdvisoryTaskDependencyModel{},
		prescriptionModel.AdvisoryPrescriptionModel{},
		prescriptionModel.PrescriptionCourseModel{},
		prescriptionModel.PrescriptionLearningTaskModel{},
		prescriptionModel.PrescriptionItemModel{},
		assessmentModel.AdvisoryAssessmentModel{},
		notificationModel.NotificationModel{},
		notificationModel.UserNotificationModel{},
	))
	return db
}

type testEnv struct {
	db       *gorm.DB
	svc      *WorkflowService
	notifier *fakeNotifier

	templateID  uuid.UUID
	studentID   uuid.UUID
	plannerID   uuid.UUID
	counselorID uuid.UUID
	analystID   uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	notifier := &fakeNotifier{}

	tpl := caseTemplateModel.CaseTemplateModel{
		CaseTemplateName:     "Paket Advisory Intensif",
		CaseTemplatePrice:    1500000,
		CaseTemplateIsActive: true,
	}
	require.NoError(t, db.Create(&tpl).Error)

	return &testEnv{
		db:          db,
		svc:         NewWorkflowService(db, notifier),
		notifier:    notifier,
		templateID:  tpl.CaseTemplateID,
		studentID:   uuid.New(),
		plannerID:   uuid.New(),
		counselorID: uuid.New(),
		analystID:   uuid.New(),
	}
}

func (e *testEnv) openCase(t *testing.T) uuid.UUID {
	t.Helper()
	res, err := e.svc.OpenCase(context.Background(), OpenCaseInput{
		CaseTemplateID: e.templateID,
		StudentID:      e.studentID,
		PlannerID:      e.plannerID,
	})
	require.NoError(t, err)
	return res.Case.AdvisoryCaseID
}

// toCounseling: open + confirm + assign counselor + assign analyst.
func (e *testEnv) toCounseling(t *testing.T) uuid.UUID {
	t.Helper()
	caseID := e.openCase(t)
	ctx := context.Background()

	_, err := e.svc.ConfirmPayment(ctx, ConfirmPaymentInput{CaseID: caseID, ActorID: e.plannerID, Method: "bank_transfer"})
	require.NoError(t, err)
	_, err = e.svc.AssignCounselor(ctx, AssignCounselorInput{CaseID: caseID, ActorID: e.plannerID, CounselorID: e.counselorID})
	require.NoError(t, err)
	_, err = e.svc.AssignAnalyst(ctx, AssignAnalystInput{CaseID: caseID, ActorID: e.plannerID, AnalystID: e.analystID})
	require.NoError(t, err)
	return caseID
}

func (e *testEnv) seedCourseTemplate(t *testing.T, active bool) uuid.UUID {
	t.Helper()
	tpl := courseTemplateModel.CourseTemplateModel{
		CourseTemplateName:            "Matematika Dasar",
		CourseTemplateSubject:         "matematika",
		CourseTemplateDefaultSessions: 8,
		CourseTemplateIsActive:        active,
	}
	require.NoError(t, e.db.Create(&tpl).Error)
	return tpl.CourseTemplateID
}

// toAnalyzing: counseling + strategy + finalize (1 course, 2 learning task).
func (e *testEnv) toAnalyzing(t *testing.T) (uuid.UUID, uuid.UUID) {
	t.Helper()
	caseID := e.toCounseling(t)
	ctx := context.Background()

	res, err := e.svc.IssueStrategy(ctx, IssueStrategyInput{
		CaseID: caseID, ActorID: e.counselorID, Strategy: "Fokus remedial aljabar",
	})
	require.NoError(t, err)
	prescriptionID := res.Prescription.AdvisoryPrescriptionID

	courseID := e.seedCourseTemplate(t, true)
	_, err = e.svc.FinalizePrescription(ctx, FinalizePrescriptionInput{
		PrescriptionID: prescriptionID,
		ActorID:        e.counselorID,
		Courses: []CourseRecommendationInput{
			{CourseTemplateID: courseID, Reason: "nilai aljabar rendah", RecommendedSessions: 8},
		},
		LearningTasks: []LearningTaskInput{
			{Title: "Latihan soal bab 1"},
			{Title: "Latihan soal bab 2"},
		},
	})
	require.NoError(t, err)
	return caseID, prescriptionID
}

// toCycling: analyzing + assessment + submit.
func (e *testEnv) toCycling(t *testing.T) (uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()
	caseID, prescriptionID := e.toAnalyzing(t)
	ctx := context.Background()

	res, err := e.svc.CreateAssessment(ctx, CreateAssessmentInput{
		PrescriptionID: prescriptionID, ActorID: e.analystID,
	})
	require.NoError(t, err)
	assessmentID := res.Assessment.AdvisoryAssessmentID

	_, err = e.svc.SubmitAnalysis(ctx, SubmitAnalysisInput{
		AssessmentID: assessmentID, ActorID: e.analystID, Report: "Progres signifikan di aljabar",
	})
	require.NoError(t, err)
	return caseID, prescriptionID, assessmentID
}

func (e *testEnv) tasksByType(t *testing.T, caseID uuid.UUID, taskType string) []taskModel.AdvisoryTaskModel {
	t.Helper()
	var out []taskModel.AdvisoryTaskModel
	require.NoError(t, e.db.
		Where("advisory_task_case_id = ? AND advisory_task_type = ?", caseID, taskType).
		Order("advisory_task_created_at ASC").
		Find(&out).Error)
	return out
}

func (e *testEnv) countNotes(t *testing.T, caseID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&caseModel.AdvisoryCaseNoteModel{}).
		Where("advisory_case_note_case_id = ?", caseID).Count(&n).Error)
	return n
}

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	we := AsWorkflowError(err)
	require.NotNil(t, we, "expected WorkflowError, got %v", err)
	return we.Kind
}

/* =========================================================
 * Planning
 * ========================================================= */

func TestOpenCaseStartsAtPlanningWithIntakeTasks(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)

	var cs caseModel.AdvisoryCaseModel
	require.NoError(t, env.db.Where("advisory_case_id = ?", caseID).Take(&cs).Error)
	assert.Equal(t, caseModel.CaseStagePlanning, cs.AdvisoryCaseStage)
	assert.Equal(t, caseModel.CasePaymentPending, cs.AdvisoryCasePaymentStatus)
	assert.Equal(t, 0, cs.AdvisoryCaseCycleCount)
	assert.Nil(t, cs.AdvisoryCaseCounselorID)
	assert.Nil(t, cs.AdvisoryCaseAnalystID)

	var tasks []taskModel.AdvisoryTaskModel
	require.NoError(t, env.db.Where("advisory_task_case_id = ?", caseID).Find(&tasks).Error)
	require.Len(t, tasks, 4)
	types := map[string]bool{}
	for _, task := range tasks {
		assert.Equal(t, taskModel.TaskStatusPending, task.AdvisoryTaskStatus)
		assert.Equal(t, env.plannerID, task.AdvisoryTaskAssigneeUserID)
		types[task.AdvisoryTaskType] = true
	}
	assert.True(t, types[taskModel.TaskTypeConfirmPayment])
	assert.True(t, types[taskModel.TaskTypeCreateLineGroup])
	assert.True(t, types[taskModel.TaskTypeAssignCounselor])
	assert.True(t, types[taskModel.TaskTypeAssignAnalyst])
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)
	ctx := context.Background()

	res, err := env.svc.ConfirmPayment(ctx, ConfirmPaymentInput{
		CaseID: caseID, ActorID: env.plannerID, Method: "bank_transfer", Note: "BCA va",
	})
	require.NoError(t, err)
	assert.False(t, res.NoOp)
	assert.Equal(t, caseModel.CasePaymentConfirmed, res.Case.AdvisoryCasePaymentStatus)
	assert.NotNil(t, res.Case.AdvisoryCasePaidAt)
	assert.Equal(t, int64(1), env.countNotes(t, caseID))

	confirmTasks := env.tasksByType(t, caseID, taskModel.TaskTypeConfirmPayment)
	require.Len(t, confirmTasks, 1)
	assert.Equal(t, taskModel.TaskStatusCompleted, confirmTasks[0].AdvisoryTaskStatus)

	// Invokasi kedua: no-op, tidak ada Note baru
	res2, err := env.svc.ConfirmPayment(ctx, ConfirmPaymentInput{
		CaseID: caseID, ActorID: env.plannerID, Method: "bank_transfer",
	})
	require.NoError(t, err)
	assert.True(t, res2.NoOp)
	assert.Equal(t, int64(1), env.countNotes(t, caseID))
}

func TestConfirmPaymentUnknownCase(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		CaseID: uuid.New(), ActorID: env.plannerID, Method: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, kindOf(t, err))
}

func TestConfirmPaymentLateSettlementKeepsStage(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)
	ctx := context.Background()

	// Case sudah maju ke counseling tanpa menunggu pembayaran
	_, err := env.svc.AssignCounselor(ctx, AssignCounselorInput{
		CaseID: caseID, ActorID: env.plannerID, CounselorID: env.counselorID,
	})
	require.NoError(t, err)
	_, err = env.svc.AssignAnalyst(ctx, AssignAnalystInput{
		CaseID: caseID, ActorID: env.plannerID, AnalystID: env.analystID,
	})
	require.NoError(t, err)

	// Webhook settle terlambat: status pembayaran berubah, stage tidak mundur
	res, err := env.svc.ConfirmPayment(ctx, ConfirmPaymentInput{
		CaseID: caseID, ActorID: env.plannerID, Method: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, caseModel.CasePaymentConfirmed, res.Case.AdvisoryCasePaymentStatus)
	assert.Equal(t, caseModel.CaseStageCounseling, res.Case.AdvisoryCaseStage)
}

func TestConfirmPaymentOnCancelledCaseRejected(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)
	ctx := context.Background()

	_, err := env.svc.CancelCase(ctx, CancelCaseInput{
		CaseID: caseID, ActorID: env.plannerID, Reason: "siswa mengundurkan diri",
	})
	require.NoError(t, err)

	_, err = env.svc.ConfirmPayment(ctx, ConfirmPaymentInput{
		CaseID: caseID, ActorID: env.plannerID, Method: "bank_transfer",
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, kindOf(t, err))

	// Case terminal tidak bangkit lagi
	var cs caseModel.AdvisoryCaseModel
	require.NoError(t, env.db.Where("advisory_case_id = ?", caseID).Take(&cs).Error)
	assert.Equal(t, caseModel.CaseStageCancelled, cs.AdvisoryCaseStage)
	assert.Equal(t, caseModel.CasePaymentPending, cs.AdvisoryCasePaymentStatus)
}

func TestCreateLineGroupIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)
	ctx := context.Background()

	res, err := env.svc.CreateLineGroup(ctx, CreateLineGroupInput{
		CaseID: caseID, ActorID: env.plannerID, GroupURL: "https://line.me/g/abc",
	})
	require.NoError(t, err)
	assert.False(t, res.NoOp)
	require.NotNil(t, res.Case.AdvisoryCaseLineGroupURL)
	assert.Equal(t, "https://line.me/g/abc", *res.Case.AdvisoryCaseLineGroupURL)

	res2, err := env.svc.CreateLineGroup(ctx, CreateLineGroupInput{
		CaseID: caseID, ActorID: env.plannerID, GroupURL: "https://line.me/g/OTHER",
	})
	require.NoError(t, err)
	assert.True(t, res2.NoOp)
	assert.Equal(t, "https://line.me/g/abc", *res2.Case.AdvisoryCaseLineGroupURL)
}

func TestAssignCounselorKeepsPlanningStage(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)

	res, err := env.svc.AssignCounselor(context.Background(), AssignCounselorInput{
		CaseID: caseID, ActorID: env.plannerID, CounselorID: env.counselorID,
	})
	require.NoError(t, err)
	assert.Equal(t, caseModel.CaseStagePlanning, res.Case.AdvisoryCaseStage)
	require.NotNil(t, res.Case.AdvisoryCaseCounselorID)
	assert.Equal(t, env.counselorID, *res.Case.AdvisoryCaseCounselorID)

	assert.Contains(t, env.notifier.eventTypes(), "counselor_assigned")
}

func TestAssignAnalystRequiresCounselorFirst(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)

	_, err := env.svc.AssignAnalyst(context.Background(), AssignAnalystInput{
		CaseID: caseID, ActorID: env.plannerID, AnalystID: env.analystID,
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionUnmet, kindOf(t, err))

	// Stage tidak bergeser
	var cs caseModel.AdvisoryCaseModel
	require.NoError(t, env.db.Where("advisory_case_id = ?", caseID).Take(&cs).Error)
	assert.Equal(t, caseModel.CaseStagePlanning, cs.AdvisoryCaseStage)
	assert.Nil(t, cs.AdvisoryCaseAnalystID)
}

func TestAssignAnalystAdvancesToCounseling(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)
	ctx := context.Background()

	_, err := env.svc.AssignCounselor(ctx, AssignCounselorInput{CaseID: caseID, ActorID: env.plannerID, CounselorID: env.counselorID})
	require.NoError(t, err)

	res, err := env.svc.AssignAnalyst(ctx, AssignAnalystInput{CaseID: caseID, ActorID: env.plannerID, AnalystID: env.analystID})
	require.NoError(t, err)
	assert.Equal(t, caseModel.CaseStageCounseling, res.Case.AdvisoryCaseStage)
	assert.NotNil(t, res.Case.AdvisoryCaseStartedAt)

	// Batch counselor stage-2 langsung dibuat
	strategyTasks := env.tasksByType(t, caseID, taskModel.TaskTypeCreateStrategy)
	require.Len(t, strategyTasks, 1)
	assert.Equal(t, taskModel.TaskStatusPending, strategyTasks[0].AdvisoryTaskStatus)
	assert.Equal(t, env.counselorID, strategyTasks[0].AdvisoryTaskAssigneeUserID)
	require.Len(t, env.tasksByType(t, caseID, taskModel.TaskTypeIssuePrescription), 1)

	assert.Contains(t, env.notifier.eventTypes(), "analyst_assigned")

	// Duplikat → no-op
	res2, err := env.svc.AssignAnalyst(ctx, AssignAnalystInput{CaseID: caseID, ActorID: env.plannerID, AnalystID: uuid.New()})
	require.NoError(t, err)
	assert.True(t, res2.NoOp)
	assert.Equal(t, env.analystID, *res2.Case.AdvisoryCaseAnalystID)
}

/* =========================================================
 * Counseling
 * ========================================================= */

func TestIssueStrategyOnlyFromCounseling(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)

	_, err := env.svc.IssueStrategy(context.Background(), IssueStrategyInput{
		CaseID: caseID, ActorID: env.counselorID, Strategy: "terlalu dini",
	})
	require.Error(t, err)
	// counselor belum ada → precondition lebih dulu
	assert.Equal(t, KindPreconditionUnmet, kindOf(t, err))
}

func TestIssueStrategyCreatesDraftForNextCycle(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.toCounseling(t)
	ctx := context.Background()

	res, err := env.svc.IssueStrategy(ctx, IssueStrategyInput{
		CaseID: caseID, ActorID: env.counselorID,
		Strategy: "Fokus remedial aljabar",
		Goals:    []string{"naik 20 poin"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Prescription)
	assert.Equal(t, 1, res.Prescription.AdvisoryPrescriptionCycleNumber)
	assert.Equal(t, prescriptionModel.PrescriptionStatusDraft, res.Prescription.AdvisoryPrescriptionStatus)
	assert.Equal(t, env.counselorID, res.Prescription.AdvisoryPrescriptionCounselorID)

	// Duplikat untuk siklus yang sama → no-op, kembalikan draft yang ada
	res2, err := env.svc.IssueStrategy(ctx, IssueStrategyInput{
		CaseID: caseID, ActorID: env.counselorID, Strategy: "strategi lain",
	})
	require.NoError(t, err)
	assert.True(t, res2.NoOp)
	assert.Equal(t, res.Prescription.AdvisoryPrescriptionID, res2.Prescription.AdvisoryPrescriptionID)
}

func TestFinalizePrescriptionIssuesAndAdvancesStage(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.toCounseling(t)
	ctx := context.Background()

	draft, err := env.svc.IssueStrategy(ctx, IssueStrategyInput{
		CaseID: caseID, ActorID: env.counselorID, Strategy: "Fokus remedial aljabar",
	})
	require.NoError(t, err)

	course1 := env.seedCourseTemplate(t, true)
	course2 := env.seedCourseTemplate(t, true)

	res, err := env.svc.FinalizePrescription(ctx, FinalizePrescriptionInput{
		PrescriptionID: draft.Prescription.AdvisoryPrescriptionID,
		ActorID:        env.counselorID,
		Courses: []CourseRecommendationInput{
			{CourseTemplateID: course1, Reason: "aljabar lemah", RecommendedSessions: 8},
			{CourseTemplateID: course2, Reason: "persiapan ujian", RecommendedSessions: 4},
		},
		LearningTasks: []LearningTaskInput{
			{Title: "Latihan bab 1"},
			{Title: "Latihan bab 2"},
			{Title: "Simulasi ujian"},
		},
		Items: []PrescriptionItemInput{
			{Type: prescriptionModel.PrescriptionItemTypeNote, Content: "belajar rutin tiap pagi"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, caseModel.CaseStageAnalyzing, res.Case.AdvisoryCaseStage)
	assert.Equal(t, prescriptionModel.PrescriptionStatusIssued, res.Prescription.AdvisoryPrescriptionStatus)
	assert.NotNil(t, res.Prescription.AdvisoryPrescriptionIssuedAt)

	var nCourses, nTasks, nItems int64
	env.db.Model(&prescriptionModel.PrescriptionCourseModel{}).
		Where("prescription_course_prescription_id = ?", res.Prescription.AdvisoryPrescriptionID).Count(&nCourses)
	env.db.Model(&prescriptionModel.PrescriptionLearningTaskModel{}).
		Where("prescription_learning_task_prescription_id = ?", res.Prescription.AdvisoryPrescriptionID).Count(&nTasks)
	env.db.Model(&prescriptionModel.PrescriptionItemModel{}).
		Where("prescription_item_prescription_id = ?", res.Prescription.AdvisoryPrescriptionID).Count(&nItems)
	assert.Equal(t, int64(2), nCourses)
	assert.Equal(t, int64(3), nTasks)
	assert.Equal(t, int64(1), nItems)

	// Batch analyst dengan subject prescription
	assessTasks := env.tasksByType(t, caseID, taskModel.TaskTypeCreateAssessment)
	require.Len(t, assessTasks, 1)
	assert.Equal(t, env.analystID, assessTasks[0].AdvisoryTaskAssigneeUserID)
	assert.Equal(t, string(taskModel.SubjectPrescription), assessTasks[0].AdvisoryTaskSubjectKind)

	assert.Contains(t, env.notifier.eventTypes(), "prescription_issued")
}

func TestFinalizeRejectsInactiveCourseTemplate(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.toCounseling(t)
	ctx := context.Background()

	draft, err := env.svc.IssueStrategy(ctx, IssueStrategyInput{
		CaseID: caseID, ActorID: env.counselorID, Strategy: "strategi",
	})
	require.NoError(t, err)

	inactive := env.seedCourseTemplate(t, false)
	_, err = env.svc.FinalizePrescription(ctx, FinalizePrescriptionInput{
		PrescriptionID: draft.Prescription.AdvisoryPrescriptionID,
		ActorID:        env.counselorID,
		Courses: []CourseRecommendationInput{
			{CourseTemplateID: inactive, Reason: "x", RecommendedSessions: 1},
		},
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionUnmet, kindOf(t, err))

	// Rollback total: prescription masih draft, stage tetap counseling
	var p prescriptionModel.AdvisoryPrescriptionModel
	require.NoError(t, env.db.Where("advisory_prescription_id = ?",
		draft.Prescription.AdvisoryPrescriptionID).Take(&p).Error)
	assert.Equal(t, prescriptionModel.PrescriptionStatusDraft, p.AdvisoryPrescriptionStatus)

	var cs caseModel.AdvisoryCaseModel
	require.NoError(t, env.db.Where("advisory_case_id = ?", caseID).Take(&cs).Error)
	assert.Equal(t, caseModel.CaseStageCounseling, cs.AdvisoryCaseStage)
}

func TestFinalizeTwiceIsRejected(t *testing.T) {
	env := newTestEnv(t)
	_, prescriptionID := env.toAnalyzing(t)

	_, err := env.svc.FinalizePrescription(context.Background(), FinalizePrescriptionInput{
		PrescriptionID: prescriptionID, ActorID: env.counselorID,
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionUnmet, kindOf(t, err))
}

/* =========================================================
 * Analyzing
 * ========================================================= */

func TestCreateAssessmentRequiresIssuedPrescription(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.toCounseling(t)
	ctx := context.Background()

	draft, err := env.svc.IssueStrategy(ctx, IssueStrategyInput{
		CaseID: caseID, ActorID: env.counselorID, Strategy: "strategi",
	})
	require.NoError(t, err)

	_, err = env.svc.CreateAssessment(ctx, CreateAssessmentInput{
		PrescriptionID: draft.Prescription.AdvisoryPrescriptionID, ActorID: env.analystID,
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionUnmet, kindOf(t, err))
}

func TestCreateAssessmentExactlyOncePerPrescription(t *testing.T) {
	env := newTestEnv(t)
	caseID, prescriptionID := env.toAnalyzing(t)
	ctx := context.Background()

	res, err := env.svc.CreateAssessment(ctx, CreateAssessmentInput{
		PrescriptionID: prescriptionID, ActorID: env.analystID,
	})
	require.NoError(t, err)
	assert.False(t, res.NoOp)
	assert.Equal(t, assessmentModel.AssessmentStatusDraft, res.Assessment.AdvisoryAssessmentStatus)
	assert.Equal(t, env.analystID, res.Assessment.AdvisoryAssessmentAnalystID)

	createTasks := env.tasksByType(t, caseID, taskModel.TaskTypeCreateAssessment)
	require.Len(t, createTasks, 1)
	assert.Equal(t, taskModel.TaskStatusCompleted, createTasks[0].AdvisoryTaskStatus)

	res2, err := env.svc.CreateAssessment(ctx, CreateAssessmentInput{
		PrescriptionID: prescriptionID, ActorID: uuid.New(),
	})
	require.NoError(t, err)
	assert.True(t, res2.NoOp)
	assert.Equal(t, res.Assessment.AdvisoryAssessmentID, res2.Assessment.AdvisoryAssessmentID)
}

func TestStartAssessmentReviewTransition(t *testing.T) {
	env := newTestEnv(t)
	_, prescriptionID := env.toAnalyzing(t)
	ctx := context.Background()

	created, err := env.svc.CreateAssessment(ctx, CreateAssessmentInput{
		PrescriptionID: prescriptionID, ActorID: env.analystID,
	})
	require.NoError(t, err)
	assessmentID := created.Assessment.AdvisoryAssessmentID

	res, err := env.svc.StartAssessmentReview(ctx, assessmentID, env.analystID)
	require.NoError(t, err)
	assert.Equal(t, assessmentModel.AssessmentStatusInReview, res.Assessment.AdvisoryAssessmentStatus)

	res2, err := env.svc.StartAssessmentReview(ctx, assessmentID, env.analystID)
	require.NoError(t, err)
	assert.True(t, res2.NoOp)
}

func TestSubmitAnalysisClosesCycleAtomically(t *testing.T) {
	env := newTestEnv(t)
	caseID, prescriptionID := env.toAnalyzing(t)
	ctx := context.Background()

	created, err := env.svc.CreateAssessment(ctx, CreateAssessmentInput{
		PrescriptionID: prescriptionID, ActorID: env.analystID,
	})
	require.NoError(t, err)
	assessmentID := created.Assessment.AdvisoryAssessmentID

	score := 82.5
	res, err := env.svc.SubmitAnalysis(ctx, SubmitAnalysisInput{
		AssessmentID: assessmentID,
		ActorID:      env.analystID,
		Report:       "Naik signifikan",
		TestScore:    &score,
	})
	require.NoError(t, err)

	assert.Equal(t, caseModel.CaseStageCycling, res.Case.AdvisoryCaseStage)
	assert.Equal(t, 1, res.Case.AdvisoryCaseCycleCount)
	assert.Equal(t, assessmentModel.AssessmentStatusCompleted, res.Assessment.AdvisoryAssessmentStatus)
	assert.NotNil(t, res.Assessment.AdvisoryAssessmentSubmittedAt)
	assert.Equal(t, prescriptionModel.PrescriptionStatusCompleted, res.Prescription.AdvisoryPrescriptionStatus)

	// Task review untuk counselor, subject assessment, tidak terblokir
	// (dependency-nya — submit_analysis — sudah completed)
	reviewTasks := env.tasksByType(t, caseID, taskModel.TaskTypeReviewAnalysis)
	require.Len(t, reviewTasks, 1)
	assert.Equal(t, env.counselorID, reviewTasks[0].AdvisoryTaskAssigneeUserID)
	assert.Equal(t, string(taskModel.SubjectAssessment), reviewTasks[0].AdvisoryTaskSubjectKind)
	assert.Equal(t, taskModel.TaskStatusPending, reviewTasks[0].AdvisoryTaskStatus)

	assert.Contains(t, env.notifier.eventTypes(), "analysis_completed")

	// Submit ganda (loser race) → no-op, cycle_count tetap 1
	res2, err := env.svc.SubmitAnalysis(ctx, SubmitAnalysisInput{
		AssessmentID: assessmentID, ActorID: env.analystID, Report: "dobel",
	})
	require.NoError(t, err)
	assert.True(t, res2.NoOp)
	assert.Equal(t, 1, res2.Case.AdvisoryCaseCycleCount)
}

/* =========================================================
 * Cycling
 * ========================================================= */

func TestReviewAnalysisContinueStartsNewCycle(t *testing.T) {
	env := newTestEnv(t)
	caseID, _, _ := env.toCycling(t)
	ctx := context.Background()

	note := "lanjut satu siklus lagi"
	res, err := env.svc.ReviewAnalysis(ctx, ReviewAnalysisInput{
		CaseID: caseID, ActorID: env.counselorID, ContinueCycle: true, Note: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, caseModel.CaseStageCounseling, res.Case.AdvisoryCaseStage)
	// cycle_count hanya naik saat submit, bukan saat review
	assert.Equal(t, 1, res.Case.AdvisoryCaseCycleCount)

	// Batch counselor ronde lanjutan: judul menyebut siklus sebelumnya
	strategyTasks := env.tasksByType(t, caseID, taskModel.TaskTypeCreateStrategy)
	require.Len(t, strategyTasks, 2)
	assert.Contains(t, strategyTasks[1].AdvisoryTaskTitle, "lanjutan siklus 1")
	assert.Equal(t, taskModel.TaskStatusPending, strategyTasks[1].AdvisoryTaskStatus)

	assert.Contains(t, env.notifier.eventTypes(), "cycle_started")

	// Siklus kedua berjalan: draft baru bernomor 2
	res2, err := env.svc.IssueStrategy(ctx, IssueStrategyInput{
		CaseID: caseID, ActorID: env.counselorID, Strategy: "strategi siklus 2",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res2.Prescription.AdvisoryPrescriptionCycleNumber)
}

func TestReviewAnalysisStopCompletesCase(t *testing.T) {
	env := newTestEnv(t)
	caseID, _, _ := env.toCycling(t)
	ctx := context.Background()

	res, err := env.svc.ReviewAnalysis(ctx, ReviewAnalysisInput{
		CaseID: caseID, ActorID: env.counselorID, ContinueCycle: false,
	})
	require.NoError(t, err)
	assert.Equal(t, caseModel.CaseStageCompleted, res.Case.AdvisoryCaseStage)
	assert.NotNil(t, res.Case.AdvisoryCaseCompletedAt)

	// Tidak boleh ada task open tersisa
	var open int64
	env.db.Model(&taskModel.AdvisoryTaskModel{}).
		Where("advisory_task_case_id = ?", caseID).
		Where("advisory_task_status IN ?", []string{
			taskModel.TaskStatusPending, taskModel.TaskStatusInProgress, taskModel.TaskStatusBlocked,
		}).Count(&open)
	assert.Equal(t, int64(0), open)

	assert.Contains(t, env.notifier.eventTypes(), "case_completed")

	// Review ganda: stage sudah bergeser → invalid transition
	_, err = env.svc.ReviewAnalysis(ctx, ReviewAnalysisInput{
		CaseID: caseID, ActorID: env.counselorID, ContinueCycle: true,
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, kindOf(t, err))
}

func TestReviewAnalysisOnlyFromCycling(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.toCounseling(t)

	_, err := env.svc.ReviewAnalysis(context.Background(), ReviewAnalysisInput{
		CaseID: caseID, ActorID: env.counselorID, ContinueCycle: true,
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, kindOf(t, err))
}

/* =========================================================
 * Cancel + notes
 * ========================================================= */

func TestCancelCaseFromAnyNonTerminalStage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// dari planning
	planningCase := env.openCase(t)
	res, err := env.svc.CancelCase(ctx, CancelCaseInput{
		CaseID: planningCase, ActorID: env.plannerID, Reason: "siswa mengundurkan diri",
	})
	require.NoError(t, err)
	assert.Equal(t, caseModel.CaseStageCancelled, res.Case.AdvisoryCaseStage)

	var notes []caseModel.AdvisoryCaseNoteModel
	require.NoError(t, env.db.Where("advisory_case_note_case_id = ?", planningCase).Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, caseModel.CaseNoteTypeIssue, notes[0].AdvisoryCaseNoteType)
	assert.Contains(t, notes[0].AdvisoryCaseNoteContent, "siswa mengundurkan diri")

	// dari analyzing: task open ikut dibatalkan
	analyzingCase, _ := env.toAnalyzing(t)
	_, err = env.svc.CancelCase(ctx, CancelCaseInput{
		CaseID: analyzingCase, ActorID: env.plannerID, Reason: "pembayaran bermasalah",
	})
	require.NoError(t, err)

	var open int64
	env.db.Model(&taskModel.AdvisoryTaskModel{}).
		Where("advisory_task_case_id = ?", analyzingCase).
		Where("advisory_task_status IN ?", []string{
			taskModel.TaskStatusPending, taskModel.TaskStatusInProgress, taskModel.TaskStatusBlocked,
		}).Count(&open)
	assert.Equal(t, int64(0), open)

	assert.Contains(t, env.notifier.eventTypes(), "case_cancelled")

	// Cancel ganda → invalid transition
	_, err = env.svc.CancelCase(ctx, CancelCaseInput{
		CaseID: planningCase, ActorID: env.plannerID, Reason: "lagi",
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, kindOf(t, err))
}

func TestCancelCompletedCaseRejected(t *testing.T) {
	env := newTestEnv(t)
	caseID, _, _ := env.toCycling(t)
	ctx := context.Background()

	_, err := env.svc.ReviewAnalysis(ctx, ReviewAnalysisInput{
		CaseID: caseID, ActorID: env.counselorID, ContinueCycle: false,
	})
	require.NoError(t, err)

	_, err = env.svc.CancelCase(ctx, CancelCaseInput{
		CaseID: caseID, ActorID: env.plannerID, Reason: "terlambat",
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, kindOf(t, err))
}

func TestAddNoteAppendOnly(t *testing.T) {
	env := newTestEnv(t)
	caseID := env.openCase(t)
	ctx := context.Background()

	note, err := env.svc.AddNote(ctx, AddNoteInput{
		CaseID:  caseID,
		ActorID: env.plannerID,
		Type:    caseModel.CaseNoteTypePlanning,
		Content: "sudah dihubungi via telepon",
	})
	require.NoError(t, err)
	assert.Equal(t, caseID, note.AdvisoryCaseNoteCaseID)
	assert.Equal(t, env.plannerID, note.AdvisoryCaseNoteAuthorUserID)

	_, err = env.svc.AddNote(ctx, AddNoteInput{
		CaseID: uuid.New(), ActorID: env.plannerID,
		Type: caseModel.CaseNoteTypePlanning, Content: "nyasar",
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, kindOf(t, err))
}

/* =========================================================
 * Query
 * ========================================================= */

func TestGetCaseLoadsCurrentCycle(t *testing.T) {
	env := newTestEnv(t)
	caseID, prescriptionID, assessmentID := env.toCycling(t)

	res, err := env.svc.GetCase(context.Background(), caseID)
	require.NoError(t, err)
	assert.Equal(t, caseID, res.Case.AdvisoryCaseID)
	require.NotNil(t, res.Prescription)
	assert.Equal(t, prescriptionID, res.Prescription.AdvisoryPrescriptionID)
	assert.Len(t, res.Prescription.LearningTasks, 2)
	require.NotNil(t, res.Assessment)
	assert.Equal(t, assessmentID, res.Assessment.AdvisoryAssessmentID)

	_, err = env.svc.GetCase(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, KindNotFound, kindOf(t, err))
}
