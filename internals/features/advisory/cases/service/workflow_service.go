package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	assessmentModel "studycase_backend/internals/features/advisory/assessments/model"
	caseModel "studycase_backend/internals/features/advisory/cases/model"
	prescriptionModel "studycase_backend/internals/features/advisory/prescriptions/model"
	taskModel "studycase_backend/internals/features/advisory/tasks/model"
	taskService "studycase_backend/internals/features/advisory/tasks/service"
	courseTemplateModel "studycase_backend/internals/features/catalog/course_templates/model"
)

// Notifier adalah kontrak kolaborator notifikasi: dispatch at-most-once,
// fire-and-forget. Engine tidak memeriksa hasil delivery dan tidak retry.
type Notifier interface {
	Dispatch(recipients []uuid.UUID, eventType, title, description string, caseID uuid.UUID)
}

// event yang dikumpulkan di dalam transaksi, dikirim setelah commit
type pendingEvent struct {
	recipients  []uuid.UUID
	eventType   string
	title       string
	description string
	caseID      uuid.UUID
}

// WorkflowService: state machine case + orkestrasi task/prescription/assessment.
// Setiap operasi = satu transaksi; row case di-lock FOR UPDATE sebagai mutex
// alami sehingga dua operasi pada case yang sama terserialisasi.
type WorkflowService struct {
	db       *gorm.DB
	tasks    *taskService.TaskGraphService
	notifier Notifier
}

func NewWorkflowService(db *gorm.DB, notifier Notifier) *WorkflowService {
	return &WorkflowService{
		db:       db,
		tasks:    taskService.NewTaskGraphService(),
		notifier: notifier,
	}
}

// OpResult: snapshot hasil operasi. NoOp=true artinya invokasi duplikat yang
// di-absorb (bukan error); state yang dikembalikan adalah state sekarang.
type OpResult struct {
	Case         caseModel.AdvisoryCaseModel
	Prescription *prescriptionModel.AdvisoryPrescriptionModel
	Assessment   *assessmentModel.AdvisoryAssessmentModel
	NoOp         bool

	events []pendingEvent
}

func (r *OpResult) addEvent(recipients []uuid.UUID, eventType, title, description string, caseID uuid.UUID) {
	// penerima nil/duplikat disaring di sini supaya dispatcher polos
	seen := map[uuid.UUID]struct{}{}
	clean := make([]uuid.UUID, 0, len(recipients))
	for _, r := range recipients {
		if r == uuid.Nil {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		clean = append(clean, r)
	}
	if len(clean) == 0 {
		return
	}
	r.events = append(r.events, pendingEvent{
		recipients:  clean,
		eventType:   eventType,
		title:       title,
		description: description,
		caseID:      caseID,
	})
}

// dispatchAfterCommit mengirim event yang terkumpul. Dipanggil HANYA setelah
// transaksi sukses; kegagalan dispatch urusan kolaborator, bukan engine.
func (s *WorkflowService) dispatchAfterCommit(res *OpResult) {
	if s.notifier == nil || res == nil {
		return
	}
	for _, ev := range res.events {
		s.notifier.Dispatch(ev.recipients, ev.eventType, ev.title, ev.description, ev.caseID)
	}
	res.events = nil
}

// lockCase mengambil row case dengan FOR UPDATE. SQLite tidak kenal
// klausa locking (transaksinya serial), jadi hanya dipasang di Postgres.
func (s *WorkflowService) lockCase(tx *gorm.DB, caseID uuid.UUID) (*caseModel.AdvisoryCaseModel, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var cs caseModel.AdvisoryCaseModel
	err := q.Where("advisory_case_id = ?", caseID).
		Take(&cs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("case %s tidak ditemukan", caseID)
		}
		return nil, err
	}
	return &cs, nil
}

func (s *WorkflowService) reloadCase(tx *gorm.DB, caseID uuid.UUID, into *OpResult) error {
	return tx.Where("advisory_case_id = ?", caseID).Take(&into.Case).Error
}

// completeTask menyelesaikan task workflow bertipe tertentu. Task yang sudah
// completed = no-op; task yang tidak pernah ada ditoleransi (case lama).
func (s *WorkflowService) completeTask(tx *gorm.DB, caseID uuid.UUID, taskType string) (alreadyDone bool, err error) {
	_, alreadyDone, err = s.tasks.CompleteByType(tx, caseID, taskType)
	if errors.Is(err, taskService.ErrTaskNotFound) {
		return false, nil
	}
	return alreadyDone, err
}

func (s *WorkflowService) appendNote(tx *gorm.DB, caseID, authorID uuid.UUID, noteType, content string) error {
	note := caseModel.AdvisoryCaseNoteModel{
		AdvisoryCaseNoteCaseID:       caseID,
		AdvisoryCaseNoteType:         noteType,
		AdvisoryCaseNoteContent:      content,
		AdvisoryCaseNoteAuthorUserID: authorID,
	}
	return tx.Create(&note).Error
}

/* =========================================================
 * OPEN CASE (enroll siswa ke penawaran case-based)
 * ========================================================= */

type OpenCaseInput struct {
	CaseTemplateID uuid.UUID
	StudentID      uuid.UUID
	PlannerID      uuid.UUID
}

func (s *WorkflowService) OpenCase(ctx context.Context, in OpenCaseInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cs := caseModel.AdvisoryCaseModel{
			AdvisoryCaseCaseTemplateID: in.CaseTemplateID,
			AdvisoryCaseStudentID:      in.StudentID,
			AdvisoryCasePlannerID:      in.PlannerID,
			AdvisoryCaseStage:          caseModel.CaseStagePlanning,
			AdvisoryCasePaymentStatus:  caseModel.CasePaymentPending,
			AdvisoryCaseCycleCount:     0,
		}
		if err := tx.Create(&cs).Error; err != nil {
			return err
		}

		// Batch task intake untuk planner (tanpa edge internal)
		if _, err := s.tasks.CreateBatch(tx, cs.AdvisoryCaseID, in.PlannerID,
			taskModel.CaseRef(cs.AdvisoryCaseID), plannerIntakeTasks()); err != nil {
			return err
		}
		return s.reloadCase(tx, cs.AdvisoryCaseID, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

/* =========================================================
 * STAGE PLANNING
 * ========================================================= */

type ConfirmPaymentInput struct {
	CaseID  uuid.UUID
	ActorID uuid.UUID
	Method  string
	Note    string
}

// ConfirmPayment: advisory atas transaksi yang settle di luar sistem.
// Invokasi kedua = no-op (tidak ada Note duplikat).
func (s *WorkflowService) ConfirmPayment(ctx context.Context, in ConfirmPaymentInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cs, err := s.lockCase(tx, in.CaseID)
		if err != nil {
			return err
		}
		if cs.AdvisoryCasePaymentStatus == caseModel.CasePaymentConfirmed {
			res.NoOp = true
			return s.reloadCase(tx, in.CaseID, res)
		}
		if cs.IsTerminal() {
			return errInvalidTransition("case sudah %s", cs.AdvisoryCaseStage)
		}

		// Webhook bisa settle terlambat (case sudah lewat planning):
		// konfirmasi hanya menyentuh status pembayaran, stage tidak pernah mundur.
		now := time.Now()
		updates := map[string]any{
			"advisory_case_payment_status": caseModel.CasePaymentConfirmed,
			"advisory_case_paid_at":        now,
		}
		if in.Method != "" {
			updates["advisory_case_payment_method"] = in.Method
		}
		if in.Note != "" {
			updates["advisory_case_payment_note"] = in.Note
		}
		if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
			Where("advisory_case_id = ?", in.CaseID).
			Updates(updates).Error; err != nil {
			return err
		}

		if _, err := s.completeTask(tx, in.CaseID, taskModel.TaskTypeConfirmPayment); err != nil {
			return err
		}
		if err := s.appendNote(tx, in.CaseID, in.ActorID, caseModel.CaseNoteTypePlanning,
			"Pembayaran dikonfirmasi ("+in.Method+")"); err != nil {
			return err
		}
		return s.reloadCase(tx, in.CaseID, res)
	})
	if err != nil {
		return nil, err
	}
	s.dispatchAfterCommit(res)
	return res, nil
}

type CreateLineGroupInput struct {
	CaseID   uuid.UUID
	ActorID  uuid.UUID
	GroupURL string
}

// CreateLineGroup menyimpan referensi grup komunikasi milik case.
func (s *WorkflowService) CreateLineGroup(ctx context.Context, in CreateLineGroupInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cs, err := s.lockCase(tx, in.CaseID)
		if err != nil {
			return err
		}
		if cs.IsTerminal() {
			return errInvalidTransition("case sudah %s", cs.AdvisoryCaseStage)
		}
		if cs.AdvisoryCaseLineGroupURL != nil && *cs.AdvisoryCaseLineGroupURL != "" {
			res.NoOp = true
			return s.reloadCase(tx, in.CaseID, res)
		}

		if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
			Where("advisory_case_id = ?", in.CaseID).
			Update("advisory_case_line_group_url", in.GroupURL).Error; err != nil {
			return err
		}
		if _, err := s.completeTask(tx, in.CaseID, taskModel.TaskTypeCreateLineGroup); err != nil {
			return err
		}
		return s.reloadCase(tx, in.CaseID, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type AssignCounselorInput struct {
	CaseID      uuid.UUID
	ActorID     uuid.UUID
	CounselorID uuid.UUID
}

// AssignCounselor menetapkan counselor. Stage TIDAK berubah — penetapan
// analyst-lah yang memajukan stage.
func (s *WorkflowService) AssignCounselor(ctx context.Context, in AssignCounselorInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cs, err := s.lockCase(tx, in.CaseID)
		if err != nil {
			return err
		}
		if cs.IsTerminal() {
			return errInvalidTransition("case sudah %s", cs.AdvisoryCaseStage)
		}
		if cs.AdvisoryCaseCounselorID != nil {
			res.NoOp = true
			return s.reloadCase(tx, in.CaseID, res)
		}

		if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
			Where("advisory_case_id = ?", in.CaseID).
			Update("advisory_case_counselor_id", in.CounselorID).Error; err != nil {
			return err
		}
		if _, err := s.completeTask(tx, in.CaseID, taskModel.TaskTypeAssignCounselor); err != nil {
			return err
		}

		res.addEvent([]uuid.UUID{in.CounselorID}, "counselor_assigned",
			"Anda ditunjuk sebagai counselor", "Case advisory baru menunggu strategi Anda.", in.CaseID)
		return s.reloadCase(tx, in.CaseID, res)
	})
	if err != nil {
		return nil, err
	}
	s.dispatchAfterCommit(res)
	return res, nil
}

type AssignAnalystInput struct {
	CaseID    uuid.UUID
	ActorID   uuid.UUID
	AnalystID uuid.UUID
}

// AssignAnalyst menetapkan analyst dan memajukan planning→counseling.
// Precondition keras: counselor sudah ditunjuk.
func (s *WorkflowService) AssignAnalyst(ctx context.Context, in AssignAnalystInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cs, err := s.lockCase(tx, in.CaseID)
		if err != nil {
			return err
		}
		if cs.IsTerminal() {
			return errInvalidTransition("case sudah %s", cs.AdvisoryCaseStage)
		}
		if cs.AdvisoryCaseAnalystID != nil {
			// duplikat: analyst sudah ada, stage sudah maju
			res.NoOp = true
			return s.reloadCase(tx, in.CaseID, res)
		}
		if cs.AdvisoryCaseStage != caseModel.CaseStagePlanning {
			return errInvalidTransition("assign analyst hanya valid dari planning, sekarang %s", cs.AdvisoryCaseStage)
		}
		if cs.AdvisoryCaseCounselorID == nil {
			return errPrecondition("counselor belum ditunjuk")
		}

		now := time.Now()
		updates := map[string]any{
			"advisory_case_analyst_id": in.AnalystID,
			"advisory_case_stage":      caseModel.CaseStageCounseling,
		}
		if cs.AdvisoryCaseStartedAt == nil {
			updates["advisory_case_started_at"] = now
		}
		if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
			Where("advisory_case_id = ?", in.CaseID).
			Updates(updates).Error; err != nil {
			return err
		}

		if _, err := s.completeTask(tx, in.CaseID, taskModel.TaskTypeAssignAnalyst); err != nil {
			return err
		}

		// Batch stage-2 untuk counselor
		if _, err := s.tasks.CreateBatch(tx, in.CaseID, *cs.AdvisoryCaseCounselorID,
			taskModel.CaseRef(in.CaseID), counselorStageTasks(cs.AdvisoryCaseCycleCount, false)); err != nil {
			return err
		}

		res.addEvent([]uuid.UUID{in.AnalystID}, "analyst_assigned",
			"Anda ditunjuk sebagai analyst", "Case advisory memasuki tahap counseling.", in.CaseID)
		return s.reloadCase(tx, in.CaseID, res)
	})
	if err != nil {
		return nil, err
	}
	s.dispatchAfterCommit(res)
	return res, nil
}

/* =========================================================
 * STAGE COUNSELING — prescription draft + finalize
 * ========================================================= */

type IssueStrategyInput struct {
	CaseID    uuid.UUID
	ActorID   uuid.UUID // counselor
	Strategy  string
	Notes     *string
	Goals     []string
	SessionID *uuid.UUID // referensi sesi counseling (opsional)
}

// IssueStrategy membuat Prescription draft dengan cycle_number = cycle_count+1.
func (s *WorkflowService) IssueStrategy(ctx context.Context, in IssueStrategyInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cs, err := s.lockCase(tx, in.CaseID)
		if err != nil {
			return err
		}
		if cs.AdvisoryCaseCounselorID == nil {
			return errPrecondition("counselor belum ditunjuk")
		}
		if cs.AdvisoryCaseStage != caseModel.CaseStageCounseling {
			return errInvalidTransition("strategi hanya bisa disusun di stage counseling, sekarang %s", cs.AdvisoryCaseStage)
		}

		cycleNumber := cs.AdvisoryCaseCycleCount + 1

		// Duplikat: prescription untuk cycle ini sudah ada
		var existing prescriptionModel.AdvisoryPrescriptionModel
		err = tx.Where("advisory_prescription_case_id = ? AND advisory_prescription_cycle_number = ?",
			in.CaseID, cycleNumber).Take(&existing).Error
		if err == nil {
			res.NoOp = true
			res.Prescription = &existing
			return s.reloadCase(tx, in.CaseID, res)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p := prescriptionModel.AdvisoryPrescriptionModel{
			AdvisoryPrescriptionCaseID:      in.CaseID,
			AdvisoryPrescriptionCounselorID: *cs.AdvisoryCaseCounselorID,
			AdvisoryPrescriptionSessionID:   in.SessionID,
			AdvisoryPrescriptionCycleNumber: cycleNumber,
			AdvisoryPrescriptionStatus:      prescriptionModel.PrescriptionStatusDraft,
			AdvisoryPrescriptionStrategy:    in.Strategy,
			AdvisoryPrescriptionNotes:       in.Notes,
			AdvisoryPrescriptionGoals:       in.Goals,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		if _, err := s.completeTask(tx, in.CaseID, taskModel.TaskTypeCreateStrategy); err != nil {
			return err
		}

		res.Prescription = &p
		return s.reloadCase(tx, in.CaseID, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type CourseRecommendationInput struct {
	CourseTemplateID    uuid.UUID
	Reason              string
	RecommendedSessions int
}

type LearningTaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

type PrescriptionItemInput struct {
	Type    string
	Content string
}

type FinalizePrescriptionInput struct {
	PrescriptionID uuid.UUID
	ActorID        uuid.UUID
	Courses        []CourseRecommendationInput
	LearningTasks  []LearningTaskInput
	Items          []PrescriptionItemInput
}

// FinalizePrescription: draft→issued + attach courses/learning tasks/items,
// stage counseling→analyzing, batch task analyst. Finalize dua kali DITOLAK
// (precondition), bukan no-op.
func (s *WorkflowService) FinalizePrescription(ctx context.Context, in FinalizePrescriptionInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p prescriptionModel.AdvisoryPrescriptionModel
		if err := tx.Where("advisory_prescription_id = ?", in.PrescriptionID).Take(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("prescription %s tidak ditemukan", in.PrescriptionID)
			}
			return err
		}

		cs, err := s.lockCase(tx, p.AdvisoryPrescriptionCaseID)
		if err != nil {
			return err
		}
		if p.AdvisoryPrescriptionStatus != prescriptionModel.PrescriptionStatusDraft {
			return errPrecondition("prescription sudah %s", p.AdvisoryPrescriptionStatus)
		}
		if cs.AdvisoryCaseStage != caseModel.CaseStageCounseling {
			return errInvalidTransition("finalize hanya valid di stage counseling, sekarang %s", cs.AdvisoryCaseStage)
		}

		// Validasi course template ke katalog SEBELUM tulis apa pun
		for _, c := range in.Courses {
			var n int64
			if err := tx.Model(&courseTemplateModel.CourseTemplateModel{}).
				Where("course_template_id = ? AND course_template_is_active = ?", c.CourseTemplateID, true).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return errPrecondition("course template %s tidak dikenal atau nonaktif", c.CourseTemplateID)
			}
		}

		for _, c := range in.Courses {
			row := prescriptionModel.PrescriptionCourseModel{
				PrescriptionCoursePrescriptionID:   p.AdvisoryPrescriptionID,
				PrescriptionCourseCourseTemplateID: c.CourseTemplateID,
				PrescriptionCourseReason:           c.Reason,
				PrescriptionCourseRecommendedSess:  c.RecommendedSessions,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, lt := range in.LearningTasks {
			row := prescriptionModel.PrescriptionLearningTaskModel{
				PrescriptionLearningTaskPrescriptionID: p.AdvisoryPrescriptionID,
				PrescriptionLearningTaskTitle:          lt.Title,
				PrescriptionLearningTaskDescription:    lt.Description,
				PrescriptionLearningTaskStatus:         prescriptionModel.LearningTaskStatusPending,
				PrescriptionLearningTaskDueDate:        lt.DueDate,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for i, it := range in.Items {
			row := prescriptionModel.PrescriptionItemModel{
				PrescriptionItemPrescriptionID: p.AdvisoryPrescriptionID,
				PrescriptionItemPosition:       i + 1,
				PrescriptionItemType:           it.Type,
				PrescriptionItemContent:        it.Content,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.Model(&prescriptionModel.AdvisoryPrescriptionModel{}).
			Where("advisory_prescription_id = ?", p.AdvisoryPrescriptionID).
			Updates(map[string]any{
				"advisory_prescription_status":    prescriptionModel.PrescriptionStatusIssued,
				"advisory_prescription_issued_at": now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
			Where("advisory_case_id = ?", cs.AdvisoryCaseID).
			Update("advisory_case_stage", caseModel.CaseStageAnalyzing).Error; err != nil {
			return err
		}

		if _, err := s.completeTask(tx, cs.AdvisoryCaseID, taskModel.TaskTypeIssuePrescription); err != nil {
			return err
		}

		// Batch analyst kalau analyst sudah ditunjuk
		if cs.AdvisoryCaseAnalystID != nil {
			if _, err := s.tasks.CreateBatch(tx, cs.AdvisoryCaseID, *cs.AdvisoryCaseAnalystID,
				taskModel.PrescriptionRef(p.AdvisoryPrescriptionID),
				analystStageTasks(p.AdvisoryPrescriptionCycleNumber)); err != nil {
				return err
			}
		}

		recipients := []uuid.UUID{cs.AdvisoryCaseStudentID}
		if cs.AdvisoryCaseAnalystID != nil {
			recipients = append(recipients, *cs.AdvisoryCaseAnalystID)
		}
		res.addEvent(recipients, "prescription_issued",
			"Prescription terbit", "Strategi belajar siklus baru sudah diterbitkan.", cs.AdvisoryCaseID)

		if err := tx.Where("advisory_prescription_id = ?", p.AdvisoryPrescriptionID).
			Take(&p).Error; err != nil {
			return err
		}
		res.Prescription = &p
		return s.reloadCase(tx, cs.AdvisoryCaseID, res)
	})
	if err != nil {
		return nil, err
	}
	s.dispatchAfterCommit(res)
	return res, nil
}

/* =========================================================
 * STAGE ANALYZING — assessment
 * ========================================================= */

type CreateAssessmentInput struct {
	PrescriptionID uuid.UUID
	ActorID        uuid.UUID // analyst
	TestContent    datatypes.JSON
}

// CreateAssessment membuat assessment draft untuk satu prescription issued.
func (s *WorkflowService) CreateAssessment(ctx context.Context, in CreateAssessmentInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p prescriptionModel.AdvisoryPrescriptionModel
		if err := tx.Where("advisory_prescription_id = ?", in.PrescriptionID).Take(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("prescription %s tidak ditemukan", in.PrescriptionID)
			}
			return err
		}
		cs, err := s.lockCase(tx, p.AdvisoryPrescriptionCaseID)
		if err != nil {
			return err
		}
		if p.AdvisoryPrescriptionStatus != prescriptionModel.PrescriptionStatusIssued {
			return errPrecondition("prescription belum issued (status %s)", p.AdvisoryPrescriptionStatus)
		}

		// Tepat satu assessment per prescription
		var existing assessmentModel.AdvisoryAssessmentModel
		err = tx.Where("advisory_assessment_prescription_id = ?", in.PrescriptionID).Take(&existing).Error
		if err == nil {
			res.NoOp = true
			res.Assessment = &existing
			return s.reloadCase(tx, cs.AdvisoryCaseID, res)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		a := assessmentModel.AdvisoryAssessmentModel{
			AdvisoryAssessmentPrescriptionID: in.PrescriptionID,
			AdvisoryAssessmentAnalystID:      in.ActorID,
			AdvisoryAssessmentTestContent:    in.TestContent,
			AdvisoryAssessmentStatus:         assessmentModel.AssessmentStatusDraft,
		}
		if err := tx.Create(&a).Error; err != nil {
			return err
		}

		if _, err := s.completeTask(tx, cs.AdvisoryCaseID, taskModel.TaskTypeCreateAssessment); err != nil {
			return err
		}

		res.Assessment = &a
		return s.reloadCase(tx, cs.AdvisoryCaseID, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// StartAssessmentReview: draft→in_review (sub-state opsional analyst).
func (s *WorkflowService) StartAssessmentReview(ctx context.Context, assessmentID, actorID uuid.UUID) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a assessmentModel.AdvisoryAssessmentModel
		if err := tx.Where("advisory_assessment_id = ?", assessmentID).Take(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("assessment %s tidak ditemukan", assessmentID)
			}
			return err
		}
		if a.AdvisoryAssessmentStatus == assessmentModel.AssessmentStatusInReview {
			res.NoOp = true
			res.Assessment = &a
			return s.caseOfPrescription(tx, a.AdvisoryAssessmentPrescriptionID, res)
		}
		if a.AdvisoryAssessmentStatus != assessmentModel.AssessmentStatusDraft {
			return errPrecondition("assessment sudah %s", a.AdvisoryAssessmentStatus)
		}
		if err := tx.Model(&assessmentModel.AdvisoryAssessmentModel{}).
			Where("advisory_assessment_id = ?", assessmentID).
			Update("advisory_assessment_status", assessmentModel.AssessmentStatusInReview).Error; err != nil {
			return err
		}
		a.AdvisoryAssessmentStatus = assessmentModel.AssessmentStatusInReview
		res.Assessment = &a
		return s.caseOfPrescription(tx, a.AdvisoryAssessmentPrescriptionID, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *WorkflowService) caseOfPrescription(tx *gorm.DB, prescriptionID uuid.UUID, res *OpResult) error {
	var p prescriptionModel.AdvisoryPrescriptionModel
	if err := tx.Where("advisory_prescription_id = ?", prescriptionID).Take(&p).Error; err != nil {
		return err
	}
	return s.reloadCase(tx, p.AdvisoryPrescriptionCaseID, res)
}

type SubmitAnalysisInput struct {
	AssessmentID    uuid.UUID
	ActorID         uuid.UUID
	Report          string
	Metrics         datatypes.JSON
	Recommendations *string
	TestResults     datatypes.JSON
	TestScore       *float64
	StudyHours      *float64
	TasksCompleted  *int
	CoursesAttended *int
}

// SubmitAnalysis: satu unit atomik — assessment completed, prescription
// completed, cycle_count naik TEPAT SEKALI, stage analyzing→cycling,
// task review untuk counselor dibuat (dengan edge dependency ke task submit).
// Submit kedua kali atas assessment yang sudah completed = no-op.
func (s *WorkflowService) SubmitAnalysis(ctx context.Context, in SubmitAnalysisInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a assessmentModel.AdvisoryAssessmentModel
		if err := tx.Where("advisory_assessment_id = ?", in.AssessmentID).Take(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("assessment %s tidak ditemukan", in.AssessmentID)
			}
			return err
		}

		var p prescriptionModel.AdvisoryPrescriptionModel
		if err := tx.Where("advisory_prescription_id = ?", a.AdvisoryAssessmentPrescriptionID).
			Take(&p).Error; err != nil {
			return err
		}
		cs, err := s.lockCase(tx, p.AdvisoryPrescriptionCaseID)
		if err != nil {
			return err
		}

		// Loser dari race submit-ganda melihat status completed di sini
		if a.AdvisoryAssessmentStatus == assessmentModel.AssessmentStatusCompleted {
			res.NoOp = true
			res.Assessment = &a
			res.Prescription = &p
			return s.reloadCase(tx, cs.AdvisoryCaseID, res)
		}
		if a.AdvisoryAssessmentStatus != assessmentModel.AssessmentStatusDraft &&
			a.AdvisoryAssessmentStatus != assessmentModel.AssessmentStatusInReview {
			return errPrecondition("assessment berstatus %s, tidak bisa disubmit", a.AdvisoryAssessmentStatus)
		}
		if p.AdvisoryPrescriptionStatus != prescriptionModel.PrescriptionStatusIssued {
			return errPrecondition("prescription belum issued (status %s)", p.AdvisoryPrescriptionStatus)
		}
		if cs.AdvisoryCaseStage != caseModel.CaseStageAnalyzing {
			return errInvalidTransition("submit analysis hanya valid dari analyzing, sekarang %s", cs.AdvisoryCaseStage)
		}

		now := time.Now()
		updates := map[string]any{
			"advisory_assessment_status":       assessmentModel.AssessmentStatusCompleted,
			"advisory_assessment_report":       in.Report,
			"advisory_assessment_submitted_at": now,
			"advisory_assessment_completed_at": now,
		}
		if in.Metrics != nil {
			updates["advisory_assessment_metrics"] = in.Metrics
		}
		if in.Recommendations != nil {
			updates["advisory_assessment_recommendations"] = *in.Recommendations
		}
		if in.TestResults != nil {
			updates["advisory_assessment_test_results"] = in.TestResults
		}
		if in.TestScore != nil {
			updates["advisory_assessment_test_score"] = *in.TestScore
		}
		if in.StudyHours != nil {
			updates["advisory_assessment_study_hours"] = *in.StudyHours
		}
		if in.TasksCompleted != nil {
			updates["advisory_assessment_tasks_completed"] = *in.TasksCompleted
		}
		if in.CoursesAttended != nil {
			updates["advisory_assessment_courses_attended"] = *in.CoursesAttended
		}
		if err := tx.Model(&assessmentModel.AdvisoryAssessmentModel{}).
			Where("advisory_assessment_id = ?", in.AssessmentID).
			Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(&prescriptionModel.AdvisoryPrescriptionModel{}).
			Where("advisory_prescription_id = ?", p.AdvisoryPrescriptionID).
			Updates(map[string]any{
				"advisory_prescription_status":       prescriptionModel.PrescriptionStatusCompleted,
				"advisory_prescription_completed_at": now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
			Where("advisory_case_id = ?", cs.AdvisoryCaseID).
			Updates(map[string]any{
				"advisory_case_stage":       caseModel.CaseStageCycling,
				"advisory_case_cycle_count": gorm.Expr("advisory_case_cycle_count + 1"),
			}).Error; err != nil {
			return err
		}

		submitTask, _, err := s.tasks.CompleteByType(tx, cs.AdvisoryCaseID, taskModel.TaskTypeSubmitAnalysis)
		if err != nil && !errors.Is(err, taskService.ErrTaskNotFound) {
			return err
		}

		// Task review untuk counselor; edge dependency ke task submit
		// (rantai sekuensial lintas siklus — tabel dependency tetap hidup)
		if cs.AdvisoryCaseCounselorID != nil {
			created, err := s.tasks.CreateBatch(tx, cs.AdvisoryCaseID, *cs.AdvisoryCaseCounselorID,
				taskModel.AssessmentRef(a.AdvisoryAssessmentID),
				counselorReviewTask(p.AdvisoryPrescriptionCycleNumber))
			if err != nil {
				return err
			}
			if submitTask != nil && len(created) > 0 {
				if err := s.tasks.AddDependency(tx, created[0].AdvisoryTaskID, submitTask.AdvisoryTaskID); err != nil {
					return err
				}
			}
		}

		recipients := []uuid.UUID{cs.AdvisoryCaseStudentID}
		if cs.AdvisoryCaseCounselorID != nil {
			recipients = append(recipients, *cs.AdvisoryCaseCounselorID)
		}
		res.addEvent(recipients, "analysis_completed",
			"Analisis selesai", "Hasil analisis siklus ini siap direview counselor.", cs.AdvisoryCaseID)

		if err := tx.Where("advisory_assessment_id = ?", in.AssessmentID).Take(&a).Error; err != nil {
			return err
		}
		if err := tx.Where("advisory_prescription_id = ?", p.AdvisoryPrescriptionID).Take(&p).Error; err != nil {
			return err
		}
		res.Assessment = &a
		res.Prescription = &p
		return s.reloadCase(tx, cs.AdvisoryCaseID, res)
	})
	if err != nil {
		return nil, err
	}
	s.dispatchAfterCommit(res)
	return res, nil
}

/* =========================================================
 * STAGE CYCLING — review keputusan lanjut / selesai
 * ========================================================= */

type ReviewAnalysisInput struct {
	CaseID        uuid.UUID
	ActorID       uuid.UUID // counselor
	ContinueCycle bool
	Note          *string
}

// ReviewAnalysis menutup siklus: lanjut (cycling→counseling, cycle_count
// TIDAK berubah) atau selesai (cycling→completed + bulk-cancel task).
// Review ganda gagal InvalidTransition karena stage sudah bergeser.
func (s *WorkflowService) ReviewAnalysis(ctx context.Context, in ReviewAnalysisInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cs, err := s.lockCase(tx, in.CaseID)
		if err != nil {
			return err
		}
		if cs.AdvisoryCaseStage != caseModel.CaseStageCycling {
			return errInvalidTransition("review hanya valid dari cycling, sekarang %s", cs.AdvisoryCaseStage)
		}

		if _, err := s.completeTask(tx, in.CaseID, taskModel.TaskTypeReviewAnalysis); err != nil {
			return err
		}
		if in.Note != nil && *in.Note != "" {
			if err := s.appendNote(tx, in.CaseID, in.ActorID, caseModel.CaseNoteTypeCounseling, *in.Note); err != nil {
				return err
			}
		}

		if in.ContinueCycle {
			if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
				Where("advisory_case_id = ?", in.CaseID).
				Update("advisory_case_stage", caseModel.CaseStageCounseling).Error; err != nil {
				return err
			}
			if cs.AdvisoryCaseCounselorID != nil {
				if _, err := s.tasks.CreateBatch(tx, in.CaseID, *cs.AdvisoryCaseCounselorID,
					taskModel.CaseRef(in.CaseID),
					counselorStageTasks(cs.AdvisoryCaseCycleCount, true)); err != nil {
					return err
				}
			}
			recipients := []uuid.UUID{cs.AdvisoryCaseStudentID}
			if cs.AdvisoryCaseCounselorID != nil {
				recipients = append(recipients, *cs.AdvisoryCaseCounselorID)
			}
			res.addEvent(recipients, "cycle_started",
				"Siklus counseling baru dimulai", "Counselor akan menyusun strategi lanjutan.", in.CaseID)
		} else {
			now := time.Now()
			if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
				Where("advisory_case_id = ?", in.CaseID).
				Updates(map[string]any{
					"advisory_case_stage":        caseModel.CaseStageCompleted,
					"advisory_case_completed_at": now,
				}).Error; err != nil {
				return err
			}
			if _, err := s.tasks.CancelOpenTasks(tx, in.CaseID); err != nil {
				return err
			}
			recipients := []uuid.UUID{cs.AdvisoryCaseStudentID, cs.AdvisoryCasePlannerID}
			if cs.AdvisoryCaseCounselorID != nil {
				recipients = append(recipients, *cs.AdvisoryCaseCounselorID)
			}
			if cs.AdvisoryCaseAnalystID != nil {
				recipients = append(recipients, *cs.AdvisoryCaseAnalystID)
			}
			res.addEvent(recipients, "case_completed",
				"Case selesai", "Seluruh siklus advisory sudah dituntaskan.", in.CaseID)
		}
		return s.reloadCase(tx, in.CaseID, res)
	})
	if err != nil {
		return nil, err
	}
	s.dispatchAfterCommit(res)
	return res, nil
}

/* =========================================================
 * CANCEL + NOTES
 * ========================================================= */

type CancelCaseInput struct {
	CaseID  uuid.UUID
	ActorID uuid.UUID
	Reason  string
}

// CancelCase: terminal dari stage non-terminal mana pun; alasan direkam
// sebagai note bertipe issue; semua task open di-bulk-cancel.
func (s *WorkflowService) CancelCase(ctx context.Context, in CancelCaseInput) (*OpResult, error) {
	res := &OpResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cs, err := s.lockCase(tx, in.CaseID)
		if err != nil {
			return err
		}
		if cs.IsTerminal() {
			return errInvalidTransition("case sudah %s", cs.AdvisoryCaseStage)
		}

		if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
			Where("advisory_case_id = ?", in.CaseID).
			Update("advisory_case_stage", caseModel.CaseStageCancelled).Error; err != nil {
			return err
		}
		if _, err := s.tasks.CancelOpenTasks(tx, in.CaseID); err != nil {
			return err
		}
		if err := s.appendNote(tx, in.CaseID, in.ActorID, caseModel.CaseNoteTypeIssue,
			"Case dibatalkan: "+in.Reason); err != nil {
			return err
		}

		res.addEvent([]uuid.UUID{cs.AdvisoryCaseStudentID, cs.AdvisoryCasePlannerID}, "case_cancelled",
			"Case dibatalkan", in.Reason, in.CaseID)
		return s.reloadCase(tx, in.CaseID, res)
	})
	if err != nil {
		return nil, err
	}
	s.dispatchAfterCommit(res)
	return res, nil
}

type AddNoteInput struct {
	CaseID      uuid.UUID
	ActorID     uuid.UUID
	Type        string
	Content     string
	Attachments []string
}

// AddNote menambah catatan append-only di luar operasi workflow.
func (s *WorkflowService) AddNote(ctx context.Context, in AddNoteInput) (*caseModel.AdvisoryCaseNoteModel, error) {
	var note caseModel.AdvisoryCaseNoteModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&caseModel.AdvisoryCaseModel{}).
			Where("advisory_case_id = ?", in.CaseID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errNotFound("case %s tidak ditemukan", in.CaseID)
		}
		note = caseModel.AdvisoryCaseNoteModel{
			AdvisoryCaseNoteCaseID:       in.CaseID,
			AdvisoryCaseNoteType:         in.Type,
			AdvisoryCaseNoteContent:      in.Content,
			AdvisoryCaseNoteAttachments:  in.Attachments,
			AdvisoryCaseNoteAuthorUserID: in.ActorID,
		}
		return tx.Create(&note).Error
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

/* =========================================================
 * QUERY
 * ========================================================= */

// GetCase memuat case + prescription siklus berjalan (beserta asosiasi)
// + assessment-nya kalau ada.
func (s *WorkflowService) GetCase(ctx context.Context, caseID uuid.UUID) (*OpResult, error) {
	res := &OpResult{}
	db := s.db.WithContext(ctx)

	if err := db.Where("advisory_case_id = ?", caseID).Take(&res.Case).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("case %s tidak ditemukan", caseID)
		}
		return nil, err
	}

	var p prescriptionModel.AdvisoryPrescriptionModel
	err := db.Preload("Courses").Preload("LearningTasks").Preload("Items").
		Where("advisory_prescription_case_id = ?", caseID).
		Order("advisory_prescription_cycle_number DESC").
		Limit(1).
		Take(&p).Error
	if err == nil {
		res.Prescription = &p
		var a assessmentModel.AdvisoryAssessmentModel
		if err := db.Where("advisory_assessment_prescription_id = ?", p.AdvisoryPrescriptionID).
			Take(&a).Error; err == nil {
			res.Assessment = &a
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return res, nil
}
