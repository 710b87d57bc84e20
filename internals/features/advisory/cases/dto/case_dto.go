// file: internals/features/advisory/cases/dto/case_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	assessmentDto "studycase_backend/internals/features/advisory/assessments/dto"
	caseService "studycase_backend/internals/features/advisory/cases/service"
	m "studycase_backend/internals/features/advisory/cases/model"
	prescriptionDto "studycase_backend/internals/features/advisory/prescriptions/dto"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type OpenCaseRequest struct {
	CaseTemplateID uuid.UUID `json:"case_template_id" validate:"required"`
	StudentID      uuid.UUID `json:"student_id" validate:"required"`
}

type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,max=50"`
	PaymentNote   string `json:"payment_note" validate:"omitempty,max=500"`
}

type CreateLineGroupRequest struct {
	GroupURL string `json:"group_url" validate:"required,url"`
}

type AssignCounselorRequest struct {
	CounselorID uuid.UUID `json:"counselor_id" validate:"required"`
}

type AssignAnalystRequest struct {
	AnalystID uuid.UUID `json:"analyst_id" validate:"required"`
}

type IssueStrategyRequest struct {
	Strategy  string     `json:"strategy" validate:"required"`
	Notes     *string    `json:"notes" validate:"omitempty,max=2000"`
	Goals     []string   `json:"goals" validate:"omitempty,dive,max=255"`
	SessionID *uuid.UUID `json:"session_id" validate:"omitempty"`
}

type ReviewAnalysisRequest struct {
	ContinueCycle bool    `json:"continue_cycle"`
	Note          *string `json:"note" validate:"omitempty,max=2000"`
}

type CancelCaseRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type CreateCaseNoteRequest struct {
	NoteType    string   `json:"note_type" validate:"required,oneof=planning counseling analyzing issue"`
	Content     string   `json:"content" validate:"required"`
	Attachments []string `json:"attachments" validate:"omitempty,dive,url"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type CaseResponse struct {
	CaseID         uuid.UUID `json:"case_id"`
	CaseTemplateID uuid.UUID `json:"case_template_id"`
	StudentID      uuid.UUID `json:"student_id"`

	PlannerID   uuid.UUID  `json:"planner_id"`
	CounselorID *uuid.UUID `json:"counselor_id,omitempty"`
	AnalystID   *uuid.UUID `json:"analyst_id,omitempty"`

	Stage         string  `json:"stage"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	LineGroupURL  *string `json:"line_group_url,omitempty"`

	CycleCount int `json:"cycle_count"`

	PaidAt      *time.Time `json:"paid_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// OperationResponse: hasil operasi workflow — snapshot case + nested
// prescription/assessment kalau relevan + flag no_op (duplikat yang di-absorb).
type OperationResponse struct {
	Case         CaseResponse                          `json:"case"`
	Prescription *prescriptionDto.PrescriptionResponse `json:"prescription,omitempty"`
	Assessment   *assessmentDto.AssessmentResponse     `json:"assessment,omitempty"`
	NoOp         bool                                  `json:"no_op"`
}

type CaseNoteResponse struct {
	NoteID       uuid.UUID `json:"note_id"`
	CaseID       uuid.UUID `json:"case_id"`
	NoteType     string    `json:"note_type"`
	Content      string    `json:"content"`
	Attachments  []string  `json:"attachments,omitempty"`
	AuthorUserID uuid.UUID `json:"author_user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

/* =========================================================
 * CONVERSION
 * ========================================================= */

func NewCaseResponse(mdl m.AdvisoryCaseModel) CaseResponse {
	return CaseResponse{
		CaseID:         mdl.AdvisoryCaseID,
		CaseTemplateID: mdl.AdvisoryCaseCaseTemplateID,
		StudentID:      mdl.AdvisoryCaseStudentID,
		PlannerID:      mdl.AdvisoryCasePlannerID,
		CounselorID:    mdl.AdvisoryCaseCounselorID,
		AnalystID:      mdl.AdvisoryCaseAnalystID,
		Stage:          mdl.AdvisoryCaseStage,
		PaymentStatus:  mdl.AdvisoryCasePaymentStatus,
		PaymentMethod:  mdl.AdvisoryCasePaymentMethod,
		LineGroupURL:   mdl.AdvisoryCaseLineGroupURL,
		CycleCount:     mdl.AdvisoryCaseCycleCount,
		PaidAt:         mdl.AdvisoryCasePaidAt,
		StartedAt:      mdl.AdvisoryCaseStartedAt,
		CompletedAt:    mdl.AdvisoryCaseCompletedAt,
		CreatedAt:      mdl.AdvisoryCaseCreatedAt,
	}
}

func NewOperationResponse(res *caseService.OpResult) OperationResponse {
	out := OperationResponse{
		Case: NewCaseResponse(res.Case),
		NoOp: res.NoOp,
	}
	if res.Prescription != nil {
		p := prescriptionDto.NewPrescriptionResponse(*res.Prescription)
		out.Prescription = &p
	}
	if res.Assessment != nil {
		a := assessmentDto.NewAssessmentResponse(*res.Assessment)
		out.Assessment = &a
	}
	return out
}

func NewCaseNoteResponse(mdl m.AdvisoryCaseNoteModel) CaseNoteResponse {
	return CaseNoteResponse{
		NoteID:       mdl.AdvisoryCaseNoteID,
		CaseID:       mdl.AdvisoryCaseNoteCaseID,
		NoteType:     mdl.AdvisoryCaseNoteType,
		Content:      mdl.AdvisoryCaseNoteContent,
		Attachments:  mdl.AdvisoryCaseNoteAttachments,
		AuthorUserID: mdl.AdvisoryCaseNoteAuthorUserID,
		CreatedAt:    mdl.AdvisoryCaseNoteCreatedAt,
	}
}

func NewCaseNoteResponseList(models []m.AdvisoryCaseNoteModel) []CaseNoteResponse {
	out := make([]CaseNoteResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewCaseNoteResponse(mdl))
	}
	return out
}
