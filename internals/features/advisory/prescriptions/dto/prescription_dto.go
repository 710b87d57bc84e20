// file: internals/features/advisory/prescriptions/dto/prescription_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "studycase_backend/internals/features/advisory/prescriptions/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CourseRecommendationRequest struct {
	CourseTemplateID    uuid.UUID `json:"course_template_id" validate:"required"`
	Reason              string    `json:"reason" validate:"required,max=1000"`
	RecommendedSessions int       `json:"recommended_sessions" validate:"required,min=1,max=100"`
}

type LearningTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	DueDate     *time.Time `json:"due_date" validate:"omitempty"`
}

type PrescriptionItemRequest struct {
	Type    string `json:"type" validate:"required,oneof=task course resource assessment note goal other"`
	Content string `json:"content" validate:"required,max=2000"`
}

type FinalizePrescriptionRequest struct {
	Courses       []CourseRecommendationRequest `json:"courses" validate:"omitempty,dive"`
	LearningTasks []LearningTaskRequest         `json:"learning_tasks" validate:"omitempty,dive"`
	Items         []PrescriptionItemRequest     `json:"items" validate:"omitempty,dive"`
}

type UpdateLearningTaskRequest struct {
	Status   *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Progress *int       `json:"progress" validate:"omitempty,min=0,max=100"`
	DueDate  *time.Time `json:"due_date" validate:"omitempty"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type PrescriptionCourseResponse struct {
	ID                  uuid.UUID `json:"id"`
	CourseTemplateID    uuid.UUID `json:"course_template_id"`
	Reason              string    `json:"reason"`
	RecommendedSessions int       `json:"recommended_sessions"`
}

type LearningTaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type PrescriptionItemResponse struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
	Type     string    `json:"type"`
	Content  string    `json:"content"`
}

type PrescriptionResponse struct {
	PrescriptionID uuid.UUID  `json:"prescription_id"`
	CaseID         uuid.UUID  `json:"case_id"`
	CounselorID    uuid.UUID  `json:"counselor_id"`
	SessionID      *uuid.UUID `json:"session_id,omitempty"`

	CycleNumber int      `json:"cycle_number"`
	Status      string   `json:"status"`
	Strategy    string   `json:"strategy"`
	Notes       *string  `json:"notes,omitempty"`
	Goals       []string `json:"goals,omitempty"`

	IssuedAt    *time.Time `json:"issued_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	Courses       []PrescriptionCourseResponse `json:"courses,omitempty"`
	LearningTasks []LearningTaskResponse       `json:"learning_tasks,omitempty"`
	Items         []PrescriptionItemResponse   `json:"items,omitempty"`

	// Metrik turunan: completed / total learning task (0 kalau kosong)
	TaskCompletionRate *float64 `json:"task_completion_rate,omitempty"`
}

/* =========================================================
 * CONVERSION
 * ========================================================= */

func NewPrescriptionResponse(mdl m.AdvisoryPrescriptionModel) PrescriptionResponse {
	out := PrescriptionResponse{
		PrescriptionID: mdl.AdvisoryPrescriptionID,
		CaseID:         mdl.AdvisoryPrescriptionCaseID,
		CounselorID:    mdl.AdvisoryPrescriptionCounselorID,
		SessionID:      mdl.AdvisoryPrescriptionSessionID,
		CycleNumber:    mdl.AdvisoryPrescriptionCycleNumber,
		Status:         mdl.AdvisoryPrescriptionStatus,
		Strategy:       mdl.AdvisoryPrescriptionStrategy,
		Notes:          mdl.AdvisoryPrescriptionNotes,
		Goals:          mdl.AdvisoryPrescriptionGoals,
		IssuedAt:       mdl.AdvisoryPrescriptionIssuedAt,
		CompletedAt:    mdl.AdvisoryPrescriptionCompletedAt,
		CreatedAt:      mdl.AdvisoryPrescriptionCreatedAt,
	}
	for _, c := range mdl.Courses {
		out.Courses = append(out.Courses, PrescriptionCourseResponse{
			ID:                  c.PrescriptionCourseID,
			CourseTemplateID:    c.PrescriptionCourseCourseTemplateID,
			Reason:              c.PrescriptionCourseReason,
			RecommendedSessions: c.PrescriptionCourseRecommendedSess,
		})
	}
	for _, lt := range mdl.LearningTasks {
		out.LearningTasks = append(out.LearningTasks, NewLearningTaskResponse(lt))
	}
	for _, it := range mdl.Items {
		out.Items = append(out.Items, PrescriptionItemResponse{
			ID:       it.PrescriptionItemID,
			Position: it.PrescriptionItemPosition,
			Type:     it.PrescriptionItemType,
			Content:  it.PrescriptionItemContent,
		})
	}
	return out
}

func NewLearningTaskResponse(mdl m.PrescriptionLearningTaskModel) LearningTaskResponse {
	return LearningTaskResponse{
		ID:          mdl.PrescriptionLearningTaskID,
		Title:       mdl.PrescriptionLearningTaskTitle,
		Description: mdl.PrescriptionLearningTaskDescription,
		Status:      mdl.PrescriptionLearningTaskStatus,
		Progress:    mdl.PrescriptionLearningTaskProgress,
		DueDate:     mdl.PrescriptionLearningTaskDueDate,
	}
}

func NewPrescriptionResponseList(models []m.AdvisoryPrescriptionModel) []PrescriptionResponse {
	out := make([]PrescriptionResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewPrescriptionResponse(mdl))
	}
	return out
}
