// file: internals/features/advisory/assessments/dto/assessment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "studycase_backend/internals/features/advisory/assessments/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CreateAssessmentRequest struct {
	PrescriptionID uuid.UUID      `json:"prescription_id" validate:"required"`
	TestContent    datatypes.JSON `json:"test_content" validate:"omitempty"`
}

type SubmitAnalysisRequest struct {
	Report          string         `json:"report" validate:"required"`
	Metrics         datatypes.JSON `json:"metrics" validate:"omitempty"`
	Recommendations *string        `json:"recommendations" validate:"omitempty,max=5000"`
	TestResults     datatypes.JSON `json:"test_results" validate:"omitempty"`
	TestScore       *float64       `json:"test_score" validate:"omitempty,min=0,max=100"`
	StudyHours      *float64       `json:"study_hours" validate:"omitempty,min=0"`
	TasksCompleted  *int           `json:"tasks_completed" validate:"omitempty,min=0"`
	CoursesAttended *int           `json:"courses_attended" validate:"omitempty,min=0"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type AssessmentResponse struct {
	AssessmentID   uuid.UUID `json:"assessment_id"`
	PrescriptionID uuid.UUID `json:"prescription_id"`
	AnalystID      uuid.UUID `json:"analyst_id"`

	TestContent datatypes.JSON `json:"test_content,omitempty"`
	TestResults datatypes.JSON `json:"test_results,omitempty"`
	TestScore   *float64       `json:"test_score,omitempty"`

	Report          *string        `json:"report,omitempty"`
	Metrics         datatypes.JSON `json:"metrics,omitempty"`
	Recommendations *string        `json:"recommendations,omitempty"`

	StudyHours      *float64 `json:"study_hours,omitempty"`
	TasksCompleted  *int     `json:"tasks_completed,omitempty"`
	CoursesAttended *int     `json:"courses_attended,omitempty"`

	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewAssessmentResponse(mdl m.AdvisoryAssessmentModel) AssessmentResponse {
	return AssessmentResponse{
		AssessmentID:    mdl.AdvisoryAssessmentID,
		PrescriptionID:  mdl.AdvisoryAssessmentPrescriptionID,
		AnalystID:       mdl.AdvisoryAssessmentAnalystID,
		TestContent:     mdl.AdvisoryAssessmentTestContent,
		TestResults:     mdl.AdvisoryAssessmentTestResults,
		TestScore:       mdl.AdvisoryAssessmentTestScore,
		Report:          mdl.AdvisoryAssessmentReport,
		Metrics:         mdl.AdvisoryAssessmentMetrics,
		Recommendations: mdl.AdvisoryAssessmentRecommendations,
		StudyHours:      mdl.AdvisoryAssessmentStudyHours,
		TasksCompleted:  mdl.AdvisoryAssessmentTasksCompleted,
		CoursesAttended: mdl.AdvisoryAssessmentCoursesAttended,
		Status:          mdl.AdvisoryAssessmentStatus,
		SubmittedAt:     mdl.AdvisoryAssessmentSubmittedAt,
		CompletedAt:     mdl.AdvisoryAssessmentCompletedAt,
		CreatedAt:       mdl.AdvisoryAssessmentCreatedAt,
	}
}
