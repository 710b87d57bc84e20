package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AssessmentStatusDraft     = "draft"
	AssessmentStatusInReview  = "in_review"
	AssessmentStatusCompleted = "completed"
)

// Tepat satu assessment per prescription (uniqueIndex).
type AdvisoryAssessmentModel struct {
	AdvisoryAssessmentID             uuid.UUID `gorm:"column:advisory_assessment_id;type:uuid;primaryKey" json:"advisory_assessment_id"`
	AdvisoryAssessmentPrescriptionID uuid.UUID `gorm:"column:advisory_assessment_prescription_id;type:uuid;not null;uniqueIndex:uq_advisory_assessments_prescription" json:"advisory_assessment_prescription_id"`

	AdvisoryAssessmentAnalystID uuid.UUID `gorm:"column:advisory_assessment_analyst_id;type:uuid;not null;index:idx_advisory_assessments_analyst" json:"advisory_assessment_analyst_id"`

	AdvisoryAssessmentTestContent datatypes.JSON `gorm:"column:advisory_assessment_test_content;type:jsonb" json:"advisory_assessment_test_content,omitempty"`
	AdvisoryAssessmentTestResults datatypes.JSON `gorm:"column:advisory_assessment_test_results;type:jsonb" json:"advisory_assessment_test_results,omitempty"`
	AdvisoryAssessmentTestScore   *float64       `gorm:"column:advisory_assessment_test_score" json:"advisory_assessment_test_score,omitempty"`

	AdvisoryAssessmentReport          *string        `gorm:"column:advisory_assessment_report;type:text" json:"advisory_assessment_report,omitempty"`
	AdvisoryAssessmentMetrics         datatypes.JSON `gorm:"column:advisory_assessment_metrics;type:jsonb" json:"advisory_assessment_metrics,omitempty"`
	AdvisoryAssessmentRecommendations *string        `gorm:"column:advisory_assessment_recommendations;type:text" json:"advisory_assessment_recommendations,omitempty"`

	// Metrik turunan dari satu siklus
	AdvisoryAssessmentStudyHours      *float64 `gorm:"column:advisory_assessment_study_hours" json:"advisory_assessment_study_hours,omitempty"`
	AdvisoryAssessmentTasksCompleted  *int     `gorm:"column:advisory_assessment_tasks_completed" json:"advisory_assessment_tasks_completed,omitempty"`
	AdvisoryAssessmentCoursesAttended *int     `gorm:"column:advisory_assessment_courses_attended" json:"advisory_assessment_courses_attended,omitempty"`

	AdvisoryAssessmentStatus      string     `gorm:"column:advisory_assessment_status;type:varchar(20);not null" json:"advisory_assessment_status"`
	AdvisoryAssessmentSubmittedAt *time.Time `gorm:"column:advisory_assessment_submitted_at" json:"advisory_assessment_submitted_at,omitempty"`
	AdvisoryAssessmentCompletedAt *time.Time `gorm:"column:advisory_assessment_completed_at" json:"advisory_assessment_completed_at,omitempty"`

	AdvisoryAssessmentCreatedAt time.Time      `gorm:"column:advisory_assessment_created_at;autoCreateTime" json:"advisory_assessment_created_at"`
	AdvisoryAssessmentUpdatedAt time.Time      `gorm:"column:advisory_assessment_updated_at;autoUpdateTime" json:"advisory_assessment_updated_at"`
	AdvisoryAssessmentDeletedAt gorm.DeletedAt `gorm:"column:advisory_assessment_deleted_at;index" json:"advisory_assessment_deleted_at,omitempty"`
}

func (AdvisoryAssessmentModel) TableName() string { return "advisory_assessments" }

func (m *AdvisoryAssessmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdvisoryAssessmentID == uuid.Nil {
		m.AdvisoryAssessmentID = uuid.New()
	}
	return nil
}
