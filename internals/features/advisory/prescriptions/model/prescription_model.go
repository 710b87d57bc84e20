package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	PrescriptionStatusDraft     = "draft"
	PrescriptionStatusIssued    = "issued"
	PrescriptionStatusCompleted = "completed"
)

type AdvisoryPrescriptionModel struct {
	AdvisoryPrescriptionID     uuid.UUID `gorm:"column:advisory_prescription_id;type:uuid;primaryKey" json:"advisory_prescription_id"`
	AdvisoryPrescriptionCaseID uuid.UUID `gorm:"column:advisory_prescription_case_id;type:uuid;not null;index:idx_advisory_prescriptions_case;uniqueIndex:uq_advisory_prescription_cycle,priority:1" json:"advisory_prescription_case_id"`

	AdvisoryPrescriptionCounselorID uuid.UUID  `gorm:"column:advisory_prescription_counselor_id;type:uuid;not null" json:"advisory_prescription_counselor_id"`
	AdvisoryPrescriptionSessionID   *uuid.UUID `gorm:"column:advisory_prescription_session_id;type:uuid" json:"advisory_prescription_session_id,omitempty"`

	// Unik & berurutan per case, mulai dari 1 (cycle_count+1 saat draft)
	AdvisoryPrescriptionCycleNumber int `gorm:"column:advisory_prescription_cycle_number;not null;uniqueIndex:uq_advisory_prescription_cycle,priority:2" json:"advisory_prescription_cycle_number"`

	AdvisoryPrescriptionStatus   string         `gorm:"column:advisory_prescription_status;type:varchar(20);not null" json:"advisory_prescription_status"`
	AdvisoryPrescriptionStrategy string         `gorm:"column:advisory_prescription_strategy;type:text;not null" json:"advisory_prescription_strategy"`
	AdvisoryPrescriptionNotes    *string        `gorm:"column:advisory_prescription_notes;type:text" json:"advisory_prescription_notes,omitempty"`
	AdvisoryPrescriptionGoals    pq.StringArray `gorm:"column:advisory_prescription_goals;type:text[]" json:"advisory_prescription_goals,omitempty"`

	AdvisoryPrescriptionIssuedAt    *time.Time `gorm:"column:advisory_prescription_issued_at" json:"advisory_prescription_issued_at,omitempty"`
	AdvisoryPrescriptionCompletedAt *time.Time `gorm:"column:advisory_prescription_completed_at" json:"advisory_prescription_completed_at,omitempty"`

	AdvisoryPrescriptionCreatedAt time.Time      `gorm:"column:advisory_prescription_created_at;autoCreateTime" json:"advisory_prescription_created_at"`
	AdvisoryPrescriptionUpdatedAt time.Time      `gorm:"column:advisory_prescription_updated_at;autoUpdateTime" json:"advisory_prescription_updated_at"`
	AdvisoryPrescriptionDeletedAt gorm.DeletedAt `gorm:"column:advisory_prescription_deleted_at;index" json:"advisory_prescription_deleted_at,omitempty"`

	// Asosiasi (dimuat manual saat perlu, bukan cascade ORM)
	Courses       []PrescriptionCourseModel       `gorm:"foreignKey:PrescriptionCoursePrescriptionID;references:AdvisoryPrescriptionID" json:"courses,omitempty"`
	LearningTasks []PrescriptionLearningTaskModel `gorm:"foreignKey:PrescriptionLearningTaskPrescriptionID;references:AdvisoryPrescriptionID" json:"learning_tasks,omitempty"`
	Items         []PrescriptionItemModel         `gorm:"foreignKey:PrescriptionItemPrescriptionID;references:AdvisoryPrescriptionID" json:"items,omitempty"`
}

func (AdvisoryPrescriptionModel) TableName() string { return "advisory_prescriptions" }

func (m *AdvisoryPrescriptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdvisoryPrescriptionID == uuid.Nil {
		m.AdvisoryPrescriptionID = uuid.New()
	}
	return nil
}
