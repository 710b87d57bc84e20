package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LearningTaskStatusPending    = "pending"
	LearningTaskStatusInProgress = "in_progress"
	LearningTaskStatusCompleted  = "completed"
)

// Tugas belajar siswa di dalam satu prescription.
type PrescriptionLearningTaskModel struct {
	PrescriptionLearningTaskID             uuid.UUID `gorm:"column:prescription_learning_task_id;type:uuid;primaryKey" json:"prescription_learning_task_id"`
	PrescriptionLearningTaskPrescriptionID uuid.UUID `gorm:"column:prescription_learning_task_prescription_id;type:uuid;not null;index:idx_prescription_learning_tasks_prescription" json:"prescription_learning_task_prescription_id"`

	PrescriptionLearningTaskTitle       string  `gorm:"column:prescription_learning_task_title;type:varchar(255);not null" json:"prescription_learning_task_title"`
	PrescriptionLearningTaskDescription *string `gorm:"column:prescription_learning_task_description;type:text" json:"prescription_learning_task_description,omitempty"`

	PrescriptionLearningTaskStatus   string `gorm:"column:prescription_learning_task_status;type:varchar(20);not null" json:"prescription_learning_task_status"`
	PrescriptionLearningTaskProgress int    `gorm:"column:prescription_learning_task_progress;not null" json:"prescription_learning_task_progress"` // 0..100

	// Advisory saja, tidak di-enforce timer
	PrescriptionLearningTaskDueDate *time.Time `gorm:"column:prescription_learning_task_due_date;type:date" json:"prescription_learning_task_due_date,omitempty"`

	PrescriptionLearningTaskCreatedAt time.Time `gorm:"column:prescription_learning_task_created_at;autoCreateTime" json:"prescription_learning_task_created_at"`
	PrescriptionLearningTaskUpdatedAt time.Time `gorm:"column:prescription_learning_task_updated_at;autoUpdateTime" json:"prescription_learning_task_updated_at"`
}

func (PrescriptionLearningTaskModel) TableName() string { return "prescription_learning_tasks" }

func (m *PrescriptionLearningTaskModel) BeforeCreate(tx *gorm.DB) error {
	if m.PrescriptionLearningTaskID == uuid.Nil {
		m.PrescriptionLearningTaskID = uuid.New()
	}
	return nil
}
