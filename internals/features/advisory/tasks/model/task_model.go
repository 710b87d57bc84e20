package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status task aktor (enum di-handle di sisi kode)
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusBlocked    = "blocked"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// Tipe task per stage workflow
const (
	TaskTypeConfirmPayment    = "confirm_payment"
	TaskTypeCreateLineGroup   = "create_line_group"
	TaskTypeAssignCounselor   = "assign_counselor"
	TaskTypeAssignAnalyst     = "assign_analyst"
	TaskTypeCreateStrategy    = "create_strategy"
	TaskTypeIssuePrescription = "issue_prescription"
	TaskTypeCreateAssessment  = "create_assessment"
	TaskTypeSubmitAnalysis    = "submit_analysis"
	TaskTypeReviewAnalysis    = "review_analysis"
)

// Prioritas task
const (
	TaskPriorityHigh   = "high"
	TaskPriorityNormal = "normal"
	TaskPriorityLow    = "low"
)

type AdvisoryTaskModel struct {
	AdvisoryTaskID     uuid.UUID `gorm:"column:advisory_task_id;type:uuid;primaryKey" json:"advisory_task_id"`
	AdvisoryTaskCaseID uuid.UUID `gorm:"column:advisory_task_case_id;type:uuid;not null;index:idx_advisory_tasks_case" json:"advisory_task_case_id"`

	AdvisoryTaskAssigneeUserID uuid.UUID `gorm:"column:advisory_task_assignee_user_id;type:uuid;not null;index:idx_advisory_tasks_assignee" json:"advisory_task_assignee_user_id"`
	AdvisoryTaskAssigneeRole   string    `gorm:"column:advisory_task_assignee_role;type:varchar(20);not null" json:"advisory_task_assignee_role"`

	// Subjek pekerjaan: case itu sendiri, prescription, atau assessment.
	// Disimpan sebagai pasangan kind+id; representasi Go-nya lihat task_subject.go.
	AdvisoryTaskSubjectKind string    `gorm:"column:advisory_task_subject_kind;type:varchar(20);not null" json:"advisory_task_subject_kind"`
	AdvisoryTaskSubjectID   uuid.UUID `gorm:"column:advisory_task_subject_id;type:uuid;not null" json:"advisory_task_subject_id"`

	AdvisoryTaskType     string `gorm:"column:advisory_task_type;type:varchar(30);not null;index:idx_advisory_tasks_case_type" json:"advisory_task_type"`
	AdvisoryTaskTitle    string `gorm:"column:advisory_task_title;type:varchar(255);not null" json:"advisory_task_title"`
	AdvisoryTaskStatus   string `gorm:"column:advisory_task_status;type:varchar(20);not null" json:"advisory_task_status"`
	AdvisoryTaskPriority string `gorm:"column:advisory_task_priority;type:varchar(10);not null" json:"advisory_task_priority"`

	// Due date hanya data advisory, tidak ada timer internal
	AdvisoryTaskDueAt       *time.Time `gorm:"column:advisory_task_due_at" json:"advisory_task_due_at,omitempty"`
	AdvisoryTaskStartedAt   *time.Time `gorm:"column:advisory_task_started_at" json:"advisory_task_started_at,omitempty"`
	AdvisoryTaskCompletedAt *time.Time `gorm:"column:advisory_task_completed_at" json:"advisory_task_completed_at,omitempty"`

	AdvisoryTaskCreatedAt time.Time      `gorm:"column:advisory_task_created_at;autoCreateTime" json:"advisory_task_created_at"`
	AdvisoryTaskUpdatedAt time.Time      `gorm:"column:advisory_task_updated_at;autoUpdateTime" json:"advisory_task_updated_at"`
	AdvisoryTaskDeletedAt gorm.DeletedAt `gorm:"column:advisory_task_deleted_at;index" json:"advisory_task_deleted_at,omitempty"`
}

func (AdvisoryTaskModel) TableName() string { return "advisory_tasks" }

func (m *AdvisoryTaskModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdvisoryTaskID == uuid.Nil {
		m.AdvisoryTaskID = uuid.New()
	}
	return nil
}

// IsOpen: task yang masih menggantung (akan di-bulk-cancel saat case terminal)
func (m *AdvisoryTaskModel) IsOpen() bool {
	switch m.AdvisoryTaskStatus {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusBlocked:
		return true
	}
	return false
}
