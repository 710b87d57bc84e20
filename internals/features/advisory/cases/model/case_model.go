package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stage state machine case (enum di-handle di sisi kode).
// Transisi maju saja kecuali cycling→counseling (loop siklus) dan
// cancelled yang bisa dicapai dari semua stage non-terminal.
const (
	CaseStagePlanning   = "planning"
	CaseStageCounseling = "counseling"
	CaseStageAnalyzing  = "analyzing"
	CaseStageCycling    = "cycling"
	CaseStageCompleted  = "completed"
	CaseStageCancelled  = "cancelled"
)

const (
	CasePaymentPending   = "pending"
	CasePaymentConfirmed = "confirmed"
)

type AdvisoryCaseModel struct {
	AdvisoryCaseID uuid.UUID `gorm:"column:advisory_case_id;type:uuid;primaryKey" json:"advisory_case_id"`

	AdvisoryCaseCaseTemplateID uuid.UUID `gorm:"column:advisory_case_case_template_id;type:uuid;not null" json:"advisory_case_case_template_id"`
	AdvisoryCaseStudentID      uuid.UUID `gorm:"column:advisory_case_student_id;type:uuid;not null;index:idx_advisory_cases_student" json:"advisory_case_student_id"`

	// Aktor: planner wajib sejak create, counselor/analyst diisi lewat operasi assign
	AdvisoryCasePlannerID   uuid.UUID  `gorm:"column:advisory_case_planner_id;type:uuid;not null;index:idx_advisory_cases_planner" json:"advisory_case_planner_id"`
	AdvisoryCaseCounselorID *uuid.UUID `gorm:"column:advisory_case_counselor_id;type:uuid;index:idx_advisory_cases_counselor" json:"advisory_case_counselor_id,omitempty"`
	AdvisoryCaseAnalystID   *uuid.UUID `gorm:"column:advisory_case_analyst_id;type:uuid;index:idx_advisory_cases_analyst" json:"advisory_case_analyst_id,omitempty"`

	AdvisoryCaseStage         string `gorm:"column:advisory_case_stage;type:varchar(20);not null" json:"advisory_case_stage"`
	AdvisoryCasePaymentStatus string `gorm:"column:advisory_case_payment_status;type:varchar(20);not null" json:"advisory_case_payment_status"`

	// Metadata konfirmasi pembayaran (settlement terjadi di luar sistem ini)
	AdvisoryCasePaymentMethod *string `gorm:"column:advisory_case_payment_method;type:varchar(50)" json:"advisory_case_payment_method,omitempty"`
	AdvisoryCasePaymentNote   *string `gorm:"column:advisory_case_payment_note;type:text" json:"advisory_case_payment_note,omitempty"`

	// Referensi grup komunikasi (LINE) milik case
	AdvisoryCaseLineGroupURL *string `gorm:"column:advisory_case_line_group_url;type:text" json:"advisory_case_line_group_url,omitempty"`

	// Naik tepat satu kali per submit analysis
	AdvisoryCaseCycleCount int `gorm:"column:advisory_case_cycle_count;not null" json:"advisory_case_cycle_count"`

	// Timestamp monoton, masing-masing diisi paling banyak sekali
	AdvisoryCasePaidAt      *time.Time `gorm:"column:advisory_case_paid_at" json:"advisory_case_paid_at,omitempty"`
	AdvisoryCaseStartedAt   *time.Time `gorm:"column:advisory_case_started_at" json:"advisory_case_started_at,omitempty"`
	AdvisoryCaseCompletedAt *time.Time `gorm:"column:advisory_case_completed_at" json:"advisory_case_completed_at,omitempty"`

	AdvisoryCaseCreatedAt time.Time      `gorm:"column:advisory_case_created_at;autoCreateTime" json:"advisory_case_created_at"`
	AdvisoryCaseUpdatedAt time.Time      `gorm:"column:advisory_case_updated_at;autoUpdateTime" json:"advisory_case_updated_at"`
	AdvisoryCaseDeletedAt gorm.DeletedAt `gorm:"column:advisory_case_deleted_at;index" json:"advisory_case_deleted_at,omitempty"`
}

func (AdvisoryCaseModel) TableName() string { return "advisory_cases" }

func (m *AdvisoryCaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdvisoryCaseID == uuid.Nil {
		m.AdvisoryCaseID = uuid.New()
	}
	return nil
}

// IsTerminal: setelah ini tidak ada pembuatan task baru.
func (m *AdvisoryCaseModel) IsTerminal() bool {
	return m.AdvisoryCaseStage == CaseStageCompleted || m.AdvisoryCaseStage == CaseStageCancelled
}
