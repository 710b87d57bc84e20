package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Tipe note mengikuti stage asalnya; "issue" dipakai untuk pembatalan/masalah.
const (
	CaseNoteTypePlanning   = "planning"
	CaseNoteTypeCounseling = "counseling"
	CaseNoteTypeAnalyzing  = "analyzing"
	CaseNoteTypeIssue      = "issue"
)

// Append-only: tidak pernah di-update atau dihapus setelah dibuat.
type AdvisoryCaseNoteModel struct {
	AdvisoryCaseNoteID     uuid.UUID `gorm:"column:advisory_case_note_id;type:uuid;primaryKey" json:"advisory_case_note_id"`
	AdvisoryCaseNoteCaseID uuid.UUID `gorm:"column:advisory_case_note_case_id;type:uuid;not null;index:idx_advisory_case_notes_case" json:"advisory_case_note_case_id"`

	AdvisoryCaseNoteType         string         `gorm:"column:advisory_case_note_type;type:varchar(20);not null" json:"advisory_case_note_type"`
	AdvisoryCaseNoteContent      string         `gorm:"column:advisory_case_note_content;type:text;not null" json:"advisory_case_note_content"`
	AdvisoryCaseNoteAttachments  pq.StringArray `gorm:"column:advisory_case_note_attachments;type:text[]" json:"advisory_case_note_attachments,omitempty"`
	AdvisoryCaseNoteAuthorUserID uuid.UUID      `gorm:"column:advisory_case_note_author_user_id;type:uuid;not null" json:"advisory_case_note_author_user_id"`

	AdvisoryCaseNoteCreatedAt time.Time `gorm:"column:advisory_case_note_created_at;autoCreateTime" json:"advisory_case_note_created_at"`
}

func (AdvisoryCaseNoteModel) TableName() string { return "advisory_case_notes" }

func (m *AdvisoryCaseNoteModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdvisoryCaseNoteID == uuid.Nil {
		m.AdvisoryCaseNoteID = uuid.New()
	}
	return nil
}
