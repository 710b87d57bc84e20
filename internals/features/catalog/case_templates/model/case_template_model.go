package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template penawaran case-based (dipakai saat siswa enroll).
type CaseTemplateModel struct {
	CaseTemplateID uuid.UUID `gorm:"column:case_template_id;type:uuid;primaryKey" json:"case_template_id"`

	CaseTemplateName        string  `gorm:"column:case_template_name;type:varchar(255);not null" json:"case_template_name"`
	CaseTemplateDescription *string `gorm:"column:case_template_description;type:text" json:"case_template_description,omitempty"`

	CaseTemplatePrice    int64 `gorm:"column:case_template_price;not null" json:"case_template_price"`
	CaseTemplateIsActive bool  `gorm:"column:case_template_is_active;not null" json:"case_template_is_active"`

	CaseTemplateCreatedAt time.Time      `gorm:"column:case_template_created_at;autoCreateTime" json:"case_template_created_at"`
	CaseTemplateUpdatedAt time.Time      `gorm:"column:case_template_updated_at;autoUpdateTime" json:"case_template_updated_at"`
	CaseTemplateDeletedAt gorm.DeletedAt `gorm:"column:case_template_deleted_at;index" json:"case_template_deleted_at,omitempty"`
}

func (CaseTemplateModel) TableName() string { return "case_templates" }

func (m *CaseTemplateModel) BeforeCreate(tx *gorm.DB) error {
	if m.CaseTemplateID == uuid.Nil {
		m.CaseTemplateID = uuid.New()
	}
	return nil
}
