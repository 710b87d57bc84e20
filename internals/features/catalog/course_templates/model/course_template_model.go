package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template course yang boleh direkomendasikan di prescription.
type CourseTemplateModel struct {
	CourseTemplateID uuid.UUID `gorm:"column:course_template_id;type:uuid;primaryKey" json:"course_template_id"`

	CourseTemplateName        string  `gorm:"column:course_template_name;type:varchar(255);not null" json:"course_template_name"`
	CourseTemplateSubject     string  `gorm:"column:course_template_subject;type:varchar(100);not null" json:"course_template_subject"`
	CourseTemplateLevel       *string `gorm:"column:course_template_level;type:varchar(50)" json:"course_template_level,omitempty"`
	CourseTemplateDescription *string `gorm:"column:course_template_description;type:text" json:"course_template_description,omitempty"`

	CourseTemplateDefaultSessions int  `gorm:"column:course_template_default_sessions;not null" json:"course_template_default_sessions"`
	CourseTemplateIsActive        bool `gorm:"column:course_template_is_active;not null" json:"course_template_is_active"`

	CourseTemplateCreatedAt time.Time      `gorm:"column:course_template_created_at;autoCreateTime" json:"course_template_created_at"`
	CourseTemplateUpdatedAt time.Time      `gorm:"column:course_template_updated_at;autoUpdateTime" json:"course_template_updated_at"`
	CourseTemplateDeletedAt gorm.DeletedAt `gorm:"column:course_template_deleted_at;index" json:"course_template_deleted_at,omitempty"`
}

func (CourseTemplateModel) TableName() string { return "course_templates" }

func (m *CourseTemplateModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseTemplateID == uuid.Nil {
		m.CourseTemplateID = uuid.New()
	}
	return nil
}
