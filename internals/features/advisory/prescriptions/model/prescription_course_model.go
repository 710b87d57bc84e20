package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rekomendasi course per prescription (validasi ke katalog saat finalize).
type PrescriptionCourseModel struct {
	PrescriptionCourseID             uuid.UUID `gorm:"column:prescription_course_id;type:uuid;primaryKey" json:"prescription_course_id"`
	PrescriptionCoursePrescriptionID uuid.UUID `gorm:"column:prescription_course_prescription_id;type:uuid;not null;index:idx_prescription_courses_prescription" json:"prescription_course_prescription_id"`

	PrescriptionCourseCourseTemplateID uuid.UUID `gorm:"column:prescription_course_course_template_id;type:uuid;not null" json:"prescription_course_course_template_id"`
	PrescriptionCourseReason           string    `gorm:"column:prescription_course_reason;type:text" json:"prescription_course_reason"`
	PrescriptionCourseRecommendedSess  int       `gorm:"column:prescription_course_recommended_sessions;not null" json:"prescription_course_recommended_sessions"`

	PrescriptionCourseCreatedAt time.Time `gorm:"column:prescription_course_created_at;autoCreateTime" json:"prescription_course_created_at"`
}

func (PrescriptionCourseModel) TableName() string { return "prescription_courses" }

func (m *PrescriptionCourseModel) BeforeCreate(tx *gorm.DB) error {
	if m.PrescriptionCourseID == uuid.Nil {
		m.PrescriptionCourseID = uuid.New()
	}
	return nil
}
