package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipe item bebas di prescription
const (
	PrescriptionItemTypeTask       = "task"
	PrescriptionItemTypeCourse     = "course"
	PrescriptionItemTypeResource   = "resource"
	PrescriptionItemTypeAssessment = "assessment"
	PrescriptionItemTypeNote       = "note"
	PrescriptionItemTypeGoal       = "goal"
	PrescriptionItemTypeOther      = "other"
)

var PrescriptionItemTypes = []string{
	PrescriptionItemTypeTask,
	PrescriptionItemTypeCourse,
	PrescriptionItemTypeResource,
	PrescriptionItemTypeAssessment,
	PrescriptionItemTypeNote,
	PrescriptionItemTypeGoal,
	PrescriptionItemTypeOther,
}

// Item bebas ber-urutan (position) di dalam prescription.
type PrescriptionItemModel struct {
	PrescriptionItemID             uuid.UUID `gorm:"column:prescription_item_id;type:uuid;primaryKey" json:"prescription_item_id"`
	PrescriptionItemPrescriptionID uuid.UUID `gorm:"column:prescription_item_prescription_id;type:uuid;not null;index:idx_prescription_items_prescription" json:"prescription_item_prescription_id"`

	PrescriptionItemPosition int    `gorm:"column:prescription_item_position;not null" json:"prescription_item_position"`
	PrescriptionItemType     string `gorm:"column:prescription_item_type;type:varchar(20);not null" json:"prescription_item_type"`
	PrescriptionItemContent  string `gorm:"column:prescription_item_content;type:text;not null" json:"prescription_item_content"`

	PrescriptionItemCreatedAt time.Time `gorm:"column:prescription_item_created_at;autoCreateTime" json:"prescription_item_created_at"`
}

func (PrescriptionItemModel) TableName() string { return "prescription_items" }

func (m *PrescriptionItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.PrescriptionItemID == uuid.Nil {
		m.PrescriptionItemID = uuid.New()
	}
	return nil
}
