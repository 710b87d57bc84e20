package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Event type workflow yang dikirim engine (at-most-once, fire-and-forget)
const (
	EventCounselorAssigned  = "counselor_assigned"
	EventAnalystAssigned    = "analyst_assigned"
	EventPrescriptionIssued = "prescription_issued"
	EventAnalysisCompleted  = "analysis_completed"
	EventCycleStarted       = "cycle_started"
	EventCaseCompleted      = "case_completed"
	EventCaseCancelled      = "case_cancelled"
)

type NotificationModel struct {
	NotificationID          uuid.UUID      `gorm:"column:notification_id;primaryKey;type:uuid" json:"notification_id"`
	NotificationTitle       string         `gorm:"column:notification_title;type:varchar(255);not null" json:"notification_title"`
	NotificationDescription string         `gorm:"column:notification_description;type:text" json:"notification_description"`
	NotificationEventType   string         `gorm:"column:notification_event_type;type:varchar(50);not null" json:"notification_event_type"`
	NotificationCaseID      *uuid.UUID     `gorm:"column:notification_case_id;type:uuid;index:idx_notifications_case" json:"notification_case_id,omitempty"`
	NotificationTags        pq.StringArray `gorm:"column:notification_tags;type:text[]" json:"notification_tags"`
	NotificationCreatedAt   time.Time      `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
	NotificationUpdatedAt   time.Time      `gorm:"column:notification_updated_at;autoUpdateTime" json:"notification_updated_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.NotificationID == uuid.Nil {
		m.NotificationID = uuid.New()
	}
	return nil
}
