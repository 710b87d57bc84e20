// file: internals/features/home/notifications/dto/notification_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "studycase_backend/internals/features/home/notifications/model"
)

// Satu baris inbox: user_notification + isi notifikasinya.
type InboxItemResponse struct {
	UserNotificationID uuid.UUID  `json:"user_notification_id"`
	NotificationID     uuid.UUID  `json:"notification_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	EventType          string     `json:"event_type"`
	CaseID             *uuid.UUID `json:"case_id,omitempty"`
	Tags               []string   `json:"tags,omitempty"`
	IsRead             bool       `json:"is_read"`
	ReadAt             *time.Time `json:"read_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewInboxItemResponse(un m.UserNotificationModel, n m.NotificationModel) InboxItemResponse {
	return InboxItemResponse{
		UserNotificationID: un.UserNotificationID,
		NotificationID:     n.NotificationID,
		Title:              n.NotificationTitle,
		Description:        n.NotificationDescription,
		EventType:          n.NotificationEventType,
		CaseID:             n.NotificationCaseID,
		Tags:               n.NotificationTags,
		IsRead:             un.UserNotificationIsRead,
		ReadAt:             un.UserNotificationReadAt,
		CreatedAt:          un.UserNotificationCreatedAt,
	}
}
