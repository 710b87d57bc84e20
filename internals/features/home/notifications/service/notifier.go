package service

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/features/home/notifications/model"
)

// Notifier menulis notification + inbox per penerima. Di titik transisi
// workflow dia dipanggil SETELAH commit: at-most-once, gagal cuma di-log,
// tidak pernah mem-veto mutasi case yang sudah sukses.
type Notifier struct {
	db *gorm.DB
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

func (n *Notifier) Dispatch(recipients []uuid.UUID, eventType, title, description string, caseID uuid.UUID) {
	if len(recipients) == 0 {
		return
	}

	notif := model.NotificationModel{
		NotificationTitle:       title,
		NotificationDescription: description,
		NotificationEventType:   eventType,
		NotificationCaseID:      &caseID,
		NotificationTags:        []string{"advisory", eventType},
	}
	if err := n.db.Create(&notif).Error; err != nil {
		log.Printf("[WARN] dispatch %s gagal (notification): %v", eventType, err)
		return
	}

	for _, r := range recipients {
		un := model.UserNotificationModel{
			UserNotificationUserID:         r,
			UserNotificationNotificationID: notif.NotificationID,
		}
		if err := n.db.Create(&un).Error; err != nil {
			// satu penerima gagal tidak membatalkan yang lain
			log.Printf("[WARN] dispatch %s gagal (user %s): %v", eventType, r, err)
		}
	}
}
