// file: internals/features/home/notifications/controller/notification_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/features/home/notifications/dto"
	"studycase_backend/internals/features/home/notifications/model"
	helper "studycase_backend/internals/helpers"
	helperAuth "studycase_backend/internals/helpers/auth"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GET /notifications
// Inbox aktor login; ?unread=true hanya yang belum dibaca.
func (ctrl *NotificationController) MyInbox(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.WithContext(c.UserContext()).
		Model(&model.UserNotificationModel{}).
		Where("user_notification_user_id = ?", actorID)
	if c.Query("unread") == "true" {
		q = q.Where("user_notification_is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung notifikasi")
	}

	var inbox []model.UserNotificationModel
	if err := q.Order("user_notification_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&inbox).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	// Ambil isi notifikasi sekali jalan, lalu gabung di memori.
	ids := make([]uuid.UUID, 0, len(inbox))
	for i := range inbox {
		ids = append(ids, inbox[i].UserNotificationNotificationID)
	}
	byID := map[uuid.UUID]model.NotificationModel{}
	if len(ids) > 0 {
		var notifs []model.NotificationModel
		if err := ctrl.DB.WithContext(c.UserContext()).
			Where("notification_id IN ?", ids).
			Find(&notifs).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
		}
		for i := range notifs {
			byID[notifs[i].NotificationID] = notifs[i]
		}
	}

	out := make([]dto.InboxItemResponse, 0, len(inbox))
	for i := range inbox {
		n, ok := byID[inbox[i].UserNotificationNotificationID]
		if !ok {
			continue
		}
		out = append(out, dto.NewInboxItemResponse(inbox[i], n))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage, len(out)))
}

// POST /notifications/:id/read
// Menandai baca milik sendiri; idempotent.
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Notification ID tidak valid")
	}

	now := time.Now()
	res := ctrl.DB.WithContext(c.UserContext()).
		Model(&model.UserNotificationModel{}).
		Where("user_notification_id = ? AND user_notification_user_id = ?", id, actorID).
		Where("user_notification_is_read = ?", false).
		Updates(map[string]any{
			"user_notification_is_read": true,
			"user_notification_read_at": now,
		})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menandai notifikasi")
	}
	if res.RowsAffected == 0 {
		// Sudah terbaca atau bukan milik aktor. Cek keberadaan untuk bedakan 404.
		var n int64
		ctrl.DB.Model(&model.UserNotificationModel{}).
			Where("user_notification_id = ? AND user_notification_user_id = ?", id, actorID).
			Count(&n)
		if n == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
		}
	}
	return helper.JsonUpdated(c, "Notifikasi ditandai terbaca", fiber.Map{"user_notification_id": id})
}

// POST /notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}

	now := time.Now()
	res := ctrl.DB.WithContext(c.UserContext()).
		Model(&model.UserNotificationModel{}).
		Where("user_notification_user_id = ?", actorID).
		Where("user_notification_is_read = ?", false).
		Updates(map[string]any{
			"user_notification_is_read": true,
			"user_notification_read_at": now,
		})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menandai notifikasi")
	}
	return helper.JsonUpdated(c, "Semua notifikasi ditandai terbaca", fiber.Map{"updated": res.RowsAffected})
}
